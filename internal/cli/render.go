package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/veloxcheck/internal/config"
	"github.com/syssam/veloxcheck/validate"
)

func render(w io.Writer, format string, results []Result) error {
	switch format {
	case config.OutputText:
		renderText(w, results)
	default:
		renderTable(w, results)
	}
	_, err := fmt.Fprintln(w, summary(results))
	return err
}

func renderText(w io.Writer, results []Result) {
	for _, r := range results {
		_, _ = fmt.Fprintf(w, "%s:\n", r.File)
		for _, line := range strings.Split(strings.TrimRight(r.Report.String(), "\n"), "\n") {
			_, _ = fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

func renderTable(w io.Writer, results []Result) {
	titleCaser := cases.Title(language.English)
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Severity", "Kind", "Message"})
	for _, r := range results {
		if !r.Report.HasErrors() && !r.Report.HasWarnings() {
			t.AppendRow(table.Row{r.File, "OK", "", ""})
			continue
		}
		for _, err := range r.Report.Errors {
			kind := "Load"
			if k := validate.KindOf(err); k != validate.KindInvalid {
				kind = k.String()
			}
			t.AppendRow(table.Row{r.File, "Error", kind, err.Error()})
		}
		for _, warn := range r.Report.Warnings {
			code := titleCaser.String(strings.ReplaceAll(string(warn.Code), "_", " "))
			t.AppendRow(table.Row{r.File, "Warning", code, warn.String()})
		}
	}
	t.Render()
}

// summary returns the one-line outcome of a run.
func summary(results []Result) string {
	var errs, warns int
	for _, r := range results {
		errs += len(r.Report.Errors)
		warns += len(r.Report.Warnings)
	}
	return fmt.Sprintf("%d %s checked, %d %s, %d %s",
		len(results), plural(len(results), "model"),
		errs, plural(errs, "error"),
		warns, plural(warns, "warning"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
