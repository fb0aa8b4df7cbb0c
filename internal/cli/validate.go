package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/veloxcheck/internal/config"
	"github.com/syssam/veloxcheck/model/load"
	"github.com/syssam/veloxcheck/validate"
)

// ErrValidationFailed is returned when a model has violations, or warnings
// with warnings_as_errors set.
var ErrValidationFailed = errors.New("validation failed")

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Paths []string
	Watch bool
}

// Result is the outcome of validating one model file.
type Result struct {
	File   string
	Report *validate.Report
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate [path...]",
		Short: "Validate model descriptions",
		Long: `Validate the model descriptions found at the given paths.

Paths may be model files (.yaml, .yml, .json) or directories, which are
searched recursively. Without paths the current directory is used.`,
		Example: `  # Validate every model below ./models
  veloxcheck validate ./models

  # Validate against MySQL store types
  veloxcheck validate --dialect mysql orders.yaml

  # Re-validate whenever a model file changes
  veloxcheck validate --watch ./models`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			if len(opts.Paths) == 0 {
				opts.Paths = []string{"."}
			}
			return runValidate(cmd, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-validate when model files change")
	return cmd
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions) error {
	cfg := GetConfig(cmd.Context())
	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	v, err := newValidator(cfg, logger)
	if err != nil {
		return err
	}
	if opts.Watch {
		return watch(cmd.Context(), cmd.OutOrStdout(), logger, opts.Paths, func() error {
			_, err := validateAll(cmd.Context(), cmd.OutOrStdout(), cfg, v, opts.Paths)
			return err
		})
	}
	results, err := validateAll(cmd.Context(), cmd.OutOrStdout(), cfg, v, opts.Paths)
	if err != nil {
		return err
	}
	if failed := countFailed(results, cfg.WarningsAsErrors); failed > 0 {
		return fmt.Errorf("%w: %d of %d models", ErrValidationFailed, failed, len(results))
	}
	return nil
}

// newValidator creates the validator described by cfg. Warnings are
// reported through the rendered results only.
func newValidator(cfg *config.Config, logger *slog.Logger) (*validate.Validator, error) {
	opts := []validate.Option{
		validate.WithLogger(logger),
		validate.WithDialect(cfg.Dialect),
		validate.WithSink(validate.MultiSink()),
	}
	if cfg.NormalizeTypes {
		opts = append(opts, validate.WithStoreTypeNormalization())
	}
	return validate.New(opts...)
}

// validateAll validates the model files found at paths and renders the
// results to w.
func validateAll(ctx context.Context, w io.Writer, cfg *config.Config, v *validate.Validator, paths []string) ([]Result, error) {
	files, err := modelFiles(paths)
	if err != nil {
		return nil, err
	}
	results, err := check(ctx, cfg, v, files)
	if err != nil {
		return nil, err
	}
	if err := render(w, cfg.Output, results); err != nil {
		return nil, err
	}
	return results, nil
}

// modelFiles expands paths into the model files they name or contain.
func modelFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		found, err := load.Files(p)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// check loads and validates files concurrently. Load failures are
// reported as errors of the file's result.
func check(ctx context.Context, cfg *config.Config, v *validate.Validator, files []string) ([]Result, error) {
	results := make([]Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = Result{File: file}
			m, err := load.Load(file, load.WithDefaultSchema(cfg.DefaultSchema))
			if err != nil {
				results[i].Report = &validate.Report{Errors: []error{err}}
				return nil
			}
			results[i].Report = v.Check(m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// countFailed returns the number of failed results.
func countFailed(results []Result, warningsAsErrors bool) int {
	var n int
	for _, r := range results {
		if r.Report.HasErrors() || (warningsAsErrors && r.Report.HasWarnings()) {
			n++
		}
	}
	return n
}
