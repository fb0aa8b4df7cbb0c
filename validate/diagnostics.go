package validate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/syssam/veloxcheck/model"
)

// WarningCode identifies a warning.
type WarningCode string

// Warning codes.
const (
	BoolWithDefaultWarning WarningCode = "bool_with_default"
	KeyHasDefaultWarning   WarningCode = "key_has_default"
)

// Warning is a non-fatal finding of a validation pass.
type Warning struct {
	Code     WarningCode
	Entity   string
	Property string
	Message  string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s.%s: %s", w.Entity, w.Property, w.Message)
}

// Sink receives warnings. Implementations must be safe for concurrent use
// when shared by concurrent passes.
type Sink interface {
	Warn(Warning)
}

// LogSink logs warnings at warn level.
type LogSink struct {
	Logger *slog.Logger
}

// Warn implements Sink.
func (s *LogSink) Warn(w Warning) {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}
	l.LogAttrs(context.Background(), slog.LevelWarn, w.Message,
		slog.String("code", string(w.Code)),
		slog.String("entity", w.Entity),
		slog.String("property", w.Property),
	)
}

// Collector is a Sink that keeps the warnings it receives.
type Collector struct {
	mu       sync.Mutex
	warnings []Warning
}

// Warn implements Sink.
func (c *Collector) Warn(w Warning) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, w)
}

// Warnings returns the collected warnings in the order received.
func (c *Collector) Warnings() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Warning(nil), c.warnings...)
}

type multiSink []Sink

func (m multiSink) Warn(w Warning) {
	for _, s := range m {
		s.Warn(w)
	}
}

// MultiSink returns a Sink that passes every warning to each of sinks.
func MultiSink(sinks ...Sink) Sink {
	return multiSink(sinks)
}

// Report holds the outcome of a validation pass.
type Report struct {
	Errors   []error
	Warnings []Warning
}

// HasErrors returns true if the pass found a violation.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if the pass reported warnings.
func (r *Report) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of the report.
func (r *Report) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			if k := KindOf(e); k != KindInvalid {
				sb.WriteString("[" + k.String() + "] ")
			}
			sb.WriteString(e.Error())
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.String())
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// warnBoolsWithDefaults warns about store-generated bool columns with a
// default other than false. Readers cannot tell an explicit false from the
// column default, so false is never written.
func (v *Validator) warnBoolsWithDefaults(m *model.Model) {
	for _, t := range m.Entities() {
		for _, p := range t.Properties {
			if p.Type != model.TypeBool || p.Generated == model.Never {
				continue
			}
			if isNonFalse(p.DefaultValue()) || p.DefaultExpr() != "" {
				v.sink.Warn(Warning{
					Code:     BoolWithDefaultWarning,
					Entity:   t.Name,
					Property: p.Name,
					Message:  fmt.Sprintf("the bool property %q on entity type %q is configured with a store-generated default; false values are never sent to the store", p.Name, t.Name),
				})
			}
		}
	}
}

// warnKeyDefaults warns about key properties configured with a default
// value.
func (v *Validator) warnKeyDefaults(m *model.Model) {
	for _, t := range m.Entities() {
		seen := make(map[*model.Property]bool)
		for _, k := range t.Keys {
			for _, p := range k.Properties {
				if seen[p] || p.DefaultValue() == nil {
					continue
				}
				seen[p] = true
				v.sink.Warn(Warning{
					Code:     KeyHasDefaultWarning,
					Entity:   p.Entity().Name,
					Property: p.Name,
					Message:  fmt.Sprintf("the key property %q on entity type %q is configured with a default value", p.Name, p.Entity().Name),
				})
			}
		}
	}
}

func isNonFalse(v any) bool {
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return !ok || b
}
