package validate

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/veloxcheck/dialect"
	"github.com/syssam/veloxcheck/model"
)

// Validator validates the relational mapping of entity models. A Validator
// is immutable once created and may run concurrent passes over any number
// of models.
type Validator struct {
	logger        *slog.Logger
	resolver      dialect.TypeResolver
	ownership     Ownership
	sink          Sink
	baseChecks    []Check
	baseChecksSet bool
	normalize     bool
}

// normalizer is implemented by resolvers that can canonicalize store types.
type normalizer interface {
	Normalize(storeType string) string
}

// New returns a Validator configured with the given options. By default it
// resolves store types with the postgres dialect, logs with slog.Default
// and reports warnings to the logger.
func New(opts ...Option) (*Validator, error) {
	v := &Validator{
		logger:    slog.Default(),
		ownership: ModelOwnership,
	}
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}
	if v.resolver == nil {
		r, err := dialect.NewResolver(dialect.Postgres)
		if err != nil {
			return nil, fmt.Errorf("validate: default resolver: %w", err)
		}
		v.resolver = r
	}
	if v.sink == nil {
		v.sink = &LogSink{Logger: v.logger}
	}
	if !v.baseChecksSet {
		v.baseChecks = []Check{v.ValidatePropertyMapping}
	}
	return v, nil
}

// Validate runs one validation pass over m and returns the first violation
// found, or nil. Violations of unreachable shared table members are
// returned together as a veloxcheck.AggregateError. Warnings are reported
// to the sink and never fail the pass.
//
// Checks run in order: base checks, the warnings, store functions, then
// for every table the structural, column, key, foreign key and index
// checks, and last inheritance. A model failing a later check still has
// its warnings reported.
func (v *Validator) Validate(m *model.Model) (err error) {
	log := v.logger.With("pass", uuid.NewString())
	start := time.Now()
	log.Debug("validation started", "entities", len(m.Entities()), "functions", len(m.Functions()))
	defer func() {
		if err != nil {
			log.Debug("validation failed", "duration", time.Since(start), "error", err)
			return
		}
		log.Debug("validation finished", "duration", time.Since(start))
	}()
	for _, check := range v.baseChecks {
		if err := check(m); err != nil {
			return err
		}
	}
	v.warnBoolsWithDefaults(m)
	v.warnKeyDefaults(m)
	if err := v.ValidateFunctions(m); err != nil {
		return err
	}
	for _, g := range GroupByTable(m) {
		log.Debug("validating table", "table", g.Table.String(), "types", len(g.Types))
		if err := v.validateTable(g); err != nil {
			return err
		}
	}
	return ValidateInheritance(m)
}

// Check runs Validate and collects its outcome into a Report. Warnings are
// also passed on to the configured sink.
func (v *Validator) Check(m *model.Model) *Report {
	c := &Collector{}
	pass := *v
	pass.sink = MultiSink(v.sink, c)
	r := &Report{}
	if err := pass.Validate(m); err != nil {
		vs := Violations(err)
		if len(vs) == 0 {
			r.Errors = []error{err}
		}
		for _, vi := range vs {
			r.Errors = append(r.Errors, vi)
		}
	}
	r.Warnings = c.Warnings()
	return r
}

func (v *Validator) validateTable(g *TableGroup) error {
	if err := ValidateSharedTable(g); err != nil {
		return err
	}
	if err := v.ValidateSharedColumns(g); err != nil {
		return err
	}
	if err := ValidateSharedKeys(g); err != nil {
		return err
	}
	if err := ValidateSharedForeignKeys(g); err != nil {
		return err
	}
	return ValidateSharedIndexes(g)
}

// ValidatePropertyMapping reports the first property that has neither an
// explicit column type nor a store type in the dialect. It is the default
// base check.
func (v *Validator) ValidatePropertyMapping(m *model.Model) error {
	for _, t := range m.Entities() {
		for _, p := range t.Properties {
			if p.ColumnType() != "" {
				continue
			}
			if _, ok := v.resolver.StoreType(p.Type); !ok {
				return &PropertyMappingError{Entity: t.Name, Property: p.Name, Type: p.Type.String()}
			}
		}
	}
	return nil
}

// storeType returns the column store type of p.
func (v *Validator) storeType(p *model.Property) string {
	st := p.ColumnType()
	if st == "" {
		st, _ = v.resolver.StoreType(p.Type)
	}
	if n, ok := v.resolver.(normalizer); ok && v.normalize {
		return n.Normalize(st)
	}
	return strings.TrimSpace(st)
}
