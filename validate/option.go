package validate

import (
	"log/slog"

	"github.com/syssam/veloxcheck"
	"github.com/syssam/veloxcheck/dialect"
	"github.com/syssam/veloxcheck/model"
)

// Option configures a Validator.
type Option func(*Validator) error

// Check is an additional model check run before the relational checks.
type Check func(*model.Model) error

// Ownership answers ownership path queries for the concurrency token
// checks.
type Ownership interface {
	// IsInOwnershipPath reports whether owner is owned's owner, directly
	// or transitively.
	IsInOwnershipPath(owned, owner *model.EntityType) bool
}

// OwnershipFunc adapts a function to the Ownership interface.
type OwnershipFunc func(owned, owner *model.EntityType) bool

// IsInOwnershipPath implements Ownership.
func (f OwnershipFunc) IsInOwnershipPath(owned, owner *model.EntityType) bool {
	return f(owned, owner)
}

// ModelOwnership follows the Owner links of the model.
var ModelOwnership Ownership = OwnershipFunc(func(owned, owner *model.EntityType) bool {
	return owned.IsInOwnershipPath(owner)
})

// WithLogger sets the logger of the validator.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) error {
		if l == nil {
			return veloxcheck.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		v.logger = l
		return nil
	}
}

// WithDialect resolves store types with the named dialect.
// Supported dialects: "postgres", "mysql", "sqlite".
func WithDialect(name string) Option {
	return func(v *Validator) error {
		r, err := dialect.NewResolver(name)
		if err != nil {
			return veloxcheck.NewConfigError("Dialect", name, "unsupported dialect; use postgres, mysql, or sqlite")
		}
		v.resolver = r
		return nil
	}
}

// WithTypeResolver sets the store type resolver.
func WithTypeResolver(r dialect.TypeResolver) Option {
	return func(v *Validator) error {
		if r == nil {
			return veloxcheck.NewConfigError("TypeResolver", nil, "type resolver cannot be nil")
		}
		v.resolver = r
		return nil
	}
}

// WithOwnership sets the ownership path service.
func WithOwnership(o Ownership) Option {
	return func(v *Validator) error {
		if o == nil {
			return veloxcheck.NewConfigError("Ownership", nil, "ownership cannot be nil")
		}
		v.ownership = o
		return nil
	}
}

// WithSink sets the sink that receives non-fatal warnings.
func WithSink(s Sink) Option {
	return func(v *Validator) error {
		if s == nil {
			return veloxcheck.NewConfigError("Sink", nil, "sink cannot be nil")
		}
		v.sink = s
		return nil
	}
}

// WithBaseChecks replaces the checks run before the relational checks.
// Calling it without arguments disables the default property mapping
// check.
func WithBaseChecks(checks ...Check) Option {
	return func(v *Validator) error {
		for _, c := range checks {
			if c == nil {
				return veloxcheck.NewConfigError("BaseChecks", nil, "check cannot be nil")
			}
		}
		v.baseChecks = checks
		v.baseChecksSet = true
		return nil
	}
}

// WithStoreTypeNormalization compares column store types after
// normalizing them with the type resolver, so that spellings such as
// "VARCHAR(10)" and "character varying(10)" match. It has no effect if the
// resolver cannot normalize types.
func WithStoreTypeNormalization() Option {
	return func(v *Validator) error {
		v.normalize = true
		return nil
	}
}
