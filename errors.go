package veloxcheck

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors shared by all packages of the module.
var (
	// ErrInvalidModel is matched by every model violation reported by a
	// validation pass.
	ErrInvalidModel = errors.New("veloxcheck: invalid model")

	// ErrInvalidSchema is returned when a model description cannot be
	// turned into a model (unknown types, dangling references).
	ErrInvalidSchema = errors.New("veloxcheck: invalid schema")

	// ErrMissingConfig is matched by invalid or missing options and
	// configuration settings.
	ErrMissingConfig = errors.New("veloxcheck: missing configuration")
)

// SchemaError reports a model description that cannot be turned into a
// model. File is set once the description is known to come from a file.
type SchemaError struct {
	File    string
	Entity  string
	Field   string // property, key, reference or setting of Entity
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var where []string
	if e.Entity != "" {
		where = append(where, "entity "+e.Entity)
	}
	if e.Field != "" {
		where = append(where, "field "+e.Field)
	}
	var b strings.Builder
	b.WriteString("veloxcheck: ")
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(": ")
	}
	if len(where) == 0 {
		b.WriteString("invalid model description")
	} else {
		b.WriteString(strings.Join(where, ", "))
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is matches ErrInvalidSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError returns a SchemaError on the given entity and field.
func NewSchemaError(entity, field, message string, cause error) *SchemaError {
	return &SchemaError{Entity: entity, Field: field, Message: message, Cause: cause}
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// ConfigError reports an invalid validator option or configuration
// setting.
type ConfigError struct {
	Setting string
	Value   any
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("veloxcheck: invalid setting %s: %s", e.Setting, e.Reason)
	}
	return fmt.Sprintf("veloxcheck: invalid setting %s=%q: %s", e.Setting, fmt.Sprint(e.Value), e.Reason)
}

// Is matches ErrMissingConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError returns a ConfigError for setting.
func NewConfigError(setting string, value any, reason string) *ConfigError {
	return &ConfigError{Setting: setting, Value: value, Reason: reason}
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// AggregateError represents multiple errors collected during an operation.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "veloxcheck: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("veloxcheck: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors, so errors.Is and errors.As
// inspect each of them.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil. A single error is returned as is.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}

// IsAggregateError reports whether the error is an AggregateError.
func IsAggregateError(err error) bool {
	var aggErr *AggregateError
	return errors.As(err, &aggErr)
}
