package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/veloxcheck"
	"github.com/syssam/veloxcheck/model"
)

// Kind identifies a violation.
type Kind uint8

// Violation kinds.
const (
	KindInvalid Kind = iota

	DuplicateIndexColumnMismatch
	DuplicateIndexUniquenessMismatch

	DuplicateForeignKeyColumnMismatch
	DuplicateForeignKeyPrincipalTableMismatch
	DuplicateForeignKeyPrincipalColumnMismatch
	DuplicateForeignKeyUniquenessMismatch
	DuplicateForeignKeyDeleteBehaviorMismatch
	DuplicateForeignKeyUpdateBehaviorMismatch

	DuplicateKeyColumnMismatch

	IncompatibleTableNoRelationship
	IncompatibleTableKeyNameMismatch
	IncompatibleTableDerivedRelationship
	IncompatibleTableCommentMismatch

	DuplicateColumnNameDataTypeMismatch
	DuplicateColumnNameNullabilityMismatch
	DuplicateColumnNameComputedSQLMismatch
	DuplicateColumnNameDefaultMismatch
	DuplicateColumnNameDefaultSQLMismatch
	MissingConcurrencyColumn

	DerivedTypeTable
	NoDiscriminatorProperty
	NoDiscriminatorValue
	DuplicateDiscriminatorValue

	FunctionNameEmpty
	InvalidReturnType
	InvalidParameterType

	PropertyNotMapped
	endKinds
)

var kindNames = [...]string{
	KindInvalid:                                "Invalid",
	DuplicateIndexColumnMismatch:               "DuplicateIndexColumnMismatch",
	DuplicateIndexUniquenessMismatch:           "DuplicateIndexUniquenessMismatch",
	DuplicateForeignKeyColumnMismatch:          "DuplicateForeignKeyColumnMismatch",
	DuplicateForeignKeyPrincipalTableMismatch:  "DuplicateForeignKeyPrincipalTableMismatch",
	DuplicateForeignKeyPrincipalColumnMismatch: "DuplicateForeignKeyPrincipalColumnMismatch",
	DuplicateForeignKeyUniquenessMismatch:      "DuplicateForeignKeyUniquenessMismatch",
	DuplicateForeignKeyDeleteBehaviorMismatch:  "DuplicateForeignKeyDeleteBehaviorMismatch",
	DuplicateForeignKeyUpdateBehaviorMismatch:  "DuplicateForeignKeyUpdateBehaviorMismatch",
	DuplicateKeyColumnMismatch:                 "DuplicateKeyColumnMismatch",
	IncompatibleTableNoRelationship:            "IncompatibleTableNoRelationship",
	IncompatibleTableKeyNameMismatch:           "IncompatibleTableKeyNameMismatch",
	IncompatibleTableDerivedRelationship:       "IncompatibleTableDerivedRelationship",
	IncompatibleTableCommentMismatch:           "IncompatibleTableCommentMismatch",
	DuplicateColumnNameDataTypeMismatch:        "DuplicateColumnNameDataTypeMismatch",
	DuplicateColumnNameNullabilityMismatch:     "DuplicateColumnNameNullabilityMismatch",
	DuplicateColumnNameComputedSQLMismatch:     "DuplicateColumnNameComputedSqlMismatch",
	DuplicateColumnNameDefaultMismatch:         "DuplicateColumnNameDefaultMismatch",
	DuplicateColumnNameDefaultSQLMismatch:      "DuplicateColumnNameDefaultSqlMismatch",
	MissingConcurrencyColumn:                   "MissingConcurrencyColumn",
	DerivedTypeTable:                           "DerivedTypeTable",
	NoDiscriminatorProperty:                    "NoDiscriminatorProperty",
	NoDiscriminatorValue:                       "NoDiscriminatorValue",
	DuplicateDiscriminatorValue:                "DuplicateDiscriminatorValue",
	FunctionNameEmpty:                          "FunctionNameEmpty",
	InvalidReturnType:                          "InvalidReturnType",
	InvalidParameterType:                       "InvalidParameterType",
	PropertyNotMapped:                          "PropertyNotMapped",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < endKinds {
		return kindNames[k]
	}
	return kindNames[KindInvalid]
}

// Violation is a model inconsistency found by a validation pass. Every
// violation matches veloxcheck.ErrInvalidModel with errors.Is.
type Violation interface {
	error
	Kind() Kind
}

// Violations returns all violations found in err, walking wrapped and
// aggregated errors.
func Violations(err error) []Violation {
	var vs []Violation
	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		if v, ok := err.(Violation); ok {
			vs = append(vs, v)
			return
		}
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			for _, e := range u.Unwrap() {
				walk(e)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return vs
}

// KindOf returns the kind of the first violation in err, or KindInvalid.
func KindOf(err error) Kind {
	var v Violation
	if errors.As(err, &v) {
		return v.Kind()
	}
	return KindInvalid
}

// IsKind reports whether err holds a violation of the given kind.
func IsKind(err error, k Kind) bool {
	for _, v := range Violations(err) {
		if v.Kind() == k {
			return true
		}
	}
	return false
}

// IsViolation reports whether err holds at least one violation.
func IsViolation(err error) bool {
	var v Violation
	return errors.As(err, &v)
}

// IncompatibleTableError is reported when entity types share a table
// without a one-to-one correlation of their rows.
type IncompatibleTableError struct {
	kind  Kind
	Table model.TableID
	// Entity is the type that cannot use the table, Other the type already
	// using it.
	Entity string
	Other  string
	// KeyName and KeyProperties describe the primary key of Entity,
	// OtherKeyName and OtherKeyProperties the primary key of Other.
	KeyName            string
	KeyProperties      []string
	OtherKeyName       string
	OtherKeyProperties []string
	// Comment and OtherComment are the table comments of both types.
	Comment      string
	OtherComment string
}

// Kind implements Violation.
func (e *IncompatibleTableError) Kind() Kind { return e.kind }

// Is reports whether the target matches veloxcheck.ErrInvalidModel.
func (e *IncompatibleTableError) Is(target error) bool {
	return target == veloxcheck.ErrInvalidModel
}

// Error implements the error interface.
func (e *IncompatibleTableError) Error() string {
	prefix := fmt.Sprintf("veloxcheck: cannot use table %q for entity type %q since it is being used for entity type %q", e.Table, e.Entity, e.Other)
	switch e.kind {
	case IncompatibleTableNoRelationship:
		return prefix + " and there is no relationship between their primary keys"
	case IncompatibleTableKeyNameMismatch:
		return fmt.Sprintf("%s and the name %q of the primary key {%s} does not match the name %q of the primary key {%s}",
			prefix, e.KeyName, propertyList(e.KeyProperties), e.OtherKeyName, propertyList(e.OtherKeyProperties))
	case IncompatibleTableDerivedRelationship:
		return prefix + " and there is a relationship between their primary keys, but the dependent type is a derived type"
	case IncompatibleTableCommentMismatch:
		return fmt.Sprintf("%s and the comment %q does not match the comment %q", prefix, e.Comment, e.OtherComment)
	}
	return prefix
}

// ColumnConflictError is reported when two properties mapped to the same
// column disagree on a column attribute.
type ColumnConflictError struct {
	kind   Kind
	Table  model.TableID
	Column string
	// Entity and Property identify the property being checked, OtherEntity
	// and OtherProperty the property that first claimed the column.
	Entity        string
	Property      string
	OtherEntity   string
	OtherProperty string
	// Value and OtherValue are the compared attribute values.
	Value      string
	OtherValue string
}

// Kind implements Violation.
func (e *ColumnConflictError) Kind() Kind { return e.kind }

// Is reports whether the target matches veloxcheck.ErrInvalidModel.
func (e *ColumnConflictError) Is(target error) bool {
	return target == veloxcheck.ErrInvalidModel
}

// Error implements the error interface.
func (e *ColumnConflictError) Error() string {
	var what string
	switch e.kind {
	case DuplicateColumnNameDataTypeMismatch:
		what = "different data types"
	case DuplicateColumnNameNullabilityMismatch:
		what = "different column nullability settings"
	case DuplicateColumnNameComputedSQLMismatch:
		what = "different computed values"
	case DuplicateColumnNameDefaultMismatch:
		what = "different default values"
	case DuplicateColumnNameDefaultSQLMismatch:
		what = "different default value expressions"
	default:
		what = "different settings"
	}
	return fmt.Sprintf("veloxcheck: %s.%s and %s.%s are both mapped to column %q in %q but are configured to use %s (%q and %q)",
		e.Entity, e.Property, e.OtherEntity, e.OtherProperty, e.Column, e.Table, what, e.Value, e.OtherValue)
}

// MissingConcurrencyColumnError is reported when an entity type sharing a
// table does not map a store-generated concurrency token column used by
// another type of the table.
type MissingConcurrencyColumnError struct {
	Table  model.TableID
	Column string
	Entity string
}

// Kind implements Violation.
func (e *MissingConcurrencyColumnError) Kind() Kind { return MissingConcurrencyColumn }

// Is reports whether the target matches veloxcheck.ErrInvalidModel.
func (e *MissingConcurrencyColumnError) Is(target error) bool {
	return target == veloxcheck.ErrInvalidModel
}

// Error implements the error interface.
func (e *MissingConcurrencyColumnError) Error() string {
	return fmt.Sprintf("veloxcheck: entity type %q does not contain a property mapped to the store-generated concurrency token column %q which is used by another entity type sharing the table %q",
		e.Entity, e.Column, e.Table)
}

// KeyConflictError is reported when keys mapped to the same constraint
// name use different columns.
type KeyConflictError struct {
	Table           model.TableID
	Name            string
	Entity          string
	Properties      []string
	Columns         []string
	OtherEntity     string
	OtherProperties []string
	OtherColumns    []string
}

// Kind implements Violation.
func (e *KeyConflictError) Kind() Kind { return DuplicateKeyColumnMismatch }

// Is reports whether the target matches veloxcheck.ErrInvalidModel.
func (e *KeyConflictError) Is(target error) bool {
	return target == veloxcheck.ErrInvalidModel
}

// Error implements the error interface.
func (e *KeyConflictError) Error() string {
	return fmt.Sprintf("veloxcheck: the keys {%s} on %q and {%s} on %q are both mapped to %q in %q but with different columns ({%s} and {%s})",
		propertyList(e.Properties), e.Entity, propertyList(e.OtherProperties), e.OtherEntity,
		e.Name, e.Table, propertyList(e.Columns), propertyList(e.OtherColumns))
}

// ForeignKeyConflictError is reported when foreign keys mapped to the same
// constraint name are incompatible.
type ForeignKeyConflictError struct {
	kind            Kind
	Table           model.TableID
	Name            string
	Entity          string
	Properties      []string
	OtherEntity     string
	OtherProperties []string
	// Value and OtherValue are the compared attribute values: columns,
	// principal table, principal columns, uniqueness or cascade action.
	Value      string
	OtherValue string
}

// Kind implements Violation.
func (e *ForeignKeyConflictError) Kind() Kind { return e.kind }

// Is reports whether the target matches veloxcheck.ErrInvalidModel.
func (e *ForeignKeyConflictError) Is(target error) bool {
	return target == veloxcheck.ErrInvalidModel
}

// Error implements the error interface.
func (e *ForeignKeyConflictError) Error() string {
	var what string
	switch e.kind {
	case DuplicateForeignKeyColumnMismatch:
		what = "use different columns"
	case DuplicateForeignKeyPrincipalTableMismatch:
		what = "reference different principal tables"
	case DuplicateForeignKeyPrincipalColumnMismatch:
		what = "reference different principal columns"
	case DuplicateForeignKeyUniquenessMismatch:
		what = "have different uniqueness"
	case DuplicateForeignKeyDeleteBehaviorMismatch:
		what = "have different delete behavior"
	case DuplicateForeignKeyUpdateBehaviorMismatch:
		what = "have different update behavior"
	default:
		what = "are incompatible"
	}
	return fmt.Sprintf("veloxcheck: the foreign keys {%s} on %q and {%s} on %q are both mapped to %q in %q but %s (%s and %s)",
		propertyList(e.Properties), e.Entity, propertyList(e.OtherProperties), e.OtherEntity,
		e.Name, e.Table, what, e.Value, e.OtherValue)
}

// IndexConflictError is reported when indexes mapped to the same name are
// incompatible.
type IndexConflictError struct {
	kind            Kind
	Table           model.TableID
	Name            string
	Entity          string
	Properties      []string
	OtherEntity     string
	OtherProperties []string
	Value           string
	OtherValue      string
}

// Kind implements Violation.
func (e *IndexConflictError) Kind() Kind { return e.kind }

// Is reports whether the target matches veloxcheck.ErrInvalidModel.
func (e *IndexConflictError) Is(target error) bool {
	return target == veloxcheck.ErrInvalidModel
}

// Error implements the error interface.
func (e *IndexConflictError) Error() string {
	what := "use different columns"
	if e.kind == DuplicateIndexUniquenessMismatch {
		what = "have different uniqueness"
	}
	return fmt.Sprintf("veloxcheck: the indexes {%s} on %q and {%s} on %q are both mapped to %q in %q but %s (%s and %s)",
		propertyList(e.Properties), e.Entity, propertyList(e.OtherProperties), e.OtherEntity,
		e.Name, e.Table, what, e.Value, e.OtherValue)
}

// InheritanceError is reported for inconsistent inheritance mappings.
type InheritanceError struct {
	kind   Kind
	Entity string
	// Other is the base type for DerivedTypeTable, and the type that first
	// used the value for DuplicateDiscriminatorValue.
	Other string
	Table string
	Value any
}

// Kind implements Violation.
func (e *InheritanceError) Kind() Kind { return e.kind }

// Is reports whether the target matches veloxcheck.ErrInvalidModel.
func (e *InheritanceError) Is(target error) bool {
	return target == veloxcheck.ErrInvalidModel
}

// Error implements the error interface.
func (e *InheritanceError) Error() string {
	switch e.kind {
	case DerivedTypeTable:
		return fmt.Sprintf("veloxcheck: cannot configure table %q for entity type %q since it is derived from %q; only hierarchy roots can be mapped to a table",
			e.Table, e.Entity, e.Other)
	case NoDiscriminatorProperty:
		return fmt.Sprintf("veloxcheck: entity type %q is part of a hierarchy, but does not have a discriminator property configured", e.Entity)
	case NoDiscriminatorValue:
		return fmt.Sprintf("veloxcheck: entity type %q is part of a hierarchy, but does not have a discriminator value configured", e.Entity)
	case DuplicateDiscriminatorValue:
		return fmt.Sprintf("veloxcheck: entity type %q has the same discriminator value %v as entity type %q", e.Entity, e.Value, e.Other)
	}
	return fmt.Sprintf("veloxcheck: invalid inheritance mapping for entity type %q", e.Entity)
}

// FunctionError is reported for store functions that cannot be mapped.
type FunctionError struct {
	kind      Kind
	Function  string
	Parameter string
	Type      string
}

// Kind implements Violation.
func (e *FunctionError) Kind() Kind { return e.kind }

// Is reports whether the target matches veloxcheck.ErrInvalidModel.
func (e *FunctionError) Is(target error) bool {
	return target == veloxcheck.ErrInvalidModel
}

// Error implements the error interface.
func (e *FunctionError) Error() string {
	switch e.kind {
	case FunctionNameEmpty:
		return fmt.Sprintf("veloxcheck: the store function mapped to %q has an empty name", e.Function)
	case InvalidReturnType:
		return fmt.Sprintf("veloxcheck: the store function %q has an invalid return type %q", e.Function, e.Type)
	case InvalidParameterType:
		return fmt.Sprintf("veloxcheck: the parameter %q of store function %q has an invalid type %q", e.Parameter, e.Function, e.Type)
	}
	return fmt.Sprintf("veloxcheck: invalid store function %q", e.Function)
}

// PropertyMappingError is reported for properties without a store type.
type PropertyMappingError struct {
	Entity   string
	Property string
	Type     string
}

// Kind implements Violation.
func (e *PropertyMappingError) Kind() Kind { return PropertyNotMapped }

// Is reports whether the target matches veloxcheck.ErrInvalidModel.
func (e *PropertyMappingError) Is(target error) bool {
	return target == veloxcheck.ErrInvalidModel
}

// Error implements the error interface.
func (e *PropertyMappingError) Error() string {
	return fmt.Sprintf("veloxcheck: property %s.%s of type %q could not be mapped to a store type; configure a column type",
		e.Entity, e.Property, e.Type)
}

func propertyList(names []string) string {
	return strings.Join(names, ", ")
}

func columnList(cols []string) string {
	return "{" + strings.Join(cols, ", ") + "}"
}

func formatDefault(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprint(v)
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}
