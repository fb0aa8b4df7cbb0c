package model

import (
	"github.com/syssam/veloxcheck/dialect/sqlschema"
)

// Property holds a scalar member of an entity type and its column mapping.
type Property struct {
	// Name of the property.
	Name string
	// Type holds the semantic value type.
	Type ValueType
	// Optional indicates that the value type accepts null.
	Optional bool
	// Nullable overrides the column nullability derived from Optional.
	Nullable *bool
	// ConcurrencyToken marks the property as an optimistic concurrency
	// token.
	ConcurrencyToken bool
	// Generated describes when the store generates the value.
	Generated ValueGenerated
	// Annotation holds the user-configured column mapping.
	Annotation sqlschema.Annotation

	entity *EntityType
}

// PropertyOption configures a property on declaration.
type PropertyOption func(*Property)

// Optional marks the property value as optional.
func Optional() PropertyOption {
	return func(p *Property) { p.Optional = true }
}

// Nullable overrides the nullability of the property column.
func Nullable(nullable bool) PropertyOption {
	return func(p *Property) { p.Nullable = &nullable }
}

// ConcurrencyToken marks the property as a concurrency token.
func ConcurrencyToken() PropertyOption {
	return func(p *Property) { p.ConcurrencyToken = true }
}

// Generated sets the value generation mode of the property.
func Generated(g ValueGenerated) PropertyOption {
	return func(p *Property) { p.Generated = g }
}

// Annotate merges SQL annotations into the property column mapping.
func Annotate(ants ...sqlschema.Annotation) PropertyOption {
	return func(p *Property) {
		p.Annotation = sqlschema.Merge(append([]sqlschema.Annotation{p.Annotation}, ants...)...)
	}
}

// String implements fmt.Stringer.
func (p *Property) String() string {
	if p.entity == nil {
		return p.Name
	}
	return p.entity.Name + "." + p.Name
}

// Entity returns the declaring entity type.
func (p *Property) Entity() *EntityType { return p.entity }

// Column returns the name of the column the property is stored in.
func (p *Property) Column() string {
	if p.Annotation.Column != "" {
		return p.Annotation.Column
	}
	return p.Name
}

// ColumnType returns the configured store type, or an empty string.
func (p *Property) ColumnType() string {
	return p.Annotation.ColumnType
}

// IsColumnNullable reports whether the column accepts null. Primary key
// columns are never nullable unless overridden.
func (p *Property) IsColumnNullable() bool {
	if p.Nullable != nil {
		return *p.Nullable
	}
	if p.IsPrimaryKey() {
		return false
	}
	return p.Optional
}

// IsPrimaryKey reports whether the property is part of the primary key
// of its declaring type.
func (p *Property) IsPrimaryKey() bool {
	if p.entity == nil {
		return false
	}
	pk := p.entity.PrimaryKey()
	return pk != nil && pk.Contains(p)
}

// IsKey reports whether the property is part of any key declared on its
// type.
func (p *Property) IsKey() bool {
	if p.entity == nil {
		return false
	}
	for _, k := range p.entity.Keys {
		if k.Contains(p) {
			return true
		}
	}
	return false
}

// DefaultValue returns the literal default value, or nil.
func (p *Property) DefaultValue() any {
	return p.Annotation.Default
}

// DefaultExpr returns the default value SQL expression, or an empty
// string.
func (p *Property) DefaultExpr() string {
	return p.Annotation.DefaultExpr
}

// ComputedSQL returns the computed column expression, or an empty string.
func (p *Property) ComputedSQL() string {
	return p.Annotation.Computed
}

// IsStoreGeneratedConcurrencyToken reports whether the property is a
// concurrency token the store regenerates on every update. Such tokens
// must be read back after each write of any type sharing the table.
func (p *Property) IsStoreGeneratedConcurrencyToken() bool {
	return p.ConcurrencyToken && p.Generated.OnUpdate()
}
