package model

import (
	"github.com/syssam/veloxcheck/dialect/sqlschema"
)

// EntityType represents one entity type of the model, the information it
// holds, and its mapping onto a table.
type EntityType struct {
	// Name holds the display name of the type.
	Name string
	// Base is the single base type, or nil for a hierarchy root.
	Base *EntityType
	// Abstract types are not instantiable. They still share tables but are
	// excluded from discriminator checks.
	Abstract bool
	// Owner is the owning type of an owned entity type.
	Owner *EntityType
	// Properties, Keys, ForeignKeys and Indexes hold the declared members
	// of the type. Inherited members live on the base types.
	Properties  []*Property
	Keys        []*Key
	ForeignKeys []*ForeignKey
	Indexes     []*Index
	// Discriminator is the property whose value identifies the concrete
	// type of a row, and DiscriminatorValue the value for this type.
	Discriminator      *Property
	DiscriminatorValue any
	// Annotation holds the user-configured table mapping.
	Annotation sqlschema.Annotation

	model *Model
}

// String implements fmt.Stringer.
func (t *EntityType) String() string { return t.Name }

// Model returns the model that holds the type.
func (t *EntityType) Model() *Model { return t.model }

// SetBase sets the base type.
func (t *EntityType) SetBase(base *EntityType) *EntityType {
	t.Base = base
	return t
}

// SetAbstract marks the type as not instantiable.
func (t *EntityType) SetAbstract() *EntityType {
	t.Abstract = true
	return t
}

// SetOwner marks the type as owned by owner.
func (t *EntityType) SetOwner(owner *EntityType) *EntityType {
	t.Owner = owner
	return t
}

// SetDiscriminator sets the discriminator property and value of the type.
func (t *EntityType) SetDiscriminator(p *Property, value any) *EntityType {
	t.Discriminator = p
	t.DiscriminatorValue = value
	return t
}

// AddProperty declares a new property on the type.
func (t *EntityType) AddProperty(name string, typ ValueType, opts ...PropertyOption) *Property {
	p := &Property{Name: name, Type: typ, entity: t}
	for _, opt := range opts {
		opt(p)
	}
	t.Properties = append(t.Properties, p)
	return p
}

// SetPrimaryKey declares the primary key of the type.
func (t *EntityType) SetPrimaryKey(props ...*Property) *Key {
	for i, k := range t.Keys {
		if k.Primary {
			t.Keys = append(t.Keys[:i], t.Keys[i+1:]...)
			break
		}
	}
	k := &Key{Properties: props, Primary: true, entity: t}
	t.Keys = append([]*Key{k}, t.Keys...)
	return k
}

// AddKey declares an alternate key on the type.
func (t *EntityType) AddKey(props ...*Property) *Key {
	k := &Key{Properties: props, entity: t}
	t.Keys = append(t.Keys, k)
	return k
}

// AddForeignKey declares a foreign key from the given dependent
// properties to the principal key. The principal entity type defaults to
// the type declaring the key; use WithPrincipal for a type inheriting it.
func (t *EntityType) AddForeignKey(props []*Property, principal *Key, ants ...sqlschema.Annotation) *ForeignKey {
	fk := &ForeignKey{
		Properties:   props,
		PrincipalKey: principal,
		Annotation:   sqlschema.Merge(ants...),
		entity:       t,
	}
	t.ForeignKeys = append(t.ForeignKeys, fk)
	return fk
}

// AddIndex declares an index on the type.
func (t *EntityType) AddIndex(props []*Property, unique bool, ants ...sqlschema.Annotation) *Index {
	idx := &Index{
		Properties: props,
		Unique:     unique,
		Annotation: sqlschema.Merge(ants...),
		entity:     t,
	}
	t.Indexes = append(t.Indexes, idx)
	return idx
}

// Root returns the root of the inheritance hierarchy of t.
func (t *EntityType) Root() *EntityType {
	root := t
	for root.Base != nil {
		root = root.Base
	}
	return root
}

// BaseTypes returns the ancestors of t, closest first.
func (t *EntityType) BaseTypes() []*EntityType {
	var bases []*EntityType
	for b := t.Base; b != nil; b = b.Base {
		bases = append(bases, b)
	}
	return bases
}

// IsAssignableFrom reports whether other is t or derives from t.
func (t *EntityType) IsAssignableFrom(other *EntityType) bool {
	for o := other; o != nil; o = o.Base {
		if o == t {
			return true
		}
	}
	return false
}

// InHierarchyWith reports whether t and other are the same type, or one
// derives from the other.
func (t *EntityType) InHierarchyWith(other *EntityType) bool {
	return t.IsAssignableFrom(other) || other.IsAssignableFrom(t)
}

// IsInOwnershipPath reports whether owner owns t, directly or
// transitively.
func (t *EntityType) IsInOwnershipPath(owner *EntityType) bool {
	for o := t.Owner; o != nil; o = o.Owner {
		if o == owner {
			return true
		}
	}
	return false
}

// HasExplicitTable reports whether the table name was configured by the
// user, as opposed to inferred.
func (t *EntityType) HasExplicitTable() bool {
	return t.Annotation.Table != ""
}

// TableName returns the name of the table the type is mapped to: the
// configured table, the table of the base type, or a name derived from
// the type name.
func (t *EntityType) TableName() string {
	if t.Annotation.Table != "" {
		return t.Annotation.Table
	}
	if t.Base != nil {
		return t.Base.TableName()
	}
	return DefaultTableName(t.Name)
}

// SchemaName returns the schema of the table the type is mapped to.
func (t *EntityType) SchemaName() string {
	if t.Annotation.Schema != "" {
		return t.Annotation.Schema
	}
	if t.Base != nil {
		return t.Base.SchemaName()
	}
	if t.model != nil {
		return t.model.DefaultSchema
	}
	return ""
}

// Table returns the identity of the table the type is mapped to.
func (t *EntityType) Table() TableID {
	return NewTableID(t.SchemaName(), t.TableName())
}

// TableComment returns the configured table comment of the type.
func (t *EntityType) TableComment() string {
	return t.Annotation.Comment
}

// PrimaryKey returns the primary key of the type. Derived types use the
// primary key of their hierarchy root.
func (t *EntityType) PrimaryKey() *Key {
	for e := t; e != nil; e = e.Base {
		for _, k := range e.Keys {
			if k.Primary {
				return k
			}
		}
	}
	return nil
}

// Property returns the declared or inherited property with the given
// name, or nil.
func (t *EntityType) Property(name string) *Property {
	for e := t; e != nil; e = e.Base {
		for _, p := range e.Properties {
			if p.Name == name {
				return p
			}
		}
	}
	return nil
}

// AllProperties returns the inherited properties of t followed by the
// declared ones, root first.
func (t *EntityType) AllProperties() []*Property {
	bases := t.BaseTypes()
	var props []*Property
	for i := len(bases) - 1; i >= 0; i-- {
		props = append(props, bases[i].Properties...)
	}
	return append(props, t.Properties...)
}

// AllForeignKeys returns the inherited and declared foreign keys of t.
func (t *EntityType) AllForeignKeys() []*ForeignKey {
	bases := t.BaseTypes()
	var fks []*ForeignKey
	for i := len(bases) - 1; i >= 0; i-- {
		fks = append(fks, bases[i].ForeignKeys...)
	}
	return append(fks, t.ForeignKeys...)
}

// IdentifyingForeignKeys returns the foreign keys of t whose dependent
// properties are the primary key of t and whose principal key is the
// primary key of the principal type. Such a key correlates rows 1:1.
func (t *EntityType) IdentifyingForeignKeys() []*ForeignKey {
	pk := t.PrimaryKey()
	if pk == nil {
		return nil
	}
	var fks []*ForeignKey
	for _, fk := range t.AllForeignKeys() {
		if fk.PrincipalKey != nil && fk.PrincipalKey.Primary && sameProperties(fk.Properties, pk.Properties) {
			fks = append(fks, fk)
		}
	}
	return fks
}

func sameProperties(a, b []*Property) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
