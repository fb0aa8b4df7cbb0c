package model

import (
	"github.com/syssam/veloxcheck/dialect/sqlschema"
)

// Key is an ordered set of properties that uniquely identifies an entity.
// The order defines the column order of composite keys.
type Key struct {
	Properties []*Property
	// Primary reports whether this is the primary key of its type.
	Primary bool
	// Annotation holds the configured constraint name.
	Annotation sqlschema.Annotation

	entity *EntityType
}

// Entity returns the declaring entity type.
func (k *Key) Entity() *EntityType { return k.entity }

// WithName sets the constraint name of the key.
func (k *Key) WithName(name string) *Key {
	k.Annotation.Name = name
	return k
}

// Name returns the constraint name of the key.
func (k *Key) Name() string {
	if k.Annotation.Name != "" {
		return k.Annotation.Name
	}
	if k.Primary {
		return DefaultPrimaryKeyName(k.entity.TableName())
	}
	return DefaultAlternateKeyName(k.entity.TableName(), k.Columns())
}

// Columns returns the ordered column names of the key.
func (k *Key) Columns() []string {
	return Columns(k.Properties)
}

// Contains reports whether p is part of the key.
func (k *Key) Contains(p *Property) bool {
	for _, kp := range k.Properties {
		if kp == p {
			return true
		}
	}
	return false
}

// ForeignKey references a principal key from a set of dependent
// properties.
type ForeignKey struct {
	Properties   []*Property
	PrincipalKey *Key
	// Principal is the referenced entity type. It differs from the type
	// declaring PrincipalKey when the key is inherited.
	Principal *EntityType
	// Unique reports whether at most one dependent may reference a
	// principal (one-to-one).
	Unique bool
	// Annotation holds the configured constraint name and cascade actions.
	Annotation sqlschema.Annotation

	entity *EntityType
}

// Entity returns the declaring (dependent) entity type.
func (fk *ForeignKey) Entity() *EntityType { return fk.entity }

// PrincipalEntity returns the principal entity type.
func (fk *ForeignKey) PrincipalEntity() *EntityType {
	if fk.Principal != nil {
		return fk.Principal
	}
	if fk.PrincipalKey == nil {
		return nil
	}
	return fk.PrincipalKey.entity
}

// WithPrincipal sets the referenced entity type.
func (fk *ForeignKey) WithPrincipal(t *EntityType) *ForeignKey {
	fk.Principal = t
	return fk
}

// Name returns the constraint name of the foreign key.
func (fk *ForeignKey) Name() string {
	if fk.Annotation.Name != "" {
		return fk.Annotation.Name
	}
	principal := ""
	if pe := fk.PrincipalEntity(); pe != nil {
		principal = pe.TableName()
	}
	return DefaultForeignKeyName(fk.entity.TableName(), principal, fk.Columns())
}

// Columns returns the ordered dependent column names.
func (fk *ForeignKey) Columns() []string {
	return Columns(fk.Properties)
}

// OnDelete returns the delete behavior of the foreign key.
func (fk *ForeignKey) OnDelete() sqlschema.CascadeAction {
	return fk.Annotation.OnDelete.Or(sqlschema.NoAction)
}

// OnUpdate returns the update behavior of the foreign key.
func (fk *ForeignKey) OnUpdate() sqlschema.CascadeAction {
	return fk.Annotation.OnUpdate.Or(sqlschema.NoAction)
}

// Index represents a database index used for either increasing speed
// on database operations or defining constraints such as "UNIQUE INDEX".
type Index struct {
	Properties []*Property
	// Unique index or not.
	Unique bool
	// Annotation holds the configured index name.
	Annotation sqlschema.Annotation

	entity *EntityType
}

// Entity returns the declaring entity type.
func (i *Index) Entity() *EntityType { return i.entity }

// Name returns the name of the index.
func (i *Index) Name() string {
	if i.Annotation.Name != "" {
		return i.Annotation.Name
	}
	return DefaultIndexName(i.entity.TableName(), i.Columns())
}

// Columns returns the ordered column names of the index.
func (i *Index) Columns() []string {
	return Columns(i.Properties)
}

// Columns projects properties onto their column names.
func Columns(props []*Property) []string {
	cols := make([]string, len(props))
	for i, p := range props {
		cols[i] = p.Column()
	}
	return cols
}

// PropertyNames returns the names of the given properties.
func PropertyNames(props []*Property) []string {
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	return names
}
