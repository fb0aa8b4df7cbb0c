package model

import (
	"strings"

	"github.com/syssam/veloxcheck/dialect/sqlschema"
)

// TableID identifies a physical table. An empty Schema means the table
// lives in the default schema of the connection.
type TableID struct {
	Schema string
	Name   string
}

// NewTableID returns a normalized table identity.
func NewTableID(schema, name string) TableID {
	return TableID{Schema: strings.TrimSpace(schema), Name: strings.TrimSpace(name)}
}

// String returns the schema-qualified table name.
func (id TableID) String() string {
	if id.Schema == "" {
		return id.Name
	}
	return id.Schema + "." + id.Name
}

// Model is a flat set of entity types. Inheritance is expressed through
// base type references, not nesting.
//
// A Model is built once by the upstream model builder (see the load
// package) and is read-only afterwards. Validators only hold borrowed
// references to it for the duration of a pass.
type Model struct {
	// DefaultSchema is the schema of tables that do not configure one.
	DefaultSchema string

	entities  []*EntityType
	byName    map[string]*EntityType
	functions []*Function
}

// New returns an empty model.
func New() *Model {
	return &Model{byName: make(map[string]*EntityType)}
}

// AddEntity adds a new entity type to the model and returns it. Adding a
// name twice returns the existing type with the annotations merged in.
func (m *Model) AddEntity(name string, ants ...sqlschema.Annotation) *EntityType {
	if t, ok := m.byName[name]; ok {
		t.Annotation = sqlschema.Merge(append([]sqlschema.Annotation{t.Annotation}, ants...)...)
		return t
	}
	t := &EntityType{
		Name:       name,
		Annotation: sqlschema.Merge(ants...),
		model:      m,
	}
	m.entities = append(m.entities, t)
	m.byName[name] = t
	return t
}

// Entities returns all entity types in the order they were added.
func (m *Model) Entities() []*EntityType {
	return m.entities
}

// Entity returns the entity type with the given name, or nil.
func (m *Model) Entity(name string) *EntityType {
	return m.byName[name]
}

// Roots returns the entity types without a base type.
func (m *Model) Roots() []*EntityType {
	var roots []*EntityType
	for _, t := range m.entities {
		if t.Base == nil {
			roots = append(roots, t)
		}
	}
	return roots
}

// DirectlyDerived returns the entity types whose base type is t.
func (m *Model) DirectlyDerived(t *EntityType) []*EntityType {
	var derived []*EntityType
	for _, e := range m.entities {
		if e.Base == t {
			derived = append(derived, e)
		}
	}
	return derived
}

// DerivedTypesInclusive returns t followed by all its derived types in
// breadth-first order.
func (m *Model) DerivedTypesInclusive(t *EntityType) []*EntityType {
	children := make(map[*EntityType][]*EntityType)
	for _, e := range m.entities {
		if e.Base != nil {
			children[e.Base] = append(children[e.Base], e)
		}
	}
	result := []*EntityType{t}
	for i := 0; i < len(result); i++ {
		result = append(result, children[result[i]]...)
	}
	return result
}

// AddFunction adds a store function mapping to the model.
func (m *Model) AddFunction(f *Function) *Function {
	m.functions = append(m.functions, f)
	return f
}

// Functions returns the store functions of the model.
func (m *Model) Functions() []*Function {
	return m.functions
}

// Function maps a method onto a scalar function defined in the store.
type Function struct {
	// Method is the display name of the mapped method. It identifies the
	// function in messages when Name is empty.
	Method string
	// Name and Schema of the store function.
	Name   string
	Schema string
	// ReturnType is the semantic return type, and ReturnStoreType an
	// explicit store type overriding the resolved one.
	ReturnType      ValueType
	ReturnStoreType string
	Parameters      []*Parameter
}

// DisplayName returns the name used for the function in messages.
func (f *Function) DisplayName() string {
	if f.Method != "" {
		return f.Method
	}
	if f.Schema != "" {
		return f.Schema + "." + f.Name
	}
	return f.Name
}

// Parameter is a parameter of a store function.
type Parameter struct {
	Name      string
	Type      ValueType
	StoreType string
}
