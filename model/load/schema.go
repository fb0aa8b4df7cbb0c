// Package load reads entity models from YAML or JSON descriptions.
package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/veloxcheck"
	"github.com/syssam/veloxcheck/dialect/sqlschema"
	"github.com/syssam/veloxcheck/model"
)

// Schema is the description of a model as read from a file.
type Schema struct {
	DefaultSchema string `yaml:"default_schema,omitempty" json:"default_schema,omitempty"`
	// DiscriminatorConvention adds a discriminator to hierarchies that have
	// none. Defaults to true.
	DiscriminatorConvention *bool       `yaml:"discriminator_convention,omitempty" json:"discriminator_convention,omitempty"`
	Entities                []*Entity   `yaml:"entities" json:"entities"`
	Functions               []*Function `yaml:"functions,omitempty" json:"functions,omitempty"`
}

// Entity describes an entity type.
type Entity struct {
	Name               string        `yaml:"name" json:"name"`
	Table              string        `yaml:"table,omitempty" json:"table,omitempty"`
	Schema             string        `yaml:"schema,omitempty" json:"schema,omitempty"`
	Comment            string        `yaml:"comment,omitempty" json:"comment,omitempty"`
	Base               string        `yaml:"base,omitempty" json:"base,omitempty"`
	Owner              string        `yaml:"owner,omitempty" json:"owner,omitempty"`
	Abstract           bool          `yaml:"abstract,omitempty" json:"abstract,omitempty"`
	Properties         []*Property   `yaml:"properties,omitempty" json:"properties,omitempty"`
	PrimaryKey         []string      `yaml:"primary_key,omitempty" json:"primary_key,omitempty"`
	PrimaryKeyName     string        `yaml:"primary_key_name,omitempty" json:"primary_key_name,omitempty"`
	Keys               []*Key        `yaml:"keys,omitempty" json:"keys,omitempty"`
	ForeignKeys        []*ForeignKey `yaml:"foreign_keys,omitempty" json:"foreign_keys,omitempty"`
	Indexes            []*Index      `yaml:"indexes,omitempty" json:"indexes,omitempty"`
	Discriminator      string        `yaml:"discriminator,omitempty" json:"discriminator,omitempty"`
	DiscriminatorValue any           `yaml:"discriminator_value,omitempty" json:"discriminator_value,omitempty"`
}

// Property describes a property and its column.
type Property struct {
	Name             string `yaml:"name" json:"name"`
	Type             string `yaml:"type" json:"type"`
	Column           string `yaml:"column,omitempty" json:"column,omitempty"`
	ColumnType       string `yaml:"column_type,omitempty" json:"column_type,omitempty"`
	Optional         bool   `yaml:"optional,omitempty" json:"optional,omitempty"`
	Nullable         *bool  `yaml:"nullable,omitempty" json:"nullable,omitempty"`
	ConcurrencyToken bool   `yaml:"concurrency_token,omitempty" json:"concurrency_token,omitempty"`
	Generated        string `yaml:"generated,omitempty" json:"generated,omitempty"`
	Default          any    `yaml:"default,omitempty" json:"default,omitempty"`
	DefaultExpr      string `yaml:"default_expr,omitempty" json:"default_expr,omitempty"`
	Computed         string `yaml:"computed,omitempty" json:"computed,omitempty"`
}

// Key describes an alternate key.
type Key struct {
	Properties []string `yaml:"properties" json:"properties"`
	Name       string   `yaml:"name,omitempty" json:"name,omitempty"`
}

// ForeignKey describes a foreign key. PrincipalKey lists the properties
// of the referenced key, and defaults to the primary key of Principal.
type ForeignKey struct {
	Properties   []string `yaml:"properties" json:"properties"`
	Principal    string   `yaml:"principal" json:"principal"`
	PrincipalKey []string `yaml:"principal_key,omitempty" json:"principal_key,omitempty"`
	Name         string   `yaml:"name,omitempty" json:"name,omitempty"`
	Unique       bool     `yaml:"unique,omitempty" json:"unique,omitempty"`
	OnDelete     string   `yaml:"on_delete,omitempty" json:"on_delete,omitempty"`
	OnUpdate     string   `yaml:"on_update,omitempty" json:"on_update,omitempty"`
}

// Index describes an index.
type Index struct {
	Properties []string `yaml:"properties" json:"properties"`
	Unique     bool     `yaml:"unique,omitempty" json:"unique,omitempty"`
	Name       string   `yaml:"name,omitempty" json:"name,omitempty"`
}

// Function describes a store function.
type Function struct {
	Method          string       `yaml:"method,omitempty" json:"method,omitempty"`
	Name            string       `yaml:"name" json:"name"`
	Schema          string       `yaml:"schema,omitempty" json:"schema,omitempty"`
	ReturnType      string       `yaml:"return_type" json:"return_type"`
	ReturnStoreType string       `yaml:"return_store_type,omitempty" json:"return_store_type,omitempty"`
	Parameters      []*Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// Parameter describes a store function parameter.
type Parameter struct {
	Name      string `yaml:"name" json:"name"`
	Type      string `yaml:"type" json:"type"`
	StoreType string `yaml:"store_type,omitempty" json:"store_type,omitempty"`
}

// Extensions lists the file extensions of model descriptions.
var Extensions = []string{".yaml", ".yml", ".json"}

// UnmarshalSchema decodes a YAML or JSON description. Unknown fields are
// rejected.
func UnmarshalSchema(buf []byte) (*Schema, error) {
	return Decode(bytes.NewReader(buf))
}

// Decode reads a YAML or JSON description from r.
func Decode(r io.Reader) (*Schema, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	s := &Schema{}
	if err := dec.Decode(s); err != nil {
		if errors.Is(err, io.EOF) {
			return s, nil
		}
		return nil, veloxcheck.NewSchemaError("", "", "decoding model description", err)
	}
	return s, nil
}

// Option configures a Load call.
type Option func(*Schema)

// WithDefaultSchema sets the default schema of descriptions that declare
// none.
func WithDefaultSchema(name string) Option {
	return func(s *Schema) {
		if s.DefaultSchema == "" {
			s.DefaultSchema = name
		}
	}
}

// Load reads the model description at path and builds the model.
func Load(path string, opts ...Option) (*model.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return nil, inFile(path, err)
	}
	for _, opt := range opts {
		opt(s)
	}
	m, err := s.Build()
	if err != nil {
		return nil, inFile(path, err)
	}
	return m, nil
}

// inFile records path on a schema error, and prefixes any other error
// with it.
func inFile(path string, err error) error {
	var se *veloxcheck.SchemaError
	if errors.As(err, &se) {
		se.File = path
		return err
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// Files returns the model description files under dir, sorted by name.
func Files(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if IsModelFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load: walking %s: %w", dir, err)
	}
	return files, nil
}

// IsModelFile reports whether path has one of the Extensions.
func IsModelFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Build creates the model described by s. Entities may reference each
// other in any order.
func (s *Schema) Build() (*model.Model, error) {
	m := model.New()
	m.DefaultSchema = s.DefaultSchema
	for _, e := range s.Entities {
		if strings.TrimSpace(e.Name) == "" {
			return nil, veloxcheck.NewSchemaError("", "name", "entity name is required", nil)
		}
		if m.Entity(e.Name) != nil {
			return nil, veloxcheck.NewSchemaError(e.Name, "", "duplicate entity", nil)
		}
		m.AddEntity(e.Name, sqlschema.Table(e.Table), sqlschema.Schema(e.Schema), sqlschema.Comment(e.Comment))
	}
	steps := []func(*Entity, *model.Model) error{
		(*Entity).buildHierarchy,
		(*Entity).buildProperties,
		(*Entity).buildKeys,
		(*Entity).buildReferences,
		(*Entity).buildDiscriminator,
		(*Entity).buildDiscriminatorValue,
	}
	for _, step := range steps {
		for _, e := range s.Entities {
			if err := step(e, m); err != nil {
				return nil, err
			}
		}
	}
	for _, f := range s.Functions {
		fn, err := f.build()
		if err != nil {
			return nil, err
		}
		m.AddFunction(fn)
	}
	if s.DiscriminatorConvention == nil || *s.DiscriminatorConvention {
		m.ApplyDiscriminatorConvention()
	}
	return m, nil
}

func (e *Entity) buildHierarchy(m *model.Model) error {
	t := m.Entity(e.Name)
	t.Abstract = e.Abstract
	if e.Base != "" {
		base := m.Entity(e.Base)
		if base == nil {
			return veloxcheck.NewSchemaError(e.Name, "base", fmt.Sprintf("unknown entity %q", e.Base), nil)
		}
		for b := base; b != nil; b = b.Base {
			if b == t {
				return veloxcheck.NewSchemaError(e.Name, "base", "inheritance cycle", nil)
			}
		}
		t.SetBase(base)
	}
	if e.Owner != "" {
		owner := m.Entity(e.Owner)
		if owner == nil {
			return veloxcheck.NewSchemaError(e.Name, "owner", fmt.Sprintf("unknown entity %q", e.Owner), nil)
		}
		t.SetOwner(owner)
	}
	return nil
}

func (e *Entity) buildProperties(m *model.Model) error {
	t := m.Entity(e.Name)
	for _, p := range e.Properties {
		if strings.TrimSpace(p.Name) == "" {
			return veloxcheck.NewSchemaError(e.Name, "", "property name is required", nil)
		}
		if declared(t, p.Name) {
			return veloxcheck.NewSchemaError(e.Name, p.Name, "duplicate property", nil)
		}
		typ, err := model.ParseValueType(p.Type)
		if err != nil {
			return veloxcheck.NewSchemaError(e.Name, p.Name, "invalid type", err)
		}
		gen, err := model.ParseValueGenerated(p.Generated)
		if err != nil {
			return veloxcheck.NewSchemaError(e.Name, p.Name, "invalid generated option", err)
		}
		opts := []model.PropertyOption{
			model.Generated(gen),
			model.Annotate(
				sqlschema.Column(p.Column),
				sqlschema.ColumnType(p.ColumnType),
				sqlschema.Default(p.Default),
				sqlschema.DefaultExpr(p.DefaultExpr),
				sqlschema.Computed(p.Computed),
			),
		}
		if p.Optional {
			opts = append(opts, model.Optional())
		}
		if p.Nullable != nil {
			opts = append(opts, model.Nullable(*p.Nullable))
		}
		if p.ConcurrencyToken {
			opts = append(opts, model.ConcurrencyToken())
		}
		t.AddProperty(p.Name, typ, opts...)
	}
	return nil
}

func (e *Entity) buildKeys(m *model.Model) error {
	t := m.Entity(e.Name)
	if len(e.PrimaryKey) > 0 {
		props, err := properties(t, "primary_key", e.PrimaryKey)
		if err != nil {
			return err
		}
		pk := t.SetPrimaryKey(props...)
		if e.PrimaryKeyName != "" {
			pk.WithName(e.PrimaryKeyName)
		}
	}
	for _, k := range e.Keys {
		props, err := properties(t, "keys", k.Properties)
		if err != nil {
			return err
		}
		key := t.AddKey(props...)
		if k.Name != "" {
			key.WithName(k.Name)
		}
	}
	return nil
}

func (e *Entity) buildReferences(m *model.Model) error {
	t := m.Entity(e.Name)
	for _, fk := range e.ForeignKeys {
		props, err := properties(t, "foreign_keys", fk.Properties)
		if err != nil {
			return err
		}
		principal := m.Entity(fk.Principal)
		if principal == nil {
			return veloxcheck.NewSchemaError(e.Name, "foreign_keys", fmt.Sprintf("unknown principal entity %q", fk.Principal), nil)
		}
		key, err := principalKey(principal, fk.PrincipalKey)
		if err != nil {
			return veloxcheck.NewSchemaError(e.Name, "foreign_keys", err.Error(), nil)
		}
		onDelete, onUpdate := sqlschema.CascadeAction(strings.ToUpper(fk.OnDelete)), sqlschema.CascadeAction(strings.ToUpper(fk.OnUpdate))
		if !onDelete.Valid() || !onUpdate.Valid() {
			return veloxcheck.NewSchemaError(e.Name, "foreign_keys", fmt.Sprintf("invalid cascade action %q/%q", fk.OnDelete, fk.OnUpdate), nil)
		}
		ref := t.AddForeignKey(props, key, sqlschema.Name(fk.Name), sqlschema.OnDelete(onDelete), sqlschema.OnUpdate(onUpdate)).
			WithPrincipal(principal)
		ref.Unique = fk.Unique
	}
	for _, idx := range e.Indexes {
		props, err := properties(t, "indexes", idx.Properties)
		if err != nil {
			return err
		}
		t.AddIndex(props, idx.Unique, sqlschema.Name(idx.Name))
	}
	return nil
}

func (e *Entity) buildDiscriminator(m *model.Model) error {
	if e.Discriminator == "" {
		return nil
	}
	t := m.Entity(e.Name)
	p := t.Property(e.Discriminator)
	if p == nil {
		return veloxcheck.NewSchemaError(e.Name, "discriminator", fmt.Sprintf("unknown property %q", e.Discriminator), nil)
	}
	t.SetDiscriminator(p, e.DiscriminatorValue)
	return nil
}

// buildDiscriminatorValue sets the value of types that inherit the
// discriminator property from a base type.
func (e *Entity) buildDiscriminatorValue(m *model.Model) error {
	if e.Discriminator != "" || e.DiscriminatorValue == nil {
		return nil
	}
	t := m.Entity(e.Name)
	t.DiscriminatorValue = e.DiscriminatorValue
	for b := t.Base; b != nil; b = b.Base {
		if b.Discriminator != nil {
			t.Discriminator = b.Discriminator
			break
		}
	}
	return nil
}

func declared(t *model.EntityType, name string) bool {
	for _, p := range t.Properties {
		if p.Name == name {
			return true
		}
	}
	return false
}

func properties(t *model.EntityType, field string, names []string) ([]*model.Property, error) {
	if len(names) == 0 {
		return nil, veloxcheck.NewSchemaError(t.Name, field, "at least one property is required", nil)
	}
	props := make([]*model.Property, len(names))
	for i, name := range names {
		p := t.Property(name)
		if p == nil {
			return nil, veloxcheck.NewSchemaError(t.Name, field, fmt.Sprintf("unknown property %q", name), nil)
		}
		props[i] = p
	}
	return props, nil
}

func principalKey(principal *model.EntityType, names []string) (*model.Key, error) {
	if len(names) == 0 {
		if pk := principal.PrimaryKey(); pk != nil {
			return pk, nil
		}
		return nil, fmt.Errorf("principal entity %q has no primary key", principal.Name)
	}
	for e := principal; e != nil; e = e.Base {
		for _, k := range e.Keys {
			if slices.Equal(model.PropertyNames(k.Properties), names) {
				return k, nil
			}
		}
	}
	return nil, fmt.Errorf("principal entity %q has no key {%s}", principal.Name, strings.Join(names, ", "))
}

func (f *Function) build() (*model.Function, error) {
	name := f.Method
	if name == "" {
		name = f.Name
	}
	rt, err := model.ParseValueType(f.ReturnType)
	if err != nil {
		return nil, veloxcheck.NewSchemaError(name, "return_type", "invalid type", err)
	}
	fn := &model.Function{
		Method:          f.Method,
		Name:            f.Name,
		Schema:          f.Schema,
		ReturnType:      rt,
		ReturnStoreType: f.ReturnStoreType,
	}
	for _, p := range f.Parameters {
		pt, err := model.ParseValueType(p.Type)
		if err != nil {
			return nil, veloxcheck.NewSchemaError(name, p.Name, "invalid parameter type", err)
		}
		fn.Parameters = append(fn.Parameters, &model.Parameter{Name: p.Name, Type: pt, StoreType: p.StoreType})
	}
	return fn, nil
}
