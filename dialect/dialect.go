package dialect

import (
	"fmt"
	"strings"

	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/veloxcheck/model"
)

// Dialect names.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// Names returns the supported dialect names.
func Names() []string {
	return []string{Postgres, MySQL, SQLite}
}

// Valid reports whether name is a supported dialect.
func Valid(name string) bool {
	switch name {
	case Postgres, MySQL, SQLite:
		return true
	}
	return false
}

// TypeResolver resolves the default store type of a value type.
type TypeResolver interface {
	// StoreType returns the store type of t, or false if the dialect has
	// no mapping for it.
	StoreType(t model.ValueType) (string, bool)
}

// Resolver is the TypeResolver of one dialect.
type Resolver struct {
	name   string
	types  map[model.ValueType]string
	parse  func(string) (schema.Type, error)
	format func(schema.Type) (string, error)
}

var _ TypeResolver = (*Resolver)(nil)

// NewResolver returns the type resolver of the named dialect.
func NewResolver(name string) (*Resolver, error) {
	r := &Resolver{name: name}
	var types map[model.ValueType]schema.Type
	switch name {
	case Postgres:
		r.parse, r.format = postgres.ParseType, postgres.FormatType
		types = postgresTypes()
	case MySQL:
		r.parse, r.format = mysql.ParseType, mysql.FormatType
		types = mysqlTypes()
	case SQLite:
		r.parse, r.format = sqlite.ParseType, sqlite.FormatType
		types = sqliteTypes()
	default:
		return nil, fmt.Errorf("dialect: unsupported dialect %q", name)
	}
	r.types = make(map[model.ValueType]string, len(types))
	for vt, st := range types {
		s, err := r.format(st)
		if err != nil {
			// Keep the declared spelling when the formatter rejects it.
			s = rawType(st)
		}
		r.types[vt] = s
	}
	return r, nil
}

// Dialect returns the dialect name of the resolver.
func (r *Resolver) Dialect() string { return r.name }

// StoreType implements TypeResolver.
func (r *Resolver) StoreType(t model.ValueType) (string, bool) {
	s, ok := r.types[t]
	return s, ok
}

// Normalize returns the canonical spelling of a store type in the
// dialect, such that "VARCHAR(10)" and "character varying(10)" normalize
// to the same string on postgres. Types the dialect cannot parse are
// returned lower-cased.
func (r *Resolver) Normalize(storeType string) string {
	trimmed := strings.TrimSpace(storeType)
	if trimmed == "" {
		return ""
	}
	t, err := r.parse(trimmed)
	if err != nil {
		return strings.ToLower(trimmed)
	}
	s, err := r.format(t)
	if err != nil {
		return strings.ToLower(trimmed)
	}
	return s
}

func postgresTypes() map[model.ValueType]schema.Type {
	return map[model.ValueType]schema.Type{
		model.TypeBool:    &schema.BoolType{T: "boolean"},
		model.TypeTime:    &schema.TimeType{T: "timestamp with time zone"},
		model.TypeJSON:    &schema.JSONType{T: "jsonb"},
		model.TypeUUID:    &schema.UUIDType{T: "uuid"},
		model.TypeBytes:   &schema.BinaryType{T: "bytea"},
		model.TypeEnum:    &schema.StringType{T: "character varying"},
		model.TypeString:  &schema.StringType{T: "character varying"},
		model.TypeText:    &schema.StringType{T: "text"},
		model.TypeInt8:    &schema.IntegerType{T: "smallint"},
		model.TypeInt16:   &schema.IntegerType{T: "smallint"},
		model.TypeInt32:   &schema.IntegerType{T: "integer"},
		model.TypeInt:     &schema.IntegerType{T: "bigint"},
		model.TypeInt64:   &schema.IntegerType{T: "bigint"},
		model.TypeUint8:   &schema.IntegerType{T: "smallint"},
		model.TypeUint16:  &schema.IntegerType{T: "integer"},
		model.TypeUint32:  &schema.IntegerType{T: "bigint"},
		model.TypeUint:    &schema.IntegerType{T: "bigint"},
		model.TypeUint64:  &schema.IntegerType{T: "bigint"},
		model.TypeFloat32: &schema.FloatType{T: "real"},
		model.TypeFloat64: &schema.FloatType{T: "double precision"},
		model.TypeDecimal: &schema.DecimalType{T: "numeric"},
	}
}

func mysqlTypes() map[model.ValueType]schema.Type {
	return map[model.ValueType]schema.Type{
		model.TypeBool:    &schema.BoolType{T: "bool"},
		model.TypeTime:    &schema.TimeType{T: "timestamp"},
		model.TypeJSON:    &schema.JSONType{T: "json"},
		model.TypeUUID:    &schema.StringType{T: "char", Size: 36},
		model.TypeBytes:   &schema.BinaryType{T: "blob"},
		model.TypeEnum:    &schema.StringType{T: "varchar", Size: 255},
		model.TypeString:  &schema.StringType{T: "varchar", Size: 255},
		model.TypeText:    &schema.StringType{T: "longtext"},
		model.TypeInt8:    &schema.IntegerType{T: "tinyint"},
		model.TypeInt16:   &schema.IntegerType{T: "smallint"},
		model.TypeInt32:   &schema.IntegerType{T: "int"},
		model.TypeInt:     &schema.IntegerType{T: "bigint"},
		model.TypeInt64:   &schema.IntegerType{T: "bigint"},
		model.TypeUint8:   &schema.IntegerType{T: "tinyint", Unsigned: true},
		model.TypeUint16:  &schema.IntegerType{T: "smallint", Unsigned: true},
		model.TypeUint32:  &schema.IntegerType{T: "int", Unsigned: true},
		model.TypeUint:    &schema.IntegerType{T: "bigint", Unsigned: true},
		model.TypeUint64:  &schema.IntegerType{T: "bigint", Unsigned: true},
		model.TypeFloat32: &schema.FloatType{T: "float"},
		model.TypeFloat64: &schema.FloatType{T: "double"},
		model.TypeDecimal: &schema.DecimalType{T: "decimal"},
	}
}

func sqliteTypes() map[model.ValueType]schema.Type {
	return map[model.ValueType]schema.Type{
		model.TypeBool:    &schema.BoolType{T: "bool"},
		model.TypeTime:    &schema.TimeType{T: "datetime"},
		model.TypeJSON:    &schema.JSONType{T: "json"},
		model.TypeUUID:    &schema.StringType{T: "text"},
		model.TypeBytes:   &schema.BinaryType{T: "blob"},
		model.TypeEnum:    &schema.StringType{T: "text"},
		model.TypeString:  &schema.StringType{T: "text"},
		model.TypeText:    &schema.StringType{T: "text"},
		model.TypeInt8:    &schema.IntegerType{T: "integer"},
		model.TypeInt16:   &schema.IntegerType{T: "integer"},
		model.TypeInt32:   &schema.IntegerType{T: "integer"},
		model.TypeInt:     &schema.IntegerType{T: "integer"},
		model.TypeInt64:   &schema.IntegerType{T: "integer"},
		model.TypeUint8:   &schema.IntegerType{T: "integer"},
		model.TypeUint16:  &schema.IntegerType{T: "integer"},
		model.TypeUint32:  &schema.IntegerType{T: "integer"},
		model.TypeUint:    &schema.IntegerType{T: "integer"},
		model.TypeUint64:  &schema.IntegerType{T: "integer"},
		model.TypeFloat32: &schema.FloatType{T: "real"},
		model.TypeFloat64: &schema.FloatType{T: "real"},
		model.TypeDecimal: &schema.DecimalType{T: "decimal"},
	}
}

func rawType(t schema.Type) string {
	switch t := t.(type) {
	case *schema.BoolType:
		return t.T
	case *schema.TimeType:
		return t.T
	case *schema.JSONType:
		return t.T
	case *schema.UUIDType:
		return t.T
	case *schema.BinaryType:
		return t.T
	case *schema.StringType:
		if t.Size > 0 {
			return fmt.Sprintf("%s(%d)", t.T, t.Size)
		}
		return t.T
	case *schema.IntegerType:
		if t.Unsigned {
			return t.T + " unsigned"
		}
		return t.T
	case *schema.FloatType:
		return t.T
	case *schema.DecimalType:
		return t.T
	}
	return ""
}
