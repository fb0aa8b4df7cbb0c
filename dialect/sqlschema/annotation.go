// Package sqlschema holds the relational mapping configured for model
// elements: the table an entity type is stored in, the column a property
// is stored in, and the names of keys, foreign keys and indexes.
//
// Import this package as:
//
//	import "github.com/syssam/veloxcheck/dialect/sqlschema"
//
// # API Styles
//
// Functional style:
//
//	sqlschema.Table("animals")
//	sqlschema.ColumnType("numeric(18,2)")
//	sqlschema.DefaultExpr("now()")
//
// Struct literal style:
//
//	sqlschema.Annotation{
//	    Table:  "animals",
//	    Schema: "zoo",
//	}
//
// Only values that were configured by the user are set; values inferred by
// conventions (default table names, default column names) are resolved by
// the model package and never stored here. This distinction matters for
// checks such as "a derived type may not configure its own table".
//
// # Cascade Actions
//
// Available constants for OnDelete and OnUpdate:
//
//	sqlschema.Cascade    - Delete/update related rows
//	sqlschema.SetNull    - Set foreign key to NULL
//	sqlschema.Restrict   - Prevent delete/update if related rows exist
//	sqlschema.SetDefault - Set foreign key to default value
//	sqlschema.NoAction   - No action (database default)
package sqlschema

// CascadeAction defines cascade behavior for foreign key constraints.
type CascadeAction string

const (
	Cascade    CascadeAction = "CASCADE"
	SetNull    CascadeAction = "SET NULL"
	Restrict   CascadeAction = "RESTRICT"
	SetDefault CascadeAction = "SET DEFAULT"
	NoAction   CascadeAction = "NO ACTION"
)

// Valid reports whether the action is one of the known cascade actions.
// The empty action is valid and means "not configured".
func (a CascadeAction) Valid() bool {
	switch a {
	case "", Cascade, SetNull, Restrict, SetDefault, NoAction:
		return true
	}
	return false
}

// Or returns a, or def when a is not configured.
func (a CascadeAction) Or(def CascadeAction) CascadeAction {
	if a == "" {
		return def
	}
	return a
}

// Annotation holds user-configured SQL settings for entity types,
// properties, keys, foreign keys and indexes.
type Annotation struct {
	// Table overrides the database table name for an entity type.
	Table string `yaml:"table,omitempty" json:"table,omitempty"`

	// Schema specifies the database schema of the table.
	Schema string `yaml:"schema,omitempty" json:"schema,omitempty"`

	// Comment is the table or column comment.
	Comment string `yaml:"comment,omitempty" json:"comment,omitempty"`

	// Column overrides the column name of a property.
	Column string `yaml:"column,omitempty" json:"column,omitempty"`

	// ColumnType sets a custom database column type.
	ColumnType string `yaml:"column_type,omitempty" json:"column_type,omitempty"`

	// Default is the literal default value of the column. nil means no
	// literal default is configured.
	Default any `yaml:"default,omitempty" json:"default,omitempty"`

	// DefaultExpr is a SQL expression for the default value.
	DefaultExpr string `yaml:"default_expr,omitempty" json:"default_expr,omitempty"`

	// Computed is the SQL expression of a computed column.
	Computed string `yaml:"computed,omitempty" json:"computed,omitempty"`

	// Name overrides the constraint name of a key or foreign key, or the
	// name of an index.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// OnDelete sets the ON DELETE cascade action.
	OnDelete CascadeAction `yaml:"on_delete,omitempty" json:"on_delete,omitempty"`

	// OnUpdate sets the ON UPDATE cascade action.
	OnUpdate CascadeAction `yaml:"on_update,omitempty" json:"on_update,omitempty"`
}

// Table sets the database table name for an entity type.
func Table(name string) Annotation {
	return Annotation{Table: name}
}

// Schema sets the database schema for an entity type.
func Schema(name string) Annotation {
	return Annotation{Schema: name}
}

// Comment sets the table or column comment.
func Comment(c string) Annotation {
	return Annotation{Comment: c}
}

// Column sets the column name of a property.
func Column(name string) Annotation {
	return Annotation{Column: name}
}

// ColumnType sets the database type of a column.
func ColumnType(typ string) Annotation {
	return Annotation{ColumnType: typ}
}

// Default sets the literal default value of a column.
func Default(v any) Annotation {
	return Annotation{Default: v}
}

// DefaultExpr sets the default value expression of a column.
//
//	sqlschema.DefaultExpr("CURRENT_TIMESTAMP")
func DefaultExpr(expr string) Annotation {
	return Annotation{DefaultExpr: expr}
}

// Computed marks a column as computed by the given SQL expression.
func Computed(expr string) Annotation {
	return Annotation{Computed: expr}
}

// Name sets the constraint or index name.
func Name(name string) Annotation {
	return Annotation{Name: name}
}

// OnDelete sets the ON DELETE action of a foreign key.
func OnDelete(action CascadeAction) Annotation {
	return Annotation{OnDelete: action}
}

// OnUpdate sets the ON UPDATE action of a foreign key.
func OnUpdate(action CascadeAction) Annotation {
	return Annotation{OnUpdate: action}
}

// Merge combines multiple SQL annotations into one.
// Later annotations override earlier ones for the same setting.
func Merge(annotations ...Annotation) Annotation {
	result := Annotation{}
	for _, a := range annotations {
		if a.Table != "" {
			result.Table = a.Table
		}
		if a.Schema != "" {
			result.Schema = a.Schema
		}
		if a.Comment != "" {
			result.Comment = a.Comment
		}
		if a.Column != "" {
			result.Column = a.Column
		}
		if a.ColumnType != "" {
			result.ColumnType = a.ColumnType
		}
		if a.Default != nil {
			result.Default = a.Default
		}
		if a.DefaultExpr != "" {
			result.DefaultExpr = a.DefaultExpr
		}
		if a.Computed != "" {
			result.Computed = a.Computed
		}
		if a.Name != "" {
			result.Name = a.Name
		}
		if a.OnDelete != "" {
			result.OnDelete = a.OnDelete
		}
		if a.OnUpdate != "" {
			result.OnUpdate = a.OnUpdate
		}
	}
	return result
}
