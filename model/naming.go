package model

import (
	"strings"

	"github.com/go-openapi/inflect"
)

// DefaultTableName returns the table name inferred for an entity type
// that does not configure one: the snake-cased plural of the type name.
func DefaultTableName(typeName string) string {
	return inflect.Underscore(inflect.Pluralize(typeName))
}

// DefaultPrimaryKeyName returns the inferred primary key constraint name.
func DefaultPrimaryKeyName(table string) string {
	return "pk_" + table
}

// DefaultAlternateKeyName returns the inferred alternate key constraint
// name.
func DefaultAlternateKeyName(table string, columns []string) string {
	return "ak_" + table + "_" + strings.Join(columns, "_")
}

// DefaultForeignKeyName returns the inferred foreign key constraint name.
func DefaultForeignKeyName(table, principalTable string, columns []string) string {
	return "fk_" + table + "_" + principalTable + "_" + strings.Join(columns, "_")
}

// DefaultIndexName returns the inferred index name.
func DefaultIndexName(table string, columns []string) string {
	return "ix_" + table + "_" + strings.Join(columns, "_")
}
