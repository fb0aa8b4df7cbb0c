// Package dialect provides the database dialects known to veloxcheck and
// the native type resolver of each of them.
//
// # Supported Dialects
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Type Resolution
//
// A Resolver maps the semantic value type of a property onto the default
// store type of the dialect. Store types are described with atlas schema
// types and rendered with the dialect's own type formatter, so the strings
// match what atlas inspects from a live database:
//
//	r, err := dialect.NewResolver(dialect.Postgres)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	typ, ok := r.StoreType(model.TypeInt64) // "bigint", true
//
// Value types without a native mapping (model.TypeOther) resolve to
// ("", false). The validator reports properties and function signatures
// that end up without a store type.
//
// Resolvers are immutable once created and safe for concurrent use.
package dialect
