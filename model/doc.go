// Package model holds the entity model consumed by the validator: entity
// types with their properties, keys, foreign keys and indexes, and the
// mapping of each entity type onto a physical table.
//
// # Building a Model
//
//	m := model.New()
//	animal := m.AddEntity("Animal", sqlschema.Table("Animals"))
//	id := animal.AddProperty("Id", model.TypeInt64)
//	animal.SetPrimaryKey(id)
//
//	pet := m.AddEntity("Pet").SetBase(animal)
//	pet.AddProperty("Name", model.TypeString, model.Optional())
//
// # Table Mapping
//
// Names configured by the user are kept in sqlschema annotations. Names
// that were not configured are inferred:
//
//   - tables: the configured table, else the table of the base type, else
//     the snake-cased plural of the type name ("OrderDetail" is stored in
//     "order_details")
//   - columns: the configured column, else the property name
//   - keys: "pk_<table>" and "ak_<table>_<columns>"
//   - foreign keys: "fk_<table>_<principal table>_<columns>"
//   - indexes: "ix_<table>_<columns>"
//
// A Model is not safe for concurrent mutation. Once built it is only read,
// and may be shared by any number of concurrent validation passes.
package model
