package validate

import (
	"slices"
	"strconv"

	"github.com/syssam/veloxcheck/model"
)

// KeysCompatible reports whether key and dup, both mapped to the same
// constraint name in table, can share a single physical key. With
// shouldThrow the incompatibility is returned as a *KeyConflictError
// instead of false. The predicate is symmetric.
func KeysCompatible(key, dup *model.Key, table model.TableID, shouldThrow bool) (bool, error) {
	if cols, other := key.Columns(), dup.Columns(); !slices.Equal(cols, other) {
		if !shouldThrow {
			return false, nil
		}
		return false, &KeyConflictError{
			Table:           table,
			Name:            key.Name(),
			Entity:          key.Entity().Name,
			Properties:      model.PropertyNames(key.Properties),
			Columns:         cols,
			OtherEntity:     dup.Entity().Name,
			OtherProperties: model.PropertyNames(dup.Properties),
			OtherColumns:    other,
		}
	}
	return true, nil
}

// ForeignKeysCompatible reports whether fk and dup, both mapped to the
// same constraint name in table, can share a single physical foreign key.
// They must agree on columns, principal table and columns, uniqueness and
// cascade actions. With shouldThrow the first incompatibility is returned
// as a *ForeignKeyConflictError.
func ForeignKeysCompatible(fk, dup *model.ForeignKey, table model.TableID, shouldThrow bool) (bool, error) {
	conflict := func(kind Kind, value, other string) (bool, error) {
		if !shouldThrow {
			return false, nil
		}
		return false, &ForeignKeyConflictError{
			kind:            kind,
			Table:           table,
			Name:            fk.Name(),
			Entity:          fk.Entity().Name,
			Properties:      model.PropertyNames(fk.Properties),
			OtherEntity:     dup.Entity().Name,
			OtherProperties: model.PropertyNames(dup.Properties),
			Value:           value,
			OtherValue:      other,
		}
	}
	if p, o := fk.PrincipalEntity().Table(), dup.PrincipalEntity().Table(); p != o {
		return conflict(DuplicateForeignKeyPrincipalTableMismatch, strconv.Quote(p.String()), strconv.Quote(o.String()))
	}
	if c, o := fk.Columns(), dup.Columns(); !slices.Equal(c, o) {
		return conflict(DuplicateForeignKeyColumnMismatch, columnList(c), columnList(o))
	}
	if c, o := fk.PrincipalKey.Columns(), dup.PrincipalKey.Columns(); !slices.Equal(c, o) {
		return conflict(DuplicateForeignKeyPrincipalColumnMismatch, columnList(c), columnList(o))
	}
	if fk.Unique != dup.Unique {
		return conflict(DuplicateForeignKeyUniquenessMismatch, uniqueness(fk.Unique), uniqueness(dup.Unique))
	}
	if a, b := fk.OnDelete(), dup.OnDelete(); a != b {
		return conflict(DuplicateForeignKeyDeleteBehaviorMismatch, string(a), string(b))
	}
	if a, b := fk.OnUpdate(), dup.OnUpdate(); a != b {
		return conflict(DuplicateForeignKeyUpdateBehaviorMismatch, string(a), string(b))
	}
	return true, nil
}

// IndexesCompatible reports whether idx and dup, both mapped to the same
// index name in table, can share a single physical index. With
// shouldThrow the first incompatibility is returned as an
// *IndexConflictError.
func IndexesCompatible(idx, dup *model.Index, table model.TableID, shouldThrow bool) (bool, error) {
	conflict := func(kind Kind, value, other string) (bool, error) {
		if !shouldThrow {
			return false, nil
		}
		return false, &IndexConflictError{
			kind:            kind,
			Table:           table,
			Name:            idx.Name(),
			Entity:          idx.Entity().Name,
			Properties:      model.PropertyNames(idx.Properties),
			OtherEntity:     dup.Entity().Name,
			OtherProperties: model.PropertyNames(dup.Properties),
			Value:           value,
			OtherValue:      other,
		}
	}
	if c, o := idx.Columns(), dup.Columns(); !slices.Equal(c, o) {
		return conflict(DuplicateIndexColumnMismatch, columnList(c), columnList(o))
	}
	if idx.Unique != dup.Unique {
		return conflict(DuplicateIndexUniquenessMismatch, uniqueness(idx.Unique), uniqueness(dup.Unique))
	}
	return true, nil
}

func uniqueness(unique bool) string {
	if unique {
		return "unique"
	}
	return "non-unique"
}
