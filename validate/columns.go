package validate

import (
	"reflect"
	"strings"

	"github.com/syssam/veloxcheck/model"
)

// ValidateSharedColumns checks the columns of a table group. Properties of
// different types mapped to the same column must agree on store type,
// nullability, computed SQL, default value and default SQL. The first
// property seen for a column is the reference for all later ones.
//
// Every member must also map each store-generated concurrency token column
// used by another member, unless it is related to the declaring type by
// inheritance or ownership.
func (v *Validator) ValidateSharedColumns(g *TableGroup) error {
	var (
		tokens  = concurrencyColumns(g)
		columns = make(map[string]*model.Property)
	)
	for _, t := range g.Types {
		missing := v.missingTokens(tokens, t)
		for _, p := range t.Properties {
			col := p.Column()
			delete(missing, col)
			dup, ok := columns[col]
			if !ok {
				columns[col] = p
				continue
			}
			if err := v.columnsCompatible(g.Table, col, p, dup); err != nil {
				return err
			}
		}
		for _, col := range tokens.columns {
			if _, ok := missing[col]; ok && !declaredByBase(t, col) {
				return &MissingConcurrencyColumnError{Table: g.Table, Column: col, Entity: t.Name}
			}
		}
	}
	return nil
}

// tokenColumns maps the store-generated concurrency token columns of a
// table to the properties mapped to them.
type tokenColumns struct {
	columns []string
	props   map[string][]*model.Property
}

func concurrencyColumns(g *TableGroup) *tokenColumns {
	tc := &tokenColumns{props: make(map[string][]*model.Property)}
	if !g.Shared() {
		return tc
	}
	for _, t := range g.Types {
		for _, p := range t.Properties {
			if !p.IsStoreGeneratedConcurrencyToken() {
				continue
			}
			col := p.Column()
			if _, ok := tc.props[col]; !ok {
				tc.columns = append(tc.columns, col)
			}
			tc.props[col] = append(tc.props[col], p)
		}
	}
	return tc
}

// missingTokens returns the token columns t is expected to map itself.
func (v *Validator) missingTokens(tc *tokenColumns, t *model.EntityType) map[string]struct{} {
	missing := make(map[string]struct{})
	for _, col := range tc.columns {
		if v.tokenMissing(tc.props[col], t) {
			missing[col] = struct{}{}
		}
	}
	return missing
}

func (v *Validator) tokenMissing(props []*model.Property, t *model.EntityType) bool {
	for _, p := range props {
		decl := p.Entity()
		if decl.IsAssignableFrom(t) || t.IsAssignableFrom(decl) ||
			v.ownership.IsInOwnershipPath(decl, t) || v.ownership.IsInOwnershipPath(t, decl) {
			return false
		}
	}
	return true
}

// declaredByBase reports whether a base type of t maps a property to col.
func declaredByBase(t *model.EntityType, col string) bool {
	for _, base := range t.BaseTypes() {
		for _, p := range base.Properties {
			if p.Column() == col {
				return true
			}
		}
	}
	return false
}

func (v *Validator) columnsCompatible(table model.TableID, col string, p, dup *model.Property) error {
	conflict := func(kind Kind, value, other string) error {
		return &ColumnConflictError{
			kind:          kind,
			Table:         table,
			Column:        col,
			Entity:        p.Entity().Name,
			Property:      p.Name,
			OtherEntity:   dup.Entity().Name,
			OtherProperty: dup.Name,
			Value:         value,
			OtherValue:    other,
		}
	}
	if st, other := v.storeType(p), v.storeType(dup); !strings.EqualFold(st, other) {
		return conflict(DuplicateColumnNameDataTypeMismatch, st, other)
	}
	if n, other := p.IsColumnNullable(), dup.IsColumnNullable(); n != other {
		return conflict(DuplicateColumnNameNullabilityMismatch, formatBool(n), formatBool(other))
	}
	if c, other := p.ComputedSQL(), dup.ComputedSQL(); !strings.EqualFold(c, other) {
		return conflict(DuplicateColumnNameComputedSQLMismatch, c, other)
	}
	if d, other := p.DefaultValue(), dup.DefaultValue(); !reflect.DeepEqual(d, other) {
		return conflict(DuplicateColumnNameDefaultMismatch, formatDefault(d), formatDefault(other))
	}
	if d, other := p.DefaultExpr(), dup.DefaultExpr(); !strings.EqualFold(d, other) {
		return conflict(DuplicateColumnNameDefaultSQLMismatch, d, other)
	}
	return nil
}
