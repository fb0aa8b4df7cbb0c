package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/veloxcheck/dialect/sqlschema"
	"github.com/syssam/veloxcheck/internal/testutil"
	"github.com/syssam/veloxcheck/model"
)

func newValidator(t *testing.T, opts ...Option) *Validator {
	t.Helper()
	opts = append([]Option{WithLogger(testutil.NewTestLogger(t))}, opts...)
	v, err := New(opts...)
	require.NoError(t, err)
	return v
}

// entity adds a type mapped to table with an int64 primary key "Id".
func entity(m *model.Model, name, table string) (*model.EntityType, *model.Key) {
	t := m.AddEntity(name, sqlschema.Table(table))
	id := t.AddProperty("Id", model.TypeInt64)
	return t, t.SetPrimaryKey(id)
}

// splitTable maps Order and OrderDetail to "Orders", where OrderDetail
// references Order with an identifying foreign key.
func splitTable(m *model.Model) (order, detail *model.EntityType) {
	order, pk := entity(m, "Order", "Orders")
	detail, dpk := entity(m, "OrderDetail", "Orders")
	detail.AddForeignKey(dpk.Properties, pk)
	return order, detail
}

// group returns the table group of table.
func group(t *testing.T, m *model.Model, table string) *TableGroup {
	t.Helper()
	for _, g := range GroupByTable(m) {
		if g.Table.Name == table {
			return g
		}
	}
	t.Fatalf("no group for table %q", table)
	return nil
}

// lowerResolver resolves every known type to the postgres spelling and
// normalizes by removing blanks and case.
type lowerResolver struct{}

func (lowerResolver) StoreType(t model.ValueType) (string, bool) {
	if t == model.TypeOther {
		return "", false
	}
	return t.String(), true
}

func (lowerResolver) Normalize(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", ""))
}
