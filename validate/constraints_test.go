package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/veloxcheck/dialect/sqlschema"
	"github.com/syssam/veloxcheck/model"
)

func TestValidateSharedKeys(t *testing.T) {
	m := model.New()
	order, detail := splitTable(m)
	code := order.AddProperty("Code", model.TypeString)
	ref := detail.AddProperty("Ref", model.TypeString)
	order.AddKey(code).WithName("ak_shared")
	detail.AddKey(ref).WithName("ak_shared")

	err := ValidateSharedKeys(group(t, m, "Orders"))
	require.Equal(t, DuplicateKeyColumnMismatch, KindOf(err))
	var ke *KeyConflictError
	require.ErrorAs(t, err, &ke)
	assert.Equal(t, "ak_shared", ke.Name)
	assert.Equal(t, "OrderDetail", ke.Entity)
	assert.Equal(t, []string{"Ref"}, ke.Columns)
	assert.Equal(t, "Order", ke.OtherEntity)
	assert.Equal(t, []string{"Code"}, ke.OtherColumns)

	ref.Annotation.Column = "Code"
	require.NoError(t, ValidateSharedKeys(group(t, m, "Orders")))
}

func TestKeysCompatible(t *testing.T) {
	m := model.New()
	order, detail := splitTable(m)
	a := order.AddKey(order.AddProperty("A", model.TypeInt))
	b := detail.AddKey(detail.AddProperty("B", model.TypeInt))
	table := order.Table()

	ok, err := KeysCompatible(a, b, table, false)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = KeysCompatible(b, a, table, false)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = KeysCompatible(order.PrimaryKey(), detail.PrimaryKey(), table, true)
	require.NoError(t, err)
	assert.True(t, ok)
}

// foreignKeyFixture maps Order and OrderDetail to "Orders", each with a
// foreign key named "fk_customer" to Customer.
type foreignKeyFixture struct {
	m                  *model.Model
	customer, supplier *model.EntityType
	order, detail      *model.EntityType
	orderFK, detailFK  *model.ForeignKey
}

func newForeignKeyFixture(detailOpts ...sqlschema.Annotation) *foreignKeyFixture {
	f := &foreignKeyFixture{m: model.New()}
	var customerPK *model.Key
	f.customer, customerPK = entity(f.m, "Customer", "Customers")
	f.supplier, _ = entity(f.m, "Supplier", "Suppliers")
	f.order, f.detail = splitTable(f.m)
	oc := f.order.AddProperty("CustomerId", model.TypeInt64)
	dc := f.detail.AddProperty("CustomerId", model.TypeInt64)
	f.orderFK = f.order.AddForeignKey([]*model.Property{oc}, customerPK, sqlschema.Name("fk_customer"))
	f.detailFK = f.detail.AddForeignKey([]*model.Property{dc}, customerPK, append([]sqlschema.Annotation{sqlschema.Name("fk_customer")}, detailOpts...)...)
	return f
}

func TestValidateSharedForeignKeys(t *testing.T) {
	tests := []struct {
		name   string
		opts   []sqlschema.Annotation
		mutate func(*foreignKeyFixture)
		kind   Kind
		value  string
		other  string
	}{
		{
			name: "Compatible",
		},
		{
			name: "PrincipalTable",
			mutate: func(f *foreignKeyFixture) {
				f.detailFK.PrincipalKey = f.supplier.PrimaryKey()
			},
			kind:  DuplicateForeignKeyPrincipalTableMismatch,
			value: `"Suppliers"`,
			other: `"Customers"`,
		},
		{
			name: "Columns",
			mutate: func(f *foreignKeyFixture) {
				f.detailFK.Properties[0].Annotation.Column = "BuyerId"
			},
			kind:  DuplicateForeignKeyColumnMismatch,
			value: "{BuyerId}",
			other: "{CustomerId}",
		},
		{
			name: "PrincipalColumns",
			mutate: func(f *foreignKeyFixture) {
				f.detailFK.PrincipalKey = f.customer.AddKey(f.customer.AddProperty("Code", model.TypeString))
			},
			kind:  DuplicateForeignKeyPrincipalColumnMismatch,
			value: "{Code}",
			other: "{Id}",
		},
		{
			name:   "Uniqueness",
			mutate: func(f *foreignKeyFixture) { f.detailFK.Unique = true },
			kind:   DuplicateForeignKeyUniquenessMismatch,
			value:  "unique",
			other:  "non-unique",
		},
		{
			name:  "DeleteBehavior",
			opts:  []sqlschema.Annotation{sqlschema.OnDelete(sqlschema.Cascade)},
			kind:  DuplicateForeignKeyDeleteBehaviorMismatch,
			value: "CASCADE",
			other: "NO ACTION",
		},
		{
			name:  "UpdateBehavior",
			opts:  []sqlschema.Annotation{sqlschema.OnUpdate(sqlschema.SetNull)},
			kind:  DuplicateForeignKeyUpdateBehaviorMismatch,
			value: "SET NULL",
			other: "NO ACTION",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newForeignKeyFixture(tt.opts...)
			if tt.mutate != nil {
				tt.mutate(f)
			}
			g := group(t, f.m, "Orders")
			err := ValidateSharedForeignKeys(g)
			if tt.kind == KindInvalid {
				require.NoError(t, err)
				return
			}
			require.Equal(t, tt.kind, KindOf(err))
			var fe *ForeignKeyConflictError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "fk_customer", fe.Name)
			assert.Equal(t, "OrderDetail", fe.Entity)
			assert.Equal(t, "Order", fe.OtherEntity)
			assert.Equal(t, tt.value, fe.Value)
			assert.Equal(t, tt.other, fe.OtherValue)

			for _, pair := range [][2]*model.ForeignKey{{f.orderFK, f.detailFK}, {f.detailFK, f.orderFK}} {
				ok, err := ForeignKeysCompatible(pair[0], pair[1], g.Table, false)
				require.NoError(t, err)
				assert.False(t, ok)
			}
		})
	}
}

func TestValidateSharedIndexes(t *testing.T) {
	setup := func() (*model.Model, *model.EntityType, *model.EntityType) {
		m := model.New()
		order, detail := splitTable(m)
		order.AddProperty("Code", model.TypeString)
		detail.AddProperty("Code", model.TypeString)
		detail.AddProperty("Ref", model.TypeString)
		return m, order, detail
	}
	t.Run("Compatible", func(t *testing.T) {
		m, order, detail := setup()
		order.AddIndex([]*model.Property{order.Property("Code")}, true, sqlschema.Name("ix_code"))
		detail.AddIndex([]*model.Property{detail.Property("Code")}, true, sqlschema.Name("ix_code"))
		require.NoError(t, ValidateSharedIndexes(group(t, m, "Orders")))
	})
	t.Run("Columns", func(t *testing.T) {
		m, order, detail := setup()
		order.AddIndex([]*model.Property{order.Property("Code")}, false, sqlschema.Name("ix_code"))
		detail.AddIndex([]*model.Property{detail.Property("Ref")}, false, sqlschema.Name("ix_code"))

		err := ValidateSharedIndexes(group(t, m, "Orders"))
		require.Equal(t, DuplicateIndexColumnMismatch, KindOf(err))
		var ie *IndexConflictError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, "ix_code", ie.Name)
		assert.Equal(t, "{Ref}", ie.Value)
		assert.Equal(t, "{Code}", ie.OtherValue)
	})
	t.Run("Uniqueness", func(t *testing.T) {
		m, order, detail := setup()
		a := order.AddIndex([]*model.Property{order.Property("Code")}, false, sqlschema.Name("ix_code"))
		b := detail.AddIndex([]*model.Property{detail.Property("Code")}, true, sqlschema.Name("ix_code"))

		g := group(t, m, "Orders")
		err := ValidateSharedIndexes(g)
		require.Equal(t, DuplicateIndexUniquenessMismatch, KindOf(err))
		assert.Contains(t, err.Error(), "different uniqueness")

		ok, err := IndexesCompatible(b, a, g.Table, false)
		require.NoError(t, err)
		assert.False(t, ok)
	})
	t.Run("DefaultNamesDiffer", func(t *testing.T) {
		m, order, detail := setup()
		order.AddIndex([]*model.Property{order.Property("Code")}, false)
		detail.AddIndex([]*model.Property{detail.Property("Ref")}, true)
		require.NoError(t, ValidateSharedIndexes(group(t, m, "Orders")))
	})
}
