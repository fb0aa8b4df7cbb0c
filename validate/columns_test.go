package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/veloxcheck/dialect/sqlschema"
	"github.com/syssam/veloxcheck/model"
)

func TestValidateSharedColumns_Conflicts(t *testing.T) {
	tests := []struct {
		name        string
		order       []model.PropertyOption
		detail      []model.PropertyOption
		kind        Kind
		value       string
		otherValue  string
		orderType   model.ValueType
		detailType  model.ValueType
		normalizing bool
	}{
		{
			name:   "SameSettings",
			order:  []model.PropertyOption{model.Annotate(sqlschema.ColumnType("varchar(10)"), sqlschema.Default("x"))},
			detail: []model.PropertyOption{model.Annotate(sqlschema.ColumnType("VARCHAR(10)"), sqlschema.Default("x"))},
		},
		{
			name:       "DataType",
			order:      []model.PropertyOption{model.Annotate(sqlschema.ColumnType("varchar(10)"))},
			detail:     []model.PropertyOption{model.Annotate(sqlschema.ColumnType("varchar(20)"))},
			kind:       DuplicateColumnNameDataTypeMismatch,
			value:      "varchar(20)",
			otherValue: "varchar(10)",
		},
		{
			name:       "ResolvedDataType",
			detailType: model.TypeText,
			kind:       DuplicateColumnNameDataTypeMismatch,
		},
		{
			name:       "Nullability",
			detail:     []model.PropertyOption{model.Optional()},
			kind:       DuplicateColumnNameNullabilityMismatch,
			value:      "true",
			otherValue: "false",
		},
		{
			name:       "ComputedSQL",
			order:      []model.PropertyOption{model.Annotate(sqlschema.Computed("a || b"))},
			kind:       DuplicateColumnNameComputedSQLMismatch,
			value:      "",
			otherValue: "a || b",
		},
		{
			name:   "ComputedSQLIgnoresCase",
			order:  []model.PropertyOption{model.Annotate(sqlschema.Computed("upper(a)"))},
			detail: []model.PropertyOption{model.Annotate(sqlschema.Computed("UPPER(a)"))},
		},
		{
			name:       "DefaultValue",
			order:      []model.PropertyOption{model.Annotate(sqlschema.Default("a"))},
			detail:     []model.PropertyOption{model.Annotate(sqlschema.Default("b"))},
			kind:       DuplicateColumnNameDefaultMismatch,
			value:      "b",
			otherValue: "a",
		},
		{
			name:       "DefaultValueMissing",
			order:      []model.PropertyOption{model.Annotate(sqlschema.Default("a"))},
			kind:       DuplicateColumnNameDefaultMismatch,
			value:      "NULL",
			otherValue: "a",
		},
		{
			name:       "DefaultSQL",
			order:      []model.PropertyOption{model.Annotate(sqlschema.DefaultExpr("now()"))},
			detail:     []model.PropertyOption{model.Annotate(sqlschema.DefaultExpr("current_timestamp"))},
			kind:       DuplicateColumnNameDefaultSQLMismatch,
			value:      "current_timestamp",
			otherValue: "now()",
		},
		{
			name:   "DefaultSQLIgnoresCase",
			order:  []model.PropertyOption{model.Annotate(sqlschema.DefaultExpr("now()"))},
			detail: []model.PropertyOption{model.Annotate(sqlschema.DefaultExpr("NOW()"))},
		},
		{
			name:        "NormalizedDataType",
			order:       []model.PropertyOption{model.Annotate(sqlschema.ColumnType("double precision"))},
			detail:      []model.PropertyOption{model.Annotate(sqlschema.ColumnType("DOUBLEPRECISION"))},
			normalizing: true,
		},
		{
			name:       "DataTypeBeforeNullability",
			order:      []model.PropertyOption{model.Annotate(sqlschema.ColumnType("int"))},
			detail:     []model.PropertyOption{model.Optional(), model.Annotate(sqlschema.ColumnType("bigint"))},
			kind:       DuplicateColumnNameDataTypeMismatch,
			value:      "bigint",
			otherValue: "int",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := model.New()
			order, detail := splitTable(m)
			otyp, dtyp := model.TypeString, model.TypeString
			if tt.orderType != model.TypeInvalid {
				otyp = tt.orderType
			}
			if tt.detailType != model.TypeInvalid {
				dtyp = tt.detailType
			}
			order.AddProperty("Code", otyp, tt.order...)
			detail.AddProperty("Code", dtyp, tt.detail...)

			var opts []Option
			if tt.normalizing {
				opts = append(opts, WithTypeResolver(lowerResolver{}), WithStoreTypeNormalization())
			}
			err := newValidator(t, opts...).ValidateSharedColumns(group(t, m, "Orders"))
			if tt.kind == KindInvalid {
				require.NoError(t, err)
				return
			}
			require.Equal(t, tt.kind, KindOf(err))
			var ce *ColumnConflictError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "Code", ce.Column)
			assert.Equal(t, "OrderDetail", ce.Entity)
			assert.Equal(t, "Code", ce.Property)
			assert.Equal(t, "Order", ce.OtherEntity)
			if tt.value != "" || tt.otherValue != "" {
				assert.Equal(t, tt.value, ce.Value)
				assert.Equal(t, tt.otherValue, ce.OtherValue)
			}
		})
	}
}

func TestValidateSharedColumns_WithoutNormalization(t *testing.T) {
	m := model.New()
	order, detail := splitTable(m)
	order.AddProperty("Amount", model.TypeFloat64, model.Annotate(sqlschema.ColumnType("double precision")))
	detail.AddProperty("Amount", model.TypeFloat64, model.Annotate(sqlschema.ColumnType("doubleprecision")))

	err := newValidator(t, WithTypeResolver(lowerResolver{})).ValidateSharedColumns(group(t, m, "Orders"))
	require.True(t, IsKind(err, DuplicateColumnNameDataTypeMismatch))
}

func TestValidateSharedColumns_ConcurrencyToken(t *testing.T) {
	token := []model.PropertyOption{model.ConcurrencyToken(), model.Generated(model.OnAddOrUpdate)}

	t.Run("Missing", func(t *testing.T) {
		m := model.New()
		order, _ := splitTable(m)
		order.AddProperty("Version", model.TypeBytes, token...)

		err := newValidator(t).ValidateSharedColumns(group(t, m, "Orders"))
		require.Equal(t, MissingConcurrencyColumn, KindOf(err))
		var me *MissingConcurrencyColumnError
		require.ErrorAs(t, err, &me)
		assert.Equal(t, "OrderDetail", me.Entity)
		assert.Equal(t, "Version", me.Column)
		assert.Equal(t, "Orders", me.Table.Name)
	})
	t.Run("MappedByEveryType", func(t *testing.T) {
		m := model.New()
		order, detail := splitTable(m)
		order.AddProperty("Version", model.TypeBytes, token...)
		detail.AddProperty("Version", model.TypeBytes, token...)
		require.NoError(t, newValidator(t).ValidateSharedColumns(group(t, m, "Orders")))
	})
	t.Run("MappedWithOtherName", func(t *testing.T) {
		m := model.New()
		order, detail := splitTable(m)
		order.AddProperty("Version", model.TypeBytes, token...)
		detail.AddProperty("RowVersion", model.TypeBytes, append(token, model.Annotate(sqlschema.Column("Version")))...)
		require.NoError(t, newValidator(t).ValidateSharedColumns(group(t, m, "Orders")))
	})
	t.Run("NotStoreGenerated", func(t *testing.T) {
		m := model.New()
		order, _ := splitTable(m)
		order.AddProperty("Version", model.TypeBytes, model.ConcurrencyToken(), model.Generated(model.OnAdd))
		require.NoError(t, newValidator(t).ValidateSharedColumns(group(t, m, "Orders")))
	})
	t.Run("Owned", func(t *testing.T) {
		m := model.New()
		order, detail := splitTable(m)
		detail.SetOwner(order)
		order.AddProperty("Version", model.TypeBytes, token...)
		require.NoError(t, newValidator(t).ValidateSharedColumns(group(t, m, "Orders")))
	})
	t.Run("OwnedByDeclaringType", func(t *testing.T) {
		m := model.New()
		order, detail := splitTable(m)
		detail.SetOwner(order)
		detail.AddProperty("Version", model.TypeBytes, token...)
		require.NoError(t, newValidator(t).ValidateSharedColumns(group(t, m, "Orders")))
	})
	t.Run("CustomOwnership", func(t *testing.T) {
		m := model.New()
		order, _ := splitTable(m)
		order.AddProperty("Version", model.TypeBytes, token...)
		v := newValidator(t, WithOwnership(OwnershipFunc(func(owned, owner *model.EntityType) bool {
			return owned.Name == "OrderDetail" && owner.Name == "Order"
		})))
		require.NoError(t, v.ValidateSharedColumns(group(t, m, "Orders")))
	})
	t.Run("Inherited", func(t *testing.T) {
		m := model.New()
		animal, _ := entity(m, "Animal", "Animals")
		animal.AddProperty("Version", model.TypeBytes, token...)
		m.AddEntity("Pet").SetBase(animal)
		require.NoError(t, newValidator(t).ValidateSharedColumns(group(t, m, "Animals")))
	})
	t.Run("DeclaredByDerivedType", func(t *testing.T) {
		m := model.New()
		animal, _ := entity(m, "Animal", "Animals")
		pet := m.AddEntity("Pet").SetBase(animal)
		pet.AddProperty("Version", model.TypeBytes, token...)
		require.NoError(t, newValidator(t).ValidateSharedColumns(group(t, m, "Animals")))
	})
	t.Run("SplitHierarchy", func(t *testing.T) {
		m := model.New()
		order, detail := splitTable(m)
		detail.AddProperty("Version", model.TypeBytes, token...)
		special := m.AddEntity("SpecialOrder").SetBase(order)
		special.AddProperty("Note", model.TypeString, model.Optional())

		err := newValidator(t).ValidateSharedColumns(group(t, m, "Orders"))
		var me *MissingConcurrencyColumnError
		require.ErrorAs(t, err, &me)
		assert.Equal(t, "Order", me.Entity)
	})
}
