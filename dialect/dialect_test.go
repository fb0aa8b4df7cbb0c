package dialect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/veloxcheck/model"
)

func TestNewResolver(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			r, err := NewResolver(name)
			require.NoError(t, err)
			require.Equal(t, name, r.Dialect())
			for _, vt := range []model.ValueType{
				model.TypeBool, model.TypeTime, model.TypeString, model.TypeInt64,
				model.TypeFloat64, model.TypeDecimal, model.TypeBytes, model.TypeUUID,
			} {
				s, ok := r.StoreType(vt)
				assert.True(t, ok, "%s has no mapping on %s", vt, name)
				assert.NotEmpty(t, s, "%s has no mapping on %s", vt, name)
			}
			_, ok := r.StoreType(model.TypeOther)
			assert.False(t, ok)
			_, ok = r.StoreType(model.TypeInvalid)
			assert.False(t, ok)
		})
	}
}

func TestNewResolver_Unsupported(t *testing.T) {
	_, err := NewResolver("oracle")
	require.EqualError(t, err, `dialect: unsupported dialect "oracle"`)
	assert.False(t, Valid("oracle"))
	assert.True(t, Valid(SQLite))
}

func TestResolver_Postgres(t *testing.T) {
	r, err := NewResolver(Postgres)
	require.NoError(t, err)
	s, _ := r.StoreType(model.TypeInt64)
	assert.Equal(t, "bigint", s)
	s, _ = r.StoreType(model.TypeBool)
	assert.Equal(t, "boolean", s)
}

func TestResolver_Normalize(t *testing.T) {
	r, err := NewResolver(Postgres)
	require.NoError(t, err)
	assert.Equal(t, "", r.Normalize("  "))
	assert.Equal(t, r.Normalize("BIGINT"), r.Normalize("bigint"))
	assert.Equal(t, strings.ToLower(r.Normalize("BOOLEAN")), r.Normalize("boolean"))
}
