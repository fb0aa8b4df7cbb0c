package validate

import (
	"strings"

	"github.com/syssam/veloxcheck/model"
)

// ValidateFunctions checks the store functions of m: each needs a name,
// and a store type for its return value and every parameter, either
// configured or resolved by the dialect.
func (v *Validator) ValidateFunctions(m *model.Model) error {
	for _, f := range m.Functions() {
		if strings.TrimSpace(f.Name) == "" {
			return &FunctionError{kind: FunctionNameEmpty, Function: f.DisplayName()}
		}
		if !v.mapped(f.ReturnType, f.ReturnStoreType) {
			return &FunctionError{kind: InvalidReturnType, Function: f.DisplayName(), Type: f.ReturnType.String()}
		}
		for _, p := range f.Parameters {
			if !v.mapped(p.Type, p.StoreType) {
				return &FunctionError{kind: InvalidParameterType, Function: f.DisplayName(), Parameter: p.Name, Type: p.Type.String()}
			}
		}
	}
	return nil
}

func (v *Validator) mapped(t model.ValueType, storeType string) bool {
	if strings.TrimSpace(storeType) != "" {
		return true
	}
	_, ok := v.resolver.StoreType(t)
	return ok
}
