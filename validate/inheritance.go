package validate

import (
	"fmt"
	"reflect"

	"github.com/syssam/veloxcheck/model"
)

// ValidateInheritance checks the inheritance mapping of m. Only hierarchy
// roots may be mapped to a table explicitly, and every concrete type of a
// hierarchy needs a discriminator property and a value unique within the
// hierarchy.
func ValidateInheritance(m *model.Model) error {
	for _, t := range m.Entities() {
		if t.Base != nil && t.HasExplicitTable() {
			return &InheritanceError{kind: DerivedTypeTable, Entity: t.Name, Other: t.Base.Name, Table: t.TableName()}
		}
	}
	for _, root := range m.Roots() {
		types := m.DerivedTypesInclusive(root)
		if len(types) < 2 {
			continue
		}
		if err := validateDiscriminators(types); err != nil {
			return err
		}
	}
	return nil
}

func validateDiscriminators(types []*model.EntityType) error {
	values := make(map[any]*model.EntityType, len(types))
	for _, t := range types {
		if t.Abstract {
			continue
		}
		if t.Discriminator == nil {
			return &InheritanceError{kind: NoDiscriminatorProperty, Entity: t.Name}
		}
		if t.DiscriminatorValue == nil {
			return &InheritanceError{kind: NoDiscriminatorValue, Entity: t.Name}
		}
		key := discriminatorKey(t.DiscriminatorValue)
		if prev, ok := values[key]; ok {
			return &InheritanceError{kind: DuplicateDiscriminatorValue, Entity: t.Name, Other: prev.Name, Value: t.DiscriminatorValue}
		}
		values[key] = t
	}
	return nil
}

type formatted string

// discriminatorKey returns a map key for v. Values of types that cannot be
// map keys are compared by their formatted representation.
func discriminatorKey(v any) any {
	if reflect.ValueOf(v).Comparable() {
		return v
	}
	return formatted(fmt.Sprintf("%T:%v", v, v))
}
