package model

// DiscriminatorProperty is the name of the property added by
// ApplyDiscriminatorConvention.
const DiscriminatorProperty = "Discriminator"

// ApplyDiscriminatorConvention configures a discriminator for every
// hierarchy that has none: a string property named "Discriminator" on the
// root, and the type name as value of each concrete type without a
// configured value. Hierarchies with a discriminator property configured
// on any member are left untouched.
func (m *Model) ApplyDiscriminatorConvention() {
	for _, root := range m.Roots() {
		types := m.DerivedTypesInclusive(root)
		if len(types) < 2 || hasDiscriminator(types) {
			continue
		}
		p := root.Property(DiscriminatorProperty)
		if p == nil {
			p = root.AddProperty(DiscriminatorProperty, TypeString)
		}
		for _, t := range types {
			if t.Abstract {
				continue
			}
			value := t.DiscriminatorValue
			if value == nil {
				value = t.Name
			}
			t.SetDiscriminator(p, value)
		}
	}
}

func hasDiscriminator(types []*EntityType) bool {
	for _, t := range types {
		if t.Discriminator != nil {
			return true
		}
	}
	return false
}
