package validate

import (
	"github.com/syssam/veloxcheck/model"
)

// ValidateSharedKeys checks that the keys declared by the types of a group
// agree on the columns of every shared key name.
func ValidateSharedKeys(g *TableGroup) error {
	seen := make(map[string]*model.Key)
	for _, t := range g.Types {
		for _, k := range t.Keys {
			name := k.Name()
			dup, ok := seen[name]
			if !ok {
				seen[name] = k
				continue
			}
			if _, err := KeysCompatible(k, dup, g.Table, true); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateSharedForeignKeys checks that the foreign keys declared by the
// types of a group are compatible for every shared constraint name.
func ValidateSharedForeignKeys(g *TableGroup) error {
	seen := make(map[string]*model.ForeignKey)
	for _, t := range g.Types {
		for _, fk := range t.ForeignKeys {
			name := fk.Name()
			dup, ok := seen[name]
			if !ok {
				seen[name] = fk
				continue
			}
			if _, err := ForeignKeysCompatible(fk, dup, g.Table, true); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateSharedIndexes checks that the indexes declared by the types of a
// group are compatible for every shared index name.
func ValidateSharedIndexes(g *TableGroup) error {
	seen := make(map[string]*model.Index)
	for _, t := range g.Types {
		for _, idx := range t.Indexes {
			name := idx.Name()
			dup, ok := seen[name]
			if !ok {
				seen[name] = idx
				continue
			}
			if _, err := IndexesCompatible(idx, dup, g.Table, true); err != nil {
				return err
			}
		}
	}
	return nil
}
