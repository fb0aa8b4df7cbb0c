package validate

import (
	"github.com/syssam/veloxcheck"
	"github.com/syssam/veloxcheck/model"
)

// ValidateSharedTable checks that the entity types of a table group form
// one connected structure: a single root, with every other type reachable
// from it through inheritance or an identifying foreign key, so that each
// row of the table maps to one instance of each type. Connected types must
// agree on the primary key name and on the table comment.
//
// Types that cannot be reached from the root are all reported, each as an
// IncompatibleTableNoRelationship violation against the root.
func ValidateSharedTable(g *TableGroup) error {
	if !g.Shared() {
		return nil
	}
	s := newStructure(g.Types)
	root, err := s.root(g.Table)
	if err != nil {
		return err
	}
	resolved := make([]bool, len(g.Types))
	resolved[root] = true
	queue := []int{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range s.edges[cur] {
			if resolved[next] {
				continue
			}
			if err := connect(g.Table, g.Types[cur], g.Types[next]); err != nil {
				return err
			}
			resolved[next] = true
			queue = append(queue, next)
		}
	}
	var errs []error
	for i, t := range g.Types {
		if !resolved[i] {
			errs = append(errs, noRelationship(g.Table, t, g.Types[root]))
		}
	}
	return veloxcheck.NewAggregateError(errs...)
}

// structure is the precomputed adjacency of a table group. An edge leads
// from a type to the types it is assignable from and to its identifying
// dependents.
type structure struct {
	types []*model.EntityType
	index map[*model.EntityType]int
	edges [][]int
}

func newStructure(types []*model.EntityType) *structure {
	s := &structure{
		types: types,
		index: make(map[*model.EntityType]int, len(types)),
		edges: make([][]int, len(types)),
	}
	for i, t := range types {
		s.index[t] = i
	}
	dependents := make([][]bool, len(types))
	for j, t := range types {
		for _, fk := range t.IdentifyingForeignKeys() {
			if i, ok := s.index[fk.PrincipalEntity()]; ok && i != j {
				if dependents[i] == nil {
					dependents[i] = make([]bool, len(types))
				}
				dependents[i][j] = true
			}
		}
	}
	for i, t := range types {
		for j, other := range types {
			if i == j {
				continue
			}
			if t.IsAssignableFrom(other) || (dependents[i] != nil && dependents[i][j]) {
				s.edges[i] = append(s.edges[i], j)
			}
		}
	}
	return s
}

// identifyingPrincipal returns the index of the group member that types[i]
// references with an identifying foreign key, or -1.
func (s *structure) identifyingPrincipal(i int) int {
	for _, fk := range s.types[i].IdentifyingForeignKeys() {
		if j, ok := s.index[fk.PrincipalEntity()]; ok && j != i {
			return j
		}
	}
	return -1
}

// root selects the single member the structure hangs from.
func (s *structure) root(table model.TableID) (int, error) {
	root := -1
	for i, t := range s.types {
		if t.Base != nil {
			if _, ok := s.index[t.Base]; ok {
				continue
			}
		}
		if p := s.identifyingPrincipal(i); p >= 0 {
			if t.Base != nil {
				return -1, &IncompatibleTableError{
					kind:   IncompatibleTableDerivedRelationship,
					Table:  table,
					Entity: t.Name,
					Other:  s.types[p].Name,
				}
			}
			continue
		}
		if root >= 0 {
			return -1, noRelationship(table, t, s.types[root])
		}
		root = i
	}
	if root < 0 {
		// Every member depends on another one. Start from the first.
		root = 0
	}
	return root, nil
}

// connect checks a newly reached member against the member it was reached
// from.
func connect(table model.TableID, cur, next *model.EntityType) error {
	key, nextKey := cur.PrimaryKey(), next.PrimaryKey()
	if key != nil && nextKey != nil && key.Name() != nextKey.Name() {
		return &IncompatibleTableError{
			kind:               IncompatibleTableKeyNameMismatch,
			Table:              table,
			Entity:             next.Name,
			Other:              cur.Name,
			KeyName:            nextKey.Name(),
			KeyProperties:      model.PropertyNames(nextKey.Properties),
			OtherKeyName:       key.Name(),
			OtherKeyProperties: model.PropertyNames(key.Properties),
		}
	}
	comment, nextComment := cur.TableComment(), next.TableComment()
	if comment != "" && nextComment != "" && comment != nextComment {
		return &IncompatibleTableError{
			kind:         IncompatibleTableCommentMismatch,
			Table:        table,
			Entity:       next.Name,
			Other:        cur.Name,
			Comment:      nextComment,
			OtherComment: comment,
		}
	}
	return nil
}

func noRelationship(table model.TableID, t, root *model.EntityType) error {
	return &IncompatibleTableError{
		kind:   IncompatibleTableNoRelationship,
		Table:  table,
		Entity: t.Name,
		Other:  root.Name,
	}
}
