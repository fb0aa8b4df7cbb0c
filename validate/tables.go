package validate

import (
	"github.com/syssam/veloxcheck/model"
)

// TableGroup holds the entity types mapped to one table, in model order.
type TableGroup struct {
	Table model.TableID
	Types []*model.EntityType
}

// Shared reports whether more than one entity type is mapped to the table.
func (g *TableGroup) Shared() bool {
	return len(g.Types) > 1
}

// GroupByTable partitions the entity types of m by the table they are
// mapped to. Types without a primary key (keyless types) are not grouped.
// Groups are ordered by the first appearance of their table in m.
func GroupByTable(m *model.Model) []*TableGroup {
	var (
		groups []*TableGroup
		byID   = make(map[model.TableID]*TableGroup)
	)
	for _, t := range m.Entities() {
		if t.PrimaryKey() == nil {
			continue
		}
		id := t.Table()
		g, ok := byID[id]
		if !ok {
			g = &TableGroup{Table: id}
			byID[id] = g
			groups = append(groups, g)
		}
		g.Types = append(g.Types, t)
	}
	return groups
}
