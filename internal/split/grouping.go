package split

import (
	"sort"

	"github.com/google/uuid"
)

// UnassignedGroup collapses identical unassigned units back into one row,
// the shape a picker UI wants ("2x Nasi Goreng, 25000 each"). Pure
// projection over the pool; recompute after any mutation.
type UnassignedGroup struct {
	LineItemID uuid.UUID   `json:"line_item_id"`
	Name       string      `json:"name"`
	UnitPrice  float64     `json:"unit_price"`
	Quantity   int         `json:"quantity"`
	TotalPrice float64     `json:"total_price"`
	UnitIDs    []uuid.UUID `json:"unit_ids"`
}

// UnassignedGroups groups the current pool by originating line item,
// sorted by name for stable output.
func (s *Session) UnassignedGroups() []UnassignedGroup {
	byLine := make(map[uuid.UUID]*UnassignedGroup)
	var lineOrder []uuid.UUID

	// Walk in expansion order so UnitIDs come out deterministic.
	for _, unitID := range s.order {
		if _, ok := s.unassigned[unitID]; !ok {
			continue
		}
		u := s.units[unitID]
		g, ok := byLine[u.LineItemID]
		if !ok {
			g = &UnassignedGroup{
				LineItemID: u.LineItemID,
				Name:       u.Name,
				UnitPrice:  u.Price,
			}
			byLine[u.LineItemID] = g
			lineOrder = append(lineOrder, u.LineItemID)
		}
		g.Quantity++
		g.UnitIDs = append(g.UnitIDs, unitID)
	}

	groups := make([]UnassignedGroup, 0, len(lineOrder))
	for _, lineID := range lineOrder {
		g := byLine[lineID]
		g.TotalPrice = g.UnitPrice * float64(g.Quantity)
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Name != groups[j].Name {
			return groups[i].Name < groups[j].Name
		}
		return groups[i].LineItemID.String() < groups[j].LineItemID.String()
	})
	return groups
}
