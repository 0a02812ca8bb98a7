package receipt

import "github.com/google/uuid"

// AssignableUnit is one indivisible, priced piece of a purchased line item.
// A line with quantity 3 expands into three units, each carrying the same
// per-unit price and a link back to the originating line.
type AssignableUnit struct {
	ID         uuid.UUID `json:"id"`
	LineItemID uuid.UUID `json:"line_item_id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
}

// Expand flattens a receipt into individually assignable units, one per
// quantity count. Lines with quantity <= 0 contribute no units; that is the
// producer's defect, not ours. Pure function, called once per session.
func Expand(doc *Document, conv PriceConvention) []AssignableUnit {
	var units []AssignableUnit
	for _, item := range doc.Transaction.Items {
		unitPrice := item.UnitPrice(conv)
		for i := 0; i < item.Quantity; i++ {
			units = append(units, AssignableUnit{
				ID:         uuid.New(),
				LineItemID: item.ID,
				Name:       item.Name,
				Price:      unitPrice,
			})
		}
	}
	return units
}
