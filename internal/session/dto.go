package session

import (
	"github.com/mraditya/splitbill/internal/receipt"
	"github.com/mraditya/splitbill/internal/split"
)

// CreateSessionRequest represents the request to start a split session
type CreateSessionRequest struct {
	Receipt receipt.Document `json:"receipt" validate:"required"`
	// PriceConvention says how items[].price is to be read: LINE_TOTAL
	// (default) or UNIT. See receipt.PriceConvention.
	PriceConvention string `json:"price_convention,omitempty"`
}

// AddParticipantRequest represents the request to seat a participant
type AddParticipantRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// AssignRequest represents a direct assignment (or its inverse)
type AssignRequest struct {
	UnitID        string `json:"unit_id" validate:"required,uuid"`
	ParticipantID string `json:"participant_id" validate:"required,uuid"`
}

// ShareRequest represents the request to split one unit among participants
type ShareRequest struct {
	UnitID         string   `json:"unit_id" validate:"required,uuid"`
	ParticipantIDs []string `json:"participant_ids" validate:"required,min=2"`
}

// UpdateSharersRequest represents the request to replace a group's sharers
type UpdateSharersRequest struct {
	ParticipantIDs []string `json:"participant_ids" validate:"required"`
}

// UnitView represents one assignable unit in a response
type UnitView struct {
	ID         string  `json:"id"`
	LineItemID string  `json:"line_item_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
}

// ParticipantView represents one participant with their computed shares
type ParticipantView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Subtotal    float64    `json:"subtotal"`
	TaxShare    float64    `json:"tax_share"`
	TotalOwed   float64    `json:"total_owed"`
	DirectUnits []UnitView `json:"direct_units"`
}

// ShareView represents one share group
type ShareView struct {
	ID             string   `json:"id"`
	UnitID         string   `json:"unit_id"`
	ItemName       string   `json:"item_name"`
	UnitPrice      float64  `json:"unit_price"`
	SharerIDs      []string `json:"sharer_ids"`
	SharerCount    int      `json:"sharer_count"`
	PricePerSharer float64  `json:"price_per_sharer"`
}

// SessionResponse is the full state of a live session
type SessionResponse struct {
	ID              string                  `json:"id"`
	CreatedAt       string                  `json:"created_at"`
	StoreName       string                  `json:"store_name"`
	OrderNumber     string                  `json:"order_number"`
	Subtotal        int64                   `json:"subtotal"`
	Tax             int64                   `json:"tax"`
	Total           int64                   `json:"total"`
	Participants    []*ParticipantView      `json:"participants"`
	Shares          []*ShareView            `json:"shares"`
	Unassigned      []split.UnassignedGroup `json:"unassigned"`
	UnassignedValue float64                 `json:"unassigned_value"`
}

// SessionSummary is the short form used by the session list
type SessionSummary struct {
	ID           string `json:"id"`
	CreatedAt    string `json:"created_at"`
	StoreName    string `json:"store_name"`
	OrderNumber  string `json:"order_number"`
	Participants int    `json:"participants"`
	Units        int    `json:"units"`
}

// toResponse snapshots the engine state. Caller holds the session lock.
func (ls *LiveSession) toResponse() *SessionResponse {
	eng := ls.engine
	doc := eng.Document()

	resp := &SessionResponse{
		ID:              ls.ID.String(),
		CreatedAt:       ls.CreatedAt.Format("2006-01-02T15:04:05Z"),
		StoreName:       doc.Store.Name,
		OrderNumber:     doc.Transaction.OrderNumber,
		Subtotal:        doc.Transaction.Subtotal,
		Tax:             doc.Transaction.Tax,
		Total:           doc.Transaction.Total,
		Participants:    []*ParticipantView{},
		Shares:          []*ShareView{},
		Unassigned:      eng.UnassignedGroups(),
		UnassignedValue: eng.UnassignedValue(),
	}

	for _, p := range eng.Participants() {
		view := &ParticipantView{
			ID:          p.ID.String(),
			Name:        p.Name,
			Subtotal:    p.Subtotal,
			TaxShare:    p.TaxShare,
			TotalOwed:   p.TotalOwed(),
			DirectUnits: []UnitView{},
		}
		for _, u := range eng.DirectUnits(p.ID) {
			view.DirectUnits = append(view.DirectUnits, UnitView{
				ID:         u.ID.String(),
				LineItemID: u.LineItemID.String(),
				Name:       u.Name,
				Price:      u.Price,
			})
		}
		resp.Participants = append(resp.Participants, view)
	}

	for _, g := range eng.Shares() {
		u, ok := eng.Unit(g.UnitID)
		if !ok {
			continue
		}
		view := &ShareView{
			ID:             g.ID.String(),
			UnitID:         g.UnitID.String(),
			ItemName:       u.Name,
			UnitPrice:      u.Price,
			SharerCount:    g.SharerCount(),
			PricePerSharer: eng.SharePortion(g),
		}
		for _, id := range g.SharerIDs() {
			view.SharerIDs = append(view.SharerIDs, id.String())
		}
		resp.Shares = append(resp.Shares, view)
	}

	return resp
}

// toSummary builds the list form. Caller holds the session lock.
func (ls *LiveSession) toSummary() *SessionSummary {
	doc := ls.engine.Document()
	return &SessionSummary{
		ID:           ls.ID.String(),
		CreatedAt:    ls.CreatedAt.Format("2006-01-02T15:04:05Z"),
		StoreName:    doc.Store.Name,
		OrderNumber:  doc.Transaction.OrderNumber,
		Participants: len(ls.engine.Participants()),
		Units:        len(ls.engine.Units()),
	}
}
