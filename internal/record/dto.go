package record

// RecordResponse represents the response for a saved split record
type RecordResponse struct {
	ID               string                      `json:"id"`
	StoreName        string                      `json:"store_name"`
	ReceiptDateTime  string                      `json:"receipt_date_time"`
	OrderNumber      string                      `json:"order_number"`
	OriginalSubtotal int64                       `json:"original_subtotal"`
	OriginalTax      int64                       `json:"original_tax"`
	OriginalTotal    int64                       `json:"original_total"`
	SavedAt          string                      `json:"saved_at"`
	Shares           []*ParticipantShareResponse `json:"shares,omitempty"`
}

// ParticipantShareResponse represents one participant's stored outcome
type ParticipantShareResponse struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Subtotal  float64              `json:"subtotal"`
	TaxShare  float64              `json:"tax_share"`
	TotalOwed float64              `json:"total_owed"`
	Entries   []*ItemEntryResponse `json:"entries,omitempty"`
}

// ItemEntryResponse represents one stored contribution line
type ItemEntryResponse struct {
	ID          string  `json:"id"`
	ItemName    string  `json:"item_name"`
	UnitPrice   float64 `json:"unit_price"`
	IsShared    bool    `json:"is_shared"`
	SharerCount int     `json:"sharer_count"`
	PortionPaid float64 `json:"portion_paid"`
}

// ToResponse converts a SplitRecord model to a RecordResponse DTO
func (r *SplitRecord) ToResponse() *RecordResponse {
	resp := &RecordResponse{
		ID:               r.ID.String(),
		StoreName:        r.StoreName,
		ReceiptDateTime:  r.ReceiptDateTime.Format("2006-01-02T15:04:05Z"),
		OrderNumber:      r.OrderNumber,
		OriginalSubtotal: r.OriginalSubtotal,
		OriginalTax:      r.OriginalTax,
		OriginalTotal:    r.OriginalTotal,
		SavedAt:          r.SavedAt.Format("2006-01-02T15:04:05Z"),
	}
	for _, share := range r.Shares {
		resp.Shares = append(resp.Shares, share.ToResponse())
	}
	return resp
}

// ToResponse converts a ParticipantShare model to its response DTO
func (p *ParticipantShare) ToResponse() *ParticipantShareResponse {
	resp := &ParticipantShareResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Subtotal:  p.Subtotal,
		TaxShare:  p.TaxShare,
		TotalOwed: p.TotalOwed,
	}
	for _, entry := range p.Entries {
		resp.Entries = append(resp.Entries, &ItemEntryResponse{
			ID:          entry.ID.String(),
			ItemName:    entry.ItemName,
			UnitPrice:   entry.UnitPrice,
			IsShared:    entry.IsShared,
			SharerCount: entry.SharerCount,
			PortionPaid: entry.PortionPaid,
		})
	}
	return resp
}
