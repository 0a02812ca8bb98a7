package record

import (
	"time"

	"github.com/google/uuid"
)

// SplitRecord is the stored shape of a finished split: one parent row per
// session with participant shares as children and item entries as
// grandchildren. The tree only points downward; reconstructing a live,
// editable session from it is not supported.
type SplitRecord struct {
	ID               uuid.UUID `json:"id"`
	StoreName        string    `json:"store_name"`
	ReceiptDateTime  time.Time `json:"receipt_date_time"`
	OrderNumber      string    `json:"order_number"`
	OriginalSubtotal int64     `json:"original_subtotal"`
	OriginalTax      int64     `json:"original_tax"`
	OriginalTotal    int64     `json:"original_total"`
	SavedAt          time.Time `json:"saved_at"`

	Shares []*ParticipantShare `json:"shares,omitempty"`
}

// ParticipantShare is one participant's computed outcome.
type ParticipantShare struct {
	ID        uuid.UUID `json:"id"`
	RecordID  uuid.UUID `json:"record_id"`
	Name      string    `json:"name"`
	Subtotal  float64   `json:"subtotal"`
	TaxShare  float64   `json:"tax_share"`
	TotalOwed float64   `json:"total_owed"`

	Entries []*ItemEntry `json:"entries,omitempty"`
}

// ItemEntry is one contribution line: either a whole directly-assigned
// unit (SharerCount 1) or this participant's slice of a shared unit.
type ItemEntry struct {
	ID          uuid.UUID `json:"id"`
	ShareID     uuid.UUID `json:"share_id"`
	ItemName    string    `json:"item_name"`
	UnitPrice   float64   `json:"unit_price"`
	IsShared    bool      `json:"is_shared"`
	SharerCount int       `json:"sharer_count"`
	PortionPaid float64   `json:"portion_paid"`
}
