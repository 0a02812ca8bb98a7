package record

import (
	"time"

	"github.com/google/uuid"

	"github.com/mraditya/splitbill/internal/split"
)

// receiptTimeLayout matches the date/time strings receipts carry,
// e.g. "2025-05-02 20:33".
const receiptTimeLayout = "2006-01-02 15:04"

// FromSession projects the current ledger state into a storable record.
// One-way: session -> storage shape, no back-pointers.
func FromSession(s *split.Session) *SplitRecord {
	doc := s.Document()
	rec := &SplitRecord{
		ID:               uuid.New(),
		StoreName:        doc.Store.Name,
		ReceiptDateTime:  parseReceiptDateTime(doc.Transaction.Date, doc.Transaction.Time),
		OrderNumber:      doc.Transaction.OrderNumber,
		OriginalSubtotal: doc.Transaction.Subtotal,
		OriginalTax:      doc.Transaction.Tax,
		OriginalTotal:    doc.Transaction.Total,
		SavedAt:          time.Now().UTC(),
	}

	for _, p := range s.Participants() {
		share := &ParticipantShare{
			ID:        uuid.New(),
			RecordID:  rec.ID,
			Name:      p.Name,
			Subtotal:  p.Subtotal,
			TaxShare:  p.TaxShare,
			TotalOwed: p.TotalOwed(),
		}

		for _, u := range s.DirectUnits(p.ID) {
			share.Entries = append(share.Entries, &ItemEntry{
				ID:          uuid.New(),
				ShareID:     share.ID,
				ItemName:    u.Name,
				UnitPrice:   u.Price,
				IsShared:    false,
				SharerCount: 1,
				PortionPaid: u.Price,
			})
		}

		for _, g := range s.SharesFor(p.ID) {
			u, ok := s.Unit(g.UnitID)
			if !ok {
				continue
			}
			share.Entries = append(share.Entries, &ItemEntry{
				ID:          uuid.New(),
				ShareID:     share.ID,
				ItemName:    u.Name,
				UnitPrice:   u.Price,
				IsShared:    true,
				SharerCount: g.SharerCount(),
				PortionPaid: s.SharePortion(g),
			})
		}

		rec.Shares = append(rec.Shares, share)
	}

	return rec
}

// parseReceiptDateTime combines the receipt's date and time strings.
// Unparseable input falls back to now; receipts from OCR are messy and a
// bad timestamp should not block saving the split.
func parseReceiptDateTime(date, clock string) time.Time {
	t, err := time.Parse(receiptTimeLayout, date+" "+clock)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}
