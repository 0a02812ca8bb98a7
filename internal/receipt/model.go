package receipt

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PriceConvention declares how a line item's price field is to be read.
// Receipt producers disagree: some emit the total for the whole line,
// others emit the price of a single unit. The caller must say which.
type PriceConvention string

const (
	// PriceLineTotal means items[].price is quantity * unit price.
	PriceLineTotal PriceConvention = "LINE_TOTAL"
	// PriceUnit means items[].price is already the price of one unit.
	PriceUnit PriceConvention = "UNIT"
)

var ErrUnknownPriceConvention = errors.New("unknown price convention")

// ParseConvention validates a convention string from an API request.
func ParseConvention(s string) (PriceConvention, error) {
	switch PriceConvention(s) {
	case PriceLineTotal, PriceUnit:
		return PriceConvention(s), nil
	case "":
		// Most producers emit line totals; default to that.
		return PriceLineTotal, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPriceConvention, s)
	}
}

// Store holds the merchant metadata printed at the top of a receipt.
type Store struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Branch  *string `json:"branch,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

// LineItem is one printed line on the receipt. Price is in the smallest
// currency unit; its meaning depends on the PriceConvention in effect.
type LineItem struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Quantity int       `json:"quantity"`
	Price    int64     `json:"price"`
}

// UnmarshalJSON tolerates missing or malformed item ids: extractors rarely
// emit them, and a fresh id serves just as well as long as it is unique
// within the document.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
		Price    int64  `json:"price"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := uuid.Parse(raw.ID)
	if err != nil {
		id = uuid.New()
	}
	*li = LineItem{
		ID:       id,
		Name:     raw.Name,
		Quantity: raw.Quantity,
		Price:    raw.Price,
	}
	return nil
}

// UnitPrice returns the price of a single unit of this line under the
// given convention. Quantity <= 0 yields 0 rather than a division error;
// such lines expand to zero units anyway.
func (li LineItem) UnitPrice(conv PriceConvention) float64 {
	if conv == PriceUnit {
		return float64(li.Price)
	}
	if li.Quantity <= 0 {
		return 0
	}
	return float64(li.Price) / float64(li.Quantity)
}

// Payment is the tender block at the bottom of the receipt.
type Payment struct {
	Cash   int64  `json:"cash"`
	Change int64  `json:"change"`
	Status string `json:"status"`
}

// Transaction holds the monetary body of the receipt. All amounts are
// integers in the smallest currency unit.
type Transaction struct {
	Date        string     `json:"date"` // "YYYY-MM-DD"
	Time        string     `json:"time"` // "HH:MM"
	Cashier     string     `json:"cashier"`
	OrderNumber string     `json:"order_number"`
	Items       []LineItem `json:"items"`
	Subtotal    int64      `json:"subtotal"`
	Tax         int64      `json:"tax"`
	ServiceFee  int64      `json:"service_fee"`
	DeliveryFee int64      `json:"delivery_fee"`
	OtherFee    int64      `json:"other_fee"`
	Total       int64      `json:"total"`
	Payment     Payment    `json:"payment"`
}

// Document is a fully extracted receipt as produced by the upstream
// extraction collaborator. Immutable once handed to a split session.
type Document struct {
	Store       Store       `json:"store"`
	Transaction Transaction `json:"transaction"`
}

// Normalize assigns ids to line items that arrived without one. Extractors
// rarely emit ids, but every downstream ledger keys off them.
func (d *Document) Normalize() {
	for i := range d.Transaction.Items {
		if d.Transaction.Items[i].ID == uuid.Nil {
			d.Transaction.Items[i].ID = uuid.New()
		}
	}
}
