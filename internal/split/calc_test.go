package split

import (
	"testing"

	"github.com/google/uuid"

	"github.com/mraditya/splitbill/internal/receipt"
)

func TestTaxSharesSumToReceiptTaxWhenFullyAssigned(t *testing.T) {
	s := NewSession(testDocument(), receipt.PriceLineTotal)
	x := s.AddParticipant("X")
	y := s.AddParticipant("Y")

	igaUnits := unitsNamed(s, "Iga Penyet")
	gurame := unitsNamed(s, "Gurame Bakar")[0]
	s.AssignDirectly(igaUnits[0].ID, x.ID)
	s.AssignDirectly(igaUnits[1].ID, y.ID)
	s.ShareUnit(gurame.ID, []uuid.UUID{x.ID, y.ID})

	var taxTotal, owedTotal float64
	for _, p := range s.Participants() {
		taxTotal += p.TaxShare
		owedTotal += p.TotalOwed()
	}
	if !almostEqual(taxTotal, 4000) {
		t.Errorf("sum of tax shares = %v, want 4000", taxTotal)
	}
	if !almostEqual(owedTotal, 44000) {
		t.Errorf("sum of totals owed = %v, want receipt total 44000", owedTotal)
	}
}

func TestTaxProportionalToReceiptSubtotal(t *testing.T) {
	// Tax stays proportional to the receipt's declared subtotal even while
	// part of the bill is still unassigned.
	s := NewSession(testDocument(), receipt.PriceLineTotal)
	x := s.AddParticipant("X")

	gurame := unitsNamed(s, "Gurame Bakar")[0]
	s.AssignDirectly(gurame.ID, x.ID)

	// 20000 of a 40000 subtotal -> half the tax.
	if !almostEqual(x.TaxShare, 2000) {
		t.Errorf("tax share = %v, want 2000", x.TaxShare)
	}
}

func TestZeroSubtotalSplitsTaxEvenly(t *testing.T) {
	doc := &receipt.Document{
		Transaction: receipt.Transaction{
			Items: []receipt.LineItem{
				{Name: "Comped Meal", Quantity: 2, Price: 0},
			},
			Subtotal: 0,
			Tax:      3000,
			Total:    3000,
		},
	}
	doc.Normalize()

	s := NewSession(doc, receipt.PriceLineTotal)
	x := s.AddParticipant("X")
	y := s.AddParticipant("Y")
	z := s.AddParticipant("Z")

	for _, p := range []*Participant{x, y, z} {
		if !almostEqual(p.TaxShare, 1000) {
			t.Errorf("%s tax share = %v, want 1000", p.Name, p.TaxShare)
		}
	}
}

func TestRecalculationIsFromScratch(t *testing.T) {
	// Subtotals are fully rebuilt on every mutation; a unit that moves
	// between participants must never be double counted.
	s := NewSession(testDocument(), receipt.PriceLineTotal)
	x := s.AddParticipant("X")
	y := s.AddParticipant("Y")
	unit := unitsNamed(s, "Gurame Bakar")[0]

	s.AssignDirectly(unit.ID, x.ID)
	s.UnassignDirect(unit.ID, x.ID)
	s.AssignDirectly(unit.ID, y.ID)

	if !almostEqual(x.Subtotal, 0) {
		t.Errorf("X subtotal = %v after losing the unit, want 0", x.Subtotal)
	}
	if !almostEqual(y.Subtotal, 20000) {
		t.Errorf("Y subtotal = %v, want 20000", y.Subtotal)
	}
}

func TestSharePortionRecomputedOnSharerChange(t *testing.T) {
	s := NewSession(testDocument(), receipt.PriceLineTotal)
	x := s.AddParticipant("X")
	y := s.AddParticipant("Y")
	z := s.AddParticipant("Z")
	unit := unitsNamed(s, "Gurame Bakar")[0]

	g := s.ShareUnit(unit.ID, []uuid.UUID{x.ID, y.ID})
	if !almostEqual(s.SharePortion(g), 10000) {
		t.Fatalf("two-way portion = %v, want 10000", s.SharePortion(g))
	}

	s.UpdateSharers(g.ID, []uuid.UUID{x.ID, y.ID, z.ID})
	if !almostEqual(s.SharePortion(g), 20000.0/3) {
		t.Errorf("three-way portion = %v, want %v", s.SharePortion(g), 20000.0/3)
	}
	if !almostEqual(x.Subtotal, 20000.0/3) {
		t.Errorf("X subtotal = %v, want %v", x.Subtotal, 20000.0/3)
	}
}
