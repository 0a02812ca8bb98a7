package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/mraditya/splitbill/internal/receipt"
	"github.com/mraditya/splitbill/internal/record"
)

func testRequest() *CreateSessionRequest {
	return &CreateSessionRequest{
		Receipt: receipt.Document{
			Store: receipt.Store{Name: "Warung Tekko", Address: "Jakarta"},
			Transaction: receipt.Transaction{
				Date:        "2025-05-02",
				Time:        "20:33",
				OrderNumber: "A-17",
				Items: []receipt.LineItem{
					{Name: "Iga Penyet", Quantity: 2, Price: 20000},
					{Name: "Gurame Bakar", Quantity: 1, Price: 20000},
				},
				Subtotal: 40000,
				Tax:      4000,
				Total:    44000,
			},
		},
	}
}

func newTestService() *Service {
	// The record repository is only reached once a save passes validation;
	// these tests stop short of the database.
	return NewService(record.NewService(record.NewRepository(nil)))
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("bad uuid %q: %v", s, err)
	}
	return id
}

func TestCreateSession(t *testing.T) {
	svc := newTestService()

	resp, err := svc.Create(testRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.StoreName != "Warung Tekko" {
		t.Errorf("store name = %q", resp.StoreName)
	}
	if len(resp.Unassigned) != 2 {
		t.Errorf("got %d unassigned groups, want 2", len(resp.Unassigned))
	}
	if resp.UnassignedValue != 40000 {
		t.Errorf("unassigned value = %v, want 40000", resp.UnassignedValue)
	}
	if len(resp.Participants) != 0 {
		t.Errorf("new session has %d participants", len(resp.Participants))
	}
}

func TestCreateSessionRejectsBadConvention(t *testing.T) {
	svc := newTestService()
	req := testRequest()
	req.PriceConvention = "PER_DOZEN"

	if _, err := svc.Create(req); !errors.Is(err, receipt.ErrUnknownPriceConvention) {
		t.Errorf("err = %v, want ErrUnknownPriceConvention", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	svc := newTestService()

	created, err := svc.Create(testRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := mustUUID(t, created.ID)

	if got := svc.List(); len(got) != 1 {
		t.Errorf("List returned %d sessions, want 1", len(got))
	}

	if _, err := svc.Get(id); err != nil {
		t.Errorf("Get: %v", err)
	}
	if err := svc.Delete(id); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, err := svc.Get(id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after delete = %v, want ErrSessionNotFound", err)
	}
	if err := svc.Delete(id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second Delete = %v, want ErrSessionNotFound", err)
	}
}

func TestAssignmentFlowThroughService(t *testing.T) {
	svc := newTestService()
	created, _ := svc.Create(testRequest())
	id := mustUUID(t, created.ID)

	withX, err := svc.AddParticipant(id, "X")
	if err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}
	withY, err := svc.AddParticipant(id, "Y")
	if err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}
	xID := mustUUID(t, withX.Participants[0].ID)
	yID := mustUUID(t, withY.Participants[1].ID)

	// Pick one Iga Penyet unit and the Gurame Bakar unit from the pool.
	var igaUnit, guramUnit uuid.UUID
	for _, g := range withY.Unassigned {
		switch g.Name {
		case "Iga Penyet":
			igaUnit = g.UnitIDs[0]
		case "Gurame Bakar":
			guramUnit = g.UnitIDs[0]
		}
	}

	resp, err := svc.Assign(id, igaUnit, xID)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	resp, err = svc.Share(id, guramUnit, []uuid.UUID{xID, yID})
	if err != nil {
		t.Fatalf("Share: %v", err)
	}

	if resp.Participants[0].Subtotal != 20000 {
		t.Errorf("X subtotal = %v, want 20000", resp.Participants[0].Subtotal)
	}
	if resp.Participants[1].TaxShare != 1000 {
		t.Errorf("Y tax share = %v, want 1000", resp.Participants[1].TaxShare)
	}
	if len(resp.Shares) != 1 || resp.Shares[0].PricePerSharer != 10000 {
		t.Errorf("unexpected shares view: %+v", resp.Shares)
	}
	if resp.UnassignedValue != 10000 {
		t.Errorf("unassigned value = %v, want 10000", resp.UnassignedValue)
	}
}

func TestRejectedMutationsSurfaceAsStateUnchanged(t *testing.T) {
	svc := newTestService()
	created, _ := svc.Create(testRequest())
	id := mustUUID(t, created.ID)

	withX, _ := svc.AddParticipant(id, "X")
	xID := mustUUID(t, withX.Participants[0].ID)
	unitID := withX.Unassigned[0].UnitIDs[0]

	if _, err := svc.Assign(id, uuid.New(), xID); !errors.Is(err, ErrStateUnchanged) {
		t.Errorf("assign unknown unit = %v, want ErrStateUnchanged", err)
	}
	if _, err := svc.Share(id, unitID, []uuid.UUID{xID}); !errors.Is(err, ErrStateUnchanged) {
		t.Errorf("single-sharer share = %v, want ErrStateUnchanged", err)
	}
	if _, err := svc.RemoveParticipant(id, uuid.New()); !errors.Is(err, ErrStateUnchanged) {
		t.Errorf("remove unknown participant = %v, want ErrStateUnchanged", err)
	}
	if _, err := svc.AddParticipant(id, "  "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank name = %v, want ErrEmptyName", err)
	}
}

func TestSaveRequiresParticipants(t *testing.T) {
	svc := newTestService()
	created, _ := svc.Create(testRequest())
	id := mustUUID(t, created.ID)

	if _, err := svc.Save(context.Background(), id); !errors.Is(err, record.ErrNoParticipants) {
		t.Errorf("save of empty session = %v, want ErrNoParticipants", err)
	}
}

func TestOperationsOnMissingSession(t *testing.T) {
	svc := newTestService()
	missing := uuid.New()

	if _, err := svc.AddParticipant(missing, "X"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("AddParticipant = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.Assign(missing, uuid.New(), uuid.New()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Assign = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.Save(context.Background(), missing); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Save = %v, want ErrSessionNotFound", err)
	}
}
