package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type sessionEnvelope struct {
	Success bool             `json:"success"`
	Data    *SessionResponse `json:"data"`
}

// shareFixture spins up a handler with a session holding two seated
// participants, returning the router plus the ids a share request needs.
func shareFixture(t *testing.T) (router http.Handler, sessionID string, unitID, xID, yID uuid.UUID) {
	t.Helper()

	svc := newTestService()
	created, err := svc.Create(testRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := mustUUID(t, created.ID)

	withX, err := svc.AddParticipant(id, "X")
	if err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}
	withY, err := svc.AddParticipant(id, "Y")
	if err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}

	for _, g := range withY.Unassigned {
		if g.Name == "Gurame Bakar" {
			unitID = g.UnitIDs[0]
		}
	}

	return NewHandler(svc).Routes(), created.ID,
		unitID, mustUUID(t, withX.Participants[0].ID), mustUUID(t, withY.Participants[1].ID)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeSession(t *testing.T, rr *httptest.ResponseRecorder) *SessionResponse {
	t.Helper()
	var env sessionEnvelope
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !env.Success || env.Data == nil {
		t.Fatalf("expected success envelope, got %s", rr.Body.String())
	}
	return env.Data
}

func TestShareEndpoint(t *testing.T) {
	router, sessionID, unitID, xID, yID := shareFixture(t)

	body := fmt.Sprintf(`{"unit_id": %q, "participant_ids": [%q, %q]}`, unitID, xID, yID)
	rr := doJSON(t, router, http.MethodPost, "/"+sessionID+"/shares", body)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	resp := decodeSession(t, rr)
	if len(resp.Shares) != 1 {
		t.Fatalf("got %d shares, want 1", len(resp.Shares))
	}
	share := resp.Shares[0]
	if share.SharerCount != 2 || share.PricePerSharer != 10000 {
		t.Errorf("share = count:%d portion:%v, want 2/10000", share.SharerCount, share.PricePerSharer)
	}
}

func TestShareEndpointRejectsBadUUIDs(t *testing.T) {
	router, sessionID, unitID, xID, _ := shareFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad unit id", fmt.Sprintf(`{"unit_id": "not-a-uuid", "participant_ids": [%q]}`, xID)},
		{"bad participant id", fmt.Sprintf(`{"unit_id": %q, "participant_ids": [%q, "not-a-uuid"]}`, unitID, xID)},
		{"malformed body", `{"unit_id": 7}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, router, http.MethodPost, "/"+sessionID+"/shares", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestShareEndpointConflictOnSingleSharer(t *testing.T) {
	router, sessionID, unitID, xID, _ := shareFixture(t)

	// One valid sharer is below the sharing minimum; the engine rejects it
	// and the handler reports the unchanged state.
	body := fmt.Sprintf(`{"unit_id": %q, "participant_ids": [%q]}`, unitID, xID)
	rr := doJSON(t, router, http.MethodPost, "/"+sessionID+"/shares", body)
	if rr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409: %s", rr.Code, rr.Body.String())
	}
}

func TestUpdateSharersEndpoint(t *testing.T) {
	router, sessionID, unitID, xID, yID := shareFixture(t)

	body := fmt.Sprintf(`{"unit_id": %q, "participant_ids": [%q, %q]}`, unitID, xID, yID)
	rr := doJSON(t, router, http.MethodPost, "/"+sessionID+"/shares", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("share setup failed: %d %s", rr.Code, rr.Body.String())
	}
	shareID := decodeSession(t, rr).Shares[0].ID

	// Shrinking to one sharer dissolves the group and frees the unit.
	rr = doJSON(t, router, http.MethodPut, "/"+sessionID+"/shares/"+shareID,
		fmt.Sprintf(`{"participant_ids": [%q]}`, xID))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	resp := decodeSession(t, rr)
	if len(resp.Shares) != 0 {
		t.Errorf("collapsed group survived: %+v", resp.Shares)
	}
	if resp.UnassignedValue != 40000 {
		t.Errorf("unassigned value = %v, want 40000", resp.UnassignedValue)
	}
}

func TestUpdateSharersEndpointRejectsBadInput(t *testing.T) {
	router, sessionID, _, xID, _ := shareFixture(t)

	rr := doJSON(t, router, http.MethodPut, "/"+sessionID+"/shares/not-a-uuid",
		fmt.Sprintf(`{"participant_ids": [%q]}`, xID))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad share id: status = %d, want 400", rr.Code)
	}

	rr = doJSON(t, router, http.MethodPut, "/"+sessionID+"/shares/"+uuid.NewString(),
		`{"participant_ids": ["not-a-uuid"]}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad participant id: status = %d, want 400", rr.Code)
	}

	// Valid ids but no such group: the engine no-ops.
	rr = doJSON(t, router, http.MethodPut, "/"+sessionID+"/shares/"+uuid.NewString(),
		fmt.Sprintf(`{"participant_ids": [%q]}`, xID))
	if rr.Code != http.StatusConflict {
		t.Errorf("unknown group: status = %d, want 409", rr.Code)
	}
}

func TestParseUUIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	got, err := parseUUIDs([]string{a.String(), b.String()})
	if err != nil {
		t.Fatalf("parseUUIDs: %v", err)
	}
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("parseUUIDs = %v, want [%s %s]", got, a, b)
	}

	if _, err := parseUUIDs([]string{a.String(), "not-a-uuid"}); err == nil {
		t.Error("parseUUIDs accepted a malformed id")
	}
	if got, err := parseUUIDs(nil); err != nil || len(got) != 0 {
		t.Errorf("parseUUIDs(nil) = %v, %v, want empty, nil", got, err)
	}
}
