package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mraditya/splitbill/internal/receipt"
	"github.com/mraditya/splitbill/internal/record"
	"github.com/mraditya/splitbill/pkg/response"
)

// Handler handles HTTP requests for live split sessions
type Handler struct {
	service *Service
}

// NewHandler creates a new session handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for session endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Delete("/{id}", h.Delete)

	r.Post("/{id}/participants", h.AddParticipant)
	r.Delete("/{id}/participants/{participantId}", h.RemoveParticipant)

	r.Post("/{id}/assignments", h.Assign)
	r.Delete("/{id}/assignments", h.Unassign)

	r.Post("/{id}/shares", h.Share)
	r.Put("/{id}/shares/{shareId}", h.UpdateSharers)
	r.Delete("/{id}/shares/{shareId}", h.Unshare)

	r.Post("/{id}/save", h.Save)

	return r
}

// Create handles POST /sessions
// @Summary      Start a split session
// @Description  Create a session from an extracted receipt document and expand its line items into assignable units
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        request body CreateSessionRequest true "Receipt document and price convention"
// @Success      201 {object} response.APIResponse{data=SessionResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /sessions [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	resp, err := h.service.Create(&req)
	if err != nil {
		if errors.Is(err, receipt.ErrUnknownPriceConvention) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to create session")
		return
	}

	response.JSON(w, http.StatusCreated, resp)
}

// List handles GET /sessions
// @Summary      List open sessions
// @Description  Get summaries of all live split sessions, newest first
// @Tags         sessions
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]SessionSummary}
// @Router       /sessions [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.List())
}

// GetByID handles GET /sessions/{id}
// @Summary      Get session state
// @Description  Get the full session state: participants with computed shares, share groups, and unassigned item groups
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} response.APIResponse{data=SessionResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /sessions/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /sessions/{id}
// @Summary      Discard a session
// @Description  Drop a live session without saving it
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /sessions/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(id); err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Session discarded"})
}

// AddParticipant handles POST /sessions/{id}/participants
// @Summary      Add a participant
// @Description  Seat a new participant on the bill
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body AddParticipantRequest true "Participant name"
// @Success      200 {object} response.APIResponse{data=SessionResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /sessions/{id}/participants [post]
func (h *Handler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req AddParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	resp, err := h.service.AddParticipant(id, req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// RemoveParticipant handles DELETE /sessions/{id}/participants/{participantId}
// @Summary      Remove a participant
// @Description  Remove a participant; their direct units return to the unassigned pool and they are stripped from every share group
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        participantId path string true "Participant ID"
// @Success      200 {object} response.APIResponse{data=SessionResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /sessions/{id}/participants/{participantId} [delete]
func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	participantID, err := uuid.Parse(chi.URLParam(r, "participantId"))
	if err != nil {
		response.BadRequest(w, "Invalid participant ID")
		return
	}

	resp, err := h.service.RemoveParticipant(id, participantID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Assign handles POST /sessions/{id}/assignments
// @Summary      Assign a unit directly
// @Description  Move an unassigned unit into a participant's direct set
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body AssignRequest true "Unit and participant"
// @Success      200 {object} response.APIResponse{data=SessionResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /sessions/{id}/assignments [post]
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	unitID, participantID, ok := h.assignRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Assign(id, unitID, participantID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Unassign handles DELETE /sessions/{id}/assignments
// @Summary      Unassign a unit
// @Description  Move a directly-assigned unit back to the unassigned pool
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body AssignRequest true "Unit and participant"
// @Success      200 {object} response.APIResponse{data=SessionResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /sessions/{id}/assignments [delete]
func (h *Handler) Unassign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	unitID, participantID, ok := h.assignRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Unassign(id, unitID, participantID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Share handles POST /sessions/{id}/shares
// @Summary      Share a unit
// @Description  Split an unassigned unit evenly among two or more participants
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body ShareRequest true "Unit and sharers"
// @Success      200 {object} response.APIResponse{data=SessionResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /sessions/{id}/shares [post]
func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req ShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		response.BadRequest(w, "Invalid unit ID")
		return
	}
	participantIDs, err := parseUUIDs(req.ParticipantIDs)
	if err != nil {
		response.BadRequest(w, "Invalid participant ID")
		return
	}

	resp, err := h.service.Share(id, unitID, participantIDs)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// UpdateSharers handles PUT /sessions/{id}/shares/{shareId}
// @Summary      Update a share group's sharers
// @Description  Replace the sharer set; dropping below two sharers dissolves the group and the unit returns to the pool
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        shareId path string true "Share group ID"
// @Param        request body UpdateSharersRequest true "New sharer set"
// @Success      200 {object} response.APIResponse{data=SessionResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /sessions/{id}/shares/{shareId} [put]
func (h *Handler) UpdateSharers(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	shareID, err := uuid.Parse(chi.URLParam(r, "shareId"))
	if err != nil {
		response.BadRequest(w, "Invalid share ID")
		return
	}

	var req UpdateSharersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	participantIDs, err := parseUUIDs(req.ParticipantIDs)
	if err != nil {
		response.BadRequest(w, "Invalid participant ID")
		return
	}

	resp, err := h.service.UpdateSharers(id, shareID, participantIDs)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Unshare handles DELETE /sessions/{id}/shares/{shareId}
// @Summary      Dissolve a share group
// @Description  Dissolve the group; its unit returns to the unassigned pool
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        shareId path string true "Share group ID"
// @Success      200 {object} response.APIResponse{data=SessionResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /sessions/{id}/shares/{shareId} [delete]
func (h *Handler) Unshare(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	shareID, err := uuid.Parse(chi.URLParam(r, "shareId"))
	if err != nil {
		response.BadRequest(w, "Invalid share ID")
		return
	}

	resp, err := h.service.Unshare(id, shareID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Save handles POST /sessions/{id}/save
// @Summary      Save the split
// @Description  Project the current ledger state into a split record and persist it
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      201 {object} response.APIResponse{data=record.RecordResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /sessions/{id}/save [post]
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	rec, err := h.service.Save(r.Context(), id)
	if err != nil {
		if errors.Is(err, record.ErrNoParticipants) {
			response.BadRequest(w, err.Error())
			return
		}
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, rec.ToResponse())
}

// sessionID parses the {id} path parameter, writing a 400 on failure.
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}

// assignRequest decodes and validates an AssignRequest body.
func (h *Handler) assignRequest(w http.ResponseWriter, r *http.Request) (unitID, participantID uuid.UUID, ok bool) {
	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return uuid.Nil, uuid.Nil, false
	}
	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		response.BadRequest(w, "Invalid unit ID")
		return uuid.Nil, uuid.Nil, false
	}
	participantID, err = uuid.Parse(req.ParticipantID)
	if err != nil {
		response.BadRequest(w, "Invalid participant ID")
		return uuid.Nil, uuid.Nil, false
	}
	return unitID, participantID, true
}

// parseUUIDs parses a list of id strings, failing on the first bad one.
func parseUUIDs(ids []string) ([]uuid.UUID, error) {
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, s := range ids {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, id)
	}
	return parsed, nil
}

// writeError maps service errors onto the response envelope.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrStateUnchanged):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrEmptyName):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "Internal error")
	}
}
