package record

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mraditya/splitbill/pkg/response"
)

// Handler handles HTTP requests for saved split records
type Handler struct {
	service *Service
}

// NewHandler creates a new record handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for record endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Delete("/{id}", h.Delete)

	return r
}

// List handles GET /records
// @Summary      List saved split records
// @Description  Get a paginated list of saved splits, newest first
// @Tags         records
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]RecordResponse}
// @Router       /records [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	records, total, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list records")
		return
	}

	recordResponses := make([]*RecordResponse, len(records))
	for i, rec := range records {
		recordResponses[i] = rec.ToResponse()
	}

	totalPages := (total + perPage - 1) / perPage
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}

	response.JSONWithMeta(w, http.StatusOK, recordResponses, meta)
}

// GetByID handles GET /records/{id}
// @Summary      Get a saved split record
// @Description  Get a saved split with all participant shares and item entries
// @Tags         records
// @Produce      json
// @Param        id path string true "Record ID"
// @Success      200 {object} response.APIResponse{data=RecordResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /records/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid record ID")
		return
	}

	rec, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get record")
		return
	}

	response.JSON(w, http.StatusOK, rec.ToResponse())
}

// Delete handles DELETE /records/{id}
// @Summary      Delete a saved split record
// @Description  Delete a saved split and its participant shares
// @Tags         records
// @Produce      json
// @Param        id path string true "Record ID"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /records/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid record ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete record")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Record deleted successfully"})
}
