package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/cubedraft/internal/api/response"
	"github.com/ramonehamilton/cubedraft/internal/facade"
)

// DefaultDraftListLimit caps draft listings without an explicit limit.
const DefaultDraftListLimit = 50

// DraftHandler handles format validation, asfan and draft generation.
type DraftHandler struct {
	facade *facade.DraftFacade
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(facade *facade.DraftFacade) *DraftHandler {
	return &DraftHandler{facade: facade}
}

// ValidateFormat checks a format against the cube. Formats with
// unsatisfiable slots are answered with 422 and the full message list.
func (h *DraftHandler) ValidateFormat(w http.ResponseWriter, r *http.Request) {
	var ref facade.FormatRef
	if !decodeBody(w, r, &ref, true) {
		return
	}

	result, err := h.facade.ValidateFormat(r.Context(), chi.URLParam(r, "cubeID"), ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !result.OK {
		response.Unprocessable(w, errors.New("format cannot be drafted from this cube"), result.Messages)
		return
	}
	response.Success(w, result)
}

// Asfan returns per-card expected appearances for one seat.
func (h *DraftHandler) Asfan(w http.ResponseWriter, r *http.Request) {
	var ref facade.FormatRef
	if !decodeBody(w, r, &ref, true) {
		return
	}

	report, err := h.facade.Asfan(r.Context(), chi.URLParam(r, "cubeID"), ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, report)
}

// GenerateDraft builds and stores a new draft.
func (h *DraftHandler) GenerateDraft(w http.ResponseWriter, r *http.Request) {
	var req facade.GenerateDraftRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	d, err := h.facade.GenerateDraft(r.Context(), chi.URLParam(r, "cubeID"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, d)
}

// Simulate runs repeated generations and reports seat 0 incidence.
func (h *DraftHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req facade.SimulateDraftRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	result, err := h.facade.Simulate(r.Context(), chi.URLParam(r, "cubeID"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, result)
}

// ListDrafts returns a cube's drafts, newest first. ?limit= bounds the list.
func (h *DraftHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	limit := DefaultDraftListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.BadRequest(w, errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}

	drafts, err := h.facade.ListDrafts(r.Context(), chi.URLParam(r, "cubeID"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, drafts)
}

// GetDraft returns a stored draft.
func (h *DraftHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	d, err := h.facade.GetDraft(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, d)
}
