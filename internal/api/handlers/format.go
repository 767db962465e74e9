package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/cubedraft/internal/api/response"
	"github.com/ramonehamilton/cubedraft/internal/draft"
	"github.com/ramonehamilton/cubedraft/internal/facade"
)

// FormatHandler serves the format library and per-cube formats.
type FormatHandler struct {
	facade *facade.DraftFacade
}

// NewFormatHandler creates a new FormatHandler.
func NewFormatHandler(facade *facade.DraftFacade) *FormatHandler {
	return &FormatHandler{facade: facade}
}

// SaveFormatRequest names a format stored on a cube.
type SaveFormatRequest struct {
	Name   string        `json:"name"`
	Format *draft.Format `json:"format"`
}

// ListLibraryFormats returns the formats loaded from disk.
func (h *FormatHandler) ListLibraryFormats(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, h.facade.LibraryFormats())
}

// GetLibraryFormat returns one library format.
func (h *FormatHandler) GetLibraryFormat(w http.ResponseWriter, r *http.Request) {
	f, err := h.facade.LibraryFormat(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, f)
}

// ListCubeFormats returns the formats saved on a cube.
func (h *FormatHandler) ListCubeFormats(w http.ResponseWriter, r *http.Request) {
	list, err := h.facade.ListCubeFormats(r.Context(), chi.URLParam(r, "cubeID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, list)
}

// SaveCubeFormat creates or replaces a named format on a cube.
func (h *FormatHandler) SaveCubeFormat(w http.ResponseWriter, r *http.Request) {
	var req SaveFormatRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	if req.Format == nil {
		req.Format = &draft.Format{}
	}

	if err := h.facade.SaveCubeFormat(r.Context(), chi.URLParam(r, "cubeID"), req.Name, req.Format); err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, req)
}
