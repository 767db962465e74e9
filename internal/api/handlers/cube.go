package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/cubedraft/internal/api/response"
	"github.com/ramonehamilton/cubedraft/internal/cube"
	"github.com/ramonehamilton/cubedraft/internal/facade"
)

// CubeHandler handles cube-related API requests.
type CubeHandler struct {
	facade *facade.CubeFacade
}

// NewCubeHandler creates a new CubeHandler.
func NewCubeHandler(facade *facade.CubeFacade) *CubeHandler {
	return &CubeHandler{facade: facade}
}

// CreateCube stores a cube posted as JSON.
func (h *CubeHandler) CreateCube(w http.ResponseWriter, r *http.Request) {
	var c cube.Cube
	if !decodeBody(w, r, &c, false) {
		return
	}

	created, err := h.facade.CreateCube(r.Context(), &c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, created)
}

// ImportCube resolves a plain-text card list through Scryfall.
func (h *CubeHandler) ImportCube(w http.ResponseWriter, r *http.Request) {
	var req facade.ImportRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	result, err := h.facade.ImportCube(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, result)
}

// ListCubes returns every cube without its cards.
func (h *CubeHandler) ListCubes(w http.ResponseWriter, r *http.Request) {
	cubes, err := h.facade.ListCubes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, cubes)
}

// GetCube returns a cube with its cards.
func (h *CubeHandler) GetCube(w http.ResponseWriter, r *http.Request) {
	c, err := h.facade.GetCube(r.Context(), chi.URLParam(r, "cubeID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, c)
}

// GetCards returns a cube's cards.
func (h *CubeHandler) GetCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.facade.GetCards(r.Context(), chi.URLParam(r, "cubeID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, cards)
}
