package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ramonehamilton/cubedraft/internal/api/response"
	"github.com/ramonehamilton/cubedraft/internal/draft"
	"github.com/ramonehamilton/cubedraft/internal/facade"
	"github.com/ramonehamilton/cubedraft/internal/storage/repository"
)

// maxBodyBytes bounds request bodies; cube lists of a few thousand cards fit easily.
const maxBodyBytes = 8 << 20

// writeError maps facade and engine errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var genErr *draft.GenerationError
	switch {
	case errors.As(err, &genErr):
		response.Unprocessable(w, err, genErr.Messages)
	case errors.Is(err, draft.ErrUnsatisfiableSlot):
		response.Unprocessable(w, err, nil)
	case errors.Is(err, repository.ErrNotFound):
		response.NotFound(w, err)
	case errors.Is(err, facade.ErrInvalidInput),
		errors.Is(err, draft.ErrNoPacks),
		errors.Is(err, draft.ErrNoSeats),
		errors.Is(err, draft.ErrEmptyPool):
		response.BadRequest(w, err)
	case errors.Is(err, facade.ErrUnavailable):
		response.ServiceUnavailable(w, err)
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		response.InternalError(w, err)
	}
}

// decodeBody decodes a JSON request body into v. An empty body leaves v
// untouched when allowEmpty is set.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}
