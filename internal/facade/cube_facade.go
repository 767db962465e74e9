package facade

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ramonehamilton/cubedraft/internal/cube"
	"github.com/ramonehamilton/cubedraft/internal/events"
	"github.com/ramonehamilton/cubedraft/internal/storage/repository"
)

// CubeFacade handles cube creation, import and lookup.
type CubeFacade struct {
	services *Services
}

// NewCubeFacade creates a new CubeFacade.
func NewCubeFacade(services *Services) *CubeFacade {
	return &CubeFacade{services: services}
}

// CreateCube stores a cube with its cards.
func (f *CubeFacade) CreateCube(ctx context.Context, c *cube.Cube) (*cube.Cube, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, invalid("cube name is required")
	}
	cube.AssignIDs(c.Cards)
	if err := cube.Validate(c.Cards); err != nil {
		return nil, invalid(err.Error())
	}
	if err := f.services.Storage.CreateCube(ctx, c); err != nil {
		return nil, &AppError{Message: fmt.Sprintf("Failed to create cube: %v", err), Err: err}
	}

	log.Info().Str("cube_id", c.ID).Str("name", c.Name).Int("cards", len(c.Cards)).Msg("cube created")
	f.services.dispatch(events.NewEvent(ctx, events.TypeCubeCreated, events.CubeCreatedEvent{
		CubeID: c.ID,
		Name:   c.Name,
		Owner:  c.Owner,
		Cards:  len(c.Cards),
	}))
	return c, nil
}

// ImportRequest is a plain-text cube list to resolve through Scryfall.
type ImportRequest struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
	List  string `json:"list"`
}

// ImportResponse is the stored cube plus the names that could not be resolved.
type ImportResponse struct {
	Cube     *cube.Cube `json:"cube"`
	NotFound []string   `json:"not_found"`
}

// ImportCube resolves a card list and stores the result as a new cube.
func (f *CubeFacade) ImportCube(ctx context.Context, req ImportRequest) (*ImportResponse, error) {
	if f.services.Importer == nil {
		return nil, &AppError{Message: "Card import is not configured", Err: ErrUnavailable}
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, invalid("cube name is required")
	}

	result, err := f.services.Importer.Import(ctx, req.List)
	if err != nil {
		return nil, &AppError{Message: fmt.Sprintf("Failed to import cube list: %v", err), Err: err}
	}
	if len(result.Cards) == 0 {
		return nil, invalid("no cards in the list could be resolved")
	}

	c, err := f.CreateCube(ctx, &cube.Cube{Name: req.Name, Owner: req.Owner, Cards: result.Cards})
	if err != nil {
		return nil, err
	}
	return &ImportResponse{Cube: c, NotFound: result.NotFound}, nil
}

// GetCube returns a cube with its cards.
func (f *CubeFacade) GetCube(ctx context.Context, id string) (*cube.Cube, error) {
	c, err := f.services.Storage.Cubes().Get(ctx, id)
	if err != nil {
		return nil, &AppError{Message: fmt.Sprintf("Failed to get cube: %v", err), Err: err}
	}
	return c, nil
}

// ListCubes returns every cube without cards.
func (f *CubeFacade) ListCubes(ctx context.Context) ([]*repository.CubeSummary, error) {
	cubes, err := f.services.Storage.Cubes().List(ctx)
	if err != nil {
		return nil, &AppError{Message: fmt.Sprintf("Failed to list cubes: %v", err), Err: err}
	}
	if cubes == nil {
		cubes = []*repository.CubeSummary{}
	}
	return cubes, nil
}

// GetCards returns a cube's cards in list order.
func (f *CubeFacade) GetCards(ctx context.Context, cubeID string) ([]cube.Card, error) {
	// resolve the cube first so a missing cube is a not-found, not an empty list
	c, err := f.GetCube(ctx, cubeID)
	if err != nil {
		return nil, err
	}
	return c.Cards, nil
}
