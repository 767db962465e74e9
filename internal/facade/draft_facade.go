package facade

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ramonehamilton/cubedraft/internal/cube"
	"github.com/ramonehamilton/cubedraft/internal/draft"
	"github.com/ramonehamilton/cubedraft/internal/events"
	"github.com/ramonehamilton/cubedraft/internal/formats"
	"github.com/ramonehamilton/cubedraft/internal/storage/repository"
)

// MaxSimulationRuns bounds one Simulate call.
const MaxSimulationRuns = 10000

// FormatRef selects a format: an inline definition, a format saved on the
// cube, or a library format, in that order. An empty name means "standard".
type FormatRef struct {
	Name       string        `json:"format,omitempty"`
	Definition *draft.Format `json:"format_definition,omitempty"`
}

// GenerateDraftRequest is the input to GenerateDraft.
type GenerateDraftRequest struct {
	FormatRef
	Owner string `json:"owner"`
	Seats int    `json:"seats,omitempty"`
	Seed  string `json:"seed,omitempty"`
}

// SimulateDraftRequest is the input to Simulate.
type SimulateDraftRequest struct {
	FormatRef
	Seats int    `json:"seats,omitempty"`
	Seed  string `json:"seed,omitempty"`
	Runs  int    `json:"runs"`
}

// AsfanReport lists per-card asfan for one format, highest first.
type AsfanReport struct {
	FormatTitle string             `json:"format_title"`
	Entries     []draft.AsfanEntry `json:"entries"`
}

// DraftFacade handles format checks, asfan, and draft generation.
type DraftFacade struct {
	services *Services
}

// NewDraftFacade creates a new DraftFacade.
func NewDraftFacade(services *Services) *DraftFacade {
	return &DraftFacade{services: services}
}

func (f *DraftFacade) loadCube(ctx context.Context, cubeID string) (*cube.Cube, error) {
	c, err := f.services.Storage.Cubes().Get(ctx, cubeID)
	if err != nil {
		return nil, &AppError{Message: fmt.Sprintf("Failed to get cube: %v", err), Err: err}
	}
	return c, nil
}

// ResolveFormat finds the format a request refers to.
func (f *DraftFacade) ResolveFormat(ctx context.Context, cubeID string, ref FormatRef) (draft.Format, error) {
	if ref.Definition != nil {
		return *ref.Definition, nil
	}

	name := ref.Name
	if name == "" {
		name = formats.StandardName
	}

	if cubeID != "" {
		saved, err := f.services.Storage.Formats().Get(ctx, cubeID, name)
		switch {
		case err == nil:
			return *saved, nil
		case !errors.Is(err, repository.ErrNotFound):
			return draft.Format{}, &AppError{Message: fmt.Sprintf("Failed to load format: %v", err), Err: err}
		}
	}

	return f.LibraryFormat(name)
}

// LibraryFormats lists the formats loaded from the format directory.
func (f *DraftFacade) LibraryFormats() []formats.Entry {
	if f.services.Formats == nil {
		return []formats.Entry{{Name: formats.StandardName, Format: draft.DefaultFormat(3, 15)}}
	}
	return f.services.Formats.List()
}

// LibraryFormat returns one library format by name.
func (f *DraftFacade) LibraryFormat(name string) (draft.Format, error) {
	if f.services.Formats != nil {
		if format, ok := f.services.Formats.Get(name); ok {
			return format, nil
		}
	} else if name == formats.StandardName {
		return draft.DefaultFormat(3, 15), nil
	}
	return draft.Format{}, &AppError{
		Message: fmt.Sprintf("Unknown format %q", name),
		Err:     fmt.Errorf("format %s: %w", name, repository.ErrNotFound),
	}
}

// ValidateFormat checks a format against a cube without drawing any cards.
func (f *DraftFacade) ValidateFormat(ctx context.Context, cubeID string, ref FormatRef) (draft.ValidationResult, error) {
	c, err := f.loadCube(ctx, cubeID)
	if err != nil {
		return draft.ValidationResult{}, err
	}
	format, err := f.ResolveFormat(ctx, cubeID, ref)
	if err != nil {
		return draft.ValidationResult{}, err
	}
	return draft.Validate(&format, c.Cards, nil), nil
}

// Asfan estimates how often each card of the cube is seen by one seat.
func (f *DraftFacade) Asfan(ctx context.Context, cubeID string, ref FormatRef) (*AsfanReport, error) {
	c, err := f.loadCube(ctx, cubeID)
	if err != nil {
		return nil, err
	}
	format, err := f.ResolveFormat(ctx, cubeID, ref)
	if err != nil {
		return nil, err
	}

	asfan, err := draft.EstimateAsfan(&format, c.Cards, nil)
	if err != nil {
		return nil, &AppError{Message: fmt.Sprintf("Failed to estimate asfan: %v", err), Err: err}
	}
	return &AsfanReport{FormatTitle: format.Title, Entries: draft.RankAsfan(c.Cards, asfan)}, nil
}

func (f *DraftFacade) checkSeats(seats int) error {
	if seats < 0 {
		return invalid("seats must not be negative")
	}
	if f.services.MaxSeats > 0 && seats > f.services.MaxSeats {
		return invalid(fmt.Sprintf("at most %d seats are allowed", f.services.MaxSeats))
	}
	return nil
}

// GenerateDraft builds a draft from a cube, stores it and announces it.
// Unsatisfiable formats fail with a *draft.GenerationError.
func (f *DraftFacade) GenerateDraft(ctx context.Context, cubeID string, req GenerateDraftRequest) (*draft.Draft, error) {
	if err := f.checkSeats(req.Seats); err != nil {
		return nil, err
	}
	c, err := f.loadCube(ctx, cubeID)
	if err != nil {
		return nil, err
	}
	format, err := f.ResolveFormat(ctx, cubeID, req.FormatRef)
	if err != nil {
		return nil, err
	}

	genReq := draft.GenerateRequest{
		CubeID: c.ID,
		Owner:  req.Owner,
		Format: format,
		Cards:  c.Cards,
		Seats:  req.Seats,
		Seed:   req.Seed,
	}
	if err := f.checkSeats(f.services.Generator.ResolveSeats(genReq)); err != nil {
		return nil, err
	}

	start := f.services.clock().Now()
	d, err := f.services.Generator.Generate(ctx, genReq)
	if m := f.services.Metrics; m != nil {
		cards := 0
		if d != nil {
			cards = len(d.Cards)
		}
		m.RecordDraft(f.services.clock().Since(start), cards, err != nil)
	}
	if err != nil {
		return nil, err
	}

	if err := f.services.Storage.SaveDraft(ctx, d); err != nil {
		return nil, &AppError{Message: fmt.Sprintf("Failed to save draft: %v", err), Err: err}
	}

	log.Info().
		Str("draft_id", d.ID).
		Str("cube_id", c.ID).
		Str("format", format.Title).
		Int("seats", len(d.Seats)).
		Msg("draft created")

	f.services.dispatch(events.NewEvent(ctx, events.TypeDraftCreated, events.DraftCreatedEvent{
		DraftID:     d.ID,
		CubeID:      d.CubeID,
		Owner:       d.Owner,
		FormatTitle: d.FormatTitle,
		Seed:        d.Seed,
		Seats:       len(d.Seats),
		Cards:       len(d.Cards),
		Date:        d.Date,
	}))
	return d, nil
}

// GetDraft returns a stored draft.
func (f *DraftFacade) GetDraft(ctx context.Context, id string) (*draft.Draft, error) {
	d, err := f.services.Storage.Drafts().Get(ctx, id)
	if err != nil {
		return nil, &AppError{Message: fmt.Sprintf("Failed to get draft: %v", err), Err: err}
	}
	return d, nil
}

// ListDrafts returns a cube's drafts, newest first.
func (f *DraftFacade) ListDrafts(ctx context.Context, cubeID string, limit int) ([]*repository.DraftSummary, error) {
	if _, err := f.loadCube(ctx, cubeID); err != nil {
		return nil, err
	}
	drafts, err := f.services.Storage.Drafts().ListByCube(ctx, cubeID, limit)
	if err != nil {
		return nil, &AppError{Message: fmt.Sprintf("Failed to list drafts: %v", err), Err: err}
	}
	if drafts == nil {
		drafts = []*repository.DraftSummary{}
	}
	return drafts, nil
}

// ListCubeFormats returns the formats saved on a cube.
func (f *DraftFacade) ListCubeFormats(ctx context.Context, cubeID string) ([]*repository.NamedFormat, error) {
	if _, err := f.loadCube(ctx, cubeID); err != nil {
		return nil, err
	}
	list, err := f.services.Storage.Formats().ListByCube(ctx, cubeID)
	if err != nil {
		return nil, &AppError{Message: fmt.Sprintf("Failed to list formats: %v", err), Err: err}
	}
	if list == nil {
		list = []*repository.NamedFormat{}
	}
	return list, nil
}

// SaveCubeFormat stores a structurally valid format on a cube under name.
func (f *DraftFacade) SaveCubeFormat(ctx context.Context, cubeID, name string, format *draft.Format) error {
	if strings.TrimSpace(name) == "" {
		return invalid("format name is required")
	}
	if problems := format.Check(); len(problems) > 0 {
		return invalid("invalid format: " + strings.Join(problems, "; "))
	}
	if _, err := f.loadCube(ctx, cubeID); err != nil {
		return err
	}
	if err := f.services.Storage.Formats().Save(ctx, cubeID, name, format); err != nil {
		return &AppError{Message: fmt.Sprintf("Failed to save format: %v", err), Err: err}
	}
	return nil
}

// Simulate runs many independent generations and reports how often each
// card reached seat 0, for comparison with Asfan.
func (f *DraftFacade) Simulate(ctx context.Context, cubeID string, req SimulateDraftRequest) (*draft.SimulateResult, error) {
	if req.Runs <= 0 || req.Runs > MaxSimulationRuns {
		return nil, invalid(fmt.Sprintf("runs must be between 1 and %d", MaxSimulationRuns))
	}
	if err := f.checkSeats(req.Seats); err != nil {
		return nil, err
	}
	c, err := f.loadCube(ctx, cubeID)
	if err != nil {
		return nil, err
	}
	format, err := f.ResolveFormat(ctx, cubeID, req.FormatRef)
	if err != nil {
		return nil, err
	}

	genReq := draft.GenerateRequest{
		CubeID: c.ID,
		Format: format,
		Cards:  c.Cards,
		Seats:  req.Seats,
		Seed:   req.Seed,
	}
	if err := f.checkSeats(f.services.Generator.ResolveSeats(genReq)); err != nil {
		return nil, err
	}

	start := f.services.clock().Now()
	result, err := f.services.Generator.Simulate(ctx, draft.SimulateRequest{
		GenerateRequest: genReq,
		Runs:            req.Runs,
		Workers:         f.services.SimulationWorkers,
	})
	if err != nil {
		return nil, &AppError{Message: fmt.Sprintf("Failed to simulate: %v", err), Err: err}
	}
	if m := f.services.Metrics; m != nil {
		m.RecordSimulation(f.services.clock().Since(start), result.Runs, result.Failures)
	}
	return result, nil
}
