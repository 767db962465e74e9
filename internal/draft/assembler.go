package draft

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/ramonehamilton/cubedraft/internal/cube"
)

// Board dimensions for a seat's deck-building area.
const (
	BoardRows = 2
	BoardCols = 8
)

// GenerationError is the single aggregate failure of a generation run. It
// lists every structural problem of the format, or else every unsatisfiable slot.
type GenerationError struct {
	Messages []string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("draft generation failed: %s", strings.Join(e.Messages, "; "))
}

// Seat is one participant's state. Boards are [row][column] lists of card indices.
type Seat struct {
	Bot        bool      `json:"bot"`
	Name       string    `json:"name"`
	Owner      string    `json:"owner,omitempty"`
	Mainboard  [][][]int `json:"mainboard"`
	Sideboard  [][][]int `json:"sideboard"`
	Pickorder  []int     `json:"pickorder"`
	Trashorder []int     `json:"trashorder"`
}

// Draft is the record handed to persistence once generation succeeds.
type Draft struct {
	ID           string      `json:"id"`
	CubeID       string      `json:"cube_id"`
	Owner        string      `json:"owner"`
	FormatTitle  string      `json:"format_title"`
	Seed         string      `json:"seed"`
	Date         time.Time   `json:"date"`
	Cards        []cube.Card `json:"cards"`
	InitialState Layout      `json:"initial_state"`
	Seats        []Seat      `json:"seats"`
}

// GenerateRequest describes one draft to build.
type GenerateRequest struct {
	CubeID string
	Owner  string
	Format Format
	Cards  []cube.Card

	// Seats <= 0 falls back to Format.DefaultSeats, then the generator default.
	Seats int

	// Seed "" derives one from the clock.
	Seed string
}

// Generator builds drafts.
type Generator struct {
	clock        clockwork.Clock
	compile      CompileFunc
	defaultSeats int
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the clock used for seeds and draft dates.
func WithClock(clock clockwork.Clock) Option {
	return func(g *Generator) { g.clock = clock }
}

// WithCompiler overrides the filter compiler.
func WithCompiler(compile CompileFunc) Option {
	return func(g *Generator) { g.compile = compile }
}

// WithDefaultSeats sets the seat count used when neither request nor format has one.
func WithDefaultSeats(n int) Option {
	return func(g *Generator) { g.defaultSeats = n }
}

// NewGenerator creates a Generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		clock:        clockwork.NewRealClock(),
		defaultSeats: 8,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ResolveSeats applies the seat fallback chain.
func (g *Generator) ResolveSeats(req GenerateRequest) int {
	switch {
	case req.Seats > 0:
		return req.Seats
	case req.Format.DefaultSeats > 0:
		return req.Format.DefaultSeats
	default:
		return g.defaultSeats
	}
}

// Seed returns req.Seed, or the clock's Unix milliseconds as a decimal string.
func (g *Generator) Seed(req GenerateRequest) string {
	if req.Seed != "" {
		return req.Seed
	}
	return strconv.FormatInt(g.clock.Now().UnixMilli(), 10)
}

// Allocate runs the pack allocator for req with a fresh pool and source.
func (g *Generator) Allocate(req GenerateRequest, seats int, seed string) Allocation {
	pool := NewPool(req.Cards)
	resolver := NewResolver(pool, NewSource(seed), g.compile, req.Format.AllowDuplicates)
	return Allocate(&req.Format, seats, resolver.NextCard())
}

// Generate builds a draft. It fails as a whole with a *GenerationError
// carrying the same messages Validate would report; no partial draft is
// returned.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seats := g.ResolveSeats(req)
	if seats <= 0 {
		return nil, ErrNoSeats
	}
	if len(req.Format.Packs) == 0 {
		return nil, ErrNoPacks
	}
	// structural problems fail here with the messages Validate reports
	if problems := req.Format.Check(); len(problems) > 0 {
		return nil, &GenerationError{Messages: problems}
	}

	seed := g.Seed(req)
	alloc := g.Allocate(req, seats, seed)
	if !alloc.OK {
		log.Warn().
			Str("cube_id", req.CubeID).
			Str("seed", seed).
			Int("seats", seats).
			Int("messages", len(alloc.Messages)).
			Msg("draft generation failed")
		return nil, &GenerationError{Messages: alloc.Messages}
	}

	d := &Draft{
		ID:           uuid.NewString(),
		CubeID:       req.CubeID,
		Owner:        req.Owner,
		FormatTitle:  req.Format.Title,
		Seed:         seed,
		Date:         g.clock.Now().UTC(),
		Cards:        alloc.Cards,
		InitialState: alloc.Layout,
		Seats:        make([]Seat, seats),
	}
	for i := range d.Seats {
		seat := Seat{
			Bot:        i != 0,
			Name:       fmt.Sprintf("Bot %d", i),
			Mainboard:  emptyBoard(),
			Sideboard:  emptyBoard(),
			Pickorder:  []int{},
			Trashorder: []int{},
		}
		if i == 0 {
			seat.Name = req.Owner
			seat.Owner = req.Owner
		}
		d.Seats[i] = seat
	}

	log.Debug().
		Str("draft_id", d.ID).
		Str("cube_id", req.CubeID).
		Int("seats", seats).
		Int("cards", len(d.Cards)).
		Msg("draft generated")

	return d, nil
}

func emptyBoard() [][][]int {
	board := make([][][]int, BoardRows)
	for r := range board {
		board[r] = make([][]int, BoardCols)
		for c := range board[r] {
			board[r][c] = []int{}
		}
	}
	return board
}
