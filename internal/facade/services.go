// Package facade implements the use cases shared by the HTTP API and the CLI.
package facade

import (
	"errors"

	"github.com/jonboulle/clockwork"

	"github.com/ramonehamilton/cubedraft/internal/cube/scryfall"
	"github.com/ramonehamilton/cubedraft/internal/draft"
	"github.com/ramonehamilton/cubedraft/internal/events"
	"github.com/ramonehamilton/cubedraft/internal/formats"
	"github.com/ramonehamilton/cubedraft/internal/metrics"
	"github.com/ramonehamilton/cubedraft/internal/storage"
)

var (
	// ErrInvalidInput marks errors caused by bad caller input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable marks features that are disabled in this deployment.
	ErrUnavailable = errors.New("feature unavailable")
)

// Services contains the shared dependencies handed to each facade.
type Services struct {
	Storage    *storage.Service
	Formats    *formats.Library
	Generator  *draft.Generator
	Dispatcher *events.EventDispatcher

	// Importer is nil when Scryfall imports are disabled.
	Importer *scryfall.Importer

	// MaxSeats bounds the seat count of one draft; 0 means unbounded.
	MaxSeats int

	// SimulationWorkers is the parallelism of Simulate.
	SimulationWorkers int

	// Metrics is optional.
	Metrics *metrics.GenerationMetrics

	// Clock times generation for Metrics; nil uses the real clock.
	Clock clockwork.Clock
}

// AppError is an error with a user-facing message.
type AppError struct {
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As chain.
func (e *AppError) Unwrap() error {
	return e.Err
}

func invalid(message string) error {
	return &AppError{Message: message, Err: ErrInvalidInput}
}

func (s *Services) clock() clockwork.Clock {
	if s.Clock == nil {
		return clockwork.NewRealClock()
	}
	return s.Clock
}

func (s *Services) dispatch(event events.Event) {
	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(event)
	}
}
