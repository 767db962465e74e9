package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ramonehamilton/cubedraft/internal/cube"
	"github.com/ramonehamilton/cubedraft/internal/draft"
	"github.com/ramonehamilton/cubedraft/internal/storage/repository"
)

// Service provides high-level persistence for cubes, formats and drafts.
type Service struct {
	db      *DB
	cubes   repository.CubeRepository
	formats repository.FormatRepository
	drafts  repository.DraftRepository
}

// NewService creates a new storage service.
func NewService(db *DB) *Service {
	return &Service{
		db:      db,
		cubes:   repository.NewCubeRepository(db.Conn()),
		formats: repository.NewFormatRepository(db.Conn()),
		drafts:  repository.NewDraftRepository(db.Conn()),
	}
}

// Cubes returns the cube repository.
func (s *Service) Cubes() repository.CubeRepository { return s.cubes }

// Formats returns the format repository.
func (s *Service) Formats() repository.FormatRepository { return s.formats }

// Drafts returns the draft repository.
func (s *Service) Drafts() repository.DraftRepository { return s.drafts }

// CreateCube stores a cube and all of its cards atomically. Missing cube and
// card instance ids are assigned first, and timestamps default to now.
func (s *Service) CreateCube(ctx context.Context, c *cube.Cube) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	cube.AssignIDs(c.Cards)
	if err := cube.Validate(c.Cards); err != nil {
		return err
	}

	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	return s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := repository.NewCubeRepository(tx).Create(ctx, c); err != nil {
			return fmt.Errorf("failed to create cube %s: %w", c.Name, err)
		}
		return nil
	})
}

// SaveDraft persists a generated draft.
func (s *Service) SaveDraft(ctx context.Context, d *draft.Draft) error {
	if err := s.drafts.Create(ctx, d); err != nil {
		return fmt.Errorf("failed to save draft %s: %w", d.ID, err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the underlying database.
func (s *Service) Close() error {
	return s.db.Close()
}
