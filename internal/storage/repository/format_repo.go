package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ramonehamilton/cubedraft/internal/draft"
)

// NamedFormat is a format saved against a cube.
type NamedFormat struct {
	CubeID    string       `json:"cube_id"`
	Name      string       `json:"name"`
	Format    draft.Format `json:"format"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// FormatRepository stores per-cube custom formats.
type FormatRepository interface {
	// Save inserts or replaces the named format.
	Save(ctx context.Context, cubeID, name string, f *draft.Format) error
	Get(ctx context.Context, cubeID, name string) (*draft.Format, error)
	ListByCube(ctx context.Context, cubeID string) ([]*NamedFormat, error)
	Delete(ctx context.Context, cubeID, name string) error
}

type formatRepository struct {
	db DBTX
}

// NewFormatRepository creates a new format repository.
func NewFormatRepository(db DBTX) FormatRepository {
	return &formatRepository{db: db}
}

func (r *formatRepository) Save(ctx context.Context, cubeID, name string, f *draft.Format) error {
	definition, err := encodeJSON(f)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO formats (cube_id, name, definition, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (cube_id, name) DO UPDATE SET
			definition = excluded.definition,
			updated_at = excluded.updated_at
	`, cubeID, name, definition, now, now)
	if err != nil {
		return fmt.Errorf("failed to save format: %w", err)
	}
	return nil
}

func (r *formatRepository) Get(ctx context.Context, cubeID, name string) (*draft.Format, error) {
	var definition string
	err := r.db.QueryRowContext(ctx, `
		SELECT definition FROM formats WHERE cube_id = ? AND name = ?
	`, cubeID, name).Scan(&definition)
	if err != nil {
		return nil, notFound(err, "format", name)
	}

	f := &draft.Format{}
	if err := decodeJSON(definition, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *formatRepository) ListByCube(ctx context.Context, cubeID string) ([]*NamedFormat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, definition, updated_at FROM formats WHERE cube_id = ? ORDER BY name
	`, cubeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list formats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*NamedFormat
	for rows.Next() {
		nf := &NamedFormat{CubeID: cubeID}
		var definition string
		if err := rows.Scan(&nf.Name, &definition, &nf.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan format: %w", err)
		}
		if err := decodeJSON(definition, &nf.Format); err != nil {
			return nil, err
		}
		out = append(out, nf)
	}
	return out, rows.Err()
}

func (r *formatRepository) Delete(ctx context.Context, cubeID, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM formats WHERE cube_id = ? AND name = ?`, cubeID, name)
	if err != nil {
		return fmt.Errorf("failed to delete format: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("format %s: %w", name, ErrNotFound)
	}
	return nil
}
