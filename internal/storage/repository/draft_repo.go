package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ramonehamilton/cubedraft/internal/draft"
)

// DraftSummary is a draft row without its card payload.
type DraftSummary struct {
	ID          string    `json:"id"`
	CubeID      string    `json:"cube_id"`
	Owner       string    `json:"owner"`
	FormatTitle string    `json:"format_title"`
	Seed        string    `json:"seed"`
	Seats       int       `json:"seats"`
	Date        time.Time `json:"date"`
}

// DraftRepository stores generated drafts.
type DraftRepository interface {
	Create(ctx context.Context, d *draft.Draft) error
	Get(ctx context.Context, id string) (*draft.Draft, error)

	// ListByCube returns the newest drafts first; limit <= 0 returns all.
	ListByCube(ctx context.Context, cubeID string, limit int) ([]*DraftSummary, error)
}

type draftRepository struct {
	db DBTX
}

// NewDraftRepository creates a new draft repository.
func NewDraftRepository(db DBTX) DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) Create(ctx context.Context, d *draft.Draft) error {
	cards, err := encodeJSON(d.Cards)
	if err != nil {
		return err
	}
	state, err := encodeJSON(d.InitialState)
	if err != nil {
		return err
	}
	seats, err := encodeJSON(d.Seats)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO drafts (id, cube_id, owner, format_title, seed, seat_count, cards, initial_state, seats, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		d.ID,
		d.CubeID,
		d.Owner,
		d.FormatTitle,
		d.Seed,
		len(d.Seats),
		cards,
		state,
		seats,
		d.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to insert draft: %w", err)
	}
	return nil
}

func (r *draftRepository) Get(ctx context.Context, id string) (*draft.Draft, error) {
	d := &draft.Draft{}
	var cards, state, seats string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, cube_id, owner, format_title, seed, cards, initial_state, seats, created_at
		FROM drafts
		WHERE id = ?
	`, id).Scan(
		&d.ID,
		&d.CubeID,
		&d.Owner,
		&d.FormatTitle,
		&d.Seed,
		&cards,
		&state,
		&seats,
		&d.Date,
	)
	if err != nil {
		return nil, notFound(err, "draft", id)
	}

	if err := decodeJSON(cards, &d.Cards); err != nil {
		return nil, err
	}
	if err := decodeJSON(state, &d.InitialState); err != nil {
		return nil, err
	}
	if err := decodeJSON(seats, &d.Seats); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *draftRepository) ListByCube(ctx context.Context, cubeID string, limit int) ([]*DraftSummary, error) {
	query := `
		SELECT id, cube_id, owner, format_title, seed, seat_count, created_at
		FROM drafts
		WHERE cube_id = ?
		ORDER BY created_at DESC, id
	`
	args := []any{cubeID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*DraftSummary
	for rows.Next() {
		s := &DraftSummary{}
		if err := rows.Scan(&s.ID, &s.CubeID, &s.Owner, &s.FormatTitle, &s.Seed, &s.Seats, &s.Date); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
