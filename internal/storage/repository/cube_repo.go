package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ramonehamilton/cubedraft/internal/cube"
)

// CubeSummary is a cube row without its cards.
type CubeSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	CardCount int       `json:"card_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CubeRepository stores cubes and their card lists.
type CubeRepository interface {
	// Create inserts the cube row and every card. Callers wrap it in a
	// transaction to make the insert atomic.
	Create(ctx context.Context, c *cube.Cube) error
	Get(ctx context.Context, id string) (*cube.Cube, error)
	List(ctx context.Context) ([]*CubeSummary, error)
	Cards(ctx context.Context, cubeID string) ([]cube.Card, error)
	Delete(ctx context.Context, id string) error
}

type cubeRepository struct {
	db DBTX
}

// NewCubeRepository creates a new cube repository.
func NewCubeRepository(db DBTX) CubeRepository {
	return &cubeRepository{db: db}
}

func (r *cubeRepository) Create(ctx context.Context, c *cube.Cube) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cubes (id, name, owner, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Owner, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cube: %w", err)
	}

	for i := range c.Cards {
		if err := r.insertCard(ctx, c.ID, i, &c.Cards[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *cubeRepository) insertCard(ctx context.Context, cubeID string, position int, card *cube.Card) error {
	colors, err := encodeJSON(card.Colors)
	if err != nil {
		return err
	}
	identity, err := encodeJSON(card.ColorIdentity)
	if err != nil {
		return err
	}
	tags, err := encodeJSON(card.Tags)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO cube_cards (
			cube_id, id, position, scryfall_id, name, type_line, oracle_text, set_code,
			mana_cost, cmc, colors, color_identity, rarity, power, toughness, tags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		cubeID,
		card.ID,
		position,
		card.ScryfallID,
		card.Name,
		card.TypeLine,
		card.OracleText,
		card.SetCode,
		card.ManaCost,
		card.CMC,
		colors,
		identity,
		card.Rarity,
		card.Power,
		card.Toughness,
		tags,
	)
	if err != nil {
		return fmt.Errorf("failed to insert card %s: %w", card.Name, err)
	}
	return nil
}

func (r *cubeRepository) Get(ctx context.Context, id string) (*cube.Cube, error) {
	c := &cube.Cube{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, owner, created_at, updated_at FROM cubes WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Owner, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "cube", id)
	}

	cards, err := r.Cards(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Cards = cards
	return c, nil
}

func (r *cubeRepository) List(ctx context.Context) ([]*CubeSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.owner, c.created_at, c.updated_at, COUNT(cc.id)
		FROM cubes c
		LEFT JOIN cube_cards cc ON cc.cube_id = c.id
		GROUP BY c.id
		ORDER BY c.created_at DESC, c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cubes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*CubeSummary
	for rows.Next() {
		s := &CubeSummary{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Owner, &s.CreatedAt, &s.UpdatedAt, &s.CardCount); err != nil {
			return nil, fmt.Errorf("failed to scan cube: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *cubeRepository) Cards(ctx context.Context, cubeID string) ([]cube.Card, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, scryfall_id, name, type_line, oracle_text, set_code, mana_cost, cmc,
			colors, color_identity, rarity, power, toughness, tags
		FROM cube_cards
		WHERE cube_id = ?
		ORDER BY position
	`, cubeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cube cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cards := []cube.Card{}
	for rows.Next() {
		var card cube.Card
		var colors, identity, tags string
		err := rows.Scan(
			&card.ID,
			&card.ScryfallID,
			&card.Name,
			&card.TypeLine,
			&card.OracleText,
			&card.SetCode,
			&card.ManaCost,
			&card.CMC,
			&colors,
			&identity,
			&card.Rarity,
			&card.Power,
			&card.Toughness,
			&tags,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cube card: %w", err)
		}
		if err := decodeJSON(colors, &card.Colors); err != nil {
			return nil, err
		}
		if err := decodeJSON(identity, &card.ColorIdentity); err != nil {
			return nil, err
		}
		if err := decodeJSON(tags, &card.Tags); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (r *cubeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cubes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cube: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete cube: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("cube %s: %w", id, ErrNotFound)
	}
	return nil
}
