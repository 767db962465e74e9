package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/cubedraft/internal/cube"
	"github.com/ramonehamilton/cubedraft/internal/draft"
	"github.com/ramonehamilton/cubedraft/internal/storage/repository"
)

func testCube() *cube.Cube {
	return &cube.Cube{
		Name:  "Vintage Cube",
		Owner: "alice",
		Cards: []cube.Card{
			{
				Name:          "Lightning Bolt",
				TypeLine:      "Instant",
				ManaCost:      "{R}",
				CMC:           1,
				Colors:        []string{"R"},
				ColorIdentity: []string{"R"},
				Rarity:        cube.RarityCommon,
				SetCode:       "lea",
				Tags:          []string{"burn"},
			},
			{
				Name:          "Tarmogoyf",
				TypeLine:      "Creature — Lhurgoyf",
				CMC:           2,
				Colors:        []string{"G"},
				ColorIdentity: []string{"G"},
				Rarity:        cube.RarityMythic,
				Power:         "*",
				Toughness:     "1+*",
			},
			{Name: "Wastes", TypeLine: "Basic Land", Rarity: cube.RarityCommon},
		},
	}
}

func TestService_CreateCube(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	c := testCube()
	require.NoError(t, svc.CreateCube(ctx, c))
	require.NotEmpty(t, c.ID)
	for _, card := range c.Cards {
		assert.NotEmpty(t, card.ID)
	}

	got, err := svc.Cubes().Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vintage Cube", got.Name)
	assert.Equal(t, "alice", got.Owner)
	assert.WithinDuration(t, c.CreatedAt, got.CreatedAt, time.Second)
	if diff := cmp.Diff(c.Cards, got.Cards); diff != "" {
		t.Errorf("cards mismatch (-want +got):\n%s", diff)
	}

	list, err := svc.Cubes().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].CardCount)
}

func TestService_CreateCubeRejectsDuplicateIDs(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	c := testCube()
	c.Cards[0].ID = "dup"
	c.Cards[1].ID = "dup"
	assert.Error(t, svc.CreateCube(ctx, c))

	list, err := svc.Cubes().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCubeRepository_NotFound(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Cubes().Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, svc.Cubes().Delete(ctx, "missing"), repository.ErrNotFound)
}

func TestFormatRepository(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	c := testCube()
	require.NoError(t, svc.CreateCube(ctx, c))

	f := draft.Format{
		Title: "Mythic Draft",
		Packs: []draft.Pack{{
			Slots: []string{"rarity:mythic", "*"},
			Steps: []draft.Step{{Action: draft.ActionPick, Amount: 2}},
		}},
		DefaultSeats: 4,
	}
	require.NoError(t, svc.Formats().Save(ctx, c.ID, "mythic", &f))

	got, err := svc.Formats().Get(ctx, c.ID, "mythic")
	require.NoError(t, err)
	assert.Equal(t, f, *got)

	// saving again replaces
	f.Title = "Mythic Draft v2"
	require.NoError(t, svc.Formats().Save(ctx, c.ID, "mythic", &f))
	require.NoError(t, svc.Formats().Save(ctx, c.ID, "alpha", &f))

	list, err := svc.Formats().ListByCube(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "Mythic Draft v2", list[1].Format.Title)

	require.NoError(t, svc.Formats().Delete(ctx, c.ID, "alpha"))
	_, err = svc.Formats().Get(ctx, c.ID, "alpha")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDraftRepository(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	c := testCube()
	require.NoError(t, svc.CreateCube(ctx, c))

	g := draft.NewGenerator()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		d, err := g.Generate(ctx, draft.GenerateRequest{
			CubeID: c.ID,
			Owner:  "alice",
			Format: draft.DefaultFormat(1, 1),
			Cards:  c.Cards,
			Seats:  3,
			Seed:   fmt.Sprintf("seed-%d", i),
		})
		require.NoError(t, err)
		d.Date = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, svc.SaveDraft(ctx, d))
		ids = append(ids, d.ID)
	}

	got, err := svc.Drafts().Get(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "seed-0", got.Seed)
	assert.Len(t, got.Cards, 3)
	require.Len(t, got.Seats, 3)
	assert.Equal(t, "alice", got.Seats[0].Name)
	assert.Len(t, got.Seats[2].Mainboard, draft.BoardRows)
	require.Len(t, got.InitialState, 3)
	assert.Equal(t, draft.DefaultSteps(1), got.InitialState[1][0].Steps)

	list, err := svc.Drafts().ListByCube(ctx, c.ID, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, 3, list[0].Seats)

	_, err = svc.Drafts().Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// deleting the cube removes its drafts
	require.NoError(t, svc.Cubes().Delete(ctx, c.ID))
	_, err = svc.Drafts().Get(ctx, ids[1])
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
