package formats

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ramonehamilton/cubedraft/internal/draft"
)

const sealedYAML = `title: Mythic Sealed
multiples: false
default_seats: 6
packs:
  - slots: ["rarity:mythic", "*", "*"]
    steps:
      - action: pick
        amount: 3
`

const jsonFormat = `{"title":"Two Packs","packs":[{"slots":["*","t:land"]},{"slots":["*"]}],"multiples":true}`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sealed.yaml", sealedYAML)
	writeFile(t, dir, "two.json", jsonFormat)
	writeFile(t, dir, "broken.yml", "packs: [")
	writeFile(t, dir, "notes.txt", "ignored")

	lib, err := Load(dir)
	require.NoError(t, err)

	names := make([]string, 0)
	for _, e := range lib.List() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"sealed", StandardName, "two"}, names)

	sealed, ok := lib.Get("sealed")
	require.True(t, ok)
	assert.Equal(t, "Mythic Sealed", sealed.Title)
	assert.Equal(t, 6, sealed.DefaultSeats)
	assert.Equal(t, []draft.Step{{Action: draft.ActionPick, Amount: 3}}, sealed.Packs[0].Steps)

	two, ok := lib.Get("two")
	require.True(t, ok)
	assert.True(t, two.AllowDuplicates)
	assert.Equal(t, 3, two.CardsPerSeat())

	_, ok = lib.Get("broken")
	assert.False(t, ok)
}

func TestLoad_NoDir(t *testing.T) {
	lib, err := Load("")
	require.NoError(t, err)

	f, ok := lib.Get(StandardName)
	require.True(t, ok)
	assert.Equal(t, 45, f.CardsPerSeat())

	_, err = Load(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestLibrary_GetReturnsCopy(t *testing.T) {
	lib, err := Load("")
	require.NoError(t, err)

	f, ok := lib.Get(StandardName)
	require.True(t, ok)
	f.Packs[0].Slots[0] = "rarity:mythic"
	f.Packs = f.Packs[:1]

	again, ok := lib.Get(StandardName)
	require.True(t, ok)
	assert.Equal(t, "*", again.Packs[0].Slots[0])
	assert.Len(t, again.Packs, 3)

	entries := lib.List()
	require.Len(t, entries, 1)
	entries[0].Format.Packs[1].Slots[2] = "t:land"
	again, _ = lib.Get(StandardName)
	assert.Equal(t, "*", again.Packs[1].Slots[2])
}

func TestLoad_WithStandard(t *testing.T) {
	lib, err := Load("", WithStandard(draft.DefaultFormat(2, 10)))
	require.NoError(t, err)

	f, ok := lib.Get(StandardName)
	require.True(t, ok)
	assert.Equal(t, 20, f.CardsPerSeat())
	assert.Equal(t, []string{StandardName}, lib.Names())
}

func TestParse(t *testing.T) {
	_, err := Parse([]byte(`{"title":"x","packs":[]}`), ".json")
	assert.ErrorIs(t, err, draft.ErrNoPacks)

	_, err = Parse([]byte("title: x"), ".toml")
	assert.Error(t, err)
}

func TestParseFile_TitleFromName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cube-night.yml", "packs:\n  - slots: ['*']\n")

	f, err := ParseFile(filepath.Join(dir, "cube-night.yml"))
	require.NoError(t, err)
	assert.Equal(t, "cube-night", f.Title)
}

func TestWatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	reloads := make(chan []string, 8)
	lib, err := Load(dir, WithReloadHook(func(names []string) {
		select {
		case reloads <- names:
		default:
		}
	}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lib.Watch(ctx) }()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	writeFile(t, dir, "late.json", jsonFormat)

	assert.Eventually(t, func() bool {
		_, ok := lib.Get("late")
		return ok
	}, 5*time.Second, 20*time.Millisecond)

	select {
	case names := <-reloads:
		assert.Contains(t, names, StandardName)
	case <-time.After(5 * time.Second):
		t.Fatal("reload hook not called")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
