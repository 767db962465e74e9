package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/cubedraft/internal/cube"
	"github.com/ramonehamilton/cubedraft/internal/draft"
)

// runCLI executes the root command with an isolated config and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	base := []string{
		"--config", filepath.Join(dir, "config.toml"),
		"--formats-dir", filepath.Join(dir, "formats"),
	}

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(append(base, args...))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeCubeJSON(t *testing.T, n int) string {
	t.Helper()
	cards := make([]cube.Card, n)
	for i := range cards {
		cards[i] = cube.Card{
			ID:       fmt.Sprintf("c%02d", i),
			Name:     fmt.Sprintf("Card %02d", i),
			TypeLine: "Creature — Elf",
			Rarity:   cube.RarityCommon,
		}
	}
	cards[0].Rarity = cube.RarityRare
	cards[1].Rarity = cube.RarityRare

	data, err := json.Marshal(&cube.Cube{Name: "Elves", Cards: cards})
	require.NoError(t, err)
	return writeFile(t, "elves.json", string(data))
}

const twoPackFormat = `title: Two Packs
packs:
  - slots: ["rarity:rare", "*", "*"]
  - slots: ["*", "*", "*"]
default_seats: 2
`

func TestLoadCube(t *testing.T) {
	t.Run("cube object", func(t *testing.T) {
		c, err := loadCube(writeCubeJSON(t, 5))
		require.NoError(t, err)
		assert.Equal(t, "Elves", c.Name)
		assert.Len(t, c.Cards, 5)
		assert.Equal(t, "c00", c.Cards[0].ID)
	})

	t.Run("card array", func(t *testing.T) {
		path := writeFile(t, "bare.json", `[{"name":"Llanowar Elves"},{"name":"Elvish Mystic"}]`)
		c, err := loadCube(path)
		require.NoError(t, err)
		assert.Equal(t, "bare", c.Name)
		require.Len(t, c.Cards, 2)
		assert.NotEmpty(t, c.Cards[0].ID)
		assert.NotEqual(t, c.Cards[0].ID, c.Cards[1].ID)
	})

	t.Run("plain list", func(t *testing.T) {
		path := writeFile(t, "list.txt", "# elves\n2 Llanowar Elves\nElvish Mystic\n")
		c, err := loadCube(path)
		require.NoError(t, err)
		require.Len(t, c.Cards, 3)
		assert.Equal(t, "Llanowar Elves", c.Cards[1].Name)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := loadCube(writeFile(t, "empty.txt", "# nothing\n"))
		assert.ErrorIs(t, err, draft.ErrEmptyPool)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := loadCube(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
}

func TestGenerate_Deterministic(t *testing.T) {
	cubePath := writeCubeJSON(t, 20)
	formatPath := writeFile(t, "two.yaml", twoPackFormat)

	args := []string{"generate", cubePath, "--format", formatPath, "--seed", "abc", "--owner", "me"}
	first, err := runCLI(t, args...)
	require.NoError(t, err)
	second, err := runCLI(t, args...)
	require.NoError(t, err)

	var a, b draft.Draft
	require.NoError(t, json.Unmarshal([]byte(first), &a))
	require.NoError(t, json.Unmarshal([]byte(second), &b))

	assert.Equal(t, "abc", a.Seed)
	assert.Equal(t, "Two Packs", a.FormatTitle)
	assert.Len(t, a.Seats, 2)
	assert.Equal(t, "me", a.Seats[0].Name)
	assert.Equal(t, a.InitialState, b.InitialState)
}

func TestGenerate_Unsatisfiable(t *testing.T) {
	cubePath := writeCubeJSON(t, 20)
	formatPath := writeFile(t, "mythic.yaml", "title: M\npacks:\n  - slots: [\"rarity:mythic\"]\n")

	_, err := runCLI(t, "generate", cubePath, "--format", formatPath, "--seats", "1")
	var genErr *draft.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Contains(t, genErr.Messages, "no cards matching filter: rarity:mythic")
}

func TestValidate(t *testing.T) {
	cubePath := writeCubeJSON(t, 20)

	out, err := runCLI(t, "validate", cubePath, "--format", writeFile(t, "two.yaml", twoPackFormat))
	require.NoError(t, err)
	var ok draft.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &ok))
	assert.True(t, ok.OK)
	assert.Empty(t, ok.Messages)

	bad := writeFile(t, "bad.yaml", "title: Bad\npacks:\n  - slots: [\"rarity:mythic,rarity:rare\"]\n")
	out, err = runCLI(t, "validate", cubePath, "--format", bad)
	require.Error(t, err)
	var failed draft.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &failed))
	assert.False(t, failed.OK)
	assert.Equal(t, []string{"pack 1 slot 1: no cards matching filter: rarity:mythic"}, failed.Messages)
}

func TestValidate_UnknownFormat(t *testing.T) {
	_, err := runCLI(t, "validate", writeCubeJSON(t, 5), "--format", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "nope"`)
	assert.Contains(t, err.Error(), "standard")
}

func TestAsfan(t *testing.T) {
	cubePath := writeCubeJSON(t, 10)
	formatPath := writeFile(t, "one.yaml", "title: One\npacks:\n  - slots: [\"*\"]\n")
	chartPath := filepath.Join(t.TempDir(), "asfan.html")

	out, err := runCLI(t, "asfan", cubePath, "--format", formatPath, "--chart", chartPath)
	require.NoError(t, err)

	var entries []draft.AsfanEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 10)
	for _, e := range entries {
		assert.InDelta(t, 0.1, e.Asfan, 1e-9)
	}

	html, err := os.ReadFile(chartPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "echarts")
}

func TestAsfan_ByName(t *testing.T) {
	path := writeFile(t, "list.txt", "3 Llanowar Elves\nElvish Mystic\n")
	formatPath := writeFile(t, "one.yaml", "title: One\npacks:\n  - slots: [\"*\"]\n")

	out, err := runCLI(t, "asfan", path, "--format", formatPath, "--by-name")
	require.NoError(t, err)

	var byName map[string]float64
	require.NoError(t, json.Unmarshal([]byte(out), &byName))
	assert.InDelta(t, 0.75, byName["Llanowar Elves"], 1e-9)
	assert.InDelta(t, 0.25, byName["Elvish Mystic"], 1e-9)
}

func TestSimulate(t *testing.T) {
	cubePath := writeCubeJSON(t, 20)
	formatPath := writeFile(t, "two.yaml", twoPackFormat)
	chartPath := filepath.Join(t.TempDir(), "sim.html")

	out, err := runCLI(t, "simulate", cubePath, "--format", formatPath, "--runs", "40", "--seed", "s", "--chart", chartPath)
	require.NoError(t, err)

	var result draft.SimulateResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 40, result.Runs)
	assert.Zero(t, result.Failures)

	var total float64
	for _, v := range result.Incidence {
		total += v
	}
	assert.InDelta(t, 6.0, total, 1e-9, "seat 0 opens two packs of three")
	rares := result.Incidence["c00"] + result.Incidence["c01"]
	assert.InDelta(t, 1.0, rares, 1e-9, "each seat's rare slot takes one of the two rares")

	_, err = os.Stat(chartPath)
	assert.NoError(t, err)
}

func TestSimulate_AllRunsFail(t *testing.T) {
	formatPath := writeFile(t, "mythic.yaml", "title: M\npacks:\n  - slots: [\"rarity:mythic\"]\n")

	_, err := runCLI(t, "simulate", writeCubeJSON(t, 5), "--format", formatPath, "--runs", "3", "--seats", "1")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "all 3 runs failed"), err.Error())
}
