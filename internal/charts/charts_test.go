package charts

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/cubedraft/internal/draft"
)

func sampleEntries() []draft.AsfanEntry {
	return []draft.AsfanEntry{
		{CardID: "a", Name: "Black Lotus", Asfan: 0.75},
		{CardID: "b", Name: "Mox Sapphire", Asfan: 0.5},
		{CardID: "c", Name: "Llanowar Elves", Asfan: 0.25},
	}
}

func TestWriteAsfanChart(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultChartConfig()
	config.TopN = 2

	require.NoError(t, WriteAsfanChart(sampleEntries(), config, &buf))

	html := buf.String()
	assert.Contains(t, html, "Black Lotus")
	assert.Contains(t, html, "Mox Sapphire")
	assert.NotContains(t, html, "Llanowar Elves", "TopN trims the tail")
}

func TestWriteAsfanChart_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteAsfanChart(nil, DefaultChartConfig(), &buf))
}

func TestRenderComparisonChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compare.html")
	incidence := map[string]float64{"a": 0.7, "b": 0.52, "c": 0.26}

	require.NoError(t, RenderComparisonChart(sampleEntries(), incidence, DefaultChartConfig(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)
	assert.True(t, strings.Contains(html, "Estimated") && strings.Contains(html, "Simulated"))
}

func TestRenderAsfanChart_BadPath(t *testing.T) {
	err := RenderAsfanChart(sampleEntries(), DefaultChartConfig(), filepath.Join(t.TempDir(), "missing", "x.html"))
	assert.Error(t, err)
}
