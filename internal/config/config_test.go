package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Validate())

	timeout, err := config.GetRequestTimeout()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, timeout)

	busy, err := config.GetBusyTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, busy)
}

func TestLoadFrom_Missing(t *testing.T) {
	config, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	if diff := cmp.Diff(DefaultConfig(), config); diff != "" {
		t.Errorf("missing file should yield defaults (-want +got):\n%s", diff)
	}
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 9090

[draft]
max_seats = 10
`), 0o644))

	config, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, 10, config.Draft.MaxSeats)
	assert.Equal(t, 8, config.Draft.DefaultSeats)
	assert.Equal(t, "WAL", config.Database.JournalMode)
}

func TestLoadFrom_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport = "), 0o644))

	_, err := LoadFrom(path)
	assert.ErrorContains(t, err, "parse config file")
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	config := DefaultConfig()
	config.Events.NATSURL = "nats://localhost:4222"
	config.Formats.Watch = false
	require.NoError(t, config.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	if diff := cmp.Diff(config, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CUBEDRAFT_PORT", "7000")
	t.Setenv("CUBEDRAFT_DB_PATH", "/tmp/x.db")
	t.Setenv("CUBEDRAFT_NATS_URL", "nats://broker:4222")
	t.Setenv("CUBEDRAFT_LOG_LEVEL", "debug")
	t.Setenv("CUBEDRAFT_FORMATS_DIR", "/srv/formats")

	config := DefaultConfig()
	require.NoError(t, config.ApplyEnv())
	assert.Equal(t, 7000, config.Server.Port)
	assert.Equal(t, "/tmp/x.db", config.Database.Path)
	assert.Equal(t, "nats://broker:4222", config.Events.NATSURL)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "/srv/formats", config.Formats.Dir)

	t.Setenv("CUBEDRAFT_PORT", "eighty")
	assert.Error(t, DefaultConfig().ApplyEnv())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 0 }},
		{"timeout", func(c *Config) { c.Server.RequestTimeout = "soon" }},
		{"db path", func(c *Config) { c.Database.Path = "" }},
		{"journal", func(c *Config) { c.Database.JournalMode = "fast" }},
		{"seats", func(c *Config) { c.Draft.DefaultSeats = 0 }},
		{"seats over max", func(c *Config) { c.Draft.DefaultSeats = 20 }},
		{"pack size", func(c *Config) { c.Draft.DefaultPackSize = 0 }},
		{"workers", func(c *Config) { c.Draft.SimulationWorkers = 0 }},
		{"rps", func(c *Config) { c.Scryfall.RequestsPerSecond = -1 }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			assert.Error(t, config.Validate())
		})
	}
}
