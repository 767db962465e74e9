package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupTestService opens a migrated database in a temp dir.
func setupTestService(t *testing.T) *Service {
	t.Helper()

	config := DefaultConfig(filepath.Join(t.TempDir(), "test.db"))
	config.AutoMigrate = true

	db, err := Open(config)
	require.NoError(t, err)

	service := NewService(db)
	t.Cleanup(func() { _ = service.Close() })
	return service
}
