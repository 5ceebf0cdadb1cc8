package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_AppliesMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device", "exposure.db")

	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{
		"preferences",
		"diagnosis_key_sessions",
		"diagnosis_key_batch_parts",
		"diagnosis_key_scheduled_sessions",
		"sent_temporary_exposure_keys",
	} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, table)
	}

	version, dirty, err := Version(path)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)
}

func TestMigrate_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exposure.db")

	require.NoError(t, Migrate(path))
	require.NoError(t, Migrate(path))
}
