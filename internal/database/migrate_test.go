package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safar/gymwear-api/internal/logger"
)

func TestRunMigrations_RejectsDirection(t *testing.T) {
	_, err := RunMigrations(context.Background(), nil, t.TempDir(), "sideways", logger.Discard())
	assert.ErrorContains(t, err, "direction must be")
}

func TestRunMigrations_MissingDirectory(t *testing.T) {
	_, err := RunMigrations(context.Background(), nil, filepath.Join(t.TempDir(), "nope"), MigrateUp, logger.Discard())
	assert.ErrorContains(t, err, "read migration directory")
}

func TestRunMigrations_IgnoresOtherDirection(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_init.down.sql"), []byte("DROP TABLE x;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("notes"), 0o644))

	n, err := RunMigrations(context.Background(), nil, dir, MigrateUp, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
