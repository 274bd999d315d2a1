package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "catalog.json", cfg.Catalog.FilePath)
	assert.Equal(t, ":8090", cfg.Relay.Bind)
	assert.Equal(t, 1280, cfg.Viewer.Width)
}

func TestLoadParsesAndValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "echoes.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[catalog]
db_path = "media.db"

[viewer]
seed = 42.0
zoom = 0.5
session = "studio"

[logging]
format = "json"
level = "debug"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "media.db", cfg.Catalog.DBPath)
	assert.Equal(t, 42.0, cfg.Viewer.Seed)
	assert.Equal(t, "studio", cfg.Viewer.Session)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "echoes.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[viewer]
zoom = 3.0
`), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "zoom")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ECHOES_SEED", "7.5")
	t.Setenv("ECHOES_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7.5, cfg.Viewer.Seed)
	assert.Equal(t, "warn", cfg.Logging.Level)
}
