package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(DataDir(), "cinedex.sqlite"), cfg.DBPath)
	assert.Equal(t, filepath.Join(DataDir(), "movie"), cfg.WatchedFolder)
	assert.Equal(t, ".gitkeep", cfg.Placeholder)
	assert.Equal(t, []string{"A", "B"}, cfg.Reviewers)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cinedex.yaml")
	data := `
db_path: /tmp/films.sqlite
watched_folder: /srv/films
placeholder: .keep
reviewers: [Li, Peng]
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/films.sqlite", cfg.DBPath)
	assert.Equal(t, "/srv/films", cfg.WatchedFolder)
	assert.Equal(t, ".keep", cfg.Placeholder)
	assert.Equal(t, "Li", cfg.ReviewerA())
	assert.Equal(t, "Peng", cfg.ReviewerB())
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CINEDEX_WATCHED_FOLDER", "/mnt/media")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "/mnt/media", cfg.WatchedFolder)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty db path", Config{WatchedFolder: "/m", Reviewers: []string{"a", "b"}}},
		{"empty folder", Config{DBPath: "/d", Reviewers: []string{"a", "b"}}},
		{"one reviewer", Config{DBPath: "/d", WatchedFolder: "/m", Reviewers: []string{"a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cfg.Validate(), ErrInvalidConfig)
		})
	}

	ok := Config{DBPath: "/d", WatchedFolder: "/m", Reviewers: []string{"a", "b"}}
	assert.NoError(t, ok.Validate())
}
