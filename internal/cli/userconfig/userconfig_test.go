package userconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	defer SetPathForTesting(filepath.Join(t.TempDir(), "config.yaml"))()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, &UserConfig{}, cfg)
}

func TestSetAPIBaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portald", "config.yaml")
	defer SetPathForTesting(path)()

	require.NoError(t, Save(&UserConfig{Store: "file"}))
	require.NoError(t, SetAPIBaseURL("https://auth.example.com"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://auth.example.com", cfg.APIBaseURL)
	assert.Equal(t, "file", cfg.Store, "unrelated fields are preserved")
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	defer SetPathForTesting(path)()

	require.NoError(t, os.WriteFile(path, []byte("api_base_url: [unterminated"), 0644))

	_, err := Load()
	assert.Error(t, err)
}
