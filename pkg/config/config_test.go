package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")

	content := []byte("env: test\nauth:\n  jwt_secret: from-file\nstorage:\n  driver: memory\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("PORT", ":5000")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "test", cfg.Env)
	require.Equal(t, "from-file", cfg.Auth.JWTSecret)
	require.Equal(t, "memory", cfg.Storage.Driver)
	require.Equal(t, ":5000", cfg.HTTP.Port)
	require.Equal(t, "local", cfg.Upload.Driver)
	require.True(t, cfg.HTTP.ProtectAdminRoutes)
}

func TestLoad_MissingSecret(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: test\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
