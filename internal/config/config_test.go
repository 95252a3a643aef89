package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("ADMINCONSOLE_CONFIG", filepath.Join(dir, "missing.toml"))

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "local", c.Backend.Mode)
	require.Equal(t, 10*time.Second, c.Backend.Timeout)
	require.Equal(t, 100, c.UI.NarrowWidth)
	require.Equal(t, "en", c.UI.Locale)
	require.Equal(t, []string{"*"}, c.Auth.Permissions)
	require.Equal(t, filepath.Join(dir, ".local", "share", "adminconsole", "adminconsole.db"), c.Database.Path)
}

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("ADMINCONSOLE_CONFIG", filepath.Join(dir, "conf", "config.toml"))

	c, err := Load()
	require.NoError(t, err)
	c.UI.Locale = "zh"
	c.UI.SidebarCollapsed = true
	c.Auth.Permissions = []string{"/content/article/create"}
	c.Backend.Timeout = 3 * time.Second
	require.NoError(t, Save(c))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, "zh", got.UI.Locale)
	require.True(t, got.UI.SidebarCollapsed)
	require.Equal(t, []string{"/content/article/create"}, got.Auth.Permissions)
	require.Equal(t, 3*time.Second, got.Backend.Timeout)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\nlocale = \"zh\"\n"), 0o600))
	t.Setenv("HOME", dir)
	t.Setenv("ADMINCONSOLE_CONFIG", path)
	t.Setenv("ADMINCONSOLE_UI_LOCALE", "en")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "en", c.UI.Locale)
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("ADMINCONSOLE_CONFIG", filepath.Join(dir, "none.toml"))
	t.Setenv("ADMINCONSOLE_BACKEND_MODE", "carrier-pigeon")

	_, err := Load()
	require.ErrorContains(t, err, "backend.mode")
}

func TestMalformedFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui\nlocale = "), 0o600))
	t.Setenv("HOME", dir)
	t.Setenv("ADMINCONSOLE_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
}
