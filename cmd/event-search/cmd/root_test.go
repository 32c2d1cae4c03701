package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "eventsearch.yaml")
	content := "database:\n  driver: sqlite\n  sqlite_path: " + filepath.Join(dir, "favorites.db") + "\n" +
		"apis:\n  ticketmaster:\n    api_key: secret-key\n" +
		"logging:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestFavoritesCommands(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "favorites", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No favorites yet.")

	out, err = run(t, "--config", cfg, "favorites", "add", "--event-id", "E1", "--name", "Show")
	require.NoError(t, err)
	assert.Contains(t, out, "Added E1 to favorites")

	out, err = run(t, "--config", cfg, "favorites", "add", "--event-id", "E1")
	require.NoError(t, err)
	assert.Contains(t, out, "Event E1 already in favorites")

	out, err = run(t, "--config", cfg, "favorites", "check", "E1")
	require.NoError(t, err)
	assert.Equal(t, "true", strings.TrimSpace(out))

	out, err = run(t, "--config", cfg, "favorites", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Show")
	assert.Contains(t, out, "Total: 1 favorites")

	out, err = run(t, "--config", cfg, "favorites", "remove", "E1")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed E1 from favorites")

	out, err = run(t, "--config", cfg, "favorites", "remove", "E1")
	require.NoError(t, err)
	assert.Contains(t, out, "was not in favorites")
}

func TestFavoritesAdd_MissingEventID(t *testing.T) {
	cfg := writeConfig(t)

	_, err := run(t, "--config", cfg, "favorites", "add", "--name", "Show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event ID is required")
}

func TestConfigCommand_Redacts(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "config")
	require.NoError(t, err)
	assert.NotContains(t, out, "secret-key")
	assert.Contains(t, out, "[REDACTED]")
	assert.Contains(t, out, "driver: sqlite")
}

func TestRootCmd_UnknownDriver(t *testing.T) {
	cfg := writeConfig(t)

	_, err := run(t, "--config", cfg, "--driver", "cassandra", "config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
