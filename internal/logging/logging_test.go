package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "console.log")
	l, closer, err := New(path, "debug")
	require.NoError(t, err)
	l.WithField("component", "test").Debug("hello")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(raw, &entry))
	require.Equal(t, "hello", entry["msg"])
	require.Equal(t, "test", entry["component"])
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, _, err := New("", "loud")
	require.Error(t, err)
}

func TestNewStderrWhenNoPath(t *testing.T) {
	l, closer, err := New("", "")
	require.NoError(t, err)
	require.Equal(t, os.Stderr, l.Out)
	require.NoError(t, closer.Close())
}
