package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, "version")
	assert.Contains(t, out, "Version:")

	out = execute(t, "version", "--json")
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "goVersion")
}

func TestMigrateUpAndDown(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "tasks.db")
	conf := filepath.Join(dir, "config.yaml")
	content := "logger:\n  level: error\ndata:\n  database:\n    master:\n      driver: sqlite\n      source: \"file:" + dbPath + "\"\n"
	require.NoError(t, os.WriteFile(conf, []byte(content), 0o644))

	out := execute(t, "--conf", conf, "migrate", "up")
	assert.Contains(t, out, "migrate up: done")
	_, err := os.Stat(dbPath)
	require.NoError(t, err)

	out = execute(t, "-c", conf, "migrate", "down")
	assert.Contains(t, out, "migrate down: done")
}

func TestMigrateRejectsMissingConfig(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--conf", filepath.Join(t.TempDir(), "missing.yaml"), "migrate", "up"})
	assert.Error(t, cmd.Execute())
}
