package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jarch.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"), nil)
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.APIBase)
	assert.Equal(t, "archives", cfg.FilesRoot)
	assert.Equal(t, "public", cfg.Schema)
	assert.Empty(t, cfg.DBURL)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeJSON(t, `{"port":"4000","apiBase":"http://gw:8080","schema":"shop","filesRoot":"/data"}`)
	t.Setenv("JARCH_PORT", "5000")
	t.Setenv("JARCH_DB_URL", "postgres://u:p@db/jarch")

	cfg, err := Load(path, []string{"-api", "http://other:9000/", "-schema", "crm"})
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port, "env over json")
	assert.Equal(t, "http://other:9000", cfg.APIBase, "flag over json, trailing slash trimmed")
	assert.Equal(t, "crm", cfg.Schema)
	assert.Equal(t, "/data", cfg.FilesRoot)
	assert.Equal(t, "postgres://u:p@db/jarch", cfg.DBURL)
}

func TestLoad_BlankEnvIgnored(t *testing.T) {
	t.Setenv("JARCH_FILES_ROOT", "  ")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"), nil)
	require.NoError(t, err)
	assert.Equal(t, "archives", cfg.FilesRoot)
}

func TestLoad_ConfigFlagRereads(t *testing.T) {
	other := writeJSON(t, `{"port":"7000"}`)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"), []string{"-config", other})
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
}

func TestLoad_BrokenJSON(t *testing.T) {
	_, err := Load(writeJSON(t, `{"port":`), nil)
	assert.Error(t, err)
}

func TestLoad_UnknownFlag(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), []string{"-nope"})
	assert.Error(t, err)
}
