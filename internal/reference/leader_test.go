package reference

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jarch/internal/entityconfig"
)

func TestDefault_MatchesEntityConfigConstants(t *testing.T) {
	c := Default()

	assert.Equal(t, entityconfig.BasicTypes(), c.Codes(FieldType))
	assert.Equal(t, entityconfig.ContainerTypes(), c.Codes(ContainerType))
	assert.Equal(t, entityconfig.RelationTypes, c.Codes(RelationType))
	assert.Equal(t, entityconfig.FetchTypes, c.Codes(FetchType))
	assert.Equal(t, entityconfig.CascadeTypes, c.Codes(CascadeType))
	assert.Equal(t, []string{"none", "validate", "update", "create", "create-drop"}, c.Codes(DDLAuto))
}

func TestCatalog_Has(t *testing.T) {
	c := Default()

	found, ok := c.Has(BuildTool, "GRADLE")
	assert.True(t, found)
	assert.True(t, ok)

	found, ok = c.Has(BuildTool, "ANT")
	assert.False(t, found)
	assert.True(t, ok)

	_, ok = c.Has("Nope", "x")
	assert.False(t, ok)
}

func TestLoad_OverrideDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "BuildTool.yml"), []byte(`
items:
  - code: BAZEL
  - code: MAVEN
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("skip"), 0o644))

	c, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"BAZEL", "MAVEN"}, c.Codes(BuildTool))
	assert.Equal(t, "BuildTool", c[BuildTool].Name)
	// остальные остаются встроенными
	assert.Equal(t, []string{"LAZY", "EAGER"}, c.Codes(FetchType))
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Bad.yaml"), []byte("items: [:"), 0o644))
	_, err = LoadEnumCatalog(dir)
	assert.Error(t, err)
}

func TestLoad_EmptyDirMeansDefaults(t *testing.T) {
	c, err := Load("  ")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}
