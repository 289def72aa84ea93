package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpublish/internal/foundation/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docpublish.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
generator:
  command: [make, docs]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Repo)
	assert.Equal(t, "docs-site", cfg.Branch)
	assert.Equal(t, "origin", cfg.Remote)
	assert.Equal(t, "latest", cfg.LatestDir)
	assert.Equal(t, "Documentation", cfg.SiteTitle)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("DOCS_BRANCH", "gh-pages")
	path := writeConfig(t, `
branch: ${DOCS_BRANCH}
generator:
  command: [make, docs]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gh-pages", cfg.Branch)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestValidateRejectsEmptyGenerator(t *testing.T) {
	path := writeConfig(t, `
branch: docs-site
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestValidateRejectsVersionShapedLatestDir(t *testing.T) {
	path := writeConfig(t, `
latest_dir: v1.0.0
generator:
  command: [make, docs]
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestInitRefusesOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docpublish.yaml")

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"make", "docs"}, cfg.Generator.Command)
}
