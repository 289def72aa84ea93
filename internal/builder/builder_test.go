package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpublish/internal/config"
	"git.home.luguber.info/inful/docpublish/internal/foundation/errors"
	"git.home.luguber.info/inful/docpublish/internal/version"
)

func label(t *testing.T, raw string) version.Label {
	t.Helper()
	l, err := version.Parse(raw)
	require.NoError(t, err)
	return l
}

func TestBuildWritesIntoVersionDirectory(t *testing.T) {
	sourceDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "v1.0.0")

	b := New(config.GeneratorConfig{
		Command: []string{"sh", "-c", `echo "<html>$DOCPUB_VERSION</html>" > "$DOCPUB_OUTPUT_DIR/index.html"`},
	})
	require.NoError(t, b.Build(sourceDir, outputDir, label(t, "v1.0.0")))

	content, err := os.ReadFile(filepath.Join(outputDir, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html>v1.0.0</html>\n", string(content))
}

func TestBuildIsIdempotentOnExistingDirectory(t *testing.T) {
	sourceDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "v1.0.0")
	require.NoError(t, os.MkdirAll(outputDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "stale.html"), []byte("old\n"), 0o600))

	b := New(config.GeneratorConfig{
		Command: []string{"sh", "-c", `echo new > "$DOCPUB_OUTPUT_DIR/index.html"`},
	})
	require.NoError(t, b.Build(sourceDir, outputDir, label(t, "v1.0.0")))

	// Existing directory is merged into, not replaced.
	assert.FileExists(t, filepath.Join(outputDir, "stale.html"))
	assert.FileExists(t, filepath.Join(outputDir, "index.html"))
}

func TestBuildRunsInstallerFirst(t *testing.T) {
	sourceDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "v1.0.0")

	b := New(config.GeneratorConfig{
		Installer: []string{"sh", "-c", `touch installed.marker`},
		Command:   []string{"sh", "-c", `test -f installed.marker && echo ok > "$DOCPUB_OUTPUT_DIR/index.html"`},
	})
	require.NoError(t, b.Build(sourceDir, outputDir, label(t, "v1.0.0")))
	assert.FileExists(t, filepath.Join(sourceDir, "installed.marker"))
}

func TestBuildEmptyOutputIsFatal(t *testing.T) {
	b := New(config.GeneratorConfig{
		Command: []string{"true"},
	})
	err := b.Build(t.TempDir(), filepath.Join(t.TempDir(), "v1.0.0"), label(t, "v1.0.0"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryGenerate))
}

func TestBuildGeneratorFailurePropagates(t *testing.T) {
	b := New(config.GeneratorConfig{
		Command: []string{"sh", "-c", "exit 3"},
	})
	err := b.Build(t.TempDir(), filepath.Join(t.TempDir(), "v1.0.0"), label(t, "v1.0.0"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryGenerate))
}

func TestBuildInstallerFailureAborts(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "v1.0.0")
	b := New(config.GeneratorConfig{
		Installer: []string{"false"},
		Command:   []string{"sh", "-c", `echo ok > "$DOCPUB_OUTPUT_DIR/index.html"`},
	})
	err := b.Build(t.TempDir(), outputDir, label(t, "v1.0.0"))
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(outputDir, "index.html"), "generator must not run after installer failure")
}
