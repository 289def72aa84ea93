// Package builder invokes the external documentation generator against a
// source working copy. The generator is an opaque collaborator: it either
// populates the output directory with a non-empty static site or fails.
// Nothing here is retried.
package builder

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"git.home.luguber.info/inful/docpublish/internal/config"
	"git.home.luguber.info/inful/docpublish/internal/foundation/errors"
	"git.home.luguber.info/inful/docpublish/internal/logfields"
	"git.home.luguber.info/inful/docpublish/internal/version"
)

// Environment variables exported to the generator and installer.
const (
	EnvOutputDir = "DOCPUB_OUTPUT_DIR"
	EnvVersion   = "DOCPUB_VERSION"
)

// Builder runs the configured installer and generator commands.
type Builder struct {
	cfg config.GeneratorConfig
}

// New creates a builder for the given generator configuration.
func New(cfg config.GeneratorConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Build generates documentation for label from sourceDir into outputDir.
// The output directory is created if absent (idempotent merge, never a
// replace), the optional installer runs once first, and a generator run
// that leaves the directory empty is a fatal postcondition violation.
func (b *Builder) Build(sourceDir, outputDir string, label version.Label) error {
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return errors.FileSystemError("failed to create version directory").
			WithCause(err).
			WithContext("output_dir", outputDir).
			Build()
	}

	if len(b.cfg.Installer) > 0 {
		slog.Info("Installing documentation dependencies", slog.String("command", b.cfg.Installer[0]))
		if err := b.run(b.cfg.Installer, sourceDir, outputDir, label); err != nil {
			return errors.GenerateError("dependency installation failed").
				WithCause(err).
				WithContext("command", b.cfg.Installer).
				Build()
		}
	}

	slog.Info("Running documentation generator",
		slog.String("command", b.cfg.Command[0]),
		logfields.Version(label.String()),
		logfields.Path(outputDir))
	if err := b.run(b.cfg.Command, sourceDir, outputDir, label); err != nil {
		return errors.GenerateError("generator failed").
			WithCause(err).
			WithContext("command", b.cfg.Command).
			WithContext("version", label.String()).
			Build()
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return errors.GenerateError("failed to inspect generator output").
			WithCause(err).
			WithContext("output_dir", outputDir).
			Build()
	}
	if len(entries) == 0 {
		return errors.GenerateError("generator produced no output").
			WithContext("output_dir", outputDir).
			WithContext("version", label.String()).
			Build()
	}

	slog.Info("Documentation generated", logfields.Version(label.String()), logfields.Count(len(entries)))
	return nil
}

// run executes argv in sourceDir with the output directory and version
// label exported in the environment. Output streams pass through, matching
// how an operator would see the generator run by hand.
func (b *Builder) run(argv []string, sourceDir, outputDir string, label version.Label) error {
	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return err
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = sourceDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("%s=%s", EnvOutputDir, absOut),
		fmt.Sprintf("%s=%s", EnvVersion, label.String()),
	)
	return cmd.Run()
}
