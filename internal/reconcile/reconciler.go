// Package reconcile keeps the publish branch's root contents consistent
// with the set of published versions. It determines the latest version from
// the version directories actually present (a derived value, never
// persisted, so it self-heals after out-of-band edits), regenerates the
// latest redirect on every run, and reconciles root-level custom content
// only when the newly built version is the latest.
package reconcile

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docpublish/internal/config"
	"git.home.luguber.info/inful/docpublish/internal/foundation/errors"
	"git.home.luguber.info/inful/docpublish/internal/gitrepo"
	"git.home.luguber.info/inful/docpublish/internal/logfields"
	"git.home.luguber.info/inful/docpublish/internal/version"
)

// LandingPage is the root entry whose presence suppresses synthesis.
const LandingPage = "index.html"

// Reconciler operates on the publish working copy's top-level tree.
type Reconciler struct {
	latestDir       string
	siteConfigEntry string
	siteTitle       string
	customDocsDir   string
}

// New creates a reconciler from the publish configuration.
func New(cfg *config.Config) *Reconciler {
	return &Reconciler{
		latestDir:       cfg.LatestDir,
		siteConfigEntry: cfg.SiteConfigEntry,
		siteTitle:       cfg.SiteTitle,
		customDocsDir:   cfg.CustomDocsDir,
	}
}

// Scan returns the version labels present as top-level directories of the
// publish working copy. Only exact canonical label names count as version
// directories; the latest pointer and custom entries are excluded.
func (r *Reconciler) Scan(publishDir string) ([]version.Label, error) {
	entries, err := os.ReadDir(publishDir)
	if err != nil {
		return nil, errors.ReconcileError("failed to list publish tree").
			WithCause(err).
			WithContext("path", publishDir).
			Build()
	}

	var labels []version.Label
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == r.latestDir {
			continue
		}
		if !version.IsCanonical(entry.Name()) {
			continue
		}
		label, err := version.Parse(entry.Name())
		if err != nil {
			continue
		}
		labels = append(labels, label)
	}
	return labels, nil
}

// Reconcile runs the full pass after a version has been built: latest
// determination, unconditional pointer regeneration, and gated root
// reconciliation. It returns the latest version it determined.
func (r *Reconciler) Reconcile(pw *gitrepo.PublishWorktree, sourceDir string, built version.Label) (version.Label, error) {
	labels, err := r.Scan(pw.Dir())
	if err != nil {
		return version.Label{}, err
	}

	latest, ok := version.Latest(labels)
	if !ok {
		// The built version's directory was just created, so an empty set
		// means the publish tree is broken.
		return version.Label{}, errors.ReconcileError("no version directories present after build").
			WithContext("path", pw.Dir()).
			Build()
	}

	// The pointer always tracks the true maximum, independent of publish
	// order: publishing an old patch never moves it backwards.
	if err := r.writeLatestRedirect(pw.Dir(), latest); err != nil {
		return version.Label{}, err
	}

	if !built.Equal(latest) {
		slog.Info("Built version is not the latest, root left untouched",
			logfields.Version(built.String()),
			slog.String("latest", latest.String()))
		return latest, nil
	}

	if err := r.reconcileRoot(pw, sourceDir, labels); err != nil {
		return version.Label{}, err
	}
	return latest, nil
}

// writeLatestRedirect regenerates the latest-pointer artifact.
func (r *Reconciler) writeLatestRedirect(publishDir string, latest version.Label) error {
	dir := filepath.Join(publishDir, r.latestDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.ReconcileError("failed to create latest pointer directory").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	page := redirectPage(latest)
	if err := os.WriteFile(filepath.Join(dir, LandingPage), []byte(page), 0o640); err != nil {
		return errors.ReconcileError("failed to write latest redirect").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	slog.Info("Latest pointer regenerated", slog.String("latest", latest.String()))
	return nil
}

// reconcileRoot replaces root-level custom content with the source tree's
// custom docs, synthesizing a landing page when none is provided.
func (r *Reconciler) reconcileRoot(pw *gitrepo.PublishWorktree, sourceDir string, labels []version.Label) error {
	tracked, err := pw.TrackedRootEntries()
	if err != nil {
		return err
	}
	for _, name := range tracked {
		if version.IsCanonical(name) || name == r.latestDir || name == r.siteConfigEntry {
			continue
		}
		if err := pw.RemoveTrackedRootEntry(name); err != nil {
			return err
		}
	}

	if r.customDocsDir != "" {
		custom := filepath.Join(sourceDir, filepath.FromSlash(r.customDocsDir))
		if info, err := os.Stat(custom); err == nil && info.IsDir() {
			if err := copyTree(custom, pw.Dir()); err != nil {
				return err
			}
			slog.Info("Custom root content copied", logfields.Path(r.customDocsDir))
		}
	}

	landing := filepath.Join(pw.Dir(), LandingPage)
	if _, err := os.Stat(landing); err == nil {
		// A user-provided landing page is never overwritten.
		return nil
	}

	version.SortDescending(labels)
	page, err := landingPage(r.siteTitle, labels)
	if err != nil {
		return err
	}
	if err := os.WriteFile(landing, []byte(page), 0o640); err != nil {
		return errors.ReconcileError("failed to write landing page").
			WithCause(err).
			WithContext("path", landing).
			Build()
	}
	slog.Info("Landing page synthesized", logfields.Count(len(labels)))
	return nil
}
