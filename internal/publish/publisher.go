// Package publish wires the stages of one versioned-publish run: parse the
// tag, materialize the source revision and publish branch into disposable
// working copies, generate documentation, reconcile the publish tree, and
// commit. A run is a single logical thread of control; callers serialize
// invocations targeting the same branch.
package publish

import (
	"log/slog"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docpublish/internal/builder"
	"git.home.luguber.info/inful/docpublish/internal/config"
	"git.home.luguber.info/inful/docpublish/internal/gitrepo"
	"git.home.luguber.info/inful/docpublish/internal/logfields"
	"git.home.luguber.info/inful/docpublish/internal/reconcile"
	"git.home.luguber.info/inful/docpublish/internal/version"
	"git.home.luguber.info/inful/docpublish/internal/workspace"
)

// Stage names, used in every progress and error log line so a failed run's
// last line identifies the failing stage.
const (
	StageParse     = "parse"
	StageCheckout  = "checkout"
	StageResolve   = "resolve-branch"
	StageGenerate  = "generate"
	StageReconcile = "reconcile"
	StageCommit    = "commit"
)

// Publisher runs versioned documentation publishes against one repository.
type Publisher struct {
	cfg        *config.Config
	workspaces *workspace.Manager
}

// New creates a publisher. workspaceBase may be empty to use the system
// temp directory.
func New(cfg *config.Config, workspaceBase string) *Publisher {
	return &Publisher{
		cfg:        cfg,
		workspaces: workspace.NewManager(workspaceBase),
	}
}

// Result describes a completed publish run.
type Result struct {
	Version version.Label
	Latest  version.Label
	Commit  gitrepo.CommitRecord
}

// Run publishes the documentation for tag. Both working copies are
// released on every exit path, success or failure.
func (p *Publisher) Run(tag string) (Result, error) {
	runID := uuid.NewString()
	log := slog.With(logfields.RunID(runID))

	log.Info("Publish run starting", slog.String("tag", tag), logfields.Branch(p.cfg.Branch))

	log.Info("Parsing version tag", logfields.Stage(StageParse))
	label, err := version.Parse(tag)
	if err != nil {
		log.Error("Tag does not contain a semantic version", logfields.Stage(StageParse), logfields.Error(err))
		return Result{}, err
	}
	log.Info("Version identified", logfields.Stage(StageParse), logfields.Version(label.String()))

	repo, err := gitrepo.Open(p.cfg.Repo)
	if err != nil {
		log.Error("Repository not found", logfields.Stage(StageCheckout), logfields.Error(err))
		return Result{}, err
	}

	sourceWC, err := p.workspaces.Acquire("source")
	if err != nil {
		return Result{}, err
	}
	defer releaseQuietly(log, sourceWC)

	branchWC, err := p.workspaces.Acquire("branch")
	if err != nil {
		return Result{}, err
	}
	defer releaseQuietly(log, branchWC)

	log.Info("Checking out source revision", logfields.Stage(StageCheckout), slog.String("tag", tag))
	if err := repo.CheckoutSource(tag, sourceWC.Path()); err != nil {
		log.Error("Source checkout failed", logfields.Stage(StageCheckout), logfields.Error(err))
		return Result{}, err
	}

	log.Info("Resolving publish branch", logfields.Stage(StageResolve), logfields.Branch(p.cfg.Branch))
	pw, err := repo.ResolvePublishBranch(p.cfg.Branch, p.cfg.Remote, branchWC.Path())
	if err != nil {
		log.Error("Branch resolution failed", logfields.Stage(StageResolve), logfields.Error(err))
		return Result{}, err
	}

	log.Info("Generating documentation", logfields.Stage(StageGenerate), logfields.Version(label.String()))
	b := builder.New(p.cfg.Generator)
	if err := b.Build(sourceWC.Path(), branchWC.Join(label.String()), label); err != nil {
		log.Error("Generation failed", logfields.Stage(StageGenerate), logfields.Error(err))
		return Result{}, err
	}

	log.Info("Reconciling publish tree", logfields.Stage(StageReconcile))
	latest, err := reconcile.New(p.cfg).Reconcile(pw, sourceWC.Path(), label)
	if err != nil {
		log.Error("Reconciliation failed", logfields.Stage(StageReconcile), logfields.Error(err))
		return Result{}, err
	}

	log.Info("Committing publish tree", logfields.Stage(StageCommit))
	record, err := pw.CommitAll(label)
	if err != nil {
		log.Error("Commit failed", logfields.Stage(StageCommit), logfields.Error(err))
		return Result{}, err
	}
	if err := pw.Persist(); err != nil {
		log.Error("Failed to persist publish branch", logfields.Stage(StageCommit), logfields.Error(err))
		return Result{}, err
	}

	if record.NoOp {
		log.Info("Publish run complete, nothing to commit", logfields.Version(label.String()))
	} else {
		log.Info("Publish run complete",
			logfields.Version(label.String()),
			slog.String("latest", latest.String()),
			logfields.Commit(record.Hash[:8]))
	}
	return Result{Version: label, Latest: latest, Commit: record}, nil
}

// Versions lists the published labels on the publish branch, newest first,
// together with the current latest. Read-only: the working copy is
// released before returning.
func (p *Publisher) Versions() ([]version.Label, version.Label, error) {
	repo, err := gitrepo.Open(p.cfg.Repo)
	if err != nil {
		return nil, version.Label{}, err
	}

	branchWC, err := p.workspaces.Acquire("branch")
	if err != nil {
		return nil, version.Label{}, err
	}
	defer releaseQuietly(slog.Default(), branchWC)

	pw, err := repo.ResolvePublishBranch(p.cfg.Branch, p.cfg.Remote, branchWC.Path())
	if err != nil {
		return nil, version.Label{}, err
	}

	labels, err := reconcile.New(p.cfg).Scan(pw.Dir())
	if err != nil {
		return nil, version.Label{}, err
	}
	latest, _ := version.Latest(labels)
	version.SortDescending(labels)
	return labels, latest, nil
}

func releaseQuietly(log *slog.Logger, wc *workspace.WorkingCopy) {
	if err := wc.Release(); err != nil {
		log.Warn("Failed to release working copy", logfields.Error(err))
	}
}
