package gitrepo

import (
	"log/slog"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/docpublish/internal/foundation/errors"
	"git.home.luguber.info/inful/docpublish/internal/logfields"
)

// Prototype errors for errors.Is checks. Matching is by category and
// message, so wrapped instances with context still compare equal.
var (
	ErrRefNotFound            = errors.GitError("ref not found").UserAction().Build()
	ErrBranchResolutionFailed = errors.GitError("branch resolution failed").Build()
)

// Repository is an explicit handle on the git repository docpublish
// operates on. All components receive it as a parameter; nothing consults
// ambient process-wide repository state.
type Repository struct {
	path string
	repo *git.Repository
}

// Open opens the repository at path, searching upward for the .git
// directory the way the git CLI does.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.GitError("failed to open repository").
			WithCause(err).
			WithContext("path", path).
			UserAction().
			Build()
	}
	return &Repository{path: path, repo: repo}, nil
}

// Path returns the directory the handle was opened at.
func (r *Repository) Path() string { return r.path }

// ResolveRef resolves a revision (tag, branch, or hash prefix) to a commit
// hash, failing with ErrRefNotFound when it does not resolve.
func (r *Repository) ResolveRef(ref string) (string, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return "", errors.GitError("ref not found").
			WithCause(err).
			WithContext("ref", ref).
			UserAction().
			Build()
	}
	return hash.String(), nil
}

// HasLocalBranch reports whether the branch exists in the repository itself.
func (r *Repository) HasLocalBranch(branch string) bool {
	_, err := r.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	return err == nil
}

// HasRemoteBranch reports whether the branch exists as a remote-tracking
// reference for the given remote.
func (r *Repository) HasRemoteBranch(remote, branch string) bool {
	_, err := r.repo.Reference(plumbing.NewRemoteReferenceName(remote, branch), true)
	return err == nil
}

// BranchTip returns the commit hash of a local branch, or "" when the
// branch does not exist. Used by tests and the versions listing.
func (r *Repository) BranchTip(branch string) string {
	ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		return ""
	}
	return ref.Hash().String()
}

// CheckoutSource materializes the tree of ref into dest as a detached
// working copy. The ref is resolved against this repository before any
// filesystem work happens, so an unknown ref fails fast.
func (r *Repository) CheckoutSource(ref, dest string) error {
	if _, err := r.ResolveRef(ref); err != nil {
		return err
	}

	cloned, err := git.PlainClone(dest, false, &git.CloneOptions{
		URL:        r.path,
		NoCheckout: true,
		Tags:       git.AllTags,
	})
	if err != nil {
		return errors.GitError("failed to materialize source working copy").
			WithCause(err).
			WithContext("ref", ref).
			WithContext("dest", dest).
			Build()
	}

	hash, err := cloned.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return errors.GitError("ref not found").
			WithCause(err).
			WithContext("ref", ref).
			UserAction().
			Build()
	}

	wt, err := cloned.Worktree()
	if err != nil {
		return errors.GitError("failed to get source worktree").WithCause(err).Build()
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return errors.GitError("failed to check out source revision").
			WithCause(err).
			WithContext("ref", ref).
			Build()
	}

	slog.Debug("Source revision checked out", logfields.Commit(hash.String()[:8]), logfields.Path(dest))
	return nil
}
