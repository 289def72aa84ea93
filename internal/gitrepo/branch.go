package gitrepo

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/docpublish/internal/foundation/errors"
	"git.home.luguber.info/inful/docpublish/internal/logfields"
)

// PublishWorktree is the working copy bound to the publish branch for the
// duration of one run.
type PublishWorktree struct {
	Branch string

	dir  string
	repo *git.Repository
	wt   *git.Worktree
}

// Dir returns the working copy directory.
func (p *PublishWorktree) Dir() string { return p.dir }

// ResolvePublishBranch materializes the publish branch into dest, applying
// the branch-selection policy in strict priority order:
//
//  1. branch exists locally: check it out;
//  2. branch exists on the configured remote: create a local branch from it;
//  3. otherwise create a brand-new orphan branch seeded with an initial
//     placeholder commit, so the branch has at least one ancestor.
//
// Any underlying failure is fatal and surfaced; there is no fallback beyond
// these three cases.
func (r *Repository) ResolvePublishBranch(branch, remote, dest string) (*PublishWorktree, error) {
	cloned, err := git.PlainClone(dest, false, &git.CloneOptions{
		URL:        r.path,
		NoCheckout: true,
	})
	if err != nil {
		return nil, errors.GitError("branch resolution failed").
			WithCause(err).
			WithContext("branch", branch).
			WithContext("dest", dest).
			Build()
	}

	wt, err := cloned.Worktree()
	if err != nil {
		return nil, errors.GitError("branch resolution failed").WithCause(err).Build()
	}
	pw := &PublishWorktree{Branch: branch, dir: dest, repo: cloned, wt: wt}

	switch {
	case r.HasLocalBranch(branch):
		err = pw.checkoutFromClone(branch)
	case r.HasRemoteBranch(remote, branch):
		err = pw.checkoutFromRemoteTracking(remote, branch)
	default:
		err = pw.createOrphan(branch)
	}
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// checkoutFromClone creates the local branch from the clone's origin ref,
// which mirrors the source repository's local branch.
func (p *PublishWorktree) checkoutFromClone(branch string) error {
	ref, err := p.repo.Reference(plumbing.NewRemoteReferenceName("origin", branch), true)
	if err != nil {
		return errors.GitError("branch resolution failed").
			WithCause(err).
			WithContext("branch", branch).
			Build()
	}
	if err := p.wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Hash:   ref.Hash(),
		Create: true,
		Force:  true,
	}); err != nil {
		return errors.GitError("branch resolution failed").
			WithCause(err).
			WithContext("branch", branch).
			Build()
	}
	slog.Info("Publish branch checked out", logfields.Branch(branch), logfields.Commit(ref.Hash().String()[:8]))
	return nil
}

// checkoutFromRemoteTracking fetches the source repository's remote-tracking
// ref for the branch into a local branch of the working copy.
func (p *PublishWorktree) checkoutFromRemoteTracking(remote, branch string) error {
	spec := gitcfg.RefSpec(fmt.Sprintf("+refs/remotes/%s/%s:refs/heads/%s", remote, branch, branch))
	err := p.repo.Fetch(&git.FetchOptions{RemoteName: "origin", RefSpecs: []gitcfg.RefSpec{spec}})
	if err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		return errors.GitError("branch resolution failed").
			WithCause(err).
			WithContext("branch", branch).
			WithContext("remote", remote).
			Build()
	}
	if err := p.wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Force:  true,
	}); err != nil {
		return errors.GitError("branch resolution failed").
			WithCause(err).
			WithContext("branch", branch).
			Build()
	}
	slog.Info("Publish branch created from remote", logfields.Branch(branch), logfields.Remote(remote))
	return nil
}

// createOrphan points HEAD at the unborn branch and records an initial
// placeholder commit. The working copy was cloned with NoCheckout, so the
// worktree and index are empty and the first commit has an empty tree and
// no parents.
func (p *PublishWorktree) createOrphan(branch string) error {
	headRef := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branch))
	if err := p.repo.Storer.SetReference(headRef); err != nil {
		return errors.GitError("branch resolution failed").
			WithCause(err).
			WithContext("branch", branch).
			Build()
	}
	hash, err := p.wt.Commit(fmt.Sprintf("Initialize %s branch", branch), &git.CommitOptions{
		Author:            signature(),
		AllowEmptyCommits: true,
	})
	if err != nil {
		return errors.GitError("branch resolution failed").
			WithCause(err).
			WithContext("branch", branch).
			Build()
	}
	slog.Info("Created orphan publish branch", logfields.Branch(branch), logfields.Commit(hash.String()[:8]))
	return nil
}

// signature returns the committer identity for docpublish commits.
func signature() *object.Signature {
	return &object.Signature{
		Name:  "docpublish",
		Email: "docpublish@localhost",
		When:  time.Now(),
	}
}
