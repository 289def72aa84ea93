package gitrepo

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/docpublish/internal/foundation/errors"
	"git.home.luguber.info/inful/docpublish/internal/logfields"
	"git.home.luguber.info/inful/docpublish/internal/version"
)

// CommitRecord is the result of the staging+commit step. Either a no-op
// (staged tree identical to the branch tip) or a new commit whose message
// encodes the version label. Produced once per run, never mutated.
type CommitRecord struct {
	NoOp    bool
	Hash    string
	Message string
}

// Tip returns the current branch tip hash, or "" on an unborn branch.
func (p *PublishWorktree) Tip() string {
	head, err := p.repo.Head()
	if err != nil {
		return ""
	}
	return head.Hash().String()
}

// CommitAll stages every change in the working copy (additions, deletions,
// modifications) and commits when the staged tree differs from the branch
// tip. An identical tree yields a no-op record, not an error.
func (p *PublishWorktree) CommitAll(label version.Label) (CommitRecord, error) {
	if err := p.wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return CommitRecord{}, errors.CommitError("failed to stage working copy").
			WithCause(err).
			WithContext("branch", p.Branch).
			Build()
	}

	status, err := p.wt.Status()
	if err != nil {
		return CommitRecord{}, errors.CommitError("failed to compute staged status").
			WithCause(err).
			WithContext("branch", p.Branch).
			Build()
	}
	if status.IsClean() {
		slog.Info("Nothing to commit, publish branch already up to date", logfields.Branch(p.Branch))
		return CommitRecord{NoOp: true}, nil
	}

	message := fmt.Sprintf("Add %s docs", label)
	hash, err := p.wt.Commit(message, &git.CommitOptions{Author: signature()})
	if err != nil {
		return CommitRecord{}, errors.CommitError("failed to commit publish tree").
			WithCause(err).
			WithContext("branch", p.Branch).
			Build()
	}

	slog.Info("Committed publish tree", logfields.Branch(p.Branch), logfields.Commit(hash.String()[:8]))
	return CommitRecord{Hash: hash.String(), Message: message}, nil
}

// Persist updates the source repository's branch ref with the working
// copy's commits before the working copy is discarded. The working copy's
// origin is the local repository itself, so nothing leaves the machine.
func (p *PublishWorktree) Persist() error {
	spec := gitcfg.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", p.Branch, p.Branch))
	err := p.repo.Push(&git.PushOptions{RemoteName: "origin", RefSpecs: []gitcfg.RefSpec{spec}})
	if err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		return errors.CommitError("failed to persist publish branch").
			WithCause(err).
			WithContext("branch", p.Branch).
			Build()
	}
	return nil
}

// TrackedRootEntries returns the distinct top-level entry names present in
// the branch tip tree. A fresh orphan tip has an empty tree, yielding nil.
func (p *PublishWorktree) TrackedRootEntries() ([]string, error) {
	tree, err := p.tipTree()
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, nil
	}
	names := make([]string, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		names = append(names, entry.Name)
	}
	return names, nil
}

// RemoveTrackedRootEntry removes every tracked file under the named
// top-level entry from the index and working tree, like `git rm -r`.
// Untracked stray files under the same entry are left alone; directories
// emptied by the removal are pruned.
func (p *PublishWorktree) RemoveTrackedRootEntry(name string) error {
	tree, err := p.tipTree()
	if err != nil {
		return err
	}
	if tree == nil {
		return nil
	}

	files := tree.Files()
	defer files.Close()
	prefix := name + "/"
	removed := 0
	for {
		f, err := files.Next()
		if err != nil {
			break
		}
		if f.Name != name && !strings.HasPrefix(f.Name, prefix) {
			continue
		}
		if _, err := p.wt.Remove(f.Name); err != nil {
			return errors.CommitError("failed to remove tracked entry").
				WithCause(err).
				WithContext("entry", f.Name).
				Build()
		}
		removed++
	}

	p.pruneEmptyDir(filepath.Join(p.dir, name))
	slog.Debug("Removed tracked root entry", logfields.Path(name), logfields.Count(removed))
	return nil
}

// tipTree returns the branch tip tree, or nil on an unborn branch.
func (p *PublishWorktree) tipTree() (*object.Tree, error) {
	head, err := p.repo.Head()
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, errors.CommitError("failed to read branch tip").WithCause(err).Build()
	}
	commit, err := p.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, errors.CommitError("failed to read tip commit").WithCause(err).Build()
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, errors.CommitError("failed to read tip tree").WithCause(err).Build()
	}
	return tree, nil
}

// pruneEmptyDir removes the directory chain under path if the removals left
// it empty. Non-empty directories (untracked strays) are kept.
func (p *PublishWorktree) pruneEmptyDir(path string) {
	entries, err := os.ReadDir(path)
	if err != nil || len(entries) > 0 {
		return
	}
	_ = os.Remove(path)
}
