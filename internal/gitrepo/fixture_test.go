package gitrepo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// initFixtureRepo creates a repository with one commit on master.
func initFixtureRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commitFile(t, repo, dir, "README.md", "fixture\n", "Initial commit")
	return dir, repo
}

func commitFile(t *testing.T, repo *git.Repository, dir, name, content, message string) plumbing.Hash {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	hash, err := wt.Commit(message, &git.CommitOptions{Author: testSignature()})
	require.NoError(t, err)
	return hash
}

func createBranch(t *testing.T, repo *git.Repository, branch string) {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: true,
	}))
}

func checkoutBranch(t *testing.T, repo *git.Repository, branch string) {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Force:  true,
	}))
}

// moveBranchToRemoteTracking rewrites a local branch into a remote-tracking
// ref, simulating a branch that only exists on the configured remote.
func moveBranchToRemoteTracking(t *testing.T, repo *git.Repository, remote, branch string) {
	t.Helper()
	local := plumbing.NewBranchReferenceName(branch)
	ref, err := repo.Reference(local, true)
	require.NoError(t, err)

	tracking := plumbing.NewRemoteReferenceName(remote, branch)
	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(tracking, ref.Hash())))
	require.NoError(t, repo.Storer.RemoveReference(local))
}

func testSignature() *object.Signature {
	return &object.Signature{Name: "fixture", Email: "fixture@localhost", When: time.Now()}
}
