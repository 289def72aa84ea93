// Package gitrepo is the version-control backend of docpublish, built on
// go-git. It provides an explicit repository handle (no ambient global
// state), materializes refs into disposable working copies, resolves the
// publish branch (local, remote-tracking, or fresh orphan), and performs
// the staged, idempotent commit that ends a publish run.
package gitrepo
