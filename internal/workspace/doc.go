// Package workspace manages the disposable working-copy directories a
// publish run checks refs out into. Each run acquires two independent
// copies (source revision, publish branch); both are released on every
// exit path, and Release is idempotent.
package workspace
