package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID   = "run_id"
	KeyStage   = "stage"
	KeyVersion = "version"
	KeyBranch  = "branch"
	KeyRemote  = "remote"
	KeyPath    = "path"
	KeyCommit  = "commit"
	KeyCount   = "count"
	KeyError   = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr     { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr   { return slog.String(KeyStage, name) }
func Version(v string) slog.Attr    { return slog.String(KeyVersion, v) }
func Branch(b string) slog.Attr     { return slog.String(KeyBranch, b) }
func Remote(r string) slog.Attr     { return slog.String(KeyRemote, r) }
func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func Commit(hash string) slog.Attr  { return slog.String(KeyCommit, hash) }
func Count(n int) slog.Attr         { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
