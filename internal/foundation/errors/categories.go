package errors

// ErrorCategory identifies which stage of a publish run produced an error.
type ErrorCategory string

const (
	// Input and configuration errors
	CategoryVersion ErrorCategory = "version"
	CategoryConfig  ErrorCategory = "config"

	// Version-control backend errors
	CategoryGit       ErrorCategory = "git"
	CategoryWorkspace ErrorCategory = "workspace"

	// External generator errors
	CategoryGenerate ErrorCategory = "generate"

	// Publish-tree processing errors
	CategoryReconcile  ErrorCategory = "reconcile"
	CategoryCommit     ErrorCategory = "commit"
	CategoryFileSystem ErrorCategory = "filesystem"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// RetryStrategy describes whether an operation may be retried. Publish runs
// never retry internally; RetryUserAction marks failures the caller can fix
// (bad tag, missing config) before invoking the tool again.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryUserAction RetryStrategy = "user_action"
)

// ErrorContext carries structured key/value context for a ClassifiedError.
type ErrorContext map[string]any

// Set returns a copy of the context with key set to value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	out := make(ErrorContext, len(c)+1)
	for k, v := range c {
		out[k] = v
	}
	out[key] = value
	return out
}

// Merge returns a copy of the context with all entries of other applied.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	out := make(ErrorContext, len(c)+len(other))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
