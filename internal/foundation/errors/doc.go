// Package errors provides the structured error type (ClassifiedError) used
// throughout docpublish. Errors carry a category identifying the failing
// stage, a severity, and a context map, so the CLI can report exactly which
// part of a publish run failed without string matching.
//
// Publish runs are fail-fast: nothing is auto-retried, so the retry strategy
// only distinguishes "never" from "needs user action".
package errors
