package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedErrorFormatting(t *testing.T) {
	err := GenerateError("generator produced no output").
		WithContext("output_dir", "/tmp/x").
		Build()

	msg := err.Error()
	if msg != "[generate:fatal] generator produced no output" {
		t.Errorf("unexpected message: %s", msg)
	}
	if err.Context()["output_dir"] != "/tmp/x" {
		t.Errorf("context not preserved: %v", err.Context())
	}
}

func TestClassifiedErrorWrapping(t *testing.T) {
	cause := fmt.Errorf("exit status 1")
	err := WrapError(cause, CategoryGenerate, "generator failed").Build()

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if err.Error() != "[generate:error] generator failed: exit status 1" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestCategoryDetection(t *testing.T) {
	err := VersionError("no semantic version found in tag").Build()

	if !HasCategory(err, CategoryVersion) {
		t.Error("expected CategoryVersion")
	}
	if HasCategory(err, CategoryGit) {
		t.Error("did not expect CategoryGit")
	}
	if GetCategory(fmt.Errorf("plain")) != CategoryInternal {
		t.Error("plain errors should default to CategoryInternal")
	}
	if !err.IsFatal() {
		t.Error("version errors are fatal")
	}
	if err.RetryStrategy() != RetryUserAction {
		t.Errorf("expected user_action retry, got %s", err.RetryStrategy())
	}
}

func TestWithContextDoesNotMutate(t *testing.T) {
	base := GitError("branch resolution failed").WithContext("branch", "docs-site").Build()
	derived := base.WithContext("remote", "origin")

	if _, ok := base.Context()["remote"]; ok {
		t.Error("WithContext mutated the original error")
	}
	if derived.Context()["branch"] != "docs-site" {
		t.Error("derived error lost original context")
	}
}
