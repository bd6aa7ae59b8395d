package apierr

import (
	"errors"
	"net/http"
	"testing"
)

func TestError_MessageIncludesCodeAndCause(t *testing.T) {
	cause := errors.New("field 'file' missing")
	e := BadRequest(CodeMissingFile, cause)

	if e.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", e.Status)
	}
	if e.Error() != "missing_file: field 'file' missing" {
		t.Fatalf("unexpected message %q", e.Error())
	}
	if !errors.Is(e, cause) {
		t.Fatalf("cause must be reachable through Unwrap")
	}
}

func TestError_CodeOnlyAndStatusOnly(t *testing.T) {
	if got := (&Error{Code: CodeInvalidBody}).Error(); got != "invalid_body" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := (&Error{Status: 500}).Error(); got != "api error (500)" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestUnavailable(t *testing.T) {
	e := Unavailable(CodeAINotConfigured, errors.New("no key"))
	if e.Status != http.StatusServiceUnavailable || e.Code != CodeAINotConfigured {
		t.Fatalf("unexpected error %+v", e)
	}
}
