package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	e := NotFound("template not found", nil)
	if got := e.Error(); got != "NOT_FOUND: template not found" {
		t.Fatalf("Error() = %q", got)
	}

	wrapped := Internal("insert failed", fmt.Errorf("connection reset"))
	if got := wrapped.Error(); !strings.Contains(got, "connection reset") {
		t.Fatalf("wrapped cause missing from %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	e := Unavailable("clickhouse down", cause)

	if !errors.Is(e, cause) {
		t.Fatal("errors.Is should see through DomainError")
	}
}

func TestStackCaptured(t *testing.T) {
	e := Internal("boom", fmt.Errorf("cause"))
	if len(e.StackTrace()) == 0 {
		t.Fatal("expected a captured stack")
	}

	e = Validation("invalid input", map[string]string{"job_title": "too short"})
	if len(e.StackTrace()) == 0 {
		t.Fatal("expected a stack even without a cause")
	}
}

func TestValidationFields(t *testing.T) {
	e := Validation("invalid input", map[string]string{"wage_amount": "must be >= 0"})
	if e.Fields["wage_amount"] != "must be >= 0" {
		t.Fatalf("fields not carried: %v", e.Fields)
	}
}

func TestTypeOf(t *testing.T) {
	if TypeOf(NotFound("x", nil)) != ErrTypeNotFound {
		t.Fatal("TypeOf lost the type")
	}
	if TypeOf(fmt.Errorf("plain")) != ErrTypeInternal {
		t.Fatal("non-domain errors should map to INTERNAL")
	}
	if !IsType(PartialWrite("x", nil), ErrTypePartialWrite) {
		t.Fatal("IsType mismatch")
	}
}
