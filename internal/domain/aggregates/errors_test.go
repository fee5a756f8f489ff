package aggregates

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := NewError(CodeNotFound, "Contracts.Get", "contract missing", nil)
	if got := err.Error(); got != "Contracts.Get: contract missing (not_found)" {
		t.Fatalf("Error(): got=%q", got)
	}
	if got := NewError(CodeInternal, "", "", nil).Error(); got != "internal" {
		t.Fatalf("bare code: got=%q", got)
	}
}

func TestIsCodeThroughWrapping(t *testing.T) {
	base := InvalidState("Contracts.Activate", "missing signatures")
	wrapped := fmt.Errorf("outer: %w", base)
	if !IsCode(wrapped, CodeInvalidState) {
		t.Fatalf("expected invalid_state through wrap, got %q", CodeOf(wrapped))
	}
	if IsCode(errors.New("plain"), CodeInvalidState) {
		t.Fatalf("plain error must not carry a code")
	}
	if CodeOf(nil) != "" {
		t.Fatalf("nil error must have empty code")
	}
}

func TestValidationFailedKeepsEveryField(t *testing.T) {
	fields := []FieldError{
		{Field: "description", Message: "is required"},
		{Field: "base_amount", Message: "must be greater than 0"},
	}
	err := ValidationFailed("Contracts.Create", fields)
	if !IsCode(err, CodeValidation) {
		t.Fatalf("expected validation code, got %q", CodeOf(err))
	}
	got := FieldErrors(err)
	if len(got) != 2 {
		t.Fatalf("fields: want=2 got=%d", len(got))
	}
	fields[0].Message = "mutated"
	if FieldErrors(err)[0].Message != "is required" {
		t.Fatalf("fields must be copied")
	}
	if !strings.Contains(err.Error(), "base_amount: must be greater than 0") {
		t.Fatalf("message should list fields, got %q", err.Error())
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(CodeInternal, "op", nil) != nil {
		t.Fatalf("Wrap(nil) must be nil")
	}
}
