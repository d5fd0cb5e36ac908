package handler

import (
	"strings"
	"testing"
)

func TestValidator_MessagesUseJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&signupRequest{Email: "nope", Password: "123"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{
		"fullName is required",
		"email must be a valid email",
		"password must be at least 6 characters",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
}

func TestValidator_OneOf(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&epicRequest{Name: "x", Priority: "URGENT"})
	if err == nil || !strings.Contains(err.Error(), "priority must be one of: LOW, MEDIUM") {
		t.Fatalf("expected oneof error, got %v", err)
	}

	if err := v.Validate(&epicRequest{Name: "x"}); err != nil {
		t.Fatalf("empty priority must be accepted, got %v", err)
	}
}

func TestValidator_RejectsBlankNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&roleRequest{Name: "   "})
	if err == nil || !strings.Contains(err.Error(), "name must not be blank") {
		t.Fatalf("expected blank name error, got %v", err)
	}
}
