package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestInvalidInputError_Message(t *testing.T) {
	err := &InvalidInputError{Field: "name", Message: "all candidates empty"}
	want := "invalid input for 'name': all candidates empty"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIsInvalidInput_Wrapped(t *testing.T) {
	err := WrapError(&InvalidInputError{Field: "name"}, "ingest failed")
	if !IsInvalidInput(err) {
		t.Error("IsInvalidInput should see through wrapping")
	}
	if IsSlugSpaceExhausted(err) {
		t.Error("IsSlugSpaceExhausted matched the wrong type")
	}
}

func TestIsSlugSpaceExhausted(t *testing.T) {
	err := fmt.Errorf("outer: %w", &SlugSpaceExhaustedError{Name: "python"})
	if !IsSlugSpaceExhausted(err) {
		t.Error("IsSlugSpaceExhausted should match wrapped error")
	}
}

func TestUntokenizableFieldError_ReportsType(t *testing.T) {
	err := &UntokenizableFieldError{Field: "tags", Value: 42}
	want := "field tags has untokenizable type int"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !IsUntokenizableField(err) {
		t.Error("IsUntokenizableField should match")
	}
}

func TestIsDuplicateKey(t *testing.T) {
	if !IsDuplicateKey(&DuplicateKeyError{Key: "syntastic"}) {
		t.Error("IsDuplicateKey should match")
	}
	if IsDuplicateKey(stderrors.New("plain")) {
		t.Error("IsDuplicateKey matched a plain error")
	}
}

func TestWrapError_NilPassthrough(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should be nil")
	}
}
