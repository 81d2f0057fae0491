package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestMapUserUniqueViolation_Username(t *testing.T) {
	pgErr := &pq.Error{
		Code:    "23505",
		Message: `duplicate key value violates unique constraint "uni_users_username"`,
	}

	err := mapUserUniqueViolation(pgErr)

	var dup DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateError, got %T: %v", err, err)
	}
	if dup.Error() != "username already in use" {
		t.Errorf("message = %q, want 'username already in use'", dup.Error())
	}
}

func TestMapUserUniqueViolation_Email(t *testing.T) {
	pgErr := &pq.Error{
		Code:    "23505",
		Message: `duplicate key value violates unique constraint "uni_users_email"`,
	}

	err := mapUserUniqueViolation(pgErr)

	var dup DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateError, got %T: %v", err, err)
	}
	if dup.Error() != "email already in use" {
		t.Errorf("message = %q, want 'email already in use'", dup.Error())
	}
}

func TestMapUserUniqueViolation_UnrecognizedConstraint(t *testing.T) {
	pgErr := &pq.Error{
		Code:    "23505",
		Message: `duplicate key value violates unique constraint "user_auths_pkey"`,
	}

	var dup DuplicateError
	if !errors.As(mapUserUniqueViolation(pgErr), &dup) {
		t.Fatal("any 23505 should map to DuplicateError")
	}
}

func TestMapUserUniqueViolation_WrappedError(t *testing.T) {
	pgErr := &pq.Error{
		Code:    "23505",
		Message: `duplicate key value violates unique constraint "uni_users_username"`,
	}
	wrapped := fmt.Errorf("create user: %w", pgErr)

	var dup DuplicateError
	if !errors.As(mapUserUniqueViolation(wrapped), &dup) {
		t.Fatal("wrapped pq unique violation should map to DuplicateError")
	}
}

func TestMapUserUniqueViolation_OtherErrorsPassThrough(t *testing.T) {
	notNull := &pq.Error{Code: "23502", Message: "null value in column"}
	if err := mapUserUniqueViolation(notNull); err != notNull {
		t.Errorf("non-unique pq error should pass through, got %v", err)
	}

	plain := errors.New("connection refused")
	if err := mapUserUniqueViolation(plain); err != plain {
		t.Errorf("non-pq error should pass through, got %v", err)
	}
}
