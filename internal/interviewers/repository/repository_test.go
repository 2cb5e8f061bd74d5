package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"recruiting_portal_backend/platform/apperr"
)

func TestDeleteConflict_ForeignKeyViolation(t *testing.T) {
	// An interview booked between the existence check and the delete hits
	// the FK constraint; that must surface as the same business rule as
	// the guard, not an internal error.
	err := deleteConflict(&pgconn.PgError{Code: "23503"})
	if !apperr.Is(err, apperr.KindBusinessRule) {
		t.Fatalf("foreign key violation mapped to %v, want business rule", err)
	}
}

func TestDeleteConflict_OtherErrorsWrapped(t *testing.T) {
	cause := errors.New("connection reset")
	err := deleteConflict(cause)
	if apperr.Is(err, apperr.KindBusinessRule) {
		t.Fatal("unrelated error must not map to business rule")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("wrapped error lost its cause: %v", err)
	}
}
