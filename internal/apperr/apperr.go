// Package apperr defines the error taxonomy shared by the service layer
// and the HTTP handlers. Services return (or wrap) one of these sentinels;
// handlers map them to status codes with errors.Is and never leak the
// underlying storage error to the client.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrStorage            = errors.New("storage failure")

	// Domain-specific rules surfaced with their own identity so handlers
	// can give a precise reason. Both unwrap to ErrForbidden / ErrConflict.
	ErrLeaderCannotLeave = fmt.Errorf("%w: leader cannot leave their own project", ErrForbidden)
	ErrProjectNotOpen    = fmt.Errorf("%w: project is not recruiting", ErrConflict)
)

// Validationf builds an ErrValidation with a field-level reason.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf tags a missing entity by name, e.g. NotFoundf("post").
func NotFoundf(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// Conflictf builds an ErrConflict with a reason.
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Storage wraps an underlying database error. Both ErrStorage and the
// cause stay reachable through errors.Is; neither is shown to clients.
func Storage(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
