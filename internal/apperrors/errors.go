// Package apperrors holds the sentinel error values shared between the
// repository layer and the sync engine. They live in a leaf package so
// that internal/possync (which checks them) and internal/repository
// (which produces them and also implements possync interfaces) do not
// form an import cycle. internal/repository re-exports these values
// under their original names.
package apperrors

import "errors"

// ErrNotFound is returned when a lookup matches no row. Handlers
// should translate this into an HTTP 404 response; the sync engine
// treats it as "create the record".
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique
// constraint. The identity resolver treats this as a lost
// find-or-create race and retries the lookup instead of surfacing
// the error.
var ErrDuplicate = errors.New("duplicate key")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as deleting a venue
// that still has orders. Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")
