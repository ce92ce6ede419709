// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and the sync engine to distinguish between failure
// scenarios without inspecting driver-specific error strings more
// than once. The values themselves live in internal/apperrors so the
// sync engine can check them without importing this package.
package repository

import (
	"strings"

	"github.com/Joseamica/backend/internal/apperrors"
)

// ErrNotFound is returned when a lookup matches no row. Handlers
// should translate this into an HTTP 404 response; the sync engine
// treats it as "create the record".
var ErrNotFound = apperrors.ErrNotFound

// ErrDuplicate is returned when an insert violates a unique
// constraint. The identity resolver treats this as a lost
// find-or-create race and retries the lookup instead of surfacing
// the error.
var ErrDuplicate = apperrors.ErrDuplicate

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as deleting a venue
// that still has orders. Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = apperrors.ErrConflict

// isDuplicateKey reports whether err carries MySQL error 1062
// (ER_DUP_ENTRY). The composite unique constraints on externally-keyed
// tables are the sole correctness guarantee for concurrent sync events,
// so every insert path maps 1062 to ErrDuplicate.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "1062")
}
