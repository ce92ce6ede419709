// Package possync implements the POS synchronization subsystem: identity
// resolution of externally-keyed staff/tables/shifts, idempotent order
// reconciliation, the per-venue connection heartbeat state machine and
// the outbound command outbox.
//
// All components talk to persistence through the narrow interfaces in
// this file rather than through a shared database client, so they can be
// exercised against in-memory doubles.  The SQL implementations live in
// internal/repository.
package possync

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Joseamica/backend/internal/model"
)

// ErrVenueNotFound is returned by the reconciler when the event
// references a venue this system does not know.  No side effects have
// occurred when it is returned.
var ErrVenueNotFound = errors.New("venue not found")

// ErrMissingExternalID is returned when an order event carries no
// external ID; without it there is no idempotency key to upsert on.
var ErrMissingExternalID = errors.New("order event missing external id")

// StaffFragment is the POS-side slice of a staff record attached to an
// order event.  POSStaffID is the matching key within the venue.
type StaffFragment struct {
	POSStaffID string
	Name       string
	PIN        string
}

// TableFragment is the POS-side slice of a table record.
type TableFragment struct {
	ExternalID string
	Number     uint32
	Capacity   uint32
}

// ShiftFragment is the POS-side slice of a shift record.
type ShiftFragment struct {
	ExternalID string
	StartTime  time.Time
	EndTime    *time.Time
}

// OrderData carries the order fields of an inbound POS event.  Money
// fields that the payload omits are zero, never null.  CreatedAt is the
// POS-side creation timestamp and is preserved on the canonical row.
type OrderData struct {
	ExternalID     string
	OrderNumber    string
	Status         string
	PaymentStatus  string
	Subtotal       float64
	TaxAmount      float64
	DiscountAmount float64
	TipAmount      float64
	Total          float64
	CompletedAt    *time.Time
	CreatedAt      time.Time
	RawData        json.RawMessage
}

// OrderEvent is one inbound POS order event.  Staff, Table and Shift are
// each independently optional: an order may have no assigned staff,
// table or shift, and the resolver must propagate the absence instead of
// creating placeholder rows.
type OrderEvent struct {
	VenueID uint64
	Order   OrderData
	Staff   *StaffFragment
	Table   *TableFragment
	Shift   *ShiftFragment
}

// OrderUpsert is the resolved, write-ready form of an order event.
// Foreign keys are zero when the event carried no matching fragment.
type OrderUpsert struct {
	VenueID    uint64
	Data       OrderData
	ServedByID uint64
	TableID    uint64
	ShiftID    uint64
}

// Store is the persistence boundary of the identity resolver and the
// order reconciler.  Find methods return repository.ErrNotFound on a
// miss; Create methods return repository.ErrDuplicate when an insert
// loses a unique-constraint race.
//
// InTx runs fn against a transaction-scoped Store and commits when fn
// returns nil, rolling back otherwise.  Identity resolution and the
// order upsert for one event run inside a single InTx scope so a
// failing upsert also rolls back any staff/table/shift rows the
// resolver created for that event.
type Store interface {
	GetVenue(ctx context.Context, venueID uint64) (*model.Venue, error)

	FindStaffByPOSID(ctx context.Context, venueID uint64, posStaffID string) (uint64, error)
	CreateStaff(ctx context.Context, f StaffFragment, venueID, organizationID uint64) (uint64, error)

	FindTableByExternalID(ctx context.Context, venueID uint64, externalID string) (uint64, error)
	CreateTable(ctx context.Context, f TableFragment, venueID uint64) (uint64, error)

	FindShiftByExternalID(ctx context.Context, venueID uint64, externalID string) (uint64, error)
	CreateShift(ctx context.Context, f ShiftFragment, venueID, staffID uint64) (uint64, error)

	UpsertOrder(ctx context.Context, u OrderUpsert) (*model.Order, error)
	MarkOrderSyncFailed(ctx context.Context, venueID uint64, externalID string) error

	InTx(ctx context.Context, fn func(Store) error) error
}

// ConnectionStore is the persistence boundary of the heartbeat monitor.
// GetByVenue returns repository.ErrNotFound when the venue has no
// connection row yet.
type ConnectionStore interface {
	GetByVenue(ctx context.Context, venueID uint64) (*model.PosConnectionStatus, error)
	Create(ctx context.Context, cs *model.PosConnectionStatus) error
	Update(ctx context.Context, cs *model.PosConnectionStatus) error
	ListByStatus(ctx context.Context, status model.ConnectionStatus) ([]model.PosConnectionStatus, error)
}

// CommandStore is the persistence boundary of the command outbox.
type CommandStore interface {
	Insert(ctx context.Context, cmd *model.PosCommand) error
	GetByID(ctx context.Context, id string) (*model.PosCommand, error)
	ListPending(ctx context.Context, limit int) ([]model.PosCommand, error)
	// StartAttempt atomically moves a PENDING command to PROCESSING and
	// increments its attempt counter.  It returns repository.ErrNotFound
	// when the command is absent or no longer PENDING (claimed by a
	// concurrent dispatcher).
	StartAttempt(ctx context.Context, id string) error
	Finish(ctx context.Context, cmd *model.PosCommand) error
}
