package possync

import (
	"context"
	"errors"

	"github.com/Joseamica/backend/internal/apperrors"
)

// Resolution outcomes.  A zero Outcome means the fragment was absent and
// no record was matched or created.
const (
	OutcomeFound Outcome = iota + 1
	OutcomeCreated
)

// Outcome tags how an identity resolution concluded.
type Outcome int

// Resolution is the tagged result of a find-or-create.  ID is zero when
// the fragment was absent.
type Resolution struct {
	ID      uint64
	Outcome Outcome
}

// Resolver matches POS-side staff/table/shift fragments to canonical
// records scoped to a venue, creating them on first encounter.  It is a
// find-or-create, not an upsert: records matched by the composite
// (venue, external id) key are returned as-is and never mutated here.
//
// Two concurrent events racing to create the same external entity are
// arbitrated by the storage layer's unique constraints: the loser's
// insert returns apperrors.ErrDuplicate and is retried as a lookup.
type Resolver struct {
	store Store
}

// NewResolver returns a Resolver bound to the given store.  The
// reconciler constructs one per transaction scope.
func NewResolver(store Store) *Resolver { return &Resolver{store: store} }

// ResolveStaff finds or creates the staff assignment matching the
// fragment's POS staff ID within the venue.  A nil fragment or an empty
// POS staff ID resolves to the zero Resolution without touching storage.
func (r *Resolver) ResolveStaff(ctx context.Context, f *StaffFragment, venueID, organizationID uint64) (Resolution, error) {
	if f == nil || f.POSStaffID == "" {
		return Resolution{}, nil
	}
	return r.findOrCreate(ctx,
		func() (uint64, error) { return r.store.FindStaffByPOSID(ctx, venueID, f.POSStaffID) },
		func() (uint64, error) { return r.store.CreateStaff(ctx, *f, venueID, organizationID) },
	)
}

// ResolveTable finds or creates the table matching the fragment's
// external ID within the venue.
func (r *Resolver) ResolveTable(ctx context.Context, f *TableFragment, venueID uint64) (Resolution, error) {
	if f == nil || f.ExternalID == "" {
		return Resolution{}, nil
	}
	return r.findOrCreate(ctx,
		func() (uint64, error) { return r.store.FindTableByExternalID(ctx, venueID, f.ExternalID) },
		func() (uint64, error) { return r.store.CreateTable(ctx, *f, venueID) },
	)
}

// ResolveShift finds or creates the shift matching the fragment's
// external ID within the venue.  staffID may be zero when the event
// carried no staff; the shift is then created unassigned.
func (r *Resolver) ResolveShift(ctx context.Context, f *ShiftFragment, venueID, staffID uint64) (Resolution, error) {
	if f == nil || f.ExternalID == "" {
		return Resolution{}, nil
	}
	return r.findOrCreate(ctx,
		func() (uint64, error) { return r.store.FindShiftByExternalID(ctx, venueID, f.ExternalID) },
		func() (uint64, error) { return r.store.CreateShift(ctx, *f, venueID, staffID) },
	)
}

// findOrCreate implements lookup, create-on-miss, and lookup-again when
// the create loses a unique-constraint race.
func (r *Resolver) findOrCreate(ctx context.Context, find, create func() (uint64, error)) (Resolution, error) {
	id, err := find()
	if err == nil {
		return Resolution{ID: id, Outcome: OutcomeFound}, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return Resolution{}, err
	}
	id, err = create()
	if err == nil {
		return Resolution{ID: id, Outcome: OutcomeCreated}, nil
	}
	if !errors.Is(err, apperrors.ErrDuplicate) {
		return Resolution{}, err
	}
	// Lost the race; the row exists now.
	id, err = find()
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{ID: id, Outcome: OutcomeFound}, nil
}
