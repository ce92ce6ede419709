package possync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStaffAbsentFragment(t *testing.T) {
	store := newFakeStore()
	r := NewResolver(store)

	res, err := r.ResolveStaff(context.Background(), nil, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, Resolution{}, res)

	res, err = r.ResolveStaff(context.Background(), &StaffFragment{POSStaffID: ""}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, Resolution{}, res)
	assert.Zero(t, store.staffCreates)
}

func TestResolveStaffCreatesOnFirstEncounter(t *testing.T) {
	store := newFakeStore()
	r := NewResolver(store)
	f := &StaffFragment{POSStaffID: "emp-7", Name: "Ana"}

	res, err := r.ResolveStaff(context.Background(), f, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, res.Outcome)
	assert.NotZero(t, res.ID)

	// Second resolution matches the existing row.
	again, err := r.ResolveStaff(context.Background(), f, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFound, again.Outcome)
	assert.Equal(t, res.ID, again.ID)
	assert.Equal(t, 1, store.staffCreates)
}

func TestResolveStaffScopedByVenue(t *testing.T) {
	store := newFakeStore()
	r := NewResolver(store)
	f := &StaffFragment{POSStaffID: "emp-7"}

	a, err := r.ResolveStaff(context.Background(), f, 1, 1)
	require.NoError(t, err)
	b, err := r.ResolveStaff(context.Background(), f, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, OutcomeCreated, a.Outcome)
	assert.Equal(t, OutcomeCreated, b.Outcome)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestResolveStaffLostCreateRace(t *testing.T) {
	store := newFakeStore()
	store.raceOnStaff = true
	r := NewResolver(store)

	res, err := r.ResolveStaff(context.Background(), &StaffFragment{POSStaffID: "emp-9"}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFound, res.Outcome)
	assert.NotZero(t, res.ID)
	assert.Zero(t, store.staffCreates)
}

func TestResolveStaffPropagatesStoreError(t *testing.T) {
	store := newFakeStore()
	boom := errors.New("connection reset")
	store.staffCreateErr = boom
	r := NewResolver(store)

	_, err := r.ResolveStaff(context.Background(), &StaffFragment{POSStaffID: "emp-1"}, 1, 1)
	assert.ErrorIs(t, err, boom)
}

func TestResolveTableAndShift(t *testing.T) {
	store := newFakeStore()
	r := NewResolver(store)

	tbl, err := r.ResolveTable(context.Background(), &TableFragment{ExternalID: "t-12", Number: 12}, 1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, tbl.Outcome)

	sh, err := r.ResolveShift(context.Background(), &ShiftFragment{ExternalID: "sh-1"}, 1, tbl.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, sh.Outcome)

	tblAgain, err := r.ResolveTable(context.Background(), &TableFragment{ExternalID: "t-12"}, 1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFound, tblAgain.Outcome)
	assert.Equal(t, tbl.ID, tblAgain.ID)
}
