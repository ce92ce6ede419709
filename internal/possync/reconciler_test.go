package possync

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joseamica/backend/internal/model"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func orderEvent(venueID uint64, externalID string) OrderEvent {
	return OrderEvent{
		VenueID: venueID,
		Order: OrderData{
			ExternalID:    externalID,
			OrderNumber:   "1042",
			Status:        "COMPLETED",
			PaymentStatus: "PAID",
			Subtotal:      100,
			TaxAmount:     16,
			TipAmount:     10,
			Total:         126,
			CreatedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			RawData:       json.RawMessage(`{"src":"pos"}`),
		},
	}
}

func TestProcessOrderEventMissingExternalID(t *testing.T) {
	store := newFakeStore()
	store.addVenue(1, 1)
	rec := NewReconciler(store, newTestLogger())

	ev := orderEvent(1, "")
	_, err := rec.ProcessOrderEvent(context.Background(), ev)
	assert.ErrorIs(t, err, ErrMissingExternalID)
	assert.Zero(t, store.upserts)
}

func TestProcessOrderEventUnknownVenue(t *testing.T) {
	store := newFakeStore()
	rec := NewReconciler(store, newTestLogger())

	_, err := rec.ProcessOrderEvent(context.Background(), orderEvent(99, "ord-1"))
	assert.ErrorIs(t, err, ErrVenueNotFound)
	assert.Zero(t, store.upserts)
	assert.Empty(t, store.markedFailed)
}

func TestProcessOrderEventNoFragments(t *testing.T) {
	store := newFakeStore()
	store.addVenue(1, 1)
	rec := NewReconciler(store, newTestLogger())

	order, err := rec.ProcessOrderEvent(context.Background(), orderEvent(1, "ord-1"))
	require.NoError(t, err)

	assert.Equal(t, model.SyncSynced, order.SyncStatus)
	assert.NotNil(t, order.SyncedAt)
	assert.Nil(t, order.ServedByID)
	assert.Nil(t, order.TableID)
	assert.Nil(t, order.ShiftID)
	assert.Zero(t, store.staffCreates+store.tableCreates+store.shiftCreates)
}

func TestProcessOrderEventResolvesFragments(t *testing.T) {
	store := newFakeStore()
	store.addVenue(1, 1)
	rec := NewReconciler(store, newTestLogger())

	ev := orderEvent(1, "ord-2")
	ev.Staff = &StaffFragment{POSStaffID: "emp-7", Name: "Ana"}
	ev.Table = &TableFragment{ExternalID: "t-12", Number: 12, Capacity: 4}
	ev.Shift = &ShiftFragment{ExternalID: "sh-1", StartTime: time.Now().UTC()}

	order, err := rec.ProcessOrderEvent(context.Background(), ev)
	require.NoError(t, err)
	require.NotNil(t, order.ServedByID)
	require.NotNil(t, order.TableID)
	require.NotNil(t, order.ShiftID)
	assert.Equal(t, 1, store.staffCreates)
	assert.Equal(t, 1, store.tableCreates)
	assert.Equal(t, 1, store.shiftCreates)
}

func TestProcessOrderEventIdempotent(t *testing.T) {
	store := newFakeStore()
	store.addVenue(1, 1)
	rec := NewReconciler(store, newTestLogger())

	ev := orderEvent(1, "ord-3")
	ev.Staff = &StaffFragment{POSStaffID: "emp-7"}

	first, err := rec.ProcessOrderEvent(context.Background(), ev)
	require.NoError(t, err)
	firstID, firstCreated := first.ID, first.CreatedAt

	// Same event again with a later status.
	ev.Order.Status = "CANCELLED"
	second, err := rec.ProcessOrderEvent(context.Background(), ev)
	require.NoError(t, err)

	assert.Equal(t, firstID, second.ID)
	assert.Equal(t, "CANCELLED", second.Status)
	assert.Equal(t, model.SyncSynced, second.SyncStatus)
	assert.Len(t, store.orders, 1)
	assert.Equal(t, 1, store.staffCreates)
	// created_at stays from the first write.
	assert.Equal(t, firstCreated, second.CreatedAt)
}

func TestProcessOrderEventUpsertFailureRollsBackResolution(t *testing.T) {
	store := newFakeStore()
	store.addVenue(1, 1)
	boom := errors.New("deadlock detected")
	store.upsertErr = boom
	rec := NewReconciler(store, newTestLogger())

	ev := orderEvent(1, "ord-4")
	ev.Staff = &StaffFragment{POSStaffID: "emp-7"}
	ev.Table = &TableFragment{ExternalID: "t-12"}

	_, err := rec.ProcessOrderEvent(context.Background(), ev)
	assert.ErrorIs(t, err, boom)

	// Rows created by resolution are gone with the transaction.
	assert.Empty(t, store.staff)
	assert.Empty(t, store.tables)
	// The FAILED mark was attempted even though no row existed yet.
	assert.Equal(t, []string{key(1, "ord-4")}, store.markedFailed)
}

func TestProcessOrderEventFailureMarksExistingRowFailed(t *testing.T) {
	store := newFakeStore()
	store.addVenue(1, 1)
	rec := NewReconciler(store, newTestLogger())

	ev := orderEvent(1, "ord-5")
	_, err := rec.ProcessOrderEvent(context.Background(), ev)
	require.NoError(t, err)

	boom := errors.New("lock wait timeout")
	store.upsertErr = boom
	_, err = rec.ProcessOrderEvent(context.Background(), ev)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, model.SyncFailed, store.orders[key(1, "ord-5")].SyncStatus)
}
