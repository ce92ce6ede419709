package possync

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/Joseamica/backend/internal/model"
	"github.com/Joseamica/backend/internal/apperrors"
)

// Reconciler ingests POS order events and reconciles them into the
// canonical database.  One invocation handles one event; invocations for
// different orders and venues may run concurrently with no cross-order
// locking.
type Reconciler struct {
	store Store
	log   *logrus.Logger
}

// NewReconciler returns a Reconciler bound to the given store.
func NewReconciler(store Store, log *logrus.Logger) *Reconciler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Reconciler{store: store, log: log}
}

// ProcessOrderEvent upserts the order described by the event, keyed by
// (venue id, external id).
//
// The venue existence check happens first and produces no side effects
// on failure.  Identity resolution of the optional staff/table/shift
// fragments and the order upsert then run inside a single transaction:
// if the upsert fails, rows created by resolution are rolled back too.
// After a failed transaction a best-effort write marks the order row
// FAILED; that secondary write's own failure is logged and never masks
// the original error, which is returned to the caller for retry.
//
// Submitting the same event twice is idempotent: both calls leave one
// order row with sync status SYNCED.
func (r *Reconciler) ProcessOrderEvent(ctx context.Context, ev OrderEvent) (*model.Order, error) {
	if ev.Order.ExternalID == "" {
		return nil, ErrMissingExternalID
	}
	venue, err := r.store.GetVenue(ctx, ev.VenueID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	var order *model.Order
	err = r.store.InTx(ctx, func(s Store) error {
		res := NewResolver(s)

		staff, err := res.ResolveStaff(ctx, ev.Staff, ev.VenueID, venue.OrganizationID)
		if err != nil {
			return err
		}
		table, err := res.ResolveTable(ctx, ev.Table, ev.VenueID)
		if err != nil {
			return err
		}
		shift, err := res.ResolveShift(ctx, ev.Shift, ev.VenueID, staff.ID)
		if err != nil {
			return err
		}

		order, err = s.UpsertOrder(ctx, OrderUpsert{
			VenueID:    ev.VenueID,
			Data:       ev.Order,
			ServedByID: staff.ID,
			TableID:    table.ID,
			ShiftID:    shift.ID,
		})
		return err
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"venue_id":    ev.VenueID,
			"external_id": ev.Order.ExternalID,
		}).WithError(err).Error("order reconciliation failed")
		if markErr := r.store.MarkOrderSyncFailed(ctx, ev.VenueID, ev.Order.ExternalID); markErr != nil &&
			!errors.Is(markErr, apperrors.ErrNotFound) {
			r.log.WithFields(logrus.Fields{
				"venue_id":    ev.VenueID,
				"external_id": ev.Order.ExternalID,
			}).WithError(markErr).Warn("could not mark order sync failed")
		}
		return nil, err
	}

	r.log.WithFields(logrus.Fields{
		"venue_id":    ev.VenueID,
		"external_id": ev.Order.ExternalID,
		"order_id":    order.ID,
	}).Debug("order reconciled")
	return order, nil
}
