package possync

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Joseamica/backend/internal/model"
	"github.com/Joseamica/backend/internal/apperrors"
)

// ErrNotReconciling is returned by Acknowledge when the venue's
// connection is not in NEEDS_RECONCILIATION.
var ErrNotReconciling = errors.New("connection is not awaiting reconciliation")

// Heartbeat is one liveness signal from a venue's POS bridge.
type Heartbeat struct {
	VenueID         uint64
	InstanceID      string
	ProducerVersion string
	Timestamp       time.Time
}

// Monitor maintains the per-venue POS connection state machine
// (ONLINE / OFFLINE / NEEDS_RECONCILIATION).  All three states are
// revisitable, with one exception: NEEDS_RECONCILIATION is entered when
// the POS instance ID changes between heartbeats (the upstream database
// may have been swapped) and is exited only by an explicit operator
// acknowledgment, never by a fresh matching heartbeat or by a staleness
// sweep.
type Monitor struct {
	store ConnectionStore
	log   *logrus.Logger
	now   func() time.Time
}

// NewMonitor returns a Monitor bound to the given store.
func NewMonitor(store ConnectionStore, log *logrus.Logger) *Monitor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Monitor{store: store, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// RecordHeartbeat applies one heartbeat to the venue's connection row,
// creating it as ONLINE on first contact.  The returned flag reports
// whether the POS instance ID changed, which is the caller-visible alert
// condition.
func (m *Monitor) RecordHeartbeat(ctx context.Context, hb Heartbeat) (*model.PosConnectionStatus, bool, error) {
	at := hb.Timestamp
	if at.IsZero() {
		at = m.now()
	}

	cs, err := m.store.GetByVenue(ctx, hb.VenueID)
	if errors.Is(err, apperrors.ErrNotFound) {
		cs = &model.PosConnectionStatus{
			VenueID:         hb.VenueID,
			Status:          model.ConnectionOnline,
			InstanceID:      hb.InstanceID,
			ProducerVersion: hb.ProducerVersion,
			LastHeartbeatAt: at,
		}
		if err := m.store.Create(ctx, cs); err != nil {
			return nil, false, err
		}
		return cs, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	changed := cs.InstanceID != "" && cs.InstanceID != hb.InstanceID
	cs.InstanceID = hb.InstanceID
	cs.ProducerVersion = hb.ProducerVersion
	cs.LastHeartbeatAt = at

	switch {
	case changed:
		cs.Status = model.ConnectionNeedsReconciliation
		m.log.WithFields(logrus.Fields{
			"venue_id":    hb.VenueID,
			"instance_id": hb.InstanceID,
		}).Warn("POS instance changed; venue flagged for reconciliation")
	case cs.Status == model.ConnectionNeedsReconciliation:
		// Sticky: a matching heartbeat keeps the timestamp fresh but
		// cannot move the venue back online.
	default:
		cs.Status = model.ConnectionOnline
	}

	if err := m.store.Update(ctx, cs); err != nil {
		return nil, false, err
	}
	return cs, changed, nil
}

// Status returns the venue's connection row.
func (m *Monitor) Status(ctx context.Context, venueID uint64) (*model.PosConnectionStatus, error) {
	return m.store.GetByVenue(ctx, venueID)
}

// EvaluateStaleness transitions an ONLINE connection to OFFLINE when its
// last heartbeat is older than the threshold.  NEEDS_RECONCILIATION and
// OFFLINE rows are left untouched.
func (m *Monitor) EvaluateStaleness(ctx context.Context, venueID uint64, threshold time.Duration) (*model.PosConnectionStatus, error) {
	cs, err := m.store.GetByVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if cs.Status != model.ConnectionOnline {
		return cs, nil
	}
	if m.now().Sub(cs.LastHeartbeatAt) <= threshold {
		return cs, nil
	}
	cs.Status = model.ConnectionOffline
	if err := m.store.Update(ctx, cs); err != nil {
		return nil, err
	}
	m.log.WithField("venue_id", venueID).Info("POS connection went offline")
	return cs, nil
}

// SweepStale applies EvaluateStaleness across all ONLINE venues and
// returns how many went offline.  It is driven by a ticker in the server
// entrypoint.
func (m *Monitor) SweepStale(ctx context.Context, threshold time.Duration) (int, error) {
	online, err := m.store.ListByStatus(ctx, model.ConnectionOnline)
	if err != nil {
		return 0, err
	}
	transitioned := 0
	for i := range online {
		cs, err := m.EvaluateStaleness(ctx, online[i].VenueID, threshold)
		if err != nil {
			return transitioned, err
		}
		if cs.Status == model.ConnectionOffline {
			transitioned++
		}
	}
	return transitioned, nil
}

// Acknowledge is the explicit operator action that clears
// NEEDS_RECONCILIATION.  The connection returns to OFFLINE; the next
// heartbeat from the (possibly new) instance brings it ONLINE again.
func (m *Monitor) Acknowledge(ctx context.Context, venueID uint64) (*model.PosConnectionStatus, error) {
	cs, err := m.store.GetByVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if cs.Status != model.ConnectionNeedsReconciliation {
		return nil, ErrNotReconciling
	}
	cs.Status = model.ConnectionOffline
	if err := m.store.Update(ctx, cs); err != nil {
		return nil, err
	}
	m.log.WithField("venue_id", venueID).Info("POS reconciliation acknowledged")
	return cs, nil
}
