package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Joseamica/backend/internal/model"
)

// PosStatusRepo persists the singleton per-venue POS connection rows.
// It implements possync.ConnectionStore; only the heartbeat monitor
// mutates these rows.
type PosStatusRepo struct {
	db *sql.DB
}

// NewPosStatusRepo returns a new PosStatusRepo bound to the given database.
func NewPosStatusRepo(db *sql.DB) *PosStatusRepo { return &PosStatusRepo{db: db} }

const posStatusColumns = `id, venue_id, status, instance_id, producer_version, last_heartbeat_at, created_at, updated_at`

// GetByVenue returns the connection row for a venue, or ErrNotFound when
// the venue has never sent a heartbeat.
func (r *PosStatusRepo) GetByVenue(ctx context.Context, venueID uint64) (*model.PosConnectionStatus, error) {
	const q = `SELECT ` + posStatusColumns + ` FROM pos_connection_status WHERE venue_id = ?`
	var cs model.PosConnectionStatus
	err := r.db.QueryRowContext(ctx, q, venueID).Scan(&cs.ID, &cs.VenueID, &cs.Status,
		&cs.InstanceID, &cs.ProducerVersion, &cs.LastHeartbeatAt, &cs.CreatedAt, &cs.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cs, nil
}

// Create inserts the first connection row for a venue.  The unique
// venue_id constraint guarantees at most one row per venue; a concurrent
// first heartbeat yields ErrDuplicate.
func (r *PosStatusRepo) Create(ctx context.Context, cs *model.PosConnectionStatus) error {
	const q = `INSERT INTO pos_connection_status (venue_id, status, instance_id, producer_version, last_heartbeat_at)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, cs.VenueID, cs.Status, cs.InstanceID,
		cs.ProducerVersion, cs.LastHeartbeatAt.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cs.ID = uint64(id)
	return nil
}

// Update overwrites the mutable columns of a connection row.
func (r *PosStatusRepo) Update(ctx context.Context, cs *model.PosConnectionStatus) error {
	const q = `UPDATE pos_connection_status
	           SET status = ?, instance_id = ?, producer_version = ?, last_heartbeat_at = ?, updated_at = UTC_TIMESTAMP()
	           WHERE venue_id = ?`
	res, err := r.db.ExecContext(ctx, q, cs.Status, cs.InstanceID, cs.ProducerVersion,
		cs.LastHeartbeatAt.UTC().Format("2006-01-02 15:04:05"), cs.VenueID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Row may exist with identical values; distinguish from absence.
		if _, getErr := r.GetByVenue(ctx, cs.VenueID); getErr != nil {
			return getErr
		}
	}
	return nil
}

// ListByStatus returns all connection rows currently in the given state.
func (r *PosStatusRepo) ListByStatus(ctx context.Context, status model.ConnectionStatus) ([]model.PosConnectionStatus, error) {
	const q = `SELECT ` + posStatusColumns + ` FROM pos_connection_status WHERE status = ? ORDER BY venue_id`
	rows, err := r.db.QueryContext(ctx, q, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.PosConnectionStatus, 0)
	for rows.Next() {
		var cs model.PosConnectionStatus
		if err := rows.Scan(&cs.ID, &cs.VenueID, &cs.Status, &cs.InstanceID,
			&cs.ProducerVersion, &cs.LastHeartbeatAt, &cs.CreatedAt, &cs.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
