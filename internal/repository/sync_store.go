package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Joseamica/backend/internal/model"
	"github.com/Joseamica/backend/internal/possync"
	"github.com/Joseamica/backend/internal/utils"
)

// dbtx is the subset of *sql.DB and *sql.Tx the sync store needs, so the
// same query code serves both transactional and direct execution.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// SyncStore is the MySQL implementation of possync.Store.  InTx yields a
// copy bound to a transaction so identity resolution and the order
// upsert for one event commit or roll back together.
type SyncStore struct {
	db *sql.DB
	q  dbtx
}

// NewSyncStore returns a SyncStore bound to the given database.
func NewSyncStore(db *sql.DB) *SyncStore { return &SyncStore{db: db, q: db} }

// InTx runs fn against a transaction-scoped store.  Nested calls reuse
// the surrounding transaction.
func (s *SyncStore) InTx(ctx context.Context, fn func(possync.Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&SyncStore{db: s.db, q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// GetVenue returns the venue or ErrNotFound.
func (s *SyncStore) GetVenue(ctx context.Context, venueID uint64) (*model.Venue, error) {
	const q = `SELECT ` + venueColumns + ` FROM venues WHERE id = ?`
	var v model.Venue
	err := s.q.QueryRowContext(ctx, q, venueID).Scan(&v.ID, &v.OrganizationID, &v.Name,
		&v.Address, &v.Timezone, &v.Active, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// FindStaffByPOSID returns the staff ID assigned to the venue under the
// given POS staff ID, or ErrNotFound.
func (s *SyncStore) FindStaffByPOSID(ctx context.Context, venueID uint64, posStaffID string) (uint64, error) {
	const q = `SELECT staff_id FROM staff_venues WHERE venue_id = ? AND pos_staff_id = ?`
	var id uint64
	err := s.q.QueryRowContext(ctx, q, venueID, posStaffID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return id, err
}

// CreateStaff inserts a staff row plus its venue assignment carrying the
// POS staff ID.  The UNIQUE(venue_id, pos_staff_id) constraint on
// staff_venues arbitrates concurrent creates; a lost race returns
// ErrDuplicate so the resolver can retry as a lookup.
func (s *SyncStore) CreateStaff(ctx context.Context, f possync.StaffFragment, venueID, organizationID uint64) (uint64, error) {
	name := f.Name
	if name == "" {
		name = "POS Staff " + f.POSStaffID
	}
	var pinHash string
	if f.PIN != "" {
		h, err := utils.HashPIN(f.PIN)
		if err != nil {
			return 0, err
		}
		pinHash = h
	}
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO staff (organization_id, name, pin_hash, is_active) VALUES (?, ?, ?, TRUE)`,
		organizationID, name, pinHash)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	staffID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	_, err = s.q.ExecContext(ctx,
		`INSERT INTO staff_venues (staff_id, venue_id, role, pos_staff_id) VALUES (?, ?, ?, ?)`,
		staffID, venueID, model.RoleWaiter, f.POSStaffID)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return uint64(staffID), nil
}

// FindTableByExternalID returns the table ID matching the POS external
// ID within the venue, or ErrNotFound.
func (s *SyncStore) FindTableByExternalID(ctx context.Context, venueID uint64, externalID string) (uint64, error) {
	const q = `SELECT id FROM tables WHERE venue_id = ? AND external_id = ?`
	var id uint64
	err := s.q.QueryRowContext(ctx, q, venueID, externalID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return id, err
}

// CreateTable inserts a table sourced from POS sync.
func (s *SyncStore) CreateTable(ctx context.Context, f possync.TableFragment, venueID uint64) (uint64, error) {
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO tables (venue_id, number, capacity, external_id) VALUES (?, ?, ?, ?)`,
		venueID, f.Number, f.Capacity, f.ExternalID)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// FindShiftByExternalID returns the shift ID matching the POS external
// ID within the venue, or ErrNotFound.
func (s *SyncStore) FindShiftByExternalID(ctx context.Context, venueID uint64, externalID string) (uint64, error) {
	const q = `SELECT id FROM shifts WHERE venue_id = ? AND external_id = ?`
	var id uint64
	err := s.q.QueryRowContext(ctx, q, venueID, externalID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return id, err
}

// CreateShift inserts a shift sourced from POS sync.  staffID zero means
// the shift is not yet assigned to anyone.
func (s *SyncStore) CreateShift(ctx context.Context, f possync.ShiftFragment, venueID, staffID uint64) (uint64, error) {
	start := f.StartTime
	if start.IsZero() {
		start = time.Now().UTC()
	}
	status := model.ShiftOpen
	var end interface{}
	if f.EndTime != nil {
		end = f.EndTime.UTC().Format("2006-01-02 15:04:05")
		status = model.ShiftClosed
	}
	var staff interface{}
	if staffID != 0 {
		staff = staffID
	}
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO shifts (venue_id, staff_id, external_id, status, start_time, end_time) VALUES (?, ?, ?, ?, ?, ?)`,
		venueID, staff, f.ExternalID, status, start.UTC().Format("2006-01-02 15:04:05"), end)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// UpsertOrder writes the event's order keyed by (venue_id, external_id)
// in one statement.  On create, kitchen status and type receive their
// defaults and created_at comes from the POS-supplied timestamp.  On
// update, only the POS-owned columns (status, payment status, amounts,
// raw data, foreign keys, synced_at) are overwritten; created_at and the
// kitchen workflow columns stay as they are.  Both paths leave the row
// SYNCED.
func (s *SyncStore) UpsertOrder(ctx context.Context, u possync.OrderUpsert) (*model.Order, error) {
	raw := u.Data.RawData
	if raw == nil {
		raw = json.RawMessage("{}")
	}
	createdAt := u.Data.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	var completedAt interface{}
	if u.Data.CompletedAt != nil {
		completedAt = u.Data.CompletedAt.UTC().Format("2006-01-02 15:04:05")
	}
	const q = `INSERT INTO orders
		(venue_id, external_id, order_number, status, kitchen_status, type, payment_status,
		 subtotal, tax_amount, discount_amount, tip_amount, total,
		 served_by_id, table_id, shift_id, pos_raw_data, sync_status, synced_at, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, UTC_TIMESTAMP(), ?, ?)
		ON DUPLICATE KEY UPDATE
		 order_number = VALUES(order_number),
		 status = VALUES(status),
		 payment_status = VALUES(payment_status),
		 subtotal = VALUES(subtotal),
		 tax_amount = VALUES(tax_amount),
		 discount_amount = VALUES(discount_amount),
		 tip_amount = VALUES(tip_amount),
		 total = VALUES(total),
		 served_by_id = VALUES(served_by_id),
		 table_id = VALUES(table_id),
		 shift_id = VALUES(shift_id),
		 pos_raw_data = VALUES(pos_raw_data),
		 sync_status = VALUES(sync_status),
		 synced_at = UTC_TIMESTAMP(),
		 completed_at = VALUES(completed_at),
		 updated_at = UTC_TIMESTAMP()`
	_, err := s.q.ExecContext(ctx, q,
		u.VenueID, u.Data.ExternalID, u.Data.OrderNumber, u.Data.Status,
		model.KitchenPending, model.OrderDineIn, u.Data.PaymentStatus,
		u.Data.Subtotal, u.Data.TaxAmount, u.Data.DiscountAmount, u.Data.TipAmount, u.Data.Total,
		nullableID(u.ServedByID), nullableID(u.TableID), nullableID(u.ShiftID),
		[]byte(raw), model.SyncSynced, completedAt,
		createdAt.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return nil, err
	}
	return s.getOrderByKey(ctx, u.VenueID, u.Data.ExternalID)
}

// MarkOrderSyncFailed performs the best-effort recovery write after a
// failed reconciliation.  ErrNotFound means the row was never created,
// which the reconciler logs and otherwise ignores.
func (s *SyncStore) MarkOrderSyncFailed(ctx context.Context, venueID uint64, externalID string) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE orders SET sync_status = ?, updated_at = UTC_TIMESTAMP() WHERE venue_id = ? AND external_id = ?`,
		model.SyncFailed, venueID, externalID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SyncStore) getOrderByKey(ctx context.Context, venueID uint64, externalID string) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE venue_id = ? AND external_id = ?`
	return scanOrderRow(s.q.QueryRowContext(ctx, q, venueID, externalID))
}

func nullableID(id uint64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}
