package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Joseamica/backend/internal/model"
)

// OrderRepo provides read access to orders for the REST surface.
// Writes from the sync path go through SyncStore so they share a
// transaction with identity resolution.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderColumns = `id, venue_id, external_id, order_number, status, kitchen_status, type,
	payment_status, subtotal, tax_amount, discount_amount, tip_amount, total,
	served_by_id, table_id, shift_id, pos_raw_data, sync_status, synced_at, completed_at,
	created_at, updated_at`

type orderScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(sc orderScanner) (*model.Order, error) {
	var o model.Order
	var externalID sql.NullString
	var servedBy, tableID, shiftID sql.NullInt64
	var raw []byte
	var syncedAt, completedAt sql.NullTime
	err := sc.Scan(&o.ID, &o.VenueID, &externalID, &o.OrderNumber, &o.Status, &o.KitchenStatus,
		&o.Type, &o.PaymentStatus, &o.Subtotal, &o.TaxAmount, &o.DiscountAmount, &o.TipAmount,
		&o.Total, &servedBy, &tableID, &shiftID, &raw, &o.SyncStatus, &syncedAt, &completedAt,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if externalID.Valid {
		v := externalID.String
		o.ExternalID = &v
	}
	if servedBy.Valid {
		v := uint64(servedBy.Int64)
		o.ServedByID = &v
	}
	if tableID.Valid {
		v := uint64(tableID.Int64)
		o.TableID = &v
	}
	if shiftID.Valid {
		v := uint64(shiftID.Int64)
		o.ShiftID = &v
	}
	o.POSRawData = raw
	if syncedAt.Valid {
		t := syncedAt.Time
		o.SyncedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		o.CompletedAt = &t
	}
	return &o, nil
}

func scanOrderRow(row *sql.Row) (*model.Order, error) {
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

// GetByID returns an order by its primary key, or ErrNotFound.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	return scanOrderRow(r.db.QueryRowContext(ctx, q, id))
}

// OrderFilter narrows ListByVenue.  Empty fields match everything.
type OrderFilter struct {
	Status     string
	SyncStatus model.SyncStatus
}

// ListByVenue returns a page of a venue's orders, newest first, with the
// total count for pagination metadata.
func (r *OrderRepo) ListByVenue(ctx context.Context, venueID uint64, f OrderFilter, page, size int) ([]model.Order, int64, error) {
	where := ` WHERE venue_id = ?`
	args := []interface{}{venueID}
	if f.Status != "" {
		where += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.SyncStatus != "" {
		where += ` AND sync_status = ?`
		args = append(args, f.SyncStatus)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + orderColumns + ` FROM orders` + where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, size, (page-1)*size)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
