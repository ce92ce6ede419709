package repository

import (
	"context"
	"database/sql"

	"github.com/Joseamica/backend/internal/model"
)

// PaymentRepo provides the payment allocation bookkeeping: recording
// amounts applied against orders and listing them for review.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = `id, venue_id, order_id, method, amount, tip_amount, status, processor_ref, created_at`

func scanPayment(sc orderScanner) (*model.Payment, error) {
	var p model.Payment
	var ref sql.NullString
	if err := sc.Scan(&p.ID, &p.VenueID, &p.OrderID, &p.Method, &p.Amount,
		&p.TipAmount, &p.Status, &ref, &p.CreatedAt); err != nil {
		return nil, err
	}
	if ref.Valid {
		v := ref.String
		p.ProcessorRef = &v
	}
	return &p, nil
}

// Create inserts a payment row.  The order must exist and belong to the
// payment's venue; a dangling order_id fails the foreign key and is
// surfaced as ErrNotFound by the handler after its own existence check.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments (venue_id, order_id, method, amount, tip_amount, status, processor_ref)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	var ref interface{}
	if p.ProcessorRef != nil {
		ref = *p.ProcessorRef
	}
	res, err := r.db.ExecContext(ctx, q, p.VenueID, p.OrderID, p.Method, p.Amount, p.TipAmount, p.Status, ref)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// ListByOrder returns all payments allocated to one order, oldest first.
func (r *PaymentRepo) ListByOrder(ctx context.Context, orderID uint64) ([]model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	payments := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}

// ListByVenue returns a page of a venue's payments, newest first, with
// the total count.
func (r *PaymentRepo) ListByVenue(ctx context.Context, venueID uint64, page, size int) ([]model.Payment, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payments WHERE venue_id = ?`, venueID).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE venue_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, venueID, size, (page-1)*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	payments := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}
