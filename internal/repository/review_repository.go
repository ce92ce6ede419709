package repository

import (
	"context"
	"database/sql"

	"github.com/Joseamica/backend/internal/model"
)

// ReviewRepo stores customer reviews left for a venue.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts a review.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	var orderID interface{}
	if rv.OrderID != nil {
		orderID = *rv.OrderID
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (venue_id, order_id, stars, comment) VALUES (?, ?, ?, ?)`,
		rv.VenueID, orderID, rv.Stars, rv.Comment)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return nil
}

// ListByVenue returns a page of a venue's reviews, newest first, with
// the total count.
func (r *ReviewRepo) ListByVenue(ctx context.Context, venueID uint64, page, size int) ([]model.Review, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE venue_id = ?`, venueID).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT id, venue_id, order_id, stars, comment, created_at
	           FROM reviews WHERE venue_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, venueID, size, (page-1)*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	reviews := make([]model.Review, 0)
	for rows.Next() {
		var rv model.Review
		var orderID sql.NullInt64
		if err := rows.Scan(&rv.ID, &rv.VenueID, &orderID, &rv.Stars, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, 0, err
		}
		if orderID.Valid {
			v := uint64(orderID.Int64)
			rv.OrderID = &v
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}
