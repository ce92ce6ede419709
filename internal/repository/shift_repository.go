package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Joseamica/backend/internal/model"
)

// ShiftRepo provides read access to shifts for the REST surface.
type ShiftRepo struct {
	db *sql.DB
}

// NewShiftRepo returns a new ShiftRepo bound to the given database.
func NewShiftRepo(db *sql.DB) *ShiftRepo { return &ShiftRepo{db: db} }

const shiftColumns = `id, venue_id, staff_id, external_id, status, start_time, end_time, created_at, updated_at`

func scanShift(sc orderScanner) (*model.Shift, error) {
	var s model.Shift
	var staffID sql.NullInt64
	var externalID sql.NullString
	var endTime sql.NullTime
	err := sc.Scan(&s.ID, &s.VenueID, &staffID, &externalID, &s.Status,
		&s.StartTime, &endTime, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if staffID.Valid {
		v := uint64(staffID.Int64)
		s.StaffID = &v
	}
	if externalID.Valid {
		v := externalID.String
		s.ExternalID = &v
	}
	if endTime.Valid {
		t := endTime.Time
		s.EndTime = &t
	}
	return &s, nil
}

// GetByID returns a shift by its primary key, or ErrNotFound.
func (r *ShiftRepo) GetByID(ctx context.Context, id uint64) (*model.Shift, error) {
	const q = `SELECT ` + shiftColumns + ` FROM shifts WHERE id = ?`
	s, err := scanShift(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// ListByVenue returns a page of a venue's shifts, newest first, with the
// total count.
func (r *ShiftRepo) ListByVenue(ctx context.Context, venueID uint64, page, size int) ([]model.Shift, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM shifts WHERE venue_id = ?`, venueID).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT ` + shiftColumns + ` FROM shifts WHERE venue_id = ? ORDER BY start_time DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, venueID, size, (page-1)*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	shifts := make([]model.Shift, 0)
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, 0, err
		}
		shifts = append(shifts, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return shifts, total, nil
}
