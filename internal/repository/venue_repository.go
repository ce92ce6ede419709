package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Joseamica/backend/internal/model"
)

// VenueRepo provides CRUD operations for venues.  Venues are the
// tenancy boundary: every other repository scopes its queries by
// venue_id, and deleting a venue is refused while dependent orders
// exist.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo returns a new VenueRepo bound to the given database.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

const venueColumns = `id, organization_id, name, address, timezone, is_active, created_at, updated_at`

func scanVenue(row *sql.Row) (*model.Venue, error) {
	var v model.Venue
	err := row.Scan(&v.ID, &v.OrganizationID, &v.Name, &v.Address, &v.Timezone,
		&v.Active, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a venue and populates its generated ID and timestamps.
// A duplicate (organization_id, name) pair yields ErrDuplicate.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues (organization_id, name, address, timezone, is_active) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.OrganizationID, v.Name, v.Address, v.Timezone, v.Active)
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
	v.ID = uint64(id)
	created, err := r.GetByID(ctx, v.ID)
	if err != nil {
		return err
	}
	*v = *created
	return nil
}

// GetByID returns a venue by its primary key, or ErrNotFound.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	const q = `SELECT ` + venueColumns + ` FROM venues WHERE id = ?`
	return scanVenue(r.db.QueryRowContext(ctx, q, id))
}

// List returns a page of venues for an organization along with the total
// row count for pagination metadata.  Pages are one-based.
func (r *VenueRepo) List(ctx context.Context, orgID uint64, page, size int) ([]model.Venue, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM venues WHERE organization_id = ?`, orgID).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT ` + venueColumns + ` FROM venues WHERE organization_id = ? ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, orgID, size, (page-1)*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	venues := make([]model.Venue, 0)
	for rows.Next() {
		var v model.Venue
		if err := rows.Scan(&v.ID, &v.OrganizationID, &v.Name, &v.Address, &v.Timezone,
			&v.Active, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, 0, err
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return venues, total, nil
}

// Update overwrites the mutable columns of a venue.  It returns
// ErrNotFound when the venue does not exist.
func (r *VenueRepo) Update(ctx context.Context, v *model.Venue) error {
	const q = `UPDATE venues SET name = ?, address = ?, timezone = ?, is_active = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.Address, v.Timezone, v.Active, v.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Zero rows can also mean a no-op update; verify existence.
		if _, getErr := r.GetByID(ctx, v.ID); getErr != nil {
			return getErr
		}
	}
	return nil
}

// Delete removes a venue.  It refuses with ErrConflict while any orders
// reference the venue, so historical sync data is never dropped by
// accident.
func (r *VenueRepo) Delete(ctx context.Context, id uint64) error {
	var n int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE venue_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
