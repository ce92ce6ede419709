package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Joseamica/backend/internal/model"
)

// StaffRepo provides access to staff identities and their per-venue
// assignments.  Assignments created by the sync path go through
// SyncStore instead so they share the reconciliation transaction.
type StaffRepo struct {
	db *sql.DB
}

// NewStaffRepo returns a new StaffRepo bound to the given database.
func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{db: db} }

// StaffMember is a staff identity joined with its assignment at one
// venue, as returned by venue-scoped listings.
type StaffMember struct {
	ID         uint64          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email,omitempty"`
	Role       model.StaffRole `json:"role"`
	POSStaffID *string         `json:"pos_staff_id,omitempty"`
	Active     bool            `json:"active"`
}

// CreateWithVenue inserts a staff identity and its venue assignment in
// one transaction.  ErrDuplicate is returned when the venue already has
// an assignment for this staff member or POS staff ID.
func (r *StaffRepo) CreateWithVenue(ctx context.Context, st *model.Staff, venueID uint64, role model.StaffRole, posStaffID *string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO staff (organization_id, name, email, pin_hash, is_active) VALUES (?, ?, ?, ?, ?)`,
		st.OrganizationID, st.Name, st.Email, st.PinHash, st.Active)
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
	st.ID = uint64(id)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO staff_venues (staff_id, venue_id, role, pos_staff_id) VALUES (?, ?, ?, ?)`,
		st.ID, venueID, role, posStaffID); err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListByVenue returns a page of the venue's staff assignments with the
// total count.
func (r *StaffRepo) ListByVenue(ctx context.Context, venueID uint64, page, size int) ([]StaffMember, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM staff_venues WHERE venue_id = ?`, venueID).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT s.id, s.name, s.email, sv.role, sv.pos_staff_id, s.is_active
	           FROM staff_venues sv
	           JOIN staff s ON s.id = sv.staff_id
	           WHERE sv.venue_id = ?
	           ORDER BY s.name, s.id
	           LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, venueID, size, (page-1)*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	members := make([]StaffMember, 0)
	for rows.Next() {
		var m StaffMember
		var posID sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &posID, &m.Active); err != nil {
			return nil, 0, err
		}
		if posID.Valid {
			v := posID.String
			m.POSStaffID = &v
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

// LoginCandidate carries the fields PIN login needs for one active staff
// member of a venue.
type LoginCandidate struct {
	StaffID uint64
	Name    string
	Role    model.StaffRole
	PinHash string
}

// LoginCandidates returns the active staff of a venue with their PIN
// hashes.  PINs are stored only as bcrypt hashes, so login compares the
// presented PIN against each candidate rather than looking up by value.
func (r *StaffRepo) LoginCandidates(ctx context.Context, venueID uint64) ([]LoginCandidate, error) {
	const q = `SELECT s.id, s.name, sv.role, s.pin_hash
	           FROM staff_venues sv
	           JOIN staff s ON s.id = sv.staff_id
	           WHERE sv.venue_id = ? AND s.is_active = TRUE AND s.pin_hash <> ''`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LoginCandidate
	for rows.Next() {
		var c LoginCandidate
		if err := rows.Scan(&c.StaffID, &c.Name, &c.Role, &c.PinHash); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a staff identity by id.
func (r *StaffRepo) GetByID(ctx context.Context, id uint64) (*model.Staff, error) {
	const q = `SELECT id, organization_id, name, email, pin_hash, is_active, created_at, updated_at
	           FROM staff WHERE id = ?`
	var s model.Staff
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.OrganizationID, &s.Name, &s.Email,
		&s.PinHash, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
