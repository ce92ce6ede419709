package model

import "time"

// Staff roles assignable per venue.
const (
	RoleOwner   StaffRole = "OWNER"
	RoleAdmin   StaffRole = "ADMIN"
	RoleManager StaffRole = "MANAGER"
	RoleWaiter  StaffRole = "WAITER"
)

// StaffRole names the role a staff member holds at a particular venue.
type StaffRole string

// Staff is a person identity at the organization level.  A single staff
// member may work at several venues; the per-venue assignment (role and
// POS identity) lives in StaffVenue.  The PIN used for terminal login is
// stored only as a bcrypt hash.
//
// Fields:
//  ID             – primary key identifier.
//  OrganizationID – owning organization.
//  Name           – display name.
//  Email          – optional contact email.
//  PinHash        – bcrypt hash of the login PIN.
//  Active         – whether the account may log in.
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type Staff struct {
	ID             uint64    // staff.id
	OrganizationID uint64    // staff.organization_id
	Name           string    // staff.name
	Email          string    // staff.email
	PinHash        string    // staff.pin_hash
	Active         bool      // staff.is_active
	CreatedAt      time.Time // staff.created_at
	UpdatedAt      time.Time // staff.updated_at
}

// StaffVenue assigns a staff member to a venue with a role.  When the
// assignment originates from POS synchronization it also carries the
// staff identifier assigned by the POS.  Exactly one row exists per
// (staff_id, venue_id) and per (venue_id, pos_staff_id).
//
// Fields:
//  ID         – primary key identifier.
//  StaffID    – the staff member.
//  VenueID    – the venue the member works at.
//  Role       – role held at this venue.
//  POSStaffID – identifier assigned by the POS (nullable; set by sync).
//  CreatedAt  – timestamp of creation.
type StaffVenue struct {
	ID         uint64    // staff_venues.id
	StaffID    uint64    // staff_venues.staff_id
	VenueID    uint64    // staff_venues.venue_id
	Role       StaffRole // staff_venues.role
	POSStaffID *string   // staff_venues.pos_staff_id (nullable)
	CreatedAt  time.Time // staff_venues.created_at
}
