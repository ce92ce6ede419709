package model

import "time"

// Organization groups venues under a single operator account.  It is the
// top of the tenancy hierarchy: an organization owns venues, and venues
// own all of their operational data.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the operator.
//  Email     – billing/contact email.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Organization struct {
	ID        uint64    // organizations.id
	Name      string    // organizations.name
	Email     string    // organizations.email
	CreatedAt time.Time // organizations.created_at
	UpdatedAt time.Time // organizations.updated_at
}

// Venue is a single physical business location and the tenancy boundary
// for all operational data.  Every sync-relevant entity (staff
// assignment, table, shift, order, POS connection) is scoped by its
// venue ID; rows must never leak across venues.
//
// Fields:
//  ID             – primary key identifier.
//  OrganizationID – owning organization.
//  Name           – venue display name, unique per organization.
//  Address        – street address (optional, may be empty).
//  Timezone       – IANA timezone name used for reporting.
//  Active         – whether the venue is operating.
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type Venue struct {
	ID             uint64    // venues.id
	OrganizationID uint64    // venues.organization_id
	Name           string    // venues.name
	Address        string    // venues.address
	Timezone       string    // venues.timezone
	Active         bool      // venues.is_active
	CreatedAt      time.Time // venues.created_at
	UpdatedAt      time.Time // venues.updated_at
}
