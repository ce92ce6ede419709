package model

import "time"

// Table is a physical table at a venue.  Tables are unique per
// (venue_id, number) and, when they originate from POS sync, per
// (venue_id, external_id).  Sync creates a table on first encounter and
// never duplicates or mutates it afterwards.
//
// Fields:
//  ID         – primary key identifier.
//  VenueID    – owning venue.
//  Number     – table number as printed on the floor plan.
//  Capacity   – number of covers (0 when unknown).
//  ExternalID – identifier assigned by the POS (nullable).
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type Table struct {
	ID         uint64    // tables.id
	VenueID    uint64    // tables.venue_id
	Number     uint32    // tables.number
	Capacity   uint32    // tables.capacity
	ExternalID *string   // tables.external_id (nullable)
	CreatedAt  time.Time // tables.created_at
	UpdatedAt  time.Time // tables.updated_at
}
