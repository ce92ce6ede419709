package model

import "time"

// Shift lifecycle states.
const (
	ShiftOpen    ShiftStatus = "OPEN"
	ShiftClosing ShiftStatus = "CLOSING"
	ShiftClosed  ShiftStatus = "CLOSED"
)

// ShiftStatus is the lifecycle state of a work shift.
type ShiftStatus string

// Shift is a staff work session bounded by a start time and an optional
// end time.  Shifts sourced from the POS are unique per
// (venue_id, external_id) and are created implicitly when an order
// references a shift this system has not seen yet.
//
// Fields:
//  ID         – primary key identifier.
//  VenueID    – owning venue.
//  StaffID    – staff member working the shift (nullable; external
//               shifts may arrive before a staff assignment is known).
//  ExternalID – identifier assigned by the POS (nullable).
//  Status     – OPEN, CLOSING or CLOSED.
//  StartTime  – when the shift began.
//  EndTime    – when the shift ended (null while open).
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type Shift struct {
	ID         uint64      // shifts.id
	VenueID    uint64      // shifts.venue_id
	StaffID    *uint64     // shifts.staff_id (nullable)
	ExternalID *string     // shifts.external_id (nullable)
	Status     ShiftStatus // shifts.status
	StartTime  time.Time   // shifts.start_time
	EndTime    *time.Time  // shifts.end_time (nullable)
	CreatedAt  time.Time   // shifts.created_at
	UpdatedAt  time.Time   // shifts.updated_at
}
