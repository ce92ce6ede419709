package model

import "time"

// Review is customer feedback left for a venue, optionally tied to the
// order being reviewed.  Stars range 1..5.
type Review struct {
	ID        uint64    // reviews.id
	VenueID   uint64    // reviews.venue_id
	OrderID   *uint64   // reviews.order_id (nullable)
	Stars     uint8     // reviews.stars
	Comment   string    // reviews.comment
	CreatedAt time.Time // reviews.created_at
}
