package model

import "time"

// Payment settlement states.
const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// PaymentStatus is the settlement state of a payment allocation.
type PaymentStatus string

// Payment records an amount allocated against an order.  This is
// bookkeeping only; processor integration happens outside this system
// and is referenced by ProcessorRef when available.
//
// Fields:
//  ID           – primary key identifier.
//  VenueID      – owning venue.
//  OrderID      – order the payment settles (partially or fully).
//  Method       – payment method label (CASH, CARD, ...).
//  Amount       – amount applied to the order total.
//  TipAmount    – tip portion, kept separate from Amount.
//  Status       – settlement state.
//  ProcessorRef – external processor reference (nullable).
//  CreatedAt    – timestamp of creation.
type Payment struct {
	ID           uint64        // payments.id
	VenueID      uint64        // payments.venue_id
	OrderID      uint64        // payments.order_id
	Method       string        // payments.method
	Amount       float64       // payments.amount
	TipAmount    float64       // payments.tip_amount
	Status       PaymentStatus // payments.status
	ProcessorRef *string       // payments.processor_ref (nullable)
	CreatedAt    time.Time     // payments.created_at
}
