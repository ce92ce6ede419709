package model

import (
	"encoding/json"
	"time"
)

// Sync states tracked per order.  FAILED is not terminal: a later
// successful sync overwrites it with SYNCED.
const (
	SyncPending     SyncStatus = "PENDING"
	SyncSyncing     SyncStatus = "SYNCING"
	SyncSynced      SyncStatus = "SYNCED"
	SyncFailed      SyncStatus = "FAILED"
	SyncNotRequired SyncStatus = "NOT_REQUIRED"
)

// SyncStatus records whether a canonical row reflects the latest known
// POS state.
type SyncStatus string

// Order service types.
const (
	OrderDineIn   OrderType = "DINE_IN"
	OrderTakeAway OrderType = "TAKE_AWAY"
	OrderDelivery OrderType = "DELIVERY"
)

// OrderType classifies how an order is served.
type OrderType string

// Kitchen preparation states.
const (
	KitchenPending KitchenStatus = "PENDING"
	KitchenCooking KitchenStatus = "COOKING"
	KitchenReady   KitchenStatus = "READY"
	KitchenServed  KitchenStatus = "SERVED"
)

// KitchenStatus tracks order preparation in the kitchen.
type KitchenStatus string

// Order is the central transactional entity.  Orders sourced from the
// POS are unique per (venue_id, external_id); that composite key is the
// idempotency key for the sync subsystem.  Sync creates the row on the
// first event, upserts it on every later event, and never deletes it.
// CreatedAt is taken from the POS-supplied timestamp so that original
// order chronology is preserved rather than ingestion time.
//
// Money fields are stored as decimal amounts in venue currency and are
// never null; a payload that omits them yields zeroes.
type Order struct {
	ID             uint64          // orders.id
	VenueID        uint64          // orders.venue_id
	ExternalID     *string         // orders.external_id (nullable; set by sync)
	OrderNumber    string          // orders.order_number
	Status         string          // orders.status (POS-defined vocabulary)
	KitchenStatus  KitchenStatus   // orders.kitchen_status
	Type           OrderType       // orders.type
	PaymentStatus  string          // orders.payment_status
	Subtotal       float64         // orders.subtotal
	TaxAmount      float64         // orders.tax_amount
	DiscountAmount float64         // orders.discount_amount
	TipAmount      float64         // orders.tip_amount
	Total          float64         // orders.total
	ServedByID     *uint64         // orders.served_by_id -> staff.id (nullable)
	TableID        *uint64         // orders.table_id (nullable)
	ShiftID        *uint64         // orders.shift_id (nullable)
	POSRawData     json.RawMessage // orders.pos_raw_data (JSON column)
	SyncStatus     SyncStatus      // orders.sync_status
	SyncedAt       *time.Time      // orders.synced_at (nullable)
	CompletedAt    *time.Time      // orders.completed_at (nullable)
	CreatedAt      time.Time       // orders.created_at
	UpdatedAt      time.Time       // orders.updated_at
}
