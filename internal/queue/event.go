// Package queue defines the message payloads exchanged with the POS
// bridge over the message broker, and the consumer/publisher that move
// them.
package queue

import (
	"encoding/json"
	"time"

	"github.com/Joseamica/backend/internal/possync"
)

// Envelope types accepted on the pos.sync.events queue.
const (
	EventTypeOrder     = "order.updated"
	EventTypeHeartbeat = "heartbeat"
)

// SyncEnvelope wraps every inbound POS message with its type tag.
type SyncEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// OrderSyncEvent is the wire shape of one POS order event.  Field names
// follow the POS bridge contract: camelCase with externally-assigned
// identifiers under externalId.
type OrderSyncEvent struct {
	VenueID   uint64         `json:"venueId" validate:"required"`
	OrderData OrderEventData `json:"orderData" validate:"required"`
	StaffData *StaffData     `json:"staffData,omitempty"`
	TableData *TableData     `json:"tableData,omitempty"`
	ShiftData *ShiftData     `json:"shiftData,omitempty"`
}

// OrderEventData carries the order fields of an event.  Money fields
// omitted by the payload unmarshal to zero, matching the canonical
// schema where they are never null.
type OrderEventData struct {
	ExternalID     string          `json:"externalId" validate:"required"`
	OrderNumber    string          `json:"orderNumber"`
	Status         string          `json:"status"`
	PaymentStatus  string          `json:"paymentStatus"`
	Subtotal       float64         `json:"subtotal"`
	TaxAmount      float64         `json:"taxAmount"`
	DiscountAmount float64         `json:"discountAmount"`
	TipAmount      float64         `json:"tipAmount"`
	Total          float64         `json:"total"`
	CompletedAt    *time.Time      `json:"completedAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	POSRawData     json.RawMessage `json:"posRawData"`
}

// StaffData is the staff fragment of an order event.
type StaffData struct {
	POSStaffID string `json:"posStaffId"`
	Name       string `json:"name"`
	PIN        string `json:"pin"`
}

// TableData is the table fragment of an order event.
type TableData struct {
	ExternalID string `json:"externalId"`
	Number     uint32 `json:"number"`
	Capacity   uint32 `json:"capacity"`
}

// ShiftData is the shift fragment of an order event.
type ShiftData struct {
	ExternalID string     `json:"externalId"`
	StartTime  time.Time  `json:"startTime"`
	EndTime    *time.Time `json:"endTime,omitempty"`
}

// HeartbeatEvent is the wire shape of one POS liveness signal.
type HeartbeatEvent struct {
	VenueID         uint64    `json:"venueId" validate:"required"`
	InstanceID      string    `json:"instanceId" validate:"required"`
	ProducerVersion string    `json:"producerVersion"`
	Timestamp       time.Time `json:"timestamp"`
}

// ToOrderEvent converts the wire payload into the sync engine's form.
func (e OrderSyncEvent) ToOrderEvent() possync.OrderEvent {
	ev := possync.OrderEvent{
		VenueID: e.VenueID,
		Order: possync.OrderData{
			ExternalID:     e.OrderData.ExternalID,
			OrderNumber:    e.OrderData.OrderNumber,
			Status:         e.OrderData.Status,
			PaymentStatus:  e.OrderData.PaymentStatus,
			Subtotal:       e.OrderData.Subtotal,
			TaxAmount:      e.OrderData.TaxAmount,
			DiscountAmount: e.OrderData.DiscountAmount,
			TipAmount:      e.OrderData.TipAmount,
			Total:          e.OrderData.Total,
			CompletedAt:    e.OrderData.CompletedAt,
			CreatedAt:      e.OrderData.CreatedAt,
			RawData:        e.OrderData.POSRawData,
		},
	}
	if e.StaffData != nil {
		ev.Staff = &possync.StaffFragment{
			POSStaffID: e.StaffData.POSStaffID,
			Name:       e.StaffData.Name,
			PIN:        e.StaffData.PIN,
		}
	}
	if e.TableData != nil {
		ev.Table = &possync.TableFragment{
			ExternalID: e.TableData.ExternalID,
			Number:     e.TableData.Number,
			Capacity:   e.TableData.Capacity,
		}
	}
	if e.ShiftData != nil {
		ev.Shift = &possync.ShiftFragment{
			ExternalID: e.ShiftData.ExternalID,
			StartTime:  e.ShiftData.StartTime,
			EndTime:    e.ShiftData.EndTime,
		}
	}
	return ev
}

// ToHeartbeat converts the wire payload into the sync engine's form.
func (e HeartbeatEvent) ToHeartbeat() possync.Heartbeat {
	return possync.Heartbeat{
		VenueID:         e.VenueID,
		InstanceID:      e.InstanceID,
		ProducerVersion: e.ProducerVersion,
		Timestamp:       e.Timestamp,
	}
}
