package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderSyncEventDecode(t *testing.T) {
	payload := `{
		"venueId": 7,
		"orderData": {
			"externalId": "pos-20260301-1042",
			"orderNumber": "1042",
			"status": "COMPLETED",
			"paymentStatus": "PAID",
			"subtotal": 118.0,
			"taxAmount": 18.88,
			"total": 136.88,
			"completedAt": "2026-03-01T14:22:05Z",
			"createdAt": "2026-03-01T13:40:11Z",
			"posRawData": {"ticket": 1042}
		},
		"staffData": {"posStaffId": "emp-7", "name": "Ana", "pin": "4821"},
		"tableData": {"externalId": "t-12", "number": 12, "capacity": 4},
		"shiftData": {"externalId": "sh-0301", "startTime": "2026-03-01T08:00:00Z"}
	}`

	var wire OrderSyncEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &wire))

	ev := wire.ToOrderEvent()
	assert.Equal(t, uint64(7), ev.VenueID)
	assert.Equal(t, "pos-20260301-1042", ev.Order.ExternalID)
	assert.Equal(t, "COMPLETED", ev.Order.Status)
	assert.InDelta(t, 136.88, ev.Order.Total, 0.001)
	// Money fields absent from the payload stay zero.
	assert.Zero(t, ev.Order.DiscountAmount)
	assert.Zero(t, ev.Order.TipAmount)
	require.NotNil(t, ev.Order.CompletedAt)
	assert.Equal(t, time.Date(2026, 3, 1, 14, 22, 5, 0, time.UTC), ev.Order.CompletedAt.UTC())
	assert.JSONEq(t, `{"ticket":1042}`, string(ev.Order.RawData))

	require.NotNil(t, ev.Staff)
	assert.Equal(t, "emp-7", ev.Staff.POSStaffID)
	require.NotNil(t, ev.Table)
	assert.Equal(t, uint32(12), ev.Table.Number)
	require.NotNil(t, ev.Shift)
	assert.Nil(t, ev.Shift.EndTime)
}

func TestOrderSyncEventFragmentsOptional(t *testing.T) {
	payload := `{"venueId": 7, "orderData": {"externalId": "pos-1"}}`

	var wire OrderSyncEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &wire))

	ev := wire.ToOrderEvent()
	assert.Nil(t, ev.Staff)
	assert.Nil(t, ev.Table)
	assert.Nil(t, ev.Shift)
}

func TestSyncEnvelopeDispatch(t *testing.T) {
	raw := `{"type": "heartbeat", "data": {"venueId": 7, "instanceId": "pos-db-a", "producerVersion": "2.4.0", "timestamp": "2026-03-01T14:22:05Z"}}`

	var env SyncEnvelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	require.Equal(t, EventTypeHeartbeat, env.Type)

	var hb HeartbeatEvent
	require.NoError(t, json.Unmarshal(env.Data, &hb))
	got := hb.ToHeartbeat()
	assert.Equal(t, uint64(7), got.VenueID)
	assert.Equal(t, "pos-db-a", got.InstanceID)
	assert.Equal(t, "2.4.0", got.ProducerVersion)
	assert.Equal(t, time.Date(2026, 3, 1, 14, 22, 5, 0, time.UTC), got.Timestamp.UTC())
}
