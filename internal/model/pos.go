package model

import (
	"encoding/json"
	"time"
)

// Connection liveness states for a venue's POS bridge.
const (
	ConnectionOnline              ConnectionStatus = "ONLINE"
	ConnectionOffline             ConnectionStatus = "OFFLINE"
	ConnectionNeedsReconciliation ConnectionStatus = "NEEDS_RECONCILIATION"
)

// ConnectionStatus is the liveness state of a venue's POS connection.
type ConnectionStatus string

// PosConnectionStatus is the singleton per-venue liveness record for the
// POS bridge (venue_id is unique).  It is mutated only by the heartbeat
// monitor.  InstanceID identifies the specific POS database installation;
// when it changes between heartbeats the venue is flagged
// NEEDS_RECONCILIATION until an operator acknowledges it, because the
// upstream data source may have been swapped (backup restore, migration).
type PosConnectionStatus struct {
	ID              uint64           // pos_connection_status.id
	VenueID         uint64           // pos_connection_status.venue_id (unique)
	Status          ConnectionStatus // pos_connection_status.status
	InstanceID      string           // pos_connection_status.instance_id
	ProducerVersion string           // pos_connection_status.producer_version
	LastHeartbeatAt time.Time        // pos_connection_status.last_heartbeat_at
	CreatedAt       time.Time        // pos_connection_status.created_at
	UpdatedAt       time.Time        // pos_connection_status.updated_at
}

// Outbound command lifecycle states.
const (
	CommandPending    CommandStatus = "PENDING"
	CommandProcessing CommandStatus = "PROCESSING"
	CommandCompleted  CommandStatus = "COMPLETED"
	CommandFailed     CommandStatus = "FAILED"
)

// CommandStatus is the delivery state of an outbound POS command.
type CommandStatus string

// Outbound mutation kinds understood by the POS bridge.
const (
	CommandCreate CommandType = "CREATE"
	CommandUpdate CommandType = "UPDATE"
	CommandDelete CommandType = "DELETE"
	CommandCancel CommandType = "CANCEL"
)

// CommandType names the mutation an outbound command asks the POS to apply.
type CommandType string

// PosCommand is a durable outbox record for a mutation targeted at the
// POS.  EntityType and EntityID identify the canonical-DB row the command
// concerns.  Attempts is incremented on every delivery try regardless of
// outcome; retry policy lives with the dispatcher, the record only tracks
// state.
type PosCommand struct {
	ID           string          // pos_commands.id (UUID)
	VenueID      uint64          // pos_commands.venue_id
	EntityType   string          // pos_commands.entity_type (e.g. "order")
	EntityID     uint64          // pos_commands.entity_id
	CommandType  CommandType     // pos_commands.command_type
	Payload      json.RawMessage // pos_commands.payload (JSON column)
	Status       CommandStatus   // pos_commands.status
	Attempts     int             // pos_commands.attempts
	ErrorMessage *string         // pos_commands.error_message (nullable)
	CompletedAt  *time.Time      // pos_commands.completed_at (nullable)
	CreatedAt    time.Time       // pos_commands.created_at
	UpdatedAt    time.Time       // pos_commands.updated_at
}
