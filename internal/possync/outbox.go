package possync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Joseamica/backend/internal/model"
	"github.com/Joseamica/backend/internal/apperrors"
)

// ErrCommandNotPending is returned by StartAttempt when the command was
// already claimed or finished.
var ErrCommandNotPending = errors.New("command is not pending")

// Outbox is the durable queue of outbound mutations targeted at the POS.
// It only records state; scheduling and backoff belong to the
// dispatcher.  Attempts increment on every delivery try regardless of
// outcome, and a failed try below the attempt ceiling returns the
// command to PENDING for a later pass.
type Outbox struct {
	store       CommandStore
	maxAttempts int
}

// NewOutbox returns an Outbox that allows up to maxAttempts delivery
// tries before a command is marked FAILED.
func NewOutbox(store CommandStore, maxAttempts int) *Outbox {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Outbox{store: store, maxAttempts: maxAttempts}
}

// Enqueue records a new PENDING command.  entityType and entityID
// identify the canonical-DB row the command concerns.
func (o *Outbox) Enqueue(ctx context.Context, venueID uint64, entityType string, entityID uint64, commandType model.CommandType, payload json.RawMessage) (*model.PosCommand, error) {
	if entityType == "" {
		return nil, fmt.Errorf("entity type is required")
	}
	if payload == nil {
		payload = json.RawMessage("{}")
	}
	cmd := &model.PosCommand{
		ID:          uuid.NewString(),
		VenueID:     venueID,
		EntityType:  entityType,
		EntityID:    entityID,
		CommandType: commandType,
		Payload:     payload,
		Status:      model.CommandPending,
	}
	if err := o.store.Insert(ctx, cmd); err != nil {
		return nil, err
	}
	return cmd, nil
}

// Get returns a command by ID.
func (o *Outbox) Get(ctx context.Context, id string) (*model.PosCommand, error) {
	return o.store.GetByID(ctx, id)
}

// Pending returns up to limit PENDING commands in enqueue order.
func (o *Outbox) Pending(ctx context.Context, limit int) ([]model.PosCommand, error) {
	return o.store.ListPending(ctx, limit)
}

// StartAttempt claims a PENDING command for delivery: status moves to
// PROCESSING and the attempt counter increments.  ErrCommandNotPending
// is returned when another dispatcher got there first.
func (o *Outbox) StartAttempt(ctx context.Context, id string) (*model.PosCommand, error) {
	if err := o.store.StartAttempt(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrCommandNotPending
		}
		return nil, err
	}
	return o.store.GetByID(ctx, id)
}

// MarkAttempt records the outcome of a delivery try.  Success moves the
// command to COMPLETED and stamps completedAt.  Failure returns it to
// PENDING until the attempt ceiling is reached, after which it is FAILED
// with the error message preserved.
func (o *Outbox) MarkAttempt(ctx context.Context, id string, success bool, errMsg string) (*model.PosCommand, error) {
	cmd, err := o.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if success {
		cmd.Status = model.CommandCompleted
		now := nowUTC()
		cmd.CompletedAt = &now
		cmd.ErrorMessage = nil
	} else {
		if errMsg != "" {
			cmd.ErrorMessage = &errMsg
		}
		if cmd.Attempts >= o.maxAttempts {
			cmd.Status = model.CommandFailed
		} else {
			cmd.Status = model.CommandPending
		}
	}
	if err := o.store.Finish(ctx, cmd); err != nil {
		return nil, err
	}
	return cmd, nil
}
