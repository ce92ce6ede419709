package possync

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joseamica/backend/internal/model"
)

func TestEnqueueDefaults(t *testing.T) {
	store := newFakeCmdStore()
	o := NewOutbox(store, 3)

	cmd, err := o.Enqueue(context.Background(), 1, "order", 42, model.CommandCancel, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, cmd.ID)
	assert.Equal(t, model.CommandPending, cmd.Status)
	assert.Equal(t, json.RawMessage("{}"), cmd.Payload)
	assert.Zero(t, cmd.Attempts)

	_, err = o.Enqueue(context.Background(), 1, "", 42, model.CommandCancel, nil)
	assert.Error(t, err)
}

func TestStartAttemptClaimsCommand(t *testing.T) {
	store := newFakeCmdStore()
	o := NewOutbox(store, 3)
	cmd, err := o.Enqueue(context.Background(), 1, "order", 42, model.CommandUpdate, nil)
	require.NoError(t, err)

	claimed, err := o.StartAttempt(context.Background(), cmd.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CommandProcessing, claimed.Status)
	assert.Equal(t, 1, claimed.Attempts)

	// A second claim on the same command loses.
	_, err = o.StartAttempt(context.Background(), cmd.ID)
	assert.ErrorIs(t, err, ErrCommandNotPending)
}

func TestMarkAttemptSuccess(t *testing.T) {
	store := newFakeCmdStore()
	o := NewOutbox(store, 3)
	cmd, err := o.Enqueue(context.Background(), 1, "order", 42, model.CommandUpdate, nil)
	require.NoError(t, err)
	_, err = o.StartAttempt(context.Background(), cmd.ID)
	require.NoError(t, err)

	done, err := o.MarkAttempt(context.Background(), cmd.ID, true, "")
	require.NoError(t, err)
	assert.Equal(t, model.CommandCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)
	assert.Nil(t, done.ErrorMessage)
}

func TestMarkAttemptFailureRetriesUntilCeiling(t *testing.T) {
	store := newFakeCmdStore()
	o := NewOutbox(store, 2)
	cmd, err := o.Enqueue(context.Background(), 1, "order", 42, model.CommandDelete, nil)
	require.NoError(t, err)
	ctx := context.Background()

	// First failure: back to PENDING with the error kept.
	_, err = o.StartAttempt(ctx, cmd.ID)
	require.NoError(t, err)
	after, err := o.MarkAttempt(ctx, cmd.ID, false, "bridge unreachable")
	require.NoError(t, err)
	assert.Equal(t, model.CommandPending, after.Status)
	require.NotNil(t, after.ErrorMessage)
	assert.Equal(t, "bridge unreachable", *after.ErrorMessage)

	// Second failure hits the ceiling.
	_, err = o.StartAttempt(ctx, cmd.ID)
	require.NoError(t, err)
	after, err = o.MarkAttempt(ctx, cmd.ID, false, "bridge unreachable")
	require.NoError(t, err)
	assert.Equal(t, model.CommandFailed, after.Status)
	assert.Equal(t, 2, after.Attempts)

	// A FAILED command cannot be claimed again.
	_, err = o.StartAttempt(ctx, cmd.ID)
	assert.ErrorIs(t, err, ErrCommandNotPending)
}
