package possync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joseamica/backend/internal/model"
)

// fakePublisher records published commands and can be told to fail for
// specific entity IDs.
type fakePublisher struct {
	published []string
	failFor   map[uint64]error
}

func (p *fakePublisher) PublishCommand(_ context.Context, cmd model.PosCommand) error {
	if err, ok := p.failFor[cmd.EntityID]; ok {
		return err
	}
	p.published = append(p.published, cmd.ID)
	return nil
}

func TestRunOnceDeliversPendingCommands(t *testing.T) {
	store := newFakeCmdStore()
	o := NewOutbox(store, 3)
	ctx := context.Background()

	a, err := o.Enqueue(ctx, 1, "order", 1, model.CommandUpdate, nil)
	require.NoError(t, err)
	b, err := o.Enqueue(ctx, 1, "order", 2, model.CommandCancel, nil)
	require.NoError(t, err)

	pub := &fakePublisher{}
	d := NewDispatcher(o, pub, 0, 0, newTestLogger())

	n, err := d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{a.ID, b.ID}, pub.published)

	for _, id := range []string{a.ID, b.ID} {
		cmd, err := o.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.CommandCompleted, cmd.Status)
	}

	// Nothing left on the next pass.
	n, err = d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunOnceKeepsFailedDeliveryPending(t *testing.T) {
	store := newFakeCmdStore()
	o := NewOutbox(store, 3)
	ctx := context.Background()

	good, err := o.Enqueue(ctx, 1, "order", 1, model.CommandUpdate, nil)
	require.NoError(t, err)
	bad, err := o.Enqueue(ctx, 1, "order", 2, model.CommandUpdate, nil)
	require.NoError(t, err)

	pub := &fakePublisher{failFor: map[uint64]error{2: errors.New("broker down")}}
	d := NewDispatcher(o, pub, 0, 0, newTestLogger())

	n, err := d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	delivered, err := o.Get(ctx, good.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CommandCompleted, delivered.Status)

	retried, err := o.Get(ctx, bad.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CommandPending, retried.Status)
	assert.Equal(t, 1, retried.Attempts)
	require.NotNil(t, retried.ErrorMessage)
	assert.Equal(t, "broker down", *retried.ErrorMessage)
}

func TestRunOnceSkipsCommandsClaimedElsewhere(t *testing.T) {
	store := newFakeCmdStore()
	o := NewOutbox(store, 3)
	ctx := context.Background()

	cmd, err := o.Enqueue(ctx, 1, "order", 1, model.CommandUpdate, nil)
	require.NoError(t, err)

	pub := &fakePublisher{}
	d := NewDispatcher(o, pub, 0, 0, newTestLogger())

	// Another dispatcher claims the command between listing and claiming.
	store.afterList = func() {
		require.NoError(t, store.StartAttempt(ctx, cmd.ID))
	}

	n, err := d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, pub.published)
}
