package possync

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Joseamica/backend/internal/model"
)

func nowUTC() time.Time { return time.Now().UTC() }

// Publisher delivers one command to the POS bridge.  The AMQP
// implementation lives in internal/queue.
type Publisher interface {
	PublishCommand(ctx context.Context, cmd model.PosCommand) error
}

// Dispatcher is the scheduler side of the outbox: it periodically claims
// PENDING commands, hands them to the publisher and records the outcome.
// Several dispatchers may run against the same outbox; StartAttempt
// arbitrates claims.
type Dispatcher struct {
	outbox   *Outbox
	pub      Publisher
	interval time.Duration
	batch    int
	log      *logrus.Logger
}

// NewDispatcher returns a Dispatcher that polls every interval and
// claims up to batch commands per pass.
func NewDispatcher(outbox *Outbox, pub Publisher, interval time.Duration, batch int, log *logrus.Logger) *Dispatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if batch < 1 {
		batch = 25
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{outbox: outbox, pub: pub, interval: interval, batch: batch, log: log}
}

// Run polls until the context is cancelled.  Delivery errors are
// recorded on the command and do not stop the loop.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := d.RunOnce(ctx); err != nil {
				d.log.WithError(err).Error("outbox dispatch pass failed")
			}
		}
	}
}

// RunOnce performs a single dispatch pass and returns how many commands
// were delivered successfully.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	pending, err := d.outbox.Pending(ctx, d.batch)
	if err != nil {
		return 0, err
	}
	delivered := 0
	for i := range pending {
		id := pending[i].ID
		cmd, err := d.outbox.StartAttempt(ctx, id)
		if errors.Is(err, ErrCommandNotPending) {
			continue
		}
		if err != nil {
			return delivered, err
		}

		pubErr := d.pub.PublishCommand(ctx, *cmd)
		if pubErr != nil {
			d.log.WithFields(logrus.Fields{
				"command_id": id,
				"attempts":   cmd.Attempts,
			}).WithError(pubErr).Warn("command delivery failed")
		}
		if _, err := d.outbox.MarkAttempt(ctx, id, pubErr == nil, errString(pubErr)); err != nil {
			return delivered, err
		}
		if pubErr == nil {
			delivered++
		}
	}
	return delivered, nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
