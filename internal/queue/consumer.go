package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/Joseamica/backend/internal/possync"
)

const syncQueueName = "pos.sync.events"

// SyncConsumer consumes POS events from the broker and feeds them into
// the reconciler and the heartbeat monitor.  It runs a reconnect loop
// with capped exponential backoff; processing errors reject the
// offending message without requeueing so the loop keeps moving.
type SyncConsumer struct {
	url        string
	reconciler *possync.Reconciler
	monitor    *possync.Monitor
	log        *logrus.Logger
}

// NewSyncConsumer builds a consumer for the given broker URL.
func NewSyncConsumer(url string, rec *possync.Reconciler, mon *possync.Monitor, log *logrus.Logger) *SyncConsumer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SyncConsumer{url: url, reconciler: rec, monitor: mon, log: log}
}

// Run connects to the broker and consumes until the context is
// cancelled.
func (c *SyncConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.WithError(err).Warnf("sync consumer: dial failed; retrying in %s", backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := c.consumeLoop(ctx, conn); err != nil {
			_ = conn.Close()
			if errors.Is(err, context.Canceled) {
				return err
			}
			c.log.WithError(err).Warn("sync consumer: consume loop ended; reconnecting")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(2 * time.Second):
			}
		}
	}
}

func (c *SyncConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.WithError(err).Warn("sync consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(syncQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(syncQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handleMessage(ctx, d.Body); err != nil {
				c.log.WithError(err).Error("sync consumer: handle message failed")
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *SyncConsumer) handleMessage(ctx context.Context, body []byte) error {
	var env SyncEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}
	switch env.Type {
	case EventTypeOrder:
		var ev OrderSyncEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return fmt.Errorf("unmarshal order event: %w", err)
		}
		_, err := c.reconciler.ProcessOrderEvent(ctx, ev.ToOrderEvent())
		return err
	case EventTypeHeartbeat:
		var hb HeartbeatEvent
		if err := json.Unmarshal(env.Data, &hb); err != nil {
			return fmt.Errorf("unmarshal heartbeat: %w", err)
		}
		_, _, err := c.monitor.RecordHeartbeat(ctx, hb.ToHeartbeat())
		return err
	default:
		return fmt.Errorf("unknown event type %q", env.Type)
	}
}
