package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/Joseamica/backend/internal/model"
)

const commandQueueName = "pos.commands"

// CommandMessage is the wire shape of one outbound command delivered to
// the POS bridge.
type CommandMessage struct {
	ID          string            `json:"id"`
	VenueID     uint64            `json:"venueId"`
	EntityType  string            `json:"entityType"`
	EntityID    uint64            `json:"entityId"`
	CommandType model.CommandType `json:"commandType"`
	Payload     json.RawMessage   `json:"payload"`
	Attempt     int               `json:"attempt"`
}

// CommandPublisher delivers outbox commands to the pos.commands queue.
// It dials per publish so a broker restart between dispatch passes needs
// no connection management here; failures are logged and returned for
// the outbox to record.  Messages are persistent and the queue durable.
type CommandPublisher struct {
	url string
	log *logrus.Logger
}

// NewCommandPublisher builds a publisher for the given broker URL.
func NewCommandPublisher(url string, log *logrus.Logger) *CommandPublisher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CommandPublisher{url: url, log: log}
}

// PublishCommand implements possync.Publisher.
func (p *CommandPublisher) PublishCommand(ctx context.Context, cmd model.PosCommand) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.WithError(err).Warn("command publisher: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.WithError(err).Warn("command publisher: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(commandQueueName, true, false, false, false, nil); err != nil {
		p.log.WithError(err).Warn("command publisher: queue declare failed")
		return err
	}

	body, err := json.Marshal(CommandMessage{
		ID:          cmd.ID,
		VenueID:     cmd.VenueID,
		EntityType:  cmd.EntityType,
		EntityID:    cmd.EntityID,
		CommandType: cmd.CommandType,
		Payload:     cmd.Payload,
		Attempt:     cmd.Attempts,
	})
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    cmd.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", commandQueueName, false, false, pub); err != nil {
		p.log.WithError(err).Warn("command publisher: publish failed")
		return err
	}
	return nil
}
