// Package consumer implements the Event Consumer (§4.1): it decodes messages off the
// event log, looks up the handler for each event type, and dispatches to the Delivery
// Queue, acknowledging or dead-lettering per the outcome.
package consumer

import (
	"context"
	"errors"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/Wadijet/notifyhub/core/common"
	"github.com/Wadijet/notifyhub/core/logger"
	"github.com/Wadijet/notifyhub/internal/events"
)

// prefetchCount bounds how many unacked messages a single channel holds at once, so one
// slow handler doesn't starve the rest of the consumer group's workers.
const prefetchCount = 32

// Consumer owns one AMQP connection and channel shared across every configured topic
// (§4.1, SPEC_FULL.md §B).
type Consumer struct {
	conn            *amqp.Connection
	ch              *amqp.Channel
	consumerGroup   string
	topics          []string
	handlerDeadline time.Duration
	dispatcher      *Dispatcher
}

// New dials RabbitMQ and declares the topology (exchange, queue, dead-letter queue) for
// every topic in topics. The returned Consumer is ready for Run.
func New(url, consumerGroup string, topics []string, handlerDeadline time.Duration, dispatcher *Dispatcher) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.Qos(prefetchCount, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	for _, topic := range topics {
		if _, err := declareTopology(ch, topic, consumerGroup); err != nil {
			ch.Close()
			conn.Close()
			return nil, err
		}
	}

	return &Consumer{
		conn:            conn,
		ch:              ch,
		consumerGroup:   consumerGroup,
		topics:          topics,
		handlerDeadline: handlerDeadline,
		dispatcher:      dispatcher,
	}, nil
}

// ParseTopics splits a comma-separated config value into a clean topic list.
func ParseTopics(raw string) []string {
	parts := strings.Split(raw, ",")
	topics := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			topics = append(topics, p)
		}
	}
	return topics
}

// Run launches one consume loop per topic and blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	done := make(chan struct{}, len(c.topics))
	for _, topic := range c.topics {
		queueName := topic + "." + c.consumerGroup
		deliveries, err := c.ch.Consume(queueName, "", false, false, false, false, nil)
		if err != nil {
			return err
		}
		go func(topic string, deliveries <-chan amqp.Delivery) {
			c.consumeLoop(ctx, topic, deliveries)
			done <- struct{}{}
		}(topic, deliveries)
	}

	<-ctx.Done()
	for range c.topics {
		<-done
	}
	return nil
}

// Close tears down the channel and connection.
func (c *Consumer) Close() {
	if c.ch != nil {
		c.ch.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, topic string, deliveries <-chan amqp.Delivery) {
	log := logger.GetAppLogger().WithField("topic", topic)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-deliveries:
			if !ok {
				return
			}
			c.handle(ctx, log, msg)
		}
	}
}

// handle implements the decode -> lookup -> dispatch -> ack/nack flow (§4.1 steps 1-3,
// §8 boundary behaviour for malformed envelopes and unknown event types).
func (c *Consumer) handle(ctx context.Context, log *logrus.Entry, msg amqp.Delivery) {
	ev, err := events.Decode(msg.Body)
	if err != nil {
		log.WithError(err).Warn("malformed event envelope, dead-lettering")
		_ = msg.Nack(false, false)
		return
	}

	entryLog := logger.WithTenant(ev.TenantID).WithField("eventType", ev.EventType)

	deadline, cancel := context.WithTimeout(ctx, c.handlerDeadline)
	defer cancel()

	err = c.dispatcher.Dispatch(deadline, ev)
	switch {
	case err == nil:
		_ = msg.Ack(false)
	case errors.Is(err, ErrNoHandler):
		entryLog.Info("no handler registered for event type, committing without delivery")
		_ = msg.Ack(false)
	case errors.Is(err, common.ErrNonRetriable):
		entryLog.WithError(err).Warn("non-retriable dispatch failure, dead-lettering")
		_ = msg.Nack(false, false)
	default:
		entryLog.WithError(err).Warn("retriable dispatch failure, requeueing")
		_ = msg.Nack(false, true)
	}
}
