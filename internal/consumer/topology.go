package consumer

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// topology declares, per topic, a topic exchange plus one queue shared by the service
// instance's consumer group and a dead-letter queue for non-retriable failures (§4.1,
// SPEC_FULL.md §B): manual ack commits the offset; nack+requeue asks for redelivery;
// nack without requeue routes to the `<topic>.dead` queue via a dead-letter exchange.
func declareTopology(ch *amqp.Channel, topic, consumerGroup string) (queueName string, err error) {
	exchange := "notifyhub." + topic
	deadExchange := exchange + ".dead"
	queueName = fmt.Sprintf("%s.%s", topic, consumerGroup)
	deadQueueName := topic + ".dead"

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return "", fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	if err := ch.ExchangeDeclare(deadExchange, "fanout", true, false, false, false, nil); err != nil {
		return "", fmt.Errorf("declare dead exchange %s: %w", deadExchange, err)
	}
	if _, err := ch.QueueDeclare(deadQueueName, true, false, false, false, nil); err != nil {
		return "", fmt.Errorf("declare dead queue %s: %w", deadQueueName, err)
	}
	if err := ch.QueueBind(deadQueueName, "", deadExchange, false, nil); err != nil {
		return "", fmt.Errorf("bind dead queue %s: %w", deadQueueName, err)
	}

	args := amqp.Table{"x-dead-letter-exchange": deadExchange}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, args); err != nil {
		return "", fmt.Errorf("declare queue %s: %w", queueName, err)
	}
	if err := ch.QueueBind(queueName, "#", exchange, false, nil); err != nil {
		return "", fmt.Errorf("bind queue %s: %w", queueName, err)
	}
	return queueName, nil
}
