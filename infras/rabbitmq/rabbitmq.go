package rabbitmq

//go:generate go run go.uber.org/mock/mockgen -source=./rabbitmq.go -destination=./mocks/rabbitmq_mock.go -package=mocks

import (
	"bookpay/config"
	"bookpay/shared/constant"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const prefetchCount = 1

// Client publishes JSON jobs to durable queues and consumes them with manual acks.
type Client interface {
	DeclareQueue(name string) error
	Publish(ctx context.Context, queue string, body any) error
	Consume(queue, consumer string) (<-chan amqp.Delivery, error)
	Close() error
}

type rabbitmqClient struct {
	conn *amqp.Connection
	chn  *amqp.Channel
	// amqp channels are not safe for concurrent publishing
	mu sync.Mutex
}

func New(config *config.Config) Client {
	conn, err := amqp.Dial(config.RabbitMQ.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
	}

	chn, err := conn.Channel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open RabbitMQ channel")
	}

	if err = chn.Qos(prefetchCount, 0, false); err != nil {
		log.Fatal().Err(err).Msg("Failed to set RabbitMQ prefetch")
	}

	client := &rabbitmqClient{
		conn: conn,
		chn:  chn,
	}

	if err = client.DeclareQueue(config.RabbitMQ.EmailQueue); err != nil {
		log.Fatal().Err(err).Str("queue", config.RabbitMQ.EmailQueue).Msg("Failed to declare RabbitMQ queue")
	}

	log.Info().Str("queue", config.RabbitMQ.EmailQueue).Msg("Connected to RabbitMQ")

	return client
}

func (r *rabbitmqClient) DeclareQueue(name string) error {
	_, err := r.chn.QueueDeclare(
		name,
		true,  // durable
		false, // auto delete
		false, // exclusive
		false, // no wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", name, err)
	}

	return nil
}

func (r *rabbitmqClient) Publish(ctx context.Context, queue string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal queue message: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.chn.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  constant.ContentTypeJSON,
		DeliveryMode: amqp.Persistent,
		Body:         payload,
	})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("Failed to publish message to RabbitMQ")

		return fmt.Errorf("failed to publish to queue %s: %w", queue, err)
	}

	return nil
}

func (r *rabbitmqClient) Consume(queue, consumer string) (<-chan amqp.Delivery, error) {
	deliveries, err := r.chn.Consume(
		queue,
		consumer,
		false, // auto ack
		false, // exclusive
		false, // no local
		false, // no wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to consume queue %s: %w", queue, err)
	}

	return deliveries, nil
}

func (r *rabbitmqClient) Close() error {
	if err := r.chn.Close(); err != nil {
		return fmt.Errorf("failed to close channel: %w", err)
	}

	if err := r.conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}

	return nil
}
