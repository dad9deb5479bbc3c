package worker

import (
	"bookpay/config"
	"bookpay/infras/mail"
	"bookpay/infras/rabbitmq"
	"bookpay/internal/domains/notification/model"
	"bookpay/internal/domains/notification/service"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const consumerName = "bookpay-email-worker"

// Worker consumes confirmation email jobs. A failed job is republished with Attempt+1
// after an exponential backoff, until MaxAttempts is reached.
type Worker struct {
	queue        rabbitmq.Client
	notification service.Notification
	queueName    string
	maxAttempts  int
	backoff      time.Duration
}

func New(queue rabbitmq.Client, notification service.Notification, cfg *config.Config) *Worker {
	return &Worker{
		queue:        queue,
		notification: notification,
		queueName:    cfg.RabbitMQ.EmailQueue,
		maxAttempts:  max(cfg.Notify.MaxAttempts, 1),
		backoff:      time.Duration(cfg.Notify.BackoffSeconds) * time.Second,
	}
}

// Run blocks until ctx is cancelled or the delivery channel closes.
func (w *Worker) Run(ctx context.Context) error {
	deliveries, err := w.queue.Consume(w.queueName, consumerName)
	if err != nil {
		return fmt.Errorf("failed to start email worker: %w", err)
	}

	log.Info().Str("queue", w.queueName).Msg("email worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("email worker stopping")

			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("email queue delivery channel closed")
			}

			w.Handle(ctx, delivery)
		}
	}
}

// Handle processes one delivery and always settles it with exactly one ack, nack or reject.
func (w *Worker) Handle(ctx context.Context, delivery amqp.Delivery) {
	var job model.EmailJob

	if err := json.Unmarshal(delivery.Body, &job); err != nil {
		log.Error().Err(err).Msg("dropping malformed email job")
		settle(delivery.Reject(false))

		return
	}

	logger := log.With().
		Str("jobId", job.JobID).
		Int64("bookingId", job.Confirmation.BookingID).
		Int("attempt", job.Attempt).
		Logger()

	err := w.notification.Deliver(ctx, job)
	if err == nil {
		logger.Info().Msg("confirmation email delivered")
		settle(delivery.Ack(false))

		return
	}

	if !Retryable(err) || job.Attempt+1 >= w.maxAttempts {
		logger.Error().Err(err).Msg("giving up on confirmation email")
		settle(delivery.Ack(false))

		return
	}

	wait := w.Backoff(job.Attempt)
	logger.Warn().Err(err).Dur("retryIn", wait).Msg("confirmation email failed, retrying")

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		settle(delivery.Nack(false, true))

		return
	case <-timer.C:
	}

	job.Attempt++

	if err = w.queue.Publish(ctx, w.queueName, job); err != nil {
		logger.Error().Err(err).Msg("failed to requeue confirmation email")
		settle(delivery.Nack(false, true))

		return
	}

	settle(delivery.Ack(false))
}

// Backoff doubles the configured base delay for every prior attempt.
func (w *Worker) Backoff(attempt int) time.Duration {
	return w.backoff << min(attempt, 16) //nolint:mnd
}

// Retryable reports whether a delivery error may succeed on a later attempt.
func Retryable(err error) bool {
	switch {
	case errors.Is(err, mail.ErrNoRecipient),
		errors.Is(err, model.ErrMissingRecipient),
		errors.Is(err, model.ErrRender):
		return false
	default:
		return true
	}
}

func settle(err error) {
	if err != nil {
		log.Error().Err(err).Msg("failed to settle email job delivery")
	}
}
