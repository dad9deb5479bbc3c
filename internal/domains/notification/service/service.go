package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"bookpay/config"
	"bookpay/infras/mail"
	"bookpay/infras/otel"
	"bookpay/infras/rabbitmq"
	"bookpay/internal/domains/notification/model"
	"bookpay/shared/constant"
	"bookpay/shared/timezone"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Notification interface {
	// Enqueue hands the confirmation to the email queue and returns once the broker has it.
	Enqueue(ctx context.Context, confirmation model.PaymentConfirmation) (model.EmailJob, error)
	// Deliver renders and sends one job. Called by the worker.
	Deliver(ctx context.Context, job model.EmailJob) error
}

type serviceImpl struct {
	queue  rabbitmq.Client
	sender mail.Sender
	cfg    *config.Config
	otel   otel.Otel
}

func New(queue rabbitmq.Client, sender mail.Sender, cfg *config.Config, otel otel.Otel) Notification {
	return &serviceImpl{
		queue:  queue,
		sender: sender,
		cfg:    cfg,
		otel:   otel,
	}
}

func (s *serviceImpl) Enqueue(ctx context.Context, confirmation model.PaymentConfirmation) (job model.EmailJob, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelQueueScopeName, constant.OtelQueueScopeName+".EnqueueConfirmationEmail")
	defer scope.End()
	defer scope.TraceIfError(err)

	if confirmation.CustomerEmail == "" {
		return job, fmt.Errorf("booking %d: %w", confirmation.BookingID, model.ErrMissingRecipient)
	}

	job = model.EmailJob{
		JobID:        uuid.NewString(),
		CreatedAt:    timezone.Now(),
		Confirmation: confirmation,
	}

	scope.SetAttributes(map[string]any{"jobId": job.JobID, "bookingId": confirmation.BookingID})

	if err = s.queue.Publish(ctx, s.cfg.RabbitMQ.EmailQueue, job); err != nil {
		return job, fmt.Errorf("failed to enqueue confirmation email: %w", err)
	}

	log.Info().
		Str("jobId", job.JobID).
		Int64("bookingId", confirmation.BookingID).
		Msg("confirmation email queued")

	return job, nil
}

func (s *serviceImpl) Deliver(ctx context.Context, job model.EmailJob) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeliverConfirmationEmail")
	defer scope.End()
	defer scope.TraceIfError(err)

	message, err := s.buildMessage(job.Confirmation)
	if err != nil {
		return err
	}

	if err = s.sender.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to send confirmation email (job %s): %w", job.JobID, err)
	}

	return nil
}

func (s *serviceImpl) buildMessage(c model.PaymentConfirmation) (mail.Message, error) {
	if c.CustomerEmail == "" {
		return mail.Message{}, fmt.Errorf("booking %d: %w", c.BookingID, model.ErrMissingRecipient)
	}

	body, err := render(s.cfg.App.Name, s.cfg.App.Currency, c)
	if err != nil {
		return mail.Message{}, err
	}

	message := mail.Message{
		To:      c.CustomerEmail,
		Subject: body.Subject,
		Text:    body.Text,
		HTML:    body.HTML,
	}

	// the receipt is a convenience, the mail goes out without it
	receipt, err := buildReceipt(s.cfg.App.Name, c)
	if err != nil {
		log.Warn().Err(err).Int64("bookingId", c.BookingID).Msg("sending confirmation email without receipt")

		return message, nil
	}

	message.Attachments = []mail.Attachment{{
		Name:        receiptName(c.BookingID),
		ContentType: constant.ContentTypePDF,
		Data:        receipt,
	}}

	return message, nil
}
