package event

//go:generate go run go.uber.org/mock/mockgen -source=./publisher.go -destination=../mocks/event_mock.go -package=mocks

import (
	"bookpay/config"
	"bookpay/infras/kafka"
	"bookpay/infras/otel"
	"bookpay/internal/domains/payment/model"
	"bookpay/shared/constant"
	"context"
	"fmt"
	"strconv"
)

const headerEventType = "event-type"

type Publisher interface {
	PaymentConfirmed(ctx context.Context, evt model.PaymentConfirmedEvent) error
}

type kafkaPublisher struct {
	client kafka.Client
	topic  string
	otel   otel.Otel
}

func New(client kafka.Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &kafkaPublisher{
		client: client,
		topic:  cfg.Kafka.Topics.PaymentConfirmed,
		otel:   otel,
	}
}

// PaymentConfirmed is keyed by booking id so one booking's events stay on one partition.
func (p *kafkaPublisher) PaymentConfirmed(ctx context.Context, evt model.PaymentConfirmedEvent) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".PaymentConfirmed")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("topic", p.topic)

	err = p.client.SendMessages(ctx, p.topic, kafka.Message{
		Key:     strconv.FormatInt(evt.BookingID, 10),
		Value:   evt,
		Headers: map[string]string{headerEventType: model.EventPaymentConfirmed},
	})
	if err != nil {
		return fmt.Errorf("failed to publish payment confirmed event: %w", err)
	}

	return nil
}
