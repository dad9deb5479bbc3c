package di

import (
	"bookpay/infras/kafka"
	"bookpay/infras/postgres"
	"bookpay/infras/rabbitmq"
	"bookpay/internal/domains/notification/worker"
	"bookpay/transport/http"
	"context"

	"github.com/rs/zerolog/log"
)

// App is the HTTP service together with the connections it must release on shutdown.
type App struct {
	HTTP  *http.HTTP
	DB    *postgres.Connection
	Kafka kafka.Client
	Queue rabbitmq.Client
}

func (a *App) Close(_ context.Context) {
	if err := a.Kafka.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close kafka writers")
	}

	if err := a.Queue.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close rabbitmq connection")
	}

	if err := a.DB.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close database connections")
	}
}

// Worker is the confirmation email consumer and the queue connection it owns.
type Worker struct {
	Worker *worker.Worker
	Queue  rabbitmq.Client
}

func (w *Worker) Close() {
	if err := w.Queue.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close rabbitmq connection")
	}
}
