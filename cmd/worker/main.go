package main

import (
	"bookpay/config"
	"bookpay/di"
	"bookpay/shared/logger"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := di.InitializeWorker()
	defer worker.Close()

	if err := worker.Worker.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Email worker stopped")

		return
	}

	log.Info().Msg("Email worker shut down cleanly")
}
