//go:build wireinject
// +build wireinject

package di

import (
	"bookpay/config"
	"bookpay/infras/jwt"
	"bookpay/infras/kafka"
	"bookpay/infras/mail"
	"bookpay/infras/otel"
	"bookpay/infras/postgres"
	"bookpay/infras/rabbitmq"
	"bookpay/infras/redis"
	"bookpay/internal/session"
	"bookpay/shared/cache"
	"bookpay/transport/http"
	"bookpay/transport/http/middleware"
	"bookpay/transport/http/router"

	bookingRepository "bookpay/internal/domains/booking/repository"
	bookingService "bookpay/internal/domains/booking/service"
	notificationService "bookpay/internal/domains/notification/service"
	notificationWorker "bookpay/internal/domains/notification/worker"
	paymentEvent "bookpay/internal/domains/payment/event"
	paymentService "bookpay/internal/domains/payment/service"
	voucherRepository "bookpay/internal/domains/voucher/repository"
	bookingHandler "bookpay/internal/handlers/booking"
	paymentHandler "bookpay/internal/handlers/payment"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTxManager,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	rabbitmq.New,
	mail.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewSessionMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	session.NewStore,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var voucherDomain = wire.NewSet(
	voucherRepository.New,
)

var notificationDomain = wire.NewSet(
	notificationService.New,
)

var paymentDomain = wire.NewSet(
	paymentEvent.New,
	paymentService.New,
)

var domains = wire.NewSet(
	bookingDomain,
	voucherDomain,
	notificationDomain,
	paymentDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	paymentHandler.New,
	router.New,
)

func InitializeService() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}

func InitializeWorker() *Worker {
	wire.Build(
		configurations,
		otel.New,
		rabbitmq.New,
		mail.New,
		notificationDomain,
		notificationWorker.New,
		wire.Struct(new(Worker), "*"),
	)

	return &Worker{}
}
