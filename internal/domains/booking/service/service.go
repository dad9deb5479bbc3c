package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"bookpay/config"
	"bookpay/infras/otel"
	"bookpay/internal/domains/booking/model"
	"bookpay/internal/domains/booking/model/dto"
	"bookpay/internal/domains/booking/repository"
	"bookpay/shared"
	"bookpay/shared/cache"
	"bookpay/shared/constant"
	"bookpay/shared/failure"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetPaymentSummary = "booking:payment"
)

type Booking interface {
	GetPaymentSummary(ctx context.Context, bookingID int64) (dto.PaymentSummaryResponse, error)
	InvalidatePaymentSummary(ctx context.Context, bookingID int64)
}

type serviceImpl struct {
	repo  repository.Booking
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) GetPaymentSummary(ctx context.Context, bookingID int64) (res dto.PaymentSummaryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetPaymentSummary")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetPaymentSummary, bookingID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking payment summary")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(bookingID, model.FieldBookingID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("bookingId", bookingID).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.BookingID == 0 {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking payment summary to cache")
		}
	}()

	return res, nil
}

// InvalidatePaymentSummary drops the cached summary. Failures are logged only.
func (s *serviceImpl) InvalidatePaymentSummary(ctx context.Context, bookingID int64) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".InvalidatePaymentSummary")
	defer scope.End()

	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetPaymentSummary, bookingID)); err != nil {
		log.Error().Err(err).Int64("bookingId", bookingID).Msg("failed to delete booking payment summary from cache")
	}
}
