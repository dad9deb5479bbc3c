package service

import (
	bookingModel "bookpay/internal/domains/booking/model"
	"bookpay/internal/domains/booking/repository"
	"bookpay/internal/domains/payment/model"
	"bookpay/internal/session"
	"bookpay/shared"
	gDto "bookpay/shared/dto"
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
)

const (
	StrategySession = "session"
	StrategyAmount  = "amount"
	StrategyStatus  = "status"
)

// Verifier is one way of deciding that a payment for a booking really happened.
type Verifier interface {
	Name() string
	Verify(ctx context.Context, sess *session.Session, req model.Request) (bool, error)
}

// NewVerifiers returns the strategies in the order they are tried.
func NewVerifiers(repo repository.Booking) []Verifier {
	return []Verifier{
		sessionVerifier{},
		amountVerifier{repo: repo},
		statusVerifier{repo: repo},
	}
}

// verify returns the name of the first strategy that accepts the payment.
// A strategy that errors counts as a rejection.
func verify(ctx context.Context, verifiers []Verifier, sess *session.Session, req model.Request) (string, bool) {
	for _, verifier := range verifiers {
		ok, err := verifier.Verify(ctx, sess, req)
		if err != nil {
			log.Error().
				Err(err).
				Str("strategy", verifier.Name()).
				Int64("bookingId", req.BookingID).
				Msg("payment verification strategy failed")

			continue
		}

		if ok {
			return verifier.Name(), true
		}
	}

	return "", false
}

type sessionVerifier struct{}

func (sessionVerifier) Name() string { return StrategySession }

func (sessionVerifier) Verify(_ context.Context, sess *session.Session, req model.Request) (bool, error) {
	return sess != nil && sess.HasPendingPayment(req.BookingID), nil
}

// amountVerifier accepts when the booking already records this exact amount as its last payment.
type amountVerifier struct {
	repo repository.Booking
}

func (amountVerifier) Name() string { return StrategyAmount }

func (v amountVerifier) Verify(ctx context.Context, _ *session.Session, req model.Request) (bool, error) {
	exist, err := v.repo.Exist(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldBookingID, Value: req.BookingID, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
			gDto.Filter{Field: bookingModel.FieldLastPaymentAmount, Value: req.AmountPaid, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to match payment amount: %w", err)
	}

	return exist, nil
}

// statusVerifier accepts any booking that already shows some payment.
type statusVerifier struct {
	repo repository.Booking
}

func (statusVerifier) Name() string { return StrategyStatus }

func (v statusVerifier) Verify(ctx context.Context, _ *session.Session, req model.Request) (bool, error) {
	booking, err := v.repo.Get(ctx,
		shared.FilterByID(req.BookingID, bookingModel.FieldBookingID, bookingModel.TableName),
		bookingModel.FieldBookingID, bookingModel.FieldPaymentStatus,
	)
	if err != nil {
		return false, fmt.Errorf("failed to read payment status: %w", err)
	}

	return slices.Contains([]string{bookingModel.StatusPaid, bookingModel.StatusPartiallyPaid}, booking.PaymentStatus), nil
}
