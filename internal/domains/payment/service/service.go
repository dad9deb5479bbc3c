package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"bookpay/infras/otel"
	"bookpay/infras/postgres"
	bookingModel "bookpay/internal/domains/booking/model"
	bookingRepo "bookpay/internal/domains/booking/repository"
	bookingService "bookpay/internal/domains/booking/service"
	notificationModel "bookpay/internal/domains/notification/model"
	notificationService "bookpay/internal/domains/notification/service"
	"bookpay/internal/domains/payment/event"
	"bookpay/internal/domains/payment/model"
	"bookpay/internal/domains/payment/model/dto"
	voucherModel "bookpay/internal/domains/voucher/model"
	voucherRepo "bookpay/internal/domains/voucher/repository"
	"bookpay/internal/session"
	"bookpay/shared"
	"bookpay/shared/constant"
	"bookpay/shared/failure"
	"bookpay/shared/logger"
	"bookpay/shared/timezone"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var errBookingNotFound = errors.New("booking not found")

type Payment interface {
	// Start records the pending payment and the optional voucher selection in the session.
	Start(ctx context.Context, req dto.StartPaymentRequest) (dto.StartPaymentResponse, error)
	// Confirm verifies and records a completed payment. A persistence failure still returns
	// a degraded receipt next to an error wrapping model.ErrPersistenceFailure.
	Confirm(ctx context.Context, req model.Request) (dto.Receipt, error)
}

type serviceImpl struct {
	bookingRepo    bookingRepo.Booking
	voucherRepo    voucherRepo.Voucher
	bookingService bookingService.Booking
	notification   notificationService.Notification
	publisher      event.Publisher
	txManager      postgres.TxManager
	verifiers      []Verifier
	otel           otel.Otel
}

func New(
	bookingRepo bookingRepo.Booking,
	voucherRepo voucherRepo.Voucher,
	bookingService bookingService.Booking,
	notification notificationService.Notification,
	publisher event.Publisher,
	txManager postgres.TxManager,
	otel otel.Otel,
) Payment {
	return &serviceImpl{
		bookingRepo:    bookingRepo,
		voucherRepo:    voucherRepo,
		bookingService: bookingService,
		notification:   notification,
		publisher:      publisher,
		txManager:      txManager,
		verifiers:      NewVerifiers(bookingRepo),
		otel:           otel,
	}
}

func (s *serviceImpl) Start(ctx context.Context, req dto.StartPaymentRequest) (res dto.StartPaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".StartPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	sess, ok := session.FromContext(ctx)
	if !ok {
		return res, failure.Unauthorized("session required") // nolint:wrapcheck
	}

	booking, err := s.bookingRepo.Get(ctx,
		shared.FilterByID(req.BookingID, bookingModel.FieldBookingID, bookingModel.TableName),
		bookingModel.FieldBookingID, bookingModel.FieldPaymentBalance, bookingModel.FieldPaymentStatus,
	)
	if err != nil {
		log.Error().Err(err).Int64("bookingId", req.BookingID).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.BookingID == 0 {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.PaymentStatus == bookingModel.StatusPaid {
		return res, failure.Conflict("booking is already paid") // nolint:wrapcheck
	}

	res = dto.StartPaymentResponse{
		BookingID:      booking.BookingID,
		PaymentBalance: booking.PaymentBalance,
		AmountDue:      booking.PaymentBalance,
	}

	var discount *session.Discount

	if req.VoucherCode != "" {
		var voucher voucherModel.Voucher

		voucher, err = s.voucherRepo.Get(ctx, shared.FilterByID(req.VoucherCode, voucherModel.FieldCode, voucherModel.TableName))
		if err != nil {
			log.Error().Err(err).Str("voucherCode", req.VoucherCode).Msg("failed to get voucher")

			return res, fmt.Errorf("failed to get voucher: %w", err)
		}

		if voucher.Code == "" {
			return res, failure.NotFound("voucher not found") // nolint:wrapcheck
		}

		if voucher.IsUsed {
			return res, failure.Conflict("voucher has already been used") // nolint:wrapcheck
		}

		discount = &session.Discount{
			VoucherCode:     voucher.Code,
			DiscountRate:    voucher.DiscountRate,
			DiscountAmount:  shared.RoundMoney(booking.PaymentBalance * voucher.DiscountRate / 100), //nolint:mnd
			OriginalBalance: booking.PaymentBalance,
		}

		res.VoucherCode = discount.VoucherCode
		res.DiscountRate = discount.DiscountRate
		res.DiscountAmount = discount.DiscountAmount
		res.AmountDue = shared.RoundMoney(booking.PaymentBalance - discount.DiscountAmount)
	}

	sess.StartPayment(booking.BookingID)
	sess.Discount = discount

	log.Info().
		Int64("bookingId", booking.BookingID).
		Str("voucherCode", req.VoucherCode).
		Float64("amountDue", res.AmountDue).
		Msg("payment started")

	return res, nil
}

func (s *serviceImpl) Confirm(ctx context.Context, req model.Request) (receipt dto.Receipt, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ConfirmPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttributes(map[string]any{
		"booking.id":          req.BookingID,
		"payment.type":        req.PaymentType,
		"payment.amount_paid": req.AmountPaid,
	})

	paymentLog := logger.ForBooking(req.BookingID).With().
		Str("paymentType", req.PaymentType).
		Float64("amountPaid", req.AmountPaid).
		Logger()

	if req.AmountPaid <= 0 {
		paymentLog.Warn().Msg("accepting non-positive payment amount")
	}

	sess, ok := session.FromContext(ctx)
	if !ok {
		sess = &session.Session{}
	}

	strategy, verified := verify(ctx, s.verifiers, sess, req)
	if !verified {
		paymentLog.Warn().Msg("payment could not be verified")

		return receipt, fmt.Errorf("booking %d: %w", req.BookingID, model.ErrPaymentUnverified)
	}

	paymentLog.Info().Str("strategy", strategy).Msg("payment verified")

	receipt = dto.Receipt{
		BookingID:  req.BookingID,
		AmountPaid: req.AmountPaid,
	}

	outcome, err := s.record(ctx, sess, req, paymentLog)

	receipt.TotalPrice = outcome.TotalPrice
	receipt.NewBalance = outcome.NewBalance
	receipt.NewStatus = outcome.NewStatus
	receipt.PaidAmount, receipt.PaidPercentage = bookingModel.PaidProgress(outcome.TotalPrice, outcome.NewBalance)

	if err != nil {
		paymentLog.Error().Err(err).Msg("payment received but not recorded")

		receipt.Message = dto.MessagePersistenceFailed

		return receipt, fmt.Errorf("%w: %w", model.ErrPersistenceFailure, err)
	}

	receipt.Recorded = true
	receipt.Message = fmt.Sprintf(dto.MessageSuccess, outcome.NewStatus)

	if outcome.VoucherSettled {
		sess.ClearDiscount()
	}

	sess.ClearPendingPayment()

	receipt.EmailQueued = s.notify(ctx, req, outcome, paymentLog)
	s.publish(ctx, sess, req, outcome, paymentLog)

	s.bookingService.InvalidatePaymentSummary(context.WithoutCancel(ctx), req.BookingID)

	return receipt, nil
}

// record runs the lock, prior-sum read, reconcile, voucher settlement and booking update
// as one transaction.
func (s *serviceImpl) record(ctx context.Context, sess *session.Session, req model.Request, paymentLog zerolog.Logger) (model.Outcome, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RecordPayment")
	defer scope.End()

	var outcome model.Outcome

	voucherCode, voucherActive := sess.ActiveVoucher()
	filter := shared.FilterByID(req.BookingID, bookingModel.FieldBookingID, bookingModel.TableName)
	now := timezone.Now()

	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err := s.bookingRepo.GetForUpdateTx(ctx, tx, filter, bookingModel.LockColumns()...)
		if err != nil {
			return err
		}

		if booking.BookingID == 0 {
			return errBookingNotFound
		}

		prior, err := s.bookingRepo.SumPaymentsTx(ctx, tx, req.BookingID)
		if err != nil {
			return err
		}

		outcome.TotalPrice = booking.Price
		outcome.PriorPayments = prior
		outcome.NewBalance, outcome.NewStatus = Reconcile(booking.Price, prior, req.AmountPaid, req.PaymentType)

		if voucherActive {
			outcome.VoucherCode = &voucherCode
		}

		paymentLog.Info().
			Float64("totalPrice", booking.Price).
			Float64("priorPayments", prior).
			Float64("newBalance", outcome.NewBalance).
			Str("newStatus", outcome.NewStatus).
			Msg("payment reconciled")

		if ShouldSettleVoucher(voucherActive, req.PaymentType, outcome.NewBalance) {
			err = s.voucherRepo.SettleTx(ctx, tx, voucherModel.Settlement{
				Code:       voucherCode,
				BookingID:  req.BookingID,
				CustomerID: sess.CustomerID,
				UsedDate:   now,
			})
			if err != nil {
				return err
			}

			outcome.VoucherSettled = true
		}

		return s.bookingRepo.UpdateTx(ctx, tx, paymentFields(req, outcome, now), filter)
	})
	if err != nil {
		scope.TraceError(err)

		outcome.VoucherSettled = false

		return outcome, err
	}

	return outcome, nil
}

// paymentFields is the booking update. A settled voucher is consumed, so only a voucher
// carried forward stays on the booking.
func paymentFields(req model.Request, outcome model.Outcome, now time.Time) map[string]any {
	voucherCode := outcome.VoucherCode
	if outcome.VoucherSettled {
		voucherCode = nil
	}

	return map[string]any{
		bookingModel.FieldPaymentStatus:     outcome.NewStatus,
		bookingModel.FieldPaymentBalance:    outcome.NewBalance,
		bookingModel.FieldVoucherCode:       voucherCode,
		bookingModel.FieldLastPaymentAmount: req.AmountPaid,
		bookingModel.FieldLastPaymentDate:   now,
	}
}

// notify queues the confirmation email. Failures are logged and reported as false.
func (s *serviceImpl) notify(ctx context.Context, req model.Request, outcome model.Outcome, paymentLog zerolog.Logger) bool {
	details, err := s.bookingRepo.GetConfirmationDetails(ctx, req.BookingID)
	if err != nil {
		paymentLog.Error().Err(fmt.Errorf("%w: %w", model.ErrNotificationFailure, err)).Msg("confirmation email not queued")

		return false
	}

	_, err = s.notification.Enqueue(ctx, notificationModel.PaymentConfirmation{
		BookingID:     req.BookingID,
		CustomerEmail: details.CustomerEmail,
		FirstName:     details.FirstName,
		PackageName:   details.PackageName,
		Price:         details.Price,
		DateOfBooking: details.DateOfBooking,
		DateOfReturn:  details.DateOfReturn,
		EventLocation: details.EventLocation,
		AmountPaid:    req.AmountPaid,
		NewBalance:    outcome.NewBalance,
		NewStatus:     outcome.NewStatus,
	})
	if err != nil {
		paymentLog.Error().Err(fmt.Errorf("%w: %w", model.ErrNotificationFailure, err)).Msg("confirmation email not queued")

		return false
	}

	return true
}

func (s *serviceImpl) publish(ctx context.Context, sess *session.Session, req model.Request, outcome model.Outcome, paymentLog zerolog.Logger) {
	err := s.publisher.PaymentConfirmed(ctx, model.PaymentConfirmedEvent{
		EventID:        uuid.NewString(),
		BookingID:      req.BookingID,
		CustomerID:     sess.CustomerID,
		PaymentType:    req.PaymentType,
		AmountPaid:     req.AmountPaid,
		NewBalance:     outcome.NewBalance,
		NewStatus:      outcome.NewStatus,
		VoucherCode:    outcome.VoucherCode,
		VoucherSettled: outcome.VoucherSettled,
		OccurredAt:     timezone.Now(),
	})
	if err != nil {
		paymentLog.Error().Err(err).Msg("payment confirmed event not published")
	}
}
