package service_test

import (
	otelMocks "bookpay/infras/otel/mocks"
	"bookpay/infras/postgres"
	bookingMocks "bookpay/internal/domains/booking/mocks"
	bookingModel "bookpay/internal/domains/booking/model"
	notificationMocks "bookpay/internal/domains/notification/mocks"
	notificationModel "bookpay/internal/domains/notification/model"
	paymentMocks "bookpay/internal/domains/payment/mocks"
	"bookpay/internal/domains/payment/model"
	"bookpay/internal/domains/payment/model/dto"
	"bookpay/internal/domains/payment/service"
	voucherMocks "bookpay/internal/domains/voucher/mocks"
	voucherModel "bookpay/internal/domains/voucher/model"
	"bookpay/internal/session"
	gDto "bookpay/shared/dto"
	"bookpay/shared/failure"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	bookingRepo    *bookingMocks.MockBooking
	voucherRepo    *voucherMocks.MockVoucher
	bookingService *bookingMocks.MockBookingService
	notification   *notificationMocks.MockNotification
	publisher      *paymentMocks.MockPublisher
	db             sqlmock.Sqlmock
	svc            service.Payment
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	f := &fixture{
		bookingRepo:    bookingMocks.NewMockBooking(ctrl),
		voucherRepo:    voucherMocks.NewMockVoucher(ctrl),
		bookingService: bookingMocks.NewMockBookingService(ctrl),
		notification:   notificationMocks.NewMockNotification(ctrl),
		publisher:      paymentMocks.NewMockPublisher(ctrl),
		db:             mock,
	}

	f.svc = service.New(
		f.bookingRepo,
		f.voucherRepo,
		f.bookingService,
		f.notification,
		f.publisher,
		postgres.NewTxManagerWithDB(sqlx.NewDb(db, "postgres")),
		otelMocks.NewOtel(),
	)

	return f
}

func (f *fixture) expectInvalidate(bookingID int64) {
	f.bookingService.EXPECT().InvalidatePaymentSummary(gomock.Any(), bookingID)
}

func (f *fixture) expectLock(booking bookingModel.Booking, prior float64) {
	f.bookingRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)
	f.bookingRepo.EXPECT().SumPaymentsTx(gomock.Any(), gomock.Any(), booking.BookingID).Return(prior, nil)
}

func (f *fixture) expectNotify(bookingID int64) {
	f.bookingRepo.EXPECT().
		GetConfirmationDetails(gomock.Any(), bookingID).
		Return(bookingModel.ConfirmationDetails{BookingID: bookingID, CustomerEmail: "ana@example.com", FirstName: "Ana", Price: 5000}, nil)
	f.notification.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(notificationModel.EmailJob{JobID: "job-1"}, nil)
}

func pendingSession(bookingID int64, voucherCode string) *session.Session {
	customerID := int64(11)

	sess := session.New("sess-1", time.Now())
	sess.CustomerID = &customerID
	sess.StartPayment(bookingID)

	if voucherCode != "" {
		sess.Discount = &session.Discount{VoucherCode: voucherCode, DiscountRate: 10}
	}

	return sess
}

func TestPaymentService_ConfirmPartialPayment(t *testing.T) {
	f := newFixture(t)
	sess := pendingSession(7, "SUMMER10")
	ctx := session.WithSession(context.Background(), sess)

	f.db.ExpectBegin()
	f.expectLock(bookingModel.Booking{BookingID: 7, Price: 5000, PaymentBalance: 5000, PaymentStatus: bookingModel.StatusUnpaid}, 0)
	f.bookingRepo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, mod map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, bookingModel.StatusPartiallyPaid, mod[bookingModel.FieldPaymentStatus])
			assert.InDelta(t, 3000.0, mod[bookingModel.FieldPaymentBalance], 0.001)
			assert.InDelta(t, 2000.0, mod[bookingModel.FieldLastPaymentAmount], 0.001)
			assert.Equal(t, "SUMMER10", *mod[bookingModel.FieldVoucherCode].(*string))
			assert.IsType(t, time.Time{}, mod[bookingModel.FieldLastPaymentDate])

			return nil
		})
	f.db.ExpectCommit()

	f.expectNotify(7)
	f.publisher.EXPECT().
		PaymentConfirmed(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, evt model.PaymentConfirmedEvent) error {
			assert.Equal(t, int64(7), evt.BookingID)
			assert.Equal(t, int64(11), *evt.CustomerID)
			assert.False(t, evt.VoucherSettled)
			assert.NotEmpty(t, evt.EventID)

			return nil
		})
	f.expectInvalidate(7)

	receipt, err := f.svc.Confirm(ctx, model.Request{BookingID: 7, PaymentType: "partial", AmountPaid: 2000})

	assert.NoError(t, err)
	assert.Equal(t, dto.Receipt{
		Message:        "Payment successful! Status updated to: Partially Paid",
		Recorded:       true,
		BookingID:      7,
		AmountPaid:     2000,
		TotalPrice:     5000,
		PaidAmount:     2000,
		PaidPercentage: 40,
		NewBalance:     3000,
		NewStatus:      bookingModel.StatusPartiallyPaid,
		EmailQueued:    true,
	}, receipt)

	assert.Nil(t, sess.PaymentInfo)
	code, active := sess.ActiveVoucher()
	assert.True(t, active)
	assert.Equal(t, "SUMMER10", code)

	assert.NoError(t, f.db.ExpectationsWereMet())
}

func TestPaymentService_ConfirmSettlesVoucher(t *testing.T) {
	f := newFixture(t)
	sess := pendingSession(7, "SUMMER10")
	ctx := session.WithSession(context.Background(), sess)

	f.db.ExpectBegin()
	f.expectLock(bookingModel.Booking{BookingID: 7, Price: 5000, PaymentBalance: 3000, PaymentStatus: bookingModel.StatusPartiallyPaid}, 3000)
	f.voucherRepo.EXPECT().
		SettleTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, settlement voucherModel.Settlement) error {
			assert.Equal(t, "SUMMER10", settlement.Code)
			assert.Equal(t, int64(7), settlement.BookingID)
			assert.Equal(t, int64(11), *settlement.CustomerID)
			assert.False(t, settlement.UsedDate.IsZero())

			return nil
		})
	f.bookingRepo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, mod map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, bookingModel.StatusPaid, mod[bookingModel.FieldPaymentStatus])
			assert.InDelta(t, 0.0, mod[bookingModel.FieldPaymentBalance], 0.001)
			assert.Nil(t, mod[bookingModel.FieldVoucherCode])

			return nil
		})
	f.db.ExpectCommit()

	f.expectNotify(7)
	f.publisher.EXPECT().
		PaymentConfirmed(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, evt model.PaymentConfirmedEvent) error {
			assert.True(t, evt.VoucherSettled)

			return nil
		})
	f.expectInvalidate(7)

	receipt, err := f.svc.Confirm(ctx, model.Request{BookingID: 7, PaymentType: "partial", AmountPaid: 2000})

	assert.NoError(t, err)
	assert.Equal(t, bookingModel.StatusPaid, receipt.NewStatus)
	assert.InDelta(t, 0.0, receipt.NewBalance, 0.001)
	assert.InDelta(t, 100.0, receipt.PaidPercentage, 0.001)

	assert.Nil(t, sess.PaymentInfo)
	assert.Nil(t, sess.Discount)

	assert.NoError(t, f.db.ExpectationsWereMet())
}

func TestPaymentService_ConfirmFullPayment(t *testing.T) {
	f := newFixture(t)
	sess := pendingSession(7, "")
	ctx := session.WithSession(context.Background(), sess)

	f.db.ExpectBegin()
	f.expectLock(bookingModel.Booking{BookingID: 7, Price: 5000, PaymentBalance: 5000}, 1234)
	f.bookingRepo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, mod map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, bookingModel.StatusPaid, mod[bookingModel.FieldPaymentStatus])
			assert.InDelta(t, 0.0, mod[bookingModel.FieldPaymentBalance], 0.001)
			assert.InDelta(t, 1.0, mod[bookingModel.FieldLastPaymentAmount], 0.001)
			assert.Nil(t, mod[bookingModel.FieldVoucherCode])

			return nil
		})
	f.db.ExpectCommit()

	f.expectNotify(7)
	f.publisher.EXPECT().PaymentConfirmed(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
	f.expectInvalidate(7)

	receipt, err := f.svc.Confirm(ctx, model.Request{BookingID: 7, PaymentType: model.PaymentTypeFull, AmountPaid: 1})

	assert.NoError(t, err)
	assert.True(t, receipt.Recorded)
	assert.Equal(t, bookingModel.StatusPaid, receipt.NewStatus)
	assert.Equal(t, "Payment successful! Status updated to: Paid", receipt.Message)

	assert.NoError(t, f.db.ExpectationsWereMet())
}

func TestPaymentService_ConfirmUnverified(t *testing.T) {
	f := newFixture(t)
	sess := session.New("sess-1", time.Now())
	ctx := session.WithSession(context.Background(), sess)

	f.bookingRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
	f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingModel.Booking{BookingID: 7, PaymentStatus: bookingModel.StatusUnpaid}, nil)

	receipt, err := f.svc.Confirm(ctx, model.Request{BookingID: 7, PaymentType: "partial", AmountPaid: 2000})

	assert.ErrorIs(t, err, model.ErrPaymentUnverified)
	assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	assert.Equal(t, dto.Receipt{}, receipt)
	assert.NoError(t, f.db.ExpectationsWereMet())
}

func TestPaymentService_ConfirmWithoutSessionFallsBack(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f *fixture)
	}{
		{
			name: "amount match",
			setupMock: func(f *fixture) {
				f.bookingRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
		},
		{
			name: "status fallback after a failing strategy",
			setupMock: func(f *fixture) {
				f.bookingRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("connection refused"))
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingModel.Booking{BookingID: 7, PaymentStatus: bookingModel.StatusPartiallyPaid}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			f.db.ExpectBegin()
			f.expectLock(bookingModel.Booking{BookingID: 7, Price: 5000}, 2000)
			f.bookingRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			f.db.ExpectCommit()

			f.expectNotify(7)
			f.publisher.EXPECT().PaymentConfirmed(gomock.Any(), gomock.Any()).Return(nil)
			f.expectInvalidate(7)

			receipt, err := f.svc.Confirm(context.Background(), model.Request{BookingID: 7, PaymentType: "partial", AmountPaid: 2000})

			assert.NoError(t, err)
			assert.InDelta(t, 1000.0, receipt.NewBalance, 0.001)

			assert.NoError(t, f.db.ExpectationsWereMet())
		})
	}
}

func TestPaymentService_ConfirmPersistenceFailure(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f *fixture)
		wantTotal float64
	}{
		{
			name: "update fails",
			setupMock: func(f *fixture) {
				f.expectLock(bookingModel.Booking{BookingID: 7, Price: 5000}, 0)
				f.bookingRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("deadlock detected"))
			},
			wantTotal: 5000,
		},
		{
			name: "voucher settlement fails",
			setupMock: func(f *fixture) {
				f.expectLock(bookingModel.Booking{BookingID: 7, Price: 2000}, 0)
				f.voucherRepo.EXPECT().SettleTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("lock timeout"))
			},
			wantTotal: 2000,
		},
		{
			name: "voucher already used",
			setupMock: func(f *fixture) {
				f.expectLock(bookingModel.Booking{BookingID: 7, Price: 2000}, 0)
				f.voucherRepo.EXPECT().SettleTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(voucherModel.ErrVoucherUnavailable)
			},
			wantTotal: 2000,
		},
		{
			name: "booking missing",
			setupMock: func(f *fixture) {
				f.bookingRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			sess := pendingSession(7, "SUMMER10")
			ctx := session.WithSession(context.Background(), sess)

			f.db.ExpectBegin()
			tt.setupMock(f)
			f.db.ExpectRollback()

			receipt, err := f.svc.Confirm(ctx, model.Request{BookingID: 7, PaymentType: "partial", AmountPaid: 2000})

			assert.ErrorIs(t, err, model.ErrPersistenceFailure)
			assert.False(t, receipt.Recorded)
			assert.False(t, receipt.EmailQueued)
			assert.Equal(t, dto.MessagePersistenceFailed, receipt.Message)
			assert.Equal(t, int64(7), receipt.BookingID)
			assert.InDelta(t, tt.wantTotal, receipt.TotalPrice, 0.001)

			assert.True(t, sess.HasPendingPayment(7))
			assert.NotNil(t, sess.Discount)
			assert.NoError(t, f.db.ExpectationsWereMet())
		})
	}
}

func TestPaymentService_ConfirmNotificationFailure(t *testing.T) {
	f := newFixture(t)
	ctx := session.WithSession(context.Background(), pendingSession(7, ""))

	f.db.ExpectBegin()
	f.expectLock(bookingModel.Booking{BookingID: 7, Price: 5000}, 0)
	f.bookingRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.db.ExpectCommit()

	f.bookingRepo.EXPECT().GetConfirmationDetails(gomock.Any(), int64(7)).Return(bookingModel.ConfirmationDetails{BookingID: 7}, nil)
	f.notification.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(notificationModel.EmailJob{}, notificationModel.ErrMissingRecipient)
	f.publisher.EXPECT().PaymentConfirmed(gomock.Any(), gomock.Any()).Return(nil)
	f.expectInvalidate(7)

	receipt, err := f.svc.Confirm(ctx, model.Request{BookingID: 7, PaymentType: "partial", AmountPaid: 2000})

	assert.NoError(t, err)
	assert.True(t, receipt.Recorded)
	assert.False(t, receipt.EmailQueued)

	assert.NoError(t, f.db.ExpectationsWereMet())
}

func TestPaymentService_Start(t *testing.T) {
	tests := []struct {
		name        string
		req         dto.StartPaymentRequest
		noSession   bool
		setupMock   func(f *fixture)
		want        dto.StartPaymentResponse
		wantCode    int
		wantVoucher bool
	}{
		{
			name:      "no session",
			req:       dto.StartPaymentRequest{BookingID: 7},
			noSession: true,
			setupMock: func(*fixture) {},
			wantCode:  http.StatusUnauthorized,
		},
		{
			name: "booking not found",
			req:  dto.StartPaymentRequest{BookingID: 7},
			setupMock: func(f *fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "booking already paid",
			req:  dto.StartPaymentRequest{BookingID: 7},
			setupMock: func(f *fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingModel.Booking{BookingID: 7, PaymentStatus: bookingModel.StatusPaid}, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "voucher not found",
			req:  dto.StartPaymentRequest{BookingID: 7, VoucherCode: "NOPE1"},
			setupMock: func(f *fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingModel.Booking{BookingID: 7, PaymentBalance: 5000}, nil)
				f.voucherRepo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(voucherModel.Voucher{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "voucher already used",
			req:  dto.StartPaymentRequest{BookingID: 7, VoucherCode: "SUMMER10"},
			setupMock: func(f *fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingModel.Booking{BookingID: 7, PaymentBalance: 5000}, nil)
				f.voucherRepo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(voucherModel.Voucher{Code: "SUMMER10", IsUsed: true}, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "without voucher",
			req:  dto.StartPaymentRequest{BookingID: 7},
			setupMock: func(f *fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingModel.Booking{BookingID: 7, PaymentBalance: 3000}, nil)
			},
			want: dto.StartPaymentResponse{BookingID: 7, PaymentBalance: 3000, AmountDue: 3000},
		},
		{
			name: "with voucher",
			req:  dto.StartPaymentRequest{BookingID: 7, VoucherCode: "SUMMER10"},
			setupMock: func(f *fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingModel.Booking{BookingID: 7, PaymentBalance: 5000}, nil)
				f.voucherRepo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(voucherModel.Voucher{Code: "SUMMER10", DiscountRate: 10}, nil)
			},
			want: dto.StartPaymentResponse{
				BookingID:      7,
				PaymentBalance: 5000,
				VoucherCode:    "SUMMER10",
				DiscountRate:   10,
				DiscountAmount: 500,
				AmountDue:      4500,
			},
			wantVoucher: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			sess := session.New("sess-1", time.Now())
			sess.Discount = &session.Discount{VoucherCode: "OLD1"}

			ctx := context.Background()
			if !tt.noSession {
				ctx = session.WithSession(ctx, sess)
			}

			res, err := f.svc.Start(ctx, tt.req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				assert.Nil(t, sess.PaymentInfo)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, res)
			assert.True(t, sess.HasPendingPayment(7))

			code, active := sess.ActiveVoucher()
			assert.Equal(t, tt.wantVoucher, active)

			if tt.wantVoucher {
				assert.Equal(t, tt.req.VoucherCode, code)
				assert.InDelta(t, 5000.0, sess.Discount.OriginalBalance, 0.001)
			}
		})
	}
}

func TestVerifiers_Order(t *testing.T) {
	verifiers := service.NewVerifiers(nil)

	names := make([]string, 0, len(verifiers))
	for _, v := range verifiers {
		names = append(names, v.Name())
	}

	assert.Equal(t, []string{service.StrategySession, service.StrategyAmount, service.StrategyStatus}, names)

	ok, err := verifiers[0].Verify(context.Background(), pendingSession(7, ""), model.Request{BookingID: 8})
	assert.NoError(t, err)
	assert.False(t, ok)
}
