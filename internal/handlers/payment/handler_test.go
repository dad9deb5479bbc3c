package payment_test

import (
	otelMocks "bookpay/infras/otel/mocks"
	"bookpay/internal/domains/payment/mocks"
	"bookpay/internal/domains/payment/model"
	"bookpay/internal/domains/payment/model/dto"
	"bookpay/internal/handlers/payment"
	"bookpay/shared/failure"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newRouter(svc *mocks.MockPayment) chi.Router {
	handler := payment.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	return router
}

func TestHandler_ConfirmPayment(t *testing.T) {
	receipt := dto.Receipt{
		Message:    "Payment successful! Status updated to: Partially Paid",
		Recorded:   true,
		BookingID:  7,
		AmountPaid: 2000,
		NewBalance: 3000,
		NewStatus:  "Partially Paid",
	}

	tests := []struct {
		name        string
		query       string
		setupMock   func(svc *mocks.MockPayment)
		wantCode    int
		wantText    string
		wantReceipt *dto.Receipt
	}{
		{
			name:      "missing amount",
			query:     "bookingId=7&paymentType=partial",
			setupMock: func(*mocks.MockPayment) {},
			wantCode:  http.StatusOK,
			wantText:  "Invalid request parameters",
		},
		{
			name:      "malformed booking id",
			query:     "bookingId=seven&paymentType=partial&amount=2000",
			setupMock: func(*mocks.MockPayment) {},
			wantCode:  http.StatusOK,
			wantText:  "Invalid request parameters",
		},
		{
			name:  "unverified",
			query: "bookingId=7&paymentType=partial&amount=2000",
			setupMock: func(svc *mocks.MockPayment) {
				svc.EXPECT().
					Confirm(gomock.Any(), model.Request{BookingID: 7, PaymentType: "partial", AmountPaid: 2000}).
					Return(dto.Receipt{}, fmt.Errorf("booking 7: %w", model.ErrPaymentUnverified))
			},
			wantCode: http.StatusOK,
			wantText: "Payment verification failed. Please contact support with booking ID: 7",
		},
		{
			name:  "recorded",
			query: "bookingId=7&paymentType=partial&amount=2000",
			setupMock: func(svc *mocks.MockPayment) {
				svc.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(receipt, nil)
			},
			wantCode:    http.StatusOK,
			wantReceipt: &receipt,
		},
		{
			name:  "persistence failure returns degraded receipt",
			query: "bookingId=7&paymentType=fullpayment&amount=5000",
			setupMock: func(svc *mocks.MockPayment) {
				svc.EXPECT().
					Confirm(gomock.Any(), gomock.Any()).
					Return(dto.Receipt{Message: dto.MessagePersistenceFailed, BookingID: 7}, fmt.Errorf("%w: deadlock", model.ErrPersistenceFailure))
			},
			wantCode:    http.StatusOK,
			wantReceipt: &dto.Receipt{Message: dto.MessagePersistenceFailed, BookingID: 7},
		},
		{
			name:  "unexpected error",
			query: "bookingId=7&paymentType=partial&amount=2000",
			setupMock: func(svc *mocks.MockPayment) {
				svc.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(dto.Receipt{}, errors.New("boom"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := mocks.NewMockPayment(ctrl)
			tt.setupMock(svc)

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/v1/payments/success?"+tt.query, nil)

			newRouter(svc).ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantCode, recorder.Code)

			if tt.wantText != "" {
				assert.Equal(t, "text/plain; charset=utf-8", recorder.Header().Get("Content-Type"))
				assert.Equal(t, tt.wantText, recorder.Body.String())
			}

			if tt.wantReceipt != nil {
				var body struct {
					Data dto.Receipt `json:"data"`
				}

				assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
				assert.Equal(t, *tt.wantReceipt, body.Data)
			}
		})
	}
}

func TestHandler_StartPayment(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		setupMock func(svc *mocks.MockPayment)
		wantCode  int
	}{
		{
			name:      "malformed body",
			body:      `{"bookingId":`,
			setupMock: func(*mocks.MockPayment) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "missing booking id",
			body:      `{"voucherCode":"SUMMER10"}`,
			setupMock: func(*mocks.MockPayment) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "invalid voucher code",
			body:      `{"bookingId":7,"voucherCode":"a b"}`,
			setupMock: func(*mocks.MockPayment) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "voucher used",
			body: `{"bookingId":7,"voucherCode":"SUMMER10"}`,
			setupMock: func(svc *mocks.MockPayment) {
				svc.EXPECT().
					Start(gomock.Any(), dto.StartPaymentRequest{BookingID: 7, VoucherCode: "SUMMER10"}).
					Return(dto.StartPaymentResponse{}, failure.Conflict("voucher has already been used"))
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "started",
			body: `{"bookingId":7}`,
			setupMock: func(svc *mocks.MockPayment) {
				svc.EXPECT().
					Start(gomock.Any(), dto.StartPaymentRequest{BookingID: 7}).
					Return(dto.StartPaymentResponse{BookingID: 7, PaymentBalance: 5000, AmountDue: 5000}, nil)
			},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := mocks.NewMockPayment(ctrl)
			tt.setupMock(svc)

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodPost, "/v1/payments/start", strings.NewReader(tt.body))

			newRouter(svc).ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
		})
	}
}
