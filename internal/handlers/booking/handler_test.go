package booking_test

import (
	otelMocks "bookpay/infras/otel/mocks"
	"bookpay/internal/domains/booking/mocks"
	"bookpay/internal/domains/booking/model/dto"
	"bookpay/internal/handlers/booking"
	"bookpay/shared/failure"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestHandler_GetPaymentSummary(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		setupMock func(svc *mocks.MockBookingService)
		wantCode  int
		wantBody  string
	}{
		{
			name:      "invalid id",
			path:      "/v1/bookings/abc/payment",
			setupMock: func(*mocks.MockBookingService) {},
			wantCode:  http.StatusBadRequest,
			wantBody:  `{"error":"invalid booking id"}`,
		},
		{
			name: "not found",
			path: "/v1/bookings/9/payment",
			setupMock: func(svc *mocks.MockBookingService) {
				svc.EXPECT().GetPaymentSummary(gomock.Any(), int64(9)).Return(dto.PaymentSummaryResponse{}, failure.NotFound("booking not found"))
			},
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"booking not found"}`,
		},
		{
			name: "found",
			path: "/v1/bookings/7/payment",
			setupMock: func(svc *mocks.MockBookingService) {
				svc.EXPECT().
					GetPaymentSummary(gomock.Any(), int64(7)).
					Return(dto.PaymentSummaryResponse{BookingID: 7, Price: 5000, PaymentBalance: 3000, PaymentStatus: "Partially Paid"}, nil)
			},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := mocks.NewMockBookingService(ctrl)
			tt.setupMock(svc)

			handler := booking.New(svc, otelMocks.NewOtel())
			router := chi.NewRouter()
			router.Route("/v1", handler.Router)

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, recorder.Code)

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, recorder.Body.String())
			}
		})
	}
}
