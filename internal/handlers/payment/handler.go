package payment

import (
	"bookpay/infras/otel"
	"bookpay/internal/domains/payment/model"
	"bookpay/internal/domains/payment/model/dto"
	"bookpay/internal/domains/payment/service"
	"bookpay/shared/constant"
	"bookpay/shared/validator"
	"bookpay/transport/http/response"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Post("/start", handler.StartPayment)
		routerGroup.Get("/success", handler.ConfirmPayment)
	})
}

// StartPayment records the pending payment and the selected voucher in the session.
// @Summary Start a booking payment
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.StartPaymentRequest true "Start Payment Request"
// @Success 200 {object} response.Data[dto.StartPaymentResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/payments/start [post]
func (handler *Handler) StartPayment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StartPayment")
	defer scope.End()

	req := dto.StartPaymentRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Start(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("bookingId", req.BookingID).Msg("failed to start payment")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// ConfirmPayment is the return URL of the payment page. Every outcome of the flow answers 200:
// plain text for rejected requests, a JSON receipt otherwise.
// @Summary Confirm a booking payment
// @Tags Payment
// @Produce json
// @Produce plain
// @Param bookingId query int true "Booking ID"
// @Param paymentType query string true "fullpayment or any partial type"
// @Param amount query number true "Amount paid"
// @Success 200 {object} response.Data[dto.Receipt]
// @Router /v1/payments/success [get]
func (handler *Handler) ConfirmPayment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ConfirmPayment")
	defer scope.End()

	req := dto.ConfirmPaymentRequest{}
	req.FromQuery(request.URL.Query())

	paymentReq, err := req.ToModel()
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("rejected payment confirmation request")

		response.WithText(writer, http.StatusOK, model.ErrInvalidRequest.Message)

		return
	}

	receipt, err := handler.service.Confirm(ctx, paymentReq)

	switch {
	case err == nil:
		scope.AddEvent(fmt.Sprintf("Payment recorded for booking %d", paymentReq.BookingID))

		response.WithJSON(writer, http.StatusOK, receipt)
	case errors.Is(err, model.ErrPaymentUnverified):
		scope.TraceError(err)

		response.WithText(writer, http.StatusOK, fmt.Sprintf(dto.MessageUnverified, paymentReq.BookingID))
	case errors.Is(err, model.ErrPersistenceFailure):
		scope.TraceError(err)

		response.WithJSON(writer, http.StatusOK, receipt)
	default:
		scope.TraceError(err)
		log.Error().Err(err).Int64("bookingId", paymentReq.BookingID).Msg("failed to confirm payment")

		response.WithError(writer, err)
	}
}
