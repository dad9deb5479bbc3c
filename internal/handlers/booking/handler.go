package booking

import (
	"bookpay/infras/otel"
	"bookpay/internal/domains/booking/service"
	"bookpay/shared/constant"
	"bookpay/shared/failure"
	"bookpay/transport/http/response"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Get("/{id}/payment", handler.GetPaymentSummary)
	})
}

// GetPaymentSummary retrieves the payment state of a booking.
// @Summary Get a booking payment summary
// @Tags Booking
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} response.Data[dto.PaymentSummaryResponse] "Payment summary"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/payment [get]
func (handler *Handler) GetPaymentSummary(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPaymentSummary")
	defer scope.End()

	id, err := strconv.ParseInt(chi.URLParam(r, constant.RequestParamID), 10, 64)
	if err != nil || id <= 0 {
		response.WithError(w, failure.BadRequestFromString("invalid booking id"))

		return
	}

	summary, err := handler.service.GetPaymentSummary(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("bookingId", id).Msg("failed to get booking payment summary")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking payment summary retrieved successfully")

	response.WithJSON(w, http.StatusOK, summary)
}
