package model

import (
	"bookpay/shared/failure"
	"errors"
	"net/http"
)

var (
	// ErrInvalidRequest is returned when bookingId, paymentType or amount is missing or malformed.
	ErrInvalidRequest = &failure.Failure{Code: http.StatusBadRequest, Message: "Invalid request parameters"}
	// ErrPaymentUnverified is returned when no verification strategy accepts the payment.
	ErrPaymentUnverified = &failure.Failure{Code: http.StatusUnprocessableEntity, Message: "Payment verification failed"}

	ErrPersistenceFailure  = errors.New("payment persistence failure")
	ErrNotificationFailure = errors.New("payment notification failure")
)
