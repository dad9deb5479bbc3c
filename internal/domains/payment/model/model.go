package model

import "time"

const (
	// PaymentTypeFull settles the whole balance whatever the amount. Any other type is partial.
	PaymentTypeFull = "fullpayment"

	EventPaymentConfirmed = "booking.payment.confirmed"
)

// Request is a parsed confirmation request. Amount and type come from the payment page and are trusted.
type Request struct {
	BookingID   int64
	PaymentType string
	AmountPaid  float64
}

// IsFullPayment reports whether paymentType clears the balance regardless of the amount.
func IsFullPayment(paymentType string) bool {
	return paymentType == PaymentTypeFull
}

// Outcome is what one confirmation wrote, or would have written, to the booking.
type Outcome struct {
	TotalPrice     float64
	PriorPayments  float64
	NewBalance     float64
	NewStatus      string
	VoucherCode    *string
	VoucherSettled bool
}

type PaymentConfirmedEvent struct {
	EventID        string    `json:"eventId"`
	BookingID      int64     `json:"bookingId"`
	CustomerID     *int64    `json:"customerId,omitempty"`
	PaymentType    string    `json:"paymentType"`
	AmountPaid     float64   `json:"amountPaid"`
	NewBalance     float64   `json:"newBalance"`
	NewStatus      string    `json:"newStatus"`
	VoucherCode    *string   `json:"voucherCode,omitempty"`
	VoucherSettled bool      `json:"voucherSettled"`
	OccurredAt     time.Time `json:"occurredAt"`
}
