package model

import (
	"errors"
	"time"
)

var (
	ErrMissingRecipient = errors.New("confirmation has no customer email")
	ErrRender           = errors.New("failed to render confirmation email")
)

// PaymentConfirmation is everything the confirmation email shows, read after the payment commit.
type PaymentConfirmation struct {
	BookingID     int64      `json:"bookingId"`
	CustomerEmail string     `json:"customerEmail"`
	FirstName     string     `json:"firstName"`
	PackageName   string     `json:"packageName"`
	Price         float64    `json:"price"`
	DateOfBooking *time.Time `json:"dateOfBooking,omitempty"`
	DateOfReturn  *time.Time `json:"dateOfReturn,omitempty"`
	EventLocation string     `json:"eventLocation"`
	AmountPaid    float64    `json:"amountPaid"`
	NewBalance    float64    `json:"newBalance"`
	NewStatus     string     `json:"newStatus"`
}

// EmailJob is the queue message. Attempt starts at 0 and grows on every redelivery.
type EmailJob struct {
	JobID        string              `json:"jobId"`
	Attempt      int                 `json:"attempt"`
	CreatedAt    time.Time           `json:"createdAt"`
	Confirmation PaymentConfirmation `json:"confirmation"`
}
