package dto

import (
	"bookpay/internal/domains/payment/model"
	"bookpay/shared/constant"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	MessageSuccess           = "Payment successful! Status updated to: %s"
	MessagePersistenceFailed = "Payment received but database update failed. Please contact support."
	MessageUnverified        = "Payment verification failed. Please contact support with booking ID: %d"
)

// ConfirmPaymentRequest holds the raw query parameters sent back by the payment page.
type ConfirmPaymentRequest struct {
	BookingID   *string
	PaymentType *string
	Amount      *string
}

func (c *ConfirmPaymentRequest) FromQuery(query url.Values) {
	c.BookingID = lookup(query, constant.RequestParamBookingID)
	c.PaymentType = lookup(query, constant.RequestParamPaymentType)
	c.Amount = lookup(query, constant.RequestParamAmount)
}

func lookup(query url.Values, key string) *string {
	if !query.Has(key) {
		return nil
	}

	value := strings.TrimSpace(query.Get(key))

	return &value
}

// ToModel fails with model.ErrInvalidRequest when a parameter is absent or does not parse.
// The amount range is not checked.
func (c *ConfirmPaymentRequest) ToModel() (model.Request, error) {
	if c.BookingID == nil || c.PaymentType == nil || c.Amount == nil {
		return model.Request{}, fmt.Errorf("%w: missing parameter", model.ErrInvalidRequest)
	}

	bookingID, err := strconv.ParseInt(*c.BookingID, 10, 64)
	if err != nil {
		return model.Request{}, fmt.Errorf("%w: bookingId %q: %w", model.ErrInvalidRequest, *c.BookingID, err)
	}

	amount, err := strconv.ParseFloat(*c.Amount, 64)
	if err != nil {
		return model.Request{}, fmt.Errorf("%w: amount %q: %w", model.ErrInvalidRequest, *c.Amount, err)
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return model.Request{}, fmt.Errorf("%w: amount %q is not a number", model.ErrInvalidRequest, *c.Amount)
	}

	return model.Request{
		BookingID:   bookingID,
		PaymentType: *c.PaymentType,
		AmountPaid:  amount,
	}, nil
}

type Receipt struct {
	Message        string  `json:"message"`
	Recorded       bool    `json:"recorded"`
	BookingID      int64   `json:"bookingId"`
	AmountPaid     float64 `json:"amountPaid"`
	TotalPrice     float64 `json:"totalPrice"`
	PaidAmount     float64 `json:"paidAmount"`
	PaidPercentage float64 `json:"paidPercentage"`
	NewBalance     float64 `json:"newBalance"`
	NewStatus      string  `json:"newStatus"`
	EmailQueued    bool    `json:"emailQueued"`
}

type StartPaymentRequest struct {
	BookingID   int64  `json:"bookingId"   validate:"required,gt=0"`
	VoucherCode string `json:"voucherCode" validate:"omitempty,vouchercode"`
}

type StartPaymentResponse struct {
	BookingID      int64   `json:"bookingId"`
	PaymentBalance float64 `json:"paymentBalance"`
	VoucherCode    string  `json:"voucherCode,omitempty"`
	DiscountRate   float64 `json:"discountRate"`
	DiscountAmount float64 `json:"discountAmount"`
	AmountDue      float64 `json:"amountDue"`
}
