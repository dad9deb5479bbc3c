package model

import (
	"errors"
	"time"
)

// ErrVoucherUnavailable means the voucher was already used when the settlement was written.
var ErrVoucherUnavailable = errors.New("voucher already used")

const (
	TableName  = "voucher_code"
	EntityName = "voucher"

	FieldCode         = "code"
	FieldIsUsed       = "is_used"
	FieldUsedDate     = "used_date"
	FieldCustomerID   = "customer_id"
	FieldBookingID    = "booking_id"
	FieldDiscountRate = "discount_rate"
)

type Voucher struct {
	Code         string     `db:"code"`
	IsUsed       bool       `db:"is_used"`
	UsedDate     *time.Time `db:"used_date"`
	CustomerID   *int64     `db:"customer_id"`
	BookingID    *int64     `db:"booking_id"`
	DiscountRate float64    `db:"discount_rate"`
}

// Settlement is written when a voucher is consumed by a fully paid booking.
type Settlement struct {
	Code       string
	BookingID  int64
	CustomerID *int64
	UsedDate   time.Time
}

func (s Settlement) Fields() map[string]any {
	return map[string]any{
		FieldIsUsed:     true,
		FieldUsedDate:   s.UsedDate,
		FieldCustomerID: s.CustomerID,
		FieldBookingID:  s.BookingID,
	}
}
