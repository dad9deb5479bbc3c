package model

import (
	"bookpay/shared"
	"time"
)

const (
	TableName  = "booking"
	EntityName = "booking"

	FieldBookingID         = "booking_id"
	FieldCustomerID        = "customer_id"
	FieldPackageID         = "package_id"
	FieldPrice             = "price"
	FieldPaymentBalance    = "payment_balance"
	FieldPaymentStatus     = "payment_status"
	FieldVoucherCode       = "voucher_code"
	FieldLastPaymentAmount = "last_payment_amount"
	FieldLastPaymentDate   = "last_payment_date"
	FieldDateOfBooking     = "date_of_booking"
	FieldDateOfReturn      = "date_of_return"
	FieldEventLocation     = "event_location"
	FieldPackageName       = "package_name"
)

const (
	StatusUnpaid        = "Unpaid"
	StatusPartiallyPaid = "Partially Paid"
	StatusPaid          = "Paid"
)

type Booking struct {
	BookingID         int64      `db:"booking_id"`
	CustomerID        *int64     `db:"customer_id"`
	PackageID         *int64     `db:"package_id"`
	Price             float64    `db:"price"`
	PaymentBalance    float64    `db:"payment_balance"`
	PaymentStatus     string     `db:"payment_status"`
	VoucherCode       *string    `db:"voucher_code"`
	LastPaymentAmount *float64   `db:"last_payment_amount"`
	LastPaymentDate   *time.Time `db:"last_payment_date"`
	DateOfBooking     *time.Time `db:"date_of_booking"`
	DateOfReturn      *time.Time `db:"date_of_return"`
	EventLocation     *string    `db:"event_location"`
	PackageName       *string    `db:"package_name" table:"package"`
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN package ON package.package_id = booking.package_id"
}

// LockColumns are the booking-table columns read under the reconcile row lock.
func LockColumns() []string {
	return []string{FieldBookingID, FieldCustomerID, FieldPrice, FieldPaymentBalance, FieldPaymentStatus, FieldVoucherCode}
}

// ConfirmationDetails is the booking joined with its customer and package, as used in the confirmation email.
type ConfirmationDetails struct {
	BookingID     int64      `db:"booking_id"`
	CustomerID    *int64     `db:"customer_id"`
	CustomerEmail string     `db:"email"`
	FirstName     string     `db:"first_name"`
	PackageName   string     `db:"package_name"`
	Price         float64    `db:"price"`
	DateOfBooking *time.Time `db:"date_of_booking"`
	DateOfReturn  *time.Time `db:"date_of_return"`
	EventLocation string     `db:"event_location"`
}

// PaidProgress returns how much of price is settled given the remaining balance.
// The percentage is 0 when price is 0.
func PaidProgress(price, balance float64) (paid, percentage float64) {
	paid = shared.RoundMoney(price - balance)

	if price == 0 {
		return paid, 0
	}

	return paid, shared.RoundMoney(paid / price * 100) //nolint:mnd
}
