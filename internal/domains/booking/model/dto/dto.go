package dto

import (
	"bookpay/internal/domains/booking/model"
	"bookpay/shared/constant"
	"bookpay/shared/timezone"
)

type PaymentSummaryResponse struct {
	BookingID         int64    `json:"bookingId"`
	PackageName       string   `json:"packageName"`
	Price             float64  `json:"price"`
	PaymentBalance    float64  `json:"paymentBalance"`
	PaymentStatus     string   `json:"paymentStatus"`
	PaidAmount        float64  `json:"paidAmount"`
	PaidPercentage    float64  `json:"paidPercentage"`
	VoucherCode       string   `json:"voucherCode,omitempty"`
	LastPaymentAmount *float64 `json:"lastPaymentAmount"`
	LastPaymentDate   string   `json:"lastPaymentDate,omitempty"`
}

func (r *PaymentSummaryResponse) FromModel(booking model.Booking) {
	r.BookingID = booking.BookingID
	r.Price = booking.Price
	r.PaymentBalance = booking.PaymentBalance
	r.PaymentStatus = booking.PaymentStatus
	r.LastPaymentAmount = booking.LastPaymentAmount
	r.PaidAmount, r.PaidPercentage = model.PaidProgress(booking.Price, booking.PaymentBalance)

	if booking.PackageName != nil {
		r.PackageName = *booking.PackageName
	}

	if booking.VoucherCode != nil {
		r.VoucherCode = *booking.VoucherCode
	}

	if booking.LastPaymentDate != nil {
		r.LastPaymentDate = timezone.Format(*booking.LastPaymentDate, constant.DateFormat)
	}
}
