package service

import (
	bookingModel "bookpay/internal/domains/booking/model"
	"bookpay/internal/domains/payment/model"
	"bookpay/shared"
)

// Reconcile computes the booking balance and status after a payment. A full payment
// clears the balance whatever the amount. The balance never goes below zero.
func Reconcile(totalPrice, priorPaymentsSum, amountPaid float64, paymentType string) (newBalance float64, newStatus string) {
	if !model.IsFullPayment(paymentType) {
		newBalance = shared.RoundMoney(totalPrice - (priorPaymentsSum + amountPaid))
	}

	newBalance = max(newBalance, 0)

	if newBalance <= 0 {
		return newBalance, bookingModel.StatusPaid
	}

	return newBalance, bookingModel.StatusPartiallyPaid
}

// ShouldSettleVoucher reports whether an active voucher is consumed by this payment.
func ShouldSettleVoucher(voucherActive bool, paymentType string, newBalance float64) bool {
	return voucherActive && (model.IsFullPayment(paymentType) || newBalance <= 0)
}
