package session

import (
	"bookpay/shared/constant"
	"context"
	"time"
)

// PaymentInfo marks a checkout that was started and is waiting for confirmation.
type PaymentInfo struct {
	BookingID int64 `json:"bookingId"`
}

// Discount is the voucher the customer selected at checkout.
type Discount struct {
	VoucherCode     string  `json:"voucherCode"`
	DiscountRate    float64 `json:"discountRate"`
	DiscountAmount  float64 `json:"discountAmount"`
	OriginalBalance float64 `json:"originalBalance"`
}

type Session struct {
	ID          string       `json:"id"`
	CustomerID  *int64       `json:"customerId,omitempty"`
	Username    string       `json:"username,omitempty"`
	LastSeen    int64        `json:"lastSeen"`
	PaymentInfo *PaymentInfo `json:"paymentInfo,omitempty"`
	Discount    *Discount    `json:"discount,omitempty"`
}

func New(id string, now time.Time) *Session {
	return &Session{
		ID:       id,
		LastSeen: now.Unix(),
	}
}

// Expired reports whether the session has been idle for longer than idle.
func (s *Session) Expired(now time.Time, idle time.Duration) bool {
	if s.LastSeen == 0 {
		return false
	}

	return now.Unix()-s.LastSeen > int64(idle/time.Second)
}

func (s *Session) Touch(now time.Time) {
	s.LastSeen = now.Unix()
}

func (s *Session) HasPendingPayment(bookingID int64) bool {
	return s.PaymentInfo != nil && s.PaymentInfo.BookingID == bookingID
}

func (s *Session) StartPayment(bookingID int64) {
	s.PaymentInfo = &PaymentInfo{BookingID: bookingID}
}

func (s *Session) ClearPendingPayment() {
	s.PaymentInfo = nil
}

// ActiveVoucher returns the selected voucher code, if any.
func (s *Session) ActiveVoucher() (string, bool) {
	if s.Discount == nil || s.Discount.VoucherCode == "" {
		return "", false
	}

	return s.Discount.VoucherCode, true
}

func (s *Session) ClearDiscount() {
	s.Discount = nil
}

func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, constant.ContextKeySession, sess)
}

// FromContext returns the request-scoped session put there by the session middleware.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(constant.ContextKeySession).(*Session)

	return sess, ok && sess != nil
}
