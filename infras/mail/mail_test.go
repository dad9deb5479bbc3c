package mail

import (
	"bookpay/config"
	"testing"

	"github.com/stretchr/testify/assert"
	goMail "github.com/wneessen/go-mail"
)

func newTestSender() *smtpSender {
	cfg := &config.Config{}
	cfg.Mail.Host = "localhost"
	cfg.Mail.Port = 1025
	cfg.Mail.FromName = "Bookings"
	cfg.Mail.FromEmail = "bookings@example.com"

	sender, _ := New(cfg).(*smtpSender)

	return sender
}

func TestBuild(t *testing.T) {
	sender := newTestSender()

	msg, err := sender.Build(Message{
		To:      "ana@example.com",
		Subject: "Payment Confirmation - Booking #7",
		Text:    "paid",
		HTML:    "<p>paid</p>",
		Attachments: []Attachment{
			{Name: "receipt-7.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")},
		},
	})

	assert.NoError(t, err)

	recipients, err := msg.GetRecipients()
	assert.NoError(t, err)
	assert.Equal(t, []string{"ana@example.com"}, recipients)
	assert.Equal(t, []string{"Payment Confirmation - Booking #7"}, msg.GetGenHeader(goMail.HeaderSubject))
	assert.Len(t, msg.GetAttachments(), 1)
}

func TestBuild_Errors(t *testing.T) {
	sender := newTestSender()

	tests := []struct {
		name    string
		message Message
		wantErr error
	}{
		{name: "no recipient", message: Message{Subject: "x"}, wantErr: ErrNoRecipient},
		{name: "bad recipient", message: Message{To: "not an address", Subject: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sender.Build(tt.message)

			assert.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
