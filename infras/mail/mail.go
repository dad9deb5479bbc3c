package mail

//go:generate go run go.uber.org/mock/mockgen -source=./mail.go -destination=./mocks/mail_mock.go -package=mocks

import (
	"bookpay/config"
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	goMail "github.com/wneessen/go-mail"
)

var ErrNoRecipient = errors.New("mail has no recipient")

type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is a multipart mail with a plain-text body and an optional HTML alternative.
type Message struct {
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

type Sender interface {
	Send(ctx context.Context, message Message) error
}

type smtpSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

func New(config *config.Config) Sender {
	log.Info().Str("host", config.Mail.Host).Int("port", config.Mail.Port).Msg("Mail sender initialized")

	return &smtpSender{
		host:      config.Mail.Host,
		port:      config.Mail.Port,
		username:  config.Mail.Username,
		password:  config.Mail.Password,
		fromName:  config.Mail.FromName,
		fromEmail: config.Mail.FromEmail,
	}
}

// Build assembles the go-mail message without sending it.
func (s *smtpSender) Build(message Message) (*goMail.Msg, error) {
	if message.To == "" {
		return nil, ErrNoRecipient
	}

	msg := goMail.NewMsg()

	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return nil, fmt.Errorf("failed to set sender: %w", err)
	}

	if err := msg.To(message.To); err != nil {
		return nil, fmt.Errorf("failed to set recipient: %w", err)
	}

	msg.Subject(message.Subject)
	msg.SetBodyString(goMail.TypeTextPlain, message.Text)

	if message.HTML != "" {
		msg.AddAlternativeString(goMail.TypeTextHTML, message.HTML)
	}

	for _, attachment := range message.Attachments {
		err := msg.AttachReader(
			attachment.Name,
			bytes.NewReader(attachment.Data),
			goMail.WithFileContentType(goMail.ContentType(attachment.ContentType)),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to attach %s: %w", attachment.Name, err)
		}
	}

	return msg, nil
}

func (s *smtpSender) Send(ctx context.Context, message Message) error {
	msg, err := s.Build(message)
	if err != nil {
		return err
	}

	options := []goMail.Option{goMail.WithPort(s.port)}

	if s.username != "" {
		options = append(options,
			goMail.WithSMTPAuth(goMail.SMTPAuthPlain),
			goMail.WithUsername(s.username),
			goMail.WithPassword(s.password),
			goMail.WithTLSPolicy(goMail.TLSMandatory),
			goMail.WithTLSConfig(&tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}),
		)
	} else {
		options = append(options, goMail.WithTLSPolicy(goMail.TLSOpportunistic))
	}

	client, err := goMail.NewClient(s.host, options...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client (host=%s port=%d): %w", s.host, s.port, err)
	}

	if err = client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail (host=%s port=%d): %w", s.host, s.port, err)
	}

	log.Info().Str("to", message.To).Str("subject", message.Subject).Msg("Mail sent")

	return nil
}
