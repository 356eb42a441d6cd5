package mailer

import (
	"context"
	"errors"
)

// ErrDisabled is returned by Disabled.Send.
var ErrDisabled = errors.New("email delivery is not configured")

// Message is a single outbound HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Disabled is used when neither Resend nor SMTP is configured.
type Disabled struct{}

func (Disabled) Send(context.Context, Message) error { return ErrDisabled }

// Options selects a provider: Resend when an API key is set, SMTP when a host is
// set, otherwise Disabled.
type Options struct {
	ResendAPIKey string
	ResendFrom   string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

func New(opts Options) Mailer {
	switch {
	case opts.ResendAPIKey != "":
		return NewResend(opts.ResendAPIKey, opts.ResendFrom)
	case opts.SMTPHost != "":
		return NewSMTP(opts.SMTPHost, opts.SMTPPort, opts.SMTPUsername, opts.SMTPPassword, opts.SMTPFrom)
	default:
		return Disabled{}
	}
}
