package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

const defaultResendFrom = "Trelloop <onboarding@resend.dev>"

type Resend struct {
	client *resend.Client
	from   string
}

func NewResend(apiKey, from string) *Resend {
	if from == "" {
		from = defaultResendFrom
	}
	return &Resend{client: resend.NewClient(apiKey), from: from}
}

func (r *Resend) Send(ctx context.Context, msg Message) error {
	_, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}
	return nil
}
