package mailer

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelectsProvider(t *testing.T) {
	assert.IsType(t, &Resend{}, New(Options{ResendAPIKey: "re_123"}))
	assert.IsType(t, &SMTP{}, New(Options{SMTPHost: "smtp.example.com", SMTPFrom: "noreply@example.com"}))
	assert.IsType(t, Disabled{}, New(Options{}))
}

func TestDisabledSend(t *testing.T) {
	err := Disabled{}.Send(context.Background(), Message{To: "a@example.com"})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestBuildMIME(t *testing.T) {
	date := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	raw, err := buildMIME("Trelloop <noreply@example.com>", Message{
		To:      "ana@example.com",
		Subject: "Nueva tarjeta asignada",
		HTML:    "<p>Hola</p>",
	}, date)
	require.NoError(t, err)

	r, err := mail.CreateReader(strings.NewReader(string(raw)))
	require.NoError(t, err)

	subject, err := r.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "Nueva tarjeta asignada", subject)

	to, err := r.Header.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "ana@example.com", to[0].Address)

	part, err := r.NextPart()
	require.NoError(t, err)
	buf := new(strings.Builder)
	_, err = io.Copy(buf, part.Body)
	require.NoError(t, err)
	assert.Equal(t, "<p>Hola</p>", buf.String())
}

func TestBuildMIMERejectsBadRecipient(t *testing.T) {
	_, err := buildMIME("noreply@example.com", Message{To: "not-an-address"}, time.Now())
	assert.Error(t, err)
}
