// Package notificationtest wires a notification.Service to in-memory
// transports for feature tests.
package notificationtest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification"
	notifdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/domain"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/mailer"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Recorder captures pushed payloads and sent emails.
type Recorder struct {
	mu       sync.Mutex
	payloads []notifdomain.Payload
	emails   []mailer.Message
}

func (r *Recorder) Publish(_ context.Context, _ uint, payload notifdomain.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, payload)
	return nil
}

func (r *Recorder) Send(_ context.Context, msg mailer.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emails = append(r.emails, msg)
	return nil
}

func (r *Recorder) Payloads() []notifdomain.Payload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notifdomain.Payload(nil), r.payloads...)
}

func (r *Recorder) Emails() []mailer.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mailer.Message(nil), r.emails...)
}

// NewService returns a Service backed by db whose transports record into the
// returned Recorder.
func NewService(t *testing.T, db *gorm.DB) (*notification.Service, *Recorder) {
	t.Helper()
	rec := &Recorder{}
	svc := notification.NewService(db, repository.NewNotificationRepository(db), rec, rec, notification.Options{
		FrontendBaseURL: "https://app.example.com",
		Timeout:         time.Second,
	})
	return svc, rec
}

// Stored returns the persisted notifications of the given type, oldest first.
func Stored(t *testing.T, db *gorm.DB, typ notifdomain.Type) []notifdomain.Notification {
	t.Helper()
	var out []notifdomain.Notification
	require.NoError(t, db.Where("type = ?", typ).Order("created_at, id").Find(&out).Error)
	return out
}
