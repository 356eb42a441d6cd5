package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	notifdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/domain"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/testutil"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/database"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu       sync.Mutex
	payloads []notifdomain.Payload
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, _ uint, payload notifdomain.Payload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return p.err
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *recordingPublisher, *recordingMailer) {
	db := testutil.NewDB(t)
	pub := &recordingPublisher{}
	mail := &recordingMailer{}
	svc := NewService(db, repository.NewNotificationRepository(db), pub, mail, Options{
		FrontendBaseURL: "https://app.example.com",
		Timeout:         time.Second,
	})
	return svc, db, pub, mail
}

func countNotifications(t *testing.T, db *gorm.DB) int64 {
	var count int64
	require.NoError(t, db.Model(&notifdomain.Notification{}).Count(&count).Error)
	return count
}

func TestCreateIsIdempotentByEventID(t *testing.T) {
	svc, db, pub, _ := newTestService(t)
	ctx := context.Background()
	req := Request{
		UserID:   2,
		Type:     notifdomain.TypeCardAssigned,
		Title:    "Nueva tarjeta asignada",
		Message:  "Te asignaron una tarjeta",
		Resource: notifdomain.CardResource(9),
		EventID:  "card:9:assigned:2",
	}

	first, err := svc.Notify(ctx, req)
	require.NoError(t, err)
	second, err := svc.Notify(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(1), countNotifications(t, db))
	assert.Len(t, pub.payloads, 2, "the duplicate call re-pushes")
}

func TestCreateWithoutEventIDAlwaysInserts(t *testing.T) {
	svc, db, _, _ := newTestService(t)
	ctx := context.Background()
	req := Request{UserID: 2, Type: notifdomain.TypeTest, Title: "t", Message: "m"}

	_, err := svc.Notify(ctx, req)
	require.NoError(t, err)
	_, err = svc.Notify(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, int64(2), countNotifications(t, db))
}

func TestCreatePayloadShape(t *testing.T) {
	svc, _, pub, _ := newTestService(t)
	actor := uint(1)

	n, err := svc.Notify(context.Background(), Request{
		UserID:   2,
		Type:     notifdomain.TypeBoardMemberAdded,
		Title:    "Te agregaron a un tablero",
		Message:  "Ana te agregó a 'Sprint'",
		Resource: notifdomain.BoardResource(4),
		ActorID:  &actor,
	})
	require.NoError(t, err)
	require.Len(t, pub.payloads, 1)

	payload := pub.payloads[0]
	assert.Equal(t, n.ID, payload.ID)
	assert.Equal(t, notifdomain.TypeBoardMemberAdded, payload.Type)
	assert.False(t, payload.Read)
	assert.Equal(t, &notifdomain.Resource{Kind: notifdomain.ResourceBoard, ID: 4}, payload.Resource)
	assert.Equal(t, &actor, payload.ActorID)
	assert.Regexp(t, `Z$`, payload.CreatedAt)

	plain, err := svc.Notify(context.Background(), Request{UserID: 2, Type: notifdomain.TypeTest, Title: "t", Message: "m"})
	require.NoError(t, err)
	assert.Nil(t, plain.Payload().Resource)
}

func TestPushFailureDoesNotFailCreate(t *testing.T) {
	svc, db, pub, _ := newTestService(t)
	pub.err = errors.New("pusher unavailable")

	n, err := svc.Notify(context.Background(), Request{UserID: 3, Type: notifdomain.TypeTest, Title: "t", Message: "m"})
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, int64(1), countNotifications(t, db))
}

func TestEmailSentOnlyWithFlagAndAddress(t *testing.T) {
	tests := []struct {
		name      string
		sendEmail bool
		email     string
		wantSent  bool
	}{
		{"flag and address", true, "bob@example.com", true},
		{"flag without address", true, "", false},
		{"address without flag", false, "bob@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, mail := newTestService(t)
			_, err := svc.Notify(context.Background(), Request{
				UserID:    2,
				Type:      notifdomain.TypeBoardMemberAdded,
				Title:     "Te agregaron a un tablero",
				Message:   "hola",
				Resource:  notifdomain.BoardResource(7),
				UserEmail: tt.email,
				SendEmail: tt.sendEmail,
			})
			require.NoError(t, err)

			if !tt.wantSent {
				assert.Empty(t, mail.sent)
				return
			}
			require.Len(t, mail.sent, 1)
			assert.Equal(t, "bob@example.com", mail.sent[0].To)
			assert.Equal(t, "Te agregaron a un tablero", mail.sent[0].Subject)
			assert.Contains(t, mail.sent[0].HTML, `href="https://app.example.com/board/7"`)
			assert.Contains(t, mail.sent[0].HTML, "Abrir tablero")
		})
	}
}

func TestEmailFailureDoesNotFailCreate(t *testing.T) {
	svc, db, _, mail := newTestService(t)
	mail.err = errors.New("smtp down")

	_, err := svc.Notify(context.Background(), Request{
		UserID: 2, Type: notifdomain.TypeTest, Title: "t", Message: "m",
		UserEmail: "bob@example.com", SendEmail: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), countNotifications(t, db))
}

func TestRollbackDropsDelivery(t *testing.T) {
	svc, db, pub, _ := newTestService(t)
	boom := errors.New("caller failed")

	err := database.InTransaction(context.Background(), db, func(uow *database.UnitOfWork) error {
		if _, err := svc.Create(context.Background(), uow, Request{UserID: 2, Type: notifdomain.TypeTest, Title: "t", Message: "m"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(0), countNotifications(t, db))
	assert.Empty(t, pub.payloads)
}

func TestListAndMarkRead(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Notify(ctx, Request{UserID: 5, Type: notifdomain.TypeTest, Title: "a", Message: "a"})
	require.NoError(t, err)
	_, err = svc.Notify(ctx, Request{UserID: 5, Type: notifdomain.TypeTest, Title: "b", Message: "b"})
	require.NoError(t, err)
	_, err = svc.Notify(ctx, Request{UserID: 6, Type: notifdomain.TypeTest, Title: "other", Message: "x"})
	require.NoError(t, err)

	items, total, unread, err := svc.List(5, false, 10, 0)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, int64(2), unread)

	payload, err := svc.MarkOneRead(5, a.ID)
	require.NoError(t, err)
	assert.True(t, payload.Read)

	_, err = svc.MarkOneRead(6, a.ID)
	assert.Error(t, err, "other users cannot touch the notification")

	updated, err := svc.MarkRead(5, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	_, _, unread, err = svc.List(5, false, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}
