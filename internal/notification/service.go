// Package notification records user notifications and delivers them over the
// configured push transports and email.
package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	notifdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/domain"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/database"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/mailer"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultTimeout = 10 * time.Second

// Request describes one notification for one recipient.
type Request struct {
	UserID    uint
	Type      notifdomain.Type
	Title     string
	Message   string
	Resource  *notifdomain.Resource
	ActorID   *uint
	EventID   string // dedupe key; empty disables deduplication
	UserEmail string
	SendEmail bool
}

type Options struct {
	FrontendBaseURL string
	// Timeout bounds each outbound push or email call
	Timeout time.Duration
}

type Service struct {
	db        *gorm.DB
	repo      repository.NotificationRepository
	publisher Publisher
	mailer    mailer.Mailer
	opts      Options
}

func NewService(db *gorm.DB, repo repository.NotificationRepository, publisher Publisher, m mailer.Mailer, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if publisher == nil {
		publisher = FanOut(nil)
	}
	if m == nil {
		m = mailer.Disabled{}
	}
	return &Service{db: db, repo: repo, publisher: publisher, mailer: m, opts: opts}
}

// Create persists a notification within uow and schedules its delivery for
// after the commit. When req.EventID is already stored the existing row is
// returned and only the push is retried. It never commits or rolls back, and
// delivery failures are logged rather than returned.
func (s *Service) Create(ctx context.Context, uow *database.UnitOfWork, req Request) (*notifdomain.Notification, error) {
	if req.UserID == 0 {
		return nil, apperror.Validation("notification recipient is required")
	}

	repo := s.repo.WithTx(uow.DB().WithContext(ctx))

	if req.EventID != "" {
		existing, err := repo.FindByEventID(req.EventID)
		if err != nil {
			return nil, fmt.Errorf("lookup notification %s: %w", req.EventID, err)
		}
		if existing != nil {
			log.Printf("[Notification] Event %s already recorded, re-pushing", req.EventID)
			uow.AfterCommit(func() { s.push(existing) })
			return existing, nil
		}
	}

	n := &notifdomain.Notification{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		ActorID:   req.ActorID,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}
	n.SetResource(req.Resource)
	if req.EventID != "" {
		eventID := req.EventID
		n.EventID = &eventID
	}

	inserted, err := repo.CreateIfAbsent(n)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	if !inserted {
		// Lost a race on the event id; the other writer's row wins.
		existing, err := repo.FindByEventID(req.EventID)
		if err != nil {
			return nil, fmt.Errorf("lookup notification %s: %w", req.EventID, err)
		}
		if existing == nil {
			return nil, fmt.Errorf("notification %s conflicted but was not found", req.EventID)
		}
		uow.AfterCommit(func() { s.push(existing) })
		return existing, nil
	}

	uow.AfterCommit(func() {
		s.push(n)
		if req.SendEmail && req.UserEmail != "" {
			s.email(req.UserEmail, n)
		}
	})
	return n, nil
}

// Notify runs Create in its own transaction. Used where no caller write exists.
func (s *Service) Notify(ctx context.Context, req Request) (*notifdomain.Notification, error) {
	var n *notifdomain.Notification
	err := database.InTransaction(ctx, s.db, func(uow *database.UnitOfWork) error {
		var err error
		n, err = s.Create(ctx, uow, req)
		return err
	})
	return n, err
}

func (s *Service) push(n *notifdomain.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.Timeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, n.UserID, n.Payload()); err != nil {
		log.Printf("[Notification] Push failed for user=%d id=%s: %v", n.UserID, n.ID, err)
	}
}

func (s *Service) email(to string, n *notifdomain.Notification) {
	html, err := RenderEmail(s.opts.FrontendBaseURL, n.Title, n.Message, n.Resource())
	if err != nil {
		log.Printf("[Notification] Failed to render email for %s: %v", n.ID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.Timeout)
	defer cancel()

	log.Printf("[Notification] Sending email to %s subject=%q", to, n.Title)
	if err := s.mailer.Send(ctx, mailer.Message{To: to, Subject: n.Title, HTML: html}); err != nil {
		log.Printf("[Notification] Error sending email to %s: %v", to, err)
	}
}

// List returns the user's notifications, newest first, and the unread count.
func (s *Service) List(userID uint, unreadOnly bool, limit, offset int) ([]notifdomain.Payload, int64, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.repo.ListByUser(userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, 0, apperror.Internal("failed to list notifications", err)
	}
	unread, err := s.repo.CountUnread(userID)
	if err != nil {
		return nil, 0, 0, apperror.Internal("failed to count notifications", err)
	}

	payloads := make([]notifdomain.Payload, 0, len(items))
	for i := range items {
		payloads = append(payloads, items[i].Payload())
	}
	return payloads, total, unread, nil
}

// MarkRead marks ids as read, or every unread notification when ids is empty.
func (s *Service) MarkRead(userID uint, ids []string) (int64, error) {
	var (
		updated int64
		err     error
	)
	if len(ids) == 0 {
		updated, err = s.repo.MarkAllRead(userID)
	} else {
		updated, err = s.repo.MarkRead(userID, ids)
	}
	if err != nil {
		return 0, apperror.Internal("failed to mark notifications read", err)
	}
	return updated, nil
}

func (s *Service) MarkOneRead(userID uint, id string) (*notifdomain.Payload, error) {
	n, err := s.repo.FindByID(id)
	if err != nil {
		return nil, apperror.Internal("failed to load notification", err)
	}
	if n == nil || n.UserID != userID {
		return nil, apperror.NotFound("notification not found")
	}
	if !n.Read {
		if _, err := s.repo.MarkRead(userID, []string{id}); err != nil {
			return nil, apperror.Internal("failed to mark notification read", err)
		}
		n.Read = true
	}
	payload := n.Payload()
	return &payload, nil
}

// SendTestEmail delivers a sample email synchronously so configuration
// problems surface to the caller.
func (s *Service) SendTestEmail(ctx context.Context, to string) error {
	html, err := RenderEmail(s.opts.FrontendBaseURL, "Correo de prueba", "Si ves este mensaje, el envío de correos funciona.", nil)
	if err != nil {
		return apperror.Internal("failed to render email", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	if err := s.mailer.Send(ctx, mailer.Message{To: to, Subject: "Correo de prueba", HTML: html}); err != nil {
		return apperror.Internal("failed to send test email", err)
	}
	return nil
}
