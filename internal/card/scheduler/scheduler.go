package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	authrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/repository"
	carddomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/domain"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/database"

	"gorm.io/gorm"
)

// errDueDateMoved rolls back a reminder whose card was rescheduled after the scan.
var errDueDateMoved = errors.New("due date changed since scan")

// DueReminderScheduler notifies the people on a card shortly before it is due.
type DueReminderScheduler struct {
	db         *gorm.DB
	cardRepo   repository.CardRepository
	userRepo   authrepo.UserRepository
	dispatcher notification.Dispatcher
	interval   time.Duration
	window     time.Duration
	now        func() time.Time
	stopChan   chan struct{}
}

func NewDueReminderScheduler(
	db *gorm.DB,
	cardRepo repository.CardRepository,
	userRepo authrepo.UserRepository,
	dispatcher notification.Dispatcher,
	interval, window time.Duration,
) *DueReminderScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &DueReminderScheduler{
		db:         db,
		cardRepo:   cardRepo,
		userRepo:   userRepo,
		dispatcher: dispatcher,
		interval:   interval,
		window:     window,
		now:        time.Now,
		stopChan:   make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *DueReminderScheduler) Start() {
	log.Printf("[Scheduler] Starting due reminder scheduler (interval: %s, window: %s)", s.interval, s.window)

	go func() {
		s.RunOnce(context.Background())

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.RunOnce(context.Background())
			case <-s.stopChan:
				log.Println("[Scheduler] Scheduler stopped")
				return
			}
		}
	}()
}

func (s *DueReminderScheduler) Stop() {
	close(s.stopChan)
}

// RunOnce sends reminders for every card due within the window and returns
// how many cards were processed.
func (s *DueReminderScheduler) RunOnce(ctx context.Context) int {
	cards, err := s.cardRepo.FindDueForReminder(s.now().UTC(), s.window)
	if err != nil {
		log.Printf("[Scheduler] Error finding due cards: %v", err)
		return 0
	}
	if len(cards) == 0 {
		return 0
	}

	log.Printf("[Scheduler] Found %d cards due soon", len(cards))

	processed := 0
	for i := range cards {
		if err := s.remind(ctx, &cards[i]); err != nil {
			log.Printf("[Scheduler] Error sending reminder for card %d: %v", cards[i].ID, err)
			continue
		}
		processed++
	}
	return processed
}

func (s *DueReminderScheduler) remind(ctx context.Context, card *carddomain.Card) error {
	return database.InTransaction(ctx, s.db, func(uow *database.UnitOfWork) error {
		recipients, err := s.recipients(s.userRepo.WithTx(uow.DB()), card)
		if err != nil {
			return err
		}

		for i := range recipients {
			req := notification.CardDueSoon(card.ID, card.Title, *card.DueDate, &recipients[i])
			if _, err := s.dispatcher.Create(ctx, uow, req); err != nil {
				return err
			}
		}

		// Marked even without recipients so the card is not rescanned.
		marked, err := s.cardRepo.WithTx(uow.DB()).MarkReminderSent(card.ID, *card.DueDate)
		if err != nil {
			return err
		}
		if marked == 0 {
			return errDueDateMoved
		}
		return nil
	})
}

// recipients is the responsible user plus the card members, without duplicates.
func (s *DueReminderScheduler) recipients(users authrepo.UserRepository, card *carddomain.Card) ([]authdomain.User, error) {
	out := make([]authdomain.User, 0, len(card.Members)+1)
	seen := make(map[uint]struct{})

	if card.ResponsableID != nil {
		user, err := users.FindByID(*card.ResponsableID)
		if err != nil {
			return nil, err
		}
		if user != nil {
			out = append(out, *user)
			seen[user.ID] = struct{}{}
		}
	}
	for _, m := range card.Members {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out, nil
}
