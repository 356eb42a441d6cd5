package repository

import (
	"errors"
	"time"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	carddomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/domain"
	tagdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/tag/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CardRepository interface {
	WithTx(tx *gorm.DB) CardRepository
	Create(card *carddomain.Card) error
	// Save updates the card's own columns; associations are left untouched
	Save(card *carddomain.Card) error
	// FindByID loads the card with tags, members and list
	FindByID(id uint) (*carddomain.Card, error)
	FindByBoard(boardID uint) ([]carddomain.Card, error)
	ReplaceTags(card *carddomain.Card, tags []tagdomain.Tag) error
	ReplaceMembers(card *carddomain.Card, users []authdomain.User) error
	AddMembers(card *carddomain.Card, users []authdomain.User) error
	RemoveMember(card *carddomain.Card, userID uint) error
	// Delete removes the card with its comments, subtasks and join rows
	Delete(id uint) error

	// FindDueForReminder returns cards due in [now, now+window] whose
	// reminder has not been sent
	FindDueForReminder(now time.Time, window time.Duration) ([]carddomain.Card, error)
	MarkReminderSent(id uint, dueDate time.Time) (int64, error)
}

type cardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) WithTx(tx *gorm.DB) CardRepository {
	return &cardRepository{db: tx}
}

func (r *cardRepository) Create(card *carddomain.Card) error {
	return r.db.Omit("Members.*", "Tags.*", "List").Create(card).Error
}

func (r *cardRepository) Save(card *carddomain.Card) error {
	return r.db.Omit(clause.Associations).Save(card).Error
}

func (r *cardRepository) withRelations() *gorm.DB {
	return r.db.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("users.id") }).
		Preload("List")
}

func (r *cardRepository) FindByID(id uint) (*carddomain.Card, error) {
	var card carddomain.Card
	if err := r.withRelations().First(&card, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) FindByBoard(boardID uint) ([]carddomain.Card, error) {
	var cards []carddomain.Card
	err := r.withRelations().Where("board_id = ?", boardID).Order("id").Find(&cards).Error
	return cards, err
}

func (r *cardRepository) ReplaceTags(card *carddomain.Card, tags []tagdomain.Tag) error {
	if len(tags) == 0 {
		return r.db.Model(card).Association("Tags").Clear()
	}
	return r.db.Model(card).Association("Tags").Replace(tags)
}

func (r *cardRepository) ReplaceMembers(card *carddomain.Card, users []authdomain.User) error {
	if len(users) == 0 {
		return r.db.Model(card).Association("Members").Clear()
	}
	return r.db.Model(card).Association("Members").Replace(users)
}

func (r *cardRepository) AddMembers(card *carddomain.Card, users []authdomain.User) error {
	if len(users) == 0 {
		return nil
	}
	return r.db.Model(card).Association("Members").Append(users)
}

func (r *cardRepository) RemoveMember(card *carddomain.Card, userID uint) error {
	return r.db.Model(card).Association("Members").Delete(&authdomain.User{ID: userID})
}

func (r *cardRepository) Delete(id uint) error {
	statements := []string{
		"DELETE FROM comments WHERE card_id = ?",
		"DELETE FROM subtasks WHERE card_id = ?",
		"DELETE FROM card_tag_association WHERE card_id = ?",
		"DELETE FROM card_user_association WHERE card_id = ?",
	}
	for _, stmt := range statements {
		if err := r.db.Exec(stmt, id).Error; err != nil {
			return err
		}
	}
	return r.db.Delete(&carddomain.Card{}, id).Error
}

func (r *cardRepository) FindDueForReminder(now time.Time, window time.Duration) ([]carddomain.Card, error) {
	var cards []carddomain.Card
	err := r.db.
		Preload("Members").
		Where("due_date IS NOT NULL AND due_date >= ? AND due_date <= ? AND due_reminder_sent = ?", now, now.Add(window), false).
		Order("due_date").
		Find(&cards).Error
	return cards, err
}

// MarkReminderSent flags the reminder for dueDate only. A card whose due date
// moved since it was scanned keeps its re-armed flag.
func (r *cardRepository) MarkReminderSent(id uint, dueDate time.Time) (int64, error) {
	res := r.db.Model(&carddomain.Card{}).
		Where("id = ? AND due_date = ?", id, dueDate).
		Update("due_reminder_sent", true)
	return res.RowsAffected, res.Error
}
