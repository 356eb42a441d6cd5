package repository

import (
	"errors"

	notifdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRepository defines data access for notifications
type NotificationRepository interface {
	WithTx(tx *gorm.DB) NotificationRepository
	FindByEventID(eventID string) (*notifdomain.Notification, error)
	// CreateIfAbsent inserts n unless its event id is already stored.
	// It reports whether a row was inserted.
	CreateIfAbsent(n *notifdomain.Notification) (bool, error)
	FindByID(id string) (*notifdomain.Notification, error)
	ListByUser(userID uint, unreadOnly bool, limit, offset int) ([]notifdomain.Notification, int64, error)
	CountUnread(userID uint) (int64, error)
	MarkRead(userID uint, ids []string) (int64, error)
	MarkAllRead(userID uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) WithTx(tx *gorm.DB) NotificationRepository {
	return &notificationRepository{db: tx}
}

func (r *notificationRepository) FindByEventID(eventID string) (*notifdomain.Notification, error) {
	var n notifdomain.Notification
	err := r.db.Where("event_id = ?", eventID).First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) CreateIfAbsent(n *notifdomain.Notification) (bool, error) {
	if n.EventID == nil {
		return true, r.db.Create(n).Error
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(n)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *notificationRepository) FindByID(id string) (*notifdomain.Notification, error) {
	var n notifdomain.Notification
	err := r.db.Where("id = ?", id).First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) ListByUser(userID uint, unreadOnly bool, limit, offset int) ([]notifdomain.Notification, int64, error) {
	scope := func() *gorm.DB {
		query := r.db.Model(&notifdomain.Notification{}).Where("user_id = ?", userID)
		if unreadOnly {
			query = query.Where("read = ?", false)
		}
		return query
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []notifdomain.Notification
	err := scope().Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *notificationRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&notifdomain.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkRead(userID uint, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&notifdomain.Notification{}).
		Where("user_id = ? AND id IN ? AND read = ?", userID, ids, false).
		Update("read", true)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) MarkAllRead(userID uint) (int64, error) {
	result := r.db.Model(&notifdomain.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	return result.RowsAffected, result.Error
}
