package repository

import (
	"errors"

	subtaskdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/subtask/domain"

	"gorm.io/gorm"
)

type SubtaskRepository interface {
	WithTx(tx *gorm.DB) SubtaskRepository
	Create(subtask *subtaskdomain.Subtask) error
	Save(subtask *subtaskdomain.Subtask) error
	FindByID(id uint) (*subtaskdomain.Subtask, error)
	// FindByCard includes inactive subtasks.
	FindByCard(cardID uint) ([]subtaskdomain.Subtask, error)
	Inactivate(id uint) error
}

type subtaskRepository struct {
	db *gorm.DB
}

func NewSubtaskRepository(db *gorm.DB) SubtaskRepository {
	return &subtaskRepository{db: db}
}

func (r *subtaskRepository) WithTx(tx *gorm.DB) SubtaskRepository {
	return &subtaskRepository{db: tx}
}

func (r *subtaskRepository) Create(subtask *subtaskdomain.Subtask) error {
	return r.db.Omit("Responsible").Create(subtask).Error
}

func (r *subtaskRepository) Save(subtask *subtaskdomain.Subtask) error {
	return r.db.Omit("Responsible").Save(subtask).Error
}

func (r *subtaskRepository) FindByID(id uint) (*subtaskdomain.Subtask, error) {
	var subtask subtaskdomain.Subtask
	if err := r.db.Preload("Responsible").First(&subtask, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &subtask, nil
}

func (r *subtaskRepository) FindByCard(cardID uint) ([]subtaskdomain.Subtask, error) {
	var subtasks []subtaskdomain.Subtask
	err := r.db.Preload("Responsible").Where("card_id = ?", cardID).Order("id").Find(&subtasks).Error
	return subtasks, err
}

func (r *subtaskRepository) Inactivate(id uint) error {
	return r.db.Model(&subtaskdomain.Subtask{}).Where("id = ?", id).Update("is_active", false).Error
}
