package repository

import (
	"errors"

	listdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/list/domain"

	"gorm.io/gorm"
)

type ListRepository interface {
	WithTx(tx *gorm.DB) ListRepository
	Create(list *listdomain.List) error
	Save(list *listdomain.List) error
	FindByID(id uint) (*listdomain.List, error)
	FindByBoard(boardID uint) ([]listdomain.List, error)
	// FindByNameKey looks up a list by its case-folded name within a board
	FindByNameKey(boardID uint, key string) (*listdomain.List, error)
	MaxPosition(boardID uint) (int, error)
	HasCards(id uint) (bool, error)
	// Delete removes the list and detaches its cards
	Delete(id uint) error
}

type listRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) ListRepository {
	return &listRepository{db: db}
}

func (r *listRepository) WithTx(tx *gorm.DB) ListRepository {
	return &listRepository{db: tx}
}

func (r *listRepository) Create(list *listdomain.List) error {
	return r.db.Create(list).Error
}

func (r *listRepository) Save(list *listdomain.List) error {
	return r.db.Save(list).Error
}

func (r *listRepository) FindByID(id uint) (*listdomain.List, error) {
	var list listdomain.List
	if err := r.db.First(&list, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &list, nil
}

func (r *listRepository) FindByBoard(boardID uint) ([]listdomain.List, error) {
	var lists []listdomain.List
	err := r.db.Where("board_id = ?", boardID).Order("position ASC, id ASC").Find(&lists).Error
	return lists, err
}

func (r *listRepository) FindByNameKey(boardID uint, key string) (*listdomain.List, error) {
	var list listdomain.List
	if err := r.db.Where("board_id = ? AND name_key = ?", boardID, key).First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &list, nil
}

func (r *listRepository) MaxPosition(boardID uint) (int, error) {
	var max int
	err := r.db.Model(&listdomain.List{}).
		Where("board_id = ?", boardID).
		Select("COALESCE(MAX(position), 0)").
		Row().
		Scan(&max)
	return max, err
}

func (r *listRepository) HasCards(id uint) (bool, error) {
	var count int64
	err := r.db.Table("cards").Where("list_id = ?", id).Limit(1).Count(&count).Error
	return count > 0, err
}

func (r *listRepository) Delete(id uint) error {
	if err := r.db.Exec("UPDATE cards SET list_id = NULL WHERE list_id = ?", id).Error; err != nil {
		return err
	}
	return r.db.Delete(&listdomain.List{}, id).Error
}
