package repository

import (
	"errors"

	commentdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/comment/domain"

	"gorm.io/gorm"
)

type CommentRepository interface {
	WithTx(tx *gorm.DB) CommentRepository
	Create(comment *commentdomain.Comment) error
	Save(comment *commentdomain.Comment) error
	FindByID(id uint) (*commentdomain.Comment, error)
	// ListByCard returns one page of a card's comments, oldest first,
	// soft-deleted rows included, plus the total count.
	ListByCard(cardID uint, limit, offset int) ([]commentdomain.Comment, int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{db: tx}
}

func (r *commentRepository) Create(comment *commentdomain.Comment) error {
	return r.db.Omit("User").Create(comment).Error
}

func (r *commentRepository) Save(comment *commentdomain.Comment) error {
	return r.db.Omit("User").Save(comment).Error
}

func (r *commentRepository) FindByID(id uint) (*commentdomain.Comment, error) {
	var comment commentdomain.Comment
	if err := r.db.Preload("User").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByCard(cardID uint, limit, offset int) ([]commentdomain.Comment, int64, error) {
	scope := func() *gorm.DB {
		return r.db.Model(&commentdomain.Comment{}).Where("card_id = ?", cardID)
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []commentdomain.Comment
	err := scope().
		Preload("User").
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, total, err
}
