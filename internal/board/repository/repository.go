package repository

import (
	"errors"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	boarddomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/domain"
	tagdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/tag/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BoardRepository interface {
	WithTx(tx *gorm.DB) BoardRepository
	Create(board *boarddomain.Board) error
	// Save updates the board's own columns; associations are left untouched
	Save(board *boarddomain.Board) error
	// FindByID loads the board with members and tags
	FindByID(id uint) (*boarddomain.Board, error)
	ListVisible(userID uint) ([]boarddomain.Board, error)
	ListByParticipant(userID uint) ([]boarddomain.Board, error)
	ReplaceMembers(board *boarddomain.Board, users []authdomain.User) error
	AddMember(board *boarddomain.Board, user *authdomain.User) error
	RemoveMember(board *boarddomain.Board, userID uint) error
	ReplaceTags(board *boarddomain.Board, tags []tagdomain.Tag) error
	// Delete removes the board and everything that hangs off it
	Delete(id uint) error

	AddFavorite(userID, boardID uint) error
	RemoveFavorite(userID, boardID uint) (bool, error)
	ListFavorites(userID uint) ([]boarddomain.Board, error)
}

type boardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &boardRepository{db: db}
}

func (r *boardRepository) WithTx(tx *gorm.DB) BoardRepository {
	return &boardRepository{db: tx}
}

func (r *boardRepository) Create(board *boarddomain.Board) error {
	// Members and tags already exist; only the join rows are written.
	return r.db.Omit("Members.*", "Tags.*").Create(board).Error
}

func (r *boardRepository) Save(board *boarddomain.Board) error {
	return r.db.Omit(clause.Associations).Save(board).Error
}

func (r *boardRepository) withRelations() *gorm.DB {
	return r.db.
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("users.id") }).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") })
}

func (r *boardRepository) FindByID(id uint) (*boarddomain.Board, error) {
	var board boarddomain.Board
	if err := r.withRelations().First(&board, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &board, nil
}

const memberBoardIDs = "SELECT board_id FROM board_user_association WHERE user_id = ?"

func (r *boardRepository) ListVisible(userID uint) ([]boarddomain.Board, error) {
	var boards []boarddomain.Board
	err := r.withRelations().
		Where("is_public = ? OR user_id = ? OR id IN ("+memberBoardIDs+")", true, userID, userID).
		Order("creation_date DESC").
		Find(&boards).Error
	return boards, err
}

func (r *boardRepository) ListByParticipant(userID uint) ([]boarddomain.Board, error) {
	var boards []boarddomain.Board
	err := r.withRelations().
		Where("user_id = ? OR id IN ("+memberBoardIDs+")", userID, userID).
		Order("creation_date DESC").
		Find(&boards).Error
	return boards, err
}

func (r *boardRepository) ReplaceMembers(board *boarddomain.Board, users []authdomain.User) error {
	if len(users) == 0 {
		return r.db.Model(board).Association("Members").Clear()
	}
	return r.db.Model(board).Association("Members").Replace(users)
}

func (r *boardRepository) AddMember(board *boarddomain.Board, user *authdomain.User) error {
	return r.db.Model(board).Association("Members").Append(user)
}

func (r *boardRepository) RemoveMember(board *boarddomain.Board, userID uint) error {
	return r.db.Model(board).Association("Members").Delete(&authdomain.User{ID: userID})
}

func (r *boardRepository) ReplaceTags(board *boarddomain.Board, tags []tagdomain.Tag) error {
	if len(tags) == 0 {
		return r.db.Model(board).Association("Tags").Clear()
	}
	return r.db.Model(board).Association("Tags").Replace(tags)
}

func (r *boardRepository) Delete(id uint) error {
	const cardIDs = "SELECT id FROM cards WHERE board_id = ?"
	statements := []string{
		"DELETE FROM comments WHERE card_id IN (" + cardIDs + ")",
		"DELETE FROM subtasks WHERE card_id IN (" + cardIDs + ")",
		"DELETE FROM card_tag_association WHERE card_id IN (" + cardIDs + ")",
		"DELETE FROM card_user_association WHERE card_id IN (" + cardIDs + ")",
		"DELETE FROM cards WHERE board_id = ?",
		"DELETE FROM lists WHERE board_id = ?",
		"DELETE FROM favorite_boards WHERE board_id = ?",
		"DELETE FROM board_user_association WHERE board_id = ?",
		"DELETE FROM board_tag_association WHERE board_id = ?",
	}
	for _, stmt := range statements {
		if err := r.db.Exec(stmt, id).Error; err != nil {
			return err
		}
	}
	return r.db.Delete(&boarddomain.Board{}, id).Error
}

func (r *boardRepository) AddFavorite(userID, boardID uint) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&boarddomain.FavoriteBoard{UserID: userID, BoardID: boardID}).Error
}

func (r *boardRepository) RemoveFavorite(userID, boardID uint) (bool, error) {
	result := r.db.Where("user_id = ? AND board_id = ?", userID, boardID).Delete(&boarddomain.FavoriteBoard{})
	return result.RowsAffected > 0, result.Error
}

func (r *boardRepository) ListFavorites(userID uint) ([]boarddomain.Board, error) {
	var boards []boarddomain.Board
	err := r.withRelations().
		Select("boards.*").
		Joins("JOIN favorite_boards ON favorite_boards.board_id = boards.id").
		Where("favorite_boards.user_id = ?", userID).
		Order("favorite_boards.created_at DESC").
		Find(&boards).Error
	return boards, err
}
