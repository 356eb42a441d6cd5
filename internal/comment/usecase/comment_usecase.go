package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	boarddomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/domain"
	boardrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/repository"
	carddomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/domain"
	cardrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/repository"
	commentdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/comment/domain"
	commentdto "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/comment/dto"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/comment/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/database"

	"gorm.io/gorm"
)

type commentUsecase struct {
	db          *gorm.DB
	commentRepo repository.CommentRepository
	cardRepo    cardrepo.CardRepository
	boardRepo   boardrepo.BoardRepository
	dispatcher  notification.Dispatcher
}

func NewCommentUsecase(
	db *gorm.DB,
	commentRepo repository.CommentRepository,
	cardRepo cardrepo.CardRepository,
	boardRepo boardrepo.BoardRepository,
	dispatcher notification.Dispatcher,
) CommentUsecase {
	return &commentUsecase{
		db:          db,
		commentRepo: commentRepo,
		cardRepo:    cardRepo,
		boardRepo:   boardRepo,
		dispatcher:  dispatcher,
	}
}

// cardContext loads a card and the board that governs access to it.
func cardContext(cards cardrepo.CardRepository, boards boardrepo.BoardRepository, cardID uint) (*carddomain.Card, *boarddomain.Board, error) {
	card, err := cards.FindByID(cardID)
	if err != nil {
		return nil, nil, apperror.Internal("failed to load card", err)
	}
	if card == nil {
		return nil, nil, apperror.NotFound("card not found")
	}
	board, err := boards.FindByID(card.BoardID)
	if err != nil {
		return nil, nil, apperror.Internal("failed to load board", err)
	}
	if board == nil {
		return nil, nil, apperror.NotFound("board not found")
	}
	return card, board, nil
}

func (u *commentUsecase) findComment(repo repository.CommentRepository, id uint) (*commentdomain.Comment, error) {
	comment, err := repo.FindByID(id)
	if err != nil {
		return nil, apperror.Internal("failed to load comment", err)
	}
	if comment == nil {
		return nil, apperror.NotFound("comment not found")
	}
	return comment, nil
}

func (u *commentUsecase) Create(ctx context.Context, actor *authdomain.User, req *commentdto.CreateCommentRequest) (*commentdomain.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperror.Validation("content is required")
	}

	var comment *commentdomain.Comment
	err := database.InTransaction(ctx, u.db, func(uow *database.UnitOfWork) error {
		comments := u.commentRepo.WithTx(uow.DB())

		card, board, err := cardContext(u.cardRepo.WithTx(uow.DB()), u.boardRepo.WithTx(uow.DB()), req.CardID)
		if err != nil {
			return err
		}
		if !board.AccessFor(actor.ID).CanRead() {
			return apperror.Forbidden("you do not have access to this card")
		}

		var parent *commentdomain.Comment
		if req.ParentID != nil {
			parent, err = comments.FindByID(*req.ParentID)
			if err != nil {
				return apperror.Internal("failed to load parent comment", err)
			}
			if parent == nil || parent.CardID != card.ID {
				return apperror.Validation("invalid parentId")
			}
			if parent.IsReply() {
				return apperror.Validation("replies cannot be nested")
			}
		}

		comment = &commentdomain.Comment{
			CardID:    card.ID,
			UserID:    actor.ID,
			ParentID:  req.ParentID,
			Content:   content,
			CreatedAt: time.Now().UTC(),
		}
		if err := comments.Create(comment); err != nil {
			return apperror.Internal("failed to create comment", err)
		}
		comment.User = actor

		return u.notify(ctx, uow, card, parent, comment, actor)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (u *commentUsecase) notify(ctx context.Context, uow *database.UnitOfWork, card *carddomain.Card, parent, comment *commentdomain.Comment, actor *authdomain.User) error {
	if parent == nil {
		for _, m := range card.Members {
			if m.ID == actor.ID {
				continue
			}
			req := notification.CommentNew(card.ID, card.Title, comment.ID, comment.Content, actor, m.ID)
			if _, err := u.dispatcher.Create(ctx, uow, req); err != nil {
				return fmt.Errorf("notify comment to %d: %w", m.ID, err)
			}
		}
		return nil
	}

	if parent.UserID == actor.ID {
		return nil
	}
	req := notification.CommentReply(card.ID, parent.ID, comment.ID, comment.Content, actor, parent.UserID)
	if _, err := u.dispatcher.Create(ctx, uow, req); err != nil {
		return fmt.Errorf("notify reply to %d: %w", parent.UserID, err)
	}
	return nil
}

func (u *commentUsecase) List(userID uint, query commentdto.ListCommentsQuery) ([]commentdomain.Comment, commentdto.ListMeta, error) {
	meta := commentdto.ListMeta{Limit: query.Limit, Offset: query.Offset}
	if meta.Limit <= 0 {
		meta.Limit = DefaultPageSize
	}
	if meta.Limit > MaxPageSize {
		meta.Limit = MaxPageSize
	}
	if meta.Offset < 0 {
		meta.Offset = 0
	}

	_, board, err := cardContext(u.cardRepo, u.boardRepo, query.CardID)
	if err != nil {
		return nil, meta, err
	}
	if !board.AccessFor(userID).CanRead() {
		return nil, meta, apperror.Forbidden("you do not have access to this card")
	}

	comments, total, err := u.commentRepo.ListByCard(query.CardID, meta.Limit, meta.Offset)
	if err != nil {
		return nil, meta, apperror.Internal("failed to list comments", err)
	}
	meta.Total = total
	return comments, meta, nil
}

func (u *commentUsecase) Update(ctx context.Context, userID, commentID uint, content string) (*commentdomain.Comment, error) {
	content = strings.TrimSpace(content)

	var comment *commentdomain.Comment
	err := database.InTransaction(ctx, u.db, func(uow *database.UnitOfWork) error {
		comments := u.commentRepo.WithTx(uow.DB())

		var err error
		if comment, err = u.findComment(comments, commentID); err != nil {
			return err
		}
		if comment.IsDeleted() {
			return apperror.Validation("a deleted comment cannot be edited")
		}
		if comment.UserID != userID {
			return apperror.Forbidden("only the author can edit this comment")
		}
		if content == "" {
			return apperror.Validation("content is required")
		}

		now := time.Now().UTC()
		comment.Content = content
		comment.IsEdited = true
		comment.UpdatedAt = &now
		if err := comments.Save(comment); err != nil {
			return apperror.Internal("failed to update comment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// moderate loads a comment the caller may soft-delete or restore: its author
// or the owner of the card's board.
func (u *commentUsecase) moderate(ctx context.Context, userID, commentID uint, denied string, apply func(c *commentdomain.Comment) bool) error {
	return database.InTransaction(ctx, u.db, func(uow *database.UnitOfWork) error {
		comments := u.commentRepo.WithTx(uow.DB())

		comment, err := u.findComment(comments, commentID)
		if err != nil {
			return err
		}
		if comment.UserID != userID {
			_, board, err := cardContext(u.cardRepo.WithTx(uow.DB()), u.boardRepo.WithTx(uow.DB()), comment.CardID)
			if err != nil {
				return err
			}
			if !board.AccessFor(userID).IsOwner() {
				return apperror.Forbidden(denied)
			}
		}

		if !apply(comment) {
			return nil
		}
		if err := comments.Save(comment); err != nil {
			return apperror.Internal("failed to save comment", err)
		}
		return nil
	})
}

func (u *commentUsecase) Delete(ctx context.Context, userID, commentID uint) error {
	return u.moderate(ctx, userID, commentID, "you cannot delete this comment", func(c *commentdomain.Comment) bool {
		if c.IsDeleted() {
			return false
		}
		now := time.Now().UTC()
		c.DeletedAt = &now
		c.DeletedBy = &userID
		return true
	})
}

func (u *commentUsecase) Restore(ctx context.Context, userID, commentID uint) error {
	return u.moderate(ctx, userID, commentID, "you cannot restore this comment", func(c *commentdomain.Comment) bool {
		if !c.IsDeleted() {
			return false
		}
		c.DeletedAt = nil
		c.DeletedBy = nil
		return true
	})
}
