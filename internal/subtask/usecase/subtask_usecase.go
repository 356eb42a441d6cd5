package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	authrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/repository"
	boarddomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/domain"
	boardrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/repository"
	cardrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification"
	subtaskdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/subtask/domain"
	subtaskdto "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/subtask/dto"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/subtask/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/database"

	"gorm.io/gorm"
)

var errSubtaskNotFound = apperror.NotFound("subtask not found")

type subtaskUsecase struct {
	db          *gorm.DB
	subtaskRepo repository.SubtaskRepository
	cardRepo    cardrepo.CardRepository
	boardRepo   boardrepo.BoardRepository
	userRepo    authrepo.UserRepository
	dispatcher  notification.Dispatcher
}

func NewSubtaskUsecase(
	db *gorm.DB,
	subtaskRepo repository.SubtaskRepository,
	cardRepo cardrepo.CardRepository,
	boardRepo boardrepo.BoardRepository,
	userRepo authrepo.UserRepository,
	dispatcher notification.Dispatcher,
) SubtaskUsecase {
	return &subtaskUsecase{
		db:          db,
		subtaskRepo: subtaskRepo,
		cardRepo:    cardRepo,
		boardRepo:   boardRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
	}
}

func validateDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", apperror.Validation("description is required")
	}
	if utf8.RuneCountInString(description) > subtaskdomain.MaxDescriptionLength {
		return "", apperror.Validation("description must be at most %d characters", subtaskdomain.MaxDescriptionLength)
	}
	return description, nil
}

// cardAccess resolves the caller's access to the board owning cardID.
func cardAccess(cards cardrepo.CardRepository, boards boardrepo.BoardRepository, cardID, userID uint) (boarddomain.Access, error) {
	card, err := cards.FindByID(cardID)
	if err != nil {
		return boarddomain.AccessNone, apperror.Internal("failed to load card", err)
	}
	if card == nil {
		return boarddomain.AccessNone, apperror.NotFound("card not found")
	}
	board, err := boards.FindByID(card.BoardID)
	if err != nil {
		return boarddomain.AccessNone, apperror.Internal("failed to load board", err)
	}
	if board == nil {
		return boarddomain.AccessNone, apperror.NotFound("board not found")
	}
	return board.AccessFor(userID), nil
}

func findResponsible(users authrepo.UserRepository, id uint) (*authdomain.User, error) {
	user, err := users.FindByID(id)
	if err != nil {
		return nil, apperror.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, apperror.Validation("user %d not found", id)
	}
	return user, nil
}

func findActive(subtasks repository.SubtaskRepository, id uint) (*subtaskdomain.Subtask, error) {
	subtask, err := subtasks.FindByID(id)
	if err != nil {
		return nil, apperror.Internal("failed to load subtask", err)
	}
	if subtask == nil || !subtask.IsActive {
		return nil, errSubtaskNotFound
	}
	return subtask, nil
}

func (u *subtaskUsecase) notifyAssigned(ctx context.Context, uow *database.UnitOfWork, subtask *subtaskdomain.Subtask, actor, assignee *authdomain.User) error {
	if assignee == nil || assignee.ID == actor.ID {
		return nil
	}
	req := notification.SubtaskAssigned(subtask.CardID, subtask.ID, subtask.Description, actor, assignee)
	if _, err := u.dispatcher.Create(ctx, uow, req); err != nil {
		return fmt.Errorf("notify subtask assignee %d: %w", assignee.ID, err)
	}
	return nil
}

func (u *subtaskUsecase) Create(ctx context.Context, actor *authdomain.User, req *subtaskdto.CreateSubtaskRequest) (*subtaskdomain.Subtask, error) {
	description, err := validateDescription(req.Description)
	if err != nil {
		return nil, err
	}

	var subtask *subtaskdomain.Subtask
	err = database.InTransaction(ctx, u.db, func(uow *database.UnitOfWork) error {
		access, err := cardAccess(u.cardRepo.WithTx(uow.DB()), u.boardRepo.WithTx(uow.DB()), req.CardID, actor.ID)
		if err != nil {
			return err
		}
		if !access.CanEdit() {
			return apperror.Forbidden("you must be a member of the board")
		}

		var assignee *authdomain.User
		if req.ResponsibleID != nil {
			if assignee, err = findResponsible(u.userRepo.WithTx(uow.DB()), *req.ResponsibleID); err != nil {
				return err
			}
		}

		subtask = &subtaskdomain.Subtask{
			Description:   description,
			LimitDate:     req.LimitDate.Ptr(),
			ResponsibleID: req.ResponsibleID,
			CardID:        req.CardID,
			IsActive:      true,
		}
		if err := u.subtaskRepo.WithTx(uow.DB()).Create(subtask); err != nil {
			return apperror.Internal("failed to create subtask", err)
		}
		subtask.Responsible = assignee

		return u.notifyAssigned(ctx, uow, subtask, actor, assignee)
	})
	if err != nil {
		return nil, err
	}
	return subtask, nil
}

func (u *subtaskUsecase) ListByCard(userID, cardID uint) ([]subtaskdomain.Subtask, error) {
	access, err := cardAccess(u.cardRepo, u.boardRepo, cardID, userID)
	if err != nil {
		return nil, err
	}
	if !access.CanRead() {
		return nil, apperror.Forbidden("you do not have access to this card")
	}

	subtasks, err := u.subtaskRepo.FindByCard(cardID)
	if err != nil {
		return nil, apperror.Internal("failed to list subtasks", err)
	}
	return subtasks, nil
}

func (u *subtaskUsecase) Get(userID, subtaskID uint) (*subtaskdomain.Subtask, error) {
	subtask, err := findActive(u.subtaskRepo, subtaskID)
	if err != nil {
		return nil, err
	}
	access, err := cardAccess(u.cardRepo, u.boardRepo, subtask.CardID, userID)
	if err != nil {
		return nil, err
	}
	if !access.CanRead() {
		return nil, apperror.Forbidden("you do not have access to this subtask")
	}
	return subtask, nil
}

func (u *subtaskUsecase) Update(ctx context.Context, actor *authdomain.User, subtaskID uint, req *subtaskdto.UpdateSubtaskRequest) (*subtaskdomain.Subtask, error) {
	var subtask *subtaskdomain.Subtask
	err := database.InTransaction(ctx, u.db, func(uow *database.UnitOfWork) error {
		subtasks := u.subtaskRepo.WithTx(uow.DB())
		cards := u.cardRepo.WithTx(uow.DB())
		boards := u.boardRepo.WithTx(uow.DB())

		var err error
		if subtask, err = findActive(subtasks, subtaskID); err != nil {
			return err
		}
		access, err := cardAccess(cards, boards, subtask.CardID, actor.ID)
		if err != nil {
			return err
		}
		if !access.CanEdit() {
			return apperror.Forbidden("you must be a member of the board")
		}

		if req.Description != nil {
			if subtask.Description, err = validateDescription(*req.Description); err != nil {
				return err
			}
		}
		if req.LimitDate != nil {
			subtask.LimitDate = req.LimitDate.Ptr()
		}
		if req.CardID != nil && *req.CardID != subtask.CardID {
			target, err := cardAccess(cards, boards, *req.CardID, actor.ID)
			if err != nil {
				return err
			}
			if !target.CanEdit() {
				return apperror.Forbidden("you must be a member of the target board")
			}
			subtask.CardID = *req.CardID
		}

		var assignee *authdomain.User
		if req.ResponsibleID.Set {
			next := req.ResponsibleID.Value
			if next != nil && (subtask.ResponsibleID == nil || *subtask.ResponsibleID != *next) {
				if assignee, err = findResponsible(u.userRepo.WithTx(uow.DB()), *next); err != nil {
					return err
				}
			}
			subtask.ResponsibleID = next
		}

		if err := subtasks.Save(subtask); err != nil {
			return apperror.Internal("failed to update subtask", err)
		}
		if err := u.notifyAssigned(ctx, uow, subtask, actor, assignee); err != nil {
			return err
		}

		subtask, err = subtasks.FindByID(subtaskID)
		if err != nil {
			return apperror.Internal("failed to reload subtask", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return subtask, nil
}

func (u *subtaskUsecase) Inactivate(ctx context.Context, userID, subtaskID uint) error {
	return database.InTransaction(ctx, u.db, func(uow *database.UnitOfWork) error {
		subtasks := u.subtaskRepo.WithTx(uow.DB())

		subtask, err := findActive(subtasks, subtaskID)
		if err != nil {
			return err
		}
		access, err := cardAccess(u.cardRepo.WithTx(uow.DB()), u.boardRepo.WithTx(uow.DB()), subtask.CardID, userID)
		if err != nil {
			return err
		}
		if !access.CanEdit() {
			return apperror.Forbidden("you must be a member of the board")
		}

		if err := subtasks.Inactivate(subtaskID); err != nil {
			return apperror.Internal("failed to inactivate subtask", err)
		}
		return nil
	})
}
