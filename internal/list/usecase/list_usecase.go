package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	boarddomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/domain"
	boardrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/repository"
	listdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/list/domain"
	listdto "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/list/dto"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/list/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/database"

	"gorm.io/gorm"
)

type ListUsecase interface {
	ListByBoard(userID, boardID uint) ([]listdomain.List, error)
	Create(ctx context.Context, userID uint, req *listdto.CreateListRequest) (*listdomain.List, error)
	Update(ctx context.Context, userID, listID uint, req *listdto.UpdateListRequest) (*listdomain.List, error)
	Delete(ctx context.Context, userID, listID uint) error
}

var errDuplicateName = apperror.Conflict("a list with that name already exists on this board")

type listUsecase struct {
	db        *gorm.DB
	listRepo  repository.ListRepository
	boardRepo boardrepo.BoardRepository
}

func NewListUsecase(db *gorm.DB, listRepo repository.ListRepository, boardRepo boardrepo.BoardRepository) ListUsecase {
	return &listUsecase{db: db, listRepo: listRepo, boardRepo: boardRepo}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.Validation("list name is required")
	}
	if utf8.RuneCountInString(name) > listdomain.MaxNameLength {
		return "", apperror.Validation("list name must be at most %d characters", listdomain.MaxNameLength)
	}
	return name, nil
}

func boardAccess(boards boardrepo.BoardRepository, boardID, userID uint) (*boarddomain.Board, boarddomain.Access, error) {
	board, err := boards.FindByID(boardID)
	if err != nil {
		return nil, boarddomain.AccessNone, apperror.Internal("failed to load board", err)
	}
	if board == nil {
		return nil, boarddomain.AccessNone, apperror.NotFound("board not found")
	}
	return board, board.AccessFor(userID), nil
}

func (u *listUsecase) ListByBoard(userID, boardID uint) ([]listdomain.List, error) {
	_, access, err := boardAccess(u.boardRepo, boardID, userID)
	if err != nil {
		return nil, err
	}
	if !access.CanRead() {
		return nil, apperror.Forbidden("you do not have access to this board")
	}

	lists, err := u.listRepo.FindByBoard(boardID)
	if err != nil {
		return nil, apperror.Internal("failed to list lists", err)
	}
	return lists, nil
}

func (u *listUsecase) Create(ctx context.Context, userID uint, req *listdto.CreateListRequest) (*listdomain.List, error) {
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}

	var list *listdomain.List
	err = database.InTransaction(ctx, u.db, func(uow *database.UnitOfWork) error {
		lists := u.listRepo.WithTx(uow.DB())

		_, access, err := boardAccess(u.boardRepo.WithTx(uow.DB()), req.BoardID, userID)
		if err != nil {
			return err
		}
		if !access.CanEdit() {
			return apperror.Forbidden("you must be a member of the board")
		}

		existing, err := lists.FindByNameKey(req.BoardID, listdomain.NameKey(name))
		if err != nil {
			return apperror.Internal("failed to check list name", err)
		}
		if existing != nil {
			return errDuplicateName
		}

		maxPos, err := lists.MaxPosition(req.BoardID)
		if err != nil {
			return apperror.Internal("failed to compute position", err)
		}

		createdBy := userID
		list = &listdomain.List{BoardID: req.BoardID, Position: maxPos + 1, CreatedBy: &createdBy}
		list.SetName(name)
		if err := lists.Create(list); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errDuplicateName
			}
			return apperror.Internal("failed to create list", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (u *listUsecase) Update(ctx context.Context, userID, listID uint, req *listdto.UpdateListRequest) (*listdomain.List, error) {
	var name string
	if req.Name != nil {
		var err error
		if name, err = validateName(*req.Name); err != nil {
			return nil, err
		}
	}

	var list *listdomain.List
	err := database.InTransaction(ctx, u.db, func(uow *database.UnitOfWork) error {
		lists := u.listRepo.WithTx(uow.DB())

		var err error
		list, err = lists.FindByID(listID)
		if err != nil {
			return apperror.Internal("failed to load list", err)
		}
		if list == nil {
			return apperror.NotFound("list not found")
		}

		_, access, err := boardAccess(u.boardRepo.WithTx(uow.DB()), list.BoardID, userID)
		if err != nil {
			return err
		}
		if !access.CanEdit() {
			return apperror.Forbidden("you must be a member of the board")
		}

		if req.Name != nil {
			existing, err := lists.FindByNameKey(list.BoardID, listdomain.NameKey(name))
			if err != nil {
				return apperror.Internal("failed to check list name", err)
			}
			if existing != nil && existing.ID != list.ID {
				return errDuplicateName
			}
			list.SetName(name)
		}
		if req.Position != nil {
			list.Position = *req.Position
		}

		if err := lists.Save(list); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errDuplicateName
			}
			return apperror.Internal("failed to update list", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Delete requires board membership; lists that still hold cards can only be
// removed by the board owner.
func (u *listUsecase) Delete(ctx context.Context, userID, listID uint) error {
	return database.InTransaction(ctx, u.db, func(uow *database.UnitOfWork) error {
		lists := u.listRepo.WithTx(uow.DB())

		list, err := lists.FindByID(listID)
		if err != nil {
			return apperror.Internal("failed to load list", err)
		}
		if list == nil {
			return apperror.NotFound("list not found")
		}

		_, access, err := boardAccess(u.boardRepo.WithTx(uow.DB()), list.BoardID, userID)
		if err != nil {
			return err
		}
		if !access.CanEdit() {
			return apperror.Forbidden("you must be a member of the board")
		}

		hasCards, err := lists.HasCards(listID)
		if err != nil {
			return apperror.Internal("failed to check list cards", err)
		}
		if hasCards && !access.IsOwner() {
			return apperror.Forbidden("only the board owner can delete lists that contain cards")
		}

		if err := lists.Delete(listID); err != nil {
			return apperror.Internal("failed to delete list", err)
		}
		return nil
	})
}
