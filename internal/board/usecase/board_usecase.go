package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	authrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/repository"
	boarddomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/domain"
	boarddto "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/dto"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification"
	tagrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/tag/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/database"

	"gorm.io/gorm"
)

const (
	minSearchLength = 2
	maxSearchResult = 10
)

type boardUsecase struct {
	db         *gorm.DB
	boardRepo  repository.BoardRepository
	userRepo   authrepo.UserRepository
	tagRepo    tagrepo.TagRepository
	dispatcher notification.Dispatcher
}

func NewBoardUsecase(db *gorm.DB, boardRepo repository.BoardRepository, userRepo authrepo.UserRepository, tagRepo tagrepo.TagRepository, dispatcher notification.Dispatcher) BoardUsecase {
	return &boardUsecase{
		db:         db,
		boardRepo:  boardRepo,
		userRepo:   userRepo,
		tagRepo:    tagRepo,
		dispatcher: dispatcher,
	}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.Validation("board name is required")
	}
	if utf8.RuneCountInString(name) > boarddomain.MaxNameLength {
		return "", apperror.Validation("board name must be at most %d characters", boarddomain.MaxNameLength)
	}
	return name, nil
}

func validateDescription(description *string) error {
	if description != nil && utf8.RuneCountInString(*description) > boarddomain.MaxDescriptionLength {
		return apperror.Validation("board description must be at most %d characters", boarddomain.MaxDescriptionLength)
	}
	return nil
}

// loadBoard fetches a board and checks the caller's access against need.
func loadBoard(repo repository.BoardRepository, boardID, userID uint, need func(boarddomain.Access) bool, denied string) (*boarddomain.Board, error) {
	board, err := repo.FindByID(boardID)
	if err != nil {
		return nil, apperror.Internal("failed to load board", err)
	}
	if board == nil {
		return nil, apperror.NotFound("board not found")
	}
	if !need(board.AccessFor(userID)) {
		return nil, apperror.Forbidden(denied)
	}
	return board, nil
}

func canRead(a boarddomain.Access) bool { return a.CanRead() }
func isOwner(a boarddomain.Access) bool { return a.IsOwner() }

// resolveMembers loads the users behind ids, ignoring duplicates and the owner.
func resolveMembers(users authrepo.UserRepository, ids []uint, ownerID uint) ([]authdomain.User, error) {
	seen := make(map[uint]struct{}, len(ids))
	var wanted []uint
	for _, id := range ids {
		if id == ownerID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		wanted = append(wanted, id)
	}

	found, err := users.FindByIDs(wanted)
	if err != nil {
		return nil, apperror.Internal("failed to load users", err)
	}
	if len(found) != len(wanted) {
		present := make(map[uint]struct{}, len(found))
		for _, u := range found {
			present[u.ID] = struct{}{}
		}
		var missing []uint
		for _, id := range wanted {
			if _, ok := present[id]; !ok {
				missing = append(missing, id)
			}
		}
		return nil, apperror.Validation("users not found: %v", missing)
	}
	return found, nil
}

func (u *boardUsecase) notifyMembers(ctx context.Context, uow *database.UnitOfWork, board *boarddomain.Board, actor *authdomain.User, added []authdomain.User) error {
	for i := range added {
		if added[i].ID == actor.ID {
			continue
		}
		req := notification.BoardMemberAdded(board.ID, board.Name, actor, &added[i])
		if _, err := u.dispatcher.Create(ctx, uow, req); err != nil {
			return fmt.Errorf("notify board member %d: %w", added[i].ID, err)
		}
	}
	return nil
}

func (u *boardUsecase) Create(ctx context.Context, actor *authdomain.User, req *boarddto.CreateBoardRequest) (*boarddomain.Board, error) {
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}
	if err := validateDescription(req.Description); err != nil {
		return nil, err
	}

	var board *boarddomain.Board
	err = database.InTransaction(ctx, u.db, func(uow *database.UnitOfWork) error {
		members, err := resolveMembers(u.userRepo.WithTx(uow.DB()), req.MemberIDs, actor.ID)
		if err != nil {
			return err
		}
		tags, err := u.tagRepo.WithTx(uow.DB()).FindOrCreate(req.Tags)
		if err != nil {
			return apperror.Internal("failed to resolve tags", err)
		}

		board = &boarddomain.Board{
			Name:         name,
			Description:  req.Description,
			Image:        req.Image,
			CreationDate: time.Now().UTC(),
			UserID:       actor.ID,
			IsPublic:     req.IsPublic,
			Members:      members,
			Tags:         tags,
		}
		if err := u.boardRepo.WithTx(uow.DB()).Create(board); err != nil {
			return apperror.Internal("failed to create board", err)
		}

		return u.notifyMembers(ctx, uow, board, actor, members)
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

func (u *boardUsecase) ListVisible(userID uint) ([]boarddomain.Board, error) {
	boards, err := u.boardRepo.ListVisible(userID)
	if err != nil {
		return nil, apperror.Internal("failed to list boards", err)
	}
	return boards, nil
}

func (u *boardUsecase) ListMine(userID uint) ([]boarddomain.Board, error) {
	boards, err := u.boardRepo.ListByParticipant(userID)
	if err != nil {
		return nil, apperror.Internal("failed to list boards", err)
	}
	return boards, nil
}

func (u *boardUsecase) Get(userID, boardID uint) (*boarddomain.Board, error) {
	return loadBoard(u.boardRepo, boardID, userID, canRead, "you do not have access to this board")
}

func (u *boardUsecase) Update(ctx context.Context, actor *authdomain.User, boardID uint, req *boarddto.UpdateBoardRequest) (*boarddomain.Board, error) {
	var name string
	if req.Name != nil {
		var err error
		if name, err = validateName(*req.Name); err != nil {
			return nil, err
		}
	}
	if err := validateDescription(req.Description); err != nil {
		return nil, err
	}

	var board *boarddomain.Board
	err := database.InTransaction(ctx, u.db, func(uow *database.UnitOfWork) error {
		boards := u.boardRepo.WithTx(uow.DB())

		var err error
		board, err = loadBoard(boards, boardID, actor.ID, isOwner, "only the board owner can edit it")
		if err != nil {
			return err
		}

		if req.Name != nil {
			board.Name = name
		}
		if req.Description != nil {
			board.Description = req.Description
		}
		if req.Image != nil {
			board.Image = req.Image
		}
		if req.IsPublic != nil {
			board.IsPublic = *req.IsPublic
		}
		if err := boards.Save(board); err != nil {
			return apperror.Internal("failed to update board", err)
		}

		if req.Members != nil {
			members, err := resolveMembers(u.userRepo.WithTx(uow.DB()), *req.Members, board.UserID)
			if err != nil {
				return err
			}
			var added []authdomain.User
			for _, m := range members {
				if !board.IsMember(m.ID) {
					added = append(added, m)
				}
			}
			if err := boards.ReplaceMembers(board, members); err != nil {
				return apperror.Internal("failed to update members", err)
			}
			if err := u.notifyMembers(ctx, uow, board, actor, added); err != nil {
				return err
			}
		}

		if req.Tags != nil {
			tags, err := u.tagRepo.WithTx(uow.DB()).FindOrCreate(*req.Tags)
			if err != nil {
				return apperror.Internal("failed to resolve tags", err)
			}
			if err := boards.ReplaceTags(board, tags); err != nil {
				return apperror.Internal("failed to update tags", err)
			}
		}

		board, err = boards.FindByID(boardID)
		if err != nil {
			return apperror.Internal("failed to reload board", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

func (u *boardUsecase) Delete(ctx context.Context, actor *authdomain.User, boardID uint) error {
	return database.InTransaction(ctx, u.db, func(uow *database.UnitOfWork) error {
		boards := u.boardRepo.WithTx(uow.DB())
		if _, err := loadBoard(boards, boardID, actor.ID, isOwner, "only the board owner can delete it"); err != nil {
			return err
		}
		if err := boards.Delete(boardID); err != nil {
			return apperror.Internal("failed to delete board", err)
		}
		return nil
	})
}

func (u *boardUsecase) AddMember(ctx context.Context, actor *authdomain.User, boardID, userID uint) (*boarddomain.Board, error) {
	var board *boarddomain.Board
	err := database.InTransaction(ctx, u.db, func(uow *database.UnitOfWork) error {
		boards := u.boardRepo.WithTx(uow.DB())

		var err error
		board, err = loadBoard(boards, boardID, actor.ID, isOwner, "only the board owner can add members")
		if err != nil {
			return err
		}
		if userID == board.UserID {
			return apperror.Validation("the owner already belongs to the board")
		}
		if board.IsMember(userID) {
			return apperror.Conflict("user is already a member of this board")
		}

		user, err := u.userRepo.WithTx(uow.DB()).FindByID(userID)
		if err != nil {
			return apperror.Internal("failed to load user", err)
		}
		if user == nil {
			return apperror.NotFound("user not found")
		}

		if err := boards.AddMember(board, user); err != nil {
			return apperror.Internal("failed to add member", err)
		}
		if err := u.notifyMembers(ctx, uow, board, actor, []authdomain.User{*user}); err != nil {
			return err
		}

		board, err = boards.FindByID(boardID)
		if err != nil {
			return apperror.Internal("failed to reload board", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

// RemoveMember lets the owner remove anyone and a member remove themselves.
func (u *boardUsecase) RemoveMember(ctx context.Context, actor *authdomain.User, boardID, userID uint) (*boarddomain.Board, error) {
	var board *boarddomain.Board
	err := database.InTransaction(ctx, u.db, func(uow *database.UnitOfWork) error {
		boards := u.boardRepo.WithTx(uow.DB())

		var err error
		board, err = loadBoard(boards, boardID, actor.ID, canRead, "you do not have access to this board")
		if err != nil {
			return err
		}
		if !board.AccessFor(actor.ID).IsOwner() && actor.ID != userID {
			return apperror.Forbidden("only the board owner can remove other members")
		}
		if !board.IsMember(userID) {
			return apperror.NotFound("member not found")
		}

		if err := boards.RemoveMember(board, userID); err != nil {
			return apperror.Internal("failed to remove member", err)
		}

		board, err = boards.FindByID(boardID)
		if err != nil {
			return apperror.Internal("failed to reload board", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

func (u *boardUsecase) Members(userID, boardID uint) ([]authdomain.User, error) {
	board, err := loadBoard(u.boardRepo, boardID, userID, canRead, "you do not have access to this board")
	if err != nil {
		return nil, err
	}
	return board.Members, nil
}

func (u *boardUsecase) SearchUsers(query string) ([]authdomain.User, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSearchLength {
		return []authdomain.User{}, nil
	}
	users, err := u.userRepo.Search(query, maxSearchResult)
	if err != nil {
		return nil, apperror.Internal("failed to search users", err)
	}
	return users, nil
}

func (u *boardUsecase) AddFavorite(userID, boardID uint) error {
	if _, err := loadBoard(u.boardRepo, boardID, userID, canRead, "you do not have access to this board"); err != nil {
		return err
	}
	if err := u.boardRepo.AddFavorite(userID, boardID); err != nil {
		return apperror.Internal("failed to add favorite", err)
	}
	return nil
}

func (u *boardUsecase) RemoveFavorite(userID, boardID uint) error {
	removed, err := u.boardRepo.RemoveFavorite(userID, boardID)
	if err != nil {
		return apperror.Internal("failed to remove favorite", err)
	}
	if !removed {
		return apperror.NotFound("board is not in favorites")
	}
	return nil
}

func (u *boardUsecase) ListFavorites(userID uint) ([]boarddomain.Board, error) {
	boards, err := u.boardRepo.ListFavorites(userID)
	if err != nil {
		return nil, apperror.Internal("failed to list favorites", err)
	}
	return boards, nil
}
