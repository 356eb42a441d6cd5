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
	boardrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/repository"
	carddomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/domain"
	carddto "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/dto"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/repository"
	listrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/list/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification"
	tagrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/tag/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/database"

	"gorm.io/gorm"
)

const maxPriorityLength = 20

type cardUsecase struct {
	db         *gorm.DB
	cardRepo   repository.CardRepository
	boardRepo  boardrepo.BoardRepository
	listRepo   listrepo.ListRepository
	userRepo   authrepo.UserRepository
	tagRepo    tagrepo.TagRepository
	dispatcher notification.Dispatcher
}

func NewCardUsecase(
	db *gorm.DB,
	cardRepo repository.CardRepository,
	boardRepo boardrepo.BoardRepository,
	listRepo listrepo.ListRepository,
	userRepo authrepo.UserRepository,
	tagRepo tagrepo.TagRepository,
	dispatcher notification.Dispatcher,
) CardUsecase {
	return &cardUsecase{
		db:         db,
		cardRepo:   cardRepo,
		boardRepo:  boardRepo,
		listRepo:   listRepo,
		userRepo:   userRepo,
		tagRepo:    tagRepo,
		dispatcher: dispatcher,
	}
}

// repos groups the repositories bound to one transaction.
type repos struct {
	cards  repository.CardRepository
	boards boardrepo.BoardRepository
	lists  listrepo.ListRepository
	users  authrepo.UserRepository
	tags   tagrepo.TagRepository
}

func (u *cardUsecase) bind(tx *gorm.DB) repos {
	return repos{
		cards:  u.cardRepo.WithTx(tx),
		boards: u.boardRepo.WithTx(tx),
		lists:  u.listRepo.WithTx(tx),
		users:  u.userRepo.WithTx(tx),
		tags:   u.tagRepo.WithTx(tx),
	}
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperror.Validation("card title is required")
	}
	if utf8.RuneCountInString(title) > carddomain.MaxTitleLength {
		return "", apperror.Validation("card title must be at most %d characters", carddomain.MaxTitleLength)
	}
	return title, nil
}

func validateText(description, priority *string) error {
	if description != nil && utf8.RuneCountInString(*description) > carddomain.MaxDescriptionLength {
		return apperror.Validation("card description must be at most %d characters", carddomain.MaxDescriptionLength)
	}
	if priority != nil && utf8.RuneCountInString(*priority) > maxPriorityLength {
		return apperror.Validation("card priority must be at most %d characters", maxPriorityLength)
	}
	return nil
}

func loadBoard(boards boardrepo.BoardRepository, boardID, userID uint) (*boarddomain.Board, boarddomain.Access, error) {
	board, err := boards.FindByID(boardID)
	if err != nil {
		return nil, boarddomain.AccessNone, apperror.Internal("failed to load board", err)
	}
	if board == nil {
		return nil, boarddomain.AccessNone, apperror.NotFound("board not found")
	}
	return board, board.AccessFor(userID), nil
}

// loadCard fetches a card and the caller's access to its board.
func loadCard(r repos, cardID, userID uint) (*carddomain.Card, *boarddomain.Board, boarddomain.Access, error) {
	card, err := r.cards.FindByID(cardID)
	if err != nil {
		return nil, nil, boarddomain.AccessNone, apperror.Internal("failed to load card", err)
	}
	if card == nil {
		return nil, nil, boarddomain.AccessNone, apperror.NotFound("card not found")
	}
	board, access, err := loadBoard(r.boards, card.BoardID, userID)
	if err != nil {
		return nil, nil, boarddomain.AccessNone, err
	}
	return card, board, access, nil
}

func errNoEditAccess() error {
	return apperror.Forbidden("you must be a member of the board")
}

// checkList rejects a list that lives on another board.
func checkList(lists listrepo.ListRepository, listID *uint, boardID uint) error {
	if listID == nil {
		return nil
	}
	list, err := lists.FindByID(*listID)
	if err != nil {
		return apperror.Internal("failed to load list", err)
	}
	if list == nil {
		return apperror.Validation("list %d not found", *listID)
	}
	if list.BoardID != boardID {
		return apperror.Validation("list %d belongs to another board", *listID)
	}
	return nil
}

func findUser(users authrepo.UserRepository, id uint) (*authdomain.User, error) {
	user, err := users.FindByID(id)
	if err != nil {
		return nil, apperror.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, apperror.Validation("user %d not found", id)
	}
	return user, nil
}

func findUsers(users authrepo.UserRepository, ids []uint) ([]authdomain.User, error) {
	seen := make(map[uint]struct{}, len(ids))
	var wanted []uint
	for _, id := range ids {
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
		return nil, apperror.Validation("some users were not found")
	}
	return found, nil
}

func (u *cardUsecase) notifyAssigned(ctx context.Context, uow *database.UnitOfWork, card *carddomain.Card, actor, assignee *authdomain.User, eventID string) error {
	if assignee.ID == actor.ID {
		return nil
	}
	req := notification.CardAssigned(card.ID, card.Title, actor, assignee, eventID)
	if _, err := u.dispatcher.Create(ctx, uow, req); err != nil {
		return fmt.Errorf("notify card assignee %d: %w", assignee.ID, err)
	}
	return nil
}

func (u *cardUsecase) notifyMembers(ctx context.Context, uow *database.UnitOfWork, card *carddomain.Card, actor *authdomain.User, added []authdomain.User) error {
	for i := range added {
		if added[i].ID == actor.ID {
			continue
		}
		req := notification.CardMemberAdded(card.ID, card.Title, actor, &added[i])
		if _, err := u.dispatcher.Create(ctx, uow, req); err != nil {
			return fmt.Errorf("notify card member %d: %w", added[i].ID, err)
		}
	}
	return nil
}

func (u *cardUsecase) Create(ctx context.Context, actor *authdomain.User, req *carddto.CreateCardRequest) (*carddomain.Card, error) {
	title, err := validateTitle(req.Title)
	if err != nil {
		return nil, err
	}
	if err := validateText(req.Description, req.Priority); err != nil {
		return nil, err
	}

	var card *carddomain.Card
	err = database.InTransaction(ctx, u.db, func(uow *database.UnitOfWork) error {
		r := u.bind(uow.DB())

		_, access, err := loadBoard(r.boards, req.BoardID, actor.ID)
		if err != nil {
			return err
		}
		if !access.CanEdit() {
			return errNoEditAccess()
		}
		if err := checkList(r.lists, req.ListID, req.BoardID); err != nil {
			return err
		}

		var assignee *authdomain.User
		if req.ResponsableID != nil {
			if assignee, err = findUser(r.users, *req.ResponsableID); err != nil {
				return err
			}
		}
		members, err := findUsers(r.users, req.MemberIDs)
		if err != nil {
			return err
		}
		tags, err := r.tags.FindOrCreate(req.Tags)
		if err != nil {
			return apperror.Internal("failed to resolve tags", err)
		}

		state := carddomain.DefaultState
		if req.State != nil && strings.TrimSpace(*req.State) != "" {
			state = strings.TrimSpace(*req.State)
		}

		card = &carddomain.Card{
			Title:         title,
			Description:   req.Description,
			ResponsableID: req.ResponsableID,
			CreationDate:  time.Now().UTC(),
			BeginDate:     req.BeginDate.Ptr(),
			DueDate:       req.DueDate.Ptr(),
			State:         state,
			BoardID:       req.BoardID,
			ListID:        req.ListID,
			Priority:      req.Priority,
			Tags:          tags,
			Members:       members,
		}
		if err := r.cards.Create(card); err != nil {
			return apperror.Internal("failed to create card", err)
		}

		if assignee != nil {
			eventID := notification.CardAssignedEventID(card.ID, assignee.ID)
			if err := u.notifyAssigned(ctx, uow, card, actor, assignee, eventID); err != nil {
				return err
			}
		}
		if err := u.notifyMembers(ctx, uow, card, actor, members); err != nil {
			return err
		}

		card, err = r.cards.FindByID(card.ID)
		if err != nil {
			return apperror.Internal("failed to reload card", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (u *cardUsecase) ListByBoard(userID, boardID uint) ([]carddomain.Card, error) {
	_, access, err := loadBoard(u.boardRepo, boardID, userID)
	if err != nil {
		return nil, err
	}
	if !access.CanRead() {
		return nil, apperror.Forbidden("you do not have access to this board")
	}

	cards, err := u.cardRepo.FindByBoard(boardID)
	if err != nil {
		return nil, apperror.Internal("failed to list cards", err)
	}
	return cards, nil
}

func (u *cardUsecase) Get(userID, cardID uint) (*carddomain.Card, error) {
	card, _, access, err := loadCard(u.bind(u.db), cardID, userID)
	if err != nil {
		return nil, err
	}
	if !access.CanRead() {
		return nil, apperror.Forbidden("you do not have access to this card")
	}
	return card, nil
}

func (u *cardUsecase) Update(ctx context.Context, actor *authdomain.User, cardID uint, req *carddto.UpdateCardRequest, idempotencyKey string) (*carddomain.Card, error) {
	var title string
	if req.Title != nil {
		var err error
		if title, err = validateTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if err := validateText(req.Description, req.Priority); err != nil {
		return nil, err
	}

	var card *carddomain.Card
	err := database.InTransaction(ctx, u.db, func(uow *database.UnitOfWork) error {
		r := u.bind(uow.DB())

		var (
			access boarddomain.Access
			err    error
		)
		card, _, access, err = loadCard(r, cardID, actor.ID)
		if err != nil {
			return err
		}
		if !access.CanEdit() {
			return errNoEditAccess()
		}

		if req.Title != nil {
			card.Title = title
		}
		if req.Description != nil {
			card.Description = req.Description
		}
		if req.Priority != nil {
			card.Priority = req.Priority
		}
		if req.State != nil && strings.TrimSpace(*req.State) != "" {
			card.State = strings.TrimSpace(*req.State)
		}
		if req.BeginDate != nil {
			card.BeginDate = req.BeginDate.Ptr()
		}
		if req.DueDate != nil {
			card.SetDueDate(req.DueDate.Ptr())
		}
		if req.ListID.Set {
			if err := checkList(r.lists, req.ListID.Value, card.BoardID); err != nil {
				return err
			}
			card.ListID = req.ListID.Value
			card.List = nil
		}

		var newAssignee *authdomain.User
		if req.ResponsableID.Set {
			next := req.ResponsableID.Value
			if next != nil && (card.ResponsableID == nil || *card.ResponsableID != *next) {
				if newAssignee, err = findUser(r.users, *next); err != nil {
					return err
				}
			}
			card.ResponsableID = next
		}

		if err := r.cards.Save(card); err != nil {
			return apperror.Internal("failed to update card", err)
		}

		if req.Tags != nil {
			tags, err := r.tags.FindOrCreate(*req.Tags)
			if err != nil {
				return apperror.Internal("failed to resolve tags", err)
			}
			if err := r.cards.ReplaceTags(card, tags); err != nil {
				return apperror.Internal("failed to update tags", err)
			}
		}

		if req.MemberIDs != nil {
			members, err := findUsers(r.users, *req.MemberIDs)
			if err != nil {
				return err
			}
			var added []authdomain.User
			for _, m := range members {
				if !card.IsMember(m.ID) {
					added = append(added, m)
				}
			}
			if err := r.cards.ReplaceMembers(card, members); err != nil {
				return apperror.Internal("failed to update members", err)
			}
			if err := u.notifyMembers(ctx, uow, card, actor, added); err != nil {
				return err
			}
		}

		if newAssignee != nil {
			var eventID string
			if idempotencyKey != "" {
				eventID = fmt.Sprintf("%s:key:%s", notification.CardAssignedEventID(card.ID, newAssignee.ID), idempotencyKey)
			}
			if err := u.notifyAssigned(ctx, uow, card, actor, newAssignee, eventID); err != nil {
				return err
			}
		}

		card, err = r.cards.FindByID(cardID)
		if err != nil {
			return apperror.Internal("failed to reload card", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (u *cardUsecase) Delete(ctx context.Context, actor *authdomain.User, cardID uint) error {
	return database.InTransaction(ctx, u.db, func(uow *database.UnitOfWork) error {
		r := u.bind(uow.DB())
		_, _, access, err := loadCard(r, cardID, actor.ID)
		if err != nil {
			return err
		}
		if !access.CanEdit() {
			return errNoEditAccess()
		}
		if err := r.cards.Delete(cardID); err != nil {
			return apperror.Internal("failed to delete card", err)
		}
		return nil
	})
}

func (u *cardUsecase) AddMembers(ctx context.Context, actor *authdomain.User, cardID uint, userIDs []uint) (*carddomain.Card, error) {
	var card *carddomain.Card
	err := database.InTransaction(ctx, u.db, func(uow *database.UnitOfWork) error {
		r := u.bind(uow.DB())

		var (
			access boarddomain.Access
			err    error
		)
		card, _, access, err = loadCard(r, cardID, actor.ID)
		if err != nil {
			return err
		}
		if !access.CanEdit() {
			return errNoEditAccess()
		}

		users, err := findUsers(r.users, userIDs)
		if err != nil {
			return err
		}
		var added []authdomain.User
		for _, user := range users {
			if !card.IsMember(user.ID) {
				added = append(added, user)
			}
		}

		if err := r.cards.AddMembers(card, added); err != nil {
			return apperror.Internal("failed to add members", err)
		}
		if err := u.notifyMembers(ctx, uow, card, actor, added); err != nil {
			return err
		}

		card, err = r.cards.FindByID(cardID)
		if err != nil {
			return apperror.Internal("failed to reload card", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (u *cardUsecase) RemoveMember(ctx context.Context, actor *authdomain.User, cardID, userID uint) (*carddomain.Card, error) {
	var card *carddomain.Card
	err := database.InTransaction(ctx, u.db, func(uow *database.UnitOfWork) error {
		r := u.bind(uow.DB())

		var (
			access boarddomain.Access
			err    error
		)
		card, _, access, err = loadCard(r, cardID, actor.ID)
		if err != nil {
			return err
		}
		if !access.CanEdit() {
			return errNoEditAccess()
		}
		if !card.IsMember(userID) {
			return apperror.NotFound("member not found")
		}

		if err := r.cards.RemoveMember(card, userID); err != nil {
			return apperror.Internal("failed to remove member", err)
		}

		card, err = r.cards.FindByID(cardID)
		if err != nil {
			return apperror.Internal("failed to reload card", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (u *cardUsecase) Members(userID, cardID uint) ([]authdomain.User, error) {
	card, err := u.Get(userID, cardID)
	if err != nil {
		return nil, err
	}
	return card.Members, nil
}
