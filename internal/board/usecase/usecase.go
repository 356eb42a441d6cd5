package usecase

import (
	"context"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	boarddomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/domain"
	boarddto "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/dto"
)

type BoardUsecase interface {
	Create(ctx context.Context, actor *authdomain.User, req *boarddto.CreateBoardRequest) (*boarddomain.Board, error)
	ListVisible(userID uint) ([]boarddomain.Board, error)
	ListMine(userID uint) ([]boarddomain.Board, error)
	Get(userID, boardID uint) (*boarddomain.Board, error)
	Update(ctx context.Context, actor *authdomain.User, boardID uint, req *boarddto.UpdateBoardRequest) (*boarddomain.Board, error)
	Delete(ctx context.Context, actor *authdomain.User, boardID uint) error

	AddMember(ctx context.Context, actor *authdomain.User, boardID, userID uint) (*boarddomain.Board, error)
	RemoveMember(ctx context.Context, actor *authdomain.User, boardID, userID uint) (*boarddomain.Board, error)
	Members(userID, boardID uint) ([]authdomain.User, error)
	SearchUsers(query string) ([]authdomain.User, error)

	AddFavorite(userID, boardID uint) error
	RemoveFavorite(userID, boardID uint) error
	ListFavorites(userID uint) ([]boarddomain.Board, error)
}
