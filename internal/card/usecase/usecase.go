package usecase

import (
	"context"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	carddomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/domain"
	carddto "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/dto"
)

type CardUsecase interface {
	Create(ctx context.Context, actor *authdomain.User, req *carddto.CreateCardRequest) (*carddomain.Card, error)
	ListByBoard(userID, boardID uint) ([]carddomain.Card, error)
	Get(userID, cardID uint) (*carddomain.Card, error)
	// Update applies req. idempotencyKey, when set, deduplicates the
	// assignment notification across retries.
	Update(ctx context.Context, actor *authdomain.User, cardID uint, req *carddto.UpdateCardRequest, idempotencyKey string) (*carddomain.Card, error)
	Delete(ctx context.Context, actor *authdomain.User, cardID uint) error

	AddMembers(ctx context.Context, actor *authdomain.User, cardID uint, userIDs []uint) (*carddomain.Card, error)
	RemoveMember(ctx context.Context, actor *authdomain.User, cardID, userID uint) (*carddomain.Card, error)
	Members(userID, cardID uint) ([]authdomain.User, error)
}
