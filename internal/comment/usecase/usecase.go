package usecase

import (
	"context"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	commentdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/comment/domain"
	commentdto "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/comment/dto"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 500
)

type CommentUsecase interface {
	Create(ctx context.Context, actor *authdomain.User, req *commentdto.CreateCommentRequest) (*commentdomain.Comment, error)
	// List returns the page actually applied along with the comments.
	List(userID uint, query commentdto.ListCommentsQuery) ([]commentdomain.Comment, commentdto.ListMeta, error)
	Update(ctx context.Context, userID, commentID uint, content string) (*commentdomain.Comment, error)
	// Delete and Restore are idempotent.
	Delete(ctx context.Context, userID, commentID uint) error
	Restore(ctx context.Context, userID, commentID uint) error
}
