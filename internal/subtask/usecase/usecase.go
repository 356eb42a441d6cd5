package usecase

import (
	"context"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	subtaskdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/subtask/domain"
	subtaskdto "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/subtask/dto"
)

type SubtaskUsecase interface {
	Create(ctx context.Context, actor *authdomain.User, req *subtaskdto.CreateSubtaskRequest) (*subtaskdomain.Subtask, error)
	ListByCard(userID, cardID uint) ([]subtaskdomain.Subtask, error)
	Get(userID, subtaskID uint) (*subtaskdomain.Subtask, error)
	Update(ctx context.Context, actor *authdomain.User, subtaskID uint, req *subtaskdto.UpdateSubtaskRequest) (*subtaskdomain.Subtask, error)
	Inactivate(ctx context.Context, userID, subtaskID uint) error
}
