package groups

import (
	"context"

	"github.com/sangvinij/user-management-micro-service/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, group *models.Group) (*models.Group, error)
	GetByID(ctx context.Context, id int64) (*models.Group, error)
	List(ctx context.Context) ([]*models.Group, error)
}
