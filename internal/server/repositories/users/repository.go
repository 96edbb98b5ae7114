package users

import (
	"context"

	"github.com/sangvinij/user-management-micro-service/internal/server/models"
)

// ListFilter narrows and pages a user listing. GroupID of zero means all
// groups; Name filters by a case-insensitive substring match.
type ListFilter struct {
	Limit   int
	Offset  int
	Name    string
	GroupID int64
}

// ListResult is a page of users together with the total match count.
type ListResult struct {
	TotalCount int64          `json:"total_count"`
	Users      []*models.User `json:"users"`
}

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByLogin matches the login string against username, phone number
	// and email.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) (string, error)
}
