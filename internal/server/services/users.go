package services

import (
	"context"
	"fmt"
	"io"

	"github.com/sangvinij/user-management-micro-service/internal/common"
	"github.com/sangvinij/user-management-micro-service/internal/logging"
	"github.com/sangvinij/user-management-micro-service/internal/server/avatars"
	"github.com/sangvinij/user-management-micro-service/internal/server/models"
	"github.com/sangvinij/user-management-micro-service/internal/server/repositories/users"
)

// UserService implements the user CRUD operations with role-based scoping:
// admins see everything, moderators only their own group.
type UserService struct {
	users   users.Repository
	avatars avatars.Storage
	logger  logging.Logger
}

func NewUserService(repo users.Repository, storage avatars.Storage, logger logging.Logger) *UserService {
	return &UserService{
		users:   repo,
		avatars: storage,
		logger:  logger.With("module", "user_service"),
	}
}

// ReadOne returns a single user. Moderators may only read users of their
// own group.
func (s *UserService) ReadOne(ctx context.Context, requester *models.User, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if requester.RoleName == models.RoleModerator && requester.GroupID != user.GroupID {
		return nil, common.ErrPermissionDenied
	}

	return user, nil
}

// ListParams pages and filters a user listing.
type ListParams struct {
	Page  int
	Limit int
	Name  string
}

// List returns a page of users. Moderator listings are scoped to the
// requester's group.
func (s *UserService) List(ctx context.Context, requester *models.User, params ListParams) (*users.ListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 50
	}

	filter := users.ListFilter{
		Limit:  params.Limit,
		Offset: (params.Page - 1) * params.Limit,
		Name:   params.Name,
	}
	if requester.RoleName == models.RoleModerator {
		filter.GroupID = requester.GroupID
	}

	return s.users.List(ctx, filter)
}

// UpdateParams carries optional field updates; nil pointers leave the
// stored value untouched.
type UpdateParams struct {
	Name        *string
	Surname     *string
	Username    *string
	PhoneNumber *string
	Email       *string
	IsBlocked   *bool
	RoleName    *models.Role
	GroupID     *int64
}

// Avatar is an uploaded image attached to an update.
type Avatar struct {
	Body        io.Reader
	ContentType string
}

// Update applies the given field changes and, when an avatar is attached,
// uploads it and stores the resulting object key.
func (s *UserService) Update(ctx context.Context, id string, params UpdateParams, avatar *Avatar) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Surname != nil {
		user.Surname = *params.Surname
	}
	if params.Username != nil {
		user.Username = *params.Username
	}
	if params.PhoneNumber != nil {
		user.PhoneNumber = *params.PhoneNumber
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.IsBlocked != nil {
		user.IsBlocked = *params.IsBlocked
	}
	if params.RoleName != nil {
		user.RoleName = *params.RoleName
	}
	if params.GroupID != nil {
		user.GroupID = *params.GroupID
	}

	if avatar != nil {
		key, err := s.avatars.Upload(ctx, avatar.Body, avatar.ContentType)
		if err != nil {
			return nil, fmt.Errorf("error uploading avatar: %w", err)
		}
		user.ImageS3Path = key
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Delete removes a user and returns the deleted id.
func (s *UserService) Delete(ctx context.Context, id string) (string, error) {
	return s.users.Delete(ctx, id)
}

// AvatarURL resolves a stored avatar key to a short-lived download URL.
// Users without an avatar yield an empty URL.
func (s *UserService) AvatarURL(ctx context.Context, user *models.User) (string, error) {
	if user.ImageS3Path == "" {
		return "", nil
	}
	return s.avatars.PresignGet(ctx, user.ImageS3Path)
}
