package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sangvinij/user-management-micro-service/internal/common"
	"github.com/sangvinij/user-management-micro-service/internal/server/models"
	"github.com/sangvinij/user-management-micro-service/internal/server/repositories/users"
)

// fakeUserRepo is an in-memory users.Repository used by the service tests.
type fakeUserRepo struct {
	seq   int
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email || u.PhoneNumber == user.PhoneNumber {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.seq++
	user.ID = fmt.Sprintf("user-%d", f.seq)
	user.CreatedAt = time.Now()
	user.ModifiedAt = user.CreatedAt
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == login || u.PhoneNumber == login || u.Email == login {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUserRepo) List(ctx context.Context, filter users.ListFilter) (*users.ListResult, error) {
	result := &users.ListResult{Users: []*models.User{}}
	for _, u := range f.users {
		if filter.GroupID != 0 && u.GroupID != filter.GroupID {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(filter.Name)) {
			continue
		}
		result.Users = append(result.Users, u)
	}
	result.TotalCount = int64(len(result.Users))
	return result, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return common.ErrorNotFound
	}
	user.ModifiedAt = time.Now()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) (string, error) {
	if _, ok := f.users[id]; !ok {
		return "", common.ErrorNotFound
	}
	delete(f.users, id)
	return id, nil
}

// fakeAvatarStorage records uploads without touching S3.
type fakeAvatarStorage struct {
	uploads int
}

func (f *fakeAvatarStorage) Upload(ctx context.Context, body io.Reader, contentType string) (string, error) {
	f.uploads++
	return fmt.Sprintf("users/fake/%d", f.uploads), nil
}

func (f *fakeAvatarStorage) PresignGet(ctx context.Context, key string) (string, error) {
	return "https://s3.local/" + key, nil
}

// fakeNotifier captures the last reset URL instead of sending it.
type fakeNotifier struct {
	email    string
	resetURL string
}

func (f *fakeNotifier) SendPasswordResetURL(ctx context.Context, email, resetURL string) error {
	f.email = email
	f.resetURL = resetURL
	return nil
}
