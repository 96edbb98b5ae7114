package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sangvinij/user-management-micro-service/internal/common"
	"github.com/sangvinij/user-management-micro-service/internal/logging"
	"github.com/sangvinij/user-management-micro-service/internal/server/auth"
	"github.com/sangvinij/user-management-micro-service/internal/server/models"
	"github.com/sangvinij/user-management-micro-service/internal/server/repositories/users"
	"github.com/sangvinij/user-management-micro-service/internal/server/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeUserRepo is an in-memory users.Repository for handler tests.
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

type fakeNotifier struct {
	email    string
	resetURL string
}

func (f *fakeNotifier) SendPasswordResetURL(ctx context.Context, email, resetURL string) error {
	f.email = email
	f.resetURL = resetURL
	return nil
}

// apiFixture is a full HTTP stack over in-memory storage and miniredis.
type apiFixture struct {
	router   *gin.Engine
	repo     *fakeUserRepo
	storage  *fakeAvatarStorage
	notifier *fakeNotifier
	tokens   *auth.Service
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	codec, err := auth.NewCodec([]byte("handler-test-secret"), "HS256")
	require.NoError(t, err)

	logger := discardLogger()
	tokens := auth.NewService(codec, auth.NewBlacklist(rdb, time.Hour, logger), time.Minute, time.Hour)
	resets := auth.NewPasswordResetStore(rdb, 15*time.Minute)

	repo := newFakeUserRepo()
	storage := &fakeAvatarStorage{}
	notifier := &fakeNotifier{}

	authService := services.NewAuthService(repo, tokens, auth.NewBcryptHasher(bcrypt.MinCost), resets,
		notifier, "http://localhost:8000/auth/reset-password", logger)
	userService := services.NewUserService(repo, storage, logger)
	authenticator := auth.NewAuthenticator(tokens, repo)

	router := NewRouter([]string{"*"}, authenticator, authService, userService, logger)

	return &apiFixture{router: router, repo: repo, storage: storage, notifier: notifier, tokens: tokens}
}

// do performs a JSON request and returns the recorded response.
func (f *apiFixture) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func signupBody(username string) map[string]any {
	return map[string]any{
		"name":         "Test",
		"surname":      "User",
		"username":     username,
		"password":     "s3cret-pass",
		"phone_number": "+37529" + username,
		"email":        username + "@example.com",
		"group_id":     1,
	}
}

// signupAndLogin registers a user and returns its id and access token.
func (f *apiFixture) signupAndLogin(t *testing.T, username string, role models.Role, group int64) (string, *auth.TokenPair) {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/auth/signup", "", signupBody(username))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created models.User
	decodeJSON(t, rec, &created)

	// Role and group adjustments go straight to the repository: the public
	// signup endpoint always registers plain users.
	u := f.repo.users[created.ID]
	u.RoleName = role
	u.GroupID = group

	rec = f.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"username": username,
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pair auth.TokenPair
	decodeJSON(t, rec, &pair)
	return created.ID, &pair
}
