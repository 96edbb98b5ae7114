package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangvinij/user-management-micro-service/internal/common"
	"github.com/sangvinij/user-management-micro-service/internal/server/models"
)

func newUserFixture(t *testing.T) (*UserService, *fakeUserRepo, *fakeAvatarStorage) {
	t.Helper()

	repo := newFakeUserRepo()
	storage := &fakeAvatarStorage{}
	return NewUserService(repo, storage, discardLogger()), repo, storage
}

func seedUser(t *testing.T, repo *fakeUserRepo, username string, role models.Role, group int64) *models.User {
	t.Helper()

	user, err := repo.Create(context.Background(), &models.User{
		Name:        username,
		Surname:     "Test",
		Username:    username,
		PhoneNumber: "+37529" + username,
		Email:       username + "@example.com",
		RoleName:    role,
		GroupID:     group,
	})
	require.NoError(t, err)
	return user
}

func TestUserService_ReadOne_ModeratorScopedToOwnGroup(t *testing.T) {
	svc, repo, _ := newUserFixture(t)
	ctx := context.Background()

	moderator := seedUser(t, repo, "mod", models.RoleModerator, 1)
	sameGroup := seedUser(t, repo, "peer", models.RoleUser, 1)
	otherGroup := seedUser(t, repo, "stranger", models.RoleUser, 2)

	got, err := svc.ReadOne(ctx, moderator, sameGroup.ID)
	require.NoError(t, err)
	assert.Equal(t, "peer", got.Username)

	_, err = svc.ReadOne(ctx, moderator, otherGroup.ID)
	assert.ErrorIs(t, err, common.ErrPermissionDenied)
}

func TestUserService_ReadOne_AdminUnrestricted(t *testing.T) {
	svc, repo, _ := newUserFixture(t)

	admin := seedUser(t, repo, "admin", models.RoleAdmin, 1)
	other := seedUser(t, repo, "user", models.RoleUser, 2)

	got, err := svc.ReadOne(context.Background(), admin, other.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.ID)
}

func TestUserService_ReadOne_NotFound(t *testing.T) {
	svc, repo, _ := newUserFixture(t)
	admin := seedUser(t, repo, "admin", models.RoleAdmin, 1)

	_, err := svc.ReadOne(context.Background(), admin, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUserService_List_ModeratorSeesOnlyOwnGroup(t *testing.T) {
	svc, repo, _ := newUserFixture(t)
	ctx := context.Background()

	moderator := seedUser(t, repo, "mod", models.RoleModerator, 1)
	seedUser(t, repo, "peer", models.RoleUser, 1)
	seedUser(t, repo, "stranger", models.RoleUser, 2)

	result, err := svc.List(ctx, moderator, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.TotalCount)
	for _, u := range result.Users {
		assert.Equal(t, int64(1), u.GroupID)
	}
}

func TestUserService_List_AdminSeesEveryone(t *testing.T) {
	svc, repo, _ := newUserFixture(t)

	admin := seedUser(t, repo, "admin", models.RoleAdmin, 1)
	seedUser(t, repo, "peer", models.RoleUser, 1)
	seedUser(t, repo, "stranger", models.RoleUser, 2)

	result, err := svc.List(context.Background(), admin, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.TotalCount)
}

func TestUserService_Update_FieldsAndAvatar(t *testing.T) {
	svc, repo, storage := newUserFixture(t)
	ctx := context.Background()

	user := seedUser(t, repo, "alice", models.RoleUser, 1)

	newName := "Alicia"
	updated, err := svc.Update(ctx, user.ID, UpdateParams{Name: &newName}, &Avatar{
		Body:        strings.NewReader("fake-image-bytes"),
		ContentType: "image/png",
	})
	require.NoError(t, err)

	assert.Equal(t, "Alicia", updated.Name)
	assert.NotEmpty(t, updated.ImageS3Path)
	assert.Equal(t, 1, storage.uploads)

	// Untouched fields survive the partial update.
	assert.Equal(t, "alice", updated.Username)
}

func TestUserService_Delete(t *testing.T) {
	svc, repo, _ := newUserFixture(t)
	ctx := context.Background()

	user := seedUser(t, repo, "alice", models.RoleUser, 1)

	deletedID, err := svc.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, deletedID)

	_, err = svc.Delete(ctx, user.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUserService_AvatarURL(t *testing.T) {
	svc, repo, _ := newUserFixture(t)
	ctx := context.Background()

	user := seedUser(t, repo, "alice", models.RoleUser, 1)

	url, err := svc.AvatarURL(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, url)

	user.ImageS3Path = "users/2026/1/1/abc"
	url, err = svc.AvatarURL(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.local/users/2026/1/1/abc", url)
}
