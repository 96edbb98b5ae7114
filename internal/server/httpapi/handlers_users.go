package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sangvinij/user-management-micro-service/internal/logging"
	"github.com/sangvinij/user-management-micro-service/internal/server/models"
	"github.com/sangvinij/user-management-micro-service/internal/server/services"
)

// UserHandler exposes the user CRUD operations over HTTP.
type UserHandler struct {
	users  *services.UserService
	logger logging.Logger
}

func NewUserHandler(users *services.UserService, logger logging.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger.With("module", "user_handler")}
}

// userView is a user record plus a short-lived avatar download URL.
type userView struct {
	*models.User
	ImageURL string `json:"image_url,omitempty"`
}

func (h *UserHandler) renderUser(c *gin.Context, user *models.User) {
	url, err := h.users.AvatarURL(c.Request.Context(), user)
	if err != nil {
		h.logger.Warn(c.Request.Context(), "error presigning avatar", "user_id", user.ID, "error", err.Error())
	}
	c.JSON(http.StatusOK, userView{User: user, ImageURL: url})
}

// Me returns the authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	h.renderUser(c, currentUser(c))
}

// UpdateMe applies a partial self-update from multipart form fields with an
// optional avatar file. Role, group and blocked status cannot be changed
// through this endpoint.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user := currentUser(c)

	params := formUpdateParams(c)
	params.IsBlocked = nil
	params.RoleName = nil
	params.GroupID = nil

	h.applyUpdate(c, user.ID, params)
}

// DeleteMe removes the authenticated user's own account.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	h.deleteUser(c, currentUser(c).ID)
}

// One returns a user by id. Admins may read anyone, moderators only their
// own group.
func (h *UserHandler) One(c *gin.Context) {
	user, err := h.users.ReadOne(c.Request.Context(), currentUser(c), c.Param("user_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.renderUser(c, user)
}

// UpdateOne applies a partial update to any user. Admin only.
func (h *UserHandler) UpdateOne(c *gin.Context) {
	h.applyUpdate(c, c.Param("user_id"), formUpdateParams(c))
}

// DeleteOne removes a user by id. Admin only.
func (h *UserHandler) DeleteOne(c *gin.Context) {
	h.deleteUser(c, c.Param("user_id"))
}

// listResponse pages a user listing.
type listResponse struct {
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int64          `json:"total_pages"`
	TotalCount int64          `json:"total_count"`
	Users      []*models.User `json:"users"`
}

// List returns a page of users, optionally filtered by name. Moderators
// only see their own group.
func (h *UserHandler) List(c *gin.Context) {
	params := services.ListParams{
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 50),
		Name:  c.Query("filter_by_name"),
	}

	result, err := h.users.List(c.Request.Context(), currentUser(c), params)
	if err != nil {
		abortWithError(c, err)
		return
	}

	totalPages := (result.TotalCount + int64(params.Limit) - 1) / int64(params.Limit)
	c.JSON(http.StatusOK, listResponse{
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: totalPages,
		TotalCount: result.TotalCount,
		Users:      result.Users,
	})
}

func (h *UserHandler) applyUpdate(c *gin.Context, id string, params services.UpdateParams) {
	avatar, err := formAvatar(c)
	if err != nil {
		abortBadRequest(c, err.Error())
		return
	}
	if avatar != nil {
		defer avatar.close()
	}

	var att *services.Avatar
	if avatar != nil {
		att = &avatar.Avatar
	}

	user, err := h.users.Update(c.Request.Context(), id, params, att)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.renderUser(c, user)
}

func (h *UserHandler) deleteUser(c *gin.Context, id string) {
	deletedID, err := h.users.Delete(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": deletedID})
}

// formUpdateParams collects optional update fields from a multipart or
// urlencoded form. Absent fields stay nil and leave the stored value alone.
func formUpdateParams(c *gin.Context) services.UpdateParams {
	var params services.UpdateParams

	str := func(key string) *string {
		if v, ok := c.GetPostForm(key); ok {
			return &v
		}
		return nil
	}

	params.Name = str("name")
	params.Surname = str("surname")
	params.Username = str("username")
	params.PhoneNumber = str("phone_number")
	params.Email = str("email")

	if v, ok := c.GetPostForm("is_blocked"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			params.IsBlocked = &b
		}
	}
	if v, ok := c.GetPostForm("role"); ok {
		role := models.Role(v)
		params.RoleName = &role
	}
	if v, ok := c.GetPostForm("group_id"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			params.GroupID = &n
		}
	}

	return params
}

// openedAvatar is an avatar read from a multipart file that must be closed
// after the upload.
type openedAvatar struct {
	services.Avatar
	close func() error
}

// formAvatar opens the optional "file" part of a multipart update. A
// request without a file yields nil.
func formAvatar(c *gin.Context) (*openedAvatar, error) {
	header, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}

	return &openedAvatar{
		Avatar: services.Avatar{Body: file, ContentType: header.Header.Get("Content-Type")},
		close:  file.Close,
	}, nil
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
