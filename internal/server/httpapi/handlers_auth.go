package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sangvinij/user-management-micro-service/internal/common"
	"github.com/sangvinij/user-management-micro-service/internal/logging"
	"github.com/sangvinij/user-management-micro-service/internal/server/models"
	"github.com/sangvinij/user-management-micro-service/internal/server/services"
)

// AuthHandler exposes registration, login, token refresh and password reset
// over HTTP.
type AuthHandler struct {
	auth   *services.AuthService
	logger logging.Logger
}

func NewAuthHandler(auth *services.AuthService, logger logging.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger.With("module", "auth_handler")}
}

type signupRequest struct {
	Name        string `json:"name" binding:"required"`
	Surname     string `json:"surname" binding:"required"`
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required,min=5"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	IsBlocked   bool   `json:"is_blocked"`
	Role        string `json:"role"`
	GroupID     int64  `json:"group_id" binding:"required"`
}

// Signup registers a new account and returns the created user.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), services.SignupParams{
		Name:        req.Name,
		Surname:     req.Surname,
		Username:    req.Username,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		IsBlocked:   req.IsBlocked,
		RoleName:    models.Role(req.Role),
		GroupID:     req.GroupID,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Login exchanges credentials for a token pair. The username field also
// accepts a phone number or an email.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Refresh rotates the bearer refresh token into a fresh pair. The used
// token is revoked and cannot be replayed.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		abortWithError(c, common.ErrNotAuthenticated)
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

type resetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPassword sends a single-use reset link. The response is identical
// whether or not the email belongs to an account.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}

	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail{Detail: "password reset link sent"})
}

type resetPasswordConfirmRequest struct {
	Token          string `json:"token" binding:"required"`
	Password       string `json:"password" binding:"required,min=5"`
	PasswordRetype string `json:"password_retype" binding:"required"`
}

// ResetPasswordConfirm redeems a reset token and sets the new password.
func (h *AuthHandler) ResetPasswordConfirm(c *gin.Context) {
	var req resetPasswordConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}

	err := h.auth.ConfirmPasswordReset(c.Request.Context(), req.Token, req.Password, req.PasswordRetype)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail{Detail: "password updated"})
}
