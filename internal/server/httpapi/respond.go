package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sangvinij/user-management-micro-service/internal/common"
)

// detail is the error payload shape: {"detail": "..."}.
type detail struct {
	Detail string `json:"detail"`
}

// abortWithError translates a service error into an HTTP status and a
// detail payload. Signature errors are reported as plain "invalid token"
// so the response does not hint at how close a forged token came.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := common.ErrorInternal.Error()

	switch {
	case errors.Is(err, common.ErrNotAuthenticated):
		status = http.StatusUnauthorized
		msg = err.Error()
	case errors.Is(err, common.ErrUserBlocked), errors.Is(err, common.ErrPermissionDenied):
		status = http.StatusForbidden
		msg = err.Error()
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
		msg = err.Error()
	case errors.Is(err, common.ErrorAlreadyExists):
		status = http.StatusConflict
		msg = err.Error()
	case errors.Is(err, common.ErrInvalidSignature):
		status = http.StatusBadRequest
		msg = common.ErrMalformedToken.Error()
	case errors.Is(err, common.ErrMalformedToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrWrongTokenType),
		errors.Is(err, common.ErrTokenBlacklisted),
		errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrPasswordMismatch):
		status = http.StatusBadRequest
		msg = err.Error()
	}

	c.AbortWithStatusJSON(status, detail{Detail: msg})
}

// abortBadRequest reports a request-shape problem (failed binding or
// validation) with the given message.
func abortBadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, detail{Detail: msg})
}
