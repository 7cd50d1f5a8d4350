package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/habittracker/internal/domain/errors"
	pkgAuth "github.com/polkiloo/habittracker/internal/pkg/auth"
	"github.com/polkiloo/habittracker/internal/server/http/dto"
	"github.com/polkiloo/habittracker/internal/server/http/middleware"
)

const (
	MsgUserCreated        = "User created successfully!"
	MsgInvalidCredentials = "Invalid credentials"
	MsgUsernameTaken      = "Username already exists"
	MsgHabitNotFound      = "Habit not found"
	MsgMalformedBody      = "Malformed JSON body"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

func writeMessage(c *gin.Context, status int, message string) {
	c.JSON(status, dto.MessageResponse{Message: message})
}

// writeError maps domain errors onto status codes. Unclassified errors are
// attached to the context for the request logger and reported as 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrInvalidInput):
		writeMessage(c, http.StatusBadRequest, validationReason(err))
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		writeMessage(c, http.StatusConflict, MsgUsernameTaken)
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		writeMessage(c, http.StatusUnauthorized, MsgInvalidCredentials)
	case errors.Is(err, pkgAuth.ErrInvalidToken):
		writeMessage(c, http.StatusUnauthorized, middleware.MsgInvalidToken)
	case errors.Is(err, domainErrors.ErrNotFound):
		writeMessage(c, http.StatusNotFound, MsgHabitNotFound)
	default:
		_ = c.Error(err)
		writeMessage(c, http.StatusInternalServerError, middleware.MsgInternal)
	}
}

// validationReason strips the sentinel prefix so clients see only the reason.
func validationReason(err error) string {
	msg := err.Error()
	prefix := domainErrors.ErrInvalidInput.Error() + ": "
	if reason, ok := strings.CutPrefix(msg, prefix); ok && reason != "" {
		return reason
	}
	return "Invalid input"
}
