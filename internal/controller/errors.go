package controller

import (
	"errors"

	"quizmaster_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// renderError maps service sentinels to status codes. Anything unknown is
// logged and collapsed to a generic 500.
func renderError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidInput), errors.Is(err, util.ErrInvalidFile):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrEmailRegistered):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Unauthorized(ctx, "Invalid email or password")
	case errors.Is(err, util.ErrTokenExpired):
		util.Unauthorized(ctx, "Token expired")
	case errors.Is(err, util.ErrInvalidToken):
		util.Unauthorized(ctx, "Not authorized, token failed")
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrQuizNotFound):
		util.NotFound(ctx, "Quiz not found")
	case errors.Is(err, util.ErrSubjectNotFound):
		util.NotFound(ctx, "Subject not found")
	case errors.Is(err, util.ErrSubtopicNotFound):
		util.NotFound(ctx, "Subtopic not found")
	case errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx, "User not found")
	default:
		util.LogInternalError(ctx, err)
	}
}

// currentUserID is only called behind AuthMiddleware.
func currentUserID(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "")
		return 0, false
	}
	return claims.UserID, true
}
