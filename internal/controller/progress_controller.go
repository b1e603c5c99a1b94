package controller

import (
	"strconv"

	"quizmaster_backend/internal/service"
	"quizmaster_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// GetProgress godoc
// @Summary Overall progress
// @Tags Progress
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.Progress}
// @Failure 401 {object} util.Response
// @Router /api/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	progress, err := c.ProgressService.GetProgress(ctx.Request.Context(), userID)
	if err != nil {
		renderError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// GetSubjectProgress godoc
// @Summary Progress in one subject
// @Tags Progress
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Subject ID"
// @Success 200 {object} util.Response{data=model.SubjectProgress}
// @Failure 401 {object} util.Response
// @Router /api/progress/subject/{id} [get]
func (c *ProgressController) GetSubjectProgress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	progress, err := c.ProgressService.GetSubjectProgress(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		renderError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// RecentAttempts godoc
// @Summary Recent quiz attempts
// @Tags Progress
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "Number of attempts" default(5)
// @Success 200 {object} util.Response{data=[]service.AttemptSummary}
// @Failure 401 {object} util.Response
// @Router /api/progress/recent [get]
func (c *ProgressController) RecentAttempts(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(ctx.Query("limit"))
	attempts, err := c.ProgressService.RecentAttempts(ctx.Request.Context(), userID, limit)
	if err != nil {
		renderError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// GetAnalytics godoc
// @Summary Performance analytics
// @Description Aggregates attempts over 7d, 30d or 90d. Any other period falls back to 30d.
// @Tags Progress
// @Produce  json
// @Security BearerAuth
// @Param   period query string false "Window" Enums(7d, 30d, 90d) default(30d)
// @Success 200 {object} util.Response{data=model.Analytics}
// @Failure 401 {object} util.Response
// @Router /api/progress/analytics [get]
func (c *ProgressController) GetAnalytics(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	analytics, err := c.ProgressService.GetAnalytics(ctx.Request.Context(), userID, ctx.Query("period"))
	if err != nil {
		renderError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}
