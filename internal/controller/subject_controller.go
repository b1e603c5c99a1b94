package controller

import (
	"quizmaster_backend/internal/service"
	"quizmaster_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubjectController struct {
	CatalogService *service.CatalogService
}

func NewSubjectController(catalogService *service.CatalogService) *SubjectController {
	return &SubjectController{CatalogService: catalogService}
}

// ListSubjects godoc
// @Summary List subjects
// @Description Active subjects ordered by display order, with live quiz counts
// @Tags Subjects
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.SubjectView}
// @Router /api/subject [get]
func (c *SubjectController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.CatalogService.ListSubjects(ctx.Request.Context())
	if err != nil {
		renderError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// GetSubject godoc
// @Summary Get a subject
// @Description Signed-in callers get their progress merged in, as with /subject/{id}/progress
// @Tags Subjects
// @Produce  json
// @Param   id path string true "Subject ID"
// @Success 200 {object} util.Response{data=service.SubjectView}
// @Failure 404 {object} util.Response
// @Router /api/subject/{id} [get]
func (c *SubjectController) GetSubject(ctx *gin.Context) {
	if claims := util.GetUserFromContext(ctx); claims != nil {
		view, err := c.CatalogService.GetSubjectWithProgress(ctx.Request.Context(), ctx.Param("id"), claims.UserID)
		if err != nil {
			renderError(ctx, err)
			return
		}
		util.Success(ctx, view)
		return
	}

	subject, err := c.CatalogService.GetSubject(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		renderError(ctx, err)
		return
	}
	util.Success(ctx, subject)
}

// GetSubjectWithProgress godoc
// @Summary Get a subject with the caller's progress
// @Tags Subjects
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Subject ID"
// @Success 200 {object} util.Response{data=service.SubjectProgressView}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/subject/{id}/progress [get]
func (c *SubjectController) GetSubjectWithProgress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	view, err := c.CatalogService.GetSubjectWithProgress(ctx.Request.Context(), ctx.Param("id"), userID)
	if err != nil {
		renderError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetSubtopic godoc
// @Summary Get a subtopic
// @Tags Subjects
// @Produce  json
// @Param   id path string true "Subject ID"
// @Param   subtopicId path string true "Subtopic ID"
// @Success 200 {object} util.Response{data=service.SubtopicDetail}
// @Failure 404 {object} util.Response
// @Router /api/subject/{id}/{subtopicId} [get]
func (c *SubjectController) GetSubtopic(ctx *gin.Context) {
	detail, err := c.CatalogService.GetSubtopic(ctx.Request.Context(), ctx.Param("id"), ctx.Param("subtopicId"))
	if err != nil {
		renderError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}
