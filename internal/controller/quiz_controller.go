package controller

import (
	"encoding/json"
	"strconv"
	"time"

	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/service"
	"quizmaster_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// SubmitQuizRequest defines model for a quiz submission. Answers are keyed by
// question id: an option index, a text answer or a bool.
// swagger:model SubmitQuizRequest
type SubmitQuizRequest struct {
	Answers   map[string]json.RawMessage `json:"answers" binding:"required"`
	TimeSpent int                        `json:"timeSpent"`
	StartedAt string                     `json:"startedAt"`
	Status    string                     `json:"status" binding:"omitempty,quizstatus"`
}

// GetQuiz godoc
// @Summary Get a quiz
// @Description Returns the active quiz for a subtopic without answer keys
// @Tags Quizzes
// @Produce  json
// @Param   subject path string true "Subject ID"
// @Param   subtopic path string true "Subtopic ID"
// @Success 200 {object} util.Response{data=model.PublicQuiz}
// @Failure 404 {object} util.Response
// @Router /api/quiz/{subject}/{subtopic} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	quiz, err := c.QuizService.GetQuiz(ctx.Request.Context(), ctx.Param("subject"), ctx.Param("subtopic"))
	if err != nil {
		renderError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// SubmitQuiz godoc
// @Summary Submit quiz answers
// @Description Grades the answers, records the attempt and updates progress
// @Tags Quizzes
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   subject path string true "Subject ID"
// @Param   subtopic path string true "Subtopic ID"
// @Param   body body SubmitQuizRequest true "Answers"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quiz/{subject}/{subtopic}/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var startedAt *time.Time
	if req.StartedAt != "" {
		t, err := time.Parse(time.RFC3339, req.StartedAt)
		if err != nil {
			util.BadRequest(ctx, "startedAt must be an RFC 3339 timestamp")
			return
		}
		startedAt = &t
	}

	result, err := c.QuizService.SubmitQuiz(ctx.Request.Context(), service.SubmitInput{
		UserID:    userID,
		Subject:   ctx.Param("subject"),
		Subtopic:  ctx.Param("subtopic"),
		Answers:   req.Answers,
		TimeSpent: req.TimeSpent,
		StartedAt: startedAt,
		Status:    model.AttemptStatus(req.Status),
		IP:        ctx.ClientIP(),
		UserAgent: ctx.Request.UserAgent(),
	})
	if err != nil {
		renderError(ctx, err)
		return
	}

	util.SuccessMessage(ctx, "Quiz submitted successfully", result)
}

// History godoc
// @Summary Quiz attempt history
// @Tags Quizzes
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "Page" default(1)
// @Param   limit query int false "Page size" default(10)
// @Param   subject query string false "Subject filter"
// @Param   subtopic query string false "Subtopic filter, used together with subject"
// @Success 200 {object} util.Response{data=service.HistoryResult}
// @Failure 401 {object} util.Response
// @Router /api/quiz/history [get]
func (c *QuizController) History(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(util.DefaultPageLimit)))

	result, err := c.QuizService.History(ctx.Request.Context(), service.HistoryQuery{
		UserID:   userID,
		Page:     page,
		Limit:    limit,
		Subject:  ctx.Query("subject"),
		Subtopic: ctx.Query("subtopic"),
	})
	if err != nil {
		renderError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
