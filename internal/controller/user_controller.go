package controller

import (
	"strconv"

	"quizmaster_backend/internal/service"
	"quizmaster_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// PreferencesRequest fields left out are not changed.
// swagger:model PreferencesRequest
type PreferencesRequest struct {
	Theme              *string `json:"theme" binding:"omitempty,theme"`
	EmailNotifications *bool   `json:"emailNotifications"`
	StudyReminders     *bool   `json:"studyReminders"`
}

func (r *PreferencesRequest) toUpdate() service.PreferencesUpdate {
	return service.PreferencesUpdate{
		Theme:              r.Theme,
		EmailNotifications: r.EmailNotifications,
		StudyReminders:     r.StudyReminders,
	}
}

// UpdateProfileRequest defines model for a profile update
// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	FirstName   *string             `json:"firstName" binding:"omitempty,max=50"`
	LastName    *string             `json:"lastName" binding:"omitempty,max=50"`
	Preferences *PreferencesRequest `json:"preferences"`
}

// GetProfile godoc
// @Summary Get profile
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.UserProfile}
// @Failure 401 {object} util.Response
// @Router /api/user/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	profile, err := c.UserService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		renderError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// UpdateProfile godoc
// @Summary Update profile
// @Tags Users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} util.Response{data=service.UserProfile}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/user/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	update := service.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if req.Preferences != nil {
		prefs := req.Preferences.toUpdate()
		update.Preferences = &prefs
	}

	profile, err := c.UserService.UpdateProfile(ctx.Request.Context(), userID, update)
	if err != nil {
		renderError(ctx, err)
		return
	}
	util.SuccessMessage(ctx, "Profile updated successfully", profile)
}

// GetStats godoc
// @Summary Lifetime quiz statistics
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.UserStats}
// @Failure 401 {object} util.Response
// @Router /api/user/stats [get]
func (c *UserController) GetStats(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	stats, err := c.UserService.GetStats(ctx.Request.Context(), userID)
	if err != nil {
		renderError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// GetAchievements godoc
// @Summary Unlocked achievements
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Achievement}
// @Failure 401 {object} util.Response
// @Router /api/user/achievements [get]
func (c *UserController) GetAchievements(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	achievements, err := c.UserService.GetAchievements(ctx.Request.Context(), userID)
	if err != nil {
		renderError(ctx, err)
		return
	}
	util.Success(ctx, achievements)
}

// UpdatePreferences godoc
// @Summary Update preferences
// @Tags Users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body PreferencesRequest true "Preferences"
// @Success 200 {object} util.Response{data=model.Preferences}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/user/preferences [patch]
func (c *UserController) UpdatePreferences(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req PreferencesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	prefs, err := c.UserService.UpdatePreferences(ctx.Request.Context(), userID, req.toUpdate())
	if err != nil {
		renderError(ctx, err)
		return
	}
	util.SuccessMessage(ctx, "Preferences updated successfully", prefs)
}

// UploadAvatar godoc
// @Summary Upload avatar
// @Description Accepts an image of at most 2 MiB
// @Tags Users
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   avatar formData file true "Avatar image"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/user/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "avatar file is required")
		return
	}

	url, err := c.UserService.UploadAvatar(ctx.Request.Context(), userID, file)
	if err != nil {
		renderError(ctx, err)
		return
	}
	util.SuccessMessage(ctx, "Avatar uploaded successfully", gin.H{"avatar": url})
}

// ListUsers godoc
// @Summary List users
// @Description Admin only. Search matches first name, last name or email.
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "Page" default(1)
// @Param   limit query int false "Page size" default(20)
// @Param   search query string false "Search term"
// @Param   role query string false "Role filter"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/user/all [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(util.DefaultAdminPageLen)))

	users, pagination, err := c.UserService.ListUsers(ctx.Request.Context(), service.ListUsersQuery{
		Page:   page,
		Limit:  limit,
		Search: ctx.Query("search"),
		Role:   ctx.Query("role"),
	})
	if err != nil {
		renderError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"users":      users,
		"pagination": pagination,
	})
}
