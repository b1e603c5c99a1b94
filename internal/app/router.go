package app

import (
	"quizmaster_backend/docs"
	"quizmaster_backend/internal/config"
	"quizmaster_backend/internal/middleware"
	"quizmaster_backend/internal/model"
	"quizmaster_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	auth := middleware.AuthMiddleware(cfg)

	api.GET("/health", c.health.HealthCheck)

	a.registerAuthRoutes(api.Group("/auth"), c, auth)
	a.registerSubjectRoutes(api.Group("/subject"), c, auth, middleware.TryAuthMiddleware(cfg))
	a.registerQuizRoutes(api.Group("/quiz"), c, auth)

	progress := api.Group("/progress", auth)
	{
		progress.GET("", c.progress.GetProgress)
		progress.GET("/subject/:id", c.progress.GetSubjectProgress)
		progress.GET("/recent", c.progress.RecentAttempts)
		progress.GET("/analytics", c.progress.GetAnalytics)
	}

	user := api.Group("/user", auth)
	{
		user.GET("/profile", c.user.GetProfile)
		user.PUT("/profile", c.user.UpdateProfile)
		user.GET("/stats", c.user.GetStats)
		user.GET("/achievements", c.user.GetAchievements)
		user.PATCH("/preferences", c.user.UpdatePreferences)
		user.POST("/avatar", c.user.UploadAvatar)

		user.GET("/all", middleware.RoleMiddleware(model.Admin), c.user.ListUsers)
	}
}

func (a *App) registerAuthRoutes(rg *gin.RouterGroup, c *controllers, auth gin.HandlerFunc) {
	rg.POST("/register", c.auth.Register)
	rg.POST("/login", c.auth.Login)
	rg.GET("/me", auth, c.auth.Me)
	rg.POST("/logout", auth, c.auth.Logout)
}

func (a *App) registerSubjectRoutes(rg *gin.RouterGroup, c *controllers, auth, tryAuth gin.HandlerFunc) {
	rg.GET("", c.subject.ListSubjects)
	rg.GET("/:id", tryAuth, c.subject.GetSubject)
	rg.GET("/:id/progress", auth, c.subject.GetSubjectWithProgress)
	rg.GET("/:id/:subtopicId", c.subject.GetSubtopic)
}

func (a *App) registerQuizRoutes(rg *gin.RouterGroup, c *controllers, auth gin.HandlerFunc) {
	rg.GET("/history", auth, c.quiz.History)
	rg.GET("/:subject/:subtopic", c.quiz.GetQuiz)
	rg.POST("/:subject/:subtopic/submit", auth, c.quiz.SubmitQuiz)
}
