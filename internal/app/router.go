package app

import (
	_ "prompt_edu_backend/docs"
	"prompt_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		// 评分（无状态）
		api.POST("/score", c.scoring.Score)

		// 学习会话
		api.POST("/sessions", c.learning.StartSession)
		api.POST("/sessions/attempts", c.learning.RecordAttempt)
		api.POST("/sessions/complete", c.learning.CompleteTemplate)

		// 用户视图
		api.GET("/users/:userId/level", c.learning.GetUserLevel)
		api.GET("/users/:userId/progress/:templateId", c.learning.GetProgress)
		api.POST("/users/:userId/guidance", c.guidance.GenerateGuidance)

		// 成就
		api.GET("/users/:userId/achievements", c.achievement.GetUnlocked)
		api.GET("/users/:userId/achievements/progress", c.achievement.GetProgress)
		api.GET("/achievements/definitions", c.achievement.GetDefinitions)
		api.GET("/achievements/leaderboard", c.achievement.GetLeaderboard)

		// 报告
		api.POST("/users/:userId/reports/export", c.report.ExportReport)
		api.GET("/users/:userId/stats/weekly", c.report.GetWeeklyStats)
	}
}
