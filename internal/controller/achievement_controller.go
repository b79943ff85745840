package controller

import (
	"errors"
	"prompt_edu_backend/internal/service"
	"prompt_edu_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
	ProgressService    *service.ProgressService
	LeaderboardService *service.LeaderboardService
}

func NewAchievementController(
	achievementService *service.AchievementService,
	progressService *service.ProgressService,
	leaderboardService *service.LeaderboardService,
) *AchievementController {
	return &AchievementController{
		AchievementService: achievementService,
		ProgressService:    progressService,
		LeaderboardService: leaderboardService,
	}
}

// @Summary 获取已解锁成就
// @Tags 成就系统
// @Produce json
// @Param userId path string true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/users/{userId}/achievements [get]
func (c *AchievementController) GetUnlocked(ctx *gin.Context) {
	util.Success(ctx, c.AchievementService.Unlocked(ctx.Param("userId")))
}

// @Summary 获取未解锁成就的进度
// @Description 进度只按每个成就的第一个条件计算
// @Tags 成就系统
// @Produce json
// @Param userId path string true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/users/{userId}/achievements/progress [get]
func (c *AchievementController) GetProgress(ctx *gin.Context) {
	userID := ctx.Param("userId")

	progress := c.AchievementService.GetProgress(
		userID,
		c.ProgressService.SkillLevels(userID),
		c.ProgressService.AttemptsForUser(userID),
		c.ProgressService.CompletedTemplates(userID),
	)
	util.Success(ctx, progress)
}

// @Summary 获取成就定义目录
// @Tags 成就系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/achievements/definitions [get]
func (c *AchievementController) GetDefinitions(ctx *gin.Context) {
	util.Success(ctx, c.AchievementService.Definitions())
}

// @Summary 获取排行榜
// @Description 按综合能力排序的排行榜，需要启用 Redis
// @Tags 成就系统
// @Produce json
// @Param limit query int false "返回数量" default(10)
// @Success 200 {object} util.Response
// @Router /api/achievements/leaderboard [get]
func (c *AchievementController) GetLeaderboard(ctx *gin.Context) {
	limit := 10
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	entries, err := c.LeaderboardService.Top(ctx.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, util.ErrLeaderboardDisabled) {
			util.ServiceUnavailable(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
