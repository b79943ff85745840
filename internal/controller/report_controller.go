package controller

import (
	"errors"
	"prompt_edu_backend/internal/repository"
	"prompt_edu_backend/internal/service"
	"prompt_edu_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ReportController 进度报告：归档统计查询 + 快照导出
type ReportController struct {
	StorageService     *service.StorageService
	ProgressService    *service.ProgressService
	AchievementService *service.AchievementService
	ArchiveRepo        *repository.AttemptArchiveRepository // 数据库未启用时为 nil
}

func NewReportController(
	storageService *service.StorageService,
	progressService *service.ProgressService,
	achievementService *service.AchievementService,
	archiveRepo *repository.AttemptArchiveRepository,
) *ReportController {
	return &ReportController{
		StorageService:     storageService,
		ProgressService:    progressService,
		AchievementService: achievementService,
		ArchiveRepo:        archiveRepo,
	}
}

// @Summary 导出进度报告
// @Description 把用户当前的能力、成就、会话摘要汇总为 JSON 快照上传到对象存储
// @Tags 报告
// @Produce json
// @Param userId path string true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/users/{userId}/reports/export [post]
func (c *ReportController) ExportReport(ctx *gin.Context) {
	userID := ctx.Param("userId")

	report := service.BuildReport(
		userID,
		c.ProgressService.GetUserLevel(userID),
		c.AchievementService.Unlocked(userID),
		c.ProgressService.SessionSummaries(userID),
	)

	url, err := c.StorageService.ExportReport(ctx.Request.Context(), report)
	if err != nil {
		if errors.Is(err, util.ErrStorageDisabled) {
			util.ServiceUnavailable(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url})
}

// @Summary 周维度练习统计
// @Description 来自归档库的聚合数据，需要启用数据库
// @Tags 报告
// @Produce json
// @Param userId path string true "用户ID"
// @Param weeks query int false "统计几周" default(4)
// @Success 200 {object} util.Response
// @Router /api/users/{userId}/stats/weekly [get]
func (c *ReportController) GetWeeklyStats(ctx *gin.Context) {
	if c.ArchiveRepo == nil {
		util.ServiceUnavailable(ctx, util.ErrArchiveDisabled.Error())
		return
	}

	weeks := 4
	if weeksStr := ctx.Query("weeks"); weeksStr != "" {
		if w, err := strconv.Atoi(weeksStr); err == nil {
			weeks = w
		}
	}

	stats, err := c.ArchiveRepo.GetWeeklyStats(ctx.Param("userId"), weeks)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
