package controller

import (
	"errors"
	"prompt_edu_backend/internal/model"
	"prompt_edu_backend/internal/repository"
	"prompt_edu_backend/internal/service"
	"prompt_edu_backend/internal/util"
	"prompt_edu_backend/pkg/logger"
	"prompt_edu_backend/pkg/monitoring"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LearningController 学习主流程：开始会话、提交尝试、查看进度
type LearningController struct {
	ProgressService    *service.ProgressService
	ScoringService     *service.ScoringService
	AchievementService *service.AchievementService
	LeaderboardService *service.LeaderboardService
	ArchiveRepo        *repository.AttemptArchiveRepository // 数据库未启用时为 nil
}

func NewLearningController(
	progressService *service.ProgressService,
	scoringService *service.ScoringService,
	achievementService *service.AchievementService,
	leaderboardService *service.LeaderboardService,
	archiveRepo *repository.AttemptArchiveRepository,
) *LearningController {
	return &LearningController{
		ProgressService:    progressService,
		ScoringService:     scoringService,
		AchievementService: achievementService,
		LeaderboardService: leaderboardService,
		ArchiveRepo:        archiveRepo,
	}
}

type StartSessionRequest struct {
	UserID         string `json:"userId" binding:"required"`
	TemplateID     string `json:"templateId" binding:"required"`
	InitialStageID string `json:"initialStageId"`
}

// @Summary 开始学习会话
// @Description 幂等：同一 (用户,模板) 重复调用返回已有会话
// @Tags 学习
// @Accept json
// @Produce json
// @Param body body StartSessionRequest true "会话信息"
// @Success 200 {object} util.Response
// @Router /api/sessions [post]
func (c *LearningController) StartSession(ctx *gin.Context) {
	var req StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress := c.ProgressService.StartSession(req.UserID, req.TemplateID, req.InitialStageID)
	util.Success(ctx, progress)
}

type RecordAttemptRequest struct {
	UserID           string                 `json:"userId" binding:"required"`
	TemplateID       string                 `json:"templateId" binding:"required"`
	StageID          string                 `json:"stageId" binding:"required"`
	Text             string                 `json:"text"`
	TimeSpentSeconds int                    `json:"timeSpentSeconds"`
	SuccessCriteria  *model.SuccessCriteria `json:"successCriteria"`
}

type RecordAttemptResponse struct {
	Attempt         *model.Attempt      `json:"attempt"`
	Events          []model.EngineEvent `json:"events"`
	NewAchievements []model.Achievement `json:"newAchievements"`
	UserLevel       *model.UserLevel    `json:"userLevel"`
}

// @Summary 提交一次提示词尝试
// @Description 评分、记录历史、更新技能熟练度，并检测新解锁的成就
// @Tags 学习
// @Accept json
// @Produce json
// @Param body body RecordAttemptRequest true "尝试内容"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "会话不存在，需要先调用 startSession"
// @Router /api/sessions/attempts [post]
func (c *LearningController) RecordAttempt(ctx *gin.Context) {
	var req RecordAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	score := c.ScoringService.Score(req.Text)

	attempt, events, err := c.ProgressService.RecordAttempt(
		req.UserID, req.TemplateID, req.StageID, req.Text,
		*score, req.TimeSpentSeconds, req.SuccessCriteria,
	)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	monitoring.AttemptCounter.WithLabelValues(strconv.FormatBool(attempt.Completed)).Inc()
	monitoring.ScoreHistogram.Observe(float64(attempt.Score.Overall))
	for _, e := range events {
		if e.Kind == model.EventStageCompleted {
			monitoring.StageCompletedCounter.Inc()
		}
	}

	// 成就检测用的是刚更新过的历史
	newAchievements, achievementEvents := c.AchievementService.CheckAchievements(
		req.UserID,
		c.ProgressService.SkillLevels(req.UserID),
		c.ProgressService.AttemptsForUser(req.UserID),
		c.ProgressService.CompletedTemplates(req.UserID),
	)
	events = append(events, achievementEvents...)
	for _, a := range newAchievements {
		monitoring.AchievementCounter.WithLabelValues(string(c.AchievementService.RarityOf(a.ID))).Inc()
	}

	userLevel := c.ProgressService.GetUserLevel(req.UserID)

	// 排行榜和归档都是旁路：失败只记日志，不影响本次请求
	if err := c.LeaderboardService.Update(ctx.Request.Context(), req.UserID, userLevel.Overall); err != nil {
		logger.Log.Warn("leaderboard update failed", zap.Error(err), zap.String("userId", req.UserID))
	}
	if c.ArchiveRepo != nil {
		if err := c.ArchiveRepo.ArchiveAttempt(req.UserID, req.TemplateID, attempt); err != nil {
			logger.Log.Warn("attempt archive failed", zap.Error(err), zap.String("attemptId", attempt.ID))
		}
	}

	util.Success(ctx, RecordAttemptResponse{
		Attempt:         attempt,
		Events:          events,
		NewAchievements: newAchievements,
		UserLevel:       userLevel,
	})
}

type CompleteTemplateRequest struct {
	UserID     string `json:"userId" binding:"required"`
	TemplateID string `json:"templateId" binding:"required"`
}

// @Summary 标记模板完成
// @Description 模板的完成判定属于外部内容系统，由调用方在最后一关通过后上报
// @Tags 学习
// @Accept json
// @Produce json
// @Param body body CompleteTemplateRequest true "模板信息"
// @Success 200 {object} util.Response
// @Router /api/sessions/complete [post]
func (c *LearningController) CompleteTemplate(ctx *gin.Context) {
	var req CompleteTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.MarkTemplateCompleted(req.UserID, req.TemplateID); err != nil {
		util.NotFound(ctx, err.Error())
		return
	}
	util.Success(ctx, gin.H{"message": "template completed"})
}

// @Summary 获取用户能力总览
// @Tags 学习
// @Produce json
// @Param userId path string true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/users/{userId}/level [get]
func (c *LearningController) GetUserLevel(ctx *gin.Context) {
	userID := ctx.Param("userId")
	util.Success(ctx, c.ProgressService.GetUserLevel(userID))
}

// @Summary 获取单个会话进度
// @Tags 学习
// @Produce json
// @Param userId path string true "用户ID"
// @Param templateId path string true "模板ID"
// @Success 200 {object} util.Response
// @Router /api/users/{userId}/progress/{templateId} [get]
func (c *LearningController) GetProgress(ctx *gin.Context) {
	progress, err := c.ProgressService.GetProgress(ctx.Param("userId"), ctx.Param("templateId"))
	if err != nil {
		util.NotFound(ctx, err.Error())
		return
	}
	util.Success(ctx, progress)
}
