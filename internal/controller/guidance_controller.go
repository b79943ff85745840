package controller

import (
	"prompt_edu_backend/internal/model"
	"prompt_edu_backend/internal/service"
	"prompt_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GuidanceController struct {
	GuidanceService *service.GuidanceService
	ProgressService *service.ProgressService
}

func NewGuidanceController(guidanceService *service.GuidanceService, progressService *service.ProgressService) *GuidanceController {
	return &GuidanceController{
		GuidanceService: guidanceService,
		ProgressService: progressService,
	}
}

type GuidanceRequest struct {
	TemplateID     string               `json:"templateId" binding:"required"`
	SessionContext model.SessionContext `json:"sessionContext"`
	RecentLimit    int                  `json:"recentLimit"`
}

// @Summary 生成自适应引导
// @Description 根据最近的尝试和会话情境生成难度配置与辅导建议，不修改任何进度数据
// @Tags 引导
// @Accept json
// @Produce json
// @Param userId path string true "用户ID"
// @Param body body GuidanceRequest true "会话情境"
// @Success 200 {object} util.Response
// @Router /api/users/{userId}/guidance [post]
func (c *GuidanceController) GenerateGuidance(ctx *gin.Context) {
	userID := ctx.Param("userId")

	var req GuidanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	limit := req.RecentLimit
	if limit <= 0 {
		limit = 10
	}

	baseline := c.ProgressService.GetUserLevel(userID)
	recent := c.ProgressService.RecentAttempts(userID, req.TemplateID, limit)

	result := c.GuidanceService.GenerateGuidance(userID, req.SessionContext, baseline, recent)
	util.Success(ctx, result)
}
