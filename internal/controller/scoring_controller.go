package controller

import (
	"prompt_edu_backend/internal/service"
	"prompt_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ScoringController struct {
	ScoringService *service.ScoringService
}

func NewScoringController(scoringService *service.ScoringService) *ScoringController {
	return &ScoringController{ScoringService: scoringService}
}

type ScoreRequest struct {
	Text string `json:"text"`
}

// @Summary 提示词评分
// @Description 对一段提示词做五维质量评分，不记录历史
// @Tags 评分
// @Accept json
// @Produce json
// @Param body body ScoreRequest true "提示词文本"
// @Success 200 {object} util.Response
// @Router /api/score [post]
func (c *ScoringController) Score(ctx *gin.Context) {
	var req ScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// 空文本也会得到有效的低分，评分永远不报错
	score := c.ScoringService.Score(req.Text)
	util.Success(ctx, score)
}
