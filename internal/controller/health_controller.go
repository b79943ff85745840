package controller

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	status := gin.H{"status": "ok"}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			status["database"] = "down"
		} else {
			status["database"] = "up"
		}
	}

	ctx.JSON(200, status)
}
