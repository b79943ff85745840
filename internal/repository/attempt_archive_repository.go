package repository

import (
	"prompt_edu_backend/internal/model"

	"gorm.io/gorm"
)

// AttemptArchiveRepository 尝试记录的离线归档
// 引擎从不读回这些数据作为运行状态，只用于报表查询
type AttemptArchiveRepository struct {
	DB *gorm.DB
}

func NewAttemptArchiveRepository(db *gorm.DB) *AttemptArchiveRepository {
	return &AttemptArchiveRepository{DB: db}
}

// Save 写入一条归档记录
func (r *AttemptArchiveRepository) Save(record *model.AttemptRecord) error {
	return r.DB.Create(record).Error
}

// ArchiveAttempt 把内存中的尝试摊平成归档行
func (r *AttemptArchiveRepository) ArchiveAttempt(userID, templateID string, a *model.Attempt) error {
	return r.Save(&model.AttemptRecord{
		AttemptID:        a.ID,
		UserID:           userID,
		TemplateID:       templateID,
		StageID:          a.StageID,
		PromptLength:     len([]rune(a.PromptText)),
		Overall:          a.Score.Overall,
		Clarity:          a.Score.Dimensions[model.DimensionClarity],
		Detail:           a.Score.Dimensions[model.DimensionDetail],
		Emotion:          a.Score.Dimensions[model.DimensionEmotion],
		Visual:           a.Score.Dimensions[model.DimensionVisual],
		Structure:        a.Score.Dimensions[model.DimensionStructure],
		TimeSpentSeconds: a.TimeSpentSeconds,
		Completed:        a.Completed,
	})
}

// ListByUser 按时间倒序返回用户的归档记录
func (r *AttemptArchiveRepository) ListByUser(userID string, limit int) ([]model.AttemptRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var records []model.AttemptRecord
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// GetWeeklyStats 最近 weeks 周的归档聚合
func (r *AttemptArchiveRepository) GetWeeklyStats(userID string, weeks int) ([]model.WeeklyAttemptStats, error) {
	if weeks <= 0 {
		weeks = 4
	}
	var stats []model.WeeklyAttemptStats
	err := r.DB.Model(&model.AttemptRecord{}).
		Select("DATE_FORMAT(created_at, '%x-%v') AS week, "+
			"COUNT(*) AS attempt_count, "+
			"AVG(overall) AS average_score, "+
			"SUM(completed) AS completed_count").
		Where("user_id = ? AND created_at >= DATE_SUB(NOW(), INTERVAL ? WEEK)", userID, weeks).
		Group("week").
		Order("week DESC").
		Scan(&stats).Error
	return stats, err
}
