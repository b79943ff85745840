package model

import "time"

// AttemptRecord 尝试记录的写入型归档（MySQL）
// 只用于离线报表：引擎运行状态始终在内存里，进程重启会丢失历史，
// 归档不会被读回作为引擎状态
// swagger:model AttemptRecord
type AttemptRecord struct {
	BaseModel
	AttemptID        string `gorm:"size:36;uniqueIndex" json:"attemptId"`
	UserID           string `gorm:"size:64;index" json:"userId"`
	TemplateID       string `gorm:"size:64;index" json:"templateId"`
	StageID          string `gorm:"size:64" json:"stageId"`
	PromptLength     int    `json:"promptLength"`
	Overall          int    `json:"overall"`
	Clarity          int    `json:"clarity"`
	Detail           int    `json:"detail"`
	Emotion          int    `json:"emotion"`
	Visual           int    `json:"visual"`
	Structure        int    `json:"structure"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
	Completed        bool   `json:"completed"`
}

func (AttemptRecord) TableName() string {
	return "attempt_records"
}

// WeeklyAttemptStats 周维度的归档聚合数据
type WeeklyAttemptStats struct {
	Week           string  `json:"week"` // 格式 2006-01
	AttemptCount   int     `json:"attemptCount"`
	AverageScore   float64 `json:"averageScore"`
	CompletedCount int     `json:"completedCount"`
}

// ProgressReport 导出到对象存储的进度快照
// swagger:model ProgressReport
type ProgressReport struct {
	UserID       string              `json:"userId"`
	GeneratedAt  time.Time           `json:"generatedAt"`
	UserLevel    UserLevel           `json:"userLevel"`
	Achievements []Achievement       `json:"achievements"`
	Sessions     []ProgressSummary   `json:"sessions"`
}

// ProgressSummary 报告里单个学习会话的摘要
type ProgressSummary struct {
	TemplateID        string   `json:"templateId"`
	AttemptCount      int      `json:"attemptCount"`
	CompletedStages   []string `json:"completedStages"`
	TemplateCompleted bool     `json:"templateCompleted"`
	TotalTimeSpent    int      `json:"totalTimeSpent"`
}
