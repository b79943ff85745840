package model

import "time"

// SkillProgress 单个技能维度的熟练度，只由 ProgressService.RecordAttempt
// 通过指数平滑更新，不会直接用单次原始分覆盖
// swagger:model SkillProgress
type SkillProgress struct {
	Skill           Dimension `json:"skill"`
	CurrentLevel    float64   `json:"currentLevel"` // 0-100
	Improvement     float64   `json:"improvement"`  // 相对趋势窗口最早一次原始分的变化
	PracticeCount   int       `json:"practiceCount"`
	LastPracticedAt time.Time `json:"lastPracticedAt"`
	TrendWindow     []int     `json:"trendWindow"` // 最近 N 次原始分
}
