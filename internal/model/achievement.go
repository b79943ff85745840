package model

import "time"

// RequirementKind 成就条件的封闭类型集合
// 未知类型在评估时按 false 处理（宁可不解锁，不让会话崩溃）
type RequirementKind string

const (
	RequirementSkillLevel         RequirementKind = "skill_level"
	RequirementTotalAttempts      RequirementKind = "total_attempts"
	RequirementConsecutiveDays    RequirementKind = "consecutive_days"
	RequirementWeeklyAttempts     RequirementKind = "weekly_attempts"
	RequirementScoreImprovement   RequirementKind = "score_improvement"
	RequirementConsistentScores   RequirementKind = "consistent_scores"
	RequirementSessionImprovement RequirementKind = "session_improvement"
	RequirementTemplateCompletion RequirementKind = "template_completion"
	RequirementPerfectScore       RequirementKind = "perfect_score"
	RequirementCreativeKeywords   RequirementKind = "creative_keywords"
	RequirementColorKeywords      RequirementKind = "color_keywords"
	RequirementTimePracticed      RequirementKind = "time_practiced"
)

// TemplateAny template_completion 条件的哨兵值：完成任意一个模板即可
const TemplateAny = "any"

// Requirement 成就定义里的单个原子条件
// 不同类型只使用自己关心的字段，其余留零值
type Requirement struct {
	Kind      RequirementKind `json:"kind"`
	Skill     Dimension       `json:"skill,omitempty"`
	Threshold float64         `json:"threshold,omitempty"`
	Count     int             `json:"count,omitempty"`
	MinScore  int             `json:"minScore,omitempty"`
	Templates []string        `json:"templates,omitempty"`
}

type AchievementRarity string

const (
	RarityCommon    AchievementRarity = "common"
	RarityRare      AchievementRarity = "rare"
	RarityEpic      AchievementRarity = "epic"
	RarityLegendary AchievementRarity = "legendary"
)

// AchievementDefinition 声明式成就定义：全部条件同时满足才解锁
// swagger:model AchievementDefinition
type AchievementDefinition struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Icon         string            `json:"icon"`
	Rarity       AchievementRarity `json:"rarity"`
	Requirements []Requirement     `json:"requirements"`
}

// Achievement 已解锁实例，按用户只追加，解锁后即使指标回落也不撤销
// swagger:model Achievement
type Achievement struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

// AchievementProgress 未解锁成就的进度
// 只按第一个条件计算，这是沿用来源实现的简化（多条件成就只展示主条件进度）
// swagger:model AchievementProgress
type AchievementProgress struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Current    float64 `json:"current"`
	Target     float64 `json:"target"`
	Percentage float64 `json:"percentage"` // 0-100
}
