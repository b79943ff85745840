package model

import "time"

// EventKind 引擎对外通知的事件类型
type EventKind string

const (
	EventStageCompleted      EventKind = "stage-completed"
	EventSkillImproved       EventKind = "skill-improved"
	EventAchievementUnlocked EventKind = "achievement-unlocked"
)

// EngineEvent 引擎产生的离散通知
// 以显式返回值的形式交给调用方，引擎内部不做任何监听器注册
// swagger:model EngineEvent
type EngineEvent struct {
	Kind          EventKind `json:"kind"`
	UserID        string    `json:"userId"`
	TemplateID    string    `json:"templateId,omitempty"`
	StageID       string    `json:"stageId,omitempty"`
	Skill         Dimension `json:"skill,omitempty"`
	AchievementID string    `json:"achievementId,omitempty"`
	Value         float64   `json:"value,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}
