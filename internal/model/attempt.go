package model

import "time"

// SuccessCriteria 关卡通过标准，由外部的模板内容系统提供
// 引擎只消费，不拥有
type SuccessCriteria struct {
	MinimumScore       int               `json:"minimumScore"`
	RequiredDimensions []Dimension       `json:"requiredDimensions"`
	SkillThresholds    map[Dimension]int `json:"skillThresholds"`
}

// Attempt 一次提示词提交记录，创建后不再修改，按 (用户,模板) 只追加
// swagger:model Attempt
type Attempt struct {
	ID               string       `json:"id"`
	StageID          string       `json:"stageId"`
	Timestamp        time.Time    `json:"timestamp"`
	PromptText       string       `json:"promptText"`
	Score            QualityScore `json:"score"`
	TimeSpentSeconds int          `json:"timeSpentSeconds"`
	Completed        bool         `json:"completed"`
}

// Progress 一个 (用户,模板) 学习会话的全部状态，由 ProgressService 独占
// swagger:model Progress
type Progress struct {
	UserID            string                       `json:"userId"`
	TemplateID        string                       `json:"templateId"`
	CurrentStageID    string                       `json:"currentStageId"`
	CompletedStages   []string                     `json:"completedStages"`
	TemplateCompleted bool                         `json:"templateCompleted"`
	Attempts          []Attempt                    `json:"attempts"`
	Skills            map[Dimension]*SkillProgress `json:"skills"`
	TotalTimeSpent    int                          `json:"totalTimeSpent"` // 秒
	StartedAt         time.Time                    `json:"startedAt"`
	UpdatedAt         time.Time                    `json:"updatedAt"`
}

// HasCompletedStage 判断某关卡是否已经标记完成
func (p *Progress) HasCompletedStage(stageID string) bool {
	for _, id := range p.CompletedStages {
		if id == stageID {
			return true
		}
	}
	return false
}
