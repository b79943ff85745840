package model

// LearningStyle 学习风格，按历史平均分最高的维度粗略归类
// 这是沿用来源应用的启发式，不是经过验证的教育学量表
type LearningStyle string

const (
	StyleVisual      LearningStyle = "visual"
	StyleAuditory    LearningStyle = "auditory"
	StyleKinesthetic LearningStyle = "kinesthetic"
	StyleMixed       LearningStyle = "mixed"
)

// UserLevel 用户能力总览，按需从所有模板的 SkillProgress 聚合重算，不单独持久化
// swagger:model UserLevel
type UserLevel struct {
	Overall       float64               `json:"overall"` // 各技能均值
	Skills        map[Dimension]float64 `json:"skills"`
	Confidence    float64               `json:"confidence"` // 0-1
	Engagement    float64               `json:"engagement"` // 0-100
	LearningStyle LearningStyle         `json:"learningStyle"`
	TotalAttempts int                   `json:"totalAttempts"`
}
