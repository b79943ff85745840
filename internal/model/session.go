package model

// EnergyLevel 本次学习会话的精力状态，由调用方申报
type EnergyLevel string

const (
	EnergyHigh   EnergyLevel = "high"
	EnergyMedium EnergyLevel = "medium"
	EnergyLow    EnergyLevel = "low"
)

// SessionContext 调用方提供的会话情境信号，只被自适应引导使用
// swagger:model SessionContext
type SessionContext struct {
	TimeOfDay           string      `json:"timeOfDay"` // morning / afternoon / evening
	SessionLength       int         `json:"sessionLength"` // 计划时长（分钟）
	EnergyLevel         EnergyLevel `json:"energyLevel"`
	PreviousPerformance float64     `json:"previousPerformance"` // 上次会话平均分
	ParentPresence      bool        `json:"parentPresence"`
}

// SessionAnalytics 会话级派生信号，每次重新生成引导时整体替换，不进入持久历史
// swagger:model SessionAnalytics
type SessionAnalytics struct {
	PerformanceTrend    float64               `json:"performanceTrend"` // OLS 斜率，限幅 [-10,10]
	SkillTrends         map[Dimension]float64 `json:"skillTrends"`
	EngagementLevel     float64               `json:"engagementLevel"`  // 0-100
	FrustrationLevel    float64               `json:"frustrationLevel"` // 0-100
	OptimalDifficulty   float64               `json:"optimalDifficulty"`
	RecommendedPace     string                `json:"recommendedPace"` // slow / steady / fast
	AdaptationTriggered bool                  `json:"adaptationTriggered"`
}

type HintFrequency string

const (
	HintFrequent HintFrequency = "frequent"
	HintNormal   HintFrequency = "normal"
	HintMinimal  HintFrequency = "minimal"
)

type ExampleComplexity string

const (
	ExampleSimple   ExampleComplexity = "simple"
	ExampleModerate ExampleComplexity = "moderate"
	ExampleComplex  ExampleComplexity = "complex"
)

// DifficultyConfig 给下一关卡的难度与辅导策略配置
// swagger:model DifficultyConfig
type DifficultyConfig struct {
	TargetDifficulty  float64           `json:"targetDifficulty"`
	HintFrequency     HintFrequency     `json:"hintFrequency"`
	ExampleComplexity ExampleComplexity `json:"exampleComplexity"`
	EvaluationStrict  float64           `json:"evaluationStrict"` // 0.4-0.9
}

// AdaptedUserLevel 结合会话信号修正后的能力视图，只读派生值
type AdaptedUserLevel struct {
	Overall float64               `json:"overall"`
	Skills  map[Dimension]float64 `json:"skills"`
}

// LearningPreferences 给辅导层的风格建议
type LearningPreferences struct {
	Style              LearningStyle `json:"style"`
	SessionLength      string        `json:"sessionLength"` // short / standard
	EncouragementLevel string        `json:"encouragementLevel"` // high / normal
}

// GuidanceResult GenerateGuidance 的完整返回值
// swagger:model GuidanceResult
type GuidanceResult struct {
	AdaptedUserLevel    AdaptedUserLevel    `json:"adaptedUserLevel"`
	DifficultyConfig    DifficultyConfig    `json:"difficultyConfig"`
	LearningPreferences LearningPreferences `json:"learningPreferences"`
	Analytics           SessionAnalytics    `json:"analytics"`
}
