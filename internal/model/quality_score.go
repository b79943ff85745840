package model

// Dimension 提示词质量评分的五个维度
type Dimension string

const (
	DimensionClarity   Dimension = "clarity"   // 清晰度
	DimensionDetail    Dimension = "detail"    // 细节
	DimensionEmotion   Dimension = "emotion"   // 情感
	DimensionVisual    Dimension = "visual"    // 画面感
	DimensionStructure Dimension = "structure" // 结构
)

// AllDimensions 返回固定顺序的维度列表，评分和聚合都按此顺序遍历，保证结果确定
func AllDimensions() []Dimension {
	return []Dimension{
		DimensionClarity,
		DimensionDetail,
		DimensionEmotion,
		DimensionVisual,
		DimensionStructure,
	}
}

type SuggestionPriority string

const (
	PriorityHigh   SuggestionPriority = "High"
	PriorityMedium SuggestionPriority = "Medium"
	PriorityLow    SuggestionPriority = "Low"
)

// QualityScore 一次提示词评分的完整结果
// Overall 是五个维度的固定加权和（权重之和为 1），每次调用重新生成，不可变
// swagger:model QualityScore
type QualityScore struct {
	Overall          int               `json:"overall"`    // 0-100
	Dimensions       map[Dimension]int `json:"dimensions"` // 每个维度 0-100
	ImprovementAreas []Dimension       `json:"improvementAreas"`
	Strengths        []Dimension       `json:"strengths"`
	Confidence       float64           `json:"confidence"` // 0-1
	Suggestions      []ScoreSuggestion `json:"suggestions"`
}

// ScoreSuggestion 针对某个薄弱维度的改进建议
type ScoreSuggestion struct {
	Priority      SuggestionPriority `json:"priority"`
	Category      Dimension          `json:"category"`
	SuggestedText string             `json:"suggestedText"`
	Explanation   string             `json:"explanation"`
	Example       string             `json:"example"`
}
