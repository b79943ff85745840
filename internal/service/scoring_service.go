package service

import (
	"math"
	"prompt_edu_backend/internal/config"
	"prompt_edu_backend/internal/model"
	"sort"
	"strings"
	"sync"
)

// 维度权重是评分不变量：权重之和为 1，Overall 是维度分的凸组合
var dimensionWeights = map[model.Dimension]float64{
	model.DimensionClarity:   0.25,
	model.DimensionDetail:    0.20,
	model.DimensionEmotion:   0.20,
	model.DimensionVisual:    0.20,
	model.DimensionStructure: 0.15,
}

// 维度基础分，所有加减规则在此之上叠加
var dimensionBase = map[model.Dimension]int{
	model.DimensionClarity:   50,
	model.DimensionDetail:    40,
	model.DimensionEmotion:   40,
	model.DimensionVisual:    40,
	model.DimensionStructure: 45,
}

const (
	improvementThreshold = 60 // 低于此分进入待改进列表
	strengthThreshold    = 80 // 达到此分进入优势列表
	suggestionThreshold  = 70 // 低于此分才考虑生成建议
	idealLengthMin       = 10
	idealLengthMax       = 200
)

// ScoringService 提示词质量评分器
// Score 是纯函数：同样的文本永远得到同样的结果，任何输入都不报错
type ScoringService struct {
	mu             sync.RWMutex
	vocab          config.VocabularyConfig
	maxSuggestions int
}

func NewScoringService(cfg config.EngineConfig, vocab config.VocabularyConfig) *ScoringService {
	maxSuggestions := cfg.MaxSuggestions
	if maxSuggestions <= 0 {
		maxSuggestions = 3
	}
	return &ScoringService{
		vocab:          vocab,
		maxSuggestions: maxSuggestions,
	}
}

// ReloadVocabulary 热替换词表（配置热更新时调用）
func (s *ScoringService) ReloadVocabulary(vocab config.VocabularyConfig) {
	s.mu.Lock()
	s.vocab = vocab
	s.mu.Unlock()
}

// Score 对一段提示词文本做五维评分
// 空文本/超长文本不报错，只会得到一个有效的低分
func (s *ScoringService) Score(text string) *model.QualityScore {
	s.mu.RLock()
	vocab := s.vocab
	s.mu.RUnlock()

	length := len([]rune(text))

	colorHits := countPresent(text, vocab.Colors)
	sizeHits := countPresent(text, vocab.Sizes)
	materialHits := countPresent(text, vocab.Materials)
	emotionHits := countPresent(text, vocab.Emotions)
	actionHits := countPresent(text, vocab.ActionVerbs)
	sceneHits := countPresent(text, vocab.SceneNouns)
	connectiveHits := countPresent(text, vocab.Connectives)

	dims := map[model.Dimension]int{}

	// 清晰度：长度区间 + 连接词
	clarity := dimensionBase[model.DimensionClarity]
	switch {
	case length < 5:
		clarity -= 20
	case length >= idealLengthMin && length <= idealLengthMax:
		clarity += 15
	}
	if length > 250 {
		clarity -= 10
	}
	clarity += capAt(connectiveHits*5, 10)
	dims[model.DimensionClarity] = clamp(clarity, 0, 100)

	// 细节：大小 + 材质 + 足够的篇幅
	detail := dimensionBase[model.DimensionDetail]
	detail += capAt(sizeHits*8, 16)
	detail += capAt(materialHits*8, 16)
	if length >= 30 {
		detail += 10
	}
	dims[model.DimensionDetail] = clamp(detail, 0, 100)

	// 情感：情绪词
	emotion := dimensionBase[model.DimensionEmotion]
	emotion += capAt(emotionHits*12, 36)
	dims[model.DimensionEmotion] = clamp(emotion, 0, 100)

	// 画面感：颜色 + 场景
	visual := dimensionBase[model.DimensionVisual]
	visual += capAt(colorHits*10, 30)
	visual += capAt(sceneHits*8, 16)
	dims[model.DimensionVisual] = clamp(visual, 0, 100)

	// 结构：连接词 + 动词 + 理想长度
	structure := dimensionBase[model.DimensionStructure]
	structure += capAt(connectiveHits*12, 24)
	structure += capAt(actionHits*6, 12)
	if length >= idealLengthMin && length <= idealLengthMax {
		structure += 8
	}
	dims[model.DimensionStructure] = clamp(structure, 0, 100)

	overall := 0.0
	for _, d := range model.AllDimensions() {
		overall += dimensionWeights[d] * float64(dims[d])
	}

	var improvements, strengths []model.Dimension
	for _, d := range model.AllDimensions() {
		if dims[d] < improvementThreshold {
			improvements = append(improvements, d)
		}
		if dims[d] >= strengthThreshold {
			strengths = append(strengths, d)
		}
	}

	score := &model.QualityScore{
		Overall:          int(math.Round(overall)),
		Dimensions:       dims,
		ImprovementAreas: improvements,
		Strengths:        strengths,
		Confidence:       confidence(length, dims),
	}
	score.Suggestions = s.buildSuggestions(dims, length, colorHits, sizeHits+materialHits, emotionHits, connectiveHits)
	return score
}

// confidence 综合长度因子和维度一致性（方差越小越可信）
func confidence(length int, dims map[model.Dimension]int) float64 {
	lengthFactor := math.Min(1, float64(length)/50)

	mean := 0.0
	for _, d := range model.AllDimensions() {
		mean += float64(dims[d])
	}
	mean /= 5

	variance := 0.0
	for _, d := range model.AllDimensions() {
		diff := float64(dims[d]) - mean
		variance += diff * diff
	}
	variance /= 5

	// 0-100 取值下方差最大 2500
	consistency := 1 - variance/2500
	if consistency < 0 {
		consistency = 0
	}

	c := 0.4*lengthFactor + 0.6*consistency
	return math.Min(1, math.Max(0, c))
}

// buildSuggestions 针对低于阈值且缺少对应结构特征的维度生成建议，
// 按优先级排序后截断
func (s *ScoringService) buildSuggestions(dims map[model.Dimension]int, length, colorHits, detailHits, emotionHits, connectiveHits int) []model.ScoreSuggestion {
	var out []model.ScoreSuggestion

	add := func(dim model.Dimension, text, explanation, example string) {
		priority := model.PriorityMedium
		if dims[dim] < 50 {
			priority = model.PriorityHigh
		}
		out = append(out, model.ScoreSuggestion{
			Priority:      priority,
			Category:      dim,
			SuggestedText: text,
			Explanation:   explanation,
			Example:       example,
		})
	}

	if dims[model.DimensionClarity] < suggestionThreshold && length < idealLengthMin {
		add(model.DimensionClarity,
			"把想法写得更具体一些",
			"太短的描述 AI 很难理解你想要什么",
			"比如把\"一只猫\"写成\"一只趴在窗台上晒太阳的橘猫\"")
	}
	if dims[model.DimensionVisual] < suggestionThreshold && colorHits == 0 {
		add(model.DimensionVisual,
			"加上一两个颜色词",
			"颜色能让画面一下子生动起来",
			"比如\"金色的麦田\"、\"蓝色的海浪\"")
	}
	if dims[model.DimensionDetail] < suggestionThreshold && detailHits == 0 {
		add(model.DimensionDetail,
			"描述一下大小或者材质",
			"细节越多，画出来的东西越像你想象的样子",
			"比如\"巨大的水晶城堡\"、\"毛茸茸的小熊\"")
	}
	if dims[model.DimensionEmotion] < suggestionThreshold && emotionHits == 0 {
		add(model.DimensionEmotion,
			"说说画面里的心情",
			"有情感的画面更打动人",
			"比如\"开心地跳舞\"、\"温暖的阳光\"")
	}
	if dims[model.DimensionStructure] < suggestionThreshold && connectiveHits == 0 {
		add(model.DimensionStructure,
			"用\"然后\"\"旁边\"这样的词把画面串起来",
			"连接词能帮 AI 理解画面里东西的位置和顺序",
			"比如\"小兔子在草地上跑，旁边有一条小河\"")
	}

	// 稳定排序保证同一输入输出完全一致
	rank := map[model.SuggestionPriority]int{
		model.PriorityHigh:   0,
		model.PriorityMedium: 1,
		model.PriorityLow:    2,
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rank[out[i].Priority] < rank[out[j].Priority]
	})

	if len(out) > s.maxSuggestions {
		out = out[:s.maxSuggestions]
	}
	return out
}

// countPresent 统计文本中出现了词表里的多少个不同词
func countPresent(text string, words []string) int {
	if text == "" {
		return 0
	}
	count := 0
	for _, w := range words {
		if w != "" && strings.Contains(text, w) {
			count++
		}
	}
	return count
}

func capAt(v, max int) int {
	if v > max {
		return max
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
