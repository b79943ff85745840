package service

import (
	"prompt_edu_backend/internal/config"
	"prompt_edu_backend/internal/model"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScoringService() *ScoringService {
	return NewScoringService(config.EngineConfig{MaxSuggestions: 3}, config.DefaultVocabulary())
}

func TestScoreDeterministic(t *testing.T) {
	s := newTestScoringService()
	text := "一只开心的小兔子正在绿色的草地上跑，然后跳进蓝色的河流"

	first := s.Score(text)
	second := s.Score(text)

	assert.Equal(t, first, second)
}

func TestScoreRichPrompt(t *testing.T) {
	s := newTestScoringService()
	text := "一只开心的小兔子正在绿色的草地上跑，然后跳进蓝色的河流，旁边有一座巨大的水晶城堡，闪着金色的光"

	score := s.Score(text)

	assert.Equal(t, 75, score.Dimensions[model.DimensionClarity])
	assert.Equal(t, 66, score.Dimensions[model.DimensionDetail])
	assert.Equal(t, 52, score.Dimensions[model.DimensionEmotion])
	assert.Equal(t, 86, score.Dimensions[model.DimensionVisual])
	assert.Equal(t, 89, score.Dimensions[model.DimensionStructure])
	assert.Equal(t, 73, score.Overall)

	assert.Contains(t, score.Strengths, model.DimensionVisual)
	assert.Contains(t, score.Strengths, model.DimensionStructure)
	assert.Contains(t, score.ImprovementAreas, model.DimensionEmotion)
}

func TestScoreEmptyText(t *testing.T) {
	s := newTestScoringService()

	score := s.Score("")

	assert.Equal(t, 38, score.Overall)
	assert.Len(t, score.ImprovementAreas, 5)
	assert.Empty(t, score.Strengths)

	// 所有维度都偏低且缺特征，建议被截断到上限 3 条，全部高优先级
	require.Len(t, score.Suggestions, 3)
	for _, sug := range score.Suggestions {
		assert.Equal(t, model.PriorityHigh, sug.Priority)
	}
}

func TestScoreBounded(t *testing.T) {
	s := newTestScoringService()

	inputs := []string{
		"",
		"猫",
		"红色蓝色绿色黄色紫色橙色粉色白色黑色金色银色彩虹七彩",
		strings.Repeat("一只巨大的毛茸茸的开心恐龙在森林里跳舞，然后飞过彩虹，", 20),
	}

	for _, text := range inputs {
		score := s.Score(text)
		assert.GreaterOrEqual(t, score.Overall, 0)
		assert.LessOrEqual(t, score.Overall, 100)
		for _, dim := range model.AllDimensions() {
			assert.GreaterOrEqual(t, score.Dimensions[dim], 0, "dim %s for %q", dim, text)
			assert.LessOrEqual(t, score.Dimensions[dim], 100, "dim %s for %q", dim, text)
		}
		assert.GreaterOrEqual(t, score.Confidence, 0.0)
		assert.LessOrEqual(t, score.Confidence, 1.0)
	}
}

func TestScoreOverallIsWeightedCombination(t *testing.T) {
	weightSum := 0.0
	for _, w := range dimensionWeights {
		weightSum += w
	}
	assert.InDelta(t, 1.0, weightSum, 1e-9)

	s := newTestScoringService()
	score := s.Score("一只勇敢的小恐龙在金色的沙滩上追云朵")

	lo, hi := 100, 0
	for _, dim := range model.AllDimensions() {
		if score.Dimensions[dim] < lo {
			lo = score.Dimensions[dim]
		}
		if score.Dimensions[dim] > hi {
			hi = score.Dimensions[dim]
		}
	}
	assert.GreaterOrEqual(t, score.Overall, lo)
	assert.LessOrEqual(t, score.Overall, hi)
}

func TestSuggestionsOnlyForMissingFeatures(t *testing.T) {
	s := newTestScoringService()

	// 没有颜色词时应得到画面感建议
	score := s.Score("一个东西在那里待着不动的样子看起来还行")
	found := false
	for _, sug := range score.Suggestions {
		if sug.Category == model.DimensionVisual {
			found = true
		}
	}
	assert.True(t, found, "expected a visual suggestion when no color words present")

	// 用上颜色词之后不应再建议加颜色
	score = s.Score("一个红色的东西在那里待着不动的样子看起来还行")
	for _, sug := range score.Suggestions {
		assert.NotEqual(t, model.DimensionVisual, sug.Category)
	}
}

func TestReloadVocabulary(t *testing.T) {
	s := newTestScoringService()
	text := "the cat is crimson colored and sits on grass"

	before := s.Score(text)

	s.ReloadVocabulary(config.VocabularyConfig{
		Colors: []string{"crimson"},
	}.WithDefaults())
	after := s.Score(text)

	assert.Greater(t, after.Dimensions[model.DimensionVisual], before.Dimensions[model.DimensionVisual])
}
