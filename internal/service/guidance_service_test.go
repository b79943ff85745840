package service

import (
	"prompt_edu_backend/internal/config"
	"prompt_edu_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGuidanceService() *GuidanceService {
	return NewGuidanceService(config.EngineConfig{PerformanceWindow: 5})
}

func attemptWith(overall int, completed bool, timeSpent int) model.Attempt {
	return model.Attempt{
		Score:            model.QualityScore{Overall: overall},
		Completed:        completed,
		TimeSpentSeconds: timeSpent,
	}
}

func TestFrustrationAfterConsecutiveFailures(t *testing.T) {
	s := newTestGuidanceService()

	attempts := []model.Attempt{
		attemptWith(50, false, 60),
		attemptWith(50, false, 60),
		attemptWith(50, false, 60),
	}

	result := s.GenerateGuidance("u1", model.SessionContext{}, nil, attempts)

	assert.InDelta(t, 60.0, result.Analytics.FrustrationLevel, 1e-9)
	assert.Equal(t, model.HintFrequent, result.DifficultyConfig.HintFrequency)
	assert.Equal(t, "slow", result.Analytics.RecommendedPace)
	assert.Equal(t, "high", result.LearningPreferences.EncouragementLevel)
	assert.InDelta(t, 0.5, result.DifficultyConfig.EvaluationStrict, 1e-9)

	// 平均 50 分、完成率 0：难度下调并托底
	assert.InDelta(t, 40.0, result.DifficultyConfig.TargetDifficulty, 1e-9)
	assert.Equal(t, model.ExampleSimple, result.DifficultyConfig.ExampleComplexity)
}

func TestPerformanceTrendClamped(t *testing.T) {
	s := newTestGuidanceService()

	falling := []model.Attempt{
		attemptWith(90, true, 60),
		attemptWith(70, true, 60),
		attemptWith(50, true, 60),
		attemptWith(30, true, 60),
		attemptWith(10, true, 60),
	}
	result := s.GenerateGuidance("u-down", model.SessionContext{}, nil, falling)
	assert.InDelta(t, -10.0, result.Analytics.PerformanceTrend, 1e-9)

	rising := []model.Attempt{
		attemptWith(10, true, 60),
		attemptWith(30, true, 60),
		attemptWith(50, true, 60),
		attemptWith(70, true, 60),
		attemptWith(90, true, 60),
	}
	result = s.GenerateGuidance("u-up", model.SessionContext{}, nil, rising)
	assert.InDelta(t, 10.0, result.Analytics.PerformanceTrend, 1e-9)
}

func TestOptimalDifficultyRaisedForStrongPerformance(t *testing.T) {
	s := newTestGuidanceService()

	var attempts []model.Attempt
	for i := 0; i < 5; i++ {
		attempts = append(attempts, attemptWith(90, true, 60))
	}

	result := s.GenerateGuidance("u1", model.SessionContext{}, nil, attempts)

	// 平均 90、完成率 1.0：上调但封顶 90
	assert.InDelta(t, 90.0, result.Analytics.OptimalDifficulty, 1e-9)
	assert.Equal(t, model.ExampleComplex, result.DifficultyConfig.ExampleComplexity)
}

func TestDifficultySmoothedBetweenCalls(t *testing.T) {
	s := newTestGuidanceService()

	// 第一次没有历史：中性难度 50
	result := s.GenerateGuidance("u1", model.SessionContext{}, nil, nil)
	assert.InDelta(t, 50.0, result.Analytics.OptimalDifficulty, 1e-9)

	var attempts []model.Attempt
	for i := 0; i < 5; i++ {
		attempts = append(attempts, attemptWith(90, true, 60))
	}

	// 第二次算出 90，但与上次的 50 做 70/30 平滑
	result = s.GenerateGuidance("u1", model.SessionContext{}, nil, attempts)
	assert.InDelta(t, 78.0, result.Analytics.OptimalDifficulty, 1e-9)
}

func TestEvaluationStrictBounds(t *testing.T) {
	s := newTestGuidanceService()

	rising := []model.Attempt{
		attemptWith(50, true, 60),
		attemptWith(60, true, 60),
		attemptWith(70, true, 60),
		attemptWith(80, true, 60),
		attemptWith(90, true, 60),
	}
	result := s.GenerateGuidance("u1", model.SessionContext{}, nil, rising)
	assert.InDelta(t, 0.8, result.DifficultyConfig.EvaluationStrict, 1e-9)

	// 任意输入下严格度都在 [0.4, 0.9]
	scenarios := [][]model.Attempt{
		nil,
		{attemptWith(0, false, 5), attemptWith(0, false, 5), attemptWith(0, false, 5), attemptWith(0, false, 5)},
		rising,
	}
	for _, attempts := range scenarios {
		r := s.GenerateGuidance("u-any", model.SessionContext{}, nil, attempts)
		assert.GreaterOrEqual(t, r.DifficultyConfig.EvaluationStrict, 0.4)
		assert.LessOrEqual(t, r.DifficultyConfig.EvaluationStrict, 0.9)
	}
}

func TestHintMinimalForEngagedImprovingChild(t *testing.T) {
	s := newTestGuidanceService()

	attempts := []model.Attempt{
		attemptWith(60, true, 150),
		attemptWith(70, true, 150),
		attemptWith(80, true, 150),
	}
	sessionCtx := model.SessionContext{
		EnergyLevel:    model.EnergyHigh,
		ParentPresence: true,
	}

	result := s.GenerateGuidance("u1", sessionCtx, nil, attempts)

	assert.Greater(t, result.Analytics.EngagementLevel, 80.0)
	assert.Equal(t, model.HintMinimal, result.DifficultyConfig.HintFrequency)
	assert.Equal(t, "fast", result.Analytics.RecommendedPace)
}

func TestAdaptationTriggered(t *testing.T) {
	s := newTestGuidanceService()

	attempts := []model.Attempt{
		attemptWith(70, true, 60),
		attemptWith(50, false, 60),
		attemptWith(50, false, 60),
	}
	result := s.GenerateGuidance("u1", model.SessionContext{}, nil, attempts)
	assert.True(t, result.Analytics.AdaptationTriggered)

	stable := []model.Attempt{
		attemptWith(70, true, 60),
		attemptWith(72, true, 60),
		attemptWith(71, true, 60),
	}
	result = s.GenerateGuidance("u2", model.SessionContext{}, nil, stable)
	assert.False(t, result.Analytics.AdaptationTriggered)
}

func TestGuidanceDoesNotMutateInputs(t *testing.T) {
	s := newTestGuidanceService()

	baseline := &model.UserLevel{
		Overall:       65,
		Skills:        map[model.Dimension]float64{model.DimensionClarity: 65},
		Confidence:    0.5,
		LearningStyle: model.StyleVisual,
	}
	attempts := []model.Attempt{attemptWith(70, true, 60)}

	result := s.GenerateGuidance("u1", model.SessionContext{}, baseline, attempts)

	require.NotNil(t, result)
	assert.Equal(t, model.StyleVisual, result.LearningPreferences.Style)
	assert.InDelta(t, 65.0, baseline.Skills[model.DimensionClarity], 1e-9)
	assert.InDelta(t, 70.0, float64(attempts[0].Score.Overall), 1e-9)

	// 带基线的维度在 [0,100] 内
	for _, dim := range model.AllDimensions() {
		v := result.AdaptedUserLevel.Skills[dim]
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestEmptyHistoryNeutralGuidance(t *testing.T) {
	s := newTestGuidanceService()

	result := s.GenerateGuidance("fresh", model.SessionContext{}, nil, nil)

	assert.InDelta(t, 0.0, result.Analytics.PerformanceTrend, 1e-9)
	assert.InDelta(t, 0.0, result.Analytics.FrustrationLevel, 1e-9)
	assert.InDelta(t, 50.0, result.Analytics.OptimalDifficulty, 1e-9)
	assert.Equal(t, model.HintNormal, result.DifficultyConfig.HintFrequency)
	assert.Equal(t, "steady", result.Analytics.RecommendedPace)
}
