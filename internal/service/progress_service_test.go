package service

import (
	"prompt_edu_backend/internal/config"
	"prompt_edu_backend/internal/model"
	"prompt_edu_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProgressService() *ProgressService {
	return NewProgressService(config.EngineConfig{})
}

func scoreWith(overall int, dims map[model.Dimension]int) model.QualityScore {
	return model.QualityScore{Overall: overall, Dimensions: dims}
}

func TestStartSessionIdempotent(t *testing.T) {
	s := newTestProgressService()

	first := s.StartSession("u1", "animal-friend", "stage-1")
	_, _, err := s.RecordAttempt("u1", "animal-friend", "stage-1", "一只小猫",
		scoreWith(50, map[model.Dimension]int{model.DimensionClarity: 50}), 30, nil)
	require.NoError(t, err)

	second := s.StartSession("u1", "animal-friend", "stage-1")

	assert.Same(t, first, second)
	assert.Len(t, second.Attempts, 1, "restart must not wipe history")
}

func TestRecordAttemptWithoutSession(t *testing.T) {
	s := newTestProgressService()

	_, _, err := s.RecordAttempt("ghost", "animal-friend", "stage-1", "文本",
		scoreWith(80, nil), 10, nil)

	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestSkillSmoothing(t *testing.T) {
	s := newTestProgressService()
	s.StartSession("u1", "animal-friend", "stage-1")

	record := func(raw int) {
		_, _, err := s.RecordAttempt("u1", "animal-friend", "stage-1", "文本",
			scoreWith(raw, map[model.Dimension]int{model.DimensionClarity: raw}), 30, nil)
		require.NoError(t, err)
	}

	// 起始 50，α=0.3：50→62→64.4→73.58
	record(90)
	p, err := s.GetProgress("u1", "animal-friend")
	require.NoError(t, err)
	assert.InDelta(t, 62.0, p.Skills[model.DimensionClarity].CurrentLevel, 1e-9)

	record(70)
	assert.InDelta(t, 64.4, p.Skills[model.DimensionClarity].CurrentLevel, 1e-9)

	record(95)
	assert.InDelta(t, 73.58, p.Skills[model.DimensionClarity].CurrentLevel, 1e-9)
}

func TestSkillSmoothingBounded(t *testing.T) {
	s := newTestProgressService()
	s.StartSession("u1", "animal-friend", "stage-1")

	prev := initialSkillLevel
	for _, raw := range []int{100, 0, 100, 0, 55} {
		_, _, err := s.RecordAttempt("u1", "animal-friend", "stage-1", "文本",
			scoreWith(raw, map[model.Dimension]int{model.DimensionClarity: raw}), 10, nil)
		require.NoError(t, err)

		p, err := s.GetProgress("u1", "animal-friend")
		require.NoError(t, err)
		level := p.Skills[model.DimensionClarity].CurrentLevel

		// 单次变化不超过旧值与观测差距的 30%
		maxShift := 0.3 * absF(float64(raw)-prev)
		assert.LessOrEqual(t, absF(level-prev), maxShift+1e-9)
		assert.GreaterOrEqual(t, level, 0.0)
		assert.LessOrEqual(t, level, 100.0)
		prev = level
	}
}

func TestTrendWindowTrimmed(t *testing.T) {
	s := NewProgressService(config.EngineConfig{TrendWindowSize: 10})
	s.StartSession("u1", "animal-friend", "stage-1")

	for i := 0; i < 15; i++ {
		_, _, err := s.RecordAttempt("u1", "animal-friend", "stage-1", "文本",
			scoreWith(60, map[model.Dimension]int{model.DimensionClarity: 60}), 10, nil)
		require.NoError(t, err)
	}

	p, err := s.GetProgress("u1", "animal-friend")
	require.NoError(t, err)
	assert.Len(t, p.Skills[model.DimensionClarity].TrendWindow, 10)
	assert.Len(t, p.Attempts, 15, "attempt history is append-only, only the trend window is trimmed")
}

func TestSkillImprovedEvent(t *testing.T) {
	s := newTestProgressService()
	s.StartSession("u1", "animal-friend", "stage-1")

	// 起始 50、观测 40：平滑后 47，相比窗口起点 40 提升 7 > 5
	_, events, err := s.RecordAttempt("u1", "animal-friend", "stage-1", "文本",
		scoreWith(40, map[model.Dimension]int{model.DimensionClarity: 40}), 10, nil)
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, model.EventSkillImproved, events[0].Kind)
	assert.Equal(t, model.DimensionClarity, events[0].Skill)
	assert.InDelta(t, 7.0, events[0].Value, 1e-9)
}

func TestStageCompletion(t *testing.T) {
	s := newTestProgressService()
	s.StartSession("u1", "animal-friend", "stage-1")

	attempt, events, err := s.RecordAttempt("u1", "animal-friend", "stage-1", "文本",
		scoreWith(85, map[model.Dimension]int{model.DimensionClarity: 85}), 10, nil)
	require.NoError(t, err)
	assert.True(t, attempt.Completed)

	var stageEvents int
	for _, e := range events {
		if e.Kind == model.EventStageCompleted {
			stageEvents++
			assert.Equal(t, "stage-1", e.StageID)
		}
	}
	assert.Equal(t, 1, stageEvents)

	// 同一关卡再次通过不再发事件，也不会重复记录
	_, events, err = s.RecordAttempt("u1", "animal-friend", "stage-1", "文本",
		scoreWith(90, map[model.Dimension]int{model.DimensionClarity: 90}), 10, nil)
	require.NoError(t, err)
	for _, e := range events {
		assert.NotEqual(t, model.EventStageCompleted, e.Kind)
	}

	p, err := s.GetProgress("u1", "animal-friend")
	require.NoError(t, err)
	assert.Equal(t, []string{"stage-1"}, p.CompletedStages)
}

func TestCompletionRequiresDimensionThresholds(t *testing.T) {
	s := newTestProgressService()
	s.StartSession("u1", "animal-friend", "stage-1")

	criteria := &model.SuccessCriteria{
		MinimumScore:       80,
		RequiredDimensions: []model.Dimension{model.DimensionClarity},
		SkillThresholds:    map[model.Dimension]int{model.DimensionClarity: 90},
	}

	// 总分达标但必选维度不够
	attempt, _, err := s.RecordAttempt("u1", "animal-friend", "stage-1", "文本",
		scoreWith(85, map[model.Dimension]int{model.DimensionClarity: 80}), 10, criteria)
	require.NoError(t, err)
	assert.False(t, attempt.Completed)

	attempt, _, err = s.RecordAttempt("u1", "animal-friend", "stage-1", "文本",
		scoreWith(85, map[model.Dimension]int{model.DimensionClarity: 92}), 10, criteria)
	require.NoError(t, err)
	assert.True(t, attempt.Completed)
}

func TestGetUserLevelAggregation(t *testing.T) {
	s := newTestProgressService()
	s.StartSession("u1", "animal-friend", "stage-1")
	s.StartSession("u1", "magic-castle", "stage-1")

	dims := map[model.Dimension]int{
		model.DimensionVisual:  90,
		model.DimensionClarity: 60,
	}
	_, _, err := s.RecordAttempt("u1", "animal-friend", "stage-1", "文本", scoreWith(75, dims), 20, nil)
	require.NoError(t, err)
	_, _, err = s.RecordAttempt("u1", "magic-castle", "stage-1", "文本", scoreWith(75, dims), 20, nil)
	require.NoError(t, err)

	level := s.GetUserLevel("u1")

	assert.Equal(t, 2, level.TotalAttempts)
	assert.InDelta(t, 62.0, level.Skills[model.DimensionVisual], 1e-9)
	assert.InDelta(t, 53.0, level.Skills[model.DimensionClarity], 1e-9)
	assert.InDelta(t, 57.5, level.Overall, 1e-9)
	assert.InDelta(t, 0.1, level.Confidence, 1e-9)
	assert.InDelta(t, 44.0, level.Engagement, 1e-9)
	assert.Equal(t, model.StyleVisual, level.LearningStyle)
}

func TestGetUserLevelNoHistory(t *testing.T) {
	s := newTestProgressService()

	level := s.GetUserLevel("nobody")

	assert.Zero(t, level.Overall)
	assert.Zero(t, level.TotalAttempts)
	assert.Zero(t, level.Engagement)
	assert.Equal(t, model.StyleMixed, level.LearningStyle)
}

func TestMarkTemplateCompleted(t *testing.T) {
	s := newTestProgressService()

	assert.ErrorIs(t, s.MarkTemplateCompleted("u1", "animal-friend"), util.ErrSessionNotFound)

	s.StartSession("u1", "animal-friend", "stage-1")
	require.NoError(t, s.MarkTemplateCompleted("u1", "animal-friend"))

	assert.Equal(t, []string{"animal-friend"}, s.CompletedTemplates("u1"))
}

func TestAttemptsForUserSortedByTime(t *testing.T) {
	s := newTestProgressService()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	s.StartSession("u1", "animal-friend", "stage-1")
	s.StartSession("u1", "magic-castle", "stage-1")

	for i := 0; i < 3; i++ {
		_, _, err := s.RecordAttempt("u1", "magic-castle", "stage-1", "文本",
			scoreWith(50, map[model.Dimension]int{model.DimensionClarity: 50}), 10, nil)
		require.NoError(t, err)
		_, _, err = s.RecordAttempt("u1", "animal-friend", "stage-1", "文本",
			scoreWith(50, map[model.Dimension]int{model.DimensionClarity: 50}), 10, nil)
		require.NoError(t, err)
	}

	attempts := s.AttemptsForUser("u1")
	require.Len(t, attempts, 6)
	for i := 1; i < len(attempts); i++ {
		assert.False(t, attempts[i].Timestamp.Before(attempts[i-1].Timestamp))
	}
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
