package service

import (
	"prompt_edu_backend/internal/config"
	"prompt_edu_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAchievementService() *AchievementService {
	return NewAchievementService(config.DefaultVocabulary())
}

func unlockedIDs(achievements []model.Achievement) map[string]bool {
	ids := make(map[string]bool, len(achievements))
	for _, a := range achievements {
		ids[a.ID] = true
	}
	return ids
}

func attemptAt(ts time.Time, overall int, text string) model.Attempt {
	return model.Attempt{
		Timestamp:  ts,
		PromptText: text,
		Score:      model.QualityScore{Overall: overall},
	}
}

func TestFirstAttemptUnlocksFirstSteps(t *testing.T) {
	s := newTestAchievementService()

	attempts := []model.Attempt{attemptAt(time.Now(), 50, "一只小猫")}
	newly, events := s.CheckAchievements("u1", nil, attempts, nil)

	ids := unlockedIDs(newly)
	assert.True(t, ids["first-steps"])
	require.NotEmpty(t, events)
	for _, e := range events {
		assert.Equal(t, model.EventAchievementUnlocked, e.Kind)
		assert.Equal(t, "u1", e.UserID)
	}
}

func TestSkillLevelUnlockBoundary(t *testing.T) {
	s := newTestAchievementService()

	newly, _ := s.CheckAchievements("u1",
		map[model.Dimension]float64{model.DimensionClarity: 79.9}, nil, nil)
	assert.False(t, unlockedIDs(newly)["clear-speaker"])

	newly, _ = s.CheckAchievements("u1",
		map[model.Dimension]float64{model.DimensionClarity: 80}, nil, nil)
	assert.True(t, unlockedIDs(newly)["clear-speaker"])
}

func TestCheckAchievementsIdempotent(t *testing.T) {
	s := newTestAchievementService()
	skills := map[model.Dimension]float64{model.DimensionClarity: 85}

	first, _ := s.CheckAchievements("u1", skills, nil, nil)
	require.True(t, unlockedIDs(first)["clear-speaker"])

	second, events := s.CheckAchievements("u1", skills, nil, nil)
	assert.Empty(t, second)
	assert.Empty(t, events)

	// 已解锁列表仍然保留
	assert.True(t, unlockedIDs(s.Unlocked("u1"))["clear-speaker"])
}

func TestUnlockedIsAppendOnly(t *testing.T) {
	s := newTestAchievementService()

	s.CheckAchievements("u1", map[model.Dimension]float64{model.DimensionClarity: 85}, nil, nil)

	// 技能回落后成就不会被撤销
	newly, _ := s.CheckAchievements("u1", map[model.Dimension]float64{model.DimensionClarity: 40}, nil, nil)
	assert.Empty(t, newly)
	assert.True(t, unlockedIDs(s.Unlocked("u1"))["clear-speaker"])
}

func TestUnknownRequirementKindNeverUnlocks(t *testing.T) {
	s := newTestAchievementService()
	s.RegisterDefinition(model.AchievementDefinition{
		ID: "mystery", Name: "神秘成就",
		Requirements: []model.Requirement{
			{Kind: model.RequirementKind("telepathy"), Count: 1},
		},
	})

	attempts := []model.Attempt{attemptAt(time.Now(), 100, "魔法森林")}
	newly, _ := s.CheckAchievements("u1",
		map[model.Dimension]float64{model.DimensionClarity: 100}, attempts, []string{"t1"})

	assert.False(t, unlockedIDs(newly)["mystery"])
}

func TestEmptyRequirementsNeverUnlock(t *testing.T) {
	s := newTestAchievementService()
	s.RegisterDefinition(model.AchievementDefinition{ID: "freebie", Name: "空条件"})

	newly, _ := s.CheckAchievements("u1",
		map[model.Dimension]float64{model.DimensionClarity: 100}, nil, nil)

	assert.False(t, unlockedIDs(newly)["freebie"])
}

func TestConsecutiveDaysStreak(t *testing.T) {
	s := newTestAchievementService()
	day := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	// 两天连续 + 断档一天：最长 streak 是 2
	attempts := []model.Attempt{
		attemptAt(day, 50, "a"),
		attemptAt(day.AddDate(0, 0, 1), 50, "b"),
		attemptAt(day.AddDate(0, 0, 3), 50, "c"),
	}
	newly, _ := s.CheckAchievements("u1", nil, attempts, nil)
	assert.False(t, unlockedIDs(newly)["three-day-streak"])

	attempts = append(attempts, attemptAt(day.AddDate(0, 0, 4), 50, "d"), attemptAt(day.AddDate(0, 0, 5), 50, "e"))
	newly, _ = s.CheckAchievements("u1", nil, attempts, nil)
	assert.True(t, unlockedIDs(newly)["three-day-streak"])
}

func TestTemplateCompletionAnyTemplate(t *testing.T) {
	s := newTestAchievementService()

	newly, _ := s.CheckAchievements("u1", nil, nil, nil)
	assert.False(t, unlockedIDs(newly)["template-explorer"])

	newly, _ = s.CheckAchievements("u1", nil, nil, []string{"animal-friend"})
	assert.True(t, unlockedIDs(newly)["template-explorer"])
}

func TestPerfectScore(t *testing.T) {
	s := newTestAchievementService()

	attempts := []model.Attempt{attemptAt(time.Now(), 94, "差一点")}
	newly, _ := s.CheckAchievements("u1", nil, attempts, nil)
	assert.False(t, unlockedIDs(newly)["perfectionist"])

	attempts = append(attempts, attemptAt(time.Now(), 95, "完美"))
	newly, _ = s.CheckAchievements("u1", nil, attempts, nil)
	assert.True(t, unlockedIDs(newly)["perfectionist"])
}

func TestColorKeywordAchievement(t *testing.T) {
	s := newTestAchievementService()

	// 同一个颜色用多次只算一种
	attempts := []model.Attempt{
		attemptAt(time.Now(), 50, "红色的花和红色的伞"),
		attemptAt(time.Now(), 50, "蓝色的海"),
	}
	newly, _ := s.CheckAchievements("u1", nil, attempts, nil)
	assert.False(t, unlockedIDs(newly)["little-painter"])

	attempts = append(attempts, attemptAt(time.Now(), 50, "绿色的山、黄色的太阳、紫色的云朵"))
	newly, _ = s.CheckAchievements("u1", nil, attempts, nil)
	assert.True(t, unlockedIDs(newly)["little-painter"])
}

func TestScoreImprovementDelta(t *testing.T) {
	s := newTestAchievementService()

	attempts := []model.Attempt{
		attemptAt(time.Now(), 50, "a"),
		attemptAt(time.Now(), 60, "b"),
	}
	newly, _ := s.CheckAchievements("u1", nil, attempts, nil)
	assert.False(t, unlockedIDs(newly)["progress-star"])

	attempts = append(attempts, attemptAt(time.Now(), 76, "c"))
	newly, _ = s.CheckAchievements("u1", nil, attempts, nil)
	assert.True(t, unlockedIDs(newly)["progress-star"], "a 16 point jump between consecutive attempts")
}

func TestGetProgressFirstRequirement(t *testing.T) {
	s := newTestAchievementService()

	progress := s.GetProgress("u1",
		map[model.Dimension]float64{model.DimensionClarity: 40}, nil, nil)

	var clearSpeaker *model.AchievementProgress
	for i := range progress {
		if progress[i].ID == "clear-speaker" {
			clearSpeaker = &progress[i]
		}
	}
	require.NotNil(t, clearSpeaker)
	assert.InDelta(t, 40.0, clearSpeaker.Current, 1e-9)
	assert.InDelta(t, 80.0, clearSpeaker.Target, 1e-9)
	assert.InDelta(t, 50.0, clearSpeaker.Percentage, 1e-9)
}

func TestGetProgressExcludesUnlocked(t *testing.T) {
	s := newTestAchievementService()
	skills := map[model.Dimension]float64{model.DimensionClarity: 85}

	s.CheckAchievements("u1", skills, nil, nil)
	progress := s.GetProgress("u1", skills, nil, nil)

	for _, p := range progress {
		assert.NotEqual(t, "clear-speaker", p.ID)
	}
}

func TestUnlockedSortedByTime(t *testing.T) {
	s := newTestAchievementService()
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Hour)
	}

	s.CheckAchievements("u1", map[model.Dimension]float64{model.DimensionClarity: 85}, nil, nil)
	s.CheckAchievements("u1", nil, []model.Attempt{attemptAt(base, 50, "a")}, nil)

	unlocked := s.Unlocked("u1")
	require.Len(t, unlocked, 2)
	assert.True(t, !unlocked[1].UnlockedAt.Before(unlocked[0].UnlockedAt))
}
