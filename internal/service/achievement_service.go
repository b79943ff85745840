package service

import (
	"prompt_edu_backend/internal/config"
	"prompt_edu_backend/internal/model"
	"prompt_edu_backend/internal/util"
	"sort"
	"strings"
	"sync"
	"time"
)

// evalInput 成就条件评估的全部输入，评估函数都是纯函数
type evalInput struct {
	Skills             map[model.Dimension]float64
	Attempts           []model.Attempt
	CompletedTemplates []string
}

type requirementEvaluator func(req model.Requirement, in evalInput) bool

// AchievementService 声明式成就引擎
// 条件类型是封闭集合，每个类型对应查找表里的一个评估函数；
// 未注册的类型一律按不满足处理（宁可不解锁，不崩溃）。
// 引擎只拥有每个用户的"已解锁"集合：只追加，永不撤销。
type AchievementService struct {
	mu          sync.Mutex
	definitions []model.AchievementDefinition
	unlocked    map[string]map[string]model.Achievement // userID -> achievementID
	evaluators  map[model.RequirementKind]requirementEvaluator
	vocab       config.VocabularyConfig
	now         func() time.Time
}

func NewAchievementService(vocab config.VocabularyConfig) *AchievementService {
	s := &AchievementService{
		definitions: DefaultAchievementDefinitions(),
		unlocked:    make(map[string]map[string]model.Achievement),
		vocab:       vocab,
		now:         time.Now,
	}
	s.evaluators = map[model.RequirementKind]requirementEvaluator{
		model.RequirementSkillLevel:         evalSkillLevel,
		model.RequirementTotalAttempts:      evalTotalAttempts,
		model.RequirementConsecutiveDays:    evalConsecutiveDays,
		model.RequirementWeeklyAttempts:     s.evalWeeklyAttempts,
		model.RequirementScoreImprovement:   evalScoreImprovement,
		model.RequirementConsistentScores:   evalConsistentScores,
		model.RequirementSessionImprovement: evalSessionImprovement,
		model.RequirementTemplateCompletion: evalTemplateCompletion,
		model.RequirementPerfectScore:       evalPerfectScore,
		model.RequirementCreativeKeywords:   s.evalCreativeKeywords,
		model.RequirementColorKeywords:      s.evalColorKeywords,
		model.RequirementTimePracticed:      evalTimePracticed,
	}
	return s
}

// RegisterDefinition 追加一条成就定义（内置目录之外的扩展）
func (s *AchievementService) RegisterDefinition(def model.AchievementDefinition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.definitions = append(s.definitions, def)
}

// Definitions 返回全部已注册定义
func (s *AchievementService) Definitions() []model.AchievementDefinition {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.AchievementDefinition, len(s.definitions))
	copy(out, s.definitions)
	return out
}

// CheckAchievements 评估全部定义，返回本次新解锁的成就和对应事件
// 已解锁的 ID 永远不会重复返回：输入不变时第二次调用返回空
func (s *AchievementService) CheckAchievements(
	userID string,
	skills map[model.Dimension]float64,
	attempts []model.Attempt,
	completedTemplates []string,
) ([]model.Achievement, []model.EngineEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userUnlocked, ok := s.unlocked[userID]
	if !ok {
		userUnlocked = make(map[string]model.Achievement)
		s.unlocked[userID] = userUnlocked
	}

	in := evalInput{
		Skills:             skills,
		Attempts:           attempts,
		CompletedTemplates: completedTemplates,
	}

	var newly []model.Achievement
	var events []model.EngineEvent

	for _, def := range s.definitions {
		if _, done := userUnlocked[def.ID]; done {
			continue
		}
		if !s.satisfiesAll(def, in) {
			continue
		}

		unlocked := model.Achievement{ID: def.ID, UnlockedAt: s.now()}
		userUnlocked[def.ID] = unlocked
		newly = append(newly, unlocked)
		events = append(events, model.EngineEvent{
			Kind:          model.EventAchievementUnlocked,
			UserID:        userID,
			AchievementID: def.ID,
			OccurredAt:    unlocked.UnlockedAt,
		})
	}

	return newly, events
}

// satisfiesAll 定义解锁当且仅当列表里每个条件都成立
func (s *AchievementService) satisfiesAll(def model.AchievementDefinition, in evalInput) bool {
	if len(def.Requirements) == 0 {
		return false
	}
	for _, req := range def.Requirements {
		eval, known := s.evaluators[req.Kind]
		if !known {
			// 未知条件类型按未满足处理
			return false
		}
		if !eval(req, in) {
			return false
		}
	}
	return true
}

// Unlocked 返回用户已解锁的成就，按解锁时间排序
func (s *AchievementService) Unlocked(userID string) []model.Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Achievement
	for _, a := range s.unlocked[userID] {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UnlockedAt.Equal(out[j].UnlockedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UnlockedAt.Before(out[j].UnlockedAt)
	})
	return out
}

// RarityOf 返回成就定义的稀有度（指标上报用）
func (s *AchievementService) RarityOf(id string) model.AchievementRarity {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, def := range s.definitions {
		if def.ID == id {
			return def.Rarity
		}
	}
	return model.RarityCommon
}

// GetProgress 对每个尚未解锁的定义返回进度
// 只按第一个条件计算——多条件成就只展示主条件进度（来源实现的已知简化）
func (s *AchievementService) GetProgress(
	userID string,
	skills map[model.Dimension]float64,
	attempts []model.Attempt,
	completedTemplates []string,
) []model.AchievementProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := evalInput{
		Skills:             skills,
		Attempts:           attempts,
		CompletedTemplates: completedTemplates,
	}

	var out []model.AchievementProgress
	for _, def := range s.definitions {
		if _, done := s.unlocked[userID][def.ID]; done {
			continue
		}
		if len(def.Requirements) == 0 {
			continue
		}
		current, target := s.requirementProgress(def.Requirements[0], in)
		percentage := 100.0
		if target > 0 {
			percentage = current / target * 100
			if percentage > 100 {
				percentage = 100
			}
		}
		out = append(out, model.AchievementProgress{
			ID:         def.ID,
			Name:       def.Name,
			Current:    current,
			Target:     target,
			Percentage: percentage,
		})
	}
	return out
}

func (s *AchievementService) requirementProgress(req model.Requirement, in evalInput) (current, target float64) {
	switch req.Kind {
	case model.RequirementSkillLevel:
		return in.Skills[req.Skill], req.Threshold
	case model.RequirementTotalAttempts:
		return float64(len(in.Attempts)), float64(req.Count)
	case model.RequirementConsecutiveDays:
		return float64(longestDailyStreak(in.Attempts)), float64(req.Count)
	case model.RequirementWeeklyAttempts:
		return float64(attemptsWithin(in.Attempts, 7*24*time.Hour, s.now())), float64(req.Count)
	case model.RequirementScoreImprovement:
		return largestSingleStepDelta(in.Attempts), req.Threshold
	case model.RequirementConsistentScores:
		return float64(trailingAtOrAbove(in.Attempts, req.MinScore)), float64(req.Count)
	case model.RequirementSessionImprovement:
		return sessionDelta(in.Attempts), req.Threshold
	case model.RequirementTemplateCompletion:
		if len(req.Templates) == 1 && req.Templates[0] == model.TemplateAny {
			return float64(len(in.CompletedTemplates)), 1
		}
		return float64(countCompleted(in.CompletedTemplates, req.Templates)), float64(len(req.Templates))
	case model.RequirementPerfectScore:
		return bestOverall(in.Attempts), req.Threshold
	case model.RequirementCreativeKeywords:
		return float64(keywordHits(in.Attempts, s.vocab.Creative)), float64(req.Count)
	case model.RequirementColorKeywords:
		return float64(keywordHits(in.Attempts, s.vocab.Colors)), float64(req.Count)
	case model.RequirementTimePracticed:
		return totalTimeSpent(in.Attempts), req.Threshold
	default:
		return 0, 1
	}
}

// ---- 条件评估函数（纯函数查找表） ----

func evalSkillLevel(req model.Requirement, in evalInput) bool {
	return in.Skills[req.Skill] >= req.Threshold
}

func evalTotalAttempts(req model.Requirement, in evalInput) bool {
	return len(in.Attempts) >= req.Count
}

// evalConsecutiveDays 历史中最长的连续练习天数（按自然日）
func evalConsecutiveDays(req model.Requirement, in evalInput) bool {
	return longestDailyStreak(in.Attempts) >= req.Count
}

func (s *AchievementService) evalWeeklyAttempts(req model.Requirement, in evalInput) bool {
	return attemptsWithin(in.Attempts, 7*24*time.Hour, s.now()) >= req.Count
}

// evalScoreImprovement 任意相邻两次尝试的单步提升达到阈值
func evalScoreImprovement(req model.Requirement, in evalInput) bool {
	return largestSingleStepDelta(in.Attempts) >= req.Threshold
}

// evalConsistentScores 最近 Count 次尝试全部不低于 MinScore
func evalConsistentScores(req model.Requirement, in evalInput) bool {
	if req.Count <= 0 || len(in.Attempts) < req.Count {
		return false
	}
	return trailingAtOrAbove(in.Attempts, req.MinScore) >= req.Count
}

// evalSessionImprovement 最近 3 次均值 − 最早 3 次均值达到阈值
func evalSessionImprovement(req model.Requirement, in evalInput) bool {
	if len(in.Attempts) < 6 {
		return false
	}
	return sessionDelta(in.Attempts) >= req.Threshold
}

func evalTemplateCompletion(req model.Requirement, in evalInput) bool {
	if len(req.Templates) == 1 && req.Templates[0] == model.TemplateAny {
		return len(in.CompletedTemplates) > 0
	}
	return countCompleted(in.CompletedTemplates, req.Templates) == len(req.Templates)
}

func evalPerfectScore(req model.Requirement, in evalInput) bool {
	return bestOverall(in.Attempts) >= req.Threshold
}

func (s *AchievementService) evalCreativeKeywords(req model.Requirement, in evalInput) bool {
	return keywordHits(in.Attempts, s.vocab.Creative) >= req.Count
}

func (s *AchievementService) evalColorKeywords(req model.Requirement, in evalInput) bool {
	return keywordHits(in.Attempts, s.vocab.Colors) >= req.Count
}

func evalTimePracticed(req model.Requirement, in evalInput) bool {
	return totalTimeSpent(in.Attempts) >= req.Threshold
}

// ---- 统计辅助 ----

func longestDailyStreak(attempts []model.Attempt) int {
	if len(attempts) == 0 {
		return 0
	}

	daySet := make(map[string]bool)
	var days []time.Time
	for _, a := range attempts {
		day := a.Timestamp.Truncate(24 * time.Hour)
		key := day.Format(util.DateFormat)
		if !daySet[key] {
			daySet[key] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

func attemptsWithin(attempts []model.Attempt, window time.Duration, now time.Time) int {
	cutoff := now.Add(-window)
	count := 0
	for _, a := range attempts {
		if a.Timestamp.After(cutoff) {
			count++
		}
	}
	return count
}

func largestSingleStepDelta(attempts []model.Attempt) float64 {
	best := 0.0
	for i := 1; i < len(attempts); i++ {
		delta := float64(attempts[i].Score.Overall - attempts[i-1].Score.Overall)
		if delta > best {
			best = delta
		}
	}
	return best
}

// trailingAtOrAbove 从末尾往前数连续不低于 minScore 的次数
func trailingAtOrAbove(attempts []model.Attempt, minScore int) int {
	count := 0
	for i := len(attempts) - 1; i >= 0; i-- {
		if attempts[i].Score.Overall < minScore {
			break
		}
		count++
	}
	return count
}

func sessionDelta(attempts []model.Attempt) float64 {
	if len(attempts) < 6 {
		return 0
	}
	first := attempts[:3]
	last := attempts[len(attempts)-3:]

	firstMean, lastMean := 0.0, 0.0
	for i := 0; i < 3; i++ {
		firstMean += float64(first[i].Score.Overall)
		lastMean += float64(last[i].Score.Overall)
	}
	return (lastMean - firstMean) / 3
}

func countCompleted(completed, required []string) int {
	set := make(map[string]bool, len(completed))
	for _, id := range completed {
		set[id] = true
	}
	count := 0
	for _, id := range required {
		if set[id] {
			count++
		}
	}
	return count
}

func bestOverall(attempts []model.Attempt) float64 {
	best := 0.0
	for _, a := range attempts {
		if float64(a.Score.Overall) > best {
			best = float64(a.Score.Overall)
		}
	}
	return best
}

// keywordHits 所有提示词文本拼接后命中的不同关键词个数
func keywordHits(attempts []model.Attempt, words []string) int {
	if len(attempts) == 0 {
		return 0
	}
	var b strings.Builder
	for _, a := range attempts {
		b.WriteString(a.PromptText)
		b.WriteString("\n")
	}
	return countPresent(b.String(), words)
}

func totalTimeSpent(attempts []model.Attempt) float64 {
	total := 0
	for _, a := range attempts {
		total += a.TimeSpentSeconds
	}
	return float64(total)
}

// DefaultAchievementDefinitions 来源应用的内置成就目录
func DefaultAchievementDefinitions() []model.AchievementDefinition {
	return []model.AchievementDefinition{
		{
			ID: "first-steps", Name: "迈出第一步", Description: "完成第一次提示词尝试",
			Icon: "🌱", Rarity: model.RarityCommon,
			Requirements: []model.Requirement{
				{Kind: model.RequirementTotalAttempts, Count: 1},
			},
		},
		{
			ID: "clear-speaker", Name: "清晰表达者", Description: "清晰度技能达到 80",
			Icon: "💬", Rarity: model.RarityRare,
			Requirements: []model.Requirement{
				{Kind: model.RequirementSkillLevel, Skill: model.DimensionClarity, Threshold: 80},
			},
		},
		{
			ID: "little-painter", Name: "小小调色师", Description: "在提示词里用过 5 种不同的颜色",
			Icon: "🎨", Rarity: model.RarityCommon,
			Requirements: []model.Requirement{
				{Kind: model.RequirementColorKeywords, Count: 5},
			},
		},
		{
			ID: "imagination-star", Name: "想象之星", Description: "用过 4 个创意词",
			Icon: "✨", Rarity: model.RarityRare,
			Requirements: []model.Requirement{
				{Kind: model.RequirementCreativeKeywords, Count: 4},
			},
		},
		{
			ID: "three-day-streak", Name: "三日之约", Description: "连续 3 天练习",
			Icon: "🔥", Rarity: model.RarityCommon,
			Requirements: []model.Requirement{
				{Kind: model.RequirementConsecutiveDays, Count: 3},
			},
		},
		{
			ID: "weekly-champion", Name: "一周小冠军", Description: "一周内练习 10 次",
			Icon: "🏆", Rarity: model.RarityRare,
			Requirements: []model.Requirement{
				{Kind: model.RequirementWeeklyAttempts, Count: 10},
			},
		},
		{
			ID: "progress-star", Name: "进步之星", Description: "单次提升 15 分以上",
			Icon: "🚀", Rarity: model.RarityRare,
			Requirements: []model.Requirement{
				{Kind: model.RequirementScoreImprovement, Threshold: 15},
			},
		},
		{
			ID: "steady-hand", Name: "稳定发挥", Description: "最近 5 次尝试都不低于 70 分",
			Icon: "🎯", Rarity: model.RarityEpic,
			Requirements: []model.Requirement{
				{Kind: model.RequirementConsistentScores, Count: 5, MinScore: 70},
			},
		},
		{
			ID: "session-growth", Name: "越练越好", Description: "本阶段后三次比前三次平均提升 10 分",
			Icon: "📈", Rarity: model.RarityEpic,
			Requirements: []model.Requirement{
				{Kind: model.RequirementSessionImprovement, Threshold: 10},
			},
		},
		{
			ID: "template-explorer", Name: "模板探险家", Description: "完成任意一个完整模板",
			Icon: "🗺️", Rarity: model.RarityCommon,
			Requirements: []model.Requirement{
				{Kind: model.RequirementTemplateCompletion, Templates: []string{model.TemplateAny}},
			},
		},
		{
			ID: "perfectionist", Name: "完美主义者", Description: "拿到一次 95 分以上的高分",
			Icon: "💯", Rarity: model.RarityLegendary,
			Requirements: []model.Requirement{
				{Kind: model.RequirementPerfectScore, Threshold: 95},
			},
		},
		{
			ID: "dedicated-learner", Name: "勤学不辍", Description: "累计练习满一小时",
			Icon: "⏰", Rarity: model.RarityRare,
			Requirements: []model.Requirement{
				{Kind: model.RequirementTimePracticed, Threshold: 3600},
			},
		},
	}
}
