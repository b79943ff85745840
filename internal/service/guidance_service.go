package service

import (
	"math"
	"prompt_edu_backend/internal/config"
	"prompt_edu_backend/internal/model"
	"sync"
)

// adaptationProfile 每个用户的滚动适应档案
// 不是持久状态，只用来平滑连续两次引导之间的难度目标
type adaptationProfile struct {
	lastDifficulty float64
	hasHistory     bool
}

// GuidanceService 自适应引导
// 只读取历史，从不修改 ProgressService；可以反复调用并丢弃结果
type GuidanceService struct {
	mu       sync.Mutex
	cfg      config.EngineConfig
	profiles map[string]*adaptationProfile
}

func NewGuidanceService(cfg config.EngineConfig) *GuidanceService {
	if cfg.PerformanceWindow <= 0 {
		cfg.PerformanceWindow = 5
	}
	return &GuidanceService{
		cfg:      cfg,
		profiles: make(map[string]*adaptationProfile),
	}
}

// GenerateGuidance 根据基线能力 + 会话情境 + 最近尝试生成一份自适应引导
func (s *GuidanceService) GenerateGuidance(
	userID string,
	sessionCtx model.SessionContext,
	baseline *model.UserLevel,
	recentAttempts []model.Attempt,
) *model.GuidanceResult {
	analytics := s.analyze(sessionCtx, recentAttempts)
	analytics.OptimalDifficulty = s.biasDifficulty(userID, analytics.OptimalDifficulty)

	adapted := s.adaptLevel(baseline, analytics, sessionCtx)
	difficulty := buildDifficultyConfig(analytics)
	preferences := buildPreferences(baseline, sessionCtx, analytics)

	return &model.GuidanceResult{
		AdaptedUserLevel:    adapted,
		DifficultyConfig:    difficulty,
		LearningPreferences: preferences,
		Analytics:           analytics,
	}
}

func (s *GuidanceService) analyze(sessionCtx model.SessionContext, attempts []model.Attempt) model.SessionAnalytics {
	analytics := model.SessionAnalytics{
		SkillTrends:     skillTrends(attempts),
		RecommendedPace: "steady",
	}

	window := attempts
	if len(window) > s.cfg.PerformanceWindow {
		window = window[len(window)-s.cfg.PerformanceWindow:]
	}
	analytics.PerformanceTrend = clampF(olsSlope(window), -10, 10)

	avgTime := averageTimeSpent(attempts)

	// 投入度：基线 50，按用时/精力/家长陪伴修正
	engagement := 50.0
	if len(attempts) > 0 {
		if avgTime > 120 {
			engagement += 10
		} else if avgTime < 30 {
			engagement -= 10
		}
	}
	switch sessionCtx.EnergyLevel {
	case model.EnergyHigh:
		engagement += 15
	case model.EnergyLow:
		engagement -= 10
	}
	if sessionCtx.ParentPresence {
		engagement += 10
	}
	analytics.EngagementLevel = clampF(engagement, 0, 100)

	// 挫败感：尾部连续失败 + 明显下滑趋势 + 赶进度式的快速提交
	frustration := float64(trailingFailures(attempts)) * 20
	if analytics.PerformanceTrend < -5 {
		frustration += (-analytics.PerformanceTrend - 5) * 2
	}
	if len(attempts) > 0 && avgTime < 15 {
		frustration += 15
	}
	analytics.FrustrationLevel = clampF(frustration, 0, 100)

	analytics.OptimalDifficulty = optimalDifficulty(attempts)
	analytics.AdaptationTriggered = adaptationTriggered(attempts)

	if analytics.FrustrationLevel > 50 {
		analytics.RecommendedPace = "slow"
	} else if analytics.EngagementLevel > 80 && analytics.PerformanceTrend > 0 {
		analytics.RecommendedPace = "fast"
	}

	return analytics
}

// biasDifficulty 用上一次的难度目标做 30% 的平滑，避免相邻两次引导跳变
func (s *GuidanceService) biasDifficulty(userID string, computed float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		p = &adaptationProfile{}
		s.profiles[userID] = p
	}

	result := computed
	if p.hasHistory {
		result = 0.7*computed + 0.3*p.lastDifficulty
	}
	p.lastDifficulty = result
	p.hasHistory = true
	return result
}

func (s *GuidanceService) adaptLevel(baseline *model.UserLevel, analytics model.SessionAnalytics, sessionCtx model.SessionContext) model.AdaptedUserLevel {
	adapted := model.AdaptedUserLevel{
		Skills: make(map[model.Dimension]float64),
	}

	confidenceAdj := 0.0
	if baseline != nil {
		confidenceAdj = (baseline.Confidence - 0.5) * 10
	}
	contextAdj := contextAdjustment(sessionCtx)

	sum := 0.0
	count := 0
	for _, dim := range model.AllDimensions() {
		base := initialSkillLevel
		if baseline != nil {
			if v, ok := baseline.Skills[dim]; ok {
				base = v
			}
		}
		v := clampF(base+0.4*analytics.SkillTrends[dim]+0.3*confidenceAdj+0.3*contextAdj, 0, 100)
		adapted.Skills[dim] = v
		sum += v
		count++
	}
	if count > 0 {
		adapted.Overall = sum / float64(count)
	}
	return adapted
}

func contextAdjustment(sessionCtx model.SessionContext) float64 {
	adj := 0.0
	switch sessionCtx.EnergyLevel {
	case model.EnergyHigh:
		adj += 5
	case model.EnergyLow:
		adj -= 5
	}
	if sessionCtx.ParentPresence {
		adj += 2
	}
	if sessionCtx.PreviousPerformance > 75 {
		adj += 3
	} else if sessionCtx.PreviousPerformance > 0 && sessionCtx.PreviousPerformance < 40 {
		adj -= 3
	}
	return adj
}

func buildDifficultyConfig(analytics model.SessionAnalytics) model.DifficultyConfig {
	cfg := model.DifficultyConfig{
		TargetDifficulty: analytics.OptimalDifficulty,
		HintFrequency:    model.HintNormal,
	}

	if analytics.FrustrationLevel > 50 || analytics.PerformanceTrend < -5 {
		cfg.HintFrequency = model.HintFrequent
	} else if analytics.EngagementLevel > 80 && analytics.PerformanceTrend > 0 {
		cfg.HintFrequency = model.HintMinimal
	}

	switch {
	case analytics.OptimalDifficulty < 50:
		cfg.ExampleComplexity = model.ExampleSimple
	case analytics.OptimalDifficulty > 75:
		cfg.ExampleComplexity = model.ExampleComplex
	default:
		cfg.ExampleComplexity = model.ExampleModerate
	}

	strict := 0.7
	if analytics.FrustrationLevel > 50 {
		strict -= 0.2
	}
	if analytics.PerformanceTrend > 5 {
		strict += 0.1
	}
	cfg.EvaluationStrict = clampF(strict, 0.4, 0.9)

	return cfg
}

func buildPreferences(baseline *model.UserLevel, sessionCtx model.SessionContext, analytics model.SessionAnalytics) model.LearningPreferences {
	prefs := model.LearningPreferences{
		Style:              model.StyleMixed,
		SessionLength:      "standard",
		EncouragementLevel: "normal",
	}
	if baseline != nil && baseline.LearningStyle != "" {
		prefs.Style = baseline.LearningStyle
	}
	if analytics.EngagementLevel < 40 || sessionCtx.EnergyLevel == model.EnergyLow {
		prefs.SessionLength = "short"
	}
	if analytics.FrustrationLevel > 50 {
		prefs.EncouragementLevel = "high"
	}
	return prefs
}

// olsSlope 最小二乘回归斜率，x 取尝试序号，y 取总分
func olsSlope(attempts []model.Attempt) float64 {
	n := len(attempts)
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, a := range attempts {
		x := float64(i)
		y := float64(a.Score.Overall)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (fn*sumXY - sumX*sumY) / denom
}

// skillTrends 每个技能独立计算：最近 3 次原始分均值 − 其余更早分数的均值
func skillTrends(attempts []model.Attempt) map[model.Dimension]float64 {
	trends := make(map[model.Dimension]float64)
	for _, dim := range model.AllDimensions() {
		var scores []float64
		for _, a := range attempts {
			if v, ok := a.Score.Dimensions[dim]; ok {
				scores = append(scores, float64(v))
			}
		}
		if len(scores) < 4 {
			trends[dim] = 0
			continue
		}
		recent := scores[len(scores)-3:]
		earlier := scores[:len(scores)-3]
		trends[dim] = meanF(recent) - meanF(earlier)
	}
	return trends
}

// trailingFailures 从历史末尾往前数连续未完成的次数
func trailingFailures(attempts []model.Attempt) int {
	count := 0
	for i := len(attempts) - 1; i >= 0; i-- {
		if attempts[i].Completed {
			break
		}
		count++
	}
	return count
}

// optimalDifficulty 高分高完成率上调（封顶 90），低分低完成率下调（托底 40），否则保持
func optimalDifficulty(attempts []model.Attempt) float64 {
	if len(attempts) == 0 {
		return 50
	}

	avg := 0.0
	completedCount := 0
	for _, a := range attempts {
		avg += float64(a.Score.Overall)
		if a.Completed {
			completedCount++
		}
	}
	avg /= float64(len(attempts))
	completionRate := float64(completedCount) / float64(len(attempts))

	switch {
	case avg > 85 && completionRate > 0.8:
		return math.Min(avg+5, 90)
	case avg < 60 || completionRate < 0.4:
		return math.Max(avg-10, 40)
	default:
		return avg
	}
}

// adaptationTriggered 连续两次失败，或最近三次分数方差超过 400（σ>20）
// 该标志只是提示调用方，不是重算的前置条件
func adaptationTriggered(attempts []model.Attempt) bool {
	n := len(attempts)
	if n >= 2 && !attempts[n-1].Completed && !attempts[n-2].Completed {
		return true
	}
	if n >= 3 {
		last3 := []float64{
			float64(attempts[n-3].Score.Overall),
			float64(attempts[n-2].Score.Overall),
			float64(attempts[n-1].Score.Overall),
		}
		m := meanF(last3)
		variance := 0.0
		for _, v := range last3 {
			variance += (v - m) * (v - m)
		}
		variance /= 3
		if variance > 400 {
			return true
		}
	}
	return false
}

func averageTimeSpent(attempts []model.Attempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	total := 0
	for _, a := range attempts {
		total += a.TimeSpentSeconds
	}
	return float64(total) / float64(len(attempts))
}

func meanF(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
