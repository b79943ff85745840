package service

import (
	"prompt_edu_backend/internal/config"
	"prompt_edu_backend/internal/model"
	"prompt_edu_backend/internal/util"
	"sort"
	"sync"
	"time"
)

// 新建技能的起始熟练度，第一次观测在此基础上做平滑
const initialSkillLevel = 50.0

type sessionKey struct {
	userID     string
	templateID string
}

// ProgressService 持有所有 (用户,模板) 学习会话的内存状态
// 会话、尝试历史、技能熟练度都只在进程内存里，重启即丢失（设计上已知的限制）。
// RecordAttempt 是读-改-写，整个存储用一把锁串行化并发写入。
// 生命周期由调用方注入（每个进程/每个测试各自一个实例），不是包级单例。
type ProgressService struct {
	mu       sync.RWMutex
	sessions map[sessionKey]*model.Progress
	cfg      config.EngineConfig
	now      func() time.Time
}

func NewProgressService(cfg config.EngineConfig) *ProgressService {
	if cfg.SmoothingAlpha <= 0 || cfg.SmoothingAlpha >= 1 {
		cfg.SmoothingAlpha = 0.3
	}
	if cfg.TrendWindowSize <= 0 {
		cfg.TrendWindowSize = 10
	}
	if cfg.MasteryThreshold <= 0 {
		cfg.MasteryThreshold = 80
	}
	if cfg.ImprovementSignal <= 0 {
		cfg.ImprovementSignal = 5
	}
	return &ProgressService{
		sessions: make(map[sessionKey]*model.Progress),
		cfg:      cfg,
		now:      time.Now,
	}
}

// StartSession 幂等：已有会话直接返回，否则创建空历史的新会话
func (s *ProgressService) StartSession(userID, templateID, initialStageID string) *model.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey{userID, templateID}
	if p, ok := s.sessions[key]; ok {
		return p
	}

	p := &model.Progress{
		UserID:          userID,
		TemplateID:      templateID,
		CurrentStageID:  initialStageID,
		CompletedStages: []string{},
		Attempts:        []model.Attempt{},
		Skills:          make(map[model.Dimension]*model.SkillProgress),
		StartedAt:       s.now(),
		UpdatedAt:       s.now(),
	}
	s.sessions[key] = p
	return p
}

// RecordAttempt 追加一次尝试并做技能平滑更新
// criteria 为 nil 时用引擎默认及格线判断关卡是否完成
// 返回的事件列表交由调用方处理（引擎不做监听器分发）
func (s *ProgressService) RecordAttempt(
	userID, templateID, stageID, text string,
	score model.QualityScore,
	timeSpentSeconds int,
	criteria *model.SuccessCriteria,
) (*model.Attempt, []model.EngineEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.sessions[sessionKey{userID, templateID}]
	if !ok {
		return nil, nil, util.ErrSessionNotFound
	}

	now := s.now()
	completed := s.meetsCriteria(score, criteria)

	attempt := model.Attempt{
		ID:               model.GenerateUUID(),
		StageID:          stageID,
		Timestamp:        now,
		PromptText:       text,
		Score:            score,
		TimeSpentSeconds: timeSpentSeconds,
		Completed:        completed,
	}

	p.Attempts = append(p.Attempts, attempt)
	p.TotalTimeSpent += timeSpentSeconds
	p.CurrentStageID = stageID
	p.UpdatedAt = now

	var events []model.EngineEvent

	// 每个出现的维度做指数平滑：newLevel = (1-α)*prev + α*raw
	// α=0.3 保证单次变化不超过旧值与新观测差距的 30%，分数不会跳变
	for _, dim := range model.AllDimensions() {
		raw, present := score.Dimensions[dim]
		if !present {
			continue
		}

		sp, ok := p.Skills[dim]
		if !ok {
			sp = &model.SkillProgress{
				Skill:        dim,
				CurrentLevel: initialSkillLevel,
			}
			p.Skills[dim] = sp
		}

		sp.CurrentLevel = (1-s.cfg.SmoothingAlpha)*sp.CurrentLevel + s.cfg.SmoothingAlpha*float64(raw)
		if sp.CurrentLevel < 0 {
			sp.CurrentLevel = 0
		}
		if sp.CurrentLevel > 100 {
			sp.CurrentLevel = 100
		}

		sp.TrendWindow = append(sp.TrendWindow, raw)
		if len(sp.TrendWindow) > s.cfg.TrendWindowSize {
			sp.TrendWindow = sp.TrendWindow[len(sp.TrendWindow)-s.cfg.TrendWindowSize:]
		}

		sp.Improvement = sp.CurrentLevel - float64(sp.TrendWindow[0])
		sp.PracticeCount++
		sp.LastPracticedAt = now

		if sp.Improvement > s.cfg.ImprovementSignal {
			events = append(events, model.EngineEvent{
				Kind:       model.EventSkillImproved,
				UserID:     userID,
				TemplateID: templateID,
				Skill:      dim,
				Value:      sp.Improvement,
				OccurredAt: now,
			})
		}
	}

	// 关卡完成：幂等插入，只在第一次完成时发事件
	if completed && !p.HasCompletedStage(stageID) {
		p.CompletedStages = append(p.CompletedStages, stageID)
		events = append(events, model.EngineEvent{
			Kind:       model.EventStageCompleted,
			UserID:     userID,
			TemplateID: templateID,
			StageID:    stageID,
			Value:      float64(score.Overall),
			OccurredAt: now,
		})
	}

	return &attempt, events, nil
}

// meetsCriteria 完成判定：总分达标，且每个必选维度达到各自阈值
func (s *ProgressService) meetsCriteria(score model.QualityScore, criteria *model.SuccessCriteria) bool {
	minimum := s.cfg.MasteryThreshold
	if criteria != nil && criteria.MinimumScore > 0 {
		minimum = criteria.MinimumScore
	}
	if score.Overall < minimum {
		return false
	}
	if criteria == nil {
		return true
	}
	for _, dim := range criteria.RequiredDimensions {
		threshold, ok := criteria.SkillThresholds[dim]
		if !ok {
			continue
		}
		if score.Dimensions[dim] < threshold {
			return false
		}
	}
	return true
}

// MarkTemplateCompleted 标记整个模板完成（最后一个关卡由模板内容系统判定）
func (s *ProgressService) MarkTemplateCompleted(userID, templateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.sessions[sessionKey{userID, templateID}]
	if !ok {
		return util.ErrSessionNotFound
	}
	p.TemplateCompleted = true
	p.UpdatedAt = s.now()
	return nil
}

// GetProgress 返回单个会话的当前状态
func (s *ProgressService) GetProgress(userID, templateID string) (*model.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.sessions[sessionKey{userID, templateID}]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	return p, nil
}

// GetUserLevel 跨所有模板聚合用户能力视图，每次按需重算
func (s *ProgressService) GetUserLevel(userID string) *model.UserLevel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	skillSums := make(map[model.Dimension]float64)
	skillCounts := make(map[model.Dimension]int)
	dimSums := make(map[model.Dimension]float64)
	dimCounts := make(map[model.Dimension]int)
	totalAttempts := 0

	for key, p := range s.sessions {
		if key.userID != userID {
			continue
		}
		totalAttempts += len(p.Attempts)
		for dim, sp := range p.Skills {
			skillSums[dim] += sp.CurrentLevel
			skillCounts[dim]++
		}
		for _, a := range p.Attempts {
			for dim, v := range a.Score.Dimensions {
				dimSums[dim] += float64(v)
				dimCounts[dim]++
			}
		}
	}

	level := &model.UserLevel{
		Skills:        make(map[model.Dimension]float64),
		LearningStyle: model.StyleMixed,
		TotalAttempts: totalAttempts,
	}

	overallSum := 0.0
	practiced := 0
	for _, dim := range model.AllDimensions() {
		if skillCounts[dim] == 0 {
			continue
		}
		avg := skillSums[dim] / float64(skillCounts[dim])
		level.Skills[dim] = avg
		overallSum += avg
		practiced++
	}
	if practiced > 0 {
		level.Overall = overallSum / float64(practiced)
	}

	// 尝试次数越多越可信、越投入（粗粒度启发式）
	level.Confidence = float64(totalAttempts) / 20
	if level.Confidence > 1 {
		level.Confidence = 1
	}
	level.Engagement = 40 + float64(totalAttempts)*2
	if totalAttempts == 0 {
		level.Engagement = 0
	}
	if level.Engagement > 100 {
		level.Engagement = 100
	}

	level.LearningStyle = classifyLearningStyle(dimSums, dimCounts)
	return level
}

// classifyLearningStyle 按历史平均分最高的维度归类学习风格
// 来源实现的粗略启发式：visual→视觉型，emotion→听觉型，detail→动觉型，其余→混合型
func classifyLearningStyle(sums map[model.Dimension]float64, counts map[model.Dimension]int) model.LearningStyle {
	best := model.Dimension("")
	bestAvg := -1.0
	for _, dim := range model.AllDimensions() {
		if counts[dim] == 0 {
			continue
		}
		avg := sums[dim] / float64(counts[dim])
		if avg > bestAvg {
			bestAvg = avg
			best = dim
		}
	}

	switch best {
	case model.DimensionVisual:
		return model.StyleVisual
	case model.DimensionEmotion:
		return model.StyleAuditory
	case model.DimensionDetail:
		return model.StyleKinesthetic
	default:
		return model.StyleMixed
	}
}

// AttemptsForUser 返回用户在所有模板下按时间排序的尝试历史
func (s *ProgressService) AttemptsForUser(userID string) []model.Attempt {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Attempt
	for key, p := range s.sessions {
		if key.userID != userID {
			continue
		}
		out = append(out, p.Attempts...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// SkillLevels 返回用户跨模板平均后的技能熟练度（成就评估的输入）
func (s *ProgressService) SkillLevels(userID string) map[model.Dimension]float64 {
	return s.GetUserLevel(userID).Skills
}

// CompletedTemplates 返回用户已完成的模板 ID 列表
func (s *ProgressService) CompletedTemplates(userID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for key, p := range s.sessions {
		if key.userID == userID && p.TemplateCompleted {
			out = append(out, key.templateID)
		}
	}
	sort.Strings(out)
	return out
}

// RecentAttempts 返回某个会话最近 limit 次尝试（自适应引导的输入）
func (s *ProgressService) RecentAttempts(userID, templateID string, limit int) []model.Attempt {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.sessions[sessionKey{userID, templateID}]
	if !ok {
		return nil
	}
	attempts := p.Attempts
	if limit > 0 && len(attempts) > limit {
		attempts = attempts[len(attempts)-limit:]
	}
	out := make([]model.Attempt, len(attempts))
	copy(out, attempts)
	return out
}

// SessionSummaries 报告导出用的会话摘要
func (s *ProgressService) SessionSummaries(userID string) []model.ProgressSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.ProgressSummary
	for key, p := range s.sessions {
		if key.userID != userID {
			continue
		}
		out = append(out, model.ProgressSummary{
			TemplateID:        key.templateID,
			AttemptCount:      len(p.Attempts),
			CompletedStages:   append([]string{}, p.CompletedStages...),
			TemplateCompleted: p.TemplateCompleted,
			TotalTimeSpent:    p.TotalTimeSpent,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TemplateID < out[j].TemplateID })
	return out
}
