package service

import (
	"context"
	"prompt_edu_backend/internal/util"

	"github.com/go-redis/redis/v8"
)

const leaderboardKey = "prompt_edu:leaderboard:overall"

// LeaderboardEntry 排行榜单项
type LeaderboardEntry struct {
	Rank   int     `json:"rank"`
	UserID string  `json:"userId"`
	Level  float64 `json:"level"`
}

// LeaderboardService 按用户综合能力维护 Redis 有序集合排行榜
// Redis 未配置时所有操作降级为 no-op / 明确报错
type LeaderboardService struct {
	rdb *redis.Client
}

func NewLeaderboardService(rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{rdb: rdb}
}

func (s *LeaderboardService) Enabled() bool {
	return s.rdb != nil
}

// Update 在每次 recordAttempt 之后用最新综合能力刷新榜单
func (s *LeaderboardService) Update(ctx context.Context, userID string, overall float64) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.ZAdd(ctx, leaderboardKey, &redis.Z{
		Score:  overall,
		Member: userID,
	}).Err()
}

// Top 返回能力分最高的前 limit 名
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if s.rdb == nil {
		return nil, util.ErrLeaderboardDisabled
	}
	if limit <= 0 {
		limit = 10
	}

	zs, err := s.rdb.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(zs))
	for i, z := range zs {
		userID, _ := z.Member.(string)
		entries[i] = LeaderboardEntry{
			Rank:   i + 1,
			UserID: userID,
			Level:  z.Score,
		}
	}
	return entries, nil
}
