package util

import "errors"

var (
	ErrSessionNotFound     = errors.New("学习会话不存在，请先调用 startSession")
	ErrLeaderboardDisabled = errors.New("leaderboard disabled (redis not configured)")
	ErrArchiveDisabled     = errors.New("attempt archive disabled (database not configured)")
	ErrStorageDisabled     = errors.New("report storage disabled")
)
