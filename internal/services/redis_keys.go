package services

import "time"

const (
	KeyMiner       = "miner:%d"
	KeyUserProfile = "user:%d:info"
	KeyRewardLog   = "rewards:log"
	KeyUserRewards = "user:%d:rewards"
	KeyRateLimit   = "ratelimit:%d:%s"

	TTLUserProfile = 30 * 24 * time.Hour // 30 days

	// Reward history kept per user; the global log is unbounded because
	// the alltime leaderboard aggregates over all of it.
	MaxUserRewardHistory = 100

	DefaultRateLimitMining = 30 // mining ops per minute
	DefaultRateLimitAds    = 10 // ad credits attempted per minute
)
