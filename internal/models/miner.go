package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MinerRecord is the per-user mining state. It is owned by the mining engine
// and must only be mutated through its operations.
type MinerRecord struct {
	UserID int64 `json:"user_id" redis:"user_id"`

	Balance       decimal.Decimal `json:"balance" redis:"balance"`
	PendingReward decimal.Decimal `json:"pending_reward" redis:"pending_reward"`
	TotalRewards  decimal.Decimal `json:"total_rewards" redis:"total_rewards"`

	MiningLevel int             `json:"mining_level" redis:"mining_level"`
	MiningRate  decimal.Decimal `json:"mining_rate" redis:"mining_rate"` // coins/hour
	UpgradeCost decimal.Decimal `json:"upgrade_cost" redis:"upgrade_cost"`

	IsActive                bool      `json:"is_active" redis:"is_active"`
	SessionStartedAt        time.Time `json:"session_started_at" redis:"session_started_at"`
	SessionDurationSeconds  int64     `json:"session_duration_seconds" redis:"session_duration_seconds"`
	RemainingSessionSeconds int64     `json:"remaining_session_seconds" redis:"remaining_session_seconds"`

	AvailableMiningSeconds int64  `json:"available_mining_seconds" redis:"available_mining_seconds"`
	RemainingDailySeconds  int64  `json:"remaining_daily_seconds" redis:"remaining_daily_seconds"`
	LastDailyReset         string `json:"last_daily_reset" redis:"last_daily_reset"` // UTC day, 2006-01-02

	// Seconds mined since the last collect, flushed into the reward event.
	UncollectedSeconds int64 `json:"uncollected_seconds" redis:"uncollected_seconds"`

	LastAdWatchedAt       time.Time `json:"last_ad_watched_at" redis:"last_ad_watched_at"`
	AdSecondsGrantedToday int64     `json:"ad_seconds_granted_today" redis:"ad_seconds_granted_today"`

	LastMiningTime time.Time `json:"last_mining_time" redis:"last_mining_time"`
	CreatedAt      time.Time `json:"created_at" redis:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" redis:"updated_at"`
}

// MiningStatus is the read-only projection returned by the status operation.
// While a session runs it reflects live elapsed time without committing any
// quota debit, so polling is side-effect free.
type MiningStatus struct {
	IsActive                bool            `json:"is_active"`
	MiningLevel             int             `json:"mining_level"`
	MiningRate              decimal.Decimal `json:"mining_rate"`
	Balance                 decimal.Decimal `json:"balance"`
	PendingReward           decimal.Decimal `json:"pending_reward"`
	ProjectedReward         decimal.Decimal `json:"projected_reward"`
	UpgradeCost             decimal.Decimal `json:"upgrade_cost"`
	SessionStartedAt        time.Time       `json:"session_started_at,omitempty"`
	ElapsedSeconds          int64           `json:"elapsed_seconds"`
	RemainingSessionSeconds int64           `json:"remaining_session_seconds"`
	AvailableMiningSeconds  int64           `json:"available_mining_seconds"`
	RemainingDailySeconds   int64           `json:"remaining_daily_seconds"`
}

type StopResult struct {
	MinedSeconds  int64           `json:"mined_seconds"`
	RewardEarned  decimal.Decimal `json:"reward_earned"`
	PendingReward decimal.Decimal `json:"pending_reward"`
}

type CollectResult struct {
	RewardCollected decimal.Decimal `json:"reward_collected"`
	NewBalance      decimal.Decimal `json:"new_balance"`
}

type UpgradeResult struct {
	NewLevel        int             `json:"new_level"`
	NewRate         decimal.Decimal `json:"new_rate"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	NextUpgradeCost decimal.Decimal `json:"next_upgrade_cost"`
}
