package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RewardEvent is appended to the reward log exactly once per successful
// collect. The leaderboard is a pure aggregation over these events.
type RewardEvent struct {
	ID              string          `json:"id" redis:"id"`
	UserID          int64           `json:"user_id" redis:"user_id"`
	Amount          decimal.Decimal `json:"amount" redis:"amount"`
	MiningLevel     int             `json:"mining_level" redis:"mining_level"`
	DurationSeconds int64           `json:"duration_seconds" redis:"duration_seconds"`
	OccurredAt      time.Time       `json:"occurred_at" redis:"occurred_at"`
}

type Timeframe string

const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
	TimeframeAllTime Timeframe = "alltime"
)

func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case TimeframeDaily, TimeframeWeekly, TimeframeMonthly, TimeframeAllTime:
		return Timeframe(s), nil
	case "":
		return TimeframeDaily, nil
	}
	return "", fmt.Errorf("invalid timeframe: %s", s)
}

// WindowStart returns the inclusive lower bound of the ranking window ending
// at now. Windows are calendar-aligned in UTC: daily since midnight, weekly
// since Monday 00:00, monthly since the 1st. Alltime returns the zero time.
func (t Timeframe) WindowStart(now time.Time) time.Time {
	now = now.UTC()
	switch t {
	case TimeframeDaily:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case TimeframeWeekly:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(now.Weekday()) + 6) % 7 // days since Monday
		return midnight.AddDate(0, 0, -offset)
	case TimeframeMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}

type LeaderboardRow struct {
	Rank         int             `json:"rank"`
	UserID       int64           `json:"userId"`
	Username     string          `json:"username,omitempty"`
	FirstName    string          `json:"firstName,omitempty"`
	LastName     string          `json:"lastName,omitempty"`
	PhotoURL     string          `json:"photoUrl,omitempty"`
	MiningLevel  int             `json:"miningLevel"`
	RewardAmount decimal.Decimal `json:"rewardAmount"`
}

// UserRank reports the caller's position; Rank is nil when the user has no
// in-window events, which is distinct from being ranked last.
type UserRank struct {
	Rank       *int            `json:"rank"`
	Rewards    decimal.Decimal `json:"rewards"`
	TotalUsers int             `json:"totalUsers"`
	Timeframe  Timeframe       `json:"timeframe"`
}
