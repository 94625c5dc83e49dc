package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"mining-miniapp-backend/internal/models"
)

// LeaderboardService derives rankings from the reward event log at read time.
// It keeps no mutable state of its own, so two calls over an unchanged log
// return identical output.
type LeaderboardService struct {
	rewards  RewardLog
	miners   MinerStore
	profiles ProfileStore
	clock    Clock
}

func NewLeaderboardService(rewards RewardLog, miners MinerStore, profiles ProfileStore, clock Clock) *LeaderboardService {
	return &LeaderboardService{
		rewards:  rewards,
		miners:   miners,
		profiles: profiles,
		clock:    clock,
	}
}

type rankedUser struct {
	userID int64
	total  decimal.Decimal
}

// rankWindow aggregates reward sums per user over the timeframe's window and
// orders them: sum descending, ties broken by ascending user ID so the order
// is stable across calls.
func (s *LeaderboardService) rankWindow(timeframe models.Timeframe) ([]rankedUser, error) {
	since := timeframe.WindowStart(s.clock.Now())

	events, err := s.rewards.Events(since)
	if err != nil {
		return nil, internalError("scan reward log", err)
	}

	sums := make(map[int64]decimal.Decimal)
	for _, ev := range events {
		sums[ev.UserID] = sums[ev.UserID].Add(ev.Amount)
	}

	ranked := make([]rankedUser, 0, len(sums))
	for userID, total := range sums {
		ranked = append(ranked, rankedUser{userID: userID, total: total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].total.Equal(ranked[j].total) {
			return ranked[i].total.GreaterThan(ranked[j].total)
		}
		return ranked[i].userID < ranked[j].userID
	})
	return ranked, nil
}

func (s *LeaderboardService) GetLeaderboard(timeframe models.Timeframe, limit int) ([]models.LeaderboardRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	ranked, err := s.rankWindow(timeframe)
	if err != nil {
		return nil, err
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	rows := make([]models.LeaderboardRow, 0, len(ranked))
	for i, entry := range ranked {
		row := models.LeaderboardRow{
			Rank:         i + 1,
			UserID:       entry.userID,
			RewardAmount: entry.total,
		}
		// Level is the user's current level, not the level at reward time.
		if rec, err := s.miners.GetMiner(entry.userID); err == nil {
			row.MiningLevel = rec.MiningLevel
		}
		if profile, err := s.profiles.GetProfile(entry.userID); err == nil {
			row.Username = profile.Username
			row.FirstName = profile.FirstName
			row.LastName = profile.LastName
			row.PhotoURL = profile.PhotoURL
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// GetUserRank computes the full ranking and extracts the caller's row. A user
// with no in-window events gets a nil rank rather than 0.
func (s *LeaderboardService) GetUserRank(userID int64, timeframe models.Timeframe) (*models.UserRank, error) {
	ranked, err := s.rankWindow(timeframe)
	if err != nil {
		return nil, err
	}

	result := &models.UserRank{
		Rewards:    decimal.Zero,
		TotalUsers: len(ranked),
		Timeframe:  timeframe,
	}
	for i, entry := range ranked {
		if entry.userID == userID {
			rank := i + 1
			result.Rank = &rank
			result.Rewards = entry.total
			break
		}
	}
	return result, nil
}
