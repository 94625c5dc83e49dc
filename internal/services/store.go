package services

import (
	"time"

	"mining-miniapp-backend/internal/models"
)

// MinerStore persists one MinerRecord per user. GetMiner returns
// ErrMinerNotFound for unknown users.
type MinerStore interface {
	GetMiner(userID int64) (*models.MinerRecord, error)
	SaveMiner(rec *models.MinerRecord) error
}

// RewardLog is the append-only event log the leaderboard aggregates over.
// Appends from different users may race; Events returns a best-effort
// snapshot of everything that occurred at or after since.
type RewardLog interface {
	AppendRewardEvent(ev *models.RewardEvent) error
	Events(since time.Time) ([]models.RewardEvent, error)
	UserEvents(userID int64, limit int64) ([]models.RewardEvent, error)
}

// CollectCommitter is an optional store capability: persist the collected
// record and append its reward event as one atomic unit. Stores without it
// fall back to save-then-append.
type CollectCommitter interface {
	CommitCollect(rec *models.MinerRecord, ev *models.RewardEvent) error
}

type ProfileStore interface {
	GetProfile(userID int64) (*models.TelegramUser, error)
	SaveProfile(user *models.TelegramUser) error
}

// AdInventory is the external collaborator supplying ad candidates. The gate
// itself only enforces cooldown and the daily grant cap.
type AdInventory interface {
	EligibleAds(userID int64) []models.Ad
	FindAd(adID string) (*models.Ad, bool)
}

// StatusNotifier receives a fresh status projection after every committed
// state change, so connected clients see updates without polling.
type StatusNotifier interface {
	NotifyStatus(userID int64, status *models.MiningStatus)
}
