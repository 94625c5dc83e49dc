package services_test

import (
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"mining-miniapp-backend/internal/config"
	"mining-miniapp-backend/internal/models"
	"mining-miniapp-backend/internal/services"
)

// fakeClock lets tests advance time without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memStore is an in-memory MinerStore + RewardLog + ProfileStore with copy
// semantics, so nothing persists unless the engine saves it.
type memStore struct {
	mu       sync.Mutex
	miners   map[int64]models.MinerRecord
	events   []models.RewardEvent
	profiles map[int64]models.TelegramUser
}

func newMemStore() *memStore {
	return &memStore{
		miners:   make(map[int64]models.MinerRecord),
		profiles: make(map[int64]models.TelegramUser),
	}
}

func (s *memStore) GetMiner(userID int64) (*models.MinerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.miners[userID]
	if !ok {
		return nil, services.ErrMinerNotFound
	}
	out := rec
	return &out, nil
}

func (s *memStore) SaveMiner(rec *models.MinerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.miners[rec.UserID] = *rec
	return nil
}

func (s *memStore) AppendRewardEvent(ev *models.RewardEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, *ev)
	return nil
}

func (s *memStore) Events(since time.Time) ([]models.RewardEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.RewardEvent, 0, len(s.events))
	for _, ev := range s.events {
		if since.IsZero() || !ev.OccurredAt.Before(since) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *memStore) UserEvents(userID int64, limit int64) ([]models.RewardEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.RewardEvent, 0)
	for _, ev := range s.events {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) GetProfile(userID int64) (*models.TelegramUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, errors.New("profile not found")
	}
	out := profile
	return &out, nil
}

func (s *memStore) SaveProfile(user *models.TelegramUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[user.ID] = *user
	return nil
}

func testMiningConfig() config.MiningConfig {
	return config.MiningConfig{
		BaseMiningRate:      10,
		RateStepPerLevel:    5,
		SessionSeconds:      3600,
		DailySeconds:        14400,
		BaseUpgradeCost:     100,
		UpgradeGrowthFactor: 1.5,
		MaxMiningLevel:      1000,
		AdCooldownSeconds:   300,
		AdDailyCapSeconds:   7200,
	}
}

// Wednesday, so the weekly window (since Monday 00:00 UTC) has some depth.
var testEpoch = time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, cfg config.MiningConfig) (*services.MiningEngine, *memStore, *fakeClock) {
	t.Helper()

	store := newMemStore()
	clock := newFakeClock(testEpoch)
	engine := services.NewMiningEngine(store, store, services.NewStaticAdInventory(nil), clock, cfg)
	return engine, store, clock
}

// setupMiner creates a record and overrides its time budgets.
func setupMiner(t *testing.T, engine *services.MiningEngine, store *memStore, userID, available, daily int64) *models.MinerRecord {
	t.Helper()

	rec, err := engine.EnsureMiner(userID)
	if err != nil {
		t.Fatalf("Failed to ensure miner: %v", err)
	}
	rec.AvailableMiningSeconds = available
	rec.RemainingDailySeconds = daily
	if err := store.SaveMiner(rec); err != nil {
		t.Fatalf("Failed to save miner: %v", err)
	}
	return rec
}
