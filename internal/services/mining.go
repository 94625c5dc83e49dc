package services

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"mining-miniapp-backend/internal/config"
	"mining-miniapp-backend/internal/models"
)

// rewardPrecision is the number of decimal places kept on every reward and
// cost amount. The client renders coins with 6 decimals.
const rewardPrecision = 6

var secondsPerHour = decimal.NewFromInt(3600)

// MiningEngine owns all mutations of MinerRecords. Each record is mutated
// under a per-user mutex so two operations for the same user never interleave;
// operations for different users run concurrently.
type MiningEngine struct {
	store     MinerStore
	rewards   RewardLog
	inventory AdInventory
	clock     Clock
	cfg       config.MiningConfig
	notifier  StatusNotifier

	mu        sync.Mutex
	userLocks map[int64]*sync.Mutex
}

func NewMiningEngine(store MinerStore, rewards RewardLog, inventory AdInventory, clock Clock, cfg config.MiningConfig) *MiningEngine {
	return &MiningEngine{
		store:     store,
		rewards:   rewards,
		inventory: inventory,
		clock:     clock,
		cfg:       cfg,
		userLocks: make(map[int64]*sync.Mutex),
	}
}

// SetNotifier wires the live-status push channel. Must be called before the
// engine starts serving requests.
func (e *MiningEngine) SetNotifier(n StatusNotifier) {
	e.notifier = n
}

func (e *MiningEngine) userLock(userID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, ok := e.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		e.userLocks[userID] = l
	}
	return l
}

// EnsureMiner returns the user's record, creating it with defaults on first
// authentication.
func (e *MiningEngine) EnsureMiner(userID int64) (*models.MinerRecord, error) {
	l := e.userLock(userID)
	l.Lock()
	defer l.Unlock()

	rec, err := e.store.GetMiner(userID)
	if err == nil {
		return rec, nil
	}
	if err != ErrMinerNotFound {
		return nil, internalError("get miner", err)
	}

	now := e.clock.Now()
	rec = &models.MinerRecord{
		UserID:                 userID,
		Balance:                decimal.Zero,
		PendingReward:          decimal.Zero,
		TotalRewards:           decimal.Zero,
		MiningLevel:            1,
		MiningRate:             e.rateForLevel(1),
		UpgradeCost:            decimal.NewFromFloat(e.cfg.BaseUpgradeCost).Round(rewardPrecision),
		SessionDurationSeconds: e.cfg.SessionSeconds,
		RemainingDailySeconds:  e.cfg.DailySeconds,
		LastDailyReset:         models.UTCDay(now),
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := e.store.SaveMiner(rec); err != nil {
		return nil, internalError("save miner", err)
	}
	return rec, nil
}

// Start opens a mining session. The runnable duration is capped by the
// session limit and by the smaller positive time budget; a zero ad bank does
// not block mining while daily time remains, and vice versa.
func (e *MiningEngine) Start(userID int64) (*models.MinerRecord, error) {
	l := e.userLock(userID)
	l.Lock()
	defer l.Unlock()

	rec, err := e.loadMiner(userID)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	e.applyDailyReset(rec, now)

	if rec.IsActive {
		return nil, ErrAlreadyMining
	}
	if rec.AvailableMiningSeconds == 0 && rec.RemainingDailySeconds == 0 {
		return nil, ErrQuotaExhausted
	}

	rec.IsActive = true
	rec.SessionStartedAt = now
	rec.SessionDurationSeconds = e.cfg.SessionSeconds
	rec.RemainingSessionSeconds = e.runnableSeconds(rec)
	rec.LastMiningTime = now
	rec.UpdatedAt = now

	if err := e.store.SaveMiner(rec); err != nil {
		return nil, internalError("save miner", err)
	}
	e.notify(rec)
	return rec, nil
}

// Stop closes the active session, debits both time budgets by the true
// elapsed time and flushes the accrued reward into pendingReward.
func (e *MiningEngine) Stop(userID int64) (*models.StopResult, error) {
	l := e.userLock(userID)
	l.Lock()
	defer l.Unlock()

	rec, err := e.loadMiner(userID)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	e.applyDailyReset(rec, now)

	if !rec.IsActive {
		return nil, ErrNotMining
	}

	res := e.commitStop(rec, now)
	if err := e.store.SaveMiner(rec); err != nil {
		return nil, internalError("save miner", err)
	}
	e.notify(rec)
	return res, nil
}

// Status returns a dry projection of the record: live elapsed time and
// remaining quotas are computed without committing any debit, so polling
// never double-charges. A session whose cap has run out is committed here
// with the same logic as an explicit stop.
func (e *MiningEngine) Status(userID int64) (*models.MiningStatus, error) {
	l := e.userLock(userID)
	l.Lock()
	defer l.Unlock()

	rec, err := e.loadMiner(userID)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	reset := e.applyDailyReset(rec, now)

	if !rec.IsActive {
		if reset {
			if err := e.store.SaveMiner(rec); err != nil {
				return nil, internalError("save miner", err)
			}
		}
		return e.statusFromRecord(rec), nil
	}

	elapsed := elapsedSeconds(rec.SessionStartedAt, now)
	if elapsed >= rec.RemainingSessionSeconds {
		// Session cap reached: auto-stop with the regular accounting.
		e.commitStop(rec, now)
		if err := e.store.SaveMiner(rec); err != nil {
			return nil, internalError("save miner", err)
		}
		e.notify(rec)
		return e.statusFromRecord(rec), nil
	}

	if reset {
		if err := e.store.SaveMiner(rec); err != nil {
			return nil, internalError("save miner", err)
		}
	}

	st := e.statusFromRecord(rec)
	st.ElapsedSeconds = elapsed
	st.ProjectedReward = e.accrue(elapsed, rec.MiningRate)
	st.RemainingSessionSeconds = rec.RemainingSessionSeconds - elapsed
	st.AvailableMiningSeconds = floorZero(rec.AvailableMiningSeconds - elapsed)
	st.RemainingDailySeconds = floorZero(rec.RemainingDailySeconds - elapsed)
	return st, nil
}

// Collect moves pendingReward into balance and appends exactly one reward
// event. Only permitted while idle.
func (e *MiningEngine) Collect(userID int64) (*models.CollectResult, error) {
	l := e.userLock(userID)
	l.Lock()
	defer l.Unlock()

	rec, err := e.loadMiner(userID)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	e.applyDailyReset(rec, now)

	if rec.IsActive {
		return nil, ErrAlreadyMining
	}
	if !rec.PendingReward.IsPositive() {
		return nil, ErrNothingToCollect
	}

	amount := rec.PendingReward
	duration := rec.UncollectedSeconds
	rec.Balance = rec.Balance.Add(amount)
	rec.TotalRewards = rec.TotalRewards.Add(amount)
	rec.PendingReward = decimal.Zero
	rec.UncollectedSeconds = 0
	rec.LastMiningTime = now
	rec.UpdatedAt = now

	ev := &models.RewardEvent{
		ID:              models.GenerateRewardEventID(),
		UserID:          userID,
		Amount:          amount,
		MiningLevel:     rec.MiningLevel,
		DurationSeconds: duration,
		OccurredAt:      now,
	}

	if committer, ok := e.store.(CollectCommitter); ok {
		if err := committer.CommitCollect(rec, ev); err != nil {
			return nil, internalError("commit collect", err)
		}
	} else {
		if err := e.store.SaveMiner(rec); err != nil {
			return nil, internalError("save miner", err)
		}
		if err := e.rewards.AppendRewardEvent(ev); err != nil {
			return nil, internalError("append reward event", err)
		}
	}

	e.notify(rec)
	return &models.CollectResult{RewardCollected: amount, NewBalance: rec.Balance}, nil
}

// Upgrade buys one mining level. Level changes are only permitted while idle
// so the rate stays fixed for the duration of any running session.
func (e *MiningEngine) Upgrade(userID int64) (*models.UpgradeResult, error) {
	l := e.userLock(userID)
	l.Lock()
	defer l.Unlock()

	rec, err := e.loadMiner(userID)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	e.applyDailyReset(rec, now)

	if rec.IsActive {
		return nil, ErrAlreadyMining
	}
	if rec.MiningLevel >= e.cfg.MaxMiningLevel {
		return nil, ErrMaxLevelReached
	}
	if rec.Balance.LessThan(rec.UpgradeCost) {
		return nil, ErrNotEnoughBalance
	}

	rec.Balance = rec.Balance.Sub(rec.UpgradeCost)
	rec.MiningLevel++
	rec.MiningRate = e.rateForLevel(rec.MiningLevel)
	rec.UpgradeCost = rec.UpgradeCost.
		Mul(decimal.NewFromFloat(e.cfg.UpgradeGrowthFactor)).
		Round(rewardPrecision)
	rec.UpdatedAt = now

	if err := e.store.SaveMiner(rec); err != nil {
		return nil, internalError("save miner", err)
	}
	e.notify(rec)
	return &models.UpgradeResult{
		NewLevel:        rec.MiningLevel,
		NewRate:         rec.MiningRate,
		NewBalance:      rec.Balance,
		NextUpgradeCost: rec.UpgradeCost,
	}, nil
}

// WatchAd credits the ad's reward seconds to the user's mining-time bank,
// clamped to the daily ad cap. Cooldown or an exhausted cap reject the whole
// credit; there is no partial grant below the clamp.
func (e *MiningEngine) WatchAd(userID int64, adID string) (*models.AdGrant, error) {
	l := e.userLock(userID)
	l.Lock()
	defer l.Unlock()

	rec, err := e.loadMiner(userID)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	e.applyDailyReset(rec, now)

	ad, ok := e.inventory.FindAd(adID)
	if !ok {
		return nil, ErrAdNotEligible
	}
	if !rec.LastAdWatchedAt.IsZero() && now.Sub(rec.LastAdWatchedAt) < time.Duration(e.cfg.AdCooldownSeconds)*time.Second {
		return nil, ErrAdNotEligible
	}
	headroom := e.cfg.AdDailyCapSeconds - rec.AdSecondsGrantedToday
	if headroom <= 0 {
		return nil, ErrAdNotEligible
	}

	grant := ad.RewardSeconds
	if grant > headroom {
		grant = headroom
	}
	rec.AvailableMiningSeconds += grant
	rec.AdSecondsGrantedToday += grant
	rec.LastAdWatchedAt = now
	rec.UpdatedAt = now

	if err := e.store.SaveMiner(rec); err != nil {
		return nil, internalError("save miner", err)
	}
	e.notify(rec)
	return &models.AdGrant{
		AdID:                   ad.ID,
		GrantedSeconds:         grant,
		AvailableMiningSeconds: rec.AvailableMiningSeconds,
	}, nil
}

func (e *MiningEngine) EligibleAds(userID int64) []models.Ad {
	return e.inventory.EligibleAds(userID)
}

func (e *MiningEngine) RewardHistory(userID int64, limit int64) ([]models.RewardEvent, error) {
	events, err := e.rewards.UserEvents(userID, limit)
	if err != nil {
		return nil, internalError("load reward history", err)
	}
	return events, nil
}

func (e *MiningEngine) loadMiner(userID int64) (*models.MinerRecord, error) {
	rec, err := e.store.GetMiner(userID)
	if err == ErrMinerNotFound {
		return nil, ErrMinerNotFound
	}
	if err != nil {
		return nil, internalError("get miner", err)
	}
	return rec, nil
}

// commitStop performs the shared stop accounting: clamp elapsed time to the
// session cap, debit both budgets floored at zero, accrue the reward at the
// rate fixed at session start.
func (e *MiningEngine) commitStop(rec *models.MinerRecord, now time.Time) *models.StopResult {
	elapsed := elapsedSeconds(rec.SessionStartedAt, now)
	if elapsed > rec.RemainingSessionSeconds {
		elapsed = rec.RemainingSessionSeconds
	}

	rec.AvailableMiningSeconds = floorZero(rec.AvailableMiningSeconds - elapsed)
	rec.RemainingDailySeconds = floorZero(rec.RemainingDailySeconds - elapsed)

	reward := e.accrue(elapsed, rec.MiningRate)
	rec.PendingReward = rec.PendingReward.Add(reward)
	rec.UncollectedSeconds += elapsed
	rec.RemainingSessionSeconds -= elapsed
	rec.IsActive = false
	rec.LastMiningTime = now
	rec.UpdatedAt = now

	return &models.StopResult{
		MinedSeconds:  elapsed,
		RewardEarned:  reward,
		PendingReward: rec.PendingReward,
	}
}

// applyDailyReset lazily replenishes the daily budget when a UTC day boundary
// has been crossed since the stored reset date. Returns true if it mutated
// the record.
func (e *MiningEngine) applyDailyReset(rec *models.MinerRecord, now time.Time) bool {
	today := models.UTCDay(now)
	if rec.LastDailyReset == today {
		return false
	}
	rec.LastDailyReset = today
	rec.RemainingDailySeconds = e.cfg.DailySeconds
	rec.AdSecondsGrantedToday = 0
	return true
}

// runnableSeconds caps a new session by the smaller positive time budget and
// the per-session limit.
func (e *MiningEngine) runnableSeconds(rec *models.MinerRecord) int64 {
	quota := int64(0)
	switch {
	case rec.AvailableMiningSeconds > 0 && rec.RemainingDailySeconds > 0:
		quota = rec.AvailableMiningSeconds
		if rec.RemainingDailySeconds < quota {
			quota = rec.RemainingDailySeconds
		}
	case rec.AvailableMiningSeconds > 0:
		quota = rec.AvailableMiningSeconds
	case rec.RemainingDailySeconds > 0:
		quota = rec.RemainingDailySeconds
	}
	if quota > e.cfg.SessionSeconds {
		quota = e.cfg.SessionSeconds
	}
	return quota
}

func (e *MiningEngine) rateForLevel(level int) decimal.Decimal {
	return decimal.NewFromFloat(e.cfg.BaseMiningRate).
		Add(decimal.NewFromFloat(e.cfg.RateStepPerLevel).Mul(decimal.NewFromInt(int64(level - 1)))).
		Round(rewardPrecision)
}

func (e *MiningEngine) accrue(elapsed int64, rate decimal.Decimal) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(elapsed)).Div(secondsPerHour).Round(rewardPrecision)
}

func (e *MiningEngine) statusFromRecord(rec *models.MinerRecord) *models.MiningStatus {
	st := &models.MiningStatus{
		IsActive:                rec.IsActive,
		MiningLevel:             rec.MiningLevel,
		MiningRate:              rec.MiningRate,
		Balance:                 rec.Balance,
		PendingReward:           rec.PendingReward,
		ProjectedReward:         decimal.Zero,
		UpgradeCost:             rec.UpgradeCost,
		RemainingSessionSeconds: rec.RemainingSessionSeconds,
		AvailableMiningSeconds:  rec.AvailableMiningSeconds,
		RemainingDailySeconds:   rec.RemainingDailySeconds,
	}
	if rec.IsActive {
		st.SessionStartedAt = rec.SessionStartedAt
	}
	return st
}

func (e *MiningEngine) notify(rec *models.MinerRecord) {
	if e.notifier == nil {
		return
	}
	e.notifier.NotifyStatus(rec.UserID, e.statusFromRecord(rec))
}

func elapsedSeconds(start, now time.Time) int64 {
	secs := int64(now.Sub(start).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}

func floorZero(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
