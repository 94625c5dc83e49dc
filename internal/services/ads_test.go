package services_test

import (
	"testing"
	"time"

	"mining-miniapp-backend/internal/services"
)

func TestWatchAdGrantsTime(t *testing.T) {
	engine, store, _ := newTestEngine(t, testMiningConfig())
	userID := int64(2001)

	setupMiner(t, engine, store, userID, 0, 0)

	grant, err := engine.WatchAd(userID, "ad_video_short")
	if err != nil {
		t.Fatalf("Failed to watch ad: %v", err)
	}
	if grant.GrantedSeconds != 900 {
		t.Errorf("Expected 900 granted seconds, got %d", grant.GrantedSeconds)
	}
	if grant.AvailableMiningSeconds != 900 {
		t.Errorf("Expected available 900, got %d", grant.AvailableMiningSeconds)
	}

	// The grant alone makes mining possible again.
	if _, err := engine.Start(userID); err != nil {
		t.Errorf("Expected start to succeed on ad time, got %v", err)
	}
}

func TestWatchAdCooldown(t *testing.T) {
	engine, store, clock := newTestEngine(t, testMiningConfig())
	userID := int64(2002)

	setupMiner(t, engine, store, userID, 0, 7200)

	if _, err := engine.WatchAd(userID, "ad_video_short"); err != nil {
		t.Fatalf("First ad failed: %v", err)
	}

	if _, err := engine.WatchAd(userID, "ad_video_short"); err != services.ErrAdNotEligible {
		t.Errorf("Expected ErrAdNotEligible within cooldown, got %v", err)
	}

	clock.Advance(time.Duration(testMiningConfig().AdCooldownSeconds) * time.Second)

	if _, err := engine.WatchAd(userID, "ad_video_short"); err != nil {
		t.Errorf("Expected ad to succeed after cooldown, got %v", err)
	}
}

func TestWatchAdDailyCap(t *testing.T) {
	cfg := testMiningConfig()
	cfg.AdCooldownSeconds = 0
	cfg.AdDailyCapSeconds = 1200
	engine, store, _ := newTestEngine(t, cfg)
	userID := int64(2003)

	setupMiner(t, engine, store, userID, 0, 7200)

	// 900 fits; the second 900 is clamped to the remaining 300.
	if _, err := engine.WatchAd(userID, "ad_video_short"); err != nil {
		t.Fatalf("First ad failed: %v", err)
	}
	grant, err := engine.WatchAd(userID, "ad_video_short")
	if err != nil {
		t.Fatalf("Second ad failed: %v", err)
	}
	if grant.GrantedSeconds != 300 {
		t.Errorf("Expected grant clamped to 300, got %d", grant.GrantedSeconds)
	}

	// Cap exhausted: no partial credit.
	if _, err := engine.WatchAd(userID, "ad_video_short"); err != services.ErrAdNotEligible {
		t.Errorf("Expected ErrAdNotEligible at daily cap, got %v", err)
	}

	rec, _ := store.GetMiner(userID)
	if rec.AvailableMiningSeconds != 1200 {
		t.Errorf("Expected available 1200, got %d", rec.AvailableMiningSeconds)
	}
}

func TestWatchAdDailyCapResets(t *testing.T) {
	cfg := testMiningConfig()
	cfg.AdCooldownSeconds = 0
	cfg.AdDailyCapSeconds = 900
	engine, store, clock := newTestEngine(t, cfg)
	userID := int64(2004)

	setupMiner(t, engine, store, userID, 0, 7200)

	if _, err := engine.WatchAd(userID, "ad_video_short"); err != nil {
		t.Fatalf("First ad failed: %v", err)
	}
	if _, err := engine.WatchAd(userID, "ad_video_short"); err != services.ErrAdNotEligible {
		t.Errorf("Expected ErrAdNotEligible at cap, got %v", err)
	}

	clock.Advance(24 * time.Hour)

	if _, err := engine.WatchAd(userID, "ad_video_short"); err != nil {
		t.Errorf("Expected cap reset on new UTC day, got %v", err)
	}
}

func TestWatchAdUnknownAd(t *testing.T) {
	engine, store, _ := newTestEngine(t, testMiningConfig())
	userID := int64(2005)

	setupMiner(t, engine, store, userID, 0, 7200)

	if _, err := engine.WatchAd(userID, "no_such_ad"); err != services.ErrAdNotEligible {
		t.Errorf("Expected ErrAdNotEligible for unknown ad, got %v", err)
	}
}

func TestEligibleAds(t *testing.T) {
	engine, _, _ := newTestEngine(t, testMiningConfig())

	ads := engine.EligibleAds(2006)
	if len(ads) == 0 {
		t.Fatal("Expected a non-empty ad inventory")
	}
	for _, ad := range ads {
		if ad.ID == "" || ad.RewardSeconds <= 0 {
			t.Errorf("Malformed ad descriptor: %+v", ad)
		}
	}
}
