package services

import "mining-miniapp-backend/internal/models"

// StaticAdInventory serves a fixed ad catalog. A real inventory provider
// would sit behind the same interface.
type StaticAdInventory struct {
	ads []models.Ad
}

func NewStaticAdInventory(ads []models.Ad) *StaticAdInventory {
	if len(ads) == 0 {
		ads = DefaultAds()
	}
	return &StaticAdInventory{ads: ads}
}

func DefaultAds() []models.Ad {
	return []models.Ad{
		{ID: "ad_video_short", Type: "video", RewardSeconds: 900, DurationSeconds: 15},
		{ID: "ad_video_long", Type: "video", RewardSeconds: 1800, DurationSeconds: 30},
		{ID: "ad_interstitial", Type: "interstitial", RewardSeconds: 600, DurationSeconds: 10},
	}
}

func (inv *StaticAdInventory) EligibleAds(userID int64) []models.Ad {
	out := make([]models.Ad, len(inv.ads))
	copy(out, inv.ads)
	return out
}

func (inv *StaticAdInventory) FindAd(adID string) (*models.Ad, bool) {
	for i := range inv.ads {
		if inv.ads[i].ID == adID {
			return &inv.ads[i], true
		}
	}
	return nil, false
}
