package models

// Ad is a descriptor supplied by the ad-inventory collaborator. The gate only
// cares about RewardSeconds; the rest is display metadata for the client.
type Ad struct {
	ID              string `json:"id"`
	Type            string `json:"type"` // video, interstitial, ...
	RewardSeconds   int64  `json:"reward_seconds"`
	DurationSeconds int64  `json:"duration_seconds"`
}

type AdGrant struct {
	AdID                   string `json:"ad_id"`
	GrantedSeconds         int64  `json:"granted_seconds"`
	AvailableMiningSeconds int64  `json:"available_mining_seconds"`
}

type WatchAdRequest struct {
	AdID string `json:"ad_id" binding:"required"`
}
