package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mining-miniapp-backend/internal/services"
)

type UserHandler struct {
	redisService *services.RedisService
	engine       *services.MiningEngine
}

func NewUserHandler(redisService *services.RedisService, engine *services.MiningEngine) *UserHandler {
	return &UserHandler{
		redisService: redisService,
		engine:       engine,
	}
}

// GetProfile combines the stored Telegram profile with the user's mining
// statistics for the profile screen.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := c.GetInt64("user_id")

	status, err := h.engine.Status(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	profile := gin.H{
		"miningLevel":         status.MiningLevel,
		"miningRate":          status.MiningRate.InexactFloat64(),
		"balance":             status.Balance.InexactFloat64(),
		"pendingReward":       status.PendingReward.InexactFloat64(),
		"isMining":            status.IsActive,
		"upgradeCost":         status.UpgradeCost.InexactFloat64(),
		"miningTimeRemaining": float64(status.AvailableMiningSeconds+status.RemainingDailySeconds) / 3600,
	}

	if rec, err := h.engine.EnsureMiner(userID); err == nil {
		profile["totalRewards"] = rec.TotalRewards.InexactFloat64()
	}

	if tgUser, err := h.redisService.GetProfile(userID); err == nil {
		profile["id"] = tgUser.ID
		profile["firstName"] = tgUser.FirstName
		profile["lastName"] = tgUser.LastName
		profile["username"] = tgUser.Username
		profile["photoUrl"] = tgUser.PhotoURL
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"profile": profile,
	})
}
