package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mining-miniapp-backend/internal/models"
	"mining-miniapp-backend/internal/services"
)

type MiningHandler struct {
	engine *services.MiningEngine
}

func NewMiningHandler(engine *services.MiningEngine) *MiningHandler {
	return &MiningHandler{engine: engine}
}

func (h *MiningHandler) Start(c *gin.Context) {
	userID := c.GetInt64("user_id")

	rec, err := h.engine.Start(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": gin.H{
			"started_at":                rec.SessionStartedAt,
			"remaining_session_seconds": rec.RemainingSessionSeconds,
			"available_mining_seconds":  rec.AvailableMiningSeconds,
			"remaining_daily_seconds":   rec.RemainingDailySeconds,
			"mining_rate":               rec.MiningRate.InexactFloat64(),
		},
	})
}

func (h *MiningHandler) Stop(c *gin.Context) {
	userID := c.GetInt64("user_id")

	result, err := h.engine.Stop(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result": gin.H{
			"mined_seconds":  result.MinedSeconds,
			"reward_earned":  result.RewardEarned.InexactFloat64(),
			"pending_reward": result.PendingReward.InexactFloat64(),
		},
	})
}

func (h *MiningHandler) Status(c *gin.Context) {
	userID := c.GetInt64("user_id")

	status, err := h.engine.Status(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  statusJSON(status),
	})
}

func (h *MiningHandler) Collect(c *gin.Context) {
	userID := c.GetInt64("user_id")

	result, err := h.engine.Collect(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result": gin.H{
			"reward_collected": result.RewardCollected.InexactFloat64(),
			"new_balance":      result.NewBalance.InexactFloat64(),
		},
	})
}

func (h *MiningHandler) Upgrade(c *gin.Context) {
	userID := c.GetInt64("user_id")

	result, err := h.engine.Upgrade(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result": gin.H{
			"new_level":         result.NewLevel,
			"new_rate":          result.NewRate.InexactFloat64(),
			"new_balance":       result.NewBalance.InexactFloat64(),
			"next_upgrade_cost": result.NextUpgradeCost.InexactFloat64(),
		},
	})
}

func (h *MiningHandler) GetRewards(c *gin.Context) {
	userID := c.GetInt64("user_id")

	limitStr := c.DefaultQuery("limit", "20")
	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil {
		limit = 20
	}

	events, err := h.engine.RewardHistory(userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]gin.H, 0, len(events))
	for _, ev := range events {
		items = append(items, gin.H{
			"id":             ev.ID,
			"amount":         ev.Amount.InexactFloat64(),
			"mining_level":   ev.MiningLevel,
			"duration_hours": float64(ev.DurationSeconds) / 3600,
			"reward_time":    ev.OccurredAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rewards": gin.H{
			"items": items,
			"count": len(items),
		},
	})
}

func statusJSON(status *models.MiningStatus) gin.H {
	out := gin.H{
		"is_mining":                 status.IsActive,
		"mining_level":              status.MiningLevel,
		"mining_rate":               status.MiningRate.InexactFloat64(),
		"balance":                   status.Balance.InexactFloat64(),
		"pending_reward":            status.PendingReward.InexactFloat64(),
		"projected_reward":          status.ProjectedReward.InexactFloat64(),
		"upgrade_cost":              status.UpgradeCost.InexactFloat64(),
		"elapsed_seconds":           status.ElapsedSeconds,
		"remaining_session_seconds": status.RemainingSessionSeconds,
		"available_mining_seconds":  status.AvailableMiningSeconds,
		"remaining_daily_seconds":   status.RemainingDailySeconds,
	}
	if status.IsActive {
		out["session_started_at"] = status.SessionStartedAt
	}
	return out
}
