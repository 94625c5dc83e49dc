package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mining-miniapp-backend/internal/models"
	"mining-miniapp-backend/internal/services"
)

type AdHandler struct {
	engine *services.MiningEngine
}

func NewAdHandler(engine *services.MiningEngine) *AdHandler {
	return &AdHandler{engine: engine}
}

func (h *AdHandler) GetEligible(c *gin.Context) {
	userID := c.GetInt64("user_id")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"ads":     h.engine.EligibleAds(userID),
	})
}

func (h *AdHandler) Watch(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req models.WatchAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request",
		})
		return
	}

	grant, err := h.engine.WatchAd(userID, req.AdID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"grant": gin.H{
			"ad_id":                    grant.AdID,
			"granted_seconds":          grant.GrantedSeconds,
			"available_mining_seconds": grant.AvailableMiningSeconds,
		},
	})
}
