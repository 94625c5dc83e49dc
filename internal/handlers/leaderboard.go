package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mining-miniapp-backend/internal/models"
	"mining-miniapp-backend/internal/services"
)

type LeaderboardHandler struct {
	service *services.LeaderboardService
}

func NewLeaderboardHandler(service *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	timeframe, err := models.ParseTimeframe(c.Query("timeframe"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}

	rows, err := h.service.GetLeaderboard(timeframe, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		data = append(data, gin.H{
			"rank":         row.Rank,
			"userId":       row.UserID,
			"username":     row.Username,
			"firstName":    row.FirstName,
			"lastName":     row.LastName,
			"photoUrl":     row.PhotoURL,
			"miningLevel":  row.MiningLevel,
			"rewardAmount": row.RewardAmount.InexactFloat64(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"leaderboard": gin.H{
			"timeframe": timeframe,
			"data":      data,
			"count":     len(data),
		},
	})
}

func (h *LeaderboardHandler) GetUserRank(c *gin.Context) {
	userID := c.GetInt64("user_id")

	timeframe, err := models.ParseTimeframe(c.Query("timeframe"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	rank, err := h.service.GetUserRank(userID, timeframe)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"rank":       rank.Rank, // null when the user has no in-window rewards
		"rewards":    rank.Rewards.InexactFloat64(),
		"totalUsers": rank.TotalUsers,
		"timeframe":  rank.Timeframe,
	})
}
