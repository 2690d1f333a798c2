package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/launchbase-dev/launchbase/db"
	"github.com/launchbase-dev/launchbase/internal/logger"
	"github.com/launchbase-dev/launchbase/internal/models"
	"github.com/launchbase-dev/launchbase/internal/utils"
)

const defaultActivityLimit = 20

type ActivityEntry struct {
	ID        uint      `json:"id"`
	Action    string    `json:"action"`
	UserID    uint      `json:"user_id"`
	UserName  string    `json:"user_name"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}

func ListActivity(ctx *gin.Context) {
	currentTeam, err := utils.GetCurrentTeam(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "No team"})
		return
	}

	limit := defaultActivityLimit

	if limitStr := ctx.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	var entries []models.ActivityLog

	if err := db.DB.Where("team_id = ?", currentTeam.Team.ID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		logger.Error("failed to list activity", "team_id", currentTeam.Team.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
		return
	}

	// Soft-deleted actors are still resolved so the audit trail remains
	// readable after an account deletion.
	userIDs := make([]uint, 0, len(entries))

	for _, entry := range entries {
		userIDs = append(userIDs, entry.UserID)
	}

	names := make(map[uint]string)

	if len(userIDs) > 0 {
		var users []models.User

		if err := db.DB.Unscoped().Where("id IN ?", userIDs).Find(&users).Error; err == nil {
			for _, user := range users {
				names[user.ID] = user.Name
			}
		}
	}

	response := make([]ActivityEntry, 0, len(entries))

	for _, entry := range entries {
		response = append(response, ActivityEntry{
			ID:        entry.ID,
			Action:    entry.Action,
			UserID:    entry.UserID,
			UserName:  names[entry.UserID],
			IPAddress: entry.IPAddress,
			CreatedAt: entry.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, response)
}
