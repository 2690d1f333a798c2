package services

import (
	"encoding/json"

	"github.com/launchbase-dev/launchbase/db"
	"github.com/launchbase-dev/launchbase/internal/models"
	"gorm.io/datatypes"
)

// RecordActivity appends an audit entry for a team. Entries are never
// updated or deleted afterwards.
func RecordActivity(teamID uint, userID uint, action string, ipAddress string, metadata map[string]interface{}) (*models.ActivityLog, error) {
	entry := models.ActivityLog{
		TeamID:    teamID,
		UserID:    userID,
		Action:    action,
		IPAddress: ipAddress,
	}

	if metadata != nil {
		raw, err := json.Marshal(metadata)

		if err != nil {
			return nil, err
		}

		entry.Metadata = datatypes.JSON(raw)
	}

	if err := db.DB.Create(&entry).Error; err != nil {
		return nil, err
	}

	return &entry, nil
}
