package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/launchbase-dev/launchbase/db"
	"github.com/launchbase-dev/launchbase/internal/logger"
	"github.com/launchbase-dev/launchbase/internal/models"
	"github.com/launchbase-dev/launchbase/internal/types"
	"github.com/launchbase-dev/launchbase/internal/utils"
)

type UpdateTeamRequest struct {
	Name string `json:"name" binding:"required"`
}

type TeamMemberResponse struct {
	ID   uint               `json:"id"`
	Role string             `json:"role"`
	User types.UserResponse `json:"user"`
}

func GetTeam(ctx *gin.Context) {
	currentTeam, err := utils.GetCurrentTeam(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "No team"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"team": types.TeamResponse{
			ID:                 currentTeam.Team.ID,
			Name:               currentTeam.Team.Name,
			SubscriptionStatus: currentTeam.Team.SubscriptionStatus,
			PlanName:           currentTeam.Team.PlanName,
		},
		"role": currentTeam.Role,
	})
}

func UpdateTeam(ctx *gin.Context) {
	currentTeam, err := utils.GetCurrentTeam(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "No team"})
		return
	}

	var body UpdateTeamRequest

	if !bindJSON(ctx, &body) {
		return
	}

	team := currentTeam.Team
	team.Name = body.Name

	if err := db.DB.Save(&team).Error; err != nil {
		logger.Error("failed to update team", "team_id", team.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update team"})
		return
	}

	if userID, err := utils.GetCurrentUserID(ctx); err == nil {
		logActivity(ctx, team.ID, userID, types.ActionUpdateTeam)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"team": types.TeamResponse{
			ID:                 team.ID,
			Name:               team.Name,
			SubscriptionStatus: team.SubscriptionStatus,
			PlanName:           team.PlanName,
		},
	})
}

func ListTeamMembers(ctx *gin.Context) {
	currentTeam, err := utils.GetCurrentTeam(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "No team"})
		return
	}

	var members []models.TeamMember

	if err := db.DB.Preload("User").Where("team_id = ?", currentTeam.Team.ID).Find(&members).Error; err != nil {
		logger.Error("failed to list members", "team_id", currentTeam.Team.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}

	response := make([]TeamMemberResponse, 0, len(members))

	for _, member := range members {
		response = append(response, TeamMemberResponse{
			ID:   member.ID,
			Role: member.Role,
			User: types.UserResponse{
				ID:    member.User.ID,
				Name:  member.User.Name,
				Email: member.User.Email,
			},
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func RemoveTeamMember(ctx *gin.Context) {
	currentTeam, err := utils.GetCurrentTeam(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "No team"})
		return
	}

	memberID, err := utils.GetMemberID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var member models.TeamMember

	if err := db.DB.Where("id = ? AND team_id = ?", memberID, currentTeam.Team.ID).First(&member).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	if member.Role == types.RoleOwner {
		var ownerCount int64

		db.DB.Model(&models.TeamMember{}).Where("team_id = ? AND role = ?", currentTeam.Team.ID, types.RoleOwner).Count(&ownerCount)

		if ownerCount <= 1 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Cannot remove the last owner"})
			return
		}
	}

	if err := db.DB.Delete(&member).Error; err != nil {
		logger.Error("failed to remove member", "member_id", member.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	if userID, err := utils.GetCurrentUserID(ctx); err == nil {
		logActivity(ctx, currentTeam.Team.ID, userID, types.ActionRemoveTeamMember)
	}

	ctx.Status(http.StatusNoContent)
}
