package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/launchbase-dev/launchbase/db"
	"github.com/launchbase-dev/launchbase/internal/logger"
	"github.com/launchbase-dev/launchbase/internal/models"
	"github.com/launchbase-dev/launchbase/internal/types"
	"github.com/launchbase-dev/launchbase/internal/utils"
	"gorm.io/gorm"
)

type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=owner member"`
}

type InvitationResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	InvitedBy string    `json:"invited_by"`
	CreatedAt time.Time `json:"created_at"`
}

func CreateInvitation(ctx *gin.Context) {
	currentTeam, err := utils.GetCurrentTeam(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "No team"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateInvitationRequest

	if !bindJSON(ctx, &body) {
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	// An existing member should not be invited again
	var existingMember models.TeamMember

	err = db.DB.Joins("User").
		Where("team_members.team_id = ? AND \"User\".email = ?", currentTeam.Team.ID, body.Email).
		First(&existingMember).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "User is already a member of this team"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("failed to check membership", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var existingInvitation models.Invitation

	err = db.DB.Where("team_id = ? AND email = ? AND status = ?", currentTeam.Team.ID, body.Email, types.InvitationPending).
		First(&existingInvitation).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "An invitation for this email is already pending"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("failed to check pending invitations", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	invitation := models.Invitation{
		TeamID:      currentTeam.Team.ID,
		Email:       body.Email,
		Role:        body.Role,
		Status:      types.InvitationPending,
		InvitedByID: userID,
	}

	if err := db.DB.Create(&invitation).Error; err != nil {
		logger.Error("failed to create invitation", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	logActivity(ctx, currentTeam.Team.ID, userID, types.ActionInviteTeamMember)

	ctx.JSON(http.StatusCreated, InvitationResponse{
		ID:        invitation.ID,
		Email:     invitation.Email,
		Role:      invitation.Role,
		Status:    invitation.Status,
		CreatedAt: invitation.CreatedAt,
	})
}

func ListInvitations(ctx *gin.Context) {
	currentTeam, err := utils.GetCurrentTeam(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "No team"})
		return
	}

	var invitations []models.Invitation

	if err := db.DB.Preload("InvitedBy").
		Where("team_id = ? AND status = ?", currentTeam.Team.ID, types.InvitationPending).
		Find(&invitations).Error; err != nil {
		logger.Error("failed to list invitations", "team_id", currentTeam.Team.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invitations"})
		return
	}

	response := make([]InvitationResponse, 0, len(invitations))

	for _, invitation := range invitations {
		response = append(response, InvitationResponse{
			ID:        invitation.ID,
			Email:     invitation.Email,
			Role:      invitation.Role,
			Status:    invitation.Status,
			InvitedBy: invitation.InvitedBy.Name,
			CreatedAt: invitation.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func RevokeInvitation(ctx *gin.Context) {
	currentTeam, err := utils.GetCurrentTeam(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "No team"})
		return
	}

	invitationID, err := utils.GetInvitationID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var invitation models.Invitation

	if err := db.DB.Where("id = ? AND team_id = ?", invitationID, currentTeam.Team.ID).First(&invitation).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		return
	}

	// pending -> revoked, once
	if invitation.Status != types.InvitationPending {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invitation is no longer pending"})
		return
	}

	invitation.Status = types.InvitationRevoked

	if err := db.DB.Save(&invitation).Error; err != nil {
		logger.Error("failed to revoke invitation", "invitation_id", invitation.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke invitation"})
		return
	}

	if userID, err := utils.GetCurrentUserID(ctx); err == nil {
		logActivity(ctx, currentTeam.Team.ID, userID, types.ActionRevokeInvitation)
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Invitation revoked"})
}

// AcceptInvitation joins the authenticated user to the inviting team. It is
// deliberately outside the team-scoped group so users without a team can
// accept.
func AcceptInvitation(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	invitationID, err := utils.GetInvitationID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var invitation models.Invitation

	if err := db.DB.First(&invitation, invitationID).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		return
	}

	if invitation.Status != types.InvitationPending {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invitation is no longer pending"})
		return
	}

	if !strings.EqualFold(invitation.Email, currentUser.Email) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Invitation was issued for a different email"})
		return
	}

	membership := models.TeamMember{
		UserID: currentUser.ID,
		TeamID: invitation.TeamID,
		Role:   invitation.Role,
	}

	if err := db.DB.Create(&membership).Error; err != nil {
		logger.Error("failed to create membership", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join team"})
		return
	}

	invitation.Status = types.InvitationAccepted

	if err := db.DB.Save(&invitation).Error; err != nil {
		logger.Error("failed to mark invitation accepted", "invitation_id", invitation.ID, "error", err)
	}

	logActivity(ctx, invitation.TeamID, currentUser.ID, types.ActionAcceptInvitation)

	ctx.JSON(http.StatusOK, gin.H{"message": "Invitation accepted"})
}
