package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/launchbase-dev/launchbase/db"
	"github.com/launchbase-dev/launchbase/internal/auth"
	"github.com/launchbase-dev/launchbase/internal/logger"
	"github.com/launchbase-dev/launchbase/internal/models"
	"github.com/launchbase-dev/launchbase/internal/services"
	"github.com/launchbase-dev/launchbase/internal/types"
	"github.com/launchbase-dev/launchbase/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	InvitationID *uint  `json:"invitation_id"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type UpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// logActivity appends an audit entry and pushes it to any dashboard
// sockets watching the team. Audit failures are logged, never surfaced.
func logActivity(ctx *gin.Context, teamID uint, userID uint, action string) {
	entry, err := services.RecordActivity(teamID, userID, action, ctx.ClientIP(), nil)

	if err != nil {
		logger.Error("failed to record activity", "team_id", teamID, "action", action, "error", err)
		return
	}

	BroadcastActivity(teamID, entry)
}

// membershipFor returns the user's team membership, or nil when the user
// belongs to no team.
func membershipFor(userID uint) *models.TeamMember {
	var membership models.TeamMember

	if err := db.DB.Where("user_id = ?", userID).First(&membership).Error; err != nil {
		return nil
	}

	return &membership
}

func CreateUser(ctx *gin.Context) {
	var user CreateUserRequest

	if !bindJSON(ctx, &user) {
		return
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	var existingUser models.User

	err := db.DB.Where("email = ?", user.Email).First(&existingUser).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("failed to check existing user", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var invitation *models.Invitation

	if user.InvitationID != nil {
		var inv models.Invitation

		err := db.DB.Where("id = ? AND status = ?", *user.InvitationID, types.InvitationPending).First(&inv).Error

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invitation not found or no longer valid"})
			return
		}

		if !strings.EqualFold(inv.Email, user.Email) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Invitation was issued for a different email"})
			return
		}

		invitation = &inv
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)

	if err != nil {
		logger.Error("failed to hash password", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	newUser := models.User{
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: string(passwordHash),
	}

	if err := db.DB.Create(&newUser).Error; err != nil {
		logger.Error("failed to create user", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var teamID uint

	if invitation != nil {
		membership := models.TeamMember{
			UserID: newUser.ID,
			TeamID: invitation.TeamID,
			Role:   invitation.Role,
		}

		if err := db.DB.Create(&membership).Error; err != nil {
			logger.Error("failed to create membership", "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		invitation.Status = types.InvitationAccepted

		if err := db.DB.Save(invitation).Error; err != nil {
			logger.Error("failed to accept invitation", "invitation_id", invitation.ID, "error", err)
		}

		teamID = invitation.TeamID
		logActivity(ctx, teamID, newUser.ID, types.ActionAcceptInvitation)
	} else {
		team := models.Team{Name: fmt.Sprintf("%s's Team", newUser.Name)}

		if err := db.DB.Create(&team).Error; err != nil {
			logger.Error("failed to create team", "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		membership := models.TeamMember{
			UserID: newUser.ID,
			TeamID: team.ID,
			Role:   types.RoleOwner,
		}

		if err := db.DB.Create(&membership).Error; err != nil {
			logger.Error("failed to create membership", "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		teamID = team.ID
		logActivity(ctx, teamID, newUser.ID, types.ActionCreateTeam)
	}

	logActivity(ctx, teamID, newUser.ID, types.ActionSignUp)

	token, err := auth.GenerateSessionToken(newUser.ID, newUser.Email)

	if err != nil {
		logger.Error("failed to generate session token", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	auth.SetSessionCookie(ctx.Writer, token)

	ctx.JSON(http.StatusCreated, gin.H{
		"user": types.UserResponse{
			ID:    newUser.ID,
			Name:  newUser.Name,
			Email: newUser.Email,
		},
	})
}

func LoginUser(ctx *gin.Context) {
	var user LoginUserRequest

	if !bindJSON(ctx, &user) {
		return
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	var existingUser models.User

	err := db.DB.Where("email = ?", user.Email).First(&existingUser).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
			return
		}
		logger.Error("failed to fetch user", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(existingUser.PasswordHash), []byte(user.Password))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateSessionToken(existingUser.ID, existingUser.Email)

	if err != nil {
		logger.Error("failed to generate session token", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	auth.SetSessionCookie(ctx.Writer, token)

	if membership := membershipFor(existingUser.ID); membership != nil {
		logActivity(ctx, membership.TeamID, existingUser.ID, types.ActionSignIn)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:    existingUser.ID,
			Name:  existingUser.Name,
			Email: existingUser.Email,
		},
	})
}

func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:    currentUser.ID,
			Name:  currentUser.Name,
			Email: currentUser.Email,
		},
	})
}

func LogoutUser(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err == nil {
		if membership := membershipFor(currentUser.ID); membership != nil {
			logActivity(ctx, membership.TeamID, currentUser.ID, types.ActionSignOut)
		}
	}

	auth.ClearSessionCookie(ctx.Writer)

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func UpdateUser(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var dbUser models.User
	if err := db.DB.First(&dbUser, currentUser.ID).Error; err != nil {
		logger.Error("failed to fetch user", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var updateReq UpdateUserRequest
	if !bindJSON(ctx, &updateReq) {
		return
	}

	updates := make(map[string]interface{})

	if updateReq.Name != "" {
		updates["name"] = strings.TrimSpace(updateReq.Name)
	}

	if updateReq.Email != "" {
		newEmail := strings.ToLower(strings.TrimSpace(updateReq.Email))

		if newEmail != dbUser.Email {
			var existingUser models.User
			err := db.DB.Where("email = ? AND id != ?", newEmail, dbUser.ID).First(&existingUser).Error
			if err == nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
				return
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Error("failed to check existing email", "error", err)
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
		}

		updates["email"] = newEmail
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(&dbUser).Updates(updates).Error; err != nil {
		logger.Error("failed to update user", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.First(&dbUser, dbUser.ID).Error; err != nil {
		logger.Error("failed to refresh user", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if membership := membershipFor(dbUser.ID); membership != nil {
		logActivity(ctx, membership.TeamID, dbUser.ID, types.ActionUpdateAccount)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user": types.UserResponse{
			ID:    dbUser.ID,
			Name:  dbUser.Name,
			Email: dbUser.Email,
		},
	})
}

func UpdatePassword(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var dbUser models.User
	if err := db.DB.First(&dbUser, currentUser.ID).Error; err != nil {
		logger.Error("failed to fetch user", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req UpdatePasswordRequest
	if !bindJSON(ctx, &req) {
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(dbUser.PasswordHash), []byte(req.CurrentPassword))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash new password", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.Model(&dbUser).Update("password_hash", string(passwordHash)).Error; err != nil {
		logger.Error("failed to update password", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if membership := membershipFor(dbUser.ID); membership != nil {
		logActivity(ctx, membership.TeamID, dbUser.ID, types.ActionUpdatePassword)
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func DeleteUser(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var dbUser models.User
	if err := db.DB.First(&dbUser, currentUser.ID).Error; err != nil {
		logger.Error("failed to fetch user", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var deleteReq struct {
		Password string `json:"password" binding:"required"`
	}

	if !bindJSON(ctx, &deleteReq) {
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(dbUser.PasswordHash), []byte(deleteReq.Password))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect password"})
		return
	}

	if membership := membershipFor(dbUser.ID); membership != nil {
		logActivity(ctx, membership.TeamID, dbUser.ID, types.ActionDeleteAccount)
	}

	// Soft delete, preserving activity log rows that reference this user.
	// The email is mangled first so the unique index frees the address for
	// future sign-ups.
	mangledEmail := fmt.Sprintf("%s-%d-deleted", dbUser.Email, dbUser.ID)

	if err := db.DB.Model(&dbUser).Update("email", mangledEmail).Error; err != nil {
		logger.Error("failed to release email", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.Where("user_id = ?", dbUser.ID).Delete(&models.TeamMember{}).Error; err != nil {
		logger.Error("failed to remove memberships", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.Delete(&dbUser).Error; err != nil {
		logger.Error("failed to delete user", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	auth.ClearSessionCookie(ctx.Writer)

	ctx.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
