package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/launchbase-dev/launchbase/db"
	"github.com/launchbase-dev/launchbase/internal/auth"
	"github.com/launchbase-dev/launchbase/internal/models"
	"github.com/launchbase-dev/launchbase/internal/types"
)

type AuthenticatedUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CurrentTeam is the caller's resolved team context: the team row plus the
// caller's membership role in it.
type CurrentTeam struct {
	Team models.Team
	Role string
}

// extractToken reads the session cookie, falling back to a Bearer header
// for non-browser clients.
func extractToken(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie(auth.SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := ctx.GetHeader("Authorization")

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}

	return ""
}

func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := extractToken(ctx)

		if tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		userID, err := auth.VerifySessionToken(tokenString)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		var user models.User

		// Soft-deleted users are excluded by gorm's default scope
		if err := db.DB.Where("id = ?", userID).First(&user).Error; err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		// Sliding session: every authenticated read refreshes the cookie
		// for another full window.
		if ctx.Request.Method == http.MethodGet {
			if refreshed, err := auth.GenerateSessionToken(user.ID, user.Email); err == nil {
				auth.SetSessionCookie(ctx.Writer, refreshed)
			}
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		})
		ctx.Next()
	}
}

// TeamMiddleware resolves the authenticated user's team membership. Must be
// chained after AuthMiddleware.
func TeamMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(types.ContextUserKey)

		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		user, ok := value.(AuthenticatedUser)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		var membership models.TeamMember

		if err := db.DB.Preload("Team").Where("user_id = ?", user.ID).First(&membership).Error; err != nil {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No team"})
			return
		}

		ctx.Set(types.ContextTeamKey, CurrentTeam{
			Team: membership.Team,
			Role: membership.Role,
		})
		ctx.Next()
	}
}

// RequireOwner gates a route to team owners. Must be chained after
// TeamMiddleware.
func RequireOwner() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(types.ContextTeamKey)

		if !exists {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No team"})
			return
		}

		team, ok := value.(CurrentTeam)

		if !ok || team.Role != types.RoleOwner {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Owner role required"})
			return
		}

		ctx.Next()
	}
}
