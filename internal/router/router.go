package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/launchbase-dev/launchbase/internal/config"
	"github.com/launchbase-dev/launchbase/internal/handlers"
	"github.com/launchbase-dev/launchbase/internal/middleware"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.App.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			limited := auth.Group("", middleware.RateLimitByIP(middleware.AuthLimit))
			{
				limited.POST("/register", handlers.CreateUser)
				limited.POST("/login", handlers.LoginUser)
			}

			auth.POST("/logout", middleware.AuthMiddleware(), handlers.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.PUT("/me", middleware.AuthMiddleware(), handlers.UpdateUser)
			auth.PUT("/password", middleware.AuthMiddleware(), handlers.UpdatePassword)
			auth.DELETE("/me", middleware.AuthMiddleware(), handlers.DeleteUser)
		}

		// Accepting an invitation only needs a session, not an existing team
		api.POST("/invitations/:invitation_id/accept", middleware.AuthMiddleware(), handlers.AcceptInvitation)

		team := api.Group("/team", middleware.AuthMiddleware(), middleware.TeamMiddleware())
		{
			team.GET("", handlers.GetTeam)
			team.PATCH("", middleware.RequireOwner(), handlers.UpdateTeam)
			team.GET("/members", handlers.ListTeamMembers)
			team.DELETE("/members/:member_id", middleware.RequireOwner(), handlers.RemoveTeamMember)

			team.GET("/activity", handlers.ListActivity)
			team.GET("/activity/ws", handlers.ActivityFeed)

			team.POST("/invitations", middleware.RequireOwner(), handlers.CreateInvitation)
			team.GET("/invitations", handlers.ListInvitations)
			team.DELETE("/invitations/:invitation_id", middleware.RequireOwner(), handlers.RevokeInvitation)
		}

		billing := api.Group("/billing", middleware.AuthMiddleware(), middleware.TeamMiddleware())
		{
			billing.POST("/checkout", handlers.CreateCheckout)
			billing.GET("/checkout/success", handlers.CheckoutSuccess)
			billing.POST("/portal", handlers.CreatePortal)
		}

		api.POST("/webhooks/billing", handlers.BillingWebhook)
	}

	return r
}
