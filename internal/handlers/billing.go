package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/launchbase-dev/launchbase/internal/logger"
	"github.com/launchbase-dev/launchbase/internal/services"
	"github.com/launchbase-dev/launchbase/internal/utils"
)

type CheckoutRequest struct {
	PriceID string `json:"price_id" binding:"required"`
}

// CreateCheckout starts a subscription checkout and returns the hosted
// payment page URL for the client to redirect to.
func CreateCheckout(ctx *gin.Context) {
	currentTeam, err := utils.GetCurrentTeam(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "No team"})
		return
	}

	var body CheckoutRequest

	if !bindJSON(ctx, &body) {
		return
	}

	session, err := services.CreateCheckoutSession(&currentTeam.Team, body.PriceID)

	if err != nil {
		logger.Error("failed to create checkout session", "team_id", currentTeam.Team.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start checkout"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"url": session.URL})
}

// CheckoutSuccess is the redirect target after a completed checkout. It
// binds the processor's customer and subscription to the team.
func CheckoutSuccess(ctx *gin.Context) {
	sessionID := ctx.Query("session_id")

	if sessionID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	if _, err := services.FinalizeCheckout(sessionID); err != nil {
		logger.Error("failed to finalize checkout", "session_id", sessionID, "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to finalize checkout"})
		return
	}

	ctx.Redirect(http.StatusFound, "/dashboard")
}

// CreatePortal opens the processor's billing portal for the team.
func CreatePortal(ctx *gin.Context) {
	currentTeam, err := utils.GetCurrentTeam(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "No team"})
		return
	}

	if currentTeam.Team.StripeCustomerID == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Team has no billing account yet"})
		return
	}

	session, err := services.CreatePortalSession(&currentTeam.Team)

	if err != nil {
		logger.Error("failed to create portal session", "team_id", currentTeam.Team.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open billing portal"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"url": session.URL})
}
