package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/launchbase-dev/launchbase/internal/config"
	"github.com/launchbase-dev/launchbase/internal/logger"
	"github.com/launchbase-dev/launchbase/internal/services"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"
)

const maxWebhookBodyBytes = 65536

// BillingWebhook receives signed events from the payment processor. A bad
// signature rejects the request with no state change; recognized
// subscription events overwrite the team's subscription fields; everything
// else is acknowledged and ignored.
func BillingWebhook(ctx *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxWebhookBodyBytes))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		ctx.GetHeader("Stripe-Signature"),
		config.App.StripeWebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)

	if err != nil {
		logger.Warn("webhook signature verification failed", "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	switch event.Type {
	case "customer.subscription.updated", "customer.subscription.deleted":
		var subscription stripe.Subscription

		if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
			logger.Error("failed to parse subscription event", "event_id", event.ID, "error", err)
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event payload"})
			return
		}

		if err := services.SyncSubscription(&subscription); err != nil {
			// The processor's event is current truth; a team we can't match
			// is logged but still acknowledged so the sender stops retrying.
			logger.Error("failed to sync subscription", "event_id", event.ID, "error", err)
		}
	default:
		logger.Debug("ignoring webhook event", "type", string(event.Type))
	}

	ctx.JSON(http.StatusOK, gin.H{"received": true})
}
