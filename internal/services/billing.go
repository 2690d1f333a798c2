package services

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/launchbase-dev/launchbase/db"
	"github.com/launchbase-dev/launchbase/internal/config"
	"github.com/launchbase-dev/launchbase/internal/models"
	"github.com/stripe/stripe-go/v78"
	portalsession "github.com/stripe/stripe-go/v78/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v78/checkout/session"
)

const trialPeriodDays = 14

func InitStripe() {
	stripe.Key = config.App.StripeSecretKey
}

// CreateCheckoutSession starts a subscription checkout for a team. The team
// id rides along as the client reference so the success callback can bind
// the resulting customer to the right team.
func CreateCheckoutSession(team *models.Team, priceID string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:          stripe.String(config.App.BaseURL + "/api/billing/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:           stripe.String(config.App.BaseURL + "/pricing"),
		ClientReferenceID:   stripe.String(strconv.FormatUint(uint64(team.ID), 10)),
		AllowPromotionCodes: stripe.Bool(true),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripe.Int64(trialPeriodDays),
		},
	}

	if team.StripeCustomerID != nil {
		params.Customer = stripe.String(*team.StripeCustomerID)
	}

	return checkoutsession.New(params)
}

// CreatePortalSession opens the processor's billing portal for a team that
// already has a customer record.
func CreatePortalSession(team *models.Team) (*stripe.BillingPortalSession, error) {
	if team.StripeCustomerID == nil {
		return nil, errors.New("team has no billing customer")
	}

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*team.StripeCustomerID),
		ReturnURL: stripe.String(config.App.BaseURL + "/dashboard"),
	}

	return portalsession.New(params)
}

// FinalizeCheckout retrieves a completed checkout session and writes the
// resulting customer and subscription onto the team it was started for.
func FinalizeCheckout(sessionID string) (*models.Team, error) {
	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("customer")
	params.AddExpand("subscription")
	params.AddExpand("subscription.items.data.price")

	sess, err := checkoutsession.Get(sessionID, params)

	if err != nil {
		return nil, err
	}

	if sess.Customer == nil || sess.Subscription == nil {
		return nil, errors.New("checkout session is not complete")
	}

	teamID, err := strconv.ParseUint(sess.ClientReferenceID, 10, 32)

	if err != nil {
		return nil, fmt.Errorf("invalid client reference id %q", sess.ClientReferenceID)
	}

	var team models.Team

	if err := db.DB.First(&team, uint(teamID)).Error; err != nil {
		return nil, err
	}

	customerID := sess.Customer.ID
	subscriptionID := sess.Subscription.ID

	team.StripeCustomerID = &customerID
	team.StripeSubscriptionID = &subscriptionID
	team.SubscriptionStatus = string(sess.Subscription.Status)

	if name := planNameFromSubscription(sess.Subscription); name != "" {
		team.PlanName = name
	}

	if err := db.DB.Save(&team).Error; err != nil {
		return nil, err
	}

	return &team, nil
}

// SyncSubscription overwrites a team's subscription fields from a processor
// event. Last write wins; the event is trusted as current truth.
func SyncSubscription(sub *stripe.Subscription) error {
	if sub.Customer == nil || sub.Customer.ID == "" {
		return errors.New("subscription event has no customer")
	}

	var team models.Team

	if err := db.DB.Where("stripe_customer_id = ?", sub.Customer.ID).First(&team).Error; err != nil {
		return fmt.Errorf("no team for customer %s: %w", sub.Customer.ID, err)
	}

	switch sub.Status {
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusUnpaid, stripe.SubscriptionStatusIncompleteExpired:
		team.StripeSubscriptionID = nil
		team.SubscriptionStatus = string(sub.Status)
		team.PlanName = ""
	default:
		subscriptionID := sub.ID
		team.StripeSubscriptionID = &subscriptionID
		team.SubscriptionStatus = string(sub.Status)

		if name := planNameFromSubscription(sub); name != "" {
			team.PlanName = name
		}
	}

	return db.DB.Save(&team).Error
}

func planNameFromSubscription(sub *stripe.Subscription) string {
	if sub == nil || sub.Items == nil || len(sub.Items.Data) == 0 {
		return ""
	}

	price := sub.Items.Data[0].Price

	if price == nil {
		return ""
	}

	if price.Nickname != "" {
		return price.Nickname
	}

	if price.Product != nil && price.Product.Name != "" {
		return price.Product.Name
	}

	return price.LookupKey
}
