package types

const (
	ContextUserKey = "user"
	ContextTeamKey = "team"
)

// Membership roles
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Invitation statuses; transitions are pending -> accepted or pending -> revoked, once.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRevoked  = "revoked"
)

// Subscription statuses mirrored from the payment processor
const (
	SubscriptionActive   = "active"
	SubscriptionTrialing = "trialing"
	SubscriptionCanceled = "canceled"
	SubscriptionUnpaid   = "unpaid"
)

// Activity log actions
const (
	ActionSignUp           = "SIGN_UP"
	ActionSignIn           = "SIGN_IN"
	ActionSignOut          = "SIGN_OUT"
	ActionUpdateAccount    = "UPDATE_ACCOUNT"
	ActionUpdatePassword   = "UPDATE_PASSWORD"
	ActionDeleteAccount    = "DELETE_ACCOUNT"
	ActionCreateTeam       = "CREATE_TEAM"
	ActionUpdateTeam       = "UPDATE_TEAM"
	ActionRemoveTeamMember = "REMOVE_TEAM_MEMBER"
	ActionInviteTeamMember = "INVITE_TEAM_MEMBER"
	ActionRevokeInvitation = "REVOKE_INVITATION"
	ActionAcceptInvitation = "ACCEPT_INVITATION"
)

type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TeamResponse struct {
	ID                 uint   `json:"id"`
	Name               string `json:"name"`
	SubscriptionStatus string `json:"subscription_status"`
	PlanName           string `json:"plan_name"`
}
