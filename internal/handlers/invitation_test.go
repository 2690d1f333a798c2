package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/launchbase-dev/launchbase/db"
	"github.com/launchbase-dev/launchbase/internal/models"
	"github.com/launchbase-dev/launchbase/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invite(t *testing.T, r *gin.Engine, cookie *http.Cookie, email, role string) *models.Invitation {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/team/invitations", gin.H{
		"email": email,
		"role":  role,
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	var invitation models.Invitation
	require.NoError(t, db.DB.First(&invitation, created.ID).Error)

	return &invitation
}

func TestCreateInvitation(t *testing.T) {
	r := setupTest(t)

	owner := register(t, r, "Alice", "alice@example.com", "password123")

	invitation := invite(t, r, owner, "bob@example.com", "member")
	assert.Equal(t, types.InvitationPending, invitation.Status)
	assert.Equal(t, "bob@example.com", invitation.Email)
}

func TestCreateInvitationRejectsDuplicatePending(t *testing.T) {
	r := setupTest(t)

	owner := register(t, r, "Alice", "alice@example.com", "password123")
	invite(t, r, owner, "bob@example.com", "member")

	w := doJSON(t, r, http.MethodPost, "/api/team/invitations", gin.H{
		"email": "bob@example.com",
		"role":  "member",
	}, owner)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already pending")
}

func TestCreateInvitationRequiresOwner(t *testing.T) {
	r := setupTest(t)

	owner := register(t, r, "Alice", "alice@example.com", "password123")
	invitation := invite(t, r, owner, "bob@example.com", "member")

	// Bob registers through the invitation and becomes a plain member
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name":          "Bob",
		"email":         "bob@example.com",
		"password":      "password123",
		"invitation_id": invitation.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var bobCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "session" {
			bobCookie = cookie
		}
	}
	require.NotNil(t, bobCookie)

	w = doJSON(t, r, http.MethodPost, "/api/team/invitations", gin.H{
		"email": "carol@example.com",
		"role":  "member",
	}, bobCookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegisterViaInvitationJoinsTeam(t *testing.T) {
	r := setupTest(t)

	owner := register(t, r, "Alice", "alice@example.com", "password123")
	invitation := invite(t, r, owner, "bob@example.com", "member")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name":          "Bob",
		"email":         "bob@example.com",
		"password":      "password123",
		"invitation_id": invitation.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var bob models.User
	require.NoError(t, db.DB.Where("email = ?", "bob@example.com").First(&bob).Error)

	var membership models.TeamMember
	require.NoError(t, db.DB.Where("user_id = ?", bob.ID).First(&membership).Error)
	assert.Equal(t, invitation.TeamID, membership.TeamID)
	assert.Equal(t, types.RoleMember, membership.Role)

	// No personal team was created for Bob
	var teamCount int64
	require.NoError(t, db.DB.Model(&models.Team{}).Count(&teamCount).Error)
	assert.Equal(t, int64(1), teamCount)

	var accepted models.Invitation
	require.NoError(t, db.DB.First(&accepted, invitation.ID).Error)
	assert.Equal(t, types.InvitationAccepted, accepted.Status)
}

func TestRegisterViaInvitationRejectsWrongEmail(t *testing.T) {
	r := setupTest(t)

	owner := register(t, r, "Alice", "alice@example.com", "password123")
	invitation := invite(t, r, owner, "bob@example.com", "member")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name":          "Mallory",
		"email":         "mallory@example.com",
		"password":      "password123",
		"invitation_id": invitation.ID,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAcceptInvitationExistingUser(t *testing.T) {
	r := setupTest(t)

	owner := register(t, r, "Alice", "alice@example.com", "password123")

	// Bob already has an account and his own team
	bobCookie := register(t, r, "Bob", "bob@example.com", "password123")

	invitation := invite(t, r, owner, "bob@example.com", "member")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/invitations/%d/accept", invitation.ID), nil, bobCookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var accepted models.Invitation
	require.NoError(t, db.DB.First(&accepted, invitation.ID).Error)
	assert.Equal(t, types.InvitationAccepted, accepted.Status)

	// pending -> accepted happens exactly once
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/invitations/%d/accept", invitation.ID), nil, bobCookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRevokeInvitationOnce(t *testing.T) {
	r := setupTest(t)

	owner := register(t, r, "Alice", "alice@example.com", "password123")
	invitation := invite(t, r, owner, "bob@example.com", "member")

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/team/invitations/%d", invitation.ID), nil, owner)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var revoked models.Invitation
	require.NoError(t, db.DB.First(&revoked, invitation.ID).Error)
	assert.Equal(t, types.InvitationRevoked, revoked.Status)

	// Already revoked: transition happened once, second attempt fails
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/team/invitations/%d", invitation.ID), nil, owner)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A revoked invitation can no longer be used to register
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name":          "Bob",
		"email":         "bob@example.com",
		"password":      "password123",
		"invitation_id": invitation.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInviteExistingMemberRejected(t *testing.T) {
	r := setupTest(t)

	owner := register(t, r, "Alice", "alice@example.com", "password123")

	w := doJSON(t, r, http.MethodPost, "/api/team/invitations", gin.H{
		"email": "alice@example.com",
		"role":  "member",
	}, owner)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already a member")
}
