package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/launchbase-dev/launchbase/db"
	"github.com/launchbase-dev/launchbase/internal/models"
	"github.com/launchbase-dev/launchbase/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesUserTeamAndAudit(t *testing.T) {
	r := setupTest(t)

	cookie := register(t, r, "Alice", "alice@example.com", "password123")
	assert.NotEmpty(t, cookie.Value)

	var user models.User
	require.NoError(t, db.DB.Where("email = ?", "alice@example.com").First(&user).Error)
	assert.NotEqual(t, "password123", user.PasswordHash)

	var membership models.TeamMember
	require.NoError(t, db.DB.Where("user_id = ?", user.ID).First(&membership).Error)
	assert.Equal(t, types.RoleOwner, membership.Role)

	var team models.Team
	require.NoError(t, db.DB.First(&team, membership.TeamID).Error)
	assert.Equal(t, "Alice's Team", team.Name)

	var actions []string
	require.NoError(t, db.DB.Model(&models.ActivityLog{}).
		Where("team_id = ?", team.ID).
		Pluck("action", &actions).Error)
	assert.Contains(t, actions, types.ActionSignUp)
	assert.Contains(t, actions, types.ActionCreateTeam)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	r := setupTest(t)

	register(t, r, "Alice", "alice@example.com", "password123")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name":     "Impostor",
		"email":    "alice@example.com",
		"password": "password456",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email already exists")
}

func TestRegisterRejectsInvalidBody(t *testing.T) {
	r := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name":     "NoEmail",
		"password": "short",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	// The 400 names each failing field
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "is required", body.Fields["email"])
	assert.Contains(t, body.Fields["password"], "at least 8")
}

func TestUpdatePasswordNamesMissingField(t *testing.T) {
	r := setupTest(t)

	cookie := register(t, r, "Alice", "alice@example.com", "password123")

	w := doJSON(t, r, http.MethodPut, "/api/auth/password", gin.H{
		"new_password": "newpassword456",
	}, cookie)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "current_password")
}

func TestLoginWithWrongPassword(t *testing.T) {
	r := setupTest(t)

	register(t, r, "Alice", "alice@example.com", "password123")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "wrongpassword",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")
}

func TestLoginSetsSessionCookie(t *testing.T) {
	r := setupTest(t)

	register(t, r, "Alice", "alice@example.com", "password123")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var hasSession bool
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "session" && cookie.Value != "" {
			hasSession = true
			assert.True(t, cookie.HttpOnly)
		}
	}
	assert.True(t, hasSession)
}

func TestMeRequiresSession(t *testing.T) {
	r := setupTest(t)

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdatePassword(t *testing.T) {
	r := setupTest(t)

	cookie := register(t, r, "Alice", "alice@example.com", "password123")

	w := doJSON(t, r, http.MethodPut, "/api/auth/password", gin.H{
		"current_password": "password123",
		"new_password":     "newpassword456",
	}, cookie)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "newpassword456",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSoftDeletePreservesActivityLog(t *testing.T) {
	r := setupTest(t)

	cookie := register(t, r, "Alice", "alice@example.com", "password123")

	var user models.User
	require.NoError(t, db.DB.Where("email = ?", "alice@example.com").First(&user).Error)

	var before int64
	require.NoError(t, db.DB.Model(&models.ActivityLog{}).Where("user_id = ?", user.ID).Count(&before).Error)
	require.Greater(t, before, int64(0))

	w := doJSON(t, r, http.MethodDelete, "/api/auth/me", gin.H{
		"password": "password123",
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Row is retained with the delete timestamp set
	err := db.DB.Where("id = ?", user.ID).First(&models.User{}).Error
	assert.Error(t, err)

	var deleted models.User
	require.NoError(t, db.DB.Unscoped().First(&deleted, user.ID).Error)
	assert.True(t, deleted.DeletedAt.Valid)
	assert.Contains(t, deleted.Email, "-deleted")

	// Audit entries referencing the user survive, including DELETE_ACCOUNT
	var after int64
	require.NoError(t, db.DB.Model(&models.ActivityLog{}).Where("user_id = ?", user.ID).Count(&after).Error)
	assert.Greater(t, after, before)

	// The freed address can sign up again
	register(t, r, "Alice Again", "alice@example.com", "password123")
}

func TestDeletedUserSessionIsRejected(t *testing.T) {
	r := setupTest(t)

	cookie := register(t, r, "Alice", "alice@example.com", "password123")

	w := doJSON(t, r, http.MethodDelete, "/api/auth/me", gin.H{
		"password": "password123",
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
