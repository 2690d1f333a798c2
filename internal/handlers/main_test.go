package handlers_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/launchbase-dev/launchbase/db"
	"github.com/launchbase-dev/launchbase/internal/auth"
	"github.com/launchbase-dev/launchbase/internal/config"
	"github.com/launchbase-dev/launchbase/internal/router"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testWebhookSecret = "whsec_test_secret"

func setupTest(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	db.DB = gdb
	require.NoError(t, db.MigrateDatabase())

	config.App = config.Config{
		Port:                "3000",
		Env:                 "test",
		DatabaseURL:         "inmemory",
		BaseURL:             "http://localhost:3000",
		AuthSecret:          "test-secret",
		StripeWebhookSecret: testWebhookSecret,
	}

	require.NoError(t, auth.InitJWTSecret())

	return router.NewRouter()
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

// register signs up a user through the API and returns the session cookie.
func register(t *testing.T, r *gin.Engine, name, email, password string) *http.Cookie {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name":     name,
		"email":    email,
		"password": password,
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == auth.SessionCookieName {
			return cookie
		}
	}

	t.Fatal("no session cookie returned from register")
	return nil
}

// stripeSignature builds a valid Stripe-Signature header for a payload.
func stripeSignature(payload []byte, secret string) string {
	ts := time.Now().Unix()

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)

	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func postWebhook(t *testing.T, r *gin.Engine, payload []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/billing", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}
