package auth

import (
	"net/http"

	"github.com/launchbase-dev/launchbase/internal/config"
)

const SessionCookieName = "session"

// sessionCookie builds the session cookie. Secure + SameSite=None is only
// viable over HTTPS; browsers drop such cookies on plain-HTTP origins, so
// local development falls back to Lax without Secure.
func sessionCookie(value string, maxAge int) *http.Cookie {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		Domain:   config.App.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	if config.App.IsProduction() {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}

	return cookie
}

func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, sessionCookie(token, int(SessionDuration.Seconds())))
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, sessionCookie("", -1))
}
