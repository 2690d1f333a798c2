package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/launchbase-dev/launchbase/internal/config"
)

// SessionDuration is the sliding window for a session token. Every
// authenticated read re-issues the cookie with a fresh expiry.
const SessionDuration = 24 * time.Hour

var jwtSecret string

func InitJWTSecret() error {
	jwtSecret = config.App.AuthSecret
	if jwtSecret == "" {
		return fmt.Errorf("AUTH_SECRET is not set")
	}
	return nil
}

func GenerateSessionToken(userID uint, email string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(SessionDuration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// VerifySessionToken validates the signature and expiry and returns the
// user id the token was issued for.
func VerifySessionToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return 0, fmt.Errorf("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return 0, fmt.Errorf("Invalid token claims")
	}

	userIDFloat, ok := claims["user_id"].(float64)

	if !ok {
		return 0, fmt.Errorf("Invalid user ID in token claims")
	}

	return uint(userIDFloat), nil
}
