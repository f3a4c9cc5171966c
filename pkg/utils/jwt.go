package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName carries the signed session token.
const SessionCookieName = "whiskd_session"

var secretKey []byte

func SetSecret(key string) {
	secretKey = []byte(key)
}

// GenerateSessionToken signs a session ID so the cookie cannot be forged to reach another cart.
func GenerateSessionToken(sessionID string, expiry time.Duration) (string, error) {
	if len(secretKey) == 0 {
		return "", fmt.Errorf("session secret not set")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sessionID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(expiry).Unix(),
	})

	return token.SignedString(secretKey)
}

// ValidateSessionToken returns the session ID carried by a valid, unexpired token.
func ValidateSessionToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", fmt.Errorf("token has no session id")
	}
	return sid, nil
}
