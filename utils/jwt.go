package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"meditravel/config"

	"github.com/golang-jwt/jwt"
)

func signingKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "meditravel-dev-secret"
	}
	return []byte(secret)
}

// GenerateToken issues a signed session token for the given user. The email
// claim is informational only; authorization never reads it.
func GenerateToken(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey())
}

// HashToken returns the hex SHA-256 of a token. Only the hash is persisted;
// the raw token never touches the database.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ExtractIDFromToken validates a session token and returns its subject.
func ExtractIDFromToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return signingKey(), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}
