// internal/auth/token.go
package auth

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie carrying the signed token.
const CookieName = "auth_token"

var (
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey

	// tokenTTL is how long issued tokens stay valid. Zero means no
	// expiry claim.
	tokenTTL time.Duration
)

// Init generates a fresh ed25519 key pair for this process and reads the
// token lifetime from AUTH_TOKEN_TTL (a Go duration; "0" or unset means
// tokens never expire). Keys are per-process: restarting the server
// invalidates outstanding tokens.
func Init() error {
	var err error
	publicKey, privateKey, err = ed25519.GenerateKey(nil)
	if err != nil {
		return fmt.Errorf("generate ed25519 key pair: %w", err)
	}

	ttl := os.Getenv("AUTH_TOKEN_TTL")
	if ttl == "" || ttl == "0" {
		tokenTTL = 0
		return nil
	}
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return fmt.Errorf("parse AUTH_TOKEN_TTL: %w", err)
	}
	tokenTTL = d
	return nil
}

// TokenTTLSeconds returns the configured token lifetime in seconds, for
// cookie Max-Age. Zero means a session cookie with no expiry.
func TokenTTLSeconds() int {
	return int(tokenTTL.Seconds())
}

// CreateToken signs a JWT whose subject is the user id.
func CreateToken(userID string) (string, error) {
	claims := jwt.MapClaims{"sub": userID}
	if tokenTTL > 0 {
		claims["exp"] = time.Now().Add(tokenTTL).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(privateKey)
}

// VerifyToken validates a signed token and returns its subject.
func VerifyToken(tokenString string) (string, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !t.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return "", fmt.Errorf("token missing subject")
	}
	return sub, nil
}
