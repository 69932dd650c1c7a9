package auth

import (
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the current user as carried by the saved access token.
// The server is the authority on token validity; the client only reads
// the claims to know who it is acting as.
type Identity struct {
	UserID string
	Name   string
	Email  string
	Token  string
}

// Claims mirrors the BaatCheet backend's JWT payload.
type Claims struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// LoadIdentity reads the saved token file for a profile and extracts the
// current-user identity from its claims.
func LoadIdentity(tokenPath string) (*Identity, error) {
	data, err := os.ReadFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	return FromToken(strings.TrimSpace(string(data)))
}

// FromToken extracts identity from a raw JWT without verifying the
// signature (the backend rejects tampered tokens on every call anyway).
func FromToken(raw string) (*Identity, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty token")
	}
	var claims Claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("token has no user id claim")
	}
	return &Identity{
		UserID: claims.UserID,
		Name:   claims.Name,
		Email:  claims.Email,
		Token:  raw,
	}, nil
}
