package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestFromToken(t *testing.T) {
	raw := signedToken(t, Claims{UserID: "u1", Name: "Ali Raza", Email: "ali@example.com"})

	id, err := FromToken(raw)
	if err != nil {
		t.Fatalf("FromToken() error = %v", err)
	}
	if id.UserID != "u1" || id.Name != "Ali Raza" {
		t.Errorf("identity = %+v, want u1/Ali Raza", id)
	}
	if id.Token != raw {
		t.Error("raw token not preserved")
	}
}

func TestFromTokenSubjectFallback(t *testing.T) {
	raw := signedToken(t, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u2"}})

	id, err := FromToken(raw)
	if err != nil {
		t.Fatalf("FromToken() error = %v", err)
	}
	if id.UserID != "u2" {
		t.Errorf("UserID = %q, want u2 (subject fallback)", id.UserID)
	}
}

func TestFromTokenRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-token", "a.b"} {
		if _, err := FromToken(raw); err == nil {
			t.Errorf("FromToken(%q) expected error", raw)
		}
	}
}

func TestLoadIdentity(t *testing.T) {
	raw := signedToken(t, Claims{UserID: "u3", Name: "Sara"})
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte(raw+"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	id, err := LoadIdentity(path)
	if err != nil {
		t.Fatalf("LoadIdentity() error = %v", err)
	}
	if id.UserID != "u3" {
		t.Errorf("UserID = %q, want u3", id.UserID)
	}
}

func TestLoadIdentityMissingFile(t *testing.T) {
	if _, err := LoadIdentity(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing token file")
	}
}
