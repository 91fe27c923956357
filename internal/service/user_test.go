package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rokibulparves/sobol/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:     "test-secret",
		AccessExpiry:  time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	svc := NewUserService(nil, testAuthConfig())
	userID := uuid.New()

	access, refresh, err := svc.GenerateTokens(userID)
	if err != nil {
		t.Fatalf("GenerateTokens error: %v", err)
	}
	if access == refresh {
		t.Fatal("access and refresh tokens must differ")
	}

	got, err := svc.ParseToken(access)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if got != userID {
		t.Fatalf("user id mismatch: got %s want %s", got, userID)
	}
}

func TestParseToken_Expired(t *testing.T) {
	cfg := testAuthConfig()
	cfg.AccessExpiry = -time.Minute
	svc := NewUserService(nil, cfg)

	access, _, err := svc.GenerateTokens(uuid.New())
	if err != nil {
		t.Fatalf("GenerateTokens error: %v", err)
	}
	if _, err := svc.ParseToken(access); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	svc := NewUserService(nil, testAuthConfig())
	access, _, err := svc.GenerateTokens(uuid.New())
	if err != nil {
		t.Fatalf("GenerateTokens error: %v", err)
	}

	other := testAuthConfig()
	other.JWTSecret = "different-secret"
	if _, err := NewUserService(nil, other).ParseToken(access); err == nil {
		t.Fatal("expected error for token signed with another secret")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	svc := NewUserService(nil, testAuthConfig())
	if _, err := svc.ParseToken("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
