package tests

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"booking/internal/config"
	"booking/internal/service"
)

func newAuthService(t *testing.T, ttl time.Duration) *service.AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt hash failed: %v", err)
	}
	return service.NewAuthService(config.AdminConfig{
		Username:     "admin",
		PasswordHash: string(hash),
		JWTSecret:    "test-secret",
		SessionTTL:   ttl,
	})
}

func TestLoginAndVerify(t *testing.T) {
	svc := newAuthService(t, time.Hour)

	token, err := svc.Login("admin", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Fatal("Expected a session token")
	}

	username, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if username != "admin" {
		t.Errorf("Expected subject admin, got %q", username)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t, time.Hour)

	if _, err := svc.Login("admin", "wrong"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Login("root", "correct-horse"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for bad username, got %v", err)
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	svc := newAuthService(t, -time.Minute)

	token, err := svc.Login("admin", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, err := svc.VerifyToken(token); !errors.Is(err, service.ErrTokenInvalid) {
		t.Errorf("Expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestVerifyTokenRejectsTampered(t *testing.T) {
	svc := newAuthService(t, time.Hour)

	token, err := svc.Login("admin", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, err := svc.VerifyToken(token + "x"); !errors.Is(err, service.ErrTokenInvalid) {
		t.Errorf("Expected ErrTokenInvalid for tampered token, got %v", err)
	}
	if _, err := svc.VerifyToken("not-a-token"); !errors.Is(err, service.ErrTokenInvalid) {
		t.Errorf("Expected ErrTokenInvalid for garbage token, got %v", err)
	}
}

func TestVerifyTokenRejectsForeignSecret(t *testing.T) {
	issuer := newAuthService(t, time.Hour)

	token, err := issuer.Login("admin", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt hash failed: %v", err)
	}
	verifier := service.NewAuthService(config.AdminConfig{
		Username:     "admin",
		PasswordHash: string(hash),
		JWTSecret:    "different-secret",
		SessionTTL:   time.Hour,
	})

	if _, err := verifier.VerifyToken(token); !errors.Is(err, service.ErrTokenInvalid) {
		t.Errorf("Expected ErrTokenInvalid across secrets, got %v", err)
	}
}
