package service

import (
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"booking/internal/config"
)

// AuthService issues and verifies administrator session tokens. Tokens are
// self-contained HS256 JWTs with an embedded expiry; no server-side session
// table exists, so expiry is enforced on every verification.
type AuthService struct {
	username     string
	passwordHash string
	jwtSecret    []byte
	sessionTTL   time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg config.AdminConfig) *AuthService {
	return &AuthService{
		username:     cfg.Username,
		passwordHash: cfg.PasswordHash,
		jwtSecret:    []byte(cfg.JWTSecret),
		sessionTTL:   cfg.SessionTTL,
	}
}

// Login verifies the administrator credentials and returns a session token.
func (s *AuthService) Login(username, password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) != 1 {
		// Burn a hash comparison anyway so the two failure paths cost the same.
		_ = bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password))
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(s.sessionTTL).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// VerifyToken validates a session token and returns the administrator
// username. Expired or tampered tokens yield ErrTokenInvalid.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenInvalid
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrTokenInvalid
	}

	return subject, nil
}
