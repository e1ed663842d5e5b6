// Package auth is the small login/JWT subsystem: an in-memory user list
// and HS256 access/refresh token issuance. It exists next to the scanning
// pipeline but is deliberately independent of it.
package auth

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/codescanhq/codescan/internal/model"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// User is a user of the service. Password never serializes.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"-"`
}

// TokenPair is the login/refresh response payload.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Service authenticates users and issues tokens. The user list is fixed
// at construction; there is no user store.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	users      []User
}

func NewService(cfg model.AuthConfig) *Service {
	accessTTL := cfg.AccessTTL
	if accessTTL == 0 {
		accessTTL = time.Hour
	}
	refreshTTL := cfg.RefreshTTL
	if refreshTTL == 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	secret := []byte(cfg.Secret)
	if cfg.Enabled && len(secret) == 0 {
		// an empty HMAC key would let anyone mint valid tokens; an
		// ephemeral key keeps the service up but invalidates tokens on
		// restart, so the misconfiguration stays visible
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			panic(err)
		}
		slog.Warn("auth is enabled without auth.secret, using an ephemeral signing key; tokens will not survive a restart")
	}
	return &Service{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		users:      defaultUsers(),
	}
}

// WithUsers replaces the user list. This method exists for unit testing only.
func (s *Service) WithUsers(users ...User) *Service {
	s.users = users
	return s
}

func defaultUsers() []User {
	return []User{
		{
			ID:       uuid.New().String(),
			Username: "admin",
			Email:    "admin@example.com",
			Role:     "Admin",
			Password: "12345",
		},
		{
			ID:       uuid.New().String(),
			Username: "user",
			Email:    "user@example.com",
			Role:     "User",
			Password: "12345",
		},
	}
}

// Authenticate checks username and password against the user list.
func (s *Service) Authenticate(username, password string) (User, error) {
	for _, u := range s.users {
		if u.Username == username && u.Password == password {
			return u, nil
		}
	}
	return User{}, model.ErrInvalidCredentials
}

// Tokens issues a fresh access/refresh pair for the user.
func (s *Service) Tokens(userID string) (TokenPair, error) {
	access, err := s.sign(userID, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(userID, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

// Refresh validates a refresh token and rotates both tokens.
func (s *Service) Refresh(refreshToken string) (TokenPair, error) {
	user, err := s.Verify(refreshToken, TokenTypeRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	return s.Tokens(user.ID)
}

// Verify parses a token, checks its type claim and resolves its user.
func (s *Service) Verify(tokenString, tokenType string) (User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", model.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return User{}, model.ErrInvalidToken
	}
	if typ, _ := claims["type"].(string); typ != tokenType {
		return User{}, fmt.Errorf("%w: expected %s token", model.ErrInvalidToken, tokenType)
	}

	sub, _ := claims["sub"].(string)
	for _, u := range s.users {
		if u.ID == sub {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("%w: unknown subject", model.ErrInvalidToken)
}

func (s *Service) sign(userID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"type": tokenType,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", tokenType, err)
	}
	return signed, nil
}
