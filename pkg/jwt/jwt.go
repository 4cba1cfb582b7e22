package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is written into every session token
const Issuer = "guide2umrah-site"

// TokenType represents the type of JWT token
type TokenType string

const (
	SessionToken TokenType = "session"
)

// Claims represents the JWT claims structure of the admin session cookie.
// BackendToken is the opaque token returned by the backend login and is
// forwarded on admin write calls.
type Claims struct {
	SessionID    uuid.UUID `json:"sid"`
	Email        string    `json:"email"`
	BackendToken string    `json:"backend_token"`
	TokenType    TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// Service handles JWT operations
type Service struct {
	secret string
	expiry time.Duration
}

// NewService creates a new JWT service
func NewService(secret string, expiry time.Duration) *Service {
	return &Service{
		secret: secret,
		expiry: expiry,
	}
}

// Expiry returns the lifetime of issued session tokens
func (s *Service) Expiry() time.Duration {
	return s.expiry
}

// GenerateSessionToken wraps a backend token in a signed session token
func (s *Service) GenerateSessionToken(email, backendToken string) (string, *Claims, error) {
	if backendToken == "" {
		return "", nil, fmt.Errorf("backend token is required")
	}

	now := time.Now()
	sessionID := uuid.New()
	claims := &Claims{
		SessionID:    sessionID,
		Email:        email,
		BackendToken: backendToken,
		TokenType:    SessionToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
			Subject:   email,
			ID:        sessionID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, claims, nil
}

// ValidateSessionToken validates and parses a session token
func (s *Service) ValidateSessionToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	}, jwt.WithIssuer(Issuer))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.TokenType != SessionToken {
		return nil, fmt.Errorf("invalid token type: expected %s, got %s", SessionToken, claims.TokenType)
	}

	if claims.BackendToken == "" {
		return nil, fmt.Errorf("session carries no backend token")
	}

	return claims, nil
}
