package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/sales-crm/internal"
	"github.com/frahmantamala/sales-crm/internal/access"
	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims represents JWT token claims. OrganizationID is empty for super admins
// without a membership.
type Claims struct {
	UserID         string    `json:"user_id"`
	Email          string    `json:"email"`
	OrganizationID string    `json:"org_id,omitempty"`
	TokenType      TokenType `json:"typ"`
	jwt.RegisteredClaims
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenGeneratorAPI creates and validates signed tokens.
type TokenGeneratorAPI interface {
	GenerateAccessToken(userID, email, orgID string) (string, error)
	GenerateRefreshToken(userID, email, orgID string) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	AccessTTL() time.Duration
}

// SubjectLoader resolves the access subject a token acts as.
type SubjectLoader interface {
	LoadSubject(ctx context.Context, orgID, userID string) (access.Subject, error)
	DefaultOrganization(ctx context.Context, userID string) (string, error)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

var (
	ErrInvalidCredentials = internal.ErrInvalidCredentials
	ErrInvalidToken       = internal.ErrInvalidToken
	ErrTokenExpired       = internal.ErrTokenExpired
	ErrUserInactive       = internal.ErrUserInactive
)
