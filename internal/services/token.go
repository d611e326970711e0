package services

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"vidtube/internal/models"
)

// AccessClaims are embedded in short-lived access tokens.
type AccessClaims struct {
	UserID   string `json:"_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
	jwt.StandardClaims
}

// RefreshClaims are embedded in refresh tokens. Id (jti) makes every token unique.
type RefreshClaims struct {
	UserID string `json:"_id"`
	jwt.StandardClaims
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenIssuer signs and verifies HS256 access and refresh tokens with separate secrets.
type TokenIssuer struct {
	accessSecret  []byte
	accessTTL     time.Duration
	refreshSecret []byte
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenIssuer creates a TokenIssuer.
func NewTokenIssuer(accessSecret string, accessTTL time.Duration, refreshSecret string, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		accessTTL:     accessTTL,
		refreshSecret: []byte(refreshSecret),
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// Pair issues a fresh access and refresh token for user.
func (t *TokenIssuer) Pair(user *models.User) (*TokenPair, error) {
	access, err := t.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	refresh, err := t.IssueRefresh(user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueAccess signs an access token carrying the user's identity.
func (t *TokenIssuer) IssueAccess(user *models.User) (string, error) {
	now := t.now()
	claims := AccessClaims{
		UserID:   user.ID.String(),
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(t.accessTTL).Unix(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return signed, nil
}

// IssueRefresh signs a refresh token carrying only the user id.
func (t *TokenIssuer) IssueRefresh(userID uuid.UUID) (string, error) {
	now := t.now()
	claims := RefreshClaims{
		UserID: userID.String(),
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(t.refreshTTL).Unix(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return signed, nil
}

// ParseAccess validates an access token and returns its claims.
func (t *TokenIssuer) ParseAccess(tokenString string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := parse(tokenString, &claims, t.accessSecret); err != nil {
		return nil, err
	}
	return &claims, nil
}

// ParseRefresh validates a refresh token and returns its claims.
func (t *TokenIssuer) ParseRefresh(tokenString string) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := parse(tokenString, &claims, t.refreshSecret); err != nil {
		return nil, err
	}
	return &claims, nil
}

func parse(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}
