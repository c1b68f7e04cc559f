package shopify

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingSessionToken = errors.New("missing session token")
	ErrSessionAudience     = errors.New("session token audience mismatch")
)

// SessionTokenClaims are the claims App Bridge puts in an embedded app session token.
type SessionTokenClaims struct {
	jwt.RegisteredClaims

	Dest string `json:"dest,omitempty"` // https://{shop}
	Sid  string `json:"sid,omitempty"`
}

type VerifiedSession struct {
	ShopDomain string
	UserID     string
	ExpiresAt  time.Time
}

// VerifySessionToken checks an HS256 session token signed with the client's API secret and
// issued for its API key.
func (c *Client) VerifySessionToken(tokenString string, now time.Time) (*VerifiedSession, error) {
	return VerifySessionToken(tokenString, c.apiKey, c.apiSecret, now)
}

// VerifySessionToken verifies an embedded app session token and returns the shop domain
// taken from dest (or iss as a fallback).
func VerifySessionToken(tokenString, apiKey, apiSecret string, now time.Time) (*VerifiedSession, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrMissingSessionToken
	}
	if apiSecret == "" {
		return nil, fmt.Errorf("missing api secret")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	claims := &SessionTokenClaims{}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(apiSecret), nil
	}); err != nil {
		return nil, fmt.Errorf("verify session token: %w", err)
	}

	if apiKey != "" && !slices.Contains([]string(claims.Audience), apiKey) {
		return nil, ErrSessionAudience
	}

	shopDomain := shopFromURL(claims.Dest)
	if shopDomain == "" {
		shopDomain = shopFromURL(claims.Issuer)
	}
	if shopDomain == "" {
		return nil, fmt.Errorf("missing shop in token")
	}

	return &VerifiedSession{
		ShopDomain: shopDomain,
		UserID:     claims.Subject,
		ExpiresAt:  claims.ExpiresAt.Time,
	}, nil
}

// shopFromURL reduces "https://shop.myshopify.com/admin" style values to the host.
func shopFromURL(v string) string {
	s := strings.TrimSpace(v)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	if i := strings.Index(s, "/"); i >= 0 {
		s = s[:i]
	}
	return s
}
