/*
Package idam acquires the token bundle passed through to the case and
document stores.

PURPOSE:
  Every consolidation invocation acquires one token bundle up front and
  threads it through all remote calls for that invocation. The bundle is
  opaque to the engine; only the stores interpret it.

IMPLEMENTATIONS:
  Generator: mints and caches a signed service token (HS256)
  Static:    fixed bundle for tests and local wiring
*/
package idam

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens is the bundle handed to remote stores on every call.
type Tokens struct {
	IdamOauth2Token  string
	ServiceAuthToken string
	UserID           string
}

// TokenProvider acquires a token bundle. Called once per consolidation
// invocation.
type TokenProvider interface {
	Tokens(ctx context.Context) (Tokens, error)
}

// =============================================================================
// GENERATOR - Mints signed service tokens
// =============================================================================

// Generator mints HS256 service tokens and caches them until shortly before
// expiry, so concurrent invocations share one token.
type Generator struct {
	secret []byte
	issuer string
	userID string
	ttl    time.Duration
	now    func() time.Time

	mu     sync.Mutex
	cached Tokens
	expiry time.Time
}

// NewGenerator creates a token generator for the given signing secret.
func NewGenerator(secret []byte, issuer, userID string) *Generator {
	return &Generator{
		secret: secret,
		issuer: issuer,
		userID: userID,
		ttl:    time.Hour,
		now:    time.Now,
	}
}

// Tokens returns the cached bundle, minting a fresh one when the cached
// token is within a minute of expiry.
func (g *Generator) Tokens(_ context.Context) (Tokens, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if g.cached.ServiceAuthToken != "" && now.Before(g.expiry.Add(-time.Minute)) {
		return g.cached, nil
	}

	expiry := now.Add(g.ttl)
	claims := jwt.MapClaims{
		"iss": g.issuer,
		"sub": g.userID,
		"iat": now.Unix(),
		"exp": expiry.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return Tokens{}, fmt.Errorf("sign service token: %w", err)
	}

	g.cached = Tokens{
		IdamOauth2Token:  "Bearer " + signed,
		ServiceAuthToken: signed,
		UserID:           g.userID,
	}
	g.expiry = expiry
	return g.cached, nil
}

// Verify checks a service token's signature and expiry.
func (g *Generator) Verify(token string) error {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil {
		return fmt.Errorf("verify service token: %w", err)
	}
	if !parsed.Valid {
		return fmt.Errorf("verify service token: token invalid")
	}
	return nil
}

// =============================================================================
// STATIC - Fixed bundle
// =============================================================================

// Static returns the same bundle on every call.
type Static struct {
	Bundle Tokens
}

func (s Static) Tokens(_ context.Context) (Tokens, error) {
	return s.Bundle, nil
}
