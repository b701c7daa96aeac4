// Package jwtauth verifies Auth0-issued RS256 bearer tokens and exposes the
// caller's identity to handlers as a typed Claims value.
//
// Auth0 puts custom claims under a namespace URL. The only place that knows
// those claim names is claimsFromMap; everything downstream reads Claims.
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity carried by a verified token.
type Claims struct {
	Subject   string // provider user id, e.g. "auth0|64f0..."
	Email     string
	Name      string
	Picture   string
	Roles     []string
	ExpiresAt time.Time
}

// HasRole reports whether the claims hold any of roles (case-insensitive).
func (c *Claims) HasRole(roles ...string) bool {
	if c == nil {
		return false
	}
	for _, have := range c.Roles {
		for _, want := range roles {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

// Config holds Auth0 verification settings.
type Config struct {
	Domain    string // tenant host, e.g. "hearmeout.us.auth0.com"
	Audience  string // API identifier
	Namespace string // custom claim prefix, e.g. "https://hearmeout.app/"
	JWKSURL   string // optional override; defaults to https://<domain>/.well-known/jwks.json
}

// DefaultNamespace is the custom-claim prefix used when Config.Namespace is empty.
const DefaultNamespace = "https://hearmeout.app/"

// Verifier validates bearer tokens.
type Verifier struct {
	issuer    string
	audience  string
	namespace string
	jwks      *JWKSCache
	parser    *jwt.Parser
}

// NewVerifier builds a Verifier. Domain and Audience are required.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.Domain == "" {
		return nil, errors.New("jwtauth: domain is required")
	}
	if cfg.Audience == "" {
		return nil, errors.New("jwtauth: audience is required")
	}

	domain := strings.TrimPrefix(strings.TrimPrefix(cfg.Domain, "https://"), "http://")
	domain = strings.TrimSuffix(domain, "/")

	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	jwksURL := cfg.JWKSURL
	if jwksURL == "" {
		jwksURL = fmt.Sprintf("https://%s/.well-known/jwks.json", domain)
	}

	issuer := fmt.Sprintf("https://%s/", domain)
	return &Verifier{
		issuer:    issuer,
		audience:  cfg.Audience,
		namespace: ns,
		jwks:      NewJWKSCache(jwksURL),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithAudience(cfg.Audience),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(30*time.Second),
		),
	}, nil
}

// Verify checks signature, issuer, audience and expiry, and returns the claims.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := v.parser.Parse(tokenString, func(t *jwt.Token) (any, error) {
		kid, ok := t.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, errors.New("missing kid in token header")
		}
		return v.jwks.GetKey(ctx, kid)
	})
	if err != nil {
		return nil, fmt.Errorf("jwtauth: %w", err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("jwtauth: invalid token")
	}
	c := claimsFromMap(mc, v.namespace)
	if c.Subject == "" {
		return nil, errors.New("jwtauth: token has no subject")
	}
	return c, nil
}

func claimsFromMap(mc jwt.MapClaims, ns string) *Claims {
	c := &Claims{
		Subject: stringClaim(mc, "sub"),
		Email:   stringClaim(mc, ns+"email"),
		Name:    stringClaim(mc, ns+"name"),
		Picture: stringClaim(mc, "picture"),
		Roles:   stringsClaim(mc, ns+"roles"),
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c
}

func stringClaim(mc jwt.MapClaims, key string) string {
	s, _ := mc[key].(string)
	return strings.TrimSpace(s)
}

func stringsClaim(mc jwt.MapClaims, key string) []string {
	var out []string
	switch v := mc[key].(type) {
	case string:
		if v != "" {
			out = append(out, v)
		}
	case []any:
		for _, x := range v {
			if s, ok := x.(string); ok && s != "" && !slices.Contains(out, s) {
				out = append(out, s)
			}
		}
	}
	return out
}

type ctxKey struct{}

// WithClaims returns ctx carrying c.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// ClaimsFrom returns the claims in ctx, or nil for anonymous requests.
func ClaimsFrom(ctx context.Context) *Claims {
	c, _ := ctx.Value(ctxKey{}).(*Claims)
	return c
}

// Subject returns the caller's subject id, or "" when anonymous.
func Subject(ctx context.Context) string {
	if c := ClaimsFrom(ctx); c != nil {
		return c.Subject
	}
	return ""
}
