package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// Identity is what a verified bearer token says about its holder.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*Identity, error)
}

// JWKSVerifier checks tokens against keys fetched from the identity
// provider's JWKS endpoint through a refreshing cache.
type JWKSVerifier struct {
	cache   *jwk.Cache
	jwksURL string
	issuer  string
}

func NewJWKSVerifier(cache *jwk.Cache, jwksURL, issuer string) *JWKSVerifier {
	return &JWKSVerifier{cache: cache, jwksURL: jwksURL, issuer: issuer}
}

func (v *JWKSVerifier) Verify(ctx context.Context, raw string) (*Identity, error) {
	set, err := v.cache.Lookup(ctx, v.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	options := []jwt.ParseOption{
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
	}
	if v.issuer != "" {
		options = append(options, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.Parse([]byte(raw), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, errors.New("no subject claim in JWT")
	}

	identity := &Identity{Subject: subject}

	// Profile claims are optional
	_ = token.Get("email", &identity.Email)
	_ = token.Get("name", &identity.Name)
	_ = token.Get("picture", &identity.Picture)

	return identity, nil
}
