package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
	"github.com/lexpert-ai/lexpert/internal/core/ports/driven"
	"github.com/lexpert-ai/lexpert/internal/core/ports/driving"
	"github.com/lexpert-ai/lexpert/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// identityCacheTTL bounds how long a verified identity is reused without
// re-contacting the identity provider.
const identityCacheTTL = time.Hour

// AuthService authenticates bearer tokens against an identity provider,
// with a read-through cache in front of it.
type AuthService struct {
	verifier driven.IdentityVerifier
	cache    driven.Cache
}

// NewAuthService creates an auth service. Pass driven.NopCache{} to disable
// caching.
func NewAuthService(verifier driven.IdentityVerifier, cache driven.Cache) *AuthService {
	if cache == nil {
		cache = driven.NopCache{}
	}
	return &AuthService{verifier: verifier, cache: cache}
}

// Authenticate validates a bearer token and returns the caller's identity.
// Cache entries are keyed by a token digest so raw credentials never sit in
// the cache; cache failures degrade to a provider round-trip.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing bearer token", domain.ErrAuthRequired)
	}

	key := tokenCacheKey(token)
	if raw, ok := s.cache.Get(key); ok {
		var identity domain.Identity
		if err := json.Unmarshal(raw, &identity); err == nil {
			return &identity, nil
		}
		// Corrupt entry, drop it and fall through to the provider.
		s.cache.Delete(key)
	}

	identity, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(identity); err == nil {
		s.cache.Set(key, raw, identityCacheTTL)
	} else {
		logger.Warn("auth: caching identity failed: %v", err)
	}
	return identity, nil
}

func tokenCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:" + hex.EncodeToString(sum[:])
}
