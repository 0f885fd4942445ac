package driven

import (
	"context"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
)

// IdentityVerifier validates bearer credentials against an external identity
// provider and resolves the caller's identity and role.
type IdentityVerifier interface {
	// Verify validates the token and returns the identity it belongs to.
	// Returns domain.ErrAuthInvalid for malformed, expired or rejected tokens.
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}
