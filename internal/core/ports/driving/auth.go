package driving

import (
	"context"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
)

// AuthService authenticates bearer credentials for incoming requests.
type AuthService interface {
	// Authenticate validates a bearer token and returns the caller's
	// identity. Results are served from a best-effort read-through cache
	// when one is configured.
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}
