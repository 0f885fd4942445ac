// Package supabase provides an IdentityVerifier backed by Supabase Auth
// (GoTrue).
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
	"github.com/lexpert-ai/lexpert/internal/core/ports/driven"
)

// Ensure Verifier implements the interface.
var _ driven.IdentityVerifier = (*Verifier)(nil)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 10 * time.Second

// Config holds configuration for the Supabase auth client.
type Config struct {
	// ProjectURL is the Supabase project URL (required).
	ProjectURL string

	// APIKey is the project anon or service key (required); sent as the
	// apikey header alongside the user's bearer token.
	APIKey string

	// Timeout is the request timeout (default: 10s).
	Timeout time.Duration
}

// Verifier resolves bearer tokens to identities via the GoTrue /user
// endpoint.
type Verifier struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewVerifier creates a Supabase auth verifier.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.ProjectURL == "" {
		return nil, fmt.Errorf("supabase auth: project URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase auth: API key is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Verifier{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.ProjectURL, "/") + "/auth/v1",
		apiKey:  cfg.APIKey,
	}, nil
}

// userResponse is the GoTrue /user response format.
type userResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		Role string `json:"role"`
	} `json:"user_metadata"`
	AppMetadata struct {
		Role string `json:"role"`
	} `json:"app_metadata"`
}

// Verify validates the token against the identity provider and returns the
// identity it belongs to. Role comes from app_metadata first, then
// user_metadata, defaulting to the regular user role.
func (v *Verifier) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/user", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Fall through to decode.
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.ErrAuthInvalid
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("supabase auth: status %d: %s", resp.StatusCode, string(body))
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if user.ID == "" {
		return nil, domain.ErrAuthInvalid
	}

	role := user.AppMetadata.Role
	if role == "" {
		role = user.UserMetadata.Role
	}
	if role == "" {
		role = domain.RoleUser
	}

	return &domain.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   role,
	}, nil
}
