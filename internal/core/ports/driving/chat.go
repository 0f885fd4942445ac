package driving

import (
	"context"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
)

// ChatService serves the prototype keyword-matched chat surface.
type ChatService interface {
	// Reply produces a canned response and citation for a chat message.
	Reply(ctx context.Context, text, botID string) (*domain.ChatReply, error)

	// ListBots returns the available case bots.
	ListBots(ctx context.Context) ([]domain.Bot, error)

	// GetBot returns a single bot. Template bots require the admin role.
	GetBot(ctx context.Context, id string, identity *domain.Identity) (*domain.Bot, error)
}
