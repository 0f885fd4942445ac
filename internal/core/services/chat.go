package services

import (
	"context"
	"strings"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
	"github.com/lexpert-ai/lexpert/internal/core/ports/driving"
	"github.com/lexpert-ai/lexpert/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// legalCitations backs the canned chat responses.
var legalCitations = []string{
	"Texas §153.002, p. 2",
	"Texas Family Code §153.131",
	"Texas §153.134(a)",
	"Trademark Manual of Examining Procedure §1202.02",
	"15 U.S.C. §1052(e)(1)",
}

// ChatService is the prototype keyword-matched chat surface. Responses are
// canned; no model is consulted.
type ChatService struct {
	bots []domain.Bot
}

// NewChatService creates a chat service with the canned bot roster.
func NewChatService() *ChatService {
	return &ChatService{
		bots: []domain.Bot{
			{ID: "1", Name: "Weyl Bot", Description: "Family law case for Weyl", LastActive: "2 hours ago"},
			{ID: "2", Name: "Trademark Bot", Description: "Trademark office action", LastActive: "1 day ago"},
			{ID: "3", Name: "Holly vs. Waytt", Description: "CPS reports case", LastActive: "3 days ago"},
		},
	}
}

// Reply produces a canned response and citation for a chat message.
func (s *ChatService) Reply(_ context.Context, text, botID string) (*domain.ChatReply, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidInput
	}

	logger.Info("chat: processing message for bot %q", botID)

	reply := &domain.ChatReply{
		Text: "Here's information related to your query about '" + text + "'.",
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "custody"):
		reply.Text += " In child custody cases, the court's primary consideration is the best interest of the child."
		reply.Citation = legalCitations[0]
	case strings.Contains(lower, "temporary"):
		reply.Text += " Temporary orders can be issued to establish temporary custody, visitation, and support."
		reply.Citation = legalCitations[1]
	case strings.Contains(lower, "trademark"):
		reply.Text += " Trademark applications must meet distinctiveness requirements and avoid likelihood of confusion."
		reply.Citation = legalCitations[3]
	default:
		reply.Text += " Please provide more specific details about your legal question for a more targeted response."
		// Deterministic fallback rather than a random pick
		reply.Citation = legalCitations[0]
	}

	return reply, nil
}

// ListBots returns the available case bots.
func (s *ChatService) ListBots(_ context.Context) ([]domain.Bot, error) {
	bots := make([]domain.Bot, len(s.bots))
	copy(bots, s.bots)
	return bots, nil
}

// GetBot returns a single bot. Template bots require the admin role.
func (s *ChatService) GetBot(_ context.Context, id string, identity *domain.Identity) (*domain.Bot, error) {
	if strings.HasPrefix(id, domain.TemplateBotPrefix) {
		if identity == nil || !identity.IsAdmin() {
			return nil, domain.ErrForbidden
		}
		return &domain.Bot{ID: id, Name: "Template", Description: "Reusable case template"}, nil
	}

	for i := range s.bots {
		if s.bots[i].ID == id {
			bot := s.bots[i]
			return &bot, nil
		}
	}
	return nil, domain.ErrNotFound
}
