package domain

// ChatReply is a keyword-matched chat response with an optional citation.
type ChatReply struct {
	// Text is the response text.
	Text string

	// Citation is the supporting legal citation, when one matched.
	Citation string
}

// Bot is a case-scoped chat assistant.
type Bot struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	LastActive  string `json:"lastActive"`
}

// TemplateBotPrefix marks bots that only admins may access.
const TemplateBotPrefix = "template_"
