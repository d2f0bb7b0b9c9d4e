package ai

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/elitechat/elite/backend/internal/config"
	"github.com/elitechat/elite/backend/internal/model/roster"
)

// Service generates simulated partner replies through an eino chat chain.
// It stands in for the reply-generation collaborator: a fallible async
// function from (prompt, conversation context) to text.
type Service struct {
	cfg     config.AIConfig
	chain   compose.Runnable[map[string]any, *schema.Message]
	history *HistoryStore
	now     func() time.Time
}

// NewService compiles the reply chain against the configured chat model.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile reply chain: %w", err)
	}

	return &Service{
		cfg:     cfg,
		chain:   runnable,
		history: NewHistoryStore(defaultHistoryLimit),
		now:     time.Now,
	}, nil
}

// GenerateReply produces the partner's reply to userText, biased by the
// partner's profile traits and the conversation's recent history.
func (s *Service) GenerateReply(ctx context.Context, partner roster.Summary, userText string) (string, error) {
	input := map[string]any{
		"system":  s.buildSystemPrompt(partner),
		"history": s.history.Window(partner.ID),
		"query":   userText,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("run reply chain: %w", err)
	}

	s.history.Record(partner.ID, userText, response.Content)
	log.Printf("[ai] generated reply for conversation=%d length=%d", partner.ID, len(response.Content))
	return response.Content, nil
}

// ForgetConversation evicts the stored history, e.g. when the user clears the
// conversation.
func (s *Service) ForgetConversation(conversationID int64) {
	s.history.Drop(conversationID)
}
