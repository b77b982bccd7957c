package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/m2dev/codefolio/internal/domain/model"
)

var ErrValidation = errors.New("validation error")

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	maxHistoryMessages = 20
	maxMessageLength   = 2000

	fallbackReply = "The assistant is not available right now. Please use the contact details on this site to get in touch."
)

// Message is one turn of the visitor conversation.
type Message struct {
	Role    string
	Content string
}

// Generator produces a reply from a system prompt and conversation turns.
// The Gemini implementation is in gemini.go.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, history []Message, message string) (string, error)
}

type PortfolioSource interface {
	Get(ctx context.Context) (model.Portfolio, error)
}

// Service answers visitor questions about the site owner. The portfolio
// aggregate becomes the system prompt, so the model only talks about what
// the site actually shows.
type Service struct {
	generator Generator
	source    PortfolioSource
	logger    *zap.Logger
}

func NewService(generator Generator, source PortfolioSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		generator: generator,
		source:    source,
		logger:    logger,
	}
}

func (s *Service) Reply(ctx context.Context, history []Message, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" || len(message) > maxMessageLength {
		return "", ErrValidation
	}

	if s.generator == nil {
		return fallbackReply, nil
	}

	systemPrompt := ""
	if s.source != nil {
		aggregate, err := s.source.Get(ctx)
		if err != nil {
			s.logger.Warn("load portfolio for chat prompt", zap.Error(err))
		} else {
			systemPrompt = BuildSystemPrompt(aggregate)
		}
	}

	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}

	reply, err := s.generator.Generate(ctx, systemPrompt, history, message)
	if err != nil {
		return "", fmt.Errorf("generate chat reply: %w", err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return fallbackReply, nil
	}

	return reply, nil
}
