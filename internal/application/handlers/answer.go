package handlers

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/otterworks/gamescout/internal/domain/entities"
	"github.com/otterworks/gamescout/internal/domain/ports"
	"github.com/otterworks/gamescout/internal/domain/services"
)

// AnswerHandler handles question answering and maintains the conversation
// log around each exchange.
type AnswerHandler struct {
	store  ports.GameStore
	answer *services.AnswerService
	log    *zap.Logger
}

// NewAnswerHandler creates a new AnswerHandler.
func NewAnswerHandler(store ports.GameStore, answer *services.AnswerService, log *zap.Logger) *AnswerHandler {
	return &AnswerHandler{
		store:  store,
		answer: answer,
		log:    log,
	}
}

// HandleAsk answers a question and appends both turns to the conversation
// log. The user turn is recorded before resolution, untagged; the assistant
// turn carries the resolved game tag that future history-based resolution
// relies on. Log failures never block the answer.
func (h *AnswerHandler) HandleAsk(ctx context.Context, question string) (*services.AnswerResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.New("question is required")
	}

	if err := h.store.AppendConversation(ctx, &entities.ConversationEntry{
		Role: entities.RoleUser,
		Text: question,
	}); err != nil {
		h.log.Warn("recording user turn failed", zap.Error(err))
	}

	result, err := h.answer.Answer(ctx, question)
	if err != nil {
		return nil, err
	}

	if err := h.store.AppendConversation(ctx, &entities.ConversationEntry{
		Role:   entities.RoleAssistant,
		Text:   result.Text,
		GameID: result.ResolvedGameID,
	}); err != nil {
		h.log.Warn("recording assistant turn failed", zap.Error(err))
	}
	return result, nil
}
