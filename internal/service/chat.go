package service

import (
	"context"
	"strings"

	"github.com/PlayerLynx/AI-Study-Buddy/internal"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/ai"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/storage"
)

type ChatRequest struct {
	UserID  int64  `json:"user_id" validate:"required,gt=0"`
	Message string `json:"message" validate:"required"`
}

type ChatResult struct {
	Response string                 `json:"response"`
	History  []internal.ChatMessage `json:"history"`
}

// Chat asks the responder for a reply, stores the exchange and returns the
// user's recent history including it. A responder failure is logged and
// answered with the offline reply instead.
func Chat(ctx context.Context, chats storage.ChatRepository, responder ai.Responder, logger internal.Logger, req *ChatRequest) (*ChatResult, error) {
	req.Message = strings.TrimSpace(req.Message)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	reply, err := responder.Generate(ctx, req.Message)
	if err != nil {
		logger.Warnf("chat: responder failed for user %d, using offline reply: %v", req.UserID, err)
		reply = ai.StubReply(req.Message)
	}

	if err := chats.AddChatMessage(ctx, req.UserID, req.Message, reply); err != nil {
		return nil, err
	}
	history, err := chats.ChatHistory(ctx, req.UserID, storage.DefaultChatHistoryLimit)
	if err != nil {
		return nil, err
	}
	return &ChatResult{Response: reply, History: history}, nil
}
