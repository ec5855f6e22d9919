// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mindfulu/companion/internal/llm"
	"github.com/mindfulu/companion/internal/middleware"
	"github.com/mindfulu/companion/pkg/logger"
)

// User-safe failure messages. The upstream cause is logged, never exposed.
const (
	msgConfigError   = "API configuration error. Please check your settings."
	msgRateLimited   = "Service is busy. Please try again in a moment."
	msgGenericError  = "Unable to connect to AI service. Please try again."
	msgBadRequest    = "Messages are required"
	contextWindowLen = 20
)

// ChatConfig is the fixed completion configuration applied to every
// request through this endpoint.
type ChatConfig struct {
	Model        string
	MaxTokens    int
	SystemPrompt string
}

// ChatHandler fronts the completion provider: one POST, one provider
// round trip, one JSON reply.
type ChatHandler struct {
	client llm.Client
	cfg    ChatConfig
	logger *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(client llm.Client, cfg ChatConfig, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		client: client,
		cfg:    cfg,
		logger: log,
	}
}

type chatRequest struct {
	Messages []llm.ChatMessage `json:"messages"`
}

// Complete handles POST /api/chat
func (h *ChatHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Messages == nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	for _, m := range req.Messages {
		if err := middleware.ValidateRole(m.Role); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Assistant entries may legitimately be empty (a provider response
		// with no text block round-trips as ""); user entries may not.
		if m.Role == "user" {
			if err := middleware.ValidateMessageContent(m.Content); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
	}

	if h.client == nil {
		h.logger.Error("chat request received but no provider is configured")
		writeError(w, http.StatusInternalServerError, msgConfigError)
		return
	}

	// Bound history to the context window; clients send full history.
	messages := req.Messages
	if len(messages) > contextWindowLen {
		messages = messages[len(messages)-contextWindowLen:]
	}

	resp, err := h.client.Complete(ctx, &llm.CompletionRequest{
		Model:     h.cfg.Model,
		System:    h.cfg.SystemPrompt,
		Messages:  messages,
		MaxTokens: h.cfg.MaxTokens,
	})
	if err != nil {
		h.logger.Error("completion request failed",
			zap.String("provider", h.client.Name()),
			zap.String("correlation_id", middleware.GetCorrelationID(ctx)),
			zap.Error(err),
		)
		switch {
		case errors.Is(err, llm.ErrRateLimited):
			writeError(w, http.StatusTooManyRequests, msgRateLimited)
		case errors.Is(err, llm.ErrAuthentication):
			writeError(w, http.StatusInternalServerError, msgConfigError)
		default:
			writeError(w, http.StatusInternalServerError, msgGenericError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": resp.Text,
	})
}
