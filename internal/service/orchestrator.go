package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mindfulu/companion/internal/llm"
	"github.com/mindfulu/companion/internal/model"
	"github.com/mindfulu/companion/pkg/logger"
	"github.com/mindfulu/companion/pkg/metrics"
)

// ContextWindow is the number of most recent messages sent to the
// completion backend. Older messages are dropped from the request only;
// stored history is never truncated.
const ContextWindow = 20

// FallbackMessage is appended as the assistant reply when the completion
// call fails, so the failure is visible in history rather than silently
// dropped.
const FallbackMessage = "I'm sorry, I'm having trouble connecting right now. Please try again in a moment. If you're in crisis, please use the crisis resources button."

// ErrTurnInFlight is returned when a turn is submitted for a conversation
// that already has one in flight.
var ErrTurnInFlight = errors.New("a turn is already in flight for this conversation")

// TurnState is the per-conversation turn lifecycle state.
type TurnState string

const (
	TurnIdle    TurnState = "idle"
	TurnSending TurnState = "sending"
	TurnSettled TurnState = "settled"
	TurnFailed  TurnState = "failed"
)

// TurnConfig is the fixed per-deployment completion configuration.
type TurnConfig struct {
	Model        string
	MaxTokens    int
	SystemPrompt string
}

// Orchestrator drives one turn at a time: append the user message, call
// the gateway with a bounded history window, append the assistant or
// fallback message, persisting after each append. At most one turn per
// conversation may be in flight; a concurrent submission is rejected.
type Orchestrator struct {
	repo    *Repository
	gateway llm.Client
	cfg     TurnConfig
	logger  *logger.Logger

	mu     sync.Mutex
	states map[string]TurnState
}

// NewOrchestrator creates a turn orchestrator.
func NewOrchestrator(repo *Repository, gateway llm.Client, cfg TurnConfig, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		repo:    repo,
		gateway: gateway,
		cfg:     cfg,
		logger:  log,
		states:  make(map[string]TurnState),
	}
}

// State returns the turn state for a conversation. A conversation that has
// never submitted a turn is Idle.
func (o *Orchestrator) State(conversationID string) TurnState {
	o.mu.Lock()
	defer o.mu.Unlock()
	if s, ok := o.states[conversationID]; ok {
		return s
	}
	return TurnIdle
}

// SubmitTurn runs one full turn against the conversation with the given
// id. An empty id targets the current conversation, creating one if none
// is active. Empty-after-trim text is a no-op. Gateway failures never
// escape: they settle as the fallback assistant message and a Failed
// state. The returned conversation reflects the appended turn.
func (o *Orchestrator) SubmitTurn(ctx context.Context, conversationID, userText string) (*model.Conversation, error) {
	text := strings.TrimSpace(userText)
	if text == "" {
		return nil, nil
	}

	conv, err := o.resolve(conversationID)
	if err != nil {
		return nil, err
	}

	if err := o.beginTurn(conv.ID); err != nil {
		return nil, err
	}

	log := o.logger.WithConversation(conv.ID)

	// Persist the user message before the network call so a crash mid-turn
	// still preserves the user's input.
	conv.Append(model.NewUserMessage(text))
	o.repo.Upsert(conv)

	resp, err := o.gateway.Complete(ctx, &llm.CompletionRequest{
		Model:     o.cfg.Model,
		System:    o.cfg.SystemPrompt,
		Messages:  windowed(conv.Messages),
		MaxTokens: o.cfg.MaxTokens,
	})
	if err != nil {
		log.Warn("completion failed, appending fallback", zap.Error(err))
		conv.Append(model.NewAssistantMessage(FallbackMessage))
		o.repo.Upsert(conv)
		o.settle(conv.ID, TurnFailed)
		metrics.RecordTurn("failed")
		metrics.RecordCompletion(o.gateway.Name(), "error", 0, 0, 0)
		return conv, nil
	}

	assistant := model.NewAssistantMessage(resp.Text)
	if resp.Model != "" {
		assistant.Model = &resp.Model
	}
	if resp.TokensIn > 0 {
		assistant.TokensIn = &resp.TokensIn
	}
	if resp.TokensOut > 0 {
		assistant.TokensOut = &resp.TokensOut
	}
	if resp.LatencyMs > 0 {
		assistant.LatencyMs = &resp.LatencyMs
	}
	conv.Append(assistant)
	o.repo.Upsert(conv)
	o.settle(conv.ID, TurnSettled)

	metrics.RecordTurn("settled")
	metrics.RecordCompletion(o.gateway.Name(), "success", float64(resp.LatencyMs)/1000.0, resp.TokensIn, resp.TokensOut)
	log.Info("turn settled",
		zap.Int("messages", len(conv.Messages)),
		zap.Int64("latency_ms", resp.LatencyMs),
	)

	return conv, nil
}

// resolve picks the target conversation: explicit id, then current, then a
// freshly created one.
func (o *Orchestrator) resolve(conversationID string) (*model.Conversation, error) {
	if conversationID != "" {
		return o.repo.Get(conversationID)
	}
	if conv := o.repo.Current(); conv != nil {
		return conv, nil
	}
	return o.repo.Create(), nil
}

func (o *Orchestrator) beginTurn(conversationID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.states[conversationID] == TurnSending {
		return ErrTurnInFlight
	}
	o.states[conversationID] = TurnSending
	return nil
}

func (o *Orchestrator) settle(conversationID string, state TurnState) {
	o.mu.Lock()
	o.states[conversationID] = state
	o.mu.Unlock()
}

// windowed maps the most recent ContextWindow messages to the gateway's
// input shape, preserving order.
func windowed(messages []model.Message) []llm.ChatMessage {
	start := 0
	if len(messages) > ContextWindow {
		start = len(messages) - ContextWindow
	}
	out := make([]llm.ChatMessage, 0, len(messages)-start)
	for _, m := range messages[start:] {
		out = append(out, llm.ChatMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return out
}
