package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindfulu/companion/internal/llm"
	"github.com/mindfulu/companion/pkg/logger"
)

type stubClient struct {
	lastReq *llm.CompletionRequest
	resp    *llm.CompletionResponse
	err     error
}

func (s *stubClient) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func (s *stubClient) Name() string { return "stub" }

func newChatServer(client llm.Client) *httptest.Server {
	h := NewChatHandler(client, ChatConfig{
		Model:        "test-model",
		MaxTokens:    1024,
		SystemPrompt: "be kind",
	}, logger.NewNop())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", h.Complete)
	return httptest.NewServer(mux)
}

func postChat(t *testing.T, url, body string) (*http.Response, map[string]string) {
	t.Helper()
	resp, err := http.Post(url+"/api/chat", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestChatSuccess(t *testing.T) {
	client := &stubClient{resp: &llm.CompletionResponse{Text: "hello there"}}
	srv := newChatServer(client)
	defer srv.Close()

	resp, body := postChat(t, srv.URL, `{"messages":[{"role":"user","content":"hi"}]}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello there", body["message"])

	require.NotNil(t, client.lastReq)
	assert.Equal(t, "test-model", client.lastReq.Model)
	assert.Equal(t, "be kind", client.lastReq.System)
	assert.Equal(t, 1024, client.lastReq.MaxTokens)
}

func TestChatBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing messages", body: `{}`},
		{name: "messages not a sequence", body: `{"messages":"nope"}`},
		{name: "invalid json", body: `{`},
		{name: "invalid role", body: `{"messages":[{"role":"system","content":"x"}]}`},
		{name: "empty user content", body: `{"messages":[{"role":"user","content":""}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newChatServer(&stubClient{resp: &llm.CompletionResponse{Text: "unused"}})
			defer srv.Close()

			resp, body := postChat(t, srv.URL, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestChatEmptyMessagesIsAccepted(t *testing.T) {
	// An empty array is present and a sequence; only absence is a 400.
	srv := newChatServer(&stubClient{resp: &llm.CompletionResponse{Text: "hi"}})
	defer srv.Close()

	resp, _ := postChat(t, srv.URL, `{"messages":[]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChatErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "rate limited",
			err:        fmt.Errorf("%w: upstream returned 429", llm.ErrRateLimited),
			wantStatus: http.StatusTooManyRequests,
			wantError:  msgRateLimited,
		},
		{
			name:       "authentication",
			err:        fmt.Errorf("%w: upstream returned 401", llm.ErrAuthentication),
			wantStatus: http.StatusInternalServerError,
			wantError:  msgConfigError,
		},
		{
			name:       "generic",
			err:        fmt.Errorf("%w: connection refused", llm.ErrUnavailable),
			wantStatus: http.StatusInternalServerError,
			wantError:  msgGenericError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newChatServer(&stubClient{err: tt.err})
			defer srv.Close()

			resp, body := postChat(t, srv.URL, `{"messages":[{"role":"user","content":"hi"}]}`)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantError, body["error"])
			// Internal diagnostics stay internal.
			assert.NotContains(t, body["error"], "upstream")
		})
	}
}

func TestChatNoProviderConfigured(t *testing.T) {
	srv := newChatServer(nil)
	defer srv.Close()

	resp, body := postChat(t, srv.URL, `{"messages":[{"role":"user","content":"hi"}]}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, msgConfigError, body["error"])
}

func TestChatWindowsHistory(t *testing.T) {
	client := &stubClient{resp: &llm.CompletionResponse{Text: "ok"}}
	srv := newChatServer(client)
	defer srv.Close()

	var msgs []string
	for i := 0; i < 25; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		msgs = append(msgs, fmt.Sprintf(`{"role":%q,"content":"message %d"}`, role, i))
	}
	body := `{"messages":[` + strings.Join(msgs, ",") + `]}`

	resp, _ := postChat(t, srv.URL, body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, client.lastReq)
	require.Len(t, client.lastReq.Messages, contextWindowLen)
	assert.Equal(t, "message 5", client.lastReq.Messages[0].Content)
	assert.Equal(t, "message 24", client.lastReq.Messages[contextWindowLen-1].Content)
}

func TestHealthEndpoints(t *testing.T) {
	h := NewHealthHandler(&stubClient{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	unready := NewHealthHandler(nil)
	rec = httptest.NewRecorder()
	unready.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
