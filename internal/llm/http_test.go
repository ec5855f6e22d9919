package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientSuccess(t *testing.T) {
	var received chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "a reply"})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL)
	resp, err := client.Complete(context.Background(), &CompletionRequest{
		Messages: []ChatMessage{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "a reply", resp.Text)
	require.Len(t, received.Messages, 1)
	assert.Equal(t, "hi", received.Messages[0].Content)
}

func TestHTTPClientMissingMessageFieldYieldsEmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	resp, err := NewHTTPClient(srv.URL).Complete(context.Background(), &CompletionRequest{
		Messages: []ChatMessage{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Text)
}

func TestHTTPClientErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantTarget error
	}{
		{
			name:       "rate limited",
			status:     http.StatusTooManyRequests,
			body:       `{"error":"Service is busy. Please try again in a moment."}`,
			wantTarget: ErrRateLimited,
		},
		{
			name:       "server failure",
			status:     http.StatusInternalServerError,
			body:       `{"error":"Unable to connect to AI service. Please try again."}`,
			wantTarget: ErrUnavailable,
		},
		{
			name:       "bad request",
			status:     http.StatusBadRequest,
			body:       `{"error":"Messages are required"}`,
			wantTarget: ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPClient(srv.URL).Complete(context.Background(), &CompletionRequest{
				Messages: []ChatMessage{{Role: "user", Content: "hi"}},
			})
			assert.ErrorIs(t, err, tt.wantTarget)
		})
	}
}

func TestHTTPClientConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	_, err := NewHTTPClient(srv.URL).Complete(context.Background(), &CompletionRequest{
		Messages: []ChatMessage{{Role: "user", Content: "hi"}},
	})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClassifyStatus(t *testing.T) {
	assert.ErrorIs(t, classifyStatus(http.StatusUnauthorized), ErrAuthentication)
	assert.ErrorIs(t, classifyStatus(http.StatusForbidden), ErrAuthentication)
	assert.ErrorIs(t, classifyStatus(http.StatusTooManyRequests), ErrRateLimited)
	assert.ErrorIs(t, classifyStatus(http.StatusInternalServerError), ErrUnavailable)
	assert.ErrorIs(t, classifyStatus(http.StatusBadGateway), ErrUnavailable)
}
