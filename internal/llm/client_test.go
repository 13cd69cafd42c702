package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, req chatRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, req)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func reply(w http.ResponseWriter, content string) {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(nil, "", "key", "model", 0, 0)
	assert.Error(t, err)
	_, err = NewClient(nil, "http://localhost", "", "model", 0, 0)
	assert.Error(t, err)
	_, err = NewClient(nil, "http://localhost", "key", "", 0, 0)
	assert.Error(t, err)
}

func TestGenerateReplyIncludesSystemPrompt(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, req chatRequest) {
		require.NotEmpty(t, req.Messages)
		assert.Equal(t, RoleSystem, req.Messages[0].Role)
		assert.Contains(t, req.Messages[0].Content, "SDR")
		assert.Nil(t, req.ResponseFormat)
		assert.Equal(t, 500, req.MaxTokens)
		reply(w, "Olá! Como posso ajudar?")
	})

	client, err := NewClient(nil, srv.URL, "test-key", "test-model", time.Second, 0)
	require.NoError(t, err)

	out, err := client.GenerateReply(context.Background(), []Message{
		{Role: RoleUser, Content: "Oi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Olá! Como posso ajudar?", out)
}

func TestExtractLeadParsesJSON(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, req chatRequest) {
		assert.Equal(t, map[string]string{"type": "json_object"}, req.ResponseFormat)
		reply(w, `{"name": "Maria Silva", "email": "maria@acme.com", "interest_confirmed": true}`)
	})

	client, err := NewClient(nil, srv.URL, "test-key", "test-model", time.Second, 0)
	require.NoError(t, err)

	partial, err := client.ExtractLead(context.Background(), []Message{
		{Role: RoleUser, Content: "Sou a Maria Silva, maria@acme.com, quero contratar"},
	})
	require.NoError(t, err)
	require.NotNil(t, partial.Name)
	assert.Equal(t, "Maria Silva", *partial.Name)
	require.NotNil(t, partial.Email)
	assert.Equal(t, "maria@acme.com", *partial.Email)
	require.NotNil(t, partial.InterestConfirmed)
	assert.True(t, *partial.InterestConfirmed)
}

func TestExtractLeadStripsCodeFence(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, req chatRequest) {
		reply(w, "```json\n{\"name\": \"Maria\"}\n```")
	})

	client, err := NewClient(nil, srv.URL, "test-key", "test-model", time.Second, 0)
	require.NoError(t, err)

	partial, err := client.ExtractLead(context.Background(), []Message{{Role: RoleUser, Content: "oi"}})
	require.NoError(t, err)
	require.NotNil(t, partial.Name)
	assert.Equal(t, "Maria", *partial.Name)
}

func TestExtractLeadRejectsEmptyHistory(t *testing.T) {
	client, err := NewClient(nil, "http://localhost:1", "test-key", "test-model", time.Second, 0)
	require.NoError(t, err)

	_, err = client.ExtractLead(context.Background(), nil)
	assert.Error(t, err)
}

func TestCallChatErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(nil, srv.URL, "test-key", "test-model", time.Second, 0)
	require.NoError(t, err)

	_, err = client.GenerateReply(context.Background(), []Message{{Role: RoleUser, Content: "oi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestRemoveCodeBlocks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, removeCodeBlocks(tt.in))
		})
	}
}
