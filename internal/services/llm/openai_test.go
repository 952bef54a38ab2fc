package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talluriprudhvi/llm-agents/internal/services/llm"
)

func TestOpenAI_Complete_Success(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "72 and sunny."}}]}`))
	}))
	defer server.Close()

	client := llm.NewOpenAIClient("sk-test", server.URL, "gpt-4o-mini", server.Client(), zerolog.Nop())

	text, err := client.Complete(context.Background(), "be brief", "weather in Kyiv?")
	assert.NoError(t, err)
	assert.Equal(t, "72 and sunny.", text)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
}

func TestOpenAI_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := llm.NewOpenAIClient("sk-test", server.URL, "gpt-4o-mini", server.Client(), zerolog.Nop())

	text, err := client.Complete(context.Background(), "sys", "hi")
	assert.Error(t, err)
	assert.Empty(t, text)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenAI_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := llm.NewOpenAIClient("sk-test", server.URL, "gpt-4o-mini", server.Client(), zerolog.Nop())

	_, err := client.Complete(context.Background(), "sys", "hi")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestOpenAI_Complete_MissingKey(t *testing.T) {
	client := llm.NewOpenAIClient("", "https://api.example.com", "gpt-4o-mini", http.DefaultClient, zerolog.Nop())

	_, err := client.Complete(context.Background(), "sys", "hi")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API key not set")
}
