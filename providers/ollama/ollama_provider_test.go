package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	ollama_models "filesage/providers/ollama/models"
	"filesage/token_management"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateContentRequest_Success(t *testing.T) {
	var gotPath string
	var gotBody ollama_models.OllamaChatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		resp := ollama_models.OllamaChatCompletionResponse{
			Message:         ollama_models.Message{Role: "assistant", Content: " local answer \n"},
			Done:            true,
			PromptEvalCount: 8,
			EvalCount:       3,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	tokenManagement := token_management.NewTokenManager()
	provider := NewOllamaChatProvider(&OllamaConfig{
		BaseURL:         server.URL,
		Model:           "llama3.1",
		TokenManagement: tokenManagement,
	})

	answer, err := provider.GenerateContentRequest(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "local answer", answer)

	assert.Equal(t, "/chat", gotPath)
	assert.Equal(t, "llama3.1", gotBody.Model)
	assert.False(t, gotBody.Stream, "responses must arrive in one piece")
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "user", gotBody.Messages[0].Role)
	assert.Equal(t, "hello", gotBody.Messages[0].Content)

	total, input, output := tokenManagement.GetCurrentTokenUsage()
	assert.Equal(t, 11, total)
	assert.Equal(t, 8, input)
	assert.Equal(t, 3, output)
}

func TestGenerateContentRequest_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`model 'missing' not found`))
	}))
	defer server.Close()

	provider := NewOllamaChatProvider(&OllamaConfig{
		BaseURL: server.URL,
		Model:   "missing",
	})

	_, err := provider.GenerateContentRequest(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "not found")
}
