package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	gemini_models "filesage/providers/gemini/models"
	"filesage/token_management"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateContentRequest_Success(t *testing.T) {
	var gotPath string
	var gotBody gemini_models.GenerateContentRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		resp := gemini_models.GenerateContentResponse{
			Candidates: []gemini_models.Candidate{
				{Content: gemini_models.Content{Parts: []gemini_models.Part{{Text: "  the answer \n"}}}},
			},
			UsageMetadata: &gemini_models.UsageMetadata{
				PromptTokenCount:     10,
				CandidatesTokenCount: 4,
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	tokenManagement := token_management.NewTokenManager()
	provider := NewGeminiChatProvider(&GeminiConfig{
		BaseURL:         server.URL,
		Model:           "gemini-2.0-flash",
		ApiKey:          "test-key",
		TokenManagement: tokenManagement,
	})

	answer, err := provider.GenerateContentRequest(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer, "surrounding whitespace is trimmed")

	assert.Equal(t, "/models/gemini-2.0-flash:generateContent?key=test-key", gotPath)
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "hello", gotBody.Contents[0].Parts[0].Text)
	require.NotNil(t, gotBody.GenerationConfig)
	assert.InDelta(t, 0.5, gotBody.GenerationConfig.Temperature, 0.001)
	assert.Equal(t, 2048, gotBody.GenerationConfig.MaxOutputTokens)

	total, input, output := tokenManagement.GetCurrentTokenUsage()
	assert.Equal(t, 14, total)
	assert.Equal(t, 10, input)
	assert.Equal(t, 4, output)
}

func TestGenerateContentRequest_MissingAPIKey(t *testing.T) {
	provider := NewGeminiChatProvider(&GeminiConfig{Model: "gemini-2.0-flash"})

	_, err := provider.GenerateContentRequest(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestGenerateContentRequest_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
	}))
	defer server.Close()

	provider := NewGeminiChatProvider(&GeminiConfig{
		BaseURL: server.URL,
		Model:   "gemini-2.0-flash",
		ApiKey:  "bad-key",
	})

	_, err := provider.GenerateContentRequest(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGenerateContentRequest_QuotaError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	provider := NewGeminiChatProvider(&GeminiConfig{
		BaseURL: server.URL,
		Model:   "gemini-2.0-flash",
		ApiKey:  "test-key",
	})

	_, err := provider.GenerateContentRequest(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota or rate limit exceeded")
}

func TestGenerateContentRequest_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	provider := NewGeminiChatProvider(&GeminiConfig{
		BaseURL: server.URL,
		Model:   "gemini-2.0-flash",
		ApiKey:  "test-key",
	})

	_, err := provider.GenerateContentRequest(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}
