package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"filesage/providers/contracts"
	"filesage/providers/models"
	ollama_models "filesage/providers/ollama/models"
	contracts2 "filesage/token_management/contracts"
)

// OllamaConfig implements the IChatAIProvider interface for a local Ollama instance.
type OllamaConfig struct {
	BaseURL         string
	Model           string
	Temperature     *float32
	Timeout         time.Duration
	TokenManagement contracts2.ITokenManagement
	client          *http.Client
}

const (
	defaultBaseURL = "http://localhost:11434/api"
	defaultTimeout = 60 * time.Second
)

// NewOllamaChatProvider initializes a new Ollama provider.
func NewOllamaChatProvider(config *OllamaConfig) contracts.IChatAIProvider {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OllamaConfig{
		BaseURL:         baseURL,
		Model:           config.Model,
		Temperature:     config.Temperature,
		Timeout:         timeout,
		TokenManagement: config.TokenManagement,
		client:          &http.Client{Timeout: timeout},
	}
}

func (ollamaProvider *OllamaConfig) GenerateContentRequest(ctx context.Context, prompt string) (string, error) {
	reqBody := ollama_models.OllamaChatCompletionRequest{
		Model: ollamaProvider.Model,
		Messages: []ollama_models.Message{
			{Role: "user", Content: prompt},
		},
		Stream:      false,
		Temperature: ollamaProvider.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshalling request body: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/chat", ollamaProvider.BaseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ollamaProvider.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", fmt.Errorf("request canceled: %v", err)
		}
		return "", fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiError models.AIError
		if err := json.Unmarshal(body, &apiError); err != nil || apiError.Error.Message == "" {
			return "", fmt.Errorf("API request failed with status code '%d' - %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return "", fmt.Errorf("API request failed with status code '%d' - %s", resp.StatusCode, apiError.Error.Message)
	}

	var response ollama_models.OllamaChatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("error unmarshalling response: %v", err)
	}

	if response.PromptEvalCount > 0 && ollamaProvider.TokenManagement != nil {
		ollamaProvider.TokenManagement.UsedTokens(response.PromptEvalCount, response.EvalCount)
	}

	return strings.TrimSpace(response.Message.Content), nil
}
