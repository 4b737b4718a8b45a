package gemini

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
	gemini_models "filesage/providers/gemini/models"
	"filesage/providers/models"
	contracts2 "filesage/token_management/contracts"
)

// GeminiConfig implements the IChatAIProvider interface for the Google Gemini API.
type GeminiConfig struct {
	BaseURL         string
	Model           string
	ApiKey          string
	Temperature     *float32
	MaxOutputTokens int
	Timeout         time.Duration
	TokenManagement contracts2.ITokenManagement
	client          *http.Client
}

const (
	defaultBaseURL         = "https://generativelanguage.googleapis.com/v1beta"
	defaultTemperature     = 0.5
	defaultMaxOutputTokens = 2048
	defaultTimeout         = 60 * time.Second
)

// NewGeminiChatProvider initializes a new Gemini provider.
func NewGeminiChatProvider(config *GeminiConfig) contracts.IChatAIProvider {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxTokens := config.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}
	return &GeminiConfig{
		BaseURL:         baseURL,
		Model:           config.Model,
		ApiKey:          config.ApiKey,
		Temperature:     config.Temperature,
		MaxOutputTokens: maxTokens,
		Timeout:         timeout,
		TokenManagement: config.TokenManagement,
		client:          &http.Client{Timeout: timeout},
	}
}

func (geminiProvider *GeminiConfig) GenerateContentRequest(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(geminiProvider.ApiKey) == "" {
		return "", errors.New("API key not provided")
	}

	temperature := float32(defaultTemperature)
	if geminiProvider.Temperature != nil {
		temperature = *geminiProvider.Temperature
	}

	reqBody := gemini_models.GenerateContentRequest{
		Contents: []gemini_models.Content{
			{Parts: []gemini_models.Part{{Text: prompt}}},
		},
		GenerationConfig: &gemini_models.GenerationConfig{
			Temperature:     temperature,
			TopP:            1.0,
			MaxOutputTokens: geminiProvider.MaxOutputTokens,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshalling request body: %v", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", geminiProvider.BaseURL, geminiProvider.Model, geminiProvider.ApiKey)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := geminiProvider.client.Do(req)
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
			return "", fmt.Errorf("API request failed with status code '%d'", resp.StatusCode)
		}
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "", fmt.Errorf("authentication failed with status code '%d' - %s (check your API key)", resp.StatusCode, apiError.Error.Message)
		case http.StatusTooManyRequests:
			return "", fmt.Errorf("quota or rate limit exceeded with status code '%d' - %s", resp.StatusCode, apiError.Error.Message)
		default:
			return "", fmt.Errorf("API request failed with status code '%d' - %s", resp.StatusCode, apiError.Error.Message)
		}
	}

	var response gemini_models.GenerateContentResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("error unmarshalling response: %v", err)
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("unexpected response format: no candidates returned")
	}

	if usage := response.UsageMetadata; usage != nil && geminiProvider.TokenManagement != nil {
		geminiProvider.TokenManagement.UsedTokens(usage.PromptTokenCount, usage.CandidatesTokenCount)
	}

	return strings.TrimSpace(response.Candidates[0].Content.Parts[0].Text), nil
}
