package providers

import (
	"fmt"
	"strings"
	"time"

	"filesage/providers/contracts"
	"filesage/providers/gemini"
	"filesage/providers/ollama"
	contracts2 "filesage/token_management/contracts"
)

// AIProviderConfig holds the settings shared by every chat provider.
type AIProviderConfig struct {
	Provider        string   `mapstructure:"provider"`
	BaseURL         string   `mapstructure:"base_url"`
	Model           string   `mapstructure:"model"`
	ApiKey          string   `mapstructure:"api_key"`
	Temperature     *float32 `mapstructure:"temperature"`
	MaxOutputTokens int      `mapstructure:"max_output_tokens"`
	TimeoutSeconds  int      `mapstructure:"timeout_seconds"`
}

// ChatProviderFactory creates the chat provider named in the config.
func ChatProviderFactory(config *AIProviderConfig, tokenManagement contracts2.ITokenManagement) (contracts.IChatAIProvider, error) {
	timeout := time.Duration(config.TimeoutSeconds) * time.Second

	switch strings.ToLower(config.Provider) {
	case "gemini":
		return gemini.NewGeminiChatProvider(&gemini.GeminiConfig{
			BaseURL:         config.BaseURL,
			Model:           config.Model,
			ApiKey:          config.ApiKey,
			Temperature:     config.Temperature,
			MaxOutputTokens: config.MaxOutputTokens,
			Timeout:         timeout,
			TokenManagement: tokenManagement,
		}), nil
	case "ollama":
		return ollama.NewOllamaChatProvider(&ollama.OllamaConfig{
			BaseURL:         config.BaseURL,
			Model:           config.Model,
			Temperature:     config.Temperature,
			Timeout:         timeout,
			TokenManagement: tokenManagement,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}
