package providers

import (
	"testing"

	"filesage/token_management"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatProviderFactory(t *testing.T) {
	tokenManagement := token_management.NewTokenManager()

	tests := []struct {
		provider string
		wantErr  bool
	}{
		{"gemini", false},
		{"Gemini", false},
		{"ollama", false},
		{"OLLAMA", false},
		{"openai", true},
		{"", true},
	}

	for _, tt := range tests {
		p, err := ChatProviderFactory(&AIProviderConfig{Provider: tt.provider, Model: "m"}, tokenManagement)
		if tt.wantErr {
			require.Error(t, err, "provider: %q", tt.provider)
			continue
		}
		require.NoError(t, err, "provider: %q", tt.provider)
		assert.NotNil(t, p)
	}
}
