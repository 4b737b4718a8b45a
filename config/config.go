package config

import (
	"fmt"
	"os"

	"filesage/constants/lipgloss"
	"filesage/providers"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config represents the structure of the configuration file.
type Config struct {
	Theme             string                      `mapstructure:"theme"`
	SummaryCharBudget int                         `mapstructure:"summary_char_budget"`
	MaxDepth          int                         `mapstructure:"max_depth"`
	MaxFileSizeBytes  int64                       `mapstructure:"max_file_size_bytes"`
	AIProviderConfig  *providers.AIProviderConfig `mapstructure:"ai_provider_config"`
}

// DefaultConfig values.
var DefaultConfig = Config{
	Theme:             "dracula",
	SummaryCharBudget: 15000,
	MaxDepth:          0,
	MaxFileSizeBytes:  20 * 1024 * 1024,
	AIProviderConfig: &providers.AIProviderConfig{
		Provider:        "gemini",
		BaseURL:         "",
		Model:           "gemini-2.0-flash",
		ApiKey:          "",
		Temperature:     nil,
		MaxOutputTokens: 2048,
		TimeoutSeconds:  60,
	},
}

// cfgFile holds the path to the configuration file (set via CLI).
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and
// environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	setDefaults()

	viper.AutomaticEnv()
	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	} else {
		viper.SetConfigName("filesage-config")
		viper.AddConfigPath(cwd)

		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			viper.SetConfigType("json")
			_ = viper.ReadInConfig() // fall back to defaults when neither exists
		}
	}

	bindFlags(rootCmd)

	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(1)
	}

	return config
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("summary_char_budget", DefaultConfig.SummaryCharBudget)
	viper.SetDefault("max_depth", DefaultConfig.MaxDepth)
	viper.SetDefault("max_file_size_bytes", DefaultConfig.MaxFileSizeBytes)
	viper.SetDefault("ai_provider_config.provider", DefaultConfig.AIProviderConfig.Provider)
	viper.SetDefault("ai_provider_config.base_url", DefaultConfig.AIProviderConfig.BaseURL)
	viper.SetDefault("ai_provider_config.model", DefaultConfig.AIProviderConfig.Model)
	viper.SetDefault("ai_provider_config.api_key", DefaultConfig.AIProviderConfig.ApiKey)
	viper.SetDefault("ai_provider_config.temperature", DefaultConfig.AIProviderConfig.Temperature)
	viper.SetDefault("ai_provider_config.max_output_tokens", DefaultConfig.AIProviderConfig.MaxOutputTokens)
	viper.SetDefault("ai_provider_config.timeout_seconds", DefaultConfig.AIProviderConfig.TimeoutSeconds)
}

// bindEnv explicitly binds environment variables to configuration keys.
func bindEnv() {
	_ = viper.BindEnv("theme", "THEME")
	_ = viper.BindEnv("summary_char_budget", "SUMMARY_CHAR_BUDGET")
	_ = viper.BindEnv("max_depth", "MAX_DEPTH")
	_ = viper.BindEnv("max_file_size_bytes", "MAX_FILE_SIZE_BYTES")
	_ = viper.BindEnv("ai_provider_config.provider", "PROVIDER")
	_ = viper.BindEnv("ai_provider_config.base_url", "BASE_URL")
	_ = viper.BindEnv("ai_provider_config.model", "MODEL")
	_ = viper.BindEnv("ai_provider_config.api_key", "API_KEY")
	_ = viper.BindEnv("ai_provider_config.temperature", "TEMPERATURE")
	_ = viper.BindEnv("ai_provider_config.max_output_tokens", "MAX_OUTPUT_TOKENS")
	_ = viper.BindEnv("ai_provider_config.timeout_seconds", "TIMEOUT_SECONDS")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("summary_char_budget", rootCmd.PersistentFlags().Lookup("summary_char_budget"))
	_ = viper.BindPFlag("max_depth", rootCmd.PersistentFlags().Lookup("max_depth"))
	_ = viper.BindPFlag("max_file_size_bytes", rootCmd.PersistentFlags().Lookup("max_file_size_bytes"))
	_ = viper.BindPFlag("ai_provider_config.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("ai_provider_config.base_url", rootCmd.PersistentFlags().Lookup("base_url"))
	_ = viper.BindPFlag("ai_provider_config.model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("ai_provider_config.api_key", rootCmd.PersistentFlags().Lookup("api_key"))
	_ = viper.BindPFlag("ai_provider_config.temperature", rootCmd.PersistentFlags().Lookup("temperature"))
	_ = viper.BindPFlag("ai_provider_config.timeout_seconds", rootCmd.PersistentFlags().Lookup("timeout_seconds"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to a configuration file (JSON or YAML).")

	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Syntax highlighting theme for rendered answers (e.g. 'dracula', 'monokai').")
	rootCmd.PersistentFlags().Int("summary_char_budget", DefaultConfig.SummaryCharBudget, "Maximum characters of file content sent per summarization request.")
	rootCmd.PersistentFlags().Int("max_depth", DefaultConfig.MaxDepth, "Maximum subdirectory depth to scan (0 = unlimited).")
	rootCmd.PersistentFlags().Int64("max_file_size_bytes", DefaultConfig.MaxFileSizeBytes, "Skip files larger than this many bytes (0 = unlimited).")

	rootCmd.Flags().BoolP("version", "v", false, "Print the version of the application.")

	rootCmd.PersistentFlags().String("provider", DefaultConfig.AIProviderConfig.Provider, "The name of the AI provider ('gemini' or 'ollama').")
	rootCmd.PersistentFlags().String("base_url", DefaultConfig.AIProviderConfig.BaseURL, "Base URL of the AI provider (defaults to the provider's public endpoint).")
	rootCmd.PersistentFlags().String("model", DefaultConfig.AIProviderConfig.Model, "The model used for summaries and answers, such as 'gemini-2.0-flash'.")
	rootCmd.PersistentFlags().String("api_key", DefaultConfig.AIProviderConfig.ApiKey, "The API key used to authenticate with the AI provider.")
	rootCmd.PersistentFlags().Float32("temperature", 0, "Adjusts the model's creativity (0-1, default 0.5).")
	rootCmd.PersistentFlags().Int("timeout_seconds", DefaultConfig.AIProviderConfig.TimeoutSeconds, "Request timeout for remote model calls, in seconds.")
}
