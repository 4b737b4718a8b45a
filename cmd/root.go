package cmd

import (
	"fmt"
	"os"

	"filesage/config"
	"filesage/constants/lipgloss"
	"filesage/providers"
	contracts_provider "filesage/providers/contracts"
	"filesage/session"
	"filesage/token_management"
	contracts_token "filesage/token_management/contracts"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

// RootDependencies holds the wired collaborators shared by every subcommand.
type RootDependencies struct {
	Config              *config.Config
	Cwd                 string
	CurrentChatProvider contracts_provider.IChatAIProvider
	TokenManagement     contracts_token.ITokenManagement
}

var rootCmd = &cobra.Command{
	Use:   "filesage",
	Short: "AI-powered file summarizer and Q&A for a local directory",
	Long: `filesage scans a directory, extracts text from documents, spreadsheets,
presentations, and code files, asks a remote model to summarize each one,
and then answers questions about the files in a chat interface.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Println("filesage version " + version)
			return
		}
		_ = cmd.Help()
	},
}

// handleRootCommand loads configuration and builds the shared dependencies.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		os.Exit(1)
	}

	cfg := config.LoadConfigs(rootCmd, cwd)

	tokenManagement := token_management.NewTokenManager()

	chatProvider, err := providers.ChatProviderFactory(cfg.AIProviderConfig, tokenManagement)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}

	return &RootDependencies{
		Config:              cfg,
		Cwd:                 cwd,
		CurrentChatProvider: chatProvider,
		TokenManagement:     tokenManagement,
	}
}

// newSession builds a session from the loaded configuration.
func newSession(deps *RootDependencies) *session.Session {
	return session.New(deps.CurrentChatProvider, session.Config{
		SummaryCharBudget: deps.Config.SummaryCharBudget,
		MaxDepth:          deps.Config.MaxDepth,
		MaxFileSize:       deps.Config.MaxFileSizeBytes,
	})
}

// requireAPIKey stops early with a clear message instead of failing on the
// first remote call. Ollama runs locally and needs no key.
func requireAPIKey(deps *RootDependencies) {
	if deps.Config.AIProviderConfig.Provider == "gemini" && deps.Config.AIProviderConfig.ApiKey == "" {
		fmt.Println(lipgloss.Red.Render("Please provide an API key (--api_key flag, API_KEY environment variable, or config file)."))
		os.Exit(1)
	}
}

func Execute() {
	config.InitFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}
