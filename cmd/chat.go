package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"filesage/constants/lipgloss"
	"filesage/session"
	"filesage/utils"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [directory]",
	Short: "Scan a directory, then chat about the files",
	Long: `Scans the given directory (default: current directory), summarizes every
supported file, and starts an interactive chat. Mentioning a file name in a
question triggers a cost warning before the full file content is sent to the
remote model.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		root := "."
		if len(args) > 0 {
			root = args[0]
		}
		handleChatCommand(rootDependencies, root)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func handleChatCommand(rootDependencies *RootDependencies, root string) {
	requireAPIKey(rootDependencies)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sess := newSession(rootDependencies)

	go utils.GracefulShutdown(ctx, func() {
		rootDependencies.TokenManagement.ClearToken()
	})

	results, err := scanWithProgress(ctx, sess, root)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
	printScanResults(results)

	reader := bufio.NewReader(os.Stdin)

	chatOptionsBox := lipgloss.BoxStyle.Render("Ask a question about your files.\n/help  Help for chat subcommand")
	fmt.Println(chatOptionsBox)

	confirmFullRead := func(fileName string, size int64) bool {
		accepted, err := utils.ConfirmPrompt(session.CostWarningMessage(fileName, size), reader)
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			return false
		}
		if !accepted {
			fmt.Println(lipgloss.Gray.Render("Answering from the stored summary instead."))
		}
		return accepted
	}

	for {
		select {
		case <-ctx.Done():
			return

		default:
			userInput, err := utils.InputPromptWithContext(ctx, reader)
			if err != nil {
				if err == context.Canceled {
					fmt.Println(lipgloss.Yellow.Render("\nExiting..."))
					return
				}
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
				continue
			}

			if userInput == "" {
				continue
			}

			handled, exit := findChatSubCommand(ctx, userInput, rootDependencies, sess, root)
			if handled {
				continue
			}
			if exit {
				return
			}

			answer, err := sess.Ask(ctx, userInput, confirmFullRead)
			if err != nil {
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
				continue
			}

			fmt.Println()
			if err := utils.RenderAndPrintMarkdownWithContext(ctx, answer, rootDependencies.Config.Theme); err != nil {
				continue
			}
			fmt.Println()

			rootDependencies.TokenManagement.DisplayTokens(
				rootDependencies.Config.AIProviderConfig.Provider,
				rootDependencies.Config.AIProviderConfig.Model,
			)
		}
	}
}

func findChatSubCommand(ctx context.Context, command string, rootDependencies *RootDependencies, sess *session.Session, root string) (bool, bool) {
	switch command {
	case "/help":
		helps := "/clear  Clear screen\n/rescan  Re-scan the directory\n/token  Token usage for this session\n/exit  Exit from filesage"
		fmt.Println(lipgloss.BoxStyle.Render(helps))
		return true, false
	case "/clear":
		fmt.Print("\033[2J\033[H")
		return true, false
	case "/token":
		rootDependencies.TokenManagement.DisplayTokens(
			rootDependencies.Config.AIProviderConfig.Provider,
			rootDependencies.Config.AIProviderConfig.Model,
		)
		return true, false
	case "/rescan":
		results, err := scanWithProgress(ctx, sess, root)
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			return true, false
		}
		printScanResults(results)
		return true, false
	case "/exit":
		return false, true
	default:
		return false, false
	}
}
