package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"filesage/constants/lipgloss"
	"filesage/session"
	"filesage/utils"

	"github.com/spf13/cobra"
)

var askFullRead bool

var askCmd = &cobra.Command{
	Use:   "ask [directory] [question]",
	Short: "Ask a single question about a directory's files",
	Long: `Scans the given directory, summarizes its files, answers one question, and
exits. When the question mentions a file by name, the full file content is
only sent to the remote model if --full is set; otherwise the answer is
built from the file's summary.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		root := args[0]
		question := strings.Join(args[1:], " ")
		handleAskCommand(rootDependencies, root, question)
	},
}

func init() {
	askCmd.Flags().BoolVar(&askFullRead, "full", false, "Allow sending full file content to the remote model when a file is mentioned (may incur cost).")
	rootCmd.AddCommand(askCmd)
}

func handleAskCommand(rootDependencies *RootDependencies, root string, question string) {
	requireAPIKey(rootDependencies)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sess := newSession(rootDependencies)

	results, err := scanWithProgress(ctx, sess, root)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}

	for _, result := range results {
		if result.Skipped() {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("⚠ %s — skipped: %s", result.Name, result.SkipReason)))
		}
	}

	confirmFullRead := func(fileName string, size int64) bool {
		if !askFullRead {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("'%s' (%d bytes) was mentioned but --full is not set; answering from its summary only.", fileName, size)))
			return false
		}
		fmt.Println(lipgloss.Yellow.Render(session.CostWarningMessage(fileName, size)))
		return true
	}

	answer, err := sess.Ask(ctx, question, confirmFullRead)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}

	fmt.Println()
	_ = utils.RenderAndPrintMarkdownWithContext(ctx, answer, rootDependencies.Config.Theme)
	fmt.Println()

	rootDependencies.TokenManagement.DisplayTokens(
		rootDependencies.Config.AIProviderConfig.Provider,
		rootDependencies.Config.AIProviderConfig.Model,
	)
}
