package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"filesage/constants/lipgloss"
	"filesage/session"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [directory]",
	Short: "Scan a directory and summarize every supported file",
	Long: `Walks the given directory (default: current directory), extracts text from
every supported file, and asks the remote model for a one-paragraph summary
of each. Files that cannot be read or summarized are reported and skipped.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		root := "."
		if len(args) > 0 {
			root = args[0]
		}
		handleScanCommand(rootDependencies, root)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func handleScanCommand(rootDependencies *RootDependencies, root string) {
	requireAPIKey(rootDependencies)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sess := newSession(rootDependencies)

	results, err := scanWithProgress(ctx, sess, root)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}

	printScanResults(results)
	rootDependencies.TokenManagement.DisplayTokens(
		rootDependencies.Config.AIProviderConfig.Provider,
		rootDependencies.Config.AIProviderConfig.Model,
	)
}

// scanWithProgress runs a scan while rendering a progress bar.
func scanWithProgress(ctx context.Context, sess *session.Session, root string) ([]session.FileSummary, error) {
	var progressbar *pterm.ProgressbarPrinter

	results, err := sess.Scan(ctx, root, func(current, total int, name string) {
		if progressbar == nil {
			progressbar, _ = pterm.DefaultProgressbar.
				WithTotal(total).
				WithTitle("Summarizing").
				Start()
		}
		progressbar.UpdateTitle(fmt.Sprintf("Summarizing %d/%d: %s", current, total, name))
		progressbar.Increment()
	})

	if progressbar != nil {
		_, _ = progressbar.Stop()
	}
	return results, err
}

func printScanResults(results []session.FileSummary) {
	if len(results) == 0 {
		fmt.Println(lipgloss.Yellow.Render("No supported files found."))
		return
	}

	summarized := 0
	for _, result := range results {
		if result.Skipped() {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("⚠ %s — skipped: %s", result.Name, result.SkipReason)))
			continue
		}
		summarized++
		fmt.Println(lipgloss.Green.Render("📄 " + result.Name))
		fmt.Println(lipgloss.Gray.Render("   " + result.Summary))
	}

	fmt.Println()
	fmt.Println(lipgloss.Green.Render(fmt.Sprintf("Scan complete: %d summarized, %d skipped.", summarized, len(results)-summarized)))
}
