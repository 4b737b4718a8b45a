package cmd

import (
	"fmt"
	"os"

	"filesage/constants/lipgloss"
	"filesage/tui"

	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [directory]",
	Short: "Start the full-screen terminal interface",
	Long: `Opens a full-screen interface: enter a directory and API key, watch the
scan progress, then chat about the scanned files. An optional directory
argument pre-fills the setup screen.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)

		root := ""
		if len(args) > 0 {
			root = args[0]
		}

		err := tui.Run(tui.Config{
			Root:            root,
			AppConfig:       rootDependencies.Config,
			TokenManagement: rootDependencies.TokenManagement,
		})
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
