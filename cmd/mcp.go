package cmd

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"filesage/session"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing directory summarization tools",
	Long: `Serves the scan and question-answering operations over the Model Context
Protocol on stdio, so external clients can drive filesage. Full-file reads
require the explicit allow_full_read argument in place of the interactive
cost-warning confirmation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies := handleRootCommand(cmd)
		return runMCP(rootDependencies)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// mcpSession serializes access to the shared session; MCP handlers may be
// invoked concurrently.
type mcpSession struct {
	mu   sync.Mutex
	sess *session.Session
}

func runMCP(rootDependencies *RootDependencies) error {
	shared := &mcpSession{sess: newSession(rootDependencies)}

	s := mcpserver.NewMCPServer("filesage", version, mcpserver.WithToolCapabilities(false))

	s.AddTool(scanDirectoryTool(), makeScanHandler(shared))
	s.AddTool(listScannedFilesTool(), makeListFilesHandler(shared))
	s.AddTool(askQuestionTool(), makeAskHandler(shared))

	return mcpserver.ServeStdio(s)
}

// --- Tool schema builders ---

var readOnlyAnnotation = mcp.ToolAnnotation{
	ReadOnlyHint:    mcp.ToBoolPtr(true),
	DestructiveHint: mcp.ToBoolPtr(false),
	IdempotentHint:  mcp.ToBoolPtr(true),
	OpenWorldHint:   mcp.ToBoolPtr(false),
}

func scanDirectoryTool() mcp.Tool {
	return mcp.NewTool("scan_directory",
		mcp.WithDescription("Scan a local directory, extract text from every supported file (PDF, Word, Excel, PowerPoint, plain text/code), and summarize each one with the remote model. Replaces any previous scan."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the directory to scan"),
		),
	)
}

func listScannedFilesTool() mcp.Tool {
	return mcp.NewTool("list_scanned_files",
		mcp.WithDescription("List the files from the latest scan with their summaries, including skipped files and the reason they were skipped."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
	)
}

func askQuestionTool() mcp.Tool {
	return mcp.NewTool("ask_question",
		mcp.WithDescription("Answer a question about the scanned files. Mentioning a file name normally requires a confirmed full-file read; set allow_full_read to permit sending the full file content to the remote model (may incur cost)."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The question to answer"),
		),
		mcp.WithBoolean("allow_full_read",
			mcp.Description("Permit sending full file content to the remote model when a file is mentioned (default false: answer from the file's summary)"),
		),
	)
}

// --- Handler factories ---

func makeScanHandler(shared *mcpSession) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")
		if path == "" {
			return mcp.NewToolResultError("path is required"), nil
		}

		shared.mu.Lock()
		results, err := shared.sess.Scan(ctx, path, nil)
		shared.mu.Unlock()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
		}

		return mcp.NewToolResultText(formatScanResults(results)), nil
	}
}

func makeListFilesHandler(shared *mcpSession) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		shared.mu.Lock()
		results := shared.sess.Results()
		shared.mu.Unlock()

		if len(results) == 0 {
			return mcp.NewToolResultText("No scan has been run yet. Call scan_directory first."), nil
		}
		return mcp.NewToolResultText(formatScanResults(results)), nil
	}
}

func makeAskHandler(shared *mcpSession) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question := req.GetString("question", "")
		if question == "" {
			return mcp.NewToolResultError("question is required"), nil
		}
		allowFullRead := req.GetBool("allow_full_read", false)

		shared.mu.Lock()
		answer, err := shared.sess.Ask(ctx, question, func(string, int64) bool {
			return allowFullRead
		})
		shared.mu.Unlock()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("answer failed: %v", err)), nil
		}

		return mcp.NewToolResultText(answer), nil
	}
}

// --- Formatting helpers ---

func formatScanResults(results []session.FileSummary) string {
	var sb strings.Builder
	summarized := 0

	fmt.Fprintf(&sb, "## Scanned files (%d)\n\n", len(results))
	for _, r := range results {
		if r.Skipped() {
			fmt.Fprintf(&sb, "- **%s** — skipped: %s\n", r.Name, r.SkipReason)
			continue
		}
		summarized++
		fmt.Fprintf(&sb, "- **%s** — %s\n", r.Name, r.Summary)
	}
	fmt.Fprintf(&sb, "\n%d summarized, %d skipped.\n", summarized, len(results)-summarized)

	return sb.String()
}
