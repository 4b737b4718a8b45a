package utils

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// RenderAndPrintMarkdownWithContext renders a markdown answer to the
// terminal with syntax highlighting, checking for cancellation between
// lines so long outputs stay interruptible.
func RenderAndPrintMarkdownWithContext(ctx context.Context, content string, theme string) error {
	lines := strings.Split(content, "\n")
	language := "markdown"
	inCodeBlock := false

	for _, line := range lines {
		select {
		case <-ctx.Done():
			fmt.Println("\n[output interrupted]")
			return ctx.Err()
		default:
		}

		if strings.HasPrefix(line, "```") {
			if !inCodeBlock {
				if lang := strings.TrimPrefix(line, "```"); lang != "" {
					language = strings.TrimSpace(lang)
				}
			} else {
				language = "markdown"
			}
			inCodeBlock = !inCodeBlock
			fmt.Println(line)
			continue
		}

		var buf bytes.Buffer
		if err := quick.Highlight(&buf, line+"\n", language, "terminal256", theme); err != nil {
			// Fall back to plain output when the lexer is unknown.
			fmt.Println(line)
			continue
		}
		fmt.Print(buf.String())
	}

	return nil
}
