package extractor

import (
	"os"
	"strings"
)

// extractPlainText reads raw bytes and decodes them as text, dropping any
// invalid UTF-8 sequences. No format-specific parsing is done.
func extractPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), ""), nil
}
