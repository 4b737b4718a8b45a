package extractor

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupported is returned when no handler family covers the file extension.
var ErrUnsupported = errors.New("unsupported file type")

// ReadError reports a failed extraction of a supported file, carrying the
// underlying parser or filesystem error.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read '%s': %v", filepath.Base(e.Path), e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// handlerKind tags the format family a file extension dispatches to.
type handlerKind int

const (
	documentKind handlerKind = iota
	spreadsheetKind
	presentationKind
	plainTextKind
)

var handlersByExt = map[string]handlerKind{
	".pdf":  documentKind,
	".docx": documentKind,
	".xlsx": spreadsheetKind,
	".xls":  spreadsheetKind,
	".pptx": presentationKind,
	".txt":  plainTextKind,
	".md":   plainTextKind,
	".py":   plainTextKind,
	".java": plainTextKind,
	".js":   plainTextKind,
	".html": plainTextKind,
	".css":  plainTextKind,
	".json": plainTextKind,
	".xml":  plainTextKind,
	".csv":  plainTextKind,
	".log":  plainTextKind,
	".ini":  plainTextKind,
	".cfg":  plainTextKind,
	".sh":   plainTextKind,
	".bat":  plainTextKind,
}

// IsSupported reports whether the file's extension maps to a handler family.
// The comparison is case-insensitive.
func IsSupported(path string) bool {
	_, ok := handlersByExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// SupportedExtensions returns the supported extension set in sorted order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(handlersByExt))
	for ext := range handlersByExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extract returns the full concatenated text of the document at path.
// An unknown extension yields ErrUnsupported; any parser or filesystem
// failure yields a *ReadError. There are no partial results.
func Extract(path string) (text string, err error) {
	// Some document parsers panic on corrupt input; keep that recoverable
	// per file so a batch scan survives.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ReadError{Path: path, Err: fmt.Errorf("parser panic: %v", r)}
		}
	}()

	ext := strings.ToLower(filepath.Ext(path))
	kind, ok := handlersByExt[ext]
	if !ok {
		return "", ErrUnsupported
	}

	switch kind {
	case documentKind:
		if ext == ".pdf" {
			text, err = extractPDF(path)
		} else {
			text, err = extractWordDocument(path)
		}
	case spreadsheetKind:
		text, err = extractWorkbook(path)
	case presentationKind:
		text, err = extractPresentation(path)
	case plainTextKind:
		text, err = extractPlainText(path)
	}

	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	return text, nil
}
