package session

import (
	"context"
	"fmt"
	"os"
	"strings"

	"filesage/embed_data"
	"filesage/extractor"
	"filesage/providers/contracts"
	"filesage/scanner"
)

// emptyFileSummary is recorded instead of calling the remote model when a
// file extracts to nothing but whitespace.
const emptyFileSummary = "[File is empty or contains no readable text]"

// ChatTurn is one entry of the conversation transcript. The transcript is
// display-only; it is never replayed to the model.
type ChatTurn struct {
	Role string // "user" or "assistant"
	Text string
}

// FileSummary is the per-file outcome of a scan: either a summary or a skip
// reason, never both.
type FileSummary struct {
	Name       string
	Path       string
	Summary    string
	SkipReason string
}

// Skipped reports whether the file was excluded from the summary index.
func (f FileSummary) Skipped() bool { return f.SkipReason != "" }

// Config holds the tunables of a session.
type Config struct {
	// SummaryCharBudget truncates extracted text before summarization.
	SummaryCharBudget int
	// MaxDepth limits directory recursion; 0 means unlimited.
	MaxDepth int
	// MaxFileSize skips files larger than this many bytes; 0 means unlimited.
	MaxFileSize int64
}

// ProgressFunc is called once per file during a scan, before processing it.
type ProgressFunc func(current, total int, name string)

// ConfirmFullReadFunc resolves the cost warning for a full-file read. It
// receives the mentioned file's name and size in bytes and returns true to
// proceed. A nil func counts as declined.
type ConfirmFullReadFunc func(fileName string, size int64) bool

type indexEntry struct {
	path    string
	summary string
}

// Session owns all state of one interactive session: the summary index, the
// chat transcript, and the provider used for remote calls. It is created at
// session start and discarded at session end; nothing is persisted. A
// Session is not safe for concurrent use.
type Session struct {
	cfg        Config
	provider   contracts.IChatAIProvider
	index      map[string]indexEntry
	order      []string
	results    []FileSummary
	transcript []ChatTurn
}

// New creates an empty session backed by the given provider.
func New(provider contracts.IChatAIProvider, cfg Config) *Session {
	return &Session{
		cfg:      cfg,
		provider: provider,
		index:    make(map[string]indexEntry),
	}
}

// Scan walks root, extracts and summarizes every supported file, and
// replaces the summary index wholesale. Per-file extraction or
// summarization failures are reported as skip reasons and never abort the
// batch; only an unusable root or a canceled context fails the scan.
func (s *Session) Scan(ctx context.Context, root string, onProgress ProgressFunc) ([]FileSummary, error) {
	files, err := scanner.Scan(root, scanner.Options{
		MaxDepth:    s.cfg.MaxDepth,
		MaxFileSize: s.cfg.MaxFileSize,
	})
	if err != nil {
		return nil, err
	}

	s.index = make(map[string]indexEntry)
	s.order = nil
	s.results = nil
	s.transcript = nil

	results := make([]FileSummary, 0, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			s.results = results
			return results, err
		}
		if onProgress != nil {
			onProgress(i+1, len(files), f.Name)
		}

		text, err := extractor.Extract(f.Path)
		if err != nil {
			results = append(results, FileSummary{
				Name:       f.Name,
				Path:       f.Path,
				SkipReason: err.Error(),
			})
			continue
		}

		var summary string
		if strings.TrimSpace(text) == "" {
			summary = emptyFileSummary
		} else {
			prompt := fmt.Sprintf(string(embed_data.SummarizeFilePrompt), f.Name, truncate(text, s.cfg.SummaryCharBudget))
			summary, err = s.provider.GenerateContentRequest(ctx, prompt)
			if err != nil {
				results = append(results, FileSummary{
					Name:       f.Name,
					Path:       f.Path,
					SkipReason: fmt.Sprintf("summarization failed: %v", err),
				})
				continue
			}
		}

		if _, exists := s.index[f.Name]; !exists {
			s.order = append(s.order, f.Name)
		}
		s.index[f.Name] = indexEntry{path: f.Path, summary: summary}
		results = append(results, FileSummary{
			Name:    f.Name,
			Path:    f.Path,
			Summary: summary,
		})
	}

	s.results = results
	return results, nil
}

// Ask answers a question about the scanned files. When the question mentions
// an indexed file name, confirmFullRead resolves the cost warning: on
// confirmation the file's full content is re-extracted and forwarded
// untruncated, on decline only that file's stored summary is used. With no
// mention, the entire summary index is sent as context.
func (s *Session) Ask(ctx context.Context, question string, confirmFullRead ConfirmFullReadFunc) (string, error) {
	s.transcript = append(s.transcript, ChatTurn{Role: "user", Text: question})

	answer, err := s.answer(ctx, question, confirmFullRead)
	if err != nil {
		return "", err
	}

	s.transcript = append(s.transcript, ChatTurn{Role: "assistant", Text: answer})
	return answer, nil
}

func (s *Session) answer(ctx context.Context, question string, confirmFullRead ConfirmFullReadFunc) (string, error) {
	name, path, size, mentioned := s.MentionedFile(question)
	if !mentioned {
		prompt := fmt.Sprintf(string(embed_data.AnswerWithIndexPrompt), question, s.renderIndex())
		return s.provider.GenerateContentRequest(ctx, prompt)
	}

	if confirmFullRead != nil && confirmFullRead(name, size) {
		text, err := extractor.Extract(path)
		if err != nil {
			return "", err
		}
		prompt := fmt.Sprintf(string(embed_data.AnswerWithFilePrompt), question, name, text)
		return s.provider.GenerateContentRequest(ctx, prompt)
	}

	// Declined: answer from the stored summary only.
	prompt := fmt.Sprintf(string(embed_data.AnswerWithSummaryPrompt), name, question, name, s.index[name].summary)
	return s.provider.GenerateContentRequest(ctx, prompt)
}

// MentionedFile looks for a case-insensitive, word-bounded occurrence of any
// indexed file name inside the question. It returns the first match in scan
// order along with the file's current size.
func (s *Session) MentionedFile(question string) (name string, path string, size int64, ok bool) {
	for _, candidate := range s.order {
		if !mentionsFile(question, candidate) {
			continue
		}
		entry := s.index[candidate]
		var fileSize int64
		if info, err := os.Stat(entry.path); err == nil {
			fileSize = info.Size()
		}
		return candidate, entry.path, fileSize, true
	}
	return "", "", 0, false
}

// Results returns the outcome of the latest scan, including skipped files.
func (s *Session) Results() []FileSummary {
	return s.results
}

// Transcript returns the conversation so far.
func (s *Session) Transcript() []ChatTurn {
	return s.transcript
}

// IndexSize returns the number of files in the summary index.
func (s *Session) IndexSize() int {
	return len(s.order)
}

// CostWarningMessage builds the warning shown before a full-file read.
func CostWarningMessage(fileName string, size int64) string {
	return fmt.Sprintf("You mentioned '%s' (%d bytes). Answering will read the ENTIRE file and send it to the remote model, which may use a significant portion of your API quota and could incur costs.", fileName, size)
}

func (s *Session) renderIndex() string {
	if len(s.order) == 0 {
		return "(no files have been scanned)"
	}
	var sb strings.Builder
	for _, name := range s.order {
		fmt.Fprintf(&sb, "- %s: %s\n", name, s.index[name].summary)
	}
	return sb.String()
}

// truncate caps text at budget characters, leaving shorter text unmodified.
func truncate(text string, budget int) string {
	if budget <= 0 || len(text) <= budget {
		return text
	}
	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}
	return string(runes[:budget])
}
