package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider records every prompt and answers via fn.
type stubProvider struct {
	prompts []string
	fn      func(prompt string) (string, error)
}

func (s *stubProvider) GenerateContentRequest(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.fn != nil {
		return s.fn(prompt)
	}
	return "stub answer", nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestSession(provider *stubProvider) *Session {
	return New(provider, Config{SummaryCharBudget: 15000})
}

func TestScan_BuildsIndexFromSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alpha.txt", "alpha content")
	writeFile(t, dir, "beta.md", "beta content")
	writeFile(t, dir, "binary.bin", "ignored")

	provider := &stubProvider{fn: func(prompt string) (string, error) {
		return "a summary", nil
	}}
	sess := newTestSession(provider)

	results, err := sess.Scan(context.Background(), dir, nil)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, 2, sess.IndexSize())
	for _, r := range results {
		assert.False(t, r.Skipped())
		assert.Equal(t, "a summary", r.Summary)
	}
}

func TestScan_EmptyFileGetsPlaceholderWithoutRemoteCall(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.txt", "   \n\t ")

	provider := &stubProvider{}
	sess := newTestSession(provider)

	results, err := sess.Scan(context.Background(), dir, nil)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "[File is empty or contains no readable text]", results[0].Summary)
	assert.Empty(t, provider.prompts, "empty files must not reach the provider")
	assert.Equal(t, 1, sess.IndexSize())
}

func TestScan_SummarizationFailureSkipsOnlyThatFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.txt", "bad content")
	writeFile(t, dir, "good.txt", "good content")

	provider := &stubProvider{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "bad.txt") {
			return "", errors.New("quota exceeded")
		}
		return "good summary", nil
	}}
	sess := newTestSession(provider)

	results, err := sess.Scan(context.Background(), dir, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byName := map[string]FileSummary{}
	for _, r := range results {
		byName[r.Name] = r
	}
	assert.True(t, byName["bad.txt"].Skipped())
	assert.Contains(t, byName["bad.txt"].SkipReason, "summarization failed")
	assert.False(t, byName["good.txt"].Skipped())

	// Only successfully summarized files enter the index.
	assert.Equal(t, 1, sess.IndexSize())
	_, _, _, ok := sess.MentionedFile("tell me about bad.txt")
	assert.False(t, ok)
}

func TestScan_TruncatesContentToBudget(t *testing.T) {
	dir := t.TempDir()
	content := strings.Repeat("x", 50) + "TAIL"
	writeFile(t, dir, "long.txt", content)

	provider := &stubProvider{}
	sess := New(provider, Config{SummaryCharBudget: 50})

	_, err := sess.Scan(context.Background(), dir, nil)
	require.NoError(t, err)

	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], strings.Repeat("x", 50))
	assert.NotContains(t, provider.prompts[0], "TAIL")
}

func TestScan_ReportsProgressForEveryFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "a")
	writeFile(t, dir, "b.txt", "b")

	provider := &stubProvider{}
	sess := newTestSession(provider)

	var names []string
	var totals []int
	_, err := sess.Scan(context.Background(), dir, func(current, total int, name string) {
		names = append(names, name)
		totals = append(totals, total)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "b.txt"}, names)
	assert.Equal(t, []int{2, 2}, totals)
}

func TestScan_RescanReplacesIndexWholesale(t *testing.T) {
	first := t.TempDir()
	writeFile(t, first, "old.txt", "old")
	second := t.TempDir()
	writeFile(t, second, "new.txt", "new")

	provider := &stubProvider{}
	sess := newTestSession(provider)

	_, err := sess.Scan(context.Background(), first, nil)
	require.NoError(t, err)
	_, err = sess.Ask(context.Background(), "anything", nil)
	require.NoError(t, err)
	require.NotEmpty(t, sess.Transcript())

	_, err = sess.Scan(context.Background(), second, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, sess.IndexSize())
	_, _, _, ok := sess.MentionedFile("what is in old.txt")
	assert.False(t, ok, "entries from the previous scan must be gone")
	_, _, _, ok = sess.MentionedFile("what is in new.txt")
	assert.True(t, ok)
	assert.Empty(t, sess.Transcript(), "re-scan starts a fresh conversation")
}

func TestScan_EmptyDirectoryYieldsAskableSession(t *testing.T) {
	provider := &stubProvider{}
	sess := newTestSession(provider)

	results, err := sess.Scan(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, sess.IndexSize())

	answer, err := sess.Ask(context.Background(), "what files are here?", nil)
	require.NoError(t, err)
	assert.Equal(t, "stub answer", answer)

	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], "(no files have been scanned)")
}

func TestScan_SameDirectoryTwiceIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "alpha content")
	writeFile(t, dir, "b.txt", "beta content")

	provider := &stubProvider{fn: func(prompt string) (string, error) {
		// Deterministic: the summary depends only on the file named in the prompt.
		if strings.Contains(prompt, "a.txt") {
			return "summary of a", nil
		}
		return "summary of b", nil
	}}
	sess := newTestSession(provider)

	first, err := sess.Scan(context.Background(), dir, nil)
	require.NoError(t, err)
	second, err := sess.Scan(context.Background(), dir, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, sess.IndexSize())

	// The index itself is unchanged too: both entries resolve the same way.
	name, path, _, ok := sess.MentionedFile("tell me about a.txt")
	require.True(t, ok)
	assert.Equal(t, "a.txt", name)
	assert.Equal(t, first[0].Path, path)
}

func TestScan_CanceledContextStopsBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sess := newTestSession(&stubProvider{})
	_, err := sess.Scan(ctx, dir, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScan_UnusableRootFails(t *testing.T) {
	sess := newTestSession(&stubProvider{})
	_, err := sess.Scan(context.Background(), filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestAsk_NoMentionUsesWholeIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "report.txt", "quarterly numbers")

	provider := &stubProvider{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "Provide a concise") {
			return "summary of report", nil
		}
		return "the answer", nil
	}}
	sess := newTestSession(provider)
	_, err := sess.Scan(context.Background(), dir, nil)
	require.NoError(t, err)

	answer, err := sess.Ask(context.Background(), "what do these files cover?", nil)
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)

	last := provider.prompts[len(provider.prompts)-1]
	assert.Contains(t, last, "report.txt: summary of report")

	transcript := sess.Transcript()
	require.Len(t, transcript, 2)
	assert.Equal(t, "user", transcript[0].Role)
	assert.Equal(t, "assistant", transcript[1].Role)
}

func TestAsk_MentionConfirmedSendsFullContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "the full secret body of the file")

	provider := &stubProvider{}
	sess := newTestSession(provider)
	_, err := sess.Scan(context.Background(), dir, nil)
	require.NoError(t, err)

	var warnedName string
	var warnedSize int64
	_, err = sess.Ask(context.Background(), "what does notes.txt say?", func(name string, size int64) bool {
		warnedName = name
		warnedSize = size
		return true
	})
	require.NoError(t, err)

	assert.Equal(t, "notes.txt", warnedName)
	assert.Equal(t, int64(len("the full secret body of the file")), warnedSize)

	last := provider.prompts[len(provider.prompts)-1]
	assert.Contains(t, last, "the full secret body of the file")
}

func TestAsk_MentionDeclinedFallsBackToSummary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "the full secret body of the file")

	provider := &stubProvider{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "Provide a concise") {
			return "stored summary", nil
		}
		return "answer from summary", nil
	}}
	sess := newTestSession(provider)
	_, err := sess.Scan(context.Background(), dir, nil)
	require.NoError(t, err)

	answer, err := sess.Ask(context.Background(), "what does notes.txt say?", func(string, int64) bool {
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, "answer from summary", answer)

	last := provider.prompts[len(provider.prompts)-1]
	assert.Contains(t, last, "stored summary")
	assert.NotContains(t, last, "the full secret body of the file")
}

func TestAsk_NilConfirmCountsAsDeclined(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "full body here")

	provider := &stubProvider{}
	sess := newTestSession(provider)
	_, err := sess.Scan(context.Background(), dir, nil)
	require.NoError(t, err)

	_, err = sess.Ask(context.Background(), "summarize notes.txt", nil)
	require.NoError(t, err)

	last := provider.prompts[len(provider.prompts)-1]
	assert.NotContains(t, last, "full body here")
}

func TestAsk_ProviderErrorLeavesNoAssistantTurn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "a")

	calls := 0
	provider := &stubProvider{fn: func(prompt string) (string, error) {
		calls++
		if calls > 1 {
			return "", errors.New("network down")
		}
		return "summary", nil
	}}
	sess := newTestSession(provider)
	_, err := sess.Scan(context.Background(), dir, nil)
	require.NoError(t, err)

	_, err = sess.Ask(context.Background(), "anything at all", nil)
	require.Error(t, err)

	transcript := sess.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, "user", transcript[0].Role)
}

func TestMentionedFile_WordBoundaries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "content")

	sess := newTestSession(&stubProvider{})
	_, err := sess.Scan(context.Background(), dir, nil)
	require.NoError(t, err)

	tests := []struct {
		question string
		want     bool
	}{
		{"what is in notes.txt?", true},
		{"What about NOTES.TXT here", true},
		{"check mynotes.txt please", false},
		{"nothing relevant", false},
	}
	for _, tt := range tests {
		_, _, _, ok := sess.MentionedFile(tt.question)
		assert.Equal(t, tt.want, ok, "question: %s", tt.question)
	}
}

func TestCostWarningMessage(t *testing.T) {
	msg := CostWarningMessage("report.pdf", 12345)
	assert.Contains(t, msg, "report.pdf")
	assert.Contains(t, msg, "12345 bytes")
	assert.Contains(t, msg, "ENTIRE file")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "abcdef", truncate("abcdef", 0), "zero budget means unlimited")
	assert.Equal(t, "héł", truncate("héłlo", 3), "budget counts runes, not bytes")
}
