package tui

import (
	"context"
	"fmt"
	"strings"

	"filesage/session"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// scanProgressMsg is sent from the scan goroutine for each file processed.
type scanProgressMsg struct {
	current int
	total   int
	name    string
}

// scanDoneMsg is sent when the scan finishes.
type scanDoneMsg struct {
	results []session.FileSummary
	err     error
}

type scanningModel struct {
	spinner spinner.Model

	current int
	total   int
	name    string

	done    bool
	results []session.FileSummary
	err     error
}

func newScanningModel() scanningModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = selectedStyle
	return scanningModel{spinner: s}
}

// runScan summarizes the directory in the background, streaming per-file
// progress to the program.
func runScan(cfg Config, sess *session.Session, root string) tea.Cmd {
	return func() tea.Msg {
		onProgress := func(current, total int, name string) {
			if cfg.program != nil && cfg.program.p != nil {
				cfg.program.p.Send(scanProgressMsg{current: current, total: total, name: name})
			}
		}
		results, err := sess.Scan(context.Background(), root, onProgress)
		return scanDoneMsg{results: results, err: err}
	}
}

func (m scanningModel) Update(msg tea.Msg) (scanningModel, tea.Cmd) {
	switch msg := msg.(type) {
	case scanProgressMsg:
		m.current = msg.current
		m.total = msg.total
		m.name = msg.name
		return m, nil

	case scanDoneMsg:
		m.done = true
		m.results = msg.results
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m scanningModel) View(width, height int) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(titleStyle.Render("  Scanning") + "\n\n")

	if !m.done {
		if m.total > 0 {
			sb.WriteString(fmt.Sprintf("  %s summarizing %d/%d: %s\n",
				m.spinner.View(), m.current, m.total, m.name))
		} else {
			sb.WriteString(fmt.Sprintf("  %s walking directory...\n", m.spinner.View()))
		}
		sb.WriteString("\n" + dimStyle.Render("  ctrl+c: quit") + "\n")
		return sb.String()
	}

	if m.err != nil {
		sb.WriteString(errorStyle.Render("  scan failed: "+m.err.Error()) + "\n\n")
		sb.WriteString(dimStyle.Render("  esc: back • ctrl+c: quit") + "\n")
		return sb.String()
	}

	summarized := 0
	for _, r := range m.results {
		if r.Skipped() {
			sb.WriteString(warnStyle.Render(fmt.Sprintf("  ⚠ %s", r.Name)) +
				dimStyle.Render(" — "+r.SkipReason) + "\n")
			continue
		}
		summarized++
		sb.WriteString(successStyle.Render(fmt.Sprintf("  📄 %s", r.Name)) + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(subtitleStyle.Render(fmt.Sprintf("  %d summarized, %d skipped",
		summarized, len(m.results)-summarized)) + "\n\n")
	sb.WriteString(dimStyle.Render("  enter: start chatting • esc: back • ctrl+c: quit") + "\n")

	return sb.String()
}
