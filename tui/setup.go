package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// setupModel collects the directory path and the API key before scanning.
type setupModel struct {
	inputs    []textinput.Model
	focused   int
	submitted bool
	err       error
	needsKey  bool
}

const (
	inputDirectory = iota
	inputAPIKey
)

func newSetupModel(cfg Config) setupModel {
	dir := textinput.New()
	dir.Placeholder = "/path/to/your/documents"
	dir.CharLimit = 512
	dir.Focus()
	if cfg.Root != "" {
		dir.SetValue(cfg.Root)
	}

	key := textinput.New()
	key.Placeholder = "your API key"
	key.CharLimit = 256
	key.EchoMode = textinput.EchoPassword
	if cfg.AppConfig.AIProviderConfig.ApiKey != "" {
		key.SetValue(cfg.AppConfig.AIProviderConfig.ApiKey)
	}

	return setupModel{
		inputs:   []textinput.Model{dir, key},
		needsKey: cfg.AppConfig.AIProviderConfig.Provider == "gemini",
	}
}

func (m setupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m setupModel) directory() string {
	return strings.TrimSpace(m.inputs[inputDirectory].Value())
}

func (m setupModel) apiKey() string {
	return strings.TrimSpace(m.inputs[inputAPIKey].Value())
}

func (m setupModel) Update(msg tea.Msg) (setupModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
			m.inputs[m.focused].Blur()
			m.focused = (m.focused + 1) % len(m.inputs)
			m.inputs[m.focused].Focus()
			return m, nil

		case tea.KeyEnter:
			m.err = nil
			dir := m.directory()
			if dir == "" {
				m.err = errEmptyDirectory
				return m, nil
			}
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				m.err = errNotADirectory
				return m, nil
			}
			if m.needsKey && m.apiKey() == "" {
				m.err = errEmptyAPIKey
				return m, nil
			}
			m.submitted = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m setupModel) View(width, height int) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(titleStyle.Render("  filesage") + "\n")
	sb.WriteString(subtitleStyle.Render("  AI-powered file summarizer and Q&A") + "\n\n")

	sb.WriteString(labelStyle.Render("  Directory to scan:") + "\n")
	sb.WriteString("  " + m.inputs[inputDirectory].View() + "\n\n")

	sb.WriteString(labelStyle.Render("  API key:") + "\n")
	sb.WriteString("  " + m.inputs[inputAPIKey].View() + "\n\n")

	if m.err != nil {
		sb.WriteString(errorStyle.Render("  "+m.err.Error()) + "\n\n")
	}

	sb.WriteString(dimStyle.Render("  tab: switch field • enter: scan & summarize • ctrl+c: quit") + "\n")

	return lipgloss.NewStyle().Render(sb.String())
}

var (
	errEmptyDirectory = setupError("enter a directory path")
	errNotADirectory  = setupError("that path is not a readable directory")
	errEmptyAPIKey    = setupError("enter your API key")
)

type setupError string

func (e setupError) Error() string { return string(e) }
