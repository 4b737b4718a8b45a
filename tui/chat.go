package tui

import (
	"context"
	"fmt"
	"strings"

	"filesage/session"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// answerMsg carries the result of an Ask call back to the UI.
type answerMsg struct {
	question string
	answer   string
	err      error
}

// pendingConfirm holds a question whose mentioned file awaits the cost
// warning decision.
type pendingConfirm struct {
	question string
	fileName string
	size     int64
}

type chatModel struct {
	sess   *session.Session
	config Config

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	lines    []string
	thinking bool
	confirm  *pendingConfirm
	width    int
	height   int
	ready    bool
}

func newChatModel(sess *session.Session, cfg Config) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask about your files (/help for commands)"
	input.CharLimit = 2048
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedStyle

	m := chatModel{
		sess:    sess,
		config:  cfg,
		input:   input,
		spinner: sp,
	}
	m.appendLine(subtitleStyle.Render(fmt.Sprintf("%d files indexed. Ask away.", sess.IndexSize())))
	return m
}

func (m *chatModel) initViewport(width, height int) {
	m.width = width
	m.height = height

	vp := viewport.New(width, m.viewportHeight())
	m.viewport = vp

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err == nil {
		m.renderer = renderer
	}

	m.ready = true
	m.refreshViewport()
}

func (m *chatModel) viewportHeight() int {
	// title + input + status bar + padding
	h := m.height - 6
	if h < 3 {
		h = 3
	}
	return h
}

func (m chatModel) Update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.ready {
			m.viewport.Width = msg.Width
			m.viewport.Height = m.viewportHeight()
			m.refreshViewport()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.thinking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case answerMsg:
		m.thinking = false
		if msg.err != nil {
			m.appendLine(errorStyle.Render("error: " + msg.err.Error()))
		} else {
			m.appendLine(m.renderMarkdown(msg.answer))
			m.appendLine(m.tokenLine())
		}
		m.appendLine("")
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		if m.confirm != nil {
			return m.handleConfirmKey(msg)
		}
		switch msg.Type {
		case tea.KeyEnter:
			if m.thinking {
				return m, nil
			}
			return m.handleSubmit()
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) handleSubmit() (chatModel, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	if question == "" {
		return m, nil
	}
	m.input.SetValue("")

	switch question {
	case "/exit":
		return m, tea.Quit
	case "/clear":
		m.lines = nil
		m.appendLine(subtitleStyle.Render(fmt.Sprintf("%d files indexed. Ask away.", m.sess.IndexSize())))
		m.refreshViewport()
		return m, nil
	case "/help":
		m.appendLine(dimStyle.Render("/help  show this help\n/clear clear the screen\n/exit  quit"))
		m.appendLine("")
		m.refreshViewport()
		return m, nil
	}

	m.appendLine(userMsgStyle.Render("You: ") + question)

	// A mentioned file needs the cost warning answered before asking.
	if name, _, size, ok := m.sess.MentionedFile(question); ok {
		m.confirm = &pendingConfirm{question: question, fileName: name, size: size}
		m.appendLine(warnStyle.Render(session.CostWarningMessage(name, size)))
		m.appendLine(warnStyle.Render("Proceed with the full read? [y/N]"))
		m.refreshViewport()
		return m, nil
	}

	return m.startAsk(question, false)
}

func (m chatModel) handleConfirmKey(msg tea.KeyMsg) (chatModel, tea.Cmd) {
	pending := *m.confirm
	switch strings.ToLower(msg.String()) {
	case "y":
		m.confirm = nil
		m.appendLine(dimStyle.Render("Reading full file content..."))
		return m.startAsk(pending.question, true)
	case "n", "esc", "enter":
		m.confirm = nil
		m.appendLine(dimStyle.Render("Declined; answering from the summary only."))
		return m.startAsk(pending.question, false)
	}
	return m, nil
}

func (m chatModel) startAsk(question string, allowFullRead bool) (chatModel, tea.Cmd) {
	m.thinking = true
	m.refreshViewport()

	sess := m.sess
	ask := func() tea.Msg {
		answer, err := sess.Ask(context.Background(), question, func(string, int64) bool {
			return allowFullRead
		})
		return answerMsg{question: question, answer: answer, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, ask)
}

func (m *chatModel) appendLine(line string) {
	m.lines = append(m.lines, line)
}

func (m *chatModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

func (m chatModel) renderMarkdown(content string) string {
	if m.renderer != nil {
		if out, err := m.renderer.Render(content); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return assistantMsgStyle.Render(content)
}

func (m chatModel) tokenLine() string {
	total, input, output := m.config.TokenManagement.GetCurrentTokenUsage()
	cost := m.config.TokenManagement.CalculateCost(
		m.config.AppConfig.AIProviderConfig.Provider,
		m.config.AppConfig.AIProviderConfig.Model,
		input, output,
	)
	return dimStyle.Render(fmt.Sprintf("tokens: %d (in %d / out %d) • cost: $%.6f", total, input, output, cost))
}

func (m chatModel) View(width, height int) string {
	if !m.ready {
		return "\n  initializing..."
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(" filesage chat ") + "\n")
	sb.WriteString(m.viewport.View() + "\n")

	if m.thinking {
		sb.WriteString(fmt.Sprintf(" %s thinking...\n", m.spinner.View()))
	} else if m.confirm != nil {
		sb.WriteString(warnStyle.Render(" awaiting confirmation [y/N]") + "\n")
	} else {
		sb.WriteString(" " + m.input.View() + "\n")
	}

	sb.WriteString(statusBarStyle.Render(fmt.Sprintf("%d files indexed • pgup/pgdn: scroll • /exit to quit", m.sess.IndexSize())))
	return sb.String()
}
