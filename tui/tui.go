package tui

import (
	"filesage/config"
	"filesage/providers"
	"filesage/session"
	contracts_token "filesage/token_management/contracts"

	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents which screen is active.
type ViewState int

const (
	ViewSetup ViewState = iota
	ViewScanning
	ViewChat
)

// programRef is an indirect pointer to the tea.Program so background
// goroutines can send messages. It is set after tea.NewProgram returns but
// before Run.
type programRef struct {
	p *tea.Program
}

// Config holds configuration passed from the CLI layer.
type Config struct {
	Root            string
	AppConfig       *config.Config
	TokenManagement contracts_token.ITokenManagement

	// program is set internally so background goroutines can send messages.
	program *programRef
}

// Model is the top-level Bubble Tea model.
type Model struct {
	state  ViewState
	config Config
	width  int
	height int

	sess *session.Session

	setup    setupModel
	scanning scanningModel
	chat     chatModel
	err      error
}

// New creates a new TUI model with the given config.
func New(cfg Config) Model {
	return Model{
		state:  ViewSetup,
		config: cfg,
		setup:  newSetupModel(cfg),
	}
}

func (m Model) Init() tea.Cmd {
	return m.setup.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.state == ViewChat {
			var c tea.Cmd
			m.chat, c = m.chat.Update(msg)
			return m, c
		}
		return m, nil

	case tea.KeyMsg:
		// Global quit.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd

	switch m.state {
	case ViewSetup:
		m.setup, cmd = m.setup.Update(msg)
		if cmd != nil {
			return m, cmd
		}
		if m.setup.submitted {
			sess, err := m.buildSession()
			if err != nil {
				m.setup.submitted = false
				m.setup.err = err
				return m, nil
			}
			m.sess = sess
			m.state = ViewScanning
			m.scanning = newScanningModel()
			return m, tea.Batch(m.scanning.spinner.Tick, runScan(m.config, m.sess, m.setup.directory()))
		}

	case ViewScanning:
		m.scanning, cmd = m.scanning.Update(msg)
		if cmd != nil {
			return m, cmd
		}
		if keyMsg, ok := msg.(tea.KeyMsg); ok && m.scanning.done {
			switch keyMsg.Type {
			case tea.KeyEnter:
				m.chat = newChatModel(m.sess, m.config)
				m.chat.initViewport(m.width, m.height)
				m.state = ViewChat
				return m, nil
			case tea.KeyEsc:
				m.state = ViewSetup
				m.setup = newSetupModel(m.config)
				return m, m.setup.Init()
			}
		}

	case ViewChat:
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}

	return m, nil
}

// buildSession wires a provider and a fresh session from the setup inputs.
func (m *Model) buildSession() (*session.Session, error) {
	providerConfig := *m.config.AppConfig.AIProviderConfig
	if key := m.setup.apiKey(); key != "" {
		providerConfig.ApiKey = key
	}

	chatProvider, err := providers.ChatProviderFactory(&providerConfig, m.config.TokenManagement)
	if err != nil {
		return nil, err
	}

	return session.New(chatProvider, session.Config{
		SummaryCharBudget: m.config.AppConfig.SummaryCharBudget,
		MaxDepth:          m.config.AppConfig.MaxDepth,
		MaxFileSize:       m.config.AppConfig.MaxFileSizeBytes,
	}), nil
}

func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}

	switch m.state {
	case ViewSetup:
		return m.setup.View(m.width, m.height)
	case ViewScanning:
		return m.scanning.View(m.width, m.height)
	case ViewChat:
		return m.chat.View(m.width, m.height)
	}
	return ""
}

// Run starts the TUI program.
func Run(cfg Config) error {
	ref := &programRef{}
	cfg.program = ref
	model := New(cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	ref.p = p
	_, err := p.Run()
	return err
}
