// Package ui provides the terminal front-end for rvc.
package ui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/polybitrockzz/reddit-video-creator/internal/app"
	"github.com/polybitrockzz/reddit-video-creator/internal/config"
	"github.com/polybitrockzz/reddit-video-creator/internal/narration"
	"github.com/polybitrockzz/reddit-video-creator/internal/pipeline"
	"github.com/polybitrockzz/reddit-video-creator/internal/tts"
)

const statusMessageTimeout = time.Second * 3

// Generator runs narration jobs. *app.App implements it.
type Generator interface {
	Config() *config.Config
	Generate(ctx context.Context, req app.Request, progress pipeline.ProgressFunc) (*pipeline.AggregateResult, error)
}

// NewProgram returns a new Tea program. When reload is set, the config file
// is watched and the generator rebuilt after every change.
func NewProgram(cfg Config, gen Generator, reload ReloadFunc) *tea.Program {
	log.Debug("Starting rvc ui", "theme", cfg.Theme, "glamour", cfg.GlamourEnabled)

	var opts []tea.ProgramOption
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	m := newModel(cfg, gen)
	if reload != nil {
		m.reload = reload
		m.watcher = newConfigWatcher(cfg.ConfigFile)
	}
	return tea.NewProgram(m, opts...)
}

// state is the top-level application state.
type state int

const (
	stateMenu state = iota
	stateInput
	stateMode
	stateRunning
	stateResult
	stateSettings
	stateCredits
)

func (s state) String() string {
	return map[state]string{
		stateMenu:     "showing menu",
		stateInput:    "asking for post",
		stateMode:     "choosing mode",
		stateRunning:  "generating",
		stateResult:   "showing result",
		stateSettings: "showing settings",
		stateCredits:  "showing credits",
	}[s]
}

type menuItem int

const (
	menuCreate menuItem = iota
	menuSettings
	menuCredits
	menuExit
)

var menuItems = []string{"Create Video", "Settings", "Credits", "Exit"}

type (
	progressMsg struct {
		done   int
		total  int
		result pipeline.SynthesisResult
	}
	doneMsg struct {
		agg *pipeline.AggregateResult
		err error
	}
	reportRenderedMsg       string
	statusMessageTimeoutMsg struct{}
)

type model struct {
	cfg    Config
	gen    Generator
	styles styles
	state  state

	width  int
	height int

	menuIndex int
	modeIndex int
	postRef   string

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	events   chan tea.Msg
	cancel   context.CancelFunc
	progress []pipeline.SynthesisResult
	total    int

	result *pipeline.AggregateResult
	err    error

	statusMessage string
	statusTimer   *time.Timer

	reload  ReloadFunc
	watcher *configWatcher
}

func newModel(cfg Config, gen Generator) model {
	ti := textinput.New()
	ti.Placeholder = "https://www.reddit.com/r/AskReddit/comments/..."
	ti.Prompt = "› "
	ti.CharLimit = 300
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	s := newStyles(themeNamed(cfg.Theme))
	sp.Style = s.selected

	return model{
		cfg:      cfg,
		gen:      gen,
		styles:   s,
		state:    stateMenu,
		input:    ti,
		spinner:  sp,
		viewport: viewport.New(80, 20),
	}
}

func (m model) Init() tea.Cmd {
	if m.watcher != nil {
		return m.watcher.wait
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = max(5, msg.Height-8)
		if m.state == stateResult && m.result != nil {
			return m, renderReport(m.cfg, m.result, m.viewport.Width)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.stop()
			return m.quit()
		}
		return m.handleKey(msg)

	case progressMsg:
		m.total = msg.total
		m.progress = append(m.progress, msg.result)
		return m, waitForEvent(m.events)

	case doneMsg:
		m.stop()
		m.result, m.err = msg.agg, msg.err
		m.state = stateResult
		if tts.IsFatal(msg.err) {
			m.result = nil
		}
		if m.result == nil {
			return m, nil
		}
		return m, renderReport(m.cfg, msg.agg, m.viewport.Width)

	case reportRenderedMsg:
		m.viewport.SetContent(string(msg))
		m.viewport.GotoTop()
		return m, nil

	case configChangedMsg:
		return m, tea.Batch(reloadConfig(m.reload), m.watcher.wait)

	case configReloadedMsg:
		if msg.err != nil {
			log.Warn("Could not reload configuration", "err", msg.err)
			return m, m.showStatusMessage("config error: " + msg.err.Error())
		}
		m.gen = msg.gen
		m.styles = newStyles(themeNamed(msg.gen.Config().UI.Theme))
		m.spinner.Style = m.styles.selected
		m.cfg.ShowProgress = msg.gen.Config().UI.ShowProgress
		return m, m.showStatusMessage("configuration reloaded")

	case statusMessageTimeoutMsg:
		m.statusMessage = ""
		return m, nil

	case spinner.TickMsg:
		if m.state != stateRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch m.state {
	case stateMenu:
		switch key {
		case "up", "k":
			m.menuIndex = (m.menuIndex + len(menuItems) - 1) % len(menuItems)
		case "down", "j":
			m.menuIndex = (m.menuIndex + 1) % len(menuItems)
		case "q", "esc":
			return m.quit()
		case "enter":
			return m.selectMenu()
		}
		return m, nil

	case stateInput:
		switch key {
		case "esc":
			m.input.Blur()
			m.state = stateMenu
			return m, nil
		case "enter":
			ref := m.input.Value()
			if ref == "" {
				return m, nil
			}
			m.postRef = ref
			m.input.Blur()
			m.state = stateMode
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case stateMode:
		switch key {
		case "up", "k":
			m.modeIndex = (m.modeIndex + len(narration.Modes) - 1) % len(narration.Modes)
		case "down", "j":
			m.modeIndex = (m.modeIndex + 1) % len(narration.Modes)
		case "1", "2", "3":
			m.modeIndex = int(key[0] - '1')
			return m.start()
		case "esc":
			m.state = stateInput
			return m, m.input.Focus()
		case "enter":
			return m.start()
		}
		return m, nil

	case stateRunning:
		if key == "esc" || key == "q" {
			// The run finishes the current segment and reports the rest
			// as canceled.
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil

	case stateResult:
		switch key {
		case "c":
			return m, m.copyOutputDir()
		case "esc", "enter":
			m.reset()
			return m, nil
		case "q":
			return m.quit()
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case stateSettings, stateCredits:
		switch key {
		case "q":
			return m.quit()
		case "esc", "enter":
			m.state = stateMenu
		}
		return m, nil
	}
	return m, nil
}

func (m model) selectMenu() (tea.Model, tea.Cmd) {
	switch menuItem(m.menuIndex) {
	case menuCreate:
		m.state = stateInput
		m.input.SetValue("")
		return m, m.input.Focus()
	case menuSettings:
		m.state = stateSettings
	case menuCredits:
		m.state = stateCredits
	case menuExit:
		return m.quit()
	}
	return m, nil
}

// start launches generation in the background. Progress and completion
// arrive as messages on m.events.
func (m model) start() (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan tea.Msg, 16)

	m.state = stateRunning
	m.cancel = cancel
	m.events = events
	m.progress = nil
	m.total = 0
	m.result, m.err = nil, nil

	req := app.Request{PostRef: m.postRef, Mode: narration.Modes[m.modeIndex]}
	gen := m.gen
	go func() {
		defer close(events)
		agg, err := gen.Generate(ctx, req, func(done, total int, r pipeline.SynthesisResult) {
			events <- progressMsg{done: done, total: total, result: r}
		})
		events <- doneMsg{agg: agg, err: err}
	}()

	return m, tea.Batch(m.spinner.Tick, waitForEvent(events))
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func (m model) quit() (tea.Model, tea.Cmd) {
	m.watcher.close()
	return m, tea.Quit
}

func (m *model) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *model) reset() {
	m.state = stateMenu
	m.result, m.err = nil, nil
	m.progress = nil
	m.total = 0
	m.viewport.SetContent("")
}

func (m *model) copyOutputDir() tea.Cmd {
	dir := m.gen.Config().OutputDir()
	if m.result != nil && m.result.OutputDir != "" {
		dir = m.result.OutputDir
	}
	if err := clipboard.WriteAll(dir); err != nil {
		log.Warn("Could not copy to clipboard", "err", err)
		return m.showStatusMessage("clipboard unavailable")
	}
	return m.showStatusMessage("copied " + dir)
}

func (m *model) showStatusMessage(msg string) tea.Cmd {
	m.statusMessage = msg
	if m.statusTimer != nil {
		m.statusTimer.Stop()
	}
	m.statusTimer = time.NewTimer(statusMessageTimeout)
	timer := m.statusTimer
	return func() tea.Msg {
		<-timer.C
		return statusMessageTimeoutMsg{}
	}
}
