// Package tui binds the view controller to a bubbletea terminal program.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"suggestify/internal/app"
	"suggestify/internal/domain"
	"suggestify/internal/logging"
)

// Executor runs an effect to completion and returns its outcome.
type Executor interface {
	Execute(ctx context.Context, eff app.Effect) app.Event
}

type menuItem struct {
	label  string
	action func(m *Model) tea.Cmd
}

// eventMsg carries an effect outcome back onto the UI loop.
type eventMsg struct {
	event app.Event
}

// Model is the bubbletea model. Update is the only place the controller state
// is touched; effects run as commands and come back as eventMsg.
type Model struct {
	ctx      context.Context
	state    *app.State
	executor Executor

	spinner spinner.Model
	input   textinput.Model

	menu       []menuItem
	menuCursor int

	genres       []string
	genreCursor  int
	picked       map[string]bool
	typingGenre  bool
	optionCursor int

	status string
	width  int
}

func New(ctx context.Context, state *app.State, executor Executor) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

	input := textinput.New()
	input.Placeholder = "Type your message..."
	input.CharLimit = 500
	input.Prompt = "> "

	m := &Model{
		ctx:      ctx,
		state:    state,
		executor: executor,
		spinner:  sp,
		input:    input,
		genres:   append([]string(nil), domain.DefaultGenres...),
		picked:   make(map[string]bool),
		width:    80,
	}
	m.menu = []menuItem{
		{label: "I have a genre in mind", action: (*Model).openGenres},
		{label: "Help me find my genre (quiz)", action: (*Model).startQuiz},
		{label: "Chat with Suggestify", action: (*Model).openChat},
		{label: "Quit", action: func(*Model) tea.Cmd { return tea.Quit }},
	}
	return m
}

// State exposes the controller state, mainly for tests.
func (m *Model) State() *app.State {
	return m.state
}

func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-6, 10)
		return m, nil

	case eventMsg:
		return m, m.run(m.state.Apply(msg.event))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		m.status = ""
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.state.Panel() {
	case domain.PanelMain:
		return m.mainKey(msg)
	case domain.PanelGenreSelect:
		return m.genreKey(msg)
	case domain.PanelQuiz:
		return m.quizKey(msg)
	case domain.PanelResults:
		return m.resultsKey(msg)
	case domain.PanelChat:
		return m.chatKey(msg)
	}
	return nil
}

func (m *Model) mainKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case "down", "j":
		if m.menuCursor < len(m.menu)-1 {
			m.menuCursor++
		}
	case "enter":
		return m.menu[m.menuCursor].action(m)
	case "g":
		return m.openGenres()
	case "s":
		return m.startQuiz()
	case "c":
		return m.openChat()
	case "q", "esc":
		return tea.Quit
	}
	return nil
}

func (m *Model) genreKey(msg tea.KeyMsg) tea.Cmd {
	if m.typingGenre {
		switch msg.Type {
		case tea.KeyEnter:
			if genre := strings.TrimSpace(m.input.Value()); genre != "" {
				if !containsFold(m.genres, genre) {
					m.genres = append(m.genres, genre)
				}
				m.picked[canonical(m.genres, genre)] = true
			}
			m.stopTyping()
			return nil
		case tea.KeyEsc:
			m.stopTyping()
			return nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "up", "k":
		if m.genreCursor > 0 {
			m.genreCursor--
		}
	case "down", "j":
		if m.genreCursor < len(m.genres)-1 {
			m.genreCursor++
		}
	case " ", "x":
		genre := m.genres[m.genreCursor]
		m.picked[genre] = !m.picked[genre]
	case "/", "a":
		m.typingGenre = true
		m.input.Placeholder = "Type a genre..."
		m.input.SetValue("")
		return m.input.Focus()
	case "enter":
		genres := m.pickedGenres()
		if len(genres) == 0 {
			genres = []string{m.genres[m.genreCursor]}
		}
		return m.fetch(genres)
	case "esc", "q":
		m.show(domain.PanelMain)
	}
	return nil
}

func (m *Model) quizKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "esc" || key == "q" {
		m.state.ExitQuiz()
		return nil
	}
	quiz, ok := m.state.Quiz()
	if !ok {
		if key == "enter" {
			return m.startQuiz()
		}
		return nil
	}
	question, ok := quiz.Current()
	if !ok {
		return nil
	}
	keys := question.Keys()

	switch key {
	case "up", "k":
		if m.optionCursor > 0 {
			m.optionCursor--
		}
		return nil
	case "down", "j":
		if m.optionCursor < len(keys)-1 {
			m.optionCursor++
		}
		return nil
	case "enter":
		if m.optionCursor < len(keys) {
			return m.answer(keys[m.optionCursor])
		}
		return nil
	}
	if _, _, ok := question.Lookup(key); ok {
		return m.answer(key)
	}
	return nil
}

func (m *Model) resultsKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "g":
		return m.openGenres()
	case "s":
		return m.startQuiz()
	case "c":
		return m.openChat()
	case "esc", "enter", "q":
		m.show(domain.PanelMain)
	}
	return nil
}

func (m *Model) chatKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Blur()
		m.show(domain.PanelMain)
		return nil
	case tea.KeyEnter:
		effects, err := m.state.SendChat(m.input.Value())
		if err != nil {
			m.fail(err)
			return nil
		}
		m.input.SetValue("")
		return m.run(effects)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) openGenres() tea.Cmd {
	m.picked = make(map[string]bool)
	m.genreCursor = 0
	m.show(domain.PanelGenreSelect)
	return nil
}

func (m *Model) startQuiz() tea.Cmd {
	m.optionCursor = 0
	return m.run(m.state.StartQuiz())
}

func (m *Model) openChat() tea.Cmd {
	m.show(domain.PanelChat)
	m.input.Placeholder = "Type your message..."
	m.input.SetValue("")
	return m.input.Focus()
}

func (m *Model) answer(key string) tea.Cmd {
	effects, err := m.state.Answer(key)
	if err != nil {
		m.fail(err)
		return nil
	}
	m.optionCursor = 0
	return m.run(effects)
}

func (m *Model) fetch(genres []string) tea.Cmd {
	effects, err := m.state.FetchAndRender(genres)
	if err != nil {
		m.fail(err)
		return nil
	}
	return m.run(effects)
}

func (m *Model) show(p domain.Panel) {
	if err := m.state.ShowPanel(p); err != nil {
		m.fail(err)
	}
}

func (m *Model) stopTyping() {
	m.typingGenre = false
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) fail(err error) {
	switch {
	case errors.Is(err, domain.ErrBusy):
		m.status = "Still waiting for the server..."
	default:
		m.status = err.Error()
	}
	logging.Debug().Err(err).Str("panel", m.state.Panel().String()).Msg("action rejected")
}

// run turns effects into commands. Each command blocks off the UI loop and
// reports back with an eventMsg.
func (m *Model) run(effects []app.Effect) tea.Cmd {
	if len(effects) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, eff := range effects {
		eff := eff
		cmds = append(cmds, func() tea.Msg {
			ev := m.executor.Execute(m.ctx, eff)
			if ev == nil {
				return nil
			}
			return eventMsg{event: ev}
		})
	}
	return tea.Batch(cmds...)
}

func (m *Model) pickedGenres() []string {
	var out []string
	for _, g := range m.genres {
		if m.picked[g] {
			out = append(out, g)
		}
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func canonical(list []string, s string) string {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return v
		}
	}
	return s
}
