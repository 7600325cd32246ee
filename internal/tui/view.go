package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"suggestify/internal/app"
	"suggestify/internal/domain"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")).MarginBottom(1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	cardTitle     = lipgloss.NewStyle().Bold(true)
	progressFill  = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	progressEmpty = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const progressWidth = 30

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Suggestify"))
	b.WriteString("\n")

	switch m.state.Panel() {
	case domain.PanelMain:
		b.WriteString(m.mainView())
	case domain.PanelGenreSelect:
		b.WriteString(m.genreView())
	case domain.PanelQuiz:
		b.WriteString(m.quizView())
	case domain.PanelResults:
		b.WriteString(m.resultsView())
	case domain.PanelChat:
		b.WriteString(m.chatView())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.hints()))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) mainView() string {
	var b strings.Builder
	b.WriteString("What would you like to watch?\n\n")
	for i, item := range m.menu {
		b.WriteString(m.cursor(i == m.menuCursor))
		b.WriteString(item.label)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) genreView() string {
	var b strings.Builder
	b.WriteString("Pick one or more genres:\n\n")
	for i, genre := range m.genres {
		box := "[ ]"
		if m.picked[genre] {
			box = "[x]"
		}
		fmt.Fprintf(&b, "%s%s %s\n", m.cursor(i == m.genreCursor), box, genre)
	}
	if m.typingGenre {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) quizView() string {
	quiz, ok := m.state.Quiz()
	if !ok {
		return "No quiz in progress.\n"
	}

	var b strings.Builder
	switch quiz.Phase {
	case app.PhaseLoading:
		fmt.Fprintf(&b, "%s Loading questions...\n", m.spinner.View())
		return b.String()
	case app.PhaseScoring:
		b.WriteString(progressBar(100))
		fmt.Fprintf(&b, "\n\n%s Finding your genres...\n", m.spinner.View())
		return b.String()
	}

	question, ok := quiz.Current()
	if !ok {
		return b.String()
	}
	b.WriteString(progressBar(quiz.Progress()))
	fmt.Fprintf(&b, "  Question %d of %d\n\n", quiz.Index+1, len(quiz.Questions))
	b.WriteString(question.Prompt)
	b.WriteString("\n\n")
	for i, key := range question.Keys() {
		fmt.Fprintf(&b, "%s%s) %s\n", m.cursor(i == m.optionCursor), key, question.Options[key].Text)
	}
	if quiz.Fallback {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Using the built-in questions; the server did not provide any."))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) resultsView() string {
	results := m.state.Results()
	if results.Loading {
		return fmt.Sprintf("%s Loading recommendations for %s...\n", m.spinner.View(), strings.Join(results.Genres, ", "))
	}
	return RenderResults(results, m.width)
}

func (m *Model) chatView() string {
	var b strings.Builder
	for _, msg := range m.state.Transcript() {
		switch {
		case msg.Pending:
			fmt.Fprintf(&b, "%s %s\n", botStyle.Render("Suggestify:"), m.spinner.View())
		case msg.Origin == domain.OriginUser:
			fmt.Fprintf(&b, "%s %s\n", userStyle.Render("You:"), msg.Text)
		default:
			fmt.Fprintf(&b, "%s %s\n", botStyle.Render("Suggestify:"), msg.Text)
		}
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	return b.String()
}

func (m *Model) hints() string {
	switch m.state.Panel() {
	case domain.PanelMain:
		return "↑/↓ move • enter select • g genres • s quiz • c chat • q quit"
	case domain.PanelGenreSelect:
		if m.typingGenre {
			return "enter add genre • esc cancel"
		}
		return "↑/↓ move • space toggle • a add genre • enter recommend • esc back"
	case domain.PanelQuiz:
		return "letter or enter to answer • esc leave quiz"
	case domain.PanelResults:
		return "g genres • s retake quiz • c chat • esc menu"
	case domain.PanelChat:
		return "enter send • esc menu • say bye to finish"
	}
	return ""
}

func (m *Model) cursor(active bool) string {
	if active {
		return cursorStyle.Render("> ")
	}
	return "  "
}

// RenderResults draws a finished results view: the cards and the genre
// summary, or the error title and detail.
func RenderResults(view app.ResultsView, width int) string {
	var b strings.Builder
	if view.Failed() {
		b.WriteString(errorStyle.Render(view.ErrorTitle))
		b.WriteString("\n")
		if view.ErrorDetail != "" {
			b.WriteString(view.ErrorDetail)
			b.WriteString("\n")
		}
		return b.String()
	}

	if summary := view.Summary(); summary != "" {
		b.WriteString(summary)
		b.WriteString("\n\n")
	}
	cardWidth := width - 4
	if cardWidth < 20 {
		cardWidth = 20
	}
	for _, rec := range view.Cards {
		b.WriteString(renderCard(rec, cardWidth))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCard(rec domain.Recommendation, width int) string {
	heading := cardTitle.Render(rec.Title)
	if rec.Year != "" {
		heading += fmt.Sprintf(" (%s)", rec.Year)
	}
	lines := []string{heading}
	if rec.Genres != "" {
		lines = append(lines, dimStyle.Render(rec.Genres))
	}
	if rec.Description != "" {
		lines = append(lines, rec.Description)
	}
	return cardStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// RenderQuestions lists a question set with option keys and genre hints.
func RenderQuestions(questions []domain.Question) string {
	var b strings.Builder
	for i, q := range questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q.Prompt)
		for _, key := range q.Keys() {
			opt := q.Options[key]
			fmt.Fprintf(&b, "   %s) %s %s\n", key, opt.Text, dimStyle.Render("["+strings.Join(opt.Genres, ", ")+"]"))
		}
	}
	return b.String()
}

func progressBar(percent int) string {
	filled := progressWidth * percent / 100
	return progressFill.Render(strings.Repeat("█", filled)) +
		progressEmpty.Render(strings.Repeat("░", progressWidth-filled)) +
		fmt.Sprintf(" %d%%", percent)
}
