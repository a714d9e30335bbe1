// Package tui is the terminal client: one local session rendered as a chat
// with the same themes as the web page.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/PabloGalante/syntax-chat/internal/app/conversation"
	"github.com/PabloGalante/syntax-chat/internal/domain"
	"github.com/PabloGalante/syntax-chat/internal/theme"
)

// turnFinishedMsg carries the outcome of a submission back into Update.
type turnFinishedMsg struct {
	turn int
	res  *conversation.TurnResult
	err  error
}

type Model struct {
	ctx     context.Context
	session *conversation.Session

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	theme  domain.Theme
	styles styles

	awaiting bool
	turn     int    // bumped per submission and per clear
	pending  string // user text of the in-flight turn
	notice   *domain.Notice
	errText  string

	width    int
	height   int
	quitting bool
}

func NewModel(ctx context.Context, session *conversation.Session, t domain.Theme) Model {
	in := textinput.New()
	in.Placeholder = "Type your message here..."
	in.CharLimit = 4000
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		session:  session,
		input:    in,
		spinner:  sp,
		viewport: viewport.New(80, 20),
		width:    80,
		height:   24,
	}
	m.applyTheme(t)
	return m
}

func (m *Model) applyTheme(t domain.Theme) {
	m.theme = t
	m.styles = newStyles(theme.For(t))
	m.spinner.Style = m.styles.bot
	m.refresh()
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = m.chatRows()
		m.input.Width = max(10, msg.Width-4)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case turnFinishedMsg:
		if msg.turn != m.turn {
			return m, nil
		}
		m.awaiting = false
		m.pending = ""
		m.notice = nil
		m.errText = ""
		switch {
		case msg.err != nil:
			m.errText = msg.err.Error()
		case msg.res.Notice != nil:
			m.notice = msg.res.Notice
		}
		m.input.Focus()
		m.refresh()
		return m, textinput.Blink

	case spinner.TickMsg:
		if !m.awaiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "ctrl+t":
		m.applyTheme(theme.Toggle(m.theme))
		return m, nil

	case "ctrl+l":
		m.session.Clear()
		m.turn++
		m.notice = nil
		m.errText = ""
		if m.awaiting {
			m.awaiting = false
			m.pending = ""
			m.input.Focus()
		}
		m.refresh()
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	// The input is disabled until the reply arrives.
	if m.awaiting {
		return m, nil
	}

	if msg.Type == tea.KeyEnter {
		text := m.input.Value()
		m.input.Reset()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}

		m.awaiting = true
		m.turn++
		m.pending = text
		m.notice = nil
		m.errText = ""
		m.input.Blur()
		m.refresh()
		return m, tea.Batch(m.submit(text), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit(text string) tea.Cmd {
	ctx, session, turn := m.ctx, m.session, m.turn
	return func() tea.Msg {
		res, err := session.SubmitMessage(ctx, text)
		return turnFinishedMsg{turn: turn, res: res, err: err}
	}
}

// refresh re-renders the chat into the viewport and pins it to the bottom.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderChat())
	m.viewport.GotoBottom()
}

func (m Model) renderChat() string {
	var b strings.Builder
	for _, e := range m.session.DisplayLog() {
		b.WriteString(m.renderEntry(e.Label, e.Content))
		b.WriteString("\n\n")
	}
	if m.pending != "" {
		b.WriteString(m.renderEntry(domain.LabelUser, m.pending))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderEntry(label domain.DisplayLabel, content string) string {
	if label == domain.LabelUser {
		return m.styles.user.Render("You: ") + content
	}
	return m.styles.bot.Render("Syntax: ") + content
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render("Syntax Chatbot"))
	b.WriteString(m.styles.subtitle.Render(fmt.Sprintf("  %s theme", m.theme)))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.notice != nil {
		box := "API Error: " + m.notice.Description + "\n" + m.styles.hint.Render(m.notice.Hint)
		b.WriteString(m.styles.errBox.Render(box))
		b.WriteString("\n")
	}
	if m.errText != "" {
		b.WriteString(m.styles.errBox.Render(m.errText))
		b.WriteString("\n")
	}

	if m.awaiting {
		b.WriteString(m.spinner.View() + " Waiting for reply...")
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")
	b.WriteString(m.renderActivity())
	b.WriteString(m.styles.help.Render("  Enter: send  ctrl+l: clear  ctrl+t: theme  esc: quit"))

	return b.String()
}

// renderActivity shows the three most recent queries, newest first.
func (m Model) renderActivity() string {
	items := m.session.ActivityLog()
	if len(items) == 0 {
		return ""
	}
	if len(items) > 3 {
		items = items[:3]
	}

	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%d. %s", it.Number, it.Query))
	}
	return m.styles.activity.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)) + "\n"
}

func (m Model) chatRows() int {
	// title, input, help and a notice box of up to four lines
	rows := m.height - 8
	if rows < 3 {
		rows = 3
	}
	return rows
}
