package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"folio/internal/chat"
	"folio/internal/domain"
)

type transcriptMsg []domain.ChatMessage

type doneMsg struct{ err error }

// Model is the Bubble Tea model for the chat application.
type Model struct {
	session   *chat.Session
	updates   chan tea.Msg
	input     textinput.Model
	viewport  viewport.Model
	messages  []domain.ChatMessage
	title     string
	status    string
	streaming bool
	lastQuery string
	ready     bool
}

// New creates a chat model talking to asker. Session options such as the
// welcome message or history bound are passed through.
func New(asker chat.Asker, title string, opts ...chat.Option) Model {
	updates := make(chan tea.Msg, 256)
	opts = append(opts, chat.WithOnUpdate(func(msgs []domain.ChatMessage) {
		updates <- transcriptMsg(msgs)
	}))
	session := chat.NewSession(asker, opts...)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	return Model{
		session:  session,
		updates:  updates,
		input:    ti,
		viewport: viewport.New(0, 0),
		messages: session.Messages(),
		title:    title,
		status:   "Ready.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and stream events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, status, input box, spacer
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, msg.Height-reserved-th)
		m.refresh()
		return m, nil
	case transcriptMsg:
		m.messages = msg
		m.refresh()
		return m, m.waitForUpdate()
	case doneMsg:
		m.streaming = false
		m.input.Focus()
		if msg.err != nil {
			m.status = "Answer failed: " + msg.err.Error()
		} else {
			m.status = "Ready."
		}
		m.refresh()
		return m, textinput.Blink
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if m.streaming {
			// input is disabled until the current answer ends
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if msg.Type == tea.KeyEnter {
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.input.Reset()
			m.input.Blur()
			m.streaming = true
			m.lastQuery = q
			m.status = "Thinking..."
			return m, tea.Batch(m.submit(q), m.waitForUpdate())
		}
		switch msg.String() {
		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit(q string) tea.Cmd {
	session, updates := m.session, m.updates
	return func() tea.Msg {
		err := session.Submit(context.Background(), q)
		updates <- doneMsg{err: err}
		return nil
	}
}

func (m Model) waitForUpdate() tea.Cmd {
	updates := m.updates
	return func() tea.Msg { return <-updates }
}

// View renders the transcript, the input box and the status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render(m.title)
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	width := max(10, m.viewport.Width-2)
	body := lipgloss.NewStyle().Width(width)
	parts := make([]string, 0, len(m.messages))
	for i, msg := range m.messages {
		switch msg.Role {
		case domain.RoleUser:
			parts = append(parts, userStyle.Render("You")+"\n"+body.Render(msg.Content))
		default:
			text := msg.Content
			if text == "" && m.streaming && i == len(m.messages)-1 {
				text = "…"
			} else if !m.streaming || i != len(m.messages)-1 {
				text = highlightBestSentence(text, m.questionBefore(i))
			}
			parts = append(parts, assistantStyle.Render("Assistant")+"\n"+body.Render(text))
		}
	}
	if n := len(m.messages); m.streaming && n > 0 && m.messages[n-1].Role == domain.RoleUser {
		// waiting for the answer stream to open
		parts = append(parts, assistantStyle.Render("Assistant")+"\n"+body.Render("…"))
	}
	return strings.Join(parts, "\n\n")
}

// questionBefore returns the user message preceding index i, if any.
func (m Model) questionBefore(i int) string {
	for j := i - 1; j >= 0; j-- {
		if m.messages[j].Role == domain.RoleUser {
			return m.messages[j].Content
		}
	}
	return ""
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
)
