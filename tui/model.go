// Package tui provides a terminal chat interface for asking questions about a book.
package tui

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/booktalk"
)

// DefaultStreamInterval is the delay between revealed words of an answer.
const DefaultStreamInterval = 30 * time.Millisecond

// Role identifies the author of a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of the chat transcript.
type Turn struct {
	Role Role
	Text string
}

// answerMsg carries the result of an Ask call.
type answerMsg struct {
	answer string
	err    error
}

// streamMsg reveals the next word of the answer being streamed.
type streamMsg struct{}

// Model is the Bubble Tea model of the chat.
type Model struct {
	ctx   context.Context
	asker booktalk.Asker
	title string

	// StreamInterval is the delay between revealed words.
	StreamInterval time.Duration

	input    textinput.Model
	viewport viewport.Model
	history  []Turn
	pending  []string // Words of the answer not yet revealed
	thinking bool
	status   string
	ready    bool
}

// New creates a chat model for book.
func New(ctx context.Context, asker booktalk.Asker, book *booktalk.Book) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the book and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	title := "booktalk"
	if book != nil && book.Label() != "" {
		title += " · " + book.Label()
	}

	return Model{
		ctx:            ctx,
		asker:          asker,
		title:          title,
		StreamInterval: DefaultStreamInterval,
		input:          ti,
		viewport:       viewport.New(0, 0),
		status:         "Type your question (or q to quit).",
	}
}

// History returns the chat transcript so far.
func (m Model) History() []Turn {
	return m.history
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, ih := inputStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 + th // header, status, input box, input line, transcript frame
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, msg.Height-reserved)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}

	case answerMsg:
		m.thinking = false
		if msg.err != nil {
			m.status = "Error: " + booktalk.ErrorMessage(msg.err)
			if booktalk.ErrorCode(msg.err) == booktalk.EINTERNAL {
				m.status = "Error: " + msg.err.Error()
			}
			return m, nil
		}
		m.history = append(m.history, Turn{Role: RoleAssistant})
		m.pending = splitWords(msg.answer)
		m.status = ""
		m.refresh()
		return m, m.stream()

	case streamMsg:
		if len(m.pending) == 0 {
			return m, nil
		}
		last := &m.history[len(m.history)-1]
		last.Text += m.pending[0]
		m.pending = m.pending[1:]
		m.refresh()
		if len(m.pending) == 0 {
			m.status = "Type your question (or q to quit)."
			return m, nil
		}
		return m, m.stream()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the current input as a question.
func (m Model) submit() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	if question == "" || m.busy() {
		return m, nil
	}
	if question == "q" {
		return m, tea.Quit
	}

	m.input.Reset()
	m.history = append(m.history, Turn{Role: RoleUser, Text: question})
	m.thinking = true
	m.status = "Thinking..."
	m.refresh()

	ctx, asker := m.ctx, m.asker
	return m, func() tea.Msg {
		answer, err := asker.Ask(ctx, question)
		return answerMsg{answer: answer, err: err}
	}
}

func (m Model) busy() bool {
	return m.thinking || len(m.pending) > 0
}

func (m Model) stream() tea.Cmd {
	return tea.Tick(m.StreamInterval, func(time.Time) tea.Msg { return streamMsg{} })
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// View renders the header, transcript, input and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render(m.title)
	transcript := transcriptStyle.Render(m.viewport.View())
	input := inputStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.history) == 0 {
		return "No questions yet."
	}
	width := max(10, m.viewport.Width-2)
	var sb strings.Builder
	for i, turn := range m.history {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		switch turn.Role {
		case RoleUser:
			sb.WriteString(userStyle.Render("You: "))
			sb.WriteString(lipgloss.NewStyle().Width(width).Render(turn.Text))
		case RoleAssistant:
			sb.WriteString(assistantStyle.Render("Assistant:"))
			sb.WriteString("\n")
			sb.WriteString(lipgloss.NewStyle().Width(width).Render(turn.Text))
		}
	}
	return sb.String()
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)

	wordRe = regexp.MustCompile(`\s*\S+`)
)

// splitWords splits text into words, each carrying the whitespace before it,
// so that joining the words restores the text with leading and trailing
// whitespace trimmed.
func splitWords(text string) []string {
	return wordRe.FindAllString(strings.TrimSpace(text), -1)
}

// Run starts the chat on the terminal and blocks until the user quits.
func Run(ctx context.Context, asker booktalk.Asker, book *booktalk.Book) error {
	_, err := tea.NewProgram(New(ctx, asker, book), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
