package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ragkb/internal/assembler"
	"ragkb/internal/domain"
)

// RAGPort is the TUI-facing subset of the RAG service.
type RAGPort interface {
	RetrieveSimilar(ctx context.Context, query string, maxChunks int) ([]domain.ScoredChunk, error)
}

// Model is the Bubble Tea model for the knowledge-base console. Typing a
// query ranks the stored chunks; up/down cycles through the results and
// tab switches between the chunk view and the assembled prompt context.
type Model struct {
	service     RAGPort
	input       textinput.Model
	viewport    viewport.Model
	results     []domain.ScoredChunk
	status      string
	cursor      int
	ready       bool
	showContext bool
}

// New creates a new console model instance.
func New(service RAGPort, status string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	if status == "" {
		status = "Ready. Type to query the knowledge base."
	}
	return Model{service: service, input: ti, viewport: vp, status: status}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header + status + query box + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderBody())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				res, err := m.service.RetrieveSimilar(context.Background(), q, 10)
				if err != nil {
					m.status = "Error: " + err.Error()
					m.results = nil
				} else if len(res) == 0 {
					m.status = fmt.Sprintf("No comparable chunks for %q", q)
					m.results = nil
				} else {
					m.status = fmt.Sprintf("Results for %q", q)
					m.results = res
					m.cursor = 0
				}
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		case "tab":
			m.showContext = !m.showContext
			m.viewport.SetContent(m.renderBody())
			return m, nil
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the console layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("RAG Knowledge Base")
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	body := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + body + "\n" + input + "\n" + status
}

func (m Model) renderBody() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	if m.showContext {
		title := titleStyle.Render("Assembled context (tab to switch back)")
		return title + "\n\n" + assembler.Build(m.results)
	}
	r := m.results[m.cursor]
	title := titleStyle.Render(fmt.Sprintf("Result %d/%d  %s (fragmento %d)  score=%.3f",
		m.cursor+1, len(m.results), r.Chunk.FileName, r.Chunk.ChunkIndex, r.Score))
	return title + "\n\n" + r.Chunk.ChunkText
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)
