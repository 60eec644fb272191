package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lehigh-university-libraries/partsdesk/internal/models"
)

// maxHistory bounds the turns sent back with each message.
const maxHistory = 10

// ChatPort is the TUI-facing subset of the orchestrator.
type ChatPort interface {
	Process(ctx context.Context, sessionID string, req models.ChatRequest) models.ChatResponse
	Cart(sessionID string) models.CartView
}

type replyMsg struct {
	resp models.ChatResponse
}

// Model is the Bubble Tea model for the chat client.
type Model struct {
	ctx       context.Context
	service   ChatPort
	sessionID string
	input     textinput.Model
	viewport  viewport.Model
	history   []models.Message
	summary   string
	status    string
	waiting   bool
	ready     bool
}

func New(ctx context.Context, service ChatPort, sessionID, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about a part, a model number, or a symptom"
	ti.Focus()
	ti.CharLimit = 500
	vp := viewport.New(0, 0)
	return Model{
		ctx:       ctx,
		service:   service,
		sessionID: sessionID,
		input:     ti,
		viewport:  vp,
		summary:   summary,
		status:    "Type a question and press Enter. /cart shows your cart, Ctrl+C quits.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, ih := inputStyle.GetFrameSize()
		reserved := 2 + 1 + ih + 1 // header, summary, status, input
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, msg.Height-reserved-th)
		m.refresh()
		return m, nil

	case replyMsg:
		m.waiting = false
		m.history = append(m.history, models.Message{Role: "assistant", Content: msg.resp.Message})
		m.status = fmt.Sprintf("%s (%s)", msg.resp.QueryType, strings.Join(msg.resp.AgentTrace, " > "))
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.Type {
		case tea.KeyEnter:
			return m.submit()
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

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.waiting {
		return m, nil
	}
	m.input.Reset()

	if text == "/cart" {
		m.status = renderCart(m.service.Cart(m.sessionID))
		return m, nil
	}

	req := models.ChatRequest{Message: text, ConversationHistory: recent(m.history)}
	m.history = append(m.history, models.Message{Role: "user", Content: text})
	m.waiting = true
	m.status = "Thinking..."
	m.refresh()

	ctx, service, sessionID := m.ctx, m.service, m.sessionID
	return m, func() tea.Msg {
		return replyMsg{resp: service.Process(ctx, sessionID, req)}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("PartSelect Parts Assistant")
	summary := mutedStyle.Render(m.summary)
	transcript := transcriptStyle.Render(m.viewport.View())
	input := inputStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + summary + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.history) == 0 {
		return mutedStyle.Render("No messages yet. Try \"PS12364199\" or \"my dishwasher is not draining\".")
	}
	width := max(20, m.viewport.Width-2)
	var b strings.Builder
	for i, msg := range m.history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		label, style := "Assistant", assistantStyle
		if msg.Role == "user" {
			label, style = "You", userStyle
		}
		b.WriteString(style.Render(label + ":"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(msg.Content))
	}
	return b.String()
}

func recent(history []models.Message) []models.Message {
	if len(history) <= maxHistory {
		return append([]models.Message(nil), history...)
	}
	return append([]models.Message(nil), history[len(history)-maxHistory:]...)
}

func renderCart(cart models.CartView) string {
	if cart.TotalItems == 0 {
		return "Your cart is empty."
	}
	return fmt.Sprintf("Cart: %d item(s), subtotal $%.2f, total $%.2f", cart.TotalItems, cart.Subtotal, cart.Total)
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
