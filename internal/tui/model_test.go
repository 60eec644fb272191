package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lehigh-university-libraries/partsdesk/internal/models"
)

type fakeChat struct {
	requests []models.ChatRequest
	cart     models.CartView
}

func (f *fakeChat) Process(_ context.Context, sessionID string, req models.ChatRequest) models.ChatResponse {
	f.requests = append(f.requests, req)
	return models.ChatResponse{
		Message:    "I found the Ice Maker Assembly.",
		QueryType:  "part_lookup",
		AgentTrace: []string{"scope", "intent", "search", "response"},
		SessionID:  sessionID,
	}
}

func (f *fakeChat) Cart(string) models.CartView { return f.cart }

func typeText(m tea.Model, text string) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestSubmitRoundTrip(t *testing.T) {
	chat := &fakeChat{}
	var m tea.Model = New(t.Context(), chat, "s1", "2 parts loaded")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	m = typeText(m, "PS12364199")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Expected a command to fetch the reply")
	}
	if got := m.(Model).status; got != "Thinking..." {
		t.Errorf("Expected waiting status, got %q", got)
	}

	m, _ = m.Update(cmd())
	model := m.(Model)
	if len(chat.requests) != 1 || chat.requests[0].Message != "PS12364199" {
		t.Fatalf("Unexpected requests: %+v", chat.requests)
	}
	if len(model.history) != 2 {
		t.Fatalf("Expected user and assistant turns, got %d", len(model.history))
	}
	if !strings.Contains(model.status, "part_lookup") {
		t.Errorf("Expected query type in status, got %q", model.status)
	}
	if !strings.Contains(model.View(), "Ice Maker Assembly") {
		t.Error("Expected reply in transcript")
	}

	m = typeText(m, "yes")
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(cmd())
	if got := chat.requests[1].ConversationHistory; len(got) != 2 {
		t.Errorf("Expected prior turns sent as history, got %d", len(got))
	}
}

func TestCartCommand(t *testing.T) {
	chat := &fakeChat{cart: models.CartView{TotalItems: 2, Subtotal: 60, Total: 65.1}}
	var m tea.Model = New(t.Context(), chat, "s1", "")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	m = typeText(m, "/cart")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("Expected /cart to be handled locally")
	}
	if got := m.(Model).status; got != "Cart: 2 item(s), subtotal $60.00, total $65.10" {
		t.Errorf("Unexpected status %q", got)
	}
	if len(chat.requests) != 0 {
		t.Error("Expected no chat request for /cart")
	}
}

func TestRecentCapsHistory(t *testing.T) {
	history := make([]models.Message, 15)
	for i := range history {
		history[i] = models.Message{Role: "user", Content: string(rune('a' + i))}
	}
	got := recent(history)
	if len(got) != maxHistory {
		t.Fatalf("Expected %d turns, got %d", maxHistory, len(got))
	}
	if got[0].Content != "f" {
		t.Errorf("Expected oldest kept turn f, got %s", got[0].Content)
	}
}
