package tui

import (
	"strings"
	"time"

	"dayboard-cli/internal/group"
	"dayboard-cli/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// captureState is the inline new-item modal: a text field plus an optional
// due-date field. Enter creates the item optimistically through the sync
// manager; esc discards the draft.
type captureState struct {
	isIdea bool
	text   textinput.Model
	due    textinput.Model
	focus  int // 0 text, 1 due
	errMsg string
}

func (m *appModel) openCapture(isIdea bool) {
	text := textinput.New()
	text.Placeholder = "what needs doing?"
	if isIdea {
		text.Placeholder = "what's the idea?"
	}
	text.CharLimit = 500
	text.Width = 60
	text.Focus()

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD (blank for no date)"
	due.CharLimit = 10
	due.Width = 30

	m.capture = &captureState{isIdea: isIdea, text: text, due: due}
}

func (m appModel) updateCapture(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.capture
	switch msg.String() {
	case "esc":
		m.capture = nil
		return m, nil

	case "tab", "shift+tab":
		if c.focus == 0 {
			c.focus = 1
			c.text.Blur()
			c.due.Focus()
		} else {
			c.focus = 0
			c.due.Blur()
			c.text.Focus()
		}
		return m, nil

	case "enter":
		text := strings.TrimSpace(c.text.Value())
		if text == "" {
			c.errMsg = "text is required"
			return m, nil
		}
		var due *model.Date
		if raw := strings.TrimSpace(c.due.Value()); raw != "" {
			d, err := model.ParseDate(raw)
			if err != nil {
				c.errMsg = "due date must be YYYY-MM-DD"
				return m, nil
			}
			due = &d
		}
		now := time.Now()
		id, err := model.NewItemID(now)
		if err != nil {
			c.errMsg = err.Error()
			return m, nil
		}
		it := model.Item{
			ID:        id,
			Text:      text,
			Type:      model.ItemTypeTask,
			Priority:  model.PriorityMedium,
			Category:  "inbox",
			DueDate:   due,
			CreatedAt: now,
		}
		if c.isIdea {
			it.Type = model.ItemTypeIdea
		}
		it.Order = m.store.NextOrder(group.KeyFor(it, m.today), m.today)
		m.capture = nil
		return m.startCall(m.sync.Create(it))
	}

	var cmd tea.Cmd
	if c.focus == 0 {
		c.text, cmd = c.text.Update(msg)
	} else {
		c.due, cmd = c.due.Update(msg)
	}
	c.errMsg = ""
	return m, cmd
}

func (m appModel) captureView() string {
	c := m.capture
	title := "new task"
	if c.isIdea {
		title = "new idea"
	}
	var b strings.Builder
	b.WriteString(styleTitle.Render(title))
	b.WriteString("\n\n")
	b.WriteString("  " + c.text.View())
	b.WriteString("\n  " + c.due.View())
	b.WriteString("\n\n")
	if c.errMsg != "" {
		b.WriteString(styleNotice.Render("  " + c.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(styleStatus.Render("  enter save · tab switch field · esc cancel"))
	return b.String()
}
