package tui

import (
	"strings"
)

func (m appModel) View() string {
	if m.width == 0 {
		m.width = 80
	}
	if m.height == 0 {
		m.height = 24
	}

	if m.capture != nil {
		return m.captureView()
	}

	var b strings.Builder
	b.WriteString(m.titleLine())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(styleStatus.Render("loading…"))
		return b.String()
	}
	if m.loadErr != "" {
		b.WriteString(styleNotice.Render("could not reach the persistence service: " + m.loadErr))
		b.WriteString("\n")
		b.WriteString(styleStatus.Render("start one with `dayboard serve`, then press r to retry"))
		return b.String()
	}

	boardHeight := m.height - boardTop - 1
	preview := m.notesPreview()
	if preview != "" {
		boardHeight -= strings.Count(preview, "\n") + 1
	}
	if boardHeight < 3 {
		boardHeight = 3
	}

	end := m.scroll + boardHeight
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.scroll; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	if preview != "" {
		b.WriteString(preview)
	}
	return b.String()
}

func (m appModel) titleLine() string {
	parts := []string{styleTitle.Render("dayboard")}
	if m.filters.Type != "" {
		parts = append(parts, styleStatus.Render("type:"+string(m.filters.Type)))
	}
	if m.filters.Category != "" {
		parts = append(parts, styleStatus.Render("#"+m.filters.Category))
	}
	if m.filters.ShowCompleted {
		parts = append(parts, styleStatus.Render("+completed"))
	}
	if m.pending > 0 {
		parts = append(parts, m.spin.View()+styleStatus.Render("saving"))
	}
	return strings.Join(parts, "  ")
}

func (m appModel) statusLine() string {
	if m.notice != "" {
		return styleNotice.Render(m.notice)
	}
	if m.drag.DraggingID() != "" {
		return styleStatus.Render("dragging — drop on an item, a heading, or a drop zone; esc cancels")
	}
	return styleStatus.Render("n new · i idea · x done · d delete · J/K move · drag to reschedule · c completed · t type · q quit")
}

// notesPreview renders the selected item's notes as markdown under the
// board.
func (m appModel) notesPreview() string {
	it, ok := m.selectedItem()
	if !ok || strings.TrimSpace(it.Notes) == "" {
		return ""
	}
	md := renderMarkdown(it.Notes, m.width-2)
	if md == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(md, "\n"), "\n")
	max := m.height / 3
	if max < 3 {
		max = 3
	}
	if len(lines) > max {
		lines = append(lines[:max], styleStatus.Render("…"))
	}
	return styleStatus.Render("── notes ──") + "\n" + strings.Join(lines, "\n")
}
