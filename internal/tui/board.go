package tui

import (
	"fmt"
	"strings"

	"dayboard-cli/internal/drag"
	"dayboard-cli/internal/group"
	"dayboard-cli/internal/model"

	xansi "github.com/charmbracelet/x/ansi"
)

type rowKind int

const (
	rowBlank rowKind = iota
	rowHeader
	rowItem
	rowCustom
)

// row is one board line, used both for rendering and for mouse hit-testing:
// screen line = boardTop + index - scroll.
type row struct {
	kind  rowKind
	key   group.Key   // header rows
	id    string      // item rows
	date  *model.Date // custom-zone rows; nil clears the due date
	label string      // custom-zone rows
}

// refreshBoard rebuilds the projection cache when the store changed under
// us. Cheap to call unconditionally.
func (m *appModel) refreshBoard() {
	if m.storeRev == m.store.Revision() && m.rows != nil {
		return
	}
	m.storeRev = m.store.Revision()
	m.groups = group.Groups(m.store.Items(), m.filters, m.today)

	rows := make([]row, 0, m.store.Len()+len(m.groups)*2+4)
	for _, g := range m.groups {
		rows = append(rows, row{kind: rowHeader, key: g.Key})
		for _, it := range g.Items {
			rows = append(rows, row{kind: rowItem, id: it.ID})
		}
		rows = append(rows, row{kind: rowBlank})
	}

	tomorrow := m.today.AddDays(1)
	nextWeek := m.today.AddDays(7)
	rows = append(rows,
		row{kind: rowCustom, date: nil, label: "clear date"},
		row{kind: rowCustom, date: &tomorrow, label: "tomorrow"},
		row{kind: rowCustom, date: &nextWeek, label: "next week"},
	)
	m.rows = rows
	m.clampCursor()
}

// rowAt maps a screen position to a board row.
func (m *appModel) rowAt(y int) (row, int, bool) {
	idx := y - boardTop + m.scroll
	if idx < 0 || idx >= len(m.rows) {
		return row{}, -1, false
	}
	return m.rows[idx], idx, true
}

func (m *appModel) clampCursor() {
	if len(m.rows) == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.rows[m.cursor].kind == rowItem {
		return
	}
	// Prefer the next item row, else the previous one.
	for i := m.cursor; i < len(m.rows); i++ {
		if m.rows[i].kind == rowItem {
			m.cursor = i
			return
		}
	}
	for i := m.cursor; i >= 0; i-- {
		if m.rows[i].kind == rowItem {
			m.cursor = i
			return
		}
	}
	m.cursor = 0
}

func (m *appModel) moveCursor(delta int) {
	i := m.cursor + delta
	for i >= 0 && i < len(m.rows) {
		if m.rows[i].kind == rowItem {
			m.cursor = i
			return
		}
		i += delta
	}
}

func (m *appModel) selectedItem() (model.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) || m.rows[m.cursor].kind != rowItem {
		return model.Item{}, false
	}
	return m.store.Find(m.rows[m.cursor].id)
}

// groupIDs returns the displayed id sequence of the group containing id.
func (m *appModel) groupIDs(id string) (group.Key, []string, bool) {
	key, ok := group.GroupOf(m.groups, id)
	if !ok {
		return "", nil, false
	}
	g, _ := group.Find(m.groups, key)
	ids := make([]string, 0, len(g.Items))
	for _, it := range g.Items {
		ids = append(ids, it.ID)
	}
	return key, ids, true
}

func (m *appModel) renderRow(i int) string {
	r := m.rows[i]
	hiItem, hiKey, hiDate := m.drag.Highlight()

	switch r.kind {
	case rowBlank:
		return ""

	case rowHeader:
		g, _ := group.Find(m.groups, r.key)
		st := headerStyleFor(g.IsToday, g.IsOverdue)
		line := fmt.Sprintf("%s · %d", g.Label, len(g.Items))
		if hiKey == r.key {
			st = styleDropTarget
		}
		return st.Render(line)

	case rowCustom:
		st := styleCustomZone
		if m.drag.Phase() == drag.PhaseOverCustomDate && sameCustomDate(hiDate, r.date) {
			st = styleCustomZoneActive
		}
		return st.Render("⇢ drop: " + r.label)

	case rowItem:
		it, ok := m.store.Find(r.id)
		if !ok {
			return ""
		}
		line := m.renderItemLine(it)
		switch {
		case m.drag.DraggingID() == it.ID:
			line = styleItemDragged.Render(line)
		case hiItem == it.ID:
			line = styleDropTarget.Render(line)
		case i == m.cursor:
			line = styleItemSelected.Render(line)
		case it.Completed:
			line = styleItemCompleted.Render(line)
		default:
			line = styleItem.Render(line)
		}
		return "  " + line
	}
	return ""
}

func (m *appModel) renderItemLine(it model.Item) string {
	var b strings.Builder
	if it.Completed {
		b.WriteString("[x] ")
	} else {
		b.WriteString("[ ] ")
	}
	switch it.Priority {
	case model.PriorityHigh:
		b.WriteString(stylePriHigh.Render("! "))
	case model.PriorityLow:
		b.WriteString(stylePriLow.Render("· "))
	default:
		b.WriteString("  ")
	}
	if it.Type == model.ItemTypeIdea {
		b.WriteString(styleIdeaMark.Render("✦ "))
	}
	b.WriteString(it.Text)
	if it.Category != "" {
		b.WriteString(styleStatus.Render("  #" + it.Category))
	}
	w := m.width - 4
	if w < 10 {
		w = 10
	}
	return xansi.Truncate(b.String(), w, "…")
}

// nextTypeFilter cycles all -> tasks -> ideas -> all.
func nextTypeFilter(t model.ItemType) model.ItemType {
	switch t {
	case "":
		return model.ItemTypeTask
	case model.ItemTypeTask:
		return model.ItemTypeIdea
	default:
		return ""
	}
}

func sameCustomDate(a, b *model.Date) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
