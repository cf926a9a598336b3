package tui

import (
	"context"
	"time"

	"dayboard-cli/internal/api"
	"dayboard-cli/internal/drag"
	"dayboard-cli/internal/syncer"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const syncTimeout = 10 * time.Second

func loadItemsCmd(client api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		items, err := client.FetchItems(ctx)
		return itemsLoadedMsg{items: items, err: err}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case itemsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err.Error()
			return m, nil
		}
		m.loadErr = ""
		m.store.Load(msg.items)
		m.refreshBoard()
		return m, nil

	case syncDoneMsg:
		m.pending--
		res := m.sync.Resolve(msg.call, msg.err)
		if res.RolledBack {
			m.refreshBoard()
		}
		if res.Notice != "" {
			return m, m.showNotice(res.Notice)
		}
		return m, nil

	case noticeDoneMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.capture != nil {
			return m.updateCapture(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		// Esc cancels an in-progress drag with zero side effects.
		m.drag.Cancel()
		return m, nil

	case "j", "down":
		m.moveCursor(1)
		return m, nil
	case "k", "up":
		m.moveCursor(-1)
		return m, nil

	case "x", "enter":
		it, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		return m.startCall(m.sync.ToggleComplete(it.ID))

	case "d":
		it, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		return m.startCall(m.sync.Delete(it.ID))

	case "J":
		return m.moveWithinGroup(1)
	case "K":
		return m.moveWithinGroup(-1)

	case "n":
		m.openCapture(false)
		return m, nil
	case "i":
		m.openCapture(true)
		return m, nil

	case "c":
		m.filters.ShowCompleted = !m.filters.ShowCompleted
		m.invalidateBoard()
		return m, nil

	case "t":
		m.filters.Type = nextTypeFilter(m.filters.Type)
		m.invalidateBoard()
		return m, nil

	case "r":
		m.loading = true
		return m, loadItemsCmd(m.client)
	}
	return m, nil
}

// moveWithinGroup reorders the selected item one slot up or down via the
// same intent path a mouse drag takes.
func (m appModel) moveWithinGroup(delta int) (tea.Model, tea.Cmd) {
	it, ok := m.selectedItem()
	if !ok {
		return m, nil
	}
	key, ids, ok := m.groupIDs(it.ID)
	if !ok {
		return m, nil
	}
	at := -1
	for i, id := range ids {
		if id == it.ID {
			at = i
			break
		}
	}
	to := at + delta
	if at < 0 || to < 0 || to >= len(ids) {
		return m, nil
	}
	ids[at], ids[to] = ids[to], ids[at]
	mm, cmd := m.startCall(m.sync.Reorder(drag.Reorder{Key: key, OrderedIDs: ids}))
	out := mm.(appModel)
	out.cursor += delta
	out.clampCursor()
	return out, cmd
}

func (m appModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		if m.scroll > 0 {
			m.scroll--
		}
		return m, nil
	case msg.Button == tea.MouseButtonWheelDown:
		if m.scroll < len(m.rows)-1 {
			m.scroll++
		}
		return m, nil
	}

	r, idx, hit := m.rowAt(msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if hit && r.kind == rowItem {
			m.cursor = idx
			m.drag.Start(r.id)
		}
		return m, nil

	case tea.MouseActionMotion:
		if m.drag.Phase() == drag.PhaseIdle {
			return m, nil
		}
		switch {
		case hit && r.kind == rowItem:
			m.drag.HoverItem(r.id)
		case hit && r.kind == rowHeader:
			m.drag.HoverHeader(r.key)
		case hit && r.kind == rowCustom:
			m.drag.HoverCustomZone(r.date)
		default:
			m.drag.HoverNothing()
		}
		return m, nil

	case tea.MouseActionRelease:
		if m.drag.Phase() == drag.PhaseIdle {
			return m, nil
		}
		switch {
		case hit && r.kind == rowItem:
			if in, ok := m.drag.DropOnItem(r.id, m.groups, m.today); ok {
				return m.startCall(m.sync.Apply(in))
			}
		case hit && r.kind == rowHeader:
			if in, ok := m.drag.DropOnHeader(r.key, m.groups, m.today); ok {
				return m.startCall(m.sync.Apply(in))
			}
		case hit && r.kind == rowCustom:
			if in, ok := m.drag.DropOnCustomZone(r.date, m.store.Items()); ok {
				return m.startCall(m.sync.Apply(in))
			}
		default:
			m.drag.DropOutside()
		}
		return m, nil
	}
	return m, nil
}

// startCall applies the optimistic result to the board and schedules the
// persistence call. A validation error surfaces as a notice without any
// store change or network traffic.
func (m appModel) startCall(c syncer.Call, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		return m, m.showNotice(err.Error())
	}
	m.refreshBoard()
	m.pending++
	run := c.Run
	call := c
	cmds := []tea.Cmd{func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		return syncDoneMsg{call: call, err: run(ctx)}
	}}
	if m.pending == 1 {
		cmds = append(cmds, m.spin.Tick)
	}
	return m, tea.Batch(cmds...)
}

func (m *appModel) showNotice(text string) tea.Cmd {
	m.notice = text
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg { return noticeDoneMsg{seq: seq} })
}

// invalidateBoard forces a projection rebuild on filter changes, which do
// not bump the store revision.
func (m *appModel) invalidateBoard() {
	m.rows = nil
	m.storeRev = -1
	m.refreshBoard()
}
