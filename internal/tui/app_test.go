package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	"dayboard-cli/internal/drag"
	"dayboard-cli/internal/group"
	"dayboard-cli/internal/model"
	"dayboard-cli/internal/store"
	"dayboard-cli/internal/syncer"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const testToday = model.Date("2026-03-10")

type fakeClient struct {
	mu         sync.Mutex
	updateErr  error
	bulkErr    error
	updates    []model.Item
	bulkCalls  [][]model.Item
	deleted    []string
	created    []model.Item
	fetchItems []model.Item
}

func (f *fakeClient) FetchItems(ctx context.Context) ([]model.Item, error) {
	return f.fetchItems, nil
}

func (f *fakeClient) CreateItems(ctx context.Context, items []model.Item) ([]model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, items...)
	return items, nil
}

func (f *fakeClient) UpdateItem(ctx context.Context, it model.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, it)
	return nil
}

func (f *fakeClient) BulkUpdate(ctx context.Context, items []model.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bulkErr != nil {
		return f.bulkErr
	}
	f.bulkCalls = append(f.bulkCalls, items)
	return nil
}

func (f *fakeClient) DeleteItem(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestApp(client *fakeClient, items []model.Item) appModel {
	s := store.New()
	s.Load(items)
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	m := appModel{
		client:   client,
		store:    s,
		sync:     syncer.New(s, client, func() model.Date { return testToday }),
		drag:     drag.NewWithClock(time.Now, 0),
		today:    testToday,
		width:    80,
		height:   40,
		storeRev: -1,
		spin:     sp,
	}
	m.refreshBoard()
	return m
}

func datep(d model.Date) *model.Date { return &d }

func testItems() []model.Item {
	return []model.Item{
		{ID: "item-1", Text: "late", Type: model.ItemTypeTask, DueDate: datep("2026-03-09"), Order: 0},
		{ID: "item-2", Text: "today", Type: model.ItemTypeTask, DueDate: datep(testToday), Order: 0},
		{ID: "item-3", Text: "someday", Type: model.ItemTypeTask, Order: 0},
	}
}

// rowIndexOf finds the board row for an item id or group key.
func rowIndexOf(t *testing.T, m appModel, want row) int {
	t.Helper()
	for i, r := range m.rows {
		if r.kind != want.kind {
			continue
		}
		if want.kind == rowItem && r.id == want.id {
			return i
		}
		if want.kind == rowHeader && r.key == want.key {
			return i
		}
		if want.kind == rowCustom && r.label == want.label {
			return i
		}
	}
	t.Fatalf("row %+v not on board; rows=%+v", want, m.rows)
	return -1
}

func screenY(m appModel, idx int) int { return boardTop + idx - m.scroll }

func mouse(action tea.MouseAction, button tea.MouseButton, y int) tea.MouseMsg {
	return tea.MouseMsg{X: 2, Y: y, Action: action, Button: button}
}

// runCmds executes a returned command tree synchronously and feeds every
// produced message back into the model, mirroring what the program runtime
// does. Follow-up commands (spinner frames, notice expiry) are dropped to
// keep tests deterministic.
func runCmds(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch v := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, v...)
		case spinner.TickMsg:
		case nil:
		default:
			mm, _ := m.Update(msg)
			m = mm.(appModel)
		}
	}
	return m
}

func TestDragItemOntoHeaderReschedules(t *testing.T) {
	client := &fakeClient{}
	m := newTestApp(client, testItems())

	from := rowIndexOf(t, m, row{kind: rowItem, id: "item-3"})
	toHeader := rowIndexOf(t, m, row{kind: rowHeader, key: group.Key(testToday)})

	mm, _ := m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, screenY(m, from)))
	m = mm.(appModel)
	if m.drag.DraggingID() != "item-3" {
		t.Fatalf("expected drag of item-3, got %q", m.drag.DraggingID())
	}

	mm, _ = m.Update(mouse(tea.MouseActionMotion, tea.MouseButtonLeft, screenY(m, toHeader)))
	m = mm.(appModel)

	mm, cmd := m.Update(mouse(tea.MouseActionRelease, tea.MouseButtonLeft, screenY(m, toHeader)))
	m = mm.(appModel)

	it, ok := m.store.Find("item-3")
	if !ok {
		t.Fatalf("item-3 gone")
	}
	if it.DueDate == nil || *it.DueDate != testToday {
		t.Fatalf("expected due %s, got %v", testToday, it.DueDate)
	}
	if it.Order != 1 {
		t.Fatalf("expected order 1 (after item-2), got %d", it.Order)
	}
	for _, g := range m.groups {
		if g.Key == "no-date" {
			t.Fatalf("empty no-date group still on board")
		}
	}

	m = runCmds(t, m, cmd)
	if len(client.updates) != 1 || client.updates[0].ID != "item-3" {
		t.Fatalf("expected one UpdateItem for item-3, got %+v", client.updates)
	}
	if m.pending != 0 {
		t.Fatalf("pending stuck at %d", m.pending)
	}
	if m.notice != "" {
		t.Fatalf("unexpected notice %q", m.notice)
	}
}

func TestDragWithinGroupReorders(t *testing.T) {
	client := &fakeClient{}
	items := []model.Item{
		{ID: "a", Text: "a", Type: model.ItemTypeTask, DueDate: datep(testToday), Order: 0},
		{ID: "b", Text: "b", Type: model.ItemTypeTask, DueDate: datep(testToday), Order: 1},
		{ID: "c", Text: "c", Type: model.ItemTypeTask, DueDate: datep(testToday), Order: 2},
	}
	m := newTestApp(client, items)

	from := rowIndexOf(t, m, row{kind: rowItem, id: "c"})
	onto := rowIndexOf(t, m, row{kind: rowItem, id: "a"})

	mm, _ := m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, screenY(m, from)))
	m = mm.(appModel)
	mm, cmd := m.Update(mouse(tea.MouseActionRelease, tea.MouseButtonLeft, screenY(m, onto)))
	m = mm.(appModel)
	m = runCmds(t, m, cmd)

	wantOrder := map[string]int{"c": 0, "a": 1, "b": 2}
	for id, want := range wantOrder {
		it, _ := m.store.Find(id)
		if it.Order != want {
			t.Fatalf("item %s order=%d want %d", id, it.Order, want)
		}
	}
	if len(client.bulkCalls) != 1 || len(client.bulkCalls[0]) != 3 {
		t.Fatalf("expected one bulk update of 3 items, got %+v", client.bulkCalls)
	}
}

func TestDropOnCustomZoneClearsDate(t *testing.T) {
	client := &fakeClient{}
	m := newTestApp(client, testItems())

	from := rowIndexOf(t, m, row{kind: rowItem, id: "item-2"})
	zone := rowIndexOf(t, m, row{kind: rowCustom, label: "clear date"})

	mm, _ := m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, screenY(m, from)))
	m = mm.(appModel)
	mm, cmd := m.Update(mouse(tea.MouseActionRelease, tea.MouseButtonLeft, screenY(m, zone)))
	m = mm.(appModel)
	m = runCmds(t, m, cmd)

	it, _ := m.store.Find("item-2")
	if it.DueDate != nil {
		t.Fatalf("expected cleared due date, got %v", *it.DueDate)
	}
}

func TestReleaseOutsideBoardCancelsDrag(t *testing.T) {
	client := &fakeClient{}
	m := newTestApp(client, testItems())

	from := rowIndexOf(t, m, row{kind: rowItem, id: "item-2"})
	mm, _ := m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, screenY(m, from)))
	m = mm.(appModel)

	mm, _ = m.Update(mouse(tea.MouseActionRelease, tea.MouseButtonLeft, 200))
	m = mm.(appModel)

	if m.drag.Phase() != drag.PhaseIdle {
		t.Fatalf("drag not reset, phase=%v", m.drag.Phase())
	}
	it, _ := m.store.Find("item-2")
	if it.DueDate == nil || *it.DueDate != testToday {
		t.Fatalf("item mutated by canceled drag: %+v", it)
	}
	if len(client.updates)+len(client.bulkCalls) != 0 {
		t.Fatalf("canceled drag reached the client")
	}
}

func TestFailedSaveRollsBackWithNotice(t *testing.T) {
	client := &fakeClient{updateErr: context.DeadlineExceeded}
	m := newTestApp(client, testItems())

	m.cursor = rowIndexOf(t, m, row{kind: rowItem, id: "item-2"})
	mm, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = mm.(appModel)

	it, _ := m.store.Find("item-2")
	if !it.Completed {
		t.Fatalf("toggle not applied optimistically")
	}

	m = runCmds(t, m, cmd)

	it, _ = m.store.Find("item-2")
	if it.Completed {
		t.Fatalf("failed save not rolled back")
	}
	if m.notice == "" {
		t.Fatalf("expected a failure notice")
	}
}

func TestKeyboardMoveWithinGroup(t *testing.T) {
	client := &fakeClient{}
	items := []model.Item{
		{ID: "a", Text: "a", Type: model.ItemTypeTask, DueDate: datep(testToday), Order: 0},
		{ID: "b", Text: "b", Type: model.ItemTypeTask, DueDate: datep(testToday), Order: 1},
	}
	m := newTestApp(client, items)
	m.cursor = rowIndexOf(t, m, row{kind: rowItem, id: "a"})

	mm, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'J'}})
	m = mm.(appModel)
	m = runCmds(t, m, cmd)

	a, _ := m.store.Find("a")
	b, _ := m.store.Find("b")
	if a.Order != 1 || b.Order != 0 {
		t.Fatalf("expected swap, got a=%d b=%d", a.Order, b.Order)
	}
	if sel, ok := m.selectedItem(); !ok || sel.ID != "a" {
		t.Fatalf("cursor did not follow the moved item")
	}
}

func TestFilterTogglesRebuildBoard(t *testing.T) {
	client := &fakeClient{}
	items := testItems()
	items[1].Completed = true
	m := newTestApp(client, items)

	if _, ok := m.store.Find("item-2"); !ok {
		t.Fatalf("setup: item-2 missing")
	}
	for _, r := range m.rows {
		if r.kind == rowItem && r.id == "item-2" {
			t.Fatalf("completed item shown with filter off")
		}
	}

	mm, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = mm.(appModel)
	found := false
	for _, r := range m.rows {
		if r.kind == rowItem && r.id == "item-2" {
			found = true
		}
	}
	if !found {
		t.Fatalf("completed item hidden with filter on")
	}
}

func TestCaptureCreatesItem(t *testing.T) {
	client := &fakeClient{}
	m := newTestApp(client, nil)

	mm, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = mm.(appModel)
	if m.capture == nil {
		t.Fatalf("capture modal not open")
	}

	for _, r := range "write tests" {
		mm, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = mm.(appModel)
	}
	mm, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mm.(appModel)
	if m.capture != nil {
		t.Fatalf("capture modal still open after enter")
	}
	m = runCmds(t, m, cmd)

	if m.store.Len() != 1 {
		t.Fatalf("expected 1 item in store, got %d", m.store.Len())
	}
	if len(client.created) != 1 || client.created[0].Text != "write tests" {
		t.Fatalf("create not persisted: %+v", client.created)
	}
}
