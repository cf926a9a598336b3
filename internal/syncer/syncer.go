// Package syncer turns intents into optimistic local mutations plus
// best-effort persistence calls. Every mutation is applied to the item store
// synchronously, then confirmed or rolled back when its call resolves.
// Sequence numbers are tracked per item id: only the response matching the
// latest issued sequence for an id may confirm or roll it back; anything
// older is discarded on arrival.
//
// The manager itself is confined to the update loop — only Call.Run is
// executed on another goroutine, and it touches nothing but captured copies
// and the client.
package syncer

import (
	"context"
	"fmt"

	"dayboard-cli/internal/api"
	"dayboard-cli/internal/drag"
	"dayboard-cli/internal/group"
	"dayboard-cli/internal/model"
	"dayboard-cli/internal/store"
)

type Manager struct {
	store  *store.Store
	client api.Client
	today  func() model.Date
	seq    map[string]uint64
}

func New(s *store.Store, client api.Client, today func() model.Date) *Manager {
	if today == nil {
		today = model.Today
	}
	return &Manager{store: s, client: client, today: today, seq: map[string]uint64{}}
}

// Call is one issued persistence call: the affected ids, the sequence
// numbers under which they were issued, the pre-mutation snapshot for
// rollback, and the network closure to run off the update loop.
type Call struct {
	Kind string
	Run  func(ctx context.Context) error

	ids    []string
	issued map[string]uint64
	before store.Snapshot
}

// Resolution reports what Resolve did with a completed call.
type Resolution struct {
	// Stale means every affected id had a newer call issued meanwhile; the
	// response was discarded without effect.
	Stale bool
	// RolledBack means the optimistic mutation was reverted for the ids
	// still current.
	RolledBack bool
	// Notice is a user-visible, dismissible failure message; empty on
	// success and on stale discards.
	Notice string
}

func (m *Manager) issue(kind string, before store.Snapshot, run func(ctx context.Context) error, ids ...string) Call {
	issued := make(map[string]uint64, len(ids))
	for _, id := range ids {
		m.seq[id]++
		issued[id] = m.seq[id]
	}
	return Call{Kind: kind, Run: run, ids: ids, issued: issued, before: before}
}

// Resolve reconciles a completed call. err nil confirms the optimistic state
// (no store change); otherwise the pre-mutation state is restored for every
// affected id that has not been superseded. Persistence failures never
// escape: they degrade to a rollback plus a notice.
func (m *Manager) Resolve(c Call, err error) Resolution {
	current := make([]string, 0, len(c.ids))
	for _, id := range c.ids {
		if m.seq[id] == c.issued[id] {
			current = append(current, id)
		}
	}
	if len(current) == 0 {
		return Resolution{Stale: true}
	}
	if err == nil {
		return Resolution{}
	}
	m.store.RestoreIDs(c.before, current...)
	return Resolution{
		RolledBack: true,
		Notice:     fmt.Sprintf("Could not save %s (%v). Change undone.", c.Kind, err),
	}
}

// Apply dispatches a drag intent.
func (m *Manager) Apply(in drag.Intent) (Call, error) {
	switch v := in.(type) {
	case drag.Reorder:
		return m.Reorder(v)
	case drag.Reschedule:
		return m.Reschedule(v)
	}
	return Call{}, fmt.Errorf("unknown intent %T", in)
}

// Reorder renumbers one group and persists the group via bulk update.
// Store-level validation runs before any mutation; a malformed intent makes
// no store change and no call.
func (m *Manager) Reorder(in drag.Reorder) (Call, error) {
	today := m.today()
	before := m.store.Snapshot()
	if err := m.store.Reorder(in.Key, in.OrderedIDs, today); err != nil {
		return Call{}, err
	}
	updated := make([]model.Item, 0, len(in.OrderedIDs))
	for _, id := range in.OrderedIDs {
		it, ok := m.store.Find(id)
		if ok {
			updated = append(updated, it)
		}
	}
	run := func(ctx context.Context) error { return m.client.BulkUpdate(ctx, updated) }
	return m.issue("reorder", before, run, in.OrderedIDs...), nil
}

// Reschedule moves one item to a new due date and appends it to the end of
// its destination group.
func (m *Manager) Reschedule(in drag.Reschedule) (Call, error) {
	today := m.today()
	it, ok := m.store.Find(in.ItemID)
	if !ok {
		return Call{}, fmt.Errorf("reschedule: %w: %s", store.ErrUnknownID, in.ItemID)
	}
	before := m.store.Snapshot()

	moved := it.Clone()
	moved.DueDate = in.DueDate
	destKey := group.KeyFor(moved, today)
	order := m.store.NextOrder(destKey, today)

	if err := m.store.SetDueDate(in.ItemID, in.DueDate); err != nil {
		return Call{}, err
	}
	if err := m.store.SetOrder(in.ItemID, order); err != nil {
		m.store.RestoreIDs(before, in.ItemID)
		return Call{}, err
	}

	updated, _ := m.store.Find(in.ItemID)
	run := func(ctx context.Context) error { return m.client.UpdateItem(ctx, updated) }
	return m.issue("reschedule", before, run, in.ItemID), nil
}

// ToggleComplete flips the completed flag optimistically.
func (m *Manager) ToggleComplete(id string) (Call, error) {
	it, ok := m.store.Find(id)
	if !ok {
		return Call{}, fmt.Errorf("complete: %w: %s", store.ErrUnknownID, id)
	}
	before := m.store.Snapshot()
	it.Completed = !it.Completed
	m.store.Upsert(it)
	run := func(ctx context.Context) error { return m.client.UpdateItem(ctx, it) }
	return m.issue("completion", before, run, id), nil
}

// Delete removes the item optimistically.
func (m *Manager) Delete(id string) (Call, error) {
	if _, ok := m.store.Find(id); !ok {
		return Call{}, fmt.Errorf("delete: %w: %s", store.ErrUnknownID, id)
	}
	before := m.store.Snapshot()
	m.store.Remove(id)
	run := func(ctx context.Context) error { return m.client.DeleteItem(ctx, id) }
	return m.issue("delete", before, run, id), nil
}

// Create inserts a new item optimistically.
func (m *Manager) Create(it model.Item) (Call, error) {
	if it.ID == "" {
		return Call{}, fmt.Errorf("create: missing id")
	}
	before := m.store.Snapshot()
	m.store.Upsert(it)
	run := func(ctx context.Context) error {
		_, err := m.client.CreateItems(ctx, []model.Item{it})
		return err
	}
	return m.issue("create", before, run, it.ID), nil
}

// Edit replaces an item's mutable fields optimistically.
func (m *Manager) Edit(it model.Item) (Call, error) {
	if _, ok := m.store.Find(it.ID); !ok {
		return Call{}, fmt.Errorf("edit: %w: %s", store.ErrUnknownID, it.ID)
	}
	before := m.store.Snapshot()
	m.store.Upsert(it)
	run := func(ctx context.Context) error { return m.client.UpdateItem(ctx, it) }
	return m.issue("edit", before, run, it.ID), nil
}
