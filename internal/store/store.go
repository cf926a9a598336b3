// Package store holds the canonical in-memory item collection: the single
// source of truth for everything the board displays. All mutations are
// synchronous and happen from the update loop; there is no hidden buffering
// and no concurrent access.
package store

import (
	"errors"
	"fmt"

	"dayboard-cli/internal/group"
	"dayboard-cli/internal/model"
)

var (
	ErrUnknownID  = errors.New("unknown item id")
	ErrNotInGroup = errors.New("id not in target group")
	// ErrPartialOrder is returned when a reorder omits a current group member;
	// reorder requires the full ordered id list for the group.
	ErrPartialOrder = errors.New("reorder must list every item in the group")
)

type Store struct {
	items []model.Item
	rev   int
}

func New() *Store {
	return &Store{}
}

// Revision is a monotonic change counter. Consumers that project the item
// collection (the board) recompute when it advances; high-frequency drag
// hover state deliberately lives outside the store so it never bumps this.
func (s *Store) Revision() int { return s.rev }

// Load replaces the entire collection, used on initial fetch.
func (s *Store) Load(items []model.Item) {
	s.items = make([]model.Item, 0, len(items))
	for _, it := range items {
		s.items = append(s.items, it.Clone())
	}
	s.rev++
}

// Items returns a deep copy of the collection.
func (s *Store) Items() []model.Item {
	out := make([]model.Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it.Clone())
	}
	return out
}

func (s *Store) Len() int { return len(s.items) }

func (s *Store) index(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) Find(id string) (model.Item, bool) {
	if i := s.index(id); i >= 0 {
		return s.items[i].Clone(), true
	}
	return model.Item{}, false
}

// Upsert inserts or replaces by id.
func (s *Store) Upsert(it model.Item) {
	if i := s.index(it.ID); i >= 0 {
		s.items[i] = it.Clone()
	} else {
		s.items = append(s.items, it.Clone())
	}
	s.rev++
}

// Remove deletes by id; removing an absent id is a no-op.
func (s *Store) Remove(id string) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.rev++
}

// Reorder renumbers one group to match orderedIDs, leaving every other group
// untouched. orderedIDs must be exactly the group's current membership
// (validated both ways before any mutation). Orders are densely renumbered
// 0..n-1, which keeps values distinct without global bookkeeping.
func (s *Store) Reorder(key group.Key, orderedIDs []string, today model.Date) error {
	members := map[string]bool{}
	for i := range s.items {
		if group.KeyFor(s.items[i], today) == key {
			members[s.items[i].ID] = true
		}
	}
	seen := map[string]bool{}
	for _, id := range orderedIDs {
		if s.index(id) < 0 {
			return fmt.Errorf("%w: %s", ErrUnknownID, id)
		}
		if !members[id] {
			return fmt.Errorf("%w: %s not in %s", ErrNotInGroup, id, key)
		}
		if seen[id] {
			return fmt.Errorf("duplicate id in reorder: %s", id)
		}
		seen[id] = true
	}
	if len(seen) != len(members) {
		return fmt.Errorf("%w: got %d of %d", ErrPartialOrder, len(seen), len(members))
	}

	for n, id := range orderedIDs {
		i := s.index(id)
		s.items[i].Order = n
	}
	s.rev++
	return nil
}

// SetDueDate mutates only the due date. Placement within the destination
// group is the caller's job (SetOrder / NextOrder); by convention rescheduled
// items are appended to the end of the destination group.
func (s *Store) SetDueDate(id string, d *model.Date) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownID, id)
	}
	if d == nil {
		s.items[i].DueDate = nil
	} else {
		dd := *d
		s.items[i].DueDate = &dd
	}
	s.rev++
	return nil
}

func (s *Store) SetOrder(id string, order int) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownID, id)
	}
	s.items[i].Order = order
	s.rev++
	return nil
}

// NextOrder returns one past the current maximum order in the group
// (0 for an empty group).
func (s *Store) NextOrder(key group.Key, today model.Date) int {
	next := 0
	for i := range s.items {
		if group.KeyFor(s.items[i], today) == key && s.items[i].Order >= next {
			next = s.items[i].Order + 1
		}
	}
	return next
}

// Snapshot is a deep, independent copy of the collection; later store
// mutations cannot reach into it.
type Snapshot struct {
	items []model.Item
}

func (s *Store) Snapshot() Snapshot {
	sn := Snapshot{items: make([]model.Item, 0, len(s.items))}
	for _, it := range s.items {
		sn.items = append(sn.items, it.Clone())
	}
	return sn
}

// Restore replaces the full collection with the snapshot.
func (s *Store) Restore(sn Snapshot) {
	s.Load(sn.items)
}

// RestoreIDs rolls back only the given ids to their snapshot state:
// items present in the snapshot are reinstated (including ones deleted
// since), items absent from it are removed (ones created since).
func (s *Store) RestoreIDs(sn Snapshot, ids ...string) {
	for _, id := range ids {
		found := false
		for _, it := range sn.items {
			if it.ID == id {
				s.Upsert(it)
				found = true
				break
			}
		}
		if !found {
			s.Remove(id)
		}
	}
}
