// Package group projects the flat item collection into the ordered
// date-group sequence the board renders. The projection is pure: it never
// mutates its inputs and produces identical output for identical input.
package group

import (
	"sort"

	"dayboard-cli/internal/model"
)

// Key discriminates which group an item belongs to: "overdue", "no-date",
// or a YYYY-MM-DD date.
type Key string

const (
	KeyOverdue Key = "overdue"
	KeyNoDate  Key = "no-date"
)

func DateKey(d model.Date) Key { return Key(d) }

// KeyFor derives an item's group key relative to today. Completion is
// irrelevant here: a completed item due last week still keys to overdue.
// Whether completed items are shown at all is a filter concern.
func KeyFor(it model.Item, today model.Date) Key {
	if it.DueDate == nil {
		return KeyNoDate
	}
	if it.DueDate.Before(today) {
		return KeyOverdue
	}
	return DateKey(*it.DueDate)
}

type Filters struct {
	Type          model.ItemType // zero value: all types
	Category      string         // zero value: all categories
	ShowCompleted bool
}

func (f Filters) keeps(it model.Item) bool {
	if !f.ShowCompleted && it.Completed {
		return false
	}
	if f.Type != "" && it.Type != f.Type {
		return false
	}
	if f.Category != "" && it.Category != f.Category {
		return false
	}
	return true
}

// Group is a derived view, recomputed on every store change.
type Group struct {
	Key       Key
	Label     string
	IsToday   bool
	IsOverdue bool
	Items     []model.Item
}

// Groups partitions items into the ordered group sequence:
// overdue first (if non-empty), then distinct dates ascending, then no-date
// last. Groups left empty by filtering are omitted. Within a group items are
// ordered by Order ascending, ties broken by ID for a reproducible total
// order.
func Groups(items []model.Item, f Filters, today model.Date) []Group {
	byKey := map[Key][]model.Item{}
	for _, it := range items {
		if !f.keeps(it) {
			continue
		}
		k := KeyFor(it, today)
		byKey[k] = append(byKey[k], it.Clone())
	}

	var dates []Key
	for k := range byKey {
		if k != KeyOverdue && k != KeyNoDate {
			dates = append(dates, k)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })

	ordered := make([]Key, 0, len(byKey))
	if len(byKey[KeyOverdue]) > 0 {
		ordered = append(ordered, KeyOverdue)
	}
	ordered = append(ordered, dates...)
	if len(byKey[KeyNoDate]) > 0 {
		ordered = append(ordered, KeyNoDate)
	}

	out := make([]Group, 0, len(ordered))
	for _, k := range ordered {
		members := byKey[k]
		sort.Slice(members, func(i, j int) bool {
			if members[i].Order != members[j].Order {
				return members[i].Order < members[j].Order
			}
			return members[i].ID < members[j].ID
		})
		out = append(out, Group{
			Key:       k,
			Label:     Label(k, today),
			IsToday:   k == DateKey(today),
			IsOverdue: k == KeyOverdue,
			Items:     members,
		})
	}
	return out
}

// Label renders the heading for a group key: "Overdue", "Today", "Tomorrow",
// a short weekday+date ("Mon, Jan 2"), or "No date".
func Label(k Key, today model.Date) string {
	switch k {
	case KeyOverdue:
		return "Overdue"
	case KeyNoDate:
		return "No date"
	case DateKey(today):
		return "Today"
	case DateKey(today.AddDays(1)):
		return "Tomorrow"
	}
	t := model.Date(k).Time()
	if t.IsZero() {
		return string(k)
	}
	return t.Format("Mon, Jan 2")
}

// Find returns the group with the given key, if present.
func Find(groups []Group, k Key) (Group, bool) {
	for _, g := range groups {
		if g.Key == k {
			return g, true
		}
	}
	return Group{}, false
}

// GroupOf returns the key of the group containing id, searching the
// projected sequence (not the raw store).
func GroupOf(groups []Group, id string) (Key, bool) {
	for _, g := range groups {
		for _, it := range g.Items {
			if it.ID == id {
				return g.Key, true
			}
		}
	}
	return "", false
}

// DateFor maps a group key to the due date a drop onto that group implies:
// nil for no-date, today for overdue (a drop there means "due now", not in
// the past), else the group's own date.
func DateFor(k Key, today model.Date) *model.Date {
	switch k {
	case KeyNoDate:
		return nil
	case KeyOverdue:
		d := today
		return &d
	}
	d := model.Date(k)
	return &d
}
