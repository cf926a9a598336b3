// Package drag interprets pointer drag gestures over the grouped board into
// reorder/reschedule intents. The controller is a small state machine; it
// never touches the item store. Hover updates are highlight-only and
// rate-limited; drops are classified from explicit targets and are never
// rate-limited, so a fast pointer can thin out highlights but can never lose
// or reorder the final drop.
package drag

import (
	"time"

	"dayboard-cli/internal/group"
	"dayboard-cli/internal/model"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseOverItem
	PhaseOverGroupHeader
	PhaseOverCustomDate
)

// Intent is a committed mutation request derived from a completed drag.
type Intent interface{ intent() }

// Reorder carries the full resulting id sequence for one group.
type Reorder struct {
	Key        group.Key
	OrderedIDs []string
}

// Reschedule moves one item to a new due date (nil clears it).
type Reschedule struct {
	ItemID  string
	DueDate *model.Date
}

func (Reorder) intent()    {}
func (Reschedule) intent() {}

const defaultHoverGap = 50 * time.Millisecond

type Controller struct {
	phase  Phase
	dragID string

	// Highlight candidate, valid for the Over* phases. Presentation-only:
	// the committed intent is derived from the drop target, not from this.
	overItemID string
	overKey    group.Key
	overDate   *model.Date

	now       func() time.Time
	hoverGap  time.Duration
	lastHover time.Time
}

func New() *Controller {
	return &Controller{now: time.Now, hoverGap: defaultHoverGap}
}

// NewWithClock is for tests that need deterministic hover timing.
func NewWithClock(now func() time.Time, hoverGap time.Duration) *Controller {
	return &Controller{now: now, hoverGap: hoverGap}
}

func (c *Controller) Phase() Phase       { return c.phase }
func (c *Controller) DraggingID() string { return c.dragID }

// Highlight returns the current candidate target for rendering.
func (c *Controller) Highlight() (itemID string, key group.Key, date *model.Date) {
	return c.overItemID, c.overKey, c.overDate
}

// Start begins a drag on an item. Only one drag can be active at a time.
func (c *Controller) Start(itemID string) bool {
	if c.phase != PhaseIdle || itemID == "" {
		return false
	}
	c.phase = PhaseDragging
	c.dragID = itemID
	c.lastHover = time.Time{}
	return true
}

// Cancel aborts the gesture with zero side effects.
func (c *Controller) Cancel() {
	c.reset()
}

func (c *Controller) reset() {
	c.phase = PhaseIdle
	c.dragID = ""
	c.clearHighlight()
}

func (c *Controller) clearHighlight() {
	c.overItemID = ""
	c.overKey = ""
	c.overDate = nil
}

// hoverAllowed enforces the minimum interval between highlight updates.
func (c *Controller) hoverAllowed() bool {
	if c.phase == PhaseIdle {
		return false
	}
	t := c.now()
	if !c.lastHover.IsZero() && t.Sub(c.lastHover) < c.hoverGap {
		return false
	}
	c.lastHover = t
	return true
}

func (c *Controller) HoverItem(targetID string) {
	if !c.hoverAllowed() {
		return
	}
	c.clearHighlight()
	c.phase = PhaseOverItem
	c.overItemID = targetID
}

func (c *Controller) HoverHeader(key group.Key) {
	if !c.hoverAllowed() {
		return
	}
	c.clearHighlight()
	c.phase = PhaseOverGroupHeader
	c.overKey = key
}

func (c *Controller) HoverCustomZone(d *model.Date) {
	if !c.hoverAllowed() {
		return
	}
	c.clearHighlight()
	c.phase = PhaseOverCustomDate
	if d != nil {
		dd := *d
		c.overDate = &dd
	}
}

// HoverNothing marks the pointer as being over no recognized target.
func (c *Controller) HoverNothing() {
	if !c.hoverAllowed() {
		return
	}
	c.clearHighlight()
	c.phase = PhaseDragging
}

// DropOnItem classifies a drop onto another item. Same group: a Reorder with
// the dragged item removed and reinserted at the target's index (it lands
// immediately before the target). Different group: a Reschedule onto the
// target's group. Dropping an item onto itself, or onto the position it
// already occupies, is a no-op.
func (c *Controller) DropOnItem(targetID string, groups []group.Group, today model.Date) (Intent, bool) {
	dragID := c.dragID
	defer c.reset()
	if c.phase == PhaseIdle || dragID == "" || targetID == dragID {
		return nil, false
	}

	srcKey, ok := group.GroupOf(groups, dragID)
	if !ok {
		return nil, false
	}
	dstKey, ok := group.GroupOf(groups, targetID)
	if !ok {
		return nil, false
	}

	if srcKey != dstKey {
		return Reschedule{ItemID: dragID, DueDate: group.DateFor(dstKey, today)}, true
	}

	g, _ := group.Find(groups, srcKey)
	current := make([]string, 0, len(g.Items))
	for _, it := range g.Items {
		current = append(current, it.ID)
	}

	without := make([]string, 0, len(current)-1)
	for _, id := range current {
		if id != dragID {
			without = append(without, id)
		}
	}
	at := -1
	for i, id := range without {
		if id == targetID {
			at = i
			break
		}
	}
	if at < 0 {
		return nil, false
	}
	next := make([]string, 0, len(current))
	next = append(next, without[:at]...)
	next = append(next, dragID)
	next = append(next, without[at:]...)

	if equalIDs(current, next) {
		return nil, false
	}
	return Reorder{Key: srcKey, OrderedIDs: next}, true
}

// DropOnHeader reschedules onto the group the header names. Dropping on the
// item's own group header changes nothing and emits no intent.
func (c *Controller) DropOnHeader(key group.Key, groups []group.Group, today model.Date) (Intent, bool) {
	dragID := c.dragID
	defer c.reset()
	if c.phase == PhaseIdle || dragID == "" {
		return nil, false
	}
	if srcKey, ok := group.GroupOf(groups, dragID); ok && srcKey == key {
		return nil, false
	}
	return Reschedule{ItemID: dragID, DueDate: group.DateFor(key, today)}, true
}

// DropOnCustomZone reschedules onto an arbitrary date picked in the custom
// drop zone; nil clears the due date. A date equal to the item's current one
// is a no-op.
func (c *Controller) DropOnCustomZone(d *model.Date, items []model.Item) (Intent, bool) {
	dragID := c.dragID
	defer c.reset()
	if c.phase == PhaseIdle || dragID == "" {
		return nil, false
	}
	for _, it := range items {
		if it.ID != dragID {
			continue
		}
		if sameDate(it.DueDate, d) {
			return nil, false
		}
		break
	}
	var due *model.Date
	if d != nil {
		dd := *d
		due = &dd
	}
	return Reschedule{ItemID: dragID, DueDate: due}, true
}

// DropOutside is pure cancellation.
func (c *Controller) DropOutside() {
	c.reset()
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameDate(a, b *model.Date) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
