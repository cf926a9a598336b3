package model

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"strconv"
	"strings"
	"time"
)

type ItemType string

const (
	ItemTypeTask ItemType = "task"
	ItemTypeIdea ItemType = "idea"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DefaultCategories are offered at capture time; any other non-empty string
// is accepted as a user-defined category.
var DefaultCategories = []string{"inbox", "work", "home"}

// Item is the unit of everything dayboard tracks. While displayed it is owned
// exclusively by the in-memory item store; the persisted copy is owned by the
// backend.
//
// Order is a sort key comparable only among items sharing the same due-date
// group; it carries no global meaning.
type Item struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Notes     string    `json:"notes,omitempty"`
	Completed bool      `json:"completed"`
	Type      ItemType  `json:"type"`
	Category  string    `json:"category,omitempty"`
	Priority  Priority  `json:"priority"`
	DueDate   *Date     `json:"dueDate,omitempty"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

// Date is a calendar date formatted YYYY-MM-DD with no time component.
// Lexicographic comparison of well-formed values is chronological.
type Date string

var ErrBadDate = errors.New("invalid date (want YYYY-MM-DD)")

func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", ErrBadDate
	}
	return DateOf(t), nil
}

func DateOf(t time.Time) Date {
	return Date(t.Format("2006-01-02"))
}

func Today() Date {
	return DateOf(time.Now())
}

func (d Date) Before(o Date) bool { return d < o }

func (d Date) Time() time.Time {
	t, err := time.Parse("2006-01-02", string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// NewItemID returns item-<millis36>-<suffix> where millis36 is the creation
// instant in base36 unix milliseconds and suffix is 4 chars of random base32.
// The timestamp prefix keeps ids roughly monotonic; the suffix avoids
// collisions for items captured within the same millisecond.
func NewItemID(now time.Time) (string, error) {
	var b [3]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))[:4]
	return "item-" + strconv.FormatInt(now.UnixMilli(), 36) + "-" + suffix, nil
}

// Clone returns a deep copy; DueDate is the only pointer field.
func (it Item) Clone() Item {
	out := it
	if it.DueDate != nil {
		d := *it.DueDate
		out.DueDate = &d
	}
	return out
}

func ValidItemType(t ItemType) bool {
	return t == ItemTypeTask || t == ItemTypeIdea
}

func ValidPriority(p Priority) bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}
