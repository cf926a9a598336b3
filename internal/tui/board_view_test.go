package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestViewShowsGroupHeadersWithCounts(t *testing.T) {
	// Force a colorless profile so assertions see plain text.
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	defer lipgloss.SetColorProfile(prev)

	m := newTestApp(&fakeClient{}, testItems())
	out := m.View()

	for _, want := range []string{
		"Overdue · 1",
		"Today · 1",
		"No date · 1",
		"late",
		"someday",
		"⇢ drop: clear date",
		"⇢ drop: tomorrow",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestViewMarksCompletedAndCategory(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	defer lipgloss.SetColorProfile(prev)

	items := testItems()
	items[0].Completed = true
	items[1].Category = "work"
	m := newTestApp(&fakeClient{}, items)
	m.filters.ShowCompleted = true
	m.invalidateBoard()
	out := m.View()

	if !strings.Contains(out, "[x] ") {
		t.Fatalf("completed checkbox missing:\n%s", out)
	}
	if !strings.Contains(out, "#work") {
		t.Fatalf("category tag missing:\n%s", out)
	}
}
