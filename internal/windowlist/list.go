// Package windowlist builds the list of windows a user can switch to and
// filters it as the user types.
package windowlist

import (
	"image"

	"wprefix/internal/bitmap"
	"wprefix/internal/fuzzy"
	"wprefix/internal/platform"
)

// NoTitle is shown for windows whose title and owner title are unavailable.
const NoTitle = "<No title>"

const (
	// IconPadding separates the icon from the title and pads the row.
	IconPadding = 2

	MessageEmpty       = "No windows to switch to!"
	MessageNoMatch     = "No window titles match the given input!"
	maxNumberedEntries = 10
)

// labels number the first ten shown entries for the digit shortcuts.
var labels = [maxNumberedEntries]string{"1. ", "2. ", "3. ", "4. ", "5. ", "6. ", "7. ", "8. ", "9. ", "0. "}

// Label returns the shortcut label of the shown row (0-based), or "" past the
// tenth row.
func Label(row int) string {
	if row < 0 || row >= maxNumberedEntries {
		return ""
	}
	return labels[row]
}

// Measurer measures text for layout.
type Measurer interface {
	TextWidth(s string) int
	TextHeight() int
}

// Entry is one switchable window. It holds its own reference to Icon.
type Entry struct {
	Window  platform.Handle
	Title   string
	Icon    *bitmap.Bitmap
	Visible bool

	hasTitle bool
	size     image.Point
	sized    bool
}

// NewEntry creates a visible entry, taking over the caller's icon reference.
// An empty title selects NoTitle.
func NewEntry(window platform.Handle, title string, icon *bitmap.Bitmap) *Entry {
	e := &Entry{Window: window, Title: title, Icon: icon, Visible: true, hasTitle: true}
	if title == "" {
		e.Title = NoTitle
		e.hasTitle = false
	}
	return e
}

// HasTitle reports whether the title came from a window rather than NoTitle.
func (e *Entry) HasTitle() bool {
	return e.hasTitle
}

// Size returns the entry's extent, computing it on first use: icon, padding
// and title side by side, in a row tall enough for the larger of icon and text.
func (e *Entry) Size(m Measurer) image.Point {
	if e.sized {
		return e.size
	}

	iconW, iconH := 0, 0
	if e.Icon != nil {
		iconW, iconH = e.Icon.Width(), e.Icon.Height()
	}

	e.size = image.Pt(
		iconW+IconPadding+m.TextWidth(e.Title),
		max(iconH, m.TextHeight())+2*IconPadding,
	)
	e.sized = true
	return e.size
}

// Release drops the entry's icon reference.
func (e *Entry) Release() {
	e.Icon.Release()
	e.Icon = nil
}

// List is an ordered set of entries plus the cached width of the number
// column.
type List struct {
	entries     []*Entry
	numberWidth int
}

// NewList wraps entries, which the list now owns.
func NewList(entries []*Entry) *List {
	return &List{entries: entries, numberWidth: -1}
}

// Filter recomputes every entry's visibility against pattern.
func (l *List) Filter(pattern string) {
	for _, e := range l.entries {
		e.Visible = fuzzy.IsSubMatch(e.Title, pattern)
	}
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.entries)
}

// LenShown returns the number of visible entries.
func (l *List) LenShown() int {
	n := 0
	for _, e := range l.entries {
		if e.Visible {
			n++
		}
	}
	return n
}

// NthShown returns the n-th visible entry, counting from 1, or nil.
func (l *List) NthShown(n int) *Entry {
	if n <= 0 {
		return nil
	}
	for _, e := range l.entries {
		if !e.Visible {
			continue
		}
		n--
		if n == 0 {
			return e
		}
	}
	return nil
}

// Entries returns all entries in order.
func (l *List) Entries() []*Entry {
	return l.entries
}

// Visible returns the visible entries in order.
func (l *List) Visible() []*Entry {
	var shown []*Entry
	for _, e := range l.entries {
		if e.Visible {
			shown = append(shown, e)
		}
	}
	return shown
}

// EmptyMessage returns the text to show instead of the list, or "".
func (l *List) EmptyMessage() string {
	if l.Len() == 0 {
		return MessageEmpty
	}
	if l.LenShown() == 0 {
		return MessageNoMatch
	}
	return ""
}

// NumberWidth returns the width of the number column computed by the last
// Size call, or -1.
func (l *List) NumberWidth() int {
	return l.numberWidth
}

// Size measures the list as drawn: the widest visible row plus the number
// column, and the rows stacked. The no-match message may replace the rows
// at any keystroke, so the width also covers it.
func (l *List) Size(m Measurer) image.Point {
	if msg := l.EmptyMessage(); msg != "" {
		return image.Pt(m.TextWidth(msg), m.TextHeight())
	}

	var size image.Point
	for _, e := range l.Visible() {
		s := e.Size(m)
		size.X = max(size.X, s.X)
		size.Y += s.Y
	}

	l.numberWidth = -1
	for _, label := range labels {
		l.numberWidth = max(l.numberWidth, m.TextWidth(label))
	}
	size.X += l.numberWidth

	size.X = max(size.X, m.TextWidth(MessageNoMatch))
	return size
}

// Release drops every entry's icon.
func (l *List) Release() {
	for _, e := range l.entries {
		e.Release()
	}
	l.entries = nil
}
