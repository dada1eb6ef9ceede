package windowlist

import (
	"image"
	"testing"

	"wprefix/internal/bitmap"
	"wprefix/internal/platform"
)

// fixedMeasurer makes every rune 7 pixels wide and lines 13 pixels tall.
type fixedMeasurer struct {
	calls int
}

func (m *fixedMeasurer) TextWidth(s string) int {
	m.calls++
	return 7 * len([]rune(s))
}

func (m *fixedMeasurer) TextHeight() int {
	return 13
}

func newList(t *testing.T, titles ...string) *List {
	t.Helper()
	var entries []*Entry
	for i, title := range titles {
		icon, err := bitmap.New(16, 16, bitmap.Format32bppARGB)
		if err != nil {
			t.Fatalf("bitmap.New() unexpected error = %v", err)
		}
		entries = append(entries, NewEntry(platform.Handle(i+1), title, icon))
	}
	return NewList(entries)
}

func TestList_Filter(t *testing.T) {
	list := newList(t, "Notepad", "notes.txt - Editor", "Calculator", "Command Prompt")
	defer list.Release()

	tests := []struct {
		pattern string
		want    []platform.Handle
	}{
		{"", []platform.Handle{1, 2, 3, 4}},
		{"note", []platform.Handle{1, 2}},
		{"Note", []platform.Handle{1}},
		{"e", []platform.Handle{1, 2}},
		{"E", []platform.Handle{2}},
		{"c", []platform.Handle{3, 4}},
		{"t pro", nil},
		{"d pro", []platform.Handle{4}},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			list.Filter(tt.pattern)

			var got []platform.Handle
			for _, e := range list.Visible() {
				got = append(got, e.Window)
			}
			if !equalHandles(got, tt.want) {
				t.Errorf("Filter(%q) visible = %v, want %v", tt.pattern, got, tt.want)
			}
			if list.LenShown() != len(tt.want) {
				t.Errorf("LenShown() = %d, want %d", list.LenShown(), len(tt.want))
			}
			if list.Len() != 4 {
				t.Errorf("Len() = %d, want 4", list.Len())
			}
		})
	}
}

func TestList_FilterIsFullRecompute(t *testing.T) {
	list := newList(t, "alpha", "beta")
	defer list.Release()

	list.Filter("alpha")
	list.Filter("beta")

	if list.NthShown(1).Title != "beta" || list.LenShown() != 1 {
		t.Errorf("stale visibility after second filter: %d shown", list.LenShown())
	}
}

func TestList_NthShown(t *testing.T) {
	list := newList(t, "one", "two", "three", "four")
	defer list.Release()
	list.Filter("o")

	tests := []struct {
		n    int
		want string
	}{
		{1, "one"},
		{2, "two"},
		{3, "four"},
	}
	for _, tt := range tests {
		if got := list.NthShown(tt.n); got == nil || got.Title != tt.want {
			t.Errorf("NthShown(%d) = %v, want %q", tt.n, got, tt.want)
		}
	}

	for _, n := range []int{0, -1, 4} {
		if got := list.NthShown(n); got != nil {
			t.Errorf("NthShown(%d) = %q, want nil", n, got.Title)
		}
	}
}

func TestList_EmptyMessage(t *testing.T) {
	empty := NewList(nil)
	if got := empty.EmptyMessage(); got != MessageEmpty {
		t.Errorf("EmptyMessage() of empty list = %q, want %q", got, MessageEmpty)
	}

	list := newList(t, "Notepad")
	defer list.Release()
	if got := list.EmptyMessage(); got != "" {
		t.Errorf("EmptyMessage() = %q, want empty", got)
	}
	list.Filter("xyz")
	if got := list.EmptyMessage(); got != MessageNoMatch {
		t.Errorf("EmptyMessage() = %q, want %q", got, MessageNoMatch)
	}
}

func TestList_Size(t *testing.T) {
	list := newList(t, "Notepad", "A much longer window title for sure")
	defer list.Release()
	m := &fixedMeasurer{}

	if list.NumberWidth() != -1 {
		t.Errorf("NumberWidth() before Size = %d, want -1", list.NumberWidth())
	}

	got := list.Size(m)

	// row: 16 icon + 2 padding + 7*35 title; height max(16, 13) + 4
	rowWidth := 16 + IconPadding + 7*35
	want := image.Pt(rowWidth+7*3, 2*(16+2*IconPadding))
	if got != want {
		t.Errorf("Size() = %v, want %v", got, want)
	}
	if list.NumberWidth() != 21 {
		t.Errorf("NumberWidth() = %d, want 21", list.NumberWidth())
	}

	// Only visible rows count, and the no-match message bounds the width.
	list.Filter("Note")
	got = list.Size(m)
	want = image.Pt(7*len([]rune(MessageNoMatch)), 16+2*IconPadding)
	if got != want {
		t.Errorf("filtered Size() = %v, want %v", got, want)
	}

	list.Filter("zzz")
	got = list.Size(m)
	want = image.Pt(7*len([]rune(MessageNoMatch)), 13)
	if got != want {
		t.Errorf("Size() with no match = %v, want %v", got, want)
	}
}

func TestEntry_SizeIsCached(t *testing.T) {
	list := newList(t, "Notepad")
	defer list.Release()
	m := &fixedMeasurer{}

	e := list.Entries()[0]
	first := e.Size(m)
	calls := m.calls
	if second := e.Size(m); second != first || m.calls != calls {
		t.Errorf("Size() remeasured: %v vs %v, %d calls vs %d", first, second, m.calls, calls)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		row  int
		want string
	}{
		{0, "1. "},
		{8, "9. "},
		{9, "0. "},
		{10, ""},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := Label(tt.row); got != tt.want {
			t.Errorf("Label(%d) = %q, want %q", tt.row, got, tt.want)
		}
	}
}
