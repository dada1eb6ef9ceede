package icon

import (
	"testing"

	"wprefix/internal/bitmap"
	"wprefix/internal/platform"
	"wprefix/internal/testutils"
)

const (
	stockIcon  platform.Handle = 0x900
	smallIcon  platform.Handle = 0x901
	small2Icon platform.Handle = 0x902
	classIcon  platform.Handle = 0x903
)

func newManagerAPI(t *testing.T) *platform.MockWindowAPI {
	t.Helper()
	api := platform.NewMockWindowAPI()
	api.SetDefaultIcon(stockIcon, false)
	api.SetIcon(stockIcon, newBitmap(t, 16, 16, bitmap.Format24bppRGB, uniform(0x00010101)), nil)
	api.SetIcon(smallIcon, newBitmap(t, 16, 16, bitmap.Format24bppRGB, uniform(0x00aa0000)), nil)
	api.SetIcon(small2Icon, newBitmap(t, 16, 16, bitmap.Format24bppRGB, uniform(0x0000aa00)), nil)
	api.SetIcon(classIcon, newBitmap(t, 32, 32, bitmap.Format24bppRGB, uniform(0x000000aa)), nil)
	return api
}

func newTestManager(t *testing.T, api platform.WindowAPI) *Manager {
	t.Helper()
	m, err := NewManager(api, Options{}, &testutils.RecordingLogger{})
	if err != nil {
		t.Fatalf("NewManager() unexpected error = %v", err)
	}
	return m
}

func topLeft(t *testing.T, b *bitmap.Bitmap) bitmap.ARGB {
	t.Helper()
	p, err := b.PixelAt(0, 0)
	if err != nil {
		t.Fatalf("PixelAt() unexpected error = %v", err)
	}
	return p
}

func TestManager_FallbackChain(t *testing.T) {
	tests := []struct {
		name   string
		window platform.MockWindow
		want   bitmap.ARGB
		cached bool
	}{
		{
			name:   "small icon message",
			window: platform.MockWindow{Handle: 1, Visible: true, Icons: map[platform.IconKind]platform.Handle{platform.IconSmall: smallIcon}, ClassIcon: classIcon},
			want:   0xffaa0000,
			cached: true,
		},
		{
			name:   "small2 icon message",
			window: platform.MockWindow{Handle: 1, Visible: true, Icons: map[platform.IconKind]platform.Handle{platform.IconSmall2: small2Icon}, ClassIcon: classIcon},
			want:   0xff00aa00,
			cached: true,
		},
		{
			name:   "class icon, scaled",
			window: platform.MockWindow{Handle: 1, Visible: true, ClassIcon: classIcon},
			want:   0xff0000aa,
			cached: true,
		},
		{
			name:   "no icon at all",
			window: platform.MockWindow{Handle: 1, Visible: true},
			want:   0xff010101,
			cached: false,
		},
		{
			name:   "hung window skips every fallback",
			window: platform.MockWindow{Handle: 1, Visible: true, Hung: true, ClassIcon: classIcon},
			want:   0xff010101,
			cached: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newManagerAPI(t)
			api.AddWindow(tt.window)
			m := newTestManager(t, api)
			defer m.Close()

			icon := m.Icon(1)
			defer icon.Release()

			if icon.Width() != 16 || icon.Height() != 16 {
				t.Errorf("icon size = %dx%d, want 16x16", icon.Width(), icon.Height())
			}
			if got := topLeft(t, icon); got != tt.want {
				t.Errorf("icon pixel = %#x, want %#x", uint32(got), uint32(tt.want))
			}
			if got := m.Cache().Get(1) != nil; got != tt.cached {
				t.Errorf("cached = %v, want %v", got, tt.cached)
			}
			if m.Cache().Get(1) == m.Default() && m.Default() != nil {
				t.Error("default icon stored in the cache")
			}
		})
	}
}

func TestManager_HungWindowSendsOneMessage(t *testing.T) {
	api := newManagerAPI(t)
	api.AddWindow(platform.MockWindow{Handle: 1, Visible: true, Hung: true})
	m := newTestManager(t, api)
	defer m.Close()

	m.Icon(1).Release()

	if getIcon, _, _ := api.GetCallCounts(); getIcon != 1 {
		t.Errorf("SendGetIcon called %d times, want 1", getIcon)
	}
}

func TestManager_CacheHit(t *testing.T) {
	api := newManagerAPI(t)
	api.AddWindow(platform.MockWindow{Handle: 1, Visible: true, Icons: map[platform.IconKind]platform.Handle{platform.IconSmall: smallIcon}})
	m := newTestManager(t, api)
	defer m.Close()

	first := m.Icon(1)
	_, before, _ := api.GetCallCounts()
	second := m.Icon(1)
	_, after, _ := api.GetCallCounts()

	if first != second {
		t.Error("second lookup did not return the cached bitmap")
	}
	if after != before {
		t.Errorf("IconImage called %d more times on a cache hit", after-before)
	}
	if first.Refs() != 3 {
		t.Errorf("Refs() = %d, want 3 (cache + two callers)", first.Refs())
	}
	first.Release()
	second.Release()
}

func TestManager_ForceRefreshKeepsHeldIconValid(t *testing.T) {
	api := newManagerAPI(t)
	api.AddWindow(platform.MockWindow{Handle: 1, Visible: true, Icons: map[platform.IconKind]platform.Handle{platform.IconSmall: smallIcon}})
	m := newTestManager(t, api)
	defer m.Close()

	held := m.Icon(1)
	api.AddWindow(platform.MockWindow{Handle: 1, Visible: true, Icons: map[platform.IconKind]platform.Handle{platform.IconSmall: small2Icon}})

	m.ForceRefresh(1)

	if held.Released() {
		t.Fatal("ForceRefresh released an icon still held by a caller")
	}
	if got := topLeft(t, held); got != 0xffaa0000 {
		t.Errorf("held icon pixel = %#x, want 0xffaa0000", uint32(got))
	}

	fresh := m.Icon(1)
	defer fresh.Release()
	if got := topLeft(t, fresh); got != 0xff00aa00 {
		t.Errorf("refreshed icon pixel = %#x, want 0xff00aa00", uint32(got))
	}

	held.Release()
	if !held.Released() {
		t.Error("old icon leaked after the last holder released it")
	}
}

func TestManager_DefaultIconFallsBackToTransparent(t *testing.T) {
	api := platform.NewMockWindowAPI()
	api.SetDefaultIcon(0, true)
	api.SetSmallIconSize(0, 0)
	rec := &testutils.RecordingLogger{}

	m, err := NewManager(api, Options{FallbackSize: 16}, rec)
	if err != nil {
		t.Fatalf("NewManager() unexpected error = %v", err)
	}

	def := m.Default()
	if def.Width() != 16 || def.Height() != 16 {
		t.Errorf("default size = %dx%d, want 16x16", def.Width(), def.Height())
	}
	if got := topLeft(t, def); got.Alpha() != bitmap.AlphaTransparent {
		t.Errorf("default pixel alpha = %d, want transparent", got.Alpha())
	}
	if len(rec.CallsAt("warn")) != 1 {
		t.Errorf("expected one warning, got %d", len(rec.CallsAt("warn")))
	}

	m.Close()
	if !def.Released() {
		t.Error("Close() did not release the default icon")
	}
}
