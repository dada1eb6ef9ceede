package icon

import (
	"testing"

	"wprefix/internal/bitmap"
	"wprefix/internal/platform"
	"wprefix/internal/testutils"
)

func liveWindows(handles ...platform.Handle) *platform.MockWindowAPI {
	api := platform.NewMockWindowAPI()
	for _, h := range handles {
		api.AddWindow(platform.MockWindow{Handle: h, Visible: true})
	}
	return api
}

func newIcon(t *testing.T) *bitmap.Bitmap {
	t.Helper()
	return newBitmap(t, 1, 1, bitmap.Format32bppARGB, uniform(bitmap.White))
}

func TestCache_PutReplacesAndReleases(t *testing.T) {
	cache := NewCache(liveWindows(1), 0, &testutils.RecordingLogger{})

	i1 := newIcon(t)
	i2 := newIcon(t)
	cache.Put(1, i1)
	cache.Put(1, i2)

	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
	if !i1.Released() {
		t.Error("old icon was not released on update")
	}
	if got := cache.Get(1); got != i2 {
		t.Errorf("Get() = %p, want %p", got, i2)
	}

	// Storing the same bitmap again must not drop the cache's reference.
	cache.Put(1, i2)
	if i2.Released() {
		t.Error("re-putting the same icon released it")
	}
}

func TestCache_GetSkipsLivenessCheck(t *testing.T) {
	api := liveWindows()
	cache := NewCache(api, 0, &testutils.RecordingLogger{})

	icon := newIcon(t)
	cache.Put(7, icon)

	if got := cache.Get(7); got != icon {
		t.Error("Get() did not return the stale entry of a dead window")
	}
	if _, _, isWindow := api.GetCallCounts(); isWindow != 0 {
		t.Errorf("IsWindow called %d times below the threshold, want 0", isWindow)
	}
	if cache.Get(8) != nil {
		t.Error("Get() of unknown window should be nil")
	}
}

func TestCache_Compact(t *testing.T) {
	tests := []struct {
		name          string
		live          int
		dead          int
		wantLen       int
		wantThreshold int
	}{
		{"few survivors keep the floor", 5, 15, 5, 20},
		{"many survivors double", 15, 5, 15, 30},
		{"no survivors", 0, 20, 0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var handles []platform.Handle
			for i := 0; i < tt.live; i++ {
				handles = append(handles, platform.Handle(100+i))
			}
			cache := NewCache(liveWindows(handles...), DefaultCompactThreshold, &testutils.RecordingLogger{})

			var deadIcons []*bitmap.Bitmap
			for i := 0; i < tt.dead; i++ {
				icon := newIcon(t)
				deadIcons = append(deadIcons, icon)
				cache.Put(platform.Handle(500+i), icon)
			}
			for _, h := range handles {
				cache.Put(h, newIcon(t))
			}

			if cache.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", cache.Len(), tt.wantLen)
			}
			if cache.Threshold() != tt.wantThreshold {
				t.Errorf("Threshold() = %d, want %d", cache.Threshold(), tt.wantThreshold)
			}
			for i, icon := range deadIcons {
				if !icon.Released() {
					t.Errorf("icon of dead window %d not released", i)
				}
			}
			for _, h := range handles {
				if cache.Get(h) == nil {
					t.Errorf("live window %s evicted", h)
				}
			}
		})
	}
}

func TestCache_CompactBelowThresholdIsNoop(t *testing.T) {
	api := liveWindows()
	cache := NewCache(api, DefaultCompactThreshold, &testutils.RecordingLogger{})

	for i := 0; i < DefaultCompactThreshold-1; i++ {
		cache.Put(platform.Handle(i+1), newIcon(t))
	}
	if cache.Len() != DefaultCompactThreshold-1 {
		t.Errorf("Len() = %d, want %d", cache.Len(), DefaultCompactThreshold-1)
	}
	if _, _, isWindow := api.GetCallCounts(); isWindow != 0 {
		t.Errorf("IsWindow called %d times, want 0", isWindow)
	}
}

func TestCache_Close(t *testing.T) {
	cache := NewCache(liveWindows(1, 2), 0, &testutils.RecordingLogger{})
	a, b := newIcon(t), newIcon(t)
	cache.Put(1, a)
	cache.Put(2, b)

	cache.Close()

	if cache.Len() != 0 {
		t.Errorf("Len() after Close = %d, want 0", cache.Len())
	}
	if !a.Released() || !b.Released() {
		t.Error("Close() did not release every icon")
	}
}
