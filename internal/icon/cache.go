package icon

import (
	"wprefix/internal/bitmap"
	"wprefix/internal/infrastructure/logging"
	"wprefix/internal/platform"
)

// DefaultCompactThreshold is the entry count that triggers the first
// compaction, and the floor for every later threshold.
const DefaultCompactThreshold = 20

// Liveness reports whether a window still exists.
type Liveness interface {
	IsWindow(window platform.Handle) bool
}

// Cache maps windows to their extracted icons. It owns one reference to each
// stored bitmap. Entries for destroyed windows linger until the next
// compaction, which only runs once the entry count reaches a threshold that
// doubles with the number of survivors.
//
// Cache is not safe for concurrent use.
type Cache struct {
	live      Liveness
	entries   map[platform.Handle]*bitmap.Bitmap
	threshold int
	floor     int
	logger    logging.Logger
}

// NewCache creates an empty cache. A non-positive threshold selects
// DefaultCompactThreshold.
func NewCache(live Liveness, threshold int, logger logging.Logger) *Cache {
	if threshold <= 0 {
		threshold = DefaultCompactThreshold
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Cache{
		live:      live,
		entries:   make(map[platform.Handle]*bitmap.Bitmap),
		threshold: threshold,
		floor:     threshold,
		logger:    logger,
	}
}

// Get returns the cached icon without checking that window is still alive.
// The bitmap is borrowed; Retain it to keep it past the next Put or Compact.
func (c *Cache) Get(window platform.Handle) *bitmap.Bitmap {
	return c.entries[window]
}

// Put stores icon for window, taking over the caller's reference. An existing
// entry is updated in place and its old icon released.
func (c *Cache) Put(window platform.Handle, icon *bitmap.Bitmap) {
	if old, ok := c.entries[window]; ok && old != icon {
		old.Release()
	}
	c.entries[window] = icon
	c.Compact()
}

// Compact purges entries of dead windows once the entry count reaches the
// threshold.
func (c *Cache) Compact() {
	if len(c.entries) < c.threshold {
		return
	}

	before := len(c.entries)
	for window, icon := range c.entries {
		if !c.live.IsWindow(window) {
			icon.Release()
			delete(c.entries, window)
		}
	}

	c.threshold = max(2*len(c.entries), c.floor)
	c.logger.Debug("Icon cache compacted",
		"before", before,
		"after", len(c.entries),
		"next_threshold", c.threshold)
}

// Len returns the number of cached icons.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Threshold returns the entry count that triggers the next compaction.
func (c *Cache) Threshold() int {
	return c.threshold
}

// Close releases every cached icon.
func (c *Cache) Close() {
	for window, icon := range c.entries {
		icon.Release()
		delete(c.entries, window)
	}
	c.threshold = c.floor
}
