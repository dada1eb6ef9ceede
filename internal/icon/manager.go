package icon

import (
	"errors"
	"time"

	"wprefix/internal/bitmap"
	gerrors "wprefix/internal/infrastructure/errors"
	"wprefix/internal/infrastructure/logging"
	"wprefix/internal/platform"
)

// DefaultTimeout bounds the wait for a window to answer an icon request.
const DefaultTimeout = 100 * time.Millisecond

// Options configures a Manager
type Options struct {
	Timeout          time.Duration
	CompactThreshold int
	FallbackSize     int
}

// Manager resolves window icons through the cache, falling back to the
// platform and the extractor on a miss. The default icon is owned by the
// manager alone and is never stored in the cache.
//
// Manager is not safe for concurrent use.
type Manager struct {
	api         platform.WindowAPI
	cache       *Cache
	extractor   *Extractor
	defaultIcon *bitmap.Bitmap
	timeout     time.Duration
	logger      logging.Logger
}

// NewManager loads the default icon and creates an empty cache. The stock
// application icon is used when available, otherwise a transparent icon of
// the small-icon size. An error means not even that could be built.
func NewManager(api platform.WindowAPI, opts Options, logger logging.Logger) (*Manager, error) {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	w, h := api.SmallIconSize()
	m := &Manager{
		api:       api,
		cache:     NewCache(api, opts.CompactThreshold, logger),
		extractor: NewExtractor(w, h, opts.FallbackSize),
		timeout:   opts.Timeout,
		logger:    logger,
	}

	def, err := m.loadDefault()
	if err != nil {
		return nil, err
	}
	m.defaultIcon = def
	return m, nil
}

func (m *Manager) loadDefault() (*bitmap.Bitmap, error) {
	handle, err := m.api.DefaultIcon()
	if err == nil {
		icon, extractErr := m.fromHandle(handle)
		if extractErr == nil {
			return icon, nil
		}
		err = extractErr
	}
	m.logger.Warn("Stock application icon unavailable, using a transparent icon", "error", err.Error())

	w, h := m.extractor.Size()
	icon, err := bitmap.New(w, h, bitmap.Format32bppARGB)
	if err != nil {
		return nil, gerrors.Wrap("icon.default", err, gerrors.StatusOf(err))
	}
	return icon, nil
}

// Default returns the shared default icon. The bitmap is borrowed.
func (m *Manager) Default() *bitmap.Bitmap {
	return m.defaultIcon
}

// Cache exposes the underlying cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Icon returns the icon for window with a reference owned by the caller.
func (m *Manager) Icon(window platform.Handle) *bitmap.Bitmap {
	if icon := m.cache.Get(window); icon != nil {
		return icon.Retain()
	}
	return m.refresh(window)
}

// ForceRefresh recomputes the icon of window and replaces any cached entry.
// When no icon can be fetched the existing entry is left alone.
func (m *Manager) ForceRefresh(window platform.Handle) {
	m.refresh(window).Release()
}

func (m *Manager) refresh(window platform.Handle) *bitmap.Bitmap {
	icon, ok := m.fetch(window)
	if !ok {
		return m.defaultIcon.Retain()
	}
	m.cache.Put(window, icon.Retain())
	return icon
}

// fetch walks the fallback chain: the small icon message, then the small2
// message and the class icon. A window that did not answer the first message
// goes straight to the default icon.
func (m *Manager) fetch(window platform.Handle) (*bitmap.Bitmap, bool) {
	handle, err := m.api.SendGetIcon(window, platform.IconSmall, m.timeout)
	if errors.Is(err, platform.ErrHung) {
		m.logger.Debug("Window did not answer icon request", "window", window.String())
		return nil, false
	}

	if handle == 0 {
		handle, err = m.api.SendGetIcon(window, platform.IconSmall2, m.timeout)
		if err != nil {
			handle = 0
		}
	}
	if handle == 0 {
		handle = m.api.ClassIcon(window)
	}
	if handle == 0 {
		return nil, false
	}

	icon, err := m.fromHandle(handle)
	if err != nil {
		m.logger.Warn("Icon extraction failed",
			"window", window.String(),
			"status", gerrors.StatusOf(err).String(),
			"error", err.Error())
		return nil, false
	}
	return icon, true
}

func (m *Manager) fromHandle(handle platform.Handle) (*bitmap.Bitmap, error) {
	img, err := m.api.IconImage(handle)
	if err != nil {
		return nil, err
	}
	defer img.Release()

	return m.extractor.Extract(img.Color, img.Mask)
}

// Close releases the cache and the default icon.
func (m *Manager) Close() {
	m.cache.Close()
	m.defaultIcon.Release()
	m.defaultIcon = nil
}
