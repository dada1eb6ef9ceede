package platform

import (
	"fmt"
	"sync"
	"time"

	"wprefix/internal/bitmap"
)

// MockWindow describes one window known to MockWindowAPI
type MockWindow struct {
	Handle  Handle
	Owner   Handle
	Style   ExStyle
	Visible bool
	Title   string
	Hung    bool

	// Icons answered by the get-icon message, keyed by kind
	Icons     map[IconKind]Handle
	ClassIcon Handle
}

// MockWindowAPI implements the WindowAPI interface for testing
type MockWindowAPI struct {
	mu          sync.RWMutex
	order       []Handle
	windows     map[Handle]*MockWindow
	dead        map[Handle]bool
	icons       map[Handle]*IconImage
	shell       Handle
	foreground  Handle
	defaultIcon Handle
	smallW      int
	smallH      int

	failDefaultIcon bool
	failSwitch      bool

	getIconCalls   int
	iconImageCalls int
	isWindowCalls  int
	switched       []Handle
}

// NewMockWindowAPI creates a new mock with 16x16 small icons and no windows
func NewMockWindowAPI() *MockWindowAPI {
	return &MockWindowAPI{
		windows: make(map[Handle]*MockWindow),
		dead:    make(map[Handle]bool),
		icons:   make(map[Handle]*IconImage),
		smallW:  16,
		smallH:  16,
	}
}

// AddWindow appends a window to the enumeration order
func (m *MockWindowAPI) AddWindow(w MockWindow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.windows[w.Handle]; !ok {
		m.order = append(m.order, w.Handle)
	}
	m.windows[w.Handle] = &w
}

// Destroy makes a window disappear from enumeration and liveness checks
func (m *MockWindowAPI) Destroy(window Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dead[window] = true
	for i, h := range m.order {
		if h == window {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// SetIcon registers the bitmaps behind an icon handle. The mock keeps one
// reference and hands out a new one on every IconImage call.
func (m *MockWindowAPI) SetIcon(icon Handle, color, mask *bitmap.Bitmap) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.icons[icon] = &IconImage{Color: color, Mask: mask}
}

// SetDefaultIcon sets the stock icon handle; failing makes DefaultIcon error
func (m *MockWindowAPI) SetDefaultIcon(icon Handle, fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultIcon = icon
	m.failDefaultIcon = fail
}

// SetShellWindow sets the desktop shell window
func (m *MockWindowAPI) SetShellWindow(window Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shell = window
}

// SetForeground sets the window reported as foreground
func (m *MockWindowAPI) SetForeground(window Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.foreground = window
}

// SetSmallIconSize sets the reported small-icon metrics
func (m *MockWindowAPI) SetSmallIconSize(w, h int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.smallW, m.smallH = w, h
}

// SetFailSwitch makes SwitchTo fail
func (m *MockWindowAPI) SetFailSwitch(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSwitch = fail
}

// GetCallCounts returns the number of times the icon and liveness queries ran
func (m *MockWindowAPI) GetCallCounts() (getIcon, iconImage, isWindow int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getIconCalls, m.iconImageCalls, m.isWindowCalls
}

// Switched returns every window passed to SwitchTo, in order
func (m *MockWindowAPI) Switched() []Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Handle(nil), m.switched...)
}

func (m *MockWindowAPI) lookup(window Handle) *MockWindow {
	if m.dead[window] {
		return nil
	}
	return m.windows[window]
}

// EnumWindows implements WindowAPI interface
func (m *MockWindowAPI) EnumWindows(fn func(window Handle) bool) error {
	m.mu.RLock()
	order := append([]Handle(nil), m.order...)
	m.mu.RUnlock()

	for _, h := range order {
		if !fn(h) {
			break
		}
	}
	return nil
}

// Owner implements WindowAPI interface
func (m *MockWindowAPI) Owner(window Handle) Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w := m.lookup(window); w != nil {
		return w.Owner
	}
	return 0
}

// ShellWindow implements WindowAPI interface
func (m *MockWindowAPI) ShellWindow() Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.shell
}

// IsVisible implements WindowAPI interface
func (m *MockWindowAPI) IsVisible(window Handle) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w := m.lookup(window)
	return w != nil && w.Visible
}

// IsWindow implements WindowAPI interface
func (m *MockWindowAPI) IsWindow(window Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isWindowCalls++
	return m.lookup(window) != nil
}

// ExStyle implements WindowAPI interface
func (m *MockWindowAPI) ExStyle(window Handle) ExStyle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w := m.lookup(window); w != nil {
		return w.Style
	}
	return 0
}

// Title implements WindowAPI interface
func (m *MockWindowAPI) Title(window Handle) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w := m.lookup(window)
	if w == nil || w.Title == "" {
		return "", fmt.Errorf("mock: no title for window %s", window)
	}
	return w.Title, nil
}

// FindWindow implements WindowAPI interface
func (m *MockWindowAPI) FindWindow(title string) Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, h := range m.order {
		if m.windows[h].Title == title {
			return h
		}
	}
	return 0
}

// ForegroundWindow implements WindowAPI interface
func (m *MockWindowAPI) ForegroundWindow() Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.foreground
}

// SendGetIcon implements WindowAPI interface
func (m *MockWindowAPI) SendGetIcon(window Handle, kind IconKind, _ time.Duration) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getIconCalls++
	w := m.lookup(window)
	if w == nil || w.Hung {
		return 0, ErrHung
	}
	return w.Icons[kind], nil
}

// ClassIcon implements WindowAPI interface
func (m *MockWindowAPI) ClassIcon(window Handle) Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w := m.lookup(window); w != nil {
		return w.ClassIcon
	}
	return 0
}

// DefaultIcon implements WindowAPI interface
func (m *MockWindowAPI) DefaultIcon() (Handle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failDefaultIcon {
		return 0, fmt.Errorf("mock: default icon unavailable")
	}
	return m.defaultIcon, nil
}

// IconImage implements WindowAPI interface
func (m *MockWindowAPI) IconImage(icon Handle) (*IconImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.iconImageCalls++
	img, ok := m.icons[icon]
	if !ok {
		return nil, fmt.Errorf("mock: unknown icon %s", icon)
	}
	out := &IconImage{Color: img.Color.Retain()}
	if img.Mask != nil {
		out.Mask = img.Mask.Retain()
	}
	return out, nil
}

// SmallIconSize implements WindowAPI interface
func (m *MockWindowAPI) SmallIconSize() (int, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.smallW, m.smallH
}

// SwitchTo implements WindowAPI interface
func (m *MockWindowAPI) SwitchTo(window Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSwitch {
		return fmt.Errorf("mock: switch to %s failed", window)
	}
	if w := m.lookup(window); w != nil && w.Hung {
		return ErrHung
	}
	m.switched = append(m.switched, window)
	m.foreground = window
	return nil
}

var _ WindowAPI = (*MockWindowAPI)(nil)
