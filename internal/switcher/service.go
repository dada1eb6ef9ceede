// Package switcher holds one switching session: the current window list, the
// typed filter and the actions that activate a window.
package switcher

import (
	"image"
	"sync"

	"wprefix/internal/icon"
	"wprefix/internal/infrastructure/logging"
	"wprefix/internal/platform"
	"wprefix/internal/windowlist"
)

// Title is the switcher window's own title, used to find it among the
// top-level windows.
const Title = "Switch to…"

// Row is one shown entry as the host renders it.
type Row struct {
	Label    string
	Window   platform.Handle
	Title    string
	HasTitle bool
	Icon     *image.NRGBA
}

// View is a snapshot of the session for rendering.
type View struct {
	Filter  string
	Message string
	Rows    []Row
	Size    image.Point
}

// Service drives the switcher. The GUI host calls it from several goroutines.
type Service struct {
	mu         sync.Mutex
	api        platform.WindowAPI
	icons      *icon.Manager
	enumerator *windowlist.Enumerator
	measurer   windowlist.Measurer
	logger     logging.Logger

	title  string
	self   platform.Handle
	list   *windowlist.List
	filter string
}

// NewService creates a session over api. The service takes ownership of
// icons. measurer may be nil when the host does its own layout.
func NewService(api platform.WindowAPI, icons *icon.Manager, measurer windowlist.Measurer, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Service{
		api:        api,
		icons:      icons,
		enumerator: windowlist.NewEnumerator(api, icons, logger),
		measurer:   measurer,
		logger:     logger,
		title:      Title,
		list:       windowlist.NewList(nil),
	}
}

// Show rebuilds the window list. When the switcher is already in front and
// more than one window exists, the second window is activated right away, so
// pressing the hotkey twice flips between the two most recent windows. done
// reports that case.
func (s *Service) Show() (done bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.enumerator.Build()
	if err != nil {
		logging.LogError(s.logger, err, "switcher.show", nil)
		return false, err
	}
	s.list.Release()
	s.list = list

	self := s.selfWindow()
	if self != 0 && s.api.ForegroundWindow() == self && list.Len() > 1 {
		return s.switchTo(list.NthShown(2))
	}

	s.filter = ""
	list.Filter(s.filter)
	return false, nil
}

// SetFilter narrows the list to the titles matching text. A filter that
// leaves a single window activates it.
func (s *Service) SetFilter(text string) (done bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = text
	s.list.Filter(text)
	if s.list.LenShown() == 1 {
		return s.switchTo(s.list.NthShown(1))
	}
	return false, nil
}

// SwitchToNth activates the n-th shown window for digit n; 0 selects the
// tenth.
func (s *Service) SwitchToNth(n int) (done bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n == 0 {
		n = 10
	}
	return s.switchTo(s.list.NthShown(n))
}

// Accept activates the first shown window.
func (s *Service) Accept() (done bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.switchTo(s.list.NthShown(1))
}

// Hide ends the session and clears the filter.
func (s *Service) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = ""
}

// IconChanged reloads the cached icon of window.
func (s *Service) IconChanged(window platform.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.icons.ForceRefresh(window)
}

// View returns the rows currently shown, numbered for the digit shortcuts.
func (s *Service) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{Filter: s.filter, Message: s.list.EmptyMessage()}
	if s.measurer != nil {
		v.Size = s.list.Size(s.measurer)
	}
	for i, e := range s.list.Visible() {
		row := Row{
			Label:    windowlist.Label(i),
			Window:   e.Window,
			Title:    e.Title,
			HasTitle: e.HasTitle(),
		}
		if e.Icon != nil {
			if img, err := e.Icon.ToNRGBA(); err == nil {
				row.Icon = img
			} else {
				s.logger.Debug("Icon not renderable", "window", e.Window.String(), "error", err.Error())
			}
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

// List returns the current list. It stays valid until the next Show or Close.
func (s *Service) List() *windowlist.List {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.list
}

// Close releases the list and the icon manager.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.list.Release()
	s.icons.Close()
}

// selfWindow finds the switcher window, which may be created after the
// service.
func (s *Service) selfWindow() platform.Handle {
	if s.self == 0 || !s.api.IsWindow(s.self) {
		s.self = s.api.FindWindow(s.title)
	}
	return s.self
}

// switchTo activates e. The session is over even when activation fails; the
// failure is logged and returned.
func (s *Service) switchTo(e *windowlist.Entry) (bool, error) {
	if e == nil {
		return false, nil
	}
	s.filter = ""
	if err := s.api.SwitchTo(e.Window); err != nil {
		logging.LogError(s.logger, err, "switcher.switch_to", map[string]interface{}{
			"window": e.Window.String(),
			"title":  e.Title,
		})
		return true, err
	}
	s.logger.Info("Switched window", "window", e.Window.String(), "title", e.Title)
	return true, nil
}
