package app

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"wprefix/internal/config"
	"wprefix/internal/icon"
	gerrors "wprefix/internal/infrastructure/errors"
	"wprefix/internal/infrastructure/logging"
	"wprefix/internal/layout"
	"wprefix/internal/platform"
	"wprefix/internal/switcher"
	"wprefix/internal/windowlist"
)

const (
	// EventShow is emitted with a ListView each time the switcher opens
	EventShow = "switcher:show"

	// Room around the list for the filter field and the window border
	windowPadding = 12
	filterHeight  = 28
)

// App struct represents the main application
type App struct {
	ctx        context.Context
	config     *config.Config
	api        platform.WindowAPI
	service    *switcher.Service
	logger     logging.Logger
	stopHotkey context.CancelFunc
}

// NewApp creates the application for cfg. Platform resources are acquired in
// Startup, once the host window exists.
func NewApp(cfg *config.Config, logger logging.Logger) *App {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &App{
		config: cfg,
		api:    platform.NewWindowAPI(),
		logger: logger,
	}
}

// Startup is called at application startup
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	icons, err := icon.NewManager(a.api, icon.Options{
		Timeout:          a.config.IconTimeout,
		CompactThreshold: a.config.CompactThreshold,
		FallbackSize:     a.config.FallbackIconSize,
	}, a.logger)
	if err != nil {
		a.fatal("Failed to load the default window icon", err)
		return
	}
	a.service = switcher.NewService(a.api, icons, layout.NewFaceMeasurer(nil), a.logger)

	hotkey, err := a.config.HotkeyBinding()
	if err != nil {
		a.fatal("Invalid hotkey", err)
		return
	}

	hotkeyCtx, cancel := context.WithCancel(ctx)
	a.stopHotkey = cancel

	// Another instance may still hold the hotkey while it shuts down.
	err = gerrors.WithRetry(ctx, nil, func() error {
		return platform.ListenHotkey(hotkeyCtx, hotkey, a.ShowSwitcher)
	}, "register_hotkey")
	if err != nil {
		logging.LogError(a.logger, err, "app.startup", map[string]interface{}{"hotkey": hotkey.String()})
		runtime.MessageDialog(ctx, runtime.MessageDialogOptions{
			Type:    runtime.WarningDialog,
			Title:   switcher.Title,
			Message: "Could not register the hotkey " + hotkey.String() + ": " + err.Error(),
		})
		return
	}

	a.logger.Info("Application started", "environment", a.config.Environment, "hotkey", hotkey.String())
}

func (a *App) fatal(msg string, err error) {
	logging.LogError(a.logger, err, "app.startup", nil)
	runtime.MessageDialog(a.ctx, runtime.MessageDialogOptions{
		Type:    runtime.ErrorDialog,
		Title:   switcher.Title,
		Message: msg + ": " + err.Error(),
	})
	runtime.Quit(a.ctx)
}

// DomReady is called after front-end resources have been loaded
func (a *App) DomReady(ctx context.Context) {
	a.logger.Debug("Frontend ready")
}

// BeforeClose is called when the application is about to quit
func (a *App) BeforeClose(ctx context.Context) (prevent bool) {
	return false
}

// Shutdown is called at application termination
func (a *App) Shutdown(ctx context.Context) {
	if a.stopHotkey != nil {
		a.stopHotkey()
	}
	if a.service != nil {
		a.service.Close()
	}
	a.logger.Info("Application shutdown completed")
}

// ShowSwitcher rebuilds the list and brings the switcher up, or flips
// straight to the previous window when the switcher is already in front.
func (a *App) ShowSwitcher() {
	if a.service == nil {
		return
	}

	done, err := a.service.Show()
	if err != nil {
		return
	}
	if done {
		a.hide()
		return
	}

	view := newListView(a.service.View())
	runtime.WindowSetSize(a.ctx, view.Width+2*windowPadding, view.Height+filterHeight+2*windowPadding)
	runtime.WindowCenter(a.ctx)
	runtime.WindowShow(a.ctx)
	runtime.EventsEmit(a.ctx, EventShow, view)
}

// View returns the current list for the frontend
func (a *App) View() ListView {
	if a.service == nil {
		return ListView{Message: windowlist.MessageEmpty, Entries: []EntryView{}}
	}
	return newListView(a.service.View())
}

// SetFilter applies the typed text and returns the narrowed list
func (a *App) SetFilter(text string) ListView {
	if a.service != nil {
		a.finish(a.service.SetFilter(text))
	}
	return a.View()
}

// SwitchToNth activates the window labelled with digit n
func (a *App) SwitchToNth(n int) {
	if a.service != nil {
		a.finish(a.service.SwitchToNth(n))
	}
}

// Accept activates the first shown window
func (a *App) Accept() {
	if a.service != nil {
		a.finish(a.service.Accept())
	}
}

// Hide closes the switcher without switching
func (a *App) Hide() {
	a.hide()
}

// RefreshIcon reloads the icon of the window with the given handle
func (a *App) RefreshIcon(window uint64) {
	if a.service != nil {
		a.service.IconChanged(platform.Handle(window))
	}
}

// finish hides the switcher once an action ended the session. Activation
// failures were already logged by the service.
func (a *App) finish(done bool, _ error) {
	if done {
		a.hide()
	}
}

func (a *App) hide() {
	if a.service != nil {
		a.service.Hide()
	}
	if a.ctx != nil {
		runtime.WindowHide(a.ctx)
	}
}

// GetLogger returns the application's structured logger
func (a *App) GetLogger() logging.Logger {
	return a.logger
}
