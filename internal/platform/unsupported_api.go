//go:build !windows

package platform

import (
	"context"
	"time"
)

// UnsupportedAPI implements WindowAPI for platforms without a Win32 window
// manager. Queries report empty results and actions fail with ErrUnsupported.
type UnsupportedAPI struct{}

// NewWindowAPI creates a new WindowAPI instance for this platform
func NewWindowAPI() WindowAPI {
	return &UnsupportedAPI{}
}

func (u *UnsupportedAPI) EnumWindows(func(Handle) bool) error { return ErrUnsupported }
func (u *UnsupportedAPI) Owner(Handle) Handle                 { return 0 }
func (u *UnsupportedAPI) ShellWindow() Handle                 { return 0 }
func (u *UnsupportedAPI) IsVisible(Handle) bool               { return false }
func (u *UnsupportedAPI) IsWindow(Handle) bool                { return false }
func (u *UnsupportedAPI) ExStyle(Handle) ExStyle              { return 0 }
func (u *UnsupportedAPI) Title(Handle) (string, error)        { return "", ErrUnsupported }
func (u *UnsupportedAPI) FindWindow(string) Handle            { return 0 }
func (u *UnsupportedAPI) ForegroundWindow() Handle            { return 0 }
func (u *UnsupportedAPI) ClassIcon(Handle) Handle             { return 0 }
func (u *UnsupportedAPI) DefaultIcon() (Handle, error)        { return 0, ErrUnsupported }
func (u *UnsupportedAPI) IconImage(Handle) (*IconImage, error) { return nil, ErrUnsupported }
func (u *UnsupportedAPI) SmallIconSize() (int, int)           { return 0, 0 }
func (u *UnsupportedAPI) SwitchTo(Handle) error               { return ErrUnsupported }

func (u *UnsupportedAPI) SendGetIcon(Handle, IconKind, time.Duration) (Handle, error) {
	return 0, ErrUnsupported
}

// ListenHotkey is not available on this platform.
func ListenHotkey(context.Context, Hotkey, func()) error {
	return ErrUnsupported
}
