package platform

import (
	"errors"
	"fmt"
	"time"

	"wprefix/internal/bitmap"
)

// Handle identifies an OS window or icon. Windows may be destroyed at any
// time; liveness must be asked through IsWindow, never remembered.
type Handle uintptr

func (h Handle) String() string {
	return fmt.Sprintf("%#x", uintptr(h))
}

// ExStyle holds the extended window style bits the switcher cares about.
type ExStyle uint32

const (
	ExStyleToolWindow    ExStyle = 0x00000080
	ExStyleControlParent ExStyle = 0x00010000
	ExStyleAppWindow     ExStyle = 0x00040000
)

// Has reports whether every bit of flag is set.
func (s ExStyle) Has(flag ExStyle) bool {
	return s&flag == flag
}

// IconKind selects the icon requested with a get-icon message.
type IconKind int

const (
	IconSmall  IconKind = 0
	IconBig    IconKind = 1
	IconSmall2 IconKind = 2
)

var (
	// ErrHung is returned when a window did not answer a timed message.
	ErrHung = errors.New("window is not responding")
	// ErrUnsupported is returned by every operation on platforms without a
	// window switcher backend.
	ErrUnsupported = errors.New("window switching is not supported on this platform")
)

// IconImage holds the two source bitmaps of a native icon. Mask is nil for
// icons without one.
type IconImage struct {
	Color *bitmap.Bitmap
	Mask  *bitmap.Bitmap
}

// Release drops both bitmaps.
func (i *IconImage) Release() {
	if i == nil {
		return
	}
	i.Color.Release()
	i.Mask.Release()
}

// WindowAPI defines the interface for platform-specific window operations
type WindowAPI interface {
	// EnumWindows calls fn for every top-level window until fn returns false.
	EnumWindows(fn func(window Handle) bool) error
	Owner(window Handle) Handle
	ShellWindow() Handle
	IsVisible(window Handle) bool
	IsWindow(window Handle) bool
	ExStyle(window Handle) ExStyle
	Title(window Handle) (string, error)
	FindWindow(title string) Handle
	ForegroundWindow() Handle

	// SendGetIcon asks the window for its icon, waiting at most timeout.
	// It returns ErrHung when the window did not answer in time and a zero
	// handle when the window has no icon of that kind.
	SendGetIcon(window Handle, kind IconKind, timeout time.Duration) (Handle, error)
	ClassIcon(window Handle) Handle
	DefaultIcon() (Handle, error)
	// IconImage converts an icon handle into its color and mask bitmaps.
	IconImage(icon Handle) (*IconImage, error)
	SmallIconSize() (width, height int)

	// SwitchTo brings window to the foreground, restoring it when minimized.
	SwitchTo(window Handle) error
}
