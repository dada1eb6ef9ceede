//go:build windows

package platform

import (
	"context"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"

	gerrors "wprefix/internal/infrastructure/errors"
)

var (
	procRegisterHotKey     = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey   = user32.NewProc("UnregisterHotKey")
	procGetMessageW        = user32.NewProc("GetMessageW")
	procPeekMessageW       = user32.NewProc("PeekMessageW")
	procPostThreadMessageW = user32.NewProc("PostThreadMessageW")
)

const (
	hotkeyID    = 1
	modNoRepeat = 0x4000
	wmQuit      = 0x0012
	wmHotkey    = 0x0312
	wmUser      = 0x0400
	pmNoRemove  = 0x0000
)

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

// ListenHotkey registers hk system-wide and calls fn on every press until ctx
// is done. It returns once registration succeeded or failed; fn runs on a
// dedicated OS thread that owns the registration.
func ListenHotkey(ctx context.Context, hk Hotkey, fn func()) error {
	errc := make(chan error, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		// Hotkey messages are posted to the registering thread's queue, which
		// must exist before anyone posts the quit message.
		var m msg
		procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, wmUser, wmUser, pmNoRemove)

		r, _, err := procRegisterHotKey.Call(0, hotkeyID, uintptr(hk.Modifiers|modNoRepeat), uintptr(hk.Key))
		if r == 0 {
			errc <- gerrors.Wrap("platform.register_hotkey", err, gerrors.Win32Error).WithContext("hotkey", hk.String())
			return
		}
		defer procUnregisterHotKey.Call(0, hotkeyID)

		thread := windows.GetCurrentThreadId()
		stop := context.AfterFunc(ctx, func() {
			procPostThreadMessageW.Call(uintptr(thread), wmQuit, 0, 0)
		})
		defer stop()
		errc <- nil

		for {
			r, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
			if int32(r) <= 0 {
				return
			}
			if m.message == wmHotkey && m.wParam == hotkeyID {
				fn()
			}
		}
	}()

	return <-errc
}
