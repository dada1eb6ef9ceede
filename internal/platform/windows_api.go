//go:build windows

package platform

import (
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"wprefix/internal/bitmap"
	gerrors "wprefix/internal/infrastructure/errors"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	gdi32                        = windows.NewLazySystemDLL("gdi32.dll")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procGetWindow                = user32.NewProc("GetWindow")
	procGetShellWindow           = user32.NewProc("GetShellWindow")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procIsWindow                 = user32.NewProc("IsWindow")
	procIsIconic                 = user32.NewProc("IsIconic")
	procIsHungAppWindow          = user32.NewProc("IsHungAppWindow")
	procGetWindowLongPtrW        = user32.NewProc("GetWindowLongPtrW")
	procGetWindowLongW           = user32.NewProc("GetWindowLongW")
	procGetClassLongPtrW         = user32.NewProc("GetClassLongPtrW")
	procGetClassLongW            = user32.NewProc("GetClassLongW")
	procGetWindowTextLengthW     = user32.NewProc("GetWindowTextLengthW")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procFindWindowW              = user32.NewProc("FindWindowW")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")
	procGetLastActivePopup       = user32.NewProc("GetLastActivePopup")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procAttachThreadInput        = user32.NewProc("AttachThreadInput")
	procKeybdEvent               = user32.NewProc("keybd_event")
	procSendMessageTimeoutW      = user32.NewProc("SendMessageTimeoutW")
	procPostMessageW             = user32.NewProc("PostMessageW")
	procLoadIconW                = user32.NewProc("LoadIconW")
	procGetIconInfo              = user32.NewProc("GetIconInfo")
	procGetSystemMetrics         = user32.NewProc("GetSystemMetrics")
	procGetDIBits                = gdi32.NewProc("GetDIBits")
	procCreateCompatibleDC       = gdi32.NewProc("CreateCompatibleDC")
	procDeleteDC                 = gdi32.NewProc("DeleteDC")
	procDeleteObject             = gdi32.NewProc("DeleteObject")
)

const (
	gwOwner         = 4
	gwlExStyle      = -20
	gclpHIconSm     = -34
	wmNull          = 0x0000
	wmGetIcon       = 0x007F
	wmSysCommand    = 0x0112
	scRestore       = 0xF120
	smtoAbortIfHung = 0x0002
	smCxSmIcon      = 49
	smCySmIcon      = 50
	idiApplication  = 32512
	vkMenu          = 0x12
	keyeventfKeyUp  = 0x0002
	biRGB           = 0
	dibRGBColors    = 0
	hungTimeout     = 100 * time.Millisecond
)

type ICONINFO struct {
	fIcon    uint32
	xHotspot uint32
	yHotspot uint32
	hbmMask  windows.Handle
	hbmColor windows.Handle
}

type BITMAPINFOHEADER struct {
	biSize          uint32
	biWidth         int32
	biHeight        int32
	biPlanes        uint16
	biBitCount      uint16
	biCompression   uint32
	biSizeImage     uint32
	biXPelsPerMeter int32
	biYPelsPerMeter int32
	biClrUsed       uint32
	biClrImportant  uint32
}

// bitmapInfo leaves room for the largest color table GetDIBits may write.
type bitmapInfo struct {
	header BITMAPINFOHEADER
	colors [256]uint32
}

// EnumWindows callbacks are a limited resource, so a single one is created
// and dispatched through enumTarget.
var (
	enumMu       sync.Mutex
	enumTarget   func(Handle) bool
	enumCallback = windows.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		if enumTarget(Handle(hwnd)) {
			return 1
		}
		return 0
	})
)

// WindowsAPI implements WindowAPI for Windows platform
type WindowsAPI struct{}

// NewWindowsAPI creates a new Windows API instance
func NewWindowsAPI() *WindowsAPI {
	return &WindowsAPI{}
}

// NewWindowAPI creates a new WindowAPI instance for Windows
func NewWindowAPI() WindowAPI {
	return NewWindowsAPI()
}

// EnumWindows walks the top-level windows in z-order.
func (w *WindowsAPI) EnumWindows(fn func(window Handle) bool) error {
	enumMu.Lock()
	defer enumMu.Unlock()

	stopped := false
	enumTarget = func(h Handle) bool {
		if fn(h) {
			return true
		}
		stopped = true
		return false
	}
	defer func() { enumTarget = nil }()

	ret, _, err := procEnumWindows.Call(enumCallback, 0)
	if ret == 0 && !stopped {
		return gerrors.Wrap("platform.enum_windows", err, gerrors.Win32Error)
	}
	return nil
}

func (w *WindowsAPI) Owner(window Handle) Handle {
	r, _, _ := procGetWindow.Call(uintptr(window), gwOwner)
	return Handle(r)
}

func (w *WindowsAPI) ShellWindow() Handle {
	r, _, _ := procGetShellWindow.Call()
	return Handle(r)
}

func (w *WindowsAPI) IsVisible(window Handle) bool {
	r, _, _ := procIsWindowVisible.Call(uintptr(window))
	return r != 0
}

func (w *WindowsAPI) IsWindow(window Handle) bool {
	r, _, _ := procIsWindow.Call(uintptr(window))
	return r != 0
}

func (w *WindowsAPI) ExStyle(window Handle) ExStyle {
	proc := procGetWindowLongPtrW
	if proc.Find() != nil {
		// 32-bit user32 only exports the non-Ptr variant
		proc = procGetWindowLongW
	}
	idx := gwlExStyle
	r, _, _ := proc.Call(uintptr(window), uintptr(idx))
	return ExStyle(r)
}

// Title returns the window text. An empty title is reported as an error so
// callers can fall back to another window's title.
func (w *WindowsAPI) Title(window Handle) (string, error) {
	l, _, _ := procGetWindowTextLengthW.Call(uintptr(window))
	length := int(l)
	if length == 0 {
		return "", gerrors.New("platform.title", gerrors.Win32Error).WithContext("window", window.String())
	}

	buf := make([]uint16, length+1)
	n, _, err := procGetWindowTextW.Call(uintptr(window), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return "", gerrors.Wrap("platform.title", err, gerrors.Win32Error).WithContext("window", window.String())
	}
	return windows.UTF16ToString(buf[:n]), nil
}

func (w *WindowsAPI) FindWindow(title string) Handle {
	p, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0
	}
	r, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(p)))
	return Handle(r)
}

func (w *WindowsAPI) ForegroundWindow() Handle {
	r, _, _ := procGetForegroundWindow.Call()
	return Handle(r)
}

// SendGetIcon sends WM_GETICON with SMTO_ABORTIFHUNG. A failed send means the
// window did not answer and is reported as ErrHung.
func (w *WindowsAPI) SendGetIcon(window Handle, kind IconKind, timeout time.Duration) (Handle, error) {
	var result uintptr
	ret, _, _ := procSendMessageTimeoutW.Call(
		uintptr(window),
		wmGetIcon,
		uintptr(kind),
		0,
		smtoAbortIfHung,
		uintptr(timeout.Milliseconds()),
		uintptr(unsafe.Pointer(&result)),
	)
	if ret == 0 {
		return 0, ErrHung
	}
	return Handle(result), nil
}

func (w *WindowsAPI) ClassIcon(window Handle) Handle {
	proc := procGetClassLongPtrW
	if proc.Find() != nil {
		proc = procGetClassLongW
	}
	idx := gclpHIconSm
	r, _, _ := proc.Call(uintptr(window), uintptr(idx))
	return Handle(r)
}

// DefaultIcon returns the shared stock application icon.
func (w *WindowsAPI) DefaultIcon() (Handle, error) {
	r, _, err := procLoadIconW.Call(0, idiApplication)
	if r == 0 {
		return 0, gerrors.Wrap("platform.default_icon", err, gerrors.Win32Error)
	}
	return Handle(r), nil
}

func (w *WindowsAPI) SmallIconSize() (int, int) {
	cx, _, _ := procGetSystemMetrics.Call(smCxSmIcon)
	cy, _, _ := procGetSystemMetrics.Call(smCySmIcon)
	return int(int32(cx)), int(int32(cy))
}

// IconImage reads the color and mask bitmaps of an icon through GetDIBits.
func (w *WindowsAPI) IconImage(icon Handle) (*IconImage, error) {
	var info ICONINFO
	ret, _, err := procGetIconInfo.Call(uintptr(icon), uintptr(unsafe.Pointer(&info)))
	if ret == 0 {
		return nil, gerrors.Wrap("platform.icon_info", err, gerrors.Win32Error).WithContext("icon", icon.String())
	}
	if info.hbmColor != 0 {
		defer procDeleteObject.Call(uintptr(info.hbmColor))
	}
	if info.hbmMask != 0 {
		defer procDeleteObject.Call(uintptr(info.hbmMask))
	}
	if info.hbmColor == 0 {
		return nil, gerrors.Newf("platform.icon_info", gerrors.NotImplemented, "monochrome icon %#x", uintptr(icon))
	}

	hdc, _, _ := procCreateCompatibleDC.Call(0)
	if hdc == 0 {
		return nil, gerrors.New("platform.icon_info", gerrors.Win32Error)
	}
	defer procDeleteDC.Call(hdc)

	color, err := readDIB(hdc, info.hbmColor, false)
	if err != nil {
		return nil, err
	}

	img := &IconImage{Color: color}
	if info.hbmMask != 0 {
		mask, err := readDIB(hdc, info.hbmMask, true)
		if err != nil {
			color.Release()
			return nil, err
		}
		img.Mask = mask
	}
	return img, nil
}

// readDIB copies a device bitmap into a bitmap.Bitmap. The pixels are always
// fetched as 32bpp; the reported format follows the source depth so that
// callers can tell whether the alpha byte means anything.
func readDIB(hdc uintptr, hbm windows.Handle, isMask bool) (*bitmap.Bitmap, error) {
	var bmi bitmapInfo
	bmi.header.biSize = uint32(unsafe.Sizeof(bmi.header))

	ret, _, err := procGetDIBits.Call(hdc, uintptr(hbm), 0, 0, 0, uintptr(unsafe.Pointer(&bmi)), dibRGBColors)
	if ret == 0 {
		return nil, gerrors.Wrap("platform.get_dibits", err, gerrors.Win32Error)
	}

	width := int(bmi.header.biWidth)
	height := int(bmi.header.biHeight)
	if height < 0 {
		height = -height
	}
	if width <= 0 || height <= 0 {
		return nil, gerrors.Newf("platform.get_dibits", gerrors.InvalidParameter, "bitmap %dx%d", width, height)
	}

	format := bitmap.Format32bppARGB
	switch {
	case isMask:
		format = bitmap.Format1bppIndexed
	case bmi.header.biBitCount < 32:
		format = bitmap.Format24bppRGB
	}

	bmi.header.biBitCount = 32
	bmi.header.biCompression = biRGB
	bmi.header.biHeight = int32(height)
	bmi.header.biSizeImage = uint32(width * height * 4)

	buffer := make([]byte, bmi.header.biSizeImage)
	ret, _, err = procGetDIBits.Call(
		hdc,
		uintptr(hbm),
		0,
		uintptr(height),
		uintptr(unsafe.Pointer(&buffer[0])),
		uintptr(unsafe.Pointer(&bmi)),
		dibRGBColors,
	)
	if ret == 0 {
		return nil, gerrors.Wrap("platform.get_dibits", err, gerrors.Win32Error)
	}

	pix := make([]bitmap.ARGB, width*height)
	for y := 0; y < height; y++ {
		// Windows bitmaps are stored bottom-up, so flip Y coordinate
		srcY := height - 1 - y
		for x := 0; x < width; x++ {
			o := (srcY*width + x) * 4
			// BGRA byte order is ARGB in a little-endian word
			pix[y*width+x] = bitmap.ARGB(buffer[o+3])<<24 |
				bitmap.ARGB(buffer[o+2])<<16 |
				bitmap.ARGB(buffer[o+1])<<8 |
				bitmap.ARGB(buffer[o])
		}
	}

	return bitmap.FromPixels(width, height, width, format, pix)
}

// SwitchTo activates the window's last active popup when it is a normal
// window, restoring it if minimized. Hung windows are left alone.
func (w *WindowsAPI) SwitchTo(window Handle) error {
	target := window
	popup, _, _ := procGetLastActivePopup.Call(uintptr(window))
	if popup != 0 && Handle(popup) != window && w.IsVisible(Handle(popup)) && !w.ExStyle(Handle(popup)).Has(ExStyleToolWindow) {
		target = Handle(popup)
	}

	if w.isHung(target) {
		return gerrors.Wrap("platform.switch_to", ErrHung, gerrors.Aborted).WithContext("window", target.String())
	}

	if iconic, _, _ := procIsIconic.Call(uintptr(target)); iconic != 0 {
		procPostMessageW.Call(uintptr(target), wmSysCommand, scRestore, 0)
	}

	if r, _, _ := procSetForegroundWindow.Call(uintptr(target)); r != 0 {
		return nil
	}

	// The foreground lock only lets the input owner change focus; borrow its
	// input state and fake an Alt press, then retry.
	fg := w.ForegroundWindow()
	fgThread, _, _ := procGetWindowThreadProcessId.Call(uintptr(fg), 0)
	self := windows.GetCurrentThreadId()
	if fgThread != 0 && uint32(fgThread) != self {
		procAttachThreadInput.Call(uintptr(self), fgThread, 1)
		defer procAttachThreadInput.Call(uintptr(self), fgThread, 0)
	}
	procKeybdEvent.Call(vkMenu, 0, 0, 0)
	procKeybdEvent.Call(vkMenu, 0, keyeventfKeyUp, 0)

	r, _, err := procSetForegroundWindow.Call(uintptr(target))
	if r == 0 {
		return gerrors.Wrap("platform.switch_to", err, gerrors.Win32Error).WithContext("window", target.String())
	}
	return nil
}

func (w *WindowsAPI) isHung(window Handle) bool {
	if procIsHungAppWindow.Find() == nil {
		r, _, _ := procIsHungAppWindow.Call(uintptr(window))
		return r != 0
	}
	var result uintptr
	r, _, _ := procSendMessageTimeoutW.Call(
		uintptr(window), wmNull, 0, 0, smtoAbortIfHung,
		uintptr(hungTimeout.Milliseconds()), uintptr(unsafe.Pointer(&result)),
	)
	return r == 0
}
