// Package bitmap implements a 2D ARGB surface with per-pixel and locked raw
// buffer access, raster-order iteration with early stop, and copy-via-iterate.
package bitmap

import (
	"fmt"
	"image"
	"image/color"
	"sync/atomic"

	gerrors "wprefix/internal/infrastructure/errors"
)

// ARGB is a 32-bit non-premultiplied pixel, alpha in the high byte.
type ARGB uint32

const (
	AlphaShift            = 24
	AlphaMask        ARGB = 0xff000000
	AlphaTransparent      = 0x00
	AlphaOpaque           = 0xff

	Black ARGB = 0xff000000
	White ARGB = 0xffffffff
)

// maxPixels bounds a single allocation.
const maxPixels = 1 << 26

// Alpha returns the alpha byte.
func (p ARGB) Alpha() uint8 {
	return uint8(p >> AlphaShift)
}

// RGB returns the pixel with the alpha channel cleared.
func (p ARGB) RGB() ARGB {
	return p &^ AlphaMask
}

// WithAlpha returns the pixel with its alpha channel replaced.
func (p ARGB) WithAlpha(alpha uint8) ARGB {
	return p.RGB() | ARGB(alpha)<<AlphaShift
}

// FromColor converts any color to an ARGB pixel.
func FromColor(c color.Color) ARGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return ARGB(n.A)<<24 | ARGB(n.R)<<16 | ARGB(n.G)<<8 | ARGB(n.B)
}

// NRGBA converts the pixel to a color.NRGBA.
func (p ARGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p), A: p.Alpha()}
}

// Format is the pixel format of a bitmap.
type Format int

const (
	Format1bppIndexed Format = iota + 1
	Format24bppRGB
	Format32bppARGB
)

// BitsPerPixel returns the pixel depth of the format.
func (f Format) BitsPerPixel() int {
	switch f {
	case Format1bppIndexed:
		return 1
	case Format24bppRGB:
		return 24
	case Format32bppARGB:
		return 32
	default:
		return 0
	}
}

func (f Format) String() string {
	switch f {
	case Format1bppIndexed:
		return "1bpp"
	case Format24bppRGB:
		return "24bpp"
	case Format32bppARGB:
		return "32bpp"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Bitmap is a width×height pixel surface. Pixels are addressed as
// pix[y*stride+x]; stride is counted in pixels.
//
// A Bitmap is reference counted. It starts with one reference owned by its
// creator; the pixel storage is dropped when the last reference is released.
type Bitmap struct {
	width  int
	height int
	stride int
	format Format
	pix    []ARGB
	locked bool
	refs   atomic.Int32
}

// New allocates a zeroed (fully transparent) bitmap.
func New(width, height int, format Format) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, gerrors.Newf("bitmap.new", gerrors.InvalidParameter, "invalid dimensions %dx%d", width, height)
	}
	if format.BitsPerPixel() == 0 {
		return nil, gerrors.Newf("bitmap.new", gerrors.InvalidParameter, "unknown pixel format %d", int(format))
	}
	if width > maxPixels/height {
		return nil, gerrors.Newf("bitmap.new", gerrors.OutOfMemory, "bitmap %dx%d too large", width, height)
	}
	return FromPixels(width, height, width, format, make([]ARGB, width*height))
}

// FromPixels wraps an existing pixel buffer. The buffer must hold at least
// (height-1)*stride+width pixels.
func FromPixels(width, height, stride int, format Format, pix []ARGB) (*Bitmap, error) {
	if width <= 0 || height <= 0 || stride < width {
		return nil, gerrors.Newf("bitmap.wrap", gerrors.InvalidParameter, "invalid geometry %dx%d stride %d", width, height, stride)
	}
	if len(pix) < (height-1)*stride+width {
		return nil, gerrors.Newf("bitmap.wrap", gerrors.InsufficientBuffer, "buffer holds %d pixels", len(pix))
	}
	b := &Bitmap{width: width, height: height, stride: stride, format: format, pix: pix}
	b.refs.Store(1)
	return b, nil
}

// FromNRGBA copies an image into a new 32bpp bitmap.
func FromNRGBA(img *image.NRGBA) (*Bitmap, error) {
	r := img.Bounds()
	b, err := New(r.Dx(), r.Dy(), Format32bppARGB)
	if err != nil {
		return nil, err
	}
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			b.pix[y*b.stride+x] = FromColor(img.NRGBAAt(r.Min.X+x, r.Min.Y+y))
		}
	}
	return b, nil
}

// Width returns the bitmap width, or 0 once released.
func (b *Bitmap) Width() int {
	if b.Released() {
		return 0
	}
	return b.width
}

// Height returns the bitmap height, or 0 once released.
func (b *Bitmap) Height() int {
	if b.Released() {
		return 0
	}
	return b.height
}

// Format returns the pixel format.
func (b *Bitmap) Format() Format {
	return b.format
}

// Dimensions returns width and height, failing on a released bitmap.
func (b *Bitmap) Dimensions() (int, int, error) {
	if b == nil || b.Released() {
		return 0, 0, gerrors.New("bitmap.dimensions", gerrors.WrongState)
	}
	return b.width, b.height, nil
}

// Retain adds a reference and returns b.
func (b *Bitmap) Retain() *Bitmap {
	b.refs.Add(1)
	return b
}

// Release drops a reference. The pixel storage is freed when the count
// reaches zero; releasing an already freed bitmap does nothing.
func (b *Bitmap) Release() {
	if b == nil {
		return
	}
	for {
		n := b.refs.Load()
		if n <= 0 {
			return
		}
		if b.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				b.pix = nil
			}
			return
		}
	}
}

// Released reports whether the pixel storage has been freed.
func (b *Bitmap) Released() bool {
	return b.refs.Load() <= 0
}

// Refs returns the current reference count.
func (b *Bitmap) Refs() int {
	return int(b.refs.Load())
}

// PixelAt is the per-pixel accessor. Pixels of formats without an alpha
// channel are reported fully opaque.
func (b *Bitmap) PixelAt(x, y int) (ARGB, error) {
	if b.Released() {
		return 0, gerrors.New("bitmap.pixel", gerrors.WrongState)
	}
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0, gerrors.Newf("bitmap.pixel", gerrors.InvalidParameter, "pixel (%d,%d) outside %dx%d", x, y, b.width, b.height)
	}
	p := b.pix[y*b.stride+x]
	if b.format != Format32bppARGB {
		p = p.WithAlpha(AlphaOpaque)
	}
	return p, nil
}

// SetPixel writes one pixel.
func (b *Bitmap) SetPixel(x, y int, p ARGB) error {
	if b.Released() {
		return gerrors.New("bitmap.set_pixel", gerrors.WrongState)
	}
	if b.locked {
		return gerrors.New("bitmap.set_pixel", gerrors.ObjectBusy)
	}
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return gerrors.Newf("bitmap.set_pixel", gerrors.InvalidParameter, "pixel (%d,%d) outside %dx%d", x, y, b.width, b.height)
	}
	b.pix[y*b.stride+x] = p
	return nil
}

// Data is a locked view of a 32bpp bitmap's raw buffer.
type Data struct {
	Width  int
	Height int
	Stride int
	Pix    []ARGB
}

// Row returns the pixels of row y.
func (d *Data) Row(y int) []ARGB {
	start := y * d.Stride
	return d.Pix[start : start+d.Width]
}

// LockBits locks the whole raw buffer. Only 32bpp bitmaps are directly
// addressable.
func (b *Bitmap) LockBits() (*Data, error) {
	if b.Released() {
		return nil, gerrors.New("bitmap.lock", gerrors.WrongState)
	}
	if b.locked {
		return nil, gerrors.New("bitmap.lock", gerrors.ObjectBusy)
	}
	if b.format != Format32bppARGB {
		return nil, gerrors.Newf("bitmap.lock", gerrors.InvalidParameter, "cannot lock %s bitmap as 32bpp", b.format)
	}
	b.locked = true
	return &Data{Width: b.width, Height: b.height, Stride: b.stride, Pix: b.pix}, nil
}

// UnlockBits releases a lock taken by LockBits.
func (b *Bitmap) UnlockBits(d *Data) error {
	if !b.locked || d == nil {
		return gerrors.New("bitmap.unlock", gerrors.WrongState)
	}
	b.locked = false
	return nil
}

// ToNRGBA copies the bitmap into an image.NRGBA using the per-pixel accessor.
func (b *Bitmap) ToNRGBA() (*image.NRGBA, error) {
	w, h, err := b.Dimensions()
	if err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p, err := b.PixelAt(x, y)
			if err != nil {
				return nil, err
			}
			img.SetNRGBA(x, y, p.NRGBA())
		}
	}
	return img, nil
}
