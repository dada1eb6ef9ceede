package bitmap

import (
	gerrors "wprefix/internal/infrastructure/errors"
)

// State tells an iteration whether to go on.
type State int

const (
	Continue State = iota
	Stop
)

// Visitor is called for each pixel in raster order. A non-nil error aborts
// the iteration.
type Visitor func(x, y int, pixel ARGB) (State, error)

// Traversal walks every pixel of a bitmap with a visitor and reports whether
// the visitor stopped it early.
type Traversal func(b *Bitmap, visit Visitor) (stopped bool, err error)

// IterateSlow visits every pixel through the per-pixel accessor. It works for
// any format.
func IterateSlow(b *Bitmap, visit Visitor) (bool, error) {
	width, height, err := b.Dimensions()
	if err != nil {
		return false, err
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixel, err := b.PixelAt(x, y)
			if err != nil {
				return false, err
			}
			state, err := visit(x, y, pixel)
			if err != nil {
				return false, err
			}
			if state == Stop {
				return true, nil
			}
		}
	}

	return false, nil
}

// Iterate visits every pixel of a 32bpp bitmap through its locked raw buffer.
// An iteration failure takes precedence over a failure to unlock.
func Iterate(b *Bitmap, visit Visitor) (bool, error) {
	data, err := b.LockBits()
	if err != nil {
		return false, err
	}

	stopped, iterErr := iterateData(data, visit)
	unlockErr := b.UnlockBits(data)
	if iterErr != nil {
		return false, iterErr
	}
	return stopped, unlockErr
}

func iterateData(data *Data, visit Visitor) (bool, error) {
	for y := 0; y < data.Height; y++ {
		row := data.Row(y)
		for x := 0; x < data.Width; x++ {
			state, err := visit(x, y, row[x])
			if err != nil {
				return false, err
			}
			if state == Stop {
				return true, nil
			}
		}
	}
	return false, nil
}

// CopyVisitor is called once per source pixel with the locked destination
// buffer, so a copy can be reconstructed in a single pass.
type CopyVisitor func(dst *Data, x, y int, pixel ARGB) (State, error)

// CopyViaIterate allocates a 32bpp bitmap with the dimensions of source and
// walks source with traverse, handing each pixel and the destination buffer to
// visit. On failure the destination is released and never returned.
func CopyViaIterate(source *Bitmap, traverse Traversal, visit CopyVisitor) (*Bitmap, error) {
	width, height, err := source.Dimensions()
	if err != nil {
		return nil, err
	}

	dst, err := New(width, height, Format32bppARGB)
	if err != nil {
		return nil, err
	}

	data, err := dst.LockBits()
	if err != nil {
		dst.Release()
		return nil, err
	}

	_, iterErr := traverse(source, func(x, y int, pixel ARGB) (State, error) {
		return visit(data, x, y, pixel)
	})
	unlockErr := dst.UnlockBits(data)

	if iterErr != nil || unlockErr != nil {
		dst.Release()
	}
	if iterErr != nil {
		return nil, iterErr
	}
	if unlockErr != nil {
		return nil, unlockErr
	}
	return dst, nil
}

func copyPixel(dst *Data, x, y int, pixel ARGB) (State, error) {
	dst.Row(y)[x] = pixel
	return Continue, nil
}

// Copy duplicates a 32bpp bitmap through the fast path.
func Copy(source *Bitmap) (*Bitmap, error) {
	return CopyViaIterate(source, Iterate, copyPixel)
}

// CopyNonAlpha duplicates a bitmap of any depth through the per-pixel
// accessor into a 32bpp bitmap.
func CopyNonAlpha(source *Bitmap) (*Bitmap, error) {
	return CopyViaIterate(source, IterateSlow, copyPixel)
}

// HasAlpha reports whether any pixel has an alpha value other than fully
// transparent or fully opaque. The scan stops at the first such pixel.
func HasAlpha(b *Bitmap) (bool, error) {
	if b.Format() != Format32bppARGB {
		return false, nil
	}

	stopped, err := Iterate(b, func(_, _ int, pixel ARGB) (State, error) {
		alpha := pixel.Alpha()
		if alpha == AlphaTransparent || alpha == AlphaOpaque {
			return Continue, nil
		}
		return Stop, nil
	})
	if err != nil {
		return false, gerrors.Wrap("bitmap.has_alpha", err, gerrors.StatusOf(err))
	}
	return stopped, nil
}
