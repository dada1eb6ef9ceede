// Package icon turns native window icons into alpha bitmaps and keeps them in
// a per-window cache.
package icon

import (
	"wprefix/internal/bitmap"
	gerrors "wprefix/internal/infrastructure/errors"
)

// DefaultSize is used when the platform reports no small-icon metrics.
const DefaultSize = 16

// Convert builds a 32bpp alpha bitmap from an icon's color bitmap and its
// optional 1bpp mask. The first matching case wins:
//
//   - a color bitmap without an alpha channel is copied pixel by pixel and
//     comes out fully opaque
//   - a 32bpp color bitmap with any partially transparent pixel already
//     carries correct alpha and is copied directly, the mask is never read
//   - otherwise the alpha channel is rebuilt from the mask: black mask pixels
//     are opaque, everything else is transparent
func Convert(color, mask *bitmap.Bitmap) (*bitmap.Bitmap, error) {
	if color == nil {
		return nil, gerrors.New("icon.convert", gerrors.InvalidParameter)
	}

	if color.Format().BitsPerPixel() < 32 {
		return bitmap.CopyNonAlpha(color)
	}

	hasAlpha, err := bitmap.HasAlpha(color)
	if err != nil {
		return nil, err
	}
	if hasAlpha {
		return bitmap.Copy(color)
	}

	if mask == nil {
		return nil, gerrors.Newf("icon.convert", gerrors.InvalidParameter, "icon without alpha has no mask")
	}

	return bitmap.CopyViaIterate(color, bitmap.Iterate, func(dst *bitmap.Data, x, y int, pixel bitmap.ARGB) (bitmap.State, error) {
		m, err := mask.PixelAt(x, y)
		if err != nil {
			return bitmap.Stop, err
		}
		alpha := uint8(bitmap.AlphaTransparent)
		if m == bitmap.Black {
			alpha = bitmap.AlphaOpaque
		}
		dst.Row(y)[x] = pixel.WithAlpha(alpha)
		return bitmap.Continue, nil
	})
}

// Extractor converts icons and scales them to the small-icon size.
type Extractor struct {
	width  int
	height int
}

// NewExtractor creates an extractor producing width×height icons. Non-positive
// metrics fall back to fallback×fallback.
func NewExtractor(width, height, fallback int) *Extractor {
	if fallback <= 0 {
		fallback = DefaultSize
	}
	if width <= 0 {
		width = fallback
	}
	if height <= 0 {
		height = fallback
	}
	return &Extractor{width: width, height: height}
}

// Size returns the target icon size.
func (e *Extractor) Size() (int, int) {
	return e.width, e.height
}

// Extract converts the icon and scales it when its size differs from the
// target. The caller owns the returned bitmap; on failure nothing is left
// allocated.
func (e *Extractor) Extract(color, mask *bitmap.Bitmap) (*bitmap.Bitmap, error) {
	converted, err := Convert(color, mask)
	if err != nil {
		return nil, err
	}

	if converted.Width() == e.width && converted.Height() == e.height {
		return converted, nil
	}

	scaled, err := bitmap.Scale(converted, e.width, e.height)
	converted.Release()
	if err != nil {
		return nil, err
	}
	return scaled, nil
}
