package bitmap

import (
	"image"

	"golang.org/x/image/draw"

	gerrors "wprefix/internal/infrastructure/errors"
)

// Scale resamples b into a new 32bpp bitmap of width×height using bilinear
// interpolation. The source is not modified and stays owned by the caller.
func Scale(b *Bitmap, width, height int) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, gerrors.Newf("bitmap.scale", gerrors.InvalidParameter, "invalid target %dx%d", width, height)
	}

	src, err := b.ToNRGBA()
	if err != nil {
		return nil, gerrors.Wrap("bitmap.scale", err, gerrors.StatusOf(err))
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return FromNRGBA(dst)
}
