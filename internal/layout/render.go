package layout

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"wprefix/internal/windowlist"
)

var (
	background = color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	foreground = color.NRGBA{A: 0xff}
)

// Render draws the shown entries of list the way the switcher lays them out:
// the number column, then icon and title, one row per entry. An empty list
// renders its message instead.
func Render(list *windowlist.List, m *FaceMeasurer) *image.NRGBA {
	size := list.Size(m)
	img := image.NewNRGBA(image.Rect(0, 0, max(size.X, 1), max(size.Y, 1)))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	if msg := list.EmptyMessage(); msg != "" {
		drawText(img, m, msg, 0, 0)
		return img
	}

	y := 0
	for row, e := range list.Visible() {
		s := e.Size(m)
		textY := y + (s.Y-m.TextHeight())/2

		drawText(img, m, windowlist.Label(row), 0, textY)

		x := list.NumberWidth()
		if e.Icon != nil && !e.Icon.Released() {
			if icon, err := e.Icon.ToNRGBA(); err == nil {
				r := icon.Bounds().Add(image.Pt(x, y+windowlist.IconPadding))
				draw.Draw(img, r, icon, image.Point{}, draw.Over)
			}
			x += e.Icon.Width()
		}
		x += windowlist.IconPadding

		drawText(img, m, e.Title, x, textY)
		y += s.Y
	}
	return img
}

func drawText(dst draw.Image, m *FaceMeasurer, s string, x, y int) {
	if s == "" {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(foreground),
		Face: m.Face(),
		Dot:  fixed.P(x, y+m.ascent()),
	}
	d.DrawString(s)
}
