// Package layout measures and draws the window list with golang.org/x/image
// fonts.
package layout

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FaceMeasurer measures text with a font face.
type FaceMeasurer struct {
	face font.Face
}

// NewFaceMeasurer wraps face. A nil face selects basicfont.Face7x13.
func NewFaceMeasurer(face font.Face) *FaceMeasurer {
	if face == nil {
		face = basicfont.Face7x13
	}
	return &FaceMeasurer{face: face}
}

// Face returns the underlying face.
func (m *FaceMeasurer) Face() font.Face {
	return m.face
}

// TextWidth returns the advance of s in pixels.
func (m *FaceMeasurer) TextWidth(s string) int {
	return font.MeasureString(m.face, s).Ceil()
}

// TextHeight returns the line height in pixels.
func (m *FaceMeasurer) TextHeight() int {
	return m.face.Metrics().Height.Ceil()
}

// ascent is the baseline offset from the top of a line.
func (m *FaceMeasurer) ascent() int {
	return m.face.Metrics().Ascent.Ceil()
}
