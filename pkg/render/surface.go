// Package render draws projected map annotations onto a Surface.
//
// Canvas owns the data-to-screen projection and the label layout rules.
// A Surface only knows screen-space primitives, so the same scene can be
// rasterised with gg, written as SVG, or painted into terminal cells.
package render

import "github.com/paulmach/orb"

// Glyph is one character positioned in screen space. The glyph is drawn
// horizontally centred on (X, Y) with its baseline through that point,
// after rotating the local frame by Rotation radians (clockwise on
// screen, matching the y-down convention).
type Glyph struct {
	Rune     rune
	X, Y     float64
	Rotation float64
}

// Surface is a screen-space drawing target.
type Surface interface {
	// Size reports the drawable area in pixels.
	Size() (width, height float64)

	Fill(color string) error
	StrokePolyline(points []orb.Point, color string, width float64) error
	// StrokeArc strokes the arc of radius r around c from angle from to
	// angle to, increasing (clockwise on screen). to < from wraps once.
	StrokeArc(c orb.Point, r, from, to float64, color string, width float64) error
	FillGlyphs(glyphs []Glyph, size float64, color string) error
	// FillText draws s upright and horizontally centred on at, with the
	// baseline at at.Y.
	FillText(s string, at orb.Point, size float64, color string) error
}

// Resizer is implemented by surfaces whose size can change in place.
type Resizer interface {
	Resize(width, height int) error
}
