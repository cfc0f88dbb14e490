// Package projection maps data-space coordinates onto a pixel grid.
package projection

import (
	"math"

	"github.com/paulmach/orb"
)

// Range is a closed interval [Min, Max] on one data axis.
type Range struct {
	Min, Max float64
}

// Span returns Max - Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

func (r Range) normalize() Range {
	if r.Max < r.Min {
		return Range{Min: r.Max, Max: r.Min}
	}
	return r
}

// LinearProjector is an aspect-preserving affine map from data space
// (y up) to screen space (y down). The data box is scaled uniformly to
// fit the target and centred along the axis with slack.
type LinearProjector struct {
	xRange  Range
	yRange  Range
	scaling float64
	xOffset float64
	yOffset float64
}

// NewLinearProjector fits xRange x yRange into a width x height target.
func NewLinearProjector(xRange, yRange Range, width, height float64) *LinearProjector {
	p := &LinearProjector{
		xRange: xRange.normalize(),
		yRange: yRange.normalize(),
	}
	p.FitScale(width, height)
	return p
}

// ForBound fits an orb.Bound into a width x height target.
func ForBound(b orb.Bound, width, height float64) *LinearProjector {
	return NewLinearProjector(
		Range{Min: b.Min[0], Max: b.Max[0]},
		Range{Min: b.Min[1], Max: b.Max[1]},
		width, height,
	)
}

// FitScale recomputes scale and offsets for a new target size.
// A zero-span axis does not constrain the scale; if both axes are
// degenerate the scale is 1.
func (p *LinearProjector) FitScale(width, height float64) {
	xDiff := p.xRange.Span()
	yDiff := p.yRange.Span()

	scale := math.Inf(1)
	if xDiff > 0 {
		scale = width / xDiff
	}
	if yDiff > 0 {
		scale = math.Min(scale, height/yDiff)
	}
	if math.IsInf(scale, 1) || scale <= 0 {
		scale = 1
	}
	p.scaling = scale

	p.xOffset = -(width/p.scaling-xDiff)/2 + p.xRange.Min
	p.yOffset = (height/p.scaling-yDiff)/2 + p.yRange.Max
}

// Project maps a data point to screen coordinates.
func (p *LinearProjector) Project(pt orb.Point) orb.Point {
	x := (pt[0] - p.xOffset) * p.scaling
	y := -(pt[1] - p.yOffset) * p.scaling
	return orb.Point{x, y}
}

// Unproject maps a screen point back to data space.
func (p *LinearProjector) Unproject(pt orb.Point) orb.Point {
	x := pt[0]/p.scaling + p.xOffset
	y := p.yOffset - pt[1]/p.scaling
	return orb.Point{x, y}
}

// Scale converts a data-space length to pixels.
func (p *LinearProjector) Scale(length float64) float64 {
	return length * p.scaling
}

// Scaling returns the pixels-per-data-unit factor.
func (p *LinearProjector) Scaling() float64 {
	return p.scaling
}

// Ranges returns the fitted data ranges.
func (p *LinearProjector) Ranges() (x, y Range) {
	return p.xRange, p.yRange
}
