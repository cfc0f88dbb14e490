package render

import (
	"math"

	"github.com/paulmach/orb"
)

// Baseline is the fraction of the font size between the baseline and
// the bottom of the glyph cell.
const Baseline = 0.1

// LayoutArc spreads text evenly over [from, to] on a circle of radius
// baseline around c. Glyph i sits at angle from + delta*(i+0.5) with
// delta = (to-from)/n and its up direction points away from c.
func LayoutArc(text string, c orb.Point, baseline, from, to float64) []Glyph {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	delta := (to - from) / float64(len(runes))
	glyphs := make([]Glyph, len(runes))
	for i, r := range runes {
		theta := from + delta*(float64(i)+0.5)
		glyphs[i] = Glyph{
			Rune:     r,
			X:        c[0] + baseline*math.Cos(theta),
			Y:        c[1] + baseline*math.Sin(theta),
			Rotation: theta + math.Pi/2,
		}
	}
	return glyphs
}

// LayoutArcFlipped is LayoutArc for the lower half of a circle: the text
// is reversed and each glyph turned upside down relative to the radial
// frame so the label reads left to right. baseline is measured outward
// from c as in LayoutArc.
func LayoutArcFlipped(text string, c orb.Point, baseline, from, to float64) []Glyph {
	runes := []rune(text)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	glyphs := LayoutArc(string(runes), c, baseline, from, to)
	for i := range glyphs {
		glyphs[i].Rotation += math.Pi
	}
	return glyphs
}

// ReadsUpsideDown reports whether text laid out clockwise over
// [from, to] would be upside down, i.e. the middle of the arc lies in the
// lower half of the screen.
func ReadsUpsideDown(from, to float64) bool {
	mid := math.Remainder((from+to)/2, 2*math.Pi)
	return math.Abs(mid-math.Pi/2) < math.Pi/2
}
