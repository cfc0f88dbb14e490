package render

import (
	"github.com/paulmach/orb"
)

// recorder is a Surface that keeps every call for inspection.
type recorder struct {
	w, h   float64
	fills  []string
	lines  []recordedLine
	arcs   []recordedArc
	glyphs []recordedGlyphs
	texts  []recordedText
}

type recordedLine struct {
	points []orb.Point
	color  string
	width  float64
}

type recordedArc struct {
	c        orb.Point
	r        float64
	from, to float64
	color    string
	width    float64
}

type recordedGlyphs struct {
	glyphs []Glyph
	size   float64
	color  string
}

type recordedText struct {
	s     string
	at    orb.Point
	size  float64
	color string
}

func newRecorder(w, h float64) *recorder {
	return &recorder{w: w, h: h}
}

func (r *recorder) Size() (float64, float64) { return r.w, r.h }

func (r *recorder) Fill(color string) error {
	r.fills = append(r.fills, color)
	return nil
}

func (r *recorder) StrokePolyline(points []orb.Point, color string, width float64) error {
	r.lines = append(r.lines, recordedLine{points, color, width})
	return nil
}

func (r *recorder) StrokeArc(c orb.Point, rad, from, to float64, color string, width float64) error {
	r.arcs = append(r.arcs, recordedArc{c, rad, from, to, color, width})
	return nil
}

func (r *recorder) FillGlyphs(glyphs []Glyph, size float64, color string) error {
	r.glyphs = append(r.glyphs, recordedGlyphs{glyphs, size, color})
	return nil
}

func (r *recorder) FillText(s string, at orb.Point, size float64, color string) error {
	r.texts = append(r.texts, recordedText{s, at, size, color})
	return nil
}
