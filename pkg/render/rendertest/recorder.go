// Package rendertest provides a Surface that records drawing calls, for
// tests of code that draws through a render.Canvas.
package rendertest

import (
	"sync"

	"github.com/paulmach/orb"

	"github.com/ha1tch/area-labeler/pkg/render"
)

// Line is a recorded StrokePolyline call.
type Line struct {
	Points []orb.Point
	Color  string
	Width  float64
}

// Arc is a recorded StrokeArc call.
type Arc struct {
	Center   orb.Point
	Radius   float64
	From, To float64
	Color    string
	Width    float64
}

// Glyphs is a recorded FillGlyphs call.
type Glyphs struct {
	Glyphs []render.Glyph
	Size   float64
	Color  string
}

// Text is a recorded FillText call.
type Text struct {
	S     string
	At    orb.Point
	Size  float64
	Color string
}

// Recorder implements render.Surface and render.Resizer.
type Recorder struct {
	mu sync.Mutex

	W, H   float64
	Fills  []string
	Lines  []Line
	Arcs   []Arc
	Glyphs []Glyphs
	Texts  []Text
}

// New returns an empty w x h recorder.
func New(w, h float64) *Recorder {
	return &Recorder{W: w, H: h}
}

// Reset forgets all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Fills, r.Lines, r.Arcs, r.Glyphs, r.Texts = nil, nil, nil, nil, nil
}

func (r *Recorder) Size() (float64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.W, r.H
}

func (r *Recorder) Resize(w, h int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.W, r.H = float64(w), float64(h)
	return nil
}

func (r *Recorder) Fill(color string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Fills = append(r.Fills, color)
	return nil
}

func (r *Recorder) StrokePolyline(points []orb.Point, color string, width float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Lines = append(r.Lines, Line{append([]orb.Point(nil), points...), color, width})
	return nil
}

func (r *Recorder) StrokeArc(c orb.Point, rad, from, to float64, color string, width float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Arcs = append(r.Arcs, Arc{c, rad, from, to, color, width})
	return nil
}

func (r *Recorder) FillGlyphs(glyphs []render.Glyph, size float64, color string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Glyphs = append(r.Glyphs, Glyphs{append([]render.Glyph(nil), glyphs...), size, color})
	return nil
}

func (r *Recorder) FillText(s string, at orb.Point, size float64, color string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Texts = append(r.Texts, Text{s, at, size, color})
	return nil
}

// GlyphText joins the runes of the n-th FillGlyphs call.
func (r *Recorder) GlyphText(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n < 0 || n >= len(r.Glyphs) {
		return ""
	}
	rs := make([]rune, len(r.Glyphs[n].Glyphs))
	for i, g := range r.Glyphs[n].Glyphs {
		rs[i] = g.Rune
	}
	return string(rs)
}
