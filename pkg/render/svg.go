package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/paulmach/orb"
)

// SVGSurface writes drawing operations as SVG elements. Call Close to
// terminate the document.
type SVGSurface struct {
	canvas        *svg.SVG
	width, height int
	fontFamily    string
	closed        bool
}

// NewSVGSurface starts a width x height SVG document on w.
func NewSVGSurface(w io.Writer, width, height int) *SVGSurface {
	c := svg.New(w)
	c.Start(width, height)
	return &SVGSurface{
		canvas:     c,
		width:      width,
		height:     height,
		fontFamily: "monospace",
	}
}

// Size implements Surface.
func (s *SVGSurface) Size() (width, height float64) {
	return float64(s.width), float64(s.height)
}

// Fill implements Surface.
func (s *SVGSurface) Fill(color string) error {
	s.canvas.Rect(0, 0, s.width, s.height, "fill:"+color)
	return nil
}

// StrokePolyline implements Surface.
func (s *SVGSurface) StrokePolyline(points []orb.Point, color string, width float64) error {
	if len(points) < 2 {
		return nil
	}
	var d strings.Builder
	for i, p := range points {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&d, "%s%s,%s ", cmd, num(p[0]), num(p[1]))
	}
	s.canvas.Path(strings.TrimSpace(d.String()), strokeStyle(color, width))
	return nil
}

// StrokeArc implements Surface. Sweeps of a full turn or more are
// emitted as two half arcs since a single SVG arc cannot close on itself.
func (s *SVGSurface) StrokeArc(c orb.Point, r, from, to float64, color string, width float64) error {
	if r <= 0 || from == to {
		return nil
	}
	for to < from {
		to += 2 * math.Pi
	}
	sweep := to - from
	if sweep >= 2*math.Pi {
		sweep = 2 * math.Pi
	}
	at := func(a float64) (float64, float64) {
		return c[0] + r*math.Cos(a), c[1] + r*math.Sin(a)
	}

	var d strings.Builder
	x0, y0 := at(from)
	fmt.Fprintf(&d, "M%s,%s", num(x0), num(y0))
	if sweep >= 2*math.Pi {
		mx, my := at(from + math.Pi)
		fmt.Fprintf(&d, " A%s,%s 0 0 1 %s,%s", num(r), num(r), num(mx), num(my))
		fmt.Fprintf(&d, " A%s,%s 0 0 1 %s,%s", num(r), num(r), num(x0), num(y0))
	} else {
		large := 0
		if sweep > math.Pi {
			large = 1
		}
		x1, y1 := at(from + sweep)
		fmt.Fprintf(&d, " A%s,%s 0 %d 1 %s,%s", num(r), num(r), large, num(x1), num(y1))
	}
	s.canvas.Path(d.String(), strokeStyle(color, width))
	return nil
}

// FillGlyphs implements Surface.
func (s *SVGSurface) FillGlyphs(glyphs []Glyph, size float64, color string) error {
	if size <= 0 {
		return nil
	}
	style := s.textStyle(size, color)
	for _, g := range glyphs {
		s.canvas.Gtransform(fmt.Sprintf("translate(%s,%s) rotate(%s)",
			num(g.X), num(g.Y), num(g.Rotation*180/math.Pi)))
		s.canvas.Text(0, 0, string(g.Rune), style)
		s.canvas.Gend()
	}
	return nil
}

// FillText implements Surface.
func (s *SVGSurface) FillText(str string, at orb.Point, size float64, color string) error {
	if size <= 0 {
		return nil
	}
	s.canvas.Gtransform(fmt.Sprintf("translate(%s,%s)", num(at[0]), num(at[1])))
	s.canvas.Text(0, 0, str, s.textStyle(size, color))
	s.canvas.Gend()
	return nil
}

// Close ends the SVG document. It is safe to call more than once.
func (s *SVGSurface) Close() error {
	if !s.closed {
		s.canvas.End()
		s.closed = true
	}
	return nil
}

func (s *SVGSurface) textStyle(size float64, color string) string {
	return fmt.Sprintf("fill:%s;font-family:%s;font-size:%spx;text-anchor:middle", color, s.fontFamily, num(size))
}

func strokeStyle(color string, width float64) string {
	return fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s", color, num(width))
}

// num formats a coordinate compactly.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
