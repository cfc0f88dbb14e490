package render

import (
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"
	"github.com/paulmach/orb"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// RasterSurface rasterises onto a gg context.
type RasterSurface struct {
	dc    *gg.Context
	fonts *Fonts
}

// NewRasterSurface creates a width x height pixel surface using the
// default Go Mono fonts.
func NewRasterSurface(width, height int) (*RasterSurface, error) {
	fonts, err := DefaultFonts()
	if err != nil {
		return nil, err
	}
	return NewRasterSurfaceWithFonts(width, height, fonts), nil
}

// NewRasterSurfaceWithFonts creates a surface that draws text with fonts.
func NewRasterSurfaceWithFonts(width, height int, fonts *Fonts) *RasterSurface {
	return &RasterSurface{
		dc:    gg.NewContext(width, height),
		fonts: fonts,
	}
}

// Context exposes the gg context for callers that add their own layers.
func (s *RasterSurface) Context() *gg.Context {
	return s.dc
}

// Size implements Surface.
func (s *RasterSurface) Size() (width, height float64) {
	return float64(s.dc.Width()), float64(s.dc.Height())
}

// Resize implements Resizer. The content is discarded.
func (s *RasterSurface) Resize(width, height int) error {
	return s.dc.Resize(width, height)
}

// Fill implements Surface.
func (s *RasterSurface) Fill(color string) error {
	s.dc.ClearWithColor(gg.Hex(color))
	return nil
}

// StrokePolyline implements Surface.
func (s *RasterSurface) StrokePolyline(points []orb.Point, color string, width float64) error {
	if len(points) < 2 {
		return nil
	}
	s.dc.ClearPath()
	s.dc.MoveTo(points[0][0], points[0][1])
	for _, p := range points[1:] {
		s.dc.LineTo(p[0], p[1])
	}
	s.dc.SetHexColor(color)
	s.dc.SetLineWidth(width)
	if err := s.dc.Stroke(); err != nil {
		return fmt.Errorf("stroke polyline: %w", err)
	}
	return nil
}

// StrokeArc implements Surface.
func (s *RasterSurface) StrokeArc(c orb.Point, r, from, to float64, color string, width float64) error {
	if r <= 0 || from == to {
		return nil
	}
	s.dc.ClearPath()
	s.dc.DrawArc(c[0], c[1], r, from, to)
	s.dc.SetHexColor(color)
	s.dc.SetLineWidth(width)
	if err := s.dc.Stroke(); err != nil {
		return fmt.Errorf("stroke arc: %w", err)
	}
	return nil
}

// FillGlyphs implements Surface. Each glyph is filled from its vector
// outline in a rotated frame, so arbitrary angles stay crisp.
func (s *RasterSurface) FillGlyphs(glyphs []Glyph, size float64, color string) error {
	if size <= 0 {
		return nil
	}
	s.dc.SetHexColor(color)
	for _, g := range glyphs {
		segs, adv, err := s.fonts.Outline(g.Rune, size)
		if err != nil {
			return err
		}
		if len(segs) == 0 {
			continue
		}
		s.dc.Push()
		s.dc.Translate(g.X, g.Y)
		s.dc.Rotate(g.Rotation)
		s.dc.Translate(-adv/2, 0)
		s.dc.ClearPath()
		tracePath(s.dc, segs)
		err = s.dc.Fill()
		s.dc.Pop()
		if err != nil {
			return fmt.Errorf("fill glyph %q: %w", g.Rune, err)
		}
	}
	return nil
}

// FillText implements Surface.
func (s *RasterSurface) FillText(str string, at orb.Point, size float64, color string) error {
	if size <= 0 {
		return nil
	}
	s.dc.SetFont(s.fonts.Face(size))
	s.dc.SetHexColor(color)
	s.dc.DrawString(str, at[0]-s.fonts.Advance(str, size)/2, at[1])
	return nil
}

// Image returns the rendered pixels.
func (s *RasterSurface) Image() image.Image {
	return s.dc.Image()
}

// EncodePNG writes the surface as PNG.
func (s *RasterSurface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

// SavePNG writes the surface to a PNG file.
func (s *RasterSurface) SavePNG(path string) error {
	return s.dc.SavePNG(path)
}

// tracePath appends an sfnt outline to the current path.
func tracePath(dc *gg.Context, segs sfnt.Segments) {
	pt := func(p fixed.Point26_6) (float64, float64) {
		return float64(p.X) / 64, float64(p.Y) / 64
	}
	open := false
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				dc.ClosePath()
			}
			x, y := pt(seg.Args[0])
			dc.MoveTo(x, y)
			open = true
		case sfnt.SegmentOpLineTo:
			x, y := pt(seg.Args[0])
			dc.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			cx, cy := pt(seg.Args[0])
			x, y := pt(seg.Args[1])
			dc.QuadraticTo(cx, cy, x, y)
		case sfnt.SegmentOpCubeTo:
			c1x, c1y := pt(seg.Args[0])
			c2x, c2y := pt(seg.Args[1])
			x, y := pt(seg.Args[2])
			dc.CubicTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	if open {
		dc.ClosePath()
	}
}
