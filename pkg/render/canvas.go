package render

import (
	"errors"
	"math"

	"github.com/paulmach/orb"

	"github.com/ha1tch/area-labeler/pkg/geom"
	"github.com/ha1tch/area-labeler/pkg/logging"
	"github.com/ha1tch/area-labeler/pkg/projection"
)

// Default drawing colours.
const (
	DefaultBackground = "#DDDDDD"
	DefaultStroke     = "#000000"
	DefaultArc        = "#666666"
	DefaultText       = "#000000"
	DefaultSkeleton   = "#3366CC"
)

// ErrNotResizable is returned by Canvas.Resize when the surface has a
// fixed size.
var ErrNotResizable = errors.New("render: surface cannot be resized")

// PolygonStyle configures polygon borders.
type PolygonStyle struct {
	Color      string
	OuterWidth float64
	InnerWidth float64
}

// DefaultPolygonStyle returns a black 2px outer / 1px inner border.
func DefaultPolygonStyle() PolygonStyle {
	return PolygonStyle{
		Color:      DefaultStroke,
		OuterWidth: 2,
		InnerWidth: 1,
	}
}

// Arc is a circular arc. Angles are in radians.
type Arc struct {
	Center orb.Point
	Radius float64
	From   float64
	To     float64
}

// CurvedLabel is text set along a circular baseline. Center and
// BaselineRadius are in data units, FontSize in pixels, From/To are
// screen angles.
type CurvedLabel struct {
	Center         orb.Point
	BaselineRadius float64
	FontSize       float64
	From           float64
	To             float64
	Text           string
	Color          string // DefaultText if empty
}

// DiskLabel is upright text centred on a point of interest.
type DiskLabel struct {
	Center orb.Point
	Radius float64
	Size   float64
	Text   string
	Color  string // DefaultText if empty
}

// PlacementStyle configures DrawPlacement.
type PlacementStyle struct {
	TextColor string
	LineColor string
	LineWidth float64
}

// DefaultPlacementStyle returns black text over a grey 1px label line.
func DefaultPlacementStyle() PlacementStyle {
	return PlacementStyle{
		TextColor: DefaultText,
		LineColor: DefaultArc,
		LineWidth: 1,
	}
}

// Canvas draws data-space annotations onto a Surface.
type Canvas struct {
	surface   Surface
	projector *projection.LinearProjector
}

// NewCanvas wraps s with a projector that maps [0,w]x[0,h] onto it.
func NewCanvas(s Surface) *Canvas {
	w, h := s.Size()
	return &Canvas{
		surface:   s,
		projector: projection.NewLinearProjector(projection.Range{Max: w}, projection.Range{Max: h}, w, h),
	}
}

// Surface returns the underlying drawing target.
func (c *Canvas) Surface() Surface {
	return c.surface
}

// Size reports the surface size in pixels.
func (c *Canvas) Size() (width, height float64) {
	return c.surface.Size()
}

// SetProjector replaces the data-to-screen mapping.
func (c *Canvas) SetProjector(p *projection.LinearProjector) {
	c.projector = p
}

// Projector returns the current data-to-screen mapping.
func (c *Canvas) Projector() *projection.LinearProjector {
	return c.projector
}

// Resize changes the surface size and refits the projector, then
// redraws the background.
func (c *Canvas) Resize(width, height int) error {
	r, ok := c.surface.(Resizer)
	if !ok {
		return ErrNotResizable
	}
	if err := r.Resize(width, height); err != nil {
		return err
	}
	c.projector.FitScale(float64(width), float64(height))
	return c.Redraw()
}

// Redraw clears the surface to the default background.
func (c *Canvas) Redraw() error {
	return c.DrawBackground(DefaultBackground)
}

// DrawBackground fills the whole surface with color.
func (c *Canvas) DrawBackground(color string) error {
	if color == "" {
		color = DefaultBackground
	}
	return c.surface.Fill(color)
}

func (c *Canvas) project(line []orb.Point) []orb.Point {
	out := make([]orb.Point, len(line))
	for i, p := range line {
		out[i] = c.projector.Project(p)
	}
	return out
}

// DrawPolyline strokes a data-space polyline.
func (c *Canvas) DrawPolyline(line orb.LineString, color string, width float64) error {
	if len(line) < 2 {
		return nil
	}
	return c.surface.StrokePolyline(c.project(line), color, width)
}

// DrawPolygon strokes the outer ring of poly with style.OuterWidth and
// every inner ring with style.InnerWidth. Rings are drawn as given.
func (c *Canvas) DrawPolygon(poly orb.Polygon, style PolygonStyle) error {
	if len(poly) == 0 {
		return nil
	}
	if err := c.DrawPolyline(orb.LineString(poly[0]), style.Color, style.OuterWidth); err != nil {
		return err
	}
	for _, inner := range poly[1:] {
		logging.Logger().Debug("drawing inner ring", "points", len(inner))
		if err := c.DrawPolyline(orb.LineString(inner), style.Color, style.InnerWidth); err != nil {
			return err
		}
	}
	return nil
}

// DrawArc strokes arc. With scale set the centre and radius are data
// space and get projected; otherwise they are used as pixels.
func (c *Canvas) DrawArc(arc Arc, color string, width float64, scale bool) error {
	center, r := arc.Center, arc.Radius
	if scale {
		center = c.projector.Project(center)
		r = c.projector.Scale(r)
	}
	return c.surface.StrokeArc(center, r, arc.From, arc.To, color, width)
}

// DrawCurvedLabel sets l.Text along the arc of l.BaselineRadius around
// l.Center.
func (c *Canvas) DrawCurvedLabel(l CurvedLabel) error {
	if l.Text == "" {
		return nil
	}
	bl := c.projector.Scale(l.BaselineRadius)
	glyphs := LayoutArc(l.Text, c.projector.Project(l.Center), bl, l.From, l.To)
	return c.surface.FillGlyphs(glyphs, l.FontSize, orDefault(l.Color, DefaultText))
}

// DrawDiskLabel draws l.Text centred on the projected point.
func (c *Canvas) DrawDiskLabel(l DiskLabel) error {
	if l.Text == "" {
		return nil
	}
	at := c.projector.Project(l.Center)
	logging.Logger().Debug("drawing disk label", "text", l.Text, "x", at[0], "y", at[1], "size", l.Size)
	at[1] -= l.Size * Baseline
	return c.surface.FillText(l.Text, at, l.Size, orDefault(l.Color, DefaultText))
}

func orDefault(color, def string) string {
	if color == "" {
		return def
	}
	return color
}

// DrawSegments strokes each data-space segment.
func (c *Canvas) DrawSegments(segs []geom.Segment, color string, width float64) error {
	for _, s := range segs {
		pts := []orb.Point{c.projector.Project(s[0]), c.projector.Project(s[1])}
		if err := c.surface.StrokePolyline(pts, color, width); err != nil {
			return err
		}
	}
	return nil
}

// DrawPlacement draws text into the label band described by p, followed
// by the label line on radius p.R. Placement angles are counter-clockwise
// in data space and are mirrored into screen space here.
func (c *Canvas) DrawPlacement(p geom.Placement, text string, style PlacementStyle) error {
	center := c.projector.Project(p.C)
	r := c.projector.Scale(p.R)
	h := c.projector.Scale(p.H)
	from, to := -p.B, -p.A

	if text != "" && h > 0 {
		size := 2 * h
		inner := r - h
		var glyphs []Glyph
		if ReadsUpsideDown(from, to) {
			glyphs = LayoutArcFlipped(text, center, inner+size*4/5, from, to)
		} else {
			glyphs = LayoutArc(text, center, inner+size/5, from, to)
		}
		if err := c.surface.FillGlyphs(glyphs, size, style.TextColor); err != nil {
			return err
		}
	}
	if r <= 0 || math.IsNaN(r) {
		return nil
	}
	return c.surface.StrokeArc(center, r, from, to, style.LineColor, style.LineWidth)
}
