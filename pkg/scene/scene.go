// Package scene models the labelled map objects: areas with curved
// labels, points of interest with disk labels, and the pairs of both
// that a feature collection describes.
package scene

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/ha1tch/area-labeler/pkg/geom"
	"github.com/ha1tch/area-labeler/pkg/projection"
	"github.com/ha1tch/area-labeler/pkg/render"
)

// Item is anything a Scene can draw.
type Item interface {
	Draw(c *render.Canvas) error
	// Bound reports the data-space extent. ok is false when the item has
	// no geometry.
	Bound() (b orb.Bound, ok bool)
}

// AreaLabel is a curved label. Center and BaselineRadius are data units,
// FontSize is pixels, From and To are screen angles in radians.
type AreaLabel struct {
	Text           string
	Center         orb.Point
	BaselineRadius float64
	FontSize       float64
	From           float64
	To             float64
	Color          string
}

// Draw sets the label along its baseline arc.
func (l *AreaLabel) Draw(c *render.Canvas) error {
	return c.DrawCurvedLabel(render.CurvedLabel{
		Center:         l.Center,
		BaselineRadius: l.BaselineRadius,
		FontSize:       l.FontSize,
		From:           l.From,
		To:             l.To,
		Text:           l.Text,
		Color:          l.Color,
	})
}

// Bound covers the full baseline circle.
func (l *AreaLabel) Bound() orb.Bound {
	return geom.Circle(l.Center, l.BaselineRadius)
}

// Area is a polygon with holes and an optional curved label.
type Area struct {
	Name   string
	Outer  orb.Ring
	Inners []orb.Ring
	Label  *AreaLabel

	// Style overrides the default border style when Color is set.
	Style render.PolygonStyle
}

// Polygon returns the outer ring followed by the inner rings.
func (a *Area) Polygon() orb.Polygon {
	poly := make(orb.Polygon, 0, 1+len(a.Inners))
	poly = append(poly, a.Outer)
	return append(poly, a.Inners...)
}

// Polylines returns every ring as a polyline, outer ring first.
func (a *Area) Polylines() []orb.LineString {
	out := make([]orb.LineString, 0, 1+len(a.Inners))
	if len(a.Outer) > 0 {
		out = append(out, orb.LineString(a.Outer))
	}
	for _, r := range a.Inners {
		out = append(out, orb.LineString(r))
	}
	return out
}

// Draw strokes the border, then the label.
func (a *Area) Draw(c *render.Canvas) error {
	style := a.Style
	if style.Color == "" {
		style = render.DefaultPolygonStyle()
	}
	if err := c.DrawPolygon(a.Polygon(), style); err != nil {
		return fmt.Errorf("area %q border: %w", a.Name, err)
	}
	if a.Label == nil {
		return nil
	}
	if err := a.Label.Draw(c); err != nil {
		return fmt.Errorf("area %q label: %w", a.Name, err)
	}
	return nil
}

// Bound covers the outer ring and the label.
func (a *Area) Bound() (orb.Bound, bool) {
	gs := []orb.Geometry{a.Outer}
	if a.Label != nil {
		gs = append(gs, a.Label.Bound())
	}
	return geom.BoundOf(0, gs...)
}

// Centroid returns the area-weighted centroid of the polygon and its
// signed area.
func (a *Area) Centroid() (orb.Point, float64) {
	if len(a.Outer) < 3 {
		return orb.Point{}, 0
	}
	return planar.CentroidArea(a.Polygon())
}

// PointOfInterest is a disk with an upright label at its centre.
type PointOfInterest struct {
	Label    string
	Pos      orb.Point
	Radius   float64
	FontSize float64
	Color    string
}

// Draw writes the label on the point.
func (p *PointOfInterest) Draw(c *render.Canvas) error {
	return c.DrawDiskLabel(render.DiskLabel{
		Center: p.Pos,
		Radius: p.Radius,
		Size:   p.FontSize,
		Text:   p.Label,
		Color:  p.Color,
	})
}

// Bound covers the disk.
func (p *PointOfInterest) Bound() (orb.Bound, bool) {
	return geom.Circle(p.Pos, p.Radius), true
}

// AreaPOI pairs an area with a point of interest inside it. Either half
// may be nil.
type AreaPOI struct {
	Area *Area
	POI  *PointOfInterest
}

// Draw draws the area, then the point of interest.
func (ap *AreaPOI) Draw(c *render.Canvas) error {
	if ap.Area != nil {
		if err := ap.Area.Draw(c); err != nil {
			return err
		}
	}
	if ap.POI != nil {
		return ap.POI.Draw(c)
	}
	return nil
}

// Bound covers both halves.
func (ap *AreaPOI) Bound() (orb.Bound, bool) {
	var items []Item
	if ap.Area != nil {
		items = append(items, ap.Area)
	}
	if ap.POI != nil {
		items = append(items, ap.POI)
	}
	return unionOf(items)
}

// Scene is an ordered list of items drawn back to front.
type Scene struct {
	Items      []Item
	Background string
}

// New returns a scene holding items.
func New(items ...Item) *Scene {
	return &Scene{Items: items}
}

// Add appends items.
func (s *Scene) Add(items ...Item) {
	s.Items = append(s.Items, items...)
}

// Len returns the number of items.
func (s *Scene) Len() int {
	return len(s.Items)
}

// Bound returns the union of all item bounds. ok is false for an empty
// scene.
func (s *Scene) Bound() (b orb.Bound, ok bool) {
	return unionOf(s.Items)
}

func unionOf(items []Item) (orb.Bound, bool) {
	bounds := make([]orb.Bound, 0, len(items))
	for _, it := range items {
		if b, ok := it.Bound(); ok {
			bounds = append(bounds, b)
		}
	}
	return geom.Union(bounds...)
}

// Fit installs a projector on c that frames the scene with padding data
// units on every side. An empty scene leaves c unchanged.
func (s *Scene) Fit(c *render.Canvas, padding float64) {
	b, ok := s.Bound()
	if !ok {
		return
	}
	w, h := c.Size()
	c.SetProjector(projection.ForBound(geom.Pad(b, padding), w, h))
}

// Draw clears c and draws every item in order.
func (s *Scene) Draw(c *render.Canvas) error {
	if err := c.DrawBackground(s.Background); err != nil {
		return err
	}
	for i, it := range s.Items {
		if err := it.Draw(c); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// SetStyle applies style to every area in the scene.
func (s *Scene) SetStyle(style render.PolygonStyle) {
	for _, it := range s.Items {
		switch v := it.(type) {
		case *Area:
			v.Style = style
		case *AreaPOI:
			if v.Area != nil {
				v.Area.Style = style
			}
		}
	}
}

// SetTextColor sets the colour of every area label and point of
// interest.
func (s *Scene) SetTextColor(color string) {
	for _, it := range s.Items {
		switch v := it.(type) {
		case *Area:
			v.setTextColor(color)
		case *PointOfInterest:
			v.Color = color
		case *AreaPOI:
			if v.Area != nil {
				v.Area.setTextColor(color)
			}
			if v.POI != nil {
				v.POI.Color = color
			}
		}
	}
}

func (a *Area) setTextColor(color string) {
	if a.Label != nil {
		a.Label.Color = color
	}
}
