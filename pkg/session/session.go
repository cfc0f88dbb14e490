// Package session holds the state of an interactive labelling session:
// the outlines drawn so far, the label text, and the skeleton and label
// placement last returned by the backend.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/paulmach/orb"

	"github.com/ha1tch/area-labeler/pkg/geom"
	"github.com/ha1tch/area-labeler/pkg/logging"
	"github.com/ha1tch/area-labeler/pkg/render"
	"github.com/ha1tch/area-labeler/pkg/scene"
)

// DefaultText is the label text of a new session.
const DefaultText = "Hello World!"

// DataSpace is the drawing area of a session in data units.
var DataSpace = orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{750, 750}}

// DefaultPlacement is shown until the backend returns a placement.
func DefaultPlacement() geom.Placement {
	return geom.Placement{
		C: orb.Point{200, 200},
		R: 100,
		H: 20,
		A: math.Pi / 4,
		B: 3 * math.Pi / 2,
	}
}

// ErrTooFewPoints is returned when closing a line with fewer than three
// points.
var ErrTooFewPoints = errors.New("session: polygon needs at least 3 points")

// Backend computes skeletons and label placements.
type Backend interface {
	Skeleton(ctx context.Context, polylines []orb.LineString) ([]geom.Segment, error)
	Label(ctx context.Context, polylines []orb.LineString, text string) (geom.Placement, error)
}

// Style configures Session.Draw.
type Style struct {
	Background    string
	Stroke        string
	StrokeWidth   float64
	Skeleton      string
	SkeletonWidth float64
	Placement     render.PlacementStyle
}

// DefaultStyle returns the default session colours.
func DefaultStyle() Style {
	return Style{
		Background:    render.DefaultBackground,
		Stroke:        render.DefaultStroke,
		StrokeWidth:   1,
		Skeleton:      render.DefaultSkeleton,
		SkeletonWidth: 1,
		Placement:     render.DefaultPlacementStyle(),
	}
}

// Session is safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	polygons  []orb.LineString
	current   orb.LineString
	text      string
	edges     []geom.Segment
	placement geom.Placement
	style     Style
}

// New returns an empty session.
func New() *Session {
	return &Session{
		text:      DefaultText,
		placement: DefaultPlacement(),
		style:     DefaultStyle(),
	}
}

// SetStyle replaces the drawing style.
func (s *Session) SetStyle(style Style) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.style = style
}

// AddPoint extends the open line.
func (s *Session) AddPoint(p orb.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.current); n > 0 && s.current[n-1].Equal(p) {
		return
	}
	s.current = append(s.current, p)
}

// ClosePolygon closes the open line by repeating its first point and
// moves it to the finished polygons.
func (s *Session) ClosePolygon() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.current) < 3 {
		return fmt.Errorf("%w: have %d", ErrTooFewPoints, len(s.current))
	}
	s.polygons = append(s.polygons, geom.Close(s.current))
	s.current = nil
	return nil
}

// UndoPoint removes the last point of the open line. With no open line
// the last polygon is reopened instead. It reports whether anything
// changed.
func (s *Session) UndoPoint() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.current) > 0 {
		s.current = s.current[:len(s.current)-1]
		return true
	}
	n := len(s.polygons)
	if n == 0 {
		return false
	}
	last := s.polygons[n-1]
	s.polygons = s.polygons[:n-1]
	s.current = append(orb.LineString(nil), last[:len(last)-1]...)
	return true
}

// Clear drops all geometry and backend results. The text is kept.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polygons = nil
	s.current = nil
	s.edges = nil
	s.placement = DefaultPlacement()
}

// Text returns the label text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// SetText replaces the label text.
func (s *Session) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
}

// Edges returns the skeleton edges.
func (s *Session) Edges() []geom.Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]geom.Segment(nil), s.edges...)
}

// SetEdges replaces the skeleton edges.
func (s *Session) SetEdges(edges []geom.Segment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges = edges
}

// Placement returns the current label placement.
func (s *Session) Placement() geom.Placement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placement
}

// SetPlacement replaces the label placement.
func (s *Session) SetPlacement(p geom.Placement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placement = p
}

// Polygons returns the closed polygons.
func (s *Session) Polygons() []orb.LineString {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]orb.LineString(nil), s.polygons...)
}

// Current returns the open line.
func (s *Session) Current() orb.LineString {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(orb.LineString(nil), s.current...)
}

// Polylines returns the closed polygons followed by the open line, if
// it has any points. This is what the backend receives.
func (s *Session) Polylines() []orb.LineString {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polylines()
}

func (s *Session) polylines() []orb.LineString {
	out := make([]orb.LineString, 0, len(s.polygons)+1)
	out = append(out, s.polygons...)
	if len(s.current) > 0 {
		out = append(out, append(orb.LineString(nil), s.current...))
	}
	return out
}

// RequestSkeleton fetches and stores the skeleton of the current
// outlines. On error the previous edges are kept.
func (s *Session) RequestSkeleton(ctx context.Context, b Backend) error {
	lines := s.Polylines()
	edges, err := b.Skeleton(ctx, lines)
	if err != nil {
		return fmt.Errorf("skeleton: %w", err)
	}
	logging.Logger().Debug("skeleton received", "polylines", len(lines), "edges", len(edges))
	s.SetEdges(edges)
	return nil
}

// RequestLabel fetches and stores a placement for the current text. On
// error the previous placement is kept.
func (s *Session) RequestLabel(ctx context.Context, b Backend) error {
	s.mu.Lock()
	lines, text := s.polylines(), s.text
	s.mu.Unlock()

	p, err := b.Label(ctx, lines, text)
	if err != nil {
		return fmt.Errorf("label: %w", err)
	}
	logging.Logger().Debug("placement received", "c", p.C, "r", p.R, "h", p.H, "a", p.A, "b", p.B)
	s.SetPlacement(p)
	return nil
}

// Draw renders the session: background, outlines, skeleton, then the
// placed text and its label line.
func (s *Session) Draw(c *render.Canvas) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.style

	if err := c.DrawBackground(st.Background); err != nil {
		return err
	}
	for _, line := range s.polylines() {
		if err := c.DrawPolyline(line, st.Stroke, st.StrokeWidth); err != nil {
			return err
		}
	}
	if err := c.DrawSegments(s.edges, st.Skeleton, st.SkeletonWidth); err != nil {
		return err
	}
	return c.DrawPlacement(s.placement, s.text, st.Placement)
}

// Bound returns the session data space grown to cover every outline and
// the label band.
func (s *Session) Bound() orb.Bound {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs := []orb.Geometry{DataSpace, s.placement.Bound()}
	for _, l := range s.polylines() {
		gs = append(gs, l)
	}
	b, _ := geom.BoundOf(0, gs...)
	return b
}

// Scene converts the closed polygons into areas. The placement becomes
// the curved label of the first area.
func (s *Session) Scene() *scene.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := scene.New()
	for i, poly := range s.polygons {
		a := &scene.Area{
			Name:  fmt.Sprintf("polygon-%d", i+1),
			Outer: orb.Ring(poly),
		}
		if i == 0 && s.text != "" {
			a.Label = placementLabel(s.placement, s.text)
		}
		out.Add(a)
	}
	return out
}

// placementLabel approximates p as an unscaled curved label: the font
// is the band height and the baseline sits a fifth of it above the
// inner edge.
func placementLabel(p geom.Placement, text string) *scene.AreaLabel {
	size := 2 * p.H
	return &scene.AreaLabel{
		Text:           text,
		Center:         p.C,
		BaselineRadius: p.R - p.H + size/5,
		FontSize:       size,
		From:           -p.B,
		To:             -p.A,
	}
}
