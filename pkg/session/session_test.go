package session

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/area-labeler/pkg/geom"
	"github.com/ha1tch/area-labeler/pkg/render"
	"github.com/ha1tch/area-labeler/pkg/render/rendertest"
)

type fakeBackend struct {
	lines     []orb.LineString
	text      string
	edges     []geom.Segment
	placement geom.Placement
	err       error
}

func (f *fakeBackend) Skeleton(_ context.Context, lines []orb.LineString) ([]geom.Segment, error) {
	f.lines = lines
	return f.edges, f.err
}

func (f *fakeBackend) Label(_ context.Context, lines []orb.LineString, text string) (geom.Placement, error) {
	f.lines, f.text = lines, text
	return f.placement, f.err
}

func triangle(s *Session) {
	s.AddPoint(orb.Point{0, 0})
	s.AddPoint(orb.Point{100, 0})
	s.AddPoint(orb.Point{50, 80})
}

func TestNewSession(t *testing.T) {
	s := New()
	assert.Equal(t, DefaultText, s.Text())
	assert.Equal(t, DefaultPlacement(), s.Placement())
	assert.Empty(t, s.Polylines())
	assert.Equal(t, DataSpace, s.Bound())
}

func TestClosePolygon(t *testing.T) {
	s := New()
	s.AddPoint(orb.Point{0, 0})
	s.AddPoint(orb.Point{1, 0})
	assert.ErrorIs(t, s.ClosePolygon(), ErrTooFewPoints)

	s.AddPoint(orb.Point{1, 1})
	require.NoError(t, s.ClosePolygon())
	polys := s.Polygons()
	require.Len(t, polys, 1)
	assert.Equal(t, orb.LineString{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, polys[0])
	assert.Empty(t, s.Current())
}

func TestAddPointSkipsDuplicates(t *testing.T) {
	s := New()
	s.AddPoint(orb.Point{3, 3})
	s.AddPoint(orb.Point{3, 3})
	assert.Len(t, s.Current(), 1)
}

func TestPolylines(t *testing.T) {
	s := New()
	triangle(s)
	require.NoError(t, s.ClosePolygon())
	assert.Len(t, s.Polylines(), 1)

	s.AddPoint(orb.Point{10, 10})
	lines := s.Polylines()
	require.Len(t, lines, 2)
	assert.Equal(t, orb.LineString{{10, 10}}, lines[1])
}

func TestPolylinesSnapshot(t *testing.T) {
	s := New()
	s.AddPoint(orb.Point{1, 1})
	s.AddPoint(orb.Point{2, 2})
	s.AddPoint(orb.Point{3, 3})
	lines := s.Polylines()

	s.UndoPoint()
	s.AddPoint(orb.Point{99, 99})
	assert.Equal(t, orb.LineString{{1, 1}, {2, 2}, {3, 3}}, lines[0])
}

// slowBackend reads the polylines after the caller has moved on.
type slowBackend struct {
	fakeBackend
	started chan struct{}
	release chan struct{}
}

func (b *slowBackend) Skeleton(_ context.Context, lines []orb.LineString) ([]geom.Segment, error) {
	close(b.started)
	<-b.release
	var sum float64
	for _, l := range lines {
		for _, p := range l {
			sum += p[0]
		}
	}
	if sum != 6 {
		return nil, errors.New("polylines changed during request")
	}
	return nil, nil
}

func TestRequestWhileEditing(t *testing.T) {
	s := New()
	s.AddPoint(orb.Point{1, 1})
	s.AddPoint(orb.Point{2, 2})
	s.AddPoint(orb.Point{3, 3})

	b := &slowBackend{started: make(chan struct{}), release: make(chan struct{})}
	var wg sync.WaitGroup
	var err error
	wg.Add(1)
	go func() {
		defer wg.Done()
		err = s.RequestSkeleton(context.Background(), b)
	}()

	<-b.started
	for i := 0; i < 50; i++ {
		s.UndoPoint()
		s.AddPoint(orb.Point{float64(100 + i), 0})
	}
	close(b.release)
	wg.Wait()
	assert.NoError(t, err)
}

func TestUndoPoint(t *testing.T) {
	s := New()
	assert.False(t, s.UndoPoint())

	triangle(s)
	require.NoError(t, s.ClosePolygon())

	// reopens the polygon without its closing point
	assert.True(t, s.UndoPoint())
	assert.Empty(t, s.Polygons())
	assert.Equal(t, orb.LineString{{0, 0}, {100, 0}, {50, 80}}, s.Current())

	assert.True(t, s.UndoPoint())
	assert.Len(t, s.Current(), 2)
}

func TestClear(t *testing.T) {
	s := New()
	triangle(s)
	require.NoError(t, s.ClosePolygon())
	s.SetText("Lake")
	s.SetEdges([]geom.Segment{{{0, 0}, {1, 1}}})
	s.SetPlacement(geom.Placement{R: 5})

	s.Clear()
	assert.Empty(t, s.Polylines())
	assert.Empty(t, s.Edges())
	assert.Equal(t, DefaultPlacement(), s.Placement())
	assert.Equal(t, "Lake", s.Text())
}

func TestRequestSkeleton(t *testing.T) {
	s := New()
	triangle(s)
	fb := &fakeBackend{edges: []geom.Segment{{{50, 10}, {50, 40}}}}

	require.NoError(t, s.RequestSkeleton(context.Background(), fb))
	assert.Equal(t, fb.edges, s.Edges())
	assert.Equal(t, s.Polylines(), fb.lines)

	fb.err = errors.New("down")
	fb.edges = nil
	err := s.RequestSkeleton(context.Background(), fb)
	assert.ErrorContains(t, err, "skeleton: down")
	assert.Len(t, s.Edges(), 1)
}

func TestRequestLabel(t *testing.T) {
	s := New()
	triangle(s)
	require.NoError(t, s.ClosePolygon())
	s.SetText("Pond")
	want := geom.Placement{C: orb.Point{50, 30}, R: 20, H: 5, A: 1, B: 2}
	fb := &fakeBackend{placement: want}

	require.NoError(t, s.RequestLabel(context.Background(), fb))
	assert.Equal(t, "Pond", fb.text)
	assert.Equal(t, want, s.Placement())

	fb.err = errors.New("down")
	assert.Error(t, s.RequestLabel(context.Background(), fb))
	assert.Equal(t, want, s.Placement())
}

func TestDraw(t *testing.T) {
	s := New()
	triangle(s)
	require.NoError(t, s.ClosePolygon())
	s.AddPoint(orb.Point{200, 200})
	s.AddPoint(orb.Point{300, 200})
	s.SetEdges([]geom.Segment{{{50, 10}, {50, 40}}})

	rec := rendertest.New(750, 750)
	c := render.NewCanvas(rec)
	require.NoError(t, s.Draw(c))

	assert.Equal(t, []string{render.DefaultBackground}, rec.Fills)
	// polygon, open line, one skeleton edge
	require.Len(t, rec.Lines, 3)
	assert.Equal(t, render.DefaultSkeleton, rec.Lines[2].Color)
	require.Len(t, rec.Glyphs, 1)
	assert.Equal(t, 40.0, rec.Glyphs[0].Size)
	require.Len(t, rec.Arcs, 1)
	assert.InDelta(t, 100, rec.Arcs[0].Radius, 1e-9)
}

func TestBoundGrowsWithGeometry(t *testing.T) {
	s := New()
	s.AddPoint(orb.Point{-10, 0})
	s.AddPoint(orb.Point{800, 900})
	b := s.Bound()
	assert.Equal(t, orb.Point{-10, 0}, b.Min)
	assert.Equal(t, orb.Point{800, 900}, b.Max)
}

func TestScene(t *testing.T) {
	s := New()
	triangle(s)
	require.NoError(t, s.ClosePolygon())
	triangle(s)
	require.NoError(t, s.ClosePolygon())
	s.AddPoint(orb.Point{1, 1})

	sc := s.Scene()
	require.Equal(t, 2, sc.Len())

	b, ok := sc.Bound()
	require.True(t, ok)
	// label baseline circle: 200 +/- 88
	assert.Equal(t, orb.Point{0, 0}, b.Min)
	assert.InDelta(t, 288, b.Max[0], 1e-9)

	rec := rendertest.New(750, 750)
	require.NoError(t, sc.Draw(render.NewCanvas(rec)))
	require.Len(t, rec.Glyphs, 1)
	assert.Equal(t, DefaultText, rec.GlyphText(0))
	g := rec.Glyphs[0].Glyphs[0]
	// From = -3π/2 on screen; baseline radius 100 - 20 + 8
	assert.InDelta(t, 88, math.Hypot(g.X-200, g.Y-550), 1e-9)
}
