package render

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/area-labeler/pkg/geom"
	"github.com/ha1tch/area-labeler/pkg/projection"
)

func TestNewCanvasDefaultProjector(t *testing.T) {
	c := NewCanvas(newRecorder(400, 300))
	w, h := c.Size()
	assert.Equal(t, 400.0, w)
	assert.Equal(t, 300.0, h)
	assert.InDelta(t, 1, c.Projector().Scaling(), 1e-12)
	assert.Equal(t, orb.Point{0, 300}, c.Projector().Project(orb.Point{0, 0}))
}

func TestDrawBackground(t *testing.T) {
	rec := newRecorder(10, 10)
	c := NewCanvas(rec)
	require.NoError(t, c.Redraw())
	require.NoError(t, c.DrawBackground("#FFFFFF"))
	assert.Equal(t, []string{DefaultBackground, "#FFFFFF"}, rec.fills)
}

func TestDrawPolygon(t *testing.T) {
	rec := newRecorder(100, 100)
	c := NewCanvas(rec)

	poly := orb.Polygon{
		{{0, 0}, {100, 0}, {100, 100}, {0, 0}},
		{{10, 10}, {20, 10}, {20, 20}},
		{{50, 50}, {60, 60}},
	}
	require.NoError(t, c.DrawPolygon(poly, DefaultPolygonStyle()))
	require.Len(t, rec.lines, 3)

	assert.Equal(t, 2.0, rec.lines[0].width)
	assert.Equal(t, 1.0, rec.lines[1].width)
	assert.Equal(t, 1.0, rec.lines[2].width)
	assert.Equal(t, DefaultStroke, rec.lines[0].color)

	// projected and not auto-closed
	assert.Equal(t, []orb.Point{{10, 90}, {20, 90}, {20, 80}}, rec.lines[1].points)
}

func TestDrawArcScaling(t *testing.T) {
	rec := newRecorder(200, 200)
	c := NewCanvas(rec)
	c.SetProjector(projection.NewLinearProjector(projection.Range{Max: 100}, projection.Range{Max: 100}, 200, 200))

	arc := Arc{Center: orb.Point{50, 50}, Radius: 10, From: 0, To: math.Pi}
	require.NoError(t, c.DrawArc(arc, DefaultArc, 1, true))
	require.NoError(t, c.DrawArc(arc, DefaultArc, 1, false))
	require.Len(t, rec.arcs, 2)

	assert.Equal(t, orb.Point{100, 100}, rec.arcs[0].c)
	assert.InDelta(t, 20, rec.arcs[0].r, 1e-12)
	assert.Equal(t, orb.Point{50, 50}, rec.arcs[1].c)
	assert.InDelta(t, 10, rec.arcs[1].r, 1e-12)
}

func TestDrawCurvedLabel(t *testing.T) {
	rec := newRecorder(200, 200)
	c := NewCanvas(rec)
	c.SetProjector(projection.NewLinearProjector(projection.Range{Max: 100}, projection.Range{Max: 100}, 200, 200))

	l := CurvedLabel{
		Center:         orb.Point{50, 50},
		BaselineRadius: 25,
		FontSize:       12,
		From:           -math.Pi / 2,
		To:             0,
		Text:           "HI",
	}
	require.NoError(t, c.DrawCurvedLabel(l))
	require.Len(t, rec.glyphs, 1)
	got := rec.glyphs[0]
	assert.Equal(t, 12.0, got.size)
	require.Len(t, got.glyphs, 2)
	for _, g := range got.glyphs {
		// baseline radius 25 data units = 50 px around (100,100)
		assert.InDelta(t, 50, math.Hypot(g.X-100, g.Y-100), 1e-9)
	}

	require.NoError(t, c.DrawCurvedLabel(CurvedLabel{}))
	assert.Len(t, rec.glyphs, 1)
}

func TestDrawDiskLabel(t *testing.T) {
	rec := newRecorder(100, 100)
	c := NewCanvas(rec)
	require.NoError(t, c.DrawDiskLabel(DiskLabel{Center: orb.Point{50, 50}, Radius: 5, Size: 20, Text: "POI"}))
	require.Len(t, rec.texts, 1)
	assert.Equal(t, "POI", rec.texts[0].s)
	assert.InDelta(t, 50, rec.texts[0].at[0], 1e-12)
	assert.InDelta(t, 48, rec.texts[0].at[1], 1e-12)
	assert.Equal(t, DefaultText, rec.texts[0].color)
}

func TestLabelColor(t *testing.T) {
	rec := newRecorder(100, 100)
	c := NewCanvas(rec)
	require.NoError(t, c.DrawDiskLabel(DiskLabel{Center: orb.Point{50, 50}, Size: 10, Text: "P", Color: "#FF0000"}))
	require.NoError(t, c.DrawCurvedLabel(CurvedLabel{
		Center: orb.Point{50, 50}, BaselineRadius: 20, FontSize: 10, From: 0, To: 1, Text: "C", Color: "#00FF00",
	}))
	require.NoError(t, c.DrawCurvedLabel(CurvedLabel{
		Center: orb.Point{50, 50}, BaselineRadius: 20, FontSize: 10, From: 0, To: 1, Text: "D",
	}))
	require.Len(t, rec.texts, 1)
	require.Len(t, rec.glyphs, 2)
	assert.Equal(t, "#FF0000", rec.texts[0].color)
	assert.Equal(t, "#00FF00", rec.glyphs[0].color)
	assert.Equal(t, DefaultText, rec.glyphs[1].color)
}

func TestDrawSegments(t *testing.T) {
	rec := newRecorder(100, 100)
	c := NewCanvas(rec)
	segs := []geom.Segment{{{0, 0}, {10, 10}}, {{10, 10}, {20, 0}}}
	require.NoError(t, c.DrawSegments(segs, DefaultSkeleton, 1))
	require.Len(t, rec.lines, 2)
	assert.Equal(t, []orb.Point{{0, 100}, {10, 90}}, rec.lines[0].points)
}

func TestDrawPlacementUpperHalf(t *testing.T) {
	rec := newRecorder(400, 400)
	c := NewCanvas(rec)

	// data-space arc over the top (a=π/4..b=3π/4) reads left to right
	p := geom.Placement{C: orb.Point{200, 200}, R: 100, H: 10, A: math.Pi / 4, B: 3 * math.Pi / 4}
	require.NoError(t, c.DrawPlacement(p, "ABC", DefaultPlacementStyle()))

	require.Len(t, rec.glyphs, 1)
	g := rec.glyphs[0]
	assert.Equal(t, 20.0, g.size)
	require.Len(t, g.glyphs, 3)
	assert.Equal(t, 'A', g.glyphs[0].Rune)
	// first glyph on the left
	assert.Less(t, g.glyphs[0].X, g.glyphs[2].X)
	// all above the centre on screen
	for _, gl := range g.glyphs {
		assert.Less(t, gl.Y, 200.0)
		assert.InDelta(t, 90+4, math.Hypot(gl.X-200, gl.Y-200), 1e-9)
	}

	require.Len(t, rec.arcs, 1)
	assert.InDelta(t, -3*math.Pi/4, rec.arcs[0].from, 1e-12)
	assert.InDelta(t, -math.Pi/4, rec.arcs[0].to, 1e-12)
	assert.InDelta(t, 100, rec.arcs[0].r, 1e-12)
}

func TestDrawPlacementLowerHalfIsFlipped(t *testing.T) {
	rec := newRecorder(400, 400)
	c := NewCanvas(rec)

	p := geom.Placement{C: orb.Point{200, 200}, R: 100, H: 10, A: -3 * math.Pi / 4, B: -math.Pi / 4}
	require.NoError(t, c.DrawPlacement(p, "ABC", DefaultPlacementStyle()))

	require.Len(t, rec.glyphs, 1)
	g := rec.glyphs[0].glyphs
	require.Len(t, g, 3)
	// reversed order but still left to right on screen
	assert.Equal(t, 'C', g[0].Rune)
	assert.Equal(t, 'A', g[2].Rune)
	assert.Greater(t, g[0].X, g[2].X)
	for _, gl := range g {
		assert.Greater(t, gl.Y, 200.0)
		assert.InDelta(t, 90+16, math.Hypot(gl.X-200, gl.Y-200), 1e-9)
	}
}

func TestResizeRequiresResizer(t *testing.T) {
	c := NewCanvas(newRecorder(10, 10))
	assert.ErrorIs(t, c.Resize(20, 20), ErrNotResizable)
}
