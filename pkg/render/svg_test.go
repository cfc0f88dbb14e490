package render

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSVGSurface(t *testing.T) {
	var buf bytes.Buffer
	s := NewSVGSurface(&buf, 200, 100)
	c := NewCanvas(s)

	require.NoError(t, c.Redraw())
	require.NoError(t, c.DrawPolyline(orb.LineString{{0, 0}, {100, 50}}, "#000000", 2))
	require.NoError(t, s.FillText("a<b", orb.Point{20, 30}, 12, "#000000"))
	require.NoError(t, s.FillGlyphs([]Glyph{{Rune: 'Q', X: 10, Y: 20, Rotation: math.Pi / 2}}, 10, "#111111"))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	out := buf.String()
	assert.Contains(t, out, `width="200"`)
	assert.Contains(t, out, "fill:#DDDDDD")
	assert.Contains(t, out, `d="M0,100 L100,50"`)
	assert.Contains(t, out, "stroke-width:2")
	assert.Contains(t, out, "a&lt;b")
	assert.Contains(t, out, "translate(10,20) rotate(90)")
	assert.Equal(t, 1, strings.Count(out, "</svg>"))
}

func TestSVGArc(t *testing.T) {
	var buf bytes.Buffer
	s := NewSVGSurface(&buf, 100, 100)

	require.NoError(t, s.StrokeArc(orb.Point{50, 50}, 10, 0, math.Pi/2, "#666666", 1))
	require.NoError(t, s.StrokeArc(orb.Point{50, 50}, 10, 0, 3*math.Pi/2, "#666666", 1))
	require.NoError(t, s.StrokeArc(orb.Point{50, 50}, 10, 0, 2*math.Pi, "#666666", 1))
	require.NoError(t, s.StrokeArc(orb.Point{50, 50}, 10, 1, 1, "#666666", 1))
	require.NoError(t, s.Close())

	out := buf.String()
	assert.Contains(t, out, `d="M60,50 A10,10 0 0 1 50,60"`)
	assert.Contains(t, out, `A10,10 0 1 1 50,40`)
	assert.Contains(t, out, `M60,50 A10,10 0 0 1 40,50 A10,10 0 0 1 60,50`)
	assert.Equal(t, 3, strings.Count(out, "<path"))
}

func TestNum(t *testing.T) {
	assert.Equal(t, "1.5", num(1.5))
	assert.Equal(t, "2", num(2.0001))
	assert.Equal(t, "0", num(-0.001))
	assert.Equal(t, "-3.25", num(-3.25))
}
