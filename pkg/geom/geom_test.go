package geom

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegments(t *testing.T) {
	lines := []orb.LineString{
		{{0, 0}, {1, 0}, {1, 1}},
		{{5, 5}},
		{{2, 2}, {3, 3}},
	}
	segs := Segments(lines)
	require.Len(t, segs, 3)
	assert.Equal(t, Segment{{0, 0}, {1, 0}}, segs[0])
	assert.Equal(t, Segment{{1, 0}, {1, 1}}, segs[1])
	assert.Equal(t, Segment{{2, 2}, {3, 3}}, segs[2])
}

func TestSubsample(t *testing.T) {
	segs := []Segment{{{0, 0}, {4, 0}}, {{4, 0}, {4, 4}}}
	out := Subsample(segs, 8)
	require.Len(t, out, 8)
	assert.Equal(t, orb.Point{1, 0}, out[0][1])
	assert.Equal(t, orb.Point{4, 4}, out[7][1])

	total := 0.0
	for _, s := range out {
		total += s.Length()
	}
	assert.InDelta(t, 8, total, 1e-9)

	assert.Equal(t, segs, Subsample(segs, 1))
	assert.Empty(t, Subsample(nil, 10))
}

func TestClose(t *testing.T) {
	assert.Equal(t, orb.LineString{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, Close(orb.LineString{{0, 0}, {1, 0}, {1, 1}}))
	closed := orb.LineString{{0, 0}, {1, 0}, {0, 0}}
	assert.Equal(t, closed, Close(closed))
	assert.Empty(t, Close(nil))
}

func TestPlacementJSON(t *testing.T) {
	var p Placement
	require.NoError(t, json.Unmarshal([]byte(`{"c":[200,210],"r":100,"h":20,"a":0.5,"b":2}`), &p))
	assert.Equal(t, Placement{C: orb.Point{200, 210}, R: 100, H: 20, A: 0.5, B: 2}, p)

	b := p.Bound()
	assert.Equal(t, orb.Point{80, 90}, b.Min)
	assert.Equal(t, orb.Point{320, 330}, b.Max)
}

func TestSegmentJSON(t *testing.T) {
	var segs []Segment
	require.NoError(t, json.Unmarshal([]byte(`[[[0,1],[2,3]]]`), &segs))
	require.Len(t, segs, 1)
	assert.Equal(t, orb.Point{2, 3}, segs[0][1])
	assert.InDelta(t, math.Sqrt(8), segs[0].Length(), 1e-12)
}

func TestUnion(t *testing.T) {
	_, ok := Union()
	assert.False(t, ok)

	b, ok := Union(Circle(orb.Point{0, 0}, 1), Pad(orb.Point{5, 5}.Bound(), 2))
	require.True(t, ok)
	assert.Equal(t, orb.Point{-1, -1}, b.Min)
	assert.Equal(t, orb.Point{7, 7}, b.Max)

	// a point at the origin is a real bound
	b, ok = Union(orb.Bound{})
	assert.True(t, ok)
	assert.Equal(t, orb.Bound{}, b)
}

func TestBoundOf(t *testing.T) {
	tests := []struct {
		name string
		pad  float64
		gs   []orb.Geometry
		want orb.Bound
		ok   bool
	}{
		{"none", 0, nil, orb.Bound{}, false},
		{"only empty", 5, []orb.Geometry{nil, orb.Ring{}, orb.LineString(nil), orb.Polygon{}}, orb.Bound{}, false},
		{"origin point", 0, []orb.Geometry{orb.Point{0, 0}}, orb.Bound{}, true},
		{"ring and point", 0, []orb.Geometry{
			orb.Ring{{0, 0}, {4, 0}, {4, 3}, {0, 0}},
			orb.Point{-2, 10},
		}, orb.Bound{Min: orb.Point{-2, 0}, Max: orb.Point{4, 10}}, true},
		{"padded", 1, []orb.Geometry{
			orb.LineString{{1, 1}, {2, 3}},
			orb.Ring{},
		}, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{3, 4}}, true},
		{"bound", 0, []orb.Geometry{Circle(orb.Point{5, 5}, 2)}, orb.Bound{Min: orb.Point{3, 3}, Max: orb.Point{7, 7}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BoundOf(tt.pad, tt.gs...)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
