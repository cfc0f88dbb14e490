// Package geom holds the small geometric descriptors exchanged between the
// labelling backend, the scene model and the renderers.
package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// Segment is a straight edge between two points. It encodes as
// [[x1,y1],[x2,y2]].
type Segment [2]orb.Point

// Length returns the Euclidean length of s.
func (s Segment) Length() float64 {
	return math.Hypot(s[1][0]-s[0][0], s[1][1]-s[0][1])
}

// Placement describes a curved label fitted into a polygon: the text
// band is the annulus of radius R ± H around C, spanning angles A..B
// (radians, counter-clockwise in data space).
type Placement struct {
	C orb.Point `json:"c"`
	R float64   `json:"r"`
	H float64   `json:"h"`
	A float64   `json:"a"`
	B float64   `json:"b"`
}

// Bound returns the bounding box of the outer edge of the label band.
func (p Placement) Bound() orb.Bound {
	r := p.R + p.H
	return orb.Bound{
		Min: orb.Point{p.C[0] - r, p.C[1] - r},
		Max: orb.Point{p.C[0] + r, p.C[1] + r},
	}
}

// Segments splits each polyline into its consecutive edges.
func Segments(polylines []orb.LineString) []Segment {
	var out []Segment
	for _, line := range polylines {
		for i := 1; i < len(line); i++ {
			out = append(out, Segment{line[i-1], line[i]})
		}
	}
	return out
}

// Subsample splits every segment into k = ceil(n/len(segs)) equal pieces,
// so the result has at least n segments. Inputs that already have n or
// more segments are returned unchanged.
func Subsample(segs []Segment, n int) []Segment {
	if len(segs) == 0 || n <= len(segs) {
		return segs
	}
	k := int(math.Ceil(float64(n) / float64(len(segs))))
	out := make([]Segment, 0, k*len(segs))
	for _, s := range segs {
		prev := s[0]
		for i := 1; i <= k; i++ {
			t := float64(i) / float64(k)
			next := orb.Point{
				s[0][0] + t*(s[1][0]-s[0][0]),
				s[0][1] + t*(s[1][1]-s[0][1]),
			}
			out = append(out, Segment{prev, next})
			prev = next
		}
	}
	return out
}

// Close returns line with its first point appended, unless it is
// already closed or empty.
func Close(line orb.LineString) orb.LineString {
	if len(line) == 0 || line[0].Equal(line[len(line)-1]) {
		return line
	}
	closed := make(orb.LineString, len(line), len(line)+1)
	copy(closed, line)
	return append(closed, line[0])
}

// Pad grows b by d on every side.
func Pad(b orb.Bound, d float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.Min[0] - d, b.Min[1] - d},
		Max: orb.Point{b.Max[0] + d, b.Max[1] + d},
	}
}

// Circle returns the bound of the disk of radius r around c.
func Circle(c orb.Point, r float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{c[0] - r, c[1] - r},
		Max: orb.Point{c[0] + r, c[1] + r},
	}
}

// Union merges bounds. ok is false when there are none.
func Union(bounds ...orb.Bound) (b orb.Bound, ok bool) {
	for i, next := range bounds {
		if i == 0 {
			b = next
			continue
		}
		b = b.Union(next)
	}
	return b, len(bounds) > 0
}

// BoundOf returns the bounding box of the non-empty geometries in gs,
// grown by pad on every side. ok is false when every geometry is empty.
func BoundOf(pad float64, gs ...orb.Geometry) (orb.Bound, bool) {
	bounds := make([]orb.Bound, 0, len(gs))
	for _, g := range gs {
		if !isEmpty(g) {
			bounds = append(bounds, g.Bound())
		}
	}
	b, ok := Union(bounds...)
	if !ok {
		return orb.Bound{}, false
	}
	return Pad(b, pad), true
}

func isEmpty(g orb.Geometry) bool {
	switch g := g.(type) {
	case nil:
		return true
	case orb.MultiPoint:
		return len(g) == 0
	case orb.LineString:
		return len(g) == 0
	case orb.Ring:
		return len(g) == 0
	case orb.Polygon:
		return len(g) == 0 || len(g[0]) == 0
	case orb.MultiPolygon:
		return len(g) == 0
	}
	return false
}
