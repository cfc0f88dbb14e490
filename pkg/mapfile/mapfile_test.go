package mapfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/area-labeler/pkg/scene"
)

const areaJSON = `{
  "type": "Feature",
  "geometry": {"type": "Polygon", "coordinates": [
    [[0,0],[10,0],[10,10],[0,10],[0,0]],
    [[2,2],[4,2],[4,4],[2,2]]
  ]},
  "properties": {
    "name": "park",
    "label": {
      "label": "Park",
      "baseline": {"center": [5,0], "radius": 8, "from": -1.5, "to": -0.5},
      "font": {"size": 14}
    }
  }
}`

const poiJSON = `{
  "type": "Feature",
  "geometry": {"type": "Point", "coordinates": [3,4]},
  "properties": {"label": {"label": "Well", "font": {"size": 12}}}
}`

func TestParseSingleArea(t *testing.T) {
	s, err := Parse([]byte(areaJSON))
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	a, ok := s.Items[0].(*scene.Area)
	require.True(t, ok)
	assert.Equal(t, "park", a.Name)
	assert.Len(t, a.Outer, 5)
	require.Len(t, a.Inners, 1)
	assert.Equal(t, orb.Point{4, 2}, a.Inners[0][1])

	require.NotNil(t, a.Label)
	assert.Equal(t, "Park", a.Label.Text)
	assert.Equal(t, orb.Point{5, 0}, a.Label.Center)
	assert.Equal(t, 8.0, a.Label.BaselineRadius)
	assert.Equal(t, 14.0, a.Label.FontSize)
	assert.Equal(t, -1.5, a.Label.From)
	assert.Equal(t, -0.5, a.Label.To)
}

func TestParseArrayWithPOIAndUnknown(t *testing.T) {
	in := "[" + poiJSON + `, {"type": "Topology"}, ` + areaJSON + "]"
	s, err := Parse([]byte(in))
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	poi, ok := s.Items[0].(*scene.PointOfInterest)
	require.True(t, ok)
	assert.Equal(t, "Well", poi.Label)
	assert.Equal(t, orb.Point{3, 4}, poi.Pos)
	assert.Equal(t, float64(DefaultPOIRadius), poi.Radius)
	assert.Equal(t, 12.0, poi.FontSize)

	_, ok = s.Items[1].(*scene.Area)
	assert.True(t, ok)
}

func TestParseMultiPolygon(t *testing.T) {
	in := `{"type": "Feature",
	  "geometry": {"type": "MultiPolygon", "coordinates": [
	    [[[0,0],[1,0],[1,1],[0,0]]],
	    [[[5,5],[6,5],[6,6],[5,5]]]
	  ]},
	  "properties": {"name": "isles", "label": {"label": "Isles",
	    "baseline": {"center": [0,0], "radius": 1, "from": 0, "to": 1}}}}`
	s, err := Parse([]byte(in))
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	first := s.Items[0].(*scene.Area)
	second := s.Items[1].(*scene.Area)
	require.NotNil(t, first.Label)
	assert.Equal(t, float64(DefaultFontSize), first.Label.FontSize)
	assert.Nil(t, second.Label)
	assert.Equal(t, "isles", second.Name)
}

func TestParseFeatureCollection(t *testing.T) {
	in := `{"type": "FeatureCollection", "features": [` + poiJSON + `,` + areaJSON + `]}`
	s, err := Parse([]byte(in))
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	ap, ok := s.Items[0].(*scene.AreaPOI)
	require.True(t, ok)
	require.NotNil(t, ap.Area)
	require.NotNil(t, ap.POI)
	assert.Equal(t, "park", ap.Area.Name)
	assert.Equal(t, "Well", ap.POI.Label)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("  "))
	assert.Error(t, err)

	_, err = Parse([]byte(`[{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0,0],[1,1]]}}]`))
	assert.ErrorIs(t, err, ErrUnsupportedGeometry)
	assert.Contains(t, err.Error(), "element 0")

	_, err = Parse([]byte(`{"type": "FeatureCollection", "features": []}`))
	assert.ErrorIs(t, err, ErrUnsupportedGeometry)

	_, err = Parse([]byte(`[1, 2`))
	assert.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	in := "[" + areaJSON + "," + poiJSON + `, {"type": "FeatureCollection", "features": [` + poiJSON + `,` + areaJSON + `]}]`
	s, err := Parse([]byte(in))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "["))

	back, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, s.Items, back.Items)
}

func TestEncodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.geojson")
	require.NoError(t, EncodeFile(path, scene.Demo()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"QTESTÄ"`)

	s, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, scene.Demo().Items, s.Items)
}

func TestDecodeFileMissing(t *testing.T) {
	_, err := DecodeFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
