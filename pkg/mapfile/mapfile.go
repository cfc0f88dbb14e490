// Package mapfile reads and writes labelled map data in a GeoJSON
// dialect.
//
// A file holds either a single object or an array of objects. Each
// object is one of:
//
//   - a Feature with Point geometry: a point of interest
//   - a Feature with Polygon or MultiPolygon geometry: an area
//   - a FeatureCollection: an area paired with a point of interest
//
// Label data lives under properties.label:
//
//	{"label": "Text",
//	 "baseline": {"center": [x, y], "radius": r, "from": a, "to": b},
//	 "font": {"size": 20},
//	 "radius": 120}
//
// baseline applies to areas, radius to points of interest.
package mapfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/ha1tch/area-labeler/pkg/logging"
	"github.com/ha1tch/area-labeler/pkg/scene"
)

// Defaults applied when a file omits a value.
const (
	DefaultPOIRadius = 120
	DefaultFontSize  = 20
)

// ErrUnsupportedGeometry is returned for features whose geometry cannot
// be mapped onto a scene item.
var ErrUnsupportedGeometry = errors.New("mapfile: unsupported geometry")

type labelProps struct {
	Label    string         `json:"label"`
	Baseline *baselineProps `json:"baseline,omitempty"`
	Font     fontProps      `json:"font"`
	Radius   *float64       `json:"radius,omitempty"`
}

type baselineProps struct {
	Center orb.Point `json:"center"`
	Radius float64   `json:"radius"`
	From   float64   `json:"from"`
	To     float64   `json:"to"`
}

type fontProps struct {
	Size float64 `json:"size"`
}

type featureProps struct {
	Name  string      `json:"name,omitempty"`
	Label *labelProps `json:"label,omitempty"`
}

// Decode parses r into a scene.
func Decode(r io.Reader) (*scene.Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read map data: %w", err)
	}
	return Parse(data)
}

// DecodeFile reads a map file.
func DecodeFile(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes map data held in memory.
func Parse(data []byte) (*scene.Scene, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty input")
	}

	var elems []json.RawMessage
	if data[0] == '[' {
		if err := json.Unmarshal(data, &elems); err != nil {
			return nil, fmt.Errorf("parse array: %w", err)
		}
	} else {
		elems = []json.RawMessage{data}
	}

	s := scene.New()
	for i, raw := range elems {
		items, err := parseElem(raw)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		s.Add(items...)
	}
	return s, nil
}

func parseElem(raw json.RawMessage) ([]scene.Item, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}

	switch head.Type {
	case "Feature":
		f, err := geojson.UnmarshalFeature(raw)
		if err != nil {
			return nil, err
		}
		return parseFeature(f)
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(raw)
		if err != nil {
			return nil, err
		}
		ap, err := parseAreaPOI(fc)
		if err != nil {
			return nil, err
		}
		return []scene.Item{ap}, nil
	default:
		logging.Logger().Warn("skipping unknown geojson type", "type", head.Type)
		return nil, nil
	}
}

func parseFeature(f *geojson.Feature) ([]scene.Item, error) {
	props, err := decodeProps(f.Properties)
	if err != nil {
		return nil, err
	}

	switch g := f.Geometry.(type) {
	case orb.Point:
		return []scene.Item{parsePOI(g, props)}, nil
	case orb.Polygon:
		return []scene.Item{parseArea(g, props)}, nil
	case orb.MultiPolygon:
		items := make([]scene.Item, 0, len(g))
		for i, poly := range g {
			a := parseArea(poly, props)
			if i > 0 {
				a.Label = nil
			}
			items = append(items, a)
		}
		return items, nil
	case nil:
		return nil, fmt.Errorf("%w: feature has no geometry", ErrUnsupportedGeometry)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, g.GeoJSONType())
	}
}

func parseAreaPOI(fc *geojson.FeatureCollection) (*scene.AreaPOI, error) {
	ap := &scene.AreaPOI{}
	for _, f := range fc.Features {
		props, err := decodeProps(f.Properties)
		if err != nil {
			return nil, err
		}
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			if ap.Area == nil {
				ap.Area = parseArea(g, props)
			}
		case orb.MultiPolygon:
			if ap.Area == nil && len(g) > 0 {
				ap.Area = parseArea(g[0], props)
			}
		case orb.Point:
			if ap.POI == nil {
				ap.POI = parsePOI(g, props)
			}
		}
	}
	if ap.Area == nil && ap.POI == nil {
		return nil, fmt.Errorf("%w: feature collection has no polygon or point", ErrUnsupportedGeometry)
	}
	return ap, nil
}

func decodeProps(p geojson.Properties) (featureProps, error) {
	var props featureProps
	if len(p) == 0 {
		return props, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return props, err
	}
	if err := json.Unmarshal(data, &props); err != nil {
		return props, fmt.Errorf("properties: %w", err)
	}
	return props, nil
}

func fontSize(l *labelProps) float64 {
	if l == nil || l.Font.Size <= 0 {
		return DefaultFontSize
	}
	return l.Font.Size
}

func parsePOI(p orb.Point, props featureProps) *scene.PointOfInterest {
	poi := &scene.PointOfInterest{
		Pos:      p,
		Radius:   DefaultPOIRadius,
		FontSize: fontSize(props.Label),
	}
	if l := props.Label; l != nil {
		poi.Label = l.Label
		if l.Radius != nil {
			poi.Radius = *l.Radius
		}
	}
	if poi.Label == "" {
		poi.Label = props.Name
	}
	return poi
}

func parseArea(poly orb.Polygon, props featureProps) *scene.Area {
	a := &scene.Area{Name: props.Name}
	if len(poly) > 0 {
		a.Outer = poly[0]
		a.Inners = poly[1:]
	}
	if l := props.Label; l != nil && l.Baseline != nil {
		a.Label = &scene.AreaLabel{
			Text:           l.Label,
			Center:         l.Baseline.Center,
			BaselineRadius: l.Baseline.Radius,
			FontSize:       fontSize(l),
			From:           l.Baseline.From,
			To:             l.Baseline.To,
		}
	}
	return a
}
