package mapfile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb/geojson"

	"github.com/ha1tch/area-labeler/pkg/logging"
	"github.com/ha1tch/area-labeler/pkg/scene"
)

// Encode writes s as a JSON array in the format Decode reads. Items of
// other types are skipped.
func Encode(w io.Writer, s *scene.Scene) error {
	out := make([]any, 0, s.Len())
	for i, it := range s.Items {
		switch v := it.(type) {
		case *scene.Area:
			out = append(out, areaFeature(v))
		case *scene.PointOfInterest:
			out = append(out, poiFeature(v))
		case *scene.AreaPOI:
			fc := geojson.NewFeatureCollection()
			if v.Area != nil {
				fc.Append(areaFeature(v.Area))
			}
			if v.POI != nil {
				fc.Append(poiFeature(v.POI))
			}
			out = append(out, fc)
		default:
			logging.Logger().Warn("cannot encode scene item", "index", i, "type", fmt.Sprintf("%T", it))
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode map data: %w", err)
	}
	return nil
}

// EncodeFile writes s to path.
func EncodeFile(path string, s *scene.Scene) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func areaFeature(a *scene.Area) *geojson.Feature {
	f := geojson.NewFeature(a.Polygon())
	if a.Name != "" {
		f.Properties["name"] = a.Name
	}
	if l := a.Label; l != nil {
		f.Properties["label"] = labelProps{
			Label: l.Text,
			Baseline: &baselineProps{
				Center: l.Center,
				Radius: l.BaselineRadius,
				From:   l.From,
				To:     l.To,
			},
			Font: fontProps{Size: l.FontSize},
		}
	}
	return f
}

func poiFeature(p *scene.PointOfInterest) *geojson.Feature {
	f := geojson.NewFeature(p.Pos)
	r := p.Radius
	f.Properties["label"] = labelProps{
		Label:  p.Label,
		Font:   fontProps{Size: p.FontSize},
		Radius: &r,
	}
	return f
}
