package main

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"github.com/paulmach/orb"

	"github.com/ha1tch/area-labeler/pkg/mapfile"
	"github.com/ha1tch/area-labeler/pkg/scene"
)

const infoUsage = "Usage: area-labeler info <input>"

func cmdInfo(args []string) {
	o, _ := setup(args, infoUsage, true)

	s, err := mapfile.DecodeFile(o.input)
	if err != nil {
		fatalf("Error loading %s: %v", o.input, err)
	}

	out := termenv.NewOutput(os.Stdout)
	key := func(k string) string {
		return out.String(fmt.Sprintf("%-10s", k)).Foreground(out.Color("4")).Bold().String()
	}
	kind := func(k string) string {
		return out.String(k).Foreground(out.Color("2")).String()
	}

	var nAreas, nPOIs int
	for _, it := range s.Items {
		switch v := it.(type) {
		case *scene.Area:
			nAreas++
		case *scene.PointOfInterest:
			nPOIs++
		case *scene.AreaPOI:
			if v.Area != nil {
				nAreas++
			}
			if v.POI != nil {
				nPOIs++
			}
		}
	}

	fmt.Printf("%s %s\n", key("File:"), o.input)
	fmt.Printf("%s %d\n", key("Items:"), s.Len())
	fmt.Printf("%s %d\n", key("Areas:"), nAreas)
	fmt.Printf("%s %d\n", key("POIs:"), nPOIs)
	if b, ok := s.Bound(); ok {
		fmt.Printf("%s %s - %s\n", key("Bounds:"), pt(b.Min), pt(b.Max))
	}
	fmt.Println()

	for i, it := range s.Items {
		switch v := it.(type) {
		case *scene.Area:
			fmt.Printf("%3d %s %s\n", i, kind("area"), describeArea(v))
		case *scene.PointOfInterest:
			fmt.Printf("%3d %s %s\n", i, kind("poi "), describePOI(v))
		case *scene.AreaPOI:
			fmt.Printf("%3d %s\n", i, kind("pair"))
			if v.Area != nil {
				fmt.Printf("    %s %s\n", kind("area"), describeArea(v.Area))
			}
			if v.POI != nil {
				fmt.Printf("    %s %s\n", kind("poi "), describePOI(v.POI))
			}
		}
	}
}

func describeArea(a *scene.Area) string {
	name := a.Name
	if name == "" {
		name = "(unnamed)"
	}
	c, area := a.Centroid()
	desc := fmt.Sprintf("%s: %d points, %d holes, area %.1f, centroid %s",
		name, len(a.Outer), len(a.Inners), abs(area), pt(c))
	if a.Label != nil {
		desc += fmt.Sprintf(", label %q", a.Label.Text)
	}
	return desc
}

func describePOI(p *scene.PointOfInterest) string {
	return fmt.Sprintf("%q at %s, radius %.1f, size %.0f", p.Label, pt(p.Pos), p.Radius, p.FontSize)
}

func pt(p orb.Point) string {
	return fmt.Sprintf("(%.1f, %.1f)", p[0], p[1])
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
