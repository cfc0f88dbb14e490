package scene

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/ha1tch/area-labeler/pkg/projection"
)

// DemoXRange and DemoYRange frame the demo scene.
var (
	DemoXRange = projection.Range{Min: 0, Max: 500}
	DemoYRange = projection.Range{Min: -50, Max: 150}
)

// Demo returns the reference scene: a quadrilateral area with two inner
// rings and a curved label, plus two points of interest.
func Demo() *Scene {
	area := &Area{
		Name:  "demo",
		Outer: orb.Ring{{0, 0}, {450, 150}, {500, 100}, {50, -50}, {0, 0}},
		Inners: []orb.Ring{
			{{100, 75}, {400, 75}, {400, 25}, {100, 25}},
			{{300, 130}, {200, 130}, {250, 130}, {250, 50}},
		},
		Label: &AreaLabel{
			Text:           "QTESTÄ",
			Center:         orb.Point{250, 0},
			BaselineRadius: 100,
			FontSize:       20,
			From:           -math.Pi / 2,
			To:             0,
		},
	}
	return New(
		area,
		&PointOfInterest{Label: "TestDisk", Pos: orb.Point{250, 130}, Radius: 50, FontSize: 20},
		&PointOfInterest{Label: "__________", Pos: orb.Point{250, 100}, Radius: 60, FontSize: 20},
	)
}

// DemoProjector returns the projector the demo scene is laid out for.
func DemoProjector(width, height float64) *projection.LinearProjector {
	return projection.NewLinearProjector(DemoXRange, DemoYRange, width, height)
}
