package main

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/paulmach/orb"

	"github.com/ha1tch/area-labeler/pkg/render"
)

// cellSurface rasterises onto terminal cells. Every cell holds two
// square-ish pixels stacked vertically, drawn with half-block runes, so a
// surface of c columns and r rows is c x 2r pixels.
type cellSurface struct {
	cols, rows int
	bg         tcell.Color
	cells      []cell
}

type cell struct {
	top, bottom tcell.Color // tcell.ColorDefault when unset
	r           rune
	fg          tcell.Color
}

func newCellSurface(cols, rows int) *cellSurface {
	s := &cellSurface{bg: tcell.GetColor(render.DefaultBackground)}
	s.resizeCells(cols, rows)
	return s
}

func (s *cellSurface) resizeCells(cols, rows int) {
	s.cols, s.rows = max(cols, 0), max(rows, 0)
	s.cells = make([]cell, s.cols*s.rows)
}

// Size implements render.Surface.
func (s *cellSurface) Size() (float64, float64) {
	return float64(s.cols), float64(2 * s.rows)
}

// Resize implements render.Resizer. Sizes are pixels.
func (s *cellSurface) Resize(w, h int) error {
	s.resizeCells(w, (h+1)/2)
	return nil
}

func (s *cellSurface) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return nil
	}
	return &s.cells[row*s.cols+col]
}

// plot sets the pixel containing (x, y).
func (s *cellSurface) plot(x, y int, c tcell.Color) {
	if y < 0 {
		return
	}
	cl := s.at(x, y/2)
	if cl == nil {
		return
	}
	if y%2 == 0 {
		cl.top = c
	} else {
		cl.bottom = c
	}
}

// line draws from (x0, y0) to (x1, y1) with Bresenham's algorithm.
func (s *cellSurface) line(x0, y0, x1, y1 int, c tcell.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		s.plot(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func pixel(p orb.Point) (int, int) {
	return int(math.Floor(p[0])), int(math.Floor(p[1]))
}

// Fill implements render.Surface.
func (s *cellSurface) Fill(color string) error {
	s.bg = tcell.GetColor(color)
	clear(s.cells)
	return nil
}

// StrokePolyline implements render.Surface. Widths below two pixels are
// drawn one pixel wide.
func (s *cellSurface) StrokePolyline(points []orb.Point, color string, width float64) error {
	c := tcell.GetColor(color)
	w, h := s.Size()
	for i := 1; i < len(points); i++ {
		p, q, ok := clipSegment(points[i-1], points[i], w, h)
		if !ok {
			continue
		}
		x0, y0 := pixel(p)
		x1, y1 := pixel(q)
		s.line(x0, y0, x1, y1, c)
	}
	return nil
}

// clipSegment cuts p-q to the surface grown by one pixel on every side
// (Liang-Barsky). ok is false when nothing of the segment is visible.
func clipSegment(p, q orb.Point, w, h float64) (orb.Point, orb.Point, bool) {
	dx, dy := q[0]-p[0], q[1]-p[1]
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, p[0] + 1},
		{dx, w + 1 - p[0]},
		{-dy, p[1] + 1},
		{dy, h + 1 - p[1]},
	}
	for _, e := range edges {
		pk, qk := e[0], e[1]
		if pk == 0 {
			if qk < 0 {
				return p, q, false
			}
			continue
		}
		t := qk / pk
		if pk < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 > t1 {
			return p, q, false
		}
	}
	return orb.Point{p[0] + t0*dx, p[1] + t0*dy}, orb.Point{p[0] + t1*dx, p[1] + t1*dy}, true
}

// StrokeArc implements render.Surface by sampling the arc about every
// pixel.
func (s *cellSurface) StrokeArc(center orb.Point, r, from, to float64, color string, width float64) error {
	if r <= 0 || from == to || math.IsNaN(r) {
		return nil
	}
	for to < from {
		to += 2 * math.Pi
	}
	sweep := math.Min(to-from, 2*math.Pi)
	n := max(int(math.Ceil(sweep*r)), 8)
	pts := make([]orb.Point, n+1)
	for i := range pts {
		a := from + sweep*float64(i)/float64(n)
		pts[i] = orb.Point{center[0] + r*math.Cos(a), center[1] + r*math.Sin(a)}
	}
	return s.StrokePolyline(pts, color, width)
}

// FillGlyphs implements render.Surface. Cells cannot rotate text, so
// each glyph is placed upright in the cell above its baseline point.
func (s *cellSurface) FillGlyphs(glyphs []render.Glyph, size float64, color string) error {
	c := tcell.GetColor(color)
	for _, g := range glyphs {
		x, y := pixel(orb.Point{g.X, g.Y - 1})
		s.putRune(x, y/2, g.Rune, c)
	}
	return nil
}

// FillText implements render.Surface.
func (s *cellSurface) FillText(str string, at orb.Point, size float64, color string) error {
	c := tcell.GetColor(color)
	x, y := pixel(orb.Point{at[0], at[1] - 1})
	col := x - runewidth.StringWidth(str)/2
	for _, r := range str {
		s.putRune(col, y/2, r, c)
		col += max(runewidth.RuneWidth(r), 1)
	}
	return nil
}

func (s *cellSurface) putRune(col, row int, r rune, c tcell.Color) {
	if cl := s.at(col, row); cl != nil {
		cl.r, cl.fg = r, c
	}
}

// flush copies the cells to screen with the top-left corner at (x, y).
func (s *cellSurface) flush(screen tcell.Screen, x, y int) {
	base := tcell.StyleDefault.Background(s.bg)
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			r, st := s.cells[row*s.cols+col].look(base, s.bg)
			screen.SetContent(x+col, y+row, r, nil, st)
		}
	}
}

// look picks the rune and style that show a cell.
func (c cell) look(base tcell.Style, bg tcell.Color) (rune, tcell.Style) {
	if c.r != 0 {
		return c.r, base.Foreground(c.fg)
	}
	top, bottom := c.top != tcell.ColorDefault, c.bottom != tcell.ColorDefault
	switch {
	case top && bottom && c.top == c.bottom:
		return '█', base.Foreground(c.top)
	case top && bottom:
		return '▀', base.Foreground(c.top).Background(c.bottom)
	case top:
		return '▀', base.Foreground(c.top)
	case bottom:
		return '▄', base.Foreground(c.bottom)
	default:
		return ' ', base
	}
}

// runeAt reports the rune a flush would write at (col, row).
func (s *cellSurface) runeAt(col, row int) rune {
	cl := s.at(col, row)
	if cl == nil {
		return 0
	}
	r, _ := cl.look(tcell.StyleDefault, s.bg)
	return r
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
