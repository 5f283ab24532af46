package main

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Plot maps the XY plane of the range onto terminal cells. Row 0 is the top of
// the screen, so Y grows upward on screen.
type Plot struct {
	Cols, Rows int
	MinX, MaxX float32
	MinY, MaxY float32
}

// Cell returns the screen cell for v. ok is false when v falls outside the view.
func (p Plot) Cell(v rl.Vector3) (col, row int, ok bool) {
	if p.Cols <= 0 || p.Rows <= 0 || p.MaxX <= p.MinX || p.MaxY <= p.MinY {
		return 0, 0, false
	}
	fx := (v.X - p.MinX) / (p.MaxX - p.MinX)
	fy := (v.Y - p.MinY) / (p.MaxY - p.MinY)
	if fx < 0 || fx > 1 || fy < 0 || fy > 1 {
		return 0, 0, false
	}
	col = int(math.Round(float64(fx) * float64(p.Cols-1)))
	row = p.Rows - 1 - int(math.Round(float64(fy)*float64(p.Rows-1)))
	return col, row, true
}

// Fit returns a plot of the given size that frames every point with a margin,
// always including the origin and the ground line.
func Fit(cols, rows int, pts ...rl.Vector3) Plot {
	p := Plot{Cols: cols, Rows: rows, MinX: 0, MaxX: 1, MinY: 0, MaxY: 1}
	for _, v := range pts {
		p.MinX = min(p.MinX, v.X)
		p.MaxX = max(p.MaxX, v.X)
		p.MinY = min(p.MinY, v.Y)
		p.MaxY = max(p.MaxY, v.Y)
	}
	padX := (p.MaxX - p.MinX) * 0.05
	padY := (p.MaxY - p.MinY) * 0.1
	p.MinX -= padX
	p.MaxX += padX
	p.MinY -= padY
	p.MaxY += padY
	return p
}
