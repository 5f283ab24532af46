package main

import (
	"fmt"
	"math"

	"ballista/internal/curve"
	"ballista/internal/trajectory"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	styleDefault = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleGround  = styleDefault.Foreground(tcell.ColorDarkGray)
	styleWall    = styleDefault.Foreground(tcell.ColorSilver)
	styleSample  = styleDefault.Foreground(tcell.ColorAqua)
	styleCurve   = styleDefault.Foreground(tcell.ColorYellow)
	styleImpact  = styleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHeader  = styleDefault.Foreground(tcell.ColorLime).Bold(true)
)

type viewer struct {
	screen tcell.Screen
	opts   options
	rec    *trajectory.Recorder
	curve  *curve.Renderer

	path  trajectory.Path
	start rl.Vector3
	err   error
}

func newViewer(o options) (*viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.SetStyle(styleDefault)

	v := &viewer{
		screen: screen,
		opts:   o,
		rec:    trajectory.NewRecorder(trajectory.NewSimulator(buildRange(o))),
		curve:  curve.NewRenderer(o.points),
	}
	v.simulate()
	return v, nil
}

func (v *viewer) params() trajectory.Params {
	return v.opts.params()
}

func (v *viewer) simulate() {
	p := v.params()
	v.start = p.Start
	v.path, v.err = v.rec.Simulate(p)
	if v.err != nil {
		v.curve.Hide()
		return
	}
	v.curve.Show(v.path.Samples, v.path.End(p.Start))
}

func (v *viewer) run() {
	defer v.screen.Fini()
	for {
		v.draw()
		ev := v.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if !v.handleKey(ev) {
				return
			}
		}
	}
}

func (v *viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		v.opts.angle = math.Min(v.opts.angle+1, 89)
	case tcell.KeyDown:
		v.opts.angle = math.Max(v.opts.angle-1, -89)
	case tcell.KeyRight:
		v.opts.speed++
	case tcell.KeyLeft:
		v.opts.speed = math.Max(v.opts.speed-1, 1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case '+':
			v.opts.points++
			v.curve = curve.NewRenderer(v.opts.points)
		case '-':
			if v.opts.points > 2 {
				v.opts.points--
			}
			v.curve = curve.NewRenderer(v.opts.points)
		default:
			return true
		}
	default:
		return true
	}
	v.simulate()
	return true
}

func (v *viewer) draw() {
	v.screen.Clear()
	cols, rows := v.screen.Size()
	plotRows := rows - 2
	if plotRows < 2 || cols < 2 {
		v.screen.Show()
		return
	}

	pts := make([]rl.Vector3, 0, len(v.path.Samples)+1)
	pts = append(pts, v.start)
	for _, s := range v.path.Samples {
		pts = append(pts, s.Position)
	}
	if v.opts.wallX > 0 {
		pts = append(pts, rl.Vector3{X: float32(v.opts.wallX), Y: float32(v.opts.wallH)})
	}
	plot := Fit(cols, plotRows, pts...)

	// ground line at y = 0
	if _, row, ok := plot.Cell(rl.Vector3{X: plot.MinX}); ok {
		for c := 0; c < cols; c++ {
			v.screen.SetContent(c, row+2, '─', nil, styleGround)
		}
	}
	if v.opts.wallX > 0 {
		for y := 0.0; y <= v.opts.wallH; y += float64(plot.MaxY-plot.MinY) / float64(plotRows) {
			v.set(plot, rl.Vector3{X: float32(v.opts.wallX), Y: float32(y)}, '█', styleWall)
		}
	}
	for _, p := range v.curve.Points() {
		v.set(plot, p, '·', styleCurve)
	}
	for _, s := range v.path.Samples {
		v.set(plot, s.Position, 'o', styleSample)
	}
	if v.path.Impact.Hit {
		v.set(plot, v.path.Impact.Position, 'X', styleImpact)
	}

	v.header(cols)
	v.screen.Show()
}

func (v *viewer) set(plot Plot, p rl.Vector3, r rune, style tcell.Style) {
	if col, row, ok := plot.Cell(p); ok {
		v.screen.SetContent(col, row+2, r, nil, style)
	}
}

func (v *viewer) header(cols int) {
	status := fmt.Sprintf("speed %.0f  angle %.0f°  points %d  samples %d  runs %d",
		v.opts.speed, v.opts.angle, v.opts.points, len(v.path.Samples), len(v.rec.Rec.Runs))
	switch {
	case v.err != nil:
		status += "  error: " + v.err.Error()
	case v.path.Impact.Hit:
		end := v.path.Impact.Position
		status += fmt.Sprintf("  hit at (%.2f, %.2f) t=%.2fs", end.X, end.Y, v.path.Duration())
	default:
		status += "  no hit"
	}
	v.text(0, 0, status, styleHeader, cols)
	v.text(0, 1, "←/→ speed  ↑/↓ angle  +/- curve points  q quit", styleGround, cols)
}

func (v *viewer) text(x, y int, s string, style tcell.Style, cols int) {
	for _, r := range s {
		if x >= cols {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
