package game

import (
	"fmt"
	"sort"

	"ballista/internal/curve"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	colorBgDark    = rl.NewColor(10, 10, 15, 255)
	colorBgPanel   = rl.NewColor(18, 18, 24, 230)
	colorBgElement = rl.NewColor(28, 28, 38, 255)
	colorBgHover   = rl.NewColor(38, 38, 52, 255)

	colorAccent        = rl.NewColor(108, 99, 255, 255)
	colorTextPrimary   = rl.NewColor(255, 255, 255, 255)
	colorTextSecondary = rl.NewColor(200, 200, 208, 255)
	colorTextMuted     = rl.NewColor(119, 119, 119, 255)
)

const (
	panelW = 300
	rowH   = 22
)

// initRayguiStyle sets up the dark theme. Must run after the window exists.
func initRayguiStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgDark))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorBgHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorTextSecondary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorTextPrimary))

	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(50, 50, 65, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 15)
}

func (g *Game) DrawUI() {
	rl.DrawText("RMB+mouse to look, WASD/QE to fly", 10, 10, 18, rl.Gray)
	rl.DrawText("Space fire, T retarget, Tab next shooter, R reset, P pause, F5 save, F1 debug", 10, 32, 18, rl.Gray)
	rl.DrawFPS(10, 56)

	if g.status != "" && rl.GetTime()-g.statusTime < 3 {
		rl.DrawText(g.status, 10, int32(rl.GetScreenHeight())-30, 20, rl.Yellow)
	}

	g.drawShooterPanel()

	if g.DebugMode {
		g.drawDebug()
	}
}

func (g *Game) drawShooterPanel() {
	s := g.Selected()
	if s == nil {
		return
	}

	x := float32(rl.GetScreenWidth() - panelW - 10)
	y := float32(10)
	rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y, Width: panelW, Height: 250}, colorBgPanel)

	x += 10
	y += 8
	name := s.GetGameObject().Name
	target := "none"
	if t := s.Target.Get(g.World.Scene); t != nil {
		target = t.Name
	}
	rl.DrawText(fmt.Sprintf("%s -> %s", name, target), int32(x), int32(y), 18, colorTextPrimary)
	y += rowH + 6

	labelW := float32(90)
	sliderW := float32(panelW - 20 - labelW - 50)
	row := func(label string) rl.Rectangle {
		rl.DrawText(label, int32(x), int32(y)+4, 15, colorTextMuted)
		b := rl.Rectangle{X: x + labelW, Y: y, Width: sliderW, Height: rowH - 4}
		y += rowH
		return b
	}

	s.LaunchSpeed = gui.Slider(row("Speed"), "", fmt.Sprintf("%.1f", s.LaunchSpeed), s.LaunchSpeed, 5, 40)
	s.ForwardOffset = gui.Slider(row("Fwd offset"), "", fmt.Sprintf("%.2f", s.ForwardOffset), s.ForwardOffset, 0, 2)
	s.ProbeRadius = gui.Slider(row("Probe"), "", fmt.Sprintf("%.2f", s.ProbeRadius), s.ProbeRadius, 0, 0.5)
	s.Cooldown = gui.Slider(row("Cooldown"), "", fmt.Sprintf("%.2f", s.Cooldown), s.Cooldown, 0.05, 2)

	res := s.Preview.Renderer.Resolution()
	newRes := int(gui.Slider(row("Curve pts"), "", fmt.Sprintf("%d", res), float32(res), 2, 60))
	if newRes != res {
		s.Preview.Renderer = curve.NewRenderer(newRes)
	}

	s.AutoFire = gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: rowH - 4, Height: rowH - 4}, "Auto fire", s.AutoFire)
	if gui.Button(rl.Rectangle{X: x + 130, Y: y, Width: 80, Height: rowH - 2}, "Fire") {
		g.fire(s)
	}
	y += rowH + 4

	aim := s.LastAim()
	switch {
	case !s.Target.IsValid():
		rl.DrawText("no target", int32(x), int32(y), 16, colorTextMuted)
	case aim.Fallback:
		rl.DrawText("out of range: straight shot", int32(x), int32(y), 16, rl.Orange)
	default:
		rl.DrawText(fmt.Sprintf("angle %.1f deg, eta %.2fs", aim.Solution.Angle*rl.Rad2deg, aim.Solution.TravelTime), int32(x), int32(y), 16, rl.Lime)
	}
}

func (g *Game) drawDebug() {
	y := int32(90)
	stats := g.World.Registry.Stats()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		st := stats[name]
		rl.DrawText(fmt.Sprintf("%-10s active %3d idle %3d created %3d evicted %3d peak %3d",
			name, st.Active, st.Idle, st.Created, st.Evicted, st.HighWater), 10, y, 16, rl.Green)
		y += 20
	}
	rl.DrawText(fmt.Sprintf("Update: %.2f ms", g.updateMs), 10, y, 16, rl.Green)
	rl.DrawText(fmt.Sprintf("Draw:   %.2f ms", g.drawMs), 10, y+20, 16, rl.Green)
	rl.DrawText(fmt.Sprintf("Clock:  %.2f s", g.World.Launcher.Clock()), 10, y+40, 16, rl.Lime)
}
