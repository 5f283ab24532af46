package game

import (
	"time"

	"ballista/internal/components"
	"ballista/internal/engine"
	"ballista/internal/projectile"
	"ballista/internal/scripts"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var layerColor = map[engine.Layer]rl.Color{
	engine.LayerTerrain: rl.LightGray,
	engine.LayerTarget:  rl.Red,
}

func (g *Game) Draw() {
	cam := g.Camera.GetRaylibCamera()

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(20, 20, 30, 255))

	drawStart := time.Now()
	rl.BeginMode3D(cam)
	g.drawScene()
	g.drawPreviews()
	g.drawProjectiles()
	g.drawParticles()
	rl.EndMode3D()
	g.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0

	g.DrawUI()
	rl.EndDrawing()
}

func objectColor(obj *engine.GameObject, layer engine.Layer) rl.Color {
	if a := engine.GetComponent[*components.Appearance](obj); a != nil {
		return a.Color
	}
	if c, ok := layerColor[layer]; ok {
		return c
	}
	return rl.White
}

func (g *Game) drawScene() {
	for _, obj := range g.World.Scene.GameObjects {
		if box := engine.GetComponent[*components.BoxCollider](obj); box != nil {
			center, size := box.GetCenter(), box.GetWorldSize()
			color := objectColor(obj, box.Layer)
			if t := engine.GetComponent[*components.Target](obj); t != nil && t.MaxHealth > 0 {
				color = rl.Fade(color, 0.35+0.65*t.Health/t.MaxHealth)
			}
			rl.DrawCubeV(center, size, color)
			rl.DrawCubeWiresV(center, size, rl.DarkGray)
		}
		if sphere := engine.GetComponent[*components.SphereCollider](obj); sphere != nil {
			rl.DrawSphere(sphere.GetCenter(), sphere.Radius, objectColor(obj, sphere.Layer))
		}
		if s := engine.GetComponent[*scripts.Shooter](obj); s != nil {
			rl.DrawSphere(s.MuzzlePosition(), 0.3, rl.DarkGray)
		}
	}
	rl.DrawGrid(40, 1)
}

func (g *Game) drawPreviews() {
	selected := g.Selected()
	for _, s := range g.Shooters() {
		color := rl.Fade(rl.Yellow, 0.5)
		if s == selected {
			color = rl.Yellow
		}
		pts := s.Preview.Renderer.Points()
		for i := 1; i < len(pts); i++ {
			rl.DrawLine3D(pts[i-1], pts[i], color)
		}

		aim := s.LastAim()
		if aim.Path.Impact.Hit {
			rl.DrawSphereWires(aim.Path.Impact.Position, 0.25, 6, 6, rl.Orange)
			rl.DrawLine3D(aim.Path.Impact.Position, rl.Vector3Add(aim.Path.Impact.Position, aim.Path.Impact.Normal), rl.Orange)
		}
		if s == selected && aim.Solution.Feasible {
			rl.DrawCubeWiresV(aim.Predicted, rl.Vector3{X: 0.3, Y: 0.3, Z: 0.3}, rl.Lime)
		}

		if g.DebugMode {
			// true simulated samples under the displayed curve
			for _, smp := range aim.Path.Samples {
				rl.DrawSphere(smp.Position, 0.04, rl.SkyBlue)
			}
		}
	}
}

func (g *Game) drawProjectiles() {
	for _, p := range g.World.Launcher.Live() {
		r := p.ProbeRadius
		if r < 0.1 {
			r = 0.1
		}
		switch p.State {
		case projectile.InFlight:
			rl.DrawSphere(p.Position, r, rl.Orange)
		case projectile.Impacted:
			rl.DrawSphereWires(p.Position, r*2, 6, 6, rl.Red)
		}
	}
}

func (g *Game) drawParticles() {
	for _, p := range g.World.Effects.Live() {
		rl.DrawCube(p.Position, p.Size, p.Size, p.Size, rl.Fade(rl.Orange, p.Alpha()))
	}
}
