package game

import (
	"fmt"
	"log"
	"time"

	"ballista/internal/camera"
	"ballista/internal/components"
	"ballista/internal/config"
	"ballista/internal/engine"
	"ballista/internal/scripts"
	"ballista/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type Game struct {
	World     *world.World
	Camera    *camera.FlyCamera
	RangePath string
	DebugMode bool
	Paused    bool

	selected   int
	status     string
	statusTime float64

	// Debug timing (ms)
	updateMs float64
	drawMs   float64
}

// New builds the world from tuning and loads rangePath into it. A range that
// fails to load is replaced by the built-in layout.
func New(t config.Tuning, rangePath string) (*Game, error) {
	w, err := world.New(t)
	if err != nil {
		return nil, err
	}
	g := &Game{
		World:     w,
		Camera:    camera.New(rl.Vector3{X: -8, Y: 10, Z: 18}),
		RangePath: rangePath,
	}
	g.Camera.Yaw = -50
	g.Camera.Pitch = -25

	if rangePath != "" {
		if err := w.LoadRange(rangePath); err != nil {
			log.Printf("Game: %v, using built-in range", err)
			PopulateDefault(w)
		}
	} else {
		PopulateDefault(w)
	}
	w.OnTargetDestroyed.AddListener(func(t *engine.GameObject) {
		g.setStatus(fmt.Sprintf("%s destroyed", t.Name))
	})
	return g, nil
}

// PopulateDefault lays out a ground plane, a wall, three targets and one shooter.
func PopulateDefault(w *world.World) {
	ground := engine.NewGameObject("Ground")
	ground.Transform.Position = rl.Vector3{Y: -0.5}
	gb := components.NewBoxCollider(rl.Vector3{X: 60, Y: 1, Z: 60})
	gb.Layer = engine.LayerTerrain
	ground.AddComponent(gb)
	ground.AddComponent(components.NewAppearance(rl.LightGray))
	w.Spawn(ground)

	wall := engine.NewGameObject("Wall")
	wall.Transform.Position = rl.Vector3{X: 9, Y: 1.5, Z: -4}
	wb := components.NewBoxCollider(rl.Vector3{X: 1, Y: 3, Z: 6})
	wb.Layer = engine.LayerTerrain
	wall.AddComponent(wb)
	wall.AddComponent(components.NewAppearance(rl.Gray))
	w.Spawn(wall)

	near := w.SpawnTarget(world.TargetSpec{
		Name:     "Dummy",
		Position: rl.Vector3{X: 12, Y: 0.75},
		Size:     rl.Vector3{X: 1, Y: 1.5, Z: 1},
		Health:   3,
		Color:    rl.Maroon,
	})
	w.SpawnTarget(world.TargetSpec{
		Name:     "Tower",
		Position: rl.Vector3{X: 18, Y: 4, Z: 6},
		Size:     rl.Vector3{X: 1.5, Y: 1.5, Z: 1.5},
		Health:   5,
		Color:    rl.Gold,
	})
	w.SpawnTarget(world.TargetSpec{
		Name:      "Runner",
		Position:  rl.Vector3{X: 20, Y: 0.5, Z: -6},
		Size:      rl.Vector3{X: 1, Y: 1, Z: 1},
		Health:    4,
		Color:     rl.SkyBlue,
		Axis:      rl.Vector3{Z: 1},
		Amplitude: 5,
		Speed:     0.6,
	})

	turret := w.NewShooter("Turret", rl.Vector3{Y: 1})
	turret.Target = engine.RefTo(near)
}

func (g *Game) Run() {
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(1280, 720, "Ballista")
	defer rl.CloseWindow()

	rl.SetTargetFPS(120)
	initRayguiStyle()

	g.World.Start()
	defer g.World.Close()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}
}

func (g *Game) Update() {
	updateStart := time.Now()
	deltaTime := rl.GetFrameTime()

	g.Camera.Update(deltaTime)

	if rl.IsKeyPressed(rl.KeyF1) {
		g.DebugMode = !g.DebugMode
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.Paused = !g.Paused
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		g.saveRange()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.World.ResetRange()
		g.setStatus("range reset")
	}

	shooters := g.Shooters()
	if len(shooters) > 0 {
		if rl.IsKeyPressed(rl.KeyTab) {
			g.selected = (g.selected + 1) % len(shooters)
		}
		s := shooters[g.selected%len(shooters)]
		if rl.IsKeyPressed(rl.KeyT) {
			g.cycleTarget(s)
		}
		if rl.IsKeyPressed(rl.KeySpace) {
			g.fire(s)
		}
	}

	if !g.Paused {
		g.World.Advance(deltaTime)
	}

	g.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0
}

// Shooters returns every shooter in the scene in scene order.
func (g *Game) Shooters() []*scripts.Shooter {
	var result []*scripts.Shooter
	for _, obj := range g.World.Scene.GameObjects {
		if s := engine.GetComponent[*scripts.Shooter](obj); s != nil {
			result = append(result, s)
		}
	}
	return result
}

// Selected is the shooter the UI controls, or nil when there is none.
func (g *Game) Selected() *scripts.Shooter {
	shooters := g.Shooters()
	if len(shooters) == 0 {
		return nil
	}
	return shooters[g.selected%len(shooters)]
}

func (g *Game) fire(s *scripts.Shooter) {
	if _, err := s.Fire(); err != nil {
		g.setStatus(err.Error())
	}
}

// cycleTarget moves s to the next live object tagged "target".
func (g *Game) cycleTarget(s *scripts.Shooter) {
	targets := g.World.Scene.FindByTag("target")
	if len(targets) == 0 {
		s.Target.Clear()
		g.setStatus("no targets left")
		return
	}
	next := 0
	for i, t := range targets {
		if t.UID == s.Target.UID {
			next = (i + 1) % len(targets)
			break
		}
	}
	s.Target = engine.RefTo(targets[next])
	g.setStatus("targeting " + targets[next].Name)
}

func (g *Game) saveRange() {
	path := g.RangePath
	if path == "" {
		path = "range.json"
	}
	if err := g.World.SaveRange(path); err != nil {
		g.setStatus(err.Error())
		return
	}
	g.setStatus("saved " + path)
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusTime = rl.GetTime()
}
