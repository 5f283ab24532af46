package world

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"ballista/internal/components"
	"ballista/internal/engine"
	"ballista/internal/scripts"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// --- JSON types ---

type RangeFile struct {
	Objects []ObjectDef `json:"objects"`
}

type ObjectDef struct {
	Name       string            `json:"name"`
	Tags       []string          `json:"tags,omitempty"`
	Position   [3]float32        `json:"position"`
	Scale      [3]float32        `json:"scale"`
	Components []json.RawMessage `json:"components"`
}

type componentHeader struct {
	Type string `json:"type"`
}

type appearanceDef struct {
	Type  string `json:"type"`
	Color string `json:"color"`
}

type boxColliderDef struct {
	Type   string     `json:"type"`
	Size   [3]float32 `json:"size"`
	Offset [3]float32 `json:"offset,omitempty"`
	Layer  string     `json:"layer,omitempty"`
}

type sphereColliderDef struct {
	Type   string     `json:"type"`
	Radius float32    `json:"radius"`
	Offset [3]float32 `json:"offset,omitempty"`
	Layer  string     `json:"layer,omitempty"`
}

type rigidbodyDef struct {
	Type        string     `json:"type"`
	Velocity    [3]float32 `json:"velocity,omitempty"`
	IsKinematic bool       `json:"isKinematic,omitempty"`
}

type targetDef struct {
	Type   string  `json:"type"`
	Health float32 `json:"health"`
}

type patrolDef struct {
	Type      string     `json:"type"`
	Axis      [3]float32 `json:"axis"`
	Amplitude float32    `json:"amplitude"`
	Speed     float32    `json:"speed"`
	Phase     float32    `json:"phase,omitempty"`
}

type shooterDef struct {
	Type        string     `json:"type"`
	Target      string     `json:"target,omitempty"`
	LaunchSpeed float32    `json:"launchSpeed,omitempty"`
	Muzzle      [3]float32 `json:"muzzle,omitempty"`
	Damage      float32    `json:"damage,omitempty"`
	Cooldown    float32    `json:"cooldown,omitempty"`
	AutoFire    bool       `json:"autoFire,omitempty"`
}

// --- Name mapping ---

var colorByName = map[string]rl.Color{
	"Red":       rl.Red,
	"Blue":      rl.Blue,
	"Green":     rl.Green,
	"Purple":    rl.Purple,
	"Orange":    rl.Orange,
	"Yellow":    rl.Yellow,
	"SkyBlue":   rl.SkyBlue,
	"Lime":      rl.Lime,
	"White":     rl.White,
	"LightGray": rl.LightGray,
	"Gray":      rl.Gray,
	"DarkGray":  rl.DarkGray,
	"Brown":     rl.Brown,
	"Maroon":    rl.Maroon,
	"Gold":      rl.Gold,
}

var nameByColor map[rl.Color]string

var layerByName = map[string]engine.Layer{
	"default":    engine.LayerDefault,
	"terrain":    engine.LayerTerrain,
	"target":     engine.LayerTarget,
	"projectile": engine.LayerProjectile,
	"shooter":    engine.LayerShooter,
}

func init() {
	nameByColor = make(map[rl.Color]string, len(colorByName))
	for name, c := range colorByName {
		nameByColor[c] = name
	}
}

func lookupColor(name string) rl.Color {
	if c, ok := colorByName[name]; ok {
		return c
	}
	return rl.White
}

func lookupColorName(c rl.Color) string {
	if name, ok := nameByColor[c]; ok {
		return name
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func lookupLayer(name string) engine.Layer {
	if l, ok := layerByName[strings.ToLower(name)]; ok {
		return l
	}
	return engine.LayerDefault
}

func lookupLayerName(l engine.Layer) string {
	for name, v := range layerByName {
		if v == l {
			return name
		}
	}
	return "default"
}

func vec(a [3]float32) rl.Vector3 {
	return rl.Vector3{X: a[0], Y: a[1], Z: a[2]}
}

func arr(v rl.Vector3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// --- Loading ---

func (w *World) LoadRange(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read range: %w", err)
	}
	return w.LoadRangeData(data)
}

// LoadRangeData spawns every object in data. Shooter targets are resolved by
// name once all objects exist; an unknown name leaves the shooter idle.
func (w *World) LoadRangeData(data []byte) error {
	var rf RangeFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return fmt.Errorf("parse range: %w", err)
	}

	targets := make(map[*scripts.Shooter]string)
	for _, objDef := range rf.Objects {
		g := engine.NewGameObject(objDef.Name)
		g.Tags = objDef.Tags
		g.Transform.Position = vec(objDef.Position)

		// Default scale to 1 if zero
		if objDef.Scale != [3]float32{} {
			g.Transform.Scale = vec(objDef.Scale)
		}

		for _, raw := range objDef.Components {
			var header componentHeader
			if err := json.Unmarshal(raw, &header); err != nil {
				continue
			}

			switch header.Type {
			case "Appearance":
				loadAppearance(g, raw)
			case "BoxCollider":
				loadBoxCollider(g, raw)
			case "SphereCollider":
				loadSphereCollider(g, raw)
			case "Rigidbody":
				loadRigidbody(g, raw)
			case "Target":
				loadTarget(g, raw)
			case "Patrol":
				loadPatrol(g, raw)
			case "Shooter":
				if s, target := w.loadShooter(g, raw); s != nil {
					targets[s] = target
				}
			}
		}

		w.Spawn(g)
	}

	for s, name := range targets {
		if name == "" {
			continue
		}
		s.Target = engine.RefTo(w.Scene.FindByName(name))
	}
	return nil
}

func loadAppearance(g *engine.GameObject, raw json.RawMessage) {
	var def appearanceDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return
	}
	g.AddComponent(components.NewAppearance(lookupColor(def.Color)))
}

func loadBoxCollider(g *engine.GameObject, raw json.RawMessage) {
	var def boxColliderDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return
	}
	col := components.NewBoxCollider(vec(def.Size))
	col.Offset = vec(def.Offset)
	col.Layer = lookupLayer(def.Layer)
	g.AddComponent(col)
}

func loadSphereCollider(g *engine.GameObject, raw json.RawMessage) {
	var def sphereColliderDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return
	}
	col := components.NewSphereCollider(def.Radius)
	col.Offset = vec(def.Offset)
	col.Layer = lookupLayer(def.Layer)
	g.AddComponent(col)
}

func loadRigidbody(g *engine.GameObject, raw json.RawMessage) {
	var def rigidbodyDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return
	}
	rb := components.NewRigidbody()
	rb.Velocity = vec(def.Velocity)
	rb.IsKinematic = def.IsKinematic
	g.AddComponent(rb)
}

func loadTarget(g *engine.GameObject, raw json.RawMessage) {
	var def targetDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return
	}
	g.AddComponent(components.NewTarget(def.Health))
}

func loadPatrol(g *engine.GameObject, raw json.RawMessage) {
	var def patrolDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return
	}
	p := components.NewPatrol(g.Transform.Position, vec(def.Axis), def.Amplitude, def.Speed)
	p.Phase = def.Phase
	g.AddComponent(p)
}

func (w *World) loadShooter(g *engine.GameObject, raw json.RawMessage) (*scripts.Shooter, string) {
	var def shooterDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, ""
	}
	s := w.ConfigureShooter(scripts.NewShooter(nil, w.Launcher))
	if def.LaunchSpeed > 0 {
		s.LaunchSpeed = def.LaunchSpeed
	}
	s.Muzzle = vec(def.Muzzle)
	if def.Damage > 0 {
		s.Payload.Damage = def.Damage
	}
	if def.Cooldown > 0 {
		s.Cooldown = def.Cooldown
	}
	s.AutoFire = def.AutoFire
	g.AddComponent(s)
	return s, def.Target
}

// --- Saving ---

func (w *World) SaveRange(path string) error {
	data, err := w.MarshalRange()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write range: %w", err)
	}
	return nil
}

func (w *World) MarshalRange() ([]byte, error) {
	var rf RangeFile

	for _, g := range w.Scene.GameObjects {
		objDef := ObjectDef{
			Name:     g.Name,
			Tags:     g.Tags,
			Position: arr(g.Transform.Position),
			Scale:    arr(g.Transform.Scale),
		}
		// Patrolled objects are saved at their origin so reloading is stable.
		if p := engine.GetComponent[*components.Patrol](g); p != nil {
			objDef.Position = arr(p.Origin)
		}

		for _, c := range g.Components() {
			if raw := w.serializeComponent(c); raw != nil {
				objDef.Components = append(objDef.Components, raw)
			}
		}

		rf.Objects = append(rf.Objects, objDef)
	}

	data, err := json.MarshalIndent(rf, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal range: %w", err)
	}
	return data, nil
}

func (w *World) serializeComponent(c engine.Component) json.RawMessage {
	var def any

	switch comp := c.(type) {
	case *components.Appearance:
		def = appearanceDef{Type: "Appearance", Color: lookupColorName(comp.Color)}

	case *components.BoxCollider:
		def = boxColliderDef{
			Type:   "BoxCollider",
			Size:   arr(comp.Size),
			Offset: arr(comp.Offset),
			Layer:  lookupLayerName(comp.Layer),
		}

	case *components.SphereCollider:
		def = sphereColliderDef{
			Type:   "SphereCollider",
			Radius: comp.Radius,
			Offset: arr(comp.Offset),
			Layer:  lookupLayerName(comp.Layer),
		}

	case *components.Rigidbody:
		def = rigidbodyDef{Type: "Rigidbody", Velocity: arr(comp.Velocity), IsKinematic: comp.IsKinematic}

	case *components.Target:
		def = targetDef{Type: "Target", Health: comp.MaxHealth}

	case *components.Patrol:
		def = patrolDef{Type: "Patrol", Axis: arr(comp.Axis), Amplitude: comp.Amplitude, Speed: comp.Speed, Phase: comp.Phase}

	case *scripts.Shooter:
		d := shooterDef{
			Type:        "Shooter",
			LaunchSpeed: comp.LaunchSpeed,
			Muzzle:      arr(comp.Muzzle),
			Damage:      comp.Payload.Damage,
			Cooldown:    comp.Cooldown,
			AutoFire:    comp.AutoFire,
		}
		if target := comp.Target.Get(w.Scene); target != nil {
			d.Target = target.Name
		}
		def = d

	default:
		return nil
	}

	data, err := json.Marshal(def)
	if err != nil {
		return nil
	}
	return data
}
