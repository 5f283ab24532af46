// Package curve turns simulated trajectory samples into a short, smooth display
// polyline. The output is cosmetic: between its endpoints it follows a quadratic
// Bézier, not the simulated samples.
package curve

import (
	"ballista/internal/trajectory"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const DefaultResolution = 20

type Renderer struct {
	resolution int
	points     []rl.Vector3
	visible    bool
	generation uint64
}

// NewRenderer emits resolution points per Show. Values below 2 are raised to 2.
func NewRenderer(resolution int) *Renderer {
	if resolution < 2 {
		resolution = 2
	}
	return &Renderer{
		resolution: resolution,
		points:     make([]rl.Vector3, 0, resolution),
	}
}

// ControlPoint bows the curve through the mid-flight sample when there are at
// least three samples, and falls back to the chord midpoint otherwise.
func ControlPoint(samples []trajectory.Sample, start, end rl.Vector3) rl.Vector3 {
	if len(samples) >= 3 {
		mid := samples[len(samples)/2].Position
		return rl.Vector3Subtract(
			rl.Vector3Scale(mid, 2),
			rl.Vector3Add(rl.Vector3Scale(start, 0.5), rl.Vector3Scale(end, 0.5)),
		)
	}
	return rl.Vector3Lerp(start, end, 0.5)
}

// Bezier evaluates (1-t)²·start + 2(1-t)t·control + t²·end.
func Bezier(start, control, end rl.Vector3, t float32) rl.Vector3 {
	u := 1 - t
	return rl.Vector3Add(
		rl.Vector3Add(rl.Vector3Scale(start, u*u), rl.Vector3Scale(control, 2*u*t)),
		rl.Vector3Scale(end, t*t),
	)
}

// Show replaces whatever was displayed with a new curve from the first sample to
// end. With no samples the curve collapses onto end. The returned slice is owned
// by the renderer and is overwritten by the next Show.
func (r *Renderer) Show(samples []trajectory.Sample, end rl.Vector3) []rl.Vector3 {
	start := end
	if len(samples) > 0 {
		start = samples[0].Position
	}
	control := ControlPoint(samples, start, end)

	n := r.resolution
	r.points = r.points[:0]
	for i := 0; i < n; i++ {
		t := float32(i) / float32(n-1)
		r.points = append(r.points, Bezier(start, control, end, t))
	}
	r.points[0] = start
	r.points[n-1] = end

	r.visible = true
	r.generation++
	return r.points
}

// Hide clears the display. Safe to call repeatedly.
func (r *Renderer) Hide() {
	r.points = r.points[:0]
	r.visible = false
}

func (r *Renderer) Visible() bool { return r.visible }

// Points returns the displayed curve, or nil when hidden.
func (r *Renderer) Points() []rl.Vector3 {
	if !r.visible {
		return nil
	}
	return r.points
}

func (r *Renderer) Resolution() int { return r.resolution }

// Generation increments on every Show, letting callers notice a superseded curve.
func (r *Renderer) Generation() uint64 { return r.generation }
