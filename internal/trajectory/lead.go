package trajectory

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// LaunchSolution is a launch velocity that reaches the predicted target point.
// When Feasible is false the other fields carry no meaning.
type LaunchSolution struct {
	Feasible   bool
	Velocity   rl.Vector3
	Angle      float32 // elevation above the horizontal, radians
	TravelTime float32 // straight-line estimate used for the prediction
}

// LeadSolver computes intercept velocities for a fixed launch speed.
type LeadSolver struct {
	Gravity float32
}

// Solve estimates the target's future position from a straight-line travel time
// (distance / launchSpeed) and the relative velocity, then picks the low-angle
// root of the projectile range equation for that point. It is a single closed-form
// pass: the travel time is not refined after the angle is known.
//
// The predicted target position is returned even when no solution exists.
func (l LeadSolver) Solve(shooterPos, targetPos, shooterVel, targetVel rl.Vector3, launchSpeed float32) (LaunchSolution, rl.Vector3) {
	if !finite(shooterPos, targetPos, shooterVel, targetVel) || !(launchSpeed > 0) {
		return LaunchSolution{}, targetPos
	}

	travel := rl.Vector3Distance(shooterPos, targetPos) / launchSpeed
	relVel := rl.Vector3Subtract(targetVel, shooterVel)
	predicted := rl.Vector3Add(targetPos, rl.Vector3Scale(relVel, travel))

	delta := rl.Vector3Subtract(predicted, shooterPos)
	flat := horizontal(delta)
	d := float64(rl.Vector3Length(flat))
	dh := float64(delta.Y)
	g := float64(l.Gravity)
	v2 := float64(launchSpeed) * float64(launchSpeed)

	disc := v2*v2 - g*(g*d*d+2*dh*v2)
	if disc < 0 {
		return LaunchSolution{}, predicted
	}

	angle := math.Atan2(v2-math.Sqrt(disc), g*d)
	var dir rl.Vector3
	if d > 0 {
		dir = rl.Vector3Scale(flat, float32(1/d))
	}

	speed := float64(launchSpeed)
	vel := rl.Vector3Add(
		rl.Vector3Scale(dir, float32(math.Cos(angle)*speed)),
		rl.Vector3{Y: float32(math.Sin(angle) * speed)},
	)

	return LaunchSolution{
		Feasible:   true,
		Velocity:   vel,
		Angle:      float32(angle),
		TravelTime: travel,
	}, predicted
}

// MinimumSpeed is the smallest launch speed that reaches a point at horizontal
// distance d and height dh, where the discriminant of Solve is exactly zero.
func MinimumSpeed(gravity, d, dh float32) float32 {
	g, x, y := float64(gravity), float64(d), float64(dh)
	return float32(math.Sqrt(g * (y + math.Sqrt(x*x+y*y))))
}

func finite(vs ...rl.Vector3) bool {
	for _, v := range vs {
		for _, c := range [3]float32{v.X, v.Y, v.Z} {
			f := float64(c)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return false
			}
		}
	}
	return true
}
