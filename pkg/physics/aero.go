package physics

import (
	"math"

	"github.com/taricsa/tiny-pilots-sub006/pkg/airplane"
)

// Aerodynamic constants shared by every archetype
const (
	// ReferenceSpeed is the speed at which forward thrust reaches its floor
	ReferenceSpeed = 500.0
	// ThrustFloor is the minimum fraction of base thrust kept at high speed
	ThrustFloor = 0.1
	// DragScale converts speed² × coefficient into force units
	DragScale = 0.01
)

// LiftForce returns a force perpendicular (+90°) to the velocity with
// magnitude speed × lift coefficient × fold lift. Zero velocity yields zero.
func LiftForce(velocity Vector2D, c airplane.Coefficients, fold airplane.PhysicsMultiplier) Vector2D {
	speed := velocity.Length()
	if speed == 0 {
		return Vector2D{}
	}
	magnitude := speed * c.Lift * fold.Lift
	return velocity.Normalize().Perpendicular().Scale(magnitude)
}

// DragForce returns quadratic drag opposing the velocity
func DragForce(velocity Vector2D, c airplane.Coefficients, fold airplane.PhysicsMultiplier) Vector2D {
	speedSq := velocity.LengthSquared()
	if speedSq == 0 {
		return Vector2D{}
	}
	magnitude := speedSq * c.Drag * fold.Drag * DragScale
	return velocity.Normalize().Scale(-magnitude)
}

// TiltThrustForce maps tilt input linearly to a thrust vector.
// tiltX and tiltY must already be clamped to [-1, 1] by the input layer.
func TiltThrustForce(tiltX, tiltY float64, c airplane.Coefficients, fold airplane.PhysicsMultiplier) Vector2D {
	k := c.TiltThrust * fold.TurnRate
	return Vector2D{X: tiltX * k, Y: tiltY * k}
}

// ForwardThrust returns the scalar thrust along the heading. It decays
// linearly with speed and never drops below ThrustFloor of the base thrust.
func ForwardThrust(c airplane.Coefficients, currentSpeed float64) float64 {
	factor := math.Max(ThrustFloor, 1-currentSpeed/ReferenceSpeed)
	return c.ForwardThrust * factor
}
