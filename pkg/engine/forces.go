// pkg/engine/forces.go
package engine

import (
	"github.com/taricsa/tiny-pilots-sub006/pkg/airplane"
	"github.com/taricsa/tiny-pilots-sub006/pkg/physics"
)

// FlightInput is everything one airplane's force computation reads in a tick
type FlightInput struct {
	Kinematics   physics.Kinematics
	TiltX, TiltY float64
	Coefficients airplane.Coefficients
	Fold         airplane.PhysicsMultiplier
	Wind         physics.WindState
	// Gust is the turbulence force drawn for this airplane this tick
	Gust physics.Vector2D
}

// ForceOutput is the force breakdown and torque produced for one airplane
type ForceOutput struct {
	Lift       physics.Vector2D
	Drag       physics.Vector2D
	TiltThrust physics.Vector2D
	Thrust     physics.Vector2D
	Wind       physics.Vector2D
	Gust       physics.Vector2D
	Net        physics.Vector2D
	Torque     float64
}

// ComputeForces sums every force acting on one airplane and computes its
// stabilization torque. It has no side effects.
func ComputeForces(in FlightInput) ForceOutput {
	velocity := in.Kinematics.Velocity
	speed := velocity.Length()

	out := ForceOutput{
		Lift:       physics.LiftForce(velocity, in.Coefficients, in.Fold),
		Drag:       physics.DragForce(velocity, in.Coefficients, in.Fold),
		TiltThrust: physics.TiltThrustForce(in.TiltX, in.TiltY, in.Coefficients, in.Fold),
		Thrust:     physics.FromAngle(in.Kinematics.Rotation, physics.ForwardThrust(in.Coefficients, speed)),
		Wind:       physics.WindForce(in.Wind.Vector, in.Coefficients, in.Fold),
		Gust:       in.Gust,
	}
	out.Net = out.Lift.
		Add(out.Drag).
		Add(out.TiltThrust).
		Add(out.Thrust).
		Add(out.Wind).
		Add(out.Gust)
	out.Torque = physics.StabilizationTorque(in.Kinematics.Rotation, velocity, speed, in.Coefficients)

	return out
}
