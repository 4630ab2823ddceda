package physics

import (
	"math"

	"github.com/taricsa/tiny-pilots-sub006/pkg/airplane"
)

const (
	// StabilizationDeadband is the speed at or below which no correcting
	// torque is applied, leaving slow flight free for tight turns
	StabilizationDeadband = 100.0
	// StabilizationRamp is the speed span over which the gain ramps to full
	StabilizationRamp = 100.0
)

// StabilizationTorque returns a proportional torque turning the airplane
// toward its velocity heading along the shortest angular path. The gain
// ramps in linearly between the deadband and deadband + ramp.
func StabilizationTorque(currentRotation float64, velocity Vector2D, speed float64, c airplane.Coefficients) float64 {
	if speed <= StabilizationDeadband {
		return 0
	}
	ideal := math.Atan2(velocity.Y, velocity.X)
	diff := NormalizeAngle(ideal - currentRotation)
	speedFactor := Clamp((speed-StabilizationDeadband)/StabilizationRamp, 0, 1)
	return diff * c.Stabilization * speedFactor
}
