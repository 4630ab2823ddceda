package physics

import (
	"math"

	"github.com/taricsa/tiny-pilots-sub006/pkg/airplane"
)

// DefaultTurbulenceChance is the per-call probability of a gust
const DefaultTurbulenceChance = 0.05

// WindState is the wind currently blowing through an environment
type WindState struct {
	Vector Vector2D
}

// WindFromDirection builds a wind state from a heading in degrees
// (0° = +X, counter-clockwise) and a strength
func WindFromDirection(directionDeg, strength float64) WindState {
	return WindState{Vector: FromAngle(DegreesToRadians(directionDeg), strength)}
}

// Strength returns the wind magnitude
func (w WindState) Strength() float64 {
	return w.Vector.Length()
}

// DirectionDegrees returns the wind heading in degrees, in [-180, 180]
func (w WindState) DirectionDegrees() float64 {
	return RadiansToDegrees(w.Vector.Angle())
}

// WindVariability bounds the random drift of an environment's wind
type WindVariability struct {
	VariabilityDegrees float64
	MinStrength        float64
	MaxStrength        float64
}

// WindForce returns the push of the wind on an airplane. Folds with lower
// drag resist the wind better, hence the (2 - drag) factor.
func WindForce(wind Vector2D, c airplane.Coefficients, fold airplane.PhysicsMultiplier) Vector2D {
	return wind.Scale(c.WindResistance * (2.0 - fold.Drag))
}

// TurbulenceForce returns a random gust with probability chance, or zero.
// The gust magnitude is windStrength × U(0.5, 1.5) in a uniform direction.
func TurbulenceForce(windStrength, chance float64, rng RandomSource) Vector2D {
	if rng.Float64() >= chance {
		return Vector2D{}
	}
	magnitude := windStrength * Uniform(rng, 0.5, 1.5)
	angle := Uniform(rng, 0, 2*math.Pi)
	return FromAngle(angle, magnitude)
}

// UpdateRandomWind drifts the wind direction and strength. Calm air stays calm.
func UpdateRandomWind(current WindState, v WindVariability, rng RandomSource) WindState {
	strength := current.Strength()
	if strength <= 0 {
		return current
	}
	direction := current.DirectionDegrees() + Uniform(rng, -v.VariabilityDegrees, v.VariabilityDegrees)
	strength = Clamp(strength*Uniform(rng, 0.8, 1.2), v.MinStrength, v.MaxStrength)
	return WindFromDirection(direction, strength)
}
