package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// NormalizeAngle wraps an angle in radians into [-π, π].
// Angles already inside the range are returned untouched so that the
// operation is exactly idempotent.
func NormalizeAngle(angle float64) float64 {
	if angle >= -math.Pi && angle <= math.Pi {
		return angle
	}
	wrapped := math.Mod(angle+math.Pi, 2*math.Pi)
	if wrapped < 0 {
		wrapped += 2 * math.Pi
	}
	return mgl64.Clamp(wrapped-math.Pi, -math.Pi, math.Pi)
}

// AngleBetweenPoints returns the heading in radians from a to b
func AngleBetweenPoints(a, b Vector2D) float64 {
	return b.Sub(a).Angle()
}

// DistanceBetweenPoints returns the euclidean distance between a and b
func DistanceBetweenPoints(a, b Vector2D) float64 {
	return a.Distance(b)
}

// DegreesToRadians converts degrees to radians
func DegreesToRadians(deg float64) float64 {
	return mgl64.DegToRad(deg)
}

// RadiansToDegrees converts radians to degrees
func RadiansToDegrees(rad float64) float64 {
	return mgl64.RadToDeg(rad)
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return mgl64.Clamp(v, lo, hi)
}
