// Package validation checks numeric flight inputs before they reach the
// force model. The physics functions trust their callers; this package is
// where callers enforce that trust.
package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/taricsa/tiny-pilots-sub006/pkg/physics"
)

// Input limits
const (
	MaxTilt           = 1.0
	UnitTolerance     = 1e-6
	MaxRestitution    = 1.0
	MinRestitution    = 0.0
	MaxTimeStep       = 0.25 // seconds; longer frames are treated as stalls
	MaxFoldMultiplier = 10.0
)

// Sentinel errors
var (
	ErrNonFinite     = errors.New("non-finite value")
	ErrOutOfRange    = errors.New("value out of range")
	ErrNotUnitLength = errors.New("vector is not unit length")
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidateScalar rejects NaN and infinities
func ValidateScalar(name string, v float64) error {
	if !finite(v) {
		return fmt.Errorf("%s: %w: %v", name, ErrNonFinite, v)
	}
	return nil
}

// ValidateVector rejects vectors with NaN or infinite components
func ValidateVector(name string, v physics.Vector2D) error {
	if !v.IsFinite() {
		return fmt.Errorf("%s: %w: %v", name, ErrNonFinite, v)
	}
	return nil
}

// ValidateKinematics checks a rigid-body snapshot
func ValidateKinematics(k physics.Kinematics) error {
	if err := ValidateVector("position", k.Position); err != nil {
		return err
	}
	if err := ValidateVector("velocity", k.Velocity); err != nil {
		return err
	}
	return ValidateScalar("rotation", k.Rotation)
}

// ValidateTilt checks that tilt input is finite and within [-1, 1]
func ValidateTilt(x, y float64) error {
	for _, c := range []struct {
		name string
		v    float64
	}{{"tilt x", x}, {"tilt y", y}} {
		if err := ValidateScalar(c.name, c.v); err != nil {
			return err
		}
		if c.v < -MaxTilt || c.v > MaxTilt {
			return fmt.Errorf("%s: %w: %v (must be within [-1, 1])", c.name, ErrOutOfRange, c.v)
		}
	}
	return nil
}

// ValidateRestitution checks a restitution coefficient is within [0, 1]
func ValidateRestitution(r float64) error {
	if err := ValidateScalar("restitution", r); err != nil {
		return err
	}
	if r < MinRestitution || r > MaxRestitution {
		return fmt.Errorf("restitution: %w: %v (must be within [0, 1])", ErrOutOfRange, r)
	}
	return nil
}

// ValidateUnitNormal checks a collision normal is finite and unit length
func ValidateUnitNormal(n physics.Vector2D) error {
	if err := ValidateVector("surface normal", n); err != nil {
		return err
	}
	if math.Abs(n.Length()-1) > UnitTolerance {
		return fmt.Errorf("surface normal: %w: length %v", ErrNotUnitLength, n.Length())
	}
	return nil
}

// ValidateCollision checks every field of a collision event
func ValidateCollision(ev physics.CollisionEvent) error {
	if err := ValidateVector("incoming velocity", ev.IncomingVelocity); err != nil {
		return err
	}
	if err := ValidateUnitNormal(ev.SurfaceNormal); err != nil {
		return err
	}
	return ValidateRestitution(ev.Restitution)
}

// ValidateTimeStep checks a frame delta is positive, finite and not a stall
func ValidateTimeStep(dt float64) error {
	if err := ValidateScalar("time step", dt); err != nil {
		return err
	}
	if dt <= 0 || dt > MaxTimeStep {
		return fmt.Errorf("time step: %w: %v (must be within (0, %v])", ErrOutOfRange, dt, MaxTimeStep)
	}
	return nil
}

// ValidateMultiplier checks fold multipliers are finite and positive
func ValidateMultiplier(name string, v float64) error {
	if err := ValidateScalar(name, v); err != nil {
		return err
	}
	if v <= 0 || v > MaxFoldMultiplier {
		return fmt.Errorf("%s: %w: %v (must be within (0, %v])", name, ErrOutOfRange, v, MaxFoldMultiplier)
	}
	return nil
}
