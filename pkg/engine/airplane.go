// pkg/engine/airplane.go
package engine

import (
	"sync"

	"github.com/EngoEngine/ecs"

	"github.com/taricsa/tiny-pilots-sub006/pkg/airplane"
	"github.com/taricsa/tiny-pilots-sub006/pkg/physics"
)

// RigidBody is the external integrator's handle on one airplane. The engine
// reads kinematics and submits forces; it never writes position or velocity.
type RigidBody interface {
	Kinematics() physics.Kinematics
	ApplyForce(force physics.Vector2D)
	ApplyTorque(torque float64)
}

// TiltSource supplies normalized control input in [-1, 1] per axis
type TiltSource interface {
	Tilt() (x, y float64)
}

// FixedTilt is a constant tilt input
type FixedTilt struct {
	X, Y float64
}

// Tilt returns the fixed input
func (f FixedTilt) Tilt() (float64, float64) {
	return f.X, f.Y
}

// Airplane is a flying entity registered with a Simulation
type Airplane struct {
	ecs.BasicEntity

	Archetype airplane.Archetype
	Fold      airplane.FoldType
	Body      RigidBody

	coefficients airplane.Coefficients
	multiplier   airplane.PhysicsMultiplier

	// guards tilt and last; taken after Simulation.mu
	mu   sync.Mutex
	tilt TiltSource
	last ForceOutput
}

// SetTilt replaces the airplane's control input source. A nil source
// means no input.
func (a *Airplane) SetTilt(src TiltSource) {
	if src == nil {
		src = FixedTilt{}
	}
	a.mu.Lock()
	a.tilt = src
	a.mu.Unlock()
}

func (a *Airplane) tiltSource() TiltSource {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tilt
}

func (a *Airplane) setLastForces(out ForceOutput) {
	a.mu.Lock()
	a.last = out
	a.mu.Unlock()
}

// Coefficients returns the archetype coefficients resolved at creation
func (a *Airplane) Coefficients() airplane.Coefficients {
	return a.coefficients
}

// Multiplier returns the fold multiplier resolved at creation
func (a *Airplane) Multiplier() airplane.PhysicsMultiplier {
	return a.multiplier
}

// LastForces returns the forces submitted on the most recent step
func (a *Airplane) LastForces() ForceOutput {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}
