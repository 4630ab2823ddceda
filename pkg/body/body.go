// Package body provides a reference rigid-body integrator for airplanes. It
// accumulates the forces and torques the flight engine submits each tick and
// integrates them with semi-implicit Euler. Game hosts with their own physics
// engine replace it; the headless runner and tests use it as is.
package body

import (
	"sync"

	"github.com/taricsa/tiny-pilots-sub006/pkg/physics"
)

// Integration defaults
const (
	DefaultMaxSpeed       = 800.0
	DefaultAngularDamping = 2.0
	DefaultRadius         = 8.0
	DefaultIntegrity      = 100.0
)

// Body is a circular rigid body. The zero value is not usable; call New.
type Body struct {
	mu sync.Mutex

	position        physics.Vector2D
	velocity        physics.Vector2D
	rotation        float64
	angularVelocity float64

	mass           float64
	inertia        float64
	radius         float64
	maxSpeed       float64
	angularDamping float64

	integrity    float64
	maxIntegrity float64

	force  physics.Vector2D
	torque float64
}

// Option configures a Body
type Option func(*Body)

// WithRotation sets the initial heading in radians
func WithRotation(rotation float64) Option {
	return func(b *Body) { b.rotation = physics.NormalizeAngle(rotation) }
}

// WithRadius sets the collision radius
func WithRadius(radius float64) Option {
	return func(b *Body) { b.radius = radius }
}

// WithMaxSpeed caps the integrated speed. Zero disables the cap.
func WithMaxSpeed(speed float64) Option {
	return func(b *Body) { b.maxSpeed = speed }
}

// WithAngularDamping sets the fraction of angular velocity lost per second
func WithAngularDamping(damping float64) Option {
	return func(b *Body) { b.angularDamping = damping }
}

// WithIntegrity sets the structural integrity impacts wear down
func WithIntegrity(integrity float64) Option {
	return func(b *Body) {
		b.integrity = integrity
		b.maxIntegrity = integrity
	}
}

// New creates a body at position moving with velocity. A non-positive mass
// is treated as 1.
func New(position, velocity physics.Vector2D, mass float64, opts ...Option) *Body {
	if mass <= 0 {
		mass = 1
	}
	b := &Body{
		position:       position,
		velocity:       velocity,
		mass:           mass,
		radius:         DefaultRadius,
		maxSpeed:       DefaultMaxSpeed,
		angularDamping: DefaultAngularDamping,
		integrity:      DefaultIntegrity,
		maxIntegrity:   DefaultIntegrity,
	}
	for _, opt := range opts {
		opt(b)
	}
	// solid disc
	b.inertia = 0.5 * b.mass * b.radius * b.radius
	if b.inertia <= 0 {
		b.inertia = b.mass
	}
	return b
}

// Kinematics returns a snapshot of position, velocity and rotation
func (b *Body) Kinematics() physics.Kinematics {
	b.mu.Lock()
	defer b.mu.Unlock()
	return physics.Kinematics{
		Position: b.position,
		Velocity: b.velocity,
		Rotation: b.rotation,
	}
}

// ApplyForce accumulates a force for the next Integrate
func (b *Body) ApplyForce(force physics.Vector2D) {
	b.mu.Lock()
	b.force = b.force.Add(force)
	b.mu.Unlock()
}

// ApplyTorque accumulates a torque for the next Integrate
func (b *Body) ApplyTorque(torque float64) {
	b.mu.Lock()
	b.torque += torque
	b.mu.Unlock()
}

// Integrate advances the body by dt seconds and clears the accumulators.
// Velocity is updated before position (semi-implicit Euler).
func (b *Body) Integrate(dt float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.velocity = b.velocity.Add(b.force.Scale(dt / b.mass))
	if b.maxSpeed > 0 && b.velocity.Length() > b.maxSpeed {
		b.velocity = b.velocity.Normalize().Scale(b.maxSpeed)
	}

	b.angularVelocity += b.torque / b.inertia * dt
	b.angularVelocity *= physics.Clamp(1-b.angularDamping*dt, 0, 1)

	b.position = b.position.Add(b.velocity.Scale(dt))
	b.rotation = physics.NormalizeAngle(b.rotation + b.angularVelocity*dt)

	b.force = physics.Vector2D{}
	b.torque = 0
}

// SetVelocity replaces the velocity, e.g. with a collision's outgoing velocity
func (b *Body) SetVelocity(v physics.Vector2D) {
	b.mu.Lock()
	b.velocity = v
	b.mu.Unlock()
}

// Translate moves the body without changing its velocity
func (b *Body) Translate(offset physics.Vector2D) {
	b.mu.Lock()
	b.position = b.position.Add(offset)
	b.mu.Unlock()
}

// AngularVelocity returns the spin rate in radians per second
func (b *Body) AngularVelocity() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.angularVelocity
}

// Mass returns the body's mass
func (b *Body) Mass() float64 {
	return b.mass
}

// Collider returns the body's collision circle at its current position
func (b *Body) Collider() physics.Circle {
	b.mu.Lock()
	defer b.mu.Unlock()
	return physics.Circle{Center: b.position, Radius: b.radius}
}

// TakeImpact wears down integrity by an impact force and reports whether
// the body is destroyed
func (b *Body) TakeImpact(force float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if force > 0 {
		b.integrity -= force
	}
	if b.integrity < 0 {
		b.integrity = 0
	}
	return b.integrity == 0
}

// Integrity returns the remaining structural integrity
func (b *Body) Integrity() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.integrity
}

// Repair restores integrity at rate per second, up to the maximum
func (b *Body) Repair(rate, dt float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.integrity += rate * dt
	if b.integrity > b.maxIntegrity {
		b.integrity = b.maxIntegrity
	}
}
