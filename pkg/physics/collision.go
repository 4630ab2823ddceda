// pkg/physics/collision.go
package physics

// DefaultRestitution is the bounce coefficient used when none is configured
const DefaultRestitution = 0.3

// Kinematics is the per-tick snapshot of an airplane owned by the rigid-body
// integrator. The force model reads it and never writes it.
type Kinematics struct {
	Position Vector2D
	Velocity Vector2D
	Rotation float64 // radians
}

// Speed returns the magnitude of the velocity
func (k Kinematics) Speed() float64 {
	return k.Velocity.Length()
}

// CollisionEvent describes a contact reported by the integrator
type CollisionEvent struct {
	IncomingVelocity Vector2D
	SurfaceNormal    Vector2D // unit length
	Restitution      float64  // [0, 1]
}

// CollisionResult is the response to a CollisionEvent
type CollisionResult struct {
	OutgoingVelocity Vector2D
	ImpactForce      float64
}

// BounceVelocity reflects velocity about the surface and scales it by
// restitution. surfaceNormal must be unit length.
func BounceVelocity(velocity, surfaceNormal Vector2D, restitution float64) Vector2D {
	return velocity.Reflect(surfaceNormal).Scale(restitution)
}

// ImpactForce estimates impact severity for damage scoring as
// speed × mass × 0.5. It is deliberately linear in speed.
func ImpactForce(velocity Vector2D, mass float64) float64 {
	return velocity.Length() * mass * 0.5
}

// ResolveCollision computes the bounce and impact for a contact
func ResolveCollision(ev CollisionEvent, mass float64) CollisionResult {
	return CollisionResult{
		OutgoingVelocity: BounceVelocity(ev.IncomingVelocity, ev.SurfaceNormal, ev.Restitution),
		ImpactForce:      ImpactForce(ev.IncomingVelocity, mass),
	}
}

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides checks if two circles are colliding
func (c Circle) Collides(other Circle) bool {
	return c.Center.Distance(other.Center) < c.Radius+other.Radius
}

// Contact contains information about an overlap between two shapes
type Contact struct {
	Collided     bool
	Normal       Vector2D // unit, pointing from B toward A
	Penetration  float64
	ContactPoint Vector2D
}

// CheckCollision performs narrow-phase detection between two circles.
// The normal points from b toward a, i.e. the direction a should bounce.
func CheckCollision(a, b Circle) Contact {
	offset := a.Center.Sub(b.Center)
	distance := offset.Length()

	if distance >= a.Radius+b.Radius {
		return Contact{Collided: false}
	}

	normal := offset.Normalize()
	if normal.IsZero() {
		// concentric; push straight up
		normal = Vector2D{X: 0, Y: 1}
	}

	return Contact{
		Collided:     true,
		Normal:       normal,
		Penetration:  a.Radius + b.Radius - distance,
		ContactPoint: b.Center.Add(normal.Scale(b.Radius)),
	}
}

// CheckGround tests a circle against a horizontal ground line at height
// groundY. The returned normal always points up.
func CheckGround(a Circle, groundY float64) Contact {
	bottom := a.Center.Y - a.Radius
	if bottom >= groundY {
		return Contact{Collided: false}
	}
	return Contact{
		Collided:     true,
		Normal:       Vector2D{X: 0, Y: 1},
		Penetration:  groundY - bottom,
		ContactPoint: Vector2D{X: a.Center.X, Y: groundY},
	}
}
