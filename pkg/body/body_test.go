package body

import (
	"math"
	"testing"

	"github.com/taricsa/tiny-pilots-sub006/pkg/physics"
)

const epsilon = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func vecNear(a, b physics.Vector2D) bool {
	return near(a.X, b.X) && near(a.Y, b.Y)
}

func TestNew_Defaults(t *testing.T) {
	b := New(physics.Vector2D{X: 1, Y: 2}, physics.Vector2D{X: 3}, 0)

	if b.Mass() != 1 {
		t.Errorf("Mass() = %v, want 1 for non-positive input", b.Mass())
	}
	if b.Integrity() != DefaultIntegrity {
		t.Errorf("Integrity() = %v, want %v", b.Integrity(), DefaultIntegrity)
	}
	c := b.Collider()
	if c.Radius != DefaultRadius || c.Center != (physics.Vector2D{X: 1, Y: 2}) {
		t.Errorf("Collider() = %+v", c)
	}
	k := b.Kinematics()
	if k.Velocity != (physics.Vector2D{X: 3}) || k.Rotation != 0 {
		t.Errorf("Kinematics() = %+v", k)
	}
}

func TestIntegrate_ForceAcceleratesThenMoves(t *testing.T) {
	b := New(physics.Vector2D{}, physics.Vector2D{}, 2)

	b.ApplyForce(physics.Vector2D{X: 3})
	b.ApplyForce(physics.Vector2D{X: 1})
	b.Integrate(0.5)

	k := b.Kinematics()
	if !vecNear(k.Velocity, physics.Vector2D{X: 1}) {
		t.Errorf("Velocity = %v, want (1, 0)", k.Velocity)
	}
	// semi-implicit: position uses the updated velocity
	if !vecNear(k.Position, physics.Vector2D{X: 0.5}) {
		t.Errorf("Position = %v, want (0.5, 0)", k.Position)
	}

	// accumulators are cleared
	b.Integrate(0.5)
	if k2 := b.Kinematics(); !vecNear(k2.Velocity, physics.Vector2D{X: 1}) {
		t.Errorf("Velocity after empty step = %v, want unchanged (1, 0)", k2.Velocity)
	}
}

func TestIntegrate_SpeedCap(t *testing.T) {
	tests := []struct {
		name     string
		maxSpeed float64
		velocity physics.Vector2D
		want     float64
	}{
		{"below_cap", 10, physics.Vector2D{X: 6, Y: 0}, 6},
		{"above_cap", 10, physics.Vector2D{X: 30, Y: 40}, 10},
		{"cap_disabled", 0, physics.Vector2D{X: 300, Y: 400}, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(physics.Vector2D{}, tt.velocity, 1, WithMaxSpeed(tt.maxSpeed))
			b.Integrate(0.1)

			if got := b.Kinematics().Speed(); !near(got, tt.want) {
				t.Errorf("speed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntegrate_TorqueRotates(t *testing.T) {
	// inertia = 0.5 × 1 × 2² = 2
	b := New(physics.Vector2D{}, physics.Vector2D{}, 1, WithRadius(2), WithAngularDamping(0))

	b.ApplyTorque(4)
	b.Integrate(0.5)

	if !near(b.AngularVelocity(), 1) {
		t.Errorf("AngularVelocity() = %v, want 1", b.AngularVelocity())
	}
	if got := b.Kinematics().Rotation; !near(got, 0.5) {
		t.Errorf("Rotation = %v, want 0.5", got)
	}
}

func TestIntegrate_RotationStaysNormalized(t *testing.T) {
	b := New(physics.Vector2D{}, physics.Vector2D{}, 1,
		WithRotation(math.Pi-0.01), WithRadius(2), WithAngularDamping(0))

	b.ApplyTorque(2)
	for i := 0; i < 10; i++ {
		b.Integrate(0.1)
	}

	r := b.Kinematics().Rotation
	if r <= -math.Pi || r > math.Pi {
		t.Errorf("Rotation = %v, want within (-π, π]", r)
	}
}

func TestIntegrate_AngularDamping(t *testing.T) {
	b := New(physics.Vector2D{}, physics.Vector2D{}, 1, WithRadius(2), WithAngularDamping(1))

	b.ApplyTorque(4)
	b.Integrate(0.5)
	first := b.AngularVelocity()
	b.Integrate(0.5)

	if !near(first, 0.5) {
		t.Errorf("damped angular velocity = %v, want 0.5", first)
	}
	if b.AngularVelocity() >= first {
		t.Errorf("angular velocity should decay, got %v after %v", b.AngularVelocity(), first)
	}
}

func TestTakeImpact(t *testing.T) {
	b := New(physics.Vector2D{}, physics.Vector2D{}, 1, WithIntegrity(10))

	if b.TakeImpact(4) {
		t.Error("body should survive a small impact")
	}
	if b.Integrity() != 6 {
		t.Errorf("Integrity() = %v, want 6", b.Integrity())
	}
	if b.TakeImpact(-3) {
		t.Error("negative impact should be ignored")
	}
	if !b.TakeImpact(7) {
		t.Error("body should be destroyed")
	}
	if b.Integrity() != 0 {
		t.Errorf("Integrity() = %v, want clamped at 0", b.Integrity())
	}
}

func TestRepair(t *testing.T) {
	b := New(physics.Vector2D{}, physics.Vector2D{}, 1, WithIntegrity(10))
	b.TakeImpact(10)

	b.Repair(4, 1)
	if b.Integrity() != 4 {
		t.Errorf("Integrity() = %v, want 4", b.Integrity())
	}
	b.Repair(4, 2)
	if b.Integrity() != 10 {
		t.Errorf("Integrity() = %v, want capped at 10", b.Integrity())
	}
}

func TestSetVelocityAndTranslate(t *testing.T) {
	b := New(physics.Vector2D{X: 1, Y: 1}, physics.Vector2D{X: 5}, 1)

	b.SetVelocity(physics.Vector2D{Y: -2})
	b.Translate(physics.Vector2D{X: -1, Y: 3})

	k := b.Kinematics()
	if k.Velocity != (physics.Vector2D{Y: -2}) {
		t.Errorf("Velocity = %v, want (0, -2)", k.Velocity)
	}
	if k.Position != (physics.Vector2D{X: 0, Y: 4}) {
		t.Errorf("Position = %v, want (0, 4)", k.Position)
	}
}

func BenchmarkIntegrate(b *testing.B) {
	body := New(physics.Vector2D{}, physics.Vector2D{X: 100}, 1)
	for i := 0; i < b.N; i++ {
		body.ApplyForce(physics.Vector2D{X: 1, Y: 2})
		body.ApplyTorque(0.1)
		body.Integrate(1.0 / 60)
	}
}
