package validation

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/taricsa/tiny-pilots-sub006/pkg/physics"
)

func TestValidateTilt(t *testing.T) {
	tests := []struct {
		name        string
		x, y        float64
		wantErr     error
		errContains string
	}{
		{name: "centered", x: 0, y: 0},
		{name: "corners", x: -1, y: 1},
		{name: "x_too_large", x: 1.01, y: 0, wantErr: ErrOutOfRange, errContains: "tilt x"},
		{name: "y_too_small", x: 0, y: -2, wantErr: ErrOutOfRange, errContains: "tilt y"},
		{name: "nan", x: math.NaN(), y: 0, wantErr: ErrNonFinite},
		{name: "inf", x: 0, y: math.Inf(1), wantErr: ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTilt(tt.x, tt.y)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTilt() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTilt() error = %v, want %v", err, tt.wantErr)
			}
			if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q should mention %q", err, tt.errContains)
			}
		})
	}
}

func TestValidateKinematics(t *testing.T) {
	good := physics.Kinematics{
		Position: physics.Vector2D{X: 10, Y: 20},
		Velocity: physics.Vector2D{X: 100, Y: 0},
		Rotation: 0.3,
	}
	if err := ValidateKinematics(good); err != nil {
		t.Errorf("ValidateKinematics(good) = %v", err)
	}

	bad := good
	bad.Velocity.Y = math.NaN()
	if err := ValidateKinematics(bad); !errors.Is(err, ErrNonFinite) || !strings.Contains(err.Error(), "velocity") {
		t.Errorf("ValidateKinematics(NaN velocity) = %v", err)
	}

	bad = good
	bad.Rotation = math.Inf(-1)
	if err := ValidateKinematics(bad); !errors.Is(err, ErrNonFinite) {
		t.Errorf("ValidateKinematics(inf rotation) = %v", err)
	}
}

func TestValidateCollision(t *testing.T) {
	valid := physics.CollisionEvent{
		IncomingVelocity: physics.Vector2D{X: 3, Y: -4},
		SurfaceNormal:    physics.Vector2D{X: 0, Y: 1},
		Restitution:      physics.DefaultRestitution,
	}

	tests := []struct {
		name    string
		mutate  func(*physics.CollisionEvent)
		wantErr error
	}{
		{"valid", func(*physics.CollisionEvent) {}, nil},
		{"non_unit_normal", func(ev *physics.CollisionEvent) { ev.SurfaceNormal = physics.Vector2D{X: 0, Y: 2} }, ErrNotUnitLength},
		{"zero_normal", func(ev *physics.CollisionEvent) { ev.SurfaceNormal = physics.Vector2D{} }, ErrNotUnitLength},
		{"restitution_above_one", func(ev *physics.CollisionEvent) { ev.Restitution = 1.2 }, ErrOutOfRange},
		{"negative_restitution", func(ev *physics.CollisionEvent) { ev.Restitution = -0.1 }, ErrOutOfRange},
		{"nan_velocity", func(ev *physics.CollisionEvent) { ev.IncomingVelocity.X = math.NaN() }, ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := valid
			tt.mutate(&ev)
			err := ValidateCollision(ev)
			if tt.wantErr == nil && err != nil {
				t.Errorf("ValidateCollision() unexpected error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCollision() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTimeStep(t *testing.T) {
	tests := []struct {
		dt      float64
		wantErr bool
	}{
		{1.0 / 60, false},
		{1.0 / 120, false},
		{MaxTimeStep, false},
		{0, true},
		{-0.01, true},
		{1, true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		if err := ValidateTimeStep(tt.dt); (err != nil) != tt.wantErr {
			t.Errorf("ValidateTimeStep(%v) error = %v, wantErr %v", tt.dt, err, tt.wantErr)
		}
	}
}

func TestValidateMultiplier(t *testing.T) {
	if err := ValidateMultiplier("lift", 1.3); err != nil {
		t.Errorf("ValidateMultiplier(1.3) = %v", err)
	}
	if err := ValidateMultiplier("drag", 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ValidateMultiplier(0) = %v", err)
	}
	if err := ValidateMultiplier("turnRate", math.Inf(1)); !errors.Is(err, ErrNonFinite) {
		t.Errorf("ValidateMultiplier(inf) = %v", err)
	}
}
