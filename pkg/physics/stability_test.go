package physics

import (
	"math"
	"testing"

	"github.com/taricsa/tiny-pilots-sub006/pkg/airplane"
)

func TestStabilizationTorque_Deadband(t *testing.T) {
	velocity := Vector2D{X: 0, Y: 100}
	for _, a := range airplane.Archetypes {
		c := coefficientsFor(t, a)
		for _, speed := range []float64{0, 10, 99.999, 100} {
			if got := StabilizationTorque(1.5, velocity, speed, c); got != 0 {
				t.Errorf("%s: torque at speed %v = %v, expected 0", a, speed, got)
			}
		}
	}
}

func TestStabilizationTorque_Gain(t *testing.T) {
	c := coefficientsFor(t, airplane.Glider)
	velocity := Vector2D{X: 0, Y: 1} // heading π/2

	tests := []struct {
		name     string
		speed    float64
		expected float64
	}{
		{"quarter_ramp", 125, math.Pi / 2 * 0.15 * 0.25},
		{"half_ramp", 150, math.Pi / 2 * 0.15 * 0.5},
		{"full_gain", 200, math.Pi / 2 * 0.15},
		{"saturated", 900, math.Pi / 2 * 0.15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StabilizationTorque(0, velocity, tt.speed, c)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("StabilizationTorque() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestStabilizationTorque_ShortestPath(t *testing.T) {
	c := coefficientsFor(t, airplane.Basic)

	tests := []struct {
		name     string
		rotation float64
		heading  float64
		wantSign float64
	}{
		{"small_left", 0, 0.3, 1},
		{"small_right", 0, -0.3, -1},
		{"across_pi_ccw", 3.0, -3.0, 1},  // shortest path crosses +π
		{"across_pi_cw", -3.0, 3.0, -1},  // shortest path crosses -π
		{"wound_rotation", 4 * math.Pi, 0.2, 1},
		{"negative_wound", -6*math.Pi + 0.5, 0.2, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			velocity := FromAngle(tt.heading, 300)
			got := StabilizationTorque(tt.rotation, velocity, 300, c)
			if math.Signbit(got) != math.Signbit(tt.wantSign) || got == 0 {
				t.Errorf("torque = %v, expected sign %v", got, tt.wantSign)
			}
			if math.Abs(got) > math.Pi*c.Stabilization+1e-12 {
				t.Errorf("torque %v exceeds half-turn bound", got)
			}
		})
	}
}

func TestStabilizationTorque_AlignedIsZero(t *testing.T) {
	c := coefficientsFor(t, airplane.Sturdy)
	heading := 0.7
	got := StabilizationTorque(heading, FromAngle(heading, 250), 250, c)
	if math.Abs(got) > 1e-12 {
		t.Errorf("aligned torque = %v, expected 0", got)
	}
}
