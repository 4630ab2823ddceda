// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func vecNear(a, b Vector2D) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon
}

func TestVector2D_Arithmetic(t *testing.T) {
	tests := []struct {
		name     string
		got      Vector2D
		expected Vector2D
	}{
		{"add_mixed_signs", Vector2D{X: 5, Y: -3}.Add(Vector2D{X: -2, Y: 7}), Vector2D{X: 3, Y: 4}},
		{"add_zero", Vector2D{}.Add(Vector2D{X: 5, Y: -3}), Vector2D{X: 5, Y: -3}},
		{"sub_negative_result", Vector2D{X: 2, Y: 3}.Sub(Vector2D{X: 5, Y: 7}), Vector2D{X: -3, Y: -4}},
		{"sub_self", Vector2D{X: 4, Y: 6}.Sub(Vector2D{X: 4, Y: 6}), Vector2D{}},
		{"scale_negative", Vector2D{X: 3, Y: 4}.Scale(-2), Vector2D{X: -6, Y: -8}},
		{"scale_zero", Vector2D{X: 3, Y: 4}.Scale(0), Vector2D{}},
		{"scale_fractional", Vector2D{X: 4, Y: 8}.Scale(0.5), Vector2D{X: 2, Y: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, expected %v", tt.got, tt.expected)
			}
		})
	}
}

func TestVector2D_Length(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vector2D
		expected float64
	}{
		{"zero_vector", Vector2D{}, 0},
		{"unit_y", Vector2D{X: 0, Y: 1}, 1},
		{"pythagorean_triple", Vector2D{X: 3, Y: 4}, 5},
		{"negative_components", Vector2D{X: -6, Y: -8}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vector.Length(); math.Abs(got-tt.expected) > epsilon {
				t.Errorf("Length() = %v, expected %v", got, tt.expected)
			}
			if got := tt.vector.LengthSquared(); math.Abs(got-tt.expected*tt.expected) > epsilon {
				t.Errorf("LengthSquared() = %v, expected %v", got, tt.expected*tt.expected)
			}
		})
	}
}

func TestVector2D_Normalize(t *testing.T) {
	t.Run("arbitrary_vector", func(t *testing.T) {
		result := Vector2D{X: 3, Y: 4}.Normalize()
		if !vecNear(result, Vector2D{X: 0.6, Y: 0.8}) {
			t.Errorf("Normalize() = %v, expected (0.6, 0.8)", result)
		}
	})

	t.Run("zero_vector_stays_zero", func(t *testing.T) {
		result := Vector2D{}.Normalize()
		if result != (Vector2D{}) {
			t.Errorf("Normalize() of zero vector = %v, expected zero vector", result)
		}
		if math.IsNaN(result.X) || math.IsNaN(result.Y) {
			t.Error("Normalize() of zero vector produced NaN")
		}
	})
}

func TestVector2D_Perpendicular(t *testing.T) {
	vectors := []Vector2D{{X: 1, Y: 0}, {X: 3, Y: 4}, {X: -2, Y: 7}}
	for _, v := range vectors {
		p := v.Perpendicular()
		if math.Abs(v.Dot(p)) > epsilon {
			t.Errorf("Perpendicular(%v) = %v is not orthogonal", v, p)
		}
		if math.Abs(p.Length()-v.Length()) > epsilon {
			t.Errorf("Perpendicular(%v) changed length", v)
		}
	}

	if got := (Vector2D{X: 1, Y: 0}).Perpendicular(); got != (Vector2D{X: 0, Y: 1}) {
		t.Errorf("Perpendicular should rotate counter-clockwise, got %v", got)
	}
}

func TestVector2D_Reflect(t *testing.T) {
	tests := []struct {
		name     string
		v        Vector2D
		normal   Vector2D
		expected Vector2D
	}{
		{"straight_into_floor", Vector2D{X: 0, Y: -5}, Vector2D{X: 0, Y: 1}, Vector2D{X: 0, Y: 5}},
		{"glancing_floor", Vector2D{X: 3, Y: -4}, Vector2D{X: 0, Y: 1}, Vector2D{X: 3, Y: 4}},
		{"wall_on_right", Vector2D{X: 10, Y: 2}, Vector2D{X: -1, Y: 0}, Vector2D{X: -10, Y: 2}},
		{"parallel_to_surface", Vector2D{X: 7, Y: 0}, Vector2D{X: 0, Y: 1}, Vector2D{X: 7, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Reflect(tt.normal); !vecNear(got, tt.expected) {
				t.Errorf("Reflect() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestVector2D_Angle(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vector2D
		expected float64
	}{
		{"positive_x_axis", Vector2D{X: 1, Y: 0}, 0},
		{"positive_y_axis", Vector2D{X: 0, Y: 1}, math.Pi / 2},
		{"negative_x_axis", Vector2D{X: -1, Y: 0}, math.Pi},
		{"135_degrees", Vector2D{X: -1, Y: 1}, 3 * math.Pi / 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vector.Angle(); math.Abs(got-tt.expected) > epsilon {
				t.Errorf("Angle() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestFromAngle(t *testing.T) {
	tests := []struct {
		name      string
		angle     float64
		magnitude float64
		expected  Vector2D
	}{
		{"zero_angle", 0, 2, Vector2D{X: 2, Y: 0}},
		{"quarter_turn", math.Pi / 2, 1, Vector2D{X: 0, Y: 1}},
		{"diagonal", math.Pi / 4, 2, Vector2D{X: math.Sqrt2, Y: math.Sqrt2}},
		{"zero_magnitude", math.Pi / 4, 0, Vector2D{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromAngle(tt.angle, tt.magnitude); !vecNear(got, tt.expected) {
				t.Errorf("FromAngle() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestVector2D_IsFinite(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vector2D
		expected bool
	}{
		{"finite", Vector2D{X: 1, Y: -2}, true},
		{"nan_x", Vector2D{X: math.NaN(), Y: 0}, false},
		{"inf_y", Vector2D{X: 0, Y: math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vector.IsFinite(); got != tt.expected {
				t.Errorf("IsFinite() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func BenchmarkVector2D_Normalize(b *testing.B) {
	v := Vector2D{X: 3, Y: 4}

	for i := 0; i < b.N; i++ {
		_ = v.Normalize()
	}
}

func BenchmarkVector2D_Reflect(b *testing.B) {
	v := Vector2D{X: 3, Y: -4}
	n := Vector2D{X: 0, Y: 1}

	for i := 0; i < b.N; i++ {
		_ = v.Reflect(n)
	}
}
