package body

import (
	"testing"

	"github.com/taricsa/tiny-pilots-sub006/pkg/physics"
)

func TestCourse_Detect(t *testing.T) {
	course := Course{
		GroundY:   0,
		HasGround: true,
		Obstacles: []Obstacle{
			{Name: "tree", Shape: physics.Circle{Center: physics.Vector2D{X: 100, Y: 12}, Radius: 10}},
			{Name: "kite", Shape: physics.Circle{Center: physics.Vector2D{X: 500, Y: 500}, Radius: 10}},
		},
	}

	tests := []struct {
		name     string
		position physics.Vector2D
		want     []string
	}{
		{"clear_air", physics.Vector2D{X: 0, Y: 100}, nil},
		{"ground_only", physics.Vector2D{X: 0, Y: 5}, []string{GroundName}},
		{"obstacle_only", physics.Vector2D{X: 100, Y: 25}, []string{"tree"}},
		// ground penetration 6, tree penetration 18 - 10 = 8
		{"deepest_first", physics.Vector2D{X: 100, Y: 2}, []string{"tree", GroundName}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(tt.position, physics.Vector2D{}, 1)
			hits := course.Detect(b)

			if len(hits) != len(tt.want) {
				t.Fatalf("Detect() = %d hits, want %d (%+v)", len(hits), len(tt.want), hits)
			}
			for i, name := range tt.want {
				if hits[i].Obstacle != name {
					t.Errorf("hit[%d] = %q, want %q", i, hits[i].Obstacle, name)
				}
				if !hits[i].Contact.Collided {
					t.Errorf("hit[%d] should be a collision", i)
				}
			}
		})
	}
}

func TestCourse_NoGround(t *testing.T) {
	b := New(physics.Vector2D{Y: -50}, physics.Vector2D{}, 1)
	if hits := (Course{}).Detect(b); len(hits) != 0 {
		t.Errorf("Detect() = %+v, want none without ground", hits)
	}
}

func TestApproaching(t *testing.T) {
	ground := physics.Contact{Collided: true, Normal: physics.Vector2D{Y: 1}}

	tests := []struct {
		name     string
		velocity physics.Vector2D
		want     bool
	}{
		{"falling", physics.Vector2D{X: 10, Y: -5}, true},
		{"sliding", physics.Vector2D{X: 10}, false},
		{"climbing", physics.Vector2D{Y: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Approaching(tt.velocity, ground); got != tt.want {
				t.Errorf("Approaching(%v) = %v, want %v", tt.velocity, got, tt.want)
			}
		})
	}
}

func TestSeparate_ResolvesPenetration(t *testing.T) {
	course := Course{HasGround: true}
	b := New(physics.Vector2D{X: 3, Y: 2}, physics.Vector2D{Y: -10}, 1)

	hits := course.Detect(b)
	if len(hits) != 1 {
		t.Fatalf("Detect() = %d hits, want 1", len(hits))
	}
	b.Separate(hits[0].Contact)

	if got := b.Kinematics().Position; !vecNear(got, physics.Vector2D{X: 3, Y: DefaultRadius}) {
		t.Errorf("Position = %v, want resting on the ground", got)
	}
	if hits := course.Detect(b); len(hits) != 0 {
		t.Errorf("body should be clear after Separate, got %+v", hits)
	}

	// no-op for a miss
	b.Separate(physics.Contact{})
	if got := b.Kinematics().Position; !vecNear(got, physics.Vector2D{X: 3, Y: DefaultRadius}) {
		t.Errorf("Separate on a miss moved the body to %v", got)
	}
}
