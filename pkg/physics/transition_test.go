package physics

import (
	"math"
	"testing"
)

func TestWindTransition_EndsExactlyAtTarget(t *testing.T) {
	for _, easing := range []Easing{EaseLinear, EaseSmoothstep} {
		t.Run(easing.String(), func(t *testing.T) {
			tr := NewWindTransition(WindFromDirection(0, 2), 90, 8, 1.0, 0.1, easing)

			var states []WindState
			for s := range tr.All() {
				states = append(states, s)
			}

			if len(states) != 10 {
				t.Fatalf("expected 10 states, got %d", len(states))
			}
			if last := states[len(states)-1]; last != tr.Target() {
				t.Errorf("last state %v != target %v", last, tr.Target())
			}
			if !tr.Done() {
				t.Error("transition should be done after draining")
			}
			if _, ok := tr.Next(); ok {
				t.Error("Next() after completion should return false")
			}
		})
	}
}

func TestWindTransition_MonotonicStrength(t *testing.T) {
	tr := NewWindTransition(WindFromDirection(45, 1), 45, 11, 2, 0.25, EaseSmoothstep)

	previous := 1.0
	for s := range tr.All() {
		if s.Strength() < previous-1e-9 {
			t.Fatalf("strength decreased from %v to %v", previous, s.Strength())
		}
		previous = s.Strength()
	}
	if math.Abs(previous-11) > 1e-9 {
		t.Errorf("final strength = %v, expected 11", previous)
	}
}

func TestWindTransition_ShortestAngularPath(t *testing.T) {
	// 170° -> -170° should pass through 180°, not sweep through 0°
	tr := NewWindTransition(WindFromDirection(170, 5), -170, 5, 1, 0.5, EaseLinear)

	mid, ok := tr.Next()
	if !ok {
		t.Fatal("expected an intermediate state")
	}
	if math.Abs(math.Abs(mid.DirectionDegrees())-180) > 1e-6 {
		t.Errorf("midpoint direction = %v, expected ±180", mid.DirectionDegrees())
	}
}

func TestWindTransition_FromCalm(t *testing.T) {
	tr := NewWindTransition(WindState{}, 30, 6, 1, 0.5, EaseLinear)

	mid, _ := tr.Next()
	if math.Abs(mid.DirectionDegrees()-30) > 1e-9 {
		t.Errorf("calm start should ramp along target direction, got %v", mid.DirectionDegrees())
	}
	if math.Abs(mid.Strength()-3) > 1e-9 {
		t.Errorf("midpoint strength = %v, expected 3", mid.Strength())
	}
}

func TestWindTransition_ZeroDuration(t *testing.T) {
	tr := NewWindTransition(WindFromDirection(0, 3), 180, 4, 0, 1.0/60, EaseLinear)

	if tr.Remaining() != 1 {
		t.Fatalf("expected a single step, got %d", tr.Remaining())
	}
	s, ok := tr.Next()
	if !ok || s != tr.Target() {
		t.Errorf("Next() = %v, %v; expected target", s, ok)
	}
}

func TestWindTransition_Cancel(t *testing.T) {
	tr := NewWindTransition(WindFromDirection(0, 3), 90, 4, 1, 0.1, EaseLinear)
	tr.Next()
	tr.Cancel()

	if !tr.Done() || !tr.Cancelled() {
		t.Error("cancelled transition should report done")
	}
	if tr.Remaining() != 0 {
		t.Errorf("Remaining() = %d after cancel", tr.Remaining())
	}
	if _, ok := tr.Next(); ok {
		t.Error("Next() after Cancel should return false")
	}
}

func TestParseEasing(t *testing.T) {
	tests := []struct {
		input    string
		expected Easing
		wantErr  bool
	}{
		{"", EaseLinear, false},
		{"Linear", EaseLinear, false},
		{"smoothstep", EaseSmoothstep, false},
		{"bounce", EaseLinear, true},
	}

	for _, tt := range tests {
		got, err := ParseEasing(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEasing(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.expected {
			t.Errorf("ParseEasing(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}
