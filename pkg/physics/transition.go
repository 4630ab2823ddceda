package physics

import (
	"fmt"
	"iter"
	"math"
	"strings"
)

// Easing shapes the progress curve of a wind transition
type Easing int

const (
	// EaseLinear advances at a constant rate
	EaseLinear Easing = iota
	// EaseSmoothstep eases in and out (3t² - 2t³)
	EaseSmoothstep
)

// ParseEasing converts a case-insensitive name to an Easing
func ParseEasing(name string) (Easing, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear":
		return EaseLinear, nil
	case "smoothstep", "smooth":
		return EaseSmoothstep, nil
	}
	return EaseLinear, fmt.Errorf("unknown easing %q", name)
}

func (e Easing) String() string {
	switch e {
	case EaseSmoothstep:
		return "smoothstep"
	default:
		return "linear"
	}
}

func (e Easing) apply(t float64) float64 {
	if e == EaseSmoothstep {
		return t * t * (3 - 2*t)
	}
	return t
}

// WindTransition is a finite, lazily evaluated sequence of wind states moving
// from a starting wind to a target over a fixed number of ticks. Direction
// follows the shortest angular path. The final state equals the target.
//
// A WindTransition is not safe for concurrent use; the owner replaces it to
// start a new transition and cancels the old one.
type WindTransition struct {
	fromDirection float64
	fromStrength  float64
	deltaDegrees  float64
	toStrength    float64
	target        WindState
	easing        Easing
	steps         int
	index         int
	cancelled     bool
}

// NewWindTransition plans a transition lasting duration seconds, advanced in
// increments of step seconds. A non-positive duration or step produces a
// single-step transition straight to the target.
func NewWindTransition(from WindState, targetDirectionDeg, targetStrength, duration, step float64, easing Easing) *WindTransition {
	steps := 1
	if duration > 0 && step > 0 {
		steps = int(math.Ceil(duration/step - 1e-9))
		if steps < 1 {
			steps = 1
		}
	}

	fromDirection := from.DirectionDegrees()
	if from.Strength() == 0 {
		// calm air has no heading; only the strength ramps
		fromDirection = targetDirectionDeg
	}
	delta := RadiansToDegrees(NormalizeAngle(DegreesToRadians(targetDirectionDeg - fromDirection)))

	return &WindTransition{
		fromDirection: fromDirection,
		fromStrength:  from.Strength(),
		deltaDegrees:  delta,
		toStrength:    targetStrength,
		target:        WindFromDirection(targetDirectionDeg, targetStrength),
		easing:        easing,
		steps:         steps,
	}
}

// Next advances the transition one tick. It returns false once the
// transition is finished or cancelled.
func (t *WindTransition) Next() (WindState, bool) {
	if t.Done() {
		return WindState{}, false
	}
	t.index++
	if t.index == t.steps {
		return t.target, true
	}
	p := t.easing.apply(float64(t.index) / float64(t.steps))
	direction := t.fromDirection + t.deltaDegrees*p
	strength := t.fromStrength + (t.toStrength-t.fromStrength)*p
	return WindFromDirection(direction, strength), true
}

// All returns the remaining states as a sequence
func (t *WindTransition) All() iter.Seq[WindState] {
	return func(yield func(WindState) bool) {
		for {
			s, ok := t.Next()
			if !ok || !yield(s) {
				return
			}
		}
	}
}

// Cancel stops the transition; subsequent Next calls return false
func (t *WindTransition) Cancel() {
	t.cancelled = true
}

// Cancelled reports whether Cancel was called
func (t *WindTransition) Cancelled() bool {
	return t.cancelled
}

// Done reports whether the transition has no more states to yield
func (t *WindTransition) Done() bool {
	return t.cancelled || t.index >= t.steps
}

// Remaining returns the number of states still to be yielded
func (t *WindTransition) Remaining() int {
	if t.cancelled {
		return 0
	}
	return t.steps - t.index
}

// Target returns the final wind state
func (t *WindTransition) Target() WindState {
	return t.target
}
