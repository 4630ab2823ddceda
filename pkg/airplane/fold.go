package airplane

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownFold is returned when a fold tag has no multiplier
var ErrUnknownFold = errors.New("unknown fold type")

// FoldType identifies the fold pattern chosen during customization
type FoldType string

// Fold types
const (
	FoldBasic FoldType = "basic"
	FoldDart  FoldType = "dart"
	FoldWide  FoldType = "wide"
	FoldStunt FoldType = "stunt"
)

// ParseFold converts a case-insensitive name to a FoldType
func ParseFold(name string) (FoldType, error) {
	f := FoldType(strings.ToLower(strings.TrimSpace(name)))
	if f == "" {
		return "", fmt.Errorf("%w: empty name", ErrUnknownFold)
	}
	return f, nil
}

func (f FoldType) String() string {
	return string(f)
}

// PhysicsMultiplier scales archetype base coefficients
type PhysicsMultiplier struct {
	Lift     float64 `json:"lift"`
	Drag     float64 `json:"drag"`
	TurnRate float64 `json:"turnRate"`
}

// Neutral is the identity multiplier
var Neutral = PhysicsMultiplier{Lift: 1, Drag: 1, TurnRate: 1}

// FoldTable maps fold types to their multipliers
type FoldTable map[FoldType]PhysicsMultiplier

// DefaultFolds returns the stock fold table
func DefaultFolds() FoldTable {
	return FoldTable{
		FoldBasic: Neutral,
		FoldDart:  {Lift: 0.8, Drag: 0.7, TurnRate: 1.2},
		FoldWide:  {Lift: 1.3, Drag: 1.2, TurnRate: 0.8},
		FoldStunt: {Lift: 1.0, Drag: 1.1, TurnRate: 1.5},
	}
}

// Lookup returns the multiplier for a fold type
func (t FoldTable) Lookup(f FoldType) (PhysicsMultiplier, error) {
	m, ok := t[f]
	if !ok {
		return PhysicsMultiplier{}, fmt.Errorf("%w: %q", ErrUnknownFold, f)
	}
	return m, nil
}

// Names returns the fold types present in the table, sorted
func (t FoldTable) Names() []FoldType {
	names := make([]FoldType, 0, len(t))
	for f := range t {
		names = append(names, f)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
