// Package airplane defines the paper airplane archetypes and fold types and
// the coefficient tables that drive the flight force model.
package airplane

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownArchetype is returned when an archetype tag has no coefficients
var ErrUnknownArchetype = errors.New("unknown airplane archetype")

// Archetype identifies an airplane class
type Archetype string

// Airplane archetypes
const (
	Basic  Archetype = "basic"
	Speedy Archetype = "speedy"
	Sturdy Archetype = "sturdy"
	Glider Archetype = "glider"
)

// Archetypes lists the built-in archetypes in display order
var Archetypes = []Archetype{Basic, Speedy, Sturdy, Glider}

// ParseArchetype converts a case-insensitive name to an Archetype.
// Whether the archetype exists is decided by the CoefficientTable in use,
// so data-defined archetypes parse as well.
func ParseArchetype(name string) (Archetype, error) {
	a := Archetype(strings.ToLower(strings.TrimSpace(name)))
	if a == "" {
		return "", fmt.Errorf("%w: empty name", ErrUnknownArchetype)
	}
	return a, nil
}

func (a Archetype) String() string {
	return string(a)
}

// Coefficients holds the base aerodynamic constants of one archetype
type Coefficients struct {
	Lift           float64 `json:"lift"`
	Drag           float64 `json:"drag"`
	TiltThrust     float64 `json:"tiltThrust"`
	ForwardThrust  float64 `json:"forwardThrust"`
	WindResistance float64 `json:"windResistance"`
	Stabilization  float64 `json:"stabilization"`
	Mass           float64 `json:"mass"`
}

// CoefficientTable maps archetypes to their coefficients
type CoefficientTable map[Archetype]Coefficients

// DefaultCoefficients returns the stock coefficient table
func DefaultCoefficients() CoefficientTable {
	return CoefficientTable{
		Basic: {
			Lift:           0.20,
			Drag:           0.10,
			TiltThrust:     50,
			ForwardThrust:  20,
			WindResistance: 0.5,
			Stabilization:  0.10,
			Mass:           1.0,
		},
		Speedy: {
			Lift:           0.15,
			Drag:           0.08,
			TiltThrust:     70,
			ForwardThrust:  30,
			WindResistance: 0.4,
			Stabilization:  0.08,
			Mass:           0.8,
		},
		Sturdy: {
			Lift:           0.25,
			Drag:           0.12,
			TiltThrust:     40,
			ForwardThrust:  15,
			WindResistance: 0.3,
			Stabilization:  0.12,
			Mass:           1.5,
		},
		Glider: {
			Lift:           0.35,
			Drag:           0.06,
			TiltThrust:     30,
			ForwardThrust:  10,
			WindResistance: 0.6,
			Stabilization:  0.15,
			Mass:           0.7,
		},
	}
}

// Lookup returns the coefficients for an archetype
func (t CoefficientTable) Lookup(a Archetype) (Coefficients, error) {
	c, ok := t[a]
	if !ok {
		return Coefficients{}, fmt.Errorf("%w: %q", ErrUnknownArchetype, a)
	}
	return c, nil
}

// Names returns the archetypes present in the table, sorted
func (t CoefficientTable) Names() []Archetype {
	names := make([]Archetype, 0, len(t))
	for a := range t {
		names = append(names, a)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
