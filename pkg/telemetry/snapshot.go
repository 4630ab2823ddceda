// Package telemetry publishes per-tick simulation snapshots to an outbound
// sink for rendering and replay tooling. Publishing is guarded by a circuit
// breaker so a failing sink never stalls the flight loop.
package telemetry

import "github.com/taricsa/tiny-pilots-sub006/pkg/physics"

// WindSnapshot is the environment wind at the time of a snapshot
type WindSnapshot struct {
	Vector           physics.Vector2D `json:"vector"`
	Strength         float64          `json:"strength"`
	DirectionDegrees float64          `json:"directionDegrees"`
	Transitioning    bool             `json:"transitioning"`
}

// NewWindSnapshot captures a wind state
func NewWindSnapshot(w physics.WindState, transitioning bool) WindSnapshot {
	return WindSnapshot{
		Vector:           w.Vector,
		Strength:         w.Strength(),
		DirectionDegrees: w.DirectionDegrees(),
		Transitioning:    transitioning,
	}
}

// AirplaneSnapshot is one airplane's kinematics and the load applied last tick
type AirplaneSnapshot struct {
	ID        uint64           `json:"id"`
	Archetype string           `json:"archetype"`
	Fold      string           `json:"fold"`
	Position  physics.Vector2D `json:"position"`
	Velocity  physics.Vector2D `json:"velocity"`
	Rotation  float64          `json:"rotation"`
	Force     physics.Vector2D `json:"force"`
	Torque    float64          `json:"torque"`
}

// Snapshot is the simulation state after one tick
type Snapshot struct {
	Tick        uint64             `json:"tick"`
	SimTime     float64            `json:"simTime"`
	Environment string             `json:"environment"`
	Wind        WindSnapshot       `json:"wind"`
	Airplanes   []AirplaneSnapshot `json:"airplanes"`
}
