// pkg/engine/system.go
package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/EngoEngine/ecs"
)

// FlightSystem drives a Simulation from an ecs.World. Each world update is
// one simulation step; removing an entity from the world removes its airplane.
type FlightSystem struct {
	sim *Simulation
	ctx context.Context

	mu      sync.Mutex
	lastErr error
}

// NewFlightSystem wraps sim. ctx is passed to every Step.
func NewFlightSystem(ctx context.Context, sim *Simulation) *FlightSystem {
	return &FlightSystem{sim: sim, ctx: ctx}
}

// Update satisfies the ecs.System interface
func (fs *FlightSystem) Update(dt float32) {
	err := fs.sim.Step(fs.ctx, float64(dt))

	fs.mu.Lock()
	fs.lastErr = err
	fs.mu.Unlock()
}

// Remove satisfies the ecs.System interface
func (fs *FlightSystem) Remove(basic ecs.BasicEntity) {
	err := fs.sim.RemoveAirplane(basic.ID())
	// entities owned by other systems are not airplanes
	if err != nil && !errors.Is(err, ErrUnknownAirplane) {
		fs.sim.logger.Debug(fs.ctx, "removing airplane entity", "entity_id", basic.ID(), "error", err.Error())
	}
}

// Err returns the error from the most recent Update, if any
func (fs *FlightSystem) Err() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.lastErr
}

// Simulation returns the driven simulation
func (fs *FlightSystem) Simulation() *Simulation {
	return fs.sim
}
