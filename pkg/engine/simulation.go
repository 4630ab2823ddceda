// pkg/engine/simulation.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/EngoEngine/ecs"
	"golang.org/x/sync/errgroup"

	"github.com/taricsa/tiny-pilots-sub006/pkg/airplane"
	"github.com/taricsa/tiny-pilots-sub006/pkg/config"
	"github.com/taricsa/tiny-pilots-sub006/pkg/event"
	"github.com/taricsa/tiny-pilots-sub006/pkg/logging"
	"github.com/taricsa/tiny-pilots-sub006/pkg/physics"
	"github.com/taricsa/tiny-pilots-sub006/pkg/telemetry"
	"github.com/taricsa/tiny-pilots-sub006/pkg/validation"
)

// Sentinel errors
var (
	ErrUnknownAirplane    = errors.New("unknown airplane")
	ErrUnknownEnvironment = errors.New("unknown environment")
)

// Simulation owns the state shared by every airplane in a session: the
// single active wind, the random source, the coefficient tables and the
// event bus. All methods are safe for concurrent use; events are published
// after the internal lock is released so handlers may call back in.
type Simulation struct {
	mu sync.Mutex

	config       *config.SimulationConfig
	coefficients airplane.CoefficientTable
	folds        airplane.FoldTable
	rng          physics.RandomSource
	bus          *event.Bus
	logger       *logging.Logger

	airplanes map[uint64]*Airplane
	order     []uint64

	environment string
	wind        physics.WindState
	variability physics.WindVariability
	easing      physics.Easing
	transition  *physics.WindTransition
	windTimer   float64

	tick    uint64
	simTime float64
}

// Option configures a Simulation
type Option func(*Simulation)

// WithRandomSource injects the random source used for turbulence and wind drift
func WithRandomSource(rng physics.RandomSource) Option {
	return func(s *Simulation) { s.rng = rng }
}

// WithEventBus injects the event bus
func WithEventBus(bus *event.Bus) Option {
	return func(s *Simulation) { s.bus = bus }
}

// WithLogger injects the logger
func WithLogger(logger *logging.Logger) Option {
	return func(s *Simulation) { s.logger = logger }
}

// NewSimulation creates a simulation in the configured default environment.
// A nil cfg uses config.DefaultConfig.
func NewSimulation(cfg *config.SimulationConfig, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		config:       cfg,
		coefficients: cfg.CoefficientTable(),
		folds:        cfg.FoldTable(),
		airplanes:    make(map[uint64]*Airplane),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = physics.NewRandomSource(cfg.Seed)
	}
	if s.bus == nil {
		s.bus = event.NewEventBus()
	}
	if s.logger == nil {
		s.logger = logging.NewLogger()
	}
	s.logger = s.logger.With("component", "simulation")

	if err := s.SetEnvironment(cfg.DefaultEnvironment); err != nil {
		return nil, err
	}
	return s, nil
}

// EventBus returns the bus simulation events are published on
func (s *Simulation) EventBus() *event.Bus {
	return s.bus
}

// Config returns the configuration the simulation was built from
func (s *Simulation) Config() *config.SimulationConfig {
	return s.config
}

// AddAirplane registers an airplane flying the given body. The archetype and
// fold are resolved against the coefficient tables once, here.
func (s *Simulation) AddAirplane(archetype airplane.Archetype, fold airplane.FoldType, body RigidBody) (*Airplane, error) {
	if body == nil {
		return nil, errors.New("airplane requires a rigid body")
	}
	coeffs, err := s.coefficients.Lookup(archetype)
	if err != nil {
		return nil, err
	}
	multiplier, err := s.folds.Lookup(fold)
	if err != nil {
		return nil, err
	}

	a := &Airplane{
		BasicEntity:  ecs.NewBasic(),
		Archetype:    archetype,
		Fold:         fold,
		Body:         body,
		coefficients: coeffs,
		multiplier:   multiplier,
		tilt:         FixedTilt{},
	}

	s.mu.Lock()
	s.airplanes[a.ID()] = a
	s.order = append(s.order, a.ID())
	slices.Sort(s.order)
	s.mu.Unlock()

	s.bus.Publish(event.NewAirplaneEvent(event.AirplaneAdded, s, a.ID(), archetype.String(), fold.String()))
	return a, nil
}

// RemoveAirplane unregisters an airplane
func (s *Simulation) RemoveAirplane(id uint64) error {
	s.mu.Lock()
	a, ok := s.airplanes[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownAirplane, id)
	}
	delete(s.airplanes, id)
	if i, found := slices.BinarySearch(s.order, id); found {
		s.order = slices.Delete(s.order, i, i+1)
	}
	s.mu.Unlock()

	s.bus.Publish(event.NewAirplaneEvent(event.AirplaneRemoved, s, id, a.Archetype.String(), a.Fold.String()))
	return nil
}

// Airplane returns a registered airplane by ID
func (s *Simulation) Airplane(id uint64) (*Airplane, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.airplanes[id]
	return a, ok
}

// Airplanes returns the registered airplanes in ID order
func (s *Simulation) Airplanes() []*Airplane {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Airplane, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.airplanes[id])
	}
	return out
}

// Wind returns the active wind state
func (s *Simulation) Wind() physics.WindState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wind
}

// Environment returns the active environment name
func (s *Simulation) Environment() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.environment
}

// Transitioning reports whether a wind transition is in flight
func (s *Simulation) Transitioning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transition != nil
}

// Tick returns the number of completed steps
func (s *Simulation) Tick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// SimTime returns the simulated seconds elapsed
func (s *Simulation) SimTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.simTime
}

// SetEnvironment switches the session to a configured environment. The wind
// resets to the environment's initial wind and any transition is cancelled.
func (s *Simulation) SetEnvironment(name string) error {
	env, ok := s.config.Environment(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEnvironment, name)
	}
	name = strings.ToLower(strings.TrimSpace(name))

	s.mu.Lock()
	s.cancelTransitionLocked()
	s.environment = name
	s.wind = env.InitialWind()
	s.variability = env.Variability()
	s.easing = env.EasingCurve()
	s.windTimer = 0
	wind := s.wind
	s.mu.Unlock()

	s.logger.Info(context.Background(), "environment changed",
		"environment", name,
		"wind_strength", wind.Strength(),
		"wind_direction", wind.DirectionDegrees(),
	)
	s.bus.Publish(event.NewEnvironmentEvent(s, name, wind))
	return nil
}

// TransitionWind starts a gradual change of the wind toward a target,
// advancing one state per Step over duration seconds at the configured tick
// rate. Any in-flight transition is cancelled and replaced.
func (s *Simulation) TransitionWind(targetDirectionDeg, targetStrength, duration float64) error {
	if err := validation.ValidateScalar("target direction", targetDirectionDeg); err != nil {
		return err
	}
	if err := validation.ValidateScalar("target strength", targetStrength); err != nil {
		return err
	}
	if targetStrength < 0 {
		return fmt.Errorf("target strength: %w: %v", validation.ErrOutOfRange, targetStrength)
	}

	s.mu.Lock()
	s.cancelTransitionLocked()
	step := 1.0 / float64(s.config.TickRate)
	t := physics.NewWindTransition(s.wind, targetDirectionDeg, targetStrength, duration, step, s.easing)
	s.transition = t
	current, target, steps := s.wind, t.Target(), t.Remaining()
	s.mu.Unlock()

	s.logger.Debug(context.Background(), "wind transition started",
		"target_direction", targetDirectionDeg,
		"target_strength", targetStrength,
		"steps", steps,
	)
	s.bus.Publish(event.NewWindEvent(event.WindTransitionStarted, s, current, target))
	return nil
}

// CancelWindTransition stops the in-flight transition, leaving the wind where it is
func (s *Simulation) CancelWindTransition() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTransitionLocked()
}

func (s *Simulation) cancelTransitionLocked() {
	if s.transition != nil {
		s.transition.Cancel()
		s.transition = nil
	}
}

// advanceWindLocked is the single writer of the wind state within a tick
func (s *Simulation) advanceWindLocked(dt float64, pending *[]event.Event) {
	previous := s.wind

	if s.transition != nil {
		if next, ok := s.transition.Next(); ok {
			s.wind = next
		}
		if s.transition.Done() {
			*pending = append(*pending, event.NewWindEvent(event.WindTransitionFinished, s, previous, s.wind))
			s.transition = nil
		}
	} else if interval := s.config.WindUpdateIntervalSeconds; interval > 0 {
		s.windTimer += dt
		if s.windTimer >= interval {
			s.windTimer -= interval
			s.wind = physics.UpdateRandomWind(s.wind, s.variability, s.rng)
		}
	}

	if s.wind != previous {
		*pending = append(*pending, event.NewWindEvent(event.WindChanged, s, previous, s.wind))
	}
}

// Step advances the simulation one tick of dt seconds:
//  1. the wind is updated and turbulence is drawn for every airplane in ID
//     order, on the calling goroutine;
//  2. forces are computed per airplane against that frozen wind, in
//     parallel when configured;
//  3. forces and torques are submitted to each rigid body in ID order.
//
// In strict mode every airplane is validated first; invalid kinematics or
// tilt abort the step before the wind moves or any force is submitted.
func (s *Simulation) Step(ctx context.Context, dt float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.config.StrictInput {
		if err := validation.ValidateTimeStep(dt); err != nil {
			return err
		}
	}

	pending, err := s.step(ctx, dt)
	for _, e := range pending {
		s.bus.Publish(e)
	}
	if err != nil {
		s.logger.Error(ctx, "step failed", err, "tick", s.Tick())
	}
	return err
}

func (s *Simulation) step(ctx context.Context, dt float64) ([]event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	planes := make([]*Airplane, len(s.order))
	inputs := make([]FlightInput, len(s.order))
	for i, id := range s.order {
		a := s.airplanes[id]
		planes[i] = a

		k := a.Body.Kinematics()
		tx, ty := a.tiltSource().Tilt()
		if s.config.StrictInput {
			if err := validation.ValidateKinematics(k); err != nil {
				return nil, fmt.Errorf("airplane %d: %w", id, err)
			}
			if err := validation.ValidateTilt(tx, ty); err != nil {
				return nil, fmt.Errorf("airplane %d: %w", id, err)
			}
		}
		inputs[i] = FlightInput{
			Kinematics:   k,
			TiltX:        tx,
			TiltY:        ty,
			Coefficients: a.coefficients,
			Fold:         a.multiplier,
		}
	}

	// the wind moves only on a step that will be applied
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var pending []event.Event
	s.advanceWindLocked(dt, &pending)
	wind := s.wind
	for i := range inputs {
		inputs[i].Wind = wind
		inputs[i].Gust = physics.TurbulenceForce(wind.Strength(), s.config.TurbulenceChance, s.rng)
	}

	outputs, err := s.computeAll(ctx, inputs)
	if err != nil {
		return pending, err
	}

	for i, a := range planes {
		out := outputs[i]
		a.Body.ApplyForce(out.Net)
		a.Body.ApplyTorque(out.Torque)
		a.setLastForces(out)
		if !out.Gust.IsZero() {
			pending = append(pending, event.NewGustEvent(s, a.ID(), out.Gust))
		}
	}

	s.tick++
	s.simTime += dt
	return pending, nil
}

func (s *Simulation) computeAll(ctx context.Context, inputs []FlightInput) ([]ForceOutput, error) {
	outputs := make([]ForceOutput, len(inputs))

	if !s.config.Parallel || len(inputs) < 2 {
		for i, in := range inputs {
			outputs[i] = ComputeForces(in)
		}
		return outputs, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outputs[i] = ComputeForces(inputs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// Restitution returns the configured collision restitution
func (s *Simulation) Restitution() float64 {
	return s.config.Restitution
}

// HandleCollision resolves a collision reported by the integrator for one
// airplane, using the airplane's mass for the impact estimate. The result
// is returned for the caller to apply and published for damage handlers.
func (s *Simulation) HandleCollision(id uint64, ev physics.CollisionEvent) (physics.CollisionResult, error) {
	s.mu.Lock()
	a, ok := s.airplanes[id]
	s.mu.Unlock()
	if !ok {
		return physics.CollisionResult{}, fmt.Errorf("%w: %d", ErrUnknownAirplane, id)
	}

	if s.config.StrictInput {
		if err := validation.ValidateCollision(ev); err != nil {
			return physics.CollisionResult{}, fmt.Errorf("airplane %d: %w", id, err)
		}
	}

	result := physics.ResolveCollision(ev, a.coefficients.Mass)
	s.bus.Publish(event.NewCollisionEvent(s, id, ev, result))
	return result, nil
}

// Snapshot captures the current state for telemetry
func (s *Simulation) Snapshot() telemetry.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := telemetry.Snapshot{
		Tick:        s.tick,
		SimTime:     s.simTime,
		Environment: s.environment,
		Wind:        telemetry.NewWindSnapshot(s.wind, s.transition != nil),
		Airplanes:   make([]telemetry.AirplaneSnapshot, 0, len(s.order)),
	}
	for _, id := range s.order {
		a := s.airplanes[id]
		k := a.Body.Kinematics()
		last := a.LastForces()
		snap.Airplanes = append(snap.Airplanes, telemetry.AirplaneSnapshot{
			ID:        id,
			Archetype: a.Archetype.String(),
			Fold:      a.Fold.String(),
			Position:  k.Position,
			Velocity:  k.Velocity,
			Rotation:  k.Rotation,
			Force:     last.Net,
			Torque:    last.Torque,
		})
	}
	return snap
}
