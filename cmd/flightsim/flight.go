// cmd/flightsim/flight.go
package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/EngoEngine/ecs"

	"github.com/taricsa/tiny-pilots-sub006/pkg/airplane"
	"github.com/taricsa/tiny-pilots-sub006/pkg/body"
	"github.com/taricsa/tiny-pilots-sub006/pkg/config"
	"github.com/taricsa/tiny-pilots-sub006/pkg/engine"
	"github.com/taricsa/tiny-pilots-sub006/pkg/event"
	"github.com/taricsa/tiny-pilots-sub006/pkg/health"
	"github.com/taricsa/tiny-pilots-sub006/pkg/logging"
	"github.com/taricsa/tiny-pilots-sub006/pkg/physics"
	"github.com/taricsa/tiny-pilots-sub006/pkg/telemetry"
)

// Final snapshot delivery
const (
	finalPublishAttempts = 3
	finalPublishDelay    = 100 * time.Millisecond
)

// planeSpec is one airplane requested on the command line
type planeSpec struct {
	archetype airplane.Archetype
	fold      airplane.FoldType
}

// parsePlanes parses "archetype[:fold],..." with the basic fold as default
func parsePlanes(s string) ([]planeSpec, error) {
	var specs []planeSpec
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, foldName, hasFold := strings.Cut(part, ":")
		a, err := airplane.ParseArchetype(name)
		if err != nil {
			return nil, err
		}
		fold := airplane.FoldBasic
		if hasFold {
			if fold, err = airplane.ParseFold(foldName); err != nil {
				return nil, err
			}
		}
		specs = append(specs, planeSpec{archetype: a, fold: fold})
	}
	if len(specs) == 0 {
		return nil, errors.New("at least one airplane is required")
	}
	return specs, nil
}

// windChange schedules a wind transition at a given tick
type windChange struct {
	atTick    uint64
	direction float64
	strength  float64
	duration  float64
}

// options control one flight run
type options struct {
	ticks       int
	planes      []planeSpec
	environment string
	tiltX       float64
	tiltY       float64
	wind        *windChange
	realtime    bool
	integrity   float64
	repairRate  float64
	course      body.Course
	sink        telemetry.Sink
}

// defaultCourse is a ground line with two floating hoops
func defaultCourse() body.Course {
	return body.Course{
		GroundY:   0,
		HasGround: true,
		Obstacles: []body.Obstacle{
			{Name: "hoop-1", Shape: physics.Circle{Center: physics.Vector2D{X: 400, Y: 180}, Radius: 25}},
			{Name: "hoop-2", Shape: physics.Circle{Center: physics.Vector2D{X: 900, Y: 260}, Radius: 25}},
		},
	}
}

// pilot pairs an airplane with the body it flies
type pilot struct {
	plane *engine.Airplane
	body  *body.Body
}

// report summarizes a finished run
type report struct {
	Ticks      uint64
	Collisions int
	Destroyed  int
	Telemetry  telemetry.Stats
	Final      telemetry.Snapshot
}

// flight owns one simulation run: the ecs world, bodies and telemetry
type flight struct {
	cfg       *config.SimulationConfig
	opts      options
	logger    *logging.Logger
	sim       *engine.Simulation
	world     *ecs.World
	system    *engine.FlightSystem
	publisher *telemetry.Publisher
	pilots    []*pilot
	dt        float64

	collisions int
	destroyed  int
}

func newFlight(ctx context.Context, cfg *config.SimulationConfig, opts options, logger *logging.Logger) (*flight, error) {
	sim, err := engine.NewSimulation(cfg, engine.WithLogger(logger))
	if err != nil {
		return nil, logging.WrapError(err, "creating simulation")
	}
	if opts.environment != "" {
		if err := sim.SetEnvironment(opts.environment); err != nil {
			return nil, err
		}
	}

	f := &flight{
		cfg:    cfg,
		opts:   opts,
		logger: logger,
		sim:    sim,
		world:  &ecs.World{},
		dt:     1 / float64(cfg.TickRate),
	}
	f.system = engine.NewFlightSystem(ctx, sim)
	f.world.AddSystem(f.system)

	table := cfg.CoefficientTable()
	for i, spec := range opts.planes {
		coeffs, err := table.Lookup(spec.archetype)
		if err != nil {
			return nil, err
		}
		var bodyOpts []body.Option
		if opts.integrity > 0 {
			bodyOpts = append(bodyOpts, body.WithIntegrity(opts.integrity))
		}
		b := body.New(
			physics.Vector2D{X: 0, Y: 200 + 40*float64(i)},
			physics.Vector2D{X: 120},
			coeffs.Mass,
			bodyOpts...,
		)
		plane, err := sim.AddAirplane(spec.archetype, spec.fold, b)
		if err != nil {
			return nil, err
		}
		plane.SetTilt(engine.FixedTilt{X: opts.tiltX, Y: opts.tiltY})
		f.pilots = append(f.pilots, &pilot{plane: plane, body: b})
	}

	sink := opts.sink
	if sink == nil && cfg.Telemetry.Enabled {
		if sink, err = telemetry.OpenSink(cfg.Telemetry.Path); err != nil {
			return nil, logging.WrapError(err, "opening telemetry sink %q", cfg.Telemetry.Path)
		}
	}
	if sink != nil {
		f.publisher = telemetry.NewPublisher(cfg.Telemetry, sink, logger)
	}

	sim.EventBus().Subscribe(event.CollisionResolved, func(e event.Event) {
		ce := e.(*event.CollisionEvent)
		logger.Debug(ctx, "Collision resolved",
			"airplane_id", ce.AirplaneID,
			"impact_force", ce.Result.ImpactForce,
		)
	})
	sim.EventBus().Subscribe(event.WindTransitionFinished, func(e event.Event) {
		we := e.(*event.WindEvent)
		logger.Info(ctx, "Wind transition finished",
			"direction_degrees", we.Current.DirectionDegrees(),
			"strength", we.Current.Strength(),
		)
	})

	return f, nil
}

// checks returns the readiness checks for this flight
func (f *flight) checks(maxStall time.Duration) []health.Check {
	checks := []health.Check{health.NewProgressCheck(f.sim.Tick, maxStall)}
	if f.publisher != nil {
		checks = append(checks, health.NewBreakerCheck("telemetry", f.publisher.State))
	}
	return checks
}

// tick advances the world one step, integrates bodies and resolves contacts
func (f *flight) tick(ctx context.Context) error {
	if w := f.opts.wind; w != nil && f.sim.Tick() == w.atTick {
		if err := f.sim.TransitionWind(w.direction, w.strength, w.duration); err != nil {
			return fmt.Errorf("wind transition: %w", err)
		}
	}

	f.world.Update(float32(f.dt))
	if err := f.system.Err(); err != nil {
		return err
	}

	survivors := f.pilots[:0]
	for _, p := range f.pilots {
		p.body.Integrate(f.dt)
		if f.resolveContacts(ctx, p) {
			f.destroyed++
			f.logger.Info(ctx, "Airplane destroyed",
				"airplane_id", p.plane.ID(),
				"archetype", p.plane.Archetype.String(),
				"tick", f.sim.Tick(),
			)
			f.world.RemoveEntity(p.plane.BasicEntity)
			continue
		}
		if f.opts.repairRate > 0 {
			p.body.Repair(f.opts.repairRate, f.dt)
		}
		survivors = append(survivors, p)
	}
	f.pilots = survivors

	if f.publisher != nil && f.publisher.Due(f.sim.Tick()) {
		if err := f.publisher.Publish(ctx, f.sim.Snapshot()); err != nil {
			f.logger.Warn(ctx, "Telemetry publish failed", "error", err.Error())
		}
	}
	return nil
}

// resolveContacts bounces the body off anything it is moving into and
// separates it from every contact. It reports whether the body broke.
func (f *flight) resolveContacts(ctx context.Context, p *pilot) bool {
	broken := false
	for _, hit := range f.opts.course.Detect(p.body) {
		velocity := p.body.Kinematics().Velocity
		if body.Approaching(velocity, hit.Contact) {
			result, err := f.sim.HandleCollision(p.plane.ID(), physics.CollisionEvent{
				IncomingVelocity: velocity,
				SurfaceNormal:    hit.Contact.Normal,
				Restitution:      f.sim.Restitution(),
			})
			if err != nil {
				f.logger.Error(ctx, "Collision rejected", err, "airplane_id", p.plane.ID(), "obstacle", hit.Obstacle)
			} else {
				f.collisions++
				p.body.SetVelocity(result.OutgoingVelocity)
				broken = p.body.TakeImpact(result.ImpactForce) || broken
			}
		}
		p.body.Separate(hit.Contact)
	}
	return broken
}

// run flies opts.ticks steps, or until ctx ends or every airplane is gone
func (f *flight) run(ctx context.Context) (report, error) {
	var pace <-chan time.Time
	if f.opts.realtime {
		ticker := time.NewTicker(time.Duration(f.dt * float64(time.Second)))
		defer ticker.Stop()
		pace = ticker.C
	}

	var runErr error
loop:
	for i := 0; i < f.opts.ticks && len(f.pilots) > 0; i++ {
		if pace != nil {
			select {
			case <-ctx.Done():
				break loop
			case <-pace:
			}
		} else if ctx.Err() != nil {
			break
		}
		if err := f.tick(ctx); err != nil {
			runErr = err
			break
		}
	}

	rep := report{
		Ticks:      f.sim.Tick(),
		Collisions: f.collisions,
		Destroyed:  f.destroyed,
		Final:      f.sim.Snapshot(),
	}

	if f.publisher != nil {
		// the final snapshot goes out even if the throttle or a cancelled run
		// would skip it
		if err := f.publisher.PublishWithRetry(context.WithoutCancel(ctx), rep.Final, finalPublishAttempts, finalPublishDelay); err != nil {
			f.logger.Warn(ctx, "Final telemetry snapshot not delivered", "error", err.Error())
		}
		rep.Telemetry = f.publisher.Stats()
		if err := f.publisher.Close(); err != nil {
			f.logger.Warn(ctx, "Closing telemetry sink", "error", err.Error())
		}
	}
	return rep, runErr
}
