// Package engine implements the swerve simulation loop.
//
// The simulation advances in fixed timesteps. Commands execute strictly
// sequentially: each command is submitted to the controller, then ticked
// until its time span has elapsed. Each tick has two passes:
//
//  1. Module pass - the controller samples every module's steering and drive
//     trajectories, producing the instantaneous module state set.
//
//  2. Body pass - forward kinematics reconstructs the body motion that best
//     fits the sampled module states, and the world pose is integrated by
//     rotating the body-frame displacement into the world frame.
//
// For a given plan and tick rate the output is fully deterministic.
package engine

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"

	"github.com/pvandervelde/basic-swerve-sim/internal/controller"
	"github.com/pvandervelde/basic-swerve-sim/internal/geometry"
	"github.com/pvandervelde/basic-swerve-sim/internal/kinematics"
	"github.com/pvandervelde/basic-swerve-sim/internal/plan"
	"github.com/pvandervelde/basic-swerve-sim/internal/profile"
)

// DefaultRateHz is the tick rate used when a caller does not choose one.
const DefaultRateHz = 100.0

// Simulator owns the simulation state for a single run: the kinematic model,
// the controller, and the current body pose.
type Simulator struct {
	meta   SimulationMeta
	model  kinematics.Model
	ctrl   *controller.Controller
	body   kinematics.BodyState
	now    float64
	logger golog.Logger
}

// NewSimulator constructs a simulator from a validated motion plan. A zero
// rate selects DefaultRateHz.
func NewSimulator(p *plan.MotionPlan, rateHz float64, logger golog.Logger) (*Simulator, error) {
	if rateHz <= 0 {
		rateHz = DefaultRateHz
	}

	model, err := kinematics.NewFourWheelSteering(p.Modules)
	if err != nil {
		return nil, fmt.Errorf("building kinematic model: %w", err)
	}

	generate, err := profile.NewGenerator(p.GeneratorName)
	if err != nil {
		return nil, err
	}

	ctrl := controller.New(model, generate)
	if len(p.StartModules) > 0 {
		if err := ctrl.SetInitialStates(p.StartModules); err != nil {
			return nil, fmt.Errorf("seeding module start state: %w", err)
		}
	}

	return &Simulator{
		meta:   SimulationMeta{Name: p.Name, Description: p.Description, RateHz: rateHz},
		model:  model,
		ctrl:   ctrl,
		body:   p.StartBody,
		logger: logger,
	}, nil
}

// BodyState returns the current body pose and motion.
func (s *Simulator) BodyState() kinematics.BodyState { return s.body }

// Run executes the plan's commands in order and returns the full log.
func (s *Simulator) Run(commands []controller.MotionCommand) (SimulationLog, error) {
	log := SimulationLog{Meta: s.meta}
	log.Rows = append(log.Rows, SimulationLogRow{
		Timestamp: s.now,
		Body:      s.body,
		Modules:   s.ctrl.ModuleStates(),
	})

	for i, cmd := range commands {
		if err := s.ctrl.Submit(cmd); err != nil {
			return SimulationLog{}, fmt.Errorf("command %d: %w", i, err)
		}

		dt := 1.0 / s.meta.RateHz
		steps := int(math.Ceil(cmd.TimeSpan()*s.meta.RateHz - 1e-9))

		warned := false
		for step := 0; step < steps; step++ {
			row := s.step(dt)
			if row.Clamped && !warned {
				s.logger.Warnf("command %d: target exceeds actuator limits, end state clamped", i)
				warned = true
			}
			log.Rows = append(log.Rows, row)
		}

		if !s.ctrl.IsIdle() {
			return SimulationLog{}, fmt.Errorf("command %d: still executing after its span elapsed", i)
		}
	}

	return log, nil
}

// step advances the simulation by one timestep and returns the resulting
// log row.
func (s *Simulator) step(dt float64) SimulationLogRow {
	s.now += dt

	// Module pass.
	tick := s.ctrl.Advance(dt)

	// Body pass: least-squares body motion from the module states, then pose
	// integration. The module count always matches the model here, so the
	// forward solve cannot fail.
	motion, err := s.model.Forward(tick.States)
	if err != nil {
		panic(fmt.Sprintf("forward kinematics on controller output: %v", err))
	}

	localX := dt * motion.LinearVelocity.X
	localY := dt * motion.LinearVelocity.Y
	orientation := geometry.NormalizeAngle(s.body.Orientation + dt*motion.AngularVelocity.Z)

	s.body = kinematics.BodyState{
		Position:    s.body.Position.Add(rotate(localX, localY, orientation)),
		Orientation: orientation,
		Motion:      motion,
	}

	return SimulationLogRow{
		Timestamp: s.now,
		Body:      s.body,
		Modules:   tick.States,
		Clamped:   tick.Clamped,
	}
}

// rotate expresses a body-frame displacement in the world frame.
func rotate(x, y, angle float64) r2.Point {
	sin, cos := math.Sincos(angle)
	return r2.Point{X: x*cos - y*sin, Y: x*sin + y*cos}
}

// RunPlan builds a simulator for the plan and executes it. This is the
// single entry point shared by the CLI and the WASM target.
func RunPlan(p *plan.MotionPlan, rateHz float64, logger golog.Logger) (SimulationLog, error) {
	sim, err := NewSimulator(p, rateHz, logger)
	if err != nil {
		return SimulationLog{}, err
	}
	return sim.Run(p.Commands)
}

// RunYAML accepts a YAML-encoded motion plan, runs the simulation at the
// default rate, and returns the JSON-encoded SimulationLog.
func RunYAML(input string, logger golog.Logger) (string, error) {
	p, err := plan.Load([]byte(input))
	if err != nil {
		return "", err
	}

	simLog, err := RunPlan(p, DefaultRateHz, logger)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(simLog)
	if err != nil {
		return "", fmt.Errorf("marshaling output: %w", err)
	}
	return string(out), nil
}
