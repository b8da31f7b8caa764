// Package controller implements the module trajectory synchroniser: the
// stateful orchestrator that advances the robot's module set through a
// sequence of motion commands.
//
// The controller is a two-state machine, Idle or Executing, driven purely by
// elapsed time. Submitting a command while Executing is rejected, so no two
// target states are ever in flight for the same module set. Every command
// builds one steering trajectory and one drive trajectory per module over
// the command's span; the two degrees of freedom run on independent profiles
// so a zero crossing in one cannot corrupt the other.
package controller

import (
	"errors"
	"fmt"
	"math"

	"github.com/pvandervelde/basic-swerve-sim/internal/geometry"
	"github.com/pvandervelde/basic-swerve-sim/internal/kinematics"
	"github.com/pvandervelde/basic-swerve-sim/internal/profile"
)

// ErrInvalidCommand reports a command that was rejected before any state
// mutation: non-positive time span, mismatched module name set, or a command
// arriving while another is executing.
var ErrInvalidCommand = errors.New("invalid motion command")

// angleTolerance treats two absolute steering changes as equal when they
// differ by less than this, so candidate selection cannot flip-flop on
// floating noise.
const angleTolerance = 1e-7

// spanTolerance absorbs floating accumulation error when deciding that a
// command's span has fully elapsed.
const spanTolerance = 1e-9

// TickResult is the externally observable output of one controller step.
type TickResult struct {
	// States holds the instantaneous state of every module, in the model's
	// module order.
	States []kinematics.ModuleState

	// Clamped reports that the active command's targets were not reachable
	// within the actuator limits and the end state was clamped to the best
	// feasible value. Recoverable: the trajectory itself is valid.
	Clamped bool
}

// activeCommand is the Executing state: the trajectories for the command in
// flight and the time elapsed on them.
type activeCommand struct {
	span     float64
	elapsed  float64
	clamped  bool
	steering []profile.Trajectory
	drive    []profile.Trajectory
}

// Controller owns the current module-state snapshot and the active command.
// It is not safe for concurrent use; the simulation engine drives it from a
// single goroutine.
type Controller struct {
	model    kinematics.Model
	modules  []kinematics.DriveModule
	generate profile.Generator

	states []kinematics.ModuleState
	active *activeCommand
}

// New builds a controller with every module at steering angle zero and zero
// drive velocity.
func New(model kinematics.Model, generate profile.Generator) *Controller {
	modules := model.Modules()
	states := make([]kinematics.ModuleState, len(modules))
	for i, module := range modules {
		states[i] = kinematics.ModuleState{Name: module.Name, Position: module.Position}
	}
	return &Controller{
		model:    model,
		modules:  modules,
		generate: generate,
		states:   states,
	}
}

// IsIdle reports whether no command is executing.
func (c *Controller) IsIdle() bool { return c.active == nil }

// ModuleStates returns a copy of the current module-state snapshot.
func (c *Controller) ModuleStates() []kinematics.ModuleState {
	out := make([]kinematics.ModuleState, len(c.states))
	copy(out, c.states)
	return out
}

// SetInitialStates seeds the module snapshot, typically from a plan's start
// state. Only allowed while idle. Consistency with any body start state is
// deliberately not validated.
func (c *Controller) SetInitialStates(targets []kinematics.ModuleTarget) error {
	if c.active != nil {
		return fmt.Errorf("%w: cannot reset module states while a command is executing", ErrInvalidCommand)
	}

	ordered, err := c.orderByModule(targets)
	if err != nil {
		return err
	}
	for i, target := range ordered {
		c.states[i] = kinematics.ModuleState{
			Name:          c.modules[i].Name,
			Position:      c.modules[i].Position,
			SteeringAngle: geometry.NormalizeAngle(target.SteeringAngle),
			DriveVelocity: target.DriveVelocity,
		}
	}
	return nil
}

// Submit accepts a command and transitions to Executing. Acceptance is
// all-or-nothing: on any error the controller state is unchanged.
func (c *Controller) Submit(cmd MotionCommand) error {
	if c.active != nil {
		return fmt.Errorf("%w: a command is already executing", ErrInvalidCommand)
	}
	if cmd.TimeSpan() <= 0 {
		return fmt.Errorf("%w: time span must be positive, got %v", ErrInvalidCommand, cmd.TimeSpan())
	}

	var (
		targets []kinematics.ModuleTarget
		clamped bool
		err     error
	)
	switch cmd := cmd.(type) {
	case BodyMotionCommand:
		targets, clamped = c.resolveBodyCommand(cmd)
	case ModuleMotionCommand:
		targets, clamped, err = c.resolveModuleCommand(cmd)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unsupported command type %T", ErrInvalidCommand, cmd)
	}

	active := &activeCommand{
		span:     cmd.TimeSpan(),
		clamped:  clamped,
		steering: make([]profile.Trajectory, len(c.modules)),
		drive:    make([]profile.Trajectory, len(c.modules)),
	}
	for i, module := range c.modules {
		endAngle := targets[i].SteeringAngle
		if !targets[i].HasHeading() {
			endAngle = c.states[i].SteeringAngle
		}

		steering, err := c.generate(
			c.states[i].SteeringAngle, endAngle, active.span,
			geometry.CircularSpace{}, steeringLimits(module))
		if errors.Is(err, profile.ErrInfeasible) {
			active.clamped = true
		} else if err != nil {
			return fmt.Errorf("building steering trajectory for module %q: %w", module.Name, err)
		}

		drive, err := c.generate(
			c.states[i].DriveVelocity, targets[i].DriveVelocity, active.span,
			geometry.LinearSpace{}, driveLimits(module))
		if errors.Is(err, profile.ErrInfeasible) {
			active.clamped = true
		} else if err != nil {
			return fmt.Errorf("building drive trajectory for module %q: %w", module.Name, err)
		}

		active.steering[i] = steering
		active.drive[i] = drive
	}

	c.active = active
	return nil
}

// Advance moves the active command forward by dt seconds and samples every
// module trajectory at the new elapsed time. When the span has fully elapsed
// the sampled end states become the current snapshot and the controller
// returns to Idle. Advancing while idle returns the snapshot unchanged.
func (c *Controller) Advance(dt float64) TickResult {
	if c.active == nil {
		return TickResult{States: c.ModuleStates()}
	}

	c.active.elapsed += dt
	t := c.active.elapsed
	if t > c.active.span {
		t = c.active.span
	}

	for i, module := range c.modules {
		steering := c.active.steering[i].At(t)
		drive := c.active.drive[i].At(t)
		c.states[i] = kinematics.ModuleState{
			Name:                 module.Name,
			Position:             module.Position,
			SteeringAngle:        steering.Value,
			SteeringVelocity:     steering.Velocity,
			SteeringAcceleration: steering.Acceleration,
			DriveVelocity:        drive.Value,
			DriveAcceleration:    drive.Velocity,
		}
	}

	result := TickResult{States: c.ModuleStates(), Clamped: c.active.clamped}
	if c.active.elapsed >= c.active.span-spanTolerance {
		c.active = nil
	}
	return result
}

// resolveBodyCommand runs inverse kinematics and picks, per module, the
// candidate requiring the smaller absolute steering change from the module's
// current heading. Ties (including the exact half-turn reversal) break toward
// the candidate with non-negative wheel speed, which keeps the choice
// deterministic across runs.
func (c *Controller) resolveBodyCommand(cmd BodyMotionCommand) ([]kinematics.ModuleTarget, bool) {
	options, clamped := c.model.Inverse(cmd.Motion)

	targets := make([]kinematics.ModuleTarget, len(options))
	for i, option := range options {
		current := geometry.NormalizeAngle(c.states[i].SteeringAngle)

		if !option.Forward.HasHeading() {
			// Zero-speed target: hold the current heading, stop the wheel.
			targets[i] = kinematics.ModuleTarget{Name: c.modules[i].Name, SteeringAngle: current}
			continue
		}

		space := geometry.CircularSpace{}
		forwardChange := math.Abs(space.SmallestDistance(current, option.Forward.SteeringAngle))
		reverseChange := math.Abs(space.SmallestDistance(current, option.Reverse.SteeringAngle))

		switch {
		case math.Abs(forwardChange-reverseChange) < angleTolerance:
			if option.Forward.DriveVelocity >= 0 {
				targets[i] = option.Forward
			} else {
				targets[i] = option.Reverse
			}
		case forwardChange < reverseChange:
			targets[i] = option.Forward
		default:
			targets[i] = option.Reverse
		}
	}

	return targets, clamped
}

// resolveModuleCommand validates the target name set against the configured
// modules, reorders the targets into model order, and clamps drive
// velocities to the motor limit.
func (c *Controller) resolveModuleCommand(cmd ModuleMotionCommand) ([]kinematics.ModuleTarget, bool, error) {
	ordered, err := c.orderByModule(cmd.Targets)
	if err != nil {
		return nil, false, err
	}

	clamped := false
	for i, module := range c.modules {
		if limit := module.Drive.MaxVelocity; limit > 0 && math.Abs(ordered[i].DriveVelocity) > limit {
			ordered[i].DriveVelocity = math.Copysign(limit, ordered[i].DriveVelocity)
			clamped = true
		}
	}
	return ordered, clamped, nil
}

// orderByModule maps a target list onto the configured module order by name.
// The name sets must match exactly.
func (c *Controller) orderByModule(targets []kinematics.ModuleTarget) ([]kinematics.ModuleTarget, error) {
	if len(targets) != len(c.modules) {
		return nil, fmt.Errorf("%w: got %d module targets, want %d", ErrInvalidCommand, len(targets), len(c.modules))
	}

	byName := make(map[string]kinematics.ModuleTarget, len(targets))
	for _, target := range targets {
		if _, dup := byName[target.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate target for module %q", ErrInvalidCommand, target.Name)
		}
		byName[target.Name] = target
	}

	ordered := make([]kinematics.ModuleTarget, len(c.modules))
	for i, module := range c.modules {
		target, ok := byName[module.Name]
		if !ok {
			return nil, fmt.Errorf("%w: no target for module %q", ErrInvalidCommand, module.Name)
		}
		ordered[i] = target
	}
	return ordered, nil
}

// steeringLimits maps steering motor limits onto profile derivative limits:
// the profiled value is the steering angle, so the motor velocity bounds the
// first derivative.
func steeringLimits(m kinematics.DriveModule) profile.Limits {
	return profile.Limits{
		MaxVelocity:     m.Steering.MaxVelocity,
		MaxAcceleration: m.Steering.MaxAcceleration,
		MaxJerk:         m.Steering.MaxJerk,
	}
}

// driveLimits maps drive motor limits onto profile derivative limits: the
// profiled value is already a velocity, so the motor acceleration bounds the
// first derivative and the jerk the second. The velocity bound itself is
// enforced on the target value by the kinematic model and the module-command
// resolution.
func driveLimits(m kinematics.DriveModule) profile.Limits {
	return profile.Limits{
		MaxVelocity:     m.Drive.MaxAcceleration,
		MaxAcceleration: m.Drive.MaxJerk,
	}
}
