package controller

import (
	"github.com/pvandervelde/basic-swerve-sim/internal/kinematics"
)

// MotionCommand is a commanded transition for the whole module set, tagged
// with the time span over which the transition must complete. Commands are
// immutable once issued.
type MotionCommand interface {
	// TimeSpan is the duration of the transition in seconds. Must be > 0.
	TimeSpan() float64
}

// BodyMotionCommand requests a target body-frame motion. The controller
// derives the per-module targets through the kinematic model, using the
// module states current at submission time.
type BodyMotionCommand struct {
	Motion kinematics.BodyMotion
	Span   float64 // seconds
}

// NewBodyMotionCommand builds a body motion command from the three free
// velocity components and a time span.
func NewBodyMotionCommand(vx, vy, omega, span float64) BodyMotionCommand {
	return BodyMotionCommand{Motion: kinematics.NewBodyMotion(vx, vy, omega), Span: span}
}

func (c BodyMotionCommand) TimeSpan() float64 { return c.Span }

// ModuleMotionCommand requests explicit per-module targets. Targets are
// matched to the configured modules by name; the name sets must be equal.
type ModuleMotionCommand struct {
	Targets []kinematics.ModuleTarget
	Span    float64 // seconds
}

func (c ModuleMotionCommand) TimeSpan() float64 { return c.Span }
