// Package profile generates time-parameterised trajectories for a single
// scalar degree of freedom.
//
// A generator is a pure function of its inputs: start value, end value, the
// duration of the transition, the value space the variable lives in, and the
// actuator limits. It returns a Trajectory sampleable at any t in
// [0, duration]. Angular variables built over a circular space travel the
// shortest signed rotation between the endpoints.
//
// When the requested transition cannot be completed within the limits and
// duration, the generator clamps the end value to the best feasible one and
// reports ErrInfeasible alongside the (valid, clamped) trajectory. Callers
// treat this as a warning condition, not a failure.
package profile

import (
	"errors"
	"fmt"

	"github.com/pvandervelde/basic-swerve-sim/internal/geometry"
)

// ErrInfeasible reports that a requested transition exceeded the supplied
// limits and the trajectory end state was clamped to the best feasible value.
var ErrInfeasible = errors.New("target not reachable within limits, end state clamped")

// Sample is the state of a profiled variable at one instant.
type Sample struct {
	Value        float64
	Velocity     float64 // first derivative
	Acceleration float64 // second derivative
}

// Trajectory is a continuous function of elapsed time over [0, Duration].
// Sampling outside the interval returns the boundary state.
type Trajectory interface {
	At(t float64) Sample
	Duration() float64
}

// Limits bounds the derivatives of the profiled value. Velocity limits the
// first derivative, acceleration the second. Zero means unbounded.
type Limits struct {
	MaxVelocity     float64
	MaxAcceleration float64
	MaxJerk         float64
}

// Generator builds a trajectory from a start value to an end value over the
// given duration. Implementations are stateless and reentrant.
type Generator func(start, end, duration float64, space geometry.ValueSpace, limits Limits) (Trajectory, error)

// Generator discriminator names, used by plan files.
const (
	LinearGeneratorName      = "linear"
	TrapezoidalGeneratorName = "trapezoidal"
)

// NewGenerator resolves a generator by its discriminator name.
func NewGenerator(name string) (Generator, error) {
	switch name {
	case LinearGeneratorName:
		return NewLinear, nil
	case TrapezoidalGeneratorName:
		return NewTrapezoidal, nil
	default:
		return nil, fmt.Errorf("unknown profile generator %q", name)
	}
}

// clampDelta limits the signed transition distance so that the peak first and
// second derivatives of the profile stay within bounds. peakVel and peakAcc
// are the per-unit-delta peaks of the profile shape (e.g. a linear profile
// covering delta over duration T has peak velocity delta/T, so peakVel=1/T).
func clampDelta(delta float64, limits Limits, peakVel, peakAcc float64) (float64, bool) {
	allowed := delta
	if limits.MaxVelocity > 0 && peakVel > 0 {
		if maxD := limits.MaxVelocity / peakVel; abs(allowed) > maxD {
			allowed = copySign(maxD, allowed)
		}
	}
	if limits.MaxAcceleration > 0 && peakAcc > 0 {
		if maxD := limits.MaxAcceleration / peakAcc; abs(allowed) > maxD {
			allowed = copySign(maxD, allowed)
		}
	}
	return allowed, allowed != delta
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func copySign(magnitude, sign float64) float64 {
	if sign < 0 {
		return -magnitude
	}
	return magnitude
}
