package profile

import "github.com/pvandervelde/basic-swerve-sim/internal/geometry"

// linearTrajectory moves at constant rate from start to start+delta.
type linearTrajectory struct {
	start    float64
	delta    float64
	duration float64
	space    geometry.ValueSpace
}

// NewLinear builds a constant-rate trajectory. The transition distance is the
// shortest signed distance the value space allows, clamped so the constant
// rate stays within the velocity limit. The acceleration limit does not apply
// to the interior of a linear profile, which has zero second derivative.
func NewLinear(start, end, duration float64, space geometry.ValueSpace, limits Limits) (Trajectory, error) {
	delta := space.SmallestDistance(start, end)

	var clamped bool
	if duration > 0 {
		delta, clamped = clampDelta(delta, limits, 1/duration, 0)
	}

	t := &linearTrajectory{
		start:    space.Normalize(start),
		delta:    delta,
		duration: duration,
		space:    space,
	}
	if clamped {
		return t, ErrInfeasible
	}
	return t, nil
}

func (l *linearTrajectory) Duration() float64 { return l.duration }

func (l *linearTrajectory) At(t float64) Sample {
	if l.duration <= 0 {
		// Degenerate zero-span trajectory: the end state, everywhere.
		return Sample{Value: l.space.Normalize(l.start + l.delta)}
	}

	if t < 0 {
		t = 0
	}
	if t > l.duration {
		t = l.duration
	}

	return Sample{
		Value:    l.space.Normalize(l.start + l.delta*t/l.duration),
		Velocity: l.delta / l.duration,
	}
}
