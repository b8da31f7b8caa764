package profile

import "github.com/pvandervelde/basic-swerve-sim/internal/geometry"

// trapezoidalTrajectory accelerates for the first third of the duration,
// cruises for the middle third, and decelerates for the final third. The
// first derivative is zero at both endpoints, which makes this the profile
// of choice when chaining commands: consecutive trajectories meet with
// continuous rates.
//
// With equal phase thirds the cruise rate follows from the covered distance:
//
//	delta = v * (0.5*T/3 + T/3 + 0.5*T/3) = v * 2T/3  =>  v = 1.5 * delta / T
type trapezoidalTrajectory struct {
	start    float64
	delta    float64
	duration float64
	peak     float64 // cruise rate, signed
	space    geometry.ValueSpace
}

// NewTrapezoidal builds a trapezoidal trajectory. The peak rate is
// 1.5*delta/T and the phase acceleration 4.5*delta/T^2; the transition
// distance is clamped so both stay within the limits.
func NewTrapezoidal(start, end, duration float64, space geometry.ValueSpace, limits Limits) (Trajectory, error) {
	delta := space.SmallestDistance(start, end)

	var clamped bool
	if duration > 0 {
		delta, clamped = clampDelta(delta, limits, 1.5/duration, 4.5/(duration*duration))
	}

	t := &trapezoidalTrajectory{
		start:    space.Normalize(start),
		delta:    delta,
		duration: duration,
		peak:     0,
		space:    space,
	}
	if duration > 0 {
		t.peak = 1.5 * delta / duration
	}
	if clamped {
		return t, ErrInfeasible
	}
	return t, nil
}

func (p *trapezoidalTrajectory) Duration() float64 { return p.duration }

func (p *trapezoidalTrajectory) At(t float64) Sample {
	if p.duration <= 0 {
		return Sample{Value: p.space.Normalize(p.start + p.delta)}
	}

	if t < 0 {
		t = 0
	}
	if t > p.duration {
		t = p.duration
	}

	phase := p.duration / 3
	accel := p.peak / phase

	var value, velocity, acceleration float64
	switch {
	case t < phase:
		velocity = accel * t
		acceleration = accel
		value = 0.5 * accel * t * t
	case t < 2*phase:
		velocity = p.peak
		value = 0.5*p.peak*phase + p.peak*(t-phase)
	default:
		td := t - 2*phase
		velocity = p.peak - accel*td
		acceleration = -accel
		value = 1.5*p.peak*phase + p.peak*td - 0.5*accel*td*td
	}

	return Sample{
		Value:        p.space.Normalize(p.start + value),
		Velocity:     velocity,
		Acceleration: acceleration,
	}
}
