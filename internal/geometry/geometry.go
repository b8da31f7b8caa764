// Package geometry provides angle normalisation and the value-space
// abstraction used by the motion profile generators.
//
// A value space describes the topology of a scalar control variable: drive
// velocities live in an unbounded linear space, steering angles live in a
// circular space wrapped to (-pi, pi]. Profiles built over a circular space
// automatically take the shortest signed rotation between two angles.
package geometry

import "math"

// NormalizeAngle wraps an angle in radians to the canonical (-pi, pi] range.
func NormalizeAngle(angle float64) float64 {
	// reduce to [0, 2pi)
	a := math.Mod(angle, 2*math.Pi)
	a = math.Mod(a+2*math.Pi, 2*math.Pi)

	if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// ValueSpace is the topology contract for a scalar control variable.
type ValueSpace interface {
	// SmallestDistance returns the signed distance from one value to another,
	// taking the shortest route the space allows.
	SmallestDistance(from, to float64) float64

	// Distances returns every distinct signed distance from one value to
	// another. Unbounded spaces have exactly one; periodic spaces have two
	// (the short way and the long way around), shortest first.
	Distances(from, to float64) []float64

	// Normalize maps a value onto the canonical range of the space.
	Normalize(value float64) float64
}

// LinearSpace is the unbounded 1D space of linear quantities such as
// distances and drive velocities.
type LinearSpace struct{}

func (LinearSpace) SmallestDistance(from, to float64) float64 { return to - from }

func (LinearSpace) Distances(from, to float64) []float64 { return []float64{to - from} }

func (LinearSpace) Normalize(value float64) float64 { return value }

// CircularSpace is the periodic 1D space of angles, wrapped to (-pi, pi].
type CircularSpace struct{}

// SmallestDistance returns the signed shortest rotation from one angle to
// another. An exact half turn deterministically resolves to +pi.
func (CircularSpace) SmallestDistance(from, to float64) float64 {
	diff := NormalizeAngle(to) - NormalizeAngle(from)

	// bring the difference back to [0, 2pi)
	if diff >= 2*math.Pi {
		diff -= 2 * math.Pi
	} else if diff < 0 {
		diff += 2 * math.Pi
	}

	if diff > math.Pi {
		diff -= 2 * math.Pi
	}
	return diff
}

// Distances returns the short and the long rotation between two angles, in
// that order. The two always differ by a full turn and have opposite signs.
func (s CircularSpace) Distances(from, to float64) []float64 {
	short := s.SmallestDistance(from, to)
	if short > 0 {
		return []float64{short, short - 2*math.Pi}
	}
	return []float64{short, short + 2*math.Pi}
}

func (CircularSpace) Normalize(value float64) float64 { return NormalizeAngle(value) }
