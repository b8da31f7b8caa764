package kinematics

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentersOfRotationPairCount(t *testing.T) {
	states := []ModuleState{
		{Name: "a", Position: r2.Point{X: 0.5, Y: 0.5}},
		{Name: "b", Position: r2.Point{X: -0.5, Y: 0.5}},
		{Name: "c", Position: r2.Point{X: -0.5, Y: -0.5}},
		{Name: "d", Position: r2.Point{X: 0.5, Y: -0.5}},
	}
	result := CentersOfRotation(states)
	assert.Len(t, result, 6) // n*(n-1)/2 pairs
}

func TestCentersOfRotationPureRotation(t *testing.T) {
	// Modules steered tangentially around the body centre: every pair's
	// axle lines intersect at the origin.
	positions := []r2.Point{
		{X: 0.5, Y: 0.5}, {X: -0.5, Y: 0.5}, {X: -0.5, Y: -0.5}, {X: 0.5, Y: -0.5},
	}
	states := make([]ModuleState, len(positions))
	for i, p := range positions {
		states[i] = ModuleState{
			Name:          string(rune('a' + i)),
			Position:      p,
			SteeringAngle: math.Atan2(p.X, -p.Y),
		}
	}

	for _, icr := range CentersOfRotation(states) {
		require.False(t, icr.Parallel, "%s/%s", icr.First, icr.Second)
		assert.InDelta(t, 0, icr.Point.X, 1e-9)
		assert.InDelta(t, 0, icr.Point.Y, 1e-9)
	}
}

func TestCentersOfRotationParallelWheels(t *testing.T) {
	// Straight-ahead travel: all wheel headings equal, axle lines parallel,
	// centre at infinity.
	states := []ModuleState{
		{Name: "a", Position: r2.Point{X: 0.5, Y: 0.5}, SteeringAngle: 0},
		{Name: "b", Position: r2.Point{X: -0.5, Y: -0.5}, SteeringAngle: 0},
	}
	result := CentersOfRotation(states)
	require.Len(t, result, 1)
	assert.True(t, result[0].Parallel)
	assert.True(t, math.IsInf(result[0].Point.X, 1))
	assert.True(t, math.IsInf(result[0].Point.Y, 1))
}

func TestCentersOfRotationOffsetCenter(t *testing.T) {
	// Two wheels on the x axis steered to turn about the point (0, 1).
	left := ModuleState{Name: "left", Position: r2.Point{X: -1, Y: 0}}
	right := ModuleState{Name: "right", Position: r2.Point{X: 1, Y: 0}}

	// wheel heading is perpendicular to the line from the centre of
	// rotation to the wheel
	left.SteeringAngle = math.Atan2(0-1, -1-0) + math.Pi/2
	right.SteeringAngle = math.Atan2(0-1, 1-0) + math.Pi/2

	result := CentersOfRotation([]ModuleState{left, right})
	require.Len(t, result, 1)
	require.False(t, result[0].Parallel)
	assert.InDelta(t, 0, result[0].Point.X, 1e-9)
	assert.InDelta(t, 1, result[0].Point.Y, 1e-9)
}
