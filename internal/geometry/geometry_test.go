package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAngle(t *testing.T) {
	cases := []struct {
		name  string
		angle float64
		want  float64
	}{
		{"zero", 0, 0},
		{"in range positive", 1.0, 1.0},
		{"in range negative", -1.0, -1.0},
		{"pi stays pi", math.Pi, math.Pi},
		{"minus pi wraps to pi", -math.Pi, math.Pi},
		{"just past pi", math.Pi + 0.1, -math.Pi + 0.1},
		{"full turn", 2 * math.Pi, 0},
		{"negative full turn", -2 * math.Pi, 0},
		{"many turns", 5*math.Pi + 0.5, -math.Pi + 0.5},
		{"negative many turns", -5*math.Pi - 0.5, math.Pi - 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, NormalizeAngle(tc.angle), 1e-12)
		})
	}
}

func TestNormalizeAngleRange(t *testing.T) {
	for a := -20.0; a <= 20.0; a += 0.37 {
		got := NormalizeAngle(a)
		assert.Greater(t, got, -math.Pi)
		assert.LessOrEqual(t, got, math.Pi)
	}
}

func TestLinearSpace(t *testing.T) {
	var s LinearSpace
	assert.Equal(t, 3.5, s.SmallestDistance(1.0, 4.5))
	assert.Equal(t, -3.5, s.SmallestDistance(4.5, 1.0))
	assert.Equal(t, []float64{2.0}, s.Distances(1.0, 3.0))
	assert.Equal(t, 42.0, s.Normalize(42.0))
}

func TestCircularSpaceSmallestDistance(t *testing.T) {
	var s CircularSpace
	cases := []struct {
		name     string
		from, to float64
		want     float64
	}{
		{"no change", 1.0, 1.0, 0},
		{"small positive", 0, 0.5, 0.5},
		{"small negative", 0.5, 0, -0.5},
		{"across pi boundary", 3*math.Pi/4 + 0.1, -3*math.Pi/4 - 0.1, math.Pi/2 - 0.2},
		{"across pi boundary reversed", -3*math.Pi/4 - 0.1, 3*math.Pi/4 + 0.1, -(math.Pi/2 - 0.2)},
		{"exact half turn is plus pi", 0, math.Pi, math.Pi},
		{"exact half turn from pi", math.Pi, 0, math.Pi},
		{"unnormalised inputs", 2 * math.Pi, 2*math.Pi + 0.25, 0.25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, s.SmallestDistance(tc.from, tc.to), 1e-12)
		})
	}
}

func TestCircularSpaceDistances(t *testing.T) {
	var s CircularSpace

	d := s.Distances(0, 0.5)
	assert.Len(t, d, 2)
	assert.InDelta(t, 0.5, d[0], 1e-12)
	assert.InDelta(t, 0.5-2*math.Pi, d[1], 1e-12)

	d = s.Distances(0.5, 0)
	assert.InDelta(t, -0.5, d[0], 1e-12)
	assert.InDelta(t, 2*math.Pi-0.5, d[1], 1e-12)

	// the two routes always differ by a full turn
	for from := -3.0; from <= 3.0; from += 0.7 {
		for to := -3.0; to <= 3.0; to += 0.7 {
			d := s.Distances(from, to)
			assert.InDelta(t, 2*math.Pi, math.Abs(d[0]-d[1]), 1e-12)
			assert.LessOrEqual(t, math.Abs(d[0]), math.Abs(d[1]))
		}
	}
}

func TestCircularSpaceNormalize(t *testing.T) {
	var s CircularSpace
	assert.InDelta(t, 0.5, s.Normalize(0.5+2*math.Pi), 1e-12)
	assert.InDelta(t, math.Pi, s.Normalize(-math.Pi), 1e-12)
}
