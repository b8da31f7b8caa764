package kinematics

import (
	"math"

	"github.com/golang/geo/r2"
)

// ICR is the instantaneous centre of rotation implied by one pair of
// modules: the intersection of their axle lines, in body coordinates. For a
// consistent (slip-free) module set all pairs agree on a single point.
type ICR struct {
	First    string   `json:"first"`
	Second   string   `json:"second"`
	Point    r2.Point `json:"point"`
	Parallel bool     `json:"parallel"` // axles parallel, centre at infinity
}

// parallelTolerance matches the homogeneous-coordinate cutoff used when two
// axle lines are treated as parallel rather than intersecting far away.
const parallelTolerance = 1e-5

// CentersOfRotation intersects the axle lines of every module pair. The axle
// line of a module runs through the module position, perpendicular to the
// wheel heading.
func CentersOfRotation(states []ModuleState) []ICR {
	type line struct {
		a, b r2.Point // two points on the axle line
	}

	lines := make([]line, len(states))
	for i, state := range states {
		// The wheel heading vector is [cos a, sin a]; its perpendicular is
		// [-sin a, cos a], which is the axle direction.
		lines[i] = line{
			a: state.Position,
			b: r2.Point{
				X: state.Position.X - math.Sin(state.SteeringAngle),
				Y: state.Position.Y + math.Cos(state.SteeringAngle),
			},
		}
	}

	var result []ICR
	for i := 0; i < len(states); i++ {
		for j := i + 1; j < len(states); j++ {
			p, parallel := intersect(lines[i].a, lines[i].b, lines[j].a, lines[j].b)
			result = append(result, ICR{
				First:    states[i].Name,
				Second:   states[j].Name,
				Point:    p,
				Parallel: parallel,
			})
		}
	}
	return result
}

// intersect returns the intersection of the lines through (a1, a2) and
// (b1, b2) using homogeneous coordinates. Parallel lines intersect at
// infinity; the reported point is then (+Inf, +Inf).
func intersect(a1, a2, b1, b2 r2.Point) (r2.Point, bool) {
	// cross product of the homogeneous point pairs gives the line, cross
	// product of the lines gives the homogeneous intersection point
	l1x, l1y, l1w := cross3(a1.X, a1.Y, 1, a2.X, a2.Y, 1)
	l2x, l2y, l2w := cross3(b1.X, b1.Y, 1, b2.X, b2.Y, 1)
	px, py, pw := cross3(l1x, l1y, l1w, l2x, l2y, l2w)

	if math.Abs(pw) < parallelTolerance {
		return r2.Point{X: math.Inf(1), Y: math.Inf(1)}, true
	}
	return r2.Point{X: px / pw, Y: py / pw}, false
}

func cross3(ax, ay, az, bx, by, bz float64) (x, y, z float64) {
	return ay*bz - az*by, az*bx - ax*bz, ax*by - ay*bx
}
