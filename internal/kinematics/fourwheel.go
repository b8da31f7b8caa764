package kinematics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/pvandervelde/basic-swerve-sim/internal/geometry"
)

// FourWheelModelName is the discriminator string for the four-wheel steering
// model in plan files.
const FourWheelModelName = "four-wheel-steering"

// zeroVelocityTolerance is the drive speed below which a module's heading is
// considered undefined. Emitting an arbitrary angle for a stopped module
// causes gratuitous steering motion, so the controller holds the previous
// heading instead.
const zeroVelocityTolerance = 1e-9

// FourWheelSteering translates between body motion and module motion for a
// set of independently steered, independently driven modules.
//
// The relation between the body state vector V = [v_x, v_y, omega]^T and the
// module contact velocity vector V_i = [v_1_x, v_1_y, ..., v_n_x, v_n_y]^T is
//
//	V_i = A * V
//
// where A is the (2n x 3) matrix with the row pair
//
//	[1, 0, -r_y]
//	[0, 1,  r_x]
//
// for each module offset (r_x, r_y). The name keeps the conventional
// four-wheel label, but any module count >= 2 is supported.
type FourWheelSteering struct {
	modules []DriveModule

	// A and its SVD. The geometry is fixed for the lifetime of the model, so
	// the factorisation is computed once at construction.
	matrix *mat.Dense
	svd    mat.SVD
	rank   int
}

// NewFourWheelSteering builds the model and factorises the kinematic matrix.
// At least two modules are required for the forward solve to be determined.
func NewFourWheelSteering(modules []DriveModule) (*FourWheelSteering, error) {
	if len(modules) < 2 {
		return nil, fmt.Errorf("four-wheel steering model needs at least 2 modules, got %d", len(modules))
	}

	a := mat.NewDense(2*len(modules), 3, nil)
	for i, module := range modules {
		a.SetRow(2*i, []float64{1, 0, -module.Position.Y})
		a.SetRow(2*i+1, []float64{0, 1, module.Position.X})
	}

	m := &FourWheelSteering{
		modules: modules,
		matrix:  a,
	}
	if ok := m.svd.Factorize(a, mat.SVDThin); !ok {
		return nil, fmt.Errorf("factorising the %dx3 kinematic matrix failed", 2*len(modules))
	}

	// Effective rank for the least-squares solve. Rank deficiency (e.g.
	// collinear modules) is not an error: the minimum-norm least-squares
	// solution is still well defined.
	values := m.svd.Values(nil)
	tol := float64(2*len(modules)) * values[0] * 1e-15
	for _, v := range values {
		if v > tol {
			m.rank++
		}
	}

	return m, nil
}

func (m *FourWheelSteering) Modules() []DriveModule { return m.modules }

// Inverse computes the contact velocity v_i = V + W x r_i for every module
// and derives the forward/reverse steering candidates from it.
func (m *FourWheelSteering) Inverse(motion BodyMotion) ([]ModuleOptions, bool) {
	vx := motion.LinearVelocity.X
	vy := motion.LinearVelocity.Y
	omega := motion.AngularVelocity.Z

	speeds := make([]float64, len(m.modules))
	headings := make([]float64, len(m.modules))

	// Scale factor keeping every module within its drive motor limit. The
	// binding constraint is the smallest per-module factor; scaling all
	// modules uniformly preserves the velocity ratios and therefore the
	// commanded direction of travel.
	scale := 1.0
	for i, module := range m.modules {
		mvx := vx - omega*module.Position.Y
		mvy := vy + omega*module.Position.X

		speeds[i] = math.Hypot(mvx, mvy)
		headings[i] = math.Atan2(mvy, mvx)

		if module.Drive.MaxVelocity > 0 && speeds[i] > zeroVelocityTolerance {
			if s := module.Drive.MaxVelocity / speeds[i]; s < scale {
				scale = s
			}
		}
	}
	clamped := scale < 1.0

	result := make([]ModuleOptions, len(m.modules))
	for i, module := range m.modules {
		speed := speeds[i] * scale

		forwardAngle := headings[i]
		reverseAngle := geometry.NormalizeAngle(forwardAngle + math.Pi)
		if speed <= zeroVelocityTolerance {
			// Heading is undefined at zero speed; signal "hold current".
			speed = 0
			forwardAngle = math.Inf(1)
			reverseAngle = math.Inf(-1)
		}

		result[i] = ModuleOptions{
			Forward: ModuleTarget{Name: module.Name, SteeringAngle: forwardAngle, DriveVelocity: speed},
			Reverse: ModuleTarget{Name: module.Name, SteeringAngle: reverseAngle, DriveVelocity: -speed},
		}
	}

	return result, clamped
}

// Forward solves V = pinv(A) * V_i. The system is overdetermined for more
// than one module, so this is a least-squares fit of the body motion to the
// observed module velocities.
func (m *FourWheelSteering) Forward(states []ModuleState) (BodyMotion, error) {
	if len(states) != len(m.modules) {
		return BodyMotion{}, fmt.Errorf("module state count %d does not match the %d configured modules", len(states), len(m.modules))
	}

	observed := mat.NewVecDense(2*len(states), nil)
	for i, state := range states {
		mvx, mvy := state.VelocityVector()
		observed.SetVec(2*i, mvx)
		observed.SetVec(2*i+1, mvy)
	}

	var body mat.VecDense
	m.svd.SolveVecTo(&body, observed, m.rank)

	return NewBodyMotion(body.AtVec(0), body.AtVec(1), body.AtVec(2)), nil
}
