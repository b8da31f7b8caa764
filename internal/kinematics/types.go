// Package kinematics defines the robot and drive module state types and the
// Model interface for translating between body-frame and module-frame motion,
// along with the built-in four-wheel steering implementation.
//
// Adding a new kinematic model requires only implementing Model and
// registering it in the plan loader discriminator — the controller and the
// simulation engine never need to change.
package kinematics

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/pvandervelde/basic-swerve-sim/internal/geometry"
)

// BodyMotion is a velocity-level motion of the robot body, expressed in the
// body frame. Linear velocities are in m/s; the angular velocity is about the
// vertical axis in rad/s. The Z linear and X/Y angular components are always
// zero for a planar robot but are carried so the types line up with 3D
// velocity consumers.
type BodyMotion struct {
	LinearVelocity  r3.Vector `json:"linear_velocity"`  // m/s, body frame
	AngularVelocity r3.Vector `json:"angular_velocity"` // rad/s, body frame
}

// NewBodyMotion builds a planar body motion from its three free components.
func NewBodyMotion(vx, vy, omega float64) BodyMotion {
	return BodyMotion{
		LinearVelocity:  r3.Vector{X: vx, Y: vy},
		AngularVelocity: r3.Vector{Z: omega},
	}
}

// BodyState is the pose and motion of the robot body. Position and
// orientation are in the world frame; the motion is in the body frame.
type BodyState struct {
	Position    r2.Point   `json:"position"`    // metres, world frame
	Orientation float64    `json:"orientation"` // radians, world frame, in (-pi, pi]
	Motion      BodyMotion `json:"motion"`
}

// NewBodyState builds a body state with the orientation wrapped to the
// canonical range.
func NewBodyState(x, y, orientation, vx, vy, omega float64) BodyState {
	return BodyState{
		Position:    r2.Point{X: x, Y: y},
		Orientation: geometry.NormalizeAngle(orientation),
		Motion:      NewBodyMotion(vx, vy, omega),
	}
}

// Limits bounds the motion of a single actuator. A zero value means the
// corresponding derivative is unbounded.
type Limits struct {
	MaxVelocity     float64 `json:"max_velocity" yaml:"max_velocity"`
	MaxAcceleration float64 `json:"max_acceleration" yaml:"max_acceleration"`
	MaxJerk         float64 `json:"max_jerk" yaml:"max_jerk"`
}

// DriveModule is the fixed geometry and actuator limits of one steerable,
// driven wheel unit. The position offset is relative to the body rotation
// centre and never changes during a simulation run.
type DriveModule struct {
	Name        string   `json:"name"`
	Position    r2.Point `json:"position"` // metres, body frame
	WheelRadius float64  `json:"wheel_radius"`
	Steering    Limits   `json:"steering"`
	Drive       Limits   `json:"drive"`
}

// ModuleState is the sampled state of a drive module at one instant: the
// steering angle in the body frame and the signed wheel contact velocity
// along the module's heading, together with their derivatives.
type ModuleState struct {
	Name                 string   `json:"name"`
	Position             r2.Point `json:"position"`              // metres, body frame
	SteeringAngle        float64  `json:"steering_angle"`        // rad, body frame
	SteeringVelocity     float64  `json:"steering_velocity"`     // rad/s
	SteeringAcceleration float64  `json:"steering_acceleration"` // rad/s^2
	DriveVelocity        float64  `json:"drive_velocity"`        // m/s, signed
	DriveAcceleration    float64  `json:"drive_acceleration"`    // m/s^2
}

// VelocityVector returns the wheel contact velocity of the module expressed
// in body-frame x/y components.
func (s ModuleState) VelocityVector() (vx, vy float64) {
	return s.DriveVelocity * math.Cos(s.SteeringAngle),
		s.DriveVelocity * math.Sin(s.SteeringAngle)
}

// ModuleTarget is a commanded end state for one module: a steering angle and
// a signed drive velocity. A steering angle of +/-Inf means the heading is
// undefined (zero-speed target) and the module should hold its current angle.
type ModuleTarget struct {
	Name          string  `json:"name"`
	SteeringAngle float64 `json:"steering_angle"` // rad; +/-Inf = hold current
	DriveVelocity float64 `json:"drive_velocity"` // m/s, signed
}

// HasHeading reports whether the target carries a defined steering angle.
func (t ModuleTarget) HasHeading() bool {
	return !math.IsInf(t.SteeringAngle, 0)
}

// ModuleOptions are the two equivalent realisations of one target velocity
// vector: steer to the heading and drive forward, or steer a half turn away
// and drive in reverse.
type ModuleOptions struct {
	Forward ModuleTarget
	Reverse ModuleTarget
}

// Model is the kinematic contract between body motion and module motion.
type Model interface {
	// Modules returns the drive module set the model was built for, in order.
	Modules() []DriveModule

	// Inverse computes, for each module, the forward/reverse candidate pair
	// realising the given body motion. Drive velocities are scaled down
	// uniformly when any module would exceed its drive motor limit; the
	// returned flag reports whether such clamping occurred.
	Inverse(motion BodyMotion) ([]ModuleOptions, bool)

	// Forward reconstructs the body motion that best fits the given module
	// states, in the least-squares sense. The module state count must match
	// the model's module set.
	Forward(states []ModuleState) (BodyMotion, error)
}
