// Package plan loads and validates YAML motion plans.
//
// A plan carries an optional robot description (module geometry, actuator
// limits, model and profile generator selection), a start state, and an
// ordered command list. Validation is structural only: time spans must be
// positive and module name sets must match the robot's. Consistency between
// the body start state and the module start states is deliberately not
// checked, matching the documented behaviour of the simulator.
package plan

import (
	"fmt"
	"os"

	"github.com/golang/geo/r2"
	"gopkg.in/yaml.v3"

	"github.com/pvandervelde/basic-swerve-sim/internal/controller"
	"github.com/pvandervelde/basic-swerve-sim/internal/kinematics"
	"github.com/pvandervelde/basic-swerve-sim/internal/profile"
)

// MotionPlan is a fully validated plan, ready to run.
type MotionPlan struct {
	Name        string
	Description string

	ModelName     string
	GeneratorName string
	Modules       []kinematics.DriveModule

	StartBody    kinematics.BodyState
	StartModules []kinematics.ModuleTarget

	Commands []controller.MotionCommand
}

// DefaultDriveModules returns the four-module unit-square test robot: module
// steering axes at (+-0.5, +-0.5) m, 0.1 m wheels, and symmetric steering and
// drive limits.
func DefaultDriveModules() []kinematics.DriveModule {
	limits := kinematics.Limits{MaxVelocity: 10.0, MaxAcceleration: 10.0}
	offsets := []struct {
		name string
		x, y float64
	}{
		{"left-front", 0.5, 0.5},
		{"left-rear", -0.5, 0.5},
		{"right-rear", -0.5, -0.5},
		{"right-front", 0.5, -0.5},
	}

	modules := make([]kinematics.DriveModule, len(offsets))
	for i, o := range offsets {
		modules[i] = kinematics.DriveModule{
			Name:        o.name,
			Position:    r2.Point{X: o.x, Y: o.y},
			WheelRadius: 0.1,
			Steering:    limits,
			Drive:       limits,
		}
	}
	return modules
}

// Raw YAML document shapes. The field names follow the original simulator's
// plan format, units spelled out in the keys.

type document struct {
	Plan planDoc `yaml:"plan"`
}

type planDoc struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Robot       *robotDoc     `yaml:"robot"`
	StartState  startStateDoc `yaml:"start_state"`
	Commands    []commandDoc  `yaml:"commands"`
}

type robotDoc struct {
	Model   string      `yaml:"model"`
	Profile string      `yaml:"profile"`
	Modules []moduleDoc `yaml:"modules"`
}

type moduleDoc struct {
	Name        string            `yaml:"name"`
	Position    xyDoc             `yaml:"position"`
	WheelRadius float64           `yaml:"wheel_radius"`
	Steering    kinematics.Limits `yaml:"steering"`
	Drive       kinematics.Limits `yaml:"drive"`
}

type xyDoc struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type zDoc struct {
	Z float64 `yaml:"z"`
}

type startStateDoc struct {
	Body    bodyStateDoc     `yaml:"body"`
	Modules []moduleStateDoc `yaml:"modules"`
}

type bodyStateDoc struct {
	Position        xyDoc `yaml:"position_in_meters_relative_to_world"`
	Orientation     zDoc  `yaml:"orientation_in_radians_relative_to_world"`
	LinearVelocity  xyDoc `yaml:"linear_velocity_in_meters_per_second"`
	AngularVelocity zDoc  `yaml:"angular_velocity_in_radians_per_second"`
}

type moduleStateDoc struct {
	Name        string  `yaml:"name"`
	Orientation float64 `yaml:"orientation_in_radians_relative_to_body"`
	Velocity    float64 `yaml:"velocity_in_meters_per_second"`
}

type commandDoc struct {
	TimeSpan float64          `yaml:"time_span"`
	Body     *bodyCommandDoc  `yaml:"body"`
	Modules  []moduleStateDoc `yaml:"modules"`
}

type bodyCommandDoc struct {
	LinearVelocity  xyDoc `yaml:"linear_velocity_in_meters_per_second"`
	AngularVelocity zDoc  `yaml:"angular_velocity_in_radians_per_second"`
}

// LoadFile reads and validates a motion plan from a YAML file.
func LoadFile(path string) (*MotionPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}

	p, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("plan file %q: %w", path, err)
	}
	return p, nil
}

// Load parses and validates a motion plan from YAML data.
func Load(data []byte) (*MotionPlan, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing plan YAML: %w", err)
	}

	p := &MotionPlan{
		Name:          doc.Plan.Name,
		Description:   doc.Plan.Description,
		ModelName:     kinematics.FourWheelModelName,
		GeneratorName: profile.LinearGeneratorName,
		Modules:       DefaultDriveModules(),
	}
	if p.Name == "" {
		return nil, fmt.Errorf("plan has no name")
	}

	if robot := doc.Plan.Robot; robot != nil {
		if robot.Model != "" {
			p.ModelName = robot.Model
		}
		if robot.Profile != "" {
			p.GeneratorName = robot.Profile
		}
		if len(robot.Modules) > 0 {
			p.Modules = make([]kinematics.DriveModule, len(robot.Modules))
			for i, m := range robot.Modules {
				if m.Name == "" {
					return nil, fmt.Errorf("robot module %d has no name", i)
				}
				p.Modules[i] = kinematics.DriveModule{
					Name:        m.Name,
					Position:    r2.Point{X: m.Position.X, Y: m.Position.Y},
					WheelRadius: m.WheelRadius,
					Steering:    m.Steering,
					Drive:       m.Drive,
				}
			}
		}
	}

	// Selections must resolve now, not at run time.
	if _, err := profile.NewGenerator(p.GeneratorName); err != nil {
		return nil, err
	}
	if p.ModelName != kinematics.FourWheelModelName {
		return nil, fmt.Errorf("unknown kinematic model %q", p.ModelName)
	}

	body := doc.Plan.StartState.Body
	p.StartBody = kinematics.NewBodyState(
		body.Position.X, body.Position.Y, body.Orientation.Z,
		body.LinearVelocity.X, body.LinearVelocity.Y, body.AngularVelocity.Z)

	// The module start state is optional; without one every module starts at
	// steering angle zero and zero drive velocity.
	if len(doc.Plan.StartState.Modules) > 0 {
		startModules, err := toTargets(doc.Plan.StartState.Modules, p.Modules)
		if err != nil {
			return nil, fmt.Errorf("start state: %w", err)
		}
		p.StartModules = startModules
	}

	if len(doc.Plan.Commands) == 0 {
		return nil, fmt.Errorf("plan %q has no commands", p.Name)
	}
	for i, cmd := range doc.Plan.Commands {
		motion, err := toCommand(cmd, p.Modules)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		p.Commands = append(p.Commands, motion)
	}

	return p, nil
}

func toCommand(cmd commandDoc, modules []kinematics.DriveModule) (controller.MotionCommand, error) {
	if cmd.TimeSpan <= 0 {
		return nil, fmt.Errorf("time span must be positive, got %v", cmd.TimeSpan)
	}
	if (cmd.Body == nil) == (len(cmd.Modules) == 0) {
		return nil, fmt.Errorf("command must have exactly one of a body or a modules block")
	}

	if cmd.Body != nil {
		return controller.NewBodyMotionCommand(
			cmd.Body.LinearVelocity.X,
			cmd.Body.LinearVelocity.Y,
			cmd.Body.AngularVelocity.Z,
			cmd.TimeSpan), nil
	}

	targets, err := toTargets(cmd.Modules, modules)
	if err != nil {
		return nil, err
	}
	return controller.ModuleMotionCommand{Targets: targets, Span: cmd.TimeSpan}, nil
}

// toTargets converts module state entries and checks the name set matches
// the robot's module set exactly.
func toTargets(states []moduleStateDoc, modules []kinematics.DriveModule) ([]kinematics.ModuleTarget, error) {
	if len(states) != len(modules) {
		return nil, fmt.Errorf("got %d module entries, want %d", len(states), len(modules))
	}

	known := make(map[string]bool, len(modules))
	for _, m := range modules {
		known[m.Name] = true
	}

	targets := make([]kinematics.ModuleTarget, len(states))
	seen := make(map[string]bool, len(states))
	for i, s := range states {
		if !known[s.Name] {
			return nil, fmt.Errorf("unknown module name %q", s.Name)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate module name %q", s.Name)
		}
		seen[s.Name] = true
		targets[i] = kinematics.ModuleTarget{
			Name:          s.Name,
			SteeringAngle: s.Orientation,
			DriveVelocity: s.Velocity,
		}
	}
	return targets, nil
}
