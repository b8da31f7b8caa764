package plan

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvandervelde/basic-swerve-sim/internal/controller"
	"github.com/pvandervelde/basic-swerve-sim/internal/kinematics"
	"github.com/pvandervelde/basic-swerve-sim/internal/profile"
)

const minimalPlan = `
plan:
  name: drive-forward
  description: accelerate to 1 m/s
  commands:
    - time_span: 2.0
      body:
        linear_velocity_in_meters_per_second:
          x: 1.0
          y: 0.0
        angular_velocity_in_radians_per_second:
          z: 0.0
`

func TestLoadMinimalPlanUsesDefaults(t *testing.T) {
	p, err := Load([]byte(minimalPlan))
	require.NoError(t, err)

	assert.Equal(t, "drive-forward", p.Name)
	assert.Equal(t, "accelerate to 1 m/s", p.Description)
	assert.Equal(t, kinematics.FourWheelModelName, p.ModelName)
	assert.Equal(t, profile.LinearGeneratorName, p.GeneratorName)
	require.Len(t, p.Modules, 4)
	assert.Equal(t, "left-front", p.Modules[0].Name)
	assert.Equal(t, 0.5, p.Modules[0].Position.X)
	assert.Empty(t, p.StartModules)

	require.Len(t, p.Commands, 1)
	cmd, ok := p.Commands[0].(controller.BodyMotionCommand)
	require.True(t, ok)
	assert.Equal(t, 2.0, cmd.Span)
	assert.Equal(t, 1.0, cmd.Motion.LinearVelocity.X)
}

func TestLoadFullPlan(t *testing.T) {
	input := `
plan:
  name: custom-robot
  robot:
    model: four-wheel-steering
    profile: trapezoidal
    modules:
      - name: left
        position: {x: 0.0, y: 0.3}
        wheel_radius: 0.05
        steering: {max_velocity: 5.0, max_acceleration: 2.0}
        drive: {max_velocity: 2.0, max_acceleration: 1.0}
      - name: right
        position: {x: 0.0, y: -0.3}
        wheel_radius: 0.05
        steering: {max_velocity: 5.0, max_acceleration: 2.0}
        drive: {max_velocity: 2.0, max_acceleration: 1.0}
  start_state:
    body:
      position_in_meters_relative_to_world: {x: 1.0, y: 2.0}
      orientation_in_radians_relative_to_world: {z: 0.5}
      linear_velocity_in_meters_per_second: {x: 0.0, y: 0.0}
      angular_velocity_in_radians_per_second: {z: 0.0}
    modules:
      - name: left
        orientation_in_radians_relative_to_body: 0.1
        velocity_in_meters_per_second: 0.5
      - name: right
        orientation_in_radians_relative_to_body: -0.1
        velocity_in_meters_per_second: 0.5
  commands:
    - time_span: 1.0
      modules:
        - name: left
          orientation_in_radians_relative_to_body: 0.0
          velocity_in_meters_per_second: 1.0
        - name: right
          orientation_in_radians_relative_to_body: 0.0
          velocity_in_meters_per_second: 1.0
`
	p, err := Load([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, profile.TrapezoidalGeneratorName, p.GeneratorName)
	require.Len(t, p.Modules, 2)
	assert.Equal(t, 0.3, p.Modules[0].Position.Y)
	assert.Equal(t, 0.05, p.Modules[0].WheelRadius)
	assert.Equal(t, 5.0, p.Modules[0].Steering.MaxVelocity)
	assert.Equal(t, 2.0, p.Modules[0].Drive.MaxVelocity)

	assert.Equal(t, 1.0, p.StartBody.Position.X)
	assert.Equal(t, 2.0, p.StartBody.Position.Y)
	assert.InDelta(t, 0.5, p.StartBody.Orientation, 1e-12)

	require.Len(t, p.StartModules, 2)
	assert.Equal(t, 0.1, p.StartModules[0].SteeringAngle)
	assert.Equal(t, 0.5, p.StartModules[0].DriveVelocity)

	require.Len(t, p.Commands, 1)
	cmd, ok := p.Commands[0].(controller.ModuleMotionCommand)
	require.True(t, ok)
	assert.Len(t, cmd.Targets, 2)
}

func TestLoadNormalisesStartOrientation(t *testing.T) {
	input := `
plan:
  name: wrapped
  start_state:
    body:
      orientation_in_radians_relative_to_world: {z: 7.0}
  commands:
    - time_span: 1.0
      body:
        linear_velocity_in_meters_per_second: {x: 1.0, y: 0.0}
        angular_velocity_in_radians_per_second: {z: 0.0}
`
	p, err := Load([]byte(input))
	require.NoError(t, err)
	assert.InDelta(t, 7.0-2*math.Pi, p.StartBody.Orientation, 1e-12)
}

func TestLoadRejections(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"no name", `
plan:
  commands:
    - time_span: 1.0
      body:
        linear_velocity_in_meters_per_second: {x: 1.0, y: 0.0}
`},
		{"no commands", `
plan:
  name: empty
`},
		{"zero time span", `
plan:
  name: bad-span
  commands:
    - time_span: 0.0
      body:
        linear_velocity_in_meters_per_second: {x: 1.0, y: 0.0}
`},
		{"negative time span", `
plan:
  name: bad-span
  commands:
    - time_span: -1.0
      body:
        linear_velocity_in_meters_per_second: {x: 1.0, y: 0.0}
`},
		{"both body and modules", `
plan:
  name: ambiguous
  commands:
    - time_span: 1.0
      body:
        linear_velocity_in_meters_per_second: {x: 1.0, y: 0.0}
      modules:
        - name: left-front
          velocity_in_meters_per_second: 1.0
        - name: left-rear
          velocity_in_meters_per_second: 1.0
        - name: right-rear
          velocity_in_meters_per_second: 1.0
        - name: right-front
          velocity_in_meters_per_second: 1.0
`},
		{"neither body nor modules", `
plan:
  name: hollow
  commands:
    - time_span: 1.0
`},
		{"unknown module name", `
plan:
  name: bad-module
  commands:
    - time_span: 1.0
      modules:
        - name: centre
          velocity_in_meters_per_second: 1.0
        - name: left-rear
          velocity_in_meters_per_second: 1.0
        - name: right-rear
          velocity_in_meters_per_second: 1.0
        - name: right-front
          velocity_in_meters_per_second: 1.0
`},
		{"duplicate module name", `
plan:
  name: dup-module
  commands:
    - time_span: 1.0
      modules:
        - name: left-front
          velocity_in_meters_per_second: 1.0
        - name: left-front
          velocity_in_meters_per_second: 1.0
        - name: right-rear
          velocity_in_meters_per_second: 1.0
        - name: right-front
          velocity_in_meters_per_second: 1.0
`},
		{"missing module", `
plan:
  name: short-module-set
  commands:
    - time_span: 1.0
      modules:
        - name: left-front
          velocity_in_meters_per_second: 1.0
`},
		{"unknown generator", `
plan:
  name: bad-generator
  robot:
    profile: s-curve
  commands:
    - time_span: 1.0
      body:
        linear_velocity_in_meters_per_second: {x: 1.0, y: 0.0}
`},
		{"unknown model", `
plan:
  name: bad-model
  robot:
    model: differential
  commands:
    - time_span: 1.0
      body:
        linear_velocity_in_meters_per_second: {x: 1.0, y: 0.0}
`},
		{"not yaml", `plan: [unclosed`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load([]byte(tc.input))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalPlan), 0o644))

	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "drive-forward", p.Name)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
