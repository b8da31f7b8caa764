package engine

import (
	"github.com/pvandervelde/basic-swerve-sim/internal/kinematics"
)

// SimulationMeta holds the identity and timing parameters for a simulation run.
type SimulationMeta struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	RateHz      float64 `json:"rate_hz"` // simulation ticks per second
}

// SimulationLogRow is the state of the robot at a single simulation tick.
type SimulationLogRow struct {
	Timestamp float64                  `json:"timestamp"` // seconds
	Body      kinematics.BodyState     `json:"body"`
	Modules   []kinematics.ModuleState `json:"modules"`

	// Clamped reports that the active command was trimmed to the actuator
	// limits; the row still holds a valid, feasible state.
	Clamped bool `json:"clamped,omitempty"`
}

// SimulationLog is the complete output of a simulation run.
type SimulationLog struct {
	Meta SimulationMeta     `json:"simulation_meta"`
	Rows []SimulationLogRow `json:"output"`
}
