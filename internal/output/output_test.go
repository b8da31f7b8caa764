package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvandervelde/basic-swerve-sim/internal/engine"
	"github.com/pvandervelde/basic-swerve-sim/internal/kinematics"
)

func sampleLog() engine.SimulationLog {
	modules := func(angle, velocity float64) []kinematics.ModuleState {
		return []kinematics.ModuleState{
			{Name: "left", Position: r2.Point{X: 0, Y: 0.3}, SteeringAngle: angle, DriveVelocity: velocity},
			{Name: "right", Position: r2.Point{X: 0, Y: -0.3}, SteeringAngle: angle, DriveVelocity: velocity},
		}
	}
	return engine.SimulationLog{
		Meta: engine.SimulationMeta{Name: "sample", RateHz: 100},
		Rows: []engine.SimulationLogRow{
			{Timestamp: 0, Body: kinematics.NewBodyState(0, 0, 0, 0, 0, 0), Modules: modules(0, 0)},
			{Timestamp: 0.01, Body: kinematics.NewBodyState(0.005, 0, 0, 0.5, 0, 0), Modules: modules(0, 0.5)},
			{Timestamp: 0.02, Body: kinematics.NewBodyState(0.015, 0, 0, 1.0, 0, 0), Modules: modules(0.1, 1.0), Clamped: true},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "states.csv")
	require.NoError(t, WriteCSV(path, sampleLog()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4) // header plus three rows

	header := records[0]
	assert.Equal(t, "time (s)", header[0])
	assert.Contains(t, header, "steering-angle-left (rad)")
	assert.Contains(t, header, "drive-vel-right (m/s)")
	assert.Len(t, header, 8+2*4)

	assert.Equal(t, "0.01", records[2][0])
	assert.Equal(t, "0.005", records[2][1])
	assert.Equal(t, "false", records[2][7])
	assert.Equal(t, "true", records[3][7])
}

func TestWriteCSVEmptyLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "states.csv")
	require.NoError(t, WriteCSV(path, engine.SimulationLog{}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "clamped", records[0][7])
}

func TestWriteCSVRejectsBadPath(t *testing.T) {
	err := WriteCSV(filepath.Join(t.TempDir(), "missing", "states.csv"), sampleLog())
	assert.Error(t, err)
}

func TestWritePlots(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WritePlots(dir, sampleLog()))

	for _, name := range []string{
		"body-path.png", "body-pose.png", "body-velocities.png",
		"steering-angles.png", "drive-velocities.png", "rotation-centers.png",
	} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}

func TestWritePlotsEmptyLog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WritePlots(dir, engine.SimulationLog{}))

	_, err := os.Stat(filepath.Join(dir, "body-path.png"))
	assert.NoError(t, err)
}
