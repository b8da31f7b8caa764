// Package output writes simulation logs to per-tick CSV state files and
// renders trajectory figures.
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/pvandervelde/basic-swerve-sim/internal/engine"
)

// WriteCSV writes one row per simulation tick: timestamp, body pose and
// velocities, then per module the steering angle and velocity and the drive
// velocity and acceleration. Module columns are keyed by module name in the
// header.
func WriteCSV(path string, log engine.SimulationLog) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating state file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"time (s)",
		"x-body (m)", "y-body (m)", "orientation-body (rad)",
		"x-vel-body (m/s)", "y-vel-body (m/s)", "rot-vel-body (rad/s)",
		"clamped",
	}
	if len(log.Rows) > 0 {
		for _, m := range log.Rows[0].Modules {
			header = append(header,
				fmt.Sprintf("steering-angle-%s (rad)", m.Name),
				fmt.Sprintf("steering-vel-%s (rad/s)", m.Name),
				fmt.Sprintf("drive-vel-%s (m/s)", m.Name),
				fmt.Sprintf("drive-acc-%s (m/s^2)", m.Name),
			)
		}
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing state file header: %w", err)
	}

	for _, row := range log.Rows {
		record := []string{
			formatFloat(row.Timestamp),
			formatFloat(row.Body.Position.X),
			formatFloat(row.Body.Position.Y),
			formatFloat(row.Body.Orientation),
			formatFloat(row.Body.Motion.LinearVelocity.X),
			formatFloat(row.Body.Motion.LinearVelocity.Y),
			formatFloat(row.Body.Motion.AngularVelocity.Z),
			strconv.FormatBool(row.Clamped),
		}
		for _, m := range row.Modules {
			record = append(record,
				formatFloat(m.SteeringAngle),
				formatFloat(m.SteeringVelocity),
				formatFloat(m.DriveVelocity),
				formatFloat(m.DriveAcceleration),
			)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing state file row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
