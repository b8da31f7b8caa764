package output

import (
	"fmt"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/pvandervelde/basic-swerve-sim/internal/engine"
	"github.com/pvandervelde/basic-swerve-sim/internal/kinematics"
)

// WritePlots renders the standard figure set for a simulation log into dir:
// the body path in the world frame, the body pose and velocities over time,
// the module steering angles and drive velocities over time, and the
// instantaneous centres of rotation.
func WritePlots(dir string, log engine.SimulationLog) error {
	if err := writeBodyPath(filepath.Join(dir, "body-path.png"), log); err != nil {
		return err
	}
	if err := writeBodySeries(filepath.Join(dir, "body-pose.png"),
		"Body pose", "pose", log, []bodySeries{
			{"x (m)", func(r engine.SimulationLogRow) float64 { return r.Body.Position.X }},
			{"y (m)", func(r engine.SimulationLogRow) float64 { return r.Body.Position.Y }},
			{"orientation (rad)", func(r engine.SimulationLogRow) float64 { return r.Body.Orientation }},
		}); err != nil {
		return err
	}
	if err := writeBodySeries(filepath.Join(dir, "body-velocities.png"),
		"Body velocities", "velocity", log, []bodySeries{
			{"vx (m/s)", func(r engine.SimulationLogRow) float64 { return r.Body.Motion.LinearVelocity.X }},
			{"vy (m/s)", func(r engine.SimulationLogRow) float64 { return r.Body.Motion.LinearVelocity.Y }},
			{"omega (rad/s)", func(r engine.SimulationLogRow) float64 { return r.Body.Motion.AngularVelocity.Z }},
		}); err != nil {
		return err
	}
	if err := writeModuleSeries(filepath.Join(dir, "steering-angles.png"),
		"Module steering angles", "angle (rad)", log,
		func(m kinematics.ModuleState) float64 { return m.SteeringAngle }); err != nil {
		return err
	}
	if err := writeModuleSeries(filepath.Join(dir, "drive-velocities.png"),
		"Module drive velocities", "velocity (m/s)", log,
		func(m kinematics.ModuleState) float64 { return m.DriveVelocity }); err != nil {
		return err
	}
	return writeRotationCenters(filepath.Join(dir, "rotation-centers.png"), log)
}

// bodySeries is one labelled line in a body-over-time figure.
type bodySeries struct {
	label string
	value func(engine.SimulationLogRow) float64
}

func writeBodySeries(path, title, ylabel string, log engine.SimulationLog, series []bodySeries) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = ylabel

	for i, s := range series {
		pts := make(plotter.XYs, len(log.Rows))
		for j, row := range log.Rows {
			pts[j].X = row.Timestamp
			pts[j].Y = s.value(row)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("building %s figure: %w", title, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.label, line)
	}
	return savePlot(p, path)
}

func writeBodyPath(path string, log engine.SimulationLog) error {
	p := plot.New()
	p.Title.Text = "Body path"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	pts := make(plotter.XYs, len(log.Rows))
	for i, row := range log.Rows {
		pts[i].X = row.Body.Position.X
		pts[i].Y = row.Body.Position.Y
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("building body path figure: %w", err)
	}
	p.Add(line)
	return savePlot(p, path)
}

func writeModuleSeries(path, title, ylabel string, log engine.SimulationLog, value func(kinematics.ModuleState) float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = ylabel

	if len(log.Rows) == 0 {
		return savePlot(p, path)
	}
	for i, m := range log.Rows[0].Modules {
		pts := make(plotter.XYs, len(log.Rows))
		for j, row := range log.Rows {
			pts[j].X = row.Timestamp
			pts[j].Y = value(row.Modules[i])
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("building %s figure: %w", title, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(m.Name, line)
	}
	return savePlot(p, path)
}

func writeRotationCenters(path string, log engine.SimulationLog) error {
	p := plot.New()
	p.Title.Text = "Instantaneous centres of rotation"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	var pts plotter.XYs
	for _, row := range log.Rows {
		for _, icr := range kinematics.CentersOfRotation(row.Modules) {
			if icr.Parallel || math.IsInf(icr.Point.X, 0) || math.IsInf(icr.Point.Y, 0) {
				continue
			}
			pts = append(pts, plotter.XY{X: icr.Point.X, Y: icr.Point.Y})
		}
	}
	if len(pts) > 0 {
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("building rotation centre figure: %w", err)
		}
		p.Add(scatter)
	}
	return savePlot(p, path)
}

func savePlot(p *plot.Plot, path string) error {
	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving figure %s: %w", path, err)
	}
	return nil
}
