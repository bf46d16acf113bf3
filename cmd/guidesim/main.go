// Command guidesim drives a scripted guidance scenario at a 10 Hz tick:
// follow an AB line, plan a U-turn at the end of the pass, follow the turn to
// completion, then pick up the nudged line. It exercises the full pipeline
// the way a host application would, handing the core fresh state every tick.
package main

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"

	"github.com/chriskinal/agguidance/guidance"
	"github.com/chriskinal/agguidance/spatialmath"
	"github.com/chriskinal/agguidance/track"
	"github.com/chriskinal/agguidance/turnplan"
)

const (
	tickSeconds = 0.1
	speed       = 3.0 // m/s
)

func main() {
	logger := golog.NewDevelopmentLogger("guidesim")

	line := track.NewABLine(r2.Point{X: 0, Y: 0}, r2.Point{X: 0, Y: 100})
	kin := turnplan.Kinematics{Wheelbase: 2.5, MaxSteerAngle: 35 * math.Pi / 180}

	planner := turnplan.NewPlanner(kin, logger)
	controller := guidance.NewController(
		guidance.PurePursuitConfig{
			GoalPointDistance: 4.0,
			Wheelbase:         kin.Wheelbase,
			MaxSteerAngle:     kin.MaxSteerAngle,
			UTurnCompensation: 1.2,
		},
		guidance.StanleyConfig{HeadingGain: 1.0, DistanceGain: 0.8, MaxSteerAngle: kin.MaxSteerAngle},
		logger,
	)

	vehicle := guidance.VehicleState{
		Pivot:   r2.Point{X: 0.8, Y: 0},
		Steer:   r2.Point{X: 0.8, Y: kin.Wheelbase},
		Heading: 0,
		Speed:   speed,
	}

	session := guidance.NewSession(line, guidance.CompleteOnPerpendicular)
	logger.Infow("following AB line", "from", line.A, "to", line.B)

	for tick := 0; tick < 600; tick++ {
		if session.Done() {
			break
		}
		out := controller.Update(session, vehicle, false)
		if out.Completed {
			logger.Infow("pass complete", "tick", tick)
			break
		}
		if tick%10 == 0 {
			logger.Infow("tick",
				"steer_deg", out.SteerAngleDeg,
				"xte_m", out.CrossTrack,
				"segment", out.SegmentIndex,
			)
		}
		vehicle = step(vehicle, out, kin)
	}

	turn, err := planner.Plan(turnplan.Request{
		Line:  &line,
		Pivot: spatialmath.NewPose(vehicle.Pivot, vehicle.Heading),
		Style: turnplan.StyleOmega,
		Skip:  turnplan.SkipConfig{Mode: turnplan.SkipNormal, Width: 6.0},
	})
	if err != nil {
		logger.Fatalw("turn planning failed", "error", err)
	}
	logger.Infow("turn planned",
		"style", turn.Style.String(),
		"points", len(turn.Points),
		"length_m", turn.TotalLength,
		"out_of_bounds", turn.IsOutOfBounds,
	)

	session = guidance.NewTurnSession(turn)
	for tick := 0; tick < 1200; tick++ {
		out := controller.Update(session, vehicle, false)
		if out.Completed {
			logger.Infow("turn complete", "tick", tick)
			break
		}
		vehicle = step(vehicle, out, kin)
	}

	next := line.Nudge(6.0)
	logger.Infow("next pass ready", "from", next.A, "to", next.B)
}

// step integrates a bicycle model one tick forward from the steering command.
func step(vs guidance.VehicleState, out guidance.Output, kin turnplan.Kinematics) guidance.VehicleState {
	steer := out.SteerAngleDeg * math.Pi / 180
	yawRate := vs.Speed * math.Tan(steer) / kin.Wheelbase
	vs.Heading = spatialmath.NormalizeHeading(vs.Heading + yawRate*tickSeconds)

	dir := spatialmath.HeadingVector(vs.Heading)
	vs.Pivot = vs.Pivot.Add(dir.Mul(vs.Speed * tickSeconds))
	vs.Steer = vs.Pivot.Add(dir.Mul(kin.Wheelbase))
	return vs
}
