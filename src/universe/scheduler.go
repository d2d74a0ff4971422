package universe

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
)

//Scheduler drives the frame cadence
//it waits for a command up to the frame interval, reacts to it or advances the grid, and redraws
//the Grid is touched by the goroutine calling Run only
type Scheduler struct {
	options Options
	grid    *Grid
	rng     *rand.Rand
	viewer  Viewer
	source  CommandSource
	status  Status
	//shown is set once the grid held now has been drawn, only a shown generation is advanced
	shown bool
}

//NewScheduler creates the scheduler for the grid, the grid is configured from the options
//the options are applied as given, start from DefaultOptions
func NewScheduler(g *Grid, o Options, rng *rand.Rand, v Viewer, src CommandSource) (*Scheduler, error) {
	if o.Engine != "" {
		if err := g.UseEngine(o.Engine); err != nil {
			return nil, err
		}
	}
	g.SetThreshold(o.Threshold)
	n := NewNoiseField(o.Scale)
	g.SetNoise(n)
	o.Width, o.Height, o.Engine, o.Scale = g.Width(), g.Height(), g.Engine(), n.Scale()

	s := &Scheduler{
		options: o,
		grid:    g,
		rng:     rng,
		viewer:  v,
		source:  src,
	}
	s.status.LiveCells = g.LiveCells()
	return s, nil
}

//Status returns current status represented by Status struct
func (s *Scheduler) Status() Status {
	return s.status
}

//Options returns the configuration of the run
func (s *Scheduler) Options() Options {
	return s.options
}

//Seed populates the grid with fresh noise and resets the counters
func (s *Scheduler) Seed() {
	s.grid.Seed(s.rng)
	s.status.Generation = 0
	s.status.LiveCells = s.grid.LiveCells()
	s.shown = false
}

//Run is the main cycle, returns on the quit command, on reaching MaxSteps or on the first error
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.viewer.Welcome(s.options); err != nil {
		return errors.Wrap(err, "welcome")
	}

	//longer interval for the welcome screen
	interval := s.options.WelcomeInterval
	for {
		cmd, err := s.source.Next(ctx, interval)
		if err != nil {
			return err
		}
		//shorter for subsequent frames
		interval = s.options.Interval

		switch cmd {
		case CommandQuit:
			s.status.Mode = RunningStateFinished
			return nil
		case CommandReseed:
			s.Seed()
		case CommandPause:
			s.togglePause()
		default:
			if s.shown && s.status.Mode == RunningStateRun {
				s.step()
			}
		}

		if err := s.viewer.Refresh(s.grid, s.status); err != nil {
			return errors.Wrapf(err, "refresh generation %v", s.status.Generation)
		}
		s.shown = true

		if s.options.MaxSteps > 0 && s.status.Generation >= s.options.MaxSteps {
			s.status.Mode = RunningStateFinished
			return nil
		}
	}
}

//step advances the grid by one generation
func (s *Scheduler) step() {
	start := time.Now()
	s.grid.Advance()
	s.status.IterationTime = time.Since(start)
	s.status.Generation++
	s.status.LiveCells = s.grid.LiveCells()
}

func (s *Scheduler) togglePause() {
	if s.status.Mode == RunningStatePaused {
		s.status.Mode = RunningStateRun
	} else {
		s.status.Mode = RunningStatePaused
	}
}
