package universe

import (
	"context"
	"time"
)

type Cell bool

//Options represents the configurable options of a run
type Options struct {
	Width           int
	Height          int
	Interval        time.Duration //steady frame interval
	WelcomeInterval time.Duration //interval of the very first frame
	Threshold       float64
	Scale           float64
	Seed            int64 //0 means time based
	Engine          string
	MaxSteps        int //0 means unlimited
}

//Status represents the status of the simulation at concrete moment
type Status struct {
	Generation    int
	Mode          RunningState
	LiveCells     int
	IterationTime time.Duration
}

//Viewer is the display sink: it shows the welcome text once and then every frame
type Viewer interface {
	Welcome(o Options) error
	Refresh(g *Grid, st Status) error
}

//CommandSource delivers user commands
//Next waits up to d and returns CommandNone when nothing arrived in time
type CommandSource interface {
	Next(ctx context.Context, d time.Duration) (Command, error)
}

//Command is the user command observed by the scheduler
type Command int

const (
	CommandNone Command = iota
	CommandQuit
	CommandReseed
	CommandPause
)

func (c Command) String() string {
	switch c {
	case CommandQuit:
		return "quit"
	case CommandReseed:
		return "reseed"
	case CommandPause:
		return "pause"
	}
	return "none"
}

//The simulation running state at the concrete moment
type RunningState int

const (
	RunningStateRun      RunningState = 0x0
	RunningStatePaused   RunningState = 0x1
	RunningStateFinished RunningState = 0x2
)

func (s RunningState) String() string {
	switch s {
	case RunningStatePaused:
		return "paused"
	case RunningStateFinished:
		return "finished"
	}
	return "running"
}

//default options
const (
	DefInterval        = time.Millisecond * 250
	DefWelcomeInterval = time.Second * 3
	DefThreshold       = 0.75
	DefNoiseScale      = 10.0
	DefWidth           = 40
	DefHeight          = 15
	DefEngine          = EngineBase
)

var DefaultOptions = Options{
	Width:           DefWidth,
	Height:          DefHeight,
	Interval:        DefInterval,
	WelcomeInterval: DefWelcomeInterval,
	Threshold:       DefThreshold,
	Scale:           DefNoiseScale,
	Engine:          DefEngine,
}
