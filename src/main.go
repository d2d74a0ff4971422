package main

import (
	"context"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"termlife/src/universe"
	"termlife/src/view"
	"time"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	DefBatchSteps = 100
)

type EnvOptions struct {
	batch bool
}

func main() {
	eo, uo := initOptions()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		st  universe.Status
		err error
	)
	if eo.batch {
		st, err = runBatch(ctx, uo, os.Stdout)
	} else {
		st, err = runInteractive(ctx, uo)
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		//the terminal is restored by now
		log.Fatalln(err)
	}
	if !eo.batch {
		_ = view.NewConsoleOut(os.Stdout, true).Summary(st)
	}
}

//runInteractive plays the game in the terminal until the quit command
func runInteractive(ctx context.Context, uo universe.Options) (universe.Status, error) {
	ui, err := view.NewViewTerminal()
	if err != nil {
		return universe.Status{}, err
	}
	defer ui.Close()

	//the dimensions are fixed for the whole run
	w, h := ui.Size()
	s, err := newScheduler(universe.NewGrid(w, h), uo, ui, universe.NewChanSource(ui.Commands()))
	if err != nil {
		return universe.Status{}, err
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(recovered(ui.Start))
	eg.Go(recovered(func() error {
		defer ui.Stop()
		return s.Run(ctx)
	}))
	err = eg.Wait()
	return s.Status(), err
}

//recovered turns a panic of f into its error, so the deferred terminal teardown still runs
func recovered(f func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.Errorf("panic: %v\n%s", r, debug.Stack())
			}
		}()
		return f()
	}
}

//runBatch runs the simulation without a terminal, every frame is printed to out
func runBatch(ctx context.Context, uo universe.Options, out io.Writer) (universe.Status, error) {
	if uo.MaxSteps == 0 {
		uo.MaxSteps = DefBatchSteps
	}
	uo.WelcomeInterval = 0
	c := view.NewConsoleOut(out, false)
	s, err := newScheduler(universe.NewGrid(uo.Width, uo.Height), uo, c, universe.NewChanSource(nil))
	if err != nil {
		return universe.Status{}, err
	}
	if err := s.Run(ctx); err != nil {
		return s.Status(), err
	}
	return s.Status(), c.Summary(s.Status())
}

func newScheduler(g *universe.Grid, uo universe.Options, v universe.Viewer, src universe.CommandSource) (*universe.Scheduler, error) {
	seed := uo.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s, err := universe.NewScheduler(g, uo, rand.New(rand.NewSource(seed)), v, src)
	if err != nil {
		return nil, err
	}
	s.Seed()
	return s, nil
}

func initOptions() (eo *EnvOptions, uo universe.Options) {

	uo = universe.DefaultOptions
	eo = &EnvOptions{}
	flaggy.SetName("termlife")
	flaggy.SetDescription("Conway's Game of Life in the terminal")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Duration(&uo.Interval, "i", "interval", "Interval between the frames, for example 250ms")
	flaggy.Duration(&uo.WelcomeInterval, "w", "welcome", "How long the welcome text is shown")
	flaggy.Float64(&uo.Threshold, "t", "threshold", "Noise level above which a seeded cell is alive")
	flaggy.Float64(&uo.Scale, "k", "scale", "Noise scale, the larger the smaller the seeded features")
	flaggy.Int64(&uo.Seed, "r", "seed", "Random seed, 0 for a time based one")
	flaggy.String(&uo.Engine, "e", "engine", "Engine to use ["+strings.Join(universe.Engines, "|")+"]")
	flaggy.Bool(&eo.batch, "b", "batch", "Print the frames to stdout instead of the interactive mode")
	flaggy.Int(&uo.Width, "x", "width", "Width of a simulation field (batch mode)")
	flaggy.Int(&uo.Height, "y", "height", "Height of a simulation field (batch mode)")
	flaggy.Int(&uo.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 for no limit")

	flaggy.Parse()

	if !validEngine(uo.Engine) {
		flaggy.ShowHelpAndExit("unknown engine")
	}
	if uo.Width < 1 || uo.Height < 1 {
		flaggy.ShowHelpAndExit("the field dimension must be positive")
	}
	if uo.Scale <= 0 {
		flaggy.ShowHelpAndExit("the scale must be positive")
	}

	return
}

func validEngine(name string) bool {
	for _, e := range universe.Engines {
		if e == name {
			return true
		}
	}
	return false
}
