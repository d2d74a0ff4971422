package universe

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/pkg/errors"
)

//scriptSource returns the scripted commands and then quits
type scriptSource struct {
	script    []Command
	intervals []time.Duration
}

func (s *scriptSource) Next(_ context.Context, d time.Duration) (Command, error) {
	s.intervals = append(s.intervals, d)
	if len(s.script) == 0 {
		return CommandQuit, nil
	}
	cmd := s.script[0]
	s.script = s.script[1:]
	return cmd, nil
}

type frame struct {
	cells  []Cell
	status Status
}

//recordingViewer keeps a copy of every refreshed grid
type recordingViewer struct {
	welcomed int
	frames   []frame
	failAt   int
}

func (v *recordingViewer) Welcome(_ Options) error {
	v.welcomed++
	return nil
}

func (v *recordingViewer) Refresh(g *Grid, st Status) error {
	if v.failAt > 0 && len(v.frames)+1 == v.failAt {
		return errors.New("broken pipe")
	}
	v.frames = append(v.frames, frame{g.Cells(), st})
	return nil
}

func sameCells(a []Cell, b []Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func testOptions() Options {
	o := DefaultOptions
	o.Seed = 5
	return o
}

func newTestScheduler(t *testing.T, o Options, v Viewer, src CommandSource) (*Scheduler, *Grid) {
	t.Helper()
	g := NewGrid(24, 12)
	s, err := NewScheduler(g, o, rand.New(rand.NewSource(o.Seed)), v, src)
	if err != nil {
		t.Fatal(err)
	}
	s.Seed()
	return s, g
}

//advanced returns the cells of the grid built from cells after one generation
func advanced(w int, h int, cells []Cell) []Cell {
	g := NewGrid(w, h)
	copy(g.cells, cells)
	g.Advance()
	return g.Cells()
}

func TestSchedulerOrdering(t *testing.T) {
	v := &recordingViewer{}
	src := &scriptSource{script: []Command{CommandNone, CommandNone, CommandReseed, CommandNone}}
	s, g := newTestScheduler(t, testOptions(), v, src)
	gen0 := g.Cells()

	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if v.welcomed != 1 {
		t.Fatalf("welcome shown %v times", v.welcomed)
	}
	if len(v.frames) != 4 {
		t.Fatalf("rendered %v frames, want 4", len(v.frames))
	}

	gen1 := advanced(24, 12, gen0)
	if !sameCells(v.frames[0].cells, gen0) {
		t.Error("frame 0 is not generation 0")
	}
	if !sameCells(v.frames[1].cells, gen1) {
		t.Error("frame 1 is not generation 1")
	}
	reseeded := v.frames[2].cells
	if sameCells(reseeded, gen1) || sameCells(reseeded, advanced(24, 12, gen1)) {
		t.Error("frame 2 is not a freshly reseeded grid")
	}
	if !sameCells(v.frames[3].cells, advanced(24, 12, reseeded)) {
		t.Error("frame 3 is not the reseeded grid advanced by one generation")
	}

	gens := []int{0, 1, 0, 1}
	for i, f := range v.frames {
		if f.status.Generation != gens[i] {
			t.Errorf("frame %v generation: got %v, want %v", i, f.status.Generation, gens[i])
		}
		if f.status.LiveCells != countLive(f.cells) {
			t.Errorf("frame %v live cells: got %v, want %v", i, f.status.LiveCells, countLive(f.cells))
		}
	}
	if s.Status().Mode != RunningStateFinished {
		t.Errorf("mode after quit: %v", s.Status().Mode)
	}
}

func countLive(cells []Cell) int {
	n := 0
	for _, c := range cells {
		if c {
			n++
		}
	}
	return n
}

func TestSchedulerIntervals(t *testing.T) {
	o := testOptions()
	o.WelcomeInterval = time.Second
	o.Interval = time.Millisecond
	src := &scriptSource{script: []Command{CommandNone, CommandNone}}
	s, _ := newTestScheduler(t, o, &recordingViewer{}, src)
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []time.Duration{time.Second, time.Millisecond, time.Millisecond}
	if len(src.intervals) != len(want) {
		t.Fatalf("waited %v times, want %v", len(src.intervals), len(want))
	}
	for i := range want {
		if src.intervals[i] != want[i] {
			t.Errorf("wait %v: got %v, want %v", i, src.intervals[i], want[i])
		}
	}
}

func TestSchedulerQuitWithoutRender(t *testing.T) {
	v := &recordingViewer{}
	s, _ := newTestScheduler(t, testOptions(), v, &scriptSource{script: []Command{CommandQuit, CommandNone}})
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(v.frames) != 0 {
		t.Fatalf("rendered %v frames after quit", len(v.frames))
	}
}

func TestSchedulerPause(t *testing.T) {
	v := &recordingViewer{}
	src := &scriptSource{script: []Command{
		CommandNone, CommandPause, CommandNone, CommandNone, CommandPause, CommandNone,
	}}
	s, g := newTestScheduler(t, testOptions(), v, src)
	gen0 := g.Cells()
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(v.frames) != 6 {
		t.Fatalf("rendered %v frames, want 6", len(v.frames))
	}
	for i := 0; i < 5; i++ {
		if !sameCells(v.frames[i].cells, gen0) {
			t.Errorf("frame %v advanced while paused", i)
		}
	}
	if !sameCells(v.frames[5].cells, advanced(24, 12, gen0)) {
		t.Error("frame 5 did not advance after resume")
	}
	modes := []RunningState{RunningStateRun, RunningStatePaused, RunningStatePaused, RunningStatePaused, RunningStateRun, RunningStateRun}
	for i, f := range v.frames {
		if f.status.Mode != modes[i] {
			t.Errorf("frame %v mode: got %v, want %v", i, f.status.Mode, modes[i])
		}
	}
}

func TestSchedulerMaxSteps(t *testing.T) {
	o := testOptions()
	o.MaxSteps = 3
	v := &recordingViewer{}
	src := &scriptSource{script: make([]Command, 10)}
	s, _ := newTestScheduler(t, o, v, src)
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	//generation 0 plus three advanced generations
	if len(v.frames) != 4 {
		t.Fatalf("rendered %v frames, want 4", len(v.frames))
	}
	if st := s.Status(); st.Generation != 3 || st.Mode != RunningStateFinished {
		t.Fatalf("status: %+v", st)
	}
}

func TestSchedulerRefreshError(t *testing.T) {
	v := &recordingViewer{failAt: 2}
	s, _ := newTestScheduler(t, testOptions(), v, &scriptSource{script: make([]Command, 5)})
	err := s.Run(context.Background())
	if err == nil {
		t.Fatal("expected the refresh error")
	}
	if errors.Cause(err).Error() != "broken pipe" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSchedulerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, _ := newTestScheduler(t, testOptions(), &recordingViewer{}, NewChanSource(nil))
	if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestNewSchedulerConfiguresGrid(t *testing.T) {
	o := testOptions()
	o.Engine = EngineSmallBuff
	o.Scale = 3
	g := NewGrid(10, 5)
	s, err := NewScheduler(g, o, rand.New(rand.NewSource(1)), &recordingViewer{}, NewChanSource(nil))
	if err != nil {
		t.Fatal(err)
	}
	if g.Engine() != EngineSmallBuff || g.noise.Scale() != 3 || g.threshold != o.Threshold {
		t.Fatalf("grid not configured: engine %v, scale %v, threshold %v", g.Engine(), g.noise.Scale(), g.threshold)
	}
	if so := s.Options(); so.Width != 10 || so.Height != 5 {
		t.Fatalf("options dimension: %v x %v", so.Width, so.Height)
	}

	o.Engine = "unknown"
	if _, err := NewScheduler(g, o, rand.New(rand.NewSource(1)), &recordingViewer{}, NewChanSource(nil)); err == nil {
		t.Fatal("expected an error for the unknown engine")
	}
}
