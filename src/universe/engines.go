package universe

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

/*
	Engines are the different implementations of Advance
	all of them read only the previous generation while computing the next one
*/

const (
	EngineBase          = "base"
	EngineSmallBuff     = "smallBuff"
	EngineMultithreaded = "multithreaded"

	DefMinRowsPerWorker = 3 //minimum rows for one worker
)

//Engines lists the known engine names
var Engines = []string{EngineBase, EngineSmallBuff, EngineMultithreaded}

//UseEngine selects the implementation of Advance
func (g *Grid) UseEngine(name string) error {
	switch name {
	case EngineBase:
		g.nextIteration = g.nextIterationBase
	case EngineSmallBuff:
		g.nextIteration = g.nextIterationSmallBuff
	case EngineMultithreaded:
		g.workers = runtime.NumCPU()
		g.nextIteration = g.nextIterationMultithreaded
	default:
		return errors.Errorf("unknown engine %q", name)
	}
	g.engine = name
	return nil
}

//nextIterationBase calculates all cells into the spare buffer
//and then swaps the buffers, the spare one keeps the previous generation until the next call
func (g *Grid) nextIterationBase() {
	g.calcRows(g.spare, 0, g.height)
	g.cells, g.spare = g.spare, g.cells
}

//nextIterationSmallBuff keeps only the current and previous computed rows
//the previous row is written back when the current one is done, so the rows still read are untouched
func (g *Grid) nextIterationSmallBuff() {
	w := g.width
	if g.height < 2 {
		//the spare buffer is exactly one row long
		g.nextIterationBase()
		return
	}
	prev, cur := g.spare[:w:w], g.spare[w:2*w:2*w]
	for y := 0; y < g.height; y++ {
		for x := 0; x < w; x++ {
			cur[x] = Cell(nextState(g.Cell(x, y), g.LiveNeighbors(x, y)))
		}
		if y-1 >= 0 {
			copy(g.cells[(y-1)*w:y*w], prev)
		}
		prev, cur = cur, prev
	}
	copy(g.cells[(g.height-1)*w:], prev)
}

//nextIterationMultithreaded splits the grid into row bands, each band is computed by its own goroutine
func (g *Grid) nextIterationMultithreaded() {
	workers := g.workers
	if workers < 1 {
		workers = 1
	}
	rowsPerWorker := (g.height + workers - 1) / workers
	if rowsPerWorker < DefMinRowsPerWorker {
		rowsPerWorker = DefMinRowsPerWorker
	}

	var eg errgroup.Group
	for y1 := 0; y1 < g.height; y1 += rowsPerWorker {
		y1, y2 := y1, min(y1+rowsPerWorker, g.height)
		eg.Go(func() error {
			g.calcRows(g.spare, y1, y2)
			return nil
		})
	}
	_ = eg.Wait()
	g.cells, g.spare = g.spare, g.cells
}

//calcRows writes the next state of the rows [y1, y2) to dst
func (g *Grid) calcRows(dst []Cell, y1 int, y2 int) {
	for y := y1; y < y2; y++ {
		for x := 0; x < g.width; x++ {
			dst[y*g.width+x] = Cell(nextState(g.Cell(x, y), g.LiveNeighbors(x, y)))
		}
	}
}
