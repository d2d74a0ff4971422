package universe

import (
	"fmt"
	"math/rand"
	"strings"
)

//Grid is the fixed-size field where cells are living
//the cells are stored row-major in one buffer, index(x,y) = y*width + x
//a Grid is owned by a single goroutine, it does no locking
type Grid struct {
	width     int
	height    int
	cells     []Cell
	spare     []Cell //next generation buffer, swapped with cells on every advance
	threshold float64
	noise     *NoiseField
	engine    string
	workers   int
	//nextIteration computes the next generation into the grid, selected by UseEngine
	nextIteration func()
}

//Glyphs describes how the cells are drawn by Render
type Glyphs struct {
	Live rune
	Dead rune
	//LiveStyle wraps a contiguous run of live cells, it has to reset the style at the end of the run
	LiveStyle func(run string) string
}

//PlainGlyphs draws cells without any style
var PlainGlyphs = Glyphs{Live: '#', Dead: ' '}

//NewGrid creates the grid with all cells dead
func NewGrid(width int, height int) *Grid {
	if width < 1 || height < 1 {
		panic(fmt.Sprintf("universe: invalid grid dimension %v x %v", width, height))
	}
	g := &Grid{
		width:     width,
		height:    height,
		cells:     make([]Cell, width*height),
		spare:     make([]Cell, width*height),
		threshold: DefThreshold,
		noise:     NewNoiseField(DefNoiseScale),
	}
	_ = g.UseEngine(DefEngine)
	return g
}

func (g *Grid) Width() int {
	return g.width
}

func (g *Grid) Height() int {
	return g.height
}

//Engine returns the name of the engine used by Advance
func (g *Grid) Engine() string {
	return g.engine
}

//SetThreshold sets the noise level above which a seeded cell is alive
func (g *Grid) SetThreshold(t float64) {
	g.threshold = t
}

//SetNoise replaces the noise field used for seeding
func (g *Grid) SetNoise(n *NoiseField) {
	g.noise = n
}

//Cell returns the cell state at point x, y
//the cells outside the grid are dead
func (g *Grid) Cell(x int, y int) bool {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return false
	}
	return bool(g.cells[y*g.width+x])
}

//SetCell sets the cell state at point x, y, the point must be inside the grid
func (g *Grid) SetCell(x int, y int, alive bool) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		panic(fmt.Sprintf("universe: cell %v,%v is outside the %v x %v grid", x, y, g.width, g.height))
	}
	g.cells[y*g.width+x] = Cell(alive)
}

//Cells returns the copy of the cells buffer
func (g *Grid) Cells() []Cell {
	c := make([]Cell, len(g.cells))
	copy(c, g.cells)
	return c
}

//LiveCells calculates the count of live cells
func (g *Grid) LiveCells() int {
	liveCells := 0
	for _, c := range g.cells {
		if c {
			liveCells++
		}
	}
	return liveCells
}

//LiveNeighbors counts the live cells of the Moore neighborhood
//the grid does not wrap, the positions outside are dead
func (g *Grid) LiveNeighbors(x int, y int) int {
	liveNeighbours := 0
	for j := -1; j < 2; j++ {
		for i := -1; i < 2; i++ {
			//skip my position
			if i == 0 && j == 0 {
				continue
			}
			if g.Cell(x+i, y+j) {
				liveNeighbours++
			}
		}
	}
	return liveNeighbours
}

//Advance computes the next generation for the entire grid
//every cell is evaluated against the previous generation
func (g *Grid) Advance() {
	g.nextIteration()
}

//Clear kills all cells
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = false
	}
}

//Seed populates the grid from the noise field with fresh offsets drawn from rng
func (g *Grid) Seed(rng *rand.Rand) Offsets {
	o := g.noise.Seed(rng)
	g.fill()
	return o
}

//SeedWith populates the grid from the noise field with the given offsets
func (g *Grid) SeedWith(o Offsets) {
	g.noise.SetOffsets(o)
	g.fill()
}

//fill overwrites every cell from the current noise offsets
func (g *Grid) fill() {
	for i, v := range g.noise.Field(g.width, g.height) {
		g.cells[i] = Cell(v > g.threshold)
	}
}

//Render draws one glyph per cell, the rows are separated by line feeds
//a contiguous run of live cells is styled as a whole
func (g *Grid) Render(gl Glyphs) string {
	var b strings.Builder
	var run strings.Builder
	b.Grow(g.width*g.height + g.height)

	flush := func() {
		if run.Len() == 0 {
			return
		}
		if gl.LiveStyle != nil {
			b.WriteString(gl.LiveStyle(run.String()))
		} else {
			b.WriteString(run.String())
		}
		run.Reset()
	}

	for y := 0; y < g.height; y++ {
		if y != 0 {
			b.WriteByte('\n')
		}
		row := g.cells[y*g.width : (y+1)*g.width]
		for _, c := range row {
			if c {
				run.WriteRune(gl.Live)
				continue
			}
			flush()
			b.WriteRune(gl.Dead)
		}
		flush()
	}
	return b.String()
}

//nextState is the Life rule: a live cell survives with 2 or 3 neighbors, a dead one is born with 3
func nextState(alive bool, liveNeighbours int) bool {
	return (alive && liveNeighbours == 2) || liveNeighbours == 3
}
