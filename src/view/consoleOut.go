package view

import (
	"fmt"
	"io"
	"sort"
	"termlife/src/universe"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
)

//ConsoleOut is the plain text view of the batch mode
//it prints every frame as text lines to the writer
type ConsoleOut struct {
	w         io.Writer
	au        aurora.Aurora
	startTime time.Time
}

//NewConsoleOut creates the view, colors enables the aurora styling of the reports
func NewConsoleOut(w io.Writer, colors bool) *ConsoleOut {
	return &ConsoleOut{w: w, au: aurora.NewAurora(colors), startTime: time.Now()}
}

//Welcome prints the running configuration
func (c *ConsoleOut) Welcome(o universe.Options) error {
	c.startTime = time.Now()
	if _, err := fmt.Fprintln(c.w, "Running configuration:"); err != nil {
		return errors.Wrap(err, "write configuration")
	}
	return c.printHashData(map[string]interface{}{
		"Dimension": fmt.Sprintf("%v x %v", o.Width, o.Height),
		"Interval":  o.Interval,
		"Engine":    o.Engine,
		"Threshold": o.Threshold,
		"Scale":     o.Scale,
		"Max steps": o.MaxSteps,
	})
}

//Refresh prints the status line and the grid
func (c *ConsoleOut) Refresh(g *universe.Grid, st universe.Status) error {
	_, err := fmt.Fprintf(c.w, "\n%s %v, %s %v\n%s\n",
		c.au.Green("Generation:"), st.Generation,
		c.au.Green("live cells:"), st.LiveCells,
		g.Render(universe.PlainGlyphs))
	return errors.Wrap(err, "write frame")
}

//Summary prints the final status of the run
func (c *ConsoleOut) Summary(st universe.Status) error {
	if _, err := fmt.Fprintln(c.w, "\nFinished:"); err != nil {
		return errors.Wrap(err, "write summary")
	}
	return c.printHashData(map[string]interface{}{
		"Last generation": st.Generation,
		"Total time":      time.Since(c.startTime).Round(time.Millisecond),
		"Live cells":      st.LiveCells,
	})
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) error {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		if _, err := fmt.Fprintf(c.w, "  %s: %v\n", c.au.Green(propName), d[propName]); err != nil {
			return errors.Wrapf(err, "write %s", propName)
		}
	}
	return nil
}
