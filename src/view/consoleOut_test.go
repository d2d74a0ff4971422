package view

import (
	"bytes"
	"strings"
	"testing"
	"termlife/src/universe"

	"github.com/pkg/errors"
)

type failingWriter struct{}

func (failingWriter) Write(_ []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestConsoleOutWelcome(t *testing.T) {
	var b bytes.Buffer
	c := NewConsoleOut(&b, false)
	o := universe.DefaultOptions
	o.Width, o.Height = 12, 7
	if err := c.Welcome(o); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{"Running configuration:", "  Dimension: 12 x 7\n", "  Engine: base\n", "  Interval: 250ms\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("welcome output %q has no %q", out, want)
		}
	}
	if strings.Index(out, "Dimension") > strings.Index(out, "Engine") {
		t.Errorf("properties are not sorted: %q", out)
	}
}

func TestConsoleOutRefresh(t *testing.T) {
	var b bytes.Buffer
	c := NewConsoleOut(&b, false)
	g := universe.NewGrid(3, 2)
	g.SetCell(0, 0, true)
	g.SetCell(2, 1, true)
	if err := c.Refresh(g, universe.Status{Generation: 4, LiveCells: 2}); err != nil {
		t.Fatal(err)
	}
	if got, want := b.String(), "\nGeneration: 4, live cells: 2\n#  \n  #\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConsoleOutSummary(t *testing.T) {
	var b bytes.Buffer
	c := NewConsoleOut(&b, false)
	if err := c.Summary(universe.Status{Generation: 9, LiveCells: 31}); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{"Finished:", "  Last generation: 9\n", "  Live cells: 31\n", "  Total time: "} {
		if !strings.Contains(out, want) {
			t.Errorf("summary %q has no %q", out, want)
		}
	}
}

func TestConsoleOutWriteErrors(t *testing.T) {
	c := NewConsoleOut(failingWriter{}, false)
	g := universe.NewGrid(2, 2)
	checks := map[string]error{
		"welcome": c.Welcome(universe.DefaultOptions),
		"refresh": c.Refresh(g, universe.Status{}),
		"summary": c.Summary(universe.Status{}),
	}
	for name, err := range checks {
		if err == nil || errors.Cause(err).Error() != "disk full" {
			t.Errorf("%s: got %v, want the write error", name, err)
		}
	}
}
