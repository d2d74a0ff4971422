package view

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"termlife/src/universe"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
)

const (
	fieldView = "field"
	//commands typed while the scheduler is busy are queued here
	commandQueueSize = 16
)

type keyBindings struct {
	key   interface{}
	name  string
	descr string
	cmd   universe.Command
}

//ConsoleUI is the full screen terminal view
//it is the display sink and the key-event source of the interactive mode
type ConsoleUI struct {
	g         *gocui.Gui
	k         []keyBindings
	commandCh chan universe.Command
	done      chan struct{}
	stopOnce  sync.Once
	closeOnce sync.Once
	//text is the latest frame, drawn by the layout on the next flush
	text struct {
		sync.Mutex
		s string
	}
	glyphs universe.Glyphs
}

//keyTable maps the keys to the commands, the unnamed keys are not listed in the welcome text
func keyTable() []keyBindings {
	return []keyBindings{
		{gocui.KeySpace, "SPACE", "start or pause the game", universe.CommandPause},
		{'n', "N", "discard the current game and generate a new one", universe.CommandReseed},
		{'N', "", "", universe.CommandReseed},
		{'q', "Q", "exit", universe.CommandQuit},
		{'Q', "", "", universe.CommandQuit},
		{gocui.KeyCtrlC, "", "", universe.CommandQuit},
	}
}

//NewViewTerminal switches the terminal to raw mode and the alternate screen
//Close has to be called on every exit path once it returns without error
func NewViewTerminal() (*ConsoleUI, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, errors.Wrap(err, "terminal setup")
	}

	t := ConsoleUI{
		g:         g,
		commandCh: make(chan universe.Command, commandQueueSize),
		done:      make(chan struct{}),
		glyphs: universe.Glyphs{
			Live: ' ',
			Dead: ' ',
			LiveStyle: func(run string) string {
				return aurora.Reverse(run).String()
			},
		},
	}
	t.k = keyTable()
	g.SetManagerFunc(t.layout)

	if err := t.initKeyBindings(t.k); err != nil {
		t.Close()
		return nil, err
	}
	if w, h := g.Size(); w < 1 || h < 1 {
		t.Close()
		return nil, errors.Errorf("terminal size unavailable: %v x %v", w, h)
	}
	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		cmd := kb.cmd
		if err := t.g.SetKeybinding("", kb.key, gocui.ModNone, func(_ *gocui.Gui, _ *gocui.View) error {
			t.send(cmd)
			return nil
		}); err != nil {
			return errors.Wrapf(err, "key binding %v", kb.key)
		}
	}
	return nil
}

//send queues the command, it gives up only when the view is stopping
func (t *ConsoleUI) send(cmd universe.Command) {
	select {
	case t.commandCh <- cmd:
	case <-t.done:
	}
}

//Size returns the terminal size in cells, queried once at startup by the caller
func (t *ConsoleUI) Size() (width int, height int) {
	return t.g.Size()
}

//Commands returns the queue of the decoded key commands
func (t *ConsoleUI) Commands() <-chan universe.Command {
	return t.commandCh
}

//Start runs the terminal main loop until Stop is called or the terminal fails
func (t *ConsoleUI) Start() error {
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return errors.Wrap(err, "terminal main loop")
	}
	return nil
}

//Stop asks the main loop to return
func (t *ConsoleUI) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
		t.g.Update(func(_ *gocui.Gui) error {
			return gocui.ErrQuit
		})
	})
}

//Close restores the terminal, it is safe to call it more than once
func (t *ConsoleUI) Close() {
	t.closeOnce.Do(t.g.Close)
}

//Welcome shows the welcome text until the first frame
func (t *ConsoleUI) Welcome(_ universe.Options) error {
	t.show(welcomeText(t.k))
	return nil
}

func welcomeText(k []keyBindings) string {
	b := bytes.Buffer{}
	b.WriteString(aurora.Bold("Welcome to the Game of Life.").String())
	b.WriteString("\n\n")
	for _, kb := range k {
		if kb.name == "" {
			continue
		}
		_, _ = fmt.Fprintf(&b, "Press %s to %s.\n", aurora.Green(kb.name), kb.descr)
	}
	return b.String()
}

//Refresh shows the grid, the text is drawn by the main loop on its next flush
func (t *ConsoleUI) Refresh(g *universe.Grid, _ universe.Status) error {
	t.show(g.Render(t.glyphs))
	return nil
}

func (t *ConsoleUI) show(s string) {
	t.text.Lock()
	t.text.s = s
	t.text.Unlock()
	//it needs to call Update when calls from goroutine
	t.g.Update(func(_ *gocui.Gui) error { return nil })
}

//layout keeps one frameless view over the whole screen and draws the latest text into it
func (t *ConsoleUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	v, err := g.SetView(fieldView, -1, -1, maxX, maxY)
	if err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		v.Wrap = false
	}

	t.text.Lock()
	s := t.text.s
	t.text.Unlock()

	v.Clear()
	_, err = fmt.Fprint(v, strings.TrimRight(s, "\n"))
	return err
}
