package console

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jroimartin/gocui"
)

/*
group all status console related functions here

functionality:
	- autoscroll buffer
	- display simulator messages
	- prompt view below the status view. Prompt symbol: ". " (dot space)
	- commands: see Help

	- the simulator writes from any goroutine; the lines are queued and
	  drawn by the gocui main loop, in order
*/

// StatusView is the name of the gocui view the console writes to
const StatusView = "status"

// Gui console: lines queued for a gocui view
type Gui struct {
	mu      sync.Mutex
	pending []string   // lines not drawn yet
	g       *gocui.Gui // main gocui GUI object

	// update schedules f on the gocui main loop (g.Update)
	update func(f func(*gocui.Gui) error)
}

// NewGui returns a console drawing on the status view of g.
// The view doesn't have to exist yet: it is looked up on every flush.
func NewGui(g *gocui.Gui) *Gui {
	return &Gui{g: g, update: g.Update}
}

// WriteConsole displays a string on the console, empty lines are skipped
func (c *Gui) WriteConsole(msg string) error {
	c.mu.Lock()
	idle := len(c.pending) == 0
	for _, line := range strings.Split(msg, "\n") {
		if line != "" {
			c.pending = append(c.pending, line+"\n")
		}
	}
	schedule := idle && len(c.pending) > 0
	c.mu.Unlock()

	// one flush in flight at a time keeps the lines in order
	if schedule {
		c.update(c.flush)
	}
	return nil
}

// flush runs in the gocui main loop
func (c *Gui) flush(g *gocui.Gui) error {
	v, err := g.View(StatusView)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		// layout not done yet: try again later
		c.update(c.flush)
		return nil
	}

	c.mu.Lock()
	lines := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, s := range lines {
		fmt.Fprint(v, s)
	}
	return nil
}
