package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/pkg/errors"

	"pagesim/config"
	"pagesim/console"
	"pagesim/logger"
	"pagesim/system"
)

// gocui view names
const (
	framesView    = "frames"
	processesView = "processes"
	tablesView    = "tables"
	promptView    = "prompt"
)

// left column width, fits the frame grid
const leftWidth = 50

// refresh period of the memory views
const refreshPeriod = 500 * time.Millisecond

// runGui starts the terminal UI. Logs always go to the log file,
// the screen belongs to gocui.
func runGui(cfg *config.Config, demo bool) error {
	lg, closer, err := logger.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return errors.Wrap(err, "couldn't create gui")
	}
	defer g.Close()

	g.Cursor = true
	g.SetManagerFunc(layout)

	c := console.NewGui(g)
	sim, err := system.New(options(cfg), c, lg)
	if err != nil {
		return err
	}
	interp := console.NewInterpreter(sim, c, cfg.DumpPath, lg)
	interp.Background = func(f func()) { go f() }

	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		return err
	}
	if err := g.SetKeybinding(promptView, gocui.KeyEnter, gocui.ModNone, execute(c, interp, lg)); err != nil {
		return err
	}

	if err := c.WriteConsole(banner); err != nil {
		return err
	}
	if demo {
		// runs in the background, errors are reported on the console
		if err := interp.Execute("demo"); err != nil {
			lg.Error("demo failed", "error", err)
		}
	}

	done := make(chan struct{})
	defer close(done)
	updateViews(g, sim, done)

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

// updateViews redraws the memory views on every tick, until done is closed.
// gocui allows updating the views only through Update.
func updateViews(g *gocui.Gui, sim *system.Simulator, done <-chan struct{}) {
	ticker := time.NewTicker(refreshPeriod)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
			}
			s := sim.Snapshot()
			g.Update(func(g *gocui.Gui) error {
				return drawMemory(g, s)
			})
		}
	}()
}

// drawMemory fills the frame, process and page table views
func drawMemory(g *gocui.Gui, s system.Snapshot) error {
	content := map[string]string{
		framesView:    system.FormatFrames(s) + system.FormatUsage(s.Usage),
		processesView: system.FormatProcesses(s),
		tablesView:    system.FormatPageTables(s),
	}
	for name, text := range content {
		v, err := g.View(name)
		if err != nil {
			return err
		}
		v.Clear()
		fmt.Fprint(v, text)
	}
	return nil
}

// execute runs the command typed in the prompt view
func execute(c *console.Gui, interp *console.Interpreter, lg *slog.Logger) func(*gocui.Gui, *gocui.View) error {
	return func(g *gocui.Gui, v *gocui.View) error {
		line := strings.TrimSpace(v.Buffer())
		v.Clear()
		if err := v.SetCursor(0, 0); err != nil {
			return err
		}
		if err := v.SetOrigin(0, 0); err != nil {
			return err
		}
		if line == "" {
			return nil
		}
		if err := c.WriteConsole(console.Prompt + line); err != nil {
			lg.Warn("console write failed", "error", err)
		}
		err := interp.Execute(line)
		if err == console.ErrQuit {
			return gocui.ErrQuit
		}
		if err != nil {
			// already reported on the console
			lg.Debug("command failed", "command", line, "error", err)
		}
		return nil
	}
}

// gocui layout
func layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// up left -> frame table
	if v, err := g.SetView(framesView, 0, 0, leftWidth-1, 9); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Frames"
	}
	// up right -> processes
	if v, err := g.SetView(processesView, leftWidth, 0, maxX-1, 9); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Processes"
	}
	// middle left -> page tables
	if v, err := g.SetView(tablesView, 0, 10, leftWidth-1, maxY-4); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Page tables"
	}
	// middle right -> status
	if v, err := g.SetView(console.StatusView, leftWidth, 10, maxX-1, maxY-4); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status"
		v.Autoscroll = true
		v.Wrap = true
	}
	// down -> prompt
	if v, err := g.SetView(promptView, 0, maxY-3, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Command"
		v.Editable = true
		if _, err := g.SetCurrentView(promptView); err != nil {
			return err
		}
	}
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
