package console

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"pagesim/process"
	"pagesim/system"
)

var (
	// ErrQuit is returned by Execute for the quit command
	ErrQuit = errors.New("quit")
	// ErrUsage - malformed or unknown command
	ErrUsage = errors.New("bad command")
)

// Help text of the command language
const Help = `Commands:
  create <name> <size>      create a process and allocate its frames
  run <pid>                 READY -> RUNNING
  block <pid>               RUNNING -> BLOCKED
  ready <pid>               RUNNING or BLOCKED -> READY
  suspend <pid>             READY or BLOCKED -> suspended
  resume <pid>              suspended -> READY or BLOCKED
  kill <pid>                terminate and release the frames
  translate <pid> <address> logical to physical address
  status | frames | tables | processes | history
  samples                   create the sample processes
  lifecycle <pid>           random lifecycle of a READY process
  demo                      full demonstration
  clean                     remove terminated processes
  reset                     free everything, PIDs restart from 1
  dump [path]               write the memory graph (graphviz)
  quit`

// Interpreter parses console commands and runs them on the simulator.
// Every outcome, errors included, is reported on the console.
type Interpreter struct {
	sim      *system.Simulator
	out      system.Console
	dumpPath string
	log      *slog.Logger

	// Background runs the long commands (demo, lifecycle). Defaults to
	// running them in place.
	Background func(func())
}

// NewInterpreter returns an interpreter writing to out
func NewInterpreter(sim *system.Simulator, out system.Console, dumpPath string, log *slog.Logger) *Interpreter {
	if log == nil {
		log = slog.Default()
	}
	return &Interpreter{
		sim:        sim,
		out:        out,
		dumpPath:   dumpPath,
		log:        log,
		Background: func(f func()) { f() },
	}
}

// Execute runs a single command line
func (in *Interpreter) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	var err error
	switch cmd {
	case "help", "?":
		in.print(Help)
	case "quit", "exit", "q":
		return ErrQuit
	case "create":
		err = in.create(args)
	case "run", "block", "ready", "suspend", "resume", "kill":
		err = in.lifecycleOp(cmd, args)
	case "translate":
		err = in.translate(args)
	case "status":
		in.sim.PrintStatus()
	case "frames":
		s := in.sim.Snapshot()
		in.print(system.FormatFrames(s) + system.FormatUsage(s.Usage) +
			fmt.Sprintf("Free frame list: %v", s.Free))
	case "tables":
		in.print(system.FormatPageTables(in.sim.Snapshot()))
	case "processes", "ps":
		in.print(system.FormatProcesses(in.sim.Snapshot()))
	case "history":
		in.print(system.FormatHistory(in.sim.History()))
	case "samples":
		created := in.sim.CreateSampleProcesses()
		in.print(fmt.Sprintf("Sample processes created: %d", len(created)))
	case "lifecycle":
		err = in.lifecycle(args)
	case "demo":
		in.Background(func() {
			if err := in.sim.RunDemo(); err != nil {
				in.print(fmt.Sprintf("Error: %v", err))
			}
		})
	case "clean":
		if removed := in.sim.CleanupTerminated(); len(removed) == 0 {
			in.print("No terminated processes")
		}
	case "reset":
		err = in.sim.Reset()
		if err != nil {
			in.print(fmt.Sprintf("Error: %v", err))
		}
	case "dump":
		err = in.dump(args)
	default:
		err = errors.Wrapf(ErrUsage, "unknown command %q, try help", cmd)
		in.print(fmt.Sprintf("Error: %v", err))
	}
	return err
}

// create <name...> <size>: the name may contain spaces
func (in *Interpreter) create(args []string) error {
	if len(args) < 2 {
		return in.usage("create <name> <size>")
	}
	size, err := strconv.Atoi(args[len(args)-1])
	if err != nil {
		return in.usage("create <name> <size>")
	}
	// the simulator reports the outcome
	_, err = in.sim.CreateAndAllocate(strings.Join(args[:len(args)-1], " "), size)
	return err
}

func (in *Interpreter) lifecycleOp(cmd string, args []string) error {
	pid, err := in.pid(cmd, args)
	if err != nil {
		return err
	}
	ops := map[string]func(int) error{
		"run":     in.sim.Run,
		"block":   in.sim.Block,
		"ready":   in.sim.Ready,
		"suspend": in.sim.Suspend,
		"resume":  in.sim.Resume,
		"kill":    in.sim.Terminate,
	}
	return ops[cmd](pid)
}

func (in *Interpreter) translate(args []string) error {
	if len(args) != 2 {
		return in.usage("translate <pid> <address>")
	}
	pid, err1 := strconv.Atoi(args[0])
	addr, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return in.usage("translate <pid> <address>")
	}
	_, err := in.sim.TranslateDemo(pid, addr)
	return err
}

func (in *Interpreter) lifecycle(args []string) error {
	pid, err := in.pid("lifecycle", args)
	if err != nil {
		return err
	}
	// checked here as well so that the error is not lost in the background
	p, err := in.sim.Process(pid)
	if err == nil && p.State != process.Ready {
		err = errors.Wrapf(system.ErrNotReady, "pid %d is %s", pid, p.State)
	}
	if err != nil {
		in.print(fmt.Sprintf("Error: %v", err))
		return err
	}
	in.Background(func() {
		if err := in.sim.SimulateLifecycle(pid); err != nil {
			in.print(fmt.Sprintf("Error: %v", err))
		}
	})
	return nil
}

func (in *Interpreter) dump(args []string) error {
	path := in.dumpPath
	if len(args) > 0 {
		path = args[0]
	}
	if err := in.sim.DumpGraphFile(path); err != nil {
		in.print(fmt.Sprintf("Error: %v", err))
		return err
	}
	in.print(fmt.Sprintf("Memory graph written to %s", path))
	return nil
}

func (in *Interpreter) pid(cmd string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, in.usage(cmd + " <pid>")
	}
	pid, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, in.usage(cmd + " <pid>")
	}
	return pid, nil
}

func (in *Interpreter) usage(form string) error {
	err := errors.Wrapf(ErrUsage, "usage: %s", form)
	in.print(fmt.Sprintf("Error: %v", err))
	return err
}

func (in *Interpreter) print(msg string) {
	if in.out == nil {
		return
	}
	if err := in.out.WriteConsole(msg); err != nil {
		in.log.Warn("console write failed", "error", err)
	}
}
