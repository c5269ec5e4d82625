package system

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"pagesim/process"
)

// Sample is a process used by the demo
type Sample struct {
	Name string
	Size int
}

// Samples created by CreateSampleProcesses
var Samples = []Sample{
	{"Text Editor", 8192},   // 2 pages
	{"Web Browser", 16384},  // 4 pages
	{"Media Player", 12288}, // 3 pages
	{"Calculator", 4096},    // 1 page
	{"Terminal", 6144},      // 2 pages (rounded up)
}

// CreateSampleProcesses creates and allocates every sample that fits.
func (sim *Simulator) CreateSampleProcesses() []process.Process {
	var created []process.Process
	for _, s := range Samples {
		p, err := sim.CreateAndAllocate(s.Name, s.Size)
		if err != nil {
			sim.log.Info("sample process not created", "name", s.Name, "error", err)
			continue
		}
		created = append(created, p)
	}
	return created
}

// lifecycle outcomes after the first run
const (
	complete = iota
	block
	preempt
)

// SimulateLifecycle drives a READY process through a random lifecycle:
//
//	run -> complete
//	run -> block [-> suspend -> resume] -> ready -> run -> complete
//	run -> ready (preempted) [-> suspend -> resume] -> run -> complete
//
// The choice of path is not a scheduling policy, only a demo script.
func (sim *Simulator) SimulateLifecycle(pid int) error {
	p, err := sim.Process(pid)
	if err != nil {
		return err
	}
	if p.State != process.Ready {
		return errors.Wrapf(ErrNotReady, "pid %d is %s", pid, p.State)
	}

	steps := []func(int) error{sim.Run}
	switch sim.choose(3) {
	case complete:
	case block:
		steps = append(steps, sim.Block)
		if sim.choose(2) == 0 {
			steps = append(steps, sim.Suspend, sim.Resume)
		}
		steps = append(steps, sim.Ready, sim.Run)
	case preempt:
		steps = append(steps, sim.Ready)
		if sim.choose(2) == 0 {
			steps = append(steps, sim.Suspend, sim.Resume)
		}
		steps = append(steps, sim.Run)
	}
	steps = append(steps, sim.Terminate)

	for _, step := range steps {
		if err := step(pid); err != nil {
			return err
		}
		sim.pause()
	}
	return nil
}

// RunDemo creates the sample processes and runs the lifecycle of each of them,
// reporting the memory status along the way.
func (sim *Simulator) RunDemo() error {
	sim.write("=== Memory paging simulation ===")
	created := sim.CreateSampleProcesses()
	if len(created) == 0 {
		return errors.New("no process could be created")
	}
	sim.write(fmt.Sprintf("Processes created: %d", len(created)))
	sim.PrintStatus()

	for i, p := range created {
		sim.write(fmt.Sprintf("--- Simulating process %d: %s ---", i+1, p.Name))
		if err := sim.SimulateLifecycle(p.PID); err != nil {
			return errors.Wrapf(err, "lifecycle of %s", p.Name)
		}
		sim.PrintStatus()
	}
	sim.write("=== Simulation completed ===")
	sim.log.Info("demo completed", "processes", len(created))
	return nil
}

// PrintStatus writes the memory status report to the console
func (sim *Simulator) PrintStatus() {
	sim.write(FormatStatus(sim.Snapshot()))
}

func (sim *Simulator) choose(n int) int {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.rnd.Intn(n)
}

func (sim *Simulator) pause() {
	if sim.opts.Delay > 0 {
		time.Sleep(sim.opts.Delay)
	}
}
