package system

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"

	"pagesim/mmu"
	"pagesim/paging"
	"pagesim/process"
)

// Console receives the human readable output of the simulator.
type Console interface {
	WriteConsole(msg string) error
}

// Options of a simulator
type Options struct {
	Geometry    paging.Geometry
	Seed        int64         // 0 = seeded from the clock
	Delay       time.Duration // pause between demo steps
	HistorySize int
}

// Simulator drives the memory manager: it is the surface used by the
// terminal UI, the line console and the HTTP API.
type Simulator struct {
	mu sync.Mutex

	mm      *mmu.MemoryManager
	opts    Options
	rnd     *rand.Rand
	history *Queue[mmu.Transition]

	console Console
	log     *slog.Logger
}

// New initializes the simulator with an empty memory
func New(opts Options, c Console, log *slog.Logger) (*Simulator, error) {
	if log == nil {
		log = slog.Default()
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = 64
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sim := &Simulator{
		opts:    opts,
		rnd:     rand.New(rand.NewSource(seed)),
		history: NewQueue[mmu.Transition](opts.HistorySize),
		console: c,
		log:     log,
	}
	if err := sim.reset(); err != nil {
		return nil, err
	}
	return sim, nil
}

// reset replaces the memory manager with a fresh one. Caller holds mu
// (or owns the simulator exclusively).
func (sim *Simulator) reset() error {
	mm, err := mmu.NewMemoryManager(sim.opts.Geometry, sim.log)
	if err != nil {
		return err
	}
	mm.OnTransition(sim.history.Enqueue)
	sim.mm = mm
	sim.history.Clear()
	return nil
}

// Reset drops every process and frees all memory. PIDs start again from 1.
func (sim *Simulator) Reset() error {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	if err := sim.reset(); err != nil {
		return err
	}
	sim.say("Memory cleared.")
	return nil
}

// Geometry of the simulated memory
func (sim *Simulator) Geometry() paging.Geometry {
	return sim.opts.Geometry
}

// CreateAndAllocate creates a process and grants its frames in one step.
// When the allocation fails the new process is discarded, so no NEW process
// survives a failed attempt.
func (sim *Simulator) CreateAndAllocate(name string, size int) (process.Process, error) {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	p, err := sim.mm.CreateProcess(name, size)
	if err != nil {
		sim.say(fmt.Sprintf("Process %s not created: %v", name, err))
		return process.Process{}, err
	}
	if err := sim.mm.Allocate(p.PID); err != nil {
		if rmErr := sim.mm.Remove(p.PID); rmErr != nil {
			sim.log.Error("can't discard process", "pid", p.PID, "error", rmErr)
		}
		sim.say(fmt.Sprintf("Process %s not created: %v", name, err))
		return process.Process{}, err
	}
	p, err = sim.mm.Process(p.PID)
	if err != nil {
		return process.Process{}, err
	}
	sim.say(fmt.Sprintf("Process %s created with PID %d, frames %v", p.Name, p.PID, p.Frames))
	return p, nil
}

// Run gives the processor to a READY process
func (sim *Simulator) Run(pid int) error {
	return sim.apply(pid, "running", (*mmu.MemoryManager).Run)
}

// Block a RUNNING process
func (sim *Simulator) Block(pid int) error {
	return sim.apply(pid, "blocked", (*mmu.MemoryManager).Block)
}

// Ready moves a RUNNING or BLOCKED process back to READY
func (sim *Simulator) Ready(pid int) error {
	return sim.apply(pid, "ready", (*mmu.MemoryManager).Ready)
}

// Suspend a READY or BLOCKED process
func (sim *Simulator) Suspend(pid int) error {
	return sim.apply(pid, "suspended", (*mmu.MemoryManager).Suspend)
}

// Resume a suspended process
func (sim *Simulator) Resume(pid int) error {
	return sim.apply(pid, "resumed", (*mmu.MemoryManager).Resume)
}

// Terminate frees the memory of a process
func (sim *Simulator) Terminate(pid int) error {
	return sim.apply(pid, "terminated, memory released", (*mmu.MemoryManager).Deallocate)
}

// apply runs one lifecycle operation of the current manager
func (sim *Simulator) apply(pid int, what string, op func(*mmu.MemoryManager, int) error) error {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	if err := op(sim.mm, pid); err != nil {
		sim.say(fmt.Sprintf("Error: %v", err))
		return err
	}
	sim.say(fmt.Sprintf("Process %d %s", pid, what))
	return nil
}

// Remove drops a NEW or TERMINATED process from the registry
func (sim *Simulator) Remove(pid int) error {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.mm.Remove(pid)
}

// CleanupTerminated removes all TERMINATED processes and returns their PIDs.
func (sim *Simulator) CleanupTerminated() []int {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	var removed []int
	for _, p := range sim.mm.Processes() {
		if p.State != process.Terminated {
			continue
		}
		if err := sim.mm.Remove(p.PID); err != nil {
			sim.log.Error("cleanup failed", "pid", p.PID, "error", err)
			continue
		}
		removed = append(removed, p.PID)
	}
	if len(removed) > 0 {
		sim.say(fmt.Sprintf("Terminated processes removed: %v", removed))
	}
	return removed
}

// Process returns a copy of the process
func (sim *Simulator) Process(pid int) (process.Process, error) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.mm.Process(pid)
}

// Processes returns every registered process, TERMINATED included
func (sim *Simulator) Processes() []process.Process {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.mm.Processes()
}

// Usage - frame statistics
func (sim *Simulator) Usage() mmu.Usage {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.mm.Usage()
}

// History returns the recent transitions, oldest first
func (sim *Simulator) History() []mmu.Transition {
	return sim.history.Items()
}

// Check runs the memory manager consistency check
func (sim *Simulator) Check() error {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.mm.Check()
}

// Translation is the decomposition of one address translation
type Translation struct {
	PID      int `json:"pid"`
	Logical  int `json:"logical_address"`
	Page     int `json:"page"`
	Offset   int `json:"offset"`
	Frame    int `json:"frame"`
	Physical int `json:"physical_address"`
}

// Translate maps a logical address of pid to a physical one
func (sim *Simulator) Translate(pid, logicalAddress int) (Translation, error) {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	physical, err := sim.mm.Translate(pid, logicalAddress)
	if err != nil {
		return Translation{}, err
	}
	pageSize := sim.opts.Geometry.PageSize
	page, offset := paging.Split(logicalAddress, pageSize)
	return Translation{
		PID:      pid,
		Logical:  logicalAddress,
		Page:     page,
		Offset:   offset,
		Frame:    physical / pageSize,
		Physical: physical,
	}, nil
}

// TranslateDemo translates the address and reports every step on the console.
func (sim *Simulator) TranslateDemo(pid, logicalAddress int) (Translation, error) {
	tr, err := sim.Translate(pid, logicalAddress)
	if err != nil {
		sim.write(fmt.Sprintf("Error: can't translate address %d of process %d: %v", logicalAddress, pid, err))
		return tr, err
	}
	sim.write(FormatTranslation(tr))
	return tr, nil
}

// say writes to the console, caller holds mu
func (sim *Simulator) say(msg string) {
	if sim.console == nil {
		return
	}
	if err := sim.console.WriteConsole(msg + "\n"); err != nil {
		sim.log.Warn("console write failed", "error", err)
	}
}

// write is say for callers not holding mu
func (sim *Simulator) write(msg string) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.say(msg)
}

// ErrNotReady is returned by the lifecycle demo for a process that isn't READY
var ErrNotReady = errors.New("process is not ready")
