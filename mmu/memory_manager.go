package mmu

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"pagesim/paging"
	"pagesim/process"
)

// Transition describes one accepted state change. It's passed to the
// observer registered with OnTransition.
type Transition struct {
	PID   int           `json:"pid"`
	Name  string        `json:"name"`
	Event process.Event `json:"-"`
	From  process.State `json:"from"`
	To    process.State `json:"to"`
	At    time.Time     `json:"at"`
}

// MemoryManager owns the frame table and the process registry.
// It is the only place where frames change owner and where the legality of a
// state transition is decided. All methods are safe for concurrent use: the
// registry, the frame table and the transitions share one critical section.
type MemoryManager struct {
	mu       sync.Mutex
	geometry paging.Geometry

	// frame table: owner pid per frame, free marks an unused slot.
	// Allocated once, never resized.
	frames []int

	processes map[int]*process.Process
	nextPID   int

	log      *slog.Logger
	observer func(Transition)
}

// free frame marker. PIDs start at 1.
const free = 0

// NewMemoryManager returns a manager with every frame free.
func NewMemoryManager(g paging.Geometry, log *slog.Logger) (*MemoryManager, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	m := &MemoryManager{
		geometry:  g,
		frames:    make([]int, g.NumFrames()),
		processes: make(map[int]*process.Process),
		nextPID:   1,
		log:       log,
	}
	log.Debug("memory manager initialized",
		"page_size", g.PageSize, "memory_size", g.MemorySize, "frames", len(m.frames))
	return m, nil
}

// Geometry the manager was built with
func (m *MemoryManager) Geometry() paging.Geometry {
	return m.geometry
}

// OnTransition registers fn to be called after every accepted transition.
// fn runs inside the manager's critical section and must not call back into it.
func (m *MemoryManager) OnTransition(fn func(Transition)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = fn
}

// CreateProcess registers a new process in state NEW. No frame is granted yet.
func (m *MemoryManager) CreateProcess(name string, size int) (process.Process, error) {
	if size <= 0 {
		return process.Process{}, errors.Wrapf(paging.ErrInvalidSize, "process %q: size %d", name, size)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := process.NewProcess(m.nextPID, name, size, m.geometry.PageSize)
	m.nextPID++
	m.processes[p.PID] = p
	m.log.Info("process created", "pid", p.PID, "name", name, "size", size, "pages", p.PagesNeeded)
	return p.Clone(), nil
}

// Allocate grants frames to a NEW process and moves it to READY.
// First fit, lowest index first, all or nothing.
func (m *MemoryManager) Allocate(pid int) error {
	return m.fire(pid, process.Allocate)
}

// Run moves a READY process to RUNNING if no other process is running.
func (m *MemoryManager) Run(pid int) error {
	return m.fire(pid, process.Run)
}

// Block moves a RUNNING process to BLOCKED.
func (m *MemoryManager) Block(pid int) error {
	return m.fire(pid, process.Block)
}

// Ready moves a RUNNING or BLOCKED process to READY.
func (m *MemoryManager) Ready(pid int) error {
	return m.fire(pid, process.MakeReady)
}

// Suspend moves READY to READY_SUSPENDED and BLOCKED to BLOCKED_SUSPENDED.
// Frames stay allocated: nothing is swapped out.
func (m *MemoryManager) Suspend(pid int) error {
	return m.fire(pid, process.Suspend)
}

// Resume undoes Suspend.
func (m *MemoryManager) Resume(pid int) error {
	return m.fire(pid, process.Resume)
}

// Deallocate frees every frame of the process and terminates it.
// Calling it on a TERMINATED process is an invalid transition and frees nothing.
func (m *MemoryManager) Deallocate(pid int) error {
	return m.fire(pid, process.Terminate)
}

// Remove drops a NEW or TERMINATED process from the registry.
// Its PID is never handed out again.
func (m *MemoryManager) Remove(pid int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.lookup(pid)
	if err != nil {
		return err
	}
	if p.State.Active() {
		return errors.Wrapf(paging.ErrProcessActive, "pid %d is %s", pid, p.State)
	}
	delete(m.processes, pid)
	m.log.Debug("process removed", "pid", pid, "name", p.Name)
	return nil
}

// Translate maps a logical address of process pid to a physical address.
func (m *MemoryManager) Translate(pid, logicalAddress int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.lookup(pid)
	if err != nil {
		return 0, err
	}
	return p.Translate(logicalAddress)
}

// Process returns a copy of the process
func (m *MemoryManager) Process(pid int) (process.Process, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.lookup(pid)
	if err != nil {
		return process.Process{}, err
	}
	return p.Clone(), nil
}

// Processes returns copies of all registered processes ordered by PID
func (m *MemoryManager) Processes() []process.Process {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := make([]process.Process, 0, len(m.processes))
	for _, p := range m.processes {
		list = append(list, p.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].PID < list[j].PID })
	return list
}

// Running returns the PID of the RUNNING process, if any.
func (m *MemoryManager) Running() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running()
}

// fire validates the event against the transition table and the
// preconditions, then applies it. The state is unchanged on failure.
func (m *MemoryManager) fire(pid int, ev process.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.lookup(pid)
	if err != nil {
		return err
	}

	to, ok := process.Next(p.State, ev)
	if !ok {
		return m.reject(&process.TransitionError{PID: pid, From: p.State, Event: ev})
	}

	switch ev {
	case process.Allocate:
		if err := m.allocate(p); err != nil {
			m.log.Warn("allocation failed", "pid", pid, "name", p.Name, "error", err)
			return err
		}
	case process.Run:
		if other, busy := m.running(); busy {
			return m.reject(&process.TransitionError{
				PID: pid, From: p.State, Event: ev,
				Cause: errors.Wrapf(paging.ErrProcessorBusy, "pid %d holds the processor", other),
			})
		}
	case process.Terminate:
		m.release(p)
	}

	from := p.State
	p.SetState(to)
	m.log.Info("process state changed", "pid", pid, "name", p.Name, "from", from.String(), "to", to.String())
	if m.observer != nil {
		m.observer(Transition{PID: pid, Name: p.Name, Event: ev, From: from, To: to, At: p.ChangedAt})
	}
	return nil
}

// allocate claims the first PagesNeeded free frames, lowest index first.
func (m *MemoryManager) allocate(p *process.Process) error {
	freeFrames := m.freeFrames()
	if len(freeFrames) < p.PagesNeeded {
		return errors.Wrapf(paging.ErrInsufficientMemory,
			"pid %d needs %d frames, %d free", p.PID, p.PagesNeeded, len(freeFrames))
	}
	for _, frame := range freeFrames[:p.PagesNeeded] {
		m.frames[frame] = p.PID
		p.AttachFrame(frame)
	}
	m.log.Debug("memory allocated", "pid", p.PID, "frames", p.Frames)
	return nil
}

// release marks the frames of p free again. Only slots still owned by p are touched.
func (m *MemoryManager) release(p *process.Process) {
	freed := p.ReleaseFrames()
	for _, frame := range freed {
		if frame >= 0 && frame < len(m.frames) && m.frames[frame] == p.PID {
			m.frames[frame] = free
		}
	}
	m.log.Debug("memory released", "pid", p.PID, "frames", freed)
}

func (m *MemoryManager) freeFrames() []int {
	var list []int
	for i, owner := range m.frames {
		if owner == free {
			list = append(list, i)
		}
	}
	return list
}

func (m *MemoryManager) running() (int, bool) {
	for pid, p := range m.processes {
		if p.State == process.Running {
			return pid, true
		}
	}
	return 0, false
}

func (m *MemoryManager) lookup(pid int) (*process.Process, error) {
	p, ok := m.processes[pid]
	if !ok {
		return nil, errors.Wrapf(paging.ErrUnknownPID, "pid %d", pid)
	}
	return p, nil
}

func (m *MemoryManager) reject(err *process.TransitionError) error {
	m.log.Warn("transition rejected", "pid", err.PID, "event", err.Event.String(), "state", err.From.String())
	return err
}
