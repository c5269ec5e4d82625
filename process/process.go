package process

import (
	"slices"
	"time"

	"github.com/pkg/errors"

	"pagesim/pagetable"
	"pagesim/paging"
)

// Process is a passive data holder. It keeps the frames it was granted in page
// order (page i -> Frames[i]) but never decides whether a transition is legal,
// that's the job of the memory manager.
type Process struct {
	PID         int    `json:"pid"`
	Name        string `json:"name"`
	Size        int    `json:"size"`
	PagesNeeded int    `json:"pages_needed"`
	State       State  `json:"state"`

	// Frames - allocated frames, in page order
	Frames []int `json:"frames"`

	CreatedAt time.Time `json:"created_at"`
	ChangedAt time.Time `json:"changed_at"`

	// Entries counts how many times the process entered each state,
	// TimeIn accumulates the time spent in the states already left.
	Entries map[State]int           `json:"entries"`
	TimeIn  map[State]time.Duration `json:"time_in"`

	pageSize int
}

// NewProcess returns a process in state NEW. Size validation is the caller's job.
func NewProcess(pid int, name string, size, pageSize int) *Process {
	now := time.Now()
	p := &Process{
		PID:         pid,
		Name:        name,
		Size:        size,
		PagesNeeded: paging.PagesFor(size, pageSize),
		State:       New,
		Frames:      []int{},
		CreatedAt:   now,
		ChangedAt:   now,
		Entries:     map[State]int{New: 1},
		TimeIn:      make(map[State]time.Duration),
		pageSize:    pageSize,
	}
	return p
}

// PageSize used to build the process
func (p *Process) PageSize() int {
	return p.pageSize
}

// AttachFrame appends a frame to the frame list unless it's already there.
func (p *Process) AttachFrame(frame int) {
	if !slices.Contains(p.Frames, frame) {
		p.Frames = append(p.Frames, frame)
	}
}

// ReleaseFrames clears the frame list and returns the previous content.
// The global frame table is not touched.
func (p *Process) ReleaseFrames() []int {
	freed := p.Frames
	p.Frames = []int{}
	return freed
}

// SetState writes the new state and refreshes the change timestamp.
func (p *Process) SetState(s State) {
	now := time.Now()
	p.TimeIn[p.State] += now.Sub(p.ChangedAt)
	p.State = s
	p.ChangedAt = now
	p.Entries[s]++
}

// Translate maps a logical address to the physical one using the granted frames.
func (p *Process) Translate(logicalAddress int) (int, error) {
	if logicalAddress < 0 {
		return 0, errors.Wrapf(paging.ErrInvalidAddress, "pid %d: negative address %d", p.PID, logicalAddress)
	}
	page, offset := paging.Split(logicalAddress, p.pageSize)
	if page >= len(p.Frames) {
		return 0, errors.Wrapf(paging.ErrInvalidAddress,
			"pid %d: address %d is in page %d, only %d pages mapped", p.PID, logicalAddress, page, len(p.Frames))
	}
	return p.Frames[page]*p.pageSize + offset, nil
}

// PageTable derives the page table from the frame list
func (p *Process) PageTable() *pagetable.Table {
	return pagetable.FromFrames(p.PID, p.pageSize, p.Frames)
}

// Clone returns a deep copy, safe to hand out of the manager.
func (p *Process) Clone() Process {
	c := *p
	c.Frames = slices.Clone(p.Frames)
	c.Entries = make(map[State]int, len(p.Entries))
	for k, v := range p.Entries {
		c.Entries[k] = v
	}
	c.TimeIn = make(map[State]time.Duration, len(p.TimeIn))
	for k, v := range p.TimeIn {
		c.TimeIn[k] = v
	}
	return c
}
