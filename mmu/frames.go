package mmu

import (
	"github.com/pkg/errors"

	"pagesim/process"
)

// Frame is one slot of the frame table as seen from outside
type Frame struct {
	Number int `json:"number"`
	PID    int `json:"pid,omitempty"` // 0 when free
}

// Free is true if no process owns the frame
func (f Frame) Free() bool {
	return f.PID == free
}

// Usage - frame statistics
type Usage struct {
	Total      int     `json:"total_frames"`
	Used       int     `json:"used_frames"`
	Free       int     `json:"free_frames"`
	Percentage float64 `json:"usage_percentage"`
}

// Frames returns a copy of the frame table
func (m *MemoryManager) Frames() []Frame {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := make([]Frame, len(m.frames))
	for i, owner := range m.frames {
		list[i] = Frame{Number: i, PID: owner}
	}
	return list
}

// FreeFrames returns the indices of the free frames, ascending
func (m *MemoryManager) FreeFrames() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.freeFrames()
}

// Usage counts used and free frames
func (m *MemoryManager) Usage() Usage {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := Usage{Total: len(m.frames)}
	for _, owner := range m.frames {
		if owner != free {
			u.Used++
		}
	}
	u.Free = u.Total - u.Used
	if u.Total > 0 {
		u.Percentage = float64(u.Used) / float64(u.Total) * 100
	}
	return u
}

// Check verifies the frame table against the processes:
//   - a slot is owned by a registered process listing that frame
//   - every listed frame is owned by the listing process (so lists are disjoint)
//   - active processes hold exactly PagesNeeded frames, NEW and TERMINATED none
//   - at most one process is RUNNING
func (m *MemoryManager) Check() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	listed := 0
	running := 0
	for pid, p := range m.processes {
		if p.State == process.Running {
			running++
		}
		if p.State.Active() && len(p.Frames) != p.PagesNeeded {
			return errors.Errorf("pid %d (%s) holds %d frames, needs %d", pid, p.State, len(p.Frames), p.PagesNeeded)
		}
		if !p.State.Active() && len(p.Frames) != 0 {
			return errors.Errorf("pid %d (%s) still holds frames %v", pid, p.State, p.Frames)
		}
		for _, f := range p.Frames {
			if f < 0 || f >= len(m.frames) {
				return errors.Errorf("pid %d lists frame %d outside the frame table", pid, f)
			}
			if m.frames[f] != pid {
				return errors.Errorf("pid %d lists frame %d owned by %d", pid, f, m.frames[f])
			}
			listed++
		}
	}
	if running > 1 {
		return errors.Errorf("%d processes are RUNNING", running)
	}

	used := 0
	for f, owner := range m.frames {
		if owner == free {
			continue
		}
		used++
		if _, ok := m.processes[owner]; !ok {
			return errors.Errorf("frame %d owned by unregistered pid %d", f, owner)
		}
	}
	if used != listed {
		return errors.Errorf("%d frames occupied, %d listed by processes", used, listed)
	}
	return nil
}
