package system

import (
	"pagesim/mmu"
	"pagesim/paging"
	"pagesim/process"
)

// FrameView - one frame of the snapshot
type FrameView struct {
	Number int    `json:"number"`
	Free   bool   `json:"free"`
	PID    int    `json:"pid,omitempty"`
	Name   string `json:"process,omitempty"`
}

// ProcessView is a process with its page table (page -> frame)
type ProcessView struct {
	process.Process
	Pages map[int]int `json:"page_table"`
}

// Snapshot is a read-only picture of the memory, ready to be drawn.
// TERMINATED processes are left out.
type Snapshot struct {
	Geometry  paging.Geometry `json:"geometry"`
	Frames    []FrameView     `json:"frames"`
	Free      []int           `json:"free_frames"`
	Processes []ProcessView   `json:"processes"`
	Usage     mmu.Usage       `json:"usage"`
}

// Snapshot takes a consistent picture of frames, processes and usage
func (sim *Simulator) Snapshot() Snapshot {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	procs := sim.mm.Processes()
	names := make(map[int]string, len(procs))
	s := Snapshot{
		Geometry: sim.mm.Geometry(),
		Usage:    sim.mm.Usage(),
		Free:     sim.mm.FreeFrames(),
	}
	for _, p := range procs {
		names[p.PID] = p.Name
		if p.State == process.Terminated {
			continue
		}
		s.Processes = append(s.Processes, ProcessView{
			Process: p,
			Pages:   p.PageTable().Mappings(),
		})
	}
	for _, f := range sim.mm.Frames() {
		s.Frames = append(s.Frames, FrameView{
			Number: f.Number,
			Free:   f.Free(),
			PID:    f.PID,
			Name:   names[f.PID],
		})
	}
	return s
}
