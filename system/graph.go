package system

import (
	"io"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/pkg/errors"
)

// graph types: pointers become edges in the rendered graph,
// so every page points at the frame backing it.
type graphFrame struct {
	Number int
	Owner  *graphProcess
}

type graphProcess struct {
	PID   int
	Name  string
	State string
	Pages []*graphFrame
}

type memoryGraph struct {
	PageSize  int
	Frames    []*graphFrame
	Processes []*graphProcess
}

func buildGraph(s Snapshot) *memoryGraph {
	g := &memoryGraph{PageSize: s.Geometry.PageSize}
	frames := make([]*graphFrame, len(s.Frames))
	for i, f := range s.Frames {
		frames[i] = &graphFrame{Number: f.Number}
	}
	for _, p := range s.Processes {
		gp := &graphProcess{PID: p.PID, Name: p.Name, State: p.State.String()}
		for _, f := range p.Frames {
			if f >= 0 && f < len(frames) {
				frames[f].Owner = gp
				gp.Pages = append(gp.Pages, frames[f])
			}
		}
		g.Processes = append(g.Processes, gp)
	}
	g.Frames = frames
	return g
}

// DumpGraph writes the frame table and the page tables as a graphviz dot graph
func (sim *Simulator) DumpGraph(w io.Writer) {
	memviz.Map(w, buildGraph(sim.Snapshot()))
}

// DumpGraphFile writes the graph to the file at path
func (sim *Simulator) DumpGraphFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "can't create %s", path)
	}
	sim.DumpGraph(f)
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "can't write %s", path)
	}
	sim.log.Info("memory graph written", "path", path)
	return nil
}
