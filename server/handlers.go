package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"pagesim/process"
)

// CreateRequest is the body of POST /processes
type CreateRequest struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

func (s *Server) listProcesses(w http.ResponseWriter, r *http.Request) {
	procs := s.sim.Processes()
	if state := r.URL.Query().Get("state"); state != "" {
		want, err := process.ParseState(state)
		if err != nil {
			s.sendError(w, errors.Wrap(ErrBadRequest, err.Error()))
			return
		}
		filtered := procs[:0]
		for _, p := range procs {
			if p.State == want {
				filtered = append(filtered, p)
			}
		}
		procs = filtered
	}
	sendJSON(w, http.StatusOK, procs)
}

func (s *Server) createProcess(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, errors.Wrapf(ErrBadRequest, "can't decode body: %v", err))
		return
	}
	p, err := s.sim.CreateAndAllocate(req.Name, req.Size)
	if err != nil {
		s.sendError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, p)
}

func (s *Server) getProcess(w http.ResponseWriter, r *http.Request) {
	pid, err := pathPID(r)
	if err != nil {
		s.sendError(w, err)
		return
	}
	p, err := s.sim.Process(pid)
	if err != nil {
		s.sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, p)
}

func (s *Server) removeProcess(w http.ResponseWriter, r *http.Request) {
	pid, err := pathPID(r)
	if err != nil {
		s.sendError(w, err)
		return
	}
	if err := s.sim.Remove(pid); err != nil {
		s.sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// processAction fires a lifecycle event: run, block, ready, suspend, resume,
// terminate (or kill) and lifecycle for the scripted demo
func (s *Server) processAction(w http.ResponseWriter, r *http.Request) {
	pid, err := pathPID(r)
	if err != nil {
		s.sendError(w, err)
		return
	}
	var op func(int) error
	switch r.PathValue("action") {
	case "run":
		op = s.sim.Run
	case "block":
		op = s.sim.Block
	case "ready":
		op = s.sim.Ready
	case "suspend":
		op = s.sim.Suspend
	case "resume":
		op = s.sim.Resume
	case "terminate", "kill":
		op = s.sim.Terminate
	case "lifecycle":
		op = s.sim.SimulateLifecycle
	default:
		http.NotFound(w, r)
		return
	}
	if err := op(pid); err != nil {
		s.sendError(w, err)
		return
	}
	p, err := s.sim.Process(pid)
	if err != nil {
		s.sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, p)
}

func (s *Server) translate(w http.ResponseWriter, r *http.Request) {
	pid, err := pathPID(r)
	if err != nil {
		s.sendError(w, err)
		return
	}
	addr, err := strconv.Atoi(r.URL.Query().Get("address"))
	if err != nil {
		s.sendError(w, errors.Wrapf(ErrBadRequest, "address %q", r.URL.Query().Get("address")))
		return
	}
	tr, err := s.sim.Translate(pid, addr)
	if err != nil {
		s.sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, tr)
}

func (s *Server) memory(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, s.sim.Snapshot())
}

func (s *Server) usage(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, s.sim.Usage())
}

// graph returns the graphviz dot source of the memory
func (s *Server) graph(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	s.sim.DumpGraph(&buf)
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.Write(buf.Bytes())
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, s.sim.History())
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	if err := s.sim.Reset(); err != nil {
		s.sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, s.sim.Usage())
}

func pathPID(r *http.Request) (int, error) {
	pid, err := strconv.Atoi(r.PathValue("pid"))
	if err != nil {
		return 0, errors.Wrapf(ErrBadRequest, "pid %q", r.PathValue("pid"))
	}
	return pid, nil
}
