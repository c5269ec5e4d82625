package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pagesim/logger"
	"pagesim/paging"
	"pagesim/system"
)

func newServer(t *testing.T) (*Server, *system.Simulator) {
	t.Helper()
	sim, err := system.New(system.Options{Geometry: paging.Default(), Seed: 1}, nil, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	return New(sim, logger.Discard()), sim
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decode unpacks the data field of the envelope into v
func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var env struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("can't decode %q: %v", rec.Body.String(), err)
	}
	if env.Status != "success" {
		t.Fatalf("status = %q, body %s", env.Status, rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("can't decode data %s: %v", env.Data, err)
	}
}

func TestCreateProcess(t *testing.T) {
	s, _ := newServer(t)
	rec := do(t, s, http.MethodPost, "/processes", `{"name":"Web Browser","size":16384}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, body %s", rec.Code, rec.Body.String())
	}
	var p struct {
		PID    int    `json:"pid"`
		State  string `json:"state"`
		Frames []int  `json:"frames"`
	}
	decode(t, rec, &p)
	if p.PID != 1 || p.State != "READY" || len(p.Frames) != 4 {
		t.Errorf("created %+v", p)
	}
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		setup  []string // process sizes created first
		method string
		target string
		body   string
		want   int
	}{
		{"bad body", nil, http.MethodPost, "/processes", `{"name":`, http.StatusBadRequest},
		{"invalid size", nil, http.MethodPost, "/processes", `{"name":"p","size":0}`, http.StatusBadRequest},
		{"no memory", nil, http.MethodPost, "/processes", `{"name":"p","size":70000}`, http.StatusInsufficientStorage},
		{"unknown pid", nil, http.MethodGet, "/processes/42", "", http.StatusNotFound},
		{"bad pid", nil, http.MethodGet, "/processes/abc", "", http.StatusBadRequest},
		{"get", []string{"100"}, http.MethodGet, "/processes/1", "", http.StatusOK},
		{"run", []string{"100"}, http.MethodPost, "/processes/1/run", "", http.StatusOK},
		{"invalid transition", []string{"100"}, http.MethodPost, "/processes/1/block", "", http.StatusConflict},
		{"unknown action", []string{"100"}, http.MethodPost, "/processes/1/fly", "", http.StatusNotFound},
		{"remove active", []string{"100"}, http.MethodDelete, "/processes/1", "", http.StatusConflict},
		{"translate", []string{"8192"}, http.MethodGet, "/processes/1/translate?address=5000", "", http.StatusOK},
		{"translate out of range", []string{"100"}, http.MethodGet, "/processes/1/translate?address=4096", "", http.StatusBadRequest},
		{"translate bad address", []string{"100"}, http.MethodGet, "/processes/1/translate?address=x", "", http.StatusBadRequest},
		{"list bad state", nil, http.MethodGet, "/processes?state=sleeping", "", http.StatusBadRequest},
		{"memory", []string{"100"}, http.MethodGet, "/memory", "", http.StatusOK},
		{"wrong method", nil, http.MethodPut, "/memory", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newServer(t)
			for _, size := range tt.setup {
				if rec := do(t, s, http.MethodPost, "/processes", `{"name":"p","size":`+size+`}`); rec.Code != http.StatusCreated {
					t.Fatalf("setup: code %d", rec.Code)
				}
			}
			if rec := do(t, s, tt.method, tt.target, tt.body); rec.Code != tt.want {
				t.Errorf("%s %s = %d, want %d (%s)", tt.method, tt.target, rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestLifecycleOverHTTP(t *testing.T) {
	s, sim := newServer(t)
	do(t, s, http.MethodPost, "/processes", `{"name":"a","size":4096}`)
	do(t, s, http.MethodPost, "/processes", `{"name":"b","size":4096}`)

	if rec := do(t, s, http.MethodPost, "/processes/1/run", ""); rec.Code != http.StatusOK {
		t.Fatalf("run 1: %d", rec.Code)
	}
	rec := do(t, s, http.MethodPost, "/processes/2/run", "")
	if rec.Code != http.StatusConflict || !strings.Contains(rec.Body.String(), "another process is running") {
		t.Errorf("run 2 while 1 runs: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, s, http.MethodPost, "/processes/1/kill", ""); rec.Code != http.StatusOK {
		t.Fatalf("kill 1: %d", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/processes/1", ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete 1: %d", rec.Code)
	}

	var procs []struct {
		PID int `json:"pid"`
	}
	decode(t, do(t, s, http.MethodGet, "/processes?state=ready", ""), &procs)
	if len(procs) != 1 || procs[0].PID != 2 {
		t.Errorf("READY processes = %+v, want pid 2", procs)
	}

	var usage struct {
		Used int `json:"used_frames"`
		Free int `json:"free_frames"`
	}
	decode(t, do(t, s, http.MethodGet, "/memory/usage", ""), &usage)
	if usage.Used != 1 || usage.Free != 15 {
		t.Errorf("usage = %+v", usage)
	}

	var history []struct {
		PID  int    `json:"pid"`
		From string `json:"from"`
		To   string `json:"to"`
	}
	decode(t, do(t, s, http.MethodGet, "/history", ""), &history)
	if len(history) != 4 {
		t.Errorf("%d transitions, want 4: %+v", len(history), history)
	}
	if err := sim.Check(); err != nil {
		t.Error(err)
	}
}

func TestTranslateOverHTTP(t *testing.T) {
	s, _ := newServer(t)
	do(t, s, http.MethodPost, "/processes", `{"name":"p","size":8192}`)
	var tr system.Translation
	decode(t, do(t, s, http.MethodGet, "/processes/1/translate?address=5000", ""), &tr)
	want := system.Translation{PID: 1, Logical: 5000, Page: 1, Offset: 904, Frame: 1, Physical: 5000}
	if tr != want {
		t.Errorf("translate = %+v, want %+v", tr, want)
	}
}

func TestGraphAndReset(t *testing.T) {
	s, sim := newServer(t)
	do(t, s, http.MethodPost, "/processes", `{"name":"Calculator","size":4096}`)

	rec := do(t, s, http.MethodGet, "/memory/graph", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "digraph") {
		t.Errorf("graph: %d %q", rec.Code, rec.Body.String())
	}
	if rec := do(t, s, http.MethodPost, "/reset", ""); rec.Code != http.StatusOK {
		t.Errorf("reset: %d", rec.Code)
	}
	if len(sim.Processes()) != 0 {
		t.Error("processes survived the reset")
	}
}

func TestListenAndServe_Shutdown(t *testing.T) {
	s, _ := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server didn't stop")
	}
}
