package process

/**
Process state and the seven state transition table
*/

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"pagesim/paging"
)

// State of a process. Closed enumeration, New is initial, Terminated absorbing.
type State uint8

// process states:
const (
	New State = iota
	Ready
	Running
	Blocked
	ReadySuspended
	BlockedSuspended
	Terminated
)

// States lists every state in declaration order
var States = [...]State{New, Ready, Running, Blocked, ReadySuspended, BlockedSuspended, Terminated}

var stateNames = [...]string{
	New:              "NEW",
	Ready:            "READY",
	Running:          "RUNNING",
	Blocked:          "BLOCKED",
	ReadySuspended:   "READY_SUSPENDED",
	BlockedSuspended: "BLOCKED_SUSPENDED",
	Terminated:       "TERMINATED",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// MarshalText makes the state readable in JSON documents
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses the name produced by String
func (s *State) UnmarshalText(text []byte) error {
	st, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// ParseState returns the state with the given name (case insensitive)
func ParseState(name string) (State, error) {
	for i, n := range stateNames {
		if strings.EqualFold(n, name) {
			return State(i), nil
		}
	}
	return New, errors.Errorf("unknown process state %q", name)
}

// Active is true while the process owns frames
func (s State) Active() bool {
	return s != New && s != Terminated
}

// Event triggers a state transition
type Event uint8

// transition triggers:
const (
	Allocate Event = iota
	Run
	Block
	MakeReady
	Suspend
	Resume
	Terminate
)

var eventNames = [...]string{
	Allocate:  "allocate",
	Run:       "run",
	Block:     "block",
	MakeReady: "ready",
	Suspend:   "suspend",
	Resume:    "resume",
	Terminate: "terminate",
}

func (e Event) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("Event(%d)", uint8(e))
}

// Next returns the target state of the event fired in state from.
// ok is false when the table has no such transition.
// Preconditions (free frames, single running process) are checked by the caller.
func Next(from State, ev Event) (to State, ok bool) {
	switch ev {
	case Allocate:
		if from == New {
			return Ready, true
		}
	case Run:
		if from == Ready {
			return Running, true
		}
	case Block:
		if from == Running {
			return Blocked, true
		}
	case MakeReady:
		if from == Running || from == Blocked {
			return Ready, true
		}
	case Suspend:
		switch from {
		case Ready:
			return ReadySuspended, true
		case Blocked:
			return BlockedSuspended, true
		}
	case Resume:
		switch from {
		case ReadySuspended:
			return Ready, true
		case BlockedSuspended:
			return Blocked, true
		}
	case Terminate:
		if from != Terminated {
			return Terminated, true
		}
	}
	return from, false
}

// TransitionError is returned when an event is not legal for the process state.
// The state is left unchanged.
type TransitionError struct {
	PID   int
	From  State
	Event Event

	// Cause is set when the table allows the transition but a precondition failed
	Cause error
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("pid %d: can't %s from %s", e.PID, e.Event, e.From)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes paging.ErrInvalidTransition and the failed precondition
func (e *TransitionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{paging.ErrInvalidTransition, e.Cause}
	}
	return []error{paging.ErrInvalidTransition}
}
