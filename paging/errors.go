package paging

import "github.com/pkg/errors"

// error values shared by the whole simulator. Wrap them for context,
// test them with errors.Is.
var (
	// ErrInsufficientMemory : requested pages exceed currently free frames
	ErrInsufficientMemory = errors.New("insufficient memory")

	// ErrInvalidTransition : operation not allowed from the current process state
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrProcessorBusy : another process already holds RUNNING
	ErrProcessorBusy = errors.New("another process is running")

	// ErrInvalidAddress : no frame backs the page of a logical address
	ErrInvalidAddress = errors.New("invalid logical address")

	// ErrUnknownPID : no process with the given PID in the registry
	ErrUnknownPID = errors.New("unknown pid")

	// ErrInvalidSize : process size must be > 0
	ErrInvalidSize = errors.New("invalid process size")

	// ErrProcessActive : process still owns (or may own) frames
	ErrProcessActive = errors.New("process is active")

	// ErrInvalidGeometry : memory can't be divided into frames
	ErrInvalidGeometry = errors.New("invalid memory geometry")
)
