package paging

/**
 * Separate package exists mainly in order to avoid cyclic imports:
 * process, pagetable and mmu all share the geometry and the error values.
 */

import (
	"github.com/pkg/errors"
)

// default memory geometry:
const (
	// PageSize in bytes (4K). A frame has the same size.
	PageSize = 4096

	// PhysicalMemorySize is the size of the simulated RAM (64K)
	PhysicalMemorySize = 64 * 1024

	// NumFrames - number of physical frames
	NumFrames = PhysicalMemorySize / PageSize
)

// Geometry describes how the physical memory is split into frames.
// It is read once when the memory manager is constructed.
type Geometry struct {
	PageSize   int `json:"page_size"`
	MemorySize int `json:"memory_size"`
}

// Default returns the 64K / 4K geometry (16 frames).
func Default() Geometry {
	return Geometry{PageSize: PageSize, MemorySize: PhysicalMemorySize}
}

// NumFrames returns the number of frames in the physical memory
func (g Geometry) NumFrames() int {
	if g.PageSize <= 0 {
		return 0
	}
	return g.MemorySize / g.PageSize
}

// Validate checks that the memory can be divided into whole frames.
func (g Geometry) Validate() error {
	if g.PageSize <= 0 {
		return errors.Wrapf(ErrInvalidGeometry, "page size %d", g.PageSize)
	}
	if g.MemorySize <= 0 || g.MemorySize%g.PageSize != 0 {
		return errors.Wrapf(ErrInvalidGeometry,
			"memory size %d is not a positive multiple of page size %d", g.MemorySize, g.PageSize)
	}
	return nil
}

// PagesFor returns the number of pages of pageSize bytes needed to hold size bytes.
func PagesFor(size, pageSize int) int {
	if size <= 0 || pageSize <= 0 {
		return 0
	}
	return (size + pageSize - 1) / pageSize
}

// Split decomposes a logical address into page number and offset.
func Split(logicalAddress, pageSize int) (page, offset int) {
	return logicalAddress / pageSize, logicalAddress % pageSize
}
