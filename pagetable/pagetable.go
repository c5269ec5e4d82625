package pagetable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"pagesim/paging"
)

// Table maps the logical pages of one process to physical frames and back.
// Both directions are kept as exact inverses: a page or a frame appears in at
// most one entry.
type Table struct {
	PID         int
	pageSize    int
	pageToFrame map[int]int
	frameToPage map[int]int
}

// New returns an empty page table
func New(pid, pageSize int) *Table {
	return &Table{
		PID:         pid,
		pageSize:    pageSize,
		pageToFrame: make(map[int]int),
		frameToPage: make(map[int]int),
	}
}

// FromFrames builds the table implied by an ordered frame list: page i -> frames[i].
func FromFrames(pid, pageSize int, frames []int) *Table {
	t := New(pid, pageSize)
	for page, frame := range frames {
		t.Add(page, frame)
	}
	return t
}

// Add maps page to frame. Older entries using either the page or the frame
// are dropped first.
func (t *Table) Add(page, frame int) {
	if old, ok := t.pageToFrame[page]; ok {
		delete(t.frameToPage, old)
	}
	if old, ok := t.frameToPage[frame]; ok {
		delete(t.pageToFrame, old)
	}
	t.pageToFrame[page] = frame
	t.frameToPage[frame] = page
}

// Remove deletes the page mapping and returns the frame it used.
func (t *Table) Remove(page int) (int, bool) {
	frame, ok := t.pageToFrame[page]
	if !ok {
		return 0, false
	}
	delete(t.pageToFrame, page)
	delete(t.frameToPage, frame)
	return frame, true
}

// Frame backing the page
func (t *Table) Frame(page int) (int, bool) {
	f, ok := t.pageToFrame[page]
	return f, ok
}

// Page mapped to the frame
func (t *Table) Page(frame int) (int, bool) {
	p, ok := t.frameToPage[frame]
	return p, ok
}

// Translate returns frame * page size + offset for the page of logicalAddress.
func (t *Table) Translate(logicalAddress int) (int, error) {
	if logicalAddress < 0 {
		return 0, errors.Wrapf(paging.ErrInvalidAddress, "negative address %d", logicalAddress)
	}
	page, offset := paging.Split(logicalAddress, t.pageSize)
	frame, ok := t.pageToFrame[page]
	if !ok {
		return 0, errors.Wrapf(paging.ErrInvalidAddress, "page %d not mapped", page)
	}
	return frame*t.pageSize + offset, nil
}

// Mappings returns a copy of all page -> frame entries
func (t *Table) Mappings() map[int]int {
	m := make(map[int]int, len(t.pageToFrame))
	for p, f := range t.pageToFrame {
		m[p] = f
	}
	return m
}

// Pages returns the mapped pages, sorted
func (t *Table) Pages() []int {
	return sortedKeys(t.pageToFrame)
}

// Frames returns the mapped frames, sorted
func (t *Table) Frames() []int {
	return sortedKeys(t.frameToPage)
}

// Len - number of entries
func (t *Table) Len() int {
	return len(t.pageToFrame)
}

// Clear drops every entry
func (t *Table) Clear() {
	clear(t.pageToFrame)
	clear(t.frameToPage)
}

func (t *Table) String() string {
	if len(t.pageToFrame) == 0 {
		return fmt.Sprintf("page table (pid %d): empty", t.PID)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "page table (pid %d):", t.PID)
	for _, page := range t.Pages() {
		fmt.Fprintf(&b, "\n  page %d -> frame %d", page, t.pageToFrame[page])
	}
	return b.String()
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
