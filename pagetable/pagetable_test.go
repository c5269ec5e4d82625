package pagetable

import (
	"testing"

	"github.com/pkg/errors"

	"pagesim/paging"
)

// checkInverse fails when the two directions disagree
func checkInverse(t *testing.T, pt *Table) {
	t.Helper()
	if len(pt.pageToFrame) != len(pt.frameToPage) {
		t.Fatalf("page->frame has %d entries, frame->page %d", len(pt.pageToFrame), len(pt.frameToPage))
	}
	for p, f := range pt.pageToFrame {
		if back, ok := pt.frameToPage[f]; !ok || back != p {
			t.Fatalf("page %d -> frame %d, but frame %d -> page %d (%v)", p, f, f, back, ok)
		}
	}
}

func TestTable_Add(t *testing.T) {
	tests := []struct {
		name   string
		adds   [][2]int
		wantPF map[int]int
	}{
		{"distinct", [][2]int{{0, 3}, {1, 7}}, map[int]int{0: 3, 1: 7}},
		{"remap page", [][2]int{{0, 3}, {0, 4}}, map[int]int{0: 4}},
		{"reuse frame", [][2]int{{0, 3}, {1, 3}}, map[int]int{1: 3}},
		{"both clash", [][2]int{{0, 1}, {1, 2}, {0, 2}}, map[int]int{0: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt := New(1, paging.PageSize)
			for _, a := range tt.adds {
				pt.Add(a[0], a[1])
			}
			checkInverse(t, pt)
			got := pt.Mappings()
			if len(got) != len(tt.wantPF) {
				t.Fatalf("Mappings() = %v, want %v", got, tt.wantPF)
			}
			for p, f := range tt.wantPF {
				if got[p] != f {
					t.Errorf("Mappings()[%d] = %v, want %v", p, got[p], f)
				}
			}
		})
	}
}

func TestTable_Remove(t *testing.T) {
	pt := FromFrames(1, paging.PageSize, []int{2, 5})
	frame, ok := pt.Remove(1)
	if !ok || frame != 5 {
		t.Errorf("Remove(1) = %v, %v, want 5, true", frame, ok)
	}
	if _, ok := pt.Page(5); ok {
		t.Errorf("frame 5 still mapped after removal")
	}
	if _, ok := pt.Remove(1); ok {
		t.Errorf("second Remove(1) reported a frame")
	}
	checkInverse(t, pt)
}

func TestTable_Lookups(t *testing.T) {
	pt := FromFrames(1, paging.PageSize, []int{2, 5})
	if f, ok := pt.Frame(0); !ok || f != 2 {
		t.Errorf("Frame(0) = %v, %v", f, ok)
	}
	if p, ok := pt.Page(5); !ok || p != 1 {
		t.Errorf("Page(5) = %v, %v", p, ok)
	}
	if _, ok := pt.Frame(9); ok {
		t.Errorf("Frame(9) found")
	}
	if got := pt.Frames(); len(got) != 2 || got[0] != 2 || got[1] != 5 {
		t.Errorf("Frames() = %v", got)
	}
	if got := pt.Pages(); len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("Pages() = %v", got)
	}
}

func TestTable_Translate(t *testing.T) {
	pt := FromFrames(1, paging.PageSize, []int{2, 5})
	got, err := pt.Translate(5120)
	if err != nil || got != 21504 {
		t.Errorf("Translate(5120) = %v, %v, want 21504", got, err)
	}
	if _, err := pt.Translate(3 * paging.PageSize); !errors.Is(err, paging.ErrInvalidAddress) {
		t.Errorf("Translate(unmapped) error = %v, want ErrInvalidAddress", err)
	}
	if _, err := pt.Translate(-5); !errors.Is(err, paging.ErrInvalidAddress) {
		t.Errorf("Translate(-5) error = %v, want ErrInvalidAddress", err)
	}
}

func TestTable_Clear(t *testing.T) {
	pt := FromFrames(1, paging.PageSize, []int{0, 1, 3})
	pt.Clear()
	if pt.Len() != 0 || len(pt.Frames()) != 0 {
		t.Errorf("table not empty after Clear(): %v", pt)
	}
	if pt.String() != "page table (pid 1): empty" {
		t.Errorf("String() = %q", pt.String())
	}
}
