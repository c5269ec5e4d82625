package system

import (
	"strings"
	"testing"

	"pagesim/mmu"
)

func TestFormatFrames(t *testing.T) {
	s := Snapshot{}
	for i := 0; i < 6; i++ {
		s.Frames = append(s.Frames, FrameView{Number: i, Free: i%2 == 1, PID: (1 - i%2) * 7})
	}
	want := "[ 0: P7   ] [ 1: free ] [ 2: P7   ] [ 3: free ]\n" +
		"[ 4: P7   ] [ 5: free ]\n"
	if got := FormatFrames(s); got != want {
		t.Errorf("FormatFrames() =\n%s\nwant\n%s", got, want)
	}
}

func TestFormatUsage(t *testing.T) {
	got := FormatUsage(mmu.Usage{Total: 16, Used: 4, Free: 12, Percentage: 25})
	if !strings.Contains(got, "Free frames:  12") || !strings.Contains(got, "Memory usage: 25.0%") {
		t.Errorf("FormatUsage() = %q", got)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"pad", "ab", "ab  "},
		{"exact", "abcd", "abcd"},
		{"truncate", "abcdef", "abc…"},
		{"wide runes", "日本語", "日… "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fit(tt.in, 4); got != tt.want {
				t.Errorf("fit(%q, 4) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatPageTables(t *testing.T) {
	sim, _ := newSimulator(t, 1)
	_, _ = sim.CreateAndAllocate("Calculator", 4096)
	got := FormatPageTables(sim.Snapshot())
	if !strings.Contains(got, "Calculator (PID 1) - READY") || !strings.Contains(got, " 0 ->  0") {
		t.Errorf("FormatPageTables() = %q", got)
	}
	if got := FormatPageTables(Snapshot{}); got != "No process holds memory\n" {
		t.Errorf("FormatPageTables(empty) = %q", got)
	}
}
