package system

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"pagesim/mmu"
	"pagesim/process"
)

// frames per row in the frame grid
const gridWidth = 4

// name column width
const nameWidth = 16

// fit pads or truncates s to w terminal cells
func fit(s string, w int) string {
	return runewidth.FillRight(runewidth.Truncate(s, w, "…"), w)
}

// FormatFrames draws the frame table as a grid, 4 frames per row
func FormatFrames(s Snapshot) string {
	var b strings.Builder
	for i, f := range s.Frames {
		if f.Free {
			fmt.Fprintf(&b, "[%2d: free ]", f.Number)
		} else {
			fmt.Fprintf(&b, "[%2d: P%-4d]", f.Number, f.PID)
		}
		if (i+1)%gridWidth == 0 || i == len(s.Frames)-1 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}

// FormatUsage - frame statistics
func FormatUsage(u mmu.Usage) string {
	return fmt.Sprintf("Total frames: %d\nUsed frames:  %d\nFree frames:  %d\nMemory usage: %.1f%%\n",
		u.Total, u.Used, u.Free, u.Percentage)
}

// FormatProcesses lists the processes of the snapshot, one per line
func FormatProcesses(s Snapshot) string {
	if len(s.Processes) == 0 {
		return "No active processes\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%4s %s %-17s %6s %5s %s\n", "PID", fit("NAME", nameWidth), "STATE", "SIZE", "PAGES", "FRAMES")
	for _, p := range s.Processes {
		fmt.Fprintf(&b, "%4d %s %-17s %6d %5d %v\n",
			p.PID, fit(p.Name, nameWidth), p.State, p.Size, p.PagesNeeded, p.Frames)
	}
	return b.String()
}

// FormatPageTables prints the page table of every process holding frames
func FormatPageTables(s Snapshot) string {
	var b strings.Builder
	for _, p := range s.Processes {
		if len(p.Frames) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s (PID %d) - %s\n", p.Name, p.PID, p.State)
		b.WriteString("  page -> frame\n")
		for page, frame := range p.Frames {
			fmt.Fprintf(&b, "    %2d -> %2d\n", page, frame)
		}
	}
	if b.Len() == 0 {
		return "No process holds memory\n"
	}
	return b.String()
}

// FormatStatus is the full memory report: usage, active processes and their page tables
func FormatStatus(s Snapshot) string {
	var b strings.Builder
	b.WriteString("--- Memory status ---\n")
	b.WriteString(FormatUsage(s.Usage))
	b.WriteString(FormatFrames(s))
	if len(s.Processes) == 0 {
		b.WriteString("No active processes\n")
	} else {
		b.WriteString("Active processes:\n")
		for _, p := range s.Processes {
			fmt.Fprintf(&b, "  %s (PID %d, %s, %dB)\n", p.Name, p.PID, p.State, p.Size)
			if len(p.Frames) > 0 {
				fmt.Fprintf(&b, "    frames: %v\n", p.Frames)
				fmt.Fprintf(&b, "    page table: %s\n", formatMapping(p.Frames))
			}
		}
	}
	b.WriteString(strings.Repeat("-", 30))
	return b.String()
}

// FormatTranslation explains one address translation
func FormatTranslation(tr Translation) string {
	return fmt.Sprintf("--- Address translation ---\n"+
		"Process PID:      %d\n"+
		"Logical address:  %d\n"+
		"Page: %d, offset: %d\n"+
		"Frame:            %d\n"+
		"Physical address: %d",
		tr.PID, tr.Logical, tr.Page, tr.Offset, tr.Frame, tr.Physical)
}

// FormatHistory lists transitions, oldest first
func FormatHistory(h []mmu.Transition) string {
	if len(h) == 0 {
		return "No transitions yet\n"
	}
	var b strings.Builder
	for _, tr := range h {
		fmt.Fprintf(&b, "%s %s (PID %d): %s -> %s\n",
			tr.At.Format("15:04:05.000"), fit(tr.Name, nameWidth), tr.PID, tr.From, tr.To)
	}
	return b.String()
}

// StateCounts returns how many processes of the snapshot are in each state
func StateCounts(s Snapshot) map[process.State]int {
	counts := make(map[process.State]int)
	for _, p := range s.Processes {
		counts[p.State]++
	}
	return counts
}

func formatMapping(frames []int) string {
	parts := make([]string, len(frames))
	for page, frame := range frames {
		parts[page] = fmt.Sprintf("%d->%d", page, frame)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
