package paging

import (
	"testing"

	"github.com/pkg/errors"
)

func TestDefault(t *testing.T) {
	g := Default()
	if g.NumFrames() != NumFrames || NumFrames != 16 {
		t.Errorf("Default().NumFrames() = %v, want %v", g.NumFrames(), NumFrames)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v, want nil", err)
	}
}

func TestGeometry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		g       Geometry
		wantErr bool
	}{
		{"default", Geometry{4096, 65536}, false},
		{"single frame", Geometry{4096, 4096}, false},
		{"zero page", Geometry{0, 65536}, true},
		{"negative memory", Geometry{4096, -4096}, true},
		{"not a multiple", Geometry{4096, 5000}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.g.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("Validate() = %v, want ErrInvalidGeometry", err)
			}
		})
	}
}

func TestPagesFor(t *testing.T) {
	tests := []struct {
		name string
		size int
		want int
	}{
		{"zero", 0, 0},
		{"one byte", 1, 1},
		{"exact page", 4096, 1},
		{"page plus one", 4097, 2},
		{"terminal", 6144, 2},
		{"browser", 16384, 4},
		{"20000 bytes", 20000, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PagesFor(tt.size, PageSize); got != tt.want {
				t.Errorf("PagesFor(%d) = %v, want %v", tt.size, got, tt.want)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	page, offset := Split(5120, PageSize)
	if page != 1 || offset != 1024 {
		t.Errorf("Split(5120) = (%v, %v), want (1, 1024)", page, offset)
	}
}
