package config

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/pkg/errors"

	"pagesim/paging"
)

func writeTemp(t *testing.T, v interface{}) string {
	t.Helper()
	tempFile, err := os.CreateTemp(t.TempDir(), "pagesim*.json")
	if err != nil {
		t.Fatalf("Failed to create temporary file: %v", err)
	}
	defer tempFile.Close()
	if err := json.NewEncoder(tempFile).Encode(v); err != nil {
		t.Fatal(err)
	}
	return tempFile.Name()
}

func TestLoad_Empty(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if c.Geometry() != paging.Default() {
		t.Errorf("Geometry() = %+v, want default", c.Geometry())
	}
	if c.HistorySize != DefaultHistorySize || c.HTTPAddr != DefaultHTTPAddr {
		t.Errorf("defaults not applied: %+v", c)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeTemp(t, map[string]interface{}{
		"page_size":     1024,
		"memory_size":   8192,
		"log_level":     "DEBUG",
		"step_delay_ms": 250,
		"seed":          42,
	})
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Geometry().NumFrames() != 8 {
		t.Errorf("NumFrames() = %d, want 8", c.Geometry().NumFrames())
	}
	if c.LogLevel != "DEBUG" || c.StepDelay != 250 || c.Seed != 42 {
		t.Errorf("Load() = %+v", c)
	}
	if c.LogPath != DefaultLogPath {
		t.Errorf("LogPath = %q, want default", c.LogPath)
	}
}

func TestLoad_InvalidGeometry(t *testing.T) {
	path := writeTemp(t, map[string]interface{}{"page_size": 4096, "memory_size": 5000})
	_, err := Load(path)
	if !errors.Is(err, paging.ErrInvalidGeometry) {
		t.Errorf("Load() error = %v, want ErrInvalidGeometry", err)
	}
}

func TestLoad_UnknownField(t *testing.T) {
	path := writeTemp(t, map[string]interface{}{"swap_file_path": "/tmp/swap"})
	if _, err := Load(path); err == nil {
		t.Error("expected an error for an unknown field")
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load("nonexistent.json"); err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}
