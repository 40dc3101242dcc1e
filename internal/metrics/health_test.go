package metrics

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "plan.db"), make([]byte, 2048), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	h := Collect(dir, 3, 7)
	if h.Status != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", h.Status)
	}
	if h.PlannedMeals != 3 || h.Recipes != 7 {
		t.Errorf("Expected 3 meals and 7 recipes, got %d and %d", h.PlannedMeals, h.Recipes)
	}
	if h.Goroutines < 1 {
		t.Errorf("Expected at least one goroutine, got %d", h.Goroutines)
	}
	if h.DataDiskSize != "2.0 KB" {
		t.Errorf("Expected '2.0 KB', got '%s'", h.DataDiskSize)
	}

	if Collect("", 0, 0).DataDiskSize != "" {
		t.Error("Expected no disk size without a data path")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{
		0:       "0 B",
		1023:    "1023 B",
		1536:    "1.5 KB",
		5 << 20: "5.0 MB",
		3 << 30: "3.0 GB",
	}
	for in, want := range tests {
		if got := formatBytes(in); got != want {
			t.Errorf("formatBytes(%d): expected %s, got %s", in, want, got)
		}
	}
}
