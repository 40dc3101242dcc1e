package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Health is a point-in-time snapshot of the process and the meal plan it serves.
type Health struct {
	Status       string `json:"status"`
	AllocMB      uint64 `json:"alloc_mb"`
	SysMB        uint64 `json:"sys_mb"`
	NumGC        uint32 `json:"num_gc"`
	Goroutines   int    `json:"goroutines"`
	DataDiskSize string `json:"data_disk_size,omitempty"`
	PlannedMeals int    `json:"planned_meals"`
	Recipes      int    `json:"recipes"`
}

// Collect gathers runtime stats. dataPath is the directory holding the
// database; it is skipped when empty.
func Collect(dataPath string, plannedMeals, recipes int) Health {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	h := Health{
		Status:       "ok",
		AllocMB:      m.Alloc / 1024 / 1024,
		SysMB:        m.Sys / 1024 / 1024,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		PlannedMeals: plannedMeals,
		Recipes:      recipes,
	}
	if dataPath != "" {
		h.DataDiskSize = formatBytes(dirSize(dataPath))
	}
	return h
}

func dirSize(path string) int64 {
	var size int64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
