package sync

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/timeglass/tfoods/pkg/registry"
)

// GeneratedFoods is the machine-owned generated/foods.json artifact:
// every edible recipe output known to the last sync run.
type GeneratedFoods struct {
	FoodCount   int      `json:"food_count"`
	FoodOutputs []string `json:"food_outputs"`
}

// RunReport is the machine-owned generated/stats.json artifact.
type RunReport struct {
	RunID       string    `json:"run_id"`
	GeneratedAt string    `json:"generated_at"`
	Scan        ScanStats `json:"scan"`
	Sync        SyncStats `json:"sync"`
	EdibleItems int       `json:"edible_item_count"`
	EdibleFoods int       `json:"edible_output_count"`
}

// NewRunReport stamps a report with a fresh run id and timestamp.
func NewRunReport() RunReport {
	return RunReport{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// WriteGeneratedFoods writes foods.json under generatedDir.
func WriteGeneratedFoods(generatedDir string, edibleOutputs []string) error {
	outputs := append([]string(nil), edibleOutputs...)
	sort.Strings(outputs)
	return registry.WriteJSON(filepath.Join(generatedDir, "foods.json"), GeneratedFoods{
		FoodCount:   len(outputs),
		FoodOutputs: outputs,
	})
}

// WriteRunReport writes stats.json under generatedDir.
func WriteRunReport(generatedDir string, report RunReport) error {
	return registry.WriteJSON(filepath.Join(generatedDir, "stats.json"), report)
}
