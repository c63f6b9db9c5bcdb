package sync

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/timeglass/tfoods/internal/logging"
	"github.com/timeglass/tfoods/pkg/registry"
)

// Options configures one pipeline run.
type Options struct {
	// Inputs are mod jars, mods folders, or datapack roots to scan.
	Inputs []string
	// EdiblesPath is the runtime-generated edible item masterlist.
	EdiblesPath string
	// RegistryDir is the registry root; nodes/ and generated/ live under it.
	RegistryDir string
	// DirectMapOut optionally writes the direct ingredient map for
	// inspection.
	DirectMapOut string
	// DryRun runs the whole pipeline without writing anything.
	DryRun bool
}

// Run executes the full sync pipeline: scan recipes, build the direct map,
// reconcile node files, regenerate the manifest and the generated
// artifacts.
func Run(opts Options, log *zap.SugaredLogger) (RunReport, error) {
	if log == nil {
		log = logging.Nop()
	}
	report := NewRunReport()

	sources := DiscoverSources(opts.Inputs)
	if len(sources) == 0 {
		return report, fmt.Errorf("no scannable sources in %v", opts.Inputs)
	}

	direct, scanStats := BuildDirectMap(sources, log)
	report.Scan = scanStats

	if opts.DirectMapOut != "" && !opts.DryRun {
		if err := registry.WriteJSON(opts.DirectMapOut, direct); err != nil {
			return report, fmt.Errorf("write direct map: %w", err)
		}
	}

	edible, err := LoadEdibleItems(opts.EdiblesPath)
	if err != nil {
		return report, err
	}
	report.EdibleItems = len(edible)

	nodesDir := filepath.Join(opts.RegistryDir, "nodes")
	generatedDir := filepath.Join(opts.RegistryDir, "generated")

	expected := ComputeExpectedNodes(direct, edible)
	syncStats, err := SyncNodes(nodesDir, expected, direct, edible, opts.DryRun, log)
	if err != nil {
		return report, fmt.Errorf("sync nodes: %w", err)
	}
	report.Sync = syncStats

	var edibleOutputs []string
	for out := range direct {
		if edible[out] {
			edibleOutputs = append(edibleOutputs, out)
		}
	}
	report.EdibleFoods = len(edibleOutputs)

	if opts.DryRun {
		log.Infow("dry run, skipping generated outputs", "run_id", report.RunID)
		return report, nil
	}

	if err := WriteGeneratedFoods(generatedDir, edibleOutputs); err != nil {
		return report, fmt.Errorf("write foods.json: %w", err)
	}
	if err := WriteRunReport(generatedDir, report); err != nil {
		return report, fmt.Errorf("write stats.json: %w", err)
	}

	manifest, err := registry.GenerateManifest(nodesDir)
	if err != nil {
		return report, fmt.Errorf("generate manifest: %w", err)
	}
	if err := registry.WriteJSON(filepath.Join(generatedDir, "node_ids.json"), manifest); err != nil {
		return report, fmt.Errorf("write manifest: %w", err)
	}

	log.Infow("pipeline complete", "run_id", report.RunID, "nodes", manifest.NodeCount)
	return report, nil
}
