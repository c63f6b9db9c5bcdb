package sync

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/timeglass/tfoods/internal/logging"
	"github.com/timeglass/tfoods/pkg/registry"
)

// SyncStats reports what a registry sync pass did.
type SyncStats struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Disabled  int `json:"disabled"`
	Unchanged int `json:"unchanged"`
}

// ComputeExpectedNodes returns the sorted set of node ids that should exist:
// every edible recipe output, plus every item referenced (transitively,
// through the direct map) as an ingredient of one. Tag nodes are
// hand-authored and never created by the sync.
func ComputeExpectedNodes(direct DirectMap, edible map[string]bool) []string {
	expected := map[string]bool{}
	var queue []string

	for out := range direct {
		if edible[out] {
			expected[out] = true
			queue = append(queue, out)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, token := range direct[id] {
			if !strings.HasPrefix(token, "item:") {
				continue
			}
			child := strings.TrimPrefix(token, "item:")
			if !expected[child] {
				expected[child] = true
				queue = append(queue, child)
			}
		}
	}

	return sortedKeys(expected)
}

// SyncNodes reconciles the node files under nodesDir with the expected
// state. It creates missing nodes, refreshes structural fields on existing
// ones, and disables nodes that are no longer expected. It never deletes a
// file and never writes the assigned_buffs field; that map belongs to the
// content author.
func SyncNodes(nodesDir string, expected []string, direct DirectMap, edible map[string]bool, dryRun bool, log *zap.SugaredLogger) (SyncStats, error) {
	if log == nil {
		log = logging.Nop()
	}
	var stats SyncStats

	if !dryRun {
		if err := os.MkdirAll(nodesDir, 0o755); err != nil {
			return stats, err
		}
	}

	expectedSet := make(map[string]bool, len(expected))
	for _, id := range expected {
		expectedSet[id] = true
	}

	for _, id := range expected {
		path := filepath.Join(nodesDir, registry.NodeFileName(id))

		var node map[string]any
		created := false
		if err := registry.ReadJSON(path, &node); err != nil || node == nil {
			node = newNodeTemplate(id)
			created = true
		}

		before := deepCopy(node)
		node["id"] = id
		node["enabled"] = true
		node["edible"] = edible[id]
		node["direct_ingredients"] = anySlice(direct[id])
		if _, ok := node["assigned_buffs"]; !ok {
			node["assigned_buffs"] = map[string]any{}
		}

		switch {
		case created:
			stats.Created++
		case reflect.DeepEqual(before, node):
			stats.Unchanged++
			continue
		default:
			stats.Updated++
		}

		if dryRun {
			continue
		}
		if err := registry.WriteJSON(path, node); err != nil {
			return stats, err
		}
	}

	// Disable nodes on disk that are no longer expected. Tag nodes are
	// exempt: the sync never manages them.
	entries, err := os.ReadDir(nodesDir)
	if err != nil {
		if os.IsNotExist(err) && dryRun {
			return stats, nil
		}
		return stats, err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(nodesDir, e.Name())

		var node map[string]any
		if err := registry.ReadJSON(path, &node); err != nil {
			log.Warnw("unreadable node file during sync", "path", path, "err", err)
			continue
		}
		id, _ := node["id"].(string)
		if id == "" {
			id = registry.IDFromFileName(e.Name())
		}
		if expectedSet[id] || strings.HasPrefix(id, registry.TagPrefix) {
			continue
		}
		if enabled, ok := node["enabled"].(bool); ok && !enabled {
			continue // already disabled
		}

		node["enabled"] = false
		stats.Disabled++
		if dryRun {
			continue
		}
		if err := registry.WriteJSON(path, node); err != nil {
			return stats, err
		}
	}

	log.Infow("registry sync complete",
		"created", stats.Created,
		"updated", stats.Updated,
		"disabled", stats.Disabled,
		"unchanged", stats.Unchanged)
	return stats, nil
}

// newNodeTemplate is the minimal structure of a fresh node file.
// assigned_buffs always exists and starts empty.
func newNodeTemplate(id string) map[string]any {
	return map[string]any{
		"id":                 id,
		"enabled":            true,
		"edible":             false,
		"direct_ingredients": []any{},
		"assigned_buffs":     map[string]any{},
	}
}

func anySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func deepCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case map[string]any:
			out[k] = deepCopy(t)
		case []any:
			cp := make([]any, len(t))
			copy(cp, t)
			out[k] = cp
		default:
			out[k] = v
		}
	}
	return out
}
