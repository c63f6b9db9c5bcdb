package registry

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Manifest is the generated index of all known node ids
// (generated/node_ids.json). It exists so runtime startup never has to
// enumerate the registry directory.
type Manifest struct {
	GeneratedAt string   `json:"generated_at"`
	NodeCount   int      `json:"node_count"`
	NodeIDs     []string `json:"node_ids"`
}

// LoadNodeIDs tries each manifest candidate path in order and returns the
// node id list of the first one with a non-empty node_ids field, together
// with the path it came from. ok is false when no candidate yields anything.
func LoadNodeIDs(candidates []string) (ids []string, source string, ok bool) {
	for _, path := range candidates {
		var m Manifest
		if err := ReadJSON(path, &m); err != nil {
			continue
		}
		if len(m.NodeIDs) == 0 {
			continue
		}
		return m.NodeIDs, path, true
	}
	return nil, "", false
}

// GenerateManifest scans a nodes directory for *.json files and builds a
// manifest from their id fields. Files without a parseable id fall back to
// the id encoded in the file name. Output order is sorted for determinism.
func GenerateManifest(nodesDir string) (*Manifest, error) {
	entries, err := os.ReadDir(nodesDir)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		id := IDFromFileName(e.Name())
		if data, err := os.ReadFile(filepath.Join(nodesDir, e.Name())); err == nil {
			if v := gjson.GetBytes(data, "id"); v.Exists() && v.String() != "" {
				id = v.String()
			}
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return &Manifest{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		NodeCount:   len(ids),
		NodeIDs:     ids,
	}, nil
}
