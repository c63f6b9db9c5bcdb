package sync

import (
	"fmt"
	"strings"

	"github.com/timeglass/tfoods/pkg/registry"
)

// LoadEdibleItems reads the runtime-generated edible item masterlist
// ({"items": [...]}). Entries without a namespace separator are ignored.
func LoadEdibleItems(path string) (map[string]bool, error) {
	var doc struct {
		Items []string `json:"items"`
	}
	if err := registry.ReadJSON(path, &doc); err != nil {
		return nil, fmt.Errorf("load edibles: %w", err)
	}
	if doc.Items == nil {
		return nil, fmt.Errorf("load edibles: %s has no \"items\" list", path)
	}

	edible := make(map[string]bool, len(doc.Items))
	for _, id := range doc.Items {
		if strings.Contains(id, ":") {
			edible[id] = true
		}
	}
	return edible, nil
}
