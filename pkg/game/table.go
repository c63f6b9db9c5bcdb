package game

import (
	"fmt"
	"sort"

	"github.com/timeglass/tfoods/pkg/registry"
)

// TableAPI is an ItemAPI backed by a static dump of the running game's item
// and tag tables (written by the KubeJS side of the add-on). It powers the
// dev server and CLI, where no live engine is available.
type TableAPI struct {
	items  []string
	edible map[string]bool
	tags   map[string]map[string]bool // tag -> item id set
}

// tableFile is the on-disk shape of the dump.
type tableFile struct {
	Items  []string            `json:"items"`
	Edible []string            `json:"edible"`
	Tags   map[string][]string `json:"tags"`
}

// LoadTable reads an item table dump from path.
func LoadTable(path string) (*TableAPI, error) {
	var tf tableFile
	if err := registry.ReadJSON(path, &tf); err != nil {
		return nil, fmt.Errorf("load item table: %w", err)
	}
	return NewTable(tf.Items, tf.Edible, tf.Tags), nil
}

// NewTable builds a TableAPI from explicit lists. Used by tests.
func NewTable(items, edible []string, tags map[string][]string) *TableAPI {
	api := &TableAPI{
		items:  append([]string(nil), items...),
		edible: make(map[string]bool, len(edible)),
		tags:   make(map[string]map[string]bool, len(tags)),
	}
	sort.Strings(api.items)
	for _, id := range edible {
		api.edible[id] = true
	}
	for tag, members := range tags {
		set := make(map[string]bool, len(members))
		for _, id := range members {
			set[id] = true
		}
		api.tags[tag] = set
	}
	return api
}

func (t *TableAPI) AllItemIDs() []string {
	return append([]string(nil), t.items...)
}

func (t *TableAPI) EdibleItemIDs() []string {
	ids := make([]string, 0, len(t.edible))
	for id := range t.edible {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (t *TableAPI) CompileTagPredicate(tag string) (TagPredicate, error) {
	members, ok := t.tags[tag]
	if !ok {
		return nil, fmt.Errorf("unknown tag: %s", tag)
	}
	return func(it Item) bool { return members[it.ID] }, nil
}
