package resolver

import (
	"strings"

	"go.uber.org/zap"

	"github.com/timeglass/tfoods/internal/logging"
	"github.com/timeglass/tfoods/pkg/game"
	"github.com/timeglass/tfoods/pkg/registry"
)

// TagRule pairs a tag node id with its compiled match predicate. Rules keep
// their registration order; with the merge policy's first-seen rule that
// order is observable on total ties, so it must stay the declared one.
type TagRule struct {
	NodeID string
	Tag    string
	Match  game.TagPredicate
}

// Index is the read-only startup index: every known node id plus the
// compiled tag rules. Built once, never invalidated.
type Index struct {
	NodeIDs        []string
	ManifestSource string // path the ids came from, "" when enumerated
	TagRules       []TagRule
	ExcludedTags   int
}

// LoadNodeIDs returns the known node ids: the first manifest candidate with
// a non-empty list wins; with no usable manifest the edible item enumeration
// from the game adapter is the id list.
func LoadNodeIDs(manifestCandidates []string, items game.ItemAPI, log *zap.SugaredLogger) ([]string, string) {
	if log == nil {
		log = logging.Nop()
	}
	if ids, source, ok := registry.LoadNodeIDs(manifestCandidates); ok {
		log.Infow("node ids loaded from manifest", "source", source, "count", len(ids))
		return ids, source
	}
	ids := items.EdibleItemIDs()
	log.Warnw("no manifest found, falling back to edible item enumeration", "count", len(ids))
	return ids, ""
}

// BuildIndex loads the node id list and compiles a tag rule for every
// well-formed, loadable, enabled tag node. A tag id that fails any of those
// checks is counted and skipped; index construction never aborts.
func BuildIndex(store NodeSource, items game.ItemAPI, manifestCandidates []string, log *zap.SugaredLogger) *Index {
	if log == nil {
		log = logging.Nop()
	}

	ids, source := LoadNodeIDs(manifestCandidates, items, log)
	idx := &Index{NodeIDs: ids, ManifestSource: source}

	for _, id := range ids {
		if !strings.HasPrefix(id, registry.TagPrefix) {
			continue
		}

		payload, ok := registry.TagPayload(id)
		if !ok {
			log.Warnw("malformed tag node id", "id", id)
			idx.ExcludedTags++
			continue
		}
		if _, err := store.GetNode(id); err != nil {
			log.Debugw("tag node not loadable", "id", id, "err", err)
			idx.ExcludedTags++
			continue
		}
		pred, err := items.CompileTagPredicate(payload)
		if err != nil {
			log.Warnw("tag predicate compile failed", "id", id, "err", err)
			idx.ExcludedTags++
			continue
		}

		idx.TagRules = append(idx.TagRules, TagRule{NodeID: id, Tag: payload, Match: pred})
	}

	log.Infow("registry index built",
		"node_ids", len(idx.NodeIDs),
		"tag_rules", len(idx.TagRules),
		"excluded_tags", idx.ExcludedTags)
	return idx
}
