// Package registry reads and writes the authored node registry: one JSON
// file per node, filename derived from the node id, living under one of
// several candidate root directories.
package registry

import (
	"strings"

	"github.com/timeglass/tfoods/pkg/buff"
)

// TagPrefix marks node ids that represent an item tag rather than a
// concrete item ("tag:namespace:path").
const TagPrefix = "tag:"

// Node is one registry entry. DirectIngredients keeps the authored order;
// AssignedBuffs values are either a bare number (duration shorthand) or a
// structured declaration, both handled by the buff normalizer.
type Node struct {
	ID                string         `json:"id,omitempty"`
	Enabled           bool           `json:"enabled"`
	Edible            bool           `json:"edible,omitempty"`
	DirectIngredients []string       `json:"direct_ingredients,omitempty"`
	AssignedBuffs     map[string]any `json:"assigned_buffs,omitempty"`
}

// rawNode exists so that a missing "enabled" field defaults to true.
type rawNode struct {
	ID                string         `json:"id"`
	Enabled           *bool          `json:"enabled"`
	Edible            bool           `json:"edible"`
	DirectIngredients []string       `json:"direct_ingredients"`
	AssignedBuffs     map[string]any `json:"assigned_buffs"`
}

func (r *rawNode) toNode() *Node {
	n := &Node{
		ID:                r.ID,
		Enabled:           true,
		Edible:            r.Edible,
		DirectIngredients: r.DirectIngredients,
		AssignedBuffs:     r.AssignedBuffs,
	}
	if r.Enabled != nil {
		n.Enabled = *r.Enabled
	}
	return n
}

// NodeFileName converts a node id into its filesystem-safe file name.
// Path separators and namespace colons would collide with directory
// structure, so they are escaped: "/" -> "--", ":" -> "__".
//
//	minecraft:bread            -> minecraft__bread.json
//	tag:forge:dough            -> tag__forge__dough.json
//	fd:cooking/stew            -> fd__cooking--stew.json
func NodeFileName(id string) string {
	s := strings.ReplaceAll(id, "/", "--")
	s = strings.ReplaceAll(s, ":", "__")
	return s + ".json"
}

// IDFromFileName reverses NodeFileName, for manifest generation fallbacks.
func IDFromFileName(name string) string {
	s := strings.TrimSuffix(name, ".json")
	s = strings.ReplaceAll(s, "__", ":")
	return strings.ReplaceAll(s, "--", "/")
}

// ParseEdgeToken decodes one direct_ingredients entry into the node id it
// points at. "item:<ns:path>" edges target the item's own node;
// "tag:<ns:path>" edges target the tag node, whose id keeps the tag:
// prefix. Any other shape, or a payload without a namespace separator, is
// invalid: the edge is skipped and no node is followed.
func ParseEdgeToken(token string) (nodeID string, ok bool) {
	switch {
	case strings.HasPrefix(token, "item:"):
		payload := strings.TrimPrefix(token, "item:")
		if !buff.IsNamespacedID(payload) {
			return "", false
		}
		return payload, true
	case strings.HasPrefix(token, TagPrefix):
		payload := strings.TrimPrefix(token, TagPrefix)
		if !buff.IsNamespacedID(payload) {
			return "", false
		}
		return TagPrefix + payload, true
	}
	return "", false
}

// TagPayload returns the "namespace:path" part of a tag node id, or false
// when the id is not a well-formed tag node id.
func TagPayload(nodeID string) (string, bool) {
	if !strings.HasPrefix(nodeID, TagPrefix) {
		return "", false
	}
	payload := strings.TrimPrefix(nodeID, TagPrefix)
	if !buff.IsNamespacedID(payload) {
		return "", false
	}
	return payload, true
}
