// Package resolver walks the ingredient graph of the node registry and
// computes, per node, the effective set of status effects it grants. It
// also builds the startup index of known node ids and compiled tag rules.
package resolver

import (
	"sync"

	"go.uber.org/zap"

	"github.com/timeglass/tfoods/internal/logging"
	"github.com/timeglass/tfoods/pkg/buff"
	"github.com/timeglass/tfoods/pkg/registry"
)

// NodeSource yields node definitions by id. Every error is treated as
// "no node"; the resolver does not distinguish missing, disabled, or
// malformed.
type NodeSource interface {
	GetNode(id string) (*registry.Node, error)
}

// Resolver owns the effective-buff-map cache. One Resolver is constructed
// per registry at startup and lives for the process; resolved maps are pure
// derived data and are never invalidated.
type Resolver struct {
	store NodeSource
	log   *zap.SugaredLogger

	mu    sync.Mutex
	cache map[string]buff.Map
}

// New creates a Resolver over store.
func New(store NodeSource, log *zap.SugaredLogger) *Resolver {
	if log == nil {
		log = logging.Nop()
	}
	return &Resolver{
		store: store,
		log:   log,
		cache: make(map[string]buff.Map),
	}
}

// Resolve returns the effective buff map for nodeID: the node's own
// assigned buffs merged with the effective maps of everything reachable
// over its direct_ingredients edges. The result is memoized per id for the
// resolver lifetime and must be treated as read-only by callers.
//
// Cycles are broken, never reported: a node already on the current descent
// path resolves to an empty map for that branch.
func (r *Resolver) Resolve(nodeID string) buff.Map {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolve(nodeID, make(map[string]bool))
}

// Source returns the node source the resolver reads from.
func (r *Resolver) Source() NodeSource {
	return r.store
}

// CachedIDs returns the node ids resolved so far. Diagnostics only.
func (r *Resolver) CachedIDs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

// resolve is the recursive worker. visiting is the set of ids on the
// current descent path; it is threaded through the recursion and never
// shared between top-level calls. Caller holds r.mu.
func (r *Resolver) resolve(nodeID string, visiting map[string]bool) buff.Map {
	if m, ok := r.cache[nodeID]; ok {
		return m
	}
	if visiting[nodeID] {
		// Cycle: this branch contributes nothing. Not cached; the
		// node may still resolve fully from another path.
		return buff.Map{}
	}

	node, err := r.store.GetNode(nodeID)
	if err != nil {
		// Missing, disabled, malformed: all degrade to empty, and
		// absence is final for the process lifetime.
		empty := buff.Map{}
		r.cache[nodeID] = empty
		return empty
	}

	visiting[nodeID] = true

	working, dropped := buff.NormalizeAssigned(node.AssignedBuffs)
	if dropped > 0 {
		r.log.Warnw("dropped malformed buff declarations", "node", nodeID, "count", dropped)
	}

	for _, token := range node.DirectIngredients {
		childID, ok := registry.ParseEdgeToken(token)
		if !ok {
			r.log.Debugw("skipping invalid edge token", "node", nodeID, "token", token)
			continue
		}
		child := r.resolve(childID, visiting)
		buff.MergeMaps(working, child)
	}

	// Release the id for sibling branches before caching the result.
	delete(visiting, nodeID)

	r.cache[nodeID] = working
	return working
}
