// Package service exposes the two operations the game-engine bridge calls
// into per event: resolve the effects to apply when an item is eaten, and
// resolve the effective map for tooltip display. By contract neither ever
// fails the calling event: any trouble degrades to "no buffs".
package service

import (
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/timeglass/tfoods/internal/logging"
	"github.com/timeglass/tfoods/pkg/buff"
	"github.com/timeglass/tfoods/pkg/game"
	"github.com/timeglass/tfoods/pkg/resolver"
)

// itemCacheSize bounds the per-item result cache. Eviction is harmless:
// recomputation is pure and the resolver's node-level memoization still
// holds, so an evicted entry costs merges, not store lookups.
const itemCacheSize = 4096

// BuffService is the item resolution façade. Constructed once at startup
// with the resolver context and the prebuilt index.
type BuffService struct {
	res   *resolver.Resolver
	idx   *resolver.Index
	log   *zap.SugaredLogger
	cache *lru.Cache[string, buff.Map]
}

// NewBuffService creates the façade.
func NewBuffService(res *resolver.Resolver, idx *resolver.Index, log *zap.SugaredLogger) *BuffService {
	if log == nil {
		log = logging.Nop()
	}
	cache, _ := lru.New[string, buff.Map](itemCacheSize)
	return &BuffService{res: res, idx: idx, log: log, cache: cache}
}

// EffectiveBuffsForItem unions the item's own node resolution with the
// resolution of every tag node whose rule matches the item. Tag rules are
// applied in registration order; the returned map is a private copy the
// caller may keep.
func (s *BuffService) EffectiveBuffsForItem(item game.Item) buff.Map {
	if m, ok := s.cache.Get(item.ID); ok {
		return m.Clone()
	}

	working := buff.Map{}
	buff.MergeMaps(working, s.res.Resolve(item.ID))

	for _, rule := range s.idx.TagRules {
		if rule.Match(item) {
			buff.MergeMaps(working, s.res.Resolve(rule.NodeID))
		}
	}

	s.cache.Add(item.ID, working)
	return working.Clone()
}

// OnItemEaten returns the effect applications for an eaten item, ordered by
// effect id so the bridge applies them deterministically. The chance field
// is passed through; the bridge owns the dice roll.
func (s *BuffService) OnItemEaten(item game.Item) []game.EffectApplication {
	m := s.EffectiveBuffsForItem(item)
	if len(m) == 0 {
		return nil
	}

	apps := make([]game.EffectApplication, 0, len(m))
	for _, spec := range m {
		apps = append(apps, game.EffectApplication{
			Effect:    spec.Effect,
			Duration:  spec.Duration,
			Amplifier: spec.Amplifier,
			Chance:    spec.Chance,
		})
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].Effect < apps[j].Effect })

	s.log.Debugw("item eaten", "item", item.ID, "effects", len(apps))
	return apps
}

// TooltipBuffs returns the effective map for tooltip rendering. Formatting
// is the bridge's job.
func (s *BuffService) TooltipBuffs(item game.Item) buff.Map {
	return s.EffectiveBuffsForItem(item)
}

// Index exposes the startup index for diagnostics endpoints.
func (s *BuffService) Index() *resolver.Index {
	return s.idx
}

// Resolver exposes the resolver context for diagnostics endpoints.
func (s *BuffService) Resolver() *resolver.Resolver {
	return s.res
}
