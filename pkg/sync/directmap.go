package sync

import (
	"sort"

	"go.uber.org/zap"

	"github.com/timeglass/tfoods/internal/logging"
)

// DirectMap maps a recipe output item id to the sorted, canonical tokens of
// its direct (non-recursive) ingredients.
type DirectMap map[string][]string

// ScanStats summarizes one scan pass.
type ScanStats struct {
	Recipes        int `json:"recipes"`
	SkippedRecipes int `json:"skipped_recipes"` // no outputs or no tokens
	Outputs        int `json:"outputs"`
}

// BuildDirectMap scans all sources and accumulates the direct ingredient
// map. Recipes without resolvable outputs or tokens are counted and
// skipped; they are normal (transform recipes, unsupported schemas).
func BuildDirectMap(sources []Source, log *zap.SugaredLogger) (DirectMap, ScanStats) {
	if log == nil {
		log = logging.Nop()
	}

	acc := map[string]map[string]bool{}
	var stats ScanStats

	EachRecipe(sources, func(r Recipe) {
		stats.Recipes++

		outputs := ExtractOutputs(r.Raw)
		if len(outputs) == 0 {
			stats.SkippedRecipes++
			return
		}
		tokens := ExtractIngredientTokens(r.Raw)
		if len(tokens) == 0 {
			stats.SkippedRecipes++
			return
		}

		for i, t := range tokens {
			tokens[i] = CanonicalToken(t)
		}
		for _, out := range outputs {
			set, ok := acc[out]
			if !ok {
				set = map[string]bool{}
				acc[out] = set
			}
			for _, t := range tokens {
				set[t] = true
			}
		}
	})

	dm := make(DirectMap, len(acc))
	for out, set := range acc {
		dm[out] = sortedKeys(set)
	}
	stats.Outputs = len(dm)

	log.Infow("direct map built",
		"recipes", stats.Recipes,
		"skipped", stats.SkippedRecipes,
		"outputs", stats.Outputs)
	return dm, stats
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
