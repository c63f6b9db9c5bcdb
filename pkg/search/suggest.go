// Package search suggests node ids for partial or misspelled queries in the
// dev inspection server ("breda" -> "minecraft:bread").
package search

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// Match is a single suggestion with its similarity score.
type Match struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// minScore filters out suggestions too far from the query to be useful.
const minScore = 0.3

// Suggest ranks ids by similarity to query and returns at most limit
// matches, best first.
func Suggest(query string, ids []string, limit int) []Match {
	if query == "" || len(ids) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	queryLower := strings.ToLower(query)
	queryTokens := tokenize(queryLower)

	var results []Match
	for _, id := range ids {
		if id == "" {
			continue
		}
		if score := score(queryLower, queryTokens, id); score >= minScore {
			results = append(results, Match{ID: id, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// score combines whole-string Levenshtein similarity with per-token fuzzy
// matching, so both "minecraft:brad" and "bread" find "minecraft:bread".
func score(queryLower string, queryTokens map[string]bool, id string) float64 {
	idLower := strings.ToLower(id)

	if queryLower == idLower {
		return 1.0
	}
	if strings.Contains(idLower, queryLower) {
		return 0.95
	}

	dist := levenshtein.Distance(queryLower, idLower, nil)
	maxLen := float64(len(queryLower))
	if len(idLower) > int(maxLen) {
		maxLen = float64(len(idLower))
	}
	global := 1.0 - float64(dist)/maxLen
	if global < 0 {
		global = 0
	}

	idTokens := tokenize(idLower)
	total := 0.0
	for q := range queryTokens {
		best := 0.0
		if idTokens[q] {
			best = 1.0
		} else {
			for s := range idTokens {
				d := levenshtein.Distance(q, s, nil)
				tMax := float64(len(q))
				if len(s) > int(tMax) {
					tMax = float64(len(s))
				}
				if sc := 1.0 - float64(d)/tMax; sc > best {
					best = sc
				}
			}
		}
		total += best
	}
	tokenScore := 0.0
	if len(queryTokens) > 0 {
		tokenScore = total / float64(len(queryTokens))
	}

	if tokenScore > global {
		return tokenScore
	}
	return global
}

// tokenize splits a node id into its namespace/path words.
func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ':' || r == '/' || r == '_' || r == '-' || r == '.'
	}) {
		if tok != "" {
			tokens[tok] = true
		}
	}
	return tokens
}
