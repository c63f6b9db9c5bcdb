// Package buff defines the canonical status-effect specification assigned to
// registry nodes, the normalization of raw declarations into that form, and
// the deterministic merge policy used when several nodes contribute the same
// effect.
package buff

import (
	"sort"
	"strings"
)

// Defaults applied when a declaration omits or mangles a field.
const (
	DefaultDuration  = 200 // ticks
	DefaultAmplifier = 0
	DefaultChance    = 1.0
	MinDuration      = 1
)

// Spec is one fully-normalized status effect application.
type Spec struct {
	Effect    string  `json:"effect"`
	Duration  int     `json:"duration"`
	Amplifier int     `json:"amplifier"`
	Chance    float64 `json:"chance"`
}

// Map holds the winning Spec per effect id.
type Map map[string]Spec

// Clone returns a shallow copy. Specs are value types, so this is a full copy.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// IsNamespacedID reports whether s looks like a "namespace:path" id.
// Tag references written as "#ns:path" are not ids.
func IsNamespacedID(s string) bool {
	if s == "" || strings.HasPrefix(s, "#") {
		return false
	}
	i := strings.Index(s, ":")
	return i > 0 && i < len(s)-1
}

// Normalize converts a raw buff declaration into a canonical Spec.
//
// Two input shapes are accepted: a bare number, interpreted as a duration
// (only valid when defaultEffectID is itself a namespaced id), or an object
// carrying effect/duration/amplifier/chance with the usual aliases.
// The second return value is false when the declaration has no resolvable
// effect id; such declarations are dropped by the caller.
func Normalize(defaultEffectID string, raw any) (Spec, bool) {
	if n, ok := asNumber(raw); ok {
		if !IsNamespacedID(defaultEffectID) {
			return Spec{}, false
		}
		return Spec{
			Effect:    defaultEffectID,
			Duration:  clampDuration(n),
			Amplifier: DefaultAmplifier,
			Chance:    DefaultChance,
		}, true
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return Spec{}, false
	}

	effect := defaultEffectID
	if s, ok := obj["effect"].(string); ok && s != "" {
		effect = s
	}
	if !IsNamespacedID(effect) {
		return Spec{}, false
	}

	spec := Spec{
		Effect:    effect,
		Duration:  DefaultDuration,
		Amplifier: DefaultAmplifier,
		Chance:    DefaultChance,
	}

	if n, ok := readNumber(obj, "duration", "ticks", "time"); ok {
		spec.Duration = clampDuration(n)
	}
	if n, ok := readNumber(obj, "amplifier", "level", "lvl"); ok {
		spec.Amplifier = int(n)
		if spec.Amplifier < 0 {
			spec.Amplifier = 0
		}
	}
	if n, ok := readNumber(obj, "chance", "probability", "odds"); ok {
		spec.Chance = n
		if spec.Chance < 0 {
			spec.Chance = 0
		} else if spec.Chance > 1 {
			spec.Chance = 1
		}
	}

	return spec, true
}

// NormalizeAssigned normalizes every entry of a node's assigned_buffs map.
// The declaration key doubles as the default effect id when it is itself
// namespaced. Invalid entries are dropped without aborting the rest; the
// number of dropped entries is returned for diagnostics.
//
// Keys are visited in sorted order so that the merge policy's first-seen
// tie-break stays deterministic across runs.
func NormalizeAssigned(assigned map[string]any) (Map, int) {
	out := make(Map, len(assigned))
	dropped := 0

	keys := make([]string, 0, len(assigned))
	for k := range assigned {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		defaultID := ""
		if IsNamespacedID(key) {
			defaultID = key
		}
		spec, ok := Normalize(defaultID, assigned[key])
		if !ok {
			dropped++
			continue
		}
		MergeInto(out, spec)
	}
	return out, dropped
}

func clampDuration(n float64) int {
	d := int(n)
	if d < MinDuration {
		d = MinDuration
	}
	return d
}

// asNumber accepts the numeric types a JSON decode (or a test fixture) can
// hand us.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func readNumber(obj map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, exists := obj[k]; exists {
			if n, ok := asNumber(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}
