package buff

import "sort"

// MergeInto inserts spec into m, or resolves the conflict when m already has
// an entry for the same effect. The winner is chosen by, in strict order:
// higher amplifier, then higher duration, then higher chance; on a total tie
// the existing entry is kept. Callers must not reorder these comparisons:
// with equal amplifier and duration but differing chance, a different order
// is observable.
func MergeInto(m Map, spec Spec) {
	current, exists := m[spec.Effect]
	if !exists {
		m[spec.Effect] = spec
		return
	}
	if beats(spec, current) {
		m[spec.Effect] = spec
	}
}

// MergeMaps merges every entry of src into dst. Entries are visited in
// sorted effect-id order so the first-seen rule is stable regardless of Go
// map iteration order.
func MergeMaps(dst, src Map) {
	if len(src) == 0 {
		return
	}
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		MergeInto(dst, src[k])
	}
}

// beats reports whether the incoming spec strictly wins over current.
func beats(incoming, current Spec) bool {
	if incoming.Amplifier != current.Amplifier {
		return incoming.Amplifier > current.Amplifier
	}
	if incoming.Duration != current.Duration {
		return incoming.Duration > current.Duration
	}
	return incoming.Chance > current.Chance
}
