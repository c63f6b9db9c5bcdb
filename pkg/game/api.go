// Package game is the adapter boundary to the host game engine. The
// resolution core only ever sees these canonical types; nothing in the core
// inspects engine-provided object shapes.
package game

// Item is a concrete in-game item instance as handed over by the engine
// bridge for an eaten-item or tooltip event.
type Item struct {
	ID    string
	Count int
}

// TagPredicate reports whether an item matches a compiled tag.
type TagPredicate func(Item) bool

// ItemAPI is the engine-side item and tag capability the core depends on.
type ItemAPI interface {
	// AllItemIDs enumerates every known item id.
	AllItemIDs() []string
	// EdibleItemIDs enumerates every edible item id. Used only as the
	// fallback when no node-id manifest can be loaded.
	EdibleItemIDs() []string
	// CompileTagPredicate compiles a match predicate for a
	// "namespace:path" tag. Fails for unknown tags.
	CompileTagPredicate(tag string) (TagPredicate, error)
}

// EffectApplication is one status effect the bridge should apply to the
// eating player. Chance is carried through: the bridge owns the dice roll.
type EffectApplication struct {
	Effect    string  `json:"effect"`
	Duration  int     `json:"duration"`
	Amplifier int     `json:"amplifier"`
	Chance    float64 `json:"chance"`
}
