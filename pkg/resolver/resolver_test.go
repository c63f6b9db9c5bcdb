package resolver

import (
	"fmt"
	"testing"

	"github.com/timeglass/tfoods/pkg/buff"
	"github.com/timeglass/tfoods/pkg/registry"
)

// fakeSource serves nodes from memory and counts lookups per id.
type fakeSource struct {
	nodes   map[string]*registry.Node
	lookups map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		nodes:   make(map[string]*registry.Node),
		lookups: make(map[string]int),
	}
}

func (f *fakeSource) add(id string, ingredients []string, assigned map[string]any) {
	f.nodes[id] = &registry.Node{
		ID:                id,
		Enabled:           true,
		DirectIngredients: ingredients,
		AssignedBuffs:     assigned,
	}
}

func (f *fakeSource) GetNode(id string) (*registry.Node, error) {
	f.lookups[id]++
	n, ok := f.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", registry.ErrNodeAbsent, id)
	}
	return n, nil
}

func TestResolve_LeafNode(t *testing.T) {
	src := newFakeSource()
	src.add("minecraft:bread", nil, map[string]any{"minecraft:regeneration": float64(100)})

	r := New(src, nil)
	m := r.Resolve("minecraft:bread")

	want := buff.Spec{Effect: "minecraft:regeneration", Duration: 100, Amplifier: 0, Chance: 1}
	if len(m) != 1 || m["minecraft:regeneration"] != want {
		t.Errorf("got %+v, want single %+v", m, want)
	}
}

func TestResolve_TransitiveIngredients(t *testing.T) {
	src := newFakeSource()
	src.add("minecraft:bread", nil, map[string]any{"minecraft:regeneration": float64(100)})
	src.add("minecraft:sugar", nil, map[string]any{
		"minecraft:haste": map[string]any{"amplifier": float64(1), "duration": float64(60)},
	})
	src.add("minecraft:cake_slice", []string{"item:minecraft:bread", "item:minecraft:sugar"}, nil)

	r := New(src, nil)
	m := r.Resolve("minecraft:cake_slice")

	if len(m) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(m), m)
	}
	if got := m["minecraft:regeneration"]; got.Duration != 100 || got.Amplifier != 0 {
		t.Errorf("regeneration = %+v", got)
	}
	if got := m["minecraft:haste"]; got.Duration != 60 || got.Amplifier != 1 {
		t.Errorf("haste = %+v", got)
	}
}

func TestResolve_Memoization(t *testing.T) {
	src := newFakeSource()
	src.add("minecraft:bread", []string{"item:minecraft:wheat"}, map[string]any{"minecraft:regeneration": float64(100)})
	src.add("minecraft:wheat", nil, nil)
	// Two parents sharing the same child.
	src.add("minecraft:cake", []string{"item:minecraft:bread"}, nil)
	src.add("minecraft:toast", []string{"item:minecraft:bread"}, nil)

	r := New(src, nil)
	r.Resolve("minecraft:cake")
	r.Resolve("minecraft:toast")
	r.Resolve("minecraft:bread")

	for id, n := range src.lookups {
		if n != 1 {
			t.Errorf("store lookups for %s = %d, want exactly 1", id, n)
		}
	}
}

func TestResolve_AbsentNodeCachedAsEmpty(t *testing.T) {
	src := newFakeSource()
	r := New(src, nil)

	if m := r.Resolve("minecraft:ghost"); len(m) != 0 {
		t.Errorf("absent node should resolve empty, got %+v", m)
	}
	r.Resolve("minecraft:ghost")
	if src.lookups["minecraft:ghost"] != 1 {
		t.Errorf("absence should be memoized, lookups = %d", src.lookups["minecraft:ghost"])
	}
}

func TestResolve_CycleTerminates(t *testing.T) {
	src := newFakeSource()
	src.add("mod:a", []string{"item:mod:b"}, map[string]any{"minecraft:speed": float64(100)})
	src.add("mod:b", []string{"item:mod:a"}, map[string]any{"minecraft:haste": float64(50)})

	r := New(src, nil)
	m := r.Resolve("mod:a")

	// Each reachable node's own buffs appear exactly once.
	if len(m) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(m), m)
	}
	if m["minecraft:speed"].Duration != 100 {
		t.Errorf("speed = %+v", m["minecraft:speed"])
	}
	if m["minecraft:haste"].Duration != 50 {
		t.Errorf("haste = %+v", m["minecraft:haste"])
	}
}

func TestResolve_SelfEdge(t *testing.T) {
	src := newFakeSource()
	src.add("mod:ouroboros", []string{"item:mod:ouroboros"}, map[string]any{"minecraft:speed": float64(100)})

	r := New(src, nil)
	m := r.Resolve("mod:ouroboros")
	if len(m) != 1 || m["minecraft:speed"].Duration != 100 {
		t.Errorf("got %+v", m)
	}
}

func TestResolve_SiblingAfterCycleBranchStillResolves(t *testing.T) {
	// root -> a -> root (cycle), root -> a again as a later sibling edge.
	// After the first branch finishes, a must still be resolvable.
	src := newFakeSource()
	src.add("mod:root", []string{"item:mod:a", "item:mod:a"}, nil)
	src.add("mod:a", []string{"item:mod:root"}, map[string]any{"minecraft:haste": float64(60)})

	r := New(src, nil)
	m := r.Resolve("mod:root")
	if m["minecraft:haste"].Duration != 60 {
		t.Errorf("got %+v", m)
	}
}

func TestResolve_InvalidEdgeTokensSkipped(t *testing.T) {
	src := newFakeSource()
	src.add("mod:dish", []string{
		"fluid:minecraft:water",
		"item:nonamespace",
		"garbage",
		"item:minecraft:bread",
	}, nil)
	src.add("minecraft:bread", nil, map[string]any{"minecraft:regeneration": float64(100)})

	r := New(src, nil)
	m := r.Resolve("mod:dish")
	if len(m) != 1 {
		t.Fatalf("got %+v, want only the valid edge followed", m)
	}
	if src.lookups["fluid:minecraft:water"] != 0 || src.lookups["nonamespace"] != 0 {
		t.Error("invalid tokens must not hit the store")
	}
}

func TestResolve_MergeAcrossIngredients(t *testing.T) {
	// Both ingredients grant the same effect; the stronger one wins.
	src := newFakeSource()
	src.add("mod:weak", nil, map[string]any{
		"minecraft:speed": map[string]any{"amplifier": float64(0), "duration": float64(300)},
	})
	src.add("mod:strong", nil, map[string]any{
		"minecraft:speed": map[string]any{"amplifier": float64(1), "duration": float64(40)},
	})
	src.add("mod:dish", []string{"item:mod:weak", "item:mod:strong"}, nil)

	r := New(src, nil)
	m := r.Resolve("mod:dish")
	if got := m["minecraft:speed"]; got.Amplifier != 1 || got.Duration != 40 {
		t.Errorf("speed = %+v, want higher amplifier to win", got)
	}
}

func TestResolve_OwnBuffsBeatEqualIngredientBuffs(t *testing.T) {
	// Total tie between the node's own declaration and an ingredient's:
	// the node merges its own buffs first, so it wins first-seen.
	src := newFakeSource()
	src.add("mod:ing", nil, map[string]any{
		"minecraft:speed": map[string]any{"duration": float64(100), "chance": 0.5},
	})
	src.add("mod:dish", []string{"item:mod:ing"}, map[string]any{
		"minecraft:speed": map[string]any{"duration": float64(100), "chance": 0.5},
	})

	r := New(src, nil)
	m := r.Resolve("mod:dish")
	if m["minecraft:speed"].Chance != 0.5 || len(m) != 1 {
		t.Errorf("got %+v", m)
	}
}

func TestResolve_TagEdge(t *testing.T) {
	src := newFakeSource()
	src.add("tag:forge:dough", nil, map[string]any{"minecraft:saturation": float64(20)})
	src.add("minecraft:bread", []string{"tag:forge:dough"}, nil)

	r := New(src, nil)
	m := r.Resolve("minecraft:bread")
	if m["minecraft:saturation"].Duration != 20 {
		t.Errorf("tag edge should resolve the tag node, got %+v", m)
	}
}
