package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeNodeFile(t *testing.T, dir, id, content string) {
	t.Helper()
	path := filepath.Join(dir, NodeFileName(id))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestStore_GetNode(t *testing.T) {
	dir := t.TempDir()
	writeNodeFile(t, dir, "minecraft:bread", `{
		"id": "minecraft:bread",
		"direct_ingredients": ["item:minecraft:wheat"],
		"assigned_buffs": {"minecraft:regeneration": 100}
	}`)

	s := NewStore([]string{dir}, nil)

	n, err := s.GetNode("minecraft:bread")
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if !n.Enabled {
		t.Error("enabled should default to true")
	}
	if len(n.DirectIngredients) != 1 || n.DirectIngredients[0] != "item:minecraft:wheat" {
		t.Errorf("direct_ingredients = %v", n.DirectIngredients)
	}
	if _, ok := n.AssignedBuffs["minecraft:regeneration"]; !ok {
		t.Error("assigned_buffs missing")
	}
}

func TestStore_CandidateOrderAndActiveRoot(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	// Same id in both roots with different contents: the first root wins.
	writeNodeFile(t, first, "minecraft:bread", `{"assigned_buffs": {"minecraft:regeneration": 100}}`)
	writeNodeFile(t, second, "minecraft:bread", `{"assigned_buffs": {"minecraft:regeneration": 999}}`)
	writeNodeFile(t, second, "minecraft:sugar", `{}`)

	s := NewStore([]string{first, second}, nil)

	n, err := s.GetNode("minecraft:bread")
	if err != nil {
		t.Fatal(err)
	}
	if n.AssignedBuffs["minecraft:regeneration"].(float64) != 100 {
		t.Error("expected first candidate root to win")
	}
	if s.ActiveRoot() != first {
		t.Errorf("active root = %q, want %q", s.ActiveRoot(), first)
	}

	// An id only present in the second root still resolves.
	if _, err := s.GetNode("minecraft:sugar"); err != nil {
		t.Errorf("sugar should resolve from second root: %v", err)
	}
}

func TestStore_DisabledNodeIsAbsent(t *testing.T) {
	dir := t.TempDir()
	writeNodeFile(t, dir, "minecraft:cake", `{"enabled": false, "assigned_buffs": {"minecraft:speed": 100}}`)

	s := NewStore([]string{dir}, nil)
	_, err := s.GetNode("minecraft:cake")
	if !errors.Is(err, ErrNodeAbsent) {
		t.Errorf("err = %v, want ErrNodeAbsent", err)
	}
}

func TestStore_MalformedFallsThroughToNextRoot(t *testing.T) {
	broken := t.TempDir()
	good := t.TempDir()
	writeNodeFile(t, broken, "minecraft:bread", `{not json`)
	writeNodeFile(t, good, "minecraft:bread", `{"assigned_buffs": {"minecraft:regeneration": 100}}`)

	s := NewStore([]string{broken, good}, nil)
	if _, err := s.GetNode("minecraft:bread"); err != nil {
		t.Errorf("malformed candidate should fall through: %v", err)
	}
}

func TestStore_AbsenceIsCached(t *testing.T) {
	dir := t.TempDir()
	s := NewStore([]string{dir}, nil)

	if _, err := s.GetNode("minecraft:ghost"); !errors.Is(err, ErrNodeAbsent) {
		t.Fatalf("err = %v, want ErrNodeAbsent", err)
	}

	// The file appearing later must not change the cached outcome.
	writeNodeFile(t, dir, "minecraft:ghost", `{"assigned_buffs": {"minecraft:speed": 10}}`)
	if _, err := s.GetNode("minecraft:ghost"); !errors.Is(err, ErrNodeAbsent) {
		t.Errorf("absence should be cached for the store lifetime, got %v", err)
	}
}

func TestStore_PresenceIsCached(t *testing.T) {
	dir := t.TempDir()
	writeNodeFile(t, dir, "minecraft:bread", `{"assigned_buffs": {"minecraft:regeneration": 100}}`)

	s := NewStore([]string{dir}, nil)
	if _, err := s.GetNode("minecraft:bread"); err != nil {
		t.Fatal(err)
	}

	// Deleting the file must not evict the cached node.
	os.Remove(filepath.Join(dir, NodeFileName("minecraft:bread")))
	if _, err := s.GetNode("minecraft:bread"); err != nil {
		t.Errorf("node should be served from cache after first load: %v", err)
	}
}
