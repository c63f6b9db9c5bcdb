package registry

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestGenerateManifest(t *testing.T) {
	dir := t.TempDir()
	writeNodeFile(t, dir, "minecraft:bread", `{"id": "minecraft:bread"}`)
	writeNodeFile(t, dir, "tag:forge:dough", `{"id": "tag:forge:dough"}`)
	// File without an id field: the id is recovered from the file name.
	writeNodeFile(t, dir, "minecraft:sugar", `{}`)
	// Non-json noise is ignored.
	os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0o644)

	m, err := GenerateManifest(dir)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"minecraft:bread", "minecraft:sugar", "tag:forge:dough"}
	if !reflect.DeepEqual(m.NodeIDs, want) {
		t.Errorf("node_ids = %v, want %v", m.NodeIDs, want)
	}
	if m.NodeCount != 3 {
		t.Errorf("node_count = %d, want 3", m.NodeCount)
	}
	if m.GeneratedAt == "" {
		t.Error("generated_at missing")
	}
}

func TestLoadNodeIDs(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	WriteJSON(empty, Manifest{NodeIDs: nil})

	good := filepath.Join(dir, "node_ids.json")
	WriteJSON(good, Manifest{NodeCount: 2, NodeIDs: []string{"minecraft:bread", "minecraft:sugar"}})

	ids, source, ok := LoadNodeIDs([]string{
		filepath.Join(dir, "missing.json"),
		empty,
		good,
	})
	if !ok {
		t.Fatal("expected a manifest to load")
	}
	if source != good {
		t.Errorf("source = %q, want %q", source, good)
	}
	if len(ids) != 2 {
		t.Errorf("ids = %v", ids)
	}

	if _, _, ok := LoadNodeIDs([]string{empty}); ok {
		t.Error("empty manifest must not count as loaded")
	}
}

func TestWriteJSONDeterministic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteJSON(path, map[string]int{"b": 2, "a": 1}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"a\": 1,\n  \"b\": 2\n}\n"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}
