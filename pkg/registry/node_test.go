package registry

import "testing"

func TestNodeFileName(t *testing.T) {
	cases := map[string]string{
		"minecraft:bread":             "minecraft__bread.json",
		"tag:forge:dough":             "tag__forge__dough.json",
		"farmersdelight:cooking/stew": "farmersdelight__cooking--stew.json",
	}
	for id, want := range cases {
		if got := NodeFileName(id); got != want {
			t.Errorf("NodeFileName(%q) = %q, want %q", id, got, want)
		}
		if back := IDFromFileName(NodeFileName(id)); back != id {
			t.Errorf("IDFromFileName round trip: %q -> %q", id, back)
		}
	}
}

func TestParseEdgeToken(t *testing.T) {
	cases := []struct {
		token  string
		nodeID string
		ok     bool
	}{
		{"item:minecraft:bread", "minecraft:bread", true},
		{"tag:forge:dough", "tag:forge:dough", true},
		{"item:minecraft:cooking/pot", "minecraft:cooking/pot", true},
		{"fluid:minecraft:water", "", false},
		{"item:bread", "", false}, // no namespace separator in payload
		{"tag:dough", "", false},
		{"minecraft:bread", "", false}, // untagged
		{"", "", false},
	}
	for _, tc := range cases {
		id, ok := ParseEdgeToken(tc.token)
		if ok != tc.ok || id != tc.nodeID {
			t.Errorf("ParseEdgeToken(%q) = (%q, %v), want (%q, %v)", tc.token, id, ok, tc.nodeID, tc.ok)
		}
	}
}

func TestTagPayload(t *testing.T) {
	if p, ok := TagPayload("tag:minecraft:foods"); !ok || p != "minecraft:foods" {
		t.Errorf("TagPayload = (%q, %v)", p, ok)
	}
	for _, bad := range []string{"minecraft:foods", "tag:foods", "tag:"} {
		if _, ok := TagPayload(bad); ok {
			t.Errorf("TagPayload(%q) should fail", bad)
		}
	}
}
