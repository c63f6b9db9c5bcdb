package search

import "testing"

var ids = []string{
	"minecraft:bread",
	"minecraft:sugar",
	"minecraft:cake_slice",
	"tag:minecraft:foods",
	"farmersdelight:cooking/stew",
}

func TestSuggest_ExactAndSubstring(t *testing.T) {
	res := Suggest("minecraft:bread", ids, 5)
	if len(res) == 0 || res[0].ID != "minecraft:bread" {
		t.Fatalf("got %v", res)
	}
	if res[0].Score != 1.0 {
		t.Errorf("exact match score = %v", res[0].Score)
	}

	res = Suggest("bread", ids, 5)
	if len(res) == 0 || res[0].ID != "minecraft:bread" {
		t.Errorf("substring query: got %v", res)
	}
}

func TestSuggest_Typo(t *testing.T) {
	res := Suggest("braed", ids, 5)
	if len(res) == 0 || res[0].ID != "minecraft:bread" {
		t.Errorf("typo query: got %v", res)
	}
}

func TestSuggest_TokenQuery(t *testing.T) {
	res := Suggest("cooking stew", ids, 5)
	if len(res) == 0 || res[0].ID != "farmersdelight:cooking/stew" {
		t.Errorf("token query: got %v", res)
	}
}

func TestSuggest_LimitAndEmpty(t *testing.T) {
	if res := Suggest("", ids, 5); res != nil {
		t.Errorf("empty query: got %v", res)
	}
	if res := Suggest("minecraft", ids, 2); len(res) > 2 {
		t.Errorf("limit ignored: got %v", res)
	}
}
