package sync

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// Recipe is one recipe JSON document with its provenance.
type Recipe struct {
	Source string // jar file name or datapack root, for diagnostics
	Path   string // path inside the source
	Raw    []byte
}

// EachRecipe streams every recipe JSON document found in the sources.
// Unreadable archives and malformed documents are skipped, never fatal.
func EachRecipe(sources []Source, fn func(Recipe)) {
	for _, src := range sources {
		switch src.Kind {
		case SourceJar:
			eachJarRecipe(src.Path, fn)
		case SourceDir:
			eachDirRecipe(src.Path, fn)
		}
	}
}

func eachJarRecipe(jarPath string, fn func(Recipe)) {
	zr, err := zip.OpenReader(jarPath)
	if err != nil {
		return
	}
	defer zr.Close()

	sourceID := filepath.Base(jarPath)
	for _, f := range zr.File {
		if !isRecipePath(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil || !gjson.ValidBytes(raw) {
			continue
		}
		if !gjson.ParseBytes(raw).IsObject() {
			continue
		}
		fn(Recipe{Source: sourceID, Path: f.Name, Raw: raw})
	}
}

func eachDirRecipe(root string, fn func(Recipe)) {
	dataDir := filepath.Join(root, "data")
	if _, err := os.Stat(dataDir); err != nil {
		return
	}

	filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !isRecipePath(rel) {
			return nil
		}
		raw, readErr := os.ReadFile(path)
		if readErr != nil || !gjson.ValidBytes(raw) {
			return nil
		}
		if !gjson.ParseBytes(raw).IsObject() {
			return nil
		}
		fn(Recipe{Source: root, Path: rel, Raw: raw})
		return nil
	})
}

// isItemID reports whether a string looks like a plain item id, as opposed
// to a "#ns:path" tag reference.
func isItemID(s string) bool {
	return s != "" && strings.Contains(s, ":") && !strings.HasPrefix(s, "#")
}

// tagFromHash strips the leading "#" from a string-form tag reference.
func tagFromHash(s string) (string, bool) {
	if strings.HasPrefix(s, "#") && strings.Contains(s[1:], ":") {
		return s[1:], true
	}
	return "", false
}

// ExtractOutputs pulls output item ids from a recipe document, across the
// common vanilla and modded result shapes. Tag and fluid outputs are
// ignored. Best-effort: unknown shapes yield nothing.
func ExtractOutputs(raw []byte) []string {
	doc := gjson.ParseBytes(raw)
	out := map[string]bool{}

	collectOutputs(doc.Get("result"), out)
	collectOutputs(doc.Get("results"), out)
	if len(out) == 0 {
		collectOutputs(doc.Get("output"), out)
		collectOutputs(doc.Get("outputs"), out)
	}

	return sortedKeys(out)
}

func collectOutputs(v gjson.Result, out map[string]bool) {
	if !v.Exists() {
		return
	}

	if v.Type == gjson.String {
		if isItemID(v.String()) {
			out[v.String()] = true
		}
		return
	}

	if v.IsArray() {
		v.ForEach(func(_, el gjson.Result) bool {
			collectOutputs(el, out)
			return true
		})
		return
	}

	if !v.IsObject() {
		return
	}

	// {"item": "mod:item"} and the modded {"id":...}/{"name":...} variants.
	for _, key := range []string{"item", "id", "name"} {
		if s := v.Get(key); s.Type == gjson.String && isItemID(s.String()) {
			out[s.String()] = true
		}
	}

	// Shallow descent for nested result wrappers; only values that look
	// result-shaped, so ingredients are never grabbed by accident.
	v.ForEach(func(_, child gjson.Result) bool {
		if child.IsObject() && hasItemField(child) {
			collectOutputs(child, out)
		} else if child.IsArray() {
			anyItemShaped := false
			child.ForEach(func(_, el gjson.Result) bool {
				if el.IsObject() && hasItemField(el) {
					anyItemShaped = true
					return false
				}
				return true
			})
			if anyItemShaped {
				collectOutputs(child, out)
			}
		}
		return true
	})
}

func hasItemField(v gjson.Result) bool {
	return v.Get("item").Exists() || v.Get("id").Exists() || v.Get("name").Exists()
}

// ExtractIngredientTokens pulls direct ingredient tokens from a recipe:
// item:<id>, tag:<id>, fluid:<id>. No recursion and no expansion; it only
// describes the recipe's declared direct inputs.
func ExtractIngredientTokens(raw []byte) []string {
	doc := gjson.ParseBytes(raw)
	var tokens []string

	// Shaped: pattern + key.
	if doc.Get("pattern").Exists() {
		if key := doc.Get("key"); key.IsObject() {
			key.ForEach(func(_, ing gjson.Result) bool {
				tokens = collectIngredient(ing, tokens)
				return true
			})
		}
	}

	// Shapeless.
	if ings := doc.Get("ingredients"); ings.IsArray() {
		ings.ForEach(func(_, ing gjson.Result) bool {
			tokens = collectIngredient(ing, tokens)
			return true
		})
	}

	// Single-ingredient recipes (smelting and friends).
	if ing := doc.Get("ingredient"); ing.Exists() {
		tokens = collectIngredient(ing, tokens)
	}

	// Modded input/inputs, which may also carry fluids.
	if in := doc.Get("input"); in.Exists() {
		tokens = collectIngredient(in, tokens)
		tokens = collectFluid(in, tokens)
	}
	if ins := doc.Get("inputs"); ins.IsArray() {
		ins.ForEach(func(_, in gjson.Result) bool {
			tokens = collectIngredient(in, tokens)
			tokens = collectFluid(in, tokens)
			return true
		})
	}

	// Modded fluid fields.
	for _, key := range []string{"fluid", "fluids", "fluidIngredient", "fluid_ingredient"} {
		if v := doc.Get(key); v.Exists() {
			tokens = collectFluid(v, tokens)
		}
	}

	return tokens
}

// collectIngredient handles the Minecraft "Ingredient" JSON shapes.
func collectIngredient(v gjson.Result, tokens []string) []string {
	if !v.Exists() {
		return tokens
	}

	if v.Type == gjson.String {
		if tag, ok := tagFromHash(v.String()); ok {
			return append(tokens, "tag:"+tag)
		}
		if isItemID(v.String()) {
			return append(tokens, "item:"+v.String())
		}
		return tokens
	}

	// A list is an OR of alternatives.
	if v.IsArray() {
		v.ForEach(func(_, el gjson.Result) bool {
			tokens = collectIngredient(el, tokens)
			return true
		})
		return tokens
	}

	if !v.IsObject() {
		return tokens
	}

	if s := v.Get("item"); s.Type == gjson.String && isItemID(s.String()) {
		tokens = append(tokens, "item:"+s.String())
	}
	if s := v.Get("tag"); s.Type == gjson.String && isItemID(s.String()) {
		tokens = append(tokens, "tag:"+s.String())
	}
	for _, key := range []string{"id", "name"} {
		if s := v.Get(key); s.Type == gjson.String && isItemID(s.String()) {
			tokens = append(tokens, "item:"+s.String())
		}
	}
	if items := v.Get("items"); items.IsArray() {
		items.ForEach(func(_, el gjson.Result) bool {
			tokens = collectIngredient(el, tokens)
			return true
		})
	}

	return tokens
}

// collectFluid handles the common modded fluid ingredient shapes.
func collectFluid(v gjson.Result, tokens []string) []string {
	if !v.Exists() {
		return tokens
	}

	if v.Type == gjson.String {
		if isItemID(v.String()) {
			tokens = append(tokens, "fluid:"+v.String())
		}
		return tokens
	}

	if v.IsArray() {
		v.ForEach(func(_, el gjson.Result) bool {
			tokens = collectFluid(el, tokens)
			return true
		})
		return tokens
	}

	if !v.IsObject() {
		return tokens
	}

	if s := v.Get("fluid"); s.Type == gjson.String && isItemID(s.String()) {
		tokens = append(tokens, "fluid:"+s.String())
	}
	if fl := v.Get("fluids"); fl.IsArray() {
		fl.ForEach(func(_, el gjson.Result) bool {
			if el.Type == gjson.String && isItemID(el.String()) {
				tokens = append(tokens, "fluid:"+el.String())
			}
			return true
		})
	}
	// Fluid tags behave like tags.
	for _, key := range []string{"fluidTag", "tag"} {
		if s := v.Get(key); s.Type == gjson.String && isItemID(s.String()) {
			tokens = append(tokens, "tag:"+s.String())
			break
		}
	}

	return tokens
}

// CanonicalToken collapses formatting variants into item:/tag:/fluid:
// canonical form. No expansion, no registry validation.
func CanonicalToken(token string) string {
	t := strings.TrimSpace(token)

	if strings.HasPrefix(t, "item:") || strings.HasPrefix(t, "tag:") || strings.HasPrefix(t, "fluid:") {
		return t
	}
	if tag, ok := tagFromHash(t); ok {
		return "tag:" + tag
	}
	if isItemID(t) {
		return "item:" + t
	}
	return t
}
