// Package sync implements the content pipeline that keeps the node registry
// in step with the game's recipes: scan mod jars and datapacks for recipe
// JSON, build the direct ingredient map, synchronize node files without
// touching hand-authored buffs, and emit the generated artifacts.
package sync

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceKind distinguishes scannable source types.
type SourceKind int

const (
	SourceJar SourceKind = iota
	SourceDir
)

// Source is one concrete scan target: a mod jar/zip or a datapack-style
// directory containing data/<ns>/recipes/**/*.json.
type Source struct {
	Path string
	Kind SourceKind
}

// DiscoverSources expands user-provided inputs into concrete scan targets.
// A directory named "mods" expands to every jar/zip inside it, sorted for
// deterministic scan order; any other directory is treated as a datapack
// root. Unsupported inputs are skipped.
func DiscoverSources(inputs []string) []Source {
	var sources []Source

	for _, p := range inputs {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}

		if !info.IsDir() {
			ext := strings.ToLower(filepath.Ext(p))
			if ext == ".jar" || ext == ".zip" {
				sources = append(sources, Source{Path: p, Kind: SourceJar})
			}
			continue
		}

		if strings.EqualFold(filepath.Base(p), "mods") {
			var archives []string
			entries, err := os.ReadDir(p)
			if err != nil {
				continue
			}
			for _, e := range entries {
				ext := strings.ToLower(filepath.Ext(e.Name()))
				if !e.IsDir() && (ext == ".jar" || ext == ".zip") {
					archives = append(archives, filepath.Join(p, e.Name()))
				}
			}
			sort.Strings(archives)
			for _, a := range archives {
				sources = append(sources, Source{Path: a, Kind: SourceJar})
			}
			continue
		}

		sources = append(sources, Source{Path: p, Kind: SourceDir})
	}

	return sources
}

// isRecipePath reports whether a path (inside a jar or relative to a
// datapack root) looks like a recipe JSON location:
// data/<namespace>/recipes/.../*.json
func isRecipePath(rel string) bool {
	rp := strings.ReplaceAll(rel, "\\", "/")
	if !strings.HasSuffix(rp, ".json") {
		return false
	}
	if !strings.Contains("/"+rp, "/data/") {
		return false
	}
	return strings.Contains(rp, "/recipes/")
}
