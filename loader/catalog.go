package loader

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/panyam/socdiag/viz"
)

// BuiltinPrefix marks paths served from the embedded catalog.
const BuiltinPrefix = "builtin:"

//go:embed catalog
var catalogFiles embed.FS

// CatalogFS exposes the embedded diagram documents.
func CatalogFS() *EmbedFS {
	return NewEmbedFS(catalogFiles, "catalog")
}

// BuiltinPaths lists the built-in documents as loadable paths.
func BuiltinPaths() ([]string, error) {
	files, err := CatalogFS().ListFiles(".")
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	var out []string
	for _, f := range files {
		if strings.HasSuffix(f, ".yaml") {
			out = append(out, BuiltinPrefix+f)
		}
	}
	return out, nil
}

// Builtins loads every built-in figure, ordered by set and then by name.
func Builtins() ([]*viz.Figure, error) {
	paths, err := BuiltinPaths()
	if err != nil {
		return nil, err
	}
	res, err := NewDefaultLoader().LoadFiles(paths...)
	if err != nil {
		return nil, err
	}
	SortBySet(res.Figures)
	return res.Figures, nil
}

// BuiltinSource returns the YAML text of the built-in document defining name.
func BuiltinSource(name string) ([]byte, error) {
	paths, err := BuiltinPaths()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		rel := strings.TrimPrefix(p, BuiltinPrefix)
		if strings.TrimSuffix(path.Base(rel), ".yaml") == name {
			return CatalogFS().ReadFile(rel)
		}
	}
	return nil, fmt.Errorf("no built-in diagram named %q", name)
}

// SortBySet orders figures by set name, keeping file order within a set.
func SortBySet(figs []*viz.Figure) {
	sort.SliceStable(figs, func(i, j int) bool { return figs[i].Set < figs[j].Set })
}

// Sets returns the distinct set names in figure order.
func Sets(figs []*viz.Figure) []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range figs {
		if !seen[f.Set] {
			seen[f.Set] = true
			out = append(out, f.Set)
		}
	}
	return out
}

// Select narrows figs to a set ("" or "all" keeps every set) and then to
// the named figures, in the order they were named.
func Select(figs []*viz.Figure, names []string, set string) ([]*viz.Figure, error) {
	pool := figs
	if set != "" && set != "all" {
		pool = nil
		for _, f := range figs {
			if f.Set == set {
				pool = append(pool, f)
			}
		}
		if len(pool) == 0 {
			return nil, fmt.Errorf("unknown set %q (have %s)", set, strings.Join(Sets(figs), ", "))
		}
	}
	if len(names) == 0 {
		return pool, nil
	}
	out := make([]*viz.Figure, 0, len(names))
	for _, n := range names {
		var found *viz.Figure
		for _, f := range pool {
			if f.Name == n || f.Output == n {
				found = f
				break
			}
		}
		if found == nil {
			return nil, fmt.Errorf("unknown diagram %q", n)
		}
		out = append(out, found)
	}
	return out, nil
}

// Glob expands doublestar patterns ("docs/**/*.yaml"). Plain paths pass
// through untouched; a pattern matching nothing is an error.
func Glob(patterns ...string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, pat := range patterns {
		if !strings.ContainsAny(pat, "*?[{") {
			add(pat)
			continue
		}
		matches, err := doublestar.FilepathGlob(pat)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pat, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pat)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}
