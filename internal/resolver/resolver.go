package resolver

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/names"
)

// Resolver runs spec.md §4.1's four-step resolution procedure over a
// Universe, memoizing the candidate set per (module, kinds, short name)
// behind a double-checked-locking cache — the same shape as the
// teacher's internal/link/resolver.go mutex-guarded memoization, applied
// here to resolution candidates instead of evaluated module exports.
type Resolver struct {
	universe *Universe

	mu   sync.RWMutex
	memo map[cacheKey][]Entry
}

type cacheKey struct {
	module string
	kinds  KindSet
	short  string
}

// New constructs a Resolver over the given universe.
func New(universe *Universe) *Resolver {
	return &Resolver{universe: universe, memo: map[cacheKey][]Entry{}}
}

// Resolve implements spec.md §4.1 steps 1-4 for short name `s`, module
// `m` (via its import tree), accepting any kind in `kinds`.
func (r *Resolver) Resolve(short string, kinds KindSet, tree *ImportTree, site ast.Span) (names.FullName, error) {
	candidates := r.candidateSet(short, kinds, tree)

	switch len(candidates) {
	case 0:
		return names.FullName{}, diag.Wrap(diag.New(diag.RES001, "resolve",
			fmt.Sprintf("unknown name %q (expected kind %s)", short, kinds), site))
	case 1:
		return candidates[0].Name, nil
	default:
		return names.FullName{}, diag.Wrap(ambiguousReport(short, candidates, site))
	}
}

// candidateSet collects, memoizes, and returns every universe entry
// visible from tree whose kind intersects kinds and whose name has short
// as a suffix (spec.md §4.1 step 1).
func (r *Resolver) candidateSet(short string, kinds KindSet, tree *ImportTree) []Entry {
	key := cacheKey{module: tree.Module, kinds: kinds, short: short}

	r.mu.RLock()
	if cached, ok := r.memo[key]; ok {
		r.mu.RUnlock()
		return cached
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.memo[key]; ok {
		return cached
	}

	shortName := parseShort(short)
	var out []Entry
	for _, e := range r.universe.candidates(shortName.Local) {
		if e.Kind&kinds == 0 {
			continue
		}
		if !shortName.IsSuffixOf(e.Name) {
			continue
		}
		if !tree.Visible(e) {
			continue
		}
		out = append(out, e)
	}
	r.memo[key] = out
	return out
}

// parseShort splits a (possibly partially qualified) surface name like
// "list::map" or "map" into a FullName candidate suitable for
// names.FullName.IsSuffixOf, mirroring how a user writes a more specific
// form of a short name to disambiguate it (spec.md §4.1's "suggests the
// absolute form").
func parseShort(short string) names.FullName {
	parts := strings.Split(short, "::")
	local := parts[len(parts)-1]
	ns := parts[:len(parts)-1]
	return names.New(ns, local)
}

// InvalidateModule drops every cached candidate set computed for m, used
// when m's declarations or imports change (e.g. incremental re-checking).
func (r *Resolver) InvalidateModule(m string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.memo {
		if k.module == m {
			delete(r.memo, k)
		}
	}
}

func ambiguousReport(short string, candidates []Entry, site ast.Span) *diag.Report {
	candidateNames := make([]string, len(candidates))
	for i, c := range candidates {
		candidateNames[i] = c.Name.String()
	}
	sort.Strings(candidateNames)

	msg := fmt.Sprintf("%q is ambiguous: could be %v", short, candidateNames)
	rep := diag.New(diag.RES002, "resolve", msg, site)

	for i := 0; i < len(candidates); i++ {
		for j := 0; j < len(candidates); j++ {
			if i == j {
				continue
			}
			a, b := candidates[i].Name, candidates[j].Name
			if a.IsSuffixOf(b) && !a.Equals(b) {
				rep = rep.WithData(map[string]any{
					"suggestion": fmt.Sprintf("use the absolute form %s", b.Absolute()),
				})
			}
		}
	}
	return rep
}
