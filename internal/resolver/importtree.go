package resolver

import "github.com/sunholo/corelang/internal/ast"

// ImportTree mirrors the teacher's nested import-filter tree
// (internal/module's import item trees): a flattened view of which
// source modules are visible from one module, and, for each, the filter
// restricting which of its names are re-exported. A nil filter means
// "everything from this source is visible" (spec.md §4.1's implicit
// self-import case, and any unfiltered `import` statement).
type ImportTree struct {
	Module  string
	sources map[string]*ast.ImportFilter
}

// BuildImportTree flattens mod's import statements plus the implicit
// self-import and the implicit prelude import (suppressed when mod
// already imports the prelude explicitly) into one ImportTree.
func BuildImportTree(mod *ast.Module, preludeModule string) *ImportTree {
	t := &ImportTree{Module: mod.Path, sources: map[string]*ast.ImportFilter{}}
	t.sources[mod.Path] = nil // implicit self-import: everything declared here is visible

	importsPrelude := false
	for _, imp := range mod.Imports {
		t.sources[imp.Source] = imp.Filter
		if imp.Source == preludeModule {
			importsPrelude = true
		}
	}
	if !importsPrelude && preludeModule != mod.Path {
		t.sources[preludeModule] = nil
	}
	return t
}

// SelfImported reports whether mod names itself in an explicit import
// statement (RES004 — a module already sees its own declarations via the
// implicit self-import and must not re-import them).
func SelfImported(mod *ast.Module) bool {
	for _, imp := range mod.Imports {
		if imp.Source == mod.Path {
			return true
		}
	}
	return false
}

// Sources returns every source module this tree draws names from.
func (t *ImportTree) Sources() []string {
	out := make([]string, 0, len(t.sources))
	for src := range t.sources {
		out = append(out, src)
	}
	return out
}

// Visible reports whether e, declared in module e.Module, is visible
// through this import tree: its module must be a known source, and (if
// that source's import is filtered) its local name must appear in the
// filter.
func (t *ImportTree) Visible(e Entry) bool {
	filter, ok := t.sources[e.Module]
	if !ok {
		return false
	}
	if filter == nil {
		return true
	}
	_, allowed := filter.Children[e.Name.Local]
	return allowed
}
