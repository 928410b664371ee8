package instantiate

import (
	"github.com/sunholo/corelang/internal/names"
	"github.com/sunholo/corelang/internal/typedast"
	"github.com/sunholo/corelang/internal/types"
)

// Symbol is one monomorphized specialization of a generic value (spec.md
// §3 "Global values and symbols"): a concrete type, the generic value it
// was specialized from, and (once instantiation completes) its fully
// ground typed body.
type Symbol struct {
	Name    names.FullName
	Generic names.FullName
	Type    types.TypeNode
	Expr    typedast.Expr
}

// InstantiatedName computes the deterministic name of the specialization
// of generic at ty (spec.md §3, §6 naming convention, §8 property 3):
// `generic ++ "#" ++ hex(md5(alias_normalized_type_string))`. Two calls
// with structurally equal (generic, ty) always produce the same name,
// which is what lets the worklist dedupe pending instantiations.
func InstantiatedName(generic names.FullName, ty types.TypeNode) names.FullName {
	return generic.WithLocal(generic.Local + "#" + types.EmbeddingHash(ty))
}
