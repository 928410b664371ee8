package types

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
)

// NormalizedString renders t using a printer that stabilizes type
// variable names (alpha-renames them to v0, v1, ... in order of first
// occurrence) so that two alpha-equivalent types produce identical text.
// This is the "normalized printer" spec.md §6 requires the instantiation
// naming scheme to use; alias expansion must already have run (see
// internal/tyenv.ResolveAliases) before calling this.
func NormalizedString(t TypeNode) string {
	names := map[string]string{}
	var next int
	var rename func(TypeNode) TypeNode
	rename = func(n TypeNode) TypeNode {
		switch v := n.(type) {
		case *Var:
			nn, ok := names[v.Name]
			if !ok {
				nn = fmt.Sprintf("v%d", next)
				next++
				names[v.Name] = nn
			}
			return &Var{Name: nn, K: v.K}
		case *App:
			return &App{Func: rename(v.Func), Arg: rename(v.Arg)}
		case *AssocTy:
			args := make([]TypeNode, len(v.Args))
			for i, a := range v.Args {
				args[i] = rename(a)
			}
			return &AssocTy{Trait: v.Trait, Name: v.Name, Args: args, K: v.K}
		default:
			return n
		}
	}
	return rename(t).String()
}

// EmbeddingHash is the content hash used as the key of instantiated
// symbols (spec.md §3 "Derived operations", §6 naming convention): the
// hex MD5 of the alias-normalized, variable-stabilized printed form of t.
func EmbeddingHash(t TypeNode) string {
	sum := md5.Sum([]byte(NormalizedString(t)))
	return hex.EncodeToString(sum[:])
}

// SchemeString renders a scheme deterministically, sorting predicates and
// equalities for display stability (error messages, caching keys).
func SchemeString(s Scheme) string {
	vars := append([]string(nil), s.Vars...)
	sort.Strings(vars)
	out := ""
	if len(vars) > 0 {
		out += "forall"
		for _, v := range vars {
			out += " " + v
		}
		out += ". "
	}
	quals := make([]string, 0, len(s.Preds))
	for _, p := range s.Preds {
		quals = append(quals, p.Trait+" "+p.Type.String()+" => ")
	}
	sort.Strings(quals)
	eqs := make([]string, 0, len(s.Eqs))
	for _, eq := range s.Eqs {
		eqs = append(eqs, eq.Assoc+"(...) = "+eq.Value.String()+" => ")
	}
	sort.Strings(eqs)
	for _, q := range append(quals, eqs...) {
		out += q
	}
	if s.Body != nil {
		out += s.Body.String()
	}
	return out
}
