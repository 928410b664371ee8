package types

import "fmt"

// UnifyError is a rigid-type mismatch (spec.md §4.3): two concrete types
// that can never be made equal by substitution.
type UnifyError struct {
	Left, Right TypeNode
}

func (e *UnifyError) Error() string {
	return fmt.Sprintf("cannot unify %s with %s", e.Left, e.Right)
}

// OccursError is raised when a variable would have to contain itself.
type OccursError struct {
	Var  string
	Type TypeNode
}

func (e *OccursError) Error() string {
	return fmt.Sprintf("occurs check failed: %s occurs in %s", e.Var, e.Type)
}

// Unify attempts to unify t1 and t2 under the substitution sub already in
// effect, returning an updated substitution. Classical Robinson
// unification (spec.md §4.3 "Substitutions and unification"), generalized
// with componentwise unification of saturated associated-type
// applications sharing the same associated type. The occurs check is
// mandatory; any other unexpected shape mismatch is reported as
// *UnifyError rather than panicking, since callers collect-and-continue.
func Unify(t1, t2 TypeNode, sub Substitution) (Substitution, error) {
	t1 = t1.Substitute(sub)
	t2 = t2.Substitute(sub)

	if v1, ok := t1.(*Var); ok {
		return bindVar(v1, t2, sub)
	}
	if v2, ok := t2.(*Var); ok {
		return bindVar(v2, t1, sub)
	}

	switch n1 := t1.(type) {
	case *Con:
		n2, ok := t2.(*Con)
		if !ok || n1.Name != n2.Name {
			return nil, &UnifyError{t1, t2}
		}
		return sub, nil

	case *App:
		n2, ok := t2.(*App)
		if !ok {
			return nil, &UnifyError{t1, t2}
		}
		s1, err := Unify(n1.Func, n2.Func, sub)
		if err != nil {
			return nil, err
		}
		return Unify(n1.Arg, n2.Arg, s1)

	case *AssocTy:
		n2, ok := t2.(*AssocTy)
		if !ok || n1.Name != n2.Name || len(n1.Args) != len(n2.Args) {
			return nil, &UnifyError{t1, t2}
		}
		cur := sub
		for i := range n1.Args {
			var err error
			cur, err = Unify(n1.Args[i], n2.Args[i], cur)
			if err != nil {
				return nil, err
			}
		}
		return cur, nil
	}

	return nil, fmt.Errorf("types: unify: unhandled type shape %T", t1)
}

func bindVar(v *Var, t TypeNode, sub Substitution) (Substitution, error) {
	if other, ok := t.(*Var); ok && other.Name == v.Name {
		return sub, nil
	}
	if occurs(v.Name, t) {
		return nil, &OccursError{Var: v.Name, Type: t}
	}
	out := make(Substitution, len(sub)+1)
	for k, val := range sub {
		out[k] = val
	}
	out[v.Name] = t
	return out, nil
}

func occurs(name string, t TypeNode) bool {
	for _, fv := range t.FreeVars() {
		if fv == name {
			return true
		}
	}
	return false
}

// UnifyAll unifies corresponding pairs from two equal-length slices,
// threading the substitution through in order. Used for unifying argument
// lists (instance heads, App chains, AssocTy argument lists).
func UnifyAll(ts1, ts2 []TypeNode, sub Substitution) (Substitution, error) {
	if len(ts1) != len(ts2) {
		return nil, fmt.Errorf("types: arity mismatch: %d vs %d", len(ts1), len(ts2))
	}
	cur := sub
	for i := range ts1 {
		var err error
		cur, err = Unify(ts1[i], ts2[i], cur)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// Unifiable reports whether t1 and t2 can be unified without committing
// to the resulting substitution — used by overlap detection (spec.md
// §4.4) where only the yes/no answer matters.
func Unifiable(t1, t2 TypeNode) bool {
	_, err := Unify(t1, t2, Substitution{})
	return err == nil
}
