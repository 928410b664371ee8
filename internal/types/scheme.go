package types

// Pred is a class predicate `(trait, type)` — spec.md §3 Schemes and
// Qualified Types.
type Pred struct {
	Trait string
	Type  TypeNode
}

// Eq is a type equality `AssocTy args = value`.
type Eq struct {
	Assoc string
	Args  []TypeNode
	Value TypeNode
}

// Scheme is `forall vars. Preds and Eqs => body` — the universal
// container for every globally named value, trait method signature, and
// instance (spec.md §3). Invariant: Vars is a superset of the free
// variables of Preds, Eqs, and Body; this is checked by NewScheme and
// assumed true thereafter.
type Scheme struct {
	Vars  []string
	Preds []Pred
	Eqs   []Eq
	Body  TypeNode
}

// NewScheme closes a body type and its qualifiers over the given
// variables, panicking if the invariant (Vars ⊇ FV(Preds, Eqs, Body))
// does not hold — a caller-side bug, not a user-facing error.
func NewScheme(vars []string, preds []Pred, eqs []Eq, body TypeNode) Scheme {
	s := Scheme{Vars: vars, Preds: preds, Eqs: eqs, Body: body}
	free := s.freeVars()
	bound := make(map[string]struct{}, len(vars))
	for _, v := range vars {
		bound[v] = struct{}{}
	}
	for _, v := range free {
		if _, ok := bound[v]; !ok {
			panic("types: scheme quantifier list missing free variable " + v)
		}
	}
	return s
}

func (s Scheme) freeVars() []string {
	vars := s.Body.FreeVars()
	for _, p := range s.Preds {
		vars = mergeVars(vars, p.Type.FreeVars())
	}
	for _, eq := range s.Eqs {
		for _, a := range eq.Args {
			vars = mergeVars(vars, a.FreeVars())
		}
		vars = mergeVars(vars, eq.Value.FreeVars())
	}
	return vars
}

// Monomorphic wraps a body type with no quantifiers and no qualifiers —
// convenient for built-in and compiler-synthesized values.
func Monomorphic(body TypeNode) Scheme {
	return Scheme{Body: body}
}

// Instantiate replaces every quantified variable with a fresh one drawn
// from fresh, returning the instantiated body, predicates, and equalities.
// fresh is called once per variable in Vars, in order.
func (s Scheme) Instantiate(fresh func(kind Kind) *Var) (TypeNode, []Pred, []Eq) {
	sub := make(Substitution, len(s.Vars))
	// Vars carry no explicit kind in the scheme itself (it is recovered
	// from the body/qualifiers' own Var nodes); look up the first
	// occurrence to preserve it, defaulting to Star.
	kindOf := func(name string) Kind {
		if k, ok := findVarKind(s.Body, name); ok {
			return k
		}
		for _, p := range s.Preds {
			if k, ok := findVarKind(p.Type, name); ok {
				return k
			}
		}
		return Star{}
	}
	for _, v := range s.Vars {
		sub[v] = fresh(kindOf(v))
	}
	body := s.Body.Substitute(sub)
	preds := make([]Pred, len(s.Preds))
	for i, p := range s.Preds {
		preds[i] = Pred{Trait: p.Trait, Type: p.Type.Substitute(sub)}
	}
	eqs := make([]Eq, len(s.Eqs))
	for i, eq := range s.Eqs {
		args := make([]TypeNode, len(eq.Args))
		for j, a := range eq.Args {
			args[j] = a.Substitute(sub)
		}
		eqs[i] = Eq{Assoc: eq.Assoc, Args: args, Value: eq.Value.Substitute(sub)}
	}
	return body, preds, eqs
}

func findVarKind(t TypeNode, name string) (Kind, bool) {
	switch n := t.(type) {
	case *Var:
		if n.Name == name {
			return n.K, true
		}
	case *App:
		if k, ok := findVarKind(n.Func, name); ok {
			return k, true
		}
		return findVarKind(n.Arg, name)
	case *AssocTy:
		for _, a := range n.Args {
			if k, ok := findVarKind(a, name); ok {
				return k, true
			}
		}
	}
	return nil, false
}
