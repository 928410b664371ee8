// Package names implements hierarchical, fully qualified names.
//
// A FullName is a pair (namespace, local) where namespace is an ordered
// sequence of path segments (e.g. ["std", "list"]) and local is the bare
// identifier within that namespace. Local names (no namespace yet) are
// what a parsed module AST contains before internal/resolver runs; after
// resolution, every non-local reference carries a complete namespace.
package names

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FullName is a namespace-qualified name.
type FullName struct {
	Namespace []string
	Local     string
}

// normalize applies Unicode NFC normalization to an identifier string, so
// that two lexically equivalent spellings of an identifier (NFC vs NFD) always
// compare and hash equal once they reach a FullName.
func normalize(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// Local constructs an unqualified (as-yet-unresolved) name.
func Local(local string) FullName {
	return FullName{Local: normalize(local)}
}

// New constructs a fully qualified name from a namespace and local part.
func New(namespace []string, local string) FullName {
	ns := make([]string, len(namespace))
	for i, seg := range namespace {
		ns[i] = normalize(seg)
	}
	return FullName{Namespace: ns, Local: normalize(local)}
}

// IsLocal reports whether n has no namespace yet.
func (n FullName) IsLocal() bool {
	return len(n.Namespace) == 0
}

// Module returns the namespace joined with "::", the name of the module
// that defines n. Empty for a local name.
func (n FullName) Module() string {
	return strings.Join(n.Namespace, "::")
}

// String renders the absolute form `ns1::ns2::local`, or just `local` if
// n is local.
func (n FullName) String() string {
	if n.IsLocal() {
		return n.Local
	}
	return n.Module() + "::" + n.Local
}

// Equals reports structural equality.
func (n FullName) Equals(o FullName) bool {
	if n.Local != o.Local || len(n.Namespace) != len(o.Namespace) {
		return false
	}
	for i := range n.Namespace {
		if n.Namespace[i] != o.Namespace[i] {
			return false
		}
	}
	return true
}

// IsSuffixOf reports whether n, read as a short name, could refer to full
// under suffix matching: n's local part matches full's local part, and
// n's namespace (if any) is a trailing subsequence of full's namespace.
//
// An empty n.Namespace always matches (n is a bare short name candidate
// for any full name sharing its local part).
func (n FullName) IsSuffixOf(full FullName) bool {
	if n.Local != full.Local {
		return false
	}
	if len(n.Namespace) > len(full.Namespace) {
		return false
	}
	offset := len(full.Namespace) - len(n.Namespace)
	for i, seg := range n.Namespace {
		if full.Namespace[offset+i] != seg {
			return false
		}
	}
	return true
}

// Absolute renders the canonical absolute path form, identical to
// String(); provided separately because callers reasoning about
// canonicalization (e.g. diagnostics suggesting "use the absolute form")
// want a name distinct from the generic Stringer contract.
func (n FullName) Absolute() string {
	return n.String()
}

// WithLocal returns a copy of n with a different local part, keeping the
// namespace. Used when synthesizing compiler-defined method names
// (getters, setters, ...) that live in the same namespace as their owning
// type constructor.
func (n FullName) WithLocal(local string) FullName {
	return New(n.Namespace, local)
}
