// Package cache is the persistent, on-disk type-checking cache (spec.md
// §4.3 "Caching", §8 property 8): a checked symbol's typed body, keyed
// on its fully qualified name, its scheme's textual form, and a hash of
// the modules it depends on, so a later run can skip re-checking a
// symbol whose own source and dependencies haven't changed.
//
// Backed by modernc.org/sqlite, the pack's pure-Go (no cgo) sqlite
// driver, the same one declared in funvibe-funxy's go.mod; this repo's
// own usage is grounded on the teacher's schema package, which already
// reaches for encoding/json over hand-rolled serialization for every
// on-disk/wire representation it owns.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// CacheKey identifies one cached, checked symbol body.
type CacheKey struct {
	FullName   string
	SchemeText string
	DepHash    string
}

// digest collapses the key to the fixed-width string stored as the
// table's primary key, rather than relying on sqlite to compare three
// separate TEXT columns on every lookup.
func (k CacheKey) digest() string {
	h := sha256.New()
	h.Write([]byte(k.FullName))
	h.Write([]byte{0})
	h.Write([]byte(k.SchemeText))
	h.Write([]byte{0})
	h.Write([]byte(k.DepHash))
	return hex.EncodeToString(h.Sum(nil))
}
