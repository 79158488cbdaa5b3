package memloc

import (
	"fmt"
	"hash/fnv"

	"github.com/sirkon/memloc/ir"
	"github.com/sirkon/memloc/projpath"
)

// KeyKind discriminates normal entities from the Empty/Tombstone sentinels
// exposed for hash-container use.
type KeyKind uint8

const (
	// Normal is a regular, possibly initialized entity.
	Normal KeyKind = iota
	// EmptyKey is the empty-slot sentinel.
	EmptyKey
	// TombstoneKey is the deleted-slot sentinel.
	TombstoneKey
)

func (k KeyKind) String() string {
	switch k {
	case Normal:
		return "normal"
	case EmptyKey:
		return "empty"
	case TombstoneKey:
		return "tombstone"
	default:
		return fmt.Sprintf("key-kind-invalid(%d)", uint8(k))
	}
}

// Base pairs an IR value with an optional projection path. It is the common
// core of Location and Value. Sentinel-kinded bases carry no payload.
//
// Base is a comparable value type: it can key maps directly. Note that map
// key equality (==) and the Equal contract below are not the same relation:
// Equal of two uninitialized normal bases is false.
type Base struct {
	base ir.Value
	path projpath.Path
	kind KeyKind
}

// NewBase builds a normal entity.
func NewBase(base ir.Value, path projpath.Path) Base {
	return Base{base: base, path: path}
}

// SentinelBase builds an Empty or Tombstone sentinel.
func SentinelBase(k KeyKind) Base {
	if k == Normal {
		panic("memloc: SentinelBase with the Normal kind")
	}
	return Base{kind: k}
}

// Kind returns the sentinel discriminator.
func (b Base) Kind() KeyKind { return b.kind }

// BaseValue returns the underlying IR value.
func (b Base) BaseValue() ir.Value { return b.base }

// Path returns the projection path; the zero Path when absent.
func (b Base) Path() projpath.Path { return b.path }

// Reset clears base and path and restores the Normal kind.
func (b *Base) Reset() {
	*b = Base{}
}

// IsValid reports whether the entity has been initialized: Normal kind,
// base set, path present.
func (b Base) IsValid() bool {
	return b.kind == Normal && b.base != nil && b.path.IsSet()
}

// HasEmptyProjectionPath reports whether the present path has no steps.
// Calling it on a pathless entity is a caller defect.
func (b Base) HasEmptyProjectionPath() bool {
	if !b.path.IsSet() {
		panic("memloc: HasEmptyProjectionPath on a pathless entity")
	}
	return b.path.Len() == 0
}

// HasIdenticalProjectionPath reports whether the two entities carry
// structurally identical paths.
//
// Two pathless entities are NOT identical: callers rely on uninitialized
// entities never matching each other.
func (b Base) HasIdenticalProjectionPath(o Base) bool {
	if !b.path.IsSet() && !o.path.IsSet() {
		return false
	}
	if b.path.IsSet() != o.path.IsSet() {
		return false
	}
	if b.path.Len() == 0 && o.path.Len() == 0 {
		return true
	}
	return b.path.Equal(o.path)
}

// HasNonEmptySymmetricPathDifference reports whether the two entities name
// disjoint fields of a shared base.
func (b Base) HasNonEmptySymmetricPathDifference(o Base) bool {
	return b.path.HasNonEmptySymmetricDifference(o.path)
}

// RemovePathPrefix rewrites the path to its suffix after prefix. An absent
// prefix is a no-op. prefix must actually be a prefix of the current path.
func (b *Base) RemovePathPrefix(prefix projpath.Path) {
	if !prefix.IsSet() {
		return
	}
	b.path = b.path.RemovePrefix(prefix)
}

// Equal is the entity equality contract: sentinels are equal within their
// kind, normal entities are equal iff they share base identity and carry
// identical paths.
func (b Base) Equal(o Base) bool {
	if b.kind != o.kind {
		return false
	}
	if b.kind == EmptyKey || b.kind == TombstoneKey {
		return true
	}
	if b.base != o.base {
		return false
	}
	return b.HasIdenticalProjectionPath(o)
}

// Hash is consistent with Equal: a pure function of base identity and, if
// present, path structure.
func (b Base) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte{byte(b.kind)})
	if b.base != nil {
		var buf [8]byte
		id := uint64(b.base.ID())
		for i := range buf {
			buf[i] = byte(id >> (8 * i))
		}
		h.Write(buf[:])
	}
	if !b.path.IsSet() {
		return h.Sum64()
	}
	return h.Sum64() ^ b.path.Hash()
}

func (b Base) String() string {
	switch b.kind {
	case EmptyKey:
		return "<empty>"
	case TombstoneKey:
		return "<tombstone>"
	}
	if b.base == nil {
		return "<uninit>"
	}
	if !b.path.IsSet() || b.path.Len() == 0 {
		return b.base.String()
	}
	return b.base.String() + "." + b.path.String()
}
