// Package typeexp answers "what are the immediate fields of this aggregate"
// for the memory location model, under a configurable expansion policy.
//
// Decomposing every aggregate all the way down is not always affordable:
// oversized structs blow up the location universe, recursive layouts never
// terminate, and descending through references trades precision for
// soundness risks the caller may not want. The policy caps all three; a
// capped type is simply treated as a single leaf, which is a precision
// loss, never an error.
//
// Expansion results are cached per type in a typeutil.Map.
package typeexp
