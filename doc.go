// Package memloc is a field-sensitive abstract model of memory locations
// and values for load/store optimization passes (redundant-load and
// dead-store elimination) over an SSA-style IR.
//
// A Location names storage: an IR base value plus a projection path to the
// accessed sub-object. A Value names the corresponding part of a produced
// value, including the lazily-resolved covering variant introduced at
// control-flow merges. On top of the two the package provides alias queries
// between locations, expand/reduce between whole-object and per-field
// views, and per-function location enumeration into a dense-indexed vault
// suitable as a bit-vector axis.
//
// The model itself never decides what to forward or eliminate, performs no
// dataflow fixpoints, and implements no general alias analysis: base-level
// aliasing is delegated to an AliasAnalysis oracle, and decomposition
// policy to a TypeExpansion service. Whenever information is insufficient
// the answers degrade conservatively (may-alias, or "no value" from
// reduce); precondition breaches, by contrast, are defects of the calling
// pass and panic.
//
// Everything here is single-threaded: a pass owns the vault and maps for
// one function invocation, populates them in one deterministic sweep, and
// reads them until the next function.
package memloc
