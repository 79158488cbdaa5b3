// Package projpath implements projection paths: ordered sequences of
// field/element/deref selectors identifying a sub-object of an aggregate
// type.
//
// A Path is an immutable value. Every operation that would change a path
// (Append, PopLast, RemovePrefix, Concat) returns a new Path and leaves the
// receiver untouched, so a path held by several containers can never be
// mutated behind their backs. Internally the steps are encoded into a
// compact spine string, which also makes Path comparable and directly
// usable as a map key.
//
// A path is rooted at a go/types type. The zero Path is "absent": it is
// distinct from a present path of length zero (rooted, no steps), and the
// two are never equal.
package projpath
