// Package ir defines the SSA-style intermediate representation the memory
// location model operates on: identity-comparable values, explicit load and
// store instructions, structural address projections, and the small set of
// value-synthesis instructions (extract, aggregate, borrow, copy, destroy)
// the model emits when it materializes values.
//
// Types are go/types types. Addresses are pointer-typed values; the pointee
// is the object layout the projection paths navigate.
//
// Core components:
//
//   - Value
//     Identity-comparable handle with a dense per-function ID. IDs are
//     assigned in creation order, so repeated runs over the same input
//     produce the same numbering.
//
//   - Instruction
//     A node in a block's ordered instruction list. Instructions that
//     produce a result implement Value as well.
//
//   - Builder
//     Inserts instructions at a fixed program point. Insertion only ever
//     appends at that point and never invalidates existing values.
package ir
