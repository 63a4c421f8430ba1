// Package lintrans implements the matrix-expression language at the heart
// of a 2D linear transformation visualizer: a small notation for naming,
// composing, and evaluating 2x2 matrices, and the 26-slot named-matrix
// store that resolves identifiers to values, including matrices defined
// recursively in terms of other named matrices.
//
// The package splits into two layers, evaluated bottom-up. The grammar
// layer (Validate, ValidateLive, FindSubExpressions, Parse,
// MatrixIdentifiers) is purely syntactic: it never touches a store. The
// Store layer resolves names, enforces the no-self-reference invariant at
// assignment time, and evaluates expressions lazily on every read.
//
// Everything is single-threaded and synchronous; see Store.Copy for the
// working-copy pattern callers use instead of locking.
package lintrans
