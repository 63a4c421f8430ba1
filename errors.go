// errors.go: the package-level error taxonomy.
//
// What this file does
// -------------------
// Every failure the core can produce is one of the sentinel errors below,
// matched by callers with errors.Is. Call sites that have useful context
// (the offending expression, the slot name) wrap the sentinel with
// fmt.Errorf("...: %w", Err...) so the kind stays matchable while the
// message stays readable.
//
// The kinds mirror the contract of the store and parser:
//
//   - ErrSyntax   — text does not match the expression grammar. Raised by
//     Parse and MatrixIdentifiers; Validate reports the same condition by
//     returning false instead, so interactive callers can poll cheaply.
//   - ErrName     — a slot name is not a single uppercase letter, or an
//     attempt was made to reassign or clear the reserved identity slot.
//   - ErrType     — a value handed to Store.Set is neither nil, a Matrix,
//     nor an expression string.
//   - ErrValue    — a definitional or evaluation failure: an expression
//     that is not store-valid (undefined reference, bad syntax) or one
//     that would make a slot reference itself, directly or transitively.
//   - ErrSingular — numeric inversion was requested on a matrix with zero
//     determinant. Deliberately distinct from ErrValue: the evaluation
//     path must never fold it into a generic validity failure.
//
// None of these are retried or recovered inside the package.
package lintrans

import "errors"

var (
	// ErrSyntax reports text that does not match the expression grammar.
	ErrSyntax = errors.New("lintrans: invalid expression syntax")

	// ErrName reports an illegal slot name or an attempt to touch the
	// reserved identity slot.
	ErrName = errors.New("lintrans: invalid matrix name")

	// ErrType reports a Store.Set value of an unsupported shape.
	ErrType = errors.New("lintrans: value is not a matrix, expression, or nil")

	// ErrValue reports an expression that is not valid against the current
	// store contents, including self-referential definitions.
	ErrValue = errors.New("lintrans: invalid expression for this store")

	// ErrSingular reports an inversion of a matrix with zero determinant.
	ErrSingular = errors.New("lintrans: matrix is singular")
)
