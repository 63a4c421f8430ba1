// store.go: the named-matrix store.
//
// What this file does
// -------------------
// A Store owns the 26 single-letter matrix slots. Each slot is a tagged
// three-way variant: undefined, a concrete Matrix, or an expression
// binding (a string in the grammar of grammar.go referencing other slots).
// "I" is reserved: it always holds the identity matrix and can never be
// reassigned or cleared.
//
// Expression bindings are evaluated lazily on every read, never cached, so
// redefining A immediately changes everything bound in terms of A. The
// price of that laziness is paid at assignment time instead: Set rejects
// any binding that would reference its own slot, directly or through any
// chain of other bindings, so a store with a dependency cycle can never be
// constructed and recursive evaluation is guaranteed to terminate.
//
// A Store is a plain mutable value with no locking; all operations run to
// completion on the calling goroutine. A caller that wants to mutate
// speculatively (a dialog editing a working copy) should Copy the store
// and commit or discard the copy.
package lintrans

import (
	"fmt"
	"strconv"
	"strings"
)

// IdentityName is the reserved slot permanently bound to the identity.
const IdentityName = 'I'

type slotKind int

const (
	slotUndefined slotKind = iota
	slotMatrix
	slotExpression
)

// slot is the tagged variant held by each of the 26 names.
type slot struct {
	kind   slotKind
	matrix Matrix
	expr   string
}

// Store holds the 26 named matrix slots. The zero value is not usable;
// call NewStore.
type Store struct {
	slots [26]slot
}

// NewStore returns a store with every slot undefined except "I", which is
// bound to the identity matrix.
func NewStore() *Store {
	s := &Store{}
	s.slots[IdentityName-'A'] = slot{kind: slotMatrix, matrix: Identity()}
	return s
}

// Copy returns a deep, independent copy of the store.
func (s *Store) Copy() *Store {
	c := *s
	return &c
}

// slotIndex maps a legal slot name to its index, or fails with ErrName.
func slotIndex(name string) (int, error) {
	if len(name) != 1 || name[0] < 'A' || name[0] > 'Z' {
		return 0, fmt.Errorf("%w: %q is not a single capital letter", ErrName, name)
	}
	return int(name[0] - 'A'), nil
}

// Get returns the matrix bound to name. A rotation identifier like
// "rot(45)" evaluates to a fresh rotation matrix regardless of store
// state. For slot names, an expression binding is evaluated on the spot
// and a concrete matrix is returned as an independent copy; an undefined
// slot yields (nil, nil). Illegal names fail with ErrName.
func (s *Store) Get(name string) (*Matrix, error) {
	if isRotationIdentifier(name) {
		m, err := rotationFromIdentifier(name)
		if err != nil {
			return nil, err
		}
		return &m, nil
	}

	idx, err := slotIndex(name)
	if err != nil {
		return nil, err
	}

	switch sl := s.slots[idx]; sl.kind {
	case slotUndefined:
		return nil, nil
	case slotExpression:
		m, err := s.Evaluate(sl.expr)
		if err != nil {
			return nil, err
		}
		return &m, nil
	default:
		m := sl.matrix
		return &m, nil
	}
}

// Set assigns a value to a slot. The value's shape selects the behavior:
//
//   - nil clears the slot to undefined;
//   - a Matrix (or *Matrix) is stored as a concrete matrix;
//   - a string is stored as an expression binding, provided it is valid
//     against the current store contents and does not reference the slot
//     being assigned, directly or transitively (ErrValue otherwise);
//   - anything else fails with ErrType.
//
// Assigning to "I" or to an illegal name fails with ErrName.
func (s *Store) Set(name string, value any) error {
	idx, err := slotIndex(name)
	if err != nil {
		return err
	}
	if name[0] == IdentityName {
		return fmt.Errorf("%w: %q is reserved for the identity matrix", ErrName, name)
	}

	switch v := value.(type) {
	case nil:
		s.slots[idx] = slot{}
	case Matrix:
		s.slots[idx] = slot{kind: slotMatrix, matrix: v}
	case *Matrix:
		if v == nil {
			s.slots[idx] = slot{}
		} else {
			s.slots[idx] = slot{kind: slotMatrix, matrix: *v}
		}
	case string:
		return s.setExpression(idx, name, v)
	default:
		return fmt.Errorf("%w: cannot assign %T to %q", ErrType, value, name)
	}
	return nil
}

func (s *Store) setExpression(idx int, name, expression string) error {
	expr := stripWhitespace(expression)
	if !s.IsValidExpression(expr) {
		return fmt.Errorf("%w: %q", ErrValue, expression)
	}

	// Direct self-reference is textual: the slot's own letter must not
	// appear in the expression. Transpose markers are stripped first so
	// an honest "^T" doesn't read as a reference to slot T.
	if strings.ContainsRune(stripTransposeMarkers(expr), rune(name[0])) {
		return fmt.Errorf("%w: %q references %s, the matrix being defined", ErrValue, expression, name)
	}

	deps, err := s.GetExpressionDependencies(expr)
	if err != nil {
		return err
	}
	if deps.Has(rune(name[0])) {
		return fmt.Errorf("%w: %q depends on %s, the matrix being defined", ErrValue, expression, name)
	}

	s.slots[idx] = slot{kind: slotExpression, expr: expr}
	return nil
}

// GetExpression returns the raw expression a slot is bound to, or "" if
// the slot holds a concrete matrix or nothing. Illegal names fail with
// ErrName.
func (s *Store) GetExpression(name string) (string, error) {
	idx, err := slotIndex(name)
	if err != nil {
		return "", err
	}
	return s.slots[idx].expr, nil
}

// stripTransposeMarkers removes "^{T}" and "^T" so the remaining capital
// letters are exactly the slot references.
func stripTransposeMarkers(expr string) string {
	expr = strings.ReplaceAll(expr, "^{T}", "")
	return strings.ReplaceAll(expr, "^T", "")
}

// IsValidExpression reports whether the expression is valid against the
// current store contents: syntactically valid, with every referenced slot
// defined (recursively through expression bindings). This is stricter
// than Validate, which only checks the grammar.
func (s *Store) IsValidExpression(expression string) bool {
	expr := stripWhitespace(expression)

	for _, r := range stripTransposeMarkers(expr) {
		if r < 'A' || r > 'Z' {
			continue
		}
		switch sl := s.slots[r-'A']; sl.kind {
		case slotUndefined:
			return false
		case slotExpression:
			if !s.IsValidExpression(sl.expr) {
				return false
			}
		}
	}
	return Validate(expr)
}

/* ===========================
   Dependency queries
   =========================== */

// GetMatrixDependencies returns every slot the named slot depends on: the
// identifiers of its expression binding plus, recursively, each of their
// own dependencies. A slot that is undefined or holds a concrete matrix
// has no dependencies. The result never contains the slot itself as long
// as the store's no-cycle invariant holds.
func (s *Store) GetMatrixDependencies(name string) (NameSet, error) {
	if _, err := slotIndex(name); err != nil {
		return nil, err
	}
	deps := NameSet{}
	if err := s.collectDependencies(rune(name[0]), deps, NameSet{}); err != nil {
		return nil, err
	}
	return deps, nil
}

// GetExpressionDependencies is the same walk seeded from an arbitrary
// expression: the union of the dependencies of every slot the expression
// references. The referenced slots themselves are not included.
func (s *Store) GetExpressionDependencies(expression string) (NameSet, error) {
	ids, err := MatrixIdentifiers(expression)
	if err != nil {
		return nil, err
	}

	deps := NameSet{}
	visited := NameSet{}
	for id := range ids {
		if err := s.collectDependencies(id, deps, visited); err != nil {
			return nil, err
		}
	}
	return deps, nil
}

// collectDependencies accumulates the transitive dependencies of slot r
// into deps. The visited set guarantees termination even on a store whose
// no-cycle invariant has somehow been broken.
func (s *Store) collectDependencies(r rune, deps, visited NameSet) error {
	if visited.Has(r) {
		return nil
	}
	visited.add(r)

	sl := s.slots[r-'A']
	if sl.kind != slotExpression {
		return nil
	}
	ids, err := MatrixIdentifiers(sl.expr)
	if err != nil {
		return err
	}
	for id := range ids {
		deps.add(id)
		if err := s.collectDependencies(id, deps, visited); err != nil {
			return err
		}
	}
	return nil
}

/* ===========================
   Evaluation
   =========================== */

// Evaluate computes the matrix value of an expression against the current
// store contents. It fails with ErrValue if the expression is not
// store-valid. A negative integer power performs numeric inversion, and
// inverting a singular matrix fails with ErrSingular; that failure is
// never folded into ErrValue.
func (s *Store) Evaluate(expression string) (Matrix, error) {
	if !s.IsValidExpression(expression) {
		return Matrix{}, fmt.Errorf("%w: cannot evaluate %q", ErrValue, expression)
	}

	parsed, err := Parse(expression)
	if err != nil {
		return Matrix{}, err
	}

	var sum Matrix
	for _, group := range parsed {
		product, err := s.evaluateGroup(group)
		if err != nil {
			return Matrix{}, err
		}
		sum = sum.Add(product)
	}
	return sum, nil
}

// evaluateGroup multiplies the group's factors left to right.
func (s *Store) evaluateGroup(group Group) (Matrix, error) {
	product := Identity()
	for _, factor := range group {
		m, err := s.evaluateFactor(factor)
		if err != nil {
			return Matrix{}, err
		}
		product = product.Mul(m)
	}
	return product, nil
}

// evaluateFactor resolves a factor's atom, applies its index, then its
// multiplier. The index binds before the multiplier: "3A^2" is 3*(A^2).
func (s *Store) evaluateFactor(factor Factor) (Matrix, error) {
	var m Matrix
	id := factor.Identifier

	switch {
	case len(id) == 1 && id[0] >= 'A' && id[0] <= 'Z':
		got, err := s.Get(id)
		if err != nil {
			return Matrix{}, err
		}
		if got == nil {
			return Matrix{}, fmt.Errorf("%w: matrix %s is not defined", ErrValue, id)
		}
		m = *got
	case isRotationIdentifier(id):
		var err error
		if m, err = rotationFromIdentifier(id); err != nil {
			return Matrix{}, err
		}
	default:
		// A parenthesized sub-expression, which may itself begin with a
		// rotation; evaluate it whole.
		sub, err := s.Evaluate(id)
		if err != nil {
			return Matrix{}, err
		}
		m = sub
	}

	switch factor.Index {
	case "":
	case "T":
		m = m.Transpose()
	default:
		power, err := strconv.Atoi(factor.Index)
		if err != nil {
			return Matrix{}, fmt.Errorf("%w: bad index %q", ErrSyntax, factor.Index)
		}
		if m, err = m.Pow(power); err != nil {
			return Matrix{}, fmt.Errorf("cannot evaluate %s^%d: %w", id, power, err)
		}
	}

	if factor.Multiplier != "" {
		k, err := strconv.ParseFloat(factor.Multiplier, 64)
		if err != nil {
			return Matrix{}, fmt.Errorf("%w: bad multiplier %q", ErrSyntax, factor.Multiplier)
		}
		m = m.Scale(k)
	}
	return m, nil
}

// rotationFromIdentifier builds the matrix for a rotation identifier.
// Callers check the shape with isRotationIdentifier first, so the angle
// always parses; the error return keeps that contract explicit instead of
// silently yielding Rotation(0).
func rotationFromIdentifier(id string) (Matrix, error) {
	angle, err := strconv.ParseFloat(id[len("rot(") : len(id)-1], 64)
	if err != nil {
		return Matrix{}, fmt.Errorf("%w: bad rotation angle in %q", ErrSyntax, id)
	}
	return Rotation(angle), nil
}

/* ===========================
   Enumeration
   =========================== */

// StoreEntry is one defined slot as reported by GetDefinedMatrices.
// Exactly one of Matrix and Expression is set: Matrix for concrete slots
// (a copy, safe to mutate) and Expression for expression-bound slots (the
// raw binding, not its evaluation).
type StoreEntry struct {
	Name       rune
	Matrix     *Matrix
	Expression string
}

// GetDefinedMatrices returns every slot that is not undefined, in slot
// order A through Z. The identity slot is included.
func (s *Store) GetDefinedMatrices() []StoreEntry {
	var entries []StoreEntry
	for i, sl := range s.slots {
		name := rune('A' + i)
		switch sl.kind {
		case slotMatrix:
			m := sl.matrix
			entries = append(entries, StoreEntry{Name: name, Matrix: &m})
		case slotExpression:
			entries = append(entries, StoreEntry{Name: name, Expression: sl.expr})
		}
	}
	return entries
}
