// parse.go: decomposition of validated expressions into parse tuples.
//
// What this file does
// -------------------
// Turns a validated expression string into the additive-group / factor
// structure the evaluator consumes. The pipeline is:
//
//  1. strip whitespace and check the strict grammar (Parse refuses
//     anything Validate would);
//  2. normalize: every exponent/transpose marker is brace-wrapped, so the
//     equivalent "^2" and "^{2}" both become "^{2}" (this applies inside
//     parenthesized sub-expressions too, which is why a sub-expression
//     identifier reads "B^{T}A" even when the input wrote "B^TA");
//  3. scan left to right into groups of factors. A top-level "-" is
//     subtraction: it ends the current group and folds the sign into the
//     next factor's multiplier, so a bare "-A" carries multiplier "-1" and
//     the evaluator only ever needs to sum groups.
//
// A factor's identifier is a single capital letter, a whole rotation
// identifier like "rot(45)", or the text of a parenthesized sub-expression
// with the outer parentheses removed. An index binds to the atom
// immediately before it and a multiplier to the atom immediately after it,
// never across.
//
// The scanner never consults the store; this layer is purely syntactic.
package lintrans

import (
	"fmt"
	"sort"
	"strings"
)

// Factor is one parsed factor: an optional signed multiplier (empty means
// 1), an identifier, and an optional index (an integer power, "T" for
// transpose, or empty for none). All three are kept as strings, exactly as
// they appeared after normalization.
type Factor struct {
	Multiplier string
	Identifier string
	Index      string
}

// Group is an ordered run of factors to be multiplied left to right.
type Group []Factor

// ParsedExpression is an ordered list of groups whose products are summed.
type ParsedExpression []Group

// NameSet is a set of single-letter matrix names.
type NameSet map[rune]struct{}

func (s NameSet) add(r rune)      { s[r] = struct{}{} }
func (s NameSet) Has(r rune) bool { _, ok := s[r]; return ok }

// Names returns the members in alphabetical order.
func (s NameSet) Names() []rune {
	out := make([]rune, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s NameSet) String() string {
	var b strings.Builder
	for _, r := range s.Names() {
		b.WriteRune(r)
	}
	return b.String()
}

// Parse decomposes an expression into its additive groups of multiplicative
// factors. It fails with ErrSyntax exactly when Validate returns false.
func Parse(expression string) (ParsedExpression, error) {
	expr := stripWhitespace(expression)
	if !Validate(expr) {
		return nil, fmt.Errorf("%w: %q", ErrSyntax, expression)
	}
	expr = wrapIndices(expr)

	out := ParsedExpression{}
	group := Group{}
	negative := false

	for i := 0; i < len(expr); {
		switch expr[i] {
		case '+':
			out = append(out, group)
			group = Group{}
			negative = false
			i++
		case '-':
			// Subtraction between groups; a leading "-" negates the
			// first group without closing anything.
			if i > 0 {
				out = append(out, group)
				group = Group{}
			}
			negative = true
			i++
		default:
			factor, next := scanFactor(expr, i)
			if negative {
				factor.Multiplier = negateMultiplier(factor.Multiplier)
				negative = false
			}
			group = append(group, factor)
			i = next
		}
	}
	return append(out, group), nil
}

// MatrixIdentifiers returns every matrix name referenced anywhere in the
// expression, including inside parenthesized sub-expressions, excluding
// rotation identifiers. It fails with ErrSyntax on an invalid expression.
func MatrixIdentifiers(expression string) (NameSet, error) {
	parsed, err := Parse(expression)
	if err != nil {
		return nil, err
	}

	names := NameSet{}
	for _, group := range parsed {
		for _, factor := range group {
			id := factor.Identifier
			switch {
			case len(id) == 1 && id[0] >= 'A' && id[0] <= 'Z':
				names.add(rune(id[0]))
			case isRotationIdentifier(id):
				// Not a stored matrix. The full-shape check matters: a
				// sub-expression can begin with a rotation, and its own
				// references must still be collected.
			default:
				sub, err := MatrixIdentifiers(id)
				if err != nil {
					return nil, err
				}
				for r := range sub {
					names.add(r)
				}
			}
		}
	}
	return names, nil
}

/* ===========================
   Normalization & scanning
   =========================== */

// wrapIndices rewrites every bare index "^2", "^-1" or "^T" to the braced
// form, leaving already-braced indices alone. The digit run after "^" is
// taken maximally, so "A^23B" reads as A^{23}B. Input must be
// whitespace-free but does not have to be valid; the validators run this
// on candidate text before matching.
func wrapIndices(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		b.WriteByte(s[i])
		if s[i] != '^' || i+1 >= len(s) || s[i+1] == '{' {
			continue
		}
		j := i + 1
		if s[j] == '-' {
			j++
		}
		if j < len(s) && s[j] == 'T' {
			j++
		} else {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
		}
		b.WriteByte('{')
		b.WriteString(s[i+1 : j])
		b.WriteByte('}')
		i = j - 1
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// negateMultiplier folds a subtraction sign into a factor's multiplier.
func negateMultiplier(mult string) string {
	if mult == "" {
		return "-1"
	}
	return "-" + mult
}

// scanFactor reads one factor starting at i: an optional multiplier, then
// an atom (letter, rotation identifier, or parenthesized sub-expression),
// then an optional braced index. It assumes a validated, index-wrapped
// string and returns the factor plus the position just past it.
func scanFactor(s string, i int) (Factor, int) {
	var f Factor

	start := i
	for i < len(s) && (isDigit(s[i]) || s[i] == '.') {
		i++
	}
	f.Multiplier = s[start:i]

	switch {
	case strings.HasPrefix(s[i:], "rot("):
		end := strings.IndexByte(s[i:], ')') + i
		f.Identifier = s[i : end+1]
		i = end + 1
	case s[i] == '(':
		depth := 0
		end := i
		for j := i; j < len(s); j++ {
			if s[j] == '(' {
				depth++
			} else if s[j] == ')' {
				if depth--; depth == 0 {
					end = j
					break
				}
			}
		}
		f.Identifier = s[i+1 : end]
		i = end + 1
	default:
		f.Identifier = string(s[i])
		i++
	}

	if i < len(s) && s[i] == '^' {
		end := strings.IndexByte(s[i:], '}') + i
		f.Index = s[i+2 : end]
		i = end + 1
	}
	return f, i
}
