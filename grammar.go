// grammar.go: the expression grammar and its validators.
//
// What this file does
// -------------------
// Compiles the grammar for matrix expressions and exposes the two validators
// built on it:
//
//   - Validate: the strict grammar used everywhere the core needs a yes/no
//     answer before acting (Parse, Store.Set, Store.Evaluate).
//   - ValidateLive: the deliberately looser interactive variant for live
//     typing. It returns a ternary verdict and additionally tolerates
//     leading-zero numbers and partial input. The two variants are kept
//     separate on purpose; unifying them would change what a live input box
//     accepts mid-keystroke.
//
// The grammar, informally:
//
//	expression ::= ["-"] group { ("+" | "-") group }
//	group      ::= factor { factor }
//	factor     ::= [multiplier] atom [index]
//	atom       ::= LETTER | "rot(" real ")" | "(" expression ")"
//	index      ::= "^" ( integer | "T" | "{" (integer | "T") "}" )
//
// Whitespace is insignificant and stripped up front. Go's regexp has no
// recursion, so parenthesized sub-expressions are handled by scanning for
// balanced top-level groups, validating each recursively, and reducing the
// group to a single letter before the flat pattern is applied. The same
// scan backs FindSubExpressions.
//
// The patterns are moderately expensive to build, so they are compiled once
// on first use and shared; they are never mutated afterwards.
package lintrans

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"
)

// Verdict is the result of the interactive validator. The three states
// mirror what a live input box needs: commit the text, keep typing, or
// reject the keystroke.
type Verdict int

const (
	Invalid Verdict = iota
	Intermediate
	Acceptable
)

func (v Verdict) String() string {
	switch v {
	case Acceptable:
		return "acceptable"
	case Intermediate:
		return "intermediate"
	default:
		return "invalid"
	}
}

// grammar holds every compiled pattern. Built once, read-only afterwards.
type grammar struct {
	expression      *regexp.Regexp // strict flat expression, parens reduced
	looseExpression *regexp.Regexp // live-typing variant: leading zeros ok
	rotation        *regexp.Regexp // anchored rot(<real>) identifier
	liveRunes       *regexp.Regexp // character set the live validator tolerates
}

var (
	grammarOnce sync.Once
	theGrammar  *grammar
)

// compileGrammar assembles the full expression pattern from its parts, the
// same way the grammar reads on paper.
func compileGrammar() *grammar {
	build := func(real string) *regexp.Regexp {
		indexContent := `(-?[1-9]\d*|T)`
		index := fmt.Sprintf(`(\^\{%s\}|\^%s)`, indexContent, indexContent)
		identifier := fmt.Sprintf(`([A-Z]|rot\(-?%s\))`, real)
		factor := fmt.Sprintf(`(%s?%s%s?)`, real, identifier, index)
		return regexp.MustCompile(fmt.Sprintf(`^-?%s+((\+|-)%s+)*$`, factor, factor))
	}

	// Strict real numbers reject a leading zero ("03") and a bare point
	// (".4"); "0.4" is fine. The loose variant takes both.
	strictReal := `([1-9]\d*(\.\d+)?|0\.\d+)`
	looseReal := `(\d+(\.\d+)?|\.\d+)`

	return &grammar{
		expression:      build(strictReal),
		looseExpression: build(looseReal),
		rotation:        regexp.MustCompile(fmt.Sprintf(`^rot\(-?%s\)$`, strictReal)),
		liveRunes:       regexp.MustCompile(`^[A-Zrot0-9.^{}()+-]*$`),
	}
}

func grammarPatterns() *grammar {
	grammarOnce.Do(func() { theGrammar = compileGrammar() })
	return theGrammar
}

// stripWhitespace removes every whitespace rune.
func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

/* ===========================
   Balanced-parenthesis scan
   =========================== */

// parenSpan records one top-level parenthesized group: s[start] == '(' and
// s[end] == ')'. rot marks the argument list of a rotation identifier,
// which is not a sub-expression.
type parenSpan struct {
	start, end int
	rot        bool
}

// topLevelParens scans a whitespace-free string and returns every top-level
// parenthesized group in order of the opening parenthesis. Nested groups
// are inside their parent's span and are not reported separately. Returns
// an error for unbalanced parentheses.
func topLevelParens(s string) ([]parenSpan, error) {
	var spans []parenSpan
	depth := 0
	start := 0
	isRot := false

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			if depth == 0 {
				start = i
				isRot = i >= 3 && s[i-3:i] == "rot"
			}
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced ')' in %q", ErrSyntax, s)
			}
			if depth == 0 {
				spans = append(spans, parenSpan{start: start, end: i, rot: isRot})
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("%w: unclosed '(' in %q", ErrSyntax, s)
	}
	return spans, nil
}

// FindSubExpressions returns the contents of every top-level parenthesized
// group, in left-to-right order of the opening parenthesis. A group
// containing another group is returned once, inner parentheses intact.
// Rotation arguments and empty groups are not sub-expressions and are
// skipped. The input does not have to be a valid expression, but its
// parentheses must balance.
func FindSubExpressions(expression string) ([]string, error) {
	expr := stripWhitespace(expression)
	spans, err := topLevelParens(expr)
	if err != nil {
		return nil, err
	}

	var subs []string
	for _, sp := range spans {
		if sp.rot {
			continue
		}
		if content := expr[sp.start+1 : sp.end]; content != "" {
			subs = append(subs, content)
		}
	}
	return subs, nil
}

/* ===========================
   Validators
   =========================== */

// matchExpression is the shared engine behind both grammar variants: reduce
// every top-level sub-expression (recursively validated) to a single
// letter, brace-wrap every bare index, then apply the flat pattern. Empty
// groups are left in place so the pattern rejects them.
//
// The wrapping step matters: a digit run after a bare "^" belongs wholly
// to the index ("A^23B" is A^{23} times B), and without it the flat
// pattern could re-segment the digits and accept "A^23.4B" as A^2 times
// 3.4B.
func matchExpression(expr string, loose bool) bool {
	spans, err := topLevelParens(expr)
	if err != nil {
		return false
	}

	var b strings.Builder
	last := 0
	for _, sp := range spans {
		if sp.rot {
			continue
		}
		content := expr[sp.start+1 : sp.end]
		if content == "" {
			continue
		}
		if !matchExpression(content, loose) {
			return false
		}
		b.WriteString(expr[last:sp.start])
		b.WriteByte('A')
		last = sp.end + 1
	}
	b.WriteString(expr[last:])

	g := grammarPatterns()
	flat := wrapIndices(b.String())
	if loose {
		return g.looseExpression.MatchString(flat)
	}
	return g.expression.MatchString(flat)
}

// Validate reports whether the whole string matches the strict expression
// grammar. It is a pure function: no side effects, no store awareness. A
// syntactically valid expression referencing undefined matrices still
// validates here; use Store.IsValidExpression for the store-aware check.
func Validate(expression string) bool {
	expr := stripWhitespace(expression)
	if expr == "" {
		return false
	}
	return matchExpression(expr, false)
}

// ValidateLive validates text as it is being typed. Unlike Validate it
// tolerates leading-zero numbers, and text that is not yet a complete
// expression but could become one with further keystrokes is reported as
// Intermediate rather than rejected.
func ValidateLive(text string) Verdict {
	expr := stripWhitespace(text)
	if expr == "" {
		return Intermediate
	}
	if !grammarPatterns().liveRunes.MatchString(expr) {
		return Invalid
	}
	if matchExpression(expr, false) || matchExpression(expr, true) {
		return Acceptable
	}
	return Intermediate
}

// isRotationIdentifier reports whether s has the exact shape rot(<real>).
func isRotationIdentifier(s string) bool {
	return grammarPatterns().rotation.MatchString(s)
}
