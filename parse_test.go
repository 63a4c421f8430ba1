package lintrans

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factors(tuples ...[3]string) Group {
	g := make(Group, 0, len(tuples))
	for _, t := range tuples {
		g = append(g, Factor{Multiplier: t[0], Identifier: t[1], Index: t[2]})
	}
	return g
}

var parseCases = []struct {
	expr string
	want ParsedExpression
}{
	// Simple expressions
	{"A", ParsedExpression{factors([3]string{"", "A", ""})}},
	{"A^2", ParsedExpression{factors([3]string{"", "A", "2"})}},
	{"A^{2}", ParsedExpression{factors([3]string{"", "A", "2"})}},
	{"3A", ParsedExpression{factors([3]string{"3", "A", ""})}},
	{"1.4A^3", ParsedExpression{factors([3]string{"1.4", "A", "3"})}},
	{"0.1A", ParsedExpression{factors([3]string{"0.1", "A", ""})}},
	{"A^12", ParsedExpression{factors([3]string{"", "A", "12"})}},
	{"A^234", ParsedExpression{factors([3]string{"", "A", "234"})}},
	{"-3M^2", ParsedExpression{factors([3]string{"-3", "M", "2"})}},
	{"-A", ParsedExpression{factors([3]string{"-1", "A", ""})}},

	// Multiplications
	{"A 0.1B", ParsedExpression{factors([3]string{"", "A", ""}, [3]string{"0.1", "B", ""})}},
	{"A^2 3B", ParsedExpression{factors([3]string{"", "A", "23"}, [3]string{"", "B", ""})}},
	{"A^{2}3.4B", ParsedExpression{factors([3]string{"", "A", "2"}, [3]string{"3.4", "B", ""})}},
	{"4A^{3} 6B^2", ParsedExpression{factors([3]string{"4", "A", "3"}, [3]string{"6", "B", "2"})}},
	{"4.2A^{T} 6.1B^-1", ParsedExpression{factors([3]string{"4.2", "A", "T"}, [3]string{"6.1", "B", "-1"})}},
	{"1.2rot(12)^{3}2B^T", ParsedExpression{factors([3]string{"1.2", "rot(12)", "3"}, [3]string{"2", "B", "T"})}},
	{"-1.2A^2 rot(45)^2", ParsedExpression{factors([3]string{"-1.2", "A", "2"}, [3]string{"", "rot(45)", "2"})}},
	{"3.2A^T 4.5B^{5} 9.6rot(121.3)", ParsedExpression{factors(
		[3]string{"3.2", "A", "T"}, [3]string{"4.5", "B", "5"}, [3]string{"9.6", "rot(121.3)", ""})}},
	{"-1.18A^{-2} 0.1B^{2} 9rot(-34.6)^-1", ParsedExpression{factors(
		[3]string{"-1.18", "A", "-2"}, [3]string{"0.1", "B", "2"}, [3]string{"9", "rot(-34.6)", "-1"})}},

	// Additions
	{"A + B", ParsedExpression{factors([3]string{"", "A", ""}), factors([3]string{"", "B", ""})}},
	{"A + B - C", ParsedExpression{
		factors([3]string{"", "A", ""}), factors([3]string{"", "B", ""}), factors([3]string{"-1", "C", ""})}},
	{"A^2 + 0.5B", ParsedExpression{factors([3]string{"", "A", "2"}), factors([3]string{"0.5", "B", ""})}},
	{"2A^3 + 8B^T - 3C^-1", ParsedExpression{
		factors([3]string{"2", "A", "3"}), factors([3]string{"8", "B", "T"}), factors([3]string{"-3", "C", "-1"})}},
	{"4.9A^2 - 3rot(134.2)^-1 + 7.6B^8", ParsedExpression{
		factors([3]string{"4.9", "A", "2"}), factors([3]string{"-3", "rot(134.2)", "-1"}), factors([3]string{"7.6", "B", "8"})}},
	{"-3A^{-1}3B^T - 45M^2", ParsedExpression{
		factors([3]string{"-3", "A", "-1"}, [3]string{"3", "B", "T"}), factors([3]string{"-45", "M", "2"})}},

	// Additions with multiplication
	{"2.14A^{3} 4.5rot(14.5)^-1 + 8B^T - 3C^-1", ParsedExpression{
		factors([3]string{"2.14", "A", "3"}, [3]string{"4.5", "rot(14.5)", "-1"}),
		factors([3]string{"8", "B", "T"}),
		factors([3]string{"-3", "C", "-1"})}},
	{"2.14A^{3} 4.5rot(14.5)^-1 + 8.5B^T 5.97C^14 - 3.14D^{-1} 6.7E^T", ParsedExpression{
		factors([3]string{"2.14", "A", "3"}, [3]string{"4.5", "rot(14.5)", "-1"}),
		factors([3]string{"8.5", "B", "T"}, [3]string{"5.97", "C", "14"}),
		factors([3]string{"-3.14", "D", "-1"}, [3]string{"6.7", "E", "T"})}},

	// Parenthesized sub-expressions; indices inside are normalized to the
	// braced form before the sub-expression text is captured.
	{"(AB)^-1", ParsedExpression{factors([3]string{"", "AB", "-1"})}},
	{"-3(A+B)^2-C(B^TA)^-1", ParsedExpression{
		factors([3]string{"-3", "A+B", "2"}),
		factors([3]string{"-1", "C", ""}, [3]string{"", "B^{T}A", "-1"})}},
	{"2.3(3B^TA)^2", ParsedExpression{factors([3]string{"2.3", "3B^{T}A", "2"})}},
	{"-3.4(9D^{2}3F^-1)^T+C", ParsedExpression{
		factors([3]string{"-3.4", "9D^{2}3F^{-1}", "T"}), factors([3]string{"", "C", ""})}},
	{"2.39(3.1A^{-1}2.3B(CD)^-1)^T + (AB^T)^-1", ParsedExpression{
		factors([3]string{"2.39", "3.1A^{-1}2.3B(CD)^{-1}", "T"}),
		factors([3]string{"", "AB^{T}", "-1"})}},

	// A sub-expression beginning with a rotation stays a sub-expression;
	// only an exact rot(<angle>) atom is a rotation identifier.
	{"(rot(45)B)", ParsedExpression{factors([3]string{"", "rot(45)B", ""})}},
	{"2(rot(90)AB)^-1+C", ParsedExpression{
		factors([3]string{"2", "rot(90)AB", "-1"}), factors([3]string{"", "C", ""})}},
}

func TestParse(t *testing.T) {
	for _, tc := range parseCases {
		got, err := Parse(tc.expr)
		require.NoError(t, err, "Parse(%q)", tc.expr)
		assert.Equal(t, tc.want, got, "Parse(%q)", tc.expr)

		// Whitespace never changes the decomposition.
		stripped, err := Parse(strings.ReplaceAll(tc.expr, " ", ""))
		require.NoError(t, err)
		assert.Equal(t, tc.want, stripped, "Parse(%q) without whitespace", tc.expr)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, expr := range invalidExpressions {
		_, err := Parse(expr)
		require.ErrorIs(t, err, ErrSyntax, "Parse(%q)", expr)
	}
}

func TestMatrixIdentifiers(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{"A", "A"},
		{"A^T", "A"},
		{"3A^2B+4C", "ABC"},
		{"rot(45)", ""},
		{"Arot(90)B", "AB"},
		{"(AB)^-1", "AB"},
		{"-3(A+B)^2-C(B^TA)^-1", "ABC"},
		{"3A^2B+4A(B+C)^-1D^T-A(C(D+E)B)", "ABCDE"},
		{"(rot(45)B)", "B"},
		{"3(rot(34)^-7A)^-1+B", "AB"},
		{"2(rot(90)AB)^-1+C", "ABC"},
	}
	for _, tc := range cases {
		got, err := MatrixIdentifiers(tc.expr)
		require.NoError(t, err, "MatrixIdentifiers(%q)", tc.expr)
		assert.Equal(t, tc.want, got.String(), "MatrixIdentifiers(%q)", tc.expr)
	}
}

func TestMatrixIdentifiersRejectsInvalid(t *testing.T) {
	for _, expr := range invalidExpressions {
		_, err := MatrixIdentifiers(expr)
		require.ErrorIs(t, err, ErrSyntax, "MatrixIdentifiers(%q)", expr)
	}
}

// Every name in a parse result must show up in MatrixIdentifiers, and vice
// versa: the two views of an expression agree on its references.
func TestParseAgreesWithMatrixIdentifiers(t *testing.T) {
	for _, expr := range validExpressions {
		parsed, err := Parse(expr)
		require.NoError(t, err)

		fromParse := NameSet{}
		var walk func(ParsedExpression)
		walk = func(pe ParsedExpression) {
			for _, group := range pe {
				for _, f := range group {
					if len(f.Identifier) == 1 {
						fromParse.add(rune(f.Identifier[0]))
						continue
					}
					if isRotationIdentifier(f.Identifier) {
						continue
					}
					sub, err := Parse(f.Identifier)
					require.NoError(t, err)
					walk(sub)
				}
			}
		}
		walk(parsed)

		ids, err := MatrixIdentifiers(expr)
		require.NoError(t, err)
		assert.Equal(t, ids.String(), fromParse.String(), "identifier mismatch for %q", expr)
	}
}
