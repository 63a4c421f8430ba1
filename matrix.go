// matrix.go: the 2x2 Matrix value type and its algebra.
package lintrans

import (
	"fmt"
	"math"
	"strings"
)

// Matrix is a 2x2 matrix of real numbers, indexed [row][column]. It is a
// plain value type: assignment and function returns copy it, so a Matrix
// handed out by the store can never alias store-internal state.
type Matrix [2][2]float64

// Identity returns the 2x2 identity matrix.
func Identity() Matrix {
	return Matrix{{1, 0}, {0, 1}}
}

// NewMatrix builds a matrix from its entries in row-major order:
//
//	| a  b |
//	| c  d |
func NewMatrix(a, b, c, d float64) Matrix {
	return Matrix{{a, b}, {c, d}}
}

// Rotation returns the matrix rotating the plane anticlockwise by the given
// angle in degrees. The angle is reduced mod 360 before conversion so that
// e.g. Rotation(360) is exactly the identity rather than accumulating
// floating error from a large argument.
func Rotation(degrees float64) Matrix {
	rad := math.Mod(degrees, 360) * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Matrix{
		{cos, -sin},
		{sin, cos},
	}
}

// Mul returns the matrix product m * n. Order matters.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		{m[0][0]*n[0][0] + m[0][1]*n[1][0], m[0][0]*n[0][1] + m[0][1]*n[1][1]},
		{m[1][0]*n[0][0] + m[1][1]*n[1][0], m[1][0]*n[0][1] + m[1][1]*n[1][1]},
	}
}

// Add returns the entrywise sum m + n.
func (m Matrix) Add(n Matrix) Matrix {
	return Matrix{
		{m[0][0] + n[0][0], m[0][1] + n[0][1]},
		{m[1][0] + n[1][0], m[1][1] + n[1][1]},
	}
}

// Scale returns the matrix scaled entrywise by k.
func (m Matrix) Scale(k float64) Matrix {
	return Matrix{
		{k * m[0][0], k * m[0][1]},
		{k * m[1][0], k * m[1][1]},
	}
}

// Transpose returns the transpose of m.
func (m Matrix) Transpose() Matrix {
	return Matrix{
		{m[0][0], m[1][0]},
		{m[0][1], m[1][1]},
	}
}

// Det returns the determinant of m.
func (m Matrix) Det() float64 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

// Inverse returns the inverse of m, or ErrSingular if the determinant is
// zero. The zero test is exact: a determinant that is merely tiny still
// inverts (and the caller gets the large entries it asked for).
func (m Matrix) Inverse() (Matrix, error) {
	det := m.Det()
	if det == 0 {
		return Matrix{}, ErrSingular
	}
	return Matrix{
		{m[1][1] / det, -m[0][1] / det},
		{-m[1][0] / det, m[0][0] / det},
	}, nil
}

// Pow returns m raised to the integer power n. Pow(m, 0) is the identity
// and a negative n inverts first, so Pow(m, -2) == Inverse(m)^2. The only
// possible failure is ErrSingular from the inversion.
func (m Matrix) Pow(n int) (Matrix, error) {
	base := m
	if n < 0 {
		inv, err := m.Inverse()
		if err != nil {
			return Matrix{}, err
		}
		base = inv
		n = -n
	}
	out := Identity()
	for i := 0; i < n; i++ {
		out = out.Mul(base)
	}
	return out, nil
}

// ApproxEqual reports whether every entry of m is within eps of the
// corresponding entry of n.
func (m Matrix) ApproxEqual(n Matrix, eps float64) bool {
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(m[i][j]-n[i][j]) > eps {
				return false
			}
		}
	}
	return true
}

// String renders the matrix on one line, e.g. "[1 2; 3 4]".
func (m Matrix) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%v %v; %v %v]", m[0][0], m[0][1], m[1][0], m[1][1])
	return b.String()
}
