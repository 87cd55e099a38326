package math3d

import "math"

// Mat4 is a 4x4 matrix stored column by column: element (row, col) lives at
// index row+col*4, so the last column m[12:15] holds the translation of an
// affine transform.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

// FromRows builds a matrix from its four rows, which reads the same way
// the matrix is written on paper.
func FromRows(r0, r1, r2, r3 Vec4) Mat4 {
	var m Mat4
	for row, r := range [4]Vec4{r0, r1, r2, r3} {
		m[row], m[row+4], m[row+8], m[row+12] = r.X, r.Y, r.Z, r.W
	}
	return m
}

// Translate returns a matrix that moves points by v.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m.SetTranslation(v)
	return m
}

// rotation fills the 2x2 block spanned by axes i and j with a right-handed
// rotation by angle, leaving the remaining axis fixed.
func rotation(i, j int, angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m.Set(i, i, c)
	m.Set(i, j, -s)
	m.Set(j, i, s)
	m.Set(j, j, c)
	return m
}

// RotateX rotates about the X axis, turning +Y toward +Z.
func RotateX(angle float64) Mat4 { return rotation(1, 2, angle) }

// RotateY rotates about the Y axis, turning +Z toward +X.
func RotateY(angle float64) Mat4 { return rotation(2, 0, angle) }

// RotateZ rotates about the Z axis, turning +X toward +Y.
func RotateZ(angle float64) Mat4 { return rotation(0, 1, angle) }

// Mul returns a*b, which applies b first.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec4 transforms a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m.Row(0).Dot(v),
		m.Row(1).Dot(v),
		m.Row(2).Dot(v),
		m.Row(3).Dot(v),
	}
}

// MulPoint transforms v with w=1 and drops the resulting W without dividing.
// Use MulVec4 when the matrix is projective.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return m.MulVec4(Point(v)).Vec3()
}

// MulDir transforms v with w=0, so translation does not apply.
func (m Mat4) MulDir(v Vec3) Vec3 {
	return m.MulVec4(Direction(v)).Vec3()
}

// Row returns row i.
func (m Mat4) Row(i int) Vec4 {
	return Vec4{m[i], m[i+4], m[i+8], m[i+12]}
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Set stores val at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[row+col*4] = val
}

// SetTranslation overwrites the translation column.
func (m *Mat4) SetTranslation(v Vec3) {
	m[12], m[13], m[14] = v.X, v.Y, v.Z
}

// ApproxEqual reports whether every element of a and b differs by at most eps.
//
//nolint:st1016 // a,b naming convention is clearer for comparisons
func (a Mat4) ApproxEqual(b Mat4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// Determinant returns the determinant, computed by elimination.
func (m Mat4) Determinant() float64 {
	_, det := m.eliminate()
	return det
}

// Inverse returns the general inverse of m. It makes no rigidity assumption,
// so projective matrices invert too. ok is false when m is singular or not
// finite, in which case the identity is returned.
func (m Mat4) Inverse() (inv Mat4, ok bool) {
	inv, det := m.eliminate()
	if det == 0 || !isFinite(det) {
		return Identity(), false
	}
	return inv, true
}

// eliminate runs Gauss-Jordan elimination with partial pivoting on m
// alongside an identity matrix. It returns the reduced right-hand side and
// the determinant, which is zero when a pivot column vanishes.
func (m Mat4) eliminate() (Mat4, float64) {
	a, inv := m, Identity()
	det := 1.0
	for col := range 4 {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(a.Get(row, col)) > math.Abs(a.Get(pivot, col)) {
				pivot = row
			}
		}
		p := a.Get(pivot, col)
		if p == 0 {
			return Identity(), 0
		}
		if pivot != col {
			a.swapRows(pivot, col)
			inv.swapRows(pivot, col)
			det = -det
		}
		det *= p

		a.scaleRow(col, 1/p)
		inv.scaleRow(col, 1/p)
		for row := range 4 {
			if row == col {
				continue
			}
			f := a.Get(row, col)
			if f == 0 {
				continue
			}
			a.subRow(row, col, f)
			inv.subRow(row, col, f)
		}
	}
	return inv, det
}

func (m *Mat4) swapRows(i, j int) {
	for c := range 4 {
		m[i+c*4], m[j+c*4] = m[j+c*4], m[i+c*4]
	}
}

func (m *Mat4) scaleRow(i int, s float64) {
	for c := range 4 {
		m[i+c*4] *= s
	}
}

// subRow subtracts f times row src from row dst.
func (m *Mat4) subRow(dst, src int, f float64) {
	for c := range 4 {
		m[dst+c*4] -= f * m[src+c*4]
	}
}
