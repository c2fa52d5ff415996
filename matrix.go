package svg

import "math"

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{
		A: x, B: 0, C: 0,
		D: 0, E: y, F: 0,
	}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Matrix{
		A: cos, B: -sin, C: 0,
		D: sin, E: cos, F: 0,
	}
}

// RotateAbout creates a rotation matrix around point (x, y).
func RotateAbout(angle, x, y float64) Matrix {
	return Translate(x, y).Multiply(Rotate(angle)).Multiply(Translate(-x, -y))
}

// SkewX creates a horizontal shear matrix (angle in radians).
func SkewX(angle float64) Matrix {
	return Matrix{
		A: 1, B: math.Tan(angle), C: 0,
		D: 0, E: 1, F: 0,
	}
}

// SkewY creates a vertical shear matrix (angle in radians).
func SkewY(angle float64) Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: math.Tan(angle), E: 1, F: 0,
	}
}

// Multiply multiplies two matrices (m * other).
// The combined matrix applies other first, then m, so an element's local
// transform is multiplied onto the right of its ancestors' transform.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// TransformVector applies the transformation to a vector (no translation).
func (m Matrix) TransformVector(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y,
		Y: m.D*p.X + m.E*p.Y,
	}
}

// TransformRect returns the axis-aligned bounding box of the transformed
// rectangle corners.
func (m Matrix) TransformRect(r Rect) Rect {
	if !r.IsValid() {
		return r
	}
	p0 := m.TransformPoint(r.Min)
	p1 := m.TransformPoint(Point{X: r.Max.X, Y: r.Min.Y})
	p2 := m.TransformPoint(r.Max)
	p3 := m.TransformPoint(Point{X: r.Min.X, Y: r.Max.Y})
	out := NewRect(p0, p1)
	out = out.Union(NewRect(p2, p3))
	return out
}

// Determinant returns the determinant of the linear part of the matrix.
func (m Matrix) Determinant() float64 {
	return m.A*m.E - m.B*m.D
}

// IsInvertible reports whether the matrix has a usable inverse.
// Singular transforms collapse geometry to a line or point; elements
// carrying one are skipped during rendering.
func (m Matrix) IsInvertible() bool {
	det := m.Determinant()
	return !math.IsNaN(det) && !math.IsInf(det, 0) && math.Abs(det) >= 1e-10
}

// Invert returns the inverse matrix.
// Returns the identity matrix if the matrix is not invertible.
func (m Matrix) Invert() Matrix {
	det := m.Determinant()
	if math.Abs(det) < 1e-10 {
		return Identity()
	}

	invDet := 1.0 / det
	return Matrix{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 &&
		m.D == 0 && m.E == 1 && m.F == 0
}

// ScaleFactors returns the X and Y scale factors of the matrix,
// i.e. the lengths of the transformed unit vectors. Used to convert
// user-space stroke widths and filter radii into device space.
func (m Matrix) ScaleFactors() (sx, sy float64) {
	sx = math.Hypot(m.A, m.D)
	sy = math.Hypot(m.B, m.E)
	return sx, sy
}
