// Package linalg is the small amount of 3D math the viewport needs: a
// 3-vector, a column-major 4×4 matrix, a look-at view, a perspective
// projection, affine scale/translate, a general inverse and a homogeneous
// point transform.
//
// Matrices are column-major, element (row r, column c) lives at index c*4+r,
// and [Mul] composes right to left: Mul(a, b) applied to p is a(b(p)).
// All functions are pure and return new values.
package linalg

import "math"

// Vec3 is a point or direction in 3D space.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v-o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Dot returns the dot product.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v×o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Len returns the Euclidean length.
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length, or the zero vector if v is zero.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vec3) IsFinite() bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

// Mat4 is a column-major 4×4 matrix.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns the product a·b.
func Mul(a, b Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += a[k*4+r] * b[c*4+k]
			}
			out[c*4+r] = s
		}
	}
	return out
}

// Scale returns a matrix scaling each axis by the components of s.
func Scale(s Vec3) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = s.X, s.Y, s.Z
	return m
}

// Translate returns a matrix translating by t.
func Translate(t Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = t.X, t.Y, t.Z
	return m
}

// LookAt returns a view matrix for a camera at eye looking at center.
// If eye and center coincide the identity is returned.
func LookAt(eye, center, up Vec3) Mat4 {
	const epsilon = 1e-6
	zAxis := eye.Sub(center)
	if math.Abs(zAxis.X) < epsilon && math.Abs(zAxis.Y) < epsilon && math.Abs(zAxis.Z) < epsilon {
		return Identity()
	}
	zAxis = zAxis.Normalize()
	xAxis := up.Cross(zAxis).Normalize()
	yAxis := zAxis.Cross(xAxis).Normalize()

	return Mat4{
		xAxis.X, yAxis.X, zAxis.X, 0,
		xAxis.Y, yAxis.Y, zAxis.Y, 0,
		xAxis.Z, yAxis.Z, zAxis.Z, 0,
		-xAxis.Dot(eye), -yAxis.Dot(eye), -zAxis.Dot(eye), 1,
	}
}

// Perspective returns an OpenGL style projection with vertical field of
// view fovy (radians), mapping depth [near,far] to clip z in [-1,1].
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovy/2)
	nf := 1 / (near - far)
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) * nf
	m[11] = -1
	m[14] = 2 * far * near * nf
	return m
}

// Invert returns the inverse of m. The second result is false when m is
// singular, in which case the returned matrix is zero.
func Invert(m Mat4) (Mat4, bool) {
	a00, a01, a02, a03 := m[0], m[1], m[2], m[3]
	a10, a11, a12, a13 := m[4], m[5], m[6], m[7]
	a20, a21, a22, a23 := m[8], m[9], m[10], m[11]
	a30, a31, a32, a33 := m[12], m[13], m[14], m[15]

	b00 := a00*a11 - a01*a10
	b01 := a00*a12 - a02*a10
	b02 := a00*a13 - a03*a10
	b03 := a01*a12 - a02*a11
	b04 := a01*a13 - a03*a11
	b05 := a02*a13 - a03*a12
	b06 := a20*a31 - a21*a30
	b07 := a20*a32 - a22*a30
	b08 := a20*a33 - a23*a30
	b09 := a21*a32 - a22*a31
	b10 := a21*a33 - a23*a31
	b11 := a22*a33 - a23*a32

	det := b00*b11 - b01*b10 + b02*b09 + b03*b08 - b04*b07 + b05*b06
	if det == 0 || !finite(det) {
		return Mat4{}, false
	}
	det = 1 / det

	return Mat4{
		(a11*b11 - a12*b10 + a13*b09) * det,
		(a02*b10 - a01*b11 - a03*b09) * det,
		(a31*b05 - a32*b04 + a33*b03) * det,
		(a22*b04 - a21*b05 - a23*b03) * det,
		(a12*b08 - a10*b11 - a13*b07) * det,
		(a00*b11 - a02*b08 + a03*b07) * det,
		(a32*b02 - a30*b05 - a33*b01) * det,
		(a20*b05 - a22*b02 + a23*b01) * det,
		(a10*b10 - a11*b08 + a13*b06) * det,
		(a01*b08 - a00*b10 - a03*b06) * det,
		(a30*b04 - a31*b02 + a33*b00) * det,
		(a21*b02 - a20*b04 - a23*b00) * det,
		(a11*b07 - a10*b09 - a12*b06) * det,
		(a00*b09 - a01*b07 + a02*b06) * det,
		(a31*b01 - a30*b03 - a32*b00) * det,
		(a20*b03 - a21*b01 + a22*b00) * det,
	}, true
}

// TransformPoint applies m to p as a point (w=1) and divides by the
// resulting w. A zero w is treated as 1.
func TransformPoint(m Mat4, p Vec3) Vec3 {
	w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	if w == 0 {
		w = 1
	}
	return Vec3{
		(m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]) / w,
		(m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]) / w,
		(m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]) / w,
	}
}

// IsFinite reports whether every element of m is finite.
func (m Mat4) IsFinite() bool {
	for _, v := range m {
		if !finite(v) {
			return false
		}
	}
	return true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
