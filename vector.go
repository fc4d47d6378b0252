// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import "math"

// Vector3 and Matrix4 below are hand-rolled: nothing in the retrieved
// reference corpus imports a vector/matrix math library, so there is
// no third-party choice to ground one on. Keeping this on the
// standard library avoids fabricating a dependency the corpus never
// showed.

// Vector3 is a 3-component vector in model space (X-forward/Y-right/
// Z-up IFC convention; meshes keep this convention, and RemapYUp in
// interchange.go is the only conversion to Y-up).
type Vector3 struct {
	X, Y, Z float64
}

func (v Vector3) Add(o Vector3) Vector3 { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3) Sub(o Vector3) Vector3 { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3) Scale(s float64) Vector3 { return Vector3{v.X * s, v.Y * s, v.Z * s} }

func (v Vector3) Dot(o Vector3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length, or v unchanged if it is
// (numerically) the zero vector.
func (v Vector3) Normalize() Vector3 {
	l := v.Length()
	if l < 1e-12 {
		return v
	}
	return v.Scale(1 / l)
}

// RodriguesRotate rotates v by angle radians about the unit axis,
// using Rodrigues' rotation formula. axis is assumed normalized.
func (v Vector3) RodriguesRotate(axis Vector3, angle float64) Vector3 {
	cosT, sinT := math.Cos(angle), math.Sin(angle)
	term1 := v.Scale(cosT)
	term2 := axis.Cross(v).Scale(sinT)
	term3 := axis.Scale(axis.Dot(v) * (1 - cosT))
	return term1.Add(term2).Add(term3)
}

// Matrix4 is a row-major 4x4 homogeneous transform: rows 0-2 are the
// rotation/scale basis, row 3 is always (0,0,0,1). Column 3 of each
// of the first three rows is the translation component.
type Matrix4 [4][4]float64

// IdentityMatrix4 returns the identity transform.
func IdentityMatrix4() Matrix4 {
	var m Matrix4
	for i := range 4 {
		m[i][i] = 1
	}
	return m
}

// NewBasisMatrix assembles a transform from an orthonormal basis
// (x, y, z axes) plus a translation, matching IFC's
// IfcAxis2Placement3D -> Matrix4 construction: each basis vector
// becomes a column.
func NewBasisMatrix(x, y, z, origin Vector3) Matrix4 {
	var m Matrix4
	m[0] = [4]float64{x.X, y.X, z.X, origin.X}
	m[1] = [4]float64{x.Y, y.Y, z.Y, origin.Y}
	m[2] = [4]float64{x.Z, y.Z, z.Z, origin.Z}
	m[3] = [4]float64{0, 0, 0, 1}
	return m
}

// ScaleTranslationMatrix builds a uniform-scale-plus-translation
// transform, matching IfcCartesianTransformationOperator3D.
func ScaleTranslationMatrix(scale float64, origin Vector3) Matrix4 {
	m := IdentityMatrix4()
	m[0][0], m[1][1], m[2][2] = scale, scale, scale
	m[0][3], m[1][3], m[2][3] = origin.X, origin.Y, origin.Z
	return m
}

// TransformPoint applies m to p as a point (translation included).
func (m Matrix4) TransformPoint(p Vector3) Vector3 {
	return Vector3{
		m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3],
		m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3],
		m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3],
	}
}

// TransformDirection applies m to v as a direction (translation
// excluded), for transforming normals and axes.
func (m Matrix4) TransformDirection(v Vector3) Vector3 {
	return Vector3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Inverse returns the inverse of m, treating rows 0-2/cols 0-2 as a
// general invertible 3x3 block (rotation, optionally with uniform or
// non-uniform scale) and row 3 as the fixed (0,0,0,1) homogeneous row.
// Used only to express one placement relative to another (void
// openings relative to their host solid's local frame); a singular
// block returns the identity rather than dividing by zero.
func (m Matrix4) Inverse() Matrix4 {
	a, b, c := m[0][0], m[0][1], m[0][2]
	d, e, f := m[1][0], m[1][1], m[1][2]
	g, h, i := m[2][0], m[2][1], m[2][2]

	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	if math.Abs(det) < 1e-12 {
		return IdentityMatrix4()
	}
	invDet := 1 / det

	var inv Matrix4
	inv[0][0] = (e*i - f*h) * invDet
	inv[0][1] = (c*h - b*i) * invDet
	inv[0][2] = (b*f - c*e) * invDet
	inv[1][0] = (f*g - d*i) * invDet
	inv[1][1] = (a*i - c*g) * invDet
	inv[1][2] = (c*d - a*f) * invDet
	inv[2][0] = (d*h - e*g) * invDet
	inv[2][1] = (b*g - a*h) * invDet
	inv[2][2] = (a*e - b*d) * invDet

	t := Vector3{m[0][3], m[1][3], m[2][3]}
	invT := inv.TransformDirection(t)
	inv[0][3], inv[1][3], inv[2][3] = -invT.X, -invT.Y, -invT.Z
	inv[3] = [4]float64{0, 0, 0, 1}
	return inv
}

// Mul returns m composed with n, applying n first then m (m * n).
func (m Matrix4) Mul(n Matrix4) Matrix4 {
	var r Matrix4
	for i := range 4 {
		for j := range 4 {
			var sum float64
			for k := range 4 {
				sum += m[i][k] * n[k][j]
			}
			r[i][j] = sum
		}
	}
	return r
}

// Vector2 is a point in a 2D profile's local coordinate system,
// before extrusion or revolution lifts it into 3D.
type Vector2 struct {
	X, Y float64
}

func newellNormal(points []Vector3) Vector3 {
	var n Vector3
	count := len(points)
	for i := range count {
		a := points[i]
		b := points[(i+1)%count]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n.Normalize()
}

// projectTo2D flattens a planar 3D polygon onto its own plane using
// Newell's method for the normal and an arbitrary orthonormal
// in-plane basis, returning the 2D points and the basis used (so a
// caller can lift results back into 3D).
func projectTo2D(points []Vector3) (pts2D []Vector2, origin, axisU, axisV Vector3) {
	if len(points) == 0 {
		return nil, Vector3{}, Vector3{}, Vector3{}
	}
	normal := newellNormal(points)
	origin = points[0]

	arbitrary := Vector3{1, 0, 0}
	if math.Abs(normal.Dot(arbitrary)) > 0.9 {
		arbitrary = Vector3{0, 1, 0}
	}
	axisU = arbitrary.Sub(normal.Scale(normal.Dot(arbitrary))).Normalize()
	axisV = normal.Cross(axisU).Normalize()

	pts2D = make([]Vector2, len(points))
	for i, p := range points {
		rel := p.Sub(origin)
		pts2D[i] = Vector2{rel.Dot(axisU), rel.Dot(axisV)}
	}
	return pts2D, origin, axisU, axisV
}

func lift2DTo3D(p Vector2, origin, axisU, axisV Vector3) Vector3 {
	return origin.Add(axisU.Scale(p.X)).Add(axisV.Scale(p.Y))
}
