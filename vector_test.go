// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import (
	"math"
	"testing"

	qt "github.com/frankban/quicktest"
)

func closeVec(c *qt.C, got, want Vector3, tol float64) {
	c.Helper()
	c.Assert(math.Abs(got.X-want.X) < tol, qt.Equals, true, qt.Commentf("X: got %v want %v", got.X, want.X))
	c.Assert(math.Abs(got.Y-want.Y) < tol, qt.Equals, true, qt.Commentf("Y: got %v want %v", got.Y, want.Y))
	c.Assert(math.Abs(got.Z-want.Z) < tol, qt.Equals, true, qt.Commentf("Z: got %v want %v", got.Z, want.Z))
}

func TestMatrix4InverseIdentity(t *testing.T) {
	c := qt.New(t)
	inv := IdentityMatrix4().Inverse()
	c.Assert(inv, qt.Equals, IdentityMatrix4())
}

func TestMatrix4InverseRoundTrip(t *testing.T) {
	c := qt.New(t)

	m := NewBasisMatrix(
		Vector3{0, 1, 0},
		Vector3{-1, 0, 0},
		Vector3{0, 0, 1},
		Vector3{5, -2, 3},
	)
	inv := m.Inverse()

	p := Vector3{1, 2, 3}
	roundTrip := inv.TransformPoint(m.TransformPoint(p))
	closeVec(c, roundTrip, p, 1e-9)

	shouldBeIdentity := m.Mul(inv)
	for i := range 4 {
		for j := range 4 {
			want := 0.0
			if i == j {
				want = 1
			}
			c.Assert(math.Abs(shouldBeIdentity[i][j]-want) < 1e-9, qt.Equals, true)
		}
	}
}

func TestMatrix4InverseNonUniformScale(t *testing.T) {
	c := qt.New(t)

	m := ScaleTranslationMatrix(1, Vector3{})
	m[0][0], m[1][1], m[2][2] = 2, 3, 4
	m[0][3], m[1][3], m[2][3] = 1, 1, 1

	inv := m.Inverse()
	p := Vector3{4, 9, 16}
	closeVec(c, inv.TransformPoint(m.TransformPoint(p)), p, 1e-9)
}

func TestMatrix4InverseSingularFallsBackToIdentity(t *testing.T) {
	c := qt.New(t)

	var singular Matrix4
	singular[3] = [4]float64{0, 0, 0, 1}
	c.Assert(singular.Inverse(), qt.Equals, IdentityMatrix4())
}

func TestProjectTo2DRoundTrip(t *testing.T) {
	c := qt.New(t)

	square := []Vector3{
		{0, 0, 5}, {1, 0, 5}, {1, 1, 5}, {0, 1, 5},
	}
	pts2D, origin, u, v := projectTo2D(square)
	c.Assert(len(pts2D), qt.Equals, len(square))

	for i, p := range square {
		lifted := lift2DTo3D(pts2D[i], origin, u, v)
		closeVec(c, lifted, p, 1e-9)
	}
}
