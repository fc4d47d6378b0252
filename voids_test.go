// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func decodeWall(c *qt.C, source string) (*IfcModel, *DecodedEntity) {
	c.Helper()
	model, err := Decode(Options{R: strings.NewReader(source)})
	c.Assert(err, qt.IsNil)

	walls := model.Resolver().EntitiesByType(IfcWall)
	c.Assert(len(walls), qt.Equals, 1)
	return model, walls[0]
}

func TestElementGeometryThroughVoidPunchesHole(t *testing.T) {
	c := qt.New(t)

	plainModel, plainWall := decodeWall(c, plainWallFixture)
	plainMesh, err := plainModel.ElementGeometry(plainWall.ID)
	c.Assert(err, qt.IsNil)

	voidModel, voidWall := decodeWall(c, wallWithVoidsFixture)
	voidMesh, err := voidModel.ElementGeometry(voidWall.ID)
	c.Assert(err, qt.IsNil)

	// Both openings attach to the same wall, so the voided wall must
	// carry strictly more triangles than the plain one: the through
	// opening adds a hole boundary loop to the host profile, and the
	// partial opening merges in its own capped recess prism.
	c.Assert(voidMesh.TriangleCount() > plainMesh.TriangleCount(), qt.Equals, true)
	c.Assert(voidMesh.VertexCount() > plainMesh.VertexCount(), qt.Equals, true)
}

func TestRelVoidsForElementFindsBothOpenings(t *testing.T) {
	c := qt.New(t)

	model, wall := decodeWall(c, wallWithVoidsFixture)
	openings := relVoidsForElement(model.Resolver(), wall.ID)
	c.Assert(len(openings), qt.Equals, 2)

	names := map[string]bool{}
	for _, o := range openings {
		name, ok := o.GetString(2)
		c.Assert(ok, qt.Equals, true)
		names[name] = true
	}
	c.Assert(names["OpeningThrough"], qt.Equals, true)
	c.Assert(names["OpeningPartial"], qt.Equals, true)
}

func TestRelVoidsForElementEmptyWithoutRelations(t *testing.T) {
	c := qt.New(t)

	model, wall := decodeWall(c, plainWallFixture)
	openings := relVoidsForElement(model.Resolver(), wall.ID)
	c.Assert(len(openings), qt.Equals, 0)
}

func TestProjectVoidFootprintThroughRange(t *testing.T) {
	c := qt.New(t)

	profile := NewProfile2D([]Vector2{
		{X: -200, Y: -100}, {X: 200, Y: -100}, {X: 200, Y: 100}, {X: -200, Y: 100},
	})
	footprint, zMin, zMax, ok := projectVoidFootprint(IdentityMatrix4(), profile, Vector3{0, 0, 1}, 3000)
	c.Assert(ok, qt.Equals, true)
	c.Assert(len(footprint), qt.Equals, 4)
	c.Assert(zMin, qt.Equals, 0.0)
	c.Assert(zMax, qt.Equals, 3000.0)
}

func TestProjectVoidFootprintEmptyProfile(t *testing.T) {
	c := qt.New(t)
	_, _, _, ok := projectVoidFootprint(IdentityMatrix4(), Profile2D{}, Vector3{0, 0, 1}, 100)
	c.Assert(ok, qt.Equals, false)
}

func TestMatrix4IsIdentity(t *testing.T) {
	c := qt.New(t)
	c.Assert(IdentityMatrix4().isIdentity(), qt.Equals, true)

	m := ScaleTranslationMatrix(1, Vector3{1, 0, 0})
	c.Assert(m.isIdentity(), qt.Equals, false)
}
