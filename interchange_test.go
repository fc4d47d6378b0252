// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import (
	"bytes"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestEntitiesWithGeometryAndBatchGeometry(t *testing.T) {
	c := qt.New(t)

	model, err := Decode(Options{R: strings.NewReader(plainWallFixture)})
	c.Assert(err, qt.IsNil)

	ids := model.EntitiesWithGeometry()
	c.Assert(len(ids), qt.Equals, 1)
	c.Assert(model.HasGeometry(ids[0]), qt.Equals, true)

	results, err := model.BatchGeometry(ids)
	c.Assert(err, qt.IsNil)
	c.Assert(len(results), qt.Equals, 1)
	c.Assert(results[0].Err, qt.IsNil)
	c.Assert(results[0].Geometry.Mesh.IsEmpty(), qt.Equals, false)
	c.Assert(results[0].Geometry.TypeName, qt.Equals, "IFCWALL")
}

func TestGetGeometryUnknownID(t *testing.T) {
	c := qt.New(t)

	model, err := Decode(Options{R: strings.NewReader(plainWallFixture)})
	c.Assert(err, qt.IsNil)

	_, ok := model.GetGeometry(999999)
	c.Assert(ok, qt.Equals, false)
}

func TestDefaultColorKnownAndUnknownType(t *testing.T) {
	c := qt.New(t)

	model, err := Decode(Options{R: strings.NewReader(plainWallFixture)})
	c.Assert(err, qt.IsNil)

	wallColor := model.DefaultColor("IFCWALL")
	c.Assert(wallColor, qt.Equals, [4]float32{0.82, 0.80, 0.78, 1})

	other := model.DefaultColor("IFCSOMETHINGUNKNOWN")
	c.Assert(other, qt.Equals, [4]float32{0.75, 0.75, 0.75, 1})
}

func TestTotalTriangleCountMatchesSingleElement(t *testing.T) {
	c := qt.New(t)

	model, err := Decode(Options{R: strings.NewReader(plainWallFixture)})
	c.Assert(err, qt.IsNil)

	ids := model.EntitiesWithGeometry()
	mesh, ok := model.GetGeometry(ids[0])
	c.Assert(ok, qt.Equals, true)

	c.Assert(model.TotalTriangleCount(), qt.Equals, mesh.Mesh.TriangleCount())
}

func TestRemapYUpAxisSwap(t *testing.T) {
	c := qt.New(t)

	mesh := MeshData{
		Positions: []float32{1, 2, 3},
		Normals:   []float32{0, 1, 0},
	}
	remapped := RemapYUp(mesh)
	c.Assert(remapped.Positions, qt.DeepEquals, []float32{1, 3, -2})
	c.Assert(remapped.Normals, qt.DeepEquals, []float32{0, 0, -1})
}

func TestIFCBFrameRoundTrip(t *testing.T) {
	c := qt.New(t)

	model, err := Decode(Options{R: strings.NewReader(plainWallFixture)})
	c.Assert(err, qt.IsNil)

	ids := model.EntitiesWithGeometry()
	results, err := model.BatchGeometry(ids)
	c.Assert(err, qt.IsNil)

	var geoms []EntityGeometry
	for _, r := range results {
		if r.Err == nil {
			geoms = append(geoms, r.Geometry)
		}
	}
	c.Assert(len(geoms) > 0, qt.Equals, true)

	var buf bytes.Buffer
	c.Assert(WriteIFCBFrame(&buf, geoms), qt.IsNil)

	roundTripped, err := ReadIFCBFrame(&buf)
	c.Assert(err, qt.IsNil)
	c.Assert(len(roundTripped), qt.Equals, len(geoms))

	for i, g := range geoms {
		got := roundTripped[i]
		c.Assert(got.EntityID, qt.Equals, g.EntityID)
		c.Assert(got.TypeName, qt.Equals, g.TypeName)
		c.Assert(got.Mesh.Positions, qt.DeepEquals, g.Mesh.Positions)
		c.Assert(got.Mesh.Indices, qt.DeepEquals, g.Mesh.Indices)
		c.Assert(got.Color, qt.Equals, g.Color)
	}
}

func TestReadIFCBFrameRejectsBadMagic(t *testing.T) {
	c := qt.New(t)
	_, err := ReadIFCBFrame(bytes.NewReader([]byte{0, 0, 0, 0}))
	c.Assert(err, qt.Not(qt.IsNil))
	c.Assert(IsInvalidFormat(err), qt.Equals, true)
}

func TestEntityMetadataForAndAll(t *testing.T) {
	c := qt.New(t)

	model, err := Decode(Options{R: strings.NewReader(plainWallFixture)})
	c.Assert(err, qt.IsNil)

	walls := model.Resolver().EntitiesByType(IfcWall)
	c.Assert(len(walls), qt.Equals, 1)

	meta, ok := model.EntityMetadataFor(walls[0].ID)
	c.Assert(ok, qt.Equals, true)
	c.Assert(meta.EntityType, qt.Equals, "IFCWALL")
	c.Assert(meta.Name, qt.Equals, "Wall")

	all := model.EntityMetadataAll()
	c.Assert(len(all), qt.Equals, 1)
	c.Assert(all[0].ID, qt.Equals, walls[0].ID)
}
