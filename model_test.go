// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import (
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestDecodeRejectsNilReader(t *testing.T) {
	c := qt.New(t)
	_, err := Decode(Options{})
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestDecodeRejectsNonStepContent(t *testing.T) {
	c := qt.New(t)
	_, err := Decode(Options{R: strings.NewReader("not a step file")})
	c.Assert(err, qt.Not(qt.IsNil))
	c.Assert(IsInvalidFormat(err), qt.Equals, true)
}

func TestDecodeHeaderAndCounts(t *testing.T) {
	c := qt.New(t)

	model, err := Decode(Options{R: strings.NewReader(plainWallFixture)})
	c.Assert(err, qt.IsNil)

	c.Assert(model.Metadata.SchemaVersion, qt.Equals, "IFC4")
	c.Assert(model.Metadata.FileName, qt.Equals, "wall.ifc")
	c.Assert(model.Metadata.Author, qt.Equals, "Tester")
	c.Assert(model.UnitScale(), qt.Equals, 1.0)
	c.Assert(model.EntityCount() > 0, qt.Equals, true)

	walls := model.Resolver().EntitiesByType(IfcWall)
	c.Assert(len(walls), qt.Equals, 1)
}

func TestDecodeCallsProgress(t *testing.T) {
	c := qt.New(t)

	var calls [][2]int
	_, err := Decode(Options{
		R: strings.NewReader(plainWallFixture),
		Progress: func(processed, total int) {
			calls = append(calls, [2]int{processed, total})
		},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(len(calls) > 0, qt.Equals, true)
	c.Assert(calls[len(calls)-1][0], qt.Equals, calls[len(calls)-1][1])
}

func TestDecodeTimeoutExceeded(t *testing.T) {
	c := qt.New(t)
	_, err := Decode(Options{R: strings.NewReader(plainWallFixture), Timeout: 1})
	// A 1ns timeout should fire before the tiny fixture can possibly
	// finish decoding on any reasonable machine.
	if err == nil {
		t.Skip("decode finished before the timeout fired; not a flake worth failing on")
	}
	c.Assert(err.Error(), qt.Contains, "timed out")
}

func TestDecodeRespectsGenerousTimeout(t *testing.T) {
	c := qt.New(t)
	model, err := Decode(Options{R: strings.NewReader(plainWallFixture), Timeout: time.Second})
	c.Assert(err, qt.IsNil)
	c.Assert(model, qt.Not(qt.IsNil))
}

func TestElementGeometryPlainWall(t *testing.T) {
	c := qt.New(t)

	model, err := Decode(Options{R: strings.NewReader(plainWallFixture)})
	c.Assert(err, qt.IsNil)

	walls := model.Resolver().EntitiesByType(IfcWall)
	c.Assert(len(walls), qt.Equals, 1)

	mesh, err := model.ElementGeometry(walls[0].ID)
	c.Assert(err, qt.IsNil)
	c.Assert(mesh.IsEmpty(), qt.Equals, false)
	c.Assert(mesh.TriangleCount() > 0, qt.Equals, true)
}

func TestAllGeometryMergesEveryElement(t *testing.T) {
	c := qt.New(t)

	model, err := Decode(Options{R: strings.NewReader(plainWallFixture)})
	c.Assert(err, qt.IsNil)

	mesh, err := model.AllGeometry()
	c.Assert(err, qt.IsNil)
	c.Assert(mesh.IsEmpty(), qt.Equals, false)
}
