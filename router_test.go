// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

const mappedItemFixture = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION(('test fixture'),'2;1');
FILE_NAME('mapped.ifc','2024-01-01T00:00:00',('Tester'),('ifclite'),'','','');
FILE_SCHEMA(('IFC4'));
ENDSEC;
DATA;
#1=IFCRECTANGLEPROFILEDEF(.AREA.,$,$,300.,300.);
#2=IFCDIRECTION((0.,0.,1.));
#3=IFCEXTRUDEDAREASOLID(#1,$,#2,500.);
#5=IFCCARTESIANPOINT((0.,0.,0.));
#6=IFCDIRECTION((0.,0.,1.));
#7=IFCDIRECTION((1.,0.,0.));
#8=IFCAXIS2PLACEMENT3D(#5,#6,#7);
#9=IFCREPRESENTATIONMAP(#8,#3);

#20=IFCCARTESIANPOINT((1000.,0.,0.));
#21=IFCDIRECTION((0.,0.,1.));
#22=IFCDIRECTION((1.,0.,0.));
#23=IFCAXIS2PLACEMENT3D(#20,#21,#22);
#24=IFCMAPPEDITEM(#9,#23);

#30=IFCCARTESIANPOINT((2000.,0.,0.));
#31=IFCDIRECTION((0.,0.,1.));
#32=IFCDIRECTION((1.,0.,0.));
#33=IFCAXIS2PLACEMENT3D(#30,#31,#32);
#34=IFCMAPPEDITEM(#9,#33);
ENDSEC;
END-ISO-10303-21;
`

func TestProcessMappedItemSharesSourceCache(t *testing.T) {
	c := qt.New(t)

	resolver := newResolver([]byte(mappedItemFixture))
	router := NewDefaultGeometryRouter()

	first, ok := resolver.Get(24)
	c.Assert(ok, qt.Equals, true)
	second, ok := resolver.Get(34)
	c.Assert(ok, qt.Equals, true)

	meshA, err := router.ProcessRepresentationItem(first, resolver)
	c.Assert(err, qt.IsNil)
	c.Assert(meshA.IsEmpty(), qt.Equals, false)

	meshB, err := router.ProcessRepresentationItem(second, resolver)
	c.Assert(err, qt.IsNil)
	c.Assert(meshB.VertexCount(), qt.Equals, meshA.VertexCount())

	// Both mapped items reference the same IfcRepresentationMap
	// source, so only one source decode should ever be cached.
	c.Assert(router.mappedItemCache.Len(), qt.Equals, 1)

	// The two instances sit at different target placements, so their
	// world-space geometry must actually differ despite sharing a
	// cached source mesh.
	c.Assert(meshA.Positions, qt.Not(qt.DeepEquals), meshB.Positions)
}

func TestDedupCacheReturnsStoredMeshForIdenticalContent(t *testing.T) {
	c := qt.New(t)

	router := NewDefaultGeometryRouter()
	mesh := MeshData{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:   []uint32{0, 1, 2},
	}

	_, ok := router.GetDeduplicated(mesh)
	c.Assert(ok, qt.Equals, false)

	router.StoreDeduplicated(mesh)
	router.dedupCache.Wait()

	got, ok := router.GetDeduplicated(mesh)
	c.Assert(ok, qt.Equals, true)
	c.Assert(got.Indices, qt.DeepEquals, mesh.Indices)
}

func TestHasProcessorRegistration(t *testing.T) {
	c := qt.New(t)

	router := NewDefaultGeometryRouter()
	c.Assert(router.HasProcessor(IfcExtrudedAreaSolid), qt.Equals, true)
	c.Assert(router.HasProcessor(IfcWall), qt.Equals, false)
}
