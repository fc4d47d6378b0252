// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

const wallWithPropertiesFixture = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION(('test fixture'),'2;1');
FILE_NAME('wall.ifc','2024-01-01T00:00:00',('Tester'),('ifclite'),'','','');
FILE_SCHEMA(('IFC4'));
ENDSEC;
DATA;
#1=IFCPROJECT('0000000000000000000001',$,'Project',$,$,$,$,$,$);
#30=IFCWALL('0000000000000000000030',$,'Wall','A load-bearing wall',$,$,$,$);

#40=IFCSIUNIT(*,.LENGTHUNIT.,.MILLI.,.METRE.);
#41=IFCPROPERTYSINGLEVALUE('FireRating',$,IFCLABEL('REI60'),$);
#42=IFCPROPERTYSINGLEVALUE('Width',$,IFCLENGTHMEASURE(200.),#40);
#43=IFCPROPERTYSET('0000000000000000000043',$,'Pset_WallCommon',$,(#41,#42));
#44=IFCRELDEFINESBYPROPERTIES('0000000000000000000044',$,$,$,(#30),#43);

#50=IFCQUANTITYLENGTH('Length',$,$,4000.,$);
#51=IFCQUANTITYAREA('NetSideArea',$,$,8.,$);
#52=IFCELEMENTQUANTITY('0000000000000000000052',$,'Qto_WallBaseQuantities',$,$,(#50,#51));
#53=IFCRELDEFINESBYPROPERTIES('0000000000000000000053',$,$,$,(#30),#52);
ENDSEC;
END-ISO-10303-21;
`

func TestPropertySetsExtractsValues(t *testing.T) {
	c := qt.New(t)

	model, err := Decode(Options{R: strings.NewReader(wallWithPropertiesFixture)})
	c.Assert(err, qt.IsNil)

	walls := model.Resolver().EntitiesByType(IfcWall)
	c.Assert(len(walls), qt.Equals, 1)

	psets := model.Properties().PropertySets(walls[0].ID)
	c.Assert(len(psets), qt.Equals, 1)
	c.Assert(psets[0].Name, qt.Equals, "Pset_WallCommon")
	c.Assert(len(psets[0].Properties), qt.Equals, 2)

	byName := map[string]Property{}
	for _, p := range psets[0].Properties {
		byName[p.Name] = p
	}
	c.Assert(byName["FireRating"].Value, qt.Equals, "REI60")
	c.Assert(byName["Width"].Value, qt.Equals, "200")
	c.Assert(byName["Width"].Unit, qt.Equals, "mm")
}

func TestQuantitiesExtractsValues(t *testing.T) {
	c := qt.New(t)

	model, err := Decode(Options{R: strings.NewReader(wallWithPropertiesFixture)})
	c.Assert(err, qt.IsNil)

	walls := model.Resolver().EntitiesByType(IfcWall)
	qsets := model.Properties().Quantities(walls[0].ID)
	c.Assert(len(qsets), qt.Equals, 1)
	c.Assert(qsets[0].Name, qt.Equals, "Qto_WallBaseQuantities")

	byName := map[string]Quantity{}
	for _, q := range qsets[0].Quantities {
		byName[q.Name] = q
	}
	c.Assert(byName["Length"].Value, qt.Equals, 4000.0)
	c.Assert(byName["Length"].Kind, qt.Equals, "length")
	c.Assert(byName["NetSideArea"].Value, qt.Equals, 8.0)
	c.Assert(byName["NetSideArea"].Kind, qt.Equals, "area")
}

func TestRootAttributeAccessors(t *testing.T) {
	c := qt.New(t)

	model, err := Decode(Options{R: strings.NewReader(wallWithPropertiesFixture)})
	c.Assert(err, qt.IsNil)

	walls := model.Resolver().EntitiesByType(IfcWall)
	id := walls[0].ID

	guid, ok := model.Properties().GlobalID(id)
	c.Assert(ok, qt.Equals, true)
	c.Assert(guid, qt.Equals, "0000000000000000000030")

	name, ok := model.Properties().Name(id)
	c.Assert(ok, qt.Equals, true)
	c.Assert(name, qt.Equals, "Wall")

	desc, ok := model.Properties().Description(id)
	c.Assert(ok, qt.Equals, true)
	c.Assert(desc, qt.Equals, "A load-bearing wall")
}

func TestPropertySetsEmptyForUnrelatedEntity(t *testing.T) {
	c := qt.New(t)

	model, err := Decode(Options{R: strings.NewReader(wallWithPropertiesFixture)})
	c.Assert(err, qt.IsNil)

	projects := model.Resolver().EntitiesByType(IfcProject)
	c.Assert(len(model.Properties().PropertySets(projects[0].ID)), qt.Equals, 0)
}
