// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

// wallWithVoidsFixture is a minimal but complete STEP file: one
// project, one wall (a 4000x200 rectangular footprint extruded
// 3000 high), and two IfcOpeningElements related to it via
// IfcRelVoidsElement — one spanning the wall's full height (a
// through-cut) and one spanning only part of it (a blind recess).
const wallWithVoidsFixture = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION(('test fixture'),'2;1');
FILE_NAME('wall.ifc','2024-01-01T00:00:00',('Tester'),('ifclite'),'','','');
FILE_SCHEMA(('IFC4'));
ENDSEC;
DATA;
#1=IFCPROJECT('0000000000000000000001',$,'Project',$,$,$,$,$,$);

#10=IFCCARTESIANPOINT((0.,0.,0.));
#11=IFCDIRECTION((0.,0.,1.));
#12=IFCDIRECTION((1.,0.,0.));
#13=IFCAXIS2PLACEMENT3D(#10,#11,#12);
#14=IFCLOCALPLACEMENT($,#13);

#21=IFCRECTANGLEPROFILEDEF(.AREA.,$,$,4000.,200.);
#23=IFCDIRECTION((0.,0.,1.));
#24=IFCEXTRUDEDAREASOLID(#21,$,#23,3000.);
#25=IFCSHAPEREPRESENTATION($,'Body','SweptSolid',(#24));
#26=IFCPRODUCTDEFINITIONSHAPE($,(#25));
#30=IFCWALL('0000000000000000000030',$,'Wall',$,$,#14,#26,$);

#40=IFCCARTESIANPOINT((1000.,0.,0.));
#41=IFCDIRECTION((0.,0.,1.));
#42=IFCDIRECTION((1.,0.,0.));
#43=IFCAXIS2PLACEMENT3D(#40,#41,#42);
#44=IFCLOCALPLACEMENT($,#43);
#45=IFCRECTANGLEPROFILEDEF(.AREA.,$,$,400.,200.);
#46=IFCDIRECTION((0.,0.,1.));
#47=IFCEXTRUDEDAREASOLID(#45,$,#46,3000.);
#48=IFCSHAPEREPRESENTATION($,'Body','SweptSolid',(#47));
#49=IFCPRODUCTDEFINITIONSHAPE($,(#48));
#50=IFCOPENINGELEMENT('0000000000000000000050',$,'OpeningThrough',$,$,#44,#49,$);

#60=IFCCARTESIANPOINT((2500.,0.,0.));
#61=IFCDIRECTION((0.,0.,1.));
#62=IFCDIRECTION((1.,0.,0.));
#63=IFCAXIS2PLACEMENT3D(#60,#61,#62);
#64=IFCLOCALPLACEMENT($,#63);
#65=IFCRECTANGLEPROFILEDEF(.AREA.,$,$,300.,200.);
#66=IFCDIRECTION((0.,0.,1.));
#67=IFCEXTRUDEDAREASOLID(#65,$,#66,1000.);
#68=IFCSHAPEREPRESENTATION($,'Body','SweptSolid',(#67));
#69=IFCPRODUCTDEFINITIONSHAPE($,(#68));
#70=IFCOPENINGELEMENT('0000000000000000000070',$,'OpeningPartial',$,$,#64,#69,$);

#80=IFCRELVOIDSELEMENT('0000000000000000000080',$,$,$,#30,#50);
#81=IFCRELVOIDSELEMENT('0000000000000000000081',$,$,$,#30,#70);

#90=IFCRELCONTAINEDINSPATIALSTRUCTURE('0000000000000000000090',$,$,$,(#30),#1);
ENDSEC;
END-ISO-10303-21;
`

// plainWallFixture is the same wall with no openings at all, used as
// a baseline to compare triangle/vertex counts against.
const plainWallFixture = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION(('test fixture'),'2;1');
FILE_NAME('wall.ifc','2024-01-01T00:00:00',('Tester'),('ifclite'),'','','');
FILE_SCHEMA(('IFC4'));
ENDSEC;
DATA;
#1=IFCPROJECT('0000000000000000000001',$,'Project',$,$,$,$,$,$);

#10=IFCCARTESIANPOINT((0.,0.,0.));
#11=IFCDIRECTION((0.,0.,1.));
#12=IFCDIRECTION((1.,0.,0.));
#13=IFCAXIS2PLACEMENT3D(#10,#11,#12);
#14=IFCLOCALPLACEMENT($,#13);

#21=IFCRECTANGLEPROFILEDEF(.AREA.,$,$,4000.,200.);
#23=IFCDIRECTION((0.,0.,1.));
#24=IFCEXTRUDEDAREASOLID(#21,$,#23,3000.);
#25=IFCSHAPEREPRESENTATION($,'Body','SweptSolid',(#24));
#26=IFCPRODUCTDEFINITIONSHAPE($,(#25));
#30=IFCWALL('0000000000000000000030',$,'Wall',$,$,#14,#26,$);

#90=IFCRELCONTAINEDINSPATIALSTRUCTURE('0000000000000000000090',$,$,$,(#30),#1);
ENDSEC;
END-ISO-10303-21;
`
