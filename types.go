// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import "strings"

// IfcType identifies the declared type of a STEP entity record.
//
// Only the variants the geometry, spatial and property subsystems
// need to dispatch on by name are enumerated explicitly; everything
// else round-trips through IfcTypeUnknown plus its raw name, which is
// kept in DecodedEntity.TypeName.
type IfcType int

const (
	IfcTypeUnknown IfcType = iota

	// Spatial structure.
	IfcProject
	IfcSite
	IfcBuilding
	IfcBuildingStorey
	IfcSpace
	IfcFacility
	IfcFacilityPart

	// Building elements with geometry.
	IfcWall
	IfcWallStandardCase
	IfcCurtainWall
	IfcSlab
	IfcRoof
	IfcBeam
	IfcColumn
	IfcDoor
	IfcWindow
	IfcStair
	IfcStairFlight
	IfcRamp
	IfcRampFlight
	IfcRailing
	IfcCovering
	IfcPlate
	IfcMember
	IfcFooting
	IfcPile
	IfcBuildingElementProxy
	IfcFurnishingElement
	IfcFurniture
	IfcDistributionElement
	IfcFlowTerminal
	IfcFlowSegment
	IfcFlowFitting
	IfcOpeningElement

	// Relationships.
	IfcRelAggregates
	IfcRelContainedInSpatialStructure
	IfcRelDefinesByProperties
	IfcRelVoidsElement
	IfcRelFillsElement

	// Representation / geometry items.
	IfcProductDefinitionShape
	IfcShapeRepresentation
	IfcExtrudedAreaSolid
	IfcRevolvedAreaSolid
	IfcSweptDiskSolid
	IfcFacetedBrep
	IfcTriangulatedFaceSet
	IfcMappedItem
	IfcRepresentationMap
	IfcClosedShell
	IfcOpenShell
	IfcFace
	IfcFaceOuterBound
	IfcFaceBound
	IfcPolyLoop
	IfcPolygonalFaceSet

	// Placement.
	IfcLocalPlacement
	IfcAxis2Placement3D
	IfcAxis2Placement2D
	IfcCartesianTransformationOperator3D
	IfcCartesianTransformationOperator3DnonUniform
	IfcCartesianPoint
	IfcDirection

	// Profiles.
	IfcRectangleProfileDef
	IfcRectangleHollowProfileDef
	IfcCircleProfileDef
	IfcCircleHollowProfileDef
	IfcEllipseProfileDef
	IfcIShapeProfileDef
	IfcLShapeProfileDef
	IfcTShapeProfileDef
	IfcUShapeProfileDef
	IfcCShapeProfileDef
	IfcZShapeProfileDef
	IfcAsymmetricIShapeProfileDef
	IfcTrapeziumProfileDef
	IfcCompositeProfileDef
	IfcDerivedProfileDef
	IfcArbitraryClosedProfileDef
	IfcArbitraryProfileDefWithVoids

	// Units.
	IfcUnitAssignment
	IfcSIUnit
	IfcConversionBasedUnit
	IfcMeasureWithUnit

	// Properties / quantities.
	IfcPropertySet
	IfcElementQuantity
	IfcPropertySingleValue
	IfcPropertyEnumeratedValue
	IfcPropertyBoundedValue
	IfcPropertyListValue
	IfcQuantityLength
	IfcQuantityArea
	IfcQuantityVolume
	IfcQuantityCount
	IfcQuantityWeight
	IfcQuantityTime

	ifcTypeSentinelCount
)

var ifcTypeNames = map[IfcType]string{
	IfcProject:                        "IFCPROJECT",
	IfcSite:                           "IFCSITE",
	IfcBuilding:                       "IFCBUILDING",
	IfcBuildingStorey:                 "IFCBUILDINGSTOREY",
	IfcSpace:                          "IFCSPACE",
	IfcFacility:                       "IFCFACILITY",
	IfcFacilityPart:                   "IFCFACILITYPART",
	IfcWall:                           "IFCWALL",
	IfcWallStandardCase:               "IFCWALLSTANDARDCASE",
	IfcCurtainWall:                    "IFCCURTAINWALL",
	IfcSlab:                           "IFCSLAB",
	IfcRoof:                           "IFCROOF",
	IfcBeam:                           "IFCBEAM",
	IfcColumn:                        "IFCCOLUMN",
	IfcDoor:                           "IFCDOOR",
	IfcWindow:                         "IFCWINDOW",
	IfcStair:                          "IFCSTAIR",
	IfcStairFlight:                    "IFCSTAIRFLIGHT",
	IfcRamp:                           "IFCRAMP",
	IfcRampFlight:                     "IFCRAMPFLIGHT",
	IfcRailing:                        "IFCRAILING",
	IfcCovering:                       "IFCCOVERING",
	IfcPlate:                          "IFCPLATE",
	IfcMember:                         "IFCMEMBER",
	IfcFooting:                        "IFCFOOTING",
	IfcPile:                           "IFCPILE",
	IfcBuildingElementProxy:           "IFCBUILDINGELEMENTPROXY",
	IfcFurnishingElement:              "IFCFURNISHINGELEMENT",
	IfcFurniture:                      "IFCFURNITURE",
	IfcDistributionElement:            "IFCDISTRIBUTIONELEMENT",
	IfcFlowTerminal:                   "IFCFLOWTERMINAL",
	IfcFlowSegment:                    "IFCFLOWSEGMENT",
	IfcFlowFitting:                    "IFCFLOWFITTING",
	IfcOpeningElement:                 "IFCOPENINGELEMENT",
	IfcRelAggregates:                  "IFCRELAGGREGATES",
	IfcRelContainedInSpatialStructure: "IFCRELCONTAINEDINSPATIALSTRUCTURE",
	IfcRelDefinesByProperties:         "IFCRELDEFINESBYPROPERTIES",
	IfcRelVoidsElement:                "IFCRELVOIDSELEMENT",
	IfcRelFillsElement:                "IFCRELFILLSELEMENT",
	IfcProductDefinitionShape:         "IFCPRODUCTDEFINITIONSHAPE",
	IfcShapeRepresentation:            "IFCSHAPEREPRESENTATION",
	IfcExtrudedAreaSolid:              "IFCEXTRUDEDAREASOLID",
	IfcRevolvedAreaSolid:              "IFCREVOLVEDAREASOLID",
	IfcSweptDiskSolid:                 "IFCSWEPTDISKSOLID",
	IfcFacetedBrep:                    "IFCFACETEDBREP",
	IfcTriangulatedFaceSet:            "IFCTRIANGULATEDFACESET",
	IfcMappedItem:                     "IFCMAPPEDITEM",
	IfcRepresentationMap:              "IFCREPRESENTATIONMAP",
	IfcClosedShell:                    "IFCCLOSEDSHELL",
	IfcOpenShell:                      "IFCOPENSHELL",
	IfcFace:                           "IFCFACE",
	IfcFaceOuterBound:                 "IFCFACEOUTERBOUND",
	IfcFaceBound:                      "IFCFACEBOUND",
	IfcPolyLoop:                       "IFCPOLYLOOP",
	IfcPolygonalFaceSet:               "IFCPOLYGONALFACESET",
	IfcLocalPlacement:                 "IFCLOCALPLACEMENT",
	IfcAxis2Placement3D:               "IFCAXIS2PLACEMENT3D",
	IfcAxis2Placement2D:               "IFCAXIS2PLACEMENT2D",
	IfcCartesianTransformationOperator3D:            "IFCCARTESIANTRANSFORMATIONOPERATOR3D",
	IfcCartesianTransformationOperator3DnonUniform:  "IFCCARTESIANTRANSFORMATIONOPERATOR3DNONUNIFORM",
	IfcCartesianPoint:                 "IFCCARTESIANPOINT",
	IfcDirection:                      "IFCDIRECTION",
	IfcRectangleProfileDef:            "IFCRECTANGLEPROFILEDEF",
	IfcRectangleHollowProfileDef:      "IFCRECTANGLEHOLLOWPROFILEDEF",
	IfcCircleProfileDef:               "IFCCIRCLEPROFILEDEF",
	IfcCircleHollowProfileDef:         "IFCCIRCLEHOLLOWPROFILEDEF",
	IfcEllipseProfileDef:              "IFCELLIPSEPROFILEDEF",
	IfcIShapeProfileDef:               "IFCISHAPEPROFILEDEF",
	IfcLShapeProfileDef:               "IFCLSHAPEPROFILEDEF",
	IfcTShapeProfileDef:               "IFCTSHAPEPROFILEDEF",
	IfcUShapeProfileDef:               "IFCUSHAPEPROFILEDEF",
	IfcCShapeProfileDef:               "IFCCSHAPEPROFILEDEF",
	IfcZShapeProfileDef:               "IFCZSHAPEPROFILEDEF",
	IfcAsymmetricIShapeProfileDef:     "IFCASYMMETRICISHAPEPROFILEDEF",
	IfcTrapeziumProfileDef:            "IFCTRAPEZIUMPROFILEDEF",
	IfcCompositeProfileDef:            "IFCCOMPOSITEPROFILEDEF",
	IfcDerivedProfileDef:              "IFCDERIVEDPROFILEDEF",
	IfcArbitraryClosedProfileDef:      "IFCARBITRARYCLOSEDPROFILEDEF",
	IfcArbitraryProfileDefWithVoids:   "IFCARBITRARYPROFILEDEFWITHVOIDS",
	IfcUnitAssignment:                 "IFCUNITASSIGNMENT",
	IfcSIUnit:                         "IFCSIUNIT",
	IfcConversionBasedUnit:            "IFCCONVERSIONBASEDUNIT",
	IfcMeasureWithUnit:                "IFCMEASUREWITHUNIT",
	IfcPropertySet:                    "IFCPROPERTYSET",
	IfcElementQuantity:                "IFCELEMENTQUANTITY",
	IfcPropertySingleValue:            "IFCPROPERTYSINGLEVALUE",
	IfcPropertyEnumeratedValue:        "IFCPROPERTYENUMERATEDVALUE",
	IfcPropertyBoundedValue:           "IFCPROPERTYBOUNDEDVALUE",
	IfcPropertyListValue:              "IFCPROPERTYLISTVALUE",
	IfcQuantityLength:                 "IFCQUANTITYLENGTH",
	IfcQuantityArea:                   "IFCQUANTITYAREA",
	IfcQuantityVolume:                 "IFCQUANTITYVOLUME",
	IfcQuantityCount:                  "IFCQUANTITYCOUNT",
	IfcQuantityWeight:                 "IFCQUANTITYWEIGHT",
	IfcQuantityTime:                   "IFCQUANTITYTIME",
}

var ifcTypeByName map[string]IfcType

func init() {
	ifcTypeByName = make(map[string]IfcType, len(ifcTypeNames))
	for t, name := range ifcTypeNames {
		ifcTypeByName[name] = t
	}
}

// parseIfcType maps a STEP entity keyword (case-insensitive) to its
// IfcType. Unrecognized keywords all resolve to the IfcTypeUnknown
// sentinel; callers that need to tell distinct unknown types apart
// (type indices, type-name lookups) must key on the original name
// string alongside it rather than on the returned IfcType — see
// DecodedEntity.TypeName and resolverImpl.unknownTypeIndex.
func parseIfcType(name string) IfcType {
	upper := strings.ToUpper(name)
	if t, ok := ifcTypeByName[upper]; ok {
		return t
	}
	return IfcTypeUnknown
}

// String returns the canonical STEP keyword for t, or "UNKNOWN" for
// IfcTypeUnknown (use DecodedEntity.TypeName to recover the original
// text in that case).
func (t IfcType) String() string {
	if name, ok := ifcTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

var hasGeometryTypes = map[IfcType]bool{
	IfcWall: true, IfcWallStandardCase: true, IfcCurtainWall: true,
	IfcSlab: true, IfcRoof: true, IfcBeam: true, IfcColumn: true,
	IfcDoor: true, IfcWindow: true, IfcStair: true, IfcStairFlight: true,
	IfcRamp: true, IfcRampFlight: true, IfcRailing: true, IfcCovering: true,
	IfcPlate: true, IfcMember: true, IfcFooting: true, IfcPile: true,
	IfcBuildingElementProxy: true, IfcFurnishingElement: true, IfcFurniture: true,
	IfcDistributionElement: true, IfcFlowTerminal: true, IfcFlowSegment: true,
	IfcFlowFitting: true, IfcOpeningElement: true,
}

// HasGeometry reports whether entities of type t typically carry a
// product shape representation worth routing through the geometry
// subsystem.
func (t IfcType) HasGeometry() bool {
	return hasGeometryTypes[t]
}

var spatialTypes = map[IfcType]bool{
	IfcProject: true, IfcSite: true, IfcBuilding: true,
	IfcBuildingStorey: true, IfcSpace: true, IfcFacility: true,
	IfcFacilityPart: true,
}

// IsSpatial reports whether t is one of the spatial-structure element
// types that can appear as a node in the spatial tree.
func (t IfcType) IsSpatial() bool {
	return spatialTypes[t]
}
