// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import "math"

// GeometryProcessor turns one representation-item entity (an
// IfcExtrudedAreaSolid, IfcTriangulatedFaceSet, ...) into mesh data
// in file units. Processors for items with a Position attribute apply
// it themselves; the router then applies any MappingTarget or product
// placement and the unit scale.
type GeometryProcessor interface {
	Process(entity *DecodedEntity, r EntityResolver, unitScale float64) (MeshData, error)
	SupportedTypes() []IfcType
}

// extractProfile builds a Profile2D from any of the profile-def
// entity types the geometry subsystem understands. Unsupported or
// malformed profiles return an empty profile rather than an error,
// leaving a hole in the mesh instead of failing the whole item.
func extractProfile(r EntityResolver, profileEntity *DecodedEntity) Profile2D {
	switch profileEntity.Type {
	case IfcRectangleProfileDef:
		x, _ := profileEntity.GetFloat(3)
		y, _ := profileEntity.GetFloat(4)
		return applyProfilePosition(r, profileEntity, RectangleProfile(x, y))
	case IfcRectangleHollowProfileDef:
		x, _ := profileEntity.GetFloat(3)
		y, _ := profileEntity.GetFloat(4)
		t, _ := profileEntity.GetFloat(5)
		return applyProfilePosition(r, profileEntity, HollowRectangleProfile(x, y, t))
	case IfcCircleProfileDef:
		rad, _ := profileEntity.GetFloat(3)
		return applyProfilePosition(r, profileEntity, CircleProfile(rad))
	case IfcCircleHollowProfileDef:
		rad, _ := profileEntity.GetFloat(3)
		t, _ := profileEntity.GetFloat(4)
		return applyProfilePosition(r, profileEntity, HollowCircleProfile(rad, t))
	case IfcIShapeProfileDef:
		w, _ := profileEntity.GetFloat(3)
		d, _ := profileEntity.GetFloat(4)
		webT, _ := profileEntity.GetFloat(5)
		flangeT, _ := profileEntity.GetFloat(6)
		return applyProfilePosition(r, profileEntity, IShapeProfile(w, d, webT, flangeT))
	case IfcAsymmetricIShapeProfileDef:
		// Approximate with the symmetric I profile using the
		// bottom-flange width; the asymmetry (different top/bottom
		// flange widths) is a refinement no consumer in scope
		// depends on for now.
		w, _ := profileEntity.GetFloat(3)
		d, _ := profileEntity.GetFloat(5)
		webT, _ := profileEntity.GetFloat(6)
		flangeT, _ := profileEntity.GetFloat(7)
		return applyProfilePosition(r, profileEntity, IShapeProfile(w, d, webT, flangeT))
	case IfcLShapeProfileDef:
		d, _ := profileEntity.GetFloat(3)
		w, ok := profileEntity.GetFloat(4)
		if !ok {
			w = d
		}
		t, _ := profileEntity.GetFloat(5)
		return applyProfilePosition(r, profileEntity, LShapeProfile(d, w, t))
	case IfcTShapeProfileDef:
		d, _ := profileEntity.GetFloat(3)
		w, _ := profileEntity.GetFloat(4)
		webT, _ := profileEntity.GetFloat(5)
		flangeT, _ := profileEntity.GetFloat(6)
		return applyProfilePosition(r, profileEntity, TShapeProfile(w, d, webT, flangeT))
	case IfcUShapeProfileDef:
		d, _ := profileEntity.GetFloat(3)
		w, _ := profileEntity.GetFloat(4)
		webT, _ := profileEntity.GetFloat(5)
		flangeT, _ := profileEntity.GetFloat(6)
		return applyProfilePosition(r, profileEntity, UShapeProfile(d, w, webT, flangeT))
	case IfcCShapeProfileDef:
		d, _ := profileEntity.GetFloat(3)
		w, _ := profileEntity.GetFloat(4)
		t, _ := profileEntity.GetFloat(6)
		return applyProfilePosition(r, profileEntity, UShapeProfile(d, w, t, t))
	case IfcZShapeProfileDef:
		d, _ := profileEntity.GetFloat(3)
		w, _ := profileEntity.GetFloat(4)
		webT, _ := profileEntity.GetFloat(5)
		flangeT, _ := profileEntity.GetFloat(6)
		return applyProfilePosition(r, profileEntity, ZShapeProfile(d, w, webT, flangeT))
	case IfcTrapeziumProfileDef:
		bottom, _ := profileEntity.GetFloat(3)
		top, _ := profileEntity.GetFloat(4)
		h, _ := profileEntity.GetFloat(5)
		offset, _ := profileEntity.GetFloat(6)
		return applyProfilePosition(r, profileEntity, TrapeziumProfile(bottom, top, h, offset))
	case IfcArbitraryClosedProfileDef:
		return applyProfilePosition(r, profileEntity, extractArbitraryProfile(r, profileEntity))
	case IfcArbitraryProfileDefWithVoids:
		return applyProfilePosition(r, profileEntity, extractArbitraryProfileWithVoids(r, profileEntity))
	default:
		return Profile2D{}
	}
}

// applyProfilePosition applies an IfcParameterizedProfileDef's
// optional Position (index 2, an IfcAxis2Placement2D) to a
// profile built in its own local frame.
func applyProfilePosition(r EntityResolver, profileEntity *DecodedEntity, profile Profile2D) Profile2D {
	posRef, ok := profileEntity.Get(2)
	if !ok || posRef.IsNull() {
		return profile
	}
	posEntity, ok := r.ResolveRef(posRef)
	if !ok || posEntity.Type != IfcAxis2Placement2D {
		return profile
	}
	origin, ok := resolveCartesianPoint2D(r, posEntity, 0)
	if !ok {
		return profile
	}
	refDir := Vector2{1, 0}
	if dirRef, ok := posEntity.Get(1); ok && !dirRef.IsNull() {
		if dirEntity, ok := r.ResolveRef(dirRef); ok {
			refDir, _ = resolveDirection2D(dirEntity)
		}
	}
	angle := math.Atan2(refDir.Y, refDir.X)
	cosA, sinA := math.Cos(angle), math.Sin(angle)

	transform := func(p Vector2) Vector2 {
		return Vector2{
			origin.X + p.X*cosA - p.Y*sinA,
			origin.Y + p.X*sinA + p.Y*cosA,
		}
	}
	out := Profile2D{Outer: transformLoop(profile.Outer, transform)}
	for _, h := range profile.Holes {
		out.Holes = append(out.Holes, transformLoop(h, transform))
	}
	return out
}

func transformLoop(loop []Vector2, f func(Vector2) Vector2) []Vector2 {
	out := make([]Vector2, len(loop))
	for i, p := range loop {
		out[i] = f(p)
	}
	return out
}

func resolveCartesianPoint2D(r EntityResolver, entity *DecodedEntity, idx int) (Vector2, bool) {
	ref, ok := entity.Get(idx)
	if !ok {
		return Vector2{}, false
	}
	ptEntity, ok := r.ResolveRef(ref)
	if !ok {
		return Vector2{}, false
	}
	coords, ok := ptEntity.GetList(0)
	if !ok || len(coords) < 2 {
		return Vector2{}, false
	}
	x, _ := coords[0].AsFloat()
	y, _ := coords[1].AsFloat()
	return Vector2{x, y}, true
}

func resolveDirection2D(entity *DecodedEntity) (Vector2, bool) {
	ratios, ok := entity.GetList(0)
	if !ok || len(ratios) < 2 {
		return Vector2{1, 0}, false
	}
	x, _ := ratios[0].AsFloat()
	y, _ := ratios[1].AsFloat()
	return Vector2{x, y}, true
}

// extractArbitraryProfile reads IfcArbitraryClosedProfileDef's
// OuterCurve (an IfcPolyline, modeled here the same way IfcPolyLoop
// is: a Points list of IfcCartesianPoint refs), projecting its 3D
// points onto their own best-fit plane to get 2D profile
// coordinates.
func extractArbitraryProfile(r EntityResolver, profileEntity *DecodedEntity) Profile2D {
	curveRef, ok := profileEntity.Get(2)
	if !ok {
		return Profile2D{}
	}
	curve, ok := r.ResolveRef(curveRef)
	if !ok {
		return Profile2D{}
	}
	points3D := getCurvePoints(r, curve)
	if len(points3D) < 3 {
		return Profile2D{}
	}
	pts2D, _, _, _ := projectTo2D(points3D)
	return NewProfile2D(pts2D)
}

func extractArbitraryProfileWithVoids(r EntityResolver, profileEntity *DecodedEntity) Profile2D {
	profile := extractArbitraryProfile(r, profileEntity)
	innerRefs, ok := profileEntity.GetList(3)
	if !ok {
		return profile
	}
	for _, ref := range innerRefs {
		curve, ok := r.ResolveRef(ref)
		if !ok {
			continue
		}
		points3D := getCurvePoints(r, curve)
		if len(points3D) < 3 {
			continue
		}
		h2D, _, _, _ := projectTo2D(points3D)
		profile.AddHole(h2D)
	}
	return profile
}

// extrudedAreaSolidProcessor handles IfcExtrudedAreaSolid: extract
// the swept area's profile, extrude along ExtrudedDirection by Depth,
// then apply the solid's own Position. Process ignores openings;
// IfcRelVoidsElement openings are folded in by ProcessWithVoids
// (voids.go), which the router calls when the product has any.
type extrudedAreaSolidProcessor struct{}

func (extrudedAreaSolidProcessor) SupportedTypes() []IfcType {
	return []IfcType{IfcExtrudedAreaSolid}
}

func (extrudedAreaSolidProcessor) Process(entity *DecodedEntity, r EntityResolver, unitScale float64) (MeshData, error) {
	profileRef, ok := entity.Get(0)
	if !ok {
		return NewMeshData(), newGeometryErrorf("extruded area solid: missing SweptArea")
	}
	profileEntity, ok := r.ResolveRef(profileRef)
	if !ok {
		return NewMeshData(), newGeometryErrorf("extruded area solid: SweptArea not found")
	}
	profile := extractProfile(r, profileEntity)
	if len(profile.Outer) == 0 {
		return NewMeshData(), nil
	}

	direction := Vector3{0, 0, 1}
	if dirRef, ok := entity.Get(2); ok {
		if dirEntity, ok := r.ResolveRef(dirRef); ok {
			direction = resolveDirection(dirEntity)
		}
	}
	direction = direction.Normalize()

	depth, ok := entity.GetFloat(3)
	if !ok {
		return NewMeshData(), newGeometryErrorf("extruded area solid: missing Depth")
	}

	mesh := ExtrudeProfile(profile, direction, depth)

	if posRef, ok := entity.Get(1); ok && !posRef.IsNull() {
		if posEntity, ok := r.ResolveRef(posRef); ok {
			transform := resolveAxisPlacement(r, posEntity)
			mesh = transformMesh(mesh, transform)
		}
	}

	return mesh, nil
}

// triangulatedFaceSetProcessor handles IfcTriangulatedFaceSet:
// coordinates come pre-triangulated, so this is a direct remap of
// 1-based CoordIndex entries into a flat 0-based index buffer.
type triangulatedFaceSetProcessor struct{}

func (triangulatedFaceSetProcessor) SupportedTypes() []IfcType {
	return []IfcType{IfcTriangulatedFaceSet}
}

func (triangulatedFaceSetProcessor) Process(entity *DecodedEntity, r EntityResolver, unitScale float64) (MeshData, error) {
	coordRef, ok := entity.Get(0)
	if !ok {
		return NewMeshData(), newGeometryErrorf("triangulated face set: missing Coordinates")
	}
	coordEntity, ok := r.ResolveRef(coordRef)
	if !ok {
		return NewMeshData(), newGeometryErrorf("triangulated face set: Coordinates not found")
	}
	pointLists, ok := coordEntity.GetList(0)
	if !ok {
		return NewMeshData(), newGeometryErrorf("triangulated face set: malformed CoordList")
	}

	mesh := MeshDataWithCapacity(len(pointLists), 0)
	for _, pl := range pointLists {
		coords, ok := pl.AsList()
		if !ok || len(coords) < 3 {
			continue
		}
		x, _ := coords[0].AsFloat()
		y, _ := coords[1].AsFloat()
		z, _ := coords[2].AsFloat()
		mesh.Positions = append(mesh.Positions, float32(x), float32(y), float32(z))
	}

	idxList, ok := entity.GetList(3)
	if !ok {
		return NewMeshData(), newGeometryErrorf("triangulated face set: missing CoordIndex")
	}
	for _, tri := range idxList {
		idx, ok := tri.AsList()
		if !ok || len(idx) != 3 {
			continue
		}
		for _, v := range idx {
			n, _ := v.AsInteger()
			mesh.Indices = append(mesh.Indices, uint32(n-1))
		}
	}

	return mesh, nil
}

// facetedBrepProcessor handles IfcFacetedBrep: each face of the
// outer (and any inner) closed shell is a planar loop, triangulated
// in its own 2D projection and lifted back to 3D.
type facetedBrepProcessor struct{}

func (facetedBrepProcessor) SupportedTypes() []IfcType { return []IfcType{IfcFacetedBrep} }

func (facetedBrepProcessor) Process(entity *DecodedEntity, r EntityResolver, unitScale float64) (MeshData, error) {
	shellRef, ok := entity.Get(0)
	if !ok {
		return NewMeshData(), newGeometryErrorf("faceted brep: missing Outer")
	}
	shell, ok := r.ResolveRef(shellRef)
	if !ok {
		return NewMeshData(), newGeometryErrorf("faceted brep: Outer shell not found")
	}
	faceRefs, ok := shell.GetList(0)
	if !ok {
		return NewMeshData(), newGeometryErrorf("faceted brep: shell has no CfsFaces")
	}

	mesh := NewMeshData()
	for _, faceRef := range faceRefs {
		faceEntity, ok := r.ResolveRef(faceRef)
		if !ok {
			continue
		}
		faceMesh, ok := triangulateFace(r, faceEntity)
		if !ok {
			continue
		}
		mesh.Merge(faceMesh)
	}
	return mesh, nil
}

func triangulateFace(r EntityResolver, face *DecodedEntity) (MeshData, bool) {
	boundRefs, ok := face.GetList(0)
	if !ok || len(boundRefs) == 0 {
		return MeshData{}, false
	}

	var outer []Vector3
	var holes [][]Vector3
	for _, boundRef := range boundRefs {
		bound, ok := r.ResolveRef(boundRef)
		if !ok {
			continue
		}
		loopRef, ok := bound.Get(0)
		if !ok {
			continue
		}
		loop, ok := r.ResolveRef(loopRef)
		if !ok {
			continue
		}
		points := extractLoopPoints(r, loop)
		orientation, _ := bound.GetBool(1)
		if !orientation {
			points = reverseLoop(points)
		}
		if bound.Type == IfcFaceOuterBound || len(outer) == 0 {
			outer = points
		} else {
			holes = append(holes, points)
		}
	}
	if len(outer) < 3 {
		return MeshData{}, false
	}

	pts2D, origin, axisU, axisV := projectTo2D(outer)
	profile := NewProfile2D(pts2D)
	for _, hole := range holes {
		h2D, _, _, _ := projectTo2D(hole)
		profile.AddHole(h2D)
	}

	tri := profile.Triangulate()
	mesh := MeshDataWithCapacity(len(tri.Points), len(tri.Indices))
	normal := newellNormal(outer)
	for _, p := range tri.Points {
		pt := lift2DTo3D(p, origin, axisU, axisV)
		mesh.Positions = append(mesh.Positions, float32(pt.X), float32(pt.Y), float32(pt.Z))
		mesh.Normals = append(mesh.Normals, float32(normal.X), float32(normal.Y), float32(normal.Z))
	}
	mesh.Indices = tri.Indices
	return mesh, true
}

func extractLoopPoints(r EntityResolver, loop *DecodedEntity) []Vector3 {
	if loop.Type != IfcPolyLoop {
		return nil
	}
	refs, ok := loop.GetList(0)
	if !ok {
		return nil
	}
	pts := make([]Vector3, 0, len(refs))
	for _, ref := range refs {
		pt, ok := r.ResolveRef(ref)
		if !ok {
			continue
		}
		pts = append(pts, resolveCartesianPoint(pt))
	}
	return pts
}

func reverseLoop(pts []Vector3) []Vector3 {
	out := make([]Vector3, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// sweptDiskSolidProcessor handles IfcSweptDiskSolid: a circular
// cross-section swept along a directrix curve's point sequence.
type sweptDiskSolidProcessor struct{}

func (sweptDiskSolidProcessor) SupportedTypes() []IfcType { return []IfcType{IfcSweptDiskSolid} }

func (sweptDiskSolidProcessor) Process(entity *DecodedEntity, r EntityResolver, unitScale float64) (MeshData, error) {
	directrixRef, ok := entity.Get(0)
	if !ok {
		return NewMeshData(), newGeometryErrorf("swept disk solid: missing Directrix")
	}
	directrix, ok := r.ResolveRef(directrixRef)
	if !ok {
		return NewMeshData(), newGeometryErrorf("swept disk solid: Directrix not found")
	}
	radius, ok := entity.GetFloat(1)
	if !ok {
		return NewMeshData(), newGeometryErrorf("swept disk solid: missing Radius")
	}

	points := getCurvePoints(r, directrix)
	if len(points) < 2 {
		return NewMeshData(), nil
	}
	return SweepDiskAlongPolyline(points, radius, 12), nil
}

func getCurvePoints(r EntityResolver, curve *DecodedEntity) []Vector3 {
	switch curve.Type {
	case IfcPolyLoop:
		return extractLoopPoints(r, curve)
	default:
		// IfcPolyline and other curve kinds carry their points under
		// a "Points" list at index 0, the same shape as IfcPolyLoop;
		// reuse the same extraction when the list holds point refs.
		refs, ok := curve.GetList(0)
		if !ok {
			return nil
		}
		pts := make([]Vector3, 0, len(refs))
		for _, ref := range refs {
			pt, ok := r.ResolveRef(ref)
			if !ok || pt.Type != IfcCartesianPoint {
				continue
			}
			pts = append(pts, resolveCartesianPoint(pt))
		}
		return pts
	}
}

// revolvedAreaSolidProcessor handles IfcRevolvedAreaSolid: sweep the
// profile about Axis by Angle (radians).
type revolvedAreaSolidProcessor struct{}

func (revolvedAreaSolidProcessor) SupportedTypes() []IfcType { return []IfcType{IfcRevolvedAreaSolid} }

func (revolvedAreaSolidProcessor) Process(entity *DecodedEntity, r EntityResolver, unitScale float64) (MeshData, error) {
	profileRef, ok := entity.Get(0)
	if !ok {
		return NewMeshData(), newGeometryErrorf("revolved area solid: missing SweptArea")
	}
	profileEntity, ok := r.ResolveRef(profileRef)
	if !ok {
		return NewMeshData(), newGeometryErrorf("revolved area solid: SweptArea not found")
	}
	profile := extractProfile(r, profileEntity)
	if len(profile.Outer) == 0 {
		return NewMeshData(), nil
	}

	axisOrigin, axisDirection := Vector3{}, Vector3{0, 0, 1}
	if axisRef, ok := entity.Get(2); ok {
		if axisEntity, ok := r.ResolveRef(axisRef); ok {
			axisOrigin, axisDirection = parseAxisPlacement(r, axisEntity)
		}
	}

	angle, ok := entity.GetFloat(3)
	if !ok {
		angle = 2 * math.Pi
	}

	mesh := RevolveProfile(profile, axisOrigin, axisDirection, angle, CircleSegments(angle))

	if posRef, ok := entity.Get(1); ok && !posRef.IsNull() {
		if posEntity, ok := r.ResolveRef(posRef); ok {
			transform := resolveAxisPlacement(r, posEntity)
			mesh = transformMesh(mesh, transform)
		}
	}

	return mesh, nil
}

func parseAxisPlacement(r EntityResolver, axis *DecodedEntity) (origin, direction Vector3) {
	if axis.Type != IfcAxis2Placement3D && axis.Type != IfcAxis2Placement2D && axis.TypeName != "IFCAXIS1PLACEMENT" {
		return Vector3{}, Vector3{0, 0, 1}
	}
	if originRef, ok := axis.Get(0); ok {
		if originEntity, ok := r.ResolveRef(originRef); ok {
			origin = resolveCartesianPoint(originEntity)
		}
	}
	direction = Vector3{0, 0, 1}
	if dirRef, ok := axis.Get(1); ok && !dirRef.IsNull() {
		if dirEntity, ok := r.ResolveRef(dirRef); ok {
			direction = resolveDirection(dirEntity)
		}
	}
	return origin, direction
}

func resolveCartesianPoint(pt *DecodedEntity) Vector3 {
	coords, ok := pt.GetList(0)
	if !ok {
		return Vector3{}
	}
	var v Vector3
	if len(coords) > 0 {
		v.X, _ = coords[0].AsFloat()
	}
	if len(coords) > 1 {
		v.Y, _ = coords[1].AsFloat()
	}
	if len(coords) > 2 {
		v.Z, _ = coords[2].AsFloat()
	}
	return v
}

func resolveDirection(dir *DecodedEntity) Vector3 {
	ratios, ok := dir.GetList(0)
	if !ok {
		return Vector3{0, 0, 1}
	}
	v := Vector3{Z: 1}
	if len(ratios) > 0 {
		v.X, _ = ratios[0].AsFloat()
	}
	if len(ratios) > 1 {
		v.Y, _ = ratios[1].AsFloat()
	}
	if len(ratios) > 2 {
		v.Z, _ = ratios[2].AsFloat()
	} else {
		v.Z = 0
	}
	return v
}

func transformMesh(mesh MeshData, m Matrix4) MeshData {
	for i := 0; i+2 < len(mesh.Positions); i += 3 {
		p := Vector3{float64(mesh.Positions[i]), float64(mesh.Positions[i+1]), float64(mesh.Positions[i+2])}
		p = m.TransformPoint(p)
		mesh.Positions[i], mesh.Positions[i+1], mesh.Positions[i+2] = float32(p.X), float32(p.Y), float32(p.Z)
	}
	for i := 0; i+2 < len(mesh.Normals); i += 3 {
		n := Vector3{float64(mesh.Normals[i]), float64(mesh.Normals[i+1]), float64(mesh.Normals[i+2])}
		n = m.TransformDirection(n).Normalize()
		mesh.Normals[i], mesh.Normals[i+1], mesh.Normals[i+2] = float32(n.X), float32(n.Y), float32(n.Z)
	}
	return mesh
}
