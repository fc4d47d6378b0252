// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import "math"

// voidAwareProcessor is implemented by processors that can fold
// IfcRelVoidsElement openings into their own geometry before
// extrusion. Only extrudedAreaSolidProcessor implements it today;
// the router falls back to the plain Process path for every other
// representation-item kind.
type voidAwareProcessor interface {
	ProcessWithVoids(entity *DecodedEntity, r EntityResolver, unitScale float64, hostPlacement Matrix4, openings []*DecodedEntity) (MeshData, error)
}

// relVoidsForElement returns the IfcOpeningElement entities related
// to elementID via IfcRelVoidsElement (RelatingBuildingElement at
// index 4, RelatedOpeningElement at index 5).
func relVoidsForElement(r EntityResolver, elementID EntityID) []*DecodedEntity {
	var openings []*DecodedEntity
	for _, rel := range r.EntitiesByType(IfcRelVoidsElement) {
		hostRef, ok := rel.GetRef(4)
		if !ok || hostRef != elementID {
			continue
		}
		openingRef, ok := rel.Get(5)
		if !ok {
			continue
		}
		opening, ok := r.ResolveRef(openingRef)
		if !ok {
			continue
		}
		openings = append(openings, opening)
	}
	return openings
}

// openingPlacementTransform resolves an opening element's
// ObjectPlacement (index 5), defaulting to identity.
func openingPlacementTransform(r EntityResolver, opening *DecodedEntity) Matrix4 {
	placementRef, ok := opening.Get(5)
	if !ok || placementRef.IsNull() {
		return IdentityMatrix4()
	}
	placementEntity, ok := r.ResolveRef(placementRef)
	if !ok {
		return IdentityMatrix4()
	}
	return resolvePlacement(r, placementEntity)
}

// openingSolidGeometry finds an opening element's own
// IfcExtrudedAreaSolid body item (the first extruded solid found in
// its shape representations, whatever their identifier) and returns the profile, extrusion direction
// and depth in the item's own local frame. The item's own Position is
// intentionally not applied here: IfcOpeningElement bodies almost
// always omit it, and the relative transform computed by the caller
// already folds in both elements' ObjectPlacement.
func openingSolidGeometry(r EntityResolver, opening *DecodedEntity) (profile Profile2D, direction Vector3, depth float64, ok bool) {
	repRef, has := opening.Get(6)
	if !has || repRef.IsNull() {
		return Profile2D{}, Vector3{}, 0, false
	}
	productShape, has := r.ResolveRef(repRef)
	if !has {
		return Profile2D{}, Vector3{}, 0, false
	}
	shapeRefs, has := productShape.GetList(1)
	if !has {
		return Profile2D{}, Vector3{}, 0, false
	}
	for _, shapeRef := range shapeRefs {
		shape, has := r.ResolveRef(shapeRef)
		if !has {
			continue
		}
		itemRefs, has := shape.GetList(3)
		if !has {
			continue
		}
		for _, itemRef := range itemRefs {
			item, has := r.ResolveRef(itemRef)
			if !has || item.Type != IfcExtrudedAreaSolid {
				continue
			}
			profileRef, has := item.Get(0)
			if !has {
				continue
			}
			profileEntity, has := r.ResolveRef(profileRef)
			if !has {
				continue
			}
			profile = extractProfile(r, profileEntity)
			if len(profile.Outer) == 0 {
				continue
			}
			direction = Vector3{0, 0, 1}
			if dirRef, has := item.Get(2); has {
				if dirEntity, has := r.ResolveRef(dirRef); has {
					direction = resolveDirection(dirEntity)
				}
			}
			direction = direction.Normalize()
			depth, has = item.GetFloat(3)
			if !has {
				continue
			}
			return profile, direction, depth, true
		}
	}
	return Profile2D{}, Vector3{}, 0, false
}

// ProcessWithVoids extrudes entity's own profile exactly as Process
// does, then folds in every related opening: a void whose transformed
// depth range covers the host's full depth becomes a hole in the
// host profile (so the final extrusion leaves an open through-cut);
// a void that only partially penetrates is instead built as its own
// small capped prism (side walls and end caps) and merged into the
// mesh; the host solid itself is not cut where that prism sits.
func (extrudedAreaSolidProcessor) ProcessWithVoids(entity *DecodedEntity, r EntityResolver, unitScale float64, hostPlacement Matrix4, openings []*DecodedEntity) (MeshData, error) {
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

	hostItemPosition := IdentityMatrix4()
	if posRef, ok := entity.Get(1); ok && !posRef.IsNull() {
		if posEntity, ok := r.ResolveRef(posRef); ok {
			hostItemPosition = resolveAxisPlacement(r, posEntity)
		}
	}
	hostWorld := hostPlacement.Mul(hostItemPosition)
	hostWorldInv := hostWorld.Inverse()

	var partialPrisms []MeshData
	const eps = 1e-6
	for _, opening := range openings {
		openingProfile, openingDirection, openingDepth, ok := openingSolidGeometry(r, opening)
		if !ok {
			continue
		}
		openingWorld := openingPlacementTransform(r, opening)
		relative := hostWorldInv.Mul(openingWorld)

		footprint, zMin, zMax, ok := projectVoidFootprint(relative, openingProfile, openingDirection, openingDepth)
		if !ok {
			continue
		}

		switch {
		case zMin <= eps && zMax >= depth-eps:
			profile.AddHole(footprint)
		default:
			recessDepth := zMax - zMin
			if recessDepth <= eps {
				continue
			}
			recessMesh := ExtrudeProfile(NewProfile2D(footprint), direction, recessDepth)
			recessMesh = transformMesh(recessMesh, ScaleTranslationMatrix(1, direction.Scale(zMin)))
			partialPrisms = append(partialPrisms, recessMesh)
		}
	}

	mesh := ExtrudeProfile(profile, direction, depth)
	for _, recess := range partialPrisms {
		mesh.Merge(recess)
	}

	if !hostItemPosition.isIdentity() {
		mesh = transformMesh(mesh, hostItemPosition)
	}

	return mesh, nil
}

// projectVoidFootprint transforms openingProfile's outer loop (at
// both z=0 and z=openingDepth along openingDirection, in the
// opening's own local frame) through relative into the host item's
// local frame, returning its 2D footprint (XY of the transformed
// bottom loop) and the z range it occupies there.
func projectVoidFootprint(relative Matrix4, openingProfile Profile2D, openingDirection Vector3, openingDepth float64) (footprint []Vector2, zMin, zMax float64, ok bool) {
	if len(openingProfile.Outer) == 0 {
		return nil, 0, 0, false
	}
	originU, originV := planeBasisFor(Vector3{0, 0, 1})

	footprint = make([]Vector2, len(openingProfile.Outer))
	zMin, zMax = math.Inf(1), math.Inf(-1)
	for i, p2 := range openingProfile.Outer {
		bottom := lift2DTo3D(p2, Vector3{}, originU, originV)
		top := bottom.Add(openingDirection.Scale(openingDepth))

		hostBottom := relative.TransformPoint(bottom)
		hostTop := relative.TransformPoint(top)

		footprint[i] = Vector2{hostBottom.X, hostBottom.Y}
		zMin = minFloat(zMin, minFloat(hostBottom.Z, hostTop.Z))
		zMax = maxFloat(zMax, maxFloat(hostBottom.Z, hostTop.Z))
	}
	return footprint, zMin, zMax, true
}

func (m Matrix4) isIdentity() bool {
	id := IdentityMatrix4()
	for i := range 4 {
		for j := range 4 {
			if m[i][j] != id[i][j] {
				return false
			}
		}
	}
	return true
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

