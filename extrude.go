// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import "math"

// ExtrudeProfile sweeps a 2D profile along direction by depth,
// building a capped solid: a bottom cap, a top cap, and a ring of
// side quads (as two triangles each) connecting corresponding
// boundary vertices. direction is assumed normalized.
func ExtrudeProfile(profile Profile2D, direction Vector3, depth float64) MeshData {
	tri := profile.Triangulate()
	if len(tri.Points) == 0 {
		return NewMeshData()
	}

	origin := Vector3{}
	axisU, axisV := planeBasisFor(direction)

	n := len(tri.Points)
	mesh := MeshDataWithCapacity(n*2, len(tri.Indices)*2+boundaryVertexCount(profile)*6)

	bottom := make([]Vector3, n)
	top := make([]Vector3, n)
	for i, p := range tri.Points {
		pt := lift2DTo3D(p, origin, axisU, axisV)
		bottom[i] = pt
		top[i] = pt.Add(direction.Scale(depth))
	}

	appendVertices(&mesh, bottom, direction.Scale(-1))
	appendVertices(&mesh, top, direction)

	for i := 0; i < len(tri.Indices); i += 3 {
		a, b, c := tri.Indices[i], tri.Indices[i+1], tri.Indices[i+2]
		mesh.Indices = append(mesh.Indices, a, c, b) // reversed winding for the bottom cap
		mesh.Indices = append(mesh.Indices, uint32(n)+a, uint32(n)+b, uint32(n)+c)
	}

	appendSideWalls(&mesh, bottom, top, profile)

	return mesh
}

func boundaryVertexCount(p Profile2D) int {
	n := len(p.Outer)
	for _, h := range p.Holes {
		n += len(h)
	}
	return n
}

func planeBasisFor(normal Vector3) (u, v Vector3) {
	arbitrary := Vector3{1, 0, 0}
	if math.Abs(normal.Dot(arbitrary)) > 0.9 {
		arbitrary = Vector3{0, 1, 0}
	}
	u = arbitrary.Sub(normal.Scale(normal.Dot(arbitrary))).Normalize()
	v = normal.Cross(u).Normalize()
	return u, v
}

func appendVertices(mesh *MeshData, pts []Vector3, normal Vector3) {
	for _, p := range pts {
		mesh.Positions = append(mesh.Positions, float32(p.X), float32(p.Y), float32(p.Z))
		mesh.Normals = append(mesh.Normals, float32(normal.X), float32(normal.Y), float32(normal.Z))
	}
}

// appendSideWalls builds the vertical quads connecting the bottom
// and top rings for every boundary loop (outer and each hole) of
// profile. bottom/top are aligned with profile.Triangulate()'s point
// order: outer points first, then each hole's points in order.
func appendSideWalls(mesh *MeshData, bottom, top []Vector3, profile Profile2D) {
	offset := 0
	n := len(bottom)

	emitLoop := func(loopLen int, reverse bool) {
		for i := range loopLen {
			j := (i + 1) % loopLen
			a, b := offset+i, offset+j
			if reverse {
				a, b = b, a
			}
			va, vb := uint32(a), uint32(b)
			bottomA, bottomB := va, vb
			topA, topB := uint32(n)+va, uint32(n)+vb
			mesh.Indices = append(mesh.Indices, bottomA, topA, topB)
			mesh.Indices = append(mesh.Indices, bottomA, topB, bottomB)
		}
		offset += loopLen
	}

	emitLoop(len(profile.Outer), false)
	for _, h := range profile.Holes {
		emitLoop(len(h), true)
	}
}

// RevolveProfile sweeps a 2D profile about an axis through axisOrigin
// in direction axisDirection by angle radians (2*pi for a full
// revolution), producing a ring of radially-placed profile copies
// connected by quads, matching IfcRevolvedAreaSolid.
func RevolveProfile(profile Profile2D, axisOrigin, axisDirection Vector3, angle float64, segments int) MeshData {
	if segments < 3 {
		segments = 3
	}
	axisDirection = axisDirection.Normalize()

	tri := profile.Triangulate()
	n := len(tri.Points)
	if n == 0 {
		return NewMeshData()
	}

	rings := make([][]Vector3, segments+1)
	for s := 0; s <= segments; s++ {
		theta := angle * float64(s) / float64(segments)
		ring := make([]Vector3, n)
		for i, p := range tri.Points {
			// Profile is defined in the plane containing the axis;
			// X is radius from the axis, Y is height along it.
			radial := Vector3{p.X, 0, 0}
			height := axisDirection.Scale(p.Y)
			rotated := radial.RodriguesRotate(axisDirection, theta)
			ring[i] = axisOrigin.Add(height).Add(rotated)
		}
		rings[s] = ring
	}

	mesh := MeshDataWithCapacity(n*(segments+1), segments*n*6)
	for _, ring := range rings {
		appendVertices(&mesh, ring, Vector3{})
	}

	closeEnds := angle < 2*math.Pi-1e-9
	if closeEnds {
		capIndices := tri.Indices
		for i := 0; i < len(capIndices); i += 3 {
			a, b, c := capIndices[i], capIndices[i+1], capIndices[i+2]
			mesh.Indices = append(mesh.Indices, a, c, b)
			lastRingOffset := uint32(segments * n)
			mesh.Indices = append(mesh.Indices, lastRingOffset+a, lastRingOffset+b, lastRingOffset+c)
		}
	}

	for s := range segments {
		ringOffset := uint32(s * n)
		nextOffset := uint32((s + 1) * n)
		for i := range n {
			j := (i + 1) % n
			a, b := ringOffset+uint32(i), ringOffset+uint32(j)
			c, d := nextOffset+uint32(i), nextOffset+uint32(j)
			mesh.Indices = append(mesh.Indices, a, c, d)
			mesh.Indices = append(mesh.Indices, a, d, b)
		}
	}

	return mesh
}

// SweepDiskAlongPolyline builds a tube of circular cross-section
// (radius) following the given centerline points, matching
// IfcSweptDiskSolid. Each ring has ringSegments points, and both ends
// are closed with a flat cap fanned from the end point.
func SweepDiskAlongPolyline(points []Vector3, radius float64, ringSegments int) MeshData {
	if ringSegments < 3 {
		ringSegments = 12
	}
	if len(points) < 2 {
		return NewMeshData()
	}

	rings := make([][]Vector3, len(points))
	for i, center := range points {
		var tangent Vector3
		switch {
		case i == 0:
			tangent = points[1].Sub(points[0]).Normalize()
		case i == len(points)-1:
			tangent = points[i].Sub(points[i-1]).Normalize()
		default:
			tangent = points[i+1].Sub(points[i-1]).Normalize()
		}
		u, v := planeBasisFor(tangent)
		ring := make([]Vector3, ringSegments)
		for s := range ringSegments {
			a := 2 * math.Pi * float64(s) / float64(ringSegments)
			offset := u.Scale(radius * math.Cos(a)).Add(v.Scale(radius * math.Sin(a)))
			ring[s] = center.Add(offset)
		}
		rings[i] = ring
	}

	mesh := MeshDataWithCapacity(len(points)*ringSegments, (len(points)-1)*ringSegments*6)
	for _, ring := range rings {
		appendVertices(&mesh, ring, Vector3{})
	}

	for i := 0; i < len(points)-1; i++ {
		ringOffset := uint32(i * ringSegments)
		nextOffset := uint32((i + 1) * ringSegments)
		for s := range ringSegments {
			sn := (s + 1) % ringSegments
			a, b := ringOffset+uint32(s), ringOffset+uint32(sn)
			c, d := nextOffset+uint32(s), nextOffset+uint32(sn)
			mesh.Indices = append(mesh.Indices, a, c, d)
			mesh.Indices = append(mesh.Indices, a, d, b)
		}
	}

	// Flat end caps: one center vertex per end, fanned to its ring.
	startCenter := uint32(len(points) * ringSegments)
	appendVertices(&mesh, []Vector3{points[0], points[len(points)-1]}, Vector3{})
	lastRing := uint32((len(points) - 1) * ringSegments)
	for s := range ringSegments {
		sn := (s + 1) % ringSegments
		mesh.Indices = append(mesh.Indices, startCenter, uint32(sn), uint32(s))
		mesh.Indices = append(mesh.Indices, startCenter+1, lastRing+uint32(s), lastRing+uint32(sn))
	}

	return mesh
}
