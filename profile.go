// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import "math"

// Profile2D is a closed 2D polygon (outer boundary plus any number
// of hole boundaries), the shape later extruded, revolved, or
// faceted into a mesh.
type Profile2D struct {
	Outer []Vector2
	Holes [][]Vector2
}

// NewProfile2D returns a profile with no holes.
func NewProfile2D(outer []Vector2) Profile2D {
	return Profile2D{Outer: outer}
}

// AddHole appends an inner boundary.
func (p *Profile2D) AddHole(hole []Vector2) {
	p.Holes = append(p.Holes, hole)
}

// RectangleProfile builds an axis-aligned rectangle of the given
// total x/y extent, centered at the origin (matching
// IfcRectangleProfileDef's XDim/YDim semantics).
func RectangleProfile(xDim, yDim float64) Profile2D {
	hx, hy := xDim/2, yDim/2
	return NewProfile2D([]Vector2{
		{-hx, -hy}, {hx, -hy}, {hx, hy}, {-hx, hy},
	})
}

// CircleSegments returns how many straight segments to approximate a
// circle of the given radius with: enough to stay visually round at
// small radii without over-tessellating large ones.
func CircleSegments(radius float64) int {
	n := int(math.Ceil(math.Sqrt(radius) * 8))
	if n < 8 {
		return 8
	}
	if n > 32 {
		return 32
	}
	return n
}

// CircleProfile builds a regular polygon approximating a circle of
// the given radius, centered at the origin.
func CircleProfile(radius float64) Profile2D {
	n := CircleSegments(radius)
	pts := make([]Vector2, n)
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Vector2{radius * math.Cos(a), radius * math.Sin(a)}
	}
	return NewProfile2D(pts)
}

// HollowCircleProfile builds a circle profile with a smaller
// concentric circle removed, matching IfcCircleHollowProfileDef.
func HollowCircleProfile(radius, wallThickness float64) Profile2D {
	p := CircleProfile(radius)
	inner := CircleProfile(radius - wallThickness)
	// Inner loops wind opposite the outer loop by IFC/triangulation
	// convention; reverse so the ear-clipper treats it as a hole.
	reversed := make([]Vector2, len(inner.Outer))
	for i, pt := range inner.Outer {
		reversed[len(inner.Outer)-1-i] = pt
	}
	p.AddHole(reversed)
	return p
}

// HollowRectangleProfile builds a rectangle profile with a smaller
// concentric rectangle removed, matching IfcRectangleHollowProfileDef.
func HollowRectangleProfile(xDim, yDim, wallThickness float64) Profile2D {
	p := RectangleProfile(xDim, yDim)
	inner := RectangleProfile(xDim-2*wallThickness, yDim-2*wallThickness)
	reversed := make([]Vector2, len(inner.Outer))
	for i, pt := range inner.Outer {
		reversed[len(inner.Outer)-1-i] = pt
	}
	p.AddHole(reversed)
	return p
}

// IShapeProfile builds a symmetric I/H-beam cross-section centered
// at the origin: overallDepth along Y, overallWidth along X,
// webThickness the vertical web, flangeThickness each flange's
// height.
func IShapeProfile(overallWidth, overallDepth, webThickness, flangeThickness float64) Profile2D {
	hw, hd := overallWidth/2, overallDepth/2
	ht := webThickness / 2
	fy := hd - flangeThickness
	pts := []Vector2{
		{-hw, -hd}, {hw, -hd}, {hw, -fy}, {ht, -fy},
		{ht, fy}, {hw, fy}, {hw, hd}, {-hw, hd},
		{-hw, fy}, {-ht, fy}, {-ht, -fy}, {-hw, -fy},
	}
	return NewProfile2D(pts)
}

// LShapeProfile builds an L/angle cross-section with its corner at
// the origin: depth along Y, width along X, thickness uniform.
func LShapeProfile(depth, width, thickness float64) Profile2D {
	pts := []Vector2{
		{0, 0}, {width, 0}, {width, thickness}, {thickness, thickness},
		{thickness, depth}, {0, depth},
	}
	return NewProfile2D(pts)
}

// TShapeProfile builds a T cross-section centered at the origin:
// overall depth along Y, flange width along X.
func TShapeProfile(flangeWidth, depth, webThickness, flangeThickness float64) Profile2D {
	hw := flangeWidth / 2
	ht := webThickness / 2
	fy := depth - flangeThickness
	pts := []Vector2{
		{-ht, 0}, {ht, 0}, {ht, fy}, {hw, fy},
		{hw, depth}, {-hw, depth}, {-hw, fy}, {-ht, fy},
	}
	return NewProfile2D(pts)
}

// UShapeProfile builds a channel (U/C) cross-section, open to the
// right, with its back web on the Y axis.
func UShapeProfile(depth, flangeWidth, webThickness, flangeThickness float64) Profile2D {
	hd := depth / 2
	pts := []Vector2{
		{0, -hd}, {flangeWidth, -hd}, {flangeWidth, -hd + flangeThickness},
		{webThickness, -hd + flangeThickness}, {webThickness, hd - flangeThickness},
		{flangeWidth, hd - flangeThickness}, {flangeWidth, hd}, {0, hd},
	}
	return NewProfile2D(pts)
}

// ZShapeProfile builds a Z cross-section centered at the origin.
func ZShapeProfile(depth, flangeWidth, webThickness, flangeThickness float64) Profile2D {
	hd, hw := depth/2, flangeWidth/2
	ht := webThickness / 2
	pts := []Vector2{
		{-ht, -hd}, {hw, -hd}, {hw, -hd + flangeThickness}, {ht, -hd + flangeThickness},
		{ht, hd}, {-hw, hd}, {-hw, hd - flangeThickness}, {-ht, hd - flangeThickness},
	}
	return NewProfile2D(pts)
}

// TrapeziumProfile builds a trapezium with parallel top/bottom edges
// of bottomXDim/topXDim, offset by topXOffset, and height yDim,
// sitting on the X axis.
func TrapeziumProfile(bottomXDim, topXDim, yDim, topXOffset float64) Profile2D {
	pts := []Vector2{
		{0, 0}, {bottomXDim, 0}, {topXOffset + topXDim, yDim}, {topXOffset, yDim},
	}
	return NewProfile2D(pts)
}

// VoidInfo describes one opening cut into an extruded solid's
// profile: contour is the opening's own 2D boundary (in the host
// profile's local coordinates), and depthStart/depthEnd bound the
// portion of the extrusion depth it removes. A through void spans
// the whole depth.
type VoidInfo struct {
	Contour    []Vector2
	DepthStart float64
	DepthEnd   float64
	IsThrough  bool
}

// NewVoidInfo builds a partial-depth void.
func NewVoidInfo(contour []Vector2, depthStart, depthEnd float64) VoidInfo {
	return VoidInfo{Contour: contour, DepthStart: depthStart, DepthEnd: depthEnd}
}

// ThroughVoidInfo builds a void spanning the full extrusion depth.
func ThroughVoidInfo(contour []Vector2, totalDepth float64) VoidInfo {
	return VoidInfo{Contour: contour, DepthStart: 0, DepthEnd: totalDepth, IsThrough: true}
}

// Profile2DWithVoids pairs a base profile with the openings cut into
// the solid built from it. The base profile itself is unaffected;
// ProfileWithThroughHoles folds the through voids into it so a
// single flat extrusion (no internal caps) can be built, while
// PartialVoids drives the extra cap geometry needed for voids that
// don't go all the way through.
type Profile2DWithVoids struct {
	Profile Profile2D
	Voids   []VoidInfo
}

// NewProfileWithVoids wraps profile with no voids yet.
func NewProfileWithVoids(profile Profile2D) Profile2DWithVoids {
	return Profile2DWithVoids{Profile: profile}
}

// AddVoid appends a void.
func (p *Profile2DWithVoids) AddVoid(v VoidInfo) {
	p.Voids = append(p.Voids, v)
}

// HasVoids reports whether any void was added.
func (p Profile2DWithVoids) HasVoids() bool { return len(p.Voids) > 0 }

// ThroughVoids returns the voids that span the full depth.
func (p Profile2DWithVoids) ThroughVoids() []VoidInfo {
	var out []VoidInfo
	for _, v := range p.Voids {
		if v.IsThrough {
			out = append(out, v)
		}
	}
	return out
}

// PartialVoids returns the voids that only remove part of the depth.
func (p Profile2DWithVoids) PartialVoids() []VoidInfo {
	var out []VoidInfo
	for _, v := range p.Voids {
		if !v.IsThrough {
			out = append(out, v)
		}
	}
	return out
}

// ProfileWithThroughHoles returns a copy of the base profile with
// every through void folded in as an additional hole, ready for a
// single flat extrusion.
func (p Profile2DWithVoids) ProfileWithThroughHoles() Profile2D {
	result := Profile2D{Outer: p.Profile.Outer, Holes: append([][]Vector2{}, p.Profile.Holes...)}
	for _, v := range p.ThroughVoids() {
		result.AddHole(v.Contour)
	}
	return result
}
