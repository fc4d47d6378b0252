// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import "math"

// Triangulation is a flat 2D point buffer plus triangle indices into
// it, the 2D counterpart of MeshData.
type Triangulation struct {
	Points  []Vector2
	Indices []uint32
}

// Triangulate triangulates p (outer boundary plus holes) with an
// ear-clipping algorithm. Holes are stitched into the outer loop by
// bridging each hole to its nearest outer vertex (by distance; the
// bridge is not checked for crossing other edges) before clipping, since the pack carries no earcut-equivalent library to
// depend on (see DESIGN.md).
func (p Profile2D) Triangulate() Triangulation {
	points := make([]Vector2, len(p.Outer))
	copy(points, p.Outer)

	loop := make([]int, len(points))
	for i := range loop {
		loop[i] = i
	}

	for _, hole := range p.Holes {
		if len(hole) == 0 {
			continue
		}
		holeStart := len(points)
		points = append(points, hole...)
		holeLoop := make([]int, len(hole))
		for i := range holeLoop {
			holeLoop[i] = holeStart + i
		}
		loop = stitchHole(points, loop, holeLoop)
	}

	indices := earClip(points, loop)
	return Triangulation{Points: points, Indices: indices}
}

// stitchHole bridges a hole loop into the outer loop by connecting
// the hole's rightmost point to the nearest outer-loop vertex by
// distance, producing one combined loop for ear-clipping. Whether the
// bridge crosses another edge is not checked.
func stitchHole(points []Vector2, outer, hole []int) []int {
	// Find the hole vertex with the maximum X (rightmost), the
	// conventional bridge start point.
	bridgeFrom := hole[0]
	for _, idx := range hole[1:] {
		if points[idx].X > points[bridgeFrom].X {
			bridgeFrom = idx
		}
	}

	bridgeTo := outer[0]
	bestDist := math.Inf(1)
	for _, idx := range outer {
		d := dist2(points[idx], points[bridgeFrom])
		if d < bestDist {
			bestDist = d
			bridgeTo = idx
		}
	}

	// Rotate hole loop so it starts at bridgeFrom.
	rotated := make([]int, 0, len(hole))
	start := indexOf(hole, bridgeFrom)
	rotated = append(rotated, hole[start:]...)
	rotated = append(rotated, hole[:start]...)
	rotated = append(rotated, bridgeFrom)

	bridgeAt := indexOf(outer, bridgeTo)
	combined := make([]int, 0, len(outer)+len(rotated)+2)
	combined = append(combined, outer[:bridgeAt+1]...)
	combined = append(combined, rotated...)
	combined = append(combined, outer[bridgeAt:]...)
	return combined
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return 0
}

func dist2(a, b Vector2) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// earClip triangulates a simple polygon (given as indices into
// points) by repeatedly clipping convex, empty "ears".
func earClip(points []Vector2, loop []int) []uint32 {
	n := len(loop)
	if n < 3 {
		return nil
	}

	if signedArea(points, loop) < 0 {
		reversed := make([]int, n)
		for i, v := range loop {
			reversed[n-1-i] = v
		}
		loop = reversed
	}

	remaining := append([]int{}, loop...)
	var indices []uint32

	guard := 0
	maxGuard := n * n
	for len(remaining) > 3 && guard < maxGuard {
		guard++
		clipped := false
		for i := range remaining {
			prev := remaining[(i-1+len(remaining))%len(remaining)]
			cur := remaining[i]
			next := remaining[(i+1)%len(remaining)]

			if !isConvex(points[prev], points[cur], points[next]) {
				continue
			}
			if triangleContainsAny(points, prev, cur, next, remaining) {
				continue
			}

			indices = append(indices, uint32(prev), uint32(cur), uint32(next))
			remaining = append(remaining[:i], remaining[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// Degenerate/self-intersecting input; fan-triangulate
			// what's left rather than looping forever.
			break
		}
	}

	if len(remaining) >= 3 {
		for i := 1; i < len(remaining)-1; i++ {
			indices = append(indices, uint32(remaining[0]), uint32(remaining[i]), uint32(remaining[i+1]))
		}
	}

	return indices
}

func signedArea(points []Vector2, loop []int) float64 {
	var area float64
	n := len(loop)
	for i := range n {
		a := points[loop[i]]
		b := points[loop[(i+1)%n]]
		area += a.X*b.Y - b.X*a.Y
	}
	return area / 2
}

func isConvex(prev, cur, next Vector2) bool {
	cross := (cur.X-prev.X)*(next.Y-prev.Y) - (cur.Y-prev.Y)*(next.X-prev.X)
	return cross > 0
}

func triangleContainsAny(points []Vector2, a, b, c int, loop []int) bool {
	for _, idx := range loop {
		if idx == a || idx == b || idx == c {
			continue
		}
		if pointInTriangle(points[idx], points[a], points[b], points[c]) {
			return true
		}
	}
	return false
}

func pointInTriangle(p, a, b, c Vector2) bool {
	d1 := sign(p, a, b)
	d2 := sign(p, b, c)
	d3 := sign(p, c, a)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func sign(p1, p2, p3 Vector2) float64 {
	return (p1.X-p3.X)*(p2.Y-p3.Y) - (p2.X-p3.X)*(p1.Y-p3.Y)
}
