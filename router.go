// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import (
	"hash/maphash"
	"math"
	"sync"

	"github.com/dgraph-io/ristretto"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// GeometryRouter dispatches representation items to the registered
// GeometryProcessor for their type, applies placement, and caches
// both mapped-item instances and deduplicated mesh content. The two
// caches mirror the original's two real (non-dead) caches: a bounded
// LRU for mapped-item source geometry (reused verbatim across many
// instances of the same furniture/fitting type), and a cost-based
// ristretto cache keyed by an inexact content hash for deduplicating
// meshes that happen to come out identical.
type GeometryRouter struct {
	processors map[IfcType]GeometryProcessor
	unitScale  float64

	mappedItemCache *lru.Cache[EntityID, MeshData]
	mappedGroup     singleflight.Group

	dedupCache *ristretto.Cache

	hashSeed maphash.Seed
	mu       sync.Mutex
}

// NewGeometryRouter returns a router with no processors registered;
// callers add their own via Register, or use
// NewDefaultGeometryRouter for the standard set.
func NewGeometryRouter() *GeometryRouter {
	mappedCache, _ := lru.New[EntityID, MeshData](256)
	dedupCache, _ := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 26, // 64 MiB of deduplicated mesh content
		BufferItems: 64,
	})
	return &GeometryRouter{
		processors:      make(map[IfcType]GeometryProcessor),
		unitScale:       1.0,
		mappedItemCache: mappedCache,
		dedupCache:      dedupCache,
		hashSeed:        maphash.MakeSeed(),
	}
}

// NewDefaultGeometryRouter returns a router with the five built-in
// solid-representation processors registered.
func NewDefaultGeometryRouter() *GeometryRouter {
	r := NewGeometryRouter()
	r.Register(extrudedAreaSolidProcessor{})
	r.Register(triangulatedFaceSetProcessor{})
	r.Register(facetedBrepProcessor{})
	r.Register(sweptDiskSolidProcessor{})
	r.Register(revolvedAreaSolidProcessor{})
	return r
}

// WithUnitScale sets the file-to-meter scale factor applied to every
// processed mesh.
func (r *GeometryRouter) WithUnitScale(scale float64) *GeometryRouter {
	r.unitScale = scale
	return r
}

func (r *GeometryRouter) Register(p GeometryProcessor) {
	for _, t := range p.SupportedTypes() {
		r.processors[t] = p
	}
}

func (r *GeometryRouter) HasProcessor(t IfcType) bool {
	_, ok := r.processors[t]
	return ok
}

// ProcessRepresentationItem routes entity to its processor (or, for
// IfcMappedItem, to the mapped source's own processor via the
// instance cache) and scales the result to meters.
func (r *GeometryRouter) ProcessRepresentationItem(entity *DecodedEntity, resolver EntityResolver) (MeshData, error) {
	if entity.Type == IfcMappedItem {
		return r.processMappedItem(entity, resolver)
	}

	proc, ok := r.processors[entity.Type]
	if !ok {
		return NewMeshData(), newGeometryErrorf("no processor registered for %s", entity.Type)
	}
	mesh, err := proc.Process(entity, resolver, r.unitScale)
	if err != nil {
		return NewMeshData(), err
	}
	mesh = r.scaleMesh(mesh)

	if dedup, ok := r.GetDeduplicated(mesh); ok {
		return dedup, nil
	}
	r.StoreDeduplicated(mesh)
	return mesh, nil
}

func (r *GeometryRouter) processMappedItem(entity *DecodedEntity, resolver EntityResolver) (MeshData, error) {
	sourceID, ok := r.extractMappingSourceID(entity, resolver)
	if !ok {
		return NewMeshData(), newGeometryErrorf("mapped item: could not resolve MappingSource")
	}

	mesh, err := r.cachedMappedSource(sourceID, resolver)
	if err != nil {
		return NewMeshData(), err
	}

	transform := r.extractMappingTargetTransform(entity, resolver)
	mesh = transformMesh(cloneMesh(mesh), transform)
	return r.scaleMesh(mesh), nil
}

// cachedMappedSource returns the (unscaled, untransformed) geometry
// for an IfcRepresentationMap's MappedRepresentation, decoding and
// caching it once per source id; concurrent callers for the same
// source id single-flight into one computation, matching the
// reader-parallel "losers discard their duplicate parse" discipline
// used throughout the decoder.
func (r *GeometryRouter) cachedMappedSource(sourceID EntityID, resolver EntityResolver) (MeshData, error) {
	if mesh, ok := r.mappedItemCache.Get(sourceID); ok {
		return mesh, nil
	}

	key := strconv32(uint32(sourceID))
	v, err, _ := r.mappedGroup.Do(key, func() (any, error) {
		if mesh, ok := r.mappedItemCache.Get(sourceID); ok {
			return mesh, nil
		}
		sourceEntity, ok := resolver.Get(sourceID)
		if !ok {
			return nil, newEntityNotFoundError(sourceID)
		}
		proc, ok := r.processors[sourceEntity.Type]
		if !ok {
			return nil, newGeometryErrorf("mapped item source: no processor for %s", sourceEntity.Type)
		}
		mesh, err := proc.Process(sourceEntity, resolver, r.unitScale)
		if err != nil {
			return nil, err
		}
		r.mappedItemCache.Add(sourceID, mesh)
		return mesh, nil
	})
	if err != nil {
		return NewMeshData(), err
	}
	return v.(MeshData), nil
}

func (r *GeometryRouter) extractMappingSourceID(item *DecodedEntity, resolver EntityResolver) (EntityID, bool) {
	mapRef, ok := item.Get(0)
	if !ok {
		return 0, false
	}
	repMap, ok := resolver.ResolveRef(mapRef)
	if !ok || repMap.Type != IfcRepresentationMap {
		return 0, false
	}
	return repMap.GetRef(1)
}

func (r *GeometryRouter) extractMappingTargetTransform(item *DecodedEntity, resolver EntityResolver) Matrix4 {
	targetRef, ok := item.Get(1)
	if !ok {
		return IdentityMatrix4()
	}
	targetEntity, ok := resolver.ResolveRef(targetRef)
	if !ok {
		return IdentityMatrix4()
	}
	return resolveAxisPlacement(resolver, targetEntity)
}

// ProcessElement builds the merged mesh for a product (anything with
// a Representation attribute), selecting only "Body"/"Facetation"
// shape representations and applying the product's own
// ObjectPlacement on top of each item's own transform. Any
// IfcRelVoidsElement openings attached to product are folded into its
// IfcExtrudedAreaSolid items before extrusion.
func (r *GeometryRouter) ProcessElement(product *DecodedEntity, resolver EntityResolver) (MeshData, error) {
	repRef, ok := product.Get(6)
	if !ok || repRef.IsNull() {
		return NewMeshData(), nil
	}
	productShape, ok := resolver.ResolveRef(repRef)
	if !ok {
		return NewMeshData(), nil
	}
	shapeRefs, ok := productShape.GetList(1)
	if !ok {
		return NewMeshData(), nil
	}

	hostPlacement := IdentityMatrix4()
	if placementRef, ok := product.Get(5); ok && !placementRef.IsNull() {
		if placementEntity, ok := resolver.ResolveRef(placementRef); ok {
			hostPlacement = resolvePlacement(resolver, placementEntity)
		}
	}
	openings := relVoidsForElement(resolver, product.ID)

	mesh := NewMeshData()
	for _, shapeRef := range shapeRefs {
		shape, ok := resolver.ResolveRef(shapeRef)
		if !ok {
			continue
		}
		if id, ok := shape.GetString(1); !ok || (id != "Body" && id != "Facetation") {
			continue
		}
		itemMesh, err := r.processShapeRepresentation(shape, resolver, hostPlacement, openings)
		if err != nil {
			continue
		}
		mesh.Merge(itemMesh)
	}

	// Item meshes are already in meters; scale the placement's
	// translation to match before applying it.
	world := hostPlacement
	for i := range 3 {
		world[i][3] *= r.unitScale
	}
	mesh = transformMesh(mesh, world)

	return mesh, nil
}

func (r *GeometryRouter) processShapeRepresentation(shape *DecodedEntity, resolver EntityResolver, hostPlacement Matrix4, openings []*DecodedEntity) (MeshData, error) {
	itemRefs, ok := shape.GetList(3)
	if !ok {
		return NewMeshData(), nil
	}
	mesh := NewMeshData()
	for _, itemRef := range itemRefs {
		itemEntity, ok := resolver.ResolveRef(itemRef)
		if !ok {
			continue
		}

		var itemMesh MeshData
		var err error
		if len(openings) > 0 && itemEntity.Type == IfcExtrudedAreaSolid {
			if proc, ok := r.processors[itemEntity.Type].(voidAwareProcessor); ok {
				itemMesh, err = proc.ProcessWithVoids(itemEntity, resolver, r.unitScale, hostPlacement, openings)
				if err == nil {
					itemMesh = r.scaleMesh(itemMesh)
				}
			} else {
				itemMesh, err = r.ProcessRepresentationItem(itemEntity, resolver)
			}
		} else {
			itemMesh, err = r.ProcessRepresentationItem(itemEntity, resolver)
		}
		if err != nil {
			continue // one bad item doesn't sink the whole representation
		}
		mesh.Merge(itemMesh)
	}
	return mesh, nil
}

func (r *GeometryRouter) scaleMesh(mesh MeshData) MeshData {
	if r.unitScale == 1.0 {
		return mesh
	}
	scale := float32(r.unitScale)
	for i := range mesh.Positions {
		mesh.Positions[i] *= scale
	}
	return mesh
}

// resolvePlacement dispatches an ObjectPlacement/Position attribute
// to the right transform resolver by entity type.
func resolvePlacement(r EntityResolver, placement *DecodedEntity) Matrix4 {
	switch placement.Type {
	case IfcLocalPlacement:
		// Compose up the PlacementRelTo chain: world = parent * local.
		world := IdentityMatrix4()
		for depth := 0; placement != nil && placement.Type == IfcLocalPlacement && depth < 64; depth++ {
			local := IdentityMatrix4()
			if relRef, ok := placement.Get(1); ok && !relRef.IsNull() {
				if relEntity, ok := r.ResolveRef(relRef); ok {
					local = resolveAxisPlacement(r, relEntity)
				}
			}
			world = local.Mul(world)
			parentRef, ok := placement.Get(0)
			if !ok || parentRef.IsNull() {
				break
			}
			if placement, ok = r.ResolveRef(parentRef); !ok {
				break
			}
		}
		return world
	default:
		return resolveAxisPlacement(r, placement)
	}
}

// resolveAxisPlacement builds a Matrix4 for an IfcAxis2Placement3D or
// an IfcCartesianTransformationOperator3D(NonUniform).
func resolveAxisPlacement(r EntityResolver, entity *DecodedEntity) Matrix4 {
	switch entity.Type {
	case IfcAxis2Placement3D:
		return resolveAxis2Placement3D(r, entity)
	case IfcCartesianTransformationOperator3D, IfcCartesianTransformationOperator3DnonUniform:
		return resolveTransformationOperator(r, entity)
	case IfcLocalPlacement:
		return resolvePlacement(r, entity)
	default:
		return IdentityMatrix4()
	}
}

func resolveAxis2Placement3D(r EntityResolver, entity *DecodedEntity) Matrix4 {
	origin := Vector3{}
	if originRef, ok := entity.Get(0); ok {
		if originEntity, ok := r.ResolveRef(originRef); ok {
			origin = resolveCartesianPoint(originEntity)
		}
	}
	axis := Vector3{0, 0, 1}
	if axisRef, ok := entity.Get(1); ok && !axisRef.IsNull() {
		if axisEntity, ok := r.ResolveRef(axisRef); ok {
			axis = resolveDirection(axisEntity)
		}
	}
	refDir := Vector3{1, 0, 0}
	if refRef, ok := entity.Get(2); ok && !refRef.IsNull() {
		if refEntity, ok := r.ResolveRef(refRef); ok {
			refDir = resolveDirection(refEntity)
		}
	}

	zAxis := axis.Normalize()
	xAxis := refDir.Sub(zAxis.Scale(zAxis.Dot(refDir))).Normalize()
	yAxis := zAxis.Cross(xAxis)

	return NewBasisMatrix(xAxis, yAxis, zAxis, origin)
}

func resolveTransformationOperator(r EntityResolver, entity *DecodedEntity) Matrix4 {
	origin := Vector3{}
	if originRef, ok := entity.Get(3); ok {
		if originEntity, ok := r.ResolveRef(originRef); ok {
			origin = resolveCartesianPoint(originEntity)
		}
	}
	scale := 1.0
	if s, ok := entity.GetFloat(6); ok {
		scale = s
	}
	return ScaleTranslationMatrix(scale, origin)
}

func cloneMesh(m MeshData) MeshData {
	return MeshData{
		Positions: append([]float32{}, m.Positions...),
		Normals:   append([]float32{}, m.Normals...),
		Indices:   append([]uint32{}, m.Indices...),
	}
}

// computeMeshHash is an inexact content hash (vertex/index counts
// plus the raw bits of every tenth position) used only to key the
// dedup cache: two meshes with the same hash are treated as
// duplicates without a full byte-for-byte comparison, trading a
// vanishingly small false-positive rate for not hashing every float
// in a large mesh.
func (r *GeometryRouter) computeMeshHash(mesh MeshData) uint64 {
	var h maphash.Hash
	h.SetSeed(r.hashSeed)
	writeUint64(&h, uint64(mesh.VertexCount()))
	writeUint64(&h, uint64(len(mesh.Indices)))
	for i := 0; i+2 < len(mesh.Positions); i += 30 {
		writeUint64(&h, uint64(math.Float32bits(mesh.Positions[i])))
	}
	return h.Sum64()
}

func writeUint64(h *maphash.Hash, v uint64) {
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(v >> (8 * i))
	}
	h.Write(buf[:])
}

// GetDeduplicated returns a previously stored mesh with the same
// content hash, if any.
func (r *GeometryRouter) GetDeduplicated(mesh MeshData) (MeshData, bool) {
	hash := r.computeMeshHash(mesh)
	v, ok := r.dedupCache.Get(hash)
	if !ok {
		return MeshData{}, false
	}
	return v.(MeshData), true
}

// StoreDeduplicated records mesh under its content hash for future
// GetDeduplicated lookups; cost is the mesh's approximate byte size.
func (r *GeometryRouter) StoreDeduplicated(mesh MeshData) {
	hash := r.computeMeshHash(mesh)
	cost := int64(len(mesh.Positions)*4 + len(mesh.Normals)*4 + len(mesh.Indices)*4)
	r.dedupCache.Set(hash, mesh, cost)
}

// ClearCaches drops all cached mapped-item and deduplicated mesh
// content.
func (r *GeometryRouter) ClearCaches() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappedItemCache.Purge()
	r.dedupCache.Clear()
}
