// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// SpatialNodeType classifies a node in the spatial tree.
type SpatialNodeType int

const (
	SpatialNodeUnknown SpatialNodeType = iota
	SpatialNodeProject
	SpatialNodeSite
	SpatialNodeBuilding
	SpatialNodeStorey
	SpatialNodeSpace
	SpatialNodeElement
)

func spatialNodeTypeFromIfcType(t IfcType) SpatialNodeType {
	switch t {
	case IfcProject:
		return SpatialNodeProject
	case IfcSite:
		return SpatialNodeSite
	case IfcBuilding:
		return SpatialNodeBuilding
	case IfcBuildingStorey:
		return SpatialNodeStorey
	case IfcSpace:
		return SpatialNodeSpace
	default:
		return SpatialNodeElement
	}
}

// SpatialNode is one node of the spatial containment tree: a
// project/site/building/storey/space, or a leaf element contained
// within one.
type SpatialNode struct {
	ID          EntityID
	GlobalID    string
	NodeType    SpatialNodeType
	Name        string
	EntityType  string
	HasGeometry bool
	Elevation   *float32
	Synthetic   bool
	Children    []*SpatialNode
}

func newSpatialNode(id EntityID, nodeType SpatialNodeType, name, entityType string) *SpatialNode {
	return &SpatialNode{ID: id, NodeType: nodeType, Name: name, EntityType: entityType}
}

func (n *SpatialNode) withGeometry(has bool) *SpatialNode {
	n.HasGeometry = has
	return n
}

func (n *SpatialNode) withElevation(e float32) *SpatialNode {
	n.Elevation = &e
	return n
}

func (n *SpatialNode) addChild(c *SpatialNode) { n.Children = append(n.Children, c) }

// Find returns the node with the given id anywhere in the subtree
// rooted at n, or nil.
func (n *SpatialNode) Find(id EntityID) *SpatialNode {
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// ElementIDs returns the ids of every leaf element directly or
// transitively contained in n (excluding n itself when n is itself a
// spatial container, and excluding nested spatial containers —
// only true elements).
func (n *SpatialNode) ElementIDs() []EntityID {
	var ids []EntityID
	var walk func(*SpatialNode)
	walk = func(node *SpatialNode) {
		for _, c := range node.Children {
			if c.NodeType == SpatialNodeElement {
				ids = append(ids, c.ID)
			}
			walk(c)
		}
	}
	walk(n)
	return ids
}

// ElementCount returns len(n.ElementIDs()).
func (n *SpatialNode) ElementCount() int { return len(n.ElementIDs()) }

// Walk calls fn for n and every descendant, depth-first.
func (n *SpatialNode) Walk(fn func(*SpatialNode)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// StoreyInfo is a flattened summary of one building storey, sorted
// by elevation by SpatialQuery.Storeys.
type StoreyInfo struct {
	ID           EntityID
	Name         string
	Elevation    float32
	ElementCount int
}

// SpatialQuery is the read access surface over the built spatial
// tree.
type SpatialQuery interface {
	SpatialTree() *SpatialNode
	Storeys() []StoreyInfo
	ElementsInStorey(storeyID EntityID) []EntityID
	ContainingStorey(elementID EntityID) (EntityID, bool)
	Search(query string) []EntityID
	ElementsByType(t IfcType) []EntityID
}

type spatialQueryImpl struct {
	tree             *SpatialNode
	storeys          []StoreyInfo
	elementStoreyMap map[EntityID]EntityID
	typeIndex        map[IfcType][]EntityID
	nameIndex        map[string][]EntityID
	// unknownTypeIndex mirrors resolverImpl.unknownTypeIndex, keeping
	// entities outside the known IfcType table searchable by their
	// distinct raw keyword instead of merged under IfcTypeUnknown.
	unknownTypeIndex map[string][]EntityID
}

func emptySpatialQuery() *spatialQueryImpl {
	return &spatialQueryImpl{
		elementStoreyMap: make(map[EntityID]EntityID),
		typeIndex:        make(map[IfcType][]EntityID),
		nameIndex:        make(map[string][]EntityID),
		unknownTypeIndex: make(map[string][]EntityID),
	}
}

func (s *spatialQueryImpl) SpatialTree() *SpatialNode { return s.tree }
func (s *spatialQueryImpl) Storeys() []StoreyInfo     { return s.storeys }

func (s *spatialQueryImpl) ElementsInStorey(storeyID EntityID) []EntityID {
	if s.tree == nil {
		return nil
	}
	storey := s.tree.Find(storeyID)
	if storey == nil {
		return nil
	}
	return storey.ElementIDs()
}

func (s *spatialQueryImpl) ContainingStorey(elementID EntityID) (EntityID, bool) {
	id, ok := s.elementStoreyMap[elementID]
	return id, ok
}

func (s *spatialQueryImpl) Search(query string) []EntityID {
	lower := strings.ToLower(query)
	upper := strings.ToUpper(query)
	seen := make(map[EntityID]bool)
	var results []EntityID
	add := func(ids []EntityID) {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				results = append(results, id)
			}
		}
	}
	for name, ids := range s.nameIndex {
		if strings.Contains(name, lower) {
			add(ids)
		}
	}
	for t, ids := range s.typeIndex {
		if t == IfcTypeUnknown {
			continue
		}
		if strings.Contains(t.String(), upper) {
			add(ids)
		}
	}
	for name, ids := range s.unknownTypeIndex {
		if strings.Contains(name, upper) {
			add(ids)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i] < results[j] })
	return results
}

func (s *spatialQueryImpl) ElementsByType(t IfcType) []EntityID { return s.typeIndex[t] }

var productTypesWithGeometry = []IfcType{
	IfcWall, IfcWallStandardCase, IfcSlab, IfcBeam, IfcColumn, IfcDoor,
	IfcWindow, IfcStair, IfcStairFlight, IfcRoof, IfcCovering, IfcRailing,
	IfcPlate, IfcMember, IfcCurtainWall, IfcFooting, IfcPile,
	IfcBuildingElementProxy, IfcOpeningElement, IfcFurnishingElement,
	IfcFlowTerminal, IfcFlowSegment, IfcFlowFitting,
}

// buildSpatialQuery walks the resolver's IfcRelAggregates and
// IfcRelContainedInSpatialStructure relationships into a tree rooted
// at the (first) IfcProject. If no project exists, a synthetic root
// is built so elements are never simply dropped, per the fallback
// hierarchy required for a building with no declared spatial
// structure at all.
func buildSpatialQuery(r EntityResolver) *spatialQueryImpl {
	b := &spatialBuilder{
		resolver:             r,
		elementStoreyMap:     make(map[EntityID]EntityID),
		typeIndex:            make(map[IfcType][]EntityID),
		nameIndex:            make(map[string][]EntityID),
		unknownTypeIndex:     make(map[string][]EntityID),
		entitiesWithGeometry: make(map[EntityID]bool),
	}
	return b.build()
}

type spatialBuilder struct {
	resolver             EntityResolver
	elementStoreyMap     map[EntityID]EntityID
	typeIndex            map[IfcType][]EntityID
	nameIndex            map[string][]EntityID
	unknownTypeIndex     map[string][]EntityID
	entitiesWithGeometry map[EntityID]bool
}

func (b *spatialBuilder) build() *spatialQueryImpl {
	b.buildGeometryCache()
	b.buildIndices()

	projects := b.resolver.EntitiesByType(IfcProject)

	var root *SpatialNode
	if len(projects) > 0 {
		root = b.createNode(projects[0])
		b.addSpatialChildren(root, projects[0].ID)
	} else {
		root = b.buildFallbackTree()
	}

	storeys := b.extractStoreys(root)

	return &spatialQueryImpl{
		tree:             root,
		storeys:          storeys,
		elementStoreyMap: b.elementStoreyMap,
		typeIndex:        b.typeIndex,
		nameIndex:        b.nameIndex,
		unknownTypeIndex: b.unknownTypeIndex,
	}
}

func (b *spatialBuilder) buildGeometryCache() {
	for _, t := range productTypesWithGeometry {
		for _, entity := range b.resolver.EntitiesByType(t) {
			_, hasRep := entity.GetRef(6)
			b.entitiesWithGeometry[entity.ID] = hasRep
		}
	}
}

func (b *spatialBuilder) buildIndices() {
	for _, id := range b.resolver.AllIDs() {
		entity, ok := b.resolver.Get(id)
		if !ok {
			continue
		}
		b.typeIndex[entity.Type] = append(b.typeIndex[entity.Type], id)
		if entity.Type == IfcTypeUnknown {
			b.unknownTypeIndex[entity.TypeName] = append(b.unknownTypeIndex[entity.TypeName], id)
		}
		if name, ok := entity.GetString(2); ok && name != "" {
			lower := strings.ToLower(name)
			b.nameIndex[lower] = append(b.nameIndex[lower], id)
		}
	}
}

func (b *spatialBuilder) createNode(entity *DecodedEntity) *SpatialNode {
	nodeType := spatialNodeTypeFromIfcType(entity.Type)
	name, _ := entity.GetString(2)
	hasGeometry := b.entitiesWithGeometry[entity.ID]

	node := newSpatialNode(entity.ID, nodeType, name, entity.Type.String()).withGeometry(hasGeometry)
	if guid, ok := entity.GetString(0); ok {
		node.GlobalID = guid
	}
	if entity.Type == IfcBuildingStorey {
		if elevation, ok := entity.GetFloat(9); ok {
			node = node.withElevation(float32(elevation))
		}
	}
	return node
}

func (b *spatialBuilder) addSpatialChildren(parent *SpatialNode, parentID EntityID) {
	for _, rel := range b.resolver.EntitiesByType(IfcRelAggregates) {
		relating, ok := rel.GetRef(4)
		if !ok || relating != parentID {
			continue
		}
		for _, childID := range rel.GetRefs(5) {
			child, ok := b.resolver.Get(childID)
			if !ok {
				continue
			}
			childNode := b.createNode(child)
			b.addSpatialChildren(childNode, childID)
			parent.addChild(childNode)
		}
	}

	for _, rel := range b.resolver.EntitiesByType(IfcRelContainedInSpatialStructure) {
		relating, ok := rel.GetRef(5)
		if !ok || relating != parentID {
			continue
		}
		for _, elemID := range rel.GetRefs(4) {
			elem, ok := b.resolver.Get(elemID)
			if !ok {
				continue
			}
			elemNode := b.createNode(elem)
			if parent.NodeType == SpatialNodeStorey {
				b.elementStoreyMap[elemID] = parentID
			}
			parent.addChild(elemNode)
		}
	}

	// Spatial children before elements; storeys by descending
	// elevation; everything else by (type name, display name).
	sort.SliceStable(parent.Children, func(i, j int) bool {
		a, c := parent.Children[i], parent.Children[j]
		if aSpatial, cSpatial := a.NodeType != SpatialNodeElement, c.NodeType != SpatialNodeElement; aSpatial != cSpatial {
			return aSpatial
		}
		if a.Elevation != nil && c.Elevation != nil {
			return *a.Elevation > *c.Elevation
		}
		if a.EntityType != c.EntityType {
			return a.EntityType < c.EntityType
		}
		return a.Name < c.Name
	})
}

// buildFallbackTree synthesizes a minimal project/site/building
// hierarchy when the file declares no IfcProject, so that every
// element with geometry still ends up reachable from the tree rather
// than silently dropped. A file that declares an IfcProject never
// reaches this path, even when it has no aggregation or containment
// relationships. Any IfcBuildingStorey entities that aren't the
// object of an IfcRelAggregates are attached directly under the
// synthetic building, ordered by descending elevation (matching the
// declared hierarchy's storey ordering convention). Real IfcSite,
// IfcBuilding and IfcSpace entities are not placed by this path.
func (b *spatialBuilder) buildFallbackTree() *SpatialNode {
	root := newSpatialNode(0, SpatialNodeProject, "Unnamed Project", "IFCPROJECT")
	root.Synthetic = true
	root.GlobalID = uuid.New().String()

	site := newSpatialNode(0, SpatialNodeSite, "", "IFCSITE")
	site.Synthetic = true
	site.GlobalID = uuid.New().String()
	root.addChild(site)

	building := newSpatialNode(0, SpatialNodeBuilding, "", "IFCBUILDING")
	building.Synthetic = true
	building.GlobalID = uuid.New().String()
	site.addChild(building)

	storeys := b.resolver.EntitiesByType(IfcBuildingStorey)
	reached := make(map[EntityID]bool)
	for _, rel := range b.resolver.EntitiesByType(IfcRelAggregates) {
		for _, id := range rel.GetRefs(5) {
			reached[id] = true
		}
	}

	var orphanStoreys []*DecodedEntity
	for _, s := range storeys {
		if !reached[s.ID] {
			orphanStoreys = append(orphanStoreys, s)
		}
	}
	sort.Slice(orphanStoreys, func(i, j int) bool {
		ei, _ := orphanStoreys[i].GetFloat(9)
		ej, _ := orphanStoreys[j].GetFloat(9)
		return ei > ej
	})
	for _, s := range orphanStoreys {
		node := b.createNode(s)
		b.addSpatialChildren(node, s.ID)
		building.addChild(node)
	}

	// Any element with geometry that never got attached through a
	// containment relationship is placed directly under the
	// synthetic building as a last resort.
	attached := make(map[EntityID]bool)
	root.Walk(func(n *SpatialNode) { attached[n.ID] = true })
	for _, t := range productTypesWithGeometry {
		for _, elem := range b.resolver.EntitiesByType(t) {
			if attached[elem.ID] || !b.entitiesWithGeometry[elem.ID] {
				continue
			}
			building.addChild(b.createNode(elem))
		}
	}

	return root
}

func (b *spatialBuilder) extractStoreys(root *SpatialNode) []StoreyInfo {
	var storeys []StoreyInfo
	root.Walk(func(n *SpatialNode) {
		if n.NodeType == SpatialNodeStorey {
			elevation := float32(0)
			if n.Elevation != nil {
				elevation = *n.Elevation
			}
			storeys = append(storeys, StoreyInfo{
				ID: n.ID, Name: n.Name, Elevation: elevation, ElementCount: n.ElementCount(),
			})
		}
	})
	sort.Slice(storeys, func(i, j int) bool { return storeys[i].Elevation < storeys[j].Elevation })
	return storeys
}
