// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import "strings"

// EntityResolver is the read-only entity-graph access surface handed
// to every downstream subsystem (units, spatial, properties,
// geometry). Implementations must be safe for concurrent use by
// multiple readers.
type EntityResolver interface {
	Get(id EntityID) (*DecodedEntity, bool)
	ResolveRef(v AttributeValue) (*DecodedEntity, bool)
	ResolveRefList(v AttributeValue) []*DecodedEntity
	EntitiesByType(t IfcType) []*DecodedEntity
	FindByTypeName(name string) []*DecodedEntity
	CountByType(t IfcType) int
	AllIDs() []EntityID
	RawBytes(id EntityID) ([]byte, bool)
}

// resolverImpl is the concrete EntityResolver. It builds its id->type
// index eagerly at construction (one pass over the whole file,
// recording only id and type keyword per entity) while leaving full
// attribute decoding lazy through entityDecoder — reconciling the two
// different eagerness levels the original keeps in separate structs
// (EntityDecoder builds only its byte index eagerly; ResolverImpl
// additionally parses every entity's type up front in its
// constructor) into one Go type.
type resolverImpl struct {
	decoder   *entityDecoder
	typeIndex map[IfcType][]EntityID
	// unknownTypeIndex holds entities whose STEP keyword parsed to the
	// IfcTypeUnknown sentinel, keyed by that raw uppercased keyword
	// instead, so that e.g. IFCPOLYLINE and IFCSTYLEDITEM entities
	// stay distinguishable even though they share one IfcType value.
	unknownTypeIndex map[string][]EntityID
}

func newResolver(content []byte) *resolverImpl {
	index := BuildEntityIndex(content)
	decoder := newEntityDecoder(content, index)

	typeIndex := make(map[IfcType][]EntityID)
	unknownTypeIndex := make(map[string][]EntityID)
	scanner := newEntityScanner(content)
	for {
		id, typeName, _, ok := scanner.nextEntity()
		if !ok {
			break
		}
		t := parseIfcType(typeName)
		typeIndex[t] = append(typeIndex[t], id)
		if t == IfcTypeUnknown {
			upper := strings.ToUpper(typeName)
			unknownTypeIndex[upper] = append(unknownTypeIndex[upper], id)
		}
	}

	return &resolverImpl{decoder: decoder, typeIndex: typeIndex, unknownTypeIndex: unknownTypeIndex}
}

func (r *resolverImpl) Get(id EntityID) (*DecodedEntity, bool) {
	e, err := r.decoder.decodeByID(id)
	if err != nil {
		return nil, false
	}
	return e, true
}

func (r *resolverImpl) ResolveRef(v AttributeValue) (*DecodedEntity, bool) {
	id, ok := v.AsEntityRef()
	if !ok {
		return nil, false
	}
	return r.Get(id)
}

func (r *resolverImpl) ResolveRefList(v AttributeValue) []*DecodedEntity {
	list, ok := v.AsList()
	if !ok {
		return nil
	}
	var out []*DecodedEntity
	for _, item := range list {
		if e, ok := r.ResolveRef(item); ok {
			out = append(out, e)
		}
	}
	return out
}

func (r *resolverImpl) EntitiesByType(t IfcType) []*DecodedEntity {
	ids := r.typeIndex[t]
	out := make([]*DecodedEntity, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.Get(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// FindByTypeName resolves entities by their raw STEP keyword. For a
// keyword the type table recognizes this is equivalent to
// EntitiesByType(parseIfcType(name)); for an unrecognized keyword it
// looks the name up in unknownTypeIndex instead of EntitiesByType, so
// unrelated unknown types (which all share the IfcTypeUnknown
// sentinel) aren't merged together.
func (r *resolverImpl) FindByTypeName(name string) []*DecodedEntity {
	t := parseIfcType(name)
	if t != IfcTypeUnknown {
		return r.EntitiesByType(t)
	}
	ids := r.unknownTypeIndex[strings.ToUpper(name)]
	out := make([]*DecodedEntity, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.Get(id); ok {
			out = append(out, e)
		}
	}
	return out
}

func (r *resolverImpl) CountByType(t IfcType) int { return len(r.typeIndex[t]) }

func (r *resolverImpl) AllIDs() []EntityID { return r.decoder.allIDs() }

func (r *resolverImpl) RawBytes(id EntityID) ([]byte, bool) { return r.decoder.rawBytes(id) }
