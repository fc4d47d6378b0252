// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

// EntityID is a STEP entity instance name, the numeric part of a
// "#123=..." record. Zero is never a valid id; it is used as the
// not-found sentinel return value by the positional accessors below.
type EntityID uint32

// DecodedEntity is one fully parsed STEP record: its id, its
// resolved IfcType (or IfcTypeUnknown with typeName preserved), and
// its attribute list in file order.
type DecodedEntity struct {
	ID         EntityID
	Type       IfcType
	TypeName   string // raw STEP keyword, always set, even for known types
	Attributes []AttributeValue
}

// Get returns the attribute at the given zero-based position, or
// false if idx is out of range.
func (e *DecodedEntity) Get(idx int) (AttributeValue, bool) {
	if idx < 0 || idx >= len(e.Attributes) {
		return AttributeValue{}, false
	}
	return e.Attributes[idx], true
}

// GetRef returns the entity reference at idx, if present.
func (e *DecodedEntity) GetRef(idx int) (EntityID, bool) {
	v, ok := e.Get(idx)
	if !ok {
		return 0, false
	}
	return v.AsEntityRef()
}

// GetRefs returns the entity references in a list attribute at idx,
// skipping any list elements that are not references.
func (e *DecodedEntity) GetRefs(idx int) []EntityID {
	v, ok := e.Get(idx)
	if !ok {
		return nil
	}
	list, ok := v.AsList()
	if !ok {
		return nil
	}
	refs := make([]EntityID, 0, len(list))
	for _, item := range list {
		if id, ok := item.AsEntityRef(); ok {
			refs = append(refs, id)
		}
	}
	return refs
}

// GetString returns the string or enum value at idx, if present.
func (e *DecodedEntity) GetString(idx int) (string, bool) {
	v, ok := e.Get(idx)
	if !ok {
		return "", false
	}
	return v.AsString()
}

// GetFloat returns the numeric value at idx (integers widen), if present.
func (e *DecodedEntity) GetFloat(idx int) (float64, bool) {
	v, ok := e.Get(idx)
	if !ok {
		return 0, false
	}
	return v.AsFloat()
}

// GetInteger returns the integer value at idx, if present.
func (e *DecodedEntity) GetInteger(idx int) (int64, bool) {
	v, ok := e.Get(idx)
	if !ok {
		return 0, false
	}
	return v.AsInteger()
}

// GetBool returns the boolean value at idx, if present.
func (e *DecodedEntity) GetBool(idx int) (bool, bool) {
	v, ok := e.Get(idx)
	if !ok {
		return false, false
	}
	return v.AsBool()
}

// GetEnum returns the enumeration token at idx, if present.
func (e *DecodedEntity) GetEnum(idx int) (string, bool) {
	v, ok := e.Get(idx)
	if !ok {
		return "", false
	}
	return v.AsEnum()
}

// GetList returns the list elements at idx, if present.
func (e *DecodedEntity) GetList(idx int) ([]AttributeValue, bool) {
	v, ok := e.Get(idx)
	if !ok {
		return nil, false
	}
	return v.AsList()
}

// MeshData is a flat triangle-mesh buffer: every three consecutive
// indices form one triangle, and every vertex contributes exactly
// three floats to positions (and, if present, three to normals).
// Meshes produced by the geometry router are in meters, in the file's
// native (Z-up) axis convention, after unit-scale and placement have
// been applied; RemapYUp converts a mesh to Y-up on request.
type MeshData struct {
	Positions []float32
	Normals   []float32
	Indices   []uint32
}

// NewMeshData returns an empty mesh.
func NewMeshData() MeshData { return MeshData{} }

// MeshDataWithCapacity returns an empty mesh with its slices
// preallocated for the given vertex/index counts.
func MeshDataWithCapacity(vertices, indices int) MeshData {
	return MeshData{
		Positions: make([]float32, 0, vertices*3),
		Normals:   make([]float32, 0, vertices*3),
		Indices:   make([]uint32, 0, indices),
	}
}

// IsEmpty reports whether the mesh has no vertices.
func (m MeshData) IsEmpty() bool { return len(m.Positions) == 0 }

// VertexCount returns the number of vertices (Positions has 3 floats
// per vertex).
func (m MeshData) VertexCount() int { return len(m.Positions) / 3 }

// TriangleCount returns the number of triangles (Indices has 3 per
// triangle).
func (m MeshData) TriangleCount() int { return len(m.Indices) / 3 }

// Merge appends other's vertices and triangles into m, re-indexing
// other's triangle indices by m's current vertex count so the
// combined buffer stays internally consistent.
func (m *MeshData) Merge(other MeshData) {
	if other.IsEmpty() {
		return
	}
	offset := uint32(m.VertexCount())
	m.Positions = append(m.Positions, other.Positions...)
	if len(other.Normals) > 0 {
		for len(m.Normals) < len(m.Positions)-len(other.Positions) {
			m.Normals = append(m.Normals, 0)
		}
		m.Normals = append(m.Normals, other.Normals...)
	} else if len(m.Normals) > 0 {
		m.Normals = append(m.Normals, make([]float32, len(other.Positions))...)
	}
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, idx+offset)
	}
}

// ModelMetadata is the STEP HEADER section, normalized. Every field,
// SchemaVersion included, is empty when the file omits the matching
// header record; otherwise it reflects whatever the producing
// application chose to fill in.
type ModelMetadata struct {
	SchemaVersion        string
	OriginatingSystem    string
	PreprocessorVersion  string
	FileName             string
	FileDescription      string
	Author               string
	Organization         string
	Timestamp            string
}
