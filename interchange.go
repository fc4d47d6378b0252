// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import (
	"bufio"
	"encoding/binary"
	"io"
	"slices"

	"golang.org/x/sync/errgroup"
)

// ifcbMagic is the 4-byte magic ("IFCB") identifying the binary
// interchange frame, read and written as a single little-endian u32.
const ifcbMagic uint32 = 0x49464342

const ifcbVersion uint32 = 1

// EntityGeometry pairs one entity's mesh with its render transform
// and a default display color, the unit of exchange GetGeometry and
// the interchange frame both deal in.
type EntityGeometry struct {
	EntityID  EntityID
	Mesh      MeshData
	Transform Matrix4
	Color     [4]float32
	TypeName  string
	Name      string
}

// GeometryResult is one outcome of a BatchGeometry call: either Geometry
// is populated and Err is nil, or Err explains why that one id was
// skipped. A batch call never fails as a whole.
type GeometryResult struct {
	EntityID EntityID
	Geometry EntityGeometry
	Err      error
}

// GeometrySource is the optional geometry extension over a decoded
// model: every id with a body representation, on-demand single and
// batch mesh retrieval, and the handful of presentation conveniences
// (default color, total triangle count) a renderer needs without
// re-deriving them itself.
type GeometrySource interface {
	EntitiesWithGeometry() []EntityID
	HasGeometry(id EntityID) bool
	GetGeometry(id EntityID) (EntityGeometry, bool)
	BatchGeometry(ids []EntityID) ([]GeometryResult, error)
	DefaultColor(typeName string) [4]float32
	TotalTriangleCount() int
}

// EntitiesWithGeometry returns every spatial-tree entity id flagged
// as geometry-bearing.
func (m *IfcModel) EntitiesWithGeometry() []EntityID {
	var ids []EntityID
	if m.spatial.tree != nil {
		m.spatial.tree.Walk(func(n *SpatialNode) {
			if n.HasGeometry {
				ids = append(ids, n.ID)
			}
		})
	}
	return ids
}

// HasGeometry reports whether id was indexed as geometry-bearing.
func (m *IfcModel) HasGeometry(id EntityID) bool {
	if m.spatial.tree == nil {
		return false
	}
	n := m.spatial.tree.Find(id)
	return n != nil && n.HasGeometry
}

// GetGeometry decodes and returns id's placed mesh plus its default
// display color, or ok=false if id has no usable geometry.
func (m *IfcModel) GetGeometry(id EntityID) (EntityGeometry, bool) {
	entity, ok := m.resolver.Get(id)
	if !ok {
		return EntityGeometry{}, false
	}
	mesh, err := m.router.ProcessElement(entity, m.resolver)
	if err != nil || mesh.IsEmpty() {
		return EntityGeometry{}, false
	}
	name, _ := m.properties.Name(id)
	return EntityGeometry{
		EntityID:  id,
		Mesh:      mesh,
		Transform: IdentityMatrix4(),
		Color:     m.DefaultColor(entity.Type.String()),
		TypeName:  entity.Type.String(),
		Name:      name,
	}, true
}

// BatchGeometry decodes ids concurrently, one goroutine per id (the
// errgroup has no limit set, so every goroutine is started at once),
// recording each outcome at its own pre-sized slot so the call can
// never fail as a whole and the result order matches ids.
func (m *IfcModel) BatchGeometry(ids []EntityID) ([]GeometryResult, error) {
	results := make([]GeometryResult, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			geom, ok := m.GetGeometry(id)
			if !ok {
				results[i] = GeometryResult{EntityID: id, Err: newEntityNotFoundError(id)}
				return nil
			}
			results[i] = GeometryResult{EntityID: id, Geometry: geom}
			return nil
		})
	}
	_ = g.Wait() // goroutines never return an error themselves; outcomes live in results
	return results, nil
}

var defaultColorByCategory = map[IfcType][4]float32{
	IfcWall:             {0.82, 0.80, 0.78, 1},
	IfcWallStandardCase: {0.82, 0.80, 0.78, 1},
	IfcSlab:             {0.70, 0.70, 0.72, 1},
	IfcBeam:             {0.55, 0.45, 0.35, 1},
	IfcColumn:           {0.55, 0.45, 0.35, 1},
	IfcDoor:             {0.60, 0.42, 0.25, 1},
	IfcWindow:           {0.55, 0.75, 0.85, 0.4},
	IfcRoof:             {0.45, 0.30, 0.25, 1},
	IfcStair:            {0.65, 0.65, 0.65, 1},
	IfcStairFlight:      {0.65, 0.65, 0.65, 1},
	IfcRailing:          {0.40, 0.40, 0.40, 1},
	IfcCovering:         {0.85, 0.85, 0.80, 1},
	IfcOpeningElement:   {1, 1, 1, 0},
	IfcSpace:            {0.3, 0.6, 0.9, 0.15},
}

// DefaultColor returns a reasonable RGBA display color for typeName,
// falling back to a neutral gray for anything not in the table.
func (m *IfcModel) DefaultColor(typeName string) [4]float32 {
	if c, ok := defaultColorByCategory[parseIfcType(typeName)]; ok {
		return c
	}
	return [4]float32{0.75, 0.75, 0.75, 1}
}

// TotalTriangleCount decodes every geometry-bearing entity and sums
// its triangle count. Expensive on a large model; callers that only
// need an estimate should cache the result.
func (m *IfcModel) TotalTriangleCount() int {
	ids := m.EntitiesWithGeometry()
	results, _ := m.BatchGeometry(ids)
	total := 0
	for _, r := range results {
		if r.Err == nil {
			total += r.Geometry.Mesh.TriangleCount()
		}
	}
	return total
}

// RemapYUp converts mesh positions and normals from the file's native
// Z-up axis convention to Y-up: (x, y, z) -> (x, z, -y). The core
// pipeline never does this on its own; it is purely an interchange
// boundary concern, applied only when a collaborator asks for it.
func RemapYUp(mesh MeshData) MeshData {
	remap := func(buf []float32) {
		for i := 0; i+2 < len(buf); i += 3 {
			x, y, z := buf[i], buf[i+1], buf[i+2]
			buf[i], buf[i+1], buf[i+2] = x, z, -y
		}
	}
	remap(mesh.Positions)
	remap(mesh.Normals)
	return mesh
}

// WriteIFCBFrame writes meshes as a single little-endian "IFCB" frame:
// magic, version, mesh count, then per mesh the entity id, position/
// normal/index buffers, RGBA color, a row-major 4x4 transform, and an
// optional type/name pair. Determinism (the same meshes always
// produce the same bytes) falls directly out of writing meshes in the
// order given and never touching map iteration order.
func WriteIFCBFrame(w io.Writer, meshes []EntityGeometry) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, binary.LittleEndian, ifcbMagic); err != nil {
		return &IoError{Err: err}
	}
	if err := binary.Write(bw, binary.LittleEndian, ifcbVersion); err != nil {
		return &IoError{Err: err}
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(meshes))); err != nil {
		return &IoError{Err: err}
	}

	for _, mg := range meshes {
		if err := writeIFCBMesh(bw, mg); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return &IoError{Err: err}
	}
	return nil
}

func writeIFCBMesh(w *bufio.Writer, mg EntityGeometry) error {
	fields := []any{
		uint64(mg.EntityID),
		uint32(len(mg.Mesh.Positions)),
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return &IoError{Err: err}
		}
	}
	if err := binary.Write(w, binary.LittleEndian, mg.Mesh.Positions); err != nil {
		return &IoError{Err: err}
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(mg.Mesh.Normals))); err != nil {
		return &IoError{Err: err}
	}
	if err := binary.Write(w, binary.LittleEndian, mg.Mesh.Normals); err != nil {
		return &IoError{Err: err}
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(mg.Mesh.Indices))); err != nil {
		return &IoError{Err: err}
	}
	if err := binary.Write(w, binary.LittleEndian, mg.Mesh.Indices); err != nil {
		return &IoError{Err: err}
	}

	if err := binary.Write(w, binary.LittleEndian, mg.Color); err != nil {
		return &IoError{Err: err}
	}

	var transform [16]float32
	for i := range 4 {
		for j := range 4 {
			transform[i*4+j] = float32(mg.Transform[i][j])
		}
	}
	if err := binary.Write(w, binary.LittleEndian, transform); err != nil {
		return &IoError{Err: err}
	}

	if err := writeIFCBString(w, mg.TypeName, 255); err != nil {
		return err
	}
	if err := writeIFCBString(w, mg.Name, 255); err != nil {
		return err
	}
	return nil
}

func writeIFCBString(w *bufio.Writer, s string, max int) error {
	if len(s) > max {
		s = s[:max]
	}
	if err := w.WriteByte(byte(len(s))); err != nil {
		return &IoError{Err: err}
	}
	if _, err := w.WriteString(s); err != nil {
		return &IoError{Err: err}
	}
	return nil
}

// ReadIFCBFrame reads back a frame written by WriteIFCBFrame.
func ReadIFCBFrame(r io.Reader) ([]EntityGeometry, error) {
	br := bufio.NewReader(r)

	var magic, version, count uint32
	if err := binary.Read(br, binary.LittleEndian, &magic); err != nil {
		return nil, &IoError{Err: err}
	}
	if magic != ifcbMagic {
		return nil, newInvalidFormatErrorf("not an IFCB frame (bad magic)")
	}
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return nil, &IoError{Err: err}
	}
	if version != ifcbVersion {
		return nil, newInvalidFormatErrorf("unsupported IFCB version %d", version)
	}
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, &IoError{Err: err}
	}

	meshes := make([]EntityGeometry, 0, count)
	for range count {
		mg, err := readIFCBMesh(br)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, mg)
	}
	return meshes, nil
}

func readIFCBMesh(r *bufio.Reader) (EntityGeometry, error) {
	var mg EntityGeometry

	var id uint64
	if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
		return mg, &IoError{Err: err}
	}
	mg.EntityID = EntityID(id)

	var nPos uint32
	if err := binary.Read(r, binary.LittleEndian, &nPos); err != nil {
		return mg, &IoError{Err: err}
	}
	mg.Mesh.Positions = make([]float32, nPos)
	if err := binary.Read(r, binary.LittleEndian, mg.Mesh.Positions); err != nil {
		return mg, &IoError{Err: err}
	}

	var nNor uint32
	if err := binary.Read(r, binary.LittleEndian, &nNor); err != nil {
		return mg, &IoError{Err: err}
	}
	mg.Mesh.Normals = make([]float32, nNor)
	if err := binary.Read(r, binary.LittleEndian, mg.Mesh.Normals); err != nil {
		return mg, &IoError{Err: err}
	}

	var nIdx uint32
	if err := binary.Read(r, binary.LittleEndian, &nIdx); err != nil {
		return mg, &IoError{Err: err}
	}
	mg.Mesh.Indices = make([]uint32, nIdx)
	if err := binary.Read(r, binary.LittleEndian, mg.Mesh.Indices); err != nil {
		return mg, &IoError{Err: err}
	}

	if err := binary.Read(r, binary.LittleEndian, &mg.Color); err != nil {
		return mg, &IoError{Err: err}
	}

	var transform [16]float32
	if err := binary.Read(r, binary.LittleEndian, &transform); err != nil {
		return mg, &IoError{Err: err}
	}
	for i := range 4 {
		for j := range 4 {
			mg.Transform[i][j] = float64(transform[i*4+j])
		}
	}

	typeName, err := readIFCBString(r)
	if err != nil {
		return mg, err
	}
	mg.TypeName = typeName

	name, err := readIFCBString(r)
	if err != nil {
		return mg, err
	}
	mg.Name = name

	return mg, nil
}

func readIFCBString(r *bufio.Reader) (string, error) {
	length, err := r.ReadByte()
	if err != nil {
		return "", &IoError{Err: err}
	}
	if length == 0 {
		return "", nil
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", &IoError{Err: err}
	}
	return string(buf), nil
}

// EntityMetadata is one element of the JSON metadata array exchanged
// alongside the binary geometry frame.
type EntityMetadata struct {
	ID              EntityID  `json:"id"`
	EntityType      string    `json:"entity_type"`
	Name            string    `json:"name,omitempty"`
	Description     string    `json:"description,omitempty"`
	GlobalID        string    `json:"global_id,omitempty"`
	Storey          *EntityID `json:"storey,omitempty"`
	StoreyElevation *float32  `json:"storey_elevation,omitempty"`
}

// EntityMetadataFor builds the JSON-ready metadata record for one
// entity id.
func (m *IfcModel) EntityMetadataFor(id EntityID) (EntityMetadata, bool) {
	entity, ok := m.resolver.Get(id)
	if !ok {
		return EntityMetadata{}, false
	}
	meta := EntityMetadata{ID: id, EntityType: entity.Type.String()}
	meta.Name, _ = m.properties.Name(id)
	meta.Description, _ = m.properties.Description(id)
	meta.GlobalID, _ = m.properties.GlobalID(id)

	if storeyID, ok := m.spatial.ContainingStorey(id); ok {
		meta.Storey = &storeyID
		for _, s := range m.spatial.Storeys() {
			if s.ID == storeyID {
				elev := s.Elevation
				meta.StoreyElevation = &elev
				break
			}
		}
	}
	return meta, true
}

// EntityMetadataAll builds the metadata array for every entity with
// geometry, in ascending id order.
func (m *IfcModel) EntityMetadataAll() []EntityMetadata {
	ids := m.EntitiesWithGeometry()
	slices.Sort(ids)
	out := make([]EntityMetadata, 0, len(ids))
	for _, id := range ids {
		if meta, ok := m.EntityMetadataFor(id); ok {
			out = append(out, meta)
		}
	}
	return out
}
