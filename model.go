// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import (
	"bytes"
	"fmt"
	"io"
	"time"
)

// ProgressFunc is called periodically while an IfcModel's spatial
// index and type index are being built, processed out of total
// entities scanned so far. It is never called concurrently.
type ProgressFunc func(processed, total int)

// Logger is the minimal structured-logging surface a caller can hand
// to Decode: a single Warnf, the same shape as the teacher's
// Options.Warnf. No code path in this package calls Warnf; decode
// anomalies (a malformed entity, an unresolved reference) are not
// logged.
type Logger interface {
	Warnf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warnf(string, ...any) {}

// Options configures Decode.
type Options struct {
	// R is the STEP Part 21 source. Read to completion.
	R io.Reader

	// Progress, if set, is called as entities are indexed.
	Progress ProgressFunc

	// Logger is accepted and defaults to a no-op logger; Decode emits
	// no warnings through it.
	Logger Logger

	// Timeout bounds the whole decode; zero means no timeout.
	Timeout time.Duration

	// UnitScaleOverride, if non-zero, is used instead of the scale
	// derived from the model's own IfcProject unit assignment.
	UnitScaleOverride float64
}

// IfcModel is a fully indexed STEP/IFC file: its header metadata,
// entity resolver, property/quantity reader, spatial tree, and
// geometry router, all sharing one lazily-decoding entity cache.
type IfcModel struct {
	Metadata ModelMetadata

	resolver   *resolverImpl
	properties *propertyReaderImpl
	spatial    *spatialQueryImpl
	router     *GeometryRouter
	unitScale  float64
}

// Decode reads every byte of opts.R, indexes the model, and returns
// an IfcModel ready for queries. It never runs the geometry router
// over every element up front: Geometry/ElementGeometry decode lazily
// on first request, same as individual entity attributes do.
func Decode(opts Options) (model *IfcModel, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if errp, ok := rec.(error); ok {
				err = errp
			} else {
				err = fmt.Errorf("unknown panic: %v", rec)
			}
		}
	}()

	if opts.R == nil {
		return nil, fmt.Errorf("no reader provided")
	}
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}

	decode := func() (*IfcModel, error) {
		content, err := io.ReadAll(opts.R)
		if err != nil {
			return nil, &IoError{Err: err}
		}
		return decodeContent(content, opts)
	}

	if opts.Timeout <= 0 {
		return decode()
	}

	type result struct {
		model *IfcModel
		err   error
	}
	resc := make(chan result, 1)
	go func() {
		m, e := decode()
		resc <- result{m, e}
	}()
	select {
	case <-time.After(opts.Timeout):
		return nil, fmt.Errorf("decode timed out after %s", opts.Timeout)
	case res := <-resc:
		return res.model, res.err
	}
}

func decodeContent(content []byte, opts Options) (*IfcModel, error) {
	if !bytes.Contains(content, []byte("ISO-10303-21")) {
		return nil, newInvalidFormatErrorf("missing ISO-10303-21 marker")
	}
	if !bytes.Contains(content, []byte("DATA;")) {
		return nil, newInvalidFormatErrorf("missing DATA section")
	}

	header := parseHeader(content)
	resolver := newResolver(content)

	total := resolver.decoder.entityCount()
	if opts.Progress != nil {
		opts.Progress(0, total)
	}

	unitScale := opts.UnitScaleOverride
	if unitScale == 0 {
		unitScale = extractUnitScale(resolver)
	}
	resolver.decoder.setUnitScale(unitScale)

	if opts.Progress != nil {
		opts.Progress(total/3, total)
	}

	properties := buildPropertyReader(resolver)

	if opts.Progress != nil {
		opts.Progress(2*total/3, total)
	}

	spatial := buildSpatialQuery(resolver)

	if opts.Progress != nil {
		opts.Progress(total, total)
	}

	router := NewDefaultGeometryRouter().WithUnitScale(unitScale)

	return &IfcModel{
		Metadata: ModelMetadata{
			SchemaVersion:       header.SchemaVersion,
			OriginatingSystem:   header.OriginatingSystem,
			PreprocessorVersion: header.PreprocessorVersion,
			FileName:            header.FileName,
			FileDescription:     header.FileDescription,
			Author:              header.Author,
			Organization:        header.Organization,
			Timestamp:           header.Timestamp,
		},
		resolver:   resolver,
		properties: properties,
		spatial:    spatial,
		router:     router,
		unitScale:  unitScale,
	}, nil
}

// Resolver returns the model's entity-graph access surface.
func (m *IfcModel) Resolver() EntityResolver { return m.resolver }

// Properties returns the model's property/quantity set reader.
func (m *IfcModel) Properties() PropertyReader { return m.properties }

// Spatial returns the model's spatial containment tree and indices.
func (m *IfcModel) Spatial() SpatialQuery { return m.spatial }

// UnitScale returns the factor that converts the model's native
// length unit to meters.
func (m *IfcModel) UnitScale() float64 { return m.unitScale }

// EntityCount returns the number of entities indexed in the model.
func (m *IfcModel) EntityCount() int { return m.resolver.decoder.entityCount() }

// Geometry decodes and returns the mesh for a single representation
// item (e.g. an IfcExtrudedAreaSolid), in meters, without any
// placement applied.
func (m *IfcModel) Geometry(itemID EntityID) (MeshData, error) {
	entity, ok := m.resolver.Get(itemID)
	if !ok {
		return NewMeshData(), newEntityNotFoundError(itemID)
	}
	return m.router.ProcessRepresentationItem(entity, m.resolver)
}

// ElementGeometry decodes and returns the merged, placed mesh for a
// product entity (wall, door, slab, ...), folding in any void
// openings and the product's own placement chain.
func (m *IfcModel) ElementGeometry(elementID EntityID) (MeshData, error) {
	entity, ok := m.resolver.Get(elementID)
	if !ok {
		return NewMeshData(), newEntityNotFoundError(elementID)
	}
	return m.router.ProcessElement(entity, m.resolver)
}

// AllGeometry decodes every geometry-bearing element's mesh
// concurrently via BatchGeometry and merges the results into one
// mesh, for callers that want the whole model in one buffer rather
// than per-element meshes.
func (m *IfcModel) AllGeometry() (MeshData, error) {
	results, err := m.BatchGeometry(m.EntitiesWithGeometry())
	if err != nil {
		return NewMeshData(), err
	}

	mesh := NewMeshData()
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		mesh.Merge(r.Geometry.Mesh)
	}
	return mesh, nil
}
