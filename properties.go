// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import (
	"fmt"
	"strconv"
	"strings"
)

// Property is one named value in a property set, already formatted
// for display.
type Property struct {
	Name  string
	Value string
	Unit  string
}

// PropertySet is a named collection of properties attached to an
// element via IfcRelDefinesByProperties.
type PropertySet struct {
	ID         EntityID
	Name       string
	Properties []Property
}

// Quantity is one named measurement in an element quantity set.
type Quantity struct {
	Name  string
	Value float64
	Kind  string // "length", "area", "volume", "count", "weight", "time"
}

// QuantitySet is a named collection of quantities, the IfcElementQuantity
// counterpart of PropertySet.
type QuantitySet struct {
	ID         EntityID
	Name       string
	Quantities []Quantity
}

// PropertyReader is the read access surface over an element's
// properties, quantities, and the handful of inline attributes every
// IfcRoot-derived entity carries (GlobalId, Name, Description, ...).
type PropertyReader interface {
	PropertySets(id EntityID) []PropertySet
	Quantities(id EntityID) []QuantitySet
	GlobalID(id EntityID) (string, bool)
	Name(id EntityID) (string, bool)
	Description(id EntityID) (string, bool)
	ObjectType(id EntityID) (string, bool)
	Tag(id EntityID) (string, bool)
}

type propertyReaderImpl struct {
	resolver  EntityResolver
	psetCache map[EntityID][]EntityID // element id -> property-definition ids
	qsetCache map[EntityID][]EntityID
}

// buildPropertyReader scans every IfcRelDefinesByProperties once and
// indexes, for each related object, which property/quantity
// definitions apply to it.
func buildPropertyReader(r EntityResolver) *propertyReaderImpl {
	p := &propertyReaderImpl{
		resolver:  r,
		psetCache: make(map[EntityID][]EntityID),
		qsetCache: make(map[EntityID][]EntityID),
	}
	for _, rel := range r.EntitiesByType(IfcRelDefinesByProperties) {
		relatedIDs := rel.GetRefs(4)
		defRef, ok := rel.Get(5)
		if !ok {
			continue
		}
		defEntity, ok := r.ResolveRef(defRef)
		if !ok {
			continue
		}
		switch defEntity.Type {
		case IfcPropertySet:
			for _, id := range relatedIDs {
				p.psetCache[id] = append(p.psetCache[id], defEntity.ID)
			}
		case IfcElementQuantity:
			for _, id := range relatedIDs {
				p.qsetCache[id] = append(p.qsetCache[id], defEntity.ID)
			}
		}
	}
	return p
}

func (p *propertyReaderImpl) PropertySets(id EntityID) []PropertySet {
	var out []PropertySet
	for _, psetID := range p.psetCache[id] {
		pset, ok := p.resolver.Get(psetID)
		if !ok {
			continue
		}
		props := p.extractProperties(pset)
		if len(props) == 0 {
			continue
		}
		name, _ := pset.GetString(2)
		out = append(out, PropertySet{ID: psetID, Name: name, Properties: props})
	}
	return out
}

func (p *propertyReaderImpl) extractProperties(pset *DecodedEntity) []Property {
	refs, ok := pset.GetList(4)
	if !ok {
		return nil
	}
	var props []Property
	for _, ref := range refs {
		propEntity, ok := p.resolver.ResolveRef(ref)
		if !ok {
			continue
		}
		if prop, ok := p.extractSingleProperty(propEntity); ok {
			props = append(props, prop)
		}
	}
	return props
}

func (p *propertyReaderImpl) extractSingleProperty(prop *DecodedEntity) (Property, bool) {
	name, ok := prop.GetString(0)
	if !ok {
		return Property{}, false
	}

	switch prop.Type {
	case IfcPropertySingleValue:
		v, _ := prop.Get(2)
		unit := p.extractUnit(prop, 3)
		return Property{Name: name, Value: formatAttributeValue(v), Unit: unit}, true
	case IfcPropertyEnumeratedValue:
		v, _ := prop.Get(2)
		return Property{Name: name, Value: formatAttributeValueList(v)}, true
	case IfcPropertyBoundedValue:
		upper, hasUpper := prop.GetFloat(2)
		lower, hasLower := prop.GetFloat(3)
		var value string
		switch {
		case hasLower && hasUpper:
			value = fmt.Sprintf("%s - %s", trimFloat(lower), trimFloat(upper))
		case hasLower:
			value = ">= " + trimFloat(lower)
		case hasUpper:
			value = "<= " + trimFloat(upper)
		}
		return Property{Name: name, Value: value}, true
	case IfcPropertyListValue:
		v, _ := prop.Get(2)
		return Property{Name: name, Value: formatAttributeValueList(v)}, true
	default:
		return Property{}, false
	}
}

func (p *propertyReaderImpl) extractUnit(prop *DecodedEntity, idx int) string {
	ref, ok := prop.Get(idx)
	if !ok || ref.IsNull() {
		return ""
	}
	unit, ok := p.resolver.ResolveRef(ref)
	if !ok {
		return ""
	}
	switch unit.Type {
	case IfcSIUnit:
		prefix, _ := unit.GetEnum(2)
		name, _ := unit.GetEnum(3)
		return unitSymbol(prefix, name)
	case IfcConversionBasedUnit:
		name, _ := unit.GetString(2)
		return name
	default:
		return ""
	}
}

func (p *propertyReaderImpl) Quantities(id EntityID) []QuantitySet {
	var out []QuantitySet
	for _, qsetID := range p.qsetCache[id] {
		qset, ok := p.resolver.Get(qsetID)
		if !ok {
			continue
		}
		quantities := p.extractQuantities(qset)
		if len(quantities) == 0 {
			continue
		}
		name, _ := qset.GetString(2)
		out = append(out, QuantitySet{ID: qsetID, Name: name, Quantities: quantities})
	}
	return out
}

func (p *propertyReaderImpl) extractQuantities(qset *DecodedEntity) []Quantity {
	refs, ok := qset.GetList(5)
	if !ok {
		return nil
	}
	var quantities []Quantity
	for _, ref := range refs {
		qEntity, ok := p.resolver.ResolveRef(ref)
		if !ok {
			continue
		}
		if q, ok := extractSingleQuantity(qEntity); ok {
			quantities = append(quantities, q)
		}
	}
	return quantities
}

func extractSingleQuantity(q *DecodedEntity) (Quantity, bool) {
	name, ok := q.GetString(0)
	if !ok {
		return Quantity{}, false
	}
	var kind string
	switch q.Type {
	case IfcQuantityLength:
		kind = "length"
	case IfcQuantityArea:
		kind = "area"
	case IfcQuantityVolume:
		kind = "volume"
	case IfcQuantityCount:
		kind = "count"
	case IfcQuantityWeight:
		kind = "weight"
	case IfcQuantityTime:
		kind = "time"
	default:
		return Quantity{}, false
	}
	value, ok := q.GetFloat(3)
	if !ok {
		return Quantity{}, false
	}
	return Quantity{Name: name, Value: value, Kind: kind}, true
}

func (p *propertyReaderImpl) GlobalID(id EntityID) (string, bool) {
	e, ok := p.resolver.Get(id)
	if !ok {
		return "", false
	}
	return e.GetString(0)
}

func (p *propertyReaderImpl) Name(id EntityID) (string, bool) {
	e, ok := p.resolver.Get(id)
	if !ok {
		return "", false
	}
	return e.GetString(2)
}

func (p *propertyReaderImpl) Description(id EntityID) (string, bool) {
	e, ok := p.resolver.Get(id)
	if !ok {
		return "", false
	}
	return e.GetString(3)
}

func (p *propertyReaderImpl) ObjectType(id EntityID) (string, bool) {
	e, ok := p.resolver.Get(id)
	if !ok {
		return "", false
	}
	return e.GetString(4)
}

func (p *propertyReaderImpl) Tag(id EntityID) (string, bool) {
	e, ok := p.resolver.Get(id)
	if !ok {
		return "", false
	}
	return e.GetString(7)
}

func formatAttributeValue(v AttributeValue) string {
	if v.IsNull() || v.IsDerived() {
		return ""
	}
	if f, ok := v.AsFloat(); ok {
		if _, isInt := v.AsInteger(); !isInt {
			return trimFloat(f)
		}
	}
	return v.Format()
}

// formatAttributeValueList renders a property value that is itself a
// list of enumerated or list-value members (IfcPropertyEnumeratedValue,
// IfcPropertyListValue) with its members comma-joined, distinct from
// AttributeValue.Format's space-joined rendering used for lists
// elsewhere (e.g. list-typed attributes inside formatAttributeValue).
func formatAttributeValueList(v AttributeValue) string {
	items, ok := v.AsList()
	if !ok {
		return formatAttributeValue(v)
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = formatAttributeValue(item)
	}
	return strings.Join(parts, ", ")
}

func trimFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		return s
	}
	return s
}
