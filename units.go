// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import "strings"

// Length-unit scale factors to meters, supplementing the decimal
// SI-prefix table below for the common non-SI units a producing
// application may declare via IfcConversionBasedUnit.
const (
	MetreScale      = 1.0
	MillimetreScale = 0.001
	CentimetreScale = 0.01
	KilometreScale  = 1000.0
	InchScale       = 0.0254
	FootScale       = 0.3048
	YardScale       = 0.9144
	MileScale       = 1609.344
)

var siPrefixScale = map[string]float64{
	"EXA":    1e18,
	"PETA":   1e15,
	"TERA":   1e12,
	"GIGA":   1e9,
	"MEGA":   1e6,
	"KILO":   1e3,
	"HECTO":  1e2,
	"DECA":   1e1,
	"DECI":   1e-1,
	"CENTI":  1e-2,
	"MILLI":  1e-3,
	"MICRO":  1e-6,
	"NANO":   1e-9,
	"PICO":   1e-12,
	"FEMTO":  1e-15,
	"ATTO":   1e-18,
}

// extractUnitScale finds the project's length unit and returns its
// scale factor to meters, defaulting to 1.0 (assume the file is
// already in meters) if no project, unit assignment, or length unit
// is found.
func extractUnitScale(r EntityResolver) float64 {
	projects := r.EntitiesByType(IfcProject)
	if len(projects) == 0 {
		return 1.0
	}
	project := projects[0]

	unitsRef, ok := project.Get(8)
	if !ok {
		return 1.0
	}
	unitsEntity, ok := r.ResolveRef(unitsRef)
	if !ok {
		return 1.0
	}

	units, ok := unitsEntity.GetList(0)
	if !ok {
		return 1.0
	}

	for _, u := range units {
		unitEntity, ok := r.ResolveRef(u)
		if !ok {
			continue
		}
		if scale, ok := extractLengthUnitScale(r, unitEntity); ok {
			return scale
		}
	}
	return 1.0
}

func extractLengthUnitScale(r EntityResolver, unit *DecodedEntity) (float64, bool) {
	switch unit.Type {
	case IfcSIUnit:
		return extractSIUnitScale(unit)
	case IfcConversionBasedUnit:
		isLength, ok := unit.GetEnum(1)
		if !ok || isLength != "LENGTHUNIT" {
			return 0, false
		}
		return resolveConversionFactor(r, unit)
	default:
		return 0, false
	}
}

func extractSIUnitScale(unit *DecodedEntity) (float64, bool) {
	unitType, ok := unit.GetEnum(1)
	if !ok || unitType != "LENGTHUNIT" {
		return 0, false
	}

	scale := 1.0
	if prefix, ok := unit.GetEnum(2); ok {
		if s, ok := siPrefixScale[prefix]; ok {
			scale = s
		}
	}

	name, ok := unit.GetEnum(3)
	if !ok || name != "METRE" {
		return 0, false
	}
	return scale, true
}

// resolveConversionFactor follows an IfcConversionBasedUnit's
// ConversionFactor (index 3, after Dimensions/UnitType/Name) ->
// IfcMeasureWithUnit -> recursively resolves its UnitComponent,
// matching the original's extract_conversion_unit_scale.
func resolveConversionFactor(r EntityResolver, unit *DecodedEntity) (float64, bool) {
	ref, ok := unit.Get(3)
	if !ok {
		return 0, false
	}
	measure, ok := r.ResolveRef(ref)
	if !ok || measure.Type != IfcMeasureWithUnit {
		return 0, false
	}

	value, ok := extractMeasureValue(measure)
	if !ok {
		return 0, false
	}

	componentRef, ok := measure.Get(1)
	if !ok {
		return value, true
	}
	component, ok := r.ResolveRef(componentRef)
	if !ok {
		return value, true
	}
	baseScale, ok := extractLengthUnitScale(r, component)
	if !ok {
		return value, true
	}
	return value * baseScale, true
}

func extractMeasureValue(measure *DecodedEntity) (float64, bool) {
	v, ok := measure.Get(0)
	if !ok {
		return 0, false
	}
	return v.AsFloat()
}

// unitSymbol maps an IfcSIUnit's prefix+name to a short display
// symbol, used by the property reader.
func unitSymbol(prefix, name string) string {
	var p string
	switch prefix {
	case "MILLI":
		p = "m"
	case "CENTI":
		p = "c"
	case "KILO":
		p = "k"
	}
	var base string
	switch strings.ToUpper(name) {
	case "METRE":
		base = "m"
	case "SQUARE_METRE":
		base = "m²"
	case "CUBIC_METRE":
		base = "m³"
	case "GRAM":
		base = "g"
	case "SECOND":
		base = "s"
	case "KELVIN":
		base = "K"
	case "AMPERE":
		base = "A"
	default:
		base = strings.ToLower(name)
	}
	return p + base
}
